// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// DVDConverter - DVD 光盘视频转换工具
//
// Package skills probes the FFmpeg binary for the capabilities the
// converter relies on. A binary whose version can't be parsed is treated
// as absent, which is a fatal startup condition for the whole tool.

package skills

import (
	"bufio"
	"bytes"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

// RequiredEncoders are the encoders the format profiles depend on.
var RequiredEncoders = []string{"libx264", "libvpx-vp9", "aac", "mov_text"}

// RequiredMuxers are the container muxers behind the format enumeration.
var RequiredMuxers = []string{"mp4", "3gp", "matroska", "webm"}

// Library represents a linked av library
type Library struct {
	Name     string
	Compiled string
	Linked   string
}

type ffmpegInfo struct {
	Version       string
	Compiler      string
	Configuration string
	Libraries     []Library
}

// Skills are the detected capabilities of FFmpeg
type Skills struct {
	FFmpeg   ffmpegInfo
	Encoders []string
	Muxers   []string
}

// HasEncoder reports whether the named encoder was detected.
func (s Skills) HasEncoder(name string) bool {
	for _, e := range s.Encoders {
		if e == name {
			return true
		}
	}
	return false
}

// HasMuxer reports whether the named muxer was detected.
func (s Skills) HasMuxer(name string) bool {
	for _, m := range s.Muxers {
		if m == name {
			return true
		}
	}
	return false
}

// MissingEncoders returns the required encoders the binary lacks.
func (s Skills) MissingEncoders() []string {
	var missing []string
	for _, e := range RequiredEncoders {
		if !s.HasEncoder(e) {
			missing = append(missing, e)
		}
	}
	return missing
}

// New probes the binary and returns the skills the converter cares about
func New(binary string) (Skills, error) {
	c := Skills{}

	ff, err := getVersion(binary)
	if ff.Version == "" || err != nil {
		if err != nil {
			return Skills{}, fmt.Errorf("can't parse ffmpeg version: %w", err)
		}
		return Skills{}, fmt.Errorf("can't parse ffmpeg version")
	}
	c.FFmpeg = ff

	c.Encoders = getEncoders(binary)
	c.Muxers = getMuxers(binary)

	return c, nil
}

func getVersion(binary string) (ffmpegInfo, error) {
	cmd := exec.Command(binary, "-version")
	cmd.Env = []string{}
	out, err := cmd.CombinedOutput()
	if err != nil {
		return ffmpegInfo{}, err
	}
	return parseVersion(out), nil
}

func parseVersion(data []byte) ffmpegInfo {
	f := ffmpegInfo{}
	reVersion := regexp.MustCompile(`^ffmpeg version ([0-9]+\.[0-9]+(\.[0-9]+)?)`)
	reCompiler := regexp.MustCompile(`(?m)^\s*built with (.*)$`)
	reConfiguration := regexp.MustCompile(`(?m)^\s*configuration: (.*)$`)
	reLibrary := regexp.MustCompile(`(?m)^\s*(lib(?:[a-z]+))\s+([0-9]+\.\s*[0-9]+\.\s*[0-9]+) /\s+([0-9]+\.\s*[0-9]+\.\s*[0-9]+)`)

	if m := reVersion.FindSubmatch(data); m != nil {
		f.Version = string(m[1])
		if len(m[2]) == 0 {
			f.Version += ".0"
		}
	}
	if m := reCompiler.FindSubmatch(data); m != nil {
		f.Compiler = string(m[1])
	}
	if m := reConfiguration.FindSubmatch(data); m != nil {
		f.Configuration = string(m[1])
	}
	for _, m := range reLibrary.FindAllSubmatch(data, -1) {
		f.Libraries = append(f.Libraries, Library{
			Name:     string(m[1]),
			Compiled: string(m[2]),
			Linked:   string(m[3]),
		})
	}
	return f
}

func getEncoders(binary string) []string {
	cmd := exec.Command(binary, "-encoders")
	cmd.Env = []string{}
	stdout, _ := cmd.Output()
	return parseEncoders(stdout)
}

func parseEncoders(data []byte) []string {
	var encoders []string
	re := regexp.MustCompile(`^\s[VAS][F.][S.][X.][B.][D.] ([0-9A-Za-z_-]+)\s+`)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		if m := re.FindStringSubmatch(scanner.Text()); m != nil {
			encoders = append(encoders, m[1])
		}
	}
	return encoders
}

func getMuxers(binary string) []string {
	cmd := exec.Command(binary, "-formats")
	cmd.Env = []string{}
	stdout, _ := cmd.Output()
	return parseMuxers(stdout)
}

func parseMuxers(data []byte) []string {
	var muxers []string
	re := regexp.MustCompile(`^\s[D ]E ([0-9A-Za-z_,]+)\s+`)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		m := re.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		// 同一行可能列出逗号分隔的多个名字
		for _, id := range strings.Split(m[1], ",") {
			muxers = append(muxers, id)
		}
	}
	return muxers
}
