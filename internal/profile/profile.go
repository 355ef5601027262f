// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// DVDConverter - DVD 光盘视频转换工具
//
// Package profile maps an output format to its fixed transcode settings.

package profile

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnsupportedFormat = errors.New("unsupported output format")

// Format is one of the supported output container formats.
type Format string

const (
	FormatMP4     Format = "mp4"
	FormatThreeGP Format = "3gp"
	FormatMKV     Format = "mkv"
	FormatWebM    Format = "webm"
)

// Formats lists every supported format in display order.
func Formats() []Format {
	return []Format{FormatMP4, FormatThreeGP, FormatMKV, FormatWebM}
}

// Parse normalizes a user-supplied format string.
func Parse(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))) {
	case FormatMP4:
		return FormatMP4, nil
	case FormatThreeGP:
		return FormatThreeGP, nil
	case FormatMKV:
		return FormatMKV, nil
	case FormatWebM:
		return FormatWebM, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Profile is the fixed parameter bundle for one output format.
type Profile struct {
	Format       Format
	VideoCodec   string
	Preset       string
	CRF          int
	MaxRate      string
	BufSize      string
	VideoBitrate string
	H264Profile  string
	H264Level    string
	Scale        string
	AudioCodec   string
	AudioBitrate string
	FastStart    bool
	Description  string
}

// 各格式的固定压缩参数,与文档承诺的体积档位一致
var profiles = map[Format]Profile{
	FormatMP4: {
		Format:       FormatMP4,
		VideoCodec:   "libx264",
		Preset:       "veryslow",
		CRF:          30,
		MaxRate:      "300k",
		BufSize:      "600k",
		H264Profile:  "baseline",
		H264Level:    "3.0",
		Scale:        "640:480",
		AudioCodec:   "aac",
		AudioBitrate: "48k",
		FastStart:    true,
		Description:  "High compression MP4, targeting <200MB",
	},
	FormatThreeGP: {
		Format:       FormatThreeGP,
		VideoCodec:   "libx264",
		Preset:       "veryslow",
		CRF:          32,
		MaxRate:      "200k",
		BufSize:      "400k",
		H264Profile:  "baseline",
		H264Level:    "1.3",
		Scale:        "320:240",
		AudioCodec:   "aac",
		AudioBitrate: "32k",
		Description:  "Mobile 3GP, very small file size",
	},
	FormatMKV: {
		Format:       FormatMKV,
		VideoCodec:   "libx264",
		Preset:       "slow",
		CRF:          26,
		MaxRate:      "500k",
		BufSize:      "1000k",
		Scale:        "720:576",
		AudioCodec:   "aac",
		AudioBitrate: "128k",
		Description:  "MKV, quality/size balance at DVD resolution",
	},
	FormatWebM: {
		Format:       FormatWebM,
		VideoCodec:   "libvpx-vp9",
		CRF:          32,
		VideoBitrate: "300k",
		Scale:        "640:480",
		AudioCodec:   "aac",
		AudioBitrate: "64k",
		Description:  "Web-optimized WebM with VP9",
	},
}

// Resolve returns the profile for a format. Total over the closed set of
// supported formats; anything else is ErrUnsupportedFormat.
func Resolve(f Format) (Profile, error) {
	p, ok := profiles[f]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
	return p, nil
}

// VideoArgs returns the ffmpeg video encoding arguments for the profile,
// applied verbatim so the format's size/quality tier holds.
func (p Profile) VideoArgs() []string {
	args := []string{"-c:v", p.VideoCodec}
	if p.Preset != "" {
		args = append(args, "-preset", p.Preset)
	}
	args = append(args, "-crf", fmt.Sprintf("%d", p.CRF))
	if p.MaxRate != "" {
		args = append(args, "-maxrate", p.MaxRate, "-bufsize", p.BufSize)
	}
	if p.VideoBitrate != "" {
		args = append(args, "-b:v", p.VideoBitrate)
	}
	if p.H264Profile != "" {
		args = append(args, "-profile:v", p.H264Profile, "-level", p.H264Level)
	}
	args = append(args, "-vf", "scale="+p.Scale)
	if p.FastStart {
		args = append(args, "-movflags", "+faststart")
	}
	return args
}
