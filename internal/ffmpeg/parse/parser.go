// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// DVDConverter - DVD 光盘视频转换工具
//
// Package parse extracts progress info from FFmpeg stderr output.

package parse

import (
	"container/ring"
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mmorency2021/dvd-converter-tools/internal/process"
)

// Progress holds transcode progress parsed from stderr.
type Progress struct {
	Frame    uint64  `json:"frame"`
	Size     uint64  `json:"size_bytes"`
	Time     float64 `json:"time_seconds"`
	Duration float64 `json:"duration_seconds"`
	Speed    float64 `json:"speed"`
}

// Percent derives the completion percentage from elapsed time and the
// known total duration. Returns -1 when the duration is unknown so the
// caller never fabricates a percentage.
func (p Progress) Percent(totalDuration float64) int {
	if totalDuration <= 0 {
		totalDuration = p.Duration
	}
	if totalDuration <= 0 {
		return -1
	}
	pct := int(math.Round(100 * p.Time / totalDuration))
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return pct
}

// Parser implements process.Parser and parses FFmpeg stderr
type Parser interface {
	process.Parser
	Progress() Progress
}

type parser struct {
	re struct {
		duration *regexp.Regexp
		frame    *regexp.Regexp
		size     *regexp.Regexp
		time     *regexp.Regexp
		speed    *regexp.Regexp
	}

	log      *ring.Ring
	logLines int
	logStart time.Time

	progress Progress
	lock     sync.RWMutex
}

// Config for the parser
type Config struct {
	LogLines int
}

// New creates a Parser
func New(config Config) Parser {
	p := &parser{
		logLines: config.LogLines,
	}
	if p.logLines <= 0 {
		p.logLines = 100
	}
	p.re.duration = regexp.MustCompile(`Duration:\s*([0-9]+):([0-9]{2}):([0-9]{2})\.([0-9]+)`)
	p.re.frame = regexp.MustCompile(`frame=\s*([0-9]+)`)
	p.re.size = regexp.MustCompile(`size=\s*([0-9]+)kB`)
	p.re.time = regexp.MustCompile(`time=\s*([0-9]+):([0-9]{2}):([0-9]{2})\.([0-9]+)`) // 支持 .0 .00 .000 等
	p.re.speed = regexp.MustCompile(`speed=\s*([0-9\.]+)x`)

	p.log = ring.New(p.logLines)
	p.logStart = time.Now()
	return p
}

func (p *parser) Parse(line string) uint64 {
	now := time.Now()
	isProgress := strings.Contains(line, "time=")

	p.lock.Lock()
	defer p.lock.Unlock()

	// 所有行都计入日志,便于失败时取诊断信息
	p.log.Value = process.Line{Timestamp: now, Data: line}
	p.log = p.log.Next()

	// 头部只出现一次的 Duration 行给出总时长
	if p.progress.Duration == 0 {
		if m := p.re.duration.FindStringSubmatch(line); m != nil {
			p.progress.Duration = clockToSeconds(m)
		}
	}

	if !isProgress {
		return 0
	}

	if m := p.re.frame.FindStringSubmatch(line); m != nil {
		if x, err := strconv.ParseUint(m[1], 10, 64); err == nil {
			p.progress.Frame = x
		}
	}
	if m := p.re.size.FindStringSubmatch(line); m != nil {
		if x, err := strconv.ParseUint(m[1], 10, 64); err == nil {
			p.progress.Size = x * 1024
		}
	}
	if m := p.re.time.FindStringSubmatch(line); m != nil {
		// 重复或乱序的行不回退已记录的时间
		if t := clockToSeconds(m); t > p.progress.Time {
			p.progress.Time = t
		}
	}
	if m := p.re.speed.FindStringSubmatch(line); m != nil {
		if x, err := strconv.ParseFloat(m[1], 64); err == nil {
			p.progress.Speed = x
		}
	}

	return p.progress.Frame + 1
}

// clockToSeconds converts a HH:MM:SS.frac submatch to seconds.
func clockToSeconds(m []string) float64 {
	h, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	s, _ := strconv.Atoi(m[3])
	frac := 0.0
	if len(m) > 4 && len(m[4]) > 0 {
		if x, err := strconv.ParseUint(m[4], 10, 64); err == nil {
			div := 1.0
			for range m[4] {
				div *= 10
			}
			frac = float64(x) / div
		}
	}
	return float64(h*3600+mm*60+s) + frac
}

func (p *parser) ResetStats() {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.progress = Progress{}
}

func (p *parser) ResetLog() {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.log = ring.New(p.logLines)
	p.logStart = time.Now()
}

func (p *parser) Log() []process.Line {
	var out []process.Line
	p.lock.RLock()
	p.log.Do(func(v interface{}) {
		if v != nil {
			out = append(out, v.(process.Line))
		}
	})
	p.lock.RUnlock()
	return out
}

func (p *parser) Progress() Progress {
	p.lock.RLock()
	defer p.lock.RUnlock()
	return p.progress
}
