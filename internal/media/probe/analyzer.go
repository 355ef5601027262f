// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// DVDConverter - DVD 光盘视频转换工具

package probe

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"
)

var ErrAnalysisFailed = errors.New("no usable stream metadata")

// AudioTrack is one audio stream of the title.
type AudioTrack struct {
	Index    int    `json:"index"`
	Language string `json:"language"`
	Codec    string `json:"codec"`
	Channels int    `json:"channels"`
	Title    string `json:"title"`
}

// SubtitleTrack is one subtitle stream of the title.
type SubtitleTrack struct {
	Index    int    `json:"index"`
	Language string `json:"language"`
	Codec    string `json:"codec"`
	Title    string `json:"title"`
}

// VideoTrack describes the title's video stream.
type VideoTrack struct {
	Index     int     `json:"index"`
	Codec     string  `json:"codec"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	FrameRate float64 `json:"frame_rate"`
}

// Summary is the immutable analysis result for one source.
type Summary struct {
	Title           string          `json:"title"`
	Video           []VideoTrack    `json:"video_streams"`
	Audio           []AudioTrack    `json:"audio_streams"`
	Subtitles       []SubtitleTrack `json:"subtitle_streams"`
	DurationSeconds float64         `json:"duration_seconds"`
	SegmentCount    int             `json:"segment_count"`
}

// Analyzer runs ffprobe over a source's segments and aggregates the
// results. The inspect hook exists so tests can feed canned results.
type Analyzer struct {
	Binary  string
	inspect func(ctx context.Context, binary, path string) (Result, error)
}

// NewAnalyzer creates an Analyzer using the given ffprobe binary.
func NewAnalyzer(binary string) *Analyzer {
	return &Analyzer{Binary: binary, inspect: Inspect}
}

// Analyze probes every segment, skipping individual failures, and builds a
// Summary. Track order follows segment file order, then in-file stream
// order. Fails with ErrAnalysisFailed when no segment yields usable data.
func (a *Analyzer) Analyze(ctx context.Context, sourcePath string, segmentPaths []string) (*Summary, error) {
	inspect := a.inspect
	if inspect == nil {
		inspect = Inspect
	}

	summary := &Summary{SegmentCount: len(segmentPaths)}
	usable := 0

	for _, path := range segmentPaths {
		result, err := inspect(ctx, a.Binary, path)
		if err != nil {
			continue
		}
		if len(result.Streams) == 0 && result.DurationSeconds() == 0 {
			continue
		}
		usable++

		// 总时长为各 VOB 时长之和
		summary.DurationSeconds += result.DurationSeconds()

		if summary.Title == "" {
			summary.Title = result.Format.Tags["title"]
		}

		// 流信息只取第一个可用分段,后续分段的流布局相同
		if usable == 1 {
			a.collectStreams(summary, result)
		}
	}

	if usable == 0 {
		return nil, fmt.Errorf("%w: %s", ErrAnalysisFailed, sourcePath)
	}

	summary.Title = SanitizeTitle(summary.Title, filepath.Base(sourcePath))
	return summary, nil
}

func (a *Analyzer) collectStreams(summary *Summary, result Result) {
	for _, stream := range result.Streams {
		switch stream.CodecType {
		case "video":
			summary.Video = append(summary.Video, VideoTrack{
				Index:     stream.Index,
				Codec:     stream.CodecName,
				Width:     stream.Width,
				Height:    stream.Height,
				FrameRate: parseFrameRate(stream.RFrameRate, stream.AvgFrameRate),
			})
		case "audio":
			n := len(summary.Audio) + 1
			summary.Audio = append(summary.Audio, AudioTrack{
				Index:    stream.Index,
				Language: stream.language(),
				Codec:    stream.CodecName,
				Channels: stream.Channels,
				Title:    stream.title(fmt.Sprintf("Audio %d", n)),
			})
		case "subtitle":
			n := len(summary.Subtitles) + 1
			summary.Subtitles = append(summary.Subtitles, SubtitleTrack{
				Index:    stream.Index,
				Language: stream.language(),
				Codec:    stream.CodecName,
				Title:    stream.title(fmt.Sprintf("Subtitle %d", n)),
			})
		}
	}
}

// parseFrameRate decodes ffprobe's "num/den" rate strings.
func parseFrameRate(rates ...string) float64 {
	for _, rate := range rates {
		num, den, ok := strings.Cut(rate, "/")
		if !ok {
			continue
		}
		n, err1 := strconv.ParseFloat(num, 64)
		d, err2 := strconv.ParseFloat(den, 64)
		if err1 != nil || err2 != nil || d == 0 {
			continue
		}
		return n / d
	}
	return 0
}

// SanitizeTitle turns a container title (or the volume name as fallback)
// into a safe filename stem.
func SanitizeTitle(title, fallback string) string {
	if title == "" || title == "Unknown_DVD" {
		title = fallback
	}

	var b strings.Builder
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	clean := strings.ReplaceAll(strings.TrimSpace(b.String()), " ", "_")
	if clean == "" {
		clean = "DVD_Conversion"
	}
	return clean
}
