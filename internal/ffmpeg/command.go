// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// DVDConverter - DVD 光盘视频转换工具

package ffmpeg

import (
	"fmt"

	"github.com/mmorency2021/dvd-converter-tools/internal/media/probe"
	"github.com/mmorency2021/dvd-converter-tools/internal/profile"
)

// CommandSpec describes one conversion run.
type CommandSpec struct {
	ConcatListPath string
	Profile        profile.Profile
	Summary        *probe.Summary
	// AudioTracks are 0-based positions among the source's audio streams.
	// Empty means "map the first track with default settings".
	AudioTracks      []int
	IncludeSubtitles bool
	OutputPath       string
}

// CreateCommand builds the FFmpeg argument list for a conversion. The
// profile's video settings are applied verbatim.
func CreateCommand(spec CommandSpec) []string {
	cmd := []string{"-f", "concat", "-safe", "0", "-i", spec.ConcatListPath}

	cmd = append(cmd, spec.Profile.VideoArgs()...)

	if len(spec.AudioTracks) > 0 && spec.Summary != nil && len(spec.Summary.Audio) > 0 {
		cmd = append(cmd, "-map", "0:v:0")
		for n, pos := range spec.AudioTracks {
			if pos < 0 || pos >= len(spec.Summary.Audio) {
				continue
			}
			track := spec.Summary.Audio[pos]
			cmd = append(cmd, "-map", fmt.Sprintf("0:a:%d", pos))
			cmd = append(cmd, fmt.Sprintf("-c:a:%d", n), spec.Profile.AudioCodec)
			cmd = append(cmd, fmt.Sprintf("-b:a:%d", n), spec.Profile.AudioBitrate)
			if track.Language != "unknown" {
				cmd = append(cmd, fmt.Sprintf("-metadata:s:a:%d", n), "language="+track.Language)
				cmd = append(cmd, fmt.Sprintf("-metadata:s:a:%d", n), "title="+track.Title)
			}
		}
	} else {
		// 默认只保留第一条音轨
		cmd = append(cmd, "-c:a", spec.Profile.AudioCodec, "-b:a", spec.Profile.AudioBitrate)
	}

	if spec.IncludeSubtitles && spec.Summary != nil {
		if codec := subtitleCodec(spec.Profile.Format); codec != "" {
			for n, sub := range spec.Summary.Subtitles {
				cmd = append(cmd, "-map", fmt.Sprintf("0:s:%d", n))
				cmd = append(cmd, fmt.Sprintf("-c:s:%d", n), codec)
				if sub.Language != "unknown" {
					cmd = append(cmd, fmt.Sprintf("-metadata:s:s:%d", n), "language="+sub.Language)
					cmd = append(cmd, fmt.Sprintf("-metadata:s:s:%d", n), "title="+sub.Title)
				}
			}
		}
	}

	cmd = append(cmd, "-y", spec.OutputPath)
	return cmd
}

// subtitleCodec picks the subtitle codec a container can carry. WebM has
// no usable subtitle track support, so subtitles are dropped there.
func subtitleCodec(f profile.Format) string {
	switch f {
	case profile.FormatMP4, profile.FormatThreeGP:
		return "mov_text"
	case profile.FormatMKV:
		return "copy"
	}
	return ""
}
