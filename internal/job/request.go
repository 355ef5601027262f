// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// DVDConverter - DVD 光盘视频转换工具

package job

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mmorency2021/dvd-converter-tools/internal/media/probe"
	"github.com/mmorency2021/dvd-converter-tools/internal/profile"
)

// Request is a validated conversion order.
type Request struct {
	// SourcePath is the DVD volume root. Empty means auto-detect via the
	// configured mount roots.
	SourcePath string
	Format     string
	// Filename is the output filename; empty derives one from the DVD
	// title plus a timestamp. The format's extension is enforced.
	Filename  string
	OutputDir string
	// AudioTracks is "all", "first" or a comma list of 0-based track
	// positions, e.g. "0,2".
	AudioTracks      string
	IncludeSubtitles bool
	Overwrite        bool
}

// ResolveAudioTracks expands the selection against the analyzed track
// list. Unknown positions are rejected.
func (r Request) ResolveAudioTracks(summary *probe.Summary) ([]int, error) {
	total := 0
	if summary != nil {
		total = len(summary.Audio)
	}

	sel := strings.ToLower(strings.TrimSpace(r.AudioTracks))
	switch sel {
	case "", "first":
		if total == 0 {
			return nil, nil
		}
		return []int{0}, nil
	case "all":
		tracks := make([]int, total)
		for i := range tracks {
			tracks[i] = i
		}
		return tracks, nil
	}

	var tracks []int
	for _, part := range strings.Split(sel, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n >= total {
			return nil, fmt.Errorf("invalid audio track selection %q", part)
		}
		tracks = append(tracks, n)
	}
	return tracks, nil
}

// OutputFilename returns the filename with the format extension enforced,
// deriving a title_timestamp name when none was given.
func (r Request) OutputFilename(f profile.Format, title string) string {
	name := strings.TrimSpace(r.Filename)
	if name == "" {
		if title == "" {
			title = "DVD_Conversion"
		}
		name = fmt.Sprintf("%s_%s", title, time.Now().Format("20060102_150405"))
	}

	ext := "." + string(f)
	if dot := strings.LastIndex(name, "."); dot > 0 {
		name = name[:dot]
	}
	return name + ext
}
