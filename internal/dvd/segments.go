// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// DVDConverter - DVD 光盘视频转换工具

package dvd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Segment is one VOB file of the main title set.
type Segment struct {
	Path string
	Size int64
}

// Segments returns the main title VOB files in playback order, which is
// ascending filename order. Menu VOBs (VTS_xx_0.VOB) are excluded.
func Segments(sourcePath string) ([]Segment, error) {
	videoTS := filepath.Join(sourcePath, "VIDEO_TS")
	if _, err := os.Stat(videoTS); err != nil {
		videoTS = filepath.Join(sourcePath, "video_ts")
	}

	entries, err := os.ReadDir(videoTS)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEmptySource, sourcePath)
	}

	var segments []Segment
	for _, entry := range entries {
		name := entry.Name()
		upper := strings.ToUpper(name)
		if !strings.HasPrefix(upper, "VTS_01_") || !strings.HasSuffix(upper, ".VOB") {
			continue
		}
		if strings.HasSuffix(upper, "_0.VOB") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		segments = append(segments, Segment{
			Path: filepath.Join(videoTS, name),
			Size: info.Size(),
		})
	}

	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptySource, sourcePath)
	}

	sort.Slice(segments, func(i, j int) bool {
		return segments[i].Path < segments[j].Path
	})

	return segments, nil
}

// ConcatList is the temporary list file consumed by the concat demuxer.
type ConcatList struct {
	Path string
}

// WriteConcatList writes a `file '<path>'` line per segment into a
// temporary file. The caller owns the artifact and must Remove it when
// the job ends, success or not.
func WriteConcatList(segments []Segment) (*ConcatList, error) {
	if len(segments) == 0 {
		return nil, ErrEmptySource
	}

	f, err := os.CreateTemp("", "dvd_concat_*.txt")
	if err != nil {
		return nil, fmt.Errorf("create concat list: %w", err)
	}

	for _, seg := range segments {
		abs, err := filepath.Abs(seg.Path)
		if err != nil {
			abs = seg.Path
		}
		// 单引号需要按 concat 语法转义
		escaped := strings.ReplaceAll(abs, "'", `'\''`)
		if _, err := fmt.Fprintf(f, "file '%s'\n", escaped); err != nil {
			f.Close()
			os.Remove(f.Name())
			return nil, fmt.Errorf("write concat list: %w", err)
		}
	}

	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return nil, fmt.Errorf("close concat list: %w", err)
	}

	return &ConcatList{Path: f.Name()}, nil
}

// Remove deletes the list file. Safe to call more than once.
func (c *ConcatList) Remove() {
	if c == nil || c.Path == "" {
		return
	}
	os.Remove(c.Path)
	c.Path = ""
}
