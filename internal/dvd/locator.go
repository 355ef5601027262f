// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// DVDConverter - DVD 光盘视频转换工具
//
// Package dvd locates mounted DVD volumes and collects their VOB segments.

package dvd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	ErrNotFound    = errors.New("no dvd source found")
	ErrEmptySource = errors.New("no vob segments found")
)

// Source is a mounted volume with a DVD directory layout.
type Source struct {
	Path         string    `json:"path"`
	Name         string    `json:"name"`
	DiscoveredAt time.Time `json:"discovered_at"`
}

// 判断目录是否为 DVD 卷
var volumeMarkers = []string{"VIDEO_TS", "AUDIO_TS", "video_ts", "audio_ts"}

// IsVolume reports whether path contains a DVD directory marker.
func IsVolume(path string) bool {
	for _, marker := range volumeMarkers {
		if info, err := os.Stat(filepath.Join(path, marker)); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}

// Scan walks the given mount roots and returns every volume that looks
// like a DVD, in discovery order. Roots that don't exist are skipped.
func Scan(roots []string) []Source {
	var sources []Source
	now := time.Now()

	for _, root := range roots {
		entries, err := os.ReadDir(root)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			path := filepath.Join(root, entry.Name())
			if IsVolume(path) {
				sources = append(sources, Source{
					Path:         path,
					Name:         entry.Name(),
					DiscoveredAt: now,
				})
			}
		}
	}

	return sources
}

// Locate returns exactly one source, preferring an explicit path. With an
// empty path the mount roots are scanned and the first hit wins.
func Locate(path string, roots []string) (Source, error) {
	if path != "" {
		// 前端可能带上 /VIDEO_TS 后缀
		path = strings.TrimSuffix(strings.TrimSuffix(path, "/"), "/VIDEO_TS")
		if !IsVolume(path) {
			return Source{}, ErrNotFound
		}
		return Source{Path: path, Name: filepath.Base(path), DiscoveredAt: time.Now()}, nil
	}

	sources := Scan(roots)
	if len(sources) == 0 {
		return Source{}, ErrNotFound
	}
	return sources[0], nil
}
