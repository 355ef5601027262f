// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// DVDConverter - DVD 光盘视频转换工具

package job

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmorency2021/dvd-converter-tools/internal/media/probe"
	"github.com/mmorency2021/dvd-converter-tools/internal/profile"
)

func summaryWithTracks(n int) *probe.Summary {
	s := &probe.Summary{}
	for i := 0; i < n; i++ {
		s.Audio = append(s.Audio, probe.AudioTrack{Index: i + 1, Language: "eng"})
	}
	return s
}

func TestResolveAudioTracks(t *testing.T) {
	tests := []struct {
		name      string
		selection string
		total     int
		want      []int
		wantErr   bool
	}{
		{name: "default is first", selection: "", total: 3, want: []int{0}},
		{name: "first keyword", selection: "first", total: 2, want: []int{0}},
		{name: "all keyword", selection: "all", total: 3, want: []int{0, 1, 2}},
		{name: "all with none", selection: "all", total: 0, want: []int{}},
		{name: "default with none", selection: "", total: 0, want: nil},
		{name: "comma list", selection: "0,2", total: 3, want: []int{0, 2}},
		{name: "spaces tolerated", selection: " 1 , 0 ", total: 2, want: []int{1, 0}},
		{name: "out of range", selection: "3", total: 3, wantErr: true},
		{name: "negative", selection: "-1", total: 3, wantErr: true},
		{name: "not a number", selection: "one", total: 3, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := Request{AudioTracks: tc.selection}
			got, err := req.ResolveAudioTracks(summaryWithTracks(tc.total))
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if len(tc.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestResolveAudioTracksNilSummary(t *testing.T) {
	got, err := Request{AudioTracks: "all"}.ResolveAudioTracks(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestOutputFilenameEnforcesExtension(t *testing.T) {
	req := Request{Filename: "movie"}
	assert.Equal(t, "movie.mp4", req.OutputFilename(profile.FormatMP4, "Disc"))

	// 已有的扩展名被替换
	req = Request{Filename: "movie.avi"}
	assert.Equal(t, "movie.webm", req.OutputFilename(profile.FormatWebM, "Disc"))

	req = Request{Filename: "movie.mkv"}
	assert.Equal(t, "movie.mkv", req.OutputFilename(profile.FormatMKV, "Disc"))
}

func TestOutputFilenameDerivedFromTitle(t *testing.T) {
	name := Request{}.OutputFilename(profile.FormatThreeGP, "My_Disc")
	assert.True(t, strings.HasPrefix(name, "My_Disc_"), "got %q", name)
	assert.True(t, strings.HasSuffix(name, ".3gp"), "got %q", name)

	fallback := Request{}.OutputFilename(profile.FormatMP4, "")
	assert.True(t, strings.HasPrefix(fallback, "DVD_Conversion_"), "got %q", fallback)
}
