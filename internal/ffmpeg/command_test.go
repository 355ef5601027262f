// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// DVDConverter - DVD 光盘视频转换工具

package ffmpeg

import (
	"strings"
	"testing"

	"github.com/mmorency2021/dvd-converter-tools/internal/media/probe"
	"github.com/mmorency2021/dvd-converter-tools/internal/profile"
)

func testSummary() *probe.Summary {
	return &probe.Summary{
		Audio: []probe.AudioTrack{
			{Index: 1, Language: "eng", Codec: "ac3", Channels: 2, Title: "Audio 1"},
			{Index: 2, Language: "fre", Codec: "ac3", Channels: 6, Title: "Audio 2"},
		},
		Subtitles: []probe.SubtitleTrack{
			{Index: 3, Language: "eng", Codec: "dvd_subtitle", Title: "Subtitle 1"},
		},
		DurationSeconds: 2000,
	}
}

func TestCreateCommandAllAudioTracks(t *testing.T) {
	prof, _ := profile.Resolve(profile.FormatThreeGP)
	cmd := strings.Join(CreateCommand(CommandSpec{
		ConcatListPath: "/tmp/concat.txt",
		Profile:        prof,
		Summary:        testSummary(),
		AudioTracks:    []int{0, 1},
		OutputPath:     "/out/home_movie.3gp",
	}), " ")

	if !strings.HasPrefix(cmd, "-f concat -safe 0 -i /tmp/concat.txt") {
		t.Fatalf("concat input missing: %s", cmd)
	}
	for _, want := range []string{
		"-map 0:v:0",
		"-map 0:a:0", "-c:a:0 aac", "-b:a:0 32k", "-metadata:s:a:0 language=eng",
		"-map 0:a:1", "-c:a:1 aac", "-b:a:1 32k", "-metadata:s:a:1 language=fre",
		"-crf 32", "-vf scale=320:240", "-level 1.3",
	} {
		if !strings.Contains(cmd, want) {
			t.Errorf("missing %q in: %s", want, cmd)
		}
	}
	if !strings.HasSuffix(cmd, "-y /out/home_movie.3gp") {
		t.Errorf("output path not last: %s", cmd)
	}
}

func TestCreateCommandDefaultAudio(t *testing.T) {
	prof, _ := profile.Resolve(profile.FormatMKV)
	cmd := strings.Join(CreateCommand(CommandSpec{
		ConcatListPath: "/tmp/concat.txt",
		Profile:        prof,
		Summary:        testSummary(),
		OutputPath:     "/out/movie.mkv",
	}), " ")

	if !strings.Contains(cmd, "-c:a aac -b:a 128k") {
		t.Errorf("default audio settings missing: %s", cmd)
	}
	if strings.Contains(cmd, "-map 0:a:") {
		t.Errorf("explicit maps present without selection: %s", cmd)
	}
}

func TestCreateCommandSubtitles(t *testing.T) {
	mp4, _ := profile.Resolve(profile.FormatMP4)
	cmd := strings.Join(CreateCommand(CommandSpec{
		ConcatListPath:   "/tmp/concat.txt",
		Profile:          mp4,
		Summary:          testSummary(),
		AudioTracks:      []int{0},
		IncludeSubtitles: true,
		OutputPath:       "/out/movie.mp4",
	}), " ")

	if !strings.Contains(cmd, "-map 0:s:0") || !strings.Contains(cmd, "-c:s:0 mov_text") {
		t.Errorf("mp4 subtitles missing: %s", cmd)
	}
	if !strings.Contains(cmd, "-metadata:s:s:0 language=eng") {
		t.Errorf("subtitle metadata missing: %s", cmd)
	}

	// WebM 不支持字幕轨
	webm, _ := profile.Resolve(profile.FormatWebM)
	cmd = strings.Join(CreateCommand(CommandSpec{
		ConcatListPath:   "/tmp/concat.txt",
		Profile:          webm,
		Summary:          testSummary(),
		AudioTracks:      []int{0},
		IncludeSubtitles: true,
		OutputPath:       "/out/movie.webm",
	}), " ")
	if strings.Contains(cmd, "-map 0:s:") {
		t.Errorf("webm must not map subtitles: %s", cmd)
	}
}

func TestCreateCommandIgnoresOutOfRangeTracks(t *testing.T) {
	prof, _ := profile.Resolve(profile.FormatMP4)
	cmd := strings.Join(CreateCommand(CommandSpec{
		ConcatListPath: "/tmp/concat.txt",
		Profile:        prof,
		Summary:        testSummary(),
		AudioTracks:    []int{0, 7},
		OutputPath:     "/out/movie.mp4",
	}), " ")

	if strings.Contains(cmd, "0:a:7") {
		t.Errorf("out of range track mapped: %s", cmd)
	}
	if !strings.Contains(cmd, "-map 0:a:0") {
		t.Errorf("valid track not mapped: %s", cmd)
	}
}
