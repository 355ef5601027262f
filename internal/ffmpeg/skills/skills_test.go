// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// DVDConverter - DVD 光盘视频转换工具

package skills

import (
	"reflect"
	"testing"
)

const versionOutput = `ffmpeg version 6.1.1 Copyright (c) 2000-2023 the FFmpeg developers
built with Apple clang version 15.0.0 (clang-1500.1.0.2.5)
configuration: --prefix=/opt/homebrew --enable-gpl --enable-libx264 --enable-libvpx
libavutil      58. 29.100 / 58. 29.100
libavcodec     60. 31.102 / 60. 31.102
libavformat    60. 16.100 / 60. 16.100
`

func TestParseVersion(t *testing.T) {
	info := parseVersion([]byte(versionOutput))

	if info.Version != "6.1.1" {
		t.Errorf("version %q, want 6.1.1", info.Version)
	}
	if info.Compiler == "" {
		t.Error("compiler not parsed")
	}
	if len(info.Libraries) != 3 {
		t.Errorf("libraries %d, want 3", len(info.Libraries))
	}
}

func TestParseVersionMissing(t *testing.T) {
	info := parseVersion([]byte("bash: ffmpeg: command not found"))
	if info.Version != "" {
		t.Fatalf("version parsed from garbage: %q", info.Version)
	}
}

const encodersOutput = `Encoders:
 V..... = Video
 A..... = Audio
 S..... = Subtitle
 ------
 V....D libx264              libx264 H.264 / AVC / MPEG-4 AVC (codec h264)
 V....D libvpx-vp9           libvpx VP9 (codec vp9)
 A....D aac                  AAC (Advanced Audio Coding)
 S..... mov_text             3GPP Timed Text subtitle
`

func TestParseEncoders(t *testing.T) {
	encoders := parseEncoders([]byte(encodersOutput))
	want := []string{"libx264", "libvpx-vp9", "aac", "mov_text"}
	if !reflect.DeepEqual(encoders, want) {
		t.Fatalf("encoders %v, want %v", encoders, want)
	}
}

const formatsOutput = `File formats:
 D. = Demuxing supported
 .E = Muxing supported
 --
 D  concat          Virtual concatenation script
  E mp4             MP4 (MPEG-4 Part 14)
  E 3gp             3GP (3GPP file format)
 DE matroska,webm   Matroska / WebM
  E webm            WebM
`

func TestParseMuxers(t *testing.T) {
	muxers := parseMuxers([]byte(formatsOutput))

	s := Skills{Muxers: muxers}
	for _, want := range []string{"mp4", "3gp", "matroska", "webm"} {
		if !s.HasMuxer(want) {
			t.Errorf("muxer %q not detected in %v", want, muxers)
		}
	}
	if s.HasMuxer("concat") {
		t.Errorf("demux-only format detected as muxer: %v", muxers)
	}
}

func TestMissingEncoders(t *testing.T) {
	s := Skills{Encoders: []string{"libx264", "aac"}}
	missing := s.MissingEncoders()

	if len(missing) != 2 {
		t.Fatalf("missing %v, want libvpx-vp9 and mov_text", missing)
	}
	for _, m := range missing {
		if m != "libvpx-vp9" && m != "mov_text" {
			t.Errorf("unexpected missing encoder %q", m)
		}
	}

	full := Skills{Encoders: RequiredEncoders}
	if got := full.MissingEncoders(); len(got) != 0 {
		t.Fatalf("expected nothing missing, got %v", got)
	}
}
