// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// DVDConverter - DVD 光盘视频转换工具

package profile

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestResolveReturnsDocumentedTuples(t *testing.T) {
	cases := []struct {
		format  Format
		vcodec  string
		crf     int
		scale   string
		acodec  string
		bitrate string
	}{
		{FormatMP4, "libx264", 30, "640:480", "aac", "48k"},
		{FormatThreeGP, "libx264", 32, "320:240", "aac", "32k"},
		{FormatMKV, "libx264", 26, "720:576", "aac", "128k"},
		{FormatWebM, "libvpx-vp9", 32, "640:480", "aac", "64k"},
	}

	for _, tc := range cases {
		p, err := Resolve(tc.format)
		if err != nil {
			t.Fatalf("Resolve(%s): %v", tc.format, err)
		}
		if p.VideoCodec != tc.vcodec {
			t.Errorf("%s: video codec %q, want %q", tc.format, p.VideoCodec, tc.vcodec)
		}
		if p.CRF != tc.crf {
			t.Errorf("%s: crf %d, want %d", tc.format, p.CRF, tc.crf)
		}
		if p.Scale != tc.scale {
			t.Errorf("%s: scale %q, want %q", tc.format, p.Scale, tc.scale)
		}
		if p.AudioCodec != tc.acodec {
			t.Errorf("%s: audio codec %q, want %q", tc.format, p.AudioCodec, tc.acodec)
		}
		if p.AudioBitrate != tc.bitrate {
			t.Errorf("%s: audio bitrate %q, want %q", tc.format, p.AudioBitrate, tc.bitrate)
		}
	}
}

func TestResolveIsPure(t *testing.T) {
	a, _ := Resolve(FormatMP4)
	b, _ := Resolve(FormatMP4)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("Resolve is not deterministic")
	}

	// 修改返回值不能影响后续调用
	a.CRF = 1
	c, _ := Resolve(FormatMP4)
	if c.CRF != 30 {
		t.Fatalf("Resolve leaked mutation: crf %d", c.CRF)
	}
}

func TestResolveUnsupportedFormat(t *testing.T) {
	if _, err := Resolve(Format("avi")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestParse(t *testing.T) {
	for _, s := range []string{"mp4", "MP4", " mp4 ", ".mp4"} {
		f, err := Parse(s)
		if err != nil || f != FormatMP4 {
			t.Fatalf("Parse(%q) = %v, %v", s, f, err)
		}
	}
	if _, err := Parse("avi"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestVideoArgs(t *testing.T) {
	p, _ := Resolve(FormatMP4)
	args := strings.Join(p.VideoArgs(), " ")

	for _, want := range []string{
		"-c:v libx264", "-preset veryslow", "-crf 30",
		"-maxrate 300k", "-bufsize 600k",
		"-profile:v baseline", "-level 3.0",
		"-vf scale=640:480", "-movflags +faststart",
	} {
		if !strings.Contains(args, want) {
			t.Errorf("mp4 args missing %q: %s", want, args)
		}
	}

	p, _ = Resolve(FormatWebM)
	args = strings.Join(p.VideoArgs(), " ")
	if !strings.Contains(args, "-c:v libvpx-vp9") || !strings.Contains(args, "-b:v 300k") {
		t.Errorf("webm args wrong: %s", args)
	}
	if strings.Contains(args, "-preset") || strings.Contains(args, "-movflags") {
		t.Errorf("webm args carry x264/mov settings: %s", args)
	}
}
