// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// DVDConverter - DVD 光盘视频转换工具

package dvd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func makeVolume(t *testing.T, root, name string) string {
	t.Helper()
	path := filepath.Join(root, name)
	if err := os.MkdirAll(filepath.Join(path, "VIDEO_TS"), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestIsVolume(t *testing.T) {
	root := t.TempDir()

	vol := makeVolume(t, root, "MOVIE_DISC")
	if !IsVolume(vol) {
		t.Fatalf("expected %s to be a DVD volume", vol)
	}

	plain := filepath.Join(root, "plain")
	os.MkdirAll(plain, 0o755)
	if IsVolume(plain) {
		t.Fatalf("expected %s not to be a DVD volume", plain)
	}

	// 小写标记同样有效
	lower := filepath.Join(root, "lowercase")
	os.MkdirAll(filepath.Join(lower, "video_ts"), 0o755)
	if !IsVolume(lower) {
		t.Fatal("lowercase marker not recognized")
	}
}

func TestScan(t *testing.T) {
	root := t.TempDir()
	makeVolume(t, root, "DISC_A")
	makeVolume(t, root, "DISC_B")
	os.MkdirAll(filepath.Join(root, "not_a_disc"), 0o755)

	sources := Scan([]string{root, "/nonexistent/mount/root"})
	if len(sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(sources))
	}
	for _, s := range sources {
		if s.Name != "DISC_A" && s.Name != "DISC_B" {
			t.Errorf("unexpected source %q", s.Name)
		}
		if !IsVolume(s.Path) {
			t.Errorf("source %q is not a volume", s.Path)
		}
	}
}

func TestScanEmptyRoot(t *testing.T) {
	root := t.TempDir()
	os.MkdirAll(filepath.Join(root, "random"), 0o755)

	if sources := Scan([]string{root}); len(sources) != 0 {
		t.Fatalf("expected no sources, got %d", len(sources))
	}
}

func TestLocateExplicitPath(t *testing.T) {
	root := t.TempDir()
	vol := makeVolume(t, root, "MOVIE")

	src, err := Locate(vol, nil)
	if err != nil {
		t.Fatal(err)
	}
	if src.Path != vol || src.Name != "MOVIE" {
		t.Fatalf("unexpected source %+v", src)
	}

	// 带 VIDEO_TS 后缀的路径会被归一化
	src, err = Locate(vol+"/VIDEO_TS", nil)
	if err != nil {
		t.Fatal(err)
	}
	if src.Path != vol {
		t.Fatalf("VIDEO_TS suffix not stripped: %q", src.Path)
	}
}

func TestLocateNotFound(t *testing.T) {
	if _, err := Locate(t.TempDir(), nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := Locate("", []string{t.TempDir()}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty scan, got %v", err)
	}
}
