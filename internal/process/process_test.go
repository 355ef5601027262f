// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// DVDConverter - DVD 光盘视频转换工具

package process

import (
	"bufio"
	"strings"
	"testing"
)

func scanAll(t *testing.T, input string) []string {
	t.Helper()
	scanner := bufio.NewScanner(strings.NewReader(input))
	scanner.Split(scanLine)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}
	return lines
}

func TestScanLineSplitsOnCarriageReturn(t *testing.T) {
	// FFmpeg 进度行以 \r 结尾而不换行
	input := "frame=  100 time=00:00:10.00\rframe=  200 time=00:00:20.00\rdone\n"
	lines := scanAll(t, input)

	want := []string{
		"frame=  100 time=00:00:10.00",
		"frame=  200 time=00:00:20.00",
		"done",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d: %q", len(want), len(lines), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}
}

func TestScanLineSkipsEmptyLines(t *testing.T) {
	lines := scanAll(t, "\r\n\r\nfirst\n\n\nsecond\r\r")
	if len(lines) != 2 || lines[0] != "first" || lines[1] != "second" {
		t.Fatalf("unexpected lines: %q", lines)
	}
}

func TestScanLineFinalLineWithoutTerminator(t *testing.T) {
	lines := scanAll(t, "only line")
	if len(lines) != 1 || lines[0] != "only line" {
		t.Fatalf("unexpected lines: %q", lines)
	}
}

func TestNewRequiresBinary(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("expected error for empty binary")
	}
	if _, err := New(Config{Binary: "ffmpeg"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestInitialStatus(t *testing.T) {
	proc, err := New(Config{Binary: "ffmpeg"})
	if err != nil {
		t.Fatal(err)
	}

	status := proc.Status()
	if status.State != "finished" {
		t.Errorf("expected initial state finished, got %s", status.State)
	}
	if status.Order != "stop" {
		t.Errorf("expected initial order stop, got %s", status.Order)
	}
	if proc.IsRunning() {
		t.Error("new process must not be running")
	}
}

func TestStateTransitions(t *testing.T) {
	tests := []struct {
		from stateType
		to   stateType
		ok   bool
	}{
		{stateFinished, stateStarting, true},
		{stateFinished, stateRunning, false},
		{stateStarting, stateRunning, true},
		{stateStarting, stateFailed, true},
		{stateStarting, stateKilled, false},
		{stateRunning, stateFinished, true},
		{stateRunning, stateKilled, true},
		{stateRunning, stateStarting, false},
		{stateFinishing, stateKilled, true},
		{stateFinishing, stateRunning, false},
		{stateFailed, stateStarting, true},
		{stateKilled, stateStarting, true},
		{stateKilled, stateFinished, false},
	}

	for _, tc := range tests {
		p := &process{}
		p.initState(tc.from)
		err := p.setState(tc.to)
		if tc.ok && err != nil {
			t.Errorf("%s -> %s: unexpected error %v", tc.from, tc.to, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("%s -> %s: expected transition to be rejected", tc.from, tc.to)
		}
	}
}

func TestStopWithoutStartIsNoop(t *testing.T) {
	proc, err := New(Config{Binary: "ffmpeg"})
	if err != nil {
		t.Fatal(err)
	}
	if err := proc.Stop(false); err != nil {
		t.Fatalf("stop on idle process: %v", err)
	}
	if got := proc.Status().State; got != "finished" {
		t.Errorf("expected state finished, got %s", got)
	}
}
