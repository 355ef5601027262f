// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// DVDConverter - DVD 光盘视频转换工具
//
// Package job owns the single conversion slot: it sequences locate →
// analyze → concatenate → transcode and publishes progress snapshots.

package job

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/lithammer/shortuuid/v4"

	"github.com/mmorency2021/dvd-converter-tools/internal/dvd"
	"github.com/mmorency2021/dvd-converter-tools/internal/ffmpeg"
	"github.com/mmorency2021/dvd-converter-tools/internal/ffmpeg/parse"
	"github.com/mmorency2021/dvd-converter-tools/internal/logger"
	"github.com/mmorency2021/dvd-converter-tools/internal/media/probe"
	"github.com/mmorency2021/dvd-converter-tools/internal/process"
	"github.com/mmorency2021/dvd-converter-tools/internal/profile"
)

// Analyzer probes a source's segments into a Summary.
type Analyzer interface {
	Analyze(ctx context.Context, sourcePath string, segmentPaths []string) (*probe.Summary, error)
}

// Config for the Orchestrator
type Config struct {
	FFmpeg           ffmpeg.FFmpeg
	Analyzer         Analyzer
	MountRoots       []string
	DefaultOutputDir string
	Logger           logger.Logger
}

// Orchestrator runs at most one conversion job at a time. A start request
// while a job is active is rejected with ErrBusy, never queued.
type Orchestrator struct {
	ffmpeg     ffmpeg.FFmpeg
	analyzer   Analyzer
	mountRoots []string
	outputDir  string
	logger     logger.Logger

	mu        sync.Mutex
	snapshot  Snapshot
	subs      map[chan Snapshot]struct{}
	proc      process.Process
	cancelled bool
}

// New creates an Orchestrator with an idle job slot.
func New(cfg Config) *Orchestrator {
	log := cfg.Logger
	if log == nil {
		log = logger.New("job: ")
	}
	outputDir := cfg.DefaultOutputDir
	if outputDir == "" {
		outputDir = "."
	}
	return &Orchestrator{
		ffmpeg:     cfg.FFmpeg,
		analyzer:   cfg.Analyzer,
		mountRoots: cfg.MountRoots,
		outputDir:  outputDir,
		logger:     log,
		snapshot:   Snapshot{Phase: PhaseIdle, Percent: -1, RemainingSeconds: -1, UpdatedAt: time.Now()},
		subs:       make(map[chan Snapshot]struct{}),
	}
}

// Sources scans the configured mount roots for DVD volumes.
func (o *Orchestrator) Sources() []dvd.Source {
	return dvd.Scan(o.mountRoots)
}

// Analyze probes a source without occupying the job slot.
func (o *Orchestrator) Analyze(ctx context.Context, sourcePath string) (*probe.Summary, error) {
	source, err := dvd.Locate(sourcePath, o.mountRoots)
	if err != nil {
		return nil, err
	}
	segments, err := dvd.Segments(source.Path)
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(segments))
	for i, seg := range segments {
		paths[i] = seg.Path
	}
	return o.analyzer.Analyze(ctx, source.Path, paths)
}

// Status returns the current snapshot.
func (o *Orchestrator) Status() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshot
}

// Start validates the request, claims the job slot and runs the
// conversion in the background. Returns the job ID.
func (o *Orchestrator) Start(req Request) (string, error) {
	format, err := profile.Parse(req.Format)
	if err != nil {
		return "", err
	}
	prof, err := profile.Resolve(format)
	if err != nil {
		return "", err
	}

	outputDir := req.OutputDir
	if outputDir == "" {
		outputDir = o.outputDir
	}
	if err := checkWritableDir(outputDir); err != nil {
		return "", err
	}
	if !o.ffmpeg.ValidateOutput(outputDir) {
		return "", fmt.Errorf("output directory %q not allowed", outputDir)
	}

	id := shortuuid.New()

	o.mu.Lock()
	if o.snapshot.Phase.Active() {
		o.mu.Unlock()
		return "", ErrBusy
	}
	o.cancelled = false
	o.proc = nil
	o.snapshot = Snapshot{
		JobID:            id,
		Phase:            PhaseAnalyzing,
		Percent:          -1,
		RemainingSeconds: -1,
		Message:          "locating source",
		UpdatedAt:        time.Now(),
	}
	snapshot := o.snapshot
	for ch := range o.subs {
		select {
		case ch <- snapshot:
		default:
		}
	}
	o.mu.Unlock()

	go o.run(req, prof, outputDir, time.Now())

	return id, nil
}

// Cancel stops the active job. The job transitions to failed with reason
// "cancelled" after its partial output has been cleaned up.
func (o *Orchestrator) Cancel() error {
	o.mu.Lock()
	if !o.snapshot.Phase.Active() {
		o.mu.Unlock()
		return ErrNoActiveJob
	}
	o.cancelled = true
	proc := o.proc
	o.mu.Unlock()

	if proc != nil {
		return proc.Stop(false)
	}
	return nil
}

func (o *Orchestrator) isCancelled() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.cancelled
}

func (o *Orchestrator) run(req Request, prof profile.Profile, outputDir string, startedAt time.Time) {
	ctx := context.Background()

	source, err := dvd.Locate(req.SourcePath, o.mountRoots)
	if err != nil {
		o.fail(err, "", nil)
		return
	}

	segments, err := dvd.Segments(source.Path)
	if err != nil {
		o.fail(err, "", nil)
		return
	}

	o.publish(func(s *Snapshot) {
		s.Message = fmt.Sprintf("analyzing %d segments of %s", len(segments), source.Name)
	})

	paths := make([]string, len(segments))
	for i, seg := range segments {
		paths[i] = seg.Path
	}
	summary, err := o.analyzer.Analyze(ctx, source.Path, paths)
	if err != nil {
		o.fail(err, "", nil)
		return
	}

	tracks, err := req.ResolveAudioTracks(summary)
	if err != nil {
		o.fail(err, "", nil)
		return
	}

	outputPath := filepath.Join(outputDir, req.OutputFilename(prof.Format, summary.Title))
	if !req.Overwrite {
		if _, err := os.Stat(outputPath); err == nil {
			o.fail(fmt.Errorf("%w: %s", ErrAlreadyExists, outputPath), "", nil)
			return
		}
	}

	if o.isCancelled() {
		o.fail(ErrCancelled, "", nil)
		return
	}

	o.publish(func(s *Snapshot) {
		s.Phase = PhaseConcatenating
		s.Message = fmt.Sprintf("concatenating %d segments", len(segments))
		s.OutputFile = outputPath
	})

	concat, err := dvd.WriteConcatList(segments)
	if err != nil {
		o.fail(err, "", nil)
		return
	}
	defer concat.Remove()

	parser := o.ffmpeg.NewParser()
	command := ffmpeg.CreateCommand(ffmpeg.CommandSpec{
		ConcatListPath:   concat.Path,
		Profile:          prof,
		Summary:          summary,
		AudioTracks:      tracks,
		IncludeSubtitles: req.IncludeSubtitles,
		OutputPath:       outputPath,
	})

	done := make(chan struct{})
	proc, err := o.ffmpeg.New(ffmpeg.ProcessConfig{
		Command: command,
		Parser:  parser,
		Logger:  o.logger,
		OnExit:  func() { close(done) },
		OnStateChange: func(from, to string) {
			o.logger.Debug("transcode process %s -> %s", from, to)
		},
	})
	if err != nil {
		o.fail(fmt.Errorf("%w: %v", ErrTranscodeFailed, err), outputPath, concat)
		return
	}

	o.mu.Lock()
	o.proc = proc
	cancelled := o.cancelled
	o.mu.Unlock()

	if cancelled {
		o.fail(ErrCancelled, outputPath, concat)
		return
	}

	o.publish(func(s *Snapshot) {
		s.Phase = PhaseTranscoding
		s.Message = fmt.Sprintf("transcoding to %s (%s)", prof.Format, prof.Description)
	})

	if err := proc.Start(); err != nil {
		o.fail(fmt.Errorf("%w: %v", ErrTranscodeFailed, err), outputPath, concat)
		return
	}

	o.watch(proc, parser, summary, startedAt, done)

	status := proc.Status()
	switch status.State {
	case "finished":
		if _, err := os.Stat(outputPath); err != nil {
			o.fail(fmt.Errorf("%w: output file missing", ErrTranscodeFailed), outputPath, concat)
			return
		}
		concat.Remove()
		o.publish(func(s *Snapshot) {
			s.Phase = PhaseDone
			s.Percent = 100
			s.RemainingSeconds = 0
			s.RuntimeSeconds = time.Since(startedAt).Seconds()
			s.Message = "conversion completed"
		})
		o.finish()
	case "killed":
		if o.isCancelled() {
			o.fail(ErrCancelled, outputPath, concat)
		} else {
			o.fail(fmt.Errorf("%w: process killed", ErrTranscodeFailed), outputPath, concat)
		}
	default:
		o.fail(fmt.Errorf("%w: %s", ErrTranscodeFailed, diagnostic(parser.Log(), status.LastLine)), outputPath, concat)
	}
}

// watch polls the progress parser until the process exits, publishing a
// snapshot whenever the transcoded media time moves forward.
func (o *Orchestrator) watch(proc process.Process, parser parserProgress, summary *probe.Summary, startedAt time.Time, done <-chan struct{}) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	lastElapsed := -1.0
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			prog := parser.Progress()
			if prog.Time <= lastElapsed {
				continue
			}
			lastElapsed = prog.Time

			status := proc.Status()
			total := summary.DurationSeconds
			o.publish(func(s *Snapshot) {
				s.Percent = prog.Percent(total)
				s.ElapsedSeconds = prog.Time
				s.RuntimeSeconds = time.Since(startedAt).Seconds()
				s.Speed = prog.Speed
				s.CPU = status.CPU
				s.MemoryBytes = status.Memory
				if total > 0 && prog.Speed > 0 {
					s.RemainingSeconds = (total - prog.Time) / prog.Speed
				} else {
					s.RemainingSeconds = -1
				}
			})
		}
	}
}

// parserProgress is the slice of parse.Parser the watcher needs.
type parserProgress interface {
	Progress() parse.Progress
}

// fail cleans up the transient artifacts before the terminal state is
// published, so no observer ever sees a partial file as a result.
func (o *Orchestrator) fail(err error, outputPath string, concat *dvd.ConcatList) {
	if concat != nil {
		concat.Remove()
	}
	if outputPath != "" {
		if rmErr := os.Remove(outputPath); rmErr == nil {
			o.logger.Info("removed partial output %s", outputPath)
		}
	}

	reason := err.Error()
	if errors.Is(err, ErrCancelled) {
		reason = "cancelled"
	}
	o.logger.Error("job failed: %v", err)

	o.publish(func(s *Snapshot) {
		s.Phase = PhaseFailed
		s.Error = reason
		s.Message = "conversion failed"
	})
	o.finish()
}

func (o *Orchestrator) finish() {
	o.mu.Lock()
	o.proc = nil
	o.cancelled = false
	o.mu.Unlock()
}

// diagnostic assembles the tool's final stderr output for TranscodeFailed.
func diagnostic(lines []process.Line, lastLine string) string {
	const tail = 5
	if len(lines) == 0 {
		if lastLine != "" {
			return lastLine
		}
		return "no diagnostic output"
	}
	if len(lines) > tail {
		lines = lines[len(lines)-tail:]
	}
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = l.Data
	}
	return strings.Join(parts, " | ")
}

// checkWritableDir verifies the output directory exists and is writable.
func checkWritableDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("output directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("output directory %q is not a directory", dir)
	}
	f, err := os.CreateTemp(dir, ".dvdconv_probe_*")
	if err != nil {
		return fmt.Errorf("output directory %q not writable: %w", dir, err)
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return nil
}
