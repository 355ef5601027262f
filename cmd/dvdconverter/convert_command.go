// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// DVDConverter - DVD 光盘视频转换工具

package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmorency2021/dvd-converter-tools/internal/job"
	"github.com/mmorency2021/dvd-converter-tools/internal/logger"
)

func newConvertCommand() *cobra.Command {
	var (
		sourcePath  string
		format      string
		filename    string
		outputDir   string
		audioTracks string
		noSubtitles bool
		overwrite   bool
	)

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a DVD to a compressed output file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			orch, _, err := newOrchestrator(cfg, logger.New("dvdconverter: "))
			if err != nil {
				return err
			}

			updates := orch.Subscribe()
			defer orch.Unsubscribe(updates)

			id, err := orch.Start(job.Request{
				SourcePath:       sourcePath,
				Format:           format,
				Filename:         filename,
				OutputDir:        outputDir,
				AudioTracks:      audioTracks,
				IncludeSubtitles: !noSubtitles,
				Overwrite:        overwrite,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Conversion %s started\n", id)

			lastPhase := job.PhaseIdle
			for snapshot := range updates {
				if snapshot.JobID != id {
					continue
				}
				if snapshot.Phase != lastPhase {
					lastPhase = snapshot.Phase
					fmt.Fprintf(out, "\n[%s] %s\n", snapshot.Phase, snapshot.Message)
				}
				if snapshot.Phase == job.PhaseTranscoding {
					printProgress(out, snapshot)
				}
				if snapshot.Phase.Terminal() {
					fmt.Fprintln(out)
					if snapshot.Phase == job.PhaseFailed {
						return errors.New(snapshot.Error)
					}
					fmt.Fprintf(out, "Output file: %s\n", snapshot.OutputFile)
					return nil
				}
			}
			return errors.New("progress stream closed unexpectedly")
		},
	}

	cmd.Flags().StringVar(&sourcePath, "source", "", "DVD volume path (auto-detected when empty)")
	cmd.Flags().StringVar(&format, "format", "mp4", "Output format: mp4, 3gp, mkv, webm")
	cmd.Flags().StringVar(&filename, "filename", "", "Output filename (default: title + timestamp)")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "Output directory (default from config)")
	cmd.Flags().StringVar(&audioTracks, "audio-tracks", "all", `Audio tracks: "all", "first" or e.g. "0,2"`)
	cmd.Flags().BoolVar(&noSubtitles, "no-subtitles", false, "Exclude subtitle tracks")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite an existing output file")

	return cmd
}

func printProgress(out io.Writer, s job.Snapshot) {
	if s.Percent >= 0 {
		remaining := "--:--"
		if s.RemainingSeconds >= 0 {
			remaining = (time.Duration(s.RemainingSeconds) * time.Second).String()
		}
		fmt.Fprintf(out, "\rProgress: %3d%% (elapsed %s, %s remaining, %.1fx)",
			s.Percent, (time.Duration(s.ElapsedSeconds) * time.Second).String(), remaining, s.Speed)
		return
	}
	// 未知总时长时只报已转码时长
	fmt.Fprintf(out, "\rProgress: %s transcoded (%.1fx)",
		(time.Duration(s.ElapsedSeconds) * time.Second).String(), s.Speed)
}
