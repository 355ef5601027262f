// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// DVDConverter - DVD 光盘视频转换工具

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmorency2021/dvd-converter-tools/internal/config"
	"github.com/mmorency2021/dvd-converter-tools/internal/ffmpeg"
	"github.com/mmorency2021/dvd-converter-tools/internal/job"
	"github.com/mmorency2021/dvd-converter-tools/internal/logger"
	"github.com/mmorency2021/dvd-converter-tools/internal/media/probe"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "dvdconverter",
		Short:         "Convert mounted DVDs to compressed MP4/3GP/MKV/WebM files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("config", "", "Path to YAML config file")

	root.AddCommand(newDetectCommand())
	root.AddCommand(newWaitCommand())
	root.AddCommand(newAnalyzeCommand())
	root.AddCommand(newConvertCommand())
	root.AddCommand(newServeCommand())

	return root
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// newOrchestrator wires the conversion stack. Probing the ffmpeg binary
// here makes a missing transcoder a startup failure, not a mid-job one.
func newOrchestrator(cfg *config.Config, log logger.Logger) (*job.Orchestrator, ffmpeg.FFmpeg, error) {
	validator, err := ffmpeg.NewValidator(cfg.Output.Allow, cfg.Output.Block)
	if err != nil {
		return nil, nil, err
	}

	ff, err := ffmpeg.New(ffmpeg.Config{
		Binary:          cfg.FFmpeg.Path,
		MaxLogLines:     cfg.FFmpeg.MaxLogLines,
		ValidatorOutput: validator,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("ffmpeg init: %w", err)
	}

	if missing := ff.Skills().MissingEncoders(); len(missing) > 0 {
		log.Info("ffmpeg is missing encoders %v, some formats may fail", missing)
	}

	orch := job.New(job.Config{
		FFmpeg:           ff,
		Analyzer:         probe.NewAnalyzer(cfg.FFmpeg.ProbePath),
		MountRoots:       cfg.DVD.MountRoots,
		DefaultOutputDir: cfg.Output.Dir,
		Logger:           log,
	})

	return orch, ff, nil
}
