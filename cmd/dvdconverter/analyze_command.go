// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// DVDConverter - DVD 光盘视频转换工具

package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmorency2021/dvd-converter-tools/internal/logger"
	"github.com/mmorency2021/dvd-converter-tools/internal/media/probe"
)

func newAnalyzeCommand() *cobra.Command {
	var sourcePath string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Probe a DVD's streams without converting",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			orch, _, err := newOrchestrator(cfg, logger.New("dvdconverter: "))
			if err != nil {
				return err
			}

			summary, err := orch.Analyze(cmd.Context(), sourcePath)
			if err != nil {
				return err
			}

			printSummary(cmd.OutOrStdout(), summary)
			return nil
		},
	}

	cmd.Flags().StringVar(&sourcePath, "source", "", "DVD volume path (auto-detected when empty)")
	return cmd
}

func printSummary(w io.Writer, summary *probe.Summary) {
	fmt.Fprintf(w, "DVD Analysis: %s\n", summary.Title)
	fmt.Fprintf(w, "Segments: %d, Duration: %s\n",
		summary.SegmentCount, time.Duration(summary.DurationSeconds*float64(time.Second)).Round(time.Second))

	if len(summary.Video) > 0 {
		fmt.Fprintf(w, "\nVideo Streams (%d):\n", len(summary.Video))
		for i, v := range summary.Video {
			fmt.Fprintf(w, "  %d. %s - %dx%d @ %.2f fps\n", i+1, v.Codec, v.Width, v.Height, v.FrameRate)
		}
	}

	if len(summary.Audio) > 0 {
		fmt.Fprintf(w, "\nAudio Tracks (%d):\n", len(summary.Audio))
		for i, a := range summary.Audio {
			fmt.Fprintf(w, "  %d. %s (%s) - %s, %d channels\n", i+1, a.Title, a.Language, a.Codec, a.Channels)
		}
	}

	if len(summary.Subtitles) > 0 {
		fmt.Fprintf(w, "\nSubtitle Tracks (%d):\n", len(summary.Subtitles))
		for i, s := range summary.Subtitles {
			fmt.Fprintf(w, "  %d. %s (%s) - %s\n", i+1, s.Title, s.Language, s.Codec)
		}
	}
}
