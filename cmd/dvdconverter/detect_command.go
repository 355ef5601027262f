// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// DVDConverter - DVD 光盘视频转换工具

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmorency2021/dvd-converter-tools/internal/dvd"
)

func newDetectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "detect",
		Short: "List mounted DVD sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			sources := dvd.Scan(cfg.DVD.MountRoots)
			if len(sources) == 0 {
				return dvd.ErrNotFound
			}

			for _, s := range sources {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", s.Name, s.Path)
			}
			return nil
		},
	}
}

func newWaitCommand() *cobra.Command {
	interval := 2 * time.Second

	cmd := &cobra.Command{
		Use:   "wait",
		Short: "Poll until a DVD is inserted, then print its path",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Waiting for DVD to be inserted...")
			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			for {
				if sources := dvd.Scan(cfg.DVD.MountRoots); len(sources) > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "DVD detected at: %s\n", sources[0].Path)
					return nil
				}
				select {
				case <-cmd.Context().Done():
					return cmd.Context().Err()
				case <-ticker.C:
				}
			}
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", interval, "Poll interval")
	return cmd
}
