// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// DVDConverter - DVD 光盘视频转换工具

package main

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/mmorency2021/dvd-converter-tools/internal/api"
	"github.com/mmorency2021/dvd-converter-tools/internal/logger"
)

func newServeCommand() *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web dashboard with live progress updates",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if bind != "" {
				cfg.Server.Bind = bind
			}

			log := logger.New("dvdconverter: ")
			orch, ff, err := newOrchestrator(cfg, log)
			if err != nil {
				return err
			}

			handler := api.NewHandler(orch, ff, log)

			r := gin.Default()
			r.Use(cors.Default())

			v1 := r.Group("/api/v1")
			handler.Register(v1)

			log.Info("listening on %s", cfg.Server.Bind)
			return r.Run(cfg.Server.Bind)
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "Bind address (overrides config)")
	return cmd
}
