// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// DVDConverter - DVD 光盘视频转换工具

package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mmorency2021/dvd-converter-tools/internal/dvd"
	"github.com/mmorency2021/dvd-converter-tools/internal/ffmpeg"
	"github.com/mmorency2021/dvd-converter-tools/internal/job"
	"github.com/mmorency2021/dvd-converter-tools/internal/logger"
	"github.com/mmorency2021/dvd-converter-tools/internal/media/probe"
	"github.com/mmorency2021/dvd-converter-tools/internal/profile"
)

// Handler holds dependencies
type Handler struct {
	orch   *job.Orchestrator
	ffmpeg ffmpeg.FFmpeg
	logger logger.Logger
}

// NewHandler creates API handler
func NewHandler(orch *job.Orchestrator, ff ffmpeg.FFmpeg, log logger.Logger) *Handler {
	return &Handler{orch: orch, ffmpeg: ff, logger: log}
}

// Register mounts all routes onto the group.
func (h *Handler) Register(g *gin.RouterGroup) {
	g.GET("/sources", h.Sources)
	g.POST("/analyze", h.Analyze)
	g.POST("/convert", h.Convert)
	g.GET("/status", h.Status)
	g.POST("/cancel", h.Cancel)
	g.GET("/skills", h.Skills)
	g.GET("/ws", h.WebSocket)
}

func errResp(c *gin.Context, code int, msg, detail string) {
	c.JSON(code, ErrorResponse{Code: code, Message: msg, Detail: detail})
}

// kindStatus maps an error kind to an HTTP status.
func kindStatus(err error) (int, string) {
	switch {
	case errors.Is(err, job.ErrBusy):
		return http.StatusConflict, "Conversion already in progress"
	case errors.Is(err, job.ErrAlreadyExists):
		return http.StatusConflict, "Output file already exists"
	case errors.Is(err, job.ErrNoActiveJob):
		return http.StatusNotFound, "No active job"
	case errors.Is(err, dvd.ErrNotFound):
		return http.StatusNotFound, "No DVD source found"
	case errors.Is(err, dvd.ErrEmptySource):
		return http.StatusUnprocessableEntity, "No VOB segments found"
	case errors.Is(err, probe.ErrAnalysisFailed):
		return http.StatusUnprocessableEntity, "Analysis failed"
	case errors.Is(err, profile.ErrUnsupportedFormat):
		return http.StatusBadRequest, "Unsupported output format"
	}
	return http.StatusBadRequest, "Request failed"
}

// Sources GET /api/v1/sources
func (h *Handler) Sources(c *gin.Context) {
	sources := h.orch.Sources()
	if sources == nil {
		sources = []dvd.Source{}
	}
	c.JSON(http.StatusOK, gin.H{"sources": sources})
}

// Analyze POST /api/v1/analyze
func (h *Handler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errResp(c, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}

	summary, err := h.orch.Analyze(c.Request.Context(), req.SourcePath)
	if err != nil {
		code, msg := kindStatus(err)
		errResp(c, code, msg, err.Error())
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Convert POST /api/v1/convert
func (h *Handler) Convert(c *gin.Context) {
	var req ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errResp(c, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}

	id, err := h.orch.Start(job.Request{
		SourcePath:       req.SourcePath,
		Format:           req.Format,
		Filename:         req.Filename,
		OutputDir:        req.OutputDir,
		AudioTracks:      req.AudioTracks,
		IncludeSubtitles: !req.NoSubtitles,
		Overwrite:        req.Overwrite,
	})
	if err != nil {
		code, msg := kindStatus(err)
		errResp(c, code, msg, err.Error())
		return
	}

	h.logger.Info("conversion %s started for %q", id, req.SourcePath)
	c.JSON(http.StatusOK, ConvertResponse{JobID: id})
}

// Status GET /api/v1/status
func (h *Handler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.orch.Status())
}

// Cancel POST /api/v1/cancel
func (h *Handler) Cancel(c *gin.Context) {
	if err := h.orch.Cancel(); err != nil {
		code, msg := kindStatus(err)
		errResp(c, code, msg, err.Error())
		return
	}
	c.JSON(http.StatusOK, "OK")
}

// Skills GET /api/v1/skills
func (h *Handler) Skills(c *gin.Context) {
	sk := h.ffmpeg.Skills()

	formats := make([]string, 0, len(profile.Formats()))
	for _, f := range profile.Formats() {
		formats = append(formats, string(f))
	}

	resp := SkillsResponse{
		Version:          sk.FFmpeg.Version,
		Encoders:         sk.Encoders,
		MissingEncoders:  sk.MissingEncoders(),
		SupportedFormats: formats,
	}
	c.JSON(http.StatusOK, resp)
}
