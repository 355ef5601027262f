// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// DVDConverter - DVD 光盘视频转换工具

package api

// ConvertRequest is the conversion order posted by the frontend.
type ConvertRequest struct {
	SourcePath  string `json:"source_path"`
	Format      string `json:"format" binding:"required"`
	Filename    string `json:"filename"`
	OutputDir   string `json:"output_dir"`
	AudioTracks string `json:"audio_tracks"`
	NoSubtitles bool   `json:"no_subtitles"`
	Overwrite   bool   `json:"overwrite"`
}

// AnalyzeRequest selects the source to probe.
type AnalyzeRequest struct {
	SourcePath string `json:"source_path"`
}

// ConvertResponse acknowledges a started job.
type ConvertResponse struct {
	JobID string `json:"job_id"`
}

// SkillsResponse reports the detected transcoder capabilities.
type SkillsResponse struct {
	Version          string   `json:"version"`
	Encoders         []string `json:"encoders"`
	MissingEncoders  []string `json:"missing_encoders"`
	SupportedFormats []string `json:"supported_formats"`
}

// ErrorResponse for API errors
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}
