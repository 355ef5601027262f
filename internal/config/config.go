// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// DVDConverter - DVD 光盘视频转换工具

package config

import (
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config 应用配置
type Config struct {
	Server ServerConfig `yaml:"server"`
	FFmpeg FFmpegConfig `yaml:"ffmpeg"`
	DVD    DVDConfig    `yaml:"dvd"`
	Output OutputConfig `yaml:"output"`
}

// ServerConfig 服务配置
type ServerConfig struct {
	Bind string `yaml:"bind"`
}

// FFmpegConfig FFmpeg/FFprobe 配置
type FFmpegConfig struct {
	Path        string `yaml:"path"`
	ProbePath   string `yaml:"probe_path"`
	MaxLogLines int    `yaml:"max_log_lines"`
}

// DVDConfig 光盘挂载点配置
type DVDConfig struct {
	MountRoots []string `yaml:"mount_roots"`
}

// OutputConfig 输出目录配置
type OutputConfig struct {
	Dir   string   `yaml:"dir"`
	Allow []string `yaml:"allow"`
	Block []string `yaml:"block"`
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Server: ServerConfig{Bind: ":5000"},
		FFmpeg: FFmpegConfig{Path: "ffmpeg", ProbePath: "ffprobe", MaxLogLines: 100},
		DVD:    DVDConfig{MountRoots: defaultMountRoots()},
		Output: OutputConfig{Dir: "."},
	}
}

// Load 从 YAML 文件加载配置
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	// 填充空值
	if cfg.Server.Bind == "" {
		cfg.Server.Bind = ":5000"
	}
	if cfg.FFmpeg.Path == "" {
		cfg.FFmpeg.Path = "ffmpeg"
	}
	if cfg.FFmpeg.ProbePath == "" {
		cfg.FFmpeg.ProbePath = "ffprobe"
	}
	if cfg.FFmpeg.MaxLogLines <= 0 {
		cfg.FFmpeg.MaxLogLines = 100
	}
	if len(cfg.DVD.MountRoots) == 0 {
		cfg.DVD.MountRoots = defaultMountRoots()
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "."
	}

	return cfg, nil
}

func defaultMountRoots() []string {
	if runtime.GOOS == "darwin" {
		return []string{"/Volumes"}
	}
	return []string{"/media", "/mnt"}
}
