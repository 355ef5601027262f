// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// DVDConverter - DVD 光盘视频转换工具

package ffmpeg

import (
	"fmt"
	"os/exec"
	"sync"

	"github.com/mmorency2021/dvd-converter-tools/internal/ffmpeg/parse"
	"github.com/mmorency2021/dvd-converter-tools/internal/ffmpeg/skills"
	"github.com/mmorency2021/dvd-converter-tools/internal/logger"
	"github.com/mmorency2021/dvd-converter-tools/internal/process"
)

// FFmpeg manages the FFmpeg binary and spawns transcode processes
type FFmpeg interface {
	New(config ProcessConfig) (process.Process, error)
	NewParser() parse.Parser
	ValidateOutput(path string) bool
	Skills() skills.Skills
	ReloadSkills() error
}

// ProcessConfig for creating a process
type ProcessConfig struct {
	Command       []string
	Parser        process.Parser
	Logger        logger.Logger
	OnExit        func()
	OnStart       func()
	OnStateChange func(from, to string)
}

// Config for FFmpeg
type Config struct {
	Binary          string
	MaxLogLines     int
	ValidatorOutput Validator
}

type ffmpeg struct {
	binary       string
	validatorOut Validator
	skills       skills.Skills
	logLines     int
	skillsLock   sync.RWMutex
}

// New resolves the binary and probes its capabilities. A missing binary
// fails here, at startup, not in the middle of a job.
func New(config Config) (FFmpeg, error) {
	binary, err := exec.LookPath(config.Binary)
	if err != nil {
		return nil, fmt.Errorf("invalid ffmpeg binary: %w", err)
	}

	f := &ffmpeg{
		binary:   binary,
		logLines: config.MaxLogLines,
	}

	if f.logLines <= 0 {
		f.logLines = 100
	}

	if config.ValidatorOutput != nil {
		f.validatorOut = config.ValidatorOutput
	} else {
		f.validatorOut, _ = NewValidator(nil, nil)
	}

	s, err := skills.New(f.binary)
	if err != nil {
		return nil, fmt.Errorf("invalid ffmpeg: %w", err)
	}
	f.skills = s

	return f, nil
}

func (f *ffmpeg) New(config ProcessConfig) (process.Process, error) {
	return process.New(process.Config{
		Binary:        f.binary,
		Args:          config.Command,
		Parser:        config.Parser,
		Logger:        config.Logger,
		OnStart:       config.OnStart,
		OnExit:        config.OnExit,
		OnStateChange: config.OnStateChange,
	})
}

func (f *ffmpeg) NewParser() parse.Parser {
	return parse.New(parse.Config{LogLines: f.logLines})
}

func (f *ffmpeg) ValidateOutput(path string) bool {
	return f.validatorOut.IsValid(path)
}

func (f *ffmpeg) Skills() skills.Skills {
	f.skillsLock.RLock()
	defer f.skillsLock.RUnlock()
	return f.skills
}

func (f *ffmpeg) ReloadSkills() error {
	s, err := skills.New(f.binary)
	if err != nil {
		return fmt.Errorf("reload skills: %w", err)
	}
	f.skillsLock.Lock()
	f.skills = s
	f.skillsLock.Unlock()
	return nil
}
