// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// DVDConverter - DVD 光盘视频转换工具

package job

import "errors"

var (
	ErrBusy            = errors.New("a conversion job is already active")
	ErrAlreadyExists   = errors.New("output file already exists")
	ErrCancelled       = errors.New("cancelled")
	ErrTranscodeFailed = errors.New("transcode failed")
	ErrNoActiveJob     = errors.New("no active job")
)
