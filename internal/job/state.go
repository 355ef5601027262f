// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// DVDConverter - DVD 光盘视频转换工具

package job

import "time"

// Phase is the lifecycle stage of the single conversion job slot.
type Phase string

const (
	PhaseIdle          Phase = "idle"
	PhaseAnalyzing     Phase = "analyzing"
	PhaseConcatenating Phase = "concatenating"
	PhaseTranscoding   Phase = "transcoding"
	PhaseDone          Phase = "done"
	PhaseFailed        Phase = "failed"
)

// Active reports whether a job currently occupies the slot.
func (p Phase) Active() bool {
	return p == PhaseAnalyzing || p == PhaseConcatenating || p == PhaseTranscoding
}

// Terminal reports whether the phase ends a job.
func (p Phase) Terminal() bool {
	return p == PhaseDone || p == PhaseFailed
}

// Snapshot is one observable state of the job slot. Published to every
// subscriber on change; the latest one is replayed to new subscribers.
type Snapshot struct {
	JobID            string    `json:"job_id"`
	Phase            Phase     `json:"phase"`
	Percent          int       `json:"percent"`
	ElapsedSeconds   float64   `json:"elapsed_seconds"`
	RuntimeSeconds   float64   `json:"runtime_seconds"`
	RemainingSeconds float64   `json:"remaining_seconds"`
	Speed            float64   `json:"speed"`
	Message          string    `json:"message"`
	OutputFile       string    `json:"output_file"`
	Error            string    `json:"error,omitempty"`
	CPU              float64   `json:"cpu_usage"`
	MemoryBytes      uint64    `json:"memory_bytes"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Subscribe registers a new listener and replays the current snapshot.
func (o *Orchestrator) Subscribe() chan Snapshot {
	ch := make(chan Snapshot, 16)

	o.mu.Lock()
	o.subs[ch] = struct{}{}
	current := o.snapshot
	o.mu.Unlock()

	ch <- current
	return ch
}

// Unsubscribe removes a listener. The channel must not be read after.
func (o *Orchestrator) Unsubscribe(ch chan Snapshot) {
	o.mu.Lock()
	if _, ok := o.subs[ch]; ok {
		delete(o.subs, ch)
		close(ch)
	}
	o.mu.Unlock()
}

// publish stores the snapshot and fans it out. Slow subscribers drop
// updates instead of blocking the reporter.
func (o *Orchestrator) publish(mutate func(s *Snapshot)) {
	o.mu.Lock()
	mutate(&o.snapshot)
	o.snapshot.UpdatedAt = time.Now()
	snapshot := o.snapshot
	for ch := range o.subs {
		select {
		case ch <- snapshot:
		default:
		}
	}
	o.mu.Unlock()
}
