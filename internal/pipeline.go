package internal

import (
	"sync"
	"time"
)

// Pipeline recomputes a derived value from a set of named inputs after a
// quiet window. Edits landing inside the window coalesce into a single
// recompute that sees the latest value of every input. Construction seeds
// the inputs and schedules the first recompute, so the derived value
// appears without waiting for an edit.
type Pipeline struct {
	mu      sync.Mutex
	window  time.Duration
	values  map[string]any
	timer   *time.Timer
	compute func(values map[string]any)
	closed  bool
}

func NewPipeline(window time.Duration, seed map[string]any, compute func(values map[string]any)) *Pipeline {
	p := &Pipeline{
		window:  window,
		values:  make(map[string]any, len(seed)),
		compute: compute,
	}
	for k, v := range seed {
		p.values[k] = v
	}
	p.timer = time.AfterFunc(window, p.fire)
	return p
}

// Set records a new input value and restarts the quiet window.
func (p *Pipeline) Set(name string, value any) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.values[name] = value
	p.timer.Reset(p.window)
}

func (p *Pipeline) fire() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	snapshot := make(map[string]any, len(p.values))
	for k, v := range p.values {
		snapshot[k] = v
	}
	compute := p.compute
	p.mu.Unlock()

	// compute runs without the lock so it may feed other pipelines
	compute(snapshot)
}

// Close cancels the pending recompute; a timer that already won the race
// is discarded by the closed check in fire.
func (p *Pipeline) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	p.timer.Stop()
}
