package ui

import (
	"fmt"
	"io"
	"sync"
)

// Progress is a line-per-task display for parallel work. Every task
// accounts for exactly one line, success or failure, so the counter
// always ends at n/n.
type Progress struct {
	out   io.Writer
	total int

	mu     sync.Mutex
	done   int
	failed int
}

// NewProgress tracks total tasks, writing one line per task to out.
func NewProgress(out io.Writer, total int) *Progress {
	return &Progress{out: out, total: total}
}

// Done records a success.
func (p *Progress) Done(label string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done++
	_, _ = fmt.Fprintf(p.out, "[%d/%d] %s\n", p.done+p.failed, p.total, label)
}

// Fail records a failure. Failed tasks still advance the counter.
func (p *Progress) Fail(label string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failed++
	_, _ = fmt.Fprintf(p.out, "[%d/%d] %s: %v\n", p.done+p.failed, p.total, label, err)
}

// Failed reports how many tasks have failed so far.
func (p *Progress) Failed() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.failed
}

// Log prints a line within the display without advancing the counter.
func (p *Progress) Log(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintf(p.out, format+"\n", args...)
}
