package telemetry

import (
	"io"
	"sync"
	"time"
)

// TimingCollector records phases as a tree. The first Start becomes the
// root; every later Start nests under the phase currently open, so an
// instrumented callee lands beneath its instrumented caller without
// either knowing about the other.
type TimingCollector struct {
	mu   sync.Mutex
	root *span
	open *span
}

// span is one timed phase.
type span struct {
	name     string
	start    time.Time
	end      time.Time
	parent   *span
	children []*span
}

// NewTimingCollector creates an empty collector.
func NewTimingCollector() *TimingCollector {
	return &TimingCollector{}
}

// Start opens a phase under the currently open one.
func (c *TimingCollector) Start(name string) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := &span{name: name, start: time.Now()}
	if c.root == nil {
		c.root = s
	} else {
		s.parent = c.open
		c.open.children = append(c.open.children, s)
	}
	c.open = s

	return &phaseTimer{collector: c, span: s}
}

// Report writes the recorded tree to w. When styles is an
// *output.Styles the report is colored for a terminal.
func (c *TimingCollector) Report(w io.Writer, styles interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.root == nil {
		return
	}
	writeTree(w, c.root, styles)
}

// phaseTimer records one span of a TimingCollector.
type phaseTimer struct {
	collector *TimingCollector
	span      *span
}

// End closes the phase. Later Starts attach to its parent again.
func (t *phaseTimer) End() {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	t.span.end = time.Now()
	if t.span.parent != nil {
		t.collector.open = t.span.parent
	}
}

// Child opens a phase directly under this one, wherever the collector
// currently is. Use it to fan out named sub-phases from a held timer.
func (t *phaseTimer) Child(name string) Timer {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	s := &span{name: name, start: time.Now(), parent: t.span}
	t.span.children = append(t.span.children, s)

	return &phaseTimer{collector: t.collector, span: s}
}
