// Package report collects the user-facing notices produced by a
// synchronization pass and renders them.
package report

import (
	"fmt"
	"sync"
)

// Severity of a notice.
type Severity string

const (
	SeverityDebug Severity = "debug"
	SeverityInfo  Severity = "info"
	SeverityError Severity = "error"
)

// Notice is one human-readable message emitted during a pass.
type Notice struct {
	Severity Severity `json:"severity" yaml:"severity"`
	Message  string   `json:"message" yaml:"message"`
	Task     string   `json:"task,omitempty" yaml:"task,omitempty"`
	Path     string   `json:"path,omitempty" yaml:"path,omitempty"`
	Document string   `json:"document,omitempty" yaml:"document,omitempty"`
}

// String renders the notice as "[severity] message".
func (n Notice) String() string {
	return fmt.Sprintf("[%s] %s", n.Severity, n.Message)
}

// Attr decorates a notice with context.
type Attr func(*Notice)

// WithPath attaches the folder or file the notice is about.
func WithPath(path string) Attr {
	return func(n *Notice) {
		n.Path = path
	}
}

// WithDocument attaches the PhpStorm document the notice is about.
func WithDocument(doc string) Attr {
	return func(n *Notice) {
		n.Document = doc
	}
}

type sink struct {
	mu      sync.Mutex
	notices []Notice
}

// Collector accumulates notices in emission order. Collectors returned by
// ForTask and ForDocument share storage with their parent.
type Collector struct {
	sink     *sink
	task     string
	document string
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{sink: &sink{}}
}

// ForTask returns a collector that tags every notice with task.
func (c *Collector) ForTask(task string) *Collector {
	return &Collector{sink: c.sink, task: task, document: c.document}
}

// ForDocument returns a collector that tags every notice without an explicit
// document with doc.
func (c *Collector) ForDocument(doc string) *Collector {
	return &Collector{sink: c.sink, task: c.task, document: doc}
}

// Add records a notice.
func (c *Collector) Add(n Notice) {
	if n.Task == "" {
		n.Task = c.task
	}
	if n.Document == "" {
		n.Document = c.document
	}

	c.sink.mu.Lock()
	defer c.sink.mu.Unlock()
	c.sink.notices = append(c.sink.notices, n)
}

func (c *Collector) emit(severity Severity, message string, attrs []Attr) {
	n := Notice{Severity: severity, Message: message}
	for _, attr := range attrs {
		attr(&n)
	}
	c.Add(n)
}

// Debug records a debug notice.
func (c *Collector) Debug(message string, attrs ...Attr) {
	c.emit(SeverityDebug, message, attrs)
}

// Info records an info notice.
func (c *Collector) Info(message string, attrs ...Attr) {
	c.emit(SeverityInfo, message, attrs)
}

// Error records an error notice.
func (c *Collector) Error(message string, attrs ...Attr) {
	c.emit(SeverityError, message, attrs)
}

// Notices returns a copy of every notice recorded so far.
func (c *Collector) Notices() []Notice {
	c.sink.mu.Lock()
	defer c.sink.mu.Unlock()

	out := make([]Notice, len(c.sink.notices))
	copy(out, c.sink.notices)
	return out
}

// Messages returns the messages of the notices with the given severities,
// or of all notices when none is given.
func (c *Collector) Messages(severities ...Severity) []string {
	var out []string
	for _, n := range c.Notices() {
		if matchesSeverity(n.Severity, severities) {
			out = append(out, n.Message)
		}
	}
	return out
}

// Count returns how many notices have the given severity.
func (c *Collector) Count(severity Severity) int {
	return len(c.Messages(severity))
}

func matchesSeverity(s Severity, severities []Severity) bool {
	if len(severities) == 0 {
		return true
	}
	for _, want := range severities {
		if s == want {
			return true
		}
	}
	return false
}
