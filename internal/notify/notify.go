// Package notify is the user-facing notification sink. Every mutating
// operation in the platform core reports its outcome here so the user always
// gets feedback, whatever else happens to UI state.
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Level classifies a notification.
type Level string

const (
	Info    Level = "info"
	Success Level = "success"
	Warning Level = "warning"
	Error   Level = "error"
)

// Notifier receives user-facing notifications.
type Notifier interface {
	Notify(level Level, msg string)
}

// --- terminal notifier ---

var (
	styleInfo    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00B4D8"))
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("#00D26A")).Bold(true)
	styleWarning = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB800")).Bold(true)
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4444")).Bold(true)
)

// Terminal renders notifications as styled lines on a writer.
type Terminal struct {
	mu  sync.Mutex
	out io.Writer
}

// NewTerminal creates a terminal notifier writing to out.
func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{out: out}
}

func (t *Terminal) Notify(level Level, msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var line string
	switch level {
	case Success:
		line = styleSuccess.Render("✓ " + msg)
	case Warning:
		line = styleWarning.Render("⚠ " + msg)
	case Error:
		line = styleError.Render("✗ " + msg)
	default:
		line = styleInfo.Render("ℹ " + msg)
	}
	fmt.Fprintln(t.out, line)
}

// --- recorder (test double) ---

// Call is one recorded notification.
type Call struct {
	Level   Level
	Message string
}

// Recorder captures notifications for assertions in tests.
type Recorder struct {
	mu    sync.Mutex
	calls []Call
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Notify(level Level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Level: level, Message: msg})
}

// Calls returns a copy of everything recorded so far.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call{}, r.calls...)
}

// Levels returns just the recorded levels, in order.
func (r *Recorder) Levels() []Level {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Level, len(r.calls))
	for i, c := range r.calls {
		out[i] = c.Level
	}
	return out
}

// Nop discards every notification.
type Nop struct{}

func (Nop) Notify(Level, string) {}
