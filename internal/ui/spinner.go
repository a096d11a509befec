package ui

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Spinner is a lightweight single-line loading indicator for commands that
// wait on one remote call. Interactive transaction tracking uses the
// bubbletea model in track.go instead.
type Spinner struct {
	out  io.Writer
	msg  string
	stop chan struct{}
	done chan struct{}
}

const spinnerInterval = 80 * time.Millisecond

var spinnerFrames = [...]string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// NewSpinner creates a spinner that renders msg to stdout.
func NewSpinner(msg string) *Spinner {
	return &Spinner{
		out:  os.Stdout,
		msg:  msg,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// Start begins the animation in a background goroutine.
func (s *Spinner) Start() {
	go s.run()
}

func (s *Spinner) run() {
	defer close(s.done)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()
	for i := 0; ; i++ {
		frame := StyleChain.Render(spinnerFrames[i%len(spinnerFrames)])
		fmt.Fprintf(s.out, "\r%s  %s", frame, s.msg)
		select {
		case <-s.stop:
			fmt.Fprintf(s.out, "\r%-60s\r", "")
			return
		case <-ticker.C:
		}
	}
}

// Stop halts the animation and clears the line.
func (s *Spinner) Stop() {
	close(s.stop)
	<-s.done
}

// StopWithMsg stops the spinner and leaves msg on the cleared line.
func (s *Spinner) StopWithMsg(msg string) {
	s.Stop()
	fmt.Fprintln(s.out, msg)
}
