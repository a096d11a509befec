package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSpinnerRendersAndClears(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner("waiting for confirmation")
	s.out = &buf

	s.Start()
	time.Sleep(3 * spinnerInterval)
	s.StopWithMsg("confirmed")

	out := buf.String()
	assert.Contains(t, out, "waiting for confirmation")
	assert.True(t, strings.HasSuffix(out, "confirmed\n"))
}

func TestReadYes(t *testing.T) {
	assert.True(t, readYes(strings.NewReader("y\n")))
	assert.True(t, readYes(strings.NewReader("YES\n")))
	assert.False(t, readYes(strings.NewReader("n\n")))
	assert.False(t, readYes(strings.NewReader("\n")))
	assert.False(t, readYes(strings.NewReader("")))
}
