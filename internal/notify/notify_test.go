package notify

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTerminalRendersLevels(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf)

	term.Notify(Success, "minted")
	term.Notify(Warning, "slow rpc")
	term.Notify(Error, "reverted")
	term.Notify(Info, "submitted")

	out := buf.String()
	assert.Contains(t, out, "✓ minted")
	assert.Contains(t, out, "⚠ slow rpc")
	assert.Contains(t, out, "✗ reverted")
	assert.Contains(t, out, "ℹ submitted")
}

func TestRecorder(t *testing.T) {
	rec := NewRecorder()
	rec.Notify(Info, "one")
	rec.Notify(Error, "two")

	assert.Equal(t, []Level{Info, Error}, rec.Levels())
	calls := rec.Calls()
	assert.Equal(t, "two", calls[1].Message)
}
