package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tunebase/tunecli/internal/tx"
)

// ProgressMsg carries a transaction state update into the tracking model.
type ProgressMsg tx.Progress

// TrackModel is the Bubble Tea model for following one transaction to its
// terminal state.
type TrackModel struct {
	Hash     string
	Network  string
	Progress *tx.Progress
	Frame    int
	Started  time.Time
	Quitting bool
}

// NewTrackModel creates a tracking model for hash.
func NewTrackModel(hash, network string) TrackModel {
	return TrackModel{Hash: hash, Network: network, Started: time.Now()}
}

type trackTickMsg struct{}

func trackSpinTick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(time.Time) tea.Msg {
		return trackTickMsg{}
	})
}

func (m TrackModel) Init() tea.Cmd { return trackSpinTick() }

func (m TrackModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Quitting = true
			return m, tea.Quit
		}

	case trackTickMsg:
		m.Frame = (m.Frame + 1) % len(spinnerFrames)
		return m, trackSpinTick()

	case ProgressMsg:
		p := tx.Progress(msg)
		m.Progress = &p
		if p.Status.Terminal() {
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m TrackModel) View() string {
	var sb strings.Builder

	title := fmt.Sprintf("♪  Tracking Transaction  ·  %s  ·  %s", TruncateAddr(m.Hash), m.Network)
	sb.WriteString(StyleTitle.Render(title) + "\n")

	switch {
	case m.Progress == nil || m.Progress.Status == tx.StatusPending:
		spin := StyleChain.Render(spinnerFrames[m.Frame])
		elapsed := time.Since(m.Started).Round(time.Second)
		sb.WriteString(fmt.Sprintf("%s  %s %s\n", spin,
			StyleWarning.Render("pending"),
			StyleMeta.Render(fmt.Sprintf("(%s)", elapsed))))

	case m.Progress.Status == tx.StatusConfirmed:
		sb.WriteString(Success("confirmed") + "\n")
		sb.WriteString(StyleMeta.Render(fmt.Sprintf("  block #%d  ·  %d confirmation(s)",
			m.Progress.BlockNumber, m.Progress.Confirmations)) + "\n")
		if m.Progress.GasUsed != "" {
			sb.WriteString(StyleMeta.Render("  gas used: ") + Val(m.Progress.GasUsed) + "\n")
		}

	default:
		sb.WriteString(Err(string(m.Progress.Status)) + "\n")
		if m.Progress.Error != "" {
			sb.WriteString(StyleMeta.Render("  "+m.Progress.Error) + "\n")
		}
	}

	if m.Progress == nil || !m.Progress.Status.Terminal() {
		sb.WriteString("\n" + StyleMeta.Render("[ q ] quit") + "\n")
	}
	return sb.String()
}
