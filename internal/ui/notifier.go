package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

type sessionChangedMsg struct{}

type sessionExpiredMsg struct{}

// Notifier carries session events from other goroutines into the program.
// Signals coalesce: the model re-reads the session when it handles one, so
// only the latest matters.
type Notifier struct {
	changed chan struct{}
	expired chan struct{}
}

// NewNotifier returns a ready Notifier.
func NewNotifier() *Notifier {
	return &Notifier{
		changed: make(chan struct{}, 1),
		expired: make(chan struct{}, 1),
	}
}

// SessionChanged reports that the session was established or cleared.
func (n *Notifier) SessionChanged() {
	select {
	case n.changed <- struct{}{}:
	default:
	}
}

// SessionExpired reports that the server rejected the session.
func (n *Notifier) SessionExpired() {
	select {
	case n.expired <- struct{}{}:
	default:
	}
}

// listen waits for the next signal.
func (n *Notifier) listen(ctx context.Context) tea.Cmd {
	if n == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case <-n.expired:
			return sessionExpiredMsg{}
		case <-n.changed:
			return sessionChangedMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}
