package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// confirmedMsg answers a confirmation modal.
type confirmedMsg struct {
	yes bool
}

// confirmModal asks a yes/no question.
type confirmModal struct {
	prompt string
}

func newConfirmModal(prompt string) confirmModal {
	return confirmModal{prompt: prompt}
}

func (c confirmModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil, false
	}
	switch {
	case key.Matches(k, keys.Yes):
		return c, answer(true), true
	case key.Matches(k, keys.No):
		return c, answer(false), true
	}
	return c, nil, false
}

func (c confirmModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	var b strings.Builder
	b.WriteString(styles.WarningText.Bold(true).Render("Confirm"))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Width(modalWidth - 6).Render(c.prompt))
	b.WriteString("\n\n")
	b.WriteString(styles.AccentText.Render("y") + styles.MutedText.Render(" confirm   ") +
		styles.AccentText.Render("n") + styles.MutedText.Render(" cancel"))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Warning)).
		Padding(1, 2).
		Width(modalWidth)

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		box.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}

func answer(yes bool) tea.Cmd {
	return func() tea.Msg { return confirmedMsg{yes: yes} }
}
