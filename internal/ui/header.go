package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/coursedeck/internal/nav"
)

// renderHeader renders the top bar: logo, location and who is signed in.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	sp := m.spacer()
	compact := m.width < LayoutCompactWidth

	parts := []string{styles.Logo.Render("coursedeck")}
	if !compact {
		parts = append(parts, styles.MutedText.Render(m.history.Current().Path()))
	}
	parts = append(parts, m.identityLabel(styles))
	if exp := m.expiryLabel(styles, time.Now()); exp != "" {
		parts = append(parts, exp)
	}

	return styles.Header.Width(m.width).Render(strings.Join(parts, sp+sp))
}

func (m Model) identityLabel(styles Styles) string {
	if m.session == nil || !m.session.IsAuthenticated() {
		return styles.FaintText.Render("○ Guest")
	}
	role := "student"
	if r, ok := m.session.CurrentRole(); ok {
		role = string(r)
	}
	label := "● " + role
	if uid, ok := m.session.CurrentUserID(); ok {
		label = fmt.Sprintf("● %s #%d", role, uid)
	}
	return styles.SuccessText.Render(label)
}

// expiryLabel shows how long the token has left, when it says.
func (m Model) expiryLabel(styles Styles, now time.Time) string {
	if m.session == nil || !m.session.IsAuthenticated() {
		return ""
	}
	exp, ok := m.session.ExpiresAt()
	if !ok {
		return ""
	}
	left := exp.Sub(now)
	switch {
	case left <= 0:
		return styles.DangerText.Render("session expired")
	case left < 5*time.Minute:
		return styles.WarningText.Render("session " + formatRemaining(left))
	default:
		return styles.FaintText.Render("session " + formatRemaining(left))
	}
}

// formatRemaining formats a positive duration as "2h 5m" or "42m".
func formatRemaining(d time.Duration) string {
	if d < time.Minute {
		return "<1m"
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	if hours >= 24 {
		return fmt.Sprintf("%dd %dh", hours/24, hours%24)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// renderCommandBar renders the key hints for the current page.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	colon := styles.FaintText.Render(":")
	sp := m.spacer()

	var hints []hint
	if m.screen != nil {
		hints = append(hints, m.screen.hints()...)
	}
	if m.screen == nil || !m.screen.typing() {
		hints = append(hints, m.pageHints()...)
		hints = append(hints, hint{"?", "More"})
	}

	segments := make([]string, 0, len(hints)+1)
	for _, h := range hints {
		segments = append(segments, styles.AccentText.Render(h.key)+colon+styles.MutedText.Render(h.desc))
	}
	segments = append(segments, styles.AccentText.Render("T")+colon+styles.FaintText.Render(m.theme.Name))

	return styles.Header.Width(m.width).Render(strings.Join(segments, sp+sp))
}

// pageHints are the global page keys that make sense for the user.
func (m Model) pageHints() []hint {
	cur := m.history.Current().Page
	if m.session == nil || !m.session.IsAuthenticated() {
		if cur == nav.Login || cur == nav.Register {
			return nil
		}
		return []hint{{"c", "Courses"}}
	}
	var hs []hint
	if cur != nav.Courses {
		hs = append(hs, hint{"c", "Courses"})
	}
	if m.session.IsTeacher() {
		hs = append(hs, hint{"M", "New course"})
	} else if cur != nav.MyCourses {
		hs = append(hs, hint{"m", "My courses"})
	}
	if cur != nav.Profile {
		hs = append(hs, hint{"p", "Profile"})
	}
	return hs
}

// renderStatus renders the line under the content: progress, the page's
// error and notices.
func (m Model) renderStatus() string {
	styles := m.theme.Styles()
	var parts []string
	if m.screen != nil {
		st := m.screen.status()
		if st.loading {
			parts = append(parts, m.spinner.View()+" "+styles.MutedText.Render("Loading..."))
		}
		if st.err != "" {
			parts = append(parts, styles.DangerText.Render("✗ "+st.err))
		}
		if st.notice.Text != "" {
			if st.notice.Error {
				parts = append(parts, styles.DangerText.Render("✗ "+st.notice.Text))
			} else {
				parts = append(parts, styles.SuccessText.Render("✓ "+st.notice.Text))
			}
		}
	}
	if m.flash != "" {
		parts = append(parts, styles.InfoText.Render("● "+m.flash))
	}
	return lipgloss.NewStyle().Width(m.width).Padding(0, 1).Render(strings.Join(parts, "   "))
}

func (m Model) spacer() string {
	return lipgloss.NewStyle().Background(lipgloss.Color(m.theme.Surface)).Render(" ")
}
