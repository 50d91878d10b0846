package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/coursedeck/internal/nav"
	"github.com/five82/coursedeck/internal/view"
)

// controller is what the model needs from every view controller.
type controller interface {
	Apply(view.Result) view.Effect
	ClearNotice(id uint64)
	Close()
	Generation() uint64
	Pending() (view.Confirmation, bool)
	Cancel()
}

// confirmer carries out a pending confirmation.
type confirmer interface {
	Confirm() view.Effect
}

// status is the loading flag, error and notice a screen shows under the
// content.
type status struct {
	loading bool
	err     string
	notice  view.Notice
}

// hint is one command bar entry.
type hint struct {
	key  string
	desc string
}

// screen is one page. It wraps a controller and owns the widgets that
// render it. update reports whether it consumed the message; unconsumed
// keys fall through to the global bindings.
type screen interface {
	ctrl() controller
	start() (view.Effect, tea.Cmd)
	update(msg tea.Msg, keys keyMap) (view.Effect, tea.Cmd, bool)
	sync()
	resize(width, height int)
	typing() bool
	status() status
	hints() []hint
	view(styles Styles, width, height int) string
}

// cursor is a selection index over a list.
type cursor struct {
	index int
}

// move handles list navigation keys for a list of n items.
func (c *cursor) move(msg tea.KeyMsg, keys keyMap, n int) bool {
	switch {
	case key.Matches(msg, keys.Up):
		if c.index > 0 {
			c.index--
		}
	case key.Matches(msg, keys.Down):
		if c.index < n-1 {
			c.index++
		}
	case key.Matches(msg, keys.Top):
		c.index = 0
	case key.Matches(msg, keys.Bottom):
		c.index = n - 1
	default:
		return false
	}
	c.clamp(n)
	return true
}

func (c *cursor) clamp(n int) {
	if c.index >= n {
		c.index = n - 1
	}
	if c.index < 0 {
		c.index = 0
	}
}

// row is one rendered list entry.
type row struct {
	title string
	meta  string
	badge string
}

// renderList draws rows with the selected one highlighted, scrolled so
// that the selection stays visible.
func renderList(styles Styles, rows []row, selected, width, height int, empty string) string {
	if len(rows) == 0 {
		return styles.MutedText.Render(empty)
	}
	if height < 1 {
		height = 1
	}
	start := 0
	if selected >= height {
		start = selected - height + 1
	}
	end := start + height
	if end > len(rows) {
		end = len(rows)
	}

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		r := rows[i]
		text := truncate(r.title, width-len(r.badge)-4)
		if i == selected {
			line := "▸ " + text
			if r.badge != "" {
				line += "  " + r.badge
			}
			lines = append(lines, styles.Selected.Width(width).Render(line))
			continue
		}
		line := "  " + styles.Text.Render(text)
		if r.badge != "" {
			line += "  " + styles.SuccessText.Render(r.badge)
		}
		if r.meta != "" {
			line += "  " + styles.FaintText.Render(truncate(r.meta, width/2))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// goTo is an effect that navigates to r.
func goTo(r nav.Route) view.Effect {
	return view.Effect{Navigate: &r}
}

// title renders a page heading.
func title(styles Styles, text string) string {
	return styles.AccentText.Bold(true).Render(text)
}

// truncate shortens s to max runes with an ellipsis.
func truncate(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if max <= 0 {
		return ""
	}
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

func countLabel(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// homeScreen is the landing page. It has no controller.
type homeScreen struct {
	id nav.Identity
}

func (s *homeScreen) ctrl() controller { return nil }

func (s *homeScreen) start() (view.Effect, tea.Cmd) { return view.Effect{}, nil }

func (s *homeScreen) sync() {}

func (s *homeScreen) resize(int, int) {}

func (s *homeScreen) typing() bool { return false }

func (s *homeScreen) status() status { return status{} }

func (s *homeScreen) update(msg tea.Msg, keys keyMap) (view.Effect, tea.Cmd, bool) {
	k, ok := msg.(tea.KeyMsg)
	if !ok || s.id.IsAuthenticated() || !key.Matches(k, keys.Open) {
		return view.Effect{}, nil, false
	}
	return goTo(nav.To(nav.Login)), nil, true
}

func (s *homeScreen) hints() []hint {
	if s.id.IsAuthenticated() {
		return []hint{{"c", "Courses"}, {"m", "My courses"}, {"p", "Profile"}}
	}
	return []hint{{"c", "Courses"}, {"enter", "Sign in"}}
}

func (s *homeScreen) view(styles Styles, width, _ int) string {
	var b strings.Builder
	b.WriteString(title(styles, "Welcome to coursedeck"))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Width(width).Render(
		"Browse the course catalogue, enroll in courses and read their lessons. " +
			"Teachers can create courses and manage lessons from here as well."))
	b.WriteString("\n\n")
	if s.id.IsAuthenticated() {
		b.WriteString(styles.MutedText.Render("Press c to browse courses or m for the courses you are enrolled in."))
	} else {
		b.WriteString(styles.MutedText.Render("Press c to browse courses. You will be asked to sign in first."))
	}
	return b.String()
}
