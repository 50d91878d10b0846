package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/coursedeck/internal/view"
)

// profileScreen shows the account and edits its name and email.
type profileScreen struct {
	c      *view.Profile
	form   *form
	loaded int64
}

func newProfileScreen(c *view.Profile) *profileScreen {
	return &profileScreen{
		c: c,
		form: newForm(
			textField("name", "Name", "", 100),
			textField("email", "Email", "", 254),
		),
	}
}

func (s *profileScreen) ctrl() controller { return s.c }

func (s *profileScreen) start() (view.Effect, tea.Cmd) { return s.c.Load(), nil }

// sync fills the form the first time the profile arrives.
func (s *profileScreen) sync() {
	if s.c.User.ID == 0 || s.loaded == s.c.User.ID {
		return
	}
	s.loaded = s.c.User.ID
	s.form.SetValue("name", s.c.User.Name)
	s.form.SetValue("email", s.c.User.Email)
}

func (s *profileScreen) resize(width, _ int) { s.form.SetWidth(width - 4) }

func (s *profileScreen) typing() bool { return s.form.Focused() }

func (s *profileScreen) status() status {
	return status{loading: s.c.Loading || s.c.Submitting, err: s.c.Err, notice: s.c.Notice}
}

func (s *profileScreen) hints() []hint {
	if s.form.Focused() {
		return []hint{{"tab", "Next field"}, {"ctrl+s", "Save"}, {"esc", "Done editing"}}
	}
	return []hint{{"i", "Edit"}, {"ctrl+s", "Save"}, {"d", "Delete account"}, {"o", "Sign out"}}
}

func (s *profileScreen) update(msg tea.Msg, keys keyMap) (view.Effect, tea.Cmd, bool) {
	k, isKey := msg.(tea.KeyMsg)
	if isKey && key.Matches(k, keys.Submit) {
		return s.save(), nil, true
	}
	if s.form.Focused() {
		if isKey && key.Matches(k, keys.Back) {
			s.form.Blur()
			return view.Effect{}, nil, true
		}
		return view.Effect{}, s.form.Update(msg, keys), true
	}
	if !isKey || s.c.User.ID == 0 {
		return view.Effect{}, nil, false
	}
	switch {
	case key.Matches(k, keys.Focus), key.Matches(k, keys.Open):
		return view.Effect{}, s.form.Focus(), true
	case key.Matches(k, keys.Delete):
		s.c.RequestDelete()
		return view.Effect{}, nil, true
	}
	return view.Effect{}, nil, false
}

func (s *profileScreen) save() view.Effect {
	eff, err := s.c.Save(view.ProfileForm{
		Name:  s.form.Value("name"),
		Email: s.form.Value("email"),
	})
	s.form.SetErrors(err)
	if err == nil {
		s.form.Blur()
	}
	return eff
}

func (s *profileScreen) view(styles Styles, _, _ int) string {
	if s.c.User.ID == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(title(styles, "Profile"))
	b.WriteString("  ")
	b.WriteString(styles.InfoText.Render(s.c.User.Role))
	b.WriteString("\n\n")
	b.WriteString(s.form.View(styles))
	return b.String()
}
