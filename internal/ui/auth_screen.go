package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/coursedeck/internal/api"
	"github.com/five82/coursedeck/internal/nav"
	"github.com/five82/coursedeck/internal/view"
)

// authScreen is the sign-in page, or the sign-up page when register is set.
type authScreen struct {
	c        *view.Auth
	register bool
	role     string
	form     *form
}

func newAuthScreen(c *view.Auth, register bool) *authScreen {
	s := &authScreen{c: c, register: register, role: api.RoleStudent}
	if register {
		s.form = newForm(
			textField("name", "Name", "Ada Lovelace", 100),
			textField("email", "Email", "you@example.com", 254),
			passwordField("password", "Password"),
		)
	} else {
		s.form = newForm(
			textField("email", "Email", "you@example.com", 254),
			passwordField("password", "Password"),
		)
	}
	return s
}

func (s *authScreen) ctrl() controller { return s.c }

func (s *authScreen) start() (view.Effect, tea.Cmd) {
	return view.Effect{}, s.form.Focus()
}

func (s *authScreen) sync() {}

func (s *authScreen) resize(width, _ int) { s.form.SetWidth(width - 4) }

func (s *authScreen) typing() bool { return s.form.Focused() }

func (s *authScreen) status() status {
	return status{loading: s.c.Submitting, err: s.c.Err, notice: s.c.Notice}
}

func (s *authScreen) hints() []hint {
	hs := []hint{{"tab", "Next field"}, {"enter", "Submit"}}
	if s.register {
		hs = append(hs, hint{"ctrl+t", "Role"}, hint{"ctrl+r", "Sign in instead"})
	} else {
		hs = append(hs, hint{"ctrl+r", "Create an account"})
	}
	return hs
}

func (s *authScreen) update(msg tea.Msg, keys keyMap) (view.Effect, tea.Cmd, bool) {
	k, isKey := msg.(tea.KeyMsg)
	if !isKey {
		return view.Effect{}, s.form.Update(msg, keys), true
	}

	switch {
	case key.Matches(k, keys.ToggleMode):
		if s.register {
			return goTo(nav.To(nav.Login)), nil, true
		}
		return goTo(nav.To(nav.Register)), nil, true
	case key.Matches(k, keys.ToggleRole) && s.register:
		if s.role == api.RoleStudent {
			s.role = api.RoleTeacher
		} else {
			s.role = api.RoleStudent
		}
		return view.Effect{}, nil, true
	case key.Matches(k, keys.Submit):
		return s.submit(), nil, true
	}

	if !s.form.Focused() {
		if key.Matches(k, keys.Focus) || key.Matches(k, keys.Open) {
			return view.Effect{}, s.form.Focus(), true
		}
		return view.Effect{}, nil, false
	}

	switch {
	case key.Matches(k, keys.Back):
		s.form.Blur()
		return view.Effect{}, nil, true
	case k.Type == tea.KeyEnter:
		if s.form.Last() {
			return s.submit(), nil, true
		}
		return view.Effect{}, s.form.move(1), true
	}
	return view.Effect{}, s.form.Update(msg, keys), true
}

func (s *authScreen) submit() view.Effect {
	var (
		eff view.Effect
		err error
	)
	if s.register {
		eff, err = s.c.Register(view.RegisterForm{
			Name:     s.form.Value("name"),
			Email:    s.form.Value("email"),
			Password: s.form.Value("password"),
			Role:     s.role,
		})
	} else {
		eff, err = s.c.Login(view.LoginForm{
			Email:    s.form.Value("email"),
			Password: s.form.Value("password"),
		})
	}
	s.form.SetErrors(err)
	return eff
}

func (s *authScreen) view(styles Styles, width, _ int) string {
	var b strings.Builder
	if s.register {
		b.WriteString(title(styles, "Create an account"))
	} else {
		b.WriteString(title(styles, "Sign in"))
	}
	b.WriteString("\n\n")
	b.WriteString(s.form.View(styles))
	if s.register {
		b.WriteString(styles.MutedText.Render("Role  "))
		for _, r := range []string{api.RoleStudent, api.RoleTeacher} {
			if r == s.role {
				b.WriteString(styles.ActiveTab.Render(r))
			} else {
				b.WriteString(styles.Tab.Render(r))
			}
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if s.register {
		b.WriteString(styles.FaintText.Width(width).Render("Already registered? Press ctrl+r to sign in."))
	} else {
		b.WriteString(styles.FaintText.Width(width).Render("No account yet? Press ctrl+r to register."))
	}
	return b.String()
}
