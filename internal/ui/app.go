package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/five82/coursedeck/internal/api"
	"github.com/five82/coursedeck/internal/nav"
	"github.com/five82/coursedeck/internal/prefs"
	"github.com/five82/coursedeck/internal/session"
	"github.com/five82/coursedeck/internal/view"
)

// Session is the view of the session store the UI reads and drives.
type Session interface {
	view.Authenticator
	view.Account
	IsAuthenticated() bool
	CurrentRole() (session.Role, bool)
	ExpiresAt() (time.Time, bool)
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Session   Session
	Courses   api.CourseService
	Lessons   api.LessonService
	Users     api.UserService
	Notifier  *Notifier
	Start     nav.Route
	ThemeName string
	PrefsPath string
	Logger    zerolog.Logger
}

type resultMsg struct {
	result view.Result
}

type noticeExpiredMsg struct {
	gen uint64
	id  uint64
}

type flashExpiredMsg struct {
	id uint64
}

type clockMsg time.Time

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	session   Session
	courses   api.CourseService
	lessons   api.LessonService
	users     api.UserService
	notifier  *Notifier
	log       zerolog.Logger
	prefsPath string

	// UI state
	keys     keyMap
	theme    Theme
	spinner  spinner.Model
	width    int
	height   int
	ready    bool
	showHelp bool

	// Navigation
	history *nav.History
	guard   *nav.Guard
	next    nav.Route // where to go after signing in
	screen  screen
	modal   Modal

	flash   string
	flashID uint64

	boot tea.Cmd
}

// New creates the model and opens the start route.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = DefaultTheme
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	theme := GetTheme(themeName)
	spin := spinner.New(spinner.WithSpinner(spinner.MiniDot))
	spin.Style = theme.Styles().AccentText

	m := Model{
		ctx:       ctx,
		session:   opts.Session,
		courses:   opts.Courses,
		lessons:   opts.Lessons,
		users:     opts.Users,
		notifier:  opts.Notifier,
		log:       opts.Logger,
		prefsPath: prefsPath,
		keys:      DefaultKeyMap(),
		theme:     theme,
		spinner:   spin,
		history:   nav.NewHistory(nav.To(nav.Home)),
		guard:     nav.NewGuard(opts.Session),
	}
	m.boot = m.navigate(opts.Start)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.boot,
		m.spinner.Tick,
		m.notifier.listen(m.ctx),
		clockCmd(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		return m, nil

	case resultMsg:
		return m, m.applyResult(msg.result)

	case noticeExpiredMsg:
		if c := m.ctrl(); c != nil && c.Generation() == msg.gen {
			c.ClearNotice(msg.id)
		}
		return m, nil

	case flashExpiredMsg:
		if msg.id == m.flashID {
			m.flash = ""
		}
		return m, nil

	case confirmedMsg:
		return m, m.answer(msg.yes)

	case sessionChangedMsg:
		return m, tea.Batch(m.sessionChanged(), m.notifier.listen(m.ctx))

	case sessionExpiredMsg:
		return m, tea.Batch(m.sessionExpired(), m.notifier.listen(m.ctx))

	case clockMsg:
		// Redraws the expiry countdown.
		return m, clockCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	// Cursor blinks and the like belong to the screen's widgets.
	if m.screen != nil {
		eff, cmd, _ := m.screen.update(msg, m.keys)
		return m, m.after(eff, cmd)
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	return m.renderMain()
}

// handleKey gives the modal, then the screen, the first shot at a key.
// Whatever they leave falls through to the global bindings.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		modal, cmd, closed := m.modal.Update(msg, m.keys)
		if closed {
			m.modal = nil
		} else {
			m.modal = modal
		}
		return m, cmd
	}

	if m.screen != nil {
		eff, cmd, handled := m.screen.update(msg, m.keys)
		if handled {
			return m, m.after(eff, cmd)
		}
		if m.screen.typing() {
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	case key.Matches(msg, m.keys.CycleTheme):
		m.cycleTheme()
	case key.Matches(msg, m.keys.Back):
		return m, m.back()
	case key.Matches(msg, m.keys.GoCourses):
		return m, m.navigate(nav.To(nav.Courses))
	case key.Matches(msg, m.keys.GoMyCourses):
		return m, m.navigate(nav.To(nav.MyCourses))
	case key.Matches(msg, m.keys.GoManage):
		return m, m.navigate(nav.Editor(0))
	case key.Matches(msg, m.keys.GoProfile):
		return m, m.navigate(nav.To(nav.Profile))
	case key.Matches(msg, m.keys.Logout):
		if m.session != nil && m.session.IsAuthenticated() {
			return m, m.logout()
		}
	}
	return m, nil
}

func (m *Model) ctrl() controller {
	if m.screen == nil {
		return nil
	}
	return m.screen.ctrl()
}

// applyResult hands a finished command to the controller that issued it.
// Results from a screen that has since been replaced are dropped.
func (m *Model) applyResult(r view.Result) tea.Cmd {
	c := m.ctrl()
	if c == nil || c.Generation() != r.Generation() {
		m.log.Debug().Uint64("generation", r.Generation()).Msg("dropping stale result")
		return nil
	}
	if err := r.Err(); err != nil {
		m.log.Warn().Err(err).Str("page", m.history.Current().Path()).Msg("request failed")
	}
	return m.after(c.Apply(r), nil)
}

// after performs an effect and brings the screen and modal up to date.
func (m *Model) after(eff view.Effect, cmd tea.Cmd) tea.Cmd {
	out := m.perform(eff)
	if m.screen != nil {
		m.screen.sync()
	}
	m.syncModal()
	return tea.Batch(cmd, out)
}

// perform turns an effect into commands and navigation.
func (m *Model) perform(eff view.Effect) tea.Cmd {
	var cmds []tea.Cmd

	ctx := m.ctx
	for _, run := range eff.Commands {
		cmds = append(cmds, func() tea.Msg {
			return resultMsg{result: run(ctx)}
		})
	}

	if eff.Expire != 0 {
		if c := m.ctrl(); c != nil {
			gen, id := c.Generation(), eff.Expire
			cmds = append(cmds, tea.Tick(view.NoticeTTL, func(time.Time) tea.Msg {
				return noticeExpiredMsg{gen: gen, id: id}
			}))
		}
	}

	if eff.Replace != nil {
		m.history.Replace(*eff.Replace)
	}

	if eff.Navigate != nil {
		cmds = append(cmds, m.navigate(*eff.Navigate))
	}

	if eff.Flash != "" {
		cmds = append(cmds, m.setFlash(eff.Flash))
	}

	return tea.Batch(cmds...)
}

// syncModal opens the confirmation dialog when the controller asks for one.
func (m *Model) syncModal() {
	if m.modal != nil {
		return
	}
	c := m.ctrl()
	if c == nil {
		return
	}
	if conf, ok := c.Pending(); ok {
		m.modal = newConfirmModal(conf.Prompt)
	}
}

// answer resolves the pending confirmation.
func (m *Model) answer(yes bool) tea.Cmd {
	c := m.ctrl()
	if c == nil {
		return nil
	}
	cf, ok := c.(confirmer)
	if !yes || !ok {
		c.Cancel()
		return nil
	}
	return m.after(cf.Confirm(), nil)
}

// navigate pushes r through the guard and opens whatever it allows.
func (m *Model) navigate(r nav.Route) tea.Cmd {
	target, ok := m.guard.Check(r)
	if !ok {
		m.log.Debug().Str("requested", r.Path()).Str("redirect", target.Path()).Msg("navigation redirected")
		if target.Page == nav.Login {
			m.next = r
		}
	} else {
		m.log.Debug().Str("route", r.Path()).Msg("navigate")
	}
	m.history.Push(target)
	return m.open(target)
}

// open replaces the current screen with a fresh one for r.
func (m *Model) open(r nav.Route) tea.Cmd {
	if c := m.ctrl(); c != nil {
		c.Close()
	}
	m.modal = nil
	m.screen = m.newScreen(r)
	if m.ready {
		m.resizeScreen()
	}
	eff, cmd := m.screen.start()
	return m.after(eff, cmd)
}

// back returns to the previous route, checking it again since the session
// may have changed since it was visited.
func (m *Model) back() tea.Cmd {
	r, ok := m.history.Back()
	if !ok {
		return nil
	}
	target, allowed := m.guard.Check(r)
	if !allowed {
		if target.Page == nav.Login {
			m.next = r
		}
		m.history.Replace(target)
	}
	return m.open(target)
}

func (m *Model) newScreen(r nav.Route) screen {
	who := m.session
	switch r.Page {
	case nav.Login, nav.Register:
		next := m.next
		m.next = nav.Route{}
		return newAuthScreen(view.NewAuth(m.session, next), r.Page == nav.Register)
	case nav.Courses:
		return newCatalogScreen(view.NewCourseList(m.courses, who))
	case nav.CourseDetails:
		return newCourseScreen(view.NewCourseDetails(m.courses, m.lessons, who, r.CourseID), who.IsTeacher())
	case nav.MyCourses:
		return newMyCoursesScreen(view.NewMyCourses(m.courses, who))
	case nav.LessonList:
		return newLessonListScreen(view.NewLessonList(m.courses, m.lessons, who, r.CourseID))
	case nav.LessonDetails:
		return newLessonScreen(view.NewLessonDetails(m.courses, m.lessons, who, r.CourseID, r.LessonID), m.theme.Styles())
	case nav.CourseEditor:
		return newEditorScreen(view.NewEditor(m.courses, m.lessons, who), r, m.theme.Styles())
	case nav.Profile:
		return newProfileScreen(view.NewProfile(m.users, who))
	default:
		return &homeScreen{id: m.session}
	}
}

// sessionChanged re-checks the current page. Signing out in another place
// leaves protected pages.
func (m *Model) sessionChanged() tea.Cmd {
	cur := m.history.Current()
	if _, ok := m.guard.Check(cur); ok {
		return nil
	}
	m.log.Info().Str("page", cur.Path()).Msg("session ended, leaving page")
	return m.navigate(cur)
}

// sessionExpired sends the user to sign in again, returning afterwards to
// where they were.
func (m *Model) sessionExpired() tea.Cmd {
	cur := m.history.Current()
	m.log.Info().Str("page", cur.Path()).Msg("session expired")
	if cur.Page == nav.Login || cur.Page == nav.Register {
		return m.setFlash("Your session has expired. Please sign in again.")
	}
	if nav.Requires(cur.Page) != nav.Public {
		m.next = cur
	}
	return tea.Batch(
		m.navigate(nav.To(nav.Login)),
		m.setFlash("Your session has expired. Please sign in again."),
	)
}

func (m *Model) logout() tea.Cmd {
	m.session.Logout()
	m.log.Info().Msg("signed out")
	m.history.Reset(nav.To(nav.Login))
	return tea.Batch(m.open(nav.To(nav.Login)), m.setFlash("You have been signed out."))
}

func (m *Model) setFlash(text string) tea.Cmd {
	m.flashID++
	m.flash = text
	id := m.flashID
	return tea.Tick(view.NoticeTTL, func(time.Time) tea.Msg {
		return flashExpiredMsg{id: id}
	})
}

func (m *Model) cycleTheme() {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	m.spinner.Style = m.theme.Styles().AccentText
	if m.prefsPath != "" {
		name := m.theme.Name
		if err := prefs.Update(m.prefsPath, func(p *prefs.Prefs) { p.Theme = name }); err != nil {
			m.log.Warn().Err(err).Str("path", m.prefsPath).Msg("save preferences")
		}
	}
	if s, ok := m.screen.(interface{ restyle(Styles) }); ok {
		s.restyle(m.theme.Styles())
	}
}

func (m *Model) resize() {
	if m.screen != nil {
		m.resizeScreen()
	}
}

func (m *Model) resizeScreen() {
	w, h := m.contentSize()
	m.screen.resize(w, h)
}

// contentSize is the area left for the page between the bars.
func (m Model) contentSize() (int, int) {
	return max(m.width-2, 1), max(m.height-chromeHeight, 1)
}

func (m Model) renderMain() string {
	w, h := m.contentSize()
	body := ""
	if m.screen != nil {
		body = m.screen.view(m.theme.Styles(), w, h)
	}
	content := lipgloss.NewStyle().
		Width(m.width).
		Height(h).
		MaxHeight(h).
		Padding(0, 1).
		Render(body)

	return strings.Join([]string{
		m.renderHeader(),
		m.renderCommandBar(),
		content,
		m.renderStatus(),
	}, "\n")
}

func clockCmd() tea.Cmd {
	return tea.Tick(expiryRefresh, func(t time.Time) tea.Msg {
		return clockMsg(t)
	})
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	ctx := m.ctx
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		fm.rememberPage()
	}
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// rememberPage records the current page so the next start can reopen it.
// Sign-in pages are not worth returning to.
func (m Model) rememberPage() {
	if m.prefsPath == "" {
		return
	}
	last := ""
	if cur := m.history.Current(); nav.Requires(cur.Page) != nav.Public {
		last = cur.Path()
	}
	if err := prefs.Update(m.prefsPath, func(p *prefs.Prefs) { p.LastPage = last }); err != nil {
		m.log.Warn().Err(err).Str("path", m.prefsPath).Msg("save preferences")
	}
}
