package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application. Letter
// bindings are ignored while a form field has focus.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Back       key.Binding

	// Pages
	GoCourses   key.Binding
	GoMyCourses key.Binding
	GoManage    key.Binding
	GoProfile   key.Binding
	Logout      key.Binding

	// Lists
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Open     key.Binding
	Filter   key.Binding

	// Actions
	Enroll   key.Binding
	Unenroll key.Binding
	Lessons  key.Binding
	Edit     key.Binding
	New      key.Binding
	Delete   key.Binding
	Retry    key.Binding

	// Forms
	Focus      key.Binding
	NextField  key.Binding
	PrevField  key.Binding
	Submit     key.Binding
	ToggleMode key.Binding
	ToggleRole key.Binding

	// Editor tabs
	CourseTab  key.Binding
	LessonsTab key.Binding

	// Confirmation
	Yes key.Binding
	No  key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back"),
		),

		GoCourses: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Courses"),
		),
		GoMyCourses: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "My courses"),
		),
		GoManage: key.NewBinding(
			key.WithKeys("M"),
			key.WithHelp("M", "New course"),
		),
		GoProfile: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "Profile"),
		),
		Logout: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "Sign out"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("ctrl+u", "Page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("ctrl+d", "Page down"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Open"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search"),
		),

		Enroll: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "Enroll"),
		),
		Unenroll: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "Unenroll"),
		),
		Lessons: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "Lessons"),
		),
		Edit: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "Edit"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "New lesson"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "Delete"),
		),
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Reload"),
		),

		Focus: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "Edit fields"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Previous field"),
		),
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "Save"),
		),
		ToggleMode: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "Sign in / register"),
		),
		ToggleRole: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "Student / teacher"),
		),

		CourseTab: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "Course tab"),
		),
		LessonsTab: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "Lessons tab"),
		),

		Yes: key.NewBinding(
			key.WithKeys("y", "enter"),
			key.WithHelp("y", "Confirm"),
		),
		No: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n", "Cancel"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.GoCourses, k.GoMyCourses, k.GoManage, k.GoProfile, k.Logout, k.Back},
		{k.Up, k.Down, k.Top, k.Bottom, k.PageUp, k.PageDown, k.Open, k.Filter},
		{k.Enroll, k.Unenroll, k.Lessons, k.Edit, k.New, k.Delete, k.Retry},
		{k.Focus, k.NextField, k.PrevField, k.Submit, k.ToggleMode, k.ToggleRole, k.CourseTab, k.LessonsTab},
		{k.CycleTheme, k.Help, k.Quit},
	}
}
