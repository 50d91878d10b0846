package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/coursedeck/internal/api"
	"github.com/five82/coursedeck/internal/view"
)

// catalogScreen lists every course with a search box.
type catalogScreen struct {
	c      *view.CourseList
	search textinput.Model
	sel    cursor
	height int
}

func newCatalogScreen(c *view.CourseList) *catalogScreen {
	in := textinput.New()
	in.Placeholder = "Search courses"
	in.Prompt = "/ "
	return &catalogScreen{c: c, search: in}
}

func (s *catalogScreen) ctrl() controller { return s.c }

func (s *catalogScreen) start() (view.Effect, tea.Cmd) { return s.c.Load(), nil }

func (s *catalogScreen) sync() { s.sel.clamp(len(s.c.Courses())) }

func (s *catalogScreen) resize(width, height int) {
	s.search.Width = width - 4
	s.height = height - 4
}

func (s *catalogScreen) typing() bool { return s.search.Focused() }

func (s *catalogScreen) status() status {
	return status{loading: s.c.Loading, err: s.c.Err, notice: s.c.Notice}
}

func (s *catalogScreen) hints() []hint {
	if s.search.Focused() {
		return []hint{{"enter", "Apply"}, {"esc", "Clear"}}
	}
	return []hint{{"/", "Search"}, {"enter", "Details"}, {"e", "Enroll"}, {"r", "Reload"}, {"m", "My courses"}}
}

func (s *catalogScreen) update(msg tea.Msg, keys keyMap) (view.Effect, tea.Cmd, bool) {
	k, isKey := msg.(tea.KeyMsg)
	if s.search.Focused() {
		if isKey {
			switch {
			case key.Matches(k, keys.Back):
				s.search.SetValue("")
				s.search.Blur()
				s.c.Filter("")
				s.sync()
				return view.Effect{}, nil, true
			case k.Type == tea.KeyEnter:
				s.search.Blur()
				return view.Effect{}, nil, true
			}
		}
		var cmd tea.Cmd
		s.search, cmd = s.search.Update(msg)
		s.c.Filter(s.search.Value())
		s.sync()
		return view.Effect{}, cmd, true
	}
	if !isKey {
		return view.Effect{}, nil, false
	}

	courses := s.c.Courses()
	if s.sel.move(k, keys, len(courses)) {
		return view.Effect{}, nil, true
	}
	switch {
	case key.Matches(k, keys.Filter):
		return view.Effect{}, s.search.Focus(), true
	case key.Matches(k, keys.Retry):
		return s.c.Load(), nil, true
	}
	if len(courses) == 0 {
		return view.Effect{}, nil, false
	}
	selected := courses[s.sel.index]
	switch {
	case key.Matches(k, keys.Open):
		return s.c.Open(selected.ID), nil, true
	case key.Matches(k, keys.Enroll):
		return s.c.Enroll(selected.ID), nil, true
	}
	return view.Effect{}, nil, false
}

func (s *catalogScreen) view(styles Styles, width, height int) string {
	courses := s.c.Courses()
	rows := make([]row, 0, len(courses))
	for _, course := range courses {
		r := row{title: course.Title, meta: course.Description}
		switch {
		case s.c.Owned(course):
			r.badge = "owner"
		case course.IsEnrolled:
			r.badge = "enrolled"
		case s.c.Enrolling(course.ID):
			r.badge = "enrolling..."
		}
		rows = append(rows, r)
	}

	var b strings.Builder
	b.WriteString(title(styles, "Courses"))
	b.WriteString("  ")
	b.WriteString(styles.FaintText.Render(countLabel(len(courses), "course")))
	b.WriteString("\n")
	if s.search.Focused() || s.c.Term() != "" {
		b.WriteString(s.search.View())
	}
	b.WriteString("\n\n")

	empty := "No courses available yet."
	if s.c.Term() != "" {
		empty = fmt.Sprintf("No courses match %q.", s.c.Term())
	}
	if s.c.Loading && len(rows) == 0 {
		empty = ""
	}
	b.WriteString(renderList(styles, rows, s.sel.index, width, height-4, empty))
	return b.String()
}

// myCoursesScreen lists the courses the student is enrolled in.
type myCoursesScreen struct {
	c   *view.MyCourses
	sel cursor
}

func newMyCoursesScreen(c *view.MyCourses) *myCoursesScreen {
	return &myCoursesScreen{c: c}
}

func (s *myCoursesScreen) ctrl() controller { return s.c }

func (s *myCoursesScreen) start() (view.Effect, tea.Cmd) { return s.c.Load(), nil }

func (s *myCoursesScreen) sync() { s.sel.clamp(len(s.c.Courses)) }

func (s *myCoursesScreen) resize(int, int) {}

func (s *myCoursesScreen) typing() bool { return false }

func (s *myCoursesScreen) status() status {
	return status{loading: s.c.Loading, err: s.c.Err, notice: s.c.Notice}
}

func (s *myCoursesScreen) hints() []hint {
	return []hint{{"enter", "Details"}, {"u", "Unenroll"}, {"c", "Browse courses"}}
}

func (s *myCoursesScreen) update(msg tea.Msg, keys keyMap) (view.Effect, tea.Cmd, bool) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return view.Effect{}, nil, false
	}
	if s.sel.move(k, keys, len(s.c.Courses)) {
		return view.Effect{}, nil, true
	}
	if key.Matches(k, keys.GoCourses) {
		return s.c.Browse(), nil, true
	}
	if key.Matches(k, keys.Retry) {
		return s.c.Load(), nil, true
	}
	if len(s.c.Courses) == 0 {
		return view.Effect{}, nil, false
	}
	selected := s.c.Courses[s.sel.index]
	switch {
	case key.Matches(k, keys.Open):
		return s.c.Open(selected.ID), nil, true
	case key.Matches(k, keys.Unenroll):
		s.c.RequestUnenroll(selected.ID)
		return view.Effect{}, nil, true
	}
	return view.Effect{}, nil, false
}

func (s *myCoursesScreen) view(styles Styles, width, height int) string {
	var b strings.Builder
	b.WriteString(title(styles, "My courses"))
	b.WriteString("\n\n")
	empty := "You are not enrolled in any courses yet. Press c to browse the catalogue."
	if s.c.Loading {
		empty = ""
	}
	b.WriteString(renderList(styles, courseRows(s.c.Courses), s.sel.index, width, height-3, empty))
	return b.String()
}

func courseRows(courses []api.Course) []row {
	rows := make([]row, 0, len(courses))
	for _, course := range courses {
		rows = append(rows, row{title: course.Title, meta: course.Description})
	}
	return rows
}
