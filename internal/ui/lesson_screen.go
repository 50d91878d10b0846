package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/coursedeck/internal/view"
)

// lessonListScreen lists every lesson of a course.
type lessonListScreen struct {
	c   *view.LessonList
	sel cursor
}

func newLessonListScreen(c *view.LessonList) *lessonListScreen {
	return &lessonListScreen{c: c}
}

func (s *lessonListScreen) ctrl() controller { return s.c }

func (s *lessonListScreen) start() (view.Effect, tea.Cmd) { return s.c.Load(), nil }

func (s *lessonListScreen) sync() { s.sel.clamp(len(s.c.Lessons)) }

func (s *lessonListScreen) resize(int, int) {}

func (s *lessonListScreen) typing() bool { return false }

func (s *lessonListScreen) status() status {
	return status{loading: s.c.Loading, err: s.c.Err, notice: s.c.Notice}
}

func (s *lessonListScreen) hints() []hint {
	hs := []hint{{"enter", "Read"}, {"esc", "Course"}}
	if s.c.IsOwner() {
		hs = append(hs, hint{"n", "New lesson"}, hint{"E", "Edit"}, hint{"d", "Delete"})
	}
	return hs
}

func (s *lessonListScreen) update(msg tea.Msg, keys keyMap) (view.Effect, tea.Cmd, bool) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return view.Effect{}, nil, false
	}
	if s.sel.move(k, keys, len(s.c.Lessons)) {
		return view.Effect{}, nil, true
	}
	switch {
	case key.Matches(k, keys.Back):
		return s.c.BackToCourse(), nil, true
	case key.Matches(k, keys.New):
		return s.c.NewLesson(), nil, true
	case key.Matches(k, keys.Retry):
		return s.c.Load(), nil, true
	}
	if len(s.c.Lessons) == 0 {
		return view.Effect{}, nil, false
	}
	selected := s.c.Lessons[s.sel.index]
	switch {
	case key.Matches(k, keys.Open):
		return s.c.ViewLesson(selected.ID), nil, true
	case key.Matches(k, keys.Edit):
		return s.c.EditLesson(selected.ID), nil, true
	case key.Matches(k, keys.Delete):
		s.c.RequestDelete(selected.ID)
		return view.Effect{}, nil, true
	}
	return view.Effect{}, nil, false
}

func (s *lessonListScreen) view(styles Styles, width, height int) string {
	var b strings.Builder
	heading := "Lessons"
	if s.c.Course.Title != "" {
		heading = s.c.Course.Title + " · Lessons"
	}
	b.WriteString(title(styles, heading))
	b.WriteString("  ")
	b.WriteString(styles.FaintText.Render(countLabel(len(s.c.Lessons), "lesson")))
	b.WriteString("\n\n")

	rows := make([]row, 0, len(s.c.Lessons))
	for i, lesson := range s.c.Lessons {
		rows = append(rows, row{title: fmt.Sprintf("%d. %s", i+1, lesson.Title)})
	}
	empty := "This course has no lessons yet."
	if s.c.Loading {
		empty = ""
	}
	b.WriteString(renderList(styles, rows, s.sel.index, width, height-3, empty))
	return b.String()
}

// lessonScreen reads one lesson.
type lessonScreen struct {
	c        *view.LessonDetails
	viewport viewport.Model
	styles   Styles
	width    int
	rendered int64
}

func newLessonScreen(c *view.LessonDetails, styles Styles) *lessonScreen {
	return &lessonScreen{c: c, viewport: viewport.New(0, 0), styles: styles}
}

func (s *lessonScreen) ctrl() controller { return s.c }

func (s *lessonScreen) start() (view.Effect, tea.Cmd) { return s.c.Load(), nil }

// sync renders the lesson into the viewport once access is granted.
func (s *lessonScreen) sync() {
	lesson, ok := s.c.Lesson()
	if !ok || s.rendered == lesson.ID {
		return
	}
	s.rendered = lesson.ID
	s.viewport.SetContent(renderMarkdown(lesson.Content, s.styles, s.width))
	s.viewport.GotoTop()
}

func (s *lessonScreen) resize(width, height int) {
	s.width = width
	s.viewport.Width = width
	s.viewport.Height = max(height-3, 1)
	s.rendered = 0
	s.sync()
}

func (s *lessonScreen) restyle(styles Styles) {
	s.styles = styles
	s.rendered = 0
	s.sync()
}

func (s *lessonScreen) typing() bool { return false }

func (s *lessonScreen) status() status {
	return status{loading: s.c.Loading, err: s.c.Err, notice: s.c.Notice}
}

func (s *lessonScreen) hints() []hint {
	hs := []hint{{"j/k", "Scroll"}, {"l", "All lessons"}}
	if s.c.IsOwner() {
		hs = append(hs, hint{"E", "Edit"})
	}
	return hs
}

func (s *lessonScreen) update(msg tea.Msg, keys keyMap) (view.Effect, tea.Cmd, bool) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return view.Effect{}, nil, false
	}
	switch {
	case key.Matches(k, keys.Lessons):
		return s.c.BackToLessons(), nil, true
	case key.Matches(k, keys.Edit):
		return s.c.Edit(), nil, true
	case key.Matches(k, keys.Top):
		s.viewport.GotoTop()
		return view.Effect{}, nil, true
	case key.Matches(k, keys.Bottom):
		s.viewport.GotoBottom()
		return view.Effect{}, nil, true
	case key.Matches(k, keys.Up), key.Matches(k, keys.Down), key.Matches(k, keys.PageUp), key.Matches(k, keys.PageDown):
		var cmd tea.Cmd
		s.viewport, cmd = s.viewport.Update(msg)
		return view.Effect{}, cmd, true
	}
	return view.Effect{}, nil, false
}

func (s *lessonScreen) view(styles Styles, _, _ int) string {
	lesson, ok := s.c.Lesson()
	if !ok {
		if s.c.Loading {
			return ""
		}
		return styles.MutedText.Render("This lesson is not available.")
	}
	var b strings.Builder
	b.WriteString(title(styles, lesson.Title))
	if s.c.Course.Title != "" {
		b.WriteString("  " + styles.FaintText.Render(s.c.Course.Title))
	}
	b.WriteString("\n\n")
	b.WriteString(s.viewport.View())
	return b.String()
}
