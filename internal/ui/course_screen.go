package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/coursedeck/internal/view"
)

// courseScreen shows one course and a preview of its lessons.
type courseScreen struct {
	c       *view.CourseDetails
	teacher bool
	sel     cursor
}

func newCourseScreen(c *view.CourseDetails, teacher bool) *courseScreen {
	return &courseScreen{c: c, teacher: teacher}
}

func (s *courseScreen) ctrl() controller { return s.c }

func (s *courseScreen) start() (view.Effect, tea.Cmd) { return s.c.Load(), nil }

func (s *courseScreen) sync() { s.sel.clamp(len(s.c.Lessons)) }

func (s *courseScreen) resize(int, int) {}

func (s *courseScreen) typing() bool { return false }

func (s *courseScreen) status() status {
	return status{loading: s.c.Loading || s.c.Submitting, err: s.c.Err, notice: s.c.Notice}
}

func (s *courseScreen) hints() []hint {
	hs := []hint{{"enter", "Open lesson"}, {"l", "All lessons"}}
	switch {
	case s.c.IsOwner():
		hs = append(hs, hint{"E", "Manage course"})
	case s.c.IsEnrolled():
		hs = append(hs, hint{"u", "Unenroll"})
	case !s.teacher:
		hs = append(hs, hint{"e", "Enroll"})
	}
	return hs
}

func (s *courseScreen) update(msg tea.Msg, keys keyMap) (view.Effect, tea.Cmd, bool) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return view.Effect{}, nil, false
	}
	if s.sel.move(k, keys, len(s.c.Lessons)) {
		return view.Effect{}, nil, true
	}
	switch {
	case key.Matches(k, keys.Open):
		if len(s.c.Lessons) == 0 {
			return view.Effect{}, nil, true
		}
		return s.c.ViewLesson(s.c.Lessons[s.sel.index].ID), nil, true
	case key.Matches(k, keys.Lessons):
		return s.c.ViewAllLessons(), nil, true
	case key.Matches(k, keys.Enroll):
		if s.c.IsEnrolled() || s.c.IsOwner() {
			return view.Effect{}, nil, true
		}
		return s.c.Enroll(), nil, true
	case key.Matches(k, keys.Unenroll):
		if !s.c.IsEnrolled() {
			return view.Effect{}, nil, true
		}
		return s.c.Unenroll(), nil, true
	case key.Matches(k, keys.Edit):
		return s.c.Edit(), nil, true
	case key.Matches(k, keys.Retry):
		return s.c.Load(), nil, true
	}
	return view.Effect{}, nil, false
}

func (s *courseScreen) view(styles Styles, width, height int) string {
	course := s.c.Course
	if course.Title == "" {
		return styles.MutedText.Render(fmt.Sprintf("Course #%d", s.c.CourseID))
	}

	var b strings.Builder
	b.WriteString(title(styles, course.Title))
	switch {
	case s.c.IsOwner():
		b.WriteString("  " + styles.InfoText.Render("you teach this course"))
	case s.c.IsEnrolled():
		b.WriteString("  " + styles.SuccessText.Render("enrolled"))
	}
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Width(width).Render(course.Description))
	b.WriteString("\n\n")

	b.WriteString(styles.AccentText.Render("Lessons"))
	if s.c.LessonCount > 0 {
		b.WriteString("  " + styles.FaintText.Render(countLabel(s.c.LessonCount, "lesson")))
	}
	b.WriteString("\n")

	rows := make([]row, 0, len(s.c.Lessons))
	for i, lesson := range s.c.Lessons {
		rows = append(rows, row{title: fmt.Sprintf("%d. %s", i+1, lesson.Title)})
	}
	used := strings.Count(b.String(), "\n") + 2
	b.WriteString(renderList(styles, rows, s.sel.index, width, height-used, "This course has no lessons yet."))
	if s.c.LessonCount > len(s.c.Lessons) {
		b.WriteString("\n")
		b.WriteString(styles.FaintText.Render(fmt.Sprintf("%d more. Press l to see every lesson.", s.c.LessonCount-len(s.c.Lessons))))
	}
	if !s.c.CanViewLessons() && !s.teacher {
		b.WriteString("\n\n")
		b.WriteString(styles.WarningText.Render("Enroll in this course to read its lessons."))
	}
	return b.String()
}
