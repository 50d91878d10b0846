package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/coursedeck/internal/nav"
	"github.com/five82/coursedeck/internal/view"
)

// editorScreen is course management: the course form, the lesson list and
// the lesson pane, one tab at a time.
type editorScreen struct {
	e        *view.Editor
	courseID int64
	lessonID int64

	courseForm *form
	lessonForm *form
	reader     viewport.Model
	sel        cursor

	styles Styles
	width  int
	synced string
}

func newEditorScreen(e *view.Editor, r nav.Route, styles Styles) *editorScreen {
	return &editorScreen{
		e:        e,
		courseID: r.CourseID,
		lessonID: r.LessonID,
		courseForm: newForm(
			textField("title", "Title", "Introduction to Go", 100),
			areaField("description", "Description", "What students will learn", 1000),
		),
		lessonForm: newForm(
			textField("title", "Title", "Lesson title", 100),
			areaField("content", "Content (markdown)", "Write the lesson here", 0),
		),
		reader: viewport.New(0, 0),
		styles: styles,
	}
}

func (s *editorScreen) ctrl() controller { return s.e }

func (s *editorScreen) start() (view.Effect, tea.Cmd) {
	var eff view.Effect
	if s.lessonID != 0 {
		eff = s.e.StartLesson(s.courseID, s.lessonID)
	} else {
		eff = s.e.Start(s.courseID)
	}
	s.sync()
	if s.courseID == 0 {
		return eff, s.courseForm.Focus()
	}
	return eff, nil
}

// sync refills the widgets whenever the editor moves or finishes loading.
func (s *editorScreen) sync() {
	st := s.e.State()
	s.sel.clamp(len(s.e.Lessons))
	k := fmt.Sprintf("%s|%d|%t|%d|%t", st, s.e.Course.ID, s.e.Ready(), s.e.Lesson.ID, s.e.LessonLoaded())
	if k == s.synced {
		return
	}
	s.synced = k
	s.courseForm.Blur()
	s.lessonForm.Blur()
	s.courseForm.SetValue("title", s.e.CourseForm.Title)
	s.courseForm.SetValue("description", s.e.CourseForm.Description)
	s.lessonForm.SetValue("title", s.e.LessonForm.Title)
	s.lessonForm.SetValue("content", s.e.LessonForm.Content)
	s.courseForm.SetErrors(nil)
	s.lessonForm.SetErrors(nil)
	if st.Sub == view.ViewingLesson && s.e.LessonLoaded() {
		s.reader.SetContent(renderMarkdown(s.e.Lesson.Content, s.styles, s.width))
		s.reader.GotoTop()
	}
}

func (s *editorScreen) resize(width, height int) {
	s.width = width
	s.courseForm.SetWidth(width - 4)
	s.lessonForm.SetWidth(width - 4)
	s.reader.Width = width
	s.reader.Height = max(height-6, 1)
	s.synced = ""
	s.sync()
}

func (s *editorScreen) restyle(styles Styles) {
	s.styles = styles
	s.synced = ""
	s.sync()
}

func (s *editorScreen) typing() bool {
	return s.courseForm.Focused() || s.lessonForm.Focused()
}

func (s *editorScreen) status() status {
	return status{loading: s.e.Loading || s.e.Submitting, err: s.e.Err, notice: s.e.Notice}
}

func (s *editorScreen) hints() []hint {
	if s.typing() {
		return []hint{{"tab", "Next field"}, {"ctrl+s", "Save"}, {"esc", "Done editing"}}
	}
	st := s.e.State()
	switch st.Tab {
	case view.TabLessons:
		return []hint{{"enter", "View"}, {"E", "Edit"}, {"n", "New lesson"}, {"d", "Delete"}, {"1", "Course"}, {"esc", "Back"}}
	case view.TabLessonDetail:
		if st.Sub == view.ViewingLesson {
			return []hint{{"E", "Edit"}, {"d", "Delete"}, {"j/k", "Scroll"}, {"esc", "Lessons"}}
		}
		return []hint{{"i", "Edit fields"}, {"ctrl+s", "Save"}, {"esc", "Lessons"}}
	}
	hs := []hint{{"i", "Edit fields"}, {"ctrl+s", "Save"}}
	if st.Mode == view.EditingCourse {
		hs = append(hs, hint{"2", "Lessons"}, hint{"d", "Delete course"})
	}
	return append(hs, hint{"esc", "Courses"})
}

func (s *editorScreen) update(msg tea.Msg, keys keyMap) (view.Effect, tea.Cmd, bool) {
	k, isKey := msg.(tea.KeyMsg)
	active := s.activeForm()

	if active != nil && active.Focused() {
		if isKey {
			switch {
			case key.Matches(k, keys.Back):
				active.Blur()
				return view.Effect{}, nil, true
			case key.Matches(k, keys.Submit):
				return s.submit(), nil, true
			}
		}
		return view.Effect{}, active.Update(msg, keys), true
	}
	if !isKey {
		return view.Effect{}, nil, false
	}

	switch {
	case key.Matches(k, keys.Back):
		return s.e.Back(), nil, true
	case key.Matches(k, keys.CourseTab):
		return s.try(s.e.ShowCourse())
	case key.Matches(k, keys.LessonsTab):
		return s.try(s.e.OpenLessons())
	case key.Matches(k, keys.Submit) && active != nil:
		return s.submit(), nil, true
	case (key.Matches(k, keys.Focus) || key.Matches(k, keys.Open)) && active != nil:
		return view.Effect{}, active.Focus(), true
	}

	st := s.e.State()
	switch st.Tab {
	case view.TabCourse:
		switch {
		case key.Matches(k, keys.Lessons):
			return s.try(s.e.OpenLessons())
		case key.Matches(k, keys.Delete):
			s.fail(s.e.RequestDeleteCourse())
			return view.Effect{}, nil, true
		}
	case view.TabLessons:
		if s.sel.move(k, keys, len(s.e.Lessons)) {
			return view.Effect{}, nil, true
		}
		if key.Matches(k, keys.New) {
			eff, err := s.e.NewLesson()
			if err != nil {
				s.fail(err)
				return eff, nil, true
			}
			s.sync()
			return eff, s.lessonForm.Focus(), true
		}
		if len(s.e.Lessons) == 0 {
			return view.Effect{}, nil, false
		}
		id := s.e.Lessons[s.sel.index].ID
		switch {
		case key.Matches(k, keys.Open):
			return s.try(s.e.ViewLesson(id))
		case key.Matches(k, keys.Edit):
			return s.try(s.e.EditLesson(id))
		case key.Matches(k, keys.Delete):
			s.fail(s.e.RequestDeleteLesson(id))
			return view.Effect{}, nil, true
		}
	case view.TabLessonDetail:
		if st.Sub != view.ViewingLesson || !s.e.LessonLoaded() {
			return view.Effect{}, nil, false
		}
		switch {
		case key.Matches(k, keys.Edit):
			return s.try(s.e.EditLesson(s.e.Lesson.ID))
		case key.Matches(k, keys.Delete):
			s.fail(s.e.RequestDeleteLesson(s.e.Lesson.ID))
			return view.Effect{}, nil, true
		case key.Matches(k, keys.Up), key.Matches(k, keys.Down), key.Matches(k, keys.PageUp), key.Matches(k, keys.PageDown):
			var cmd tea.Cmd
			s.reader, cmd = s.reader.Update(msg)
			return view.Effect{}, cmd, true
		}
	}
	return view.Effect{}, nil, false
}

// activeForm returns the form shown in the current pane, if any.
func (s *editorScreen) activeForm() *form {
	st := s.e.State()
	switch {
	case st.Tab == view.TabCourse && s.e.Ready():
		return s.courseForm
	case st.Sub == view.CreatingLesson:
		return s.lessonForm
	case st.Sub == view.EditingLesson && s.e.LessonLoaded():
		return s.lessonForm
	}
	return nil
}

func (s *editorScreen) submit() view.Effect {
	var (
		eff view.Effect
		err error
	)
	if s.e.State().Tab == view.TabCourse {
		s.e.CourseForm = view.CourseForm{
			Title:       s.courseForm.Value("title"),
			Description: s.courseForm.Value("description"),
		}
		eff, err = s.e.SubmitCourse()
		s.courseForm.SetErrors(err)
	} else {
		s.e.LessonForm = view.LessonForm{
			Title:   s.lessonForm.Value("title"),
			Content: s.lessonForm.Value("content"),
		}
		eff, err = s.e.SubmitLesson()
		s.lessonForm.SetErrors(err)
	}
	var verr *view.ValidationError
	if err != nil && !errors.As(err, &verr) {
		s.fail(err)
	}
	return eff
}

func (s *editorScreen) try(eff view.Effect, err error) (view.Effect, tea.Cmd, bool) {
	s.fail(err)
	return eff, nil, true
}

func (s *editorScreen) fail(err error) {
	switch {
	case err == nil:
	case errors.Is(err, view.ErrNotEditable):
		s.e.Err = "This course cannot be edited right now."
	case errors.Is(err, view.ErrIllegalTransition):
		if s.e.State().Mode == view.CreatingCourse {
			s.e.Err = "Save the course before adding lessons."
		} else {
			s.e.Err = "That action is not available here."
		}
	default:
		s.e.Err = err.Error()
	}
}

func (s *editorScreen) view(styles Styles, width, height int) string {
	st := s.e.State()

	var b strings.Builder
	if st.Mode == view.CreatingCourse {
		b.WriteString(title(styles, "New course"))
	} else {
		name := s.e.Course.Title
		if name == "" {
			name = fmt.Sprintf("Course #%d", s.e.Course.ID)
		}
		b.WriteString(title(styles, "Manage · "+name))
	}
	b.WriteString("\n")
	b.WriteString(s.renderTabs(styles, st))
	b.WriteString("\n\n")

	switch st.Tab {
	case view.TabCourse:
		if !s.e.Ready() {
			return b.String()
		}
		b.WriteString(s.courseForm.View(styles))
	case view.TabLessons:
		rows := make([]row, 0, len(s.e.Lessons))
		for i, lesson := range s.e.Lessons {
			rows = append(rows, row{title: fmt.Sprintf("%d. %s", i+1, lesson.Title)})
		}
		b.WriteString(renderList(styles, rows, s.sel.index, width, height-4, "No lessons yet. Press n to write the first one."))
	case view.TabLessonDetail:
		switch st.Sub {
		case view.ViewingLesson:
			if s.e.LessonLoaded() {
				b.WriteString(styles.Text.Bold(true).Render(s.e.Lesson.Title))
				b.WriteString("\n\n")
				b.WriteString(s.reader.View())
			}
		case view.CreatingLesson:
			b.WriteString(styles.MutedText.Render("New lesson"))
			b.WriteString("\n")
			b.WriteString(s.lessonForm.View(styles))
		case view.EditingLesson:
			if s.e.LessonLoaded() {
				b.WriteString(s.lessonForm.View(styles))
			}
		}
	}
	return b.String()
}

func (s *editorScreen) renderTabs(styles Styles, st view.State) string {
	tabs := []struct {
		tab   view.Tab
		label string
	}{
		{view.TabCourse, "1 Course"},
		{view.TabLessons, "2 Lessons"},
	}
	var parts []string
	for _, t := range tabs {
		switch {
		case t.tab == st.Tab:
			parts = append(parts, styles.ActiveTab.Render(t.label))
		case t.tab == view.TabLessons && st.Mode == view.CreatingCourse:
			parts = append(parts, styles.FaintText.Padding(0, 1).Render(t.label))
		default:
			parts = append(parts, styles.Tab.Render(t.label))
		}
	}
	if st.Tab == view.TabLessonDetail {
		label := "Lesson"
		switch st.Sub {
		case view.CreatingLesson:
			label = "New lesson"
		case view.EditingLesson:
			label = "Edit lesson"
		}
		parts = append(parts, styles.ActiveTab.Render(label))
	}
	return strings.Join(parts, " ")
}
