package view

import (
	"errors"
	"fmt"
)

// Mode says whether the editor is creating a new course or editing one.
type Mode int

const (
	CreatingCourse Mode = iota
	EditingCourse
)

func (m Mode) String() string {
	switch m {
	case CreatingCourse:
		return "creating-course"
	case EditingCourse:
		return "editing-course"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// SubMode is what the editor is doing with a lesson.
type SubMode int

const (
	SubNone SubMode = iota
	ViewingLesson
	CreatingLesson
	EditingLesson
)

func (s SubMode) String() string {
	switch s {
	case SubNone:
		return "none"
	case ViewingLesson:
		return "viewing-lesson"
	case CreatingLesson:
		return "creating-lesson"
	case EditingLesson:
		return "editing-lesson"
	default:
		return fmt.Sprintf("submode(%d)", int(s))
	}
}

// Tab is the visible editor pane.
type Tab int

const (
	TabCourse Tab = iota
	TabLessons
	TabLessonDetail
)

func (t Tab) String() string {
	switch t {
	case TabCourse:
		return "course"
	case TabLessons:
		return "lessons"
	case TabLessonDetail:
		return "lesson-detail"
	default:
		return fmt.Sprintf("tab(%d)", int(t))
	}
}

// State is the editor's position on all three axes.
type State struct {
	Mode Mode
	Sub  SubMode
	Tab  Tab
}

func (s State) String() string {
	return fmt.Sprintf("%s/%s/%s", s.Mode, s.Sub, s.Tab)
}

// Valid reports whether s is a reachable combination. A course being
// created has no lessons yet, and the lesson pane always has a lesson
// sub-mode.
func (s State) Valid() bool {
	if s.Mode != CreatingCourse && s.Mode != EditingCourse {
		return false
	}
	if s.Sub < SubNone || s.Sub > EditingLesson || s.Tab < TabCourse || s.Tab > TabLessonDetail {
		return false
	}
	if s.Mode == CreatingCourse && (s.Sub != SubNone || s.Tab != TabCourse) {
		return false
	}
	return (s.Tab == TabLessonDetail) == (s.Sub != SubNone)
}

// Event drives Transition.
type Event int

const (
	EventCourseCreated Event = iota
	EventShowCourse
	EventShowLessons
	EventNewLesson
	EventViewLesson
	EventEditLesson
	EventLessonCreated
	EventLessonUpdated
	EventLessonDeleted
	EventBack
)

func (e Event) String() string {
	switch e {
	case EventCourseCreated:
		return "course-created"
	case EventShowCourse:
		return "show-course"
	case EventShowLessons:
		return "show-lessons"
	case EventNewLesson:
		return "new-lesson"
	case EventViewLesson:
		return "view-lesson"
	case EventEditLesson:
		return "edit-lesson"
	case EventLessonCreated:
		return "lesson-created"
	case EventLessonUpdated:
		return "lesson-updated"
	case EventLessonDeleted:
		return "lesson-deleted"
	case EventBack:
		return "back"
	default:
		return fmt.Sprintf("event(%d)", int(e))
	}
}

// ErrIllegalTransition is returned for an event the state does not accept.
var ErrIllegalTransition = errors.New("illegal editor transition")

var (
	courseTab  = State{Mode: EditingCourse, Sub: SubNone, Tab: TabCourse}
	lessonsTab = State{Mode: EditingCourse, Sub: SubNone, Tab: TabLessons}
)

func lessonPane(sub SubMode) State {
	return State{Mode: EditingCourse, Sub: sub, Tab: TabLessonDetail}
}

// Transition is the only place editor state changes.
func Transition(s State, ev Event) (State, error) {
	illegal := fmt.Errorf("%w: %s from %s", ErrIllegalTransition, ev, s)
	if !s.Valid() {
		return s, illegal
	}

	switch ev {
	case EventCourseCreated:
		if s.Mode != CreatingCourse {
			return s, illegal
		}
		return courseTab, nil
	case EventShowCourse:
		return State{Mode: s.Mode, Sub: SubNone, Tab: TabCourse}, nil
	}

	// Every remaining event needs a course that exists on the server.
	if s.Mode == CreatingCourse {
		return s, illegal
	}

	switch ev {
	case EventShowLessons, EventLessonDeleted:
		return lessonsTab, nil
	case EventNewLesson:
		return lessonPane(CreatingLesson), nil
	case EventViewLesson:
		return lessonPane(ViewingLesson), nil
	case EventEditLesson:
		return lessonPane(EditingLesson), nil
	case EventLessonCreated:
		if s.Sub != CreatingLesson {
			return s, illegal
		}
		return lessonsTab, nil
	case EventLessonUpdated:
		if s.Sub != EditingLesson {
			return s, illegal
		}
		return lessonPane(ViewingLesson), nil
	case EventBack:
		switch s.Tab {
		case TabLessonDetail:
			return lessonsTab, nil
		case TabLessons:
			return courseTab, nil
		}
	}
	return s, illegal
}
