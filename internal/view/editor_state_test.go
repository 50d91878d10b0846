package view

import (
	"errors"
	"testing"
)

func TestState_Valid(t *testing.T) {
	tests := []struct {
		state State
		want  bool
	}{
		{State{CreatingCourse, SubNone, TabCourse}, true},
		{State{CreatingCourse, SubNone, TabLessons}, false},
		{State{CreatingCourse, CreatingLesson, TabLessonDetail}, false},
		{State{EditingCourse, SubNone, TabCourse}, true},
		{State{EditingCourse, SubNone, TabLessons}, true},
		{State{EditingCourse, SubNone, TabLessonDetail}, false},
		{State{EditingCourse, ViewingLesson, TabLessons}, false},
		{State{EditingCourse, EditingLesson, TabLessonDetail}, true},
		{State{Mode(7), SubNone, TabCourse}, false},
	}
	for _, tt := range tests {
		if got := tt.state.Valid(); got != tt.want {
			t.Fatalf("%s.Valid() = %v, want %v", tt.state, got, tt.want)
		}
	}
}

func TestTransition(t *testing.T) {
	creating := State{CreatingCourse, SubNone, TabCourse}
	course := State{EditingCourse, SubNone, TabCourse}
	lessons := State{EditingCourse, SubNone, TabLessons}
	viewing := State{EditingCourse, ViewingLesson, TabLessonDetail}
	newLesson := State{EditingCourse, CreatingLesson, TabLessonDetail}
	editing := State{EditingCourse, EditingLesson, TabLessonDetail}

	tests := []struct {
		name  string
		from  State
		event Event
		want  State
		err   bool
	}{
		{"created course becomes editable", creating, EventCourseCreated, course, false},
		{"cannot create twice", course, EventCourseCreated, course, true},
		{"no lessons before the course exists", creating, EventShowLessons, creating, true},
		{"no new lesson before the course exists", creating, EventNewLesson, creating, true},
		{"show course while creating", creating, EventShowCourse, creating, false},
		{"lessons tab", course, EventShowLessons, lessons, false},
		{"new lesson", lessons, EventNewLesson, newLesson, false},
		{"view lesson", lessons, EventViewLesson, viewing, false},
		{"edit from view", viewing, EventEditLesson, editing, false},
		{"lesson created returns to list", newLesson, EventLessonCreated, lessons, false},
		{"lesson created only from create", editing, EventLessonCreated, editing, true},
		{"lesson updated shows lesson", editing, EventLessonUpdated, viewing, false},
		{"lesson updated only from edit", viewing, EventLessonUpdated, viewing, true},
		{"deleting open lesson", viewing, EventLessonDeleted, lessons, false},
		{"back from lesson", editing, EventBack, lessons, false},
		{"back from lessons", lessons, EventBack, course, false},
		{"back from course leaves", course, EventBack, course, true},
		{"course tab clears sub-mode", editing, EventShowCourse, course, false},
		{"invalid start state", State{CreatingCourse, ViewingLesson, TabLessonDetail}, EventShowCourse, State{CreatingCourse, ViewingLesson, TabLessonDetail}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Transition(tt.from, tt.event)
			if tt.err {
				if !errors.Is(err, ErrIllegalTransition) {
					t.Fatalf("err = %v, want ErrIllegalTransition", err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("Transition(%s, %s) = %s, want %s", tt.from, tt.event, got, tt.want)
			}
			if !got.Valid() && !tt.err {
				t.Fatalf("Transition produced invalid state %s", got)
			}
		})
	}
}
