package view

import (
	"errors"
	"testing"

	"github.com/five82/coursedeck/internal/api"
	"github.com/five82/coursedeck/internal/nav"
)

func ownedCourse(f *fakeAPI) api.Course {
	c := api.Course{ID: 3, Title: "Go 101", Description: "An introduction to Go.", TeacherID: teacher.id}
	f.courses[c.ID] = c
	f.lessons[c.ID] = []api.Lesson{
		{ID: 31, Title: "Setup", Content: "Install the toolchain.", CourseID: 3},
		{ID: 32, Title: "Types", Content: "Structs and interfaces.", CourseID: 3},
	}
	return c
}

func startEditing(t *testing.T, f *fakeAPI) *Editor {
	t.Helper()
	ownedCourse(f)
	e := NewEditor(f, f, teacher)
	if effs := drain(e, e.Start(3)); len(effs) != 0 {
		t.Fatalf("Start effects = %#v, want none", effs)
	}
	if !e.Ready() || e.Err != "" {
		t.Fatalf("editor not ready: err=%q", e.Err)
	}
	return e
}

func TestEditor_ShortTitleIsRejectedWithoutRequest(t *testing.T) {
	f := newFakeAPI()
	e := NewEditor(f, f, teacher)
	e.Start(0)
	e.CourseForm = CourseForm{Title: "Go", Description: "An introduction to Go."}

	eff, err := e.SubmitCourse()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("SubmitCourse error = %v, want *ValidationError", err)
	}
	if len(eff.Commands) != 0 || f.total() != 0 {
		t.Fatalf("validation failure issued %d commands and %d calls", len(eff.Commands), f.total())
	}
	if e.Submitting {
		t.Fatalf("Submitting left set after validation failure")
	}
}

func TestEditor_CreateCourseSwitchesToEditingInPlace(t *testing.T) {
	f := newFakeAPI()
	e := NewEditor(f, f, teacher)
	e.Start(0)
	if e.State() != (State{CreatingCourse, SubNone, TabCourse}) {
		t.Fatalf("initial state = %s", e.State())
	}
	if _, err := e.OpenLessons(); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("OpenLessons while creating = %v, want ErrIllegalTransition", err)
	}

	e.CourseForm = CourseForm{Title: "Go 101", Description: "An introduction to Go."}
	eff, err := e.SubmitCourse()
	if err != nil {
		t.Fatalf("SubmitCourse returned error: %v", err)
	}
	if !e.Submitting {
		t.Fatalf("Submitting not set while request in flight")
	}

	effs := drain(e, eff)
	if len(effs) != 1 {
		t.Fatalf("effects = %#v, want one", effs)
	}
	got := effs[0]
	if got.Navigate != nil {
		t.Fatalf("create navigated to %v, want in-place location update", got.Navigate)
	}
	if got.Replace == nil || *got.Replace != nav.Editor(e.Course.ID) || e.Course.ID != 101 {
		t.Fatalf("Replace = %v, course id = %d; want /course-management/101", got.Replace, e.Course.ID)
	}
	if e.State() != (State{EditingCourse, SubNone, TabCourse}) {
		t.Fatalf("state after create = %s, want editing course", e.State())
	}
	if e.Notice.Text != "Course created successfully!" || got.Expire != e.Notice.ID {
		t.Fatalf("notice = %#v expire = %d", e.Notice, got.Expire)
	}
	if e.Submitting {
		t.Fatalf("Submitting still set")
	}

	e.ClearNotice(got.Expire)
	if e.Notice.Text != "" {
		t.Fatalf("notice not cleared")
	}

	// The editor now behaves like any owned course.
	if _, err := e.OpenLessons(); err != nil {
		t.Fatalf("OpenLessons after create: %v", err)
	}
}

func TestEditor_ClearNoticeKeepsNewerNotice(t *testing.T) {
	e := NewEditor(newFakeAPI(), newFakeAPI(), teacher)
	first := e.notify("one", false).Expire
	e.notify("two", false)
	e.ClearNotice(first)
	if e.Notice.Text != "two" {
		t.Fatalf("notice = %q, want newer notice kept", e.Notice.Text)
	}
}

func TestEditor_UpdateCourse(t *testing.T) {
	f := newFakeAPI()
	e := startEditing(t, f)
	e.CourseForm.Title = "Go 102"
	eff, err := e.SubmitCourse()
	if err != nil {
		t.Fatalf("SubmitCourse returned error: %v", err)
	}
	drain(e, eff)
	if e.Course.Title != "Go 102" || e.Notice.Text != "Course updated successfully!" {
		t.Fatalf("course = %#v notice = %q", e.Course, e.Notice.Text)
	}
	if e.State().Mode != EditingCourse {
		t.Fatalf("mode = %s", e.State().Mode)
	}
}

func TestEditor_FailureResetsSubmitting(t *testing.T) {
	f := newFakeAPI()
	e := startEditing(t, f)
	f.fail("UpdateCourse", errBoom)
	eff, _ := e.SubmitCourse()
	drain(e, eff)
	if e.Submitting || e.Err != "Failed to update course. Please try again." {
		t.Fatalf("submitting=%v err=%q", e.Submitting, e.Err)
	}
	if e.Course.Title != "Go 101" {
		t.Fatalf("course changed after failed update: %#v", e.Course)
	}
}

func TestEditor_NonOwnerIsSentAway(t *testing.T) {
	f := newFakeAPI()
	ownedCourse(f)
	other := who{id: 77, teacher: true}
	e := NewEditor(f, f, other)
	effs := drain(e, e.Start(3))
	if len(effs) != 1 || effs[0].Navigate == nil || *effs[0].Navigate != nav.To(nav.Courses) {
		t.Fatalf("effects = %#v, want navigation to courses", effs)
	}
	if e.Ready() {
		t.Fatalf("non-owner editor reports Ready")
	}
	if _, err := e.NewLesson(); !errors.Is(err, ErrNotEditable) {
		t.Fatalf("NewLesson = %v, want ErrNotEditable", err)
	}
	if _, err := e.SubmitCourse(); !errors.Is(err, ErrNotEditable) {
		t.Fatalf("SubmitCourse = %v, want ErrNotEditable", err)
	}
}

func TestEditor_MissingCourseIsSentAway(t *testing.T) {
	f := newFakeAPI()
	e := NewEditor(f, f, teacher)
	effs := drain(e, e.Start(404))
	if len(effs) != 1 || effs[0].Navigate == nil || effs[0].Flash == "" {
		t.Fatalf("effects = %#v, want navigation with flash", effs)
	}
}

func TestEditor_LessonLifecycle(t *testing.T) {
	f := newFakeAPI()
	e := startEditing(t, f)

	eff, err := e.OpenLessons()
	if err != nil {
		t.Fatalf("OpenLessons: %v", err)
	}
	drain(e, eff)
	if len(e.Lessons) != 2 {
		t.Fatalf("lessons = %d, want 2", len(e.Lessons))
	}
	eff, _ = e.OpenLessons()
	if len(eff.Commands) != 0 {
		t.Fatalf("lessons fetched again on second entry")
	}

	// Create.
	if _, err := e.NewLesson(); err != nil {
		t.Fatalf("NewLesson: %v", err)
	}
	if e.State() != (State{EditingCourse, CreatingLesson, TabLessonDetail}) {
		t.Fatalf("state = %s", e.State())
	}
	e.LessonForm = LessonForm{Title: "Generics", Content: "Type parameters in Go."}
	eff, err = e.SubmitLesson()
	if err != nil {
		t.Fatalf("SubmitLesson: %v", err)
	}
	if len(e.Lessons) != 2 {
		t.Fatalf("lesson appended before the server confirmed")
	}
	drain(e, eff)
	if e.State() != (State{EditingCourse, SubNone, TabLessons}) {
		t.Fatalf("state after create = %s, want lessons tab", e.State())
	}
	if len(e.Lessons) != 3 || e.Lessons[2].Title != "Generics" {
		t.Fatalf("lessons after create = %#v", e.Lessons)
	}
	if f.count("ListLessons") != 2 {
		t.Fatalf("ListLessons calls = %d, want a refresh after create", f.count("ListLessons"))
	}

	// Edit.
	eff, err = e.EditLesson(31)
	if err != nil {
		t.Fatalf("EditLesson: %v", err)
	}
	drain(e, eff)
	if e.LessonForm.Title != "Setup" || !e.LessonLoaded() {
		t.Fatalf("form not populated: %#v", e.LessonForm)
	}
	e.LessonForm.Content = "Install Go and an editor."
	eff, err = e.SubmitLesson()
	if err != nil {
		t.Fatalf("SubmitLesson: %v", err)
	}
	drain(e, eff)
	if e.State() != (State{EditingCourse, ViewingLesson, TabLessonDetail}) {
		t.Fatalf("state after update = %s, want viewing", e.State())
	}
	if e.Lesson.Content != "Install Go and an editor." || f.lessons[3][0].Content != "Install Go and an editor." {
		t.Fatalf("lesson not updated: %#v", e.Lesson)
	}
	if e.Notice.Text != "Lesson updated successfully!" {
		t.Fatalf("notice = %q", e.Notice.Text)
	}
}

func TestEditor_DeleteOpenLessonFallsBackToList(t *testing.T) {
	f := newFakeAPI()
	e := startEditing(t, f)
	eff, _ := e.OpenLessons()
	drain(e, eff)
	eff, _ = e.ViewLesson(32)
	drain(e, eff)
	if e.State().Sub != ViewingLesson || e.Lesson.ID != 32 {
		t.Fatalf("state = %s lesson = %d", e.State(), e.Lesson.ID)
	}

	if err := e.RequestDeleteLesson(32); err != nil {
		t.Fatalf("RequestDeleteLesson: %v", err)
	}
	if _, ok := e.Pending(); !ok {
		t.Fatalf("no confirmation pending")
	}
	if f.count("DeleteLesson") != 0 {
		t.Fatalf("delete issued before confirmation")
	}
	drain(e, e.ConfirmDelete())

	if e.State() != (State{EditingCourse, SubNone, TabLessons}) {
		t.Fatalf("state = %s, want lessons tab", e.State())
	}
	for _, l := range e.Lessons {
		if l.ID == 32 {
			t.Fatalf("deleted lesson still cached")
		}
	}
	if len(e.Lessons) != 1 {
		t.Fatalf("lessons = %#v", e.Lessons)
	}
}

func TestEditor_DeleteFailureKeepsLesson(t *testing.T) {
	f := newFakeAPI()
	e := startEditing(t, f)
	eff, _ := e.OpenLessons()
	drain(e, eff)
	f.fail("DeleteLesson", errBoom)
	_ = e.RequestDeleteLesson(31)
	drain(e, e.ConfirmDelete())
	if len(e.Lessons) != 2 || e.Submitting || e.Err == "" {
		t.Fatalf("lessons=%d submitting=%v err=%q", len(e.Lessons), e.Submitting, e.Err)
	}
}

func TestEditor_CancelDelete(t *testing.T) {
	f := newFakeAPI()
	e := startEditing(t, f)
	if err := e.RequestDeleteCourse(); err != nil {
		t.Fatalf("RequestDeleteCourse: %v", err)
	}
	e.CancelDelete()
	if eff := e.ConfirmDelete(); len(eff.Commands) != 0 {
		t.Fatalf("ConfirmDelete after cancel issued commands")
	}
}

func TestEditor_DeleteCourseNavigatesAway(t *testing.T) {
	f := newFakeAPI()
	e := startEditing(t, f)
	_ = e.RequestDeleteCourse()
	effs := drain(e, e.ConfirmDelete())
	if len(effs) != 1 || effs[0].Navigate == nil || *effs[0].Navigate != nav.To(nav.Courses) {
		t.Fatalf("effects = %#v", effs)
	}
	if _, ok := f.courses[3]; ok {
		t.Fatalf("course not deleted")
	}
}

func TestEditor_BackUnwinds(t *testing.T) {
	f := newFakeAPI()
	e := startEditing(t, f)
	eff, _ := e.OpenLessons()
	drain(e, eff)
	eff, _ = e.EditLesson(31)
	drain(e, eff)

	if eff := e.Back(); !eff.Empty() || e.State() != (State{EditingCourse, SubNone, TabLessons}) {
		t.Fatalf("first Back: %s", e.State())
	}
	if eff := e.Back(); !eff.Empty() || e.State() != (State{EditingCourse, SubNone, TabCourse}) {
		t.Fatalf("second Back: %s", e.State())
	}
	eff = e.Back()
	if eff.Navigate == nil || *eff.Navigate != nav.To(nav.Courses) {
		t.Fatalf("third Back = %#v, want navigation to courses", eff)
	}
}

func TestEditor_StaleLessonFetchIsIgnored(t *testing.T) {
	f := newFakeAPI()
	e := startEditing(t, f)
	eff, _ := e.OpenLessons()
	drain(e, eff)

	first, _ := e.ViewLesson(31)
	second, _ := e.ViewLesson(32)
	late := collect(first)
	drain(e, second)
	for _, r := range late {
		e.Apply(r)
	}
	if e.Lesson.ID != 32 {
		t.Fatalf("lesson = %d, want the latest request to win", e.Lesson.ID)
	}
}

func TestEditor_ClosedIgnoresResults(t *testing.T) {
	f := newFakeAPI()
	ownedCourse(f)
	e := NewEditor(f, f, teacher)
	results := collect(e.Start(3))
	e.Close()
	for _, r := range results {
		e.Apply(r)
	}
	if e.Ready() || e.Course.Title != "" {
		t.Fatalf("closed editor mutated by late result")
	}
}

func TestEditor_LeavingLessonPaneStopsLoading(t *testing.T) {
	leave := map[string]func(*Editor) (Effect, error){
		"show course": (*Editor).ShowCourse,
		"new lesson":  (*Editor).NewLesson,
	}
	for name, fn := range leave {
		t.Run(name, func(t *testing.T) {
			f := newFakeAPI()
			e := startEditing(t, f)
			eff, _ := e.OpenLessons()
			drain(e, eff)

			pending, _ := e.ViewLesson(31)
			if !e.Loading {
				t.Fatalf("Loading not set while the lesson is fetched")
			}
			late := collect(pending)
			if _, err := fn(e); err != nil {
				t.Fatalf("%s: %v", name, err)
			}
			if e.Loading {
				t.Fatalf("Loading still set after leaving the pane")
			}
			for _, r := range late {
				e.Apply(r)
			}
			if e.Loading || e.LessonLoaded() {
				t.Fatalf("late fetch applied: state=%s Loading=%t", e.State(), e.Loading)
			}
		})
	}
}

func TestEditor_ShowCourseKeepsCourseLoading(t *testing.T) {
	f := newFakeAPI()
	ownedCourse(f)
	e := NewEditor(f, f, teacher)
	results := collect(e.Start(3))
	if _, err := e.ShowCourse(); err != nil {
		t.Fatalf("ShowCourse: %v", err)
	}
	if !e.Loading {
		t.Fatalf("course load no longer reported while in flight")
	}
	for _, r := range results {
		e.Apply(r)
	}
	if e.Loading || !e.Ready() {
		t.Fatalf("course load did not finish: Loading=%t", e.Loading)
	}
}

func TestEditor_StartLessonOpensEditForm(t *testing.T) {
	f := newFakeAPI()
	ownedCourse(f)
	e := NewEditor(f, f, teacher)
	drain(e, e.StartLesson(3, 32))

	if e.State() != (State{EditingCourse, EditingLesson, TabLessonDetail}) {
		t.Fatalf("state = %s, want the lesson edit form", e.State())
	}
	if !e.LessonLoaded() || e.Loading {
		t.Fatalf("lesson not loaded: Loading=%t", e.Loading)
	}
	if e.LessonForm.Title != "Types" || len(e.Lessons) != 2 {
		t.Fatalf("form = %#v, lessons = %d", e.LessonForm, len(e.Lessons))
	}
}

func TestEditor_StartLessonNotOwnedSendsAway(t *testing.T) {
	f := newFakeAPI()
	ownedCourse(f)
	e := NewEditor(f, f, who{id: 77, teacher: true})
	effs := drain(e, e.StartLesson(3, 32))
	if len(effs) != 1 || effs[0].Navigate == nil || *effs[0].Navigate != nav.To(nav.Courses) {
		t.Fatalf("effects = %#v, want navigation to courses", effs)
	}
	if f.count("GetLesson") != 0 {
		t.Fatalf("lesson fetched for a course the user does not own")
	}
}
