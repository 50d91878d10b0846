package view

import (
	"context"
	"errors"
	"fmt"

	"github.com/five82/coursedeck/internal/api"
	"github.com/five82/coursedeck/internal/nav"
)

// ErrNotEditable is returned while the course is loading or when the user
// does not own it.
var ErrNotEditable = errors.New("course is not open for editing")

// Editor is the course and lesson management screen.
type Editor struct {
	controller

	courses api.CourseService
	lessons api.LessonService
	who     Identity

	state State
	owned bool

	Course     api.Course
	Lessons    []api.Lesson
	Lesson     api.Lesson
	CourseForm CourseForm
	LessonForm LessonForm
	Submitting bool

	lessonsLoaded  bool
	lessonsLoading bool
	lessonLoaded   bool
	lessonFetching bool
	lessonSeq      uint64
	pendingLesson  int64
}

type lessonFetch struct {
	seq    uint64
	lesson api.Lesson
}

// NewEditor builds the editor. Call Start to enter it.
func NewEditor(courses api.CourseService, lessons api.LessonService, who Identity) *Editor {
	return &Editor{
		controller: newController(),
		courses:    courses,
		lessons:    lessons,
		who:        who,
	}
}

// State returns the editor's position.
func (e *Editor) State() State { return e.state }

// Ready reports whether edit affordances may be shown: either a new course
// is being created or an owned course has loaded.
func (e *Editor) Ready() bool {
	return e.state.Mode == CreatingCourse || e.owned
}

// LessonLoaded reports whether the lesson pane has its lesson.
func (e *Editor) LessonLoaded() bool { return e.lessonLoaded }

// Start enters the editor. Zero creates a new course; any other id loads
// that course and checks ownership before anything can be edited.
func (e *Editor) Start(courseID int64) Effect {
	e.CourseForm = CourseForm{}
	e.LessonForm = LessonForm{}
	e.Err = ""
	e.pendingLesson = 0
	if courseID == 0 {
		e.state = State{Mode: CreatingCourse, Sub: SubNone, Tab: TabCourse}
		e.owned = false
		return Effect{}
	}
	e.state = courseTab
	e.Course = api.Course{ID: courseID}
	e.Loading = true
	return run(e.command(opCourse, func(ctx context.Context) (any, error) {
		return e.courses.GetCourse(ctx, courseID)
	}))
}

// StartLesson enters the editor on the edit form of one of the course's
// lessons. The lesson opens once ownership of the course is confirmed.
func (e *Editor) StartLesson(courseID, lessonID int64) Effect {
	eff := e.Start(courseID)
	if courseID != 0 {
		e.pendingLesson = lessonID
	}
	return eff
}

// SubmitCourse validates the course form and creates or updates the
// course. A form that fails validation issues no request.
func (e *Editor) SubmitCourse() (Effect, error) {
	if !e.Ready() {
		return Effect{}, ErrNotEditable
	}
	if e.Submitting {
		return Effect{}, nil
	}
	form := e.CourseForm
	if err := form.Validate(); err != nil {
		e.Err = err.Error()
		return Effect{}, err
	}
	e.CourseForm = form

	uid, ok := e.who.CurrentUserID()
	if !ok {
		e.Err = "You must be logged in to create or edit courses."
		return navigate(nav.To(nav.Login)), nil
	}
	req := api.CourseRequest{Title: form.Title, Description: form.Description, TeacherID: uid}

	e.Submitting = true
	e.Err = ""
	if e.state.Mode == CreatingCourse {
		return run(e.command(opCreateCourse, func(ctx context.Context) (any, error) {
			return e.courses.CreateCourse(ctx, req)
		})), nil
	}
	id := e.Course.ID
	return run(e.command(opUpdateCourse, func(ctx context.Context) (any, error) {
		return e.courses.UpdateCourse(ctx, id, req)
	})), nil
}

// OpenLessons switches to the lesson list, fetching it on first entry.
func (e *Editor) OpenLessons() (Effect, error) {
	if err := e.move(EventShowLessons); err != nil {
		return Effect{}, err
	}
	if e.lessonsLoaded || e.lessonsLoading {
		return Effect{}, nil
	}
	return e.loadLessons(), nil
}

// ShowCourse switches to the course form.
func (e *Editor) ShowCourse() (Effect, error) {
	if err := e.move(EventShowCourse); err != nil {
		return Effect{}, err
	}
	e.dropLessonFetch()
	return Effect{}, nil
}

// NewLesson opens an empty lesson form.
func (e *Editor) NewLesson() (Effect, error) {
	if err := e.move(EventNewLesson); err != nil {
		return Effect{}, err
	}
	e.dropLessonFetch()
	e.Lesson = api.Lesson{}
	e.lessonLoaded = false
	e.LessonForm = LessonForm{}
	return Effect{}, nil
}

// ViewLesson fetches and shows a lesson.
func (e *Editor) ViewLesson(id int64) (Effect, error) {
	return e.openLesson(id, EventViewLesson)
}

// EditLesson fetches a lesson and fills the form from it.
func (e *Editor) EditLesson(id int64) (Effect, error) {
	return e.openLesson(id, EventEditLesson)
}

func (e *Editor) openLesson(id int64, ev Event) (Effect, error) {
	if err := e.move(ev); err != nil {
		return Effect{}, err
	}
	e.lessonSeq++
	seq := e.lessonSeq
	courseID := e.Course.ID
	e.Lesson = api.Lesson{ID: id, CourseID: courseID}
	e.lessonLoaded = false
	e.LessonForm = LessonForm{}
	e.lessonFetching = true
	e.Loading = true
	return run(e.command(opLesson, func(ctx context.Context) (any, error) {
		lesson, err := e.lessons.GetLesson(ctx, courseID, id)
		return lessonFetch{seq: seq, lesson: lesson}, err
	})), nil
}

// SubmitLesson validates the lesson form and creates or updates the lesson
// depending on the sub-mode.
func (e *Editor) SubmitLesson() (Effect, error) {
	sub := e.state.Sub
	if sub != CreatingLesson && sub != EditingLesson {
		return Effect{}, fmt.Errorf("%w: submit lesson from %s", ErrIllegalTransition, e.state)
	}
	if sub == EditingLesson && !e.lessonLoaded {
		return Effect{}, ErrNotEditable
	}
	if e.Submitting {
		return Effect{}, nil
	}
	form := e.LessonForm
	if err := form.Validate(); err != nil {
		e.Err = err.Error()
		return Effect{}, err
	}
	e.LessonForm = form
	courseID := e.Course.ID

	if sub == CreatingLesson {
		req := api.LessonRequest{Title: form.Title, Content: form.Content, CourseID: courseID}
		e.Submitting = true
		e.Err = ""
		return run(e.command(opCreateLesson, func(ctx context.Context) (any, error) {
			created, err := e.lessons.CreateLesson(ctx, courseID, req)
			if err != nil {
				return nil, err
			}
			return api.Lesson{ID: created.LessonID, Title: req.Title, Content: req.Content, CourseID: courseID}, nil
		})), nil
	}

	var upd api.LessonUpdate
	if form.Title != e.Lesson.Title {
		title := form.Title
		upd.Title = &title
	}
	if form.Content != e.Lesson.Content {
		content := form.Content
		upd.Content = &content
	}
	if upd.Title == nil && upd.Content == nil {
		e.state, _ = Transition(e.state, EventLessonUpdated)
		return e.notify("No changes to save.", false), nil
	}

	updated := e.Lesson
	updated.Title, updated.Content = form.Title, form.Content
	e.Submitting = true
	e.Err = ""
	return run(e.command(opUpdateLesson, func(ctx context.Context) (any, error) {
		return updated, e.lessons.UpdateLesson(ctx, courseID, updated.ID, upd)
	})), nil
}

// RequestDeleteLesson asks for confirmation before deleting lesson id.
func (e *Editor) RequestDeleteLesson(id int64) error {
	if e.state.Mode == CreatingCourse {
		return fmt.Errorf("%w: delete lesson from %s", ErrIllegalTransition, e.state)
	}
	if !e.owned {
		return ErrNotEditable
	}
	e.ask("Are you sure you want to delete this lesson? This action cannot be undone.", opDeleteLesson, id)
	return nil
}

// RequestDeleteCourse asks for confirmation before deleting the course.
func (e *Editor) RequestDeleteCourse() error {
	if e.state.Mode == CreatingCourse {
		return fmt.Errorf("%w: delete course from %s", ErrIllegalTransition, e.state)
	}
	if !e.owned {
		return ErrNotEditable
	}
	e.ask("Are you sure you want to delete this course? All of its lessons will be lost.", opDeleteCourse, e.Course.ID)
	return nil
}

// ConfirmDelete carries out the pending delete.
func (e *Editor) ConfirmDelete() Effect {
	p, ok := e.take()
	if !ok {
		return Effect{}
	}
	e.Submitting = true
	e.Err = ""
	courseID, target := e.Course.ID, p.target
	if p.op == opDeleteCourse {
		return run(e.command(opDeleteCourse, func(ctx context.Context) (any, error) {
			return target, e.courses.DeleteCourse(ctx, target)
		}))
	}
	return run(e.command(opDeleteLesson, func(ctx context.Context) (any, error) {
		return target, e.lessons.DeleteLesson(ctx, courseID, target)
	}))
}

// Confirm is ConfirmDelete under the name the other controllers use.
func (e *Editor) Confirm() Effect { return e.ConfirmDelete() }

// CancelDelete drops the pending delete.
func (e *Editor) CancelDelete() { e.Cancel() }

// Back unwinds one level: lesson pane to lessons, lessons to course, and
// from the course tab out to the course list.
func (e *Editor) Back() Effect {
	if e.state.Tab == TabCourse {
		return navigate(nav.To(nav.Courses))
	}
	next, err := Transition(e.state, EventBack)
	if err != nil {
		return navigate(nav.To(nav.Courses))
	}
	e.state = next
	e.dropLessonFetch()
	return Effect{}
}

// Apply folds a command result into the editor.
func (e *Editor) Apply(r Result) Effect {
	if !e.accepts(r) {
		return Effect{}
	}
	switch r.op {
	case opCourse:
		return e.applyCourse(r)
	case opCreateCourse:
		e.Submitting = false
		if r.err != nil {
			e.Err = "Failed to create course. Please try again."
			return Effect{}
		}
		course := r.value.(api.Course)
		if course.ID == 0 {
			e.Err = "The server did not return an id for the new course."
			return Effect{}
		}
		next, err := Transition(e.state, EventCourseCreated)
		if err != nil {
			e.Err = err.Error()
			return Effect{}
		}
		e.state = next
		e.setCourse(course)
		e.Lessons = nil
		e.lessonsLoaded = false
		eff := e.notify("Course created successfully!", false)
		loc := nav.Editor(course.ID)
		eff.Replace = &loc
		return eff
	case opUpdateCourse:
		e.Submitting = false
		if r.err != nil {
			e.Err = "Failed to update course. Please try again."
			return Effect{}
		}
		e.setCourse(r.value.(api.Course))
		return e.notify("Course updated successfully!", false)
	case opDeleteCourse:
		e.Submitting = false
		if r.err != nil {
			e.Err = "Failed to delete course. Please try again."
			return Effect{}
		}
		eff := navigate(nav.To(nav.Courses))
		eff.Flash = "Course deleted successfully!"
		return eff
	case opLessons:
		e.lessonsLoading = false
		if r.err != nil {
			e.Err = "Failed to load lessons. Please try again."
			return Effect{}
		}
		e.Lessons = r.value.([]api.Lesson)
		e.lessonsLoaded = true
	case opLesson:
		return e.applyLesson(r)
	case opCreateLesson:
		e.Submitting = false
		if r.err != nil {
			e.Err = "Failed to create lesson. Please try again."
			return Effect{}
		}
		lesson := r.value.(api.Lesson)
		e.Lessons = append(append([]api.Lesson(nil), e.Lessons...), lesson)
		if next, err := Transition(e.state, EventLessonCreated); err == nil {
			e.state = next
		}
		return e.notify("Lesson created successfully!", false).with(e.loadLessons())
	case opUpdateLesson:
		e.Submitting = false
		if r.err != nil {
			e.Err = "Failed to update lesson. Please try again."
			return Effect{}
		}
		lesson := r.value.(api.Lesson)
		for i := range e.Lessons {
			if e.Lessons[i].ID == lesson.ID {
				e.Lessons[i] = lesson
			}
		}
		if e.Lesson.ID == lesson.ID {
			e.Lesson = lesson
		}
		if next, err := Transition(e.state, EventLessonUpdated); err == nil {
			e.state = next
		}
		return e.notify("Lesson updated successfully!", false).with(e.loadLessons())
	case opDeleteLesson:
		e.Submitting = false
		if r.err != nil {
			e.Err = "Failed to delete lesson. Please try again."
			return Effect{}
		}
		id := r.value.(int64)
		e.Lessons = withoutLesson(e.Lessons, id)
		if e.state.Tab == TabLessonDetail && e.Lesson.ID == id {
			if next, err := Transition(e.state, EventLessonDeleted); err == nil {
				e.state = next
			}
			e.Lesson = api.Lesson{}
			e.lessonLoaded = false
			e.dropLessonFetch()
		}
		return e.notify("Lesson deleted successfully!", false)
	}
	return Effect{}
}

func (e *Editor) applyCourse(r Result) Effect {
	e.Loading = false
	if r.err != nil {
		if api.IsNotFound(r.err) || api.IsForbidden(r.err) {
			e.Err = "This course does not exist or you cannot manage it."
			eff := navigate(nav.To(nav.Courses))
			eff.Flash = e.Err
			return eff
		}
		e.Err = "Failed to load course details. Please try again."
		return Effect{}
	}
	course := r.value.(api.Course)
	if !isOwner(e.who, course) {
		e.owned = false
		e.Err = "You do not have permission to manage this course."
		eff := navigate(nav.To(nav.Courses))
		eff.Flash = e.Err
		return eff
	}
	e.setCourse(course)
	if id := e.pendingLesson; id != 0 {
		e.pendingLesson = 0
		eff, err := e.EditLesson(id)
		if err != nil {
			return Effect{}
		}
		return eff.with(e.loadLessons())
	}
	return Effect{}
}

func (e *Editor) applyLesson(r Result) Effect {
	fetch, _ := r.value.(lessonFetch)
	if fetch.seq != e.lessonSeq {
		return Effect{}
	}
	e.lessonFetching = false
	e.Loading = false
	if e.state.Tab != TabLessonDetail {
		return Effect{}
	}
	if r.err != nil {
		e.Err = "Failed to load lesson. Please try again."
		if next, err := Transition(e.state, EventBack); err == nil {
			e.state = next
		}
		return Effect{}
	}
	e.Lesson = fetch.lesson
	e.lessonLoaded = true
	if e.state.Sub == EditingLesson {
		e.LessonForm = LessonForm{Title: fetch.lesson.Title, Content: fetch.lesson.Content}
	}
	return Effect{}
}

// dropLessonFetch orphans any lesson fetch in flight. Its result will be
// ignored, so the pane stops loading now.
func (e *Editor) dropLessonFetch() {
	e.lessonSeq++
	if e.lessonFetching {
		e.lessonFetching = false
		e.Loading = false
	}
}

func (e *Editor) setCourse(course api.Course) {
	e.Course = course
	e.owned = true
	e.CourseForm = CourseForm{Title: course.Title, Description: course.Description}
}

func (e *Editor) loadLessons() Effect {
	e.lessonsLoading = true
	courseID := e.Course.ID
	return run(e.command(opLessons, func(ctx context.Context) (any, error) {
		return e.lessons.ListLessons(ctx, courseID)
	}))
}

// move applies ev after checking the course is editable.
func (e *Editor) move(ev Event) error {
	if ev != EventShowCourse && e.state.Mode == EditingCourse && !e.owned {
		return ErrNotEditable
	}
	next, err := Transition(e.state, ev)
	if err != nil {
		return err
	}
	e.state = next
	return nil
}
