package view

import (
	"context"

	"github.com/five82/coursedeck/internal/api"
	"github.com/five82/coursedeck/internal/nav"
)

// LessonList shows every lesson of a course.
type LessonList struct {
	controller

	courses api.CourseService
	lessons api.LessonService
	who     Identity

	CourseID int64
	Course   api.Course
	Lessons  []api.Lesson

	enrolled enrollment
}

// NewLessonList builds the controller for courseID.
func NewLessonList(courses api.CourseService, lessons api.LessonService, who Identity, courseID int64) *LessonList {
	return &LessonList{
		controller: newController(),
		courses:    courses,
		lessons:    lessons,
		who:        who,
		CourseID:   courseID,
	}
}

// Load fetches the course, then its lessons and the enrollment list.
func (c *LessonList) Load() Effect {
	c.Loading = true
	id := c.CourseID
	return run(c.command(opCourse, func(ctx context.Context) (any, error) {
		return c.courses.GetCourse(ctx, id)
	}))
}

// Apply folds a command result into the controller.
func (c *LessonList) Apply(r Result) Effect {
	if !c.accepts(r) {
		return Effect{}
	}
	switch r.op {
	case opCourse:
		if r.err != nil {
			c.Loading = false
			c.Err = "Failed to load course details. Please try again later."
			return Effect{}
		}
		c.Course = r.value.(api.Course)
		id := c.CourseID
		cmds := []Command{c.command(opLessons, func(ctx context.Context) (any, error) {
			return c.lessons.ListLessons(ctx, id)
		})}
		if uid, ok := c.who.CurrentUserID(); ok && !c.IsOwner() {
			cmds = append(cmds, c.command(opEnrolled, enrolledCourses(c.courses, uid)))
		}
		return run(cmds...)
	case opLessons:
		c.Loading = false
		if r.err != nil {
			c.Err = "Failed to load lessons. Please try again later."
			return Effect{}
		}
		c.Lessons = r.value.([]api.Lesson)
	case opEnrolled:
		if r.err == nil {
			c.enrolled = enrollmentOf(r.value.([]api.Course))
		}
	case opDeleteLesson:
		if r.err != nil {
			c.Err = "Failed to delete the lesson. Please try again."
			return Effect{}
		}
		c.Lessons = withoutLesson(c.Lessons, r.value.(int64))
	}
	return Effect{}
}

// IsOwner reports whether the signed-in teacher owns the course.
func (c *LessonList) IsOwner() bool {
	return isOwner(c.who, c.Course)
}

// IsEnrolled reports whether the signed-in student is enrolled.
func (c *LessonList) IsEnrolled() bool {
	return c.enrolled.has(c.CourseID)
}

// ViewLesson opens a lesson when the user may see it. A student who is not
// enrolled is sent to the course page to enroll; anyone else gets a
// transient error.
func (c *LessonList) ViewLesson(lessonID int64) Effect {
	if c.IsEnrolled() || c.IsOwner() {
		return navigate(nav.Lesson(c.CourseID, lessonID))
	}
	if !c.who.IsTeacher() && c.enrolled.loaded {
		return navigate(nav.Course(c.CourseID))
	}
	return c.notify("You must be enrolled in this course to view lessons.", true)
}

// NewLesson opens the editor for the owner.
func (c *LessonList) NewLesson() Effect {
	if !c.IsOwner() {
		return Effect{}
	}
	return navigate(nav.Editor(c.CourseID))
}

// EditLesson opens the owner's editor on the lesson's edit form.
func (c *LessonList) EditLesson(lessonID int64) Effect {
	if !c.IsOwner() {
		return Effect{}
	}
	return navigate(nav.EditLesson(c.CourseID, lessonID))
}

// RequestDelete asks the owner to confirm deleting a lesson.
func (c *LessonList) RequestDelete(lessonID int64) {
	if !c.IsOwner() {
		return
	}
	c.ask("Are you sure you want to delete this lesson? This action cannot be undone.", opDeleteLesson, lessonID)
}

// Confirm deletes the pending lesson.
func (c *LessonList) Confirm() Effect {
	p, ok := c.take()
	if !ok {
		return Effect{}
	}
	courseID, lessonID := c.CourseID, p.target
	c.Err = ""
	return run(c.command(opDeleteLesson, func(ctx context.Context) (any, error) {
		return lessonID, c.lessons.DeleteLesson(ctx, courseID, lessonID)
	}))
}

// BackToCourse navigates to the course page.
func (c *LessonList) BackToCourse() Effect {
	return navigate(nav.Course(c.CourseID))
}

func withoutLesson(lessons []api.Lesson, id int64) []api.Lesson {
	kept := make([]api.Lesson, 0, len(lessons))
	for _, l := range lessons {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	return kept
}
