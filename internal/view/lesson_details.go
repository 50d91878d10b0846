package view

import (
	"context"

	"github.com/five82/coursedeck/internal/api"
	"github.com/five82/coursedeck/internal/nav"
)

// LessonDetails shows a single lesson. The lesson is only exposed once the
// user is known to be enrolled or to own the course.
type LessonDetails struct {
	controller

	courses api.CourseService
	lessons api.LessonService
	who     Identity

	CourseID int64
	LessonID int64
	Course   api.Course

	lesson    api.Lesson
	hasLesson bool
	hasCourse bool
	enrolled  enrollment
	decided   bool
}

// NewLessonDetails builds the controller for one lesson.
func NewLessonDetails(courses api.CourseService, lessons api.LessonService, who Identity, courseID, lessonID int64) *LessonDetails {
	return &LessonDetails{
		controller: newController(),
		courses:    courses,
		lessons:    lessons,
		who:        who,
		CourseID:   courseID,
		LessonID:   lessonID,
	}
}

// Load fetches the course, the lesson and the enrollment list concurrently.
func (c *LessonDetails) Load() Effect {
	c.Loading = true
	c.Err = ""
	courseID, lessonID := c.CourseID, c.LessonID
	cmds := []Command{
		c.command(opCourse, func(ctx context.Context) (any, error) {
			return c.courses.GetCourse(ctx, courseID)
		}),
		c.command(opLesson, func(ctx context.Context) (any, error) {
			return c.lessons.GetLesson(ctx, courseID, lessonID)
		}),
	}
	if uid, ok := c.who.CurrentUserID(); ok {
		cmds = append(cmds, c.command(opEnrolled, enrolledCourses(c.courses, uid)))
	} else {
		c.enrolled.loaded = true
	}
	return run(cmds...)
}

// Apply folds a command result into the controller.
func (c *LessonDetails) Apply(r Result) Effect {
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
		c.hasCourse = true
	case opLesson:
		c.Loading = false
		if r.err != nil {
			c.Err = "Failed to load lesson data. Please try again later."
			return Effect{}
		}
		c.lesson = r.value.(api.Lesson)
		c.hasLesson = true
	case opEnrolled:
		if r.err != nil {
			c.Err = "Failed to check your enrollment. Please try again later."
			return Effect{}
		}
		c.enrolled = enrollmentOf(r.value.([]api.Course))
	}
	return c.decide()
}

// decide runs once course ownership and enrollment are both known.
func (c *LessonDetails) decide() Effect {
	if c.decided || !c.hasCourse || c.Granted() {
		return Effect{}
	}
	if !c.enrolled.loaded {
		return Effect{}
	}
	c.decided = true
	if c.who.IsTeacher() {
		c.Err = "Only the course owner can view this lesson."
		return Effect{}
	}
	eff := navigate(nav.Course(c.CourseID))
	eff.Flash = "Enroll in this course to read its lessons."
	return eff
}

// Granted reports whether access has been established.
func (c *LessonDetails) Granted() bool {
	if !c.hasCourse {
		return false
	}
	return isOwner(c.who, c.Course) || c.enrolled.has(c.CourseID)
}

// Lesson returns the lesson once it has loaded and access is granted.
func (c *LessonDetails) Lesson() (api.Lesson, bool) {
	if !c.hasLesson || !c.Granted() {
		return api.Lesson{}, false
	}
	return c.lesson, true
}

// IsOwner reports whether the signed-in teacher owns the course.
func (c *LessonDetails) IsOwner() bool {
	return isOwner(c.who, c.Course)
}

// Edit opens the editor for the owner.
func (c *LessonDetails) Edit() Effect {
	if !c.IsOwner() {
		return Effect{}
	}
	return navigate(nav.Editor(c.CourseID))
}

// BackToLessons navigates to the lesson list.
func (c *LessonDetails) BackToLessons() Effect {
	return navigate(nav.Lessons(c.CourseID))
}
