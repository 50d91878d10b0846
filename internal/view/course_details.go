package view

import (
	"context"

	"github.com/five82/coursedeck/internal/api"
	"github.com/five82/coursedeck/internal/nav"
)

// PreviewLessons is how many lessons the details page lists.
const PreviewLessons = 5

// CourseDetails shows one course with a preview of its lessons.
type CourseDetails struct {
	controller

	courses api.CourseService
	lessons api.LessonService
	who     Identity

	CourseID    int64
	Course      api.Course
	Lessons     []api.Lesson
	LessonCount int
	Submitting  bool

	enrolled enrollment
}

// NewCourseDetails builds the controller for courseID.
func NewCourseDetails(courses api.CourseService, lessons api.LessonService, who Identity, courseID int64) *CourseDetails {
	return &CourseDetails{
		controller: newController(),
		courses:    courses,
		lessons:    lessons,
		who:        who,
		CourseID:   courseID,
	}
}

// Load fetches the course. Lessons and enrollment follow once it arrives.
func (c *CourseDetails) Load() Effect {
	c.Loading = true
	id := c.CourseID
	return run(c.command(opCourse, func(ctx context.Context) (any, error) {
		return c.courses.GetCourse(ctx, id)
	}))
}

// Apply folds a command result into the controller.
func (c *CourseDetails) Apply(r Result) Effect {
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
		if uid, ok := c.who.CurrentUserID(); ok {
			cmds = append(cmds, c.command(opEnrolled, enrolledCourses(c.courses, uid)))
		}
		return run(cmds...)
	case opLessons:
		c.Loading = false
		if r.err != nil {
			c.Err = "Failed to load lessons. Please try again later."
			return Effect{}
		}
		all := r.value.([]api.Lesson)
		c.LessonCount = len(all)
		if len(all) > PreviewLessons {
			all = all[:PreviewLessons]
		}
		c.Lessons = all
	case opEnrolled:
		if r.err == nil {
			c.enrolled = enrollmentOf(r.value.([]api.Course))
		}
	case opEnroll, opUnenroll:
		c.Submitting = false
		if r.err != nil {
			if r.op == opEnroll {
				c.Err = "Failed to enroll in the course. Please try again."
			} else {
				c.Err = "Failed to unenroll from the course. Please try again."
			}
		} else if r.op == opEnroll {
			c.enrolled.add(c.CourseID)
		} else {
			c.enrolled.remove(c.CourseID)
		}
		return c.Load()
	}
	return Effect{}
}

// IsEnrolled reports whether the signed-in student is enrolled.
func (c *CourseDetails) IsEnrolled() bool {
	return c.enrolled.has(c.CourseID)
}

// IsOwner reports whether the signed-in teacher owns the course.
func (c *CourseDetails) IsOwner() bool {
	return isOwner(c.who, c.Course)
}

// CanViewLessons reports whether lessons are open to the user.
func (c *CourseDetails) CanViewLessons() bool {
	return c.IsEnrolled() || c.IsOwner()
}

// ViewLesson opens a lesson, or starts the enroll flow for a student who
// is not enrolled yet.
func (c *CourseDetails) ViewLesson(lessonID int64) Effect {
	return c.gate(nav.Lesson(c.CourseID, lessonID))
}

// ViewAllLessons opens the full lesson list under the same rule.
func (c *CourseDetails) ViewAllLessons() Effect {
	return c.gate(nav.Lessons(c.CourseID))
}

func (c *CourseDetails) gate(target nav.Route) Effect {
	if c.CanViewLessons() {
		return navigate(target)
	}
	if c.who.IsTeacher() {
		c.Err = "Only the course owner can view these lessons."
		return Effect{}
	}
	return c.Enroll()
}

// Enroll enrolls the signed-in user and reloads the page.
func (c *CourseDetails) Enroll() Effect {
	return c.membership(opEnroll)
}

// Unenroll leaves the course and reloads the page.
func (c *CourseDetails) Unenroll() Effect {
	return c.membership(opUnenroll)
}

func (c *CourseDetails) membership(o op) Effect {
	uid, ok := c.who.CurrentUserID()
	if !ok {
		return navigate(nav.To(nav.Login))
	}
	if c.Submitting {
		return Effect{}
	}
	c.Submitting = true
	c.Err = ""
	id := c.CourseID
	return run(c.command(o, func(ctx context.Context) (any, error) {
		if o == opEnroll {
			return nil, c.courses.Enroll(ctx, id, uid)
		}
		return nil, c.courses.Unenroll(ctx, id, uid)
	}))
}

// Edit opens the course editor for the owner.
func (c *CourseDetails) Edit() Effect {
	if !c.IsOwner() {
		return Effect{}
	}
	return navigate(nav.Editor(c.CourseID))
}
