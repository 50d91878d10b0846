package view

import (
	"context"

	"github.com/five82/coursedeck/internal/api"
	"github.com/five82/coursedeck/internal/nav"
)

// MyCourses lists the courses the signed-in student is enrolled in.
type MyCourses struct {
	controller

	courses api.CourseService
	who     Identity

	Courses []api.Course
}

// NewMyCourses builds the controller.
func NewMyCourses(courses api.CourseService, who Identity) *MyCourses {
	return &MyCourses{controller: newController(), courses: courses, who: who}
}

// Load fetches the enrollment list. Without a user id it sends the user to
// the login page.
func (c *MyCourses) Load() Effect {
	uid, ok := c.who.CurrentUserID()
	if !ok {
		return navigate(nav.To(nav.Login))
	}
	c.Loading = true
	c.Err = ""
	return run(c.command(opEnrolled, enrolledCourses(c.courses, uid)))
}

// Apply folds a command result into the controller.
func (c *MyCourses) Apply(r Result) Effect {
	if !c.accepts(r) {
		return Effect{}
	}
	switch r.op {
	case opEnrolled:
		c.Loading = false
		if r.err != nil {
			c.Err = "Failed to load your courses. Please try again later."
			return Effect{}
		}
		c.Courses = r.value.([]api.Course)
	case opUnenroll:
		if r.err != nil {
			c.Err = "Failed to unenroll from the course. Please try again."
			return Effect{}
		}
		id := r.value.(int64)
		kept := c.Courses[:0:0]
		for _, course := range c.Courses {
			if course.ID != id {
				kept = append(kept, course)
			}
		}
		c.Courses = kept
	}
	return Effect{}
}

// Open navigates to a course.
func (c *MyCourses) Open(id int64) Effect {
	return navigate(nav.Course(id))
}

// Browse navigates to the catalogue.
func (c *MyCourses) Browse() Effect {
	return navigate(nav.To(nav.Courses))
}

// RequestUnenroll asks for confirmation before leaving course id.
func (c *MyCourses) RequestUnenroll(id int64) {
	c.ask("Are you sure you want to unenroll from this course?", opUnenroll, id)
}

// Confirm carries out the pending unenroll.
func (c *MyCourses) Confirm() Effect {
	p, ok := c.take()
	if !ok {
		return Effect{}
	}
	uid, ok := c.who.CurrentUserID()
	if !ok {
		return navigate(nav.To(nav.Login))
	}
	c.Err = ""
	id := p.target
	return run(c.command(opUnenroll, func(ctx context.Context) (any, error) {
		return id, c.courses.Unenroll(ctx, id, uid)
	}))
}
