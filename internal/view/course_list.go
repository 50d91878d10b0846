package view

import (
	"context"
	"strings"

	"github.com/five82/coursedeck/internal/api"
	"github.com/five82/coursedeck/internal/nav"
)

// CourseList is the course catalogue.
type CourseList struct {
	controller

	courses api.CourseService
	who     Identity

	all       []api.Course
	enrolled  enrollment
	term      string
	enrolling map[int64]bool
}

// NewCourseList builds the catalogue controller.
func NewCourseList(courses api.CourseService, who Identity) *CourseList {
	return &CourseList{
		controller: newController(),
		courses:    courses,
		who:        who,
		enrolling:  map[int64]bool{},
	}
}

// Load fetches the catalogue and, when signed in, the enrollment list. The
// two run concurrently.
func (c *CourseList) Load() Effect {
	c.Loading = true
	c.Err = ""
	cmds := []Command{c.command(opCourses, func(ctx context.Context) (any, error) {
		return c.courses.ListCourses(ctx)
	})}
	if uid, ok := c.who.CurrentUserID(); ok {
		cmds = append(cmds, c.command(opEnrolled, enrolledCourses(c.courses, uid)))
	}
	return run(cmds...)
}

// Apply folds a command result into the controller.
func (c *CourseList) Apply(r Result) Effect {
	if !c.accepts(r) {
		return Effect{}
	}
	switch r.op {
	case opCourses:
		c.Loading = false
		if r.err != nil {
			c.Err = "Failed to load courses. Please try again later."
			return Effect{}
		}
		c.all = r.value.([]api.Course)
	case opEnrolled:
		// Without the enrollment list every course reads as not enrolled.
		if r.err == nil {
			c.enrolled = enrollmentOf(r.value.([]api.Course))
		}
	case opEnroll:
		id := r.value.(int64)
		delete(c.enrolling, id)
		if r.err != nil {
			c.Err = "Failed to enroll in the course. Please try again."
			return Effect{}
		}
		c.enrolled.add(id)
	}
	return Effect{}
}

// Filter narrows the visible courses to those whose title or description
// contains term, ignoring case.
func (c *CourseList) Filter(term string) {
	c.term = strings.ToLower(strings.TrimSpace(term))
}

// Term returns the active filter.
func (c *CourseList) Term() string { return c.term }

// Courses returns the visible courses with IsEnrolled computed from the
// enrollment list.
func (c *CourseList) Courses() []api.Course {
	out := make([]api.Course, 0, len(c.all))
	for _, course := range c.all {
		if c.term != "" &&
			!strings.Contains(strings.ToLower(course.Title), c.term) &&
			!strings.Contains(strings.ToLower(course.Description), c.term) {
			continue
		}
		course.IsEnrolled = c.enrolled.has(course.ID)
		out = append(out, course)
	}
	return out
}

// Owned reports whether the signed-in teacher owns course.
func (c *CourseList) Owned(course api.Course) bool {
	return isOwner(c.who, course)
}

// Enrolling reports whether an enroll request for id is in flight.
func (c *CourseList) Enrolling(id int64) bool { return c.enrolling[id] }

// Enroll enrolls the signed-in user in course id.
func (c *CourseList) Enroll(id int64) Effect {
	uid, ok := c.who.CurrentUserID()
	if !ok {
		return navigate(nav.To(nav.Login))
	}
	if c.enrolling[id] || c.enrolled.has(id) {
		return Effect{}
	}
	c.enrolling[id] = true
	c.Err = ""
	return run(c.command(opEnroll, func(ctx context.Context) (any, error) {
		return id, c.courses.Enroll(ctx, id, uid)
	}))
}

// Open navigates to the details of course id.
func (c *CourseList) Open(id int64) Effect {
	return navigate(nav.Course(id))
}
