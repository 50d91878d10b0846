package nav

import (
	"fmt"
	"strconv"
	"strings"
)

// Page identifies a screen.
type Page int

const (
	Home Page = iota
	Login
	Register
	Courses
	CourseDetails
	MyCourses
	LessonList
	LessonDetails
	CourseEditor
	Profile
)

func (p Page) String() string {
	switch p {
	case Home:
		return "home"
	case Login:
		return "login"
	case Register:
		return "register"
	case Courses:
		return "courses"
	case CourseDetails:
		return "course-details"
	case MyCourses:
		return "my-courses"
	case LessonList:
		return "lessons"
	case LessonDetails:
		return "lesson-details"
	case CourseEditor:
		return "course-management"
	case Profile:
		return "profile"
	default:
		return fmt.Sprintf("page(%d)", int(p))
	}
}

// Route is a page plus its parameters. Zero ids mean "not set".
type Route struct {
	Page     Page
	CourseID int64
	LessonID int64
}

// To is shorthand for a parameterless route.
func To(p Page) Route { return Route{Page: p} }

// Course returns the details route of a course.
func Course(id int64) Route { return Route{Page: CourseDetails, CourseID: id} }

// Lessons returns the lesson list route of a course.
func Lessons(courseID int64) Route { return Route{Page: LessonList, CourseID: courseID} }

// Lesson returns the lesson details route.
func Lesson(courseID, lessonID int64) Route {
	return Route{Page: LessonDetails, CourseID: courseID, LessonID: lessonID}
}

// Editor returns the editor route; id 0 opens it in create mode.
func Editor(courseID int64) Route { return Route{Page: CourseEditor, CourseID: courseID} }

// EditLesson returns the editor route opened on a lesson's edit form.
func EditLesson(courseID, lessonID int64) Route {
	return Route{Page: CourseEditor, CourseID: courseID, LessonID: lessonID}
}

// Path renders the route as a location string.
func (r Route) Path() string {
	switch r.Page {
	case Home:
		return "/"
	case Login:
		return "/login"
	case Register:
		return "/register"
	case Courses:
		return "/courses"
	case CourseDetails:
		return fmt.Sprintf("/courses/%d", r.CourseID)
	case MyCourses:
		return "/my-courses"
	case LessonList:
		return fmt.Sprintf("/courses/%d/lessons", r.CourseID)
	case LessonDetails:
		return fmt.Sprintf("/courses/%d/lessons/%d", r.CourseID, r.LessonID)
	case CourseEditor:
		if r.CourseID > 0 && r.LessonID > 0 {
			return fmt.Sprintf("/course-management/%d/lessons/%d", r.CourseID, r.LessonID)
		}
		if r.CourseID > 0 {
			return fmt.Sprintf("/course-management/%d", r.CourseID)
		}
		return "/course-management"
	case Profile:
		return "/profile"
	default:
		return "/"
	}
}

func (r Route) String() string { return r.Path() }

// Parse is the inverse of Route.Path.
func Parse(path string) (Route, error) {
	trimmed := strings.Trim(strings.TrimSpace(path), "/")
	if trimmed == "" {
		return To(Home), nil
	}
	parts := strings.Split(trimmed, "/")

	switch parts[0] {
	case "login":
		if len(parts) == 1 {
			return To(Login), nil
		}
	case "register":
		if len(parts) == 1 {
			return To(Register), nil
		}
	case "my-courses":
		if len(parts) == 1 {
			return To(MyCourses), nil
		}
	case "profile":
		if len(parts) == 1 {
			return To(Profile), nil
		}
	case "course-management":
		switch len(parts) {
		case 1:
			return Editor(0), nil
		case 2:
			id, err := parseID(parts[1])
			if err != nil {
				return Route{}, fmt.Errorf("parse route %q: %w", path, err)
			}
			return Editor(id), nil
		case 4:
			if parts[2] != "lessons" {
				break
			}
			courseID, err := parseID(parts[1])
			if err != nil {
				return Route{}, fmt.Errorf("parse route %q: %w", path, err)
			}
			lessonID, err := parseID(parts[3])
			if err != nil {
				return Route{}, fmt.Errorf("parse route %q: %w", path, err)
			}
			return EditLesson(courseID, lessonID), nil
		}
	case "courses":
		return parseCourses(path, parts[1:])
	}
	return Route{}, fmt.Errorf("parse route %q: unknown location", path)
}

func parseCourses(path string, rest []string) (Route, error) {
	if len(rest) == 0 {
		return To(Courses), nil
	}
	courseID, err := parseID(rest[0])
	if err != nil {
		return Route{}, fmt.Errorf("parse route %q: %w", path, err)
	}
	switch {
	case len(rest) == 1:
		return Course(courseID), nil
	case rest[1] != "lessons":
	case len(rest) == 2:
		return Lessons(courseID), nil
	case len(rest) == 3:
		lessonID, err := parseID(rest[2])
		if err != nil {
			return Route{}, fmt.Errorf("parse route %q: %w", path, err)
		}
		return Lesson(courseID, lessonID), nil
	}
	return Route{}, fmt.Errorf("parse route %q: unknown location", path)
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}
