package api

import (
	"context"
	"fmt"
	"net/http"
)

const coursesPath = "/api/courses"

func coursePath(id int64) string {
	return fmt.Sprintf("%s/%d", coursesPath, id)
}

// ListCourses returns every course.
func (c *Client) ListCourses(ctx context.Context) ([]Course, error) {
	var payload []Course
	if err := c.do(ctx, http.MethodGet, coursesPath, nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// GetCourse returns one course.
func (c *Client) GetCourse(ctx context.Context, id int64) (Course, error) {
	var payload Course
	if err := c.do(ctx, http.MethodGet, coursePath(id), nil, &payload); err != nil {
		return Course{}, err
	}
	return payload, nil
}

// CreateCourse creates a course owned by req.TeacherID.
func (c *Client) CreateCourse(ctx context.Context, req CourseRequest) (Course, error) {
	var payload Course
	if err := c.do(ctx, http.MethodPost, coursesPath, req, &payload); err != nil {
		return Course{}, err
	}
	return payload, nil
}

// UpdateCourse replaces a course's title and description.
func (c *Client) UpdateCourse(ctx context.Context, id int64, req CourseRequest) (Course, error) {
	var payload Course
	if err := c.do(ctx, http.MethodPut, coursePath(id), req, &payload); err != nil {
		return Course{}, err
	}
	if payload.ID == 0 {
		// Some deployments answer updates with a bare acknowledgement.
		payload = Course{ID: id, Title: req.Title, Description: req.Description, TeacherID: req.TeacherID}
	}
	return payload, nil
}

// DeleteCourse removes a course.
func (c *Client) DeleteCourse(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, coursePath(id), nil, nil)
}

// Enroll adds userID to the course.
func (c *Client) Enroll(ctx context.Context, courseID, userID int64) error {
	return c.do(ctx, http.MethodPost, coursePath(courseID)+"/enroll", enrollmentRequest{UserID: userID}, nil)
}

// Unenroll removes userID from the course. The API expects a DELETE with a body.
func (c *Client) Unenroll(ctx context.Context, courseID, userID int64) error {
	return c.do(ctx, http.MethodDelete, coursePath(courseID)+"/unenroll", enrollmentRequest{UserID: userID}, nil)
}

// StudentCourses returns the courses studentID is enrolled in.
func (c *Client) StudentCourses(ctx context.Context, studentID int64) ([]Course, error) {
	var payload []Course
	path := fmt.Sprintf("%s/student/%d", coursesPath, studentID)
	if err := c.do(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}
