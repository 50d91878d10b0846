package api

import (
	"context"
	"fmt"
	"net/http"
)

func lessonsPath(courseID int64) string {
	return fmt.Sprintf("%s/%d/lessons", coursesPath, courseID)
}

func lessonPath(courseID, lessonID int64) string {
	return fmt.Sprintf("%s/%d", lessonsPath(courseID), lessonID)
}

// ListLessons returns the lessons of a course.
func (c *Client) ListLessons(ctx context.Context, courseID int64) ([]Lesson, error) {
	var payload []Lesson
	if err := c.do(ctx, http.MethodGet, lessonsPath(courseID), nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// GetLesson returns one lesson.
func (c *Client) GetLesson(ctx context.Context, courseID, lessonID int64) (Lesson, error) {
	var payload Lesson
	if err := c.do(ctx, http.MethodGet, lessonPath(courseID, lessonID), nil, &payload); err != nil {
		return Lesson{}, err
	}
	return payload, nil
}

// CreateLesson adds a lesson to the course.
func (c *Client) CreateLesson(ctx context.Context, courseID int64, req LessonRequest) (LessonCreated, error) {
	if req.CourseID == 0 {
		req.CourseID = courseID
	}
	var payload LessonCreated
	if err := c.do(ctx, http.MethodPost, lessonsPath(courseID), req, &payload); err != nil {
		return LessonCreated{}, err
	}
	return payload, nil
}

// UpdateLesson applies a partial update.
func (c *Client) UpdateLesson(ctx context.Context, courseID, lessonID int64, upd LessonUpdate) error {
	var payload MessageResponse
	return c.do(ctx, http.MethodPut, lessonPath(courseID, lessonID), upd, &payload)
}

// DeleteLesson removes a lesson.
func (c *Client) DeleteLesson(ctx context.Context, courseID, lessonID int64) error {
	var payload MessageResponse
	return c.do(ctx, http.MethodDelete, lessonPath(courseID, lessonID), nil, &payload)
}
