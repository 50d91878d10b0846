package api

import "context"

// AuthService covers the two unauthenticated endpoints.
type AuthService interface {
	Login(ctx context.Context, creds Credentials) (AuthResponse, error)
	Register(ctx context.Context, reg Registration) (AuthResponse, error)
}

// CourseService covers /api/courses and enrollment.
type CourseService interface {
	ListCourses(ctx context.Context) ([]Course, error)
	GetCourse(ctx context.Context, id int64) (Course, error)
	CreateCourse(ctx context.Context, req CourseRequest) (Course, error)
	UpdateCourse(ctx context.Context, id int64, req CourseRequest) (Course, error)
	DeleteCourse(ctx context.Context, id int64) error
	Enroll(ctx context.Context, courseID, userID int64) error
	Unenroll(ctx context.Context, courseID, userID int64) error
	StudentCourses(ctx context.Context, studentID int64) ([]Course, error)
}

// LessonService covers /api/courses/:id/lessons.
type LessonService interface {
	ListLessons(ctx context.Context, courseID int64) ([]Lesson, error)
	GetLesson(ctx context.Context, courseID, lessonID int64) (Lesson, error)
	CreateLesson(ctx context.Context, courseID int64, req LessonRequest) (LessonCreated, error)
	UpdateLesson(ctx context.Context, courseID, lessonID int64, upd LessonUpdate) error
	DeleteLesson(ctx context.Context, courseID, lessonID int64) error
}

// UserService covers /api/users/:id.
type UserService interface {
	GetUser(ctx context.Context, id int64) (User, error)
	UpdateUser(ctx context.Context, id int64, upd UserUpdate) error
	DeleteUser(ctx context.Context, id int64) error
}

// Ensure Client implements every service at compile time.
var (
	_ AuthService   = (*Client)(nil)
	_ CourseService = (*Client)(nil)
	_ LessonService = (*Client)(nil)
	_ UserService   = (*Client)(nil)
)
