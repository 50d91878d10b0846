package api

// Role names used by the platform.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
)

// Credentials is the body of POST /api/auth/login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the body of POST /api/auth/register.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// AuthResponse is returned by both auth endpoints.
type AuthResponse struct {
	Token  string `json:"token"`
	UserID int64  `json:"userId"`
	Role   string `json:"role"`
}

// Course mirrors /api/courses entries. IsEnrolled is never trusted from the
// server; controllers compute it from the student's course list.
type Course struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	TeacherID   int64  `json:"teacherId"`
	IsEnrolled  bool   `json:"isEnrolled,omitempty"`
}

// CourseRequest is the body for creating or updating a course.
type CourseRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	TeacherID   int64  `json:"teacherId"`
}

// Lesson mirrors /api/courses/:id/lessons entries.
type Lesson struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	CourseID int64  `json:"courseId"`
}

// LessonRequest is the body for creating a lesson.
type LessonRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	CourseID int64  `json:"courseId"`
}

// LessonUpdate is a partial lesson update; nil fields are left unchanged.
type LessonUpdate struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

// LessonCreated is returned by POST /api/courses/:id/lessons.
type LessonCreated struct {
	Message  string `json:"message"`
	LessonID int64  `json:"lessonId"`
}

// MessageResponse is the generic acknowledgement body.
type MessageResponse struct {
	Message string `json:"message"`
}

// User mirrors /api/users/:id.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// UserUpdate is a partial profile update.
type UserUpdate struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

type enrollmentRequest struct {
	UserID int64 `json:"userId"`
}
