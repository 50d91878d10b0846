package view

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// CourseForm is the course editor form.
type CourseForm struct {
	Title       string `validate:"required,min=3,max=100"`
	Description string `validate:"required,min=10,max=1000"`
}

// Validate trims the fields and checks their bounds.
func (f *CourseForm) Validate() error {
	f.Title = strings.TrimSpace(f.Title)
	f.Description = strings.TrimSpace(f.Description)
	return check(f)
}

// LessonForm is the lesson editor form.
type LessonForm struct {
	Title   string `validate:"required,min=3,max=100"`
	Content string `validate:"required,min=10"`
}

// Validate trims the title and checks both fields.
func (f *LessonForm) Validate() error {
	f.Title = strings.TrimSpace(f.Title)
	return check(f)
}

// LoginForm is the sign-in form.
type LoginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// Validate checks the form.
func (f *LoginForm) Validate() error {
	f.Email = strings.TrimSpace(f.Email)
	return check(f)
}

// RegisterForm is the sign-up form.
type RegisterForm struct {
	Name     string `validate:"required,min=2,max=100"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
	Role     string `validate:"required,oneof=student teacher"`
}

// Validate checks the form.
func (f *RegisterForm) Validate() error {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	return check(f)
}

// ProfileForm edits the signed-in user's profile.
type ProfileForm struct {
	Name  string `validate:"required,min=2,max=100"`
	Email string `validate:"required,email"`
}

// Validate checks the form.
func (f *ProfileForm) Validate() error {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	return check(f)
}

// FieldError is one failed constraint.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists the constraints a form failed. No request is issued
// for a form that returns one.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, "; ")
}

// Field returns the message for name, if that field failed.
func (e *ValidationError) Field(name string) (string, bool) {
	for _, f := range e.Fields {
		if f.Field == name {
			return f.Message, true
		}
	}
	return "", false
}

func check(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate form: %w", err)
	}
	out := &ValidationError{}
	for _, fe := range fieldErrs {
		name := strings.ToLower(fe.Field())
		out.Fields = append(out.Fields, FieldError{Field: name, Message: fieldMessage(name, fe)})
	}
	return out
}

func fieldMessage(name string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", name)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", name, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", name, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", name)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", name, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s is invalid", name)
	}
}
