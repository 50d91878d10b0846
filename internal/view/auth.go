package view

import (
	"context"
	"errors"
	"net/http"

	"github.com/five82/coursedeck/internal/api"
	"github.com/five82/coursedeck/internal/nav"
	"github.com/five82/coursedeck/internal/session"
)

// Authenticator establishes sessions.
type Authenticator interface {
	Login(ctx context.Context, creds api.Credentials) (session.Session, error)
	Register(ctx context.Context, reg api.Registration) (session.Session, error)
}

// Auth drives the login and register screens.
type Auth struct {
	controller

	auth Authenticator
	next nav.Route

	Submitting bool
}

// NewAuth builds the controller. After a successful sign-in it navigates to
// next, or to the course list when next is not a protected page.
func NewAuth(auth Authenticator, next nav.Route) *Auth {
	if nav.Requires(next.Page) == nav.Public {
		next = nav.To(nav.Courses)
	}
	return &Auth{controller: newController(), auth: auth, next: next}
}

// Login validates form and signs in.
func (c *Auth) Login(form LoginForm) (Effect, error) {
	if err := form.Validate(); err != nil {
		c.Err = err.Error()
		return Effect{}, err
	}
	if c.Submitting {
		return Effect{}, nil
	}
	c.Submitting = true
	c.Err = ""
	creds := api.Credentials{Email: form.Email, Password: form.Password}
	return run(c.command(opLogin, func(ctx context.Context) (any, error) {
		return c.auth.Login(ctx, creds)
	})), nil
}

// Register validates form and creates the account.
func (c *Auth) Register(form RegisterForm) (Effect, error) {
	if err := form.Validate(); err != nil {
		c.Err = err.Error()
		return Effect{}, err
	}
	if c.Submitting {
		return Effect{}, nil
	}
	c.Submitting = true
	c.Err = ""
	reg := api.Registration{Name: form.Name, Email: form.Email, Password: form.Password, Role: form.Role}
	return run(c.command(opRegister, func(ctx context.Context) (any, error) {
		return c.auth.Register(ctx, reg)
	})), nil
}

// Apply folds a command result into the controller.
func (c *Auth) Apply(r Result) Effect {
	if !c.accepts(r) {
		return Effect{}
	}
	if r.op != opLogin && r.op != opRegister {
		return Effect{}
	}
	c.Submitting = false
	if r.err != nil {
		c.Err = authMessage(r.op, r.err)
		return Effect{}
	}
	return navigate(c.next)
}

func authMessage(o op, err error) string {
	var statusErr *api.StatusError
	if errors.As(err, &statusErr) {
		switch {
		case o == opLogin && (statusErr.StatusCode == http.StatusUnauthorized || statusErr.StatusCode == http.StatusBadRequest):
			return "Invalid email or password."
		case statusErr.Message != "":
			return statusErr.Message
		}
	}
	if o == opLogin {
		return "Login failed. Please try again."
	}
	return "Registration failed. Please try again."
}
