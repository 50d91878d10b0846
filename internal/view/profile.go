package view

import (
	"context"

	"github.com/five82/coursedeck/internal/api"
	"github.com/five82/coursedeck/internal/nav"
)

// Account is the session side the profile page needs.
type Account interface {
	Identity
	Logout()
}

// Profile shows and edits the signed-in user's account.
type Profile struct {
	controller

	users   api.UserService
	account Account

	User       api.User
	Submitting bool
}

// NewProfile builds the controller.
func NewProfile(users api.UserService, account Account) *Profile {
	return &Profile{controller: newController(), users: users, account: account}
}

// Load fetches the profile.
func (c *Profile) Load() Effect {
	uid, ok := c.account.CurrentUserID()
	if !ok {
		return navigate(nav.To(nav.Login))
	}
	c.Loading = true
	c.Err = ""
	return run(c.command(opUser, func(ctx context.Context) (any, error) {
		return c.users.GetUser(ctx, uid)
	}))
}

// Save validates form and sends the fields that changed.
func (c *Profile) Save(form ProfileForm) (Effect, error) {
	if err := form.Validate(); err != nil {
		c.Err = err.Error()
		return Effect{}, err
	}
	uid, ok := c.account.CurrentUserID()
	if !ok {
		return navigate(nav.To(nav.Login)), nil
	}
	if c.Submitting {
		return Effect{}, nil
	}

	var upd api.UserUpdate
	if form.Name != c.User.Name {
		name := form.Name
		upd.Name = &name
	}
	if form.Email != c.User.Email {
		email := form.Email
		upd.Email = &email
	}
	if upd.Name == nil && upd.Email == nil {
		return c.notify("Nothing to save.", false), nil
	}

	c.Submitting = true
	c.Err = ""
	return run(c.command(opUpdateUser, func(ctx context.Context) (any, error) {
		return form, c.users.UpdateUser(ctx, uid, upd)
	})), nil
}

// RequestDelete asks before deleting the account.
func (c *Profile) RequestDelete() {
	uid, ok := c.account.CurrentUserID()
	if !ok {
		return
	}
	c.ask("Delete your account? This cannot be undone.", opDeleteUser, uid)
}

// Confirm deletes the account and signs out.
func (c *Profile) Confirm() Effect {
	p, ok := c.take()
	if !ok {
		return Effect{}
	}
	c.Submitting = true
	c.Err = ""
	uid := p.target
	return run(c.command(opDeleteUser, func(ctx context.Context) (any, error) {
		return nil, c.users.DeleteUser(ctx, uid)
	}))
}

// Apply folds a command result into the controller.
func (c *Profile) Apply(r Result) Effect {
	if !c.accepts(r) {
		return Effect{}
	}
	switch r.op {
	case opUser:
		c.Loading = false
		if r.err != nil {
			c.Err = "Failed to load your profile. Please try again later."
			return Effect{}
		}
		c.User = r.value.(api.User)
	case opUpdateUser:
		c.Submitting = false
		if r.err != nil {
			c.Err = "Failed to update your profile. Please try again."
			return Effect{}
		}
		form := r.value.(ProfileForm)
		c.User.Name = form.Name
		c.User.Email = form.Email
		return c.notify("Profile updated successfully!", false)
	case opDeleteUser:
		c.Submitting = false
		if r.err != nil {
			c.Err = "Failed to delete your account. Please try again."
			return Effect{}
		}
		c.account.Logout()
		eff := navigate(nav.To(nav.Login))
		eff.Flash = "Your account has been deleted."
		return eff
	}
	return Effect{}
}
