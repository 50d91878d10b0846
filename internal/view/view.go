package view

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/five82/coursedeck/internal/api"
	"github.com/five82/coursedeck/internal/nav"
)

// NoticeTTL is how long a transient notice stays on screen.
const NoticeTTL = 3 * time.Second

// Identity is what controllers need to know about the signed-in user.
type Identity interface {
	CurrentUserID() (int64, bool)
	IsTeacher() bool
}

// Command is deferred network work. It must not touch controller state;
// the UI runs it off the event loop and feeds the Result back to Apply.
type Command func(ctx context.Context) Result

// Result is the outcome of a Command, tagged with the generation of the
// controller that issued it.
type Result struct {
	gen   uint64
	op    op
	value any
	err   error
}

// Generation reports which controller instance issued the command.
func (r Result) Generation() uint64 { return r.gen }

// Err is the error the command returned, if any.
func (r Result) Err() error { return r.err }

// Effect tells the UI what to do after a controller call.
type Effect struct {
	// Navigate pushes a new route through the guard.
	Navigate *nav.Route
	// Replace updates the current location without reloading the view.
	Replace *nav.Route
	// Commands run concurrently; their results come back through Apply.
	Commands []Command
	// Expire schedules ClearNotice for this id after NoticeTTL.
	Expire uint64
	// Flash is a message to show after navigating away.
	Flash string
}

// Empty reports whether the effect asks for nothing.
func (e Effect) Empty() bool {
	return e.Navigate == nil && e.Replace == nil && len(e.Commands) == 0 && e.Expire == 0 && e.Flash == ""
}

func (e Effect) with(o Effect) Effect {
	if o.Navigate != nil {
		e.Navigate = o.Navigate
	}
	if o.Replace != nil {
		e.Replace = o.Replace
	}
	e.Commands = append(e.Commands, o.Commands...)
	if o.Expire != 0 {
		e.Expire = o.Expire
	}
	if o.Flash != "" {
		e.Flash = o.Flash
	}
	return e
}

func navigate(r nav.Route) Effect {
	return Effect{Navigate: &r}
}

func run(cmds ...Command) Effect {
	return Effect{Commands: cmds}
}

// Notice is a transient message. Error notices render as failures.
type Notice struct {
	ID    uint64
	Text  string
	Error bool
}

// Confirmation is an action waiting for the user to say yes.
type Confirmation struct {
	Prompt string
	op     op
	target int64
}

type op int

const (
	opCourses op = iota + 1
	opEnrolled
	opCourse
	opLessons
	opLesson
	opEnroll
	opUnenroll
	opCreateCourse
	opUpdateCourse
	opDeleteCourse
	opCreateLesson
	opUpdateLesson
	opDeleteLesson
	opUser
	opUpdateUser
	opDeleteUser
	opLogin
	opRegister
)

var (
	generations atomic.Uint64
	notices     atomic.Uint64
)

// controller carries what every view controller shares: its generation,
// the last error, a transient notice and a pending confirmation.
type controller struct {
	gen     uint64
	closed  bool
	pending *Confirmation

	Loading bool
	Err     string
	Notice  Notice
}

func newController() controller {
	return controller{gen: generations.Add(1)}
}

// Generation identifies this controller instance.
func (c *controller) Generation() uint64 { return c.gen }

// Close retires the controller. Results issued before Close are dropped.
func (c *controller) Close() { c.closed = true }

// Closed reports whether Close was called.
func (c *controller) Closed() bool { return c.closed }

func (c *controller) accepts(r Result) bool {
	return !c.closed && r.gen == c.gen
}

func (c *controller) command(o op, fn func(ctx context.Context) (any, error)) Command {
	gen := c.gen
	return func(ctx context.Context) Result {
		v, err := fn(ctx)
		return Result{gen: gen, op: o, value: v, err: err}
	}
}

func (c *controller) notify(text string, isErr bool) Effect {
	c.Notice = Notice{ID: notices.Add(1), Text: text, Error: isErr}
	return Effect{Expire: c.Notice.ID}
}

// ClearNotice removes the notice if it is still the one with id.
func (c *controller) ClearNotice(id uint64) {
	if c.Notice.ID == id {
		c.Notice = Notice{}
	}
}

// Pending returns the confirmation awaiting an answer.
func (c *controller) Pending() (Confirmation, bool) {
	if c.pending == nil {
		return Confirmation{}, false
	}
	return *c.pending, true
}

// Cancel drops the pending confirmation.
func (c *controller) Cancel() { c.pending = nil }

func (c *controller) ask(prompt string, o op, target int64) {
	c.pending = &Confirmation{Prompt: prompt, op: o, target: target}
}

func (c *controller) take() (Confirmation, bool) {
	p, ok := c.Pending()
	c.pending = nil
	return p, ok
}

func isOwner(who Identity, course api.Course) bool {
	uid, ok := who.CurrentUserID()
	return ok && who.IsTeacher() && course.ID != 0 && course.TeacherID == uid
}

// enrollment is the set of course ids the student is enrolled in.
type enrollment struct {
	ids    map[int64]bool
	loaded bool
}

func enrollmentOf(courses []api.Course) enrollment {
	ids := make(map[int64]bool, len(courses))
	for _, c := range courses {
		ids[c.ID] = true
	}
	return enrollment{ids: ids, loaded: true}
}

func (e *enrollment) has(id int64) bool {
	return e.ids[id]
}

func (e *enrollment) add(id int64) {
	if e.ids == nil {
		e.ids = map[int64]bool{}
	}
	e.ids[id] = true
}

func (e *enrollment) remove(id int64) {
	delete(e.ids, id)
}

func enrolledCourses(courses api.CourseService, studentID int64) func(context.Context) (any, error) {
	return func(ctx context.Context) (any, error) {
		return courses.StudentCourses(ctx, studentID)
	}
}
