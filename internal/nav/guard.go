package nav

// Requirement is the access level a page needs.
type Requirement int

const (
	Public Requirement = iota
	Authenticated
	TeacherRole
)

// Requires reports the requirement of p.
func Requires(p Page) Requirement {
	switch p {
	case Home, Login, Register:
		return Public
	case CourseEditor:
		return TeacherRole
	default:
		return Authenticated
	}
}

// Identity answers the two questions the guard asks.
type Identity interface {
	IsAuthenticated() bool
	IsTeacher() bool
}

// Guard decides whether a navigation may proceed.
type Guard struct {
	id Identity
}

// NewGuard returns a Guard reading identity from id.
func NewGuard(id Identity) *Guard {
	return &Guard{id: id}
}

// Check returns the route to show and whether the requested one was allowed.
// It reads the identity on every call.
func (g *Guard) Check(r Route) (Route, bool) {
	switch Requires(r.Page) {
	case Authenticated:
		if !g.id.IsAuthenticated() {
			return To(Login), false
		}
	case TeacherRole:
		if !g.id.IsAuthenticated() {
			return To(Login), false
		}
		if !g.id.IsTeacher() {
			return To(Courses), false
		}
	}
	return r, true
}
