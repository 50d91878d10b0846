package view

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/five82/coursedeck/internal/api"
	"github.com/five82/coursedeck/internal/session"
)

var errBoom = errors.New("boom")

type who struct {
	id      int64
	teacher bool
}

func (w who) CurrentUserID() (int64, bool) { return w.id, w.id != 0 }
func (w who) IsTeacher() bool              { return w.teacher }

var (
	anonymous = who{}
	student   = who{id: 5}
	teacher   = who{id: 9, teacher: true}
)

type fakeAPI struct {
	mu sync.Mutex

	courses  map[int64]api.Course
	lessons  map[int64][]api.Lesson
	enrolled map[int64][]int64
	users    map[int64]api.User
	nextID   int64

	failures map[string]error
	calls    []string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		courses:  map[int64]api.Course{},
		lessons:  map[int64][]api.Lesson{},
		enrolled: map[int64][]int64{},
		users:    map[int64]api.User{},
		nextID:   100,
		failures: map[string]error{},
	}
}

func (f *fakeAPI) call(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	return f.failures[name]
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeAPI) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeAPI) fail(name string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[name] = err
}

func notFound() error {
	return &api.StatusError{Method: http.MethodGet, Path: "/api/courses", StatusCode: http.StatusNotFound}
}

func (f *fakeAPI) ListCourses(context.Context) ([]api.Course, error) {
	if err := f.call("ListCourses"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]api.Course, 0, len(f.courses))
	for id := int64(1); id <= f.nextID; id++ {
		if c, ok := f.courses[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeAPI) GetCourse(_ context.Context, id int64) (api.Course, error) {
	if err := f.call("GetCourse"); err != nil {
		return api.Course{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.courses[id]
	if !ok {
		return api.Course{}, notFound()
	}
	return c, nil
}

func (f *fakeAPI) CreateCourse(_ context.Context, req api.CourseRequest) (api.Course, error) {
	if err := f.call("CreateCourse"); err != nil {
		return api.Course{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	c := api.Course{ID: f.nextID, Title: req.Title, Description: req.Description, TeacherID: req.TeacherID}
	f.courses[c.ID] = c
	return c, nil
}

func (f *fakeAPI) UpdateCourse(_ context.Context, id int64, req api.CourseRequest) (api.Course, error) {
	if err := f.call("UpdateCourse"); err != nil {
		return api.Course{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	c := api.Course{ID: id, Title: req.Title, Description: req.Description, TeacherID: req.TeacherID}
	f.courses[id] = c
	return c, nil
}

func (f *fakeAPI) DeleteCourse(_ context.Context, id int64) error {
	if err := f.call("DeleteCourse"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.courses, id)
	return nil
}

func (f *fakeAPI) Enroll(_ context.Context, courseID, userID int64) error {
	if err := f.call("Enroll"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enrolled[userID] = append(f.enrolled[userID], courseID)
	return nil
}

func (f *fakeAPI) Unenroll(_ context.Context, courseID, userID int64) error {
	if err := f.call("Unenroll"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.enrolled[userID][:0:0]
	for _, id := range f.enrolled[userID] {
		if id != courseID {
			kept = append(kept, id)
		}
	}
	f.enrolled[userID] = kept
	return nil
}

func (f *fakeAPI) StudentCourses(_ context.Context, studentID int64) ([]api.Course, error) {
	if err := f.call("StudentCourses"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []api.Course
	for _, id := range f.enrolled[studentID] {
		out = append(out, api.Course{ID: id, Title: f.courses[id].Title})
	}
	return out, nil
}

func (f *fakeAPI) ListLessons(_ context.Context, courseID int64) ([]api.Lesson, error) {
	if err := f.call("ListLessons"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]api.Lesson(nil), f.lessons[courseID]...), nil
}

func (f *fakeAPI) GetLesson(_ context.Context, courseID, lessonID int64) (api.Lesson, error) {
	if err := f.call("GetLesson"); err != nil {
		return api.Lesson{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.lessons[courseID] {
		if l.ID == lessonID {
			return l, nil
		}
	}
	return api.Lesson{}, notFound()
}

func (f *fakeAPI) CreateLesson(_ context.Context, courseID int64, req api.LessonRequest) (api.LessonCreated, error) {
	if err := f.call("CreateLesson"); err != nil {
		return api.LessonCreated{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.lessons[courseID] = append(f.lessons[courseID], api.Lesson{ID: f.nextID, Title: req.Title, Content: req.Content, CourseID: courseID})
	return api.LessonCreated{Message: "Lesson created", LessonID: f.nextID}, nil
}

func (f *fakeAPI) UpdateLesson(_ context.Context, courseID, lessonID int64, upd api.LessonUpdate) error {
	if err := f.call("UpdateLesson"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, l := range f.lessons[courseID] {
		if l.ID != lessonID {
			continue
		}
		if upd.Title != nil {
			l.Title = *upd.Title
		}
		if upd.Content != nil {
			l.Content = *upd.Content
		}
		f.lessons[courseID][i] = l
	}
	return nil
}

func (f *fakeAPI) DeleteLesson(_ context.Context, courseID, lessonID int64) error {
	if err := f.call("DeleteLesson"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lessons[courseID] = withoutLesson(f.lessons[courseID], lessonID)
	return nil
}

func (f *fakeAPI) GetUser(_ context.Context, id int64) (api.User, error) {
	if err := f.call("GetUser"); err != nil {
		return api.User{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[id], nil
}

func (f *fakeAPI) UpdateUser(_ context.Context, id int64, upd api.UserUpdate) error {
	if err := f.call("UpdateUser"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.users[id]
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	f.users[id] = u
	return nil
}

func (f *fakeAPI) DeleteUser(_ context.Context, id int64) error {
	if err := f.call("DeleteUser"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, id)
	return nil
}

type fakeAuth struct {
	sess session.Session
	err  error
}

func (f fakeAuth) Login(context.Context, api.Credentials) (session.Session, error) {
	return f.sess, f.err
}

func (f fakeAuth) Register(context.Context, api.Registration) (session.Session, error) {
	return f.sess, f.err
}

type applier interface {
	Apply(Result) Effect
}

// drain runs every command of eff in order, applying each result and any
// follow-up commands, and returns the effects that carried anything other
// than commands.
func drain(c applier, eff Effect) []Effect {
	var out []Effect
	if eff.Navigate != nil || eff.Replace != nil || eff.Expire != 0 || eff.Flash != "" {
		out = append(out, Effect{Navigate: eff.Navigate, Replace: eff.Replace, Expire: eff.Expire, Flash: eff.Flash})
	}
	for _, cmd := range eff.Commands {
		out = append(out, drain(c, c.Apply(cmd(context.Background())))...)
	}
	return out
}

// collect runs eff's commands without applying the results.
func collect(eff Effect) []Result {
	out := make([]Result, 0, len(eff.Commands))
	for _, cmd := range eff.Commands {
		out = append(out, cmd(context.Background()))
	}
	return out
}
