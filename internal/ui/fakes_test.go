package ui

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/five82/coursedeck/internal/api"
	"github.com/five82/coursedeck/internal/nav"
	"github.com/five82/coursedeck/internal/session"
	"github.com/five82/coursedeck/internal/storage"
)

type fakeAuth struct {
	resp api.AuthResponse
}

func (f fakeAuth) Login(context.Context, api.Credentials) (api.AuthResponse, error) {
	return f.resp, nil
}

func (f fakeAuth) Register(context.Context, api.Registration) (api.AuthResponse, error) {
	return f.resp, nil
}

// fakeAPI serves courses, lessons and users from memory.
type fakeAPI struct {
	mu       sync.Mutex
	courses  []api.Course
	lessons  map[int64][]api.Lesson
	enrolled map[int64][]int64
	calls    []string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		courses: []api.Course{
			{ID: 1, Title: "Intro to Go", Description: "Types and goroutines", TeacherID: 9},
			{ID: 2, Title: "Terminal UIs", Description: "Bubble Tea from scratch", TeacherID: 9},
		},
		lessons: map[int64][]api.Lesson{
			1: {{ID: 11, Title: "Hello", Content: "# Hello\n\nWelcome.", CourseID: 1}},
		},
		enrolled: map[int64][]int64{},
	}
}

func (f *fakeAPI) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeAPI) called(call string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c == call {
			return true
		}
	}
	return false
}

func (f *fakeAPI) ListCourses(context.Context) ([]api.Course, error) {
	f.record("ListCourses")
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]api.Course(nil), f.courses...), nil
}

func (f *fakeAPI) GetCourse(_ context.Context, id int64) (api.Course, error) {
	f.record("GetCourse")
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.courses {
		if c.ID == id {
			return c, nil
		}
	}
	return api.Course{}, &api.StatusError{StatusCode: 404, Message: "Course not found"}
}

func (f *fakeAPI) CreateCourse(_ context.Context, req api.CourseRequest) (api.Course, error) {
	f.record("CreateCourse")
	f.mu.Lock()
	defer f.mu.Unlock()
	c := api.Course{ID: int64(len(f.courses) + 1), Title: req.Title, Description: req.Description, TeacherID: req.TeacherID}
	f.courses = append(f.courses, c)
	return c, nil
}

func (f *fakeAPI) UpdateCourse(_ context.Context, id int64, req api.CourseRequest) (api.Course, error) {
	f.record("UpdateCourse")
	return api.Course{ID: id, Title: req.Title, Description: req.Description, TeacherID: req.TeacherID}, nil
}

func (f *fakeAPI) DeleteCourse(context.Context, int64) error {
	f.record("DeleteCourse")
	return nil
}

func (f *fakeAPI) Enroll(_ context.Context, courseID, userID int64) error {
	f.record("Enroll")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enrolled[userID] = append(f.enrolled[userID], courseID)
	return nil
}

func (f *fakeAPI) Unenroll(_ context.Context, courseID, userID int64) error {
	f.record("Unenroll")
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
	f.record("StudentCourses")
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []api.Course
	for _, id := range f.enrolled[studentID] {
		for _, c := range f.courses {
			if c.ID == id {
				out = append(out, c)
			}
		}
	}
	return out, nil
}

func (f *fakeAPI) ListLessons(_ context.Context, courseID int64) ([]api.Lesson, error) {
	f.record("ListLessons")
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]api.Lesson(nil), f.lessons[courseID]...), nil
}

func (f *fakeAPI) GetLesson(_ context.Context, courseID, lessonID int64) (api.Lesson, error) {
	f.record("GetLesson")
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.lessons[courseID] {
		if l.ID == lessonID {
			return l, nil
		}
	}
	return api.Lesson{}, &api.StatusError{StatusCode: 404, Message: "Lesson not found"}
}

func (f *fakeAPI) CreateLesson(context.Context, int64, api.LessonRequest) (api.LessonCreated, error) {
	f.record("CreateLesson")
	return api.LessonCreated{LessonID: 99}, nil
}

func (f *fakeAPI) UpdateLesson(context.Context, int64, int64, api.LessonUpdate) error {
	f.record("UpdateLesson")
	return nil
}

func (f *fakeAPI) DeleteLesson(context.Context, int64, int64) error {
	f.record("DeleteLesson")
	return nil
}

func (f *fakeAPI) GetUser(_ context.Context, id int64) (api.User, error) {
	f.record("GetUser")
	return api.User{ID: id, Name: "Ada", Email: "ada@example.com", Role: api.RoleStudent}, nil
}

func (f *fakeAPI) UpdateUser(context.Context, int64, api.UserUpdate) error {
	f.record("UpdateUser")
	return nil
}

func (f *fakeAPI) DeleteUser(context.Context, int64) error {
	f.record("DeleteUser")
	return nil
}

// harness drives a Model the way the program loop would, running commands
// synchronously and feeding their results back.
type harness struct {
	t     *testing.T
	m     Model
	api   *fakeAPI
	store *session.Store
	prefs string
}

var (
	asStudent = api.AuthResponse{Token: "tok", UserID: 5, Role: api.RoleStudent}
	asTeacher = api.AuthResponse{Token: "tok", UserID: 9, Role: api.RoleTeacher}
)

// newHarness starts a model at start. A non-nil signIn establishes a
// session first.
func newHarness(t *testing.T, start nav.Route, signIn *api.AuthResponse) *harness {
	t.Helper()
	resp := asStudent
	if signIn != nil {
		resp = *signIn
	}
	store := session.New(storage.NewMemory(), fakeAuth{resp: resp}, zerolog.Nop())
	if signIn != nil {
		if _, err := store.Login(context.Background(), api.Credentials{Email: "a@b.co", Password: "pw"}); err != nil {
			t.Fatalf("Login: %v", err)
		}
	}

	fake := newFakeAPI()
	h := &harness{t: t, api: fake, store: store, prefs: filepath.Join(t.TempDir(), "prefs.toml")}
	h.m = New(Options{
		Session:   store,
		Courses:   fake,
		Lessons:   fake,
		Users:     fake,
		Start:     start,
		PrefsPath: h.prefs,
		Logger:    zerolog.Nop(),
	})
	h.drain(h.m.Init())
	h.send(tea.WindowSizeMsg{Width: 120, Height: 40})
	return h
}

func (h *harness) send(msg tea.Msg) {
	h.t.Helper()
	next, cmd := h.m.Update(msg)
	h.m = next.(Model)
	h.drain(cmd)
}

func (h *harness) key(s string) {
	h.t.Helper()
	switch s {
	case "enter":
		h.send(tea.KeyMsg{Type: tea.KeyEnter})
	case "esc":
		h.send(tea.KeyMsg{Type: tea.KeyEsc})
	case "tab":
		h.send(tea.KeyMsg{Type: tea.KeyTab})
	default:
		h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	}
}

// drain runs cmd and feeds back command results. Timers and blinks are
// left alone; they would only block the test.
func (h *harness) drain(cmd tea.Cmd) {
	h.t.Helper()
	if cmd == nil {
		return
	}
	msg, ok := runCmd(cmd)
	if !ok {
		return
	}
	switch msg := msg.(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			h.drain(c)
		}
	case resultMsg, confirmedMsg:
		h.send(msg)
	}
}

func runCmd(cmd tea.Cmd) (tea.Msg, bool) {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg, true
	case <-time.After(100 * time.Millisecond):
		return nil, false
	}
}

func (h *harness) page() nav.Page {
	return h.m.history.Current().Page
}
