// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/campus/internal/audit"
	"github.com/tomtom215/campus/internal/auth"
	"github.com/tomtom215/campus/internal/authz"
	"github.com/tomtom215/campus/internal/chatbot"
	"github.com/tomtom215/campus/internal/config"
	"github.com/tomtom215/campus/internal/database"
	"github.com/tomtom215/campus/internal/models"
	"github.com/tomtom215/campus/internal/recommend"
)

const (
	testSecret = "test-secret-with-at-least-32-characters!"
	testOrigin = "http://campus.test"
)

// fakeChat answers "echo:<message>".
type fakeChat struct {
	state chatbot.LoaderState
	err   error
}

func (f *fakeChat) Respond(_ context.Context, message string) (string, error) {
	return "echo:" + message, f.err
}

func (f *fakeChat) ModelState() chatbot.LoaderState { return f.state }

// fakeRecommender returns a fixed ranking and records the user it was asked about.
type fakeRecommender struct {
	mu     sync.Mutex
	ids    []int64
	err    error
	userID int64
}

func (f *fakeRecommender) Recommend(_ context.Context, userID int64) (*recommend.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.userID = userID
	if f.err != nil {
		return nil, f.err
	}
	res := &recommend.Result{UserID: userID, Courses: []recommend.ScoredCourse{}}
	for i, id := range f.ids {
		res.Courses = append(res.Courses, recommend.ScoredCourse{CourseID: id, Score: 1 / float64(i+1)})
	}
	return res, nil
}

type envOptions struct {
	chat        ChatResponder
	recommender Recommender
	auditor     *audit.Logger
	configure   func(*config.Config)
}

type testEnv struct {
	t      *testing.T
	db     *database.DB
	jwt    *auth.JWTManager
	cfg    *config.Config
	router http.Handler
}

func testConfig() *config.Config {
	return &config.Config{
		Database: config.DatabaseConfig{Path: ":memory:", MaxMemory: "512MB", Threads: 2},
		Security: config.SecurityConfig{
			AuthMode:          "jwt",
			JWTSecret:         testSecret,
			TokenTTL:          time.Hour,
			CORSOrigins:       []string{testOrigin},
			RateLimitDisabled: true,
			DefaultRole:       authz.RoleStudent,
		},
		Recommend: config.RecommendConfig{Limit: 2, ZeroDivisor: "skip", Timeout: time.Second},
	}
}

func setupTestEnv(t *testing.T, opts envOptions) *testEnv {
	t.Helper()

	cfg := testConfig()
	if opts.configure != nil {
		opts.configure(cfg)
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		t.Fatalf("database.New() error = %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("db.Close() error = %v", err)
		}
	})

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}
	authMW, err := auth.NewMiddleware(jwtManager, auth.AuthModeJWT, db, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewMiddleware() error = %v", err)
	}
	enforcer, err := authz.NewEnforcer(authz.EnforcerConfigFrom(&cfg.Security))
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}
	guard := authz.NewGuard(enforcer, db, zerolog.Nop())

	handler := NewHandler(db, opts.recommender, opts.chat, nil, cfg, zerolog.Nop())
	t.Cleanup(handler.Close)
	if opts.auditor != nil {
		guard.SetAuditor(opts.auditor)
		handler.SetAuditor(opts.auditor)
	}
	router := NewRouter(handler, authMW, guard, NewChiMiddleware(ChiMiddlewareConfigFrom(&cfg.Security)))

	return &testEnv{t: t, db: db, jwt: jwtManager, cfg: cfg, router: router.SetupChi()}
}

func (e *testEnv) token(userID int64, groups ...string) string {
	e.t.Helper()
	tok, err := e.jwt.GenerateToken(userID, "user", "", groups)
	if err != nil {
		e.t.Fatalf("GenerateToken() error = %v", err)
	}
	return tok
}

func (e *testEnv) do(method, path, token, body string) *httptest.ResponseRecorder {
	e.t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("response %q is not an envelope: %v", rec.Body.String(), err)
	}
	if data != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, data); err != nil {
			t.Fatalf("decode data %s: %v", env.Data, err)
		}
	}
	return env
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d; body = %s", rec.Code, want, rec.Body.String())
	}
}

func expectErrorCode(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	expectStatus(t, rec, status)
	env := decodeEnvelope(t, rec, nil)
	if env.Error == nil || env.Error.Code != code {
		t.Fatalf("error = %+v, want code %s", env.Error, code)
	}
}

// seeded is a published course with one module of two lessons.
type seeded struct {
	teacher int64 // teacher profile id
	course  *models.Course
	module  *models.Module
	lessons []*models.Lesson
}

func (e *testEnv) seedCourse(title string, active bool) seeded {
	e.t.Helper()
	ctx := context.Background()

	const teacherUser = 100
	if err := e.db.UpsertUser(ctx, &models.User{ID: teacherUser, Username: "teacher", Groups: []string{models.GroupTeacher}}); err != nil {
		e.t.Fatalf("UpsertUser: %v", err)
	}
	profile, err := e.db.UpsertTeacherProfile(ctx, teacherUser, &models.TeacherProfileInput{Headline: "Gopher"})
	if err != nil {
		e.t.Fatalf("UpsertTeacherProfile: %v", err)
	}

	s := seeded{teacher: profile.ID}
	s.course, err = e.db.CreateCourse(ctx, profile.ID, &models.CourseInput{Title: title, HardSkills: []string{"goroutines"}, IsActive: active})
	if err != nil {
		e.t.Fatalf("CreateCourse: %v", err)
	}
	s.module, err = e.db.CreateModule(ctx, profile.ID, s.course.ID, &models.ModuleInput{Title: "Basics", Position: 1})
	if err != nil {
		e.t.Fatalf("CreateModule: %v", err)
	}
	for _, minutes := range []int{45, 30} {
		l, err := e.db.CreateLesson(ctx, profile.ID, database.ContentPath{Course: s.course.ID, Module: s.module.ID},
			&models.LessonInput{Title: "Lesson", DurationMinutes: minutes})
		if err != nil {
			e.t.Fatalf("CreateLesson: %v", err)
		}
		s.lessons = append(s.lessons, l)
	}
	return s
}
