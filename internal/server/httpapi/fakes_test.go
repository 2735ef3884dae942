package httpapi

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/jobboard/internal/logging"
	"github.com/dmitrijs2005/jobboard/internal/server/auth"
	"github.com/dmitrijs2005/jobboard/internal/server/models"
	"github.com/dmitrijs2005/jobboard/internal/server/services"
)

var (
	testSecret = []byte("test-secret")
	employer   = models.Identity{UserID: "employer-e", Role: models.RoleEmployer}
	seeker     = models.Identity{UserID: "seeker-s", Role: models.RoleJobSeeker}
)

type fakeJobs struct {
	err error

	caller models.Identity
	filter models.JobFilter
	id     string
	input  models.JobInput
	patch  models.JobPatch
	called string
}

func (f *fakeJobs) Create(_ context.Context, caller models.Identity, in models.JobInput) (*models.Job, error) {
	f.called, f.caller, f.input = "Create", caller, in
	if f.err != nil {
		return nil, f.err
	}
	return &models.Job{ID: "job-1", EmployerID: caller.UserID, Title: in.Title}, nil
}

func (f *fakeJobs) List(_ context.Context, filter models.JobFilter) ([]*models.Job, error) {
	f.called, f.filter = "List", filter
	if f.err != nil {
		return nil, f.err
	}
	return []*models.Job{{ID: "job-1"}, {ID: "job-2"}}, nil
}

func (f *fakeJobs) ListMine(_ context.Context, caller models.Identity) ([]*models.Job, error) {
	f.called, f.caller = "ListMine", caller
	return []*models.Job{{ID: "job-1", EmployerID: caller.UserID}}, f.err
}

func (f *fakeJobs) Get(_ context.Context, id string) (*models.Job, error) {
	f.called, f.id = "Get", id
	if f.err != nil {
		return nil, f.err
	}
	return &models.Job{ID: id}, nil
}

func (f *fakeJobs) Update(_ context.Context, caller models.Identity, id string, patch models.JobPatch) (*models.Job, error) {
	f.called, f.caller, f.id, f.patch = "Update", caller, id, patch
	if f.err != nil {
		return nil, f.err
	}
	return &models.Job{ID: id}, nil
}

func (f *fakeJobs) Delete(_ context.Context, caller models.Identity, id string) error {
	f.called, f.caller, f.id = "Delete", caller, id
	return f.err
}

type fakeApps struct {
	err error

	caller     models.Identity
	id         string
	jobID      string
	sub        models.Submission
	upload     *services.Upload
	resumeBody []byte
	action     models.Action
	called     string
}

func (f *fakeApps) Submit(_ context.Context, caller models.Identity, jobID string, sub models.Submission, resume *services.Upload) (*models.Application, error) {
	f.called, f.caller, f.jobID, f.sub, f.upload = "Submit", caller, jobID, sub, resume
	if resume != nil {
		f.resumeBody, _ = io.ReadAll(resume.Body)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &models.Application{ID: "app-1", JobID: jobID, ApplicantID: caller.UserID, Status: models.StatusPending}, nil
}

func (f *fakeApps) ListForEmployer(_ context.Context, caller models.Identity) ([]*models.Application, error) {
	f.called, f.caller = "ListForEmployer", caller
	return []*models.Application{{ID: "app-1"}}, f.err
}

func (f *fakeApps) ListForApplicant(_ context.Context, caller models.Identity) ([]*models.Application, error) {
	f.called, f.caller = "ListForApplicant", caller
	return []*models.Application{{ID: "app-2"}}, f.err
}

func (f *fakeApps) Transition(_ context.Context, caller models.Identity, id string, action models.Action) (*models.Application, error) {
	f.called, f.caller, f.id, f.action = "Transition", caller, id, action
	if f.err != nil {
		return nil, f.err
	}
	return &models.Application{ID: id, Status: models.StatusShortlisted}, nil
}

func (f *fakeApps) Withdraw(_ context.Context, caller models.Identity, id string) error {
	f.called, f.caller, f.id = "Withdraw", caller, id
	return f.err
}

func (f *fakeApps) ResumeLink(_ context.Context, caller models.Identity, id string) (string, error) {
	f.called, f.caller, f.id = "ResumeLink", caller, id
	if f.err != nil {
		return "", f.err
	}
	return "https://blobs.example/resumes/" + id + ".pdf?sig=1", nil
}

type fakeProfiles struct {
	err error

	caller models.Identity
	fields models.ProfileFields
	called string
}

func (f *fakeProfiles) Get(_ context.Context, caller models.Identity) (*models.Profile, error) {
	f.called, f.caller = "Get", caller
	if f.err != nil {
		return nil, f.err
	}
	return &models.Profile{UserID: caller.UserID, Skills: []string{"go"}}, nil
}

func (f *fakeProfiles) Upsert(_ context.Context, caller models.Identity, fields models.ProfileFields) (*models.Profile, error) {
	f.called, f.caller, f.fields = "Upsert", caller, fields
	if f.err != nil {
		return nil, f.err
	}
	return &models.Profile{UserID: caller.UserID}, nil
}

// syncBuffer lets the request logger write while a test reads.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type testServer struct {
	jobs     *fakeJobs
	apps     *fakeApps
	profiles *fakeProfiles
	logs     *syncBuffer
	health   error
	handler  http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{
		jobs:     &fakeJobs{},
		apps:     &fakeApps{},
		profiles: &fakeProfiles{},
		logs:     &syncBuffer{},
	}

	log := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(ts.logs, nil)))
	h := NewHandler(ts.jobs, ts.apps, ts.profiles, log, Options{
		Secret:         testSecret,
		CookieName:     "token",
		AllowedOrigins: []string{"http://localhost:5173"},
		MaxResumeBytes: 1 << 20,
		Health:         func(context.Context) error { return ts.health },
	})
	ts.handler = h.Routes()
	return ts
}

func (ts *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func tokenFor(t *testing.T, id models.Identity) string {
	t.Helper()
	tok, err := auth.GenerateToken(id.UserID, id.Role, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}
	return tok
}

// asUser attaches id's credential as the auth cookie.
func asUser(t *testing.T, req *http.Request, id models.Identity) *http.Request {
	t.Helper()
	req.AddCookie(&http.Cookie{Name: "token", Value: tokenFor(t, id)})
	return req
}
