package services

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/cockroachdb/errors"

	"github.com/dmitrijs2005/jobboard/internal/common"
	"github.com/dmitrijs2005/jobboard/internal/dbx"
	"github.com/dmitrijs2005/jobboard/internal/logging"
	"github.com/dmitrijs2005/jobboard/internal/server/models"
	"github.com/dmitrijs2005/jobboard/internal/server/repositories/applications"
	"github.com/dmitrijs2005/jobboard/internal/server/repositories/jobs"
	"github.com/dmitrijs2005/jobboard/internal/server/repositories/profiles"
)

// --- helpers ---

var (
	employerE  = models.Identity{UserID: "employer-e", Role: models.RoleEmployer}
	employerF  = models.Identity{UserID: "employer-f", Role: models.RoleEmployer}
	seekerS    = models.Identity{UserID: "seeker-s", Role: models.RoleJobSeeker}
	seekerT    = models.Identity{UserID: "seeker-t", Role: models.RoleJobSeeker}
	anonymous  = models.Identity{}
	strangeOne = models.Identity{UserID: "x", Role: models.Role("Admin")}
)

func ptr[T any](v T) *T { return &v }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (l nopLogger) With(...any) logging.Logger          { return l }

// recordingLogger keeps Warn messages for assertions.
type recordingLogger struct {
	nopLogger
	mu    sync.Mutex
	warns []string
}

func (l *recordingLogger) Warn(_ context.Context, msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, msg)
}

func (l *recordingLogger) With(...any) logging.Logger { return l }

// --- in-memory store ---

type memStore struct {
	mu           sync.Mutex
	jobs         map[string]*models.Job
	applications map[string]*models.Application
	profiles     map[string]*models.Profile

	// hooks for failure injection
	createAppErr     error
	upsertProfileErr error
	beforeUpdate     func()
}

func newMemStore() *memStore {
	return &memStore{
		jobs:         map[string]*models.Job{},
		applications: map[string]*models.Application{},
		profiles:     map[string]*models.Profile{},
	}
}

func (m *memStore) RunMigrations(context.Context, *sql.DB) error  { return nil }
func (m *memStore) Jobs(dbx.DBTX) jobs.Repository                 { return (*memJobs)(m) }
func (m *memStore) Applications(dbx.DBTX) applications.Repository { return (*memApplications)(m) }
func (m *memStore) Profiles(dbx.DBTX) profiles.Repository         { return (*memProfiles)(m) }

type memJobs memStore

func (r *memJobs) Create(_ context.Context, job *models.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *job
	r.jobs[job.ID] = &cp
	return nil
}

func (r *memJobs) GetByID(_ context.Context, id string) (*models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (r *memJobs) GetForUpdate(ctx context.Context, id string) (*models.Job, error) {
	return r.GetByID(ctx, id)
}

func (r *memJobs) List(_ context.Context, f models.JobFilter) ([]*models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.Job{}
	for _, j := range r.jobs {
		if j.Expired && !f.IncludeExpired {
			continue
		}
		if f.Category != "" && j.Category != f.Category {
			continue
		}
		cp := *j
		out = append(out, &cp)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].PostedOn.After(out[b].PostedOn) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *memJobs) ListByEmployer(_ context.Context, employerID string) ([]*models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.Job{}
	for _, j := range r.jobs {
		if j.EmployerID == employerID {
			cp := *j
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memJobs) Update(_ context.Context, job *models.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.jobs[job.ID]
	if !ok || cur.EmployerID != job.EmployerID {
		return common.ErrNotFound
	}
	cp := *job
	r.jobs[job.ID] = &cp
	return nil
}

func (r *memJobs) Delete(_ context.Context, id, employerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.jobs[id]
	if !ok || cur.EmployerID != employerID {
		return common.ErrNotFound
	}
	delete(r.jobs, id)
	return nil
}

type memApplications memStore

// Create enforces (job, applicant) uniqueness under the lock, like the
// database constraint does.
func (r *memApplications) Create(_ context.Context, app *models.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createAppErr != nil {
		return r.createAppErr
	}
	for _, a := range r.applications {
		if a.JobID == app.JobID && a.ApplicantID == app.ApplicantID {
			return common.ErrDuplicateApplication
		}
	}
	cp := *app
	r.applications[app.ID] = &cp
	return nil
}

func (r *memApplications) GetByID(_ context.Context, id string) (*models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.applications[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *memApplications) list(match func(*models.Application) bool) []*models.Application {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.Application{}
	for _, a := range r.applications {
		if match(a) {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *memApplications) ListByEmployer(_ context.Context, employerID string) ([]*models.Application, error) {
	return r.list(func(a *models.Application) bool { return a.EmployerID == employerID }), nil
}

func (r *memApplications) ListByApplicant(_ context.Context, applicantID string) ([]*models.Application, error) {
	return r.list(func(a *models.Application) bool { return a.ApplicantID == applicantID }), nil
}

func (r *memApplications) UpdateStatus(_ context.Context, id string, from, to models.Status) (bool, error) {
	if r.beforeUpdate != nil {
		hook := r.beforeUpdate
		r.beforeUpdate = nil
		hook()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.applications[id]
	if !ok || a.Status != from {
		return false, nil
	}
	a.Status = to
	return true, nil
}

func (r *memApplications) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.applications[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.applications, id)
	return nil
}

type memProfiles memStore

func (r *memProfiles) GetByUserID(_ context.Context, userID string) (*models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *p
	cp.Skills = append([]string(nil), p.Skills...)
	return &cp, nil
}

func (r *memProfiles) GetForUpdate(ctx context.Context, userID string) (*models.Profile, error) {
	return r.GetByUserID(ctx, userID)
}

func (r *memProfiles) Upsert(_ context.Context, p *models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.upsertProfileErr != nil {
		return r.upsertProfileErr
	}
	if cur, ok := r.profiles[p.UserID]; ok {
		p.ID = cur.ID
	}
	p.UpdatedAt = time.Now()
	cp := *p
	cp.Skills = append([]string(nil), p.Skills...)
	r.profiles[p.UserID] = &cp
	return nil
}

// --- blob storage ---

type memBlobStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	putErr  error
	delErr  error
	stall   bool
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (b *memBlobStore) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	if b.stall {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if b.putErr != nil {
		return "", b.putErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	if int64(len(data)) != size {
		return "", errors.Newf("size mismatch: %d != %d", len(data), size)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[key] = data
	b.types[key] = contentType
	return "https://cdn.test/" + key, nil
}

func (b *memBlobStore) Delete(_ context.Context, key string) error {
	if b.delErr != nil {
		return b.delErr
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, key)
	return nil
}

func (b *memBlobStore) PresignGet(_ context.Context, key string, ttl time.Duration) (string, error) {
	return "https://signed.test/" + key + "?ttl=" + ttl.String(), nil
}

func (b *memBlobStore) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.objects)
}

func pdfUpload() *Upload {
	body := []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n")
	return &Upload{Filename: "cv.pdf", ContentType: "application/pdf", Size: int64(len(body)), Body: bytes.NewReader(body)}
}
