// Package httpapi exposes the job board over REST-style JSON. It resolves the
// caller's identity, decodes requests into service calls and renders every
// error through Normalize.
package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/dmitrijs2005/jobboard/internal/logging"
	"github.com/dmitrijs2005/jobboard/internal/server/models"
	"github.com/dmitrijs2005/jobboard/internal/server/services"
)

// JobCatalog is the posting side of the board.
type JobCatalog interface {
	Create(ctx context.Context, caller models.Identity, in models.JobInput) (*models.Job, error)
	List(ctx context.Context, filter models.JobFilter) ([]*models.Job, error)
	ListMine(ctx context.Context, caller models.Identity) ([]*models.Job, error)
	Get(ctx context.Context, id string) (*models.Job, error)
	Update(ctx context.Context, caller models.Identity, id string, patch models.JobPatch) (*models.Job, error)
	Delete(ctx context.Context, caller models.Identity, id string) error
}

// ApplicationWorkflow is the application lifecycle.
type ApplicationWorkflow interface {
	Submit(ctx context.Context, caller models.Identity, jobID string, sub models.Submission, resume *services.Upload) (*models.Application, error)
	ListForEmployer(ctx context.Context, caller models.Identity) ([]*models.Application, error)
	ListForApplicant(ctx context.Context, caller models.Identity) ([]*models.Application, error)
	Transition(ctx context.Context, caller models.Identity, id string, action models.Action) (*models.Application, error)
	Withdraw(ctx context.Context, caller models.Identity, id string) error
	ResumeLink(ctx context.Context, caller models.Identity, id string) (string, error)
}

// ProfileStore keeps Job Seeker profiles.
type ProfileStore interface {
	Get(ctx context.Context, caller models.Identity) (*models.Profile, error)
	Upsert(ctx context.Context, caller models.Identity, fields models.ProfileFields) (*models.Profile, error)
}

// Options carries what the handler needs besides its services.
type Options struct {
	Secret         []byte
	CookieName     string
	AllowedOrigins []string
	MaxResumeBytes int64
	// Health reports whether the datastore is reachable.
	Health func(ctx context.Context) error
}

type Handler struct {
	jobs     JobCatalog
	apps     ApplicationWorkflow
	profiles ProfileStore
	log      logging.Logger

	secret         []byte
	cookieName     string
	allowedOrigins []string
	maxUpload      int64
	health         func(ctx context.Context) error
}

func NewHandler(jobs JobCatalog, apps ApplicationWorkflow, profiles ProfileStore, log logging.Logger, opts Options) *Handler {
	return &Handler{
		jobs:           jobs,
		apps:           apps,
		profiles:       profiles,
		log:            log,
		secret:         opts.Secret,
		cookieName:     opts.CookieName,
		allowedOrigins: opts.AllowedOrigins,
		maxUpload:      opts.MaxResumeBytes + maxFormFields,
		health:         opts.Health,
	}
}

// Routes builds the router: /healthz plus the API under /api/v1.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(h.requestLogger)

	r.Get("/healthz", h.healthz)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/job", func(r chi.Router) {
			r.Get("/", h.listJobs)
			r.Get("/{id}", h.getJob)

			r.Group(func(r chi.Router) {
				r.Use(h.authenticate)
				r.Post("/", h.createJob)
				r.Get("/getmyjobs", h.listMyJobs)
				r.Put("/update/{id}", h.updateJob)
				r.Delete("/delete/{id}", h.deleteJob)
			})
		})

		r.Route("/application", func(r chi.Router) {
			r.Use(h.authenticate)
			r.Post("/", h.submitApplication)
			r.Get("/employer/getall", h.listEmployerApplications)
			r.Get("/jobseeker/getall", h.listApplicantApplications)
			r.Patch("/employer/{id}/status", h.transitionApplication)
			r.Delete("/delete/{id}", h.withdrawApplication)
			r.Get("/{id}/resume", h.resumeLink)
		})

		r.Route("/profile", func(r chi.Router) {
			r.Use(h.authenticate)
			r.Get("/me", h.getProfile)
			r.Post("/upsert", h.upsertProfile)
		})
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   h.allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{requestIDHeader},
		AllowCredentials: true,
	})
	return c.Handler(r)
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if err := h.health(r.Context()); err != nil {
			h.log.Warn(r.Context(), "health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, envelope{"success": false, "status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, envelope{"status": "ok"})
}
