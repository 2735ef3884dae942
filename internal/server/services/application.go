package services

import (
	"context"
	"database/sql"
	"net/mail"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/jobboard/internal/common"
	"github.com/dmitrijs2005/jobboard/internal/logging"
	"github.com/dmitrijs2005/jobboard/internal/server/models"
	"github.com/dmitrijs2005/jobboard/internal/server/repositories/repomanager"
)

// ApplicationService runs the application workflow: submission, scoped
// listing, status transitions and withdrawal.
type ApplicationService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	resumes     ResumeManager
	log         logging.Logger
}

func NewApplicationService(db *sql.DB, m repomanager.RepositoryManager, resumes ResumeManager, log logging.Logger) *ApplicationService {
	return &ApplicationService{
		db:          db,
		repomanager: m,
		resumes:     resumes,
		log:         log,
	}
}

// Submit files an application by the calling Job Seeker against jobID.
//
// The resume is stored first and the record written only once a reference is
// in hand, so a failed upload leaves nothing behind. Uniqueness of
// (job, applicant) is decided by the insert itself; when it loses, the
// just-stored resume is released again.
func (s *ApplicationService) Submit(ctx context.Context, caller models.Identity, jobID string, sub models.Submission, resume *Upload) (*models.Application, error) {
	if err := requireRole(caller, models.RoleJobSeeker); err != nil {
		return nil, err
	}
	if resume == nil || resume.Body == nil {
		return nil, common.Validationf("Resume file is required")
	}

	job, err := s.repomanager.Jobs(s.db).GetByID(ctx, jobID)
	if err != nil {
		return nil, jobLookupError(err)
	}
	if job.Expired {
		return nil, common.Hintf(common.ErrPostingExpired, "This job has expired, applications are closed")
	}

	sub, err = s.prefill(ctx, caller.UserID, sub)
	if err != nil {
		return nil, err
	}
	if err := validateSubmission(sub); err != nil {
		return nil, err
	}

	ref, err := s.resumes.Stage(ctx, resume)
	if err != nil {
		return nil, err
	}

	app := &models.Application{
		ID:          uuid.NewString(),
		JobID:       job.ID,
		JobTitle:    job.Title,
		EmployerID:  job.EmployerID,
		ApplicantID: caller.UserID,
		Name:        sub.Name,
		Email:       sub.Email,
		Phone:       sub.Phone,
		Address:     sub.Address,
		CoverLetter: sub.CoverLetter,
		Resume:      ref,
		Status:      models.StatusPending,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repomanager.Applications(s.db).Create(ctx, app); err != nil {
		s.resumes.Release(ctx, ref.PublicID)
		if errors.Is(err, common.ErrDuplicateApplication) {
			return nil, common.Hintf(common.ErrDuplicateApplication, "You have already applied for this job")
		}
		return nil, errors.Wrap(err, "create application")
	}

	s.log.Info(ctx, "application submitted", "application_id", app.ID, "job_id", app.JobID)

	return app, nil
}

// prefill fills an empty address or cover letter from the applicant's profile.
func (s *ApplicationService) prefill(ctx context.Context, userID string, sub models.Submission) (models.Submission, error) {
	sub.Name = strings.TrimSpace(sub.Name)
	sub.Email = strings.TrimSpace(sub.Email)
	sub.Phone = strings.TrimSpace(sub.Phone)
	sub.Address = strings.TrimSpace(sub.Address)
	sub.CoverLetter = strings.TrimSpace(sub.CoverLetter)

	if sub.Address != "" && sub.CoverLetter != "" {
		return sub, nil
	}

	profile, err := s.repomanager.Profiles(s.db).GetByUserID(ctx, userID)
	if errors.Is(err, common.ErrNotFound) {
		return sub, nil
	}
	if err != nil {
		return sub, errors.Wrap(err, "get profile")
	}

	if sub.Address == "" {
		sub.Address = profile.Address
	}
	if sub.CoverLetter == "" {
		sub.CoverLetter = profile.DefaultCoverLetter
	}
	return sub, nil
}

func validateSubmission(sub models.Submission) error {
	if sub.Name == "" || sub.Email == "" || sub.Phone == "" || sub.Address == "" || sub.CoverLetter == "" {
		return common.Validationf("Please fill all fields")
	}
	if addr, err := mail.ParseAddress(sub.Email); err != nil || addr.Address != sub.Email {
		return common.Validationf("Please provide a valid email")
	}
	return nil
}

// ListForEmployer returns the applications addressed to the calling Employer,
// including those whose posting has since been deleted.
func (s *ApplicationService) ListForEmployer(ctx context.Context, caller models.Identity) ([]*models.Application, error) {
	if err := requireRole(caller, models.RoleEmployer); err != nil {
		return nil, err
	}

	apps, err := s.repomanager.Applications(s.db).ListByEmployer(ctx, caller.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "list employer applications")
	}
	return apps, nil
}

// ListForApplicant returns the calling Job Seeker's own applications.
func (s *ApplicationService) ListForApplicant(ctx context.Context, caller models.Identity) ([]*models.Application, error) {
	if err := requireRole(caller, models.RoleJobSeeker); err != nil {
		return nil, err
	}

	apps, err := s.repomanager.Applications(s.db).ListByApplicant(ctx, caller.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "list applicant applications")
	}
	return apps, nil
}

// Transition applies action to an application of the calling Employer.
//
// The write is conditional on the status read. If another request moved the
// application in between, the action is re-evaluated once against the fresh
// status; because every status it can reach is terminal, a second round
// always settles.
func (s *ApplicationService) Transition(ctx context.Context, caller models.Identity, id string, action models.Action) (*models.Application, error) {
	if err := requireRole(caller, models.RoleEmployer); err != nil {
		return nil, err
	}

	repo := s.repomanager.Applications(s.db)

	app, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.EmployerID != caller.UserID {
		return nil, common.Forbiddenf("You are not allowed to update this application")
	}

	for attempt := 0; attempt < 2; attempt++ {
		next, changed, err := app.Status.Apply(action)
		if err != nil {
			return nil, err
		}
		if !changed {
			return app, nil
		}

		ok, err := repo.UpdateStatus(ctx, app.ID, app.Status, next)
		if err != nil {
			return nil, errors.Wrap(err, "update application status")
		}
		if ok {
			s.log.Info(ctx, "application status changed", "application_id", app.ID, "from", app.Status, "to", next)
			app.Status = next
			return app, nil
		}

		if app, err = s.get(ctx, id); err != nil {
			return nil, err
		}
	}

	return nil, common.Hintf(common.ErrInvalidTransition, "Application status changed concurrently, try again")
}

// Withdraw deletes an application on behalf of its applicant or its employer
// and then releases the resume. The release is best effort: the deleted
// record stands even if storage cleanup fails.
func (s *ApplicationService) Withdraw(ctx context.Context, caller models.Identity, id string) error {
	app, err := s.readable(ctx, caller, id)
	if err != nil {
		return err
	}

	if err := s.repomanager.Applications(s.db).Delete(ctx, app.ID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.NotFoundf("Application not found")
		}
		return errors.Wrap(err, "delete application")
	}

	s.resumes.Release(ctx, app.Resume.PublicID)
	s.log.Info(ctx, "application withdrawn", "application_id", app.ID, "by", caller.Role)

	return nil
}

// ResumeLink returns a short-lived download link for an application's resume.
func (s *ApplicationService) ResumeLink(ctx context.Context, caller models.Identity, id string) (string, error) {
	app, err := s.readable(ctx, caller, id)
	if err != nil {
		return "", err
	}
	return s.resumes.Link(ctx, app.Resume.PublicID)
}

// readable loads an application the caller is a party to: its applicant
// (as Job Seeker) or its employer (as Employer).
func (s *ApplicationService) readable(ctx context.Context, caller models.Identity, id string) (*models.Application, error) {
	if caller.UserID == "" {
		return nil, common.Hintf(common.ErrUnauthenticated, "User not authorized")
	}

	app, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	switch caller.Role {
	case models.RoleJobSeeker:
		if app.ApplicantID == caller.UserID {
			return app, nil
		}
	case models.RoleEmployer:
		if app.EmployerID == caller.UserID {
			return app, nil
		}
	default:
		return nil, common.Hintf(common.ErrUnauthenticated, "User not authorized")
	}

	return nil, common.Forbiddenf("You are not allowed to access this application")
}

func (s *ApplicationService) get(ctx context.Context, id string) (*models.Application, error) {
	app, err := s.repomanager.Applications(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NotFoundf("Application not found")
		}
		return nil, errors.Wrap(err, "get application")
	}
	return app, nil
}
