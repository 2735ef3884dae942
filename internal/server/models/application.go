package models

import (
	"time"

	"github.com/dmitrijs2005/jobboard/internal/common"
)

// Status of an application. Pending is initial; Shortlisted and Rejected are
// terminal.
type Status string

const (
	StatusPending     Status = "Pending"
	StatusShortlisted Status = "Shortlisted"
	StatusRejected    Status = "Rejected"
)

// Action is what an employer asks to do with an application.
type Action string

const (
	ActionShortlist Action = "shortlist"
	ActionReject    Action = "reject"
)

// Target returns the status an action leads to.
func (a Action) Target() (Status, bool) {
	switch a {
	case ActionShortlist:
		return StatusShortlisted, true
	case ActionReject:
		return StatusRejected, true
	default:
		return "", false
	}
}

// Terminal reports whether no transition leaves s.
func (s Status) Terminal() bool {
	return s == StatusShortlisted || s == StatusRejected
}

// Apply runs action against s. It returns the resulting status and whether it
// differs from s. Repeating the current terminal state is accepted as a no-op;
// anything else out of a terminal state is ErrInvalidTransition.
func (s Status) Apply(action Action) (Status, bool, error) {
	target, ok := action.Target()
	if !ok {
		return s, false, common.Validationf("Unknown action %q, expected shortlist or reject", action)
	}

	switch s {
	case StatusPending:
		return target, true, nil
	case StatusShortlisted, StatusRejected:
		if target == s {
			return s, false, nil
		}
		return s, false, common.Hintf(common.ErrInvalidTransition, "Application is already %s", s)
	default:
		return s, false, common.Hintf(common.ErrInvalidTransition, "Application has unknown status %q", s)
	}
}

// Resume references a stored resume object.
type Resume struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// Application is a seeker's submission against a posting. It is a
// self-contained record: EmployerID and JobTitle are copied from the posting
// at submission time and the contact fields are a snapshot, so the
// application stays readable after the posting changes or is deleted.
type Application struct {
	ID          string    `json:"id"`
	JobID       string    `json:"jobId"`
	JobTitle    string    `json:"jobTitle"`
	EmployerID  string    `json:"employerId"`
	ApplicantID string    `json:"applicantId"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	CoverLetter string    `json:"coverLetter"`
	Resume      Resume    `json:"resume"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Submission is the seeker-provided part of a new application.
type Submission struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	CoverLetter string `json:"coverLetter"`
}
