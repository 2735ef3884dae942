// Package models defines the server-side data model of the job board.
package models

// Role tags an identity as one of the two actor kinds. Operations switch on it
// rather than on user objects.
type Role string

const (
	RoleEmployer  Role = "Employer"
	RoleJobSeeker Role = "Job Seeker"
)

// ParseRole accepts the canonical role names.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleEmployer:
		return RoleEmployer, true
	case RoleJobSeeker:
		return RoleJobSeeker, true
	default:
		return "", false
	}
}

// Identity is the resolved caller of an operation.
type Identity struct {
	UserID string `json:"userId"`
	Role   Role   `json:"role"`
}
