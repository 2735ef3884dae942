// Package services contains server-side business logic: the job catalog, the
// application workflow, profiles and resume handling. Every operation takes
// the caller's resolved identity explicitly and dispatches on its role.
package services

import (
	"github.com/dmitrijs2005/jobboard/internal/common"
	"github.com/dmitrijs2005/jobboard/internal/server/models"
)

// requireRole fails with ErrUnauthenticated for an unresolved caller and
// ErrForbidden for a caller holding the other role.
func requireRole(caller models.Identity, role models.Role) error {
	if caller.UserID == "" {
		return common.Hintf(common.ErrUnauthenticated, "User not authorized")
	}

	switch caller.Role {
	case role:
		return nil
	case models.RoleEmployer, models.RoleJobSeeker:
		return common.Forbiddenf("%s not allowed to access this resource", caller.Role)
	default:
		return common.Hintf(common.ErrUnauthenticated, "User not authorized")
	}
}
