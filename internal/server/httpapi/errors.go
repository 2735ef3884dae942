package httpapi

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/jobboard/internal/common"
	"github.com/dmitrijs2005/jobboard/internal/dbx"
)

const internalMessage = "Internal Server Error"

var taxonomy = []struct {
	kind    error
	status  int
	message string
}{
	{common.ErrUnauthenticated, http.StatusUnauthorized, "User not authorized"},
	{common.ErrForbidden, http.StatusForbidden, "Forbidden"},
	{common.ErrNotFound, http.StatusNotFound, "Not found"},
	{common.ErrValidation, http.StatusBadRequest, "Invalid input"},
	{common.ErrDuplicateApplication, http.StatusBadRequest, "You have already applied for this job"},
	{common.ErrInvalidTransition, http.StatusBadRequest, "Invalid status transition"},
	{common.ErrPostingExpired, http.StatusBadRequest, "This job has expired"},
	{common.ErrResumeRejected, http.StatusBadRequest, "Invalid resume"},
	{common.ErrUploadFailed, http.StatusBadGateway, "Failed to upload resume, try again"},
}

// Normalize maps any error onto the status code and message the caller sees.
// Typed errors keep their hint; raw database and credential errors are
// translated; everything else becomes a bare 500 so no internal detail leaks.
func Normalize(err error) (int, string) {
	if err == nil {
		return http.StatusOK, ""
	}

	for _, t := range taxonomy {
		if errors.Is(err, t.kind) {
			if msg := common.Message(err); msg != "" {
				return t.status, msg
			}
			return t.status, t.message
		}
	}

	switch dbx.PgCode(err) {
	case dbx.CodeUniqueViolation:
		name := dbx.ConstraintName(err)
		if name == "" {
			name = "value"
		}
		return http.StatusBadRequest, fmt.Sprintf("Duplicate %s entered", name)
	case dbx.CodeInvalidTextRepresent:
		return http.StatusBadRequest, "Resource not found. Invalid id"
	case dbx.CodeCheckViolation:
		return http.StatusBadRequest, "Invalid value entered"
	}

	switch {
	case stderrors.Is(err, jwt.ErrTokenExpired):
		return http.StatusUnauthorized, "token is expired, try again"
	case isTokenError(err):
		return http.StatusUnauthorized, "token is invalid, try again"
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusBadGateway, "Upstream timed out, try again"
	}

	return http.StatusInternalServerError, internalMessage
}

func isTokenError(err error) bool {
	for _, target := range []error{
		jwt.ErrTokenMalformed,
		jwt.ErrTokenUnverifiable,
		jwt.ErrTokenSignatureInvalid,
		jwt.ErrTokenInvalidClaims,
		jwt.ErrTokenNotValidYet,
		jwt.ErrSignatureInvalid,
	} {
		if stderrors.Is(err, target) {
			return true
		}
	}
	return false
}
