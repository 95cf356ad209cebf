package api

import (
	"alcyxob/coaching-platform/internal/domain"
	"alcyxob/coaching-platform/internal/repository"
	"alcyxob/coaching-platform/internal/safety"
	"alcyxob/coaching-platform/internal/service"
	"alcyxob/coaching-platform/internal/session"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

var notFoundErrors = []error{
	repository.ErrNotFound,
	service.ErrUserNotFound,
	service.ErrExerciseNotFound,
	service.ErrWorkoutNotFound,
	service.ErrProgramNotFound,
	service.ErrClientNotFound,
	service.ErrAssignmentNotFound,
	service.ErrActivityNotFound,
	service.ErrNoWorkoutToday,
	session.ErrSessionNotFound,
	session.ErrUnknownGroup,
}

var conflictErrors = []error{
	service.ErrUserAlreadyExists,
	service.ErrClientAlreadyLinked,
	service.ErrProgramInUse,
	service.ErrWorkoutActivity,
	session.ErrInvalidTransition,
	session.ErrSafetyBlocked,
	session.ErrRoundIncomplete,
	session.ErrLastRound,
	safety.ErrWrongStep,
	safety.ErrBlocked,
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr), errors.Is(err, service.ErrNotAClient):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrAuthenticationFailed), errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrExerciseAccessDenied), errors.Is(err, service.ErrUploadNotOwned):
		return http.StatusForbidden
	case isAny(err, notFoundErrors):
		return http.StatusNotFound
	case isAny(err, conflictErrors):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError aborts with the status matching err. Internal failures are logged and
// reported without their cause.
func respondError(c *gin.Context, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		var perr *domain.PersistenceError
		if errors.As(err, &perr) {
			log.WithField("op", perr.Op).Errorf("persistence failure: %s", perr.Err)
		} else {
			log.WithField("path", c.Request.URL.Path).Errorf("unexpected error: %s", err)
		}
		abortWithError(c, code, "An unexpected error occurred, please retry.")
		return
	}
	abortWithError(c, code, err.Error())
}
