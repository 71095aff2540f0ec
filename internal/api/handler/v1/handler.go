package v1

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vietanh2810/campus-events-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/campus-events-api/internal/api/middleware"
	"github.com/vietanh2810/campus-events-api/internal/domain"
	"github.com/vietanh2810/campus-events-api/internal/pkg/media"
	"github.com/vietanh2810/campus-events-api/internal/service"
)

var errNoCurrentUser = errors.New("no authenticated user in request")

// errStatus maps service sentinels to the status they are rendered with.
// The first match wins.
var errStatus = []struct {
	err    error
	status int
}{
	{service.ErrUserNotFound, http.StatusNotFound},
	{service.ErrClubNotFound, http.StatusNotFound},
	{service.ErrEventNotFound, http.StatusNotFound},

	{service.ErrPermissionDenied, http.StatusForbidden},
	{service.ErrNotEventOwner, http.StatusForbidden},
	{service.ErrNoAssignedClub, http.StatusForbidden},

	{service.ErrUserEmailExists, http.StatusConflict},
	{service.ErrAlreadyCoordinator, http.StatusConflict},
	{service.ErrNotClubCoordinator, http.StatusConflict},
	{service.ErrEventNotApproved, http.StatusConflict},
	{service.ErrEventNotPending, http.StatusConflict},
	{service.ErrEventNotStarted, http.StatusConflict},
	{service.ErrEventDateNotPassed, http.StatusConflict},
	{service.ErrAlreadyRegistered, http.StatusConflict},
	{service.ErrStudentNotRegistered, http.StatusConflict},
	{service.ErrFeedbackExists, http.StatusConflict},

	{service.ErrInvalidInput, http.StatusBadRequest},
	{service.ErrInvalidUserRole, http.StatusBadRequest},
	{service.ErrInvalidRating, http.StatusBadRequest},
	{service.ErrInvalidEventStatus, http.StatusBadRequest},
	{service.ErrInvalidAttendanceStatus, http.StatusBadRequest},
	{service.ErrTooManyAdditionalImages, http.StatusBadRequest},
	{service.ErrUnsupportedImage, http.StatusBadRequest},
	{media.ErrUndecodableImage, http.StatusBadRequest},

	{service.ErrImageTooLarge, http.StatusRequestEntityTooLarge},
	{media.ErrStorageNotConfigured, http.StatusServiceUnavailable},
}

// renderServiceErr renders a known service error with its status and the
// innermost message of the wrap chain. Anything else is a 500.
func renderServiceErr(ctx *gin.Context, op string, err error) {
	for _, e := range errStatus {
		if !errors.Is(err, e.err) {
			continue
		}

		msg := err.Error()
		if i := strings.LastIndex(msg, " -> "); i >= 0 {
			msg = msg[i+len(" -> "):]
		}
		cause := errors.New(msg)

		switch e.status {
		case http.StatusNotFound:
			response.RenderErr(ctx, response.ErrResourceNotFound(cause))
		case http.StatusForbidden:
			response.RenderErr(ctx, response.ErrPermissionDenied(cause))
		case http.StatusConflict:
			response.RenderErr(ctx, response.ErrConflict(cause))
		case http.StatusRequestEntityTooLarge:
			response.RenderErr(ctx, response.ErrRequestTooLarge(cause))
		case http.StatusServiceUnavailable:
			response.RenderErr(ctx, response.ErrServiceUnavailable(cause))
		default:
			response.RenderErr(ctx, response.ErrBadRequest(cause))
		}
		return
	}

	response.RenderErr(ctx, response.ErrInternalServerError(fmt.Errorf("%s -> %w", op, err)))
}

// getUserFromContext returns the account loaded by middleware.RequireRole.
func getUserFromContext(ctx *gin.Context) (domain.User, *response.Err) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		return domain.User{}, response.ErrUnauthorized(errNoCurrentUser)
	}

	return user, nil
}

// pathID reads a uuid path parameter. It renders a 400 and reports false
// when the value is not a uuid.
func pathID(ctx *gin.Context, param string) (string, bool) {
	value := ctx.Param(param)
	if _, err := uuid.Parse(value); err != nil {
		response.RenderErr(ctx, response.ErrInvalidID(param, value))
		return "", false
	}

	return value, true
}

// HandleHealthcheck godoc
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200      {object}   response.MessageResponse
// @Router       / [get]
func HandleHealthcheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, response.MessageResponse{Message: "OK"})
}
