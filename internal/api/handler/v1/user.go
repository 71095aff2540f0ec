package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/campus-events-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/campus-events-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/campus-events-api/internal/domain"
)

type UserService interface {
	GetUser(ctx context.Context, id string) (domain.User, error)
	UpdateProfile(ctx context.Context, id string, patch domain.ProfilePatch) (domain.User, error)
}

type UserHandler struct {
	svc UserService
}

func NewUserHandler(svc UserService) *UserHandler {
	return &UserHandler{
		svc: svc,
	}
}

// HandleGetMe godoc
// @Summary      Get the current user's profile
// @Tags         users
// @Produce      json
// @Success      200      {object}   domain.User
// @Failure      401      {object}   response.Err
// @Router       /users/me [get]
// @Security BearerAuth
func (h *UserHandler) HandleGetMe(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	ctx.JSON(http.StatusOK, user)
}

// HandleUpdateMe godoc
// @Summary      Update the current user's profile
// @Description  Only fields present in the body are changed.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request   body      request.UpdateProfileRequest true "request body"
// @Success      200      {object}   domain.User
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /users/me [patch]
// @Security BearerAuth
func (h *UserHandler) HandleUpdateMe(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	updated, err := h.svc.UpdateProfile(ctx.Request.Context(), user.ID, req.ToPatch())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleUpdateMe -> h.svc.UpdateProfile", err)
		return
	}

	ctx.JSON(http.StatusOK, updated)
}
