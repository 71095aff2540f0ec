package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/campus-events-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/campus-events-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/campus-events-api/internal/domain"
	"github.com/vietanh2810/campus-events-api/internal/service"
)

type FacultyRegistrar interface {
	RegisterFaculty(ctx context.Context, admin domain.User, faculty domain.User) (domain.User, error)
}

type FacultyDirectory interface {
	ListFaculty(ctx context.Context) ([]domain.User, error)
	DeleteFaculty(ctx context.Context, id string) error
}

type AdminHandler struct {
	auth  FacultyRegistrar
	users FacultyDirectory
}

func NewAdminHandler(auth FacultyRegistrar, users FacultyDirectory) *AdminHandler {
	return &AdminHandler{
		auth:  auth,
		users: users,
	}
}

// HandleRegisterFaculty godoc
// @Summary      Register a faculty account
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request   body      request.RegisterFacultyRequest true "request body"
// @Success      201      {object}   domain.User
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/faculty [post]
// @Security BearerAuth
func (h *AdminHandler) HandleRegisterFaculty(ctx *gin.Context) {
	admin, respErr := getUserFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.RegisterFacultyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	faculty, err := h.auth.RegisterFaculty(ctx.Request.Context(), admin, req.ToDomain())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleRegisterFaculty -> h.auth.RegisterFaculty", err)
		return
	}

	ctx.JSON(http.StatusCreated, faculty)
}

// HandleListFaculty godoc
// @Summary      List faculty accounts
// @Tags         admin
// @Produce      json
// @Success      200      {array}    domain.User
// @Failure      403      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/faculty [get]
// @Security BearerAuth
func (h *AdminHandler) HandleListFaculty(ctx *gin.Context) {
	faculty, err := h.users.ListFaculty(ctx.Request.Context())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListFaculty -> h.users.ListFaculty", err)
		return
	}

	ctx.JSON(http.StatusOK, faculty)
}

// HandleDeleteFaculty godoc
// @Summary      Delete a faculty account
// @Tags         admin
// @Param        userID   path       string true "faculty user id"
// @Success      204
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/faculty/{userID} [delete]
// @Security BearerAuth
func (h *AdminHandler) HandleDeleteFaculty(ctx *gin.Context) {
	userID, ok := pathID(ctx, "userID")
	if !ok {
		return
	}

	if err := h.users.DeleteFaculty(ctx.Request.Context(), userID); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("faculty", "id", userID))
			return
		}
		renderServiceErr(ctx, "v1.HandleDeleteFaculty -> h.users.DeleteFaculty", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
