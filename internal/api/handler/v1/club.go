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

type ClubService interface {
	CreateClub(ctx context.Context, faculty domain.User, club domain.Club) (domain.Club, error)
	ListClubs(ctx context.Context) ([]domain.Club, error)
	GetClub(ctx context.Context, id string) (domain.Club, error)
	AssignCoordinator(ctx context.Context, clubID, userID string) (domain.Club, error)
	RemoveCoordinator(ctx context.Context, clubID, userID string) (domain.Club, error)
}

type ClubHandler struct {
	svc ClubService
}

func NewClubHandler(svc ClubService) *ClubHandler {
	return &ClubHandler{
		svc: svc,
	}
}

// HandleListClubs godoc
// @Summary      List clubs
// @Tags         clubs
// @Produce      json
// @Success      200      {array}    domain.Club
// @Failure      500      {object}   response.Err
// @Router       /clubs [get]
func (h *ClubHandler) HandleListClubs(ctx *gin.Context) {
	clubs, err := h.svc.ListClubs(ctx.Request.Context())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListClubs -> h.svc.ListClubs", err)
		return
	}

	ctx.JSON(http.StatusOK, clubs)
}

// HandleGetClub godoc
// @Summary      Get a club with its coordinators
// @Tags         clubs
// @Produce      json
// @Param        clubID   path       string true "club id"
// @Success      200      {object}   domain.Club
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /clubs/{clubID} [get]
func (h *ClubHandler) HandleGetClub(ctx *gin.Context) {
	clubID, ok := pathID(ctx, "clubID")
	if !ok {
		return
	}

	club, err := h.svc.GetClub(ctx.Request.Context(), clubID)
	if err != nil {
		if errors.Is(err, service.ErrClubNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("club", "id", clubID))
			return
		}
		renderServiceErr(ctx, "v1.HandleGetClub -> h.svc.GetClub", err)
		return
	}

	ctx.JSON(http.StatusOK, club)
}

// HandleCreateClub godoc
// @Summary      Create a club
// @Tags         clubs
// @Accept       json
// @Produce      json
// @Param        request   body      request.CreateClubRequest true "request body"
// @Success      201      {object}   domain.Club
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /clubs [post]
// @Security BearerAuth
func (h *ClubHandler) HandleCreateClub(ctx *gin.Context) {
	faculty, respErr := getUserFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateClubRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	club, err := h.svc.CreateClub(ctx.Request.Context(), faculty, req.ToDomain())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleCreateClub -> h.svc.CreateClub", err)
		return
	}

	ctx.JSON(http.StatusCreated, club)
}

// HandleAssignCoordinator godoc
// @Summary      Assign a student as club coordinator
// @Tags         clubs
// @Accept       json
// @Produce      json
// @Param        clubID    path      string true "club id"
// @Param        request   body      request.AssignCoordinatorRequest true "request body"
// @Success      200      {object}   domain.Club
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /clubs/{clubID}/coordinators [post]
// @Security BearerAuth
func (h *ClubHandler) HandleAssignCoordinator(ctx *gin.Context) {
	clubID, ok := pathID(ctx, "clubID")
	if !ok {
		return
	}

	var req request.AssignCoordinatorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	club, err := h.svc.AssignCoordinator(ctx.Request.Context(), clubID, req.UserID)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleAssignCoordinator -> h.svc.AssignCoordinator", err)
		return
	}

	ctx.JSON(http.StatusOK, club)
}

// HandleRemoveCoordinator godoc
// @Summary      Remove a coordinator from a club
// @Description  The user goes back to the student role.
// @Tags         clubs
// @Produce      json
// @Param        clubID   path       string true "club id"
// @Param        userID   path       string true "coordinator user id"
// @Success      200      {object}   domain.Club
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /clubs/{clubID}/coordinators/{userID} [delete]
// @Security BearerAuth
func (h *ClubHandler) HandleRemoveCoordinator(ctx *gin.Context) {
	clubID, ok := pathID(ctx, "clubID")
	if !ok {
		return
	}
	userID, ok := pathID(ctx, "userID")
	if !ok {
		return
	}

	club, err := h.svc.RemoveCoordinator(ctx.Request.Context(), clubID, userID)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleRemoveCoordinator -> h.svc.RemoveCoordinator", err)
		return
	}

	ctx.JSON(http.StatusOK, club)
}
