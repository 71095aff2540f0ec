package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/campus-events-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/campus-events-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/campus-events-api/internal/domain"
)

type FeedbackService interface {
	SubmitAttendeeFeedback(ctx context.Context, eventID string, student domain.User, rating int, comment string) (domain.Feedback, error)
	EventFeedback(ctx context.Context, eventID string) ([]domain.Feedback, error)
	StudentFeedback(ctx context.Context, studentID string) ([]domain.Feedback, error)
}

type FeedbackHandler struct {
	svc FeedbackService
}

func NewFeedbackHandler(svc FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{
		svc: svc,
	}
}

// HandleSubmitFeedback godoc
// @Summary      Rate an event
// @Description  The caller must be registered and the event day must be over. One rating per student and event.
// @Tags         student
// @Accept       json
// @Produce      json
// @Param        eventID   path      string true "event id"
// @Param        request   body      request.FeedbackRequest true "request body"
// @Success      201      {object}   domain.Feedback
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /student/events/{eventID}/feedback [post]
// @Router       /student/events/{eventID}/reviews [post]
// @Security BearerAuth
func (h *FeedbackHandler) HandleSubmitFeedback(ctx *gin.Context) {
	student, respErr := getUserFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, ok := pathID(ctx, "eventID")
	if !ok {
		return
	}

	var req request.FeedbackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	fb, err := h.svc.SubmitAttendeeFeedback(ctx.Request.Context(), eventID, student, req.Rating, req.Comment)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleSubmitFeedback -> h.svc.SubmitAttendeeFeedback", err)
		return
	}

	ctx.JSON(http.StatusCreated, fb)
}

// HandleStudentFeedback godoc
// @Summary      List the caller's feedback
// @Tags         student
// @Produce      json
// @Success      200      {array}    domain.Feedback
// @Failure      403      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /student/feedback [get]
// @Security BearerAuth
func (h *FeedbackHandler) HandleStudentFeedback(ctx *gin.Context) {
	student, respErr := getUserFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	feedback, err := h.svc.StudentFeedback(ctx.Request.Context(), student.ID)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleStudentFeedback -> h.svc.StudentFeedback", err)
		return
	}

	ctx.JSON(http.StatusOK, feedback)
}

// HandleEventFeedback godoc
// @Summary      List the feedback of an event
// @Tags         events
// @Produce      json
// @Param        eventID  path       string true "event id"
// @Success      200      {array}    domain.Feedback
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID}/feedback [get]
func (h *FeedbackHandler) HandleEventFeedback(ctx *gin.Context) {
	eventID, ok := pathID(ctx, "eventID")
	if !ok {
		return
	}

	feedback, err := h.svc.EventFeedback(ctx.Request.Context(), eventID)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleEventFeedback -> h.svc.EventFeedback", err)
		return
	}

	ctx.JSON(http.StatusOK, feedback)
}
