package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/campus-events-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/campus-events-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/campus-events-api/internal/domain"
	"github.com/vietanh2810/campus-events-api/internal/service"
)

type EventService interface {
	CreateEvent(ctx context.Context, coordinator domain.User, event domain.Event) (domain.Event, error)
	UpdateEvent(ctx context.Context, coordinatorID, eventID string, patch domain.EventPatch) (domain.Event, error)
	VerifyEvent(ctx context.Context, eventID string, status domain.EventStatus, patch domain.EventPatch) (domain.Event, error)
	DeleteEvent(ctx context.Context, eventID string) error
	GetEvent(ctx context.Context, eventID string) (domain.Event, error)
	GetPublicEvent(ctx context.Context, eventID string) (domain.Event, error)
	ListEvents(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error)
	ListForStudent(ctx context.Context, studentID string) ([]domain.Event, error)
	MyEvents(ctx context.Context, studentID string) ([]domain.Event, error)
	Register(ctx context.Context, eventID, studentID string) (domain.Event, error)
	MarkAttendance(ctx context.Context, coordinatorID, eventID, studentID string, status domain.AttendanceStatus) (domain.Event, error)
	Participants(ctx context.Context, coordinatorID, eventID string) ([]domain.EventParticipant, error)
}

type EventHandler struct {
	svc EventService
}

func NewEventHandler(svc EventService) *EventHandler {
	return &EventHandler{
		svc: svc,
	}
}

// HandleListPublicEvents godoc
// @Summary      List approved events
// @Tags         events
// @Produce      json
// @Success      200      {array}    domain.Event
// @Failure      500      {object}   response.Err
// @Router       /events [get]
func (h *EventHandler) HandleListPublicEvents(ctx *gin.Context) {
	events, err := h.svc.ListEvents(ctx.Request.Context(), domain.EventFilter{Status: domain.StatusApproved})
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListPublicEvents -> h.svc.ListEvents", err)
		return
	}

	ctx.JSON(http.StatusOK, events)
}

// HandleGetPublicEvent godoc
// @Summary      Get an approved event
// @Tags         events
// @Produce      json
// @Param        eventID  path       string true "event id"
// @Success      200      {object}   domain.Event
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID} [get]
func (h *EventHandler) HandleGetPublicEvent(ctx *gin.Context) {
	eventID, ok := pathID(ctx, "eventID")
	if !ok {
		return
	}

	event, err := h.svc.GetPublicEvent(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "id", eventID))
			return
		}
		renderServiceErr(ctx, "v1.HandleGetPublicEvent -> h.svc.GetPublicEvent", err)
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleCreateEvent godoc
// @Summary      Create an event
// @Description  The event is created pending for the coordinator's club.
// @Tags         coordinator
// @Accept       json
// @Produce      json
// @Param        request   body      request.CreateEventRequest true "request body"
// @Success      201      {object}   domain.Event
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /coordinator/events [post]
// @Security BearerAuth
func (h *EventHandler) HandleCreateEvent(ctx *gin.Context) {
	coordinator, respErr := getUserFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	event, err := req.ToDomain()
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	created, err := h.svc.CreateEvent(ctx.Request.Context(), coordinator, event)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleCreateEvent -> h.svc.CreateEvent", err)
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleListOwnEvents godoc
// @Summary      List the coordinator's events
// @Tags         coordinator
// @Produce      json
// @Success      200      {array}    domain.Event
// @Failure      403      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /coordinator/events [get]
// @Security BearerAuth
func (h *EventHandler) HandleListOwnEvents(ctx *gin.Context) {
	coordinator, respErr := getUserFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	events, err := h.svc.ListEvents(ctx.Request.Context(), domain.EventFilter{CreatedByID: coordinator.ID})
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListOwnEvents -> h.svc.ListEvents", err)
		return
	}

	ctx.JSON(http.StatusOK, events)
}

// HandleUpdateEvent godoc
// @Summary      Update a pending event
// @Description  Only fields present in the body are changed.
// @Tags         coordinator
// @Accept       json
// @Produce      json
// @Param        eventID   path      string true "event id"
// @Param        request   body      request.UpdateEventRequest true "request body"
// @Success      200      {object}   domain.Event
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /coordinator/events/{eventID} [patch]
// @Security BearerAuth
func (h *EventHandler) HandleUpdateEvent(ctx *gin.Context) {
	coordinator, respErr := getUserFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, ok := pathID(ctx, "eventID")
	if !ok {
		return
	}

	var req request.UpdateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	patch, err := req.ToPatch()
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	event, err := h.svc.UpdateEvent(ctx.Request.Context(), coordinator.ID, eventID, patch)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleUpdateEvent -> h.svc.UpdateEvent", err)
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleMarkAttendance godoc
// @Summary      Mark a registered student present or absent
// @Description  Allowed once the event has started. Marking again overwrites.
// @Tags         coordinator
// @Accept       json
// @Produce      json
// @Param        eventID   path      string true "event id"
// @Param        request   body      request.MarkAttendanceRequest true "request body"
// @Success      200      {object}   domain.Event
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /coordinator/events/{eventID}/attendance [post]
// @Security BearerAuth
func (h *EventHandler) HandleMarkAttendance(ctx *gin.Context) {
	coordinator, respErr := getUserFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, ok := pathID(ctx, "eventID")
	if !ok {
		return
	}

	var req request.MarkAttendanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	event, err := h.svc.MarkAttendance(ctx.Request.Context(), coordinator.ID, eventID, req.StudentID, domain.AttendanceStatus(req.Status))
	if err != nil {
		renderServiceErr(ctx, "v1.HandleMarkAttendance -> h.svc.MarkAttendance", err)
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleParticipants godoc
// @Summary      List the registered students of an event
// @Tags         coordinator
// @Produce      json
// @Param        eventID  path       string true "event id"
// @Success      200      {array}    domain.EventParticipant
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /coordinator/events/{eventID}/participants [get]
// @Security BearerAuth
func (h *EventHandler) HandleParticipants(ctx *gin.Context) {
	coordinator, respErr := getUserFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, ok := pathID(ctx, "eventID")
	if !ok {
		return
	}

	participants, err := h.svc.Participants(ctx.Request.Context(), coordinator.ID, eventID)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleParticipants -> h.svc.Participants", err)
		return
	}

	ctx.JSON(http.StatusOK, participants)
}

// HandleListEventsByStatus godoc
// @Summary      List events by status
// @Tags         faculty
// @Produce      json
// @Param        status   query      string false "event status" Enums(pending, approved, rejected) default(pending)
// @Success      200      {array}    domain.Event
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /faculty/events [get]
// @Security BearerAuth
func (h *EventHandler) HandleListEventsByStatus(ctx *gin.Context) {
	status := domain.EventStatus(ctx.DefaultQuery("status", string(domain.StatusPending)))
	if !status.IsValid() {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("unknown status %q", status)))
		return
	}

	events, err := h.svc.ListEvents(ctx.Request.Context(), domain.EventFilter{Status: status})
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListEventsByStatus -> h.svc.ListEvents", err)
		return
	}

	ctx.JSON(http.StatusOK, events)
}

// HandleGetEvent godoc
// @Summary      Get any event
// @Tags         faculty
// @Produce      json
// @Param        eventID  path       string true "event id"
// @Success      200      {object}   domain.Event
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /faculty/events/{eventID} [get]
// @Security BearerAuth
func (h *EventHandler) HandleGetEvent(ctx *gin.Context) {
	eventID, ok := pathID(ctx, "eventID")
	if !ok {
		return
	}

	event, err := h.svc.GetEvent(ctx.Request.Context(), eventID)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleGetEvent -> h.svc.GetEvent", err)
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleVerifyEvent godoc
// @Summary      Approve or reject an event
// @Description  Status defaults to approved. Fields present in the body overwrite the event.
// @Tags         faculty
// @Accept       json
// @Produce      json
// @Param        eventID   path      string true "event id"
// @Param        request   body      request.VerifyEventRequest true "request body"
// @Success      200      {object}   domain.Event
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /faculty/events/{eventID}/verify [patch]
// @Security BearerAuth
func (h *EventHandler) HandleVerifyEvent(ctx *gin.Context) {
	eventID, ok := pathID(ctx, "eventID")
	if !ok {
		return
	}

	var req request.VerifyEventRequest
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	patch, err := req.ToPatch()
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	event, err := h.svc.VerifyEvent(ctx.Request.Context(), eventID, req.TargetStatus(), patch)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleVerifyEvent -> h.svc.VerifyEvent", err)
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleDeleteEvent godoc
// @Summary      Delete an event with its registrations, attendance and feedback
// @Tags         faculty
// @Param        eventID  path       string true "event id"
// @Success      204
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /faculty/events/{eventID} [delete]
// @Security BearerAuth
func (h *EventHandler) HandleDeleteEvent(ctx *gin.Context) {
	eventID, ok := pathID(ctx, "eventID")
	if !ok {
		return
	}

	if err := h.svc.DeleteEvent(ctx.Request.Context(), eventID); err != nil {
		renderServiceErr(ctx, "v1.HandleDeleteEvent -> h.svc.DeleteEvent", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleListStudentEvents godoc
// @Summary      List approved events with the caller's registration flag
// @Tags         student
// @Produce      json
// @Success      200      {array}    domain.Event
// @Failure      403      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /student/events [get]
// @Security BearerAuth
func (h *EventHandler) HandleListStudentEvents(ctx *gin.Context) {
	student, respErr := getUserFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	events, err := h.svc.ListForStudent(ctx.Request.Context(), student.ID)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListStudentEvents -> h.svc.ListForStudent", err)
		return
	}

	ctx.JSON(http.StatusOK, events)
}

// HandleRegister godoc
// @Summary      Register for an approved event
// @Tags         student
// @Produce      json
// @Param        eventID  path       string true "event id"
// @Success      200      {object}   domain.Event
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /student/events/{eventID}/register [post]
// @Security BearerAuth
func (h *EventHandler) HandleRegister(ctx *gin.Context) {
	student, respErr := getUserFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, ok := pathID(ctx, "eventID")
	if !ok {
		return
	}

	event, err := h.svc.Register(ctx.Request.Context(), eventID, student.ID)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleRegister -> h.svc.Register", err)
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleMyEvents godoc
// @Summary      List the events the caller registered for
// @Tags         student
// @Produce      json
// @Success      200      {array}    domain.Event
// @Failure      403      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /student/my-events [get]
// @Security BearerAuth
func (h *EventHandler) HandleMyEvents(ctx *gin.Context) {
	student, respErr := getUserFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	events, err := h.svc.MyEvents(ctx.Request.Context(), student.ID)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleMyEvents -> h.svc.MyEvents", err)
		return
	}

	ctx.JSON(http.StatusOK, events)
}
