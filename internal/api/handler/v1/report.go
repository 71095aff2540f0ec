package v1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportService interface {
	ExportEventReport(ctx context.Context, eventID string) (string, []byte, error)
}

type ReportHandler struct {
	svc ReportService
}

func NewReportHandler(svc ReportService) *ReportHandler {
	return &ReportHandler{
		svc: svc,
	}
}

// HandleDownloadReport godoc
// @Summary      Download the spreadsheet report of an event
// @Tags         faculty
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        eventID  path       string true "event id"
// @Success      200      {file}     binary
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /faculty/events/{eventID}/report [get]
// @Security BearerAuth
func (h *ReportHandler) HandleDownloadReport(ctx *gin.Context) {
	eventID, ok := pathID(ctx, "eventID")
	if !ok {
		return
	}

	name, data, err := h.svc.ExportEventReport(ctx.Request.Context(), eventID)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleDownloadReport -> h.svc.ExportEventReport", err)
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	ctx.Data(http.StatusOK, xlsxContentType, data)
}
