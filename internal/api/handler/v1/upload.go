package v1

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/campus-events-api/internal/api/handler/v1/response"
)

const uploadFormField = "image"

type UploadService interface {
	UploadImage(ctx context.Context, userID string, data []byte) (string, error)
}

type UploadHandler struct {
	svc     UploadService
	maxSize int64
}

func NewUploadHandler(svc UploadService, maxSize int64) *UploadHandler {
	return &UploadHandler{
		svc:     svc,
		maxSize: maxSize,
	}
}

// HandleUploadImage godoc
// @Summary      Upload an image
// @Description  The image is re-encoded and stored. The returned URL can be used in profile, club and event fields.
// @Tags         uploads
// @Accept       multipart/form-data
// @Produce      json
// @Param        image    formData   file true "jpeg, png, gif or webp image"
// @Success      201      {object}   response.UploadResponse
// @Failure      400      {object}   response.Err
// @Failure      413      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Failure      503      {object}   response.Err
// @Router       /uploads/images [post]
// @Security BearerAuth
func (h *UploadHandler) HandleUploadImage(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	fileHeader, err := ctx.FormFile(uploadFormField)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("form field %q: %w", uploadFormField, err)))
		return
	}
	if h.maxSize > 0 && fileHeader.Size > h.maxSize {
		response.RenderErr(ctx, response.ErrRequestTooLarge(fmt.Errorf("image is %d bytes, limit is %d", fileHeader.Size, h.maxSize)))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("cannot read uploaded file")))
		return
	}

	url, err := h.svc.UploadImage(ctx.Request.Context(), user.ID, data)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleUploadImage -> h.svc.UploadImage", err)
		return
	}

	ctx.JSON(http.StatusCreated, response.UploadResponse{URL: url})
}
