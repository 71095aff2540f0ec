package response

import "github.com/vietanh2810/campus-events-api/internal/domain"

type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type UploadResponse struct {
	URL string `json:"url"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
