package server

import (
	"github.com/Leopold1975/feedback_control/internal/feedback/domain/models"
)

type RootResponse struct {
	Message string `json:"message"`
}

type LoginResponse struct {
	User    models.User `json:"user"`
	Message string      `json:"message"`
}

type CreateFeedbackResponse struct {
	ID      int    `json:"id"`
	Message string `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
