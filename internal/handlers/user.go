package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ootdlab/ootd-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Register is the only public API endpoint besides the healthcheck: it
// creates the user row the session middleware expects on every /api call.
func (uh *UserHandler) Register(c *gin.Context) {
	var req struct {
		DisplayName string `json:"display_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request_body", fmt.Errorf("invalid request body"))
		return
	}
	user, err := uh.userService.Register(c.Request.Context(), req.DisplayName)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "user_register_failed", err)
		return
	}
	RespondOK(c, gin.H{"user": user})
}
