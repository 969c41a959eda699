package handlers

import (
	"net/http"

	"travelapp/internal/http/middleware"
	"travelapp/internal/repositories"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	Users repositories.UserRepo
}

// GET /api/users/me
func (h UserHandler) Me(c *gin.Context) {
	u, err := h.Users.GetByID(middleware.GetUserID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAuthUser(u))
}
