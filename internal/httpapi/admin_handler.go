package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/estudio/internal/domain"
	"github.com/alexanderramin/estudio/internal/service"
)

func (s *Server) listUsers(c *gin.Context) {
	users, err := s.admin.ListUsers(c.Request.Context(), currentUser(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	out := make([]userDTO, 0, len(users))
	for _, u := range users {
		out = append(out, userFrom(u))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "users": out})
}

func (s *Server) setRole(c *gin.Context) {
	var req struct {
		ID   string `json:"id"`
		Role string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.admin.SetRole(c.Request.Context(), currentUser(c), req.ID, role); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) removeUser(c *gin.Context) {
	var req struct {
		ID string `json:"id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.ID == "" {
		abort(c, http.StatusBadRequest, service.ErrInvalidInput.Error())
		return
	}
	if err := s.admin.RemoveUser(c.Request.Context(), currentUser(c), req.ID); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
