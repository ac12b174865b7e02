package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tteodorogustavo/athlos/internal/service"
	"github.com/tteodorogustavo/athlos/pkg/api"
)

type Handlers struct {
	svc Services
}

func NewHandlers(svc Services) *Handlers {
	return &Handlers{svc: svc}
}

func (h *Handlers) Login(c *gin.Context) {
	var req api.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		verr := &service.ValidationError{}
		if req.Email == "" {
			verr.Add("email", "Este campo é obrigatório.")
		}
		if req.Password == "" {
			verr.Add("password", "Este campo é obrigatório.")
		}
		if verr.Err() == nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Detail: msgBadJSON})
			return
		}
		respondError(c, verr)
		return
	}
	res, err := h.svc.Auth.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handlers) Refresh(c *gin.Context) {
	var req api.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, &service.ValidationError{Fields: map[string][]string{
			"refresh": {"Este campo é obrigatório."},
		}})
		return
	}
	res, err := h.svc.Auth.Refresh(c.Request.Context(), req.Refresh)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handlers) Me(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Auth.Me(actor(c)))
}
