package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tteodorogustavo/athlos/internal/service"
	"github.com/tteodorogustavo/athlos/pkg/api"
	"github.com/tteodorogustavo/athlos/pkg/utils"
)

const (
	msgInternal       = "Erro interno do servidor."
	msgNotFound       = "Não encontrado."
	msgBadJSON        = "JSON inválido."
	msgThrottled      = "Muitas tentativas. Tente novamente mais tarde."
	codeTokenNotValid = "token_not_valid"
)

// respondError writes err in the {detail} shape used by the resource
// endpoints. Validation failures become a field map.
func respondError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, verr.Fields)
	case errors.Is(err, service.ErrTokenInvalid):
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Detail: err.Error(), Code: codeTokenNotValid})
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Detail: err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, api.ErrorResponse{Detail: "Você não tem permissão para executar essa ação."})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Detail: msgNotFound})
	default:
		internalError(c, err)
	}
}

// respondStatsError writes err in the {error} shape used by the dashboard
// and report endpoints.
func respondStatsError(c *gin.Context, err error) {
	var missing *service.ProfileNotFoundError
	switch {
	case errors.As(err, &missing):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: missing.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Academia não encontrada"})
	default:
		utils.Log.Error("Stats request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: msgInternal})
	}
}

func internalError(c *gin.Context, err error) {
	utils.Log.Error("Request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.JSON(http.StatusInternalServerError, api.ErrorResponse{Detail: msgInternal})
}

// pathID reads the :id segment. Anything but a positive integer is a 404,
// as no such record can exist.
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Detail: msgNotFound})
		return 0, false
	}
	return uint(id), true
}

// queryID reads an optional numeric filter. An empty value and "todos" mean
// no filter.
func queryID(c *gin.Context, key string) (*uint, bool) {
	raw := c.Query(key)
	if raw == "" || raw == "todos" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, map[string][]string{key: {"Informe um número válido."}})
		return nil, false
	}
	v := uint(id)
	return &v, true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Detail: msgBadJSON})
		return false
	}
	return true
}
