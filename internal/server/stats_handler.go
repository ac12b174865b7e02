package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tteodorogustavo/athlos/pkg/api"
)

func replyStats(c *gin.Context, v any, err error) {
	if err != nil {
		respondStatsError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// reportFilter reads ?periodo=, ?aluno_id= and ?academia_id=.
func reportFilter(c *gin.Context) (api.ReportFilter, bool) {
	f := api.ReportFilter{Periodo: api.ParsePeriodo(c.Query("periodo"))}
	var ok bool
	if f.AlunoID, ok = queryID(c, "aluno_id"); !ok {
		return f, false
	}
	if f.AcademiaID, ok = queryID(c, "academia_id"); !ok {
		return f, false
	}
	return f, true
}

func (h *Handlers) PersonalDashboard(c *gin.Context) {
	out, err := h.svc.Stats.PersonalDashboard(c.Request.Context(), actor(c))
	replyStats(c, out, err)
}

func (h *Handlers) AlunoDashboard(c *gin.Context) {
	out, err := h.svc.Stats.AlunoDashboard(c.Request.Context(), actor(c))
	replyStats(c, out, err)
}

func (h *Handlers) AcademiaDashboard(c *gin.Context) {
	out, err := h.svc.Stats.AcademiaDashboard(c.Request.Context(), actor(c))
	replyStats(c, out, err)
}

func (h *Handlers) AdminDashboard(c *gin.Context) {
	out, err := h.svc.Stats.AdminDashboard(c.Request.Context(), actor(c))
	replyStats(c, out, err)
}

func (h *Handlers) PersonalReport(c *gin.Context) {
	f, ok := reportFilter(c)
	if !ok {
		return
	}
	out, err := h.svc.Stats.PersonalReport(c.Request.Context(), actor(c), f)
	replyStats(c, out, err)
}

func (h *Handlers) AlunoReport(c *gin.Context) {
	f, ok := reportFilter(c)
	if !ok {
		return
	}
	out, err := h.svc.Stats.AlunoReport(c.Request.Context(), actor(c), f)
	replyStats(c, out, err)
}

func (h *Handlers) AcademiaReport(c *gin.Context) {
	f, ok := reportFilter(c)
	if !ok {
		return
	}
	out, err := h.svc.Stats.AcademiaReport(c.Request.Context(), actor(c), f)
	replyStats(c, out, err)
}

func (h *Handlers) AdminReport(c *gin.Context) {
	f, ok := reportFilter(c)
	if !ok {
		return
	}
	out, err := h.svc.Stats.AdminReport(c.Request.Context(), actor(c), f)
	replyStats(c, out, err)
}
