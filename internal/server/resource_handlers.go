package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tteodorogustavo/athlos/internal/service"
	"github.com/tteodorogustavo/athlos/pkg/api"
)

// reply writes v with status, or the error.
func reply(c *gin.Context, status int, v any, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, v)
}

func replyDeleted(c *gin.Context, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Academias

func (h *Handlers) ListAcademias(c *gin.Context) {
	out, err := h.svc.Academias.List(c.Request.Context(), actor(c))
	reply(c, http.StatusOK, out, err)
}

func (h *Handlers) GetAcademia(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	out, err := h.svc.Academias.Get(c.Request.Context(), actor(c), id)
	reply(c, http.StatusOK, out, err)
}

func (h *Handlers) CreateAcademia(c *gin.Context) {
	var form api.AcademiaForm
	if !bindJSON(c, &form) {
		return
	}
	out, err := h.svc.Academias.Create(c.Request.Context(), actor(c), form)
	reply(c, http.StatusCreated, out, err)
}

func (h *Handlers) UpdateAcademia(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var form api.AcademiaForm
	if !bindJSON(c, &form) {
		return
	}
	out, err := h.svc.Academias.Update(c.Request.Context(), actor(c), id, form)
	reply(c, http.StatusOK, out, err)
}

func (h *Handlers) DeleteAcademia(c *gin.Context) {
	if id, ok := pathID(c); ok {
		replyDeleted(c, h.svc.Academias.Delete(c.Request.Context(), actor(c), id))
	}
}

// Personais

func (h *Handlers) ListPersonais(c *gin.Context) {
	academia, ok := queryID(c, "academia")
	if !ok {
		return
	}
	out, err := h.svc.Personais.List(c.Request.Context(), actor(c), academia)
	reply(c, http.StatusOK, out, err)
}

func (h *Handlers) GetPersonal(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	out, err := h.svc.Personais.Get(c.Request.Context(), actor(c), id)
	reply(c, http.StatusOK, out, err)
}

func (h *Handlers) CreatePersonal(c *gin.Context) {
	var form api.PersonalForm
	if !bindJSON(c, &form) {
		return
	}
	out, err := h.svc.Personais.Create(c.Request.Context(), actor(c), form)
	reply(c, http.StatusCreated, out, err)
}

func (h *Handlers) UpdatePersonal(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var form api.PersonalForm
	if !bindJSON(c, &form) {
		return
	}
	out, err := h.svc.Personais.Update(c.Request.Context(), actor(c), id, form)
	reply(c, http.StatusOK, out, err)
}

func (h *Handlers) DeletePersonal(c *gin.Context) {
	if id, ok := pathID(c); ok {
		replyDeleted(c, h.svc.Personais.Delete(c.Request.Context(), actor(c), id))
	}
}

// Alunos

func (h *Handlers) ListAlunos(c *gin.Context) {
	personal, ok := queryID(c, "personal")
	if !ok {
		return
	}
	academia, ok := queryID(c, "academia")
	if !ok {
		return
	}
	opts := service.AlunoListOptions{PersonalID: personal, AcademiaID: academia}
	out, err := h.svc.Alunos.List(c.Request.Context(), actor(c), opts)
	reply(c, http.StatusOK, out, err)
}

func (h *Handlers) GetAluno(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	out, err := h.svc.Alunos.Get(c.Request.Context(), actor(c), id)
	reply(c, http.StatusOK, out, err)
}

func (h *Handlers) CreateAluno(c *gin.Context) {
	var form api.AlunoForm
	if !bindJSON(c, &form) {
		return
	}
	out, err := h.svc.Alunos.Create(c.Request.Context(), actor(c), form)
	reply(c, http.StatusCreated, out, err)
}

func (h *Handlers) UpdateAluno(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var form api.AlunoForm
	if !bindJSON(c, &form) {
		return
	}
	out, err := h.svc.Alunos.Update(c.Request.Context(), actor(c), id, form)
	reply(c, http.StatusOK, out, err)
}

func (h *Handlers) DeleteAluno(c *gin.Context) {
	if id, ok := pathID(c); ok {
		replyDeleted(c, h.svc.Alunos.Delete(c.Request.Context(), actor(c), id))
	}
}

// Treinos

func (h *Handlers) ListTreinos(c *gin.Context) {
	aluno, ok := queryID(c, "aluno")
	if !ok {
		return
	}
	out, err := h.svc.Treinos.List(c.Request.Context(), actor(c), aluno)
	reply(c, http.StatusOK, out, err)
}

func (h *Handlers) GetTreino(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	out, err := h.svc.Treinos.Get(c.Request.Context(), actor(c), id)
	reply(c, http.StatusOK, out, err)
}

func (h *Handlers) CreateTreino(c *gin.Context) {
	var form api.TreinoForm
	if !bindJSON(c, &form) {
		return
	}
	out, err := h.svc.Treinos.Create(c.Request.Context(), actor(c), form)
	reply(c, http.StatusCreated, out, err)
}

func (h *Handlers) UpdateTreino(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var form api.TreinoForm
	if !bindJSON(c, &form) {
		return
	}
	out, err := h.svc.Treinos.Update(c.Request.Context(), actor(c), id, form)
	reply(c, http.StatusOK, out, err)
}

func (h *Handlers) DeleteTreino(c *gin.Context) {
	if id, ok := pathID(c); ok {
		replyDeleted(c, h.svc.Treinos.Delete(c.Request.Context(), actor(c), id))
	}
}

// Exercicios

func (h *Handlers) ListExercicios(c *gin.Context) {
	out, err := h.svc.Exercicios.List(c.Request.Context())
	reply(c, http.StatusOK, out, err)
}

func (h *Handlers) GetExercicio(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	out, err := h.svc.Exercicios.Get(c.Request.Context(), id)
	reply(c, http.StatusOK, out, err)
}

func (h *Handlers) ExercicioCategorias(c *gin.Context) {
	out, err := h.svc.Exercicios.Categorias(c.Request.Context())
	reply(c, http.StatusOK, out, err)
}

func (h *Handlers) ExerciciosPorCategoria(c *gin.Context) {
	out, err := h.svc.Exercicios.PorCategoria(c.Request.Context(), c.Query("categoria"))
	reply(c, http.StatusOK, out, err)
}
