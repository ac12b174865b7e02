package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRoutes mounts the REST API under /api.
func SetupRoutes(r *gin.Engine, h *Handlers, loginRatePerMin int) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := r.Group("/api")

	authGroup := apiGroup.Group("/auth")
	authGroup.POST("/login/", RateLimit(loginRatePerMin), h.Login)
	authGroup.POST("/refresh/", h.Refresh)

	protected := apiGroup.Group("", AuthMiddleware(h.svc.Auth))
	protected.GET("/auth/me/", h.Me)

	academias := protected.Group("/academias")
	academias.GET("/", h.ListAcademias)
	academias.POST("/", h.CreateAcademia)
	academias.GET("/:id/", h.GetAcademia)
	academias.PUT("/:id/", h.UpdateAcademia)
	academias.PATCH("/:id/", h.UpdateAcademia)
	academias.DELETE("/:id/", h.DeleteAcademia)

	personais := protected.Group("/personais")
	personais.GET("/", h.ListPersonais)
	personais.POST("/", h.CreatePersonal)
	personais.GET("/:id/", h.GetPersonal)
	personais.PUT("/:id/", h.UpdatePersonal)
	personais.PATCH("/:id/", h.UpdatePersonal)
	personais.DELETE("/:id/", h.DeletePersonal)

	alunos := protected.Group("/alunos")
	alunos.GET("/", h.ListAlunos)
	alunos.POST("/", h.CreateAluno)
	alunos.GET("/:id/", h.GetAluno)
	alunos.PUT("/:id/", h.UpdateAluno)
	alunos.PATCH("/:id/", h.UpdateAluno)
	alunos.DELETE("/:id/", h.DeleteAluno)

	treinos := protected.Group("/treinos")
	treinos.GET("/", h.ListTreinos)
	treinos.POST("/", h.CreateTreino)
	treinos.GET("/:id/", h.GetTreino)
	treinos.PUT("/:id/", h.UpdateTreino)
	treinos.PATCH("/:id/", h.UpdateTreino)
	treinos.DELETE("/:id/", h.DeleteTreino)

	exercicios := protected.Group("/exercicios")
	exercicios.GET("/", h.ListExercicios)
	exercicios.GET("/categorias/", h.ExercicioCategorias)
	exercicios.GET("/por_categoria/", h.ExerciciosPorCategoria)
	exercicios.GET("/:id/", h.GetExercicio)

	dashboard := protected.Group("/dashboard")
	dashboard.GET("/personal/", h.PersonalDashboard)
	dashboard.GET("/aluno/", h.AlunoDashboard)
	dashboard.GET("/academia/", h.AcademiaDashboard)
	dashboard.GET("/admin/", h.AdminDashboard)

	relatorios := protected.Group("/relatorios")
	relatorios.GET("/personal/", h.PersonalReport)
	relatorios.GET("/aluno/", h.AlunoReport)
	relatorios.GET("/academia/", h.AcademiaReport)
	relatorios.GET("/admin/", h.AdminReport)
}
