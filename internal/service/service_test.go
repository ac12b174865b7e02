package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tteodorogustavo/athlos/internal/auth"
	"github.com/tteodorogustavo/athlos/internal/models"
	"github.com/tteodorogustavo/athlos/internal/repository"
	"github.com/tteodorogustavo/athlos/pkg/api"
)

const testPassword = "segredo123"

type fixture struct {
	store *memStore
	repos *repository.Repositories

	academia, outraAcademia *models.Academia

	root, admin, adminSemAcademia *models.User
	personal, outroPersonal       *models.User
	aluno, outroAluno             *models.User

	supino, agachamento *models.Exercicio
	treino              *models.Treino
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := newMemStore()
	f := &fixture{store: store, repos: store.repos()}

	f.academia = &models.Academia{NomeFantasia: "Academia Centro", CNPJ: "11.111.111/0001-11"}
	f.outraAcademia = &models.Academia{NomeFantasia: "Academia Norte", CNPJ: "22.222.222/0001-22"}
	require.NoError(t, f.repos.Academias.Create(ctx, f.academia))
	require.NoError(t, f.repos.Academias.Create(ctx, f.outraAcademia))

	f.root = f.user(t, "root@athlos.dev", api.UserTypeAdminSistema, nil)
	f.admin = f.user(t, "gerente@centro.com", api.UserTypeAdmin, &f.academia.ID)
	f.adminSemAcademia = f.user(t, "gerente@nenhuma.com", api.UserTypeAdmin, nil)
	f.personal = f.user(t, "carla@centro.com", api.UserTypePersonal, &f.academia.ID)
	f.outroPersonal = f.user(t, "davi@norte.com", api.UserTypePersonal, &f.outraAcademia.ID)
	f.aluno = f.user(t, "ana@gmail.com", api.UserTypeAluno, nil)
	f.outroAluno = f.user(t, "bruno@gmail.com", api.UserTypeAluno, nil)

	f.assign(t, f.aluno.ID, &f.personal.ID, &f.academia.ID)
	f.assign(t, f.outroAluno.ID, &f.outroPersonal.ID, &f.outraAcademia.ID)

	f.supino = &models.Exercicio{Nome: "Supino Reto", Category: ptr("Peito")}
	f.agachamento = &models.Exercicio{Nome: "Agachamento", Category: ptr("Pernas")}
	for _, e := range []*models.Exercicio{f.supino, f.agachamento} {
		_, err := f.repos.Exercicios.Upsert(ctx, e)
		require.NoError(t, err)
	}

	f.treino = &models.Treino{
		AlunoID:           f.aluno.ID,
		PersonalCriadorID: &f.personal.ID,
		NomeTreino:        "Treino A",
		Ativo:             true,
		Itens: []models.ItemTreino{
			{ExercicioID: f.supino.ID, Ordem: 1, Series: 4, Repeticoes: "10", CargaKg: ptr(40)},
		},
	}
	require.NoError(t, f.repos.Treinos.Create(ctx, f.treino))
	require.NoError(t, f.repos.Treinos.Create(ctx, &models.Treino{
		AlunoID:           f.outroAluno.ID,
		PersonalCriadorID: &f.outroPersonal.ID,
		NomeTreino:        "Treino B",
		Ativo:             true,
	}))
	return f
}

func (f *fixture) user(t *testing.T, email string, userType api.UserType, academiaID *uint) *models.User {
	t.Helper()
	u, err := createAccount(context.Background(), f.repos, CreateUserDTO{
		Email:      email,
		Password:   testPassword,
		FirstName:  strings.Split(email, "@")[0],
		UserType:   userType,
		AcademiaID: academiaID,
	})
	require.NoError(t, err)
	return u
}

func (f *fixture) assign(t *testing.T, alunoID uint, personalID, academiaID *uint) {
	t.Helper()
	ctx := context.Background()
	a, err := f.repos.Alunos.FindByUserID(ctx, alunoID, repository.AlunoFilter{})
	require.NoError(t, err)
	a.PersonalResponsavelID = personalID
	a.AcademiaID = academiaID
	require.NoError(t, f.repos.Alunos.Update(ctx, a))
}

func fieldErrors(t *testing.T, err error) map[string][]string {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected a validation error, got %v", err)
	return verr.Fields
}

func TestNarrow(t *testing.T) {
	var scope *uint
	assert.True(t, narrow(&scope, nil))
	assert.Nil(t, scope)

	assert.True(t, narrow(&scope, ptr(uint(7))))
	require.NotNil(t, scope)
	assert.Equal(t, uint(7), *scope)

	assert.True(t, narrow(&scope, ptr(uint(7))))
	assert.False(t, narrow(&scope, ptr(uint(8))))
}

func TestCreateUserSyncsProfiles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewUserService(f.repos)

	u, err := svc.CreateUser(ctx, CreateUserDTO{Email: "Carla@Outra.com", Password: testPassword, UserType: api.UserTypePersonal})
	require.NoError(t, err)
	assert.Equal(t, "carla@outra.com", u.Email)
	assert.Equal(t, "carla1", u.Username)

	p, err := f.repos.Personais.FindByUserID(ctx, u.ID, repository.PersonalFilter{})
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("CREF-%06d", u.ID), p.CREF)
	require.NotNil(t, p.Especialidade)
	assert.Equal(t, "A definir", *p.Especialidade)

	_, err = svc.ChangeUserType(ctx, u.ID, api.UserTypeAluno)
	require.NoError(t, err)
	_, err = f.repos.Personais.FindByUserID(ctx, u.ID, repository.PersonalFilter{})
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = f.repos.Alunos.FindByUserID(ctx, u.ID, repository.AlunoFilter{})
	assert.NoError(t, err)

	_, err = svc.ChangeUserType(ctx, u.ID, api.UserTypeAdmin)
	require.NoError(t, err)
	_, err = f.repos.Alunos.FindByUserID(ctx, u.ID, repository.AlunoFilter{})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = svc.ChangeUserType(ctx, u.ID, api.UserType("COACH"))
	assert.Contains(t, fieldErrors(t, err), "user_type")
}

func TestCreateUserValidation(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.repos)

	_, err := svc.CreateUser(context.Background(), CreateUserDTO{Email: "not-an-email", Password: "curta"})
	fields := fieldErrors(t, err)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")

	_, err = svc.CreateUser(context.Background(), CreateUserDTO{Email: "ANA@gmail.com", Password: testPassword})
	assert.Equal(t, []string{"Já existe um usuário com este email."}, fieldErrors(t, err)["email"])
}

func TestAuthServiceFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewAuthService(f.repos.Users, auth.NewManager("test-secret", time.Hour, 24*time.Hour))

	_, err := svc.Login(ctx, api.LoginRequest{Email: "ana@gmail.com", Password: "errada"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, api.LoginRequest{Email: "ninguem@gmail.com", Password: testPassword})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	res, err := svc.Login(ctx, api.LoginRequest{Email: "ana@gmail.com", Password: testPassword})
	require.NoError(t, err)
	require.NotNil(t, res.User)
	assert.Equal(t, api.UserTypeAluno, res.User.UserType)

	actor, err := svc.Authenticate(ctx, res.Access)
	require.NoError(t, err)
	assert.Equal(t, f.aluno.ID, actor.ID)
	assert.Equal(t, "ana", svc.Me(actor).FullName)

	_, err = svc.Authenticate(ctx, res.Refresh)
	assert.ErrorIs(t, err, ErrTokenInvalid)
	_, err = svc.Authenticate(ctx, "")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	refreshed, err := svc.Refresh(ctx, res.Refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.Access)
	_, err = svc.Refresh(ctx, res.Access)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	require.NoError(t, f.repos.Users.Deactivate(ctx, f.aluno.ID))
	_, err = svc.Refresh(ctx, res.Refresh)
	assert.ErrorIs(t, err, ErrTokenInvalid)
	_, err = svc.Login(ctx, api.LoginRequest{Email: "ana@gmail.com", Password: testPassword})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAcademiaServiceScoping(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewAcademiaService(f.repos)

	all, err := svc.List(ctx, f.root)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	own, err := svc.List(ctx, f.admin)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, f.academia.ID, own[0].ID)
	assert.Equal(t, int64(1), own[0].TotalAlunos)
	assert.Equal(t, int64(1), own[0].TotalPersonais)

	viaAlunos, err := svc.List(ctx, f.personal)
	require.NoError(t, err)
	require.Len(t, viaAlunos, 1)
	assert.Equal(t, "Academia Centro", viaAlunos[0].NomeFantasia)

	none, err := svc.List(ctx, f.aluno)
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = svc.Get(ctx, f.admin, f.outraAcademia.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, f.admin, f.outraAcademia.ID), ErrNotFound)

	_, err = svc.Create(ctx, f.admin, api.AcademiaForm{NomeFantasia: "Nova", CNPJ: "33"})
	assert.ErrorIs(t, err, ErrForbidden)

	created, err := svc.Create(ctx, f.personal, api.AcademiaForm{NomeFantasia: " Nova ", CNPJ: "33.333.333/0001-33"})
	require.NoError(t, err)
	assert.Equal(t, "Nova", created.NomeFantasia)
	stored, err := f.repos.Academias.FindByID(ctx, created.ID, repository.AcademiaFilter{})
	require.NoError(t, err)
	assert.Equal(t, &f.personal.ID, stored.ResponsavelID)

	_, err = svc.Create(ctx, f.root, api.AcademiaForm{NomeFantasia: "Copia", CNPJ: f.academia.CNPJ})
	assert.Contains(t, fieldErrors(t, err), "cnpj")

	updated, err := svc.Update(ctx, f.root, f.academia.ID, api.AcademiaForm{NomeFantasia: "Centro Fit", CNPJ: f.academia.CNPJ})
	require.NoError(t, err)
	assert.Equal(t, "Centro Fit", updated.NomeFantasia)
}

func TestPersonalServiceAdminCreatesInOwnAcademia(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewPersonalService(f.repos)

	list, err := svc.List(ctx, f.admin, nil)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, f.personal.ID, list[0].ID)
	assert.Equal(t, int64(1), list[0].TotalAlunos)
	assert.Equal(t, int64(1), list[0].TotalTreinos)

	_, err = svc.Create(ctx, f.personal, api.PersonalForm{Email: "x@y.com", Password: testPassword, CREF: "123"})
	assert.ErrorIs(t, err, ErrForbidden)

	p, err := svc.Create(ctx, f.admin, api.PersonalForm{
		Email:      "eva@centro.com",
		Password:   testPassword,
		FirstName:  ptr("Eva"),
		CREF:       "012345-G/SP",
		AcademiaID: &f.outraAcademia.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "012345-G/SP", p.CREF)
	assert.Equal(t, "Eva", p.Nome)

	u, err := f.repos.Users.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, &f.academia.ID, u.AcademiaID)

	_, err = svc.Update(ctx, f.root, f.personal.ID, api.PersonalForm{CREF: "012345-G/SP"})
	assert.Contains(t, fieldErrors(t, err), "cref")

	require.NoError(t, svc.Delete(ctx, f.admin, p.ID))
	u, err = f.repos.Users.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, u.IsActive)
}

func TestAlunoServiceRoles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewAlunoService(f.repos)

	mine, err := svc.List(ctx, f.personal, AlunoListOptions{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, f.aluno.ID, mine[0].ID)
	require.NotNil(t, mine[0].AcademiaNome)
	assert.Equal(t, "Academia Centro", *mine[0].AcademiaNome)
	assert.Equal(t, int64(1), mine[0].TotalTreinos)

	filtered, err := svc.List(ctx, f.root, AlunoListOptions{AcademiaID: &f.outraAcademia.ID})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, f.outroAluno.ID, filtered[0].ID)

	clash, err := svc.List(ctx, f.admin, AlunoListOptions{AcademiaID: &f.outraAcademia.ID})
	require.NoError(t, err)
	assert.Empty(t, clash)

	_, err = svc.Get(ctx, f.aluno, f.outroAluno.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	created, err := svc.Create(ctx, f.personal, api.AlunoForm{
		Email:     "caio@gmail.com",
		Password:  testPassword,
		FirstName: ptr("Caio"),
		Objetivo:  ptr("Hipertrofia"),
	})
	require.NoError(t, err)
	require.NotNil(t, created.PersonalResponsavel)
	assert.Equal(t, f.personal.ID, created.PersonalResponsavel.ID)
	assert.Equal(t, api.UserTypeAluno, created.User.UserType)

	_, err = svc.Create(ctx, f.aluno, api.AlunoForm{Email: "z@gmail.com", Password: testPassword})
	assert.ErrorIs(t, err, ErrForbidden)

	self, err := svc.Update(ctx, f.aluno, f.aluno.ID, api.AlunoForm{
		Objetivo:   ptr("Emagrecimento"),
		AcademiaID: &f.outraAcademia.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, self.Objetivo)
	assert.Equal(t, "Emagrecimento", *self.Objetivo)
	require.NotNil(t, self.Academia)
	assert.Equal(t, f.academia.ID, self.Academia.ID)

	assert.ErrorIs(t, svc.Delete(ctx, f.aluno, f.aluno.ID), ErrForbidden)
	require.NoError(t, svc.Delete(ctx, f.personal, f.aluno.ID))
	_, err = svc.Get(ctx, f.personal, f.aluno.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTreinoServiceScoping(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewTreinoService(f.repos)

	cases := []struct {
		name  string
		actor *models.User
		want  int
	}{
		{"system admin", f.root, 2},
		{"academia admin", f.admin, 1},
		{"admin without academia", f.adminSemAcademia, 0},
		{"creator", f.personal, 1},
		{"other trainer", f.outroPersonal, 1},
		{"student", f.aluno, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			list, err := svc.List(ctx, tc.actor, nil)
			require.NoError(t, err)
			assert.Len(t, list, tc.want)
		})
	}

	_, err := svc.Get(ctx, f.outroPersonal, f.treino.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := svc.Get(ctx, f.aluno, f.treino.ID)
	require.NoError(t, err)
	require.Len(t, got.Itens, 1)
	assert.Equal(t, "Supino Reto", got.Itens[0].Exercicio.Nome)

	assert.ErrorIs(t, svc.Delete(ctx, f.aluno, f.treino.ID), ErrForbidden)
}

func TestTreinoServiceValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewTreinoService(f.repos)

	_, err := svc.Create(ctx, f.aluno, api.TreinoForm{NomeTreino: "X", AlunoID: f.aluno.ID})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Create(ctx, f.personal, api.TreinoForm{
		NomeTreino: strings.Repeat("a", 51),
		AlunoID:    f.outroAluno.ID,
		Itens: []api.ItemTreinoForm{
			{ExercicioID: f.supino.ID, Series: 3, Repeticoes: "10"},
			{ExercicioID: f.supino.ID, Series: 0, Repeticoes: ""},
			{ExercicioID: 999, Series: 3, Repeticoes: "8", CargaKg: ptr(-1)},
		},
	})
	fields := fieldErrors(t, err)
	assert.Contains(t, fields, "nome_treino")
	assert.Equal(t, []string{"Aluno inválido."}, fields["aluno_id"])
	assert.Equal(t, []string{"Exercício repetido no mesmo treino."}, fields["itens[1].exercicio_id"])
	assert.Contains(t, fields, "itens[1].series")
	assert.Contains(t, fields, "itens[1].repeticoes")
	assert.Equal(t, []string{"Exercício inválido."}, fields["itens[2].exercicio_id"])
	assert.Contains(t, fields, "itens[2].carga_kg")
}

func TestTreinoServiceCreateAndUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewTreinoService(f.repos)

	created, err := svc.Create(ctx, f.personal, api.TreinoForm{
		NomeTreino: "Treino C",
		AlunoID:    f.aluno.ID,
		Itens: []api.ItemTreinoForm{
			{ExercicioID: f.agachamento.ID, Series: 4, Repeticoes: "8-10", CargaKg: ptr(60)},
			{ExercicioID: f.supino.ID, Series: 3, Repeticoes: "12"},
		},
	})
	require.NoError(t, err)
	assert.True(t, created.Ativo)
	require.NotNil(t, created.PersonalCriador)
	assert.Equal(t, f.personal.ID, created.PersonalCriador.ID)
	require.Len(t, created.Itens, 2)
	assert.Equal(t, 1, created.Itens[0].Ordem)
	assert.Equal(t, "Agachamento", created.Itens[0].Exercicio.Nome)
	assert.Equal(t, 2, created.Itens[1].Ordem)

	renamed, err := svc.Update(ctx, f.personal, created.ID, api.TreinoForm{NomeTreino: "Treino C2", Ativo: ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, "Treino C2", renamed.NomeTreino)
	assert.False(t, renamed.Ativo)
	assert.Len(t, renamed.Itens, 2)

	replaced, err := svc.Update(ctx, f.personal, created.ID, api.TreinoForm{
		Itens: []api.ItemTreinoForm{{ExercicioID: f.supino.ID, Series: 5, Repeticoes: "5"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Treino C2", replaced.NomeTreino)
	require.Len(t, replaced.Itens, 1)
	assert.Equal(t, 5, replaced.Itens[0].Series)

	byAdmin, err := svc.Create(ctx, f.root, api.TreinoForm{NomeTreino: "Livre", AlunoID: f.outroAluno.ID})
	require.NoError(t, err)
	assert.Nil(t, byAdmin.PersonalCriador)
	assert.Empty(t, byAdmin.Itens)
}

func TestExercicioServiceImportAndCache(t *testing.T) {
	store := newMemStore()
	repos := store.repos()
	svc := NewExercicioService(repos.Exercicios, 0, 0)
	ctx := context.Background()

	res, err := svc.Import(ctx, strings.NewReader(`[
		{"id": "Barbell_Squat", "name": "Barbell Squat", "category": "strength", "primaryMuscles": ["quadriceps"]},
		{"id": "Plank", "name": "Plank", "category": "Strength"},
		{"id": "Run", "name": "Running", "category": "cardio", "instructions": ["Run."]},
		{"id": "broken", "name": "  "}
	]`))
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Created: 3, Failed: 1}, res)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Barbell Squat", list[0].Nome)

	cats, err := svc.Categorias(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Strength", "cardio", "strength"}, cats)

	strength, err := svc.PorCategoria(ctx, "STRENGTH")
	require.NoError(t, err)
	assert.Len(t, strength, 2)

	_, err = repos.Exercicios.Upsert(ctx, &models.Exercicio{Nome: "Burpee"})
	require.NoError(t, err)
	cachedList, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, cachedList, 3)

	res, err = svc.Import(ctx, strings.NewReader(`[{"id": "Plank", "name": "Plank", "level": "beginner"}]`))
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Updated: 1}, res)
	fresh, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, fresh, 4)

	_, err = svc.Get(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Import(ctx, strings.NewReader(`{"not": "a list"}`))
	assert.Error(t, err)
}

func TestExercicioImportFromAnotherServiceExpires(t *testing.T) {
	repos := newMemStore().repos()
	ctx := context.Background()
	serving := NewExercicioService(repos.Exercicios, 0, 50*time.Millisecond)
	importer := NewExercicioService(repos.Exercicios, 0, 0)

	before, err := serving.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, before)
	cats, err := serving.Categorias(ctx)
	require.NoError(t, err)
	assert.Empty(t, cats)

	_, err = importer.Import(ctx, strings.NewReader(`[{"id": "Plank", "name": "Plank", "category": "strength"}]`))
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		list, err := serving.List(ctx)
		return err == nil && len(list) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool {
		cats, err := serving.Categorias(ctx)
		return err == nil && len(cats) == 1
	}, 2*time.Second, 10*time.Millisecond)
	byCat, err := serving.PorCategoria(ctx, "strength")
	require.NoError(t, err)
	assert.Len(t, byCat, 1)
}

func TestValidationCountsCharacters(t *testing.T) {
	form := api.AcademiaForm{
		NomeFantasia: "Academia Força",
		CNPJ:         "Nº 12.345.678/0001",
		Telefone:     "ramal ção 12345",
	}
	require.Greater(t, len(form.CNPJ), 18)
	require.Greater(t, len(form.Telefone), 15)
	assert.NoError(t, validateAcademia(form))

	form.CNPJ += "9"
	form.Telefone += "9"
	err := validateAcademia(form)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "cnpj")
	assert.Contains(t, verr.Fields, "telefone")

	assert.False(t, tooLong("10-12 sé", 8))
	assert.True(t, tooLong("10-12 sés", 8))
	assert.NoError(t, validateCREF("CREF 012345-G/SÃO PA"))
}
