package repository

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tteodorogustavo/athlos/internal/database"
	"github.com/tteodorogustavo/athlos/internal/models"
	"github.com/tteodorogustavo/athlos/pkg/api"
)

func setupTestDB(t *testing.T) *gorm.DB {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.NewPostgres(context.Background(), dsn, database.Options{})
	require.NoError(t, err)

	err = database.AutoMigrateTables(db, models.All()...)
	require.NoError(t, err)

	// Clean tables before each test
	db.Exec("TRUNCATE itens_treino, treinos, exercicios, alunos, personal_trainers, users, academias RESTART IDENTITY CASCADE")

	return db
}

func ptr[T any](v T) *T { return &v }

func seedUser(t *testing.T, repos *Repositories, email string, typ api.UserType, academiaID *uint) *models.User {
	u := &models.User{Email: email, Username: email, PasswordHash: "x", UserType: typ, AcademiaID: academiaID, IsActive: true}
	require.NoError(t, repos.Users.Create(context.Background(), u))
	return u
}

func TestScopedAlunosAndTreinos(t *testing.T) {
	db := setupTestDB(t)
	repos := New(db)
	ctx := context.Background()

	academia := &models.Academia{NomeFantasia: "Forca Total", CNPJ: "11.111.111/0001-11"}
	require.NoError(t, repos.Academias.Create(ctx, academia))

	pu := seedUser(t, repos, "personal@athlos.dev", api.UserTypePersonal, &academia.ID)
	require.NoError(t, repos.Personais.FirstOrCreate(ctx, &models.PersonalTrainer{UserID: pu.ID, CREF: "CREF-000001"}))

	au := seedUser(t, repos, "aluno@athlos.dev", api.UserTypeAluno, nil)
	require.NoError(t, repos.Alunos.FirstOrCreate(ctx, &models.Aluno{UserID: au.ID, PersonalResponsavelID: &pu.ID, AcademiaID: &academia.ID}))
	other := seedUser(t, repos, "outro@athlos.dev", api.UserTypeAluno, nil)
	require.NoError(t, repos.Alunos.FirstOrCreate(ctx, &models.Aluno{UserID: other.ID}))

	mine, err := repos.Alunos.FindAll(ctx, AlunoFilter{PersonalID: &pu.ID})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "aluno@athlos.dev", mine[0].User.Email)
	assert.Equal(t, "Forca Total", mine[0].Academia.NomeFantasia)

	academias, err := repos.Academias.FindAll(ctx, AcademiaFilter{PersonalID: &pu.ID})
	require.NoError(t, err)
	assert.Len(t, academias, 1)

	supino := &models.Exercicio{Nome: "Supino", Category: ptr("strength")}
	created, err := repos.Exercicios.Upsert(ctx, supino)
	require.NoError(t, err)
	assert.True(t, created)

	treino := &models.Treino{
		AlunoID:           au.ID,
		PersonalCriadorID: &pu.ID,
		NomeTreino:        "Treino A",
		Ativo:             true,
		Itens:             []models.ItemTreino{{ExercicioID: supino.ID, Series: 3, Repeticoes: "10-12", CargaKg: ptr(40)}},
	}
	require.NoError(t, repos.Treinos.Create(ctx, treino))

	byAcademia, err := repos.Treinos.FindAll(ctx, TreinoFilter{AcademiaID: &academia.ID})
	require.NoError(t, err)
	require.Len(t, byAcademia, 1)
	require.Len(t, byAcademia[0].Itens, 1)
	assert.Equal(t, "Supino", byAcademia[0].Itens[0].Exercicio.Nome)

	treino.Itens = []models.ItemTreino{{ExercicioID: supino.ID, Series: 4, Repeticoes: "8"}}
	require.NoError(t, repos.Treinos.Update(ctx, treino, true))

	got, err := repos.Treinos.FindByID(ctx, treino.ID, TreinoFilter{})
	require.NoError(t, err)
	require.Len(t, got.Itens, 1)
	assert.Equal(t, 4, got.Itens[0].Series)

	counts, err := repos.Treinos.CountByAluno(ctx, []uint{au.ID, other.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[au.ID])
	assert.Zero(t, counts[other.ID])

	personais, err := repos.Users.CountPersonaisByAcademia(ctx, []uint{academia.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), personais[academia.ID])
}

func TestExercicioCatalog(t *testing.T) {
	db := setupTestDB(t)
	repos := New(db)
	ctx := context.Background()

	for _, e := range []*models.Exercicio{
		{Nome: "Agachamento", Category: ptr("Strength")},
		{Nome: "Corrida", Category: ptr("cardio")},
		{Nome: "Prancha"},
	} {
		_, err := repos.Exercicios.Upsert(ctx, e)
		require.NoError(t, err)
	}

	created, err := repos.Exercicios.Upsert(ctx, &models.Exercicio{Nome: "Corrida", Category: ptr("cardio"), Level: ptr("beginner")})
	require.NoError(t, err)
	assert.False(t, created)

	categorias, err := repos.Exercicios.Categorias(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Strength", "cardio"}, categorias)

	strength, err := repos.Exercicios.FindByCategoria(ctx, "strength")
	require.NoError(t, err)
	require.Len(t, strength, 1)
	assert.Equal(t, "Agachamento", strength[0].Nome)

	_, err = repos.Exercicios.FindByID(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}
