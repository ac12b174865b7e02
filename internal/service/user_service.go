package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/tteodorogustavo/athlos/internal/auth"
	"github.com/tteodorogustavo/athlos/internal/models"
	"github.com/tteodorogustavo/athlos/internal/repository"
	"github.com/tteodorogustavo/athlos/pkg/api"
	"github.com/tteodorogustavo/athlos/pkg/utils"
)

const (
	minPasswordLen        = 8
	defaultEspecialidade  = "A definir"
	defaultCREFFormat     = "CREF-%06d"
	maxUsernameCollisions = 1000
)

type UserService struct {
	repos *repository.Repositories
}

func NewUserService(repos *repository.Repositories) *UserService {
	return &UserService{repos: repos}
}

// CreateUser creates an account with the profile its type requires.
func (s *UserService) CreateUser(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	var user *models.User
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		var err error
		user, err = createAccount(ctx, tx, dto)
		return err
	})
	return user, err
}

// ChangeUserType switches the account type and keeps the profiles in line.
func (s *UserService) ChangeUserType(ctx context.Context, id uint, userType api.UserType) (*models.User, error) {
	if !userType.Valid() {
		return nil, invalid("user_type", fmt.Sprintf("%q não é um tipo válido.", userType))
	}
	var user *models.User
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		var err error
		user, err = tx.Users.FindByID(ctx, id)
		if err != nil {
			return err
		}
		user.UserType = userType
		if err := tx.Users.Update(ctx, user); err != nil {
			return err
		}
		return syncProfile(ctx, tx, user)
	})
	return user, err
}

func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.repos.Users.FindAll(ctx)
}

func createAccount(ctx context.Context, tx *repository.Repositories, dto CreateUserDTO) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(dto.Email))
	verr := &ValidationError{}
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		verr.Add("email", "Insira um endereço de email válido.")
	}
	if len(dto.Password) < minPasswordLen {
		verr.Add("password", fmt.Sprintf("A senha deve ter pelo menos %d caracteres.", minPasswordLen))
	}
	if dto.UserType == "" {
		dto.UserType = api.UserTypeAluno
	}
	if !dto.UserType.Valid() {
		verr.Add("user_type", fmt.Sprintf("%q não é um tipo válido.", dto.UserType))
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	_, err := tx.Users.FindByEmail(ctx, email)
	if err == nil {
		return nil, invalid("email", "Já existe um usuário com este email.")
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	username, err := deriveUsername(ctx, tx.Users, email)
	if err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(dto.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(dto.FirstName),
		LastName:     strings.TrimSpace(dto.LastName),
		UserType:     dto.UserType,
		AcademiaID:   dto.AcademiaID,
		IsActive:     true,
	}
	if err := tx.Users.Create(ctx, user); err != nil {
		return nil, err
	}
	if err := syncProfile(ctx, tx, user); err != nil {
		return nil, err
	}

	utils.Log.Info("User created",
		zap.Uint("user_id", user.ID),
		zap.String("username", user.Username),
		zap.String("user_type", string(user.UserType)),
	)
	return user, nil
}

// deriveUsername takes the email local part and appends the first free
// numeric suffix on collision.
func deriveUsername(ctx context.Context, users repository.UserRepository, email string) (string, error) {
	base := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		base = email[:at]
	}
	candidate := base
	for i := 1; i <= maxUsernameCollisions; i++ {
		taken, err := users.UsernameExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = base + strconv.Itoa(i)
	}
	return "", fmt.Errorf("no free username for %q", base)
}

// syncProfile makes the profile rows match the account type: an ALUNO has
// an Aluno profile, a PERSONAL has a PersonalTrainer profile, admins have
// neither.
func syncProfile(ctx context.Context, tx *repository.Repositories, user *models.User) error {
	switch user.UserType {
	case api.UserTypeAluno:
		if err := tx.Alunos.FirstOrCreate(ctx, &models.Aluno{UserID: user.ID}); err != nil {
			return err
		}
		return tx.Personais.Delete(ctx, user.ID)
	case api.UserTypePersonal:
		esp := defaultEspecialidade
		personal := &models.PersonalTrainer{
			UserID:        user.ID,
			CREF:          fmt.Sprintf(defaultCREFFormat, user.ID),
			Especialidade: &esp,
		}
		if err := tx.Personais.FirstOrCreate(ctx, personal); err != nil {
			return err
		}
		return tx.Alunos.Delete(ctx, user.ID)
	default:
		if err := tx.Alunos.Delete(ctx, user.ID); err != nil {
			return err
		}
		return tx.Personais.Delete(ctx, user.ID)
	}
}
