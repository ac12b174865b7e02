package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tteodorogustavo/athlos/internal/repository"
	"github.com/tteodorogustavo/athlos/internal/service"
	"github.com/tteodorogustavo/athlos/pkg/api"
)

var createUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Create an account (and its profile) directly in the database",
	Example: `  athlos-api create-user --email root@athlos.dev --type ADMIN_SISTEMA
  athlos-api create-user --email ana@athlos.dev --first-name Ana --academia 1`,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		email, _ := flags.GetString("email")
		password, _ := flags.GetString("password")
		firstName, _ := flags.GetString("first-name")
		lastName, _ := flags.GetString("last-name")
		userType, _ := flags.GetString("type")

		if password == "" {
			var err error
			if password, err = promptPassword(cmd); err != nil {
				return err
			}
		}

		dto := service.CreateUserDTO{
			Email:     email,
			Password:  password,
			FirstName: firstName,
			LastName:  lastName,
			UserType:  api.UserType(strings.ToUpper(userType)),
		}
		if flags.Changed("academia") {
			id, _ := flags.GetUint("academia")
			dto.AcademiaID = &id
		}

		db, err := openDB(cmd.Context(), true)
		if err != nil {
			return err
		}
		user, err := service.NewUserService(repository.New(db)).CreateUser(cmd.Context(), dto)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Usuário %d criado: %s (%s)\n", user.ID, user.Email, user.UserType.Label())
		return nil
	},
}

func promptPassword(cmd *cobra.Command) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("--password is required when stdin is not a terminal")
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Senha: ")
	pw, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

func init() {
	f := createUserCmd.Flags()
	f.String("email", "", "account email")
	f.String("password", "", "password (prompted when omitted)")
	f.String("first-name", "", "first name")
	f.String("last-name", "", "last name")
	f.String("type", string(api.UserTypeAluno), "ADMIN_SISTEMA, ADMIN, PERSONAL or ALUNO")
	f.Uint("academia", 0, "academia id")
	_ = createUserCmd.MarkFlagRequired("email")
}
