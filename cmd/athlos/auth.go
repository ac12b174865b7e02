package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newLoginCmd(a *app) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Start a session",
		RunE: func(cmd *cobra.Command, args []string) error {
			src := cmd.InOrStdin()
			in := bufio.NewReader(src)
			var err error
			if email == "" {
				if email, err = promptLine(cmd.ErrOrStderr(), in, "Email: "); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = promptSecret(cmd.ErrOrStderr(), src, in, "Senha: "); err != nil {
					return err
				}
			}

			session, err := a.client.Login(cmd.Context(), email, password)
			if err != nil {
				return errors.Wrap(err, "login")
			}
			u := session.User
			name := strings.TrimSpace(u.FirstName + " " + u.LastName)
			if name == "" {
				name = u.Email
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\nPainel: %s\n",
				color.GreenString("Bem-vindo,"), name, u.UserType.Label(), session.Route)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email (prompted when omitted)")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted without echo when omitted)")
	return cmd
}

func promptLine(out io.Writer, in *bufio.Reader, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", errors.Wrap(err, "read input")
	}
	return strings.TrimSpace(line), nil
}

// promptSecret reads without echo when src is a terminal and falls back to a
// plain line otherwise.
func promptSecret(out io.Writer, src io.Reader, in *bufio.Reader, label string) (string, error) {
	f, ok := src.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return promptLine(out, in, label)
	}
	fmt.Fprint(out, label)
	pw, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(out)
	if err != nil {
		return "", errors.Wrap(err, "read password")
	}
	return string(pw), nil
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget the tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.nav.silence()
			a.client.Logout()
			fmt.Fprintln(cmd.OutOrStdout(), "Sessão encerrada.")
			return nil
		},
	}
}

func newMeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the logged in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			me, err := a.client.Me(cmd.Context())
			if err != nil {
				return err
			}
			renderFigures(cmd.OutOrStdout(), "Conta", [][2]any{
				{"ID", me.ID},
				{"Nome", me.FullName},
				{"Email", me.Email},
				{"Perfil", me.UserType.Label()},
				{"Desde", me.DateJoined.Format("02/01/2006")},
			})
			return nil
		},
	}
}
