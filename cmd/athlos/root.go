package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tteodorogustavo/athlos/internal/config"
	"github.com/tteodorogustavo/athlos/pkg/api"
	"github.com/tteodorogustavo/athlos/pkg/client"
	"github.com/tteodorogustavo/athlos/pkg/utils"
)

// app is the state shared by the subcommands of one invocation.
type app struct {
	apiURL    string
	tokenFile string

	client *client.Client
	nav    *cliNavigator
}

// cliNavigator turns the client's redirect to /login into a hint.
type cliNavigator struct {
	mu    sync.Mutex
	out   io.Writer
	quiet bool
}

func (n *cliNavigator) Navigate(route string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if route != api.RouteLogin || n.quiet {
		return
	}
	fmt.Fprintln(n.out, color.YellowString("Sessão encerrada. Entre novamente com: athlos login"))
}

func (n *cliNavigator) silence() {
	n.mu.Lock()
	n.quiet = true
	n.mu.Unlock()
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".athlos-tokens.json"
	}
	return filepath.Join(home, ".athlos", "tokens.json")
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "athlos",
		Short:         "Command line client for the Athlos API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.apiURL, "api", "", "API base URL (default from API_URL)")
	root.PersistentFlags().StringVar(&a.tokenFile, "token-file", defaultTokenFile(), "where the session tokens are kept")

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newMeCmd(a),
		newAcademiasCmd(a),
		newAlunosCmd(a),
		newPersonaisCmd(a),
		newTreinosCmd(a),
		newExerciciosCmd(a),
		newDashboardCmd(a),
		newRelatorioCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	if a.apiURL == "" {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		utils.Log.SetLevel(cfg.LogLevel)
		a.apiURL = cfg.APIURL
	}

	store, err := client.NewFileStore(a.tokenFile)
	if err != nil {
		return err
	}
	store.OnError = func(err error) {
		fmt.Fprintln(cmd.ErrOrStderr(), color.RedString("aviso:"), err)
	}

	a.nav = &cliNavigator{out: cmd.ErrOrStderr()}
	a.client = client.New(a.apiURL,
		client.WithTokenStore(store),
		client.WithNavigator(a.nav),
		client.WithLogger(utils.Log.Named("client").Zap()),
	)
	return nil
}

func argID(args []string) (uint, error) {
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil || id == 0 {
		return 0, errors.Errorf("id inválido: %q", args[0])
	}
	return uint(id), nil
}

// optionalID returns nil unless the flag was given.
func optionalID(fs *pflag.FlagSet, name string) *uint {
	if !fs.Changed(name) {
		return nil
	}
	id, err := fs.GetUint(name)
	if err != nil {
		return nil
	}
	return &id
}

func newTable(out io.Writer, header ...any) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row(header))
	style := table.StyleLight
	style.Options.DrawBorder = false
	t.SetStyle(style)
	return t
}

// renderFigures prints label/value pairs as a two column table.
func renderFigures(out io.Writer, title string, figures [][2]any) {
	fmt.Fprintln(out, color.New(color.Bold).Sprint(title))
	t := newTable(out, "Indicador", "Valor")
	for _, f := range figures {
		t.AppendRow(table.Row{f[0], f[1]})
	}
	t.Render()
}

func ativo(v bool) string {
	if v {
		return color.GreenString("ativo")
	}
	return color.HiBlackString("inativo")
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}
