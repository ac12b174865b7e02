package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/tteodorogustavo/athlos/pkg/api"
	"github.com/tteodorogustavo/athlos/pkg/client"
)

func newAcademiasCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "academias", Short: "Manage gyms"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List the gyms you can see",
		RunE: func(cmd *cobra.Command, args []string) error {
			academias, err := a.client.Academias.List(cmd.Context())
			if err != nil {
				return err
			}
			t := newTable(cmd.OutOrStdout(), "ID", "Nome", "CNPJ", "Telefone", "Alunos", "Personais")
			for _, ac := range academias {
				t.AppendRow(table.Row{ac.ID, ac.NomeFantasia, ac.CNPJ, ac.Telefone, ac.TotalAlunos, ac.TotalPersonais})
			}
			t.Render()
			return nil
		},
	}

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one gym",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := argID(args)
			if err != nil {
				return err
			}
			ac, err := a.client.Academias.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			renderFigures(cmd.OutOrStdout(), ac.NomeFantasia, [][2]any{
				{"ID", ac.ID},
				{"CNPJ", ac.CNPJ},
				{"Endereço", ac.Endereco},
				{"Telefone", ac.Telefone},
				{"Criada em", ac.DataCriacao.Format("02/01/2006")},
				{"Alunos", ac.TotalAlunos},
				{"Personais", ac.TotalPersonais},
			})
			return nil
		},
	}

	var form api.AcademiaForm
	create := &cobra.Command{
		Use:   "create",
		Short: "Register a gym",
		RunE: func(cmd *cobra.Command, args []string) error {
			ac, err := a.client.Academias.Create(cmd.Context(), form)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Academia %d criada: %s\n", ac.ID, ac.NomeFantasia)
			return nil
		},
	}
	create.Flags().StringVar(&form.NomeFantasia, "nome", "", "trade name")
	create.Flags().StringVar(&form.CNPJ, "cnpj", "", "CNPJ")
	create.Flags().StringVar(&form.Endereco, "endereco", "", "address")
	create.Flags().StringVar(&form.Telefone, "telefone", "", "phone")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a gym",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := argID(args)
			if err != nil {
				return err
			}
			if err := a.client.Academias.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Academia %d removida.\n", id)
			return nil
		},
	}

	cmd.AddCommand(list, get, create, del)
	return cmd
}

func newAlunosCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "alunos", Short: "Browse students"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List students",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := client.AlunoListOptions{
				Personal: optionalID(cmd.Flags(), "personal"),
				Academia: optionalID(cmd.Flags(), "academia"),
			}
			alunos, err := a.client.Alunos.List(cmd.Context(), opts)
			if err != nil {
				return err
			}
			t := newTable(cmd.OutOrStdout(), "ID", "Nome", "Email", "Academia", "Idade", "Treinos")
			for _, al := range alunos {
				idade := "-"
				if al.Idade != nil {
					idade = fmt.Sprint(*al.Idade)
				}
				t.AppendRow(table.Row{al.ID, al.Nome, al.Email, deref(al.AcademiaNome), idade, al.TotalTreinos})
			}
			t.Render()
			return nil
		},
	}
	list.Flags().Uint("personal", 0, "only students of this trainer")
	list.Flags().Uint("academia", 0, "only students of this gym")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one student",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := argID(args)
			if err != nil {
				return err
			}
			al, err := a.client.Alunos.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			personal, academia, nascimento := "-", "-", "-"
			if al.PersonalResponsavel != nil {
				personal = al.PersonalResponsavel.Nome
			}
			if al.Academia != nil {
				academia = al.Academia.NomeFantasia
			}
			if al.DataNascimento != nil {
				nascimento = al.DataNascimento.Format("02/01/2006")
			}
			renderFigures(cmd.OutOrStdout(), al.User.FullName, [][2]any{
				{"ID", al.User.ID},
				{"Email", al.User.Email},
				{"Personal", personal},
				{"Academia", academia},
				{"Nascimento", nascimento},
				{"Objetivo", deref(al.Objetivo)},
				{"Treinos", al.TotalTreinos},
			})
			return nil
		},
	}

	cmd.AddCommand(list, get)
	return cmd
}

func newPersonaisCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "personais", Short: "Browse trainers"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List trainers",
		RunE: func(cmd *cobra.Command, args []string) error {
			personais, err := a.client.Personais.List(cmd.Context(), optionalID(cmd.Flags(), "academia"))
			if err != nil {
				return err
			}
			t := newTable(cmd.OutOrStdout(), "ID", "Nome", "CREF", "Especialidade", "Alunos", "Treinos")
			for _, p := range personais {
				t.AppendRow(table.Row{p.ID, p.Nome, p.CREF, deref(p.Especialidade), p.TotalAlunos, p.TotalTreinos})
			}
			t.Render()
			return nil
		},
	}
	list.Flags().Uint("academia", 0, "only trainers of this gym")

	cmd.AddCommand(list)
	return cmd
}

func newTreinosCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "treinos", Short: "Browse workout plans"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List workout plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			treinos, err := a.client.Treinos.List(cmd.Context(), optionalID(cmd.Flags(), "aluno"))
			if err != nil {
				return err
			}
			t := newTable(cmd.OutOrStdout(), "ID", "Treino", "Aluno", "Personal", "Exercícios", "Status", "Criado em")
			for _, tr := range treinos {
				t.AppendRow(table.Row{tr.ID, tr.NomeTreino, tr.AlunoNome, deref(tr.PersonalNome),
					tr.TotalExercicios, ativo(tr.Ativo), tr.DataCriacao.Format("02/01/2006")})
			}
			t.Render()
			return nil
		},
	}
	list.Flags().Uint("aluno", 0, "only plans of this student")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a workout plan and its exercises",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := argID(args)
			if err != nil {
				return err
			}
			tr, err := a.client.Treinos.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			personal := "-"
			if tr.PersonalCriador != nil {
				personal = tr.PersonalCriador.Nome
			}
			renderFigures(out, tr.NomeTreino, [][2]any{
				{"Aluno", tr.Aluno.Nome},
				{"Personal", personal},
				{"Status", ativo(tr.Ativo)},
				{"Descrição", deref(tr.Descricao)},
			})
			t := newTable(out, "#", "Exercício", "Séries", "Repetições", "Carga (kg)", "Observações")
			for _, it := range tr.Itens {
				carga := "-"
				if it.CargaKg != nil {
					carga = fmt.Sprint(*it.CargaKg)
				}
				t.AppendRow(table.Row{it.Ordem, it.Exercicio.Nome, it.Series, it.Repeticoes, carga, deref(it.Observacoes)})
			}
			t.Render()
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a workout plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := argID(args)
			if err != nil {
				return err
			}
			if err := a.client.Treinos.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Treino %d removido.\n", id)
			return nil
		},
	}

	cmd.AddCommand(list, get, del)
	return cmd
}

func newExerciciosCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "exercicios", Short: "Browse the exercise catalog"}

	var categoria string
	list := &cobra.Command{
		Use:   "list",
		Short: "List exercises",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				exercicios []api.ExercicioSummary
				err        error
			)
			if categoria != "" {
				exercicios, err = a.client.Exercicios.PorCategoria(cmd.Context(), categoria)
			} else {
				exercicios, err = a.client.Exercicios.List(cmd.Context())
			}
			if err != nil {
				return err
			}
			t := newTable(cmd.OutOrStdout(), "ID", "Nome", "Categoria", "Equipamento", "Nível", "Músculos")
			for _, e := range exercicios {
				t.AppendRow(table.Row{e.ID, e.Nome, deref(e.Category), deref(e.Equipment), deref(e.Level),
					strings.Join(e.PrimaryMuscles, ", ")})
			}
			t.Render()
			return nil
		},
	}
	list.Flags().StringVar(&categoria, "categoria", "", "only this category (case-insensitive)")

	categorias := &cobra.Command{
		Use:   "categorias",
		Short: "List the catalog categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cats, err := a.client.Exercicios.Categorias(cmd.Context())
			if err != nil {
				return err
			}
			for _, c := range cats {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		},
	}

	cmd.AddCommand(list, categorias)
	return cmd
}
