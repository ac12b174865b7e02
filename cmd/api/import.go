package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tteodorogustavo/athlos/internal/repository"
	"github.com/tteodorogustavo/athlos/internal/service"
)

var importCmd = &cobra.Command{
	Use:   "import-exercicios <file.json>",
	Short: "Upsert the exercise catalog from a JSON file",
	Long: `Reads a JSON array of exercises (id, name, force, level, mechanic,
equipment, category, primaryMuscles, secondaryMuscles, instructions, images)
and upserts each one by name. Entries that fail are logged and skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		db, err := openDB(cmd.Context(), true)
		if err != nil {
			return err
		}
		svc := service.NewExercicioService(repository.New(db).Exercicios, exercicioCacheSize, cfg.CatalogCacheTTL)
		res, err := svc.Import(cmd.Context(), f)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Importação concluída: %d criados, %d atualizados, %d com erro\n",
			res.Created, res.Updated, res.Failed)
		return nil
	},
}
