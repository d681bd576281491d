// Command importdata loads catalog rows from a CSV-like file.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var file, table string

	cmd := &cobra.Command{
		Use:   "importdata",
		Short: "Import catalog data",
		Long:  "Import catalog data from a file of comma separated rows. Only the ingredient table is supported.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if table != "ingredient" {
				return fmt.Errorf("unsupported table %q", table)
			}

			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()

			rows, err := parseIngredients(f)
			if err != nil {
				return err
			}

			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

			db, err := database.Open(cfg)
			if err != nil {
				return err
			}
			if err := database.RunMigrations(db, cfg.MigrationsDir); err != nil {
				return err
			}

			created, err := service.NewCatalogService(db).ImportIngredients(context.Background(), rows)
			if err != nil {
				return err
			}
			logging.Info("ingredients imported", map[string]interface{}{"rows": len(rows), "created": created})
			fmt.Fprintln(cmd.OutOrStdout(), "done")
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "path to the data file")
	cmd.Flags().StringVarP(&table, "table", "t", "", "target table (ingredient)")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("table")
	return cmd
}

// parseIngredients reads "name,unit" lines. Fields are taken as written; extra
// comma-separated fields after the unit are ignored. Blank lines are skipped.
func parseIngredients(r io.Reader) ([]models.Ingredient, error) {
	var rows []models.Ingredient
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r\n")
		if strings.TrimSpace(text) == "" {
			continue
		}
		fields := strings.Split(text, ",")
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: expected name,unit", line)
		}
		rows = append(rows, models.Ingredient{Name: fields[0], MeasurementUnit: fields[1]})
	}
	return rows, scanner.Err()
}
