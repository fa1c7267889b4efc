package postgres

import (
	"context"
	"embed"
	"log/slog"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const baseSchemaFile = "schema/alerts.sql"

//go:embed schema/*.sql
var schemaFS embed.FS

// Migrate applies the alerts table DDL followed by the spatial backend's DDL.
// Every statement is idempotent, so running it on each start is safe.
func Migrate(ctx context.Context, db *gorm.DB, index SpatialIndex, logger *slog.Logger) error {
	for _, file := range []string{baseSchemaFile, index.SchemaFile()} {
		statements, err := readStatements(file)
		if err != nil {
			return err
		}

		for _, statement := range statements {
			if err := db.WithContext(ctx).Exec(statement).Error; err != nil {
				return errors.Wrapf(err, "failed to apply %s", file)
			}
		}

		logger.Info("Applied schema", slog.String("file", file), slog.Int("statements", len(statements)))
	}

	return nil
}

func readStatements(file string) ([]string, error) {
	raw, err := schemaFS.ReadFile(file)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", file)
	}

	var statements []string
	for _, part := range strings.Split(string(raw), ";") {
		if statement := strings.TrimSpace(part); statement != "" {
			statements = append(statements, statement)
		}
	}

	return statements, nil
}
