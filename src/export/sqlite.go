package export

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/username/syndforge/src/logger"
	"github.com/username/syndforge/src/models"
	_ "modernc.org/sqlite"
)

// WriteSQLite writes the dataset to a sqlite file, one table per form.
// The file is an export artifact, recreated from scratch every run.
func WriteSQLite(path string, ds *models.Dataset) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %q: %w", path, err)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing previous export %q: %w", path, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("opening sqlite export at %q: %w", path, err)
	}
	defer db.Close()

	for _, table := range tablesInOrder(ds) {
		if err := writeTableSQLite(db, table); err != nil {
			return err
		}
		logger.L.Info("Exported sqlite table", "form", table.Form, "rows", len(table.Rows))
	}
	return nil
}

func writeTableSQLite(db *sql.DB, table *models.Table) error {
	if _, err := db.Exec(createTableStatement(table)); err != nil {
		return fmt.Errorf("creating table %s: %w", table.Form, err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction for %s: %w", table.Form, err)
	}
	defer tx.Rollback()

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(table.Columns)), ", ")
	stmt, err := tx.Prepare(fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table.Form, strings.Join(table.Columns, ", "), placeholders))
	if err != nil {
		return fmt.Errorf("preparing insert for %s: %w", table.Form, err)
	}
	defer stmt.Close()

	args := make([]any, len(table.Columns))
	for _, row := range table.Rows {
		for i, column := range table.Columns {
			args[i] = row.Fields[column]
		}
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("inserting row into %s: %w", table.Form, err)
		}
	}
	return tx.Commit()
}

func createTableStatement(table *models.Table) string {
	var sample models.DerivedRecord
	if len(table.Rows) > 0 {
		sample = table.Rows[0]
	}

	cols := make([]string, 0, len(table.Columns))
	for _, column := range table.Columns {
		cols = append(cols, column+" "+sqliteType(sample.Fields[column]))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", table.Form, strings.Join(cols, ", "))
}

func sqliteType(v any) string {
	switch v.(type) {
	case float64:
		return "REAL"
	case int, int64:
		return "INTEGER"
	default:
		return "TEXT"
	}
}
