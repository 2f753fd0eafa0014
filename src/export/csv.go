// Package export hands validated datasets to the outside world: one CSV
// file per form kind for spreadsheet/BI consumption, plus a sqlite
// artifact with the same tables. Export sinks never see an unvalidated
// dataset; the engine fails closed before reaching here.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/username/syndforge/src/logger"
	"github.com/username/syndforge/src/models"
)

// WriteCSV writes every table of the dataset to dir, one file per form.
func WriteCSV(dir string, ds *models.Dataset) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %q: %w", dir, err)
	}

	for _, table := range tablesInOrder(ds) {
		path := filepath.Join(dir, table.Form+".csv")
		if err := writeTableCSV(path, table); err != nil {
			return err
		}
		logger.L.Info("Exported CSV", "form", table.Form, "path", path, "rows", len(table.Rows))
	}
	return nil
}

func writeTableCSV(path string, table *models.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %q: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(table.Columns); err != nil {
		return fmt.Errorf("writing header for %s: %w", table.Form, err)
	}

	row := make([]string, len(table.Columns))
	for _, r := range table.Rows {
		for i, column := range table.Columns {
			row[i] = formatCell(r.Fields[column])
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing row for %s: %w", table.Form, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing %q: %w", path, err)
	}
	return nil
}

func formatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', 2, 64)
	default:
		return fmt.Sprint(val)
	}
}

func tablesInOrder(ds *models.Dataset) []*models.Table {
	names := make([]string, 0, len(ds.Tables))
	for name := range ds.Tables {
		names = append(names, name)
	}
	sort.Strings(names)
	tables := make([]*models.Table, 0, len(names))
	for _, name := range names {
		tables = append(tables, ds.Tables[name])
	}
	return tables
}
