package migrate

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"
	"time"
)

var (
	nameSanitizeRe = regexp.MustCompile(`[^a-z0-9_]+`)
	createTableRe  = regexp.MustCompile(`^create_([a-z][a-z0-9_]*)$`)
	addColumnRe    = regexp.MustCompile(`^add_([a-z][a-z0-9_]*)_to_([a-z][a-z0-9_]*)$`)
)

// Every storefront table keys on a text id and carries gorm's timestamps.
var tableTmpl = template.Must(template.New("table").Parse(`-- +goose Up
-- +goose StatementBegin
CREATE TABLE IF NOT EXISTS {{.Table}} (
    id TEXT PRIMARY KEY,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
-- +goose StatementEnd

-- +goose Down
-- +goose StatementBegin
DROP TABLE IF EXISTS {{.Table}};
-- +goose StatementEnd
`))

var columnTmpl = template.Must(template.New("column").Parse(`-- +goose Up
-- +goose StatementBegin
ALTER TABLE {{.Table}} ADD COLUMN {{.Column}} TEXT;
-- +goose StatementEnd

-- +goose Down
-- +goose StatementBegin
ALTER TABLE {{.Table}} DROP COLUMN {{.Column}};
-- +goose StatementEnd
`))

var blankTmpl = template.Must(template.New("blank").Parse(`-- +goose Up
-- +goose StatementBegin
-- {{.Name}}
-- +goose StatementEnd

-- +goose Down
-- +goose StatementBegin
-- rollback {{.Name}}
-- +goose StatementEnd
`))

type migrationTemplateData struct {
	Name   string
	Table  string
	Column string
}

// CreateSQLMigration writes <dir>/<YYYYMMDDHHMMSS>_<name>.sql. Names shaped
// create_<table> or add_<column>_to_<table> get a DDL skeleton; others a
// blank goose file.
func CreateSQLMigration(dir string, name string) (string, error) {
	return createSQLMigrationAt(dir, name, time.Now())
}

func createSQLMigrationAt(dir, name string, now time.Time) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("dir is required")
	}
	safe := sanitizeMigrationName(name)
	if safe == "" {
		return "", fmt.Errorf("name %q results in empty sanitized filename", name)
	}

	body, err := renderMigration(safe)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %q: %w", dir, err)
	}

	fullpath := filepath.Join(dir, fmt.Sprintf("%s_%s.sql", now.UTC().Format("20060102150405"), safe))
	if _, err := os.Stat(fullpath); err == nil {
		return "", fmt.Errorf("migration already exists: %s", fullpath)
	}
	if err := os.WriteFile(fullpath, body, 0o644); err != nil {
		return "", fmt.Errorf("write migration %q: %w", fullpath, err)
	}
	return fullpath, nil
}

func sanitizeMigrationName(name string) string {
	safe := strings.ToLower(strings.TrimSpace(name))
	safe = strings.ReplaceAll(safe, " ", "_")
	safe = nameSanitizeRe.ReplaceAllString(safe, "_")
	return strings.Trim(safe, "_")
}

func renderMigration(name string) ([]byte, error) {
	tmpl, data := blankTmpl, migrationTemplateData{Name: name}
	if m := addColumnRe.FindStringSubmatch(name); m != nil {
		tmpl, data.Column, data.Table = columnTmpl, m[1], m[2]
	} else if m := createTableRe.FindStringSubmatch(name); m != nil {
		tmpl, data.Table = tableTmpl, m[1]
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render migration %q: %w", name, err)
	}
	return buf.Bytes(), nil
}
