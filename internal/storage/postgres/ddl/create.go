package ddl

import (
	"context"
	"fmt"
	"sort"
	"strings"

	gddl "seedqa/internal/ddl"
	"seedqa/internal/storage"
)

// BuildCreateTableSQL returns a CREATE TABLE IF NOT EXISTS statement.
// Identifiers are double-quoted; primary-key columns are forced NOT NULL and
// the constraint lists them sorted so the output is deterministic.
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("postgres ddl: table FQN must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("postgres ddl: at least one column is required")
	}
	cols := make([]string, 0, len(t.Columns)+1)
	var pks []string
	for _, c := range t.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return "", fmt.Errorf("postgres ddl: column with empty name in table %s", fqn)
		}
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" {
			return "", fmt.Errorf("postgres ddl: column %s missing SQLType", name)
		}
		col := QuoteIdent(name) + " " + typ
		if !c.Nullable || c.PrimaryKey {
			col += " NOT NULL"
		}
		if def := strings.TrimSpace(c.Default); def != "" {
			col += " DEFAULT " + def
		}
		cols = append(cols, col)
		if c.PrimaryKey {
			pks = append(pks, name)
		}
	}
	if len(pks) > 0 {
		sort.Strings(pks)
		for i := range pks {
			pks[i] = QuoteIdent(pks[i])
		}
		cols = append(cols, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pks, ", ")))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n);", QuoteFQN(fqn), strings.Join(cols, ",\n  ")), nil
}

// EnsureTable creates def through repo.Exec if it does not exist.
func EnsureTable(ctx context.Context, repo storage.Repository, def gddl.TableDef) error {
	sql, err := BuildCreateTableSQL(def)
	if err != nil {
		return err
	}
	return repo.Exec(ctx, sql)
}

// QuoteIdent double-quotes one identifier, escaping embedded quotes.
func QuoteIdent(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }

// QuoteFQN quotes a possibly schema-qualified name: public.samples ->
// "public"."samples".
func QuoteFQN(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = QuoteIdent(strings.TrimSpace(p))
	}
	return strings.Join(parts, ".")
}
