package ddl

import (
	"context"
	"fmt"
	"strings"

	gddl "seedqa/internal/ddl"
	"seedqa/internal/storage"
)

// BuildCreateTableSQL returns a T-SQL script that creates the table when it
// does not exist. T-SQL has no CREATE TABLE IF NOT EXISTS, so the statement
// is wrapped in an OBJECT_ID guard:
//
//	IF OBJECT_ID(N'[dbo].[samples]', N'U') IS NULL
//	BEGIN
//	  CREATE TABLE [dbo].[samples] (
//	    [col1] TYPE,
//	    ...
//	  );
//	END;
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("mssql ddl: table FQN must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("mssql ddl: at least one column is required")
	}
	cols := make([]string, 0, len(t.Columns)+1)
	var pks []string
	for _, c := range t.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return "", fmt.Errorf("mssql ddl: column with empty name in table %s", fqn)
		}
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" {
			return "", fmt.Errorf("mssql ddl: column %s missing SQLType", name)
		}
		col := QuoteIdent(name) + " " + typ
		if c.Nullable && !c.PrimaryKey {
			col += " NULL"
		} else {
			col += " NOT NULL"
		}
		if def := strings.TrimSpace(c.Default); def != "" {
			col += " DEFAULT " + def
		}
		cols = append(cols, col)
		if c.PrimaryKey {
			pks = append(pks, QuoteIdent(name))
		}
	}
	if len(pks) > 0 {
		cols = append(cols, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pks, ", ")))
	}
	q := QuoteFQN(fqn)
	return fmt.Sprintf(
		"IF OBJECT_ID(N'%s', N'U') IS NULL\nBEGIN\n  CREATE TABLE %s (\n    %s\n  );\nEND;",
		q, q, strings.Join(cols, ",\n    "),
	), nil
}

// EnsureTable creates def through repo.Exec if it does not exist.
func EnsureTable(ctx context.Context, repo storage.Repository, def gddl.TableDef) error {
	sql, err := BuildCreateTableSQL(def)
	if err != nil {
		return err
	}
	return repo.Exec(ctx, sql)
}

// QuoteIdent bracket-quotes one identifier: weird]id -> [weird]]id].
func QuoteIdent(id string) string {
	return "[" + strings.ReplaceAll(id, "]", "]]") + "]"
}

// QuoteFQN quotes each dotted segment: dbo.samples -> [dbo].[samples].
func QuoteFQN(fqn string) string {
	parts := strings.Split(fqn, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, QuoteIdent(p))
		}
	}
	return strings.Join(out, ".")
}
