// Package database implements the MySQL query tool. Connection parameters
// arrive per call; an explicitly owned pool holder reuses the pool while
// they match the previous call and is closed on process shutdown.
package database

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/atelierlabs/workbench/internal/tools"
	"github.com/atelierlabs/workbench/pkg/domain"
	"github.com/atelierlabs/workbench/pkg/registry"
	"github.com/atelierlabs/workbench/pkg/schema"
)

// Toolset exposes the database tools.
type Toolset struct {
	holder *Holder
}

// New creates the database toolset around holder.
func New(holder *Holder) *Toolset {
	return &Toolset{holder: holder}
}

// Register adds all database tools to reg.
func (t *Toolset) Register(reg *registry.Registry) error {
	return reg.RegisterAll(t.mysqlQuery())
}

func (t *Toolset) mysqlQuery() registry.Definition {
	return registry.Definition{
		Name:        "mysql_query",
		Description: "Run one SQL statement against a MySQL-compatible server. SELECT results are returned as JSON rows; other statements report the affected-row count.",
		Schema: schema.Schema{
			schema.String("host", "Server host").Def("127.0.0.1"),
			schema.Number("port", "Server port").Def(float64(3306)),
			schema.String("user", "Username").Req(),
			schema.String("password", "Password"),
			schema.String("database", "Schema name").Req(),
			schema.String("query", "SQL statement to execute").Req(),
		},
		Handler: func(ctx context.Context, args map[string]any) (domain.Result, error) {
			var in struct {
				Host     string  `json:"host"`
				Port     float64 `json:"port"`
				User     string  `json:"user"`
				Password string  `json:"password"`
				Database string  `json:"database"`
				Query    string  `json:"query"`
			}
			if err := tools.Decode(args, &in); err != nil {
				return domain.Result{}, err
			}

			if strings.TrimSpace(in.Query) == "" {
				return domain.Errorf(domain.FailureExecution, "query is empty"), nil
			}

			db, err := t.holder.Get(ctx, ConnParams{
				Host:     in.Host,
				Port:     int(in.Port),
				User:     in.User,
				Password: in.Password,
				Database: in.Database,
			})
			if err != nil {
				return domain.ErrorResult(domain.FailureExecution, err.Error()), nil
			}

			if isRowQuery(in.Query) {
				return runRows(ctx, db, in.Query)
			}
			return runExec(ctx, db, in.Query)
		},
	}
}

func isRowQuery(query string) bool {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return false
	}
	switch strings.ToUpper(fields[0]) {
	case "SELECT", "SHOW", "DESCRIBE", "DESC", "EXPLAIN":
		return true
	}
	return false
}

func runRows(ctx context.Context, db rowQuerier, query string) (domain.Result, error) {
	rows, err := db.QueryxContext(ctx, query)
	if err != nil {
		return domain.Errorf(domain.FailureExecution, "query failed: %v", err), nil
	}
	defer rows.Close()

	var out []map[string]any
	for rows.Next() {
		row := map[string]any{}
		if err := rows.MapScan(row); err != nil {
			return domain.Errorf(domain.FailureExecution, "scanning row: %v", err), nil
		}
		for k, v := range row {
			// The driver returns []byte for text columns.
			if b, ok := v.([]byte); ok {
				row[k] = string(b)
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return domain.Errorf(domain.FailureExecution, "reading rows: %v", err), nil
	}

	data, err := json.Marshal(out)
	if err != nil {
		return domain.Errorf(domain.FailureExecution, "encoding rows: %v", err), nil
	}
	return domain.TextResult(fmt.Sprintf("%d rows\n%s", len(out), data)), nil
}

func runExec(ctx context.Context, db execer, query string) (domain.Result, error) {
	res, err := db.ExecContext(ctx, query)
	if err != nil {
		return domain.Errorf(domain.FailureExecution, "statement failed: %v", err), nil
	}
	affected, err := res.RowsAffected()
	if err != nil {
		affected = -1
	}
	return domain.TextResult(fmt.Sprintf("%d rows affected", affected)), nil
}
