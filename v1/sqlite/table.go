package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/Aleph-Alpha/agentmem/v1/engine"
	"github.com/Aleph-Alpha/agentmem/v1/schema"
)

// Table implements engine.Table on one SQL table.
type Table struct {
	db     *sql.DB
	name   string
	schema *schema.Schema
	embed  *engine.EmbeddingConfig
}

// Add inserts rows in a single transaction. Rows lacking a vector are
// embedded from the configured source column first, in one batched
// Generate call.
func (t *Table) Add(ctx context.Context, rows []engine.Row) error {
	if len(rows) == 0 {
		return nil
	}
	if err := t.fillVectors(ctx, rows); err != nil {
		return err
	}

	fields := t.schema.Fields()
	cols := make([]string, len(fields))
	marks := make([]string, len(fields))
	for i, f := range fields {
		ident, err := quoteIdent(f.Name)
		if err != nil {
			return err
		}
		cols[i] = ident
		marks[i] = "?"
	}
	ident, err := quoteIdent(t.name)
	if err != nil {
		return err
	}
	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		ident, strings.Join(cols, ", "), strings.Join(marks, ", "))

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: table %q: failed to begin insert: %w", t.name, err)
	}
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("sqlite: table %q: failed to prepare insert: %w", t.name, err)
	}
	defer stmt.Close()

	for _, row := range rows {
		args := make([]interface{}, len(fields))
		for i, f := range fields {
			args[i], err = encodeValue(f, row[f.Name])
			if err != nil {
				tx.Rollback()
				return fmt.Errorf("sqlite: table %q: %w", t.name, err)
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			tx.Rollback()
			return fmt.Errorf("sqlite: table %q: insert failed: %w", t.name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: table %q: failed to commit insert: %w", t.name, err)
	}
	return nil
}

// fillVectors generates vectors for rows that lack one, using the table's
// embedding config.
func (t *Table) fillVectors(ctx context.Context, rows []engine.Row) error {
	if t.embed == nil || t.embed.Function == nil {
		return nil
	}
	var pending []int
	var texts []string
	for i, row := range rows {
		if v, ok := row[t.embed.VectorColumn]; ok && v != nil {
			continue
		}
		text, _ := row[t.embed.SourceColumn].(string)
		if text == "" {
			return fmt.Errorf("sqlite: table %q: row has no vector and empty source column %q",
				t.name, t.embed.SourceColumn)
		}
		pending = append(pending, i)
		texts = append(texts, text)
	}
	if len(pending) == 0 {
		return nil
	}
	vectors, err := t.embed.Function.Generate(ctx, texts)
	if err != nil {
		return fmt.Errorf("sqlite: table %q: embedding failed: %w", t.name, err)
	}
	if len(vectors) != len(pending) {
		return fmt.Errorf("sqlite: table %q: embedder returned %d vectors for %d texts",
			t.name, len(vectors), len(pending))
	}
	for j, i := range pending {
		rows[i][t.embed.VectorColumn] = vectors[j]
	}
	return nil
}

// Update assigns values to every row matching the predicate.
func (t *Table) Update(ctx context.Context, values engine.Row, where string) error {
	if len(values) == 0 {
		return nil
	}
	ident, err := quoteIdent(t.name)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	sets := make([]string, 0, len(names))
	args := make([]interface{}, 0, len(names))
	for _, name := range names {
		f, ok := t.schema.Field(name)
		if !ok {
			return fmt.Errorf("sqlite: table %q: update of undeclared column %q", t.name, name)
		}
		col, err := quoteIdent(name)
		if err != nil {
			return err
		}
		arg, err := encodeValue(f, values[name])
		if err != nil {
			return fmt.Errorf("sqlite: table %q: %w", t.name, err)
		}
		sets = append(sets, col+" = ?")
		args = append(args, arg)
	}

	stmt := fmt.Sprintf("UPDATE %s SET %s", ident, strings.Join(sets, ", "))
	if where != "" {
		stmt += " WHERE " + where
	}
	if _, err := t.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("sqlite: table %q: update failed: %w", t.name, err)
	}
	return nil
}

// Delete removes every row matching the predicate. An empty predicate
// removes all rows.
func (t *Table) Delete(ctx context.Context, where string) error {
	ident, err := quoteIdent(t.name)
	if err != nil {
		return err
	}
	stmt := "DELETE FROM " + ident
	if where != "" {
		stmt += " WHERE " + where
	}
	if _, err := t.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("sqlite: table %q: delete failed: %w", t.name, err)
	}
	return nil
}

// CountRows counts rows, optionally restricted by a predicate.
func (t *Table) CountRows(ctx context.Context, where string) (int, error) {
	ident, err := quoteIdent(t.name)
	if err != nil {
		return 0, err
	}
	stmt := "SELECT COUNT(*) FROM " + ident
	if where != "" {
		stmt += " WHERE " + where
	}
	var n int
	if err := t.db.QueryRowContext(ctx, stmt).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite: table %q: count failed: %w", t.name, err)
	}
	return n, nil
}

// Search runs a similarity search. Text queries are embedded first;
// candidates matching the predicate are fetched, scored by exact cosine
// similarity, ordered nearest-first and truncated to the limit. Without a
// vector and text, Search degrades to a plain filtered scan in the
// table's native row order.
func (t *Table) Search(ctx context.Context, req engine.SearchRequest) ([]engine.Row, error) {
	query := req.Vector
	if query == nil && req.Text != "" {
		if t.embed == nil || t.embed.Function == nil {
			return nil, fmt.Errorf("sqlite: table %q: text search requires an embedding function", t.name)
		}
		vectors, err := t.embed.Function.Generate(ctx, []string{req.Text})
		if err != nil {
			return nil, fmt.Errorf("sqlite: table %q: query embedding failed: %w", t.name, err)
		}
		if len(vectors) != 1 {
			return nil, fmt.Errorf("sqlite: table %q: embedder returned %d vectors for one text",
				t.name, len(vectors))
		}
		query = vectors[0]
	}

	ident, err := quoteIdent(t.name)
	if err != nil {
		return nil, err
	}
	stmt := "SELECT * FROM " + ident
	if req.Where != "" {
		stmt += " WHERE " + req.Where
	}
	// Plain scans can push the limit into SQL; vector searches must score
	// every candidate before truncating.
	if query == nil && req.Limit > 0 {
		stmt += fmt.Sprintf(" LIMIT %d", req.Limit)
	}

	rows, err := t.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("sqlite: table %q: search failed: %w", t.name, err)
	}
	defer rows.Close()

	decoded, err := t.scanRows(rows)
	if err != nil {
		return nil, err
	}

	if query != nil {
		decoded = rankByCosine(decoded, query)
		if req.Limit > 0 && len(decoded) > req.Limit {
			decoded = decoded[:req.Limit]
		}
	}

	if req.Columns != nil {
		project(decoded, req.Columns)
	}
	return decoded, nil
}

// scanRows decodes every result row into an engine.Row. NULL columns are
// omitted from the map, so optional fields read as absent.
func (t *Table) scanRows(rows *sql.Rows) ([]engine.Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("sqlite: table %q: failed to read columns: %w", t.name, err)
	}

	var out []engine.Row
	for rows.Next() {
		raw := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("sqlite: table %q: failed to scan row: %w", t.name, err)
		}

		row := make(engine.Row, len(cols))
		for i, col := range cols {
			if raw[i] == nil {
				continue
			}
			f, ok := t.schema.Field(col)
			if !ok {
				continue
			}
			v, err := decodeValue(f, raw[i])
			if err != nil {
				return nil, fmt.Errorf("sqlite: table %q: column %q: %w", t.name, col, err)
			}
			row[col] = v
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// project strips every column not named in the projection.
func project(rows []engine.Row, columns []string) {
	keep := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		keep[c] = struct{}{}
	}
	for _, row := range rows {
		for col := range row {
			if _, ok := keep[col]; !ok {
				delete(row, col)
			}
		}
	}
}
