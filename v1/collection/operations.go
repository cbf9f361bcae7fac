package collection

import (
	"context"
	"fmt"
	"time"

	"github.com/Aleph-Alpha/agentmem/v1/engine"
	"github.com/Aleph-Alpha/agentmem/v1/errs"
	"github.com/Aleph-Alpha/agentmem/v1/filter"
	"github.com/Aleph-Alpha/agentmem/v1/schema"
)

// defaultQueryK caps result sets when the caller does not ask for a
// specific number of neighbors.
const defaultQueryK = 5

// Add prepares and inserts one entry, returning its id.
func (c *Collection) Add(ctx context.Context, fields map[string]interface{}) (id string, err error) {
	defer c.observe("add", "", time.Now(), 1, &err)

	entry, err := c.prepare(fields)
	if err != nil {
		return "", err
	}
	id, _ = entry[schema.FieldID].(string)
	if err := c.table.Add(ctx, []engine.Row{entry}); err != nil {
		return "", errs.Wrap(errs.ErrOperation, err,
			"collection %q, id %q: add failed", c.name, id)
	}
	c.logger.Debug("added entry", nil, map[string]interface{}{
		"collection": c.name,
		"id":         id,
	})
	return id, nil
}

// AddBatch prepares and inserts a batch of entries in one engine write,
// returning their ids in input order. The whole batch is validated
// before anything is written: one bad entry rejects the batch and the
// collection is left unchanged.
func (c *Collection) AddBatch(ctx context.Context, batch []map[string]interface{}) (ids []string, err error) {
	defer c.observe("add_batch", "", time.Now(), int64(len(batch)), &err)

	if len(batch) == 0 {
		return nil, nil
	}
	rows := make([]engine.Row, len(batch))
	ids = make([]string, len(batch))
	for i, fields := range batch {
		entry, err := c.prepare(fields)
		if err != nil {
			return nil, fmt.Errorf("batch entry %d: %w", i, err)
		}
		rows[i] = entry
		ids[i], _ = entry[schema.FieldID].(string)
	}
	if err := c.table.Add(ctx, rows); err != nil {
		return nil, errs.Wrap(errs.ErrOperation, err,
			"collection %q: batch add of %d entries failed", c.name, len(rows))
	}
	c.logger.Debug("added entry batch", nil, map[string]interface{}{
		"collection": c.name,
		"count":      len(rows),
	})
	return ids, nil
}

// QueryRequest describes one similarity query.
type QueryRequest struct {
	// Vector is the query embedding. Exactly one of Vector and Text must
	// be provided; Vector wins when both are set.
	Vector []float32

	// Text is a text query, embedded through the collection's embedding
	// function.
	Text string

	// K caps the number of returned entries; zero or negative means the
	// default of 5.
	K int

	// Filter optionally restricts candidates before ranking.
	Filter filter.Condition

	// SelectColumns optionally projects the returned entries; nil returns
	// all fields.
	SelectColumns []string

	// IncludeVector keeps the stored vector in the results. By default it
	// is stripped.
	IncludeVector bool
}

// Query runs a similarity search and returns matching entries
// nearest-first. When access-time bookkeeping is enabled, every
// returned entry's timestamp_last_accessed is bumped as a best-effort
// side effect.
func (c *Collection) Query(ctx context.Context, req QueryRequest) (results []map[string]interface{}, err error) {
	defer c.observe("query", "", time.Now(), 0, &err)

	if req.Vector == nil && req.Text == "" {
		return nil, errs.Queryf("collection %q: query requires a vector or text", c.name)
	}
	if req.Vector == nil && c.embedder == nil {
		return nil, errs.Embeddingf(
			"collection %q: text query requires an embedding function", c.name)
	}
	if req.Vector != nil && len(req.Vector) != c.schema.Dimension() {
		return nil, errs.Schemaf(
			"collection %q: query vector length %d does not match dimension %d",
			c.name, len(req.Vector), c.schema.Dimension())
	}

	where, err := filter.Compile(req.Filter)
	if err != nil {
		return nil, fmt.Errorf("collection %q: %w", c.name, err)
	}

	k := req.K
	if k <= 0 {
		k = defaultQueryK
	}

	columns := req.SelectColumns
	if columns != nil && req.IncludeVector && !contains(columns, schema.FieldVector) {
		columns = append(append([]string(nil), columns...), schema.FieldVector)
	}

	rows, err := c.table.Search(ctx, engine.SearchRequest{
		Vector:  req.Vector,
		Text:    req.Text,
		Limit:   k,
		Where:   where,
		Columns: columns,
	})
	if err != nil {
		return nil, errs.Wrap(errs.ErrQuery, err,
			"collection %q: query failed (filter: %s)", c.name, orNone(where))
	}

	if !req.IncludeVector && !contains(req.SelectColumns, schema.FieldVector) {
		for _, row := range rows {
			delete(row, schema.FieldVector)
		}
	}

	c.touch(ctx, rows, req.SelectColumns)
	return rows, nil
}

// GetByID fetches one entry by id, or nil when absent. Engine failures
// are logged and reported as absence so point lookups stay total.
func (c *Collection) GetByID(ctx context.Context, id string, selectColumns []string) (entry map[string]interface{}, err error) {
	defer c.observe("get_by_id", "", time.Now(), 1, &err)

	where, err := filter.Compile(filter.Eq{Field: schema.FieldID, Value: id})
	if err != nil {
		return nil, fmt.Errorf("collection %q: %w", c.name, err)
	}
	rows, searchErr := c.table.Search(ctx, engine.SearchRequest{
		Limit:   1,
		Where:   where,
		Columns: selectColumns,
	})
	if searchErr != nil {
		c.logger.Warn("point lookup failed, reporting entry as absent", searchErr,
			map[string]interface{}{"collection": c.name, "id": id})
		return nil, nil
	}
	if len(rows) == 0 {
		return nil, nil
	}

	row := rows[0]
	if !contains(selectColumns, schema.FieldVector) {
		delete(row, schema.FieldVector)
	}
	// The id is known here even when a projection excluded it from the row.
	c.touchIDs(ctx, []string{id}, rows[:1], selectColumns)
	return row, nil
}

// Delete removes entries by id, by filter, or by both combined with
// AND, returning the number of entries removed.
func (c *Collection) Delete(ctx context.Context, id string, cond filter.Condition) (deleted int, err error) {
	defer c.observe("delete", "", time.Now(), 0, &err)

	if id == "" && cond == nil {
		return 0, errs.Operationf("collection %q: delete requires an id or a filter", c.name)
	}

	var parts []string
	if id != "" {
		idWhere, err := filter.Compile(filter.Eq{Field: schema.FieldID, Value: id})
		if err != nil {
			return 0, fmt.Errorf("collection %q: %w", c.name, err)
		}
		parts = append(parts, idWhere)
	}
	if cond != nil {
		condWhere, err := filter.Compile(cond)
		if err != nil {
			return 0, fmt.Errorf("collection %q: %w", c.name, err)
		}
		if condWhere != "" {
			parts = append(parts, condWhere)
		}
	}
	where := combineAnd(parts)

	n, err := c.table.CountRows(ctx, where)
	if err != nil {
		return 0, errs.Wrap(errs.ErrOperation, err,
			"collection %q: failed to count entries for deletion (filter: %s)", c.name, orNone(where))
	}
	if n == 0 {
		return 0, nil
	}
	if err := c.table.Delete(ctx, where); err != nil {
		return 0, errs.Wrap(errs.ErrOperation, err,
			"collection %q: delete failed (filter: %s)", c.name, orNone(where))
	}
	c.logger.Debug("deleted entries", nil, map[string]interface{}{
		"collection": c.name,
		"count":      n,
	})
	return n, nil
}

// Count returns the number of entries, optionally restricted by a raw
// engine predicate.
func (c *Collection) Count(ctx context.Context, where string) (n int, err error) {
	defer c.observe("count", "", time.Now(), 0, &err)

	n, err = c.table.CountRows(ctx, where)
	if err != nil {
		return 0, errs.Wrap(errs.ErrQuery, err,
			"collection %q: count failed (filter: %s)", c.name, orNone(where))
	}
	return n, nil
}

// Len returns the total number of entries.
func (c *Collection) Len(ctx context.Context) (int, error) {
	return c.Count(ctx, "")
}

// Prune removes entries matching an age, importance and staleness
// policy, returning the number of entries removed (or, in dry-run mode,
// the number that would be). A spec with no conditions is a no-op.
func (c *Collection) Prune(ctx context.Context, spec filter.PruneSpec, dryRun bool) (pruned int, err error) {
	defer c.observe("prune", "", time.Now(), 0, &err)

	if spec.Now.IsZero() {
		spec.Now = c.now()
	}
	where, ok, err := filter.CompilePrune(spec)
	if err != nil {
		return 0, fmt.Errorf("collection %q: %w", c.name, err)
	}
	if !ok {
		c.logger.Debug("prune called without conditions, nothing to do", nil,
			map[string]interface{}{"collection": c.name})
		return 0, nil
	}

	n, err := c.table.CountRows(ctx, where)
	if err != nil {
		return 0, errs.Wrap(errs.ErrOperation, err,
			"collection %q: failed to count prunable entries (filter: %s)", c.name, where)
	}
	if dryRun || n == 0 {
		return n, nil
	}
	if err := c.table.Delete(ctx, where); err != nil {
		return 0, errs.Wrap(errs.ErrOperation, err,
			"collection %q: prune failed (filter: %s)", c.name, where)
	}
	c.logger.Info("pruned entries", nil, map[string]interface{}{
		"collection": c.name,
		"count":      n,
	})
	return n, nil
}

// touch bumps timestamp_last_accessed for the given result rows,
// keying the update on the ids the rows carry. Rows whose projection
// excluded the id cannot be touched this way; callers that know the ids
// independently use touchIDs.
func (c *Collection) touch(ctx context.Context, rows []engine.Row, selectColumns []string) {
	var ids []string
	for _, row := range rows {
		if id, ok := row[schema.FieldID].(string); ok && id != "" {
			ids = append(ids, id)
		}
	}
	c.touchIDs(ctx, ids, rows, selectColumns)
}

// touchIDs bumps timestamp_last_accessed for the given ids, both in
// storage and in the result maps. Failures are logged and swallowed:
// access-time bookkeeping never fails a read.
func (c *Collection) touchIDs(ctx context.Context, ids []string, rows []engine.Row, selectColumns []string) {
	if !c.updateLastAccessed || len(ids) == 0 {
		return
	}

	now := epochSeconds(c.now())
	where, err := filter.CompileIn(schema.FieldID, ids)
	if err != nil {
		c.logger.Warn("failed to build access-time predicate", err,
			map[string]interface{}{"collection": c.name})
		return
	}
	err = c.table.Update(ctx, engine.Row{schema.FieldTimestampLastAccessed: now}, where)
	if err != nil {
		c.logger.Warn("failed to update access times", err,
			map[string]interface{}{"collection": c.name, "count": len(ids)})
		return
	}

	// Reflect the new access time in the results the caller sees, unless a
	// projection excluded the field.
	if selectColumns == nil || contains(selectColumns, schema.FieldTimestampLastAccessed) {
		for _, row := range rows {
			row[schema.FieldTimestampLastAccessed] = now
		}
	}
}

func contains(columns []string, name string) bool {
	for _, c := range columns {
		if c == name {
			return true
		}
	}
	return false
}

func combineAnd(parts []string) string {
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	default:
		out := "(" + parts[0] + ")"
		for _, p := range parts[1:] {
			out += " AND (" + p + ")"
		}
		return out
	}
}

func orNone(where string) string {
	if where == "" {
		return "<none>"
	}
	return where
}
