package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Aleph-Alpha/agentmem/v1/engine"
	"github.com/Aleph-Alpha/agentmem/v1/schema"
	_ "modernc.org/sqlite" // SQLite driver
)

// databaseFile is the single database file holding every table of a store
// directory.
const databaseFile = "agentmem.db"

// metaTable persists each table's synthesized schema so tables can be
// reopened across processes. Embedding functions are runtime objects and
// are not persisted; reopened tables carry one only if it was registered
// through CreateTable in the current process.
const metaTable = "agentmem_tables"

// DB is the bundled embedded storage engine: one SQLite database file per
// store directory, one SQL table per collection. It implements engine.DB.
//
// DB delegates storage, filtering and persistence to SQLite and performs
// exact (brute-force) cosine scoring for similarity search. It carries no
// approximate-nearest-neighbor index.
type DB struct {
	db   *sql.DB
	path string

	mu        sync.Mutex
	schemas   map[string]*schema.Schema
	embedders map[string]*engine.EmbeddingConfig
}

// Connect opens (or creates) the embedded database under the given store
// directory.
func Connect(path string) (*DB, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite: store path cannot be empty")
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("sqlite: failed to create store directory: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(path, databaseFile))
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to open database: %w", err)
	}

	d := &DB{
		db:        db,
		path:      path,
		schemas:   make(map[string]*schema.Schema),
		embedders: make(map[string]*engine.EmbeddingConfig),
	}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

func (d *DB) migrate() error {
	ddl := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		name        TEXT PRIMARY KEY,
		dimension   INTEGER NOT NULL,
		fields_json TEXT NOT NULL
	);`, metaTable)
	if _, err := d.db.Exec(ddl); err != nil {
		return fmt.Errorf("sqlite: failed to migrate meta table: %w", err)
	}
	return nil
}

// TableNames lists every table recorded in the meta table, sorted by name.
func (d *DB) TableNames(ctx context.Context) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, fmt.Sprintf("SELECT name FROM %s ORDER BY name", metaTable))
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to list tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("sqlite: failed to scan table name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// CreateTable creates a SQL table shaped after the synthesized schema and
// records the schema in the meta table. The embedding config, if any, is
// registered for write-time and query-time vector generation.
func (d *DB) CreateTable(ctx context.Context, name string, sch *schema.Schema, embed *engine.EmbeddingConfig) (engine.Table, error) {
	if sch == nil {
		return nil, fmt.Errorf("sqlite: table %q: schema must be provided", name)
	}
	ident, err := quoteIdent(name)
	if err != nil {
		return nil, err
	}

	cols := make([]string, 0, len(sch.Fields()))
	for _, f := range sch.Fields() {
		col, err := quoteIdent(f.Name)
		if err != nil {
			return nil, err
		}
		def := col + " " + columnType(f.Type)
		if f.Name == schema.FieldID {
			def += " PRIMARY KEY"
		}
		cols = append(cols, def)
	}

	ddl := fmt.Sprintf("CREATE TABLE %s (%s)", ident, strings.Join(cols, ", "))
	if _, err := d.db.ExecContext(ctx, ddl); err != nil {
		return nil, fmt.Errorf("sqlite: failed to create table %q: %w", name, err)
	}

	fieldsJSON, err := marshalSchema(sch)
	if err != nil {
		return nil, err
	}
	if _, err := d.db.ExecContext(ctx,
		fmt.Sprintf("INSERT OR REPLACE INTO %s (name, dimension, fields_json) VALUES (?, ?, ?)", metaTable),
		name, sch.Dimension(), fieldsJSON); err != nil {
		return nil, fmt.Errorf("sqlite: failed to record schema for table %q: %w", name, err)
	}

	d.mu.Lock()
	d.schemas[name] = sch
	if embed != nil {
		d.embedders[name] = embed
	} else {
		delete(d.embedders, name)
	}
	d.mu.Unlock()

	return d.newTable(name, sch, embed), nil
}

// OpenTable opens an existing table, rebuilding its schema from the meta
// table.
func (d *DB) OpenTable(ctx context.Context, name string) (engine.Table, error) {
	d.mu.Lock()
	sch, cached := d.schemas[name]
	embed := d.embedders[name]
	d.mu.Unlock()

	if !cached {
		var dimension int
		var fieldsJSON string
		err := d.db.QueryRowContext(ctx,
			fmt.Sprintf("SELECT dimension, fields_json FROM %s WHERE name = ?", metaTable),
			name).Scan(&dimension, &fieldsJSON)
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("sqlite: table %q does not exist", name)
		}
		if err != nil {
			return nil, fmt.Errorf("sqlite: failed to load schema for table %q: %w", name, err)
		}
		sch, err = unmarshalSchema(dimension, fieldsJSON)
		if err != nil {
			return nil, fmt.Errorf("sqlite: table %q: %w", name, err)
		}
		d.mu.Lock()
		d.schemas[name] = sch
		d.mu.Unlock()
	}

	return d.newTable(name, sch, embed), nil
}

// DropTable removes the table and its schema record. Dropping a table
// that does not exist is a no-op.
func (d *DB) DropTable(ctx context.Context, name string) error {
	ident, err := quoteIdent(name)
	if err != nil {
		return err
	}
	if _, err := d.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+ident); err != nil {
		return fmt.Errorf("sqlite: failed to drop table %q: %w", name, err)
	}
	if _, err := d.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE name = ?", metaTable), name); err != nil {
		return fmt.Errorf("sqlite: failed to remove schema for table %q: %w", name, err)
	}

	d.mu.Lock()
	delete(d.schemas, name)
	delete(d.embedders, name)
	d.mu.Unlock()
	return nil
}

// Close releases the underlying database handle.
func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) newTable(name string, sch *schema.Schema, embed *engine.EmbeddingConfig) *Table {
	return &Table{db: d.db, name: name, schema: sch, embed: embed}
}

// columnType maps a schema field type to a SQLite column type. Lists and
// maps are stored as JSON text; vectors as little-endian float32 blobs.
func columnType(t schema.FieldType) string {
	switch t {
	case schema.Float:
		return "REAL"
	case schema.Int:
		return "INTEGER"
	case schema.Bool:
		return "BOOLEAN"
	case schema.Vector:
		return "BLOB"
	default:
		return "TEXT"
	}
}

// quoteIdent quotes a SQL identifier. Double quotes inside identifiers
// are rejected rather than escaped; they have no legitimate use in
// collection or field names.
func quoteIdent(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("sqlite: identifier cannot be empty")
	}
	if strings.ContainsAny(name, "\"\x00") {
		return "", fmt.Errorf("sqlite: invalid identifier %q", name)
	}
	return `"` + name + `"`, nil
}

// fieldDef is the persisted form of a schema field.
type fieldDef struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
}

var fieldTypeNames = map[schema.FieldType]string{
	schema.String:     "string",
	schema.Float:      "float",
	schema.Int:        "int",
	schema.Bool:       "bool",
	schema.StringList: "string_list",
	schema.Map:        "map",
	schema.Vector:     "vector",
}

// marshalSchema serializes the base fields of a schema (the generated
// fields are deterministic and re-added by schema.Synthesize on load).
func marshalSchema(sch *schema.Schema) (string, error) {
	var defs []fieldDef
	for _, f := range sch.Fields() {
		switch f.Name {
		case schema.FieldID, schema.FieldVector, schema.FieldTimestampCreated, schema.FieldTimestampLastAccessed:
			continue
		}
		defs = append(defs, fieldDef{Name: f.Name, Type: fieldTypeNames[f.Type], Required: f.Required})
	}
	data, err := json.Marshal(defs)
	if err != nil {
		return "", fmt.Errorf("sqlite: failed to serialize schema: %w", err)
	}
	return string(data), nil
}

func unmarshalSchema(dimension int, fieldsJSON string) (*schema.Schema, error) {
	var defs []fieldDef
	if err := json.Unmarshal([]byte(fieldsJSON), &defs); err != nil {
		return nil, fmt.Errorf("failed to parse stored schema: %w", err)
	}
	base := make([]schema.Field, 0, len(defs))
	for _, def := range defs {
		t, ok := fieldTypeByName(def.Type)
		if !ok {
			return nil, fmt.Errorf("stored schema has unknown field type %q", def.Type)
		}
		base = append(base, schema.Field{Name: def.Name, Type: t, Required: def.Required})
	}
	return schema.Synthesize(base, dimension)
}

func fieldTypeByName(name string) (schema.FieldType, bool) {
	for t, n := range fieldTypeNames {
		if n == name {
			return t, true
		}
	}
	return 0, false
}
