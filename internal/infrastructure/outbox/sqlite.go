// Package outbox guarda en un archivo SQLite local los registros de historial
// que no se pudieron escribir en la base principal, para reintentarlos luego.
package outbox

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jhoicas/backoffice-api/internal/application/audit"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

//go:embed schema.sql
var schemaSQL string

var _ audit.Outbox = (*SQLiteOutbox)(nil)

// SQLiteOutbox implementa audit.Outbox con un único escritor.
type SQLiteOutbox struct {
	db *sql.DB
}

// Open crea o abre el archivo y aplica pragmas y esquema. Idempotente.
func Open(path string) (*SQLiteOutbox, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("outbox dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("outbox open: %w", err)
	}
	// SQLite admite un solo escritor
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("outbox %q: %w", p, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("outbox schema: %w", err)
	}
	return &SQLiteOutbox{db: db}, nil
}

// Close cierra la conexión.
func (o *SQLiteOutbox) Close() error {
	if o.db == nil {
		return nil
	}
	return o.db.Close()
}

// Append guarda la entrada; un id ya presente se ignora.
func (o *SQLiteOutbox) Append(ctx context.Context, e *entity.ActivityEntry) error {
	_, err := o.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO pending_activity (id, kind, module, description, actor, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.Kind, e.Module, e.Description, e.Actor, e.CreatedAt.UTC().UnixNano())
	return domain.Transport("outbox append", err)
}

// Pending devuelve hasta limit entradas en orden de llegada.
func (o *SQLiteOutbox) Pending(ctx context.Context, limit int) ([]*entity.ActivityEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := o.db.QueryContext(ctx, `
		SELECT id, kind, module, description, actor, created_at
		FROM pending_activity ORDER BY seq LIMIT ?`, limit)
	if err != nil {
		return nil, domain.Transport("outbox pending", err)
	}
	defer rows.Close()

	var list []*entity.ActivityEntry
	for rows.Next() {
		var (
			e  entity.ActivityEntry
			ts int64
		)
		if err := rows.Scan(&e.ID, &e.Kind, &e.Module, &e.Description, &e.Actor, &ts); err != nil {
			return nil, domain.Transport("outbox scan", err)
		}
		e.CreatedAt = time.Unix(0, ts).UTC()
		list = append(list, &e)
	}
	return list, domain.Transport("outbox pending", rows.Err())
}

// Remove borra las entradas ya escritas en el historial.
func (o *SQLiteOutbox) Remove(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	q := "DELETE FROM pending_activity WHERE id IN (?" + strings.Repeat(",?", len(ids)-1) + ")"
	_, err := o.db.ExecContext(ctx, q, args...)
	return domain.Transport("outbox remove", err)
}

// Count cantidad de entradas pendientes.
func (o *SQLiteOutbox) Count(ctx context.Context) (int, error) {
	var n int
	err := o.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM pending_activity").Scan(&n)
	return n, domain.Transport("outbox count", err)
}
