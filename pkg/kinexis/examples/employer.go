// Package examples wires a single demo entity, Employer, end-to-end
// through every component pkg/kinexis exposes. It exists for cmd/kinexis
// and is not meant to be imported by real applications.
package examples

import (
	"database/sql"
	"time"

	"github.com/foogaro/kinexis/pkg/kinexis"
)

// Employer is the demo entity used throughout the cmd/kinexis CLI,
// matching the boundary scenario of employer id 7.
type Employer struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Industry  string    `json:"industry"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (e Employer) GetID() int { return e.ID }

// EmployerIDCodec is kinexis.IntIDCodec specialized for Employer's int id.
type EmployerIDCodec = kinexis.IntIDCodec

const EmployerPrefix = "employer"

// EmployerPolicy matches spec.md's boundary scenario 4: cache-aside and
// refresh-ahead with a 1s TTL, no write-behind.
func EmployerPolicy() kinexis.Policy {
	return kinexis.Policy{
		Prefix:   EmployerPrefix,
		Patterns: kinexis.CacheAside | kinexis.RefreshAhead,
		Format:   kinexis.FormatJSON,
		TTL:      time.Second,
		Enabled:  true,
	}
}

const (
	EmployerSelectQuery = `SELECT id, name, industry, updated_at FROM employers WHERE id = $1`
	EmployerUpsertQuery = `
		INSERT INTO employers (id, name, industry, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET name = $2, industry = $3, updated_at = $4`
	EmployerDeleteQuery = `DELETE FROM employers WHERE id = $1`
)

func EmployerRowMapper(row *sql.Row) (Employer, error) {
	var e Employer

	err := row.Scan(&e.ID, &e.Name, &e.Industry, &e.UpdatedAt)

	return e, err
}

func EmployerArgBinder(e Employer) []any {
	return []any{e.ID, e.Name, e.Industry, e.UpdatedAt}
}
