package tenant

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// byHostnameQuery fetches every row claiming the hostname, active rows
// first. LIMIT 3 is enough to detect the one invariant violation that
// matters: two active claimants.
const byHostnameQuery = `
SELECT id, subdomain, COALESCE(custom_domain, ''), name, status, expires_at, created_at
FROM tenants
WHERE subdomain = $1 OR custom_domain = $2
ORDER BY (status = 'active') DESC, created_at DESC
LIMIT 3`

// PostgresStore reads tenant records from the relational store through a
// pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a tenant store over an existing pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// ByHostname implements Store. Non-active rows are returned too so the
// lifecycle gate can route suspended and expired tenants to their
// dedicated pages instead of a generic not-found. When two or more
// active rows claim the hostname the unique-claim invariant is broken
// and the lookup fails with ErrAmbiguousTenant.
func (s *PostgresStore) ByHostname(ctx context.Context, hostname, subdomain string) (*Tenant, error) {
	rows, err := s.pool.Query(ctx, byHostnameQuery, subdomain, hostname)
	if err != nil {
		return nil, fmt.Errorf("query tenant by hostname: %w", err)
	}
	defer rows.Close()

	var (
		matches []*Tenant
		active  int
	)
	for rows.Next() {
		var t Tenant
		if err := rows.Scan(&t.ID, &t.Subdomain, &t.CustomDomain, &t.Name, &t.Status, &t.ExpiresAt, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tenant row: %w", err)
		}
		if t.Status == StatusActive {
			active++
		}
		matches = append(matches, &t)
	}
	if err := rows.Err(); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTenantNotFound
		}
		return nil, fmt.Errorf("read tenant rows: %w", err)
	}

	switch {
	case active > 1:
		return nil, ErrAmbiguousTenant
	case len(matches) == 0:
		return nil, ErrTenantNotFound
	default:
		// Rows are ordered active-first, so matches[0] is the single
		// active claimant when one exists, otherwise the newest
		// non-active row for the gate to classify.
		return matches[0], nil
	}
}
