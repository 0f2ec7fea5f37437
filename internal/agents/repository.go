// Package agents provides the agent directory: resolving an agent
// reference to a notification address. Agents themselves are managed by
// back-office tooling outside this service.
package agents

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrAgentNotFound = errors.New("agent not found")

// Directory resolves agent references to contact addresses.
type Directory interface {
	ResolveContactAddress(ctx context.Context, agentRef string) (string, error)
}

// Repository is the Postgres-backed agent directory.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new agent directory repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ResolveContactAddress returns the notification email for an agent
// reference. The reference is matched against the agent's slug.
func (r *Repository) ResolveContactAddress(ctx context.Context, agentRef string) (string, error) {
	ref := strings.TrimSpace(agentRef)
	if ref == "" {
		return "", ErrAgentNotFound
	}

	var email string
	err := r.pool.QueryRow(ctx, `
		SELECT email FROM agents
		WHERE slug = $1 AND is_active = true
	`, ref).Scan(&email)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrAgentNotFound
	}
	if err != nil {
		return "", err
	}
	if email == "" {
		return "", ErrAgentNotFound
	}
	return email, nil
}

// Compile-time check that Repository implements Directory
var _ Directory = (*Repository)(nil)
