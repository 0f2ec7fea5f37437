// Package intake is the lead intake bounded context: form token
// management and the submission pipeline from raw fields to a persisted,
// notified, CRM-synced lead.
package intake

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"realty_leads_backend/internal/leadtype"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrFormTokenNotFound = errors.New("form token not found")

// FormToken is the type-scoped anti-forgery credential a form must
// present to submit. Only the hash is stored.
type FormToken struct {
	ID          uuid.UUID
	Name        string
	LeadType    leadtype.Type
	TokenHash   string
	TokenPrefix string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TokenRepository provides data access for form tokens.
type TokenRepository struct {
	pool *pgxpool.Pool
}

// NewTokenRepository creates a new form token repository.
func NewTokenRepository(pool *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{pool: pool}
}

// GenerateToken creates a new random form token and returns the plaintext
// token and its hash. The plaintext is shown only once; only the hash is
// stored.
func GenerateToken() (plaintext string, hash string, prefix string, err error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", "", "", err
	}
	plaintext = "frm_" + hex.EncodeToString(bytes)
	h := sha256.Sum256([]byte(plaintext))
	hash = hex.EncodeToString(h[:])
	prefix = plaintext[:12] // "frm_" + 8 hex chars
	return plaintext, hash, prefix, nil
}

// HashToken hashes a plaintext token for lookup.
func HashToken(plaintext string) string {
	h := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(h[:])
}

// Create stores a new form token record.
func (r *TokenRepository) Create(ctx context.Context, name string, lt leadtype.Type, tokenHash, tokenPrefix string) (FormToken, error) {
	var tok FormToken
	err := r.pool.QueryRow(ctx, `
		INSERT INTO form_tokens (name, lead_type, token_hash, token_prefix)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, lead_type, token_hash, token_prefix, is_active, created_at, updated_at
	`, name, lt, tokenHash, tokenPrefix).Scan(
		&tok.ID, &tok.Name, &tok.LeadType, &tok.TokenHash, &tok.TokenPrefix,
		&tok.IsActive, &tok.CreatedAt, &tok.UpdatedAt,
	)
	return tok, err
}

// GetByHash retrieves an active form token by its hash.
func (r *TokenRepository) GetByHash(ctx context.Context, tokenHash string) (FormToken, error) {
	var tok FormToken
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, lead_type, token_hash, token_prefix, is_active, created_at, updated_at
		FROM form_tokens
		WHERE token_hash = $1 AND is_active = true
	`, tokenHash).Scan(
		&tok.ID, &tok.Name, &tok.LeadType, &tok.TokenHash, &tok.TokenPrefix,
		&tok.IsActive, &tok.CreatedAt, &tok.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return FormToken{}, ErrFormTokenNotFound
	}
	return tok, err
}

// List returns all form tokens, newest first.
func (r *TokenRepository) List(ctx context.Context) ([]FormToken, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, lead_type, token_hash, token_prefix, is_active, created_at, updated_at
		FROM form_tokens
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []FormToken
	for rows.Next() {
		var tok FormToken
		if err := rows.Scan(
			&tok.ID, &tok.Name, &tok.LeadType, &tok.TokenHash, &tok.TokenPrefix,
			&tok.IsActive, &tok.CreatedAt, &tok.UpdatedAt,
		); err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
	return tokens, rows.Err()
}

// Revoke deactivates a form token.
func (r *TokenRepository) Revoke(ctx context.Context, tokenID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE form_tokens SET is_active = false, updated_at = now()
		WHERE id = $1
	`, tokenID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrFormTokenNotFound
	}
	return nil
}
