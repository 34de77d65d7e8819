package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	accessDomain "github.com/allisson/mediavault/internal/access/domain"
	apperrors "github.com/allisson/mediavault/internal/errors"
)

// uniqueViolation is the PostgreSQL SQLSTATE for a unique constraint violation.
const uniqueViolation = "23505"

// PostgreSQLTokenRepository implements playback token persistence for PostgreSQL.
type PostgreSQLTokenRepository struct {
	db *sql.DB
}

// Create inserts a new playback token. A duplicate hash maps to ErrTokenAlreadyExists.
func (p *PostgreSQLTokenRepository) Create(ctx context.Context, token *accessDomain.PlaybackToken) error {
	query := `INSERT INTO playback_tokens (token_hash, resource_name, created_at)
			  VALUES ($1, $2, $3)`

	_, err := p.db.ExecContext(ctx, query, token.TokenHash, token.ResourceName, token.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return accessDomain.ErrTokenAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create playback token")
	}
	return nil
}

// GetByTokenHash retrieves a playback token by its hash. Returns ErrTokenNotFound if absent.
func (p *PostgreSQLTokenRepository) GetByTokenHash(
	ctx context.Context,
	tokenHash string,
) (*accessDomain.PlaybackToken, error) {
	query := `SELECT token_hash, resource_name, created_at
			  FROM playback_tokens WHERE token_hash = $1`

	var token accessDomain.PlaybackToken
	err := p.db.QueryRowContext(ctx, query, tokenHash).Scan(
		&token.TokenHash,
		&token.ResourceName,
		&token.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, accessDomain.ErrTokenNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get playback token")
	}
	return &token, nil
}

// NewPostgreSQLTokenRepository creates a new PostgreSQL playback token repository.
func NewPostgreSQLTokenRepository(db *sql.DB) *PostgreSQLTokenRepository {
	return &PostgreSQLTokenRepository{db: db}
}
