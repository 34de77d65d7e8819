package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	accessDomain "github.com/allisson/mediavault/internal/access/domain"
	apperrors "github.com/allisson/mediavault/internal/errors"
)

// duplicateEntry is the MySQL error number for a duplicate key.
const duplicateEntry = 1062

// MySQLTokenRepository implements playback token persistence for MySQL.
type MySQLTokenRepository struct {
	db *sql.DB
}

// Create inserts a new playback token. A duplicate hash maps to ErrTokenAlreadyExists.
func (m *MySQLTokenRepository) Create(ctx context.Context, token *accessDomain.PlaybackToken) error {
	query := `INSERT INTO playback_tokens (token_hash, resource_name, created_at)
			  VALUES (?, ?, ?)`

	_, err := m.db.ExecContext(ctx, query, token.TokenHash, token.ResourceName, token.CreatedAt)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == duplicateEntry {
			return accessDomain.ErrTokenAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create playback token")
	}
	return nil
}

// GetByTokenHash retrieves a playback token by its hash. Returns ErrTokenNotFound if absent.
func (m *MySQLTokenRepository) GetByTokenHash(
	ctx context.Context,
	tokenHash string,
) (*accessDomain.PlaybackToken, error) {
	query := `SELECT token_hash, resource_name, created_at
			  FROM playback_tokens WHERE token_hash = ?`

	var token accessDomain.PlaybackToken
	err := m.db.QueryRowContext(ctx, query, tokenHash).Scan(
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

// NewMySQLTokenRepository creates a new MySQL playback token repository.
func NewMySQLTokenRepository(db *sql.DB) *MySQLTokenRepository {
	return &MySQLTokenRepository{db: db}
}
