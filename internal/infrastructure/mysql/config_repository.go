package mysql

import (
	"context"
	"database/sql"
	"errors"

	"gallery-auction/internal/domain"
)

// The auction window lives in a single row with a fixed key; writes
// overwrite it in place, matching the original's set-singleton semantics.
const auctionConfigID = 1

type MySQLAuctionConfigRepository struct {
	db *sql.DB
}

func NewMySQLAuctionConfigRepository(db *sql.DB) *MySQLAuctionConfigRepository {
	return &MySQLAuctionConfigRepository{db: db}
}

func (r *MySQLAuctionConfigRepository) Get(ctx context.Context) (*domain.AuctionConfig, error) {
	query := `SELECT start_time, end_time FROM auction_config WHERE id = ?`

	var cfg domain.AuctionConfig
	err := r.db.QueryRowContext(ctx, query, auctionConfigID).Scan(&cfg.StartTime, &cfg.EndTime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotConfigured
		}
		return nil, err
	}
	return &cfg, nil
}

func (r *MySQLAuctionConfigRepository) Set(ctx context.Context, cfg *domain.AuctionConfig) error {
	query := `
        INSERT INTO auction_config (id, start_time, end_time)
        VALUES (?, ?, ?)
        ON DUPLICATE KEY UPDATE start_time = VALUES(start_time), end_time = VALUES(end_time)
    `
	_, err := r.db.ExecContext(ctx, query, auctionConfigID, cfg.StartTime, cfg.EndTime)
	return err
}
