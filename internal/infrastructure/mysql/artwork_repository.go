package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"gallery-auction/internal/domain"
)

type MySQLArtworkRepository struct {
	db *sql.DB
}

func NewMySQLArtworkRepository(db *sql.DB) *MySQLArtworkRepository {
	return &MySQLArtworkRepository{db: db}
}

func (r *MySQLArtworkRepository) Create(ctx context.Context, artwork *domain.Artwork) error {
	refs, err := json.Marshal(artwork.ImageRefs)
	if err != nil {
		return err
	}

	query := `
        INSERT INTO artworks (id, name, artist, date_text, description, image_refs, base_price, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err = r.db.ExecContext(ctx, query,
		artwork.ID, artwork.Name, artwork.Artist, artwork.DateText,
		artwork.Description, string(refs), artwork.BasePrice, artwork.CreatedAt)
	return err
}

func (r *MySQLArtworkRepository) Get(ctx context.Context, artworkID string) (*domain.Artwork, error) {
	query := `
        SELECT id, name, artist, date_text, description, image_refs, base_price, created_at
        FROM artworks WHERE id = ?
    `

	var artwork domain.Artwork
	var refs string

	err := r.db.QueryRowContext(ctx, query, artworkID).Scan(
		&artwork.ID, &artwork.Name, &artwork.Artist, &artwork.DateText,
		&artwork.Description, &refs, &artwork.BasePrice, &artwork.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal([]byte(refs), &artwork.ImageRefs); err != nil {
		return nil, err
	}

	history, err := r.BidHistory(ctx, artworkID)
	if err != nil {
		return nil, err
	}
	artwork.BidHistory = history

	return &artwork, nil
}

func (r *MySQLArtworkRepository) List(ctx context.Context) ([]*domain.Artwork, error) {
	query := `
        SELECT id, name, artist, date_text, description, image_refs, base_price, created_at
        FROM artworks ORDER BY created_at DESC
    `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var artworks []*domain.Artwork
	for rows.Next() {
		var artwork domain.Artwork
		var refs string

		err := rows.Scan(&artwork.ID, &artwork.Name, &artwork.Artist, &artwork.DateText,
			&artwork.Description, &refs, &artwork.BasePrice, &artwork.CreatedAt)
		if err != nil {
			return nil, err
		}

		if err := json.Unmarshal([]byte(refs), &artwork.ImageRefs); err != nil {
			return nil, err
		}

		artworks = append(artworks, &artwork)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, artwork := range artworks {
		history, err := r.BidHistory(ctx, artwork.ID)
		if err != nil {
			return nil, err
		}
		artwork.BidHistory = history
	}

	return artworks, nil
}

func (r *MySQLArtworkRepository) Update(ctx context.Context, artwork *domain.Artwork) error {
	refs, err := json.Marshal(artwork.ImageRefs)
	if err != nil {
		return err
	}

	query := `
        UPDATE artworks SET name = ?, artist = ?, date_text = ?, description = ?,
            image_refs = ?, base_price = ?
        WHERE id = ?
    `
	result, err := r.db.ExecContext(ctx, query,
		artwork.Name, artwork.Artist, artwork.DateText, artwork.Description,
		string(refs), artwork.BasePrice, artwork.ID)
	if err != nil {
		return err
	}
	return checkFound(result)
}

func (r *MySQLArtworkRepository) UpdateImageRefs(ctx context.Context, artworkID string, refs []string) error {
	encoded, err := json.Marshal(refs)
	if err != nil {
		return err
	}

	query := `UPDATE artworks SET image_refs = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query, string(encoded), artworkID)
	if err != nil {
		return err
	}
	return checkFound(result)
}

func (r *MySQLArtworkRepository) Delete(ctx context.Context, artworkID string) error {
	// Bids first; fk_bids_artwork would reject deleting the artwork while
	// history rows still reference it.
	if _, err := r.db.ExecContext(ctx, `DELETE FROM bids WHERE artwork_id = ?`, artworkID); err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM artworks WHERE id = ?`, artworkID)
	if err != nil {
		return err
	}
	return checkFound(result)
}

// AppendBid inserts one history row. The insert itself is the atomic
// append; ordering comes from the auto-increment sequence, so two bidders
// landing at the same instant both survive.
func (r *MySQLArtworkRepository) AppendBid(ctx context.Context, artworkID string, bid domain.Bid) error {
	query := `
        INSERT INTO bids (artwork_id, bidder_name, amount, placed_at)
        VALUES (?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		artworkID, bid.BidderName, bid.Amount, bid.PlacedAt)
	return err
}

func (r *MySQLArtworkRepository) BidHistory(ctx context.Context, artworkID string) ([]domain.Bid, error) {
	query := `
        SELECT bidder_name, amount, placed_at
        FROM bids WHERE artwork_id = ?
        ORDER BY seq ASC
    `

	rows, err := r.db.QueryContext(ctx, query, artworkID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bids []domain.Bid
	for rows.Next() {
		var bid domain.Bid
		if err := rows.Scan(&bid.BidderName, &bid.Amount, &bid.PlacedAt); err != nil {
			return nil, err
		}
		bids = append(bids, bid)
	}

	return bids, rows.Err()
}

// checkFound maps zero affected rows to ErrNotFound. The DSN must carry
// clientFoundRows=true so MySQL counts matched rows; without it an UPDATE
// that changes nothing looks identical to an UPDATE of a missing row.
func checkFound(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
