package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/LeoJim2/cool-travel-app-voyageur/api/models"

	"github.com/google/uuid"
)

var ErrPinNotStored = errors.New("pin was not stored")

// interface
type PinRepository interface {
	CreatePin(ctx context.Context, pin *models.Pin) error
	ListPins(ctx context.Context) ([]models.Pin, error)
}

const pinSchema = `
	CREATE EXTENSION IF NOT EXISTS postgis;
	CREATE TABLE IF NOT EXISTS pins (
		id          UUID PRIMARY KEY,
		name        TEXT NOT NULL,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		rating      SMALLINT NOT NULL CHECK (rating BETWEEN 1 AND 5),
		location    GEOGRAPHY(POINT, 4326) NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS pins_created_at_idx ON pins (created_at);
`

// EnsurePinSchema creates the pins table when it does not exist yet.
func EnsurePinSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, pinSchema)
	return err
}

// implementation
type pinRepository struct {
	db *sql.DB
}

func NewPinRepository(db *sql.DB) PinRepository {
	return &pinRepository{
		db: db,
	}
}

func (p *pinRepository) CreatePin(ctx context.Context, pin *models.Pin) error {
	const q = `
		INSERT INTO pins (id, name, title, description, rating, location)
		VALUES (
			$1,
			$2,
			$3,
			$4,
			$5,
			ST_SetSRID(ST_MakePoint($6, $7), 4326)::geography
		)
		RETURNING created_at
	`

	id := uuid.New()
	var createdAt time.Time
	err := p.db.QueryRowContext(ctx, q, id.String(), pin.Name, pin.Title, pin.Description, pin.Rating, pin.Lon, pin.Lat).Scan(&createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrPinNotStored
		}
		return err
	}

	pin.ID = id.String()
	pin.CreatedAt = createdAt.UTC()
	return nil
}

func (p *pinRepository) ListPins(ctx context.Context) ([]models.Pin, error) {
	const q = `
		SELECT
			p.id,
			p.name,
			p.title,
			p.description,
			p.rating,
			ST_Y(p.location::geometry) AS latitude,
			ST_X(p.location::geometry) AS longitude,
			p.created_at
		FROM pins p
		ORDER BY p.created_at ASC, p.id ASC
	`

	rows, err := p.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pins := []models.Pin{}
	for rows.Next() {
		var pin models.Pin
		if err := rows.Scan(
			&pin.ID,
			&pin.Name,
			&pin.Title,
			&pin.Description,
			&pin.Rating,
			&pin.Lat,
			&pin.Lon,
			&pin.CreatedAt,
		); err != nil {
			return nil, err
		}
		pin.CreatedAt = pin.CreatedAt.UTC()
		pins = append(pins, pin)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return pins, nil
}
