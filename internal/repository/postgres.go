package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AerialWorks/gazetteer/internal/models"
)

// NewDatabase creates a connection pool for the placements database and
// verifies it with a ping.
func NewDatabase(ctx context.Context, host, port, user, password, name string) (*pgxpool.Pool, error) {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s", user, password, host, port, name)

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// SavePlacement inserts one classification outcome. Region name columns stay
// NULL for the levels the match did not reach, and the coordinate columns
// stay NULL for photos without GPS data.
func (r *Repository) SavePlacement(ctx context.Context, placement models.Placement) error {
	query := `
		INSERT INTO photo_placements
			(filename, longitude, latitude, altitude, taken_at, camera_make, camera_model,
			 bucket, district, town, village)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`

	var longitude, latitude, altitude *float64
	if coords := placement.Photo.Coordinates; coords != nil {
		longitude = &coords.Longitude
		latitude = &coords.Latitude
		altitude = coords.Altitude
	}

	var district, town, village *string
	if len(placement.Path) > 0 {
		district = &placement.Path[0]
	}
	if len(placement.Path) > 1 {
		town = &placement.Path[1]
	}
	if len(placement.Path) > 2 {
		village = &placement.Path[2]
	}

	_, err := r.db.Exec(ctx, query,
		placement.Photo.Filename,
		longitude, latitude, altitude,
		placement.Photo.TakenAt,
		placement.Photo.Make,
		placement.Photo.Model,
		string(placement.Bucket),
		district, town, village,
	)
	if err != nil {
		return fmt.Errorf("failed to insert photo placement: %w", err)
	}

	r.log.DebugContext(ctx, "Placement recorded",
		"filename", placement.Photo.Filename, "bucket", string(placement.Bucket))

	return nil
}
