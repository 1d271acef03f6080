package repository

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/AerialWorks/gazetteer/internal/models"
)

// Database is the subset of pgxpool.Pool used by the repository. Keeping it
// narrow lets tests substitute a mock pool.
type Database interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
	Close()
}

// Interface records classification outcomes for later auditing.
type Interface interface {
	SavePlacement(ctx context.Context, placement models.Placement) error
}

type Repository struct {
	db  Database
	log *slog.Logger
}

// NewRepository creates a new instance of Repository with the provided
// Database. It returns a pointer to the newly created Repository.
func NewRepository(db Database, log *slog.Logger) *Repository {
	return &Repository{db: db, log: log}
}
