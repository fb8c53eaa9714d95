// Package repo wraps all database access behind a single gorm-backed
// repository. Not-found conditions surface as gorm.ErrRecordNotFound and are
// mapped to typed errors one layer up.
package repo

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/avkozlov/library-backend/internal/models"
)

type GormRepo struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}

// IsUniqueViolation reports whether err is a postgres unique-constraint
// violation. Existence checks run before inserts, but a concurrent insert can
// still slip between check and create.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
