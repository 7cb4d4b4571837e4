package repos

import (
	"github.com/jmoiron/sqlx"

	"lacasa/internal/domain"
)

type CategoryRepo struct{ db *sqlx.DB }

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{db: db} }

// List returns the menu sections in display order.
func (r *CategoryRepo) List() ([]domain.Category, error) {
	var out []domain.Category
	err := r.db.Select(&out, `
  SELECT id, name, position
  FROM categories
  ORDER BY position
`)
	return out, err
}
