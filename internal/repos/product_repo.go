package repos

import (
	"github.com/jmoiron/sqlx"

	"lacasa/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

func (r *ProductRepo) ListByCategory(cat domain.CategoryKey) ([]domain.Product, error) {
	out := []domain.Product{}
	err := r.db.Select(&out, `
  SELECT id, category_id, name, price, description, image_url
  FROM products
  WHERE category_id = ?
  ORDER BY position
`, cat)
	return out, err
}

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `
  SELECT id, category_id, name, price, description, image_url
  FROM products
  WHERE id = ?
`, id)
	return p, err
}

func (r *ProductRepo) List() ([]domain.Product, error) {
	out := []domain.Product{}
	err := r.db.Select(&out, `
  SELECT p.id, p.category_id, p.name, p.price, p.description, p.image_url
  FROM products p JOIN categories c ON c.id = p.category_id
  ORDER BY c.position, p.position
`)
	return out, err
}

// Search matches q against product names and descriptions, optionally within
// one category.
func (r *ProductRepo) Search(q string, cat domain.CategoryKey, limit int) ([]domain.Product, error) {
	where := `1 = 1`
	args := []any{}
	if q != "" {
		where += ` AND (LOWER(p.name) LIKE ? OR LOWER(p.description) LIKE ?)`
		args = append(args, "%"+q+"%", "%"+q+"%")
	}
	if cat != "" {
		where += ` AND p.category_id = ?`
		args = append(args, cat)
	}

	sql := `
  SELECT p.id, p.category_id, p.name, p.price, p.description, p.image_url
  FROM products p JOIN categories c ON c.id = p.category_id
  WHERE ` + where + `
  ORDER BY c.position, p.position
  LIMIT ?`
	args = append(args, limit)

	out := []domain.Product{}
	err := r.db.Select(&out, sql, args...)
	return out, err
}
