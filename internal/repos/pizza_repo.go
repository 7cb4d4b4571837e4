package repos

import (
	"github.com/jmoiron/sqlx"

	"lacasa/internal/domain"
)

type PizzaRepo struct{ db *sqlx.DB }

func NewPizzaRepo(db *sqlx.DB) *PizzaRepo { return &PizzaRepo{db: db} }

func (r *PizzaRepo) Sizes() ([]domain.PizzaSize, error) {
	var out []domain.PizzaSize
	err := r.db.Select(&out, `
  SELECT id, name, portions, price, max_flavors
  FROM pizza_sizes
  ORDER BY position
`)
	return out, err
}

func (r *PizzaRepo) Size(id string) (domain.PizzaSize, error) {
	var s domain.PizzaSize
	err := r.db.Get(&s, `
  SELECT id, name, portions, price, max_flavors
  FROM pizza_sizes
  WHERE id = ?
`, id)
	return s, err
}

type flavorRow struct {
	Category string `db:"category_name"`
	domain.Flavor
}

// FlavorCategories returns every flavor grouped under its category, both in
// menu order.
func (r *PizzaRepo) FlavorCategories() ([]domain.FlavorCategory, error) {
	var rows []flavorRow
	err := r.db.Select(&rows, `
  SELECT f.category_name, f.name, f.description, f.image_url
  FROM flavors f JOIN flavor_categories fc ON fc.name = f.category_name
  ORDER BY fc.position, f.position
`)
	if err != nil {
		return nil, err
	}
	var out []domain.FlavorCategory
	for _, row := range rows {
		if n := len(out); n == 0 || out[n-1].Name != row.Category {
			out = append(out, domain.FlavorCategory{Name: row.Category})
		}
		out[len(out)-1].Flavors = append(out[len(out)-1].Flavors, row.Flavor)
	}
	return out, nil
}

func (r *PizzaRepo) FlavorExists(name string) (bool, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM flavors WHERE name = ?`, name)
	return n > 0, err
}
