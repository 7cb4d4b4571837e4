package domain

// CategoryKey is one of the fixed menu sections.
type CategoryKey string

const (
	CategoryPizzas       CategoryKey = "pizzas"
	CategoryHamburguesas CategoryKey = "hamburguesas"
	CategoryPicadas      CategoryKey = "picadas"
	CategoryPerros       CategoryKey = "perros"
	CategoryEspeciales   CategoryKey = "especiales"
)

// DefaultCategory is the section the menu opens on.
const DefaultCategory = CategoryPizzas

// Categories lists every section in display order.
var Categories = []CategoryKey{
	CategoryPizzas,
	CategoryHamburguesas,
	CategoryPicadas,
	CategoryPerros,
	CategoryEspeciales,
}

// ParseCategory accepts only members of the closed set.
func ParseCategory(s string) (CategoryKey, bool) {
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

type Category struct {
	Key      CategoryKey `db:"id" json:"key"`
	Name     string      `db:"name" json:"name"`
	Position int         `db:"position" json:"-"`
}

type PizzaSize struct {
	ID         string `db:"id" json:"id"`
	Name       string `db:"name" json:"name"`
	Portions   int    `db:"portions" json:"portions"`
	Price      int64  `db:"price" json:"price"`
	MaxFlavors int    `db:"max_flavors" json:"maxFlavors"`
}

type Product struct {
	ID          string      `db:"id" json:"id"`
	Name        string      `db:"name" json:"name"`
	Category    CategoryKey `db:"category_id" json:"category"`
	Price       int64       `db:"price" json:"price"`
	Description string      `db:"description" json:"description,omitempty"`
	ImageURL    string      `db:"image_url" json:"imageUrl,omitempty"`
}

type Flavor struct {
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
	ImageURL    string `db:"image_url" json:"imageUrl,omitempty"`
}

type FlavorCategory struct {
	Name    string   `json:"name"`
	Flavors []Flavor `json:"flavors"`
}
