package repos

import (
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	applog "lacasa/internal/log"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// Every connection to :memory: is a separate empty database.
	if dsn == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Menu rows are upserted on every start so edits to the seed reach old files.
	if err := seedMenu(db); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Menu sections
CREATE TABLE IF NOT EXISTS categories(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  position INTEGER NOT NULL
);

-- Pizza sizes
CREATE TABLE IF NOT EXISTS pizza_sizes(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  portions INTEGER NOT NULL CHECK (portions > 0),
  price INTEGER NOT NULL CHECK (price >= 0),
  max_flavors INTEGER NOT NULL CHECK (max_flavors >= 1),
  position INTEGER NOT NULL
);

-- Flavor groups and flavors
CREATE TABLE IF NOT EXISTS flavor_categories(
  name TEXT PRIMARY KEY,
  position INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS flavors(
  name TEXT PRIMARY KEY,
  category_name TEXT NOT NULL REFERENCES flavor_categories(name) ON DELETE CASCADE,
  description TEXT NOT NULL DEFAULT '',
  image_url TEXT NOT NULL DEFAULT '',
  position INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_flavors_category ON flavors(category_name);

-- Fixed-price products
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  category_id TEXT NOT NULL REFERENCES categories(id) ON DELETE RESTRICT,
  name TEXT NOT NULL,
  price INTEGER NOT NULL CHECK (price >= 0),
  description TEXT NOT NULL DEFAULT '',
  image_url TEXT NOT NULL DEFAULT '',
  position INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id);
`
	_, err := db.Exec(schema)
	return err
}

func seedMenu(db *sqlx.DB) error {
	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, c := range categorySeed {
		if _, err := tx.Exec(`
			INSERT INTO categories(id, name, position) VALUES(?,?,?)
			ON CONFLICT(id) DO UPDATE SET name = excluded.name, position = excluded.position
		`, c.Key, c.Name, c.Position); err != nil {
			return err
		}
	}

	for i, s := range pizzaSizeSeed {
		if _, err := tx.Exec(`
			INSERT INTO pizza_sizes(id, name, portions, price, max_flavors, position) VALUES(?,?,?,?,?,?)
			ON CONFLICT(id) DO UPDATE SET
			  name = excluded.name, portions = excluded.portions, price = excluded.price,
			  max_flavors = excluded.max_flavors, position = excluded.position
		`, s.ID, s.Name, s.Portions, s.Price, s.MaxFlavors, i); err != nil {
			return err
		}
	}

	for i, fc := range flavorSeed {
		if _, err := tx.Exec(`
			INSERT INTO flavor_categories(name, position) VALUES(?,?)
			ON CONFLICT(name) DO UPDATE SET position = excluded.position
		`, fc.Name, i); err != nil {
			return err
		}
		for j, f := range fc.Flavors {
			if _, err := tx.Exec(`
				INSERT INTO flavors(name, category_name, description, image_url, position) VALUES(?,?,?,?,?)
				ON CONFLICT(name) DO UPDATE SET
				  category_name = excluded.category_name, description = excluded.description,
				  image_url = excluded.image_url, position = excluded.position
			`, f.Name, fc.Name, f.Description, f.ImageURL, j); err != nil {
				return err
			}
		}
	}

	for i, p := range productSeed {
		if _, err := tx.Exec(`
			INSERT INTO products(id, category_id, name, price, description, image_url, position) VALUES(?,?,?,?,?,?,?)
			ON CONFLICT(id) DO UPDATE SET
			  category_id = excluded.category_id, name = excluded.name, price = excluded.price,
			  description = excluded.description, image_url = excluded.image_url, position = excluded.position
		`, p.ID, p.Category, p.Name, p.Price, p.Description, p.ImageURL, i); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	applog.Event("catalog.seed", map[string]any{
		"sizes":    len(pizzaSizeSeed),
		"flavors":  len(flavorSeed),
		"products": len(productSeed),
	})
	return nil
}
