package repos

import (
	"context"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite" // registers "sqlite"
)

// OpenDB connects with driver "sqlite" or "pgx" and makes sure the schema exists.
func OpenDB(driver, dsn string, maxConns int) (*sqlx.DB, error) {
	schema, ok := schemas[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		// One writer, and ":memory:" is private to its connection.
		maxConns = 1
	}
	if maxConns > 0 {
		db.SetMaxOpenConns(maxConns)
		db.SetMaxIdleConns(maxConns)
	}
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return db, nil
}

var schemas = map[string]string{
	"sqlite": `
PRAGMA foreign_keys = ON;

CREATE TABLE IF NOT EXISTS products(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  description TEXT,
  price INTEGER NOT NULL CHECK (price >= 0),
  picture_url TEXT,
  type TEXT,
  brand TEXT,
  quantity_in_stock INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS baskets(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  buyer_id TEXT NOT NULL UNIQUE,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);

CREATE TABLE IF NOT EXISTS basket_items(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  basket_id INTEGER NOT NULL REFERENCES baskets(id) ON DELETE CASCADE,
  product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
  quantity INTEGER NOT NULL CHECK (quantity >= 1),
  UNIQUE (basket_id, product_id)
);
CREATE INDEX IF NOT EXISTS idx_basket_items_basket ON basket_items(basket_id);
`,
	"pgx": `
CREATE TABLE IF NOT EXISTS products(
  id BIGSERIAL PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  price BIGINT NOT NULL CHECK (price >= 0),
  picture_url TEXT,
  type TEXT,
  brand TEXT,
  quantity_in_stock INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS baskets(
  id BIGSERIAL PRIMARY KEY,
  buyer_id TEXT NOT NULL UNIQUE,
  created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
  updated_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS basket_items(
  id BIGSERIAL PRIMARY KEY,
  basket_id BIGINT NOT NULL REFERENCES baskets(id) ON DELETE CASCADE,
  product_id BIGINT NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
  quantity INTEGER NOT NULL CHECK (quantity >= 1),
  UNIQUE (basket_id, product_id)
);
CREATE INDEX IF NOT EXISTS idx_basket_items_basket ON basket_items(basket_id);
`,
}

type seedProduct struct {
	Name, Description, PictureURL, Type, Brand string
	Price                                      int64
	Stock                                      int
}

var demoProducts = []seedProduct{
	{"Angular Speedster Board 2000", "Lorem ipsum dolor sit amet, consectetuer adipiscing elit.", "/images/products/sb-ang1.png", "Boards", "Angular", 20000, 100},
	{"Green Angular Board 3000", "Nunc viverra imperdiet enim. Fusce est.", "/images/products/sb-ang2.png", "Boards", "Angular", 15000, 100},
	{"Core Board Speed Rush 3", "Suspendisse dui purus, scelerisque at, vulputate vitae.", "/images/products/sb-core1.png", "Boards", "NetCore", 18000, 100},
	{"Net Core Super Board", "Pellentesque habitant morbi tristique senectus et netus.", "/images/products/sb-core2.png", "Boards", "NetCore", 30000, 100},
	{"React Board Super Whizzy Fast", "Aenean nec lorem. In porttitor.", "/images/products/sb-react1.png", "Boards", "React", 25000, 100},
	{"Typescript Entry Board", "Donec congue lacinia dui, a porttitor lectus.", "/images/products/sb-ts1.png", "Boards", "TypeScript", 12000, 100},
	{"Core Blue Hat", "Fusce posuere, magna sed pulvinar ultricies.", "/images/products/hat-core1.png", "Hats", "NetCore", 1000, 100},
	{"Green React Woolen Hat", "Purus lectus malesuada libero, sit amet commodo.", "/images/products/hat-react1.png", "Hats", "React", 8000, 100},
	{"Purple React Woolen Hat", "Magna eros quis urna.", "/images/products/hat-react2.png", "Hats", "React", 1500, 100},
	{"Blue Code Gloves", "Nunc dignissim risus id metus.", "/images/products/glove-code1.png", "Gloves", "VS Code", 1800, 100},
	{"Angular Purple Boot", "Cras ornare tristique elit.", "/images/products/boot-ang1.png", "Boots", "Angular", 15000, 100},
	{"Core Purple Boots", "Vivamus vestibulum ntulla nec ante.", "/images/products/boot-core1.png", "Boots", "NetCore", 18999, 100},
}

// SeedIfEmpty inserts the demo catalogue when there are no products yet.
func SeedIfEmpty(ctx context.Context, db *sqlx.DB) error {
	var n int
	if err := db.GetContext(ctx, &n, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Info().Int("products", len(demoProducts)).Msg("seeding demo catalogue")

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	insert := tx.Rebind(`
		INSERT INTO products(name, description, price, picture_url, type, brand, quantity_in_stock)
		VALUES(?,?,?,?,?,?,?)`)
	for _, p := range demoProducts {
		if _, err := tx.ExecContext(ctx, insert, p.Name, p.Description, p.Price, p.PictureURL, p.Type, p.Brand, p.Stock); err != nil {
			return fmt.Errorf("seed %q: %w", p.Name, err)
		}
	}
	return tx.Commit()
}
