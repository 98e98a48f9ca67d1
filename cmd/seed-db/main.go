// Command seed-db loads the catalog, the standing coupon table, and the
// default admin API key into the database. Safe to re-run: everything is
// upserted.
package main

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/shopveda/storefront/internal/repository"
)

type productJSON struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Subcategory string          `json:"subcategory"`
	Image       string          `json:"image"`
	Stock       int             `json:"stock"`
}

type couponSeed struct {
	code         string
	discountType string
	value        string
	minPurchase  string
	maxDiscount  string
	description  string
}

var coupons = []couponSeed{
	{
		code:         "WELCOME10",
		discountType: "percentage",
		value:        "10",
		minPurchase:  "500",
		maxDiscount:  "200",
		description:  "Welcome offer: 10% off orders above Rs. 500",
	},
	{
		code:         "SAVE20",
		discountType: "percentage",
		value:        "20",
		minPurchase:  "1000",
		maxDiscount:  "500",
		description:  "20% off orders above Rs. 1000",
	},
	{
		code:         "FLAT500",
		discountType: "fixed",
		value:        "500",
		minPurchase:  "2000",
		description:  "Flat Rs. 500 off orders above Rs. 2000",
	},
}

func main() {
	var (
		databaseURL  string
		productsFile string
		apiKey       string
		apiKeyPepper string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&productsFile, "products-file", "db/seed/products.json", "path to products JSON file")
	flag.StringVar(&apiKey, "api-key", "", "admin API key to seed (or STORE_SEED_API_KEY env)")
	flag.StringVar(&apiKeyPepper, "api-key-pepper", "", "HMAC pepper for API key hashing (or STORE_API_KEY_PEPPER env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if apiKey == "" {
		apiKey = os.Getenv("STORE_SEED_API_KEY")
	}
	if apiKey == "" {
		slog.Error("API key is required: set --api-key or STORE_SEED_API_KEY")
		os.Exit(1)
	}
	if apiKeyPepper == "" {
		apiKeyPepper = os.Getenv("STORE_API_KEY_PEPPER")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, productsFile, apiKey, apiKeyPepper); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, productsFile, apiKey, pepper string) error {
	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedProducts(ctx, pool, productsFile); err != nil {
		return errors.Wrap(err, "seed products")
	}
	if err := seedCoupons(ctx, pool); err != nil {
		return errors.Wrap(err, "seed coupons")
	}
	if err := seedAPIKey(ctx, pool, apiKey, pepper); err != nil {
		return errors.Wrap(err, "seed api key")
	}

	return nil
}

const upsertProductSQL = `
INSERT INTO products (id, name, price, category, subcategory, image, stock, active)
VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE)
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    price = EXCLUDED.price,
    category = EXCLUDED.category,
    subcategory = EXCLUDED.subcategory,
    image = EXCLUDED.image,
    stock = EXCLUDED.stock,
    active = TRUE
`

func seedProducts(ctx context.Context, pool *pgxpool.Pool, productsFile string) error {
	slog.Info("reading products file", slog.String("path", productsFile))

	data, err := os.ReadFile(productsFile)
	if err != nil {
		return errors.Wrap(err, "read products file")
	}

	var products []productJSON
	if err := json.Unmarshal(data, &products); err != nil {
		return errors.Wrap(err, "parse products JSON")
	}

	slog.Info("upserting products", slog.Int("count", len(products)))

	for _, p := range products {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if _, err := pool.Exec(ctx, upsertProductSQL,
			p.ID, p.Name, p.Price, p.Category, p.Subcategory, p.Image, p.Stock,
		); err != nil {
			return errors.Wrapf(err, "upsert product %s", p.ID)
		}

		slog.Info("upserted product", slog.String("id", p.ID), slog.String("name", p.Name))
	}

	return nil
}

const upsertCouponSQL = `
INSERT INTO coupons (code, discount_type, value, min_purchase, max_discount, active, description)
VALUES ($1, $2, $3, $4, $5, TRUE, $6)
ON CONFLICT (code) DO UPDATE SET
    discount_type = EXCLUDED.discount_type,
    value = EXCLUDED.value,
    min_purchase = EXCLUDED.min_purchase,
    max_discount = EXCLUDED.max_discount,
    active = TRUE,
    description = EXCLUDED.description
`

func seedCoupons(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("seeding standing coupons")

	for _, c := range coupons {
		value := decimal.RequireFromString(c.value)

		var minPurchase, maxDiscount *decimal.Decimal
		if c.minPurchase != "" {
			d := decimal.RequireFromString(c.minPurchase)
			minPurchase = &d
		}
		if c.maxDiscount != "" {
			d := decimal.RequireFromString(c.maxDiscount)
			maxDiscount = &d
		}

		if _, err := pool.Exec(ctx, upsertCouponSQL,
			c.code, c.discountType, value, minPurchase, maxDiscount, c.description,
		); err != nil {
			return errors.Wrapf(err, "upsert coupon %s", c.code)
		}

		slog.Info("upserted coupon", slog.String("code", c.code), slog.String("description", c.description))
	}

	return nil
}

const upsertAPIKeySQL = `
INSERT INTO api_keys (id, key_hash, name, active)
VALUES ($1, $2, $3, TRUE)
ON CONFLICT (id) DO UPDATE SET
    key_hash = EXCLUDED.key_hash,
    name = EXCLUDED.name,
    active = TRUE
`

func seedAPIKey(ctx context.Context, pool *pgxpool.Pool, apiKey, pepper string) error {
	slog.Info("seeding default API key")

	mac := hmac.New(sha256.New, []byte(pepper))
	mac.Write([]byte(apiKey))
	keyHash := hex.EncodeToString(mac.Sum(nil))

	if _, err := pool.Exec(ctx, upsertAPIKeySQL, "default", keyHash, "back-office"); err != nil {
		return errors.Wrap(err, "upsert default API key")
	}

	slog.Info("upserted API key", slog.String("id", "default"), slog.String("name", "back-office"))

	return nil
}
