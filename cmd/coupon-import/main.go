// Command coupon-import bulk-loads single-use promo codes from gzipped
// campaign exports (one code per line) into the coupons table. Marketing
// blasts run to tens of millions of codes, so files are scanned concurrently
// and a bloom filter keeps cross-file duplicate suppression memory-bounded.
// Duplicates that slip past the filter are harmless: inserts are upserts.
package main

import (
	"bufio"
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/shopveda/storefront/internal/domain/coupon"
	"github.com/shopveda/storefront/internal/repository"
)

const (
	bloomCapacity = 50_000_000
	bloomFPR      = 0.001
	progressEvery = 1_000_000
	minCodeLen    = 6
	maxCodeLen    = 16
	batchSize     = 1000
)

func main() {
	var (
		databaseURL string
		value       string
		minPurchase string
		maxDiscount string
		description string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&value, "value", "10", "percentage discount each imported code grants")
	flag.StringVar(&minPurchase, "min-purchase", "", "minimum cart subtotal to redeem (empty = none)")
	flag.StringVar(&maxDiscount, "max-discount", "", "cap on the computed discount (empty = uncapped)")
	flag.StringVar(&description, "description", "Campaign promo code", "description stored with each code")
	flag.Parse()

	files := flag.Args()
	if len(files) == 0 {
		slog.Error("usage: coupon-import [flags] codes1.gz [codes2.gz ...]")
		os.Exit(1)
	}
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	rule := campaignRule{
		value:       decimal.RequireFromString(value),
		description: description,
	}
	if minPurchase != "" {
		d := decimal.RequireFromString(minPurchase)
		rule.minPurchase = &d
	}
	if maxDiscount != "" {
		d := decimal.RequireFromString(maxDiscount)
		rule.maxDiscount = &d
	}

	if err := run(ctx, databaseURL, files, rule); err != nil {
		slog.Error("coupon import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("coupon import completed successfully")
}

type campaignRule struct {
	value       decimal.Decimal
	minPurchase *decimal.Decimal
	maxDiscount *decimal.Decimal
	description string
}

func run(ctx context.Context, databaseURL string, files []string, rule campaignRule) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			return errors.Wrapf(err, "check file %s", f)
		}
	}

	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	dedup := &dedupFilter{filter: bloom.NewWithEstimates(bloomCapacity, bloomFPR)}
	codes := make(chan string, batchSize)

	g, ctx := errgroup.WithContext(ctx)

	scanners, ctx := errgroup.WithContext(ctx)
	for i, f := range files {
		scanners.Go(scanFile(ctx, i, f, dedup, codes))
	}
	g.Go(func() error {
		defer close(codes)
		return scanners.Wait()
	})

	var written int
	g.Go(func() error {
		w, err := writeCodes(ctx, pool, codes, rule)
		written = w
		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("import finished", slog.Int("coupons_written", written))
	return nil
}

// dedupFilter is a mutex-guarded bloom filter shared by the file scanners.
type dedupFilter struct {
	mu     sync.Mutex
	filter *bloom.BloomFilter
}

// testAndAdd reports whether the code was probably seen before, adding it as
// a side effect.
func (d *dedupFilter) testAndAdd(code string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.filter.TestAndAddString(code)
}

func scanFile(ctx context.Context, idx int, path string, dedup *dedupFilter, out chan<- string) func() error {
	return func() error {
		var total, kept uint64

		err := streamGzFile(ctx, path, func(line string) error {
			code := coupon.NormalizeCode(line)
			total++
			if total%progressEvery == 0 {
				slog.Info("scan progress",
					slog.Int("file", idx+1),
					slog.Uint64("lines", total),
					slog.Uint64("kept", kept),
				)
			}

			if len(code) < minCodeLen || len(code) > maxCodeLen {
				return nil
			}
			if dedup.testAndAdd(code) {
				return nil
			}

			kept++
			select {
			case out <- code:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil {
			return errors.Wrapf(err, "scan file %d", idx+1)
		}

		slog.Info("scan complete",
			slog.Int("file", idx+1),
			slog.Uint64("lines", total),
			slog.Uint64("kept", kept),
		)
		return nil
	}
}

// streamGzFile opens a gzip-compressed file and calls fn for each line.
func streamGzFile(ctx context.Context, path string, fn func(line string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, "create gzip reader for %s", path)
	}
	defer func() { _ = gz.Close() }()

	scanner := bufio.NewScanner(gz)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := fn(line); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}

	return nil
}

const upsertCouponSQL = `
INSERT INTO coupons (code, discount_type, value, min_purchase, max_discount, active, description)
VALUES ($1, 'percentage', $2, $3, $4, TRUE, $5)
ON CONFLICT (code) DO UPDATE SET
    value = EXCLUDED.value,
    min_purchase = EXCLUDED.min_purchase,
    max_discount = EXCLUDED.max_discount,
    active = TRUE,
    description = EXCLUDED.description
`

func writeCodes(ctx context.Context, pool *pgxpool.Pool, codes <-chan string, rule campaignRule) (int, error) {
	var written int
	for code := range codes {
		if _, err := pool.Exec(ctx, upsertCouponSQL,
			code, rule.value, rule.minPurchase, rule.maxDiscount, rule.description,
		); err != nil {
			return written, errors.Wrapf(err, "upsert coupon %s", code)
		}

		written++
		if written%batchSize == 0 {
			slog.Info("write progress", slog.Int("written", written))
		}
	}
	return written, nil
}
