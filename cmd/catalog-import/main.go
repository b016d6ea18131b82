// Command catalog-import loads gzipped supplier feeds (one JSON record per
// line) into the product catalog. Feeds from different suppliers overlap, so
// articles are deduplicated across feeds and against products already in the
// database before anything is inserted.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/gosimple/slug"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/olxer/electroshop-api/internal/domain/catalog"
	"github.com/olxer/electroshop-api/internal/domain/product"
	"github.com/olxer/electroshop-api/internal/postgres"
)

const (
	bloomCapacity = 1_000_000
	bloomFPR      = 0.001
	progressEvery = 50_000
)

// feedRecord is one product line of a supplier feed.
type feedRecord struct {
	Article         string                   `json:"article"`
	Name            string                   `json:"name"`
	Price           decimal.Decimal          `json:"price"`
	OldPrice        *decimal.Decimal         `json:"oldPrice"`
	Warranty        string                   `json:"warranty"`
	Characteristics []product.Characteristic `json:"characteristics"`
	Description     string                   `json:"description"`
	Category        string                   `json:"category"`
	Brand           string                   `json:"brand"`
	ImageURL        string                   `json:"imageUrl"`
	Quantity        int                      `json:"quantity"`
}

func main() {
	var (
		dataDir     string
		databaseURL string
	)

	flag.StringVar(&dataDir, "data-dir", "data", "directory containing *.jsonl.gz supplier feeds")
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, dataDir, databaseURL); err != nil {
		slog.Error("catalog import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog import completed successfully")
}

func run(ctx context.Context, dataDir, databaseURL string) error {
	feeds, err := filepath.Glob(filepath.Join(dataDir, "*.jsonl.gz"))
	if err != nil {
		return errors.Wrap(err, "list feeds")
	}
	if len(feeds) == 0 {
		return errors.Errorf("no *.jsonl.gz feeds in %s", dataDir)
	}
	slog.Info("feeds found", slog.Int("count", len(feeds)))

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	// Seed the filter with articles already in the catalog so re-running the
	// import does not duplicate products.
	seen, err := knownArticles(ctx, pool)
	if err != nil {
		return errors.Wrap(err, "load known articles")
	}

	// Parse all feeds concurrently, then insert sequentially: parsing is the
	// slow part, the deduplicated remainder is small.
	records, err := parseFeeds(ctx, feeds)
	if err != nil {
		return errors.Wrap(err, "parse feeds")
	}

	return insertProducts(ctx, pool, records, seen)
}

// knownArticles returns a bloom filter primed with every article already in
// the products table.
func knownArticles(ctx context.Context, pool *pgxpool.Pool) (*bloom.BloomFilter, error) {
	filter := bloom.NewWithEstimates(bloomCapacity, bloomFPR)

	rows, err := pool.Query(ctx, `SELECT article FROM products WHERE article <> ''`)
	if err != nil {
		return nil, errors.Wrap(err, "query articles")
	}
	articles, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, errors.Wrap(err, "collect articles")
	}
	for _, a := range articles {
		filter.AddString(a)
	}

	slog.Info("known articles loaded", slog.Int("count", len(articles)))
	return filter, nil
}

// parseFeeds streams every feed concurrently and returns all parsed records
// in feed order.
func parseFeeds(ctx context.Context, feeds []string) ([]feedRecord, error) {
	perFeed := make([][]feedRecord, len(feeds))

	g, ctx := errgroup.WithContext(ctx)
	for i, path := range feeds {
		g.Go(parseFeed(ctx, i, path, perFeed))
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []feedRecord
	for _, recs := range perFeed {
		all = append(all, recs...)
	}
	return all, nil
}

func parseFeed(ctx context.Context, idx int, path string, out [][]feedRecord) func() error {
	return func() error {
		var (
			records []feedRecord
			count   uint64
		)
		err := streamGzLines(ctx, path, func(line []byte) error {
			var rec feedRecord
			if err := json.Unmarshal(line, &rec); err != nil {
				return errors.Wrap(err, "parse record")
			}
			if rec.Article == "" || rec.Name == "" {
				return nil
			}
			records = append(records, rec)

			count++
			if count%progressEvery == 0 {
				slog.Info("parse progress",
					slog.String("feed", filepath.Base(path)),
					slog.Uint64("records", count),
				)
			}
			return nil
		})
		if err != nil {
			return errors.Wrapf(err, "stream %s", path)
		}

		slog.Info("feed parsed",
			slog.String("feed", filepath.Base(path)),
			slog.Int("records", len(records)),
		)
		out[idx] = records
		return nil
	}
}

// insertProducts writes deduplicated records, creating missing categories and
// brands on the way. The bloom filter rejects most duplicates cheaply; hits
// are confirmed against an exact set because the filter has false positives.
func insertProducts(ctx context.Context, pool *pgxpool.Pool, records []feedRecord, seen *bloom.BloomFilter) error {
	catalogRepo := postgres.NewCatalogRepository(pool)
	productRepo := postgres.NewProductRepository(pool)

	categories, err := categoryIndex(ctx, catalogRepo)
	if err != nil {
		return err
	}
	brands, err := brandIndex(ctx, catalogRepo)
	if err != nil {
		return err
	}

	var (
		exact    = make(map[string]struct{})
		inserted int
		skipped  int
	)
	for _, rec := range records {
		if _, dup := exact[rec.Article]; dup ||
			(seen.TestString(rec.Article) && articleExists(ctx, pool, rec.Article)) {
			skipped++
			continue
		}

		categoryID, err := categories.resolve(ctx, rec.Category)
		if err != nil {
			return errors.Wrapf(err, "resolve category for %q", rec.Article)
		}
		var brandID *int64
		if rec.Brand != "" {
			id, err := brands.resolve(ctx, rec.Brand)
			if err != nil {
				return errors.Wrapf(err, "resolve brand for %q", rec.Article)
			}
			brandID = &id
		}

		p := &product.Product{
			Name:            rec.Name,
			Article:         rec.Article,
			Price:           rec.Price,
			OldPrice:        rec.OldPrice,
			IsInStock:       rec.Quantity > 0,
			Slug:            slug.Make(rec.Name),
			Warranty:        rec.Warranty,
			Characteristics: rec.Characteristics,
			Description:     rec.Description,
			CategoryID:      categoryID,
			BrandID:         brandID,
			ImageURL:        rec.ImageURL,
			Quantity:        rec.Quantity,
		}
		if err := productRepo.Create(ctx, p); err != nil {
			return errors.Wrapf(err, "create product %q", rec.Article)
		}

		seen.AddString(rec.Article)
		exact[rec.Article] = struct{}{}
		inserted++
	}

	slog.Info("import finished", slog.Int("inserted", inserted), slog.Int("skipped", skipped))
	return nil
}

func articleExists(ctx context.Context, pool *pgxpool.Pool, article string) bool {
	var exists bool
	err := pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM products WHERE article = $1)`, article,
	).Scan(&exists)
	return err == nil && exists
}

// nameIndex lazily creates catalog entities referenced by feed records.
type nameIndex struct {
	byName map[string]int64
	create func(ctx context.Context, name string) (int64, error)
}

func (ix *nameIndex) resolve(ctx context.Context, name string) (int64, error) {
	if id, ok := ix.byName[name]; ok {
		return id, nil
	}
	id, err := ix.create(ctx, name)
	if err != nil {
		return 0, err
	}
	ix.byName[name] = id
	return id, nil
}

func categoryIndex(ctx context.Context, repo *postgres.CatalogRepository) (*nameIndex, error) {
	existing, err := repo.ListCategories(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list categories")
	}
	byName := make(map[string]int64, len(existing))
	for _, c := range existing {
		byName[c.Name] = c.ID
	}
	return &nameIndex{
		byName: byName,
		create: func(ctx context.Context, name string) (int64, error) {
			c := &catalog.Category{Name: name, Slug: slug.Make(name)}
			if err := repo.CreateCategory(ctx, c); err != nil {
				return 0, err
			}
			return c.ID, nil
		},
	}, nil
}

func brandIndex(ctx context.Context, repo *postgres.CatalogRepository) (*nameIndex, error) {
	existing, err := repo.ListBrands(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list brands")
	}
	byName := make(map[string]int64, len(existing))
	for _, b := range existing {
		byName[b.Name] = b.ID
	}
	return &nameIndex{
		byName: byName,
		create: func(ctx context.Context, name string) (int64, error) {
			b := &catalog.Brand{Name: name, Slug: slug.Make(name)}
			if err := repo.CreateBrand(ctx, b); err != nil {
				return 0, err
			}
			return b.ID, nil
		},
	}, nil
}

// streamGzLines opens a gzip-compressed file and calls fn for each
// non-empty line.
func streamGzLines(ctx context.Context, path string, fn func(line []byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, "gzip reader %s", path)
	}
	defer func() { _ = gz.Close() }()

	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 0, 1<<20), 1<<20)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if err := fn(line); err != nil {
			return err
		}
	}
	return scanner.Err()
}
