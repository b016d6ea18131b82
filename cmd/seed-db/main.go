// Command seed-db provisions a fresh database: it runs migrations, creates
// the admin account, and loads an initial catalog from a JSON file.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/gosimple/slug"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/olxer/electroshop-api/internal/auth"
	"github.com/olxer/electroshop-api/internal/domain/catalog"
	"github.com/olxer/electroshop-api/internal/domain/product"
	"github.com/olxer/electroshop-api/internal/domain/user"
	"github.com/olxer/electroshop-api/internal/postgres"
)

type seedFile struct {
	Categories []catalog.Category `json:"categories"`
	Brands     []catalog.Brand    `json:"brands"`
	Banners    []catalog.Banner   `json:"banners"`
	Products   []seedProduct      `json:"products"`
}

type seedProduct struct {
	Name            string                   `json:"name"`
	Article         string                   `json:"article"`
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
		databaseURL   string
		catalogFile   string
		adminEmail    string
		adminPassword string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&catalogFile, "catalog-file", "db/seed/catalog.json", "path to catalog JSON file")
	flag.StringVar(&adminEmail, "admin-email", "admin@electroshop.local", "email of the admin account")
	flag.StringVar(&adminPassword, "admin-password", "", "password of the admin account (or SHOP_SEED_ADMIN_PASSWORD env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if adminPassword == "" {
		adminPassword = os.Getenv("SHOP_SEED_ADMIN_PASSWORD")
	}
	if adminPassword == "" {
		slog.Error("admin password is required: set --admin-password or SHOP_SEED_ADMIN_PASSWORD")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, catalogFile, adminEmail, adminPassword); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, catalogFile, adminEmail, adminPassword string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "create pool")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}
	slog.Info("migrations applied")

	users := postgres.NewUserRepository(pool)
	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return errors.Wrap(err, "hash admin password")
	}
	admin := &user.User{
		Username:     "admin",
		Email:        adminEmail,
		PasswordHash: hash,
		RoleID:       user.RoleAdmin,
	}
	switch err := users.Create(ctx, admin); {
	case err == nil:
		slog.Info("admin account created", slog.String("email", adminEmail))
	case errors.Is(err, user.ErrEmailTaken):
		existing, err := users.GetByLogin(ctx, adminEmail)
		if err != nil {
			return errors.Wrap(err, "load existing admin")
		}
		admin = existing
		slog.Info("admin account already exists", slog.String("email", adminEmail))
	default:
		return errors.Wrap(err, "create admin")
	}

	data, err := os.ReadFile(catalogFile)
	if err != nil {
		return errors.Wrapf(err, "read %s", catalogFile)
	}
	var seed seedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		return errors.Wrap(err, "parse catalog file")
	}

	return loadCatalog(ctx, pool, &seed, admin.ID)
}

func loadCatalog(ctx context.Context, pool *pgxpool.Pool, seed *seedFile, adminID int64) error {
	catalogRepo := postgres.NewCatalogRepository(pool)
	productRepo := postgres.NewProductRepository(pool)

	categoryByName := make(map[string]int64, len(seed.Categories))
	for i := range seed.Categories {
		c := &seed.Categories[i]
		if c.Slug == "" {
			c.Slug = slug.Make(c.Name)
		}
		if err := catalogRepo.CreateCategory(ctx, c); err != nil {
			return errors.Wrapf(err, "create category %q", c.Name)
		}
		categoryByName[c.Name] = c.ID
	}
	slog.Info("categories loaded", slog.Int("count", len(seed.Categories)))

	brandByName := make(map[string]int64, len(seed.Brands))
	for i := range seed.Brands {
		b := &seed.Brands[i]
		if b.Slug == "" {
			b.Slug = slug.Make(b.Name)
		}
		if err := catalogRepo.CreateBrand(ctx, b); err != nil {
			return errors.Wrapf(err, "create brand %q", b.Name)
		}
		brandByName[b.Name] = b.ID
	}
	slog.Info("brands loaded", slog.Int("count", len(seed.Brands)))

	for i := range seed.Banners {
		b := &seed.Banners[i]
		if b.Slug == "" {
			b.Slug = slug.Make(b.Name)
		}
		if err := catalogRepo.CreateBanner(ctx, b); err != nil {
			return errors.Wrapf(err, "create banner %q", b.Name)
		}
	}
	slog.Info("banners loaded", slog.Int("count", len(seed.Banners)))

	for _, sp := range seed.Products {
		categoryID, ok := categoryByName[sp.Category]
		if !ok {
			return errors.Errorf("product %q references unknown category %q", sp.Name, sp.Category)
		}
		var brandID *int64
		if sp.Brand != "" {
			id, ok := brandByName[sp.Brand]
			if !ok {
				return errors.Errorf("product %q references unknown brand %q", sp.Name, sp.Brand)
			}
			brandID = &id
		}
		p := &product.Product{
			Name:            sp.Name,
			Article:         sp.Article,
			Price:           sp.Price,
			OldPrice:        sp.OldPrice,
			IsInStock:       sp.Quantity > 0,
			Slug:            slug.Make(sp.Name),
			Warranty:        sp.Warranty,
			Characteristics: sp.Characteristics,
			Description:     sp.Description,
			CategoryID:      categoryID,
			BrandID:         brandID,
			ImageURL:        sp.ImageURL,
			Quantity:        sp.Quantity,
			CreatedBy:       &adminID,
		}
		if err := productRepo.Create(ctx, p); err != nil {
			return errors.Wrapf(err, "create product %q", sp.Name)
		}
	}
	slog.Info("products loaded", slog.Int("count", len(seed.Products)))

	return nil
}
