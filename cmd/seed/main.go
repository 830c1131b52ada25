// Package main provides a CLI tool for creating the schema and seeding
// initial data.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"librairie/internal/core/apperror"
	"librairie/internal/core/types"
	"librairie/internal/domain/auth"
	"librairie/internal/domain/catalog"
	"librairie/internal/infrastructure/storage/postgres"
	"librairie/internal/infrastructure/storage/postgres/auth_repo"
	"librairie/internal/infrastructure/storage/postgres/catalog_repo"
	"librairie/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	poolCfg := postgres.DefaultPoolConfig(dbURL)
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("connected to database")

	if err := postgres.InitSchema(ctx, pool); err != nil {
		log.Fatalw("failed to create schema", "error", err)
	}
	log.Info("schema ready")

	txManager := postgres.NewTxManager(pool)

	if err := seedAdminUser(ctx, txManager, log); err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoCatalog(ctx, txManager, log); err != nil {
			log.Fatalw("failed to seed demo catalog", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

func seedAdminUser(ctx context.Context, txManager *postgres.TxManager, log *logger.Logger) error {
	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "changeme123"
	}

	repo := auth_repo.NewUserRepo(txManager)

	if _, err := repo.GetByUsername(ctx, username); err == nil {
		log.Infow("admin user already exists", "username", username)
		return nil
	} else if !apperror.IsNotFound(err) {
		return err
	}

	service := auth.NewService(repo, auth.NewJWTService(auth.DefaultJWTConfig("seed")))
	user, err := service.CreateUser(ctx, username, password, auth.RoleAdmin)
	if err != nil {
		return err
	}

	log.Infow("admin user created", "username", username, "user_id", user.ID)
	return nil
}

func seedDemoCatalog(ctx context.Context, txManager *postgres.TxManager, log *logger.Logger) error {
	repo := catalog_repo.NewItemRepo(txManager)

	type demoItem struct {
		itemType catalog.ItemType
		title    string
		author   string
		isbn     string
		price    string
		tva      types.VATRate
		amount   int
	}

	items := []demoItem{
		{catalog.TypeBook, "Le Petit Prince", "Antoine de Saint-Exupéry", "9782070612758", "6.90", types.VAT5_5, 12},
		{catalog.TypeBook, "L'Étranger", "Albert Camus", "9782070360024", "7.50", types.VAT5_5, 8},
		{catalog.TypeBook, "Vendredi ou la Vie sauvage", "Michel Tournier", "9782081242241", "5.20", types.VAT5_5, 5},
		{catalog.TypeGame, "Jeu des 7 familles", "", "", "9.90", types.VAT20, 4},
		{catalog.TypePostcard, "Carte postale vieille ville", "", "", "1.50", types.VAT20, 60},
		{catalog.TypeStationery, "Carnet ligné A5", "", "", "4.30", types.VAT20, 15},
	}

	for _, d := range items {
		price, err := decimal.NewFromString(d.price)
		if err != nil {
			return err
		}

		item := catalog.NewItem(d.itemType, d.title, price, d.tva)
		item.Amount = d.amount
		if d.author != "" {
			author := d.author
			item.Author = &author
		}
		if d.isbn != "" {
			if existing, err := repo.GetByISBN(ctx, d.isbn); err == nil {
				log.Infow("demo item already exists", "title", existing.Title)
				continue
			}
			isbn := d.isbn
			item.ISBN = &isbn
		}

		if err := repo.Create(ctx, item); err != nil {
			return err
		}
		log.Infow("demo item created", "title", item.Title)
	}

	return nil
}
