package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"

	"techmart/internal/adapters/observability"
	"techmart/internal/domain"
	"techmart/internal/shared"
	mysqlrepo "techmart/internal/storage/mysql"
)

// seedEntry is one catalog item as it appears in the seed file.
type seedEntry struct {
	Name              string            `json:"name"`
	Category          string            `json:"category"`
	Description       string            `json:"description"`
	Price             float64           `json:"price"`
	Brand             string            `json:"brand"`
	Image             string            `json:"image"`
	Features          []string          `json:"features"`
	Specifications    map[string]string `json:"specifications"`
	Badges            []string          `json:"badges"`
	SystemRecommended bool              `json:"systemRecommended"`
	TargetAudience    []string          `json:"targetAudience"`
	EducationalUse    []string          `json:"educationalUse"`
	Accessibility     []string          `json:"accessibility"`
	UseCase           []string          `json:"useCase"`
}

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("file", cfg.SeedFile).
		Int("workers", cfg.SeedWorkers).
		Msg("seeder starting")

	raw, err := os.ReadFile(cfg.SeedFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read seed file")
	}
	var entries []seedEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		log.Fatal().Err(err).Msg("failed to parse seed file")
	}

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)

	owner, err := ensureSystemUser(ctx, repo)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to ensure system user")
	}

	sem := semaphore.NewWeighted(int64(cfg.SeedWorkers))
	var wg sync.WaitGroup

	for _, e := range entries {
		e := e

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, int64(1)); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(e seedEntry) {
			defer wg.Done()
			defer sem.Release(int64(1))

			p := domain.Product{
				Name:              e.Name,
				Category:          strings.ToLower(e.Category),
				Description:       e.Description,
				Price:             e.Price,
				Brand:             e.Brand,
				Image:             e.Image,
				Features:          e.Features,
				Specifications:    e.Specifications,
				Badges:            e.Badges,
				SystemRecommended: e.SystemRecommended,
				IsSystemCreated:   true,
				TargetAudience:    e.TargetAudience,
				EducationalUse:    e.EducationalUse,
				Accessibility:     e.Accessibility,
				UseCase:           e.UseCase,
				AddedBy:           owner.ID,
				Approved:          true,
			}
			if err := repo.CreateProduct(ctx, &p); err != nil {
				log.Warn().Str("name", e.Name).Err(err).Msg("seed failed")
				return
			}
			log.Info().Int64("id", p.ID).Str("name", p.Name).Msg("seed ok")
		}(e)
	}

	wg.Wait()
	log.Info().Msg("seeding completed")
}

// ensureSystemUser returns the catalog owner, creating it on first run.
func ensureSystemUser(ctx context.Context, repo *mysqlrepo.Repo) (domain.User, error) {
	const email = "system@techmart.local"

	u, err := repo.GetUserByEmail(ctx, email)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("change-me-on-first-login"), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}
	u = domain.User{
		Username:     "TechMart",
		Email:        email,
		PasswordHash: string(hash),
		Role:         "admin",
		UserType:     "administrator",
		Preferences:  domain.Preferences{Language: "en", Theme: "dark", Notifications: true},
		IsSystem:     true,
		IsActive:     true,
	}
	if err := repo.CreateUser(ctx, &u); err != nil {
		return domain.User{}, err
	}
	log.Info().Int64("id", u.ID).Msg("system user created")
	return u, nil
}
