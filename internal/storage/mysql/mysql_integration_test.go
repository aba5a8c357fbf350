//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"techmart/internal/domain"
	mysqlrepo "techmart/internal/storage/mysql"
)

func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("%s not set; export it (e.g. MIGRATIONS_DIR=/path/to/sql)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()

	// Start isolated MySQL; let Docker pick a free host port.
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=techmart",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "techmart")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)
	return db
}

func TestRepo_MySQL_ReviewLifecycle(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	alice := domain.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x", Role: "user", UserType: "teacher",
		Preferences: domain.Preferences{Language: "en", Theme: "dark", Notifications: true}, IsActive: true}
	if err := repo.CreateUser(ctx, &alice); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	bob := domain.User{Username: "bob", Email: "bob@example.com", PasswordHash: "x", Role: "user", UserType: "student",
		Preferences: domain.Preferences{Language: "en", Theme: "light", Notifications: true}, IsActive: true}
	if err := repo.CreateUser(ctx, &bob); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	// duplicate email
	dup := domain.User{Username: "alice2", Email: "alice@example.com", PasswordHash: "x"}
	if err := repo.CreateUser(ctx, &dup); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("duplicate email: want ErrConflict, got %v", err)
	}

	p := domain.Product{
		Name: "ThinkPad E14", Category: "laptop", Description: "Business laptop", Price: 749.99, Brand: "Lenovo",
		Features: []string{"16 GB RAM"}, Badges: []string{"best-value", "durable"},
		TargetAudience: []string{"teacher"}, UseCase: []string{"programming", "writing"},
		AddedBy: alice.ID, Approved: true,
	}
	if err := repo.CreateProduct(ctx, &p); err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	// review writes recompute the aggregate in the same transaction
	r1 := domain.Review{ProductID: p.ID, UserID: alice.ID, Rating: 4, Title: "Solid", Comment: "Good keyboard"}
	if err := repo.CreateReview(ctx, &r1); err != nil {
		t.Fatalf("CreateReview: %v", err)
	}
	r2 := domain.Review{ProductID: p.ID, UserID: bob.ID, Rating: 2, Title: "Meh", Comment: "Dim screen"}
	if err := repo.CreateReview(ctx, &r2); err != nil {
		t.Fatalf("CreateReview: %v", err)
	}
	got, err := repo.GetProduct(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if got.Rating != 3 || got.ReviewCount != 2 {
		t.Fatalf("aggregate after two reviews: rating=%v count=%d", got.Rating, got.ReviewCount)
	}

	// one review per (product, user)
	again := domain.Review{ProductID: p.ID, UserID: alice.ID, Rating: 5, Title: "Again", Comment: "Twice"}
	if err := repo.CreateReview(ctx, &again); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("duplicate review: want ErrConflict, got %v", err)
	}

	// rating change recomputes
	r1.Rating = 5
	if err := repo.UpdateReview(ctx, r1, true); err != nil {
		t.Fatalf("UpdateReview: %v", err)
	}
	if got, _ = repo.GetProduct(ctx, p.ID); got.Rating != 3.5 {
		t.Fatalf("aggregate after rating change: %v", got.Rating)
	}

	// helpful votes toggle and never touch the aggregate
	if n, err := repo.ToggleHelpful(ctx, r1.ID, bob.ID); err != nil || n != 1 {
		t.Fatalf("first toggle: n=%d err=%v", n, err)
	}
	if n, err := repo.ToggleHelpful(ctx, r1.ID, bob.ID); err != nil || n != 0 {
		t.Fatalf("second toggle: n=%d err=%v", n, err)
	}
	if _, err := repo.ToggleHelpful(ctx, 99999, bob.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("toggle on missing review: want ErrNotFound, got %v", err)
	}

	// delete pulls the aggregate back down
	if err := repo.DeleteReview(ctx, r2.ID); err != nil {
		t.Fatalf("DeleteReview: %v", err)
	}
	if got, _ = repo.GetProduct(ctx, p.ID); got.Rating != 5 || got.ReviewCount != 1 {
		t.Fatalf("aggregate after delete: rating=%v count=%d", got.Rating, got.ReviewCount)
	}

	// product delete cascades to its reviews
	if err := repo.DeleteProduct(ctx, p.ID); err != nil {
		t.Fatalf("DeleteProduct: %v", err)
	}
	if _, err := repo.GetReview(ctx, r1.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("review survived product delete: %v", err)
	}
}

func TestRepo_MySQL_ListFilters(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	owner := domain.User{Username: "owner", Email: "owner@example.com", PasswordHash: "x"}
	if err := repo.CreateUser(ctx, &owner); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	seed := []domain.Product{
		{Name: "ThinkPad E14", Category: "laptop", Description: "Business laptop", Price: 749.99, Brand: "Lenovo",
			Badges: []string{"best-value"}, TargetAudience: []string{"teacher"}, UseCase: []string{"programming"},
			AddedBy: owner.ID, Approved: true, SystemRecommended: true},
		{Name: "EcoTank printer", Category: "printer", Description: "Refillable ink", Price: 299.99, Brand: "Epson",
			Badges: []string{"eco-friendly"}, TargetAudience: []string{"teacher", "administrator"}, UseCase: []string{"printing"},
			AddedBy: owner.ID, Approved: true},
		{Name: "Hidden draft", Category: "laptop", Description: "Not public", Price: 100, Brand: "Acme",
			AddedBy: owner.ID, Approved: false},
	}
	for i := range seed {
		if err := repo.CreateProduct(ctx, &seed[i]); err != nil {
			t.Fatalf("CreateProduct: %v", err)
		}
	}

	// unapproved products never appear
	page, err := repo.ListProducts(ctx, domain.ProductsQuery{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("expected 2 approved products, got %d", page.Total)
	}

	// JSON any-of filters
	page, err = repo.ListProducts(ctx, domain.ProductsQuery{Badges: []string{"eco-friendly", "portable"}, Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("ListProducts badges: %v", err)
	}
	if page.Total != 1 || page.Items[0].Name != "EcoTank printer" {
		t.Fatalf("badge filter: %+v", page)
	}

	// full-text search
	page, err = repo.ListProducts(ctx, domain.ProductsQuery{Search: "thinkpad", Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("ListProducts search: %v", err)
	}
	if page.Total != 1 || page.Items[0].Name != "ThinkPad E14" {
		t.Fatalf("search filter: %+v", page)
	}

	// recommendations only surface the flagged set
	recs, err := repo.Recommendations(ctx, domain.RecommendationsQuery{Limit: 6})
	if err != nil {
		t.Fatalf("Recommendations: %v", err)
	}
	if len(recs) != 1 || recs[0].Name != "ThinkPad E14" {
		t.Fatalf("recommendations: %+v", recs)
	}

	// price window
	min := 500.0
	page, err = repo.ListProducts(ctx, domain.ProductsQuery{MinPrice: &min, Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("ListProducts price: %v", err)
	}
	if page.Total != 1 || page.Items[0].Name != "ThinkPad E14" {
		t.Fatalf("price filter: %+v", page)
	}
}
