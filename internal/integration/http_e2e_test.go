//go:build integration || !unit

package integration

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	tokens "techmart/internal/adapters/auth"
	server "techmart/internal/adapters/http_server"
	redisad "techmart/internal/adapters/redis"
	"techmart/internal/app"
	mysqlrepo "techmart/internal/storage/mysql"
)

// ---------- helpers ----------

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

// postJSON sends body and decodes the response into out (when out != nil).
func postJSON(t *testing.T, client *http.Client, url, token string, body, out any) int {
	t.Helper()
	b, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := client.Do(req)
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer res.Body.Close()
	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return res.StatusCode
}

func getJSON(t *testing.T, client *http.Client, url, token string, out any) int {
	t.Helper()
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := client.Do(req)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer res.Body.Close()
	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return res.StatusCode
}

func register(t *testing.T, client *http.Client, base, username, email string) {
	t.Helper()
	code := postJSON(t, client, base+"/api/auth/register", "",
		map[string]any{"username": username, "email": email, "password": "s3cret-pass"}, nil)
	if code != http.StatusOK {
		t.Fatalf("register %s: status %d", email, code)
	}
}

func login(t *testing.T, client *http.Client, base, email string) string {
	t.Helper()
	var out struct {
		Token string `json:"token"`
	}
	code := postJSON(t, client, base+"/api/auth/login", "",
		map[string]any{"email": email, "password": "s3cret-pass"}, &out)
	if code != http.StatusOK || out.Token == "" {
		t.Fatalf("login %s: status %d token %q", email, code, out.Token)
	}
	return out.Token
}

// ---------- the test ----------

func TestHTTP_EndToEnd_ReviewFlow(t *testing.T) {
	// Start isolated MySQL container
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

	// Real wiring end to end: repo, redis-backed cache, JWT, services, router.
	mr := miniredis.RunT(t)
	repo := mysqlrepo.New(db)
	cache := redisad.New(mr.Addr(), "", 0)
	jwt := tokens.NewJWT("e2e-secret", time.Hour)

	srv := server.New()
	srv.MountHandlers(&server.Handlers{
		Auth:     app.NewAuthService(repo, jwt),
		Products: app.NewProductService(repo, repo, repo, cache, 15*time.Minute),
		Reviews:  app.NewReviewService(repo, repo, cache, 15*time.Minute),
		Tokens:   jwt,
		AuthRPS:  100,
	})
	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()
	client := ts.Client()

	register(t, client, ts.URL, "alice", "alice@example.com")
	register(t, client, ts.URL, "bob", "bob@example.com")
	aliceTok := login(t, client, ts.URL, "alice@example.com")
	bobTok := login(t, client, ts.URL, "bob@example.com")

	// protected routes reject anonymous callers
	if code := postJSON(t, client, ts.URL+"/api/products", "", map[string]any{}, nil); code != http.StatusUnauthorized {
		t.Fatalf("anonymous create: status %d", code)
	}

	// alice submits a product
	var created struct {
		Product struct {
			ID int64 `json:"id"`
		} `json:"product"`
	}
	code := postJSON(t, client, ts.URL+"/api/products", aliceTok, map[string]any{
		"name":        "ThinkPad E14",
		"category":    "laptop",
		"description": "Business laptop with a good keyboard",
		"price":       749.99,
		"brand":       "Lenovo",
		"badges":      []string{"best-value"},
		"useCase":     []string{"programming"},
	}, &created)
	if code != http.StatusCreated || created.Product.ID == 0 {
		t.Fatalf("create product: status %d body %+v", code, created)
	}
	pid := created.Product.ID

	// bob reviews it
	var reviewed struct {
		Review struct {
			ID int64 `json:"id"`
		} `json:"review"`
	}
	code = postJSON(t, client, fmt.Sprintf("%s/api/products/%d/reviews", ts.URL, pid), bobTok, map[string]any{
		"rating": 4, "title": "Solid", "comment": "Good keyboard, dim screen",
	}, &reviewed)
	if code != http.StatusCreated || reviewed.Review.ID == 0 {
		t.Fatalf("create review: status %d body %+v", code, reviewed)
	}

	// one review per (product, user)
	code = postJSON(t, client, fmt.Sprintf("%s/api/products/%d/reviews", ts.URL, pid), bobTok, map[string]any{
		"rating": 5, "title": "Again", "comment": "Trying twice",
	}, nil)
	if code != http.StatusConflict {
		t.Fatalf("duplicate review: status %d", code)
	}

	// the product detail reflects the aggregate and carries the review
	var detail struct {
		Rating          float64 `json:"rating"`
		ReviewCount     int     `json:"reviewCount"`
		Recommendations []struct {
			UserName string `json:"userName"`
			Rating   int    `json:"rating"`
		} `json:"recommendations"`
	}
	if code := getJSON(t, client, fmt.Sprintf("%s/api/products/%d", ts.URL, pid), "", &detail); code != http.StatusOK {
		t.Fatalf("get product: status %d", code)
	}
	if detail.Rating != 4 || detail.ReviewCount != 1 {
		t.Fatalf("aggregate: %+v", detail)
	}
	if len(detail.Recommendations) != 1 || detail.Recommendations[0].UserName != "bob" {
		t.Fatalf("reviews on detail: %+v", detail.Recommendations)
	}

	// alice finds bob's review helpful; toggling twice removes the vote
	var helpful struct {
		HelpfulCount int `json:"helpfulCount"`
	}
	url := fmt.Sprintf("%s/api/products/reviews/%d/helpful", ts.URL, reviewed.Review.ID)
	if code := postJSON(t, client, url, aliceTok, nil, &helpful); code != http.StatusOK || helpful.HelpfulCount != 1 {
		t.Fatalf("first toggle: status %d count %d", code, helpful.HelpfulCount)
	}
	if code := postJSON(t, client, url, aliceTok, nil, &helpful); code != http.StatusOK || helpful.HelpfulCount != 0 {
		t.Fatalf("second toggle: status %d count %d", code, helpful.HelpfulCount)
	}
}
