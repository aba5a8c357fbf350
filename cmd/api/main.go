package main

import (
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	tokens "techmart/internal/adapters/auth"
	server "techmart/internal/adapters/http_server"
	"techmart/internal/adapters/observability"
	redisad "techmart/internal/adapters/redis"
	"techmart/internal/app"
	"techmart/internal/shared"
	mysqlrepo "techmart/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	jwt := tokens.NewJWT(cfg.JWTSecret, cfg.TokenTTL)

	reviews := app.NewReviewService(repo, repo, cache, cfg.CacheTTL)
	products := app.NewProductService(repo, repo, repo, cache, cfg.CacheTTL)
	auth := app.NewAuthService(repo, jwt)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Auth:     auth,
		Products: products,
		Reviews:  reviews,
		Tokens:   jwt,
		AuthRPS:  cfg.AuthRPS,
	})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
