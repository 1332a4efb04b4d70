package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/mahirlabib/pricescope/internal/config"
	"github.com/mahirlabib/pricescope/internal/database"
	"github.com/mahirlabib/pricescope/internal/handler"
	"github.com/mahirlabib/pricescope/internal/queue"
	"github.com/mahirlabib/pricescope/internal/repository"
	"github.com/mahirlabib/pricescope/internal/router"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using process environment")
	}
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: without it the OTP flows fail but browsing,
	// toggling and the upsert feed keep working. NewRedisClient returns
	// nil when the ping fails and the middleware treats nil as disabled.
	rdb := config.NewRedisClient()

	products := repository.NewProductRepo(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	otps := repository.NewOTPRepo(rdb)

	h := router.Handlers{
		Auth:     handler.NewAuthHandler(cfg, users, tokens, otps),
		Account:  handler.NewAccountHandler(cfg, users),
		Products: handler.NewProductHandler(products),
		Lists:    handler.NewListHandler(users, products),
		Admin:    handler.NewAdminUserHandler(users),
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, cfg, rdb, h)

	// Price-change audit trail. The consumer reconnects on its own, so a
	// broker outage never takes the API down with it.
	go queue.StartPriceChangeConsumer()

	go purgeExpiredTokens(tokens)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// purgeExpiredTokens sweeps revoked and expired refresh tokens once a day.
// Tokens past expiry are already rejected on use; this only keeps the
// table from growing without bound.
func purgeExpiredTokens(tokens *repository.TokenRepo) {
	for {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if n, err := tokens.PurgeExpired(ctx, 24*time.Hour); err != nil {
			log.Printf("token-purge: sweep failed: %v", err)
		} else if n > 0 {
			log.Printf("token-purge: removed %d expired tokens", n)
		}
		cancel()
		time.Sleep(24 * time.Hour)
	}
}
