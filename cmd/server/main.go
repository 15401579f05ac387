// cmd/server/main.go
package main

import (
	"log"
	"net/http"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/mixgg/mix-service/internal/auth"
	"github.com/mixgg/mix-service/internal/cache"
	"github.com/mixgg/mix-service/internal/database"
	"github.com/mixgg/mix-service/internal/handlers"
	"github.com/mixgg/mix-service/internal/middleware"
	"github.com/mixgg/mix-service/internal/mix"
)

func main() {
	auth.Init()
	database.ConnectDB()
	if err := cache.ConnectRedis(); err != nil {
		log.Fatalf("redis: %v", err)
	}

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	svc := mix.NewService(
		database.MixStore{},
		database.RosterStore{},
		database.RatingStore{},
		cache.Notifier{},
		mix.DefaultMapPool(),
		logger,
	)

	mux := http.NewServeMux()

	// player endpoints
	mux.HandleFunc("/player/create", handlers.CreatePlayerHandler)
	mux.HandleFunc("/player/login", handlers.LoginHandler)

	// mix endpoints
	logged := middleware.RequestLogger(logger)
	mux.Handle("/mix/create", logged(handlers.CreateMixHandler(svc)))
	mux.Handle("/mix/get", logged(handlers.GetMixHandler(svc)))
	mux.Handle("/mix/roster", logged(handlers.RosterHandler(svc)))
	mux.Handle("/mix/join", logged(handlers.JoinMixHandler(svc)))
	mux.Handle("/mix/balance", logged(handlers.BalanceMixHandler(svc)))
	mux.Handle("/mix/ban", logged(handlers.BanMapHandler(svc)))
	mux.Handle("/mix/finalize", logged(handlers.FinalizeMixHandler(svc)))
	mux.Handle("/mix/server", logged(handlers.SetServerHandler(svc)))

	// change-signal websocket
	mux.Handle("/mix/ws/", logged(handlers.MixWSHandler(logger, svc)))

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	logger.Infof("Running on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
