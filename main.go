package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"cinetrackr/config"
	"cinetrackr/handlers"
	"cinetrackr/internal/database"
	"cinetrackr/services/identity"
	"cinetrackr/services/movies"
	"cinetrackr/services/sessions"
	"cinetrackr/utils"
)

func main() {
	settings := config.Load()

	if settings.LogFile != "" {
		log.SetOutput(&lumberjack.Logger{
			Filename:   settings.LogFile,
			MaxSize:    50, // MB
			MaxBackups: 3,
			MaxAge:     28, // days
		})
	}

	if settings.OIDC.ProviderURL == "" || settings.OIDC.ClientID == "" {
		log.Fatal("[main] OIDC_PROVIDER and OIDC_CLIENT_ID must be set; login cannot work without an identity provider")
	}

	db, err := database.NewDB(database.Config{DatabasePath: settings.DatabasePath})
	if err != nil {
		log.Fatalf("[main] failed to open database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	identitySvc, err := identity.NewOIDCService(ctx, settings.OIDC, db.Users)
	cancel()
	if err != nil {
		log.Fatalf("[main] failed to init identity provider: %v", err)
	}

	sessionsSvc := sessions.NewService(settings.SessionTTL)
	moviesSvc := movies.NewService(db.Movies)

	router := utils.NewRouter(settings.FrontendURL)
	handlers.RegisterRoutes(router,
		handlers.NewAuthHandler(identitySvc, sessionsSvc, settings.FrontendURL),
		handlers.NewMoviesHandler(moviesSvc),
		sessionsSvc)

	server := &http.Server{
		Addr:         settings.ListenAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("[main] CineTrackr backend listening on %s", settings.ListenAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("[main] server error: %v", err)
	}
}
