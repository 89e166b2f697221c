package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"
	"gopkg.in/natefinch/lumberjack.v2"

	"lilibox/api"
	"lilibox/config"
	"lilibox/handlers"
	"lilibox/services/catalog"
	"lilibox/services/drive"
	"lilibox/services/streaming"
	"lilibox/services/tmdb"
	"lilibox/utils"
)

func main() {
	configPath := flag.String("config", "config.json", "path to config file")
	authorize := flag.Bool("authorize", false, "run the interactive Google Drive authorization flow and exit")
	flag.Parse()

	cfgMgr, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("[main] config: %v", err)
	}
	cfg := cfgMgr.Get()

	setupLogging(cfg.LogFile)

	if *authorize {
		if err := runAuthorize(cfg); err != nil {
			log.Fatalf("[main] authorization failed: %v", err)
		}
		log.Printf("[main] token saved to %s", cfg.TokenPath)
		return
	}

	ctx := context.Background()

	driveSvc := initDrive(ctx, cfg)
	tmdbSvc := tmdb.NewClient(cfg.TMDBAPIKey, cfg.TMDBLanguage, nil)
	catalogSvc := catalog.NewService(driveSvc, tmdbSvc, cfg.MediaFolderID)
	provider := streaming.NewDriveProvider(driveSvc)

	mediaHandler := handlers.NewMediaHandler(catalogSvc)
	videoHandler := handlers.NewVideoHandler(provider)

	router := utils.NewRouter(cfg.AllowAnyOrigin)
	router.Use(api.LoggingMiddleware())

	listMedia := http.HandlerFunc(mediaHandler.ListMedia)
	if cfg.CatalogRatePerMinute > 0 {
		limiter := api.NewIPRateLimiter(rate.Limit(float64(cfg.CatalogRatePerMinute)/60.0), cfg.CatalogRateBurst)
		listMedia = api.RateLimitHandlerFunc(limiter, listMedia)
	}
	router.HandleFunc("/api/media", listMedia).Methods(http.MethodGet, http.MethodOptions)
	router.HandleFunc("/api/media/refresh", listMedia).Methods(http.MethodGet, http.MethodOptions)

	// Streaming stays unlimited: a single playback session issues many
	// range requests per minute.
	router.HandleFunc("/api/stream/{fileId}", videoHandler.StreamVideo).Methods(http.MethodGet, http.MethodOptions)

	router.PathPrefix("/").Handler(handlers.NewStaticHandler())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[main] listening on http://localhost:%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[main] server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("[main] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[main] shutdown: %v", err)
	}
}

// setupLogging mirrors stderr into a rotating log file when one is
// configured.
func setupLogging(logFile string) {
	if logFile == "" {
		return
	}
	rotator := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(os.Stderr, rotator))
}

// initDrive builds the Drive service from persisted OAuth credentials. A
// missing or broken credential setup is not fatal: the server still starts
// and the API reports the uninitialized state per request, so the static UI
// and health endpoint stay reachable while the operator fixes auth.
func initDrive(ctx context.Context, cfg config.Config) *drive.Service {
	oauthCfg, err := drive.LoadOAuthConfig(cfg.CredentialsPath)
	if err != nil {
		log.Printf("[main] Google Drive disabled: %v", err)
		return nil
	}
	tok, err := drive.LoadToken(cfg.TokenPath)
	if err != nil {
		log.Printf("[main] Google Drive disabled: no token (%v); run with -authorize", err)
		return nil
	}
	client := drive.NewAuthenticatedClient(ctx, oauthCfg, tok)
	svc, err := drive.New(ctx, client)
	if err != nil {
		log.Printf("[main] Google Drive disabled: %v", err)
		return nil
	}
	log.Println("[main] Google Drive API initialized")
	return svc
}

func runAuthorize(cfg config.Config) error {
	oauthCfg, err := drive.LoadOAuthConfig(cfg.CredentialsPath)
	if err != nil {
		return err
	}
	return drive.Authorize(context.Background(), oauthCfg, cfg.TokenPath, os.Stdin, os.Stdout)
}
