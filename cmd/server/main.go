package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/votersetu/verification-api/internal/auth"
	"github.com/votersetu/verification-api/internal/business/fraud"
	"github.com/votersetu/verification-api/internal/business/registry"
	"github.com/votersetu/verification-api/internal/business/stationdata"
	"github.com/votersetu/verification-api/internal/platform/config"
	firestoreclient "github.com/votersetu/verification-api/internal/platform/firestore"
	apirouter "github.com/votersetu/verification-api/internal/platform/http"
	"github.com/votersetu/verification-api/internal/platform/ledger"
	redisguard "github.com/votersetu/verification-api/internal/platform/redis"
	"github.com/votersetu/verification-api/internal/platform/vision"
	"github.com/votersetu/verification-api/internal/repository"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load(".env.local", ".env")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load: %v", err)
	}
	if err := cfg.ValidateServer(); err != nil {
		log.Fatalf("config load: %v", err)
	}

	gin.SetMode(cfg.GinMode)

	firestoreClient, credsSource, err := firestoreclient.New(ctx, cfg)
	if err != nil {
		log.Fatalf("firestore init: %v", err)
	}
	defer firestoreClient.Close()

	if err := firestoreclient.Ping(ctx, firestoreClient); err != nil {
		log.Fatalf("firestore ping: %v", err)
	}
	log.Printf("connected to Firestore project %s using %s credentials", cfg.FirebaseProjectID, credsSource)

	voterRepo := repository.NewVoterRepository(firestoreClient)
	stationRepo := repository.NewStationRepository(firestoreClient)
	officerRepo := repository.NewOfficerRepository(firestoreClient)
	statsRepo := repository.NewStatsRepository(firestoreClient)

	matcher := vision.New(nil, vision.Config{
		BaseURL: cfg.VisionBaseURL,
		Mock:    cfg.VisionMock,
	})
	auditLedger := ledger.New(nil, ledger.Config{
		RPCURL: cfg.LedgerRPCURL,
		Mock:   cfg.LedgerMock,
	})

	var guard apirouter.DuplicateGuard
	if cfg.RedisAddr != "" {
		g, err := redisguard.New(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Fatalf("redis init: %v", err)
		}
		defer g.Close()
		guard = g
	} else {
		log.Printf("REDIS_ADDR not set, duplicate-verification guard disabled")
	}

	var fetcher stationdata.CSVFetcher
	if cfg.StationCSVURL != "" {
		fetcher = stationdata.NewHTTPFetcher(cfg.StationCSVURL)
	}
	loader := stationdata.NewLoader(fetcher, stationdata.ReferenceStations)

	registrySvc := registry.NewService(voterRepo, stationRepo, matcher)
	registrySvc.Initialize(loader.Load(ctx))
	defer registrySvc.Shutdown()

	router := apirouter.NewRouter(apirouter.Deps{
		Registry:       registrySvc,
		Voters:         voterRepo,
		Officers:       officerRepo,
		Stats:          statsRepo,
		Tokens:         auth.NewTokens(cfg.JWTSecret),
		Guard:          guard,
		Ledger:         auditLedger,
		Detector:       fraud.NewDetector(),
		AllowedOrigins: cfg.AllowedOrigins,
	})

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()
	log.Printf("server listening on :%s", cfg.Port)

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}
	log.Println("server exited")
}
