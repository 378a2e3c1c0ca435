package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/data-table-transformer/api"
	"github.com/rpupo63/data-table-transformer/config"
	"github.com/rpupo63/data-table-transformer/database"
	"github.com/rpupo63/data-table-transformer/models"
	"github.com/rpupo63/data-table-transformer/services"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	log.Info().Msg("Initializing app...")

	c := config.Load()

	ssmCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := config.OverlaySSM(ssmCtx, c); err != nil {
		cancel()
		log.Fatal().Err(err).Msg("Error loading parameters from SSM")
	}
	cancel()

	log.Info().Str("DB_TYPE", config.GetString(c, "DB_TYPE", "postgres")).Msg("Connecting to database...")
	db, err := database.Open(c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}
	currentDB := database.New(db)

	if config.GetBool(c, "GENERATE_MODELS", false) {
		log.Info().Msg("Generating models and query helpers...")
		models.GenerateModels(db)
		return
	}

	if config.GetBool(c, "GENERATE_COLUMN_REPORT", false) {
		log.Info().Msg("Generating column mismatch report...")
		models.GenerateColumnMismatchReportStandalone(db)
		return
	}

	// Imports keep working through the local fallback while the database is down.
	if err := currentDB.Ping(); err != nil {
		log.Warn().Err(err).Msg("Database is not reachable, new projects will be saved to the local fallback")
		go func() {
			if err := currentDB.MigrateWhenReachable(context.Background(), 30*time.Second); err != nil {
				log.Error().Err(err).Msg("Error migrating database")
				return
			}
			log.Info().Msg("Database reachable again, schema migrated")
		}()
	} else if err := currentDB.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Error migrating database")
	}

	deps, err := buildDependencies(c, currentDB)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing services")
	}

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(c, deps)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

func buildDependencies(c map[string]string, currentDB database.Database) (api.Dependencies, error) {
	store, err := newObjectStore(c)
	if err != nil {
		return api.Dependencies{}, err
	}

	fallback, err := database.NewFallbackStore(config.GetString(c, "FALLBACK_DIR", "data"))
	if err != nil {
		return api.Dependencies{}, err
	}
	log.Info().Str("path", fallback.Path()).Msg("Local fallback store ready")

	authenticator, err := services.NewAuthenticator(c)
	if err != nil {
		return api.Dependencies{}, err
	}

	progress := services.NewProgressTracker()
	saver := services.NewProjectSaver(currentDB.ProjectRepo(), fallback, log.With().Str("component", "projectSaver").Logger())
	importer := services.NewImporter(
		store,
		newConnector(c),
		saver,
		progress,
		config.GetMillis(c, "NAVIGATION_DELAY_MS", 2*time.Second),
		log.With().Str("component", "importer").Logger(),
	)

	return api.Dependencies{
		Database:      currentDB,
		Fallback:      fallback,
		Authenticator: authenticator,
		Importer:      importer,
		Progress:      progress,
	}, nil
}

func newObjectStore(c map[string]string) (services.ObjectStore, error) {
	publicBaseURL := config.GetString(c, "PUBLIC_BASE_URL", "")

	switch backend := config.GetString(c, "STORAGE_BACKEND", "local"); backend {
	case "s3":
		log.Info().Str("bucket", config.GetString(c, "S3_BUCKET", "")).Msg("Using S3 object storage")
		store, err := services.NewS3ObjectStore(context.Background(), services.S3ClientConfig{
			Endpoint:        config.GetString(c, "S3_ENDPOINT_URL", ""),
			Region:          config.GetString(c, "S3_REGION", "us-east-1"),
			AccessKeyID:     config.GetString(c, "AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: config.GetString(c, "AWS_SECRET_ACCESS_KEY", ""),
		}, config.GetString(c, "S3_BUCKET", ""), publicBaseURL)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "local":
		dir := config.GetString(c, "LOCAL_STORAGE_DIR", "storage")
		log.Info().Str("dir", dir).Msg("Using local object storage")
		store, err := services.NewLocalObjectStore(dir, publicBaseURL)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported STORAGE_BACKEND %q", backend)
	}
}

func newConnector(c map[string]string) services.Connector {
	if config.GetString(c, "S3_CONNECT_MODE", "simulate") == "probe" {
		return services.NewS3Connector(config.GetString(c, "S3_ENDPOINT_URL", ""))
	}
	return services.SimulatedConnector{Delay: config.GetMillis(c, "S3_CONNECT_DELAY_MS", 2*time.Second)}
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
