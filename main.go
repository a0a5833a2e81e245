package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/finadvisor/backend/internal/budget"
	"github.com/finadvisor/backend/internal/budget/filestore"
	"github.com/finadvisor/backend/internal/budget/sqlstore"
	"github.com/finadvisor/backend/internal/chat"
	"github.com/finadvisor/backend/internal/models"
	"github.com/finadvisor/backend/internal/router"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// gin uses debug as the default mode, we use release for
	// security reasons
	ginMode, ok := os.LookupEnv("GIN_MODE")
	if !ok {
		gin.SetMode("release")
	} else {
		gin.SetMode(ginMode)
	}

	// Log format can be explicitly set.
	// If it is not set, it defaults to human readable for development
	// and JSON for release
	logFormat, ok := os.LookupEnv("LOG_FORMAT")
	output := io.Writer(os.Stdout)
	if (!ok && gin.IsDebugging()) || (ok && logFormat == "human") {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if gin.IsDebugging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()

	secret, ok := os.LookupEnv("JWT_SECRET")
	if !ok || secret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	dataDir, ok := os.LookupEnv("DATA_DIR")
	if !ok {
		dataDir = "data"
	}

	if err := os.MkdirAll(dataDir, os.ModePerm); err != nil {
		log.Fatal().Msg(err.Error())
	}

	// The chat history and the users always live in the database, the
	// budget items optionally in per-user JSON files
	err := models.Connect(filepath.Join(dataDir, "backend.db") + "?_pragma=foreign_keys(1)")
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	var repo budget.Repository
	switch backend := os.Getenv("BUDGET_BACKEND"); backend {
	case "", "sqlite":
		repo = sqlstore.New(models.DB)
	case "file":
		repo = filestore.New(dataDir)
	default:
		log.Fatal().Str("backend", backend).Msg("BUDGET_BACKEND must be \"sqlite\" or \"file\"")
	}

	r, err := router.Router(router.Config{
		Service:   budget.NewService(repo),
		Chat:      chat.FromEnv(),
		JWTSecret: []byte(secret),
	})
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	if err := r.Run(); err != nil {
		log.Fatal().Msg(err.Error())
	}
}
