package main

import (
	"encoding/hex"
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/cipherledger/backend/internal/fhe"
	"github.com/cipherledger/backend/internal/models"
	"github.com/cipherledger/backend/internal/router"
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

	// Create data directory
	dataDir := filepath.Join(".", "data")
	err := os.MkdirAll(dataDir, os.ModePerm)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	dsn, ok := os.LookupEnv("DB_DSN")
	if !ok {
		dsn = "data/ledger.db"
	}

	// Connect to the database
	err = models.Connect(dsn)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	// Set up the encryption service
	sealKey, err := loadKey("LEDGER_SEAL_KEY")
	if err != nil {
		log.Fatal().Msg(err.Error())
	}
	proofKey, err := loadKey("LEDGER_PROOF_KEY")
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	_, err = fhe.Setup(models.DB, sealKey, proofKey)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	// The system administrator principal has to be configured, without
	// it no departments can ever be created
	admin, ok := os.LookupEnv("SYSTEM_ADMIN")
	if !ok || admin == "" {
		log.Fatal().Msg("SYSTEM_ADMIN must be set to the principal of the system administrator")
	}

	err = models.Bootstrap(models.DB, admin)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	// Get the base URL. This is needed to generate the links
	// in the API responses
	apiURL, ok := os.LookupEnv("API_URL")
	if !ok {
		apiURL = "http://localhost:8080"
	}

	url, err := url.Parse(apiURL)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	r, teardown, err := router.Config(url)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}
	defer teardown()

	router.AttachRoutes(r.Group("/"))

	if err := r.Run(); err != nil {
		log.Fatal().Msg(err.Error())
	}
}

// loadKey reads a hex encoded key from the environment. If the variable
// is not set, a random key is generated. Values sealed with a random key
// cannot be decrypted again after a restart, so this is only useful for
// development.
func loadKey(env string) ([]byte, error) {
	raw, ok := os.LookupEnv(env)
	if !ok {
		log.Warn().Str("variable", env).Msg("not set, generating a random key. Sealed values will not survive a restart")
		return fhe.NewKey()
	}

	return hex.DecodeString(raw)
}
