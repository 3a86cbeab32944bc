package utils

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const envFilename = ".env"

// InitEnvironmentVariables loads the .env file from the working directory
// when one exists. Deployed environments inject real environment variables
// instead, so a missing file is only logged.
func InitEnvironmentVariables() error {
	if err := godotenv.Load(envFilename); err != nil {
		if os.IsNotExist(err) {
			log.Debugf("InitEnvironmentVariables: no %s file, using process environment", envFilename)
			return nil
		}

		return fmt.Errorf("InitEnvironmentVariables: failed to load %s: %w", envFilename, err)
	}

	return nil
}

// GetPolygonApiKey fetches the market data credential from the environment.
func GetPolygonApiKey() (string, error) {
	apiKey := os.Getenv("POLYGON_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("GetPolygonApiKey: missing POLYGON_API_KEY environment variable")
	}

	return apiKey, nil
}
