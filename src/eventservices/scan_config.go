package eventservices

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/edgewalker/edgewalker/src/eventmodels"
)

// LoadScanConfig reads a yaml config file over the canonical defaults, so a
// partial file only overrides the keys it names. An empty path returns the
// defaults unchanged.
func LoadScanConfig(path string) (*eventmodels.ScanConfigYAML, error) {
	cfg := eventmodels.DefaultScanConfig()

	if path == "" {
		log.Debug("LoadScanConfig: no config file, using defaults")
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadScanConfig: failed to read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("LoadScanConfig: failed to unmarshal %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("LoadScanConfig: %s: %w", path, err)
	}

	return cfg, nil
}
