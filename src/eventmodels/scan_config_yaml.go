package eventmodels

import "fmt"

// Float64Ptr returns a pointer to v, for the optional config fields.
func Float64Ptr(v float64) *float64 {
	return &v
}

// ScanConfigYAML enumerates every tunable of the scan pipeline. Earlier
// generations of this screener scattered these as constants; they are now
// supplied by the caller and never hard-coded inside the engine.
type ScanConfigYAML struct {
	// Universe selection
	TickersFile string   `yaml:"tickersFile"`
	Collections []string `yaml:"collections"`

	// Harness gates applied before the option chain is fetched
	MinStockPrice  float64 `yaml:"minStockPrice"`
	MaxStockPrice  float64 `yaml:"maxStockPrice"`
	MaxFluctuation float64 `yaml:"maxFluctuation"`

	// Option chain query window
	MinDaysToExpiration  int `yaml:"minDaysToExpiration"`
	ExpirationWindowDays int `yaml:"expirationWindowDays"`

	// Contract filter. MaxSpreadFactor is a pointer so an explicit zero in
	// the yaml survives the defaults overlay instead of reading as unset.
	MaxSpreadFactor    *float64 `yaml:"maxSpreadFactor"`
	MinOpenInterest    int      `yaml:"minOpenInterest"`
	MinVolume          int      `yaml:"minVolume"`
	MinPremium         float64  `yaml:"minPremium"`
	MaxPremium         float64  `yaml:"maxPremium"`
	StrikeBufferFactor float64  `yaml:"strikeBufferFactor"`

	// Combination search
	FeePerContractLeg       float64 `yaml:"feePerContractLeg"`
	ForceCoupledExpirations bool    `yaml:"forceCoupledExpirations"`
	TieBreak                string  `yaml:"tieBreak"`
	SearchWorkers           int     `yaml:"searchWorkers"`

	// Scheduling and reporting
	MaxConcurrentRequests         int     `yaml:"maxConcurrentRequests"`
	NormalizedDifferenceThreshold float64 `yaml:"normalizedDifferenceThreshold"`
	OutputDir                     string  `yaml:"outputDir"`
}

func (c *ScanConfigYAML) Validate() error {
	if len(c.Collections) == 0 {
		return fmt.Errorf("ScanConfigYAML: Validate: at least one ticker collection is required")
	}

	if c.MaxSpreadFactor != nil && *c.MaxSpreadFactor < 0 {
		return fmt.Errorf("ScanConfigYAML: Validate: maxSpreadFactor must be non-negative, found %v", *c.MaxSpreadFactor)
	}

	if c.StrikeBufferFactor < 0 || (c.StrikeBufferFactor > 0 && c.StrikeBufferFactor < 1) {
		return fmt.Errorf("ScanConfigYAML: Validate: strikeBufferFactor must be at least 1, found %v", c.StrikeBufferFactor)
	}

	if c.MinPremium < 0 || c.MaxPremium < 0 {
		return fmt.Errorf("ScanConfigYAML: Validate: premium band must be non-negative")
	}

	if c.MaxPremium > 0 && c.MinPremium > c.MaxPremium {
		return fmt.Errorf("ScanConfigYAML: Validate: minPremium %v exceeds maxPremium %v", c.MinPremium, c.MaxPremium)
	}

	if c.FeePerContractLeg < 0 {
		return fmt.Errorf("ScanConfigYAML: Validate: feePerContractLeg must be non-negative, found %v", c.FeePerContractLeg)
	}

	if c.MaxConcurrentRequests <= 0 {
		return fmt.Errorf("ScanConfigYAML: Validate: maxConcurrentRequests must be positive, found %d", c.MaxConcurrentRequests)
	}

	if c.ExpirationWindowDays <= 0 {
		return fmt.Errorf("ScanConfigYAML: Validate: expirationWindowDays must be positive, found %d", c.ExpirationWindowDays)
	}

	return nil
}

// DefaultScanConfig carries the canonical rule set consolidated from the
// screener's production runs.
func DefaultScanConfig() *ScanConfigYAML {
	return &ScanConfigYAML{
		TickersFile:                   "tickers.json",
		Collections:                   []string{"25_tickers"},
		MinStockPrice:                 25.0,
		MaxStockPrice:                 500.0,
		MaxFluctuation:                4.0,
		MinDaysToExpiration:           14,
		ExpirationWindowDays:          120,
		MaxSpreadFactor:               Float64Ptr(0.5),
		MinOpenInterest:               1,
		MinVolume:                     1,
		MinPremium:                    0.5,
		MaxPremium:                    10.0,
		StrikeBufferFactor:            4.0,
		FeePerContractLeg:             0.53 + 0.55,
		ForceCoupledExpirations:       false,
		TieBreak:                      "lowest_cost",
		SearchWorkers:                 0,
		MaxConcurrentRequests:         5,
		NormalizedDifferenceThreshold: 0.06,
		OutputDir:                     "reports",
	}
}
