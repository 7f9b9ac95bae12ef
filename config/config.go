// Package config loads the configuration of the command-line front end.
package config

import (
	"os"

	"github.com/HayatoShiba/xidledger/logger"
	"github.com/HayatoShiba/xidledger/transaction/clog"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// default base path of the ledger file
const defaultBasePath = "xidledger"

// Config is the whole configuration
type Config struct {
	Ledger LedgerConfig  `yaml:"ledger"`
	Logger logger.Config `yaml:"logger"`
}

// LedgerConfig locates the ledger file
type LedgerConfig struct {
	// BasePath is the path of the ledger file without suffix
	BasePath string `yaml:"base_path"`
	// Suffix is appended to BasePath. clog.Suffix is used by default.
	Suffix string `yaml:"suffix"`
}

// Default returns the default configuration
func Default() Config {
	return Config{
		Ledger: LedgerConfig{
			BasePath: defaultBasePath,
			Suffix:   clog.Suffix,
		},
		Logger: logger.Config{
			Level:      "info",
			Format:     "console",
			OutputFile: "stderr",
		},
	}
}

// Load reads yaml configuration file. the missing fields keep the default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "os.ReadFile failed")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "failed to parse config %s", path)
	}
	if cfg.Ledger.BasePath == "" {
		return cfg, errors.Errorf("ledger.base_path is empty in %s", path)
	}
	return cfg, nil
}

// LedgerPath returns the path of the ledger file
func (c Config) LedgerPath() string {
	return c.Ledger.BasePath + c.Ledger.Suffix
}
