package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		Port    int    `yaml:"port" json:"port"`
		DataDir string `yaml:"data_dir" json:"data_dir"`
	} `yaml:"app" json:"app"`

	Catalog struct {
		// Path overrides the bootstrapped data-dir catalog when set.
		Path string `yaml:"path" json:"path"`
	} `yaml:"catalog" json:"catalog"`

	Enrichment struct {
		UserAgent         string  `yaml:"user_agent" json:"user_agent"`
		RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second"`
		Burst             int     `yaml:"burst" json:"burst"`
		// KeyringAccount names the OS-keychain entry holding a bearer
		// token for authenticated enrichment providers. Empty means
		// anonymous fetches.
		KeyringAccount string `yaml:"keyring_account" json:"keyring_account"`
	} `yaml:"enrichment" json:"enrichment"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
