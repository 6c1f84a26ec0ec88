package main

import "github.com/kelseyhightower/envconfig"

// Config holds the GASH_* environment defaults; command-line flags
// override them.
type Config struct {
	Scan struct {
		ChunkSize   int64  `envconfig:"SCAN_CHUNK_SIZE" default:"65536"`
		Workers     int    `envconfig:"SCAN_WORKERS"`
		UnitChunks  int64  `envconfig:"SCAN_UNIT_CHUNKS"`
		Compression string `envconfig:"SCAN_COMPRESSION" default:"brotli"`
		Quality     int    `envconfig:"SCAN_QUALITY" default:"1"`
	}
	Gen struct {
		Size  int64 `envconfig:"GEN_SIZE" default:"16777216"`
		Count int   `envconfig:"GEN_COUNT" default:"16"`
	}
}

func GetConfig() (*Config, error) {
	var cfg Config
	err := envconfig.Process("gash", &cfg)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}
