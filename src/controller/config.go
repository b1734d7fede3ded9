package controller

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Upper bound of concurrent price lookups while enriching open blocks.
	OpenBlocksConcurrency int `envconfig:"OPEN_BLOCKS_CONCURRENCY" default:"8"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
