package supervisor

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Interpreter string `envconfig:"SCRIPT_INTERPRETER" default:"python3"`
	ScriptPath  string `envconfig:"SCRIPT_PATH" default:"../stock/stock_scrap_by_symbol_list_short.py"`
	WorkDir     string `envconfig:"SCRIPT_WORKDIR"`
	LogCapacity int    `envconfig:"SCRIPT_LOG_CAPACITY" default:"100"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
