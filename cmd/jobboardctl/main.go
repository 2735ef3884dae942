package main

import (
	"os"

	"github.com/dmitrijs2005/jobboard/internal/ctl"
	"github.com/dmitrijs2005/jobboard/internal/server/config"
)

func main() {

	cfg := config.LoadEnvConfig()

	if err := ctl.NewRootCommand(cfg).Execute(); err != nil {
		os.Exit(1)
	}

}
