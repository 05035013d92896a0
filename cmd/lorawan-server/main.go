package main

import (
	"fmt"
	"os"

	"lorawan-data-server/cmd/lorawan-server/app"
	"lorawan-data-server/cmd/lorawan-server/app/options"
	_ "lorawan-data-server/docs"
	log "lorawan-data-server/internal/logger"
)

// @title LoRaWAN Data Server API
// @version 1.0
// @description Ingests ChirpStack uplinks and serves the stored telemetry.
// @BasePath /
func main() {
	option, err := options.NewOptions(os.Args)
	if err != nil {
		fmt.Print(option.Usage(err))
		os.Exit(1)
	}

	logger, err := log.SetupLogger(*option.LogFile, *option.Mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to set up logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := app.Run(option, logger); err != nil {
		os.Exit(1)
	}
}
