// main is the entry point of the records API.
//
// RUNNING THE SERVER:
//
//	go run ./cmd/records-api serve --config=config/local.yaml
//
// or (with the environment variable):
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/records-api serve
//
// Creating the schema without serving:
//
//	go run ./cmd/records-api migrate --config=config/local.yaml
package main

import (
	"os"
)

// Build-time variables set via ldflags.
var (
	Version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
