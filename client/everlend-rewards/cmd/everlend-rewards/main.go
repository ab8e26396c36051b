package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/malbeclabs/everlend/client/everlend-rewards/internal/cli"
)

var (
	// Set by LDFLAGS
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// A .env file may set EVERLEND_SOLANA_RPC_URL; it is optional.
	_ = godotenv.Load()

	os.Exit(int(cli.Run(cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})))
}
