package main

import (
	"os"

	"github.com/mmynk/duoledger/cmd/ledger/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
