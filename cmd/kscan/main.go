package main

import (
	"os"

	"github.com/wonny/kscan/cmd/kscan/commands"
)

// main is the entry point for the kscan CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/kscan [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
