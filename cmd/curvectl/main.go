// ====================================
// File: cmd/curvectl/main.go
// ====================================
package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is fine; PUMPFUN_* variables may come from the shell.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
