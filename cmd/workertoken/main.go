package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/shiftwise/shiftwise-api/pkg/auth"
)

func main() {
	// Load .env from project root
	_ = godotenv.Load("../.env")

	if len(os.Args) < 2 {
		fmt.Println("Usage: workertoken <workerID>")
		os.Exit(1)
	}

	if os.Getenv("WORKER_TOKEN_SECRET") == "" {
		fmt.Println("Error: WORKER_TOKEN_SECRET not found in .env")
		os.Exit(1)
	}

	workerID := os.Args[1]
	fmt.Printf("Token for %s:\n%s\n", workerID, auth.GenerateWorkerToken(workerID))
}
