package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/clipstream/backend/internal/app"
)

func main() {
	// Local development keeps settings in a .env file; production sets real
	// environment variables and has no file to load.
	_ = godotenv.Load()

	ctx := context.Background()
	if err := app.Run(ctx, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}
