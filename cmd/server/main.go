package main

import (
	"context"
	"log"

	"github.com/AKupriichuk/CV-on-the-Go/internal/server"
	"github.com/AKupriichuk/CV-on-the-Go/internal/server/config"
	"github.com/joho/godotenv"
)

func main() {

	// Local development settings live in .env; absence is fine.
	_ = godotenv.Load()

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := server.NewApp(cfg)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
