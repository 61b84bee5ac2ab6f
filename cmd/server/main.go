package main

import (
	"context"
	"log"

	"github.com/mzunohkaru/postboard/internal/server"
	"github.com/mzunohkaru/postboard/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := server.NewApp(cfg)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	if err := app.Run(ctx); err != nil {
		log.Printf("%v", err)
	}
}
