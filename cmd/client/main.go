package main

import (
	"context"
	"log"
	"os"

	"github.com/mzunohkaru/postboard/internal/buildinfo"
	"github.com/mzunohkaru/postboard/internal/client/cli"
	"github.com/mzunohkaru/postboard/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
