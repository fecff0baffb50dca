package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/rehearsal/internal/buildinfo"
	"github.com/dmitrijs2005/rehearsal/internal/server"
	"github.com/dmitrijs2005/rehearsal/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Printf("config error: %v", err)
		os.Exit(1)
	}

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}
}
