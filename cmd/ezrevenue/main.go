package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/dmitrijs2005/ezrevenue/internal/buildinfo"
	"github.com/dmitrijs2005/ezrevenue/internal/cli"
	"github.com/dmitrijs2005/ezrevenue/internal/config"
	"github.com/dmitrijs2005/ezrevenue/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := config.LoadConfig()

	logger, err := logging.NewText(os.Stderr, cfg.LogLevel)
	if err != nil {
		log.Printf("%v, using info", err)
	}

	if cfg.ProjectSecret == "" {
		secret, err := cli.PromptSecret()
		if err != nil {
			log.Fatalf("project secret: %v", err)
		}
		cfg.ProjectSecret = secret
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("%v", err)
	}

	app, err := cli.NewApp(ctx, cfg, nil, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer app.Close()

	app.Run(ctx)

}
