package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/wizardry/internal/server/config"
	"github.com/dmitrijs2005/wizardry/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/wizardry/internal/server/services"
	"github.com/dmitrijs2005/wizardry/internal/useradd"
)

func main() {
	ctx := context.Background()

	opts, err := useradd.ParseArgs(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	cfg := config.LoadConfig(os.Args[1:])

	repos, err := repomanager.New(ctx, cfg.DatabaseDSN, cfg.DatabaseName)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	defer repos.Close(ctx)

	if err := repos.Init(ctx); err != nil {
		log.Fatalf("db schema error: %v", err)
	}

	us, err := services.NewUserService(repos, cfg)
	if err != nil {
		log.Fatal(err)
	}

	if err := useradd.Run(ctx, us, opts, os.Stdout); err != nil {
		log.Print(err)
		repos.Close(ctx)
		os.Exit(1)
	}
}
