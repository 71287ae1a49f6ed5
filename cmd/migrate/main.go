package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/sikapay/sikapay-backend-go/internal/config"
	"github.com/sikapay/sikapay-backend-go/internal/pkg/database"
	"github.com/sikapay/sikapay-backend-go/migrations"
)

func main() {
	down := flag.Bool("down", false, "roll back the most recent migration")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	ctx := context.Background()
	if *down {
		err = database.MigrateDown(ctx, cfg.DatabaseURL(), migrations.FS)
	} else {
		err = database.Migrate(ctx, cfg.DatabaseURL(), migrations.FS)
	}
	if err != nil {
		fmt.Println("Migration failed:", err)
		os.Exit(1)
	}

	fmt.Println("Migrations applied")
}
