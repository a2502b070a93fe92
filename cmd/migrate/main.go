// CLI tool to create or upgrade the schema and seed the default food categories.
// Usage: go run ./cmd/migrate [-config config.yaml] [-skip-seed]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"lg/calorie-tracker/internal/app"
	"lg/calorie-tracker/internal/config"
	"lg/calorie-tracker/internal/db"
)

func main() {
	if errRun := run(context.Background(), os.Args[1:]); errRun != nil {
		log.WithError(errRun).Error("migrate failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	skipSeed := fs.Bool("skip-seed", false, "do not seed default food categories")
	if errParse := fs.Parse(args); errParse != nil {
		return errParse
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	app.SetupLogging(cfg.LogLevel)

	st, conn, err := app.OpenStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close(conn)
	fmt.Printf("  applied: schema (%s)\n", db.DialectName(conn))

	if *skipSeed {
		return nil
	}
	added, err := app.SeedCategories(ctx, st)
	if err != nil {
		return err
	}
	if added == 0 {
		fmt.Println("No categories to seed.")
	} else {
		fmt.Printf("\n%d default categories seeded.\n", added)
	}
	return nil
}
