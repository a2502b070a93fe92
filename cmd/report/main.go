// CLI tool to print a nutrition report for a user over the trailing days.
// Usage: go run ./cmd/report -user sam [-days 7] [-format text|json]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"lg/calorie-tracker/internal/app"
	"lg/calorie-tracker/internal/config"
	"lg/calorie-tracker/internal/db"
	"lg/calorie-tracker/internal/foodlog"
	"lg/calorie-tracker/internal/report"
	"lg/calorie-tracker/internal/weight"
)

func main() {
	if errRun := run(context.Background(), os.Args[1:], os.Stdout); errRun != nil {
		log.WithError(errRun).Error("report failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	username := fs.String("user", "", "username to report on")
	days := fs.Int("days", 7, "number of trailing days, including today")
	format := fs.String("format", "text", "output format: text or json")
	if errParse := fs.Parse(args); errParse != nil {
		return errParse
	}
	if strings.TrimSpace(*username) == "" {
		return fmt.Errorf("-user is required")
	}
	if *format != "text" && *format != "json" {
		return fmt.Errorf("unknown format %q", *format)
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

	u, err := st.GetUserByUsername(ctx, strings.TrimSpace(*username))
	if err != nil {
		return err
	}
	engine := st.Engine()
	logs := foodlog.NewAggregator(st, engine.Config())
	composer := report.NewComposer(st, logs, weight.NewAnalyzer(st), engine)

	r, err := composer.BuildReport(ctx, u.ID, *days)
	if err != nil {
		return err
	}
	if *format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}
	return report.WriteText(out, r)
}
