// Command report runs the prediction pipeline once and prints the result, without the web UI.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"stock-trend/src/config"
	"stock-trend/src/logger"
	"stock-trend/src/pipeline"
	"stock-trend/src/utils"
)

func main() {
	configPath := flag.String("config", "config/default.yaml", "path to config file")
	ticker := flag.String("ticker", utils.DefaultTicker, "ticker symbol")
	asJSON := flag.Bool("json", false, "print the full report as JSON")
	flag.Parse()

	conf, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	appLogger := logger.NewLogger(conf.MConfig, "report")

	svc, closeCache, err := pipeline.NewFromConfig(conf.MConfig, appLogger)
	if err != nil {
		appLogger.Critical("Failed to build pipeline: %v", err)
	}
	defer closeCache()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	report, err := svc.Run(ctx, *ticker)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", *ticker, err)
		os.Exit(1)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			fmt.Fprintf(os.Stderr, "encode report: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Printf("%s %s..%s: %d bars (%d %s sessions), %d feature rows\n",
		report.Ticker, report.Start, report.End, len(report.CloseHistory),
		report.Coverage.ExpectedSessions, report.Coverage.Exchange, report.FeatureRows)
	fmt.Printf("train %d / holdout %d\n", report.Prediction.TrainRows, report.Prediction.TestRows)
	for _, imp := range report.Prediction.Importances {
		fmt.Printf("  %-13s %.4f\n", imp.Feature, imp.Importance)
	}
	for _, line := range report.Narrative {
		fmt.Println(line)
	}
}
