// Command etp-run executes one workflow run synchronously with zero pacing
// and prints the resulting log, batch, and email reports. Useful for smoke
// testing the pipeline without the dashboard.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"etp/internal/catalog"
	"etp/internal/cli"
	"etp/internal/engine"
	applog "etp/internal/log"
	"etp/internal/robot"
	"etp/internal/sink/memory"
)

func main() {
	fileName := flag.String("file", "expenses.xlsx", "spreadsheet file name to simulate")
	dataDir := flag.String("data", "data", "directory with optional catalog seed files")
	flag.Parse()

	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	cat := catalog.NewFromFiles(*dataDir)
	store := memory.New()

	eng := engine.New(engine.Config{
		Store:     store,
		Catalog:   cat,
		Generator: robot.NewGenerator(cat, nil, nil),
		Pacing:    engine.InstantPacing(),
		Logger:    applog.New(applog.Config{Component: applog.ComponentEngine}),
	})

	ctx := context.Background()
	if err := eng.Run(ctx, *fileName); err != nil {
		logger.Error("Workflow run failed", "error", err, "file", *fileName)
		os.Exit(1)
	}

	log, err := eng.Log(ctx)
	if err != nil {
		logger.Error("Failed to read workflow log", "error", err)
		os.Exit(1)
	}
	fmt.Println("Workflow log:")
	for i := len(log) - 1; i >= 0; i-- {
		e := log[i]
		fmt.Printf("  [%s] %-10s %s\n", e.Timestamp.Format("15:04:05"), e.Status, e.Message)
	}

	batch, err := eng.Expenses(ctx)
	if err != nil {
		logger.Error("Failed to read expense batch", "error", err)
		os.Exit(1)
	}
	fmt.Printf("\nGenerated batch (%d records):\n", len(batch))
	for _, r := range batch {
		fmt.Printf("  %s  %-14s %-10s %-32s %8s\n",
			r.Date.Format("2006-01-02"), r.Owner, r.Category, r.Description, r.Amount)
	}

	notes, err := eng.Notifications(ctx)
	if err != nil {
		logger.Error("Failed to read notifications", "error", err)
		os.Exit(1)
	}
	fmt.Printf("\nEmail reports (%d):\n", len(notes))
	for _, n := range notes {
		fmt.Printf("  %s <%s>  total %s\n", n.RecipientName, n.Recipient, n.Total)
		for _, b := range n.Breakdown {
			fmt.Printf("    %-14s %8s\n", b.Category, b.Subtotal)
		}
	}

	m, err := eng.Metrics(ctx)
	if err != nil {
		logger.Error("Failed to read metrics", "error", err)
		os.Exit(1)
	}
	fmt.Printf("\nTotal spent %s, average per user %s\n", m.TotalSpent, m.AveragePerUser)
}
