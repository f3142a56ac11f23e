package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/mtlprog/algofolio/internal/config"
	"github.com/mtlprog/algofolio/internal/snapshot"
)

func runHistory(c *cli.Context) error {
	ctx := c.Context
	cfg := config.Load()

	pool, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	snaps, err := snapshot.NewService(snapshot.NewPgRepository(pool)).List(ctx, c.String("portfolio"), c.Int("limit"))
	if err != nil {
		return err
	}
	return printMarkdown(historyMarkdown(c.String("portfolio"), snaps), c.Bool("plain"))
}

func historyMarkdown(slug string, snaps []snapshot.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Snapshots of %s\n\n", slug)
	if len(snaps) == 0 {
		fmt.Fprintln(&b, "No snapshots")
		return b.String()
	}

	fmt.Fprintln(&b, "| Date | Display asset | Total | Complete |")
	fmt.Fprintln(&b, "|:---|---:|---:|:---:|")
	for _, s := range snaps {
		complete := "yes"
		if s.Incomplete {
			complete = "no"
		}
		fmt.Fprintf(&b, "| %s | %d | %s | %s |\n",
			s.CreatedAt.Format("2006-01-02 15:04"), s.DisplayAssetID, s.Total.StringFixed(6), complete)
	}
	return b.String()
}
