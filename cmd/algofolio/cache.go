package main

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/mtlprog/algofolio/internal/domain"
	"github.com/mtlprog/algofolio/internal/metadata"
)

func runCacheShow(c *cli.Context) error {
	store := metadata.NewFileStore(c.String("cache"))
	return printMarkdown(cacheMarkdown(store.Path(), store.Snapshot()), c.Bool("plain"))
}

func cacheMarkdown(path string, entries map[domain.AssetID]metadata.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Metadata cache `%s`\n\n", path)
	if len(entries) == 0 {
		fmt.Fprintln(&b, "No assets")
		return b.String()
	}

	fmt.Fprintln(&b, "| ID | Name | Decimals | Creator |")
	fmt.Fprintln(&b, "|---:|:---|---:|:---|")
	for _, id := range slices.Sorted(maps.Keys(entries)) {
		e := entries[id]
		fmt.Fprintf(&b, "| %d | %s | %s | %s |\n", id, orDash(e.Name), decimalsOrDash(e.Decimals), orDash(e.Creator))
	}
	return b.String()
}

func orDash(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func decimalsOrDash(d *uint32) string {
	if d == nil {
		return "-"
	}
	return fmt.Sprint(*d)
}
