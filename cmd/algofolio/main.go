package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		log.Fatalf("algofolio: %v", err)
	}
}

func newApp() *cli.App {
	configFlag := &cli.StringFlag{
		Name:  "config",
		Value: "Config.yaml",
		Usage: "portfolio file listing wallets and asset overrides",
	}
	cacheFlag := &cli.StringFlag{
		Name:  "cache",
		Value: "Cache.json",
		Usage: "asset metadata cache file",
	}
	plainFlag := &cli.BoolFlag{
		Name:  "plain",
		Usage: "print raw markdown instead of terminal formatting",
	}

	return &cli.App{
		Name:  "algofolio",
		Usage: "value a set of Algorand wallets",
		Commands: []*cli.Command{
			{
				Name:  "report",
				Usage: "value every held asset in a display asset",
				Flags: []cli.Flag{
					configFlag,
					cacheFlag,
					plainFlag,
					&cli.Uint64Flag{Name: "display-asset", Value: 0, Usage: "asset id to express prices and values in (0 = native)"},
					&cli.StringFlag{Name: "xlsx", Usage: "also write the report to this workbook path"},
					&cli.StringFlag{Name: "fiat", Usage: "add a total in this fiat currency (e.g. eur)"},
					&cli.BoolFlag{Name: "snapshot", Usage: "store the report in the database and show the change since the last one"},
					&cli.StringFlag{Name: "portfolio", Value: "default", Usage: "portfolio name used for snapshots"},
				},
				Action: runReport,
			},
			{
				Name:   "wallets",
				Usage:  "list configured wallets and their native balances",
				Flags:  []cli.Flag{configFlag, plainFlag},
				Action: runWallets,
			},
			{
				Name:  "cache",
				Usage: "inspect the metadata cache",
				Subcommands: []*cli.Command{
					{
						Name:   "show",
						Usage:  "print every cached asset",
						Flags:  []cli.Flag{cacheFlag, plainFlag},
						Action: runCacheShow,
					},
				},
			},
			{
				Name:  "history",
				Usage: "list stored report snapshots",
				Flags: []cli.Flag{
					plainFlag,
					&cli.StringFlag{Name: "portfolio", Value: "default", Usage: "portfolio name"},
					&cli.IntFlag{Name: "limit", Value: 30, Usage: "maximum snapshots to list"},
				},
				Action: runHistory,
			},
		},
	}
}
