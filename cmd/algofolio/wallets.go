package main

import (
	"github.com/urfave/cli/v2"

	"github.com/mtlprog/algofolio/internal/config"
	"github.com/mtlprog/algofolio/internal/portfolio"
	"github.com/mtlprog/algofolio/internal/report"
)

func runWallets(c *cli.Context) error {
	cfg := config.Load()

	pf, err := config.LoadPortfolio(c.String("config"))
	if err != nil {
		return cli.Exit(err, 1)
	}

	balances := portfolio.NewBalanceService(newAlgodClient(cfg))
	reg := portfolio.NewRegistry(nil, nil, nil)
	reg.AddWallets(c.Context, balances, pf.Wallets)

	md := report.WalletsMarkdown(report.Wallets(reg.Wallets()))
	for _, w := range reg.Warnings() {
		md += "\n- " + w
	}
	return printMarkdown(md, c.Bool("plain"))
}
