package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/urfave/cli/v2"

	"github.com/mtlprog/algofolio/internal/blob"
	"github.com/mtlprog/algofolio/internal/config"
	"github.com/mtlprog/algofolio/internal/domain"
	"github.com/mtlprog/algofolio/internal/external"
	"github.com/mtlprog/algofolio/internal/metadata"
	"github.com/mtlprog/algofolio/internal/portfolio"
	"github.com/mtlprog/algofolio/internal/price"
	"github.com/mtlprog/algofolio/internal/report"
	"github.com/mtlprog/algofolio/internal/snapshot"
	"github.com/mtlprog/algofolio/internal/tinyman"
)

func runReport(c *cli.Context) error {
	ctx := c.Context
	cfg := config.Load()

	pf, err := config.LoadPortfolio(c.String("config"))
	if err != nil {
		return cli.Exit(err, 1)
	}

	algodClient := newAlgodClient(cfg)
	store, closeStore, err := openStore(ctx, cfg, c.String("cache"))
	if err != nil {
		return err
	}
	defer closeStore()

	reg := portfolio.NewRegistry(
		metadata.NewService(store, algodClient),
		price.NewResolver(tinyman.NewClient(cfg.TinymanURL, algodClient)),
		pf.Assets,
	)
	reg.AddWallets(ctx, portfolio.NewBalanceService(algodClient), pf.Wallets)

	rep, err := report.Build(ctx, reg, domain.AssetID(c.Uint64("display-asset")))
	if flushErr := store.Flush(ctx); flushErr != nil {
		slog.Warn("failed to write metadata cache", "error", flushErr)
	}
	if err != nil {
		return err
	}

	var pool *pgxpool.Pool
	if c.Bool("snapshot") || (c.String("fiat") != "" && cfg.DatabaseURL != "") {
		pool, err = openDatabase(ctx, cfg)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	if currency := c.String("fiat"); currency != "" {
		rep = withFiat(ctx, cfg, pool, rep, currency)
	}

	if err := printMarkdown(report.Markdown(rep), c.Bool("plain")); err != nil {
		return err
	}

	if c.Bool("snapshot") {
		change, err := snapshot.NewService(snapshot.NewPgRepository(pool)).Record(ctx, c.String("portfolio"), rep)
		if err != nil {
			return fmt.Errorf("recording snapshot: %w", err)
		}
		printChange(change, rep)
	}

	if path := c.String("xlsx"); path != "" {
		if err := exportXLSX(ctx, cfg, rep, path); err != nil {
			return err
		}
	}

	if cfg.SheetsEnabled() {
		w, err := report.NewSheetsWriter(ctx, cfg.GoogleSheetID, cfg.GoogleCredentialsJSON)
		if err != nil {
			return err
		}
		if err := w.Write(ctx, rep); err != nil {
			return fmt.Errorf("exporting to google sheets: %w", err)
		}
	}

	return nil
}

func withFiat(ctx context.Context, cfg config.Config, pool *pgxpool.Pool, rep report.Report, currency string) report.Report {
	var repo external.QuoteRepository
	if pool != nil {
		repo = external.NewPgQuoteRepository(pool)
	}
	svc := external.NewService(
		external.NewCoinGeckoClient(cfg.CoinGeckoURL, cfg.CoinGeckoDelay, cfg.CoinGeckoRetryMax),
		repo,
	)

	rate, err := svc.NativeRate(ctx, currency)
	if err != nil {
		slog.Warn("fiat total unavailable", "currency", currency, "error", err)
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("fiat total in %s unavailable: %v", currency, err))
		return rep
	}
	return rep.WithFiat(currency, rate)
}

func exportXLSX(ctx context.Context, cfg config.Config, rep report.Report, path string) error {
	var buf bytes.Buffer
	if err := report.WriteXLSX(rep, &buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	if cfg.S3Bucket == "" {
		return nil
	}
	uploader, err := blob.NewS3Uploader(ctx, cfg.S3Bucket, cfg.S3Region, cfg.S3Endpoint)
	if err != nil {
		return err
	}
	loc, err := uploader.Upload(ctx, blob.ReportKey(rep.ID, rep.GeneratedAt), buf.Bytes(), blob.XLSXContentType)
	if err != nil {
		return err
	}
	fmt.Printf("Uploaded workbook to %s\n", loc)
	return nil
}

func printChange(change *snapshot.Change, rep report.Report) {
	if change == nil {
		fmt.Println("First snapshot stored.")
		return
	}
	line := fmt.Sprintf("Change since %s: %s %s",
		change.Previous.CreatedAt.Format("2006-01-02 15:04"),
		change.Delta.StringFixed(6), rep.DisplayAssetName)
	if change.Ratio != nil {
		line += fmt.Sprintf(" (%s%%)", change.Ratio.Shift(2).StringFixed(2))
	}
	fmt.Println(line)
}

func printMarkdown(md string, plain bool) error {
	out, err := report.Render(md, plain)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}
