package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"StockPilot/internal/analyzer"
	"StockPilot/internal/broker"
	"StockPilot/internal/candidates"
	"StockPilot/internal/collector"
	"StockPilot/internal/config"
	"StockPilot/internal/fundamentals"
	"StockPilot/internal/metrics"
	"StockPilot/internal/model"
	"StockPilot/internal/report"
	"StockPilot/internal/scanner"
	"StockPilot/internal/scheduler"
	"StockPilot/internal/trader"
)

var cfgPath string

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	root := &cobra.Command{
		Use:           "stockpilot",
		Short:         "Fundamental plus technical stock screener and trading bot",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "configs/config.yaml", "config file path")

	root.AddCommand(newAnalyzeCmd(), newScanCmd(), newTradeCmd(), newRunCmd(),
		newCandidatesCmd(), newPositionsCmd())

	if err := root.Execute(); err != nil {
		log.Fatalf("[FATAL] %v", err)
	}
}

func loadConfig() (*config.Config, error) {
	// Missing .env is fine; credentials may come from the real environment.
	_ = godotenv.Load()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// app holds one wired-up instance of the pipeline.
type app struct {
	cfg      *config.Config
	analyzer *analyzer.Analyzer
	store    candidates.Store
	broker   broker.Broker
	trader   *trader.Trader
	scanner  *scanner.Scanner
	paper    *broker.PaperBroker // non-nil in dry-run mode
}

func buildApp(cfg *config.Config) (*app, error) {
	prices := collector.NewAlpacaFetcher(cfg.Alpaca.DataURL, cfg.Alpaca.KeyID,
		cfg.Alpaca.SecretKey, cfg.Market.Timeframe, cfg.Market.TPM)
	financials := collector.NewYahooFinancials(cfg.Proxy)

	scorer := &fundamentals.Scorer{
		MissingDebt: fundamentals.MissingDebtPolicy(cfg.Trading.MissingDebtPolicy),
	}
	lookback := time.Duration(cfg.Market.LookbackDays) * 24 * time.Hour
	anl := analyzer.New(prices, financials, cfg.IndicatorParams(), scorer, lookback)

	store, err := candidates.NewSQLiteStore(cfg.Database.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("open candidate store: %w", err)
	}

	a := &app{cfg: cfg, analyzer: anl, store: store}
	a.scanner = scanner.New(anl, store, cfg.Scanner.Workers)

	if cfg.Trading.DryRun {
		a.paper = broker.NewPaperBroker(cfg.Trading.PaperCash)
		a.broker = a.paper
		log.Printf("[INFO] dry run: paper account with $%.2f", cfg.Trading.PaperCash)
	} else {
		a.broker = broker.NewAlpacaBroker(cfg.Alpaca.TradingURL, cfg.Alpaca.KeyID, cfg.Alpaca.SecretKey)
	}

	a.trader = trader.New(a.broker, store, a.analyzeFunc(), trader.Config{
		MinBuyScore:       cfg.Trading.MinBuyScore,
		ShortMarginBuffer: cfg.Trading.ShortMarginBuffer,
		EnableShorts:      *cfg.Trading.EnableShorts,
	})
	return a, nil
}

// analyzeFunc adapts the analyzer for the trader. In dry-run mode each
// analysis also refreshes the paper broker's quote for the symbol so fills
// happen at the analyzed price.
func (a *app) analyzeFunc() trader.AnalyzeFunc {
	return func(ctx context.Context, symbol string) (*model.Report, error) {
		r, err := a.analyzer.Analyze(ctx, symbol)
		if err != nil {
			return nil, err
		}
		if a.paper != nil {
			a.paper.SetPrice(symbol, r.Price)
		}
		return r, nil
	}
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		log.Printf("[WARN] close store: %v", err)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func newAnalyzeCmd() *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "analyze SYMBOL",
		Short: "Run a one-off analysis for a single symbol",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := buildApp(cfg)
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := signalContext()
			defer cancel()

			var r *model.Report
			if at != "" {
				ts, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("parse --at: %w", err)
				}
				r, err = a.analyzer.AnalyzeAt(ctx, args[0], ts)
				if err != nil {
					return err
				}
			} else {
				r, err = a.analyzer.Analyze(ctx, args[0])
				if err != nil {
					return err
				}
			}
			report.WriteReport(os.Stdout, r)
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "evaluate at a historical bar timestamp (RFC3339)")
	return cmd
}

func newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Analyze the symbol universe and refresh the candidate list",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if len(cfg.Market.Symbols) == 0 {
				return fmt.Errorf("no symbols configured under market.symbols")
			}
			a, err := buildApp(cfg)
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := signalContext()
			defer cancel()

			bar := progressbar.NewOptions(len(cfg.Market.Symbols),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription("Scanning"),
			)
			a.scanner.SetProgressCallback(func(scanned, total int) {
				_ = bar.Set(scanned)
			})

			res, err := a.scanner.Scan(ctx, cfg.Market.Symbols)
			if err != nil {
				return err
			}
			_ = bar.Finish()
			fmt.Println()

			report.WriteCandidates(os.Stdout, res.Candidates)
			if len(res.Failed) > 0 {
				fmt.Printf("Failed: %v\n", res.Failed)
			}
			return nil
		},
	}
}

func newTradeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trade",
		Short: "Run a single trade cycle against the stored candidate list",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := buildApp(cfg)
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := signalContext()
			defer cancel()
			return a.trader.RunCycle(ctx)
		},
	}
}

func newCandidatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "candidates",
		Short: "Show the stored candidate lists",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := candidates.NewSQLiteStore(cfg.Database.SQLitePath)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx, cancel := signalContext()
			defer cancel()

			buys, err := store.BuyList(ctx, cfg.Trading.MinBuyScore)
			if err != nil {
				return err
			}
			shorts, err := store.ShortList(ctx)
			if err != nil {
				return err
			}
			fmt.Println("Buy candidates:")
			report.WriteCandidates(os.Stdout, buys)
			fmt.Println("\nShort candidates:")
			report.WriteCandidates(os.Stdout, shorts)
			return nil
		},
	}
}

func newPositionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "positions",
		Short: "Show account buying power and open positions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := buildApp(cfg)
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := signalContext()
			defer cancel()

			acct, err := a.broker.Account(ctx)
			if err != nil {
				return err
			}
			positions, err := a.broker.ListPositions(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Broker: %s | Buying power: $%.2f | Equity: $%.2f\n\n",
				a.broker.Name(), acct.BuyingPower, acct.Equity)
			report.WritePositions(os.Stdout, positions)
			return nil
		},
	}
}

func newRunCmd() *cobra.Command {
	var scanOnStart bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the scheduler daemon with scan and trade cron tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if len(cfg.Market.Symbols) == 0 {
				return fmt.Errorf("no symbols configured under market.symbols")
			}
			a, err := buildApp(cfg)
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := signalContext()
			defer cancel()

			if cfg.Metrics.Addr != "" {
				srv := metrics.Serve(cfg.Metrics.Addr)
				defer srv.Close()
				log.Printf("[INFO] metrics on %s/metrics", cfg.Metrics.Addr)
			}

			sched := scheduler.New(ctx, a.scanner, a.trader, cfg.Market.Symbols)
			if err := sched.RegisterAll(cfg.Schedule.ScanCron, cfg.Schedule.TradeCron); err != nil {
				return err
			}
			sched.Start()
			defer sched.Stop()

			if scanOnStart {
				sched.RunScanNow()
			}

			log.Printf("[INFO] daemon up: scan %q, trade %q, broker %s",
				cfg.Schedule.ScanCron, cfg.Schedule.TradeCron, a.broker.Name())
			<-ctx.Done()
			log.Println("[INFO] shutting down")
			return nil
		},
	}
	cmd.Flags().BoolVar(&scanOnStart, "scan-on-start", false, "run a scan immediately on startup")
	return cmd
}
