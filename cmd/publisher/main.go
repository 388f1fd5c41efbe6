package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/Entangle-Protocol/udf-oracle-go/pkg/bootstrap"
	"github.com/Entangle-Protocol/udf-oracle-go/pkg/chain"
	"github.com/Entangle-Protocol/udf-oracle-go/pkg/config"
	"github.com/Entangle-Protocol/udf-oracle-go/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:  "udf-oracle-publisher",
		Usage: "Multi-signer price oracle publisher",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the publisher's YAML config file",
				Value:   "config.yml",
				EnvVars: []string{"ENTANGLE_CONFIG_PATH"},
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Usage:   "Enable verbose (development) logging",
				EnvVars: []string{"ENTANGLE_VERBOSE"},
			},
			&cli.BoolFlag{
				Name:  "init",
				Usage: "Initialize the program's Config account before starting the dispatch loop",
			},
			&cli.StringFlag{
				Name:  "admin",
				Usage: "Hex-encoded 32-byte admin pubkey, required with --init on the very first run",
			},
			&cli.BoolFlag{
				Name:  "print-config",
				Usage: "Print the effective configuration (after env overrides) as YAML and exit",
			},
		},
		Action: runPublisher,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("publisher error: %v", err)
	}
}

func runPublisher(c *cli.Context) error {
	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: c.Bool("verbose")})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = l.Sync() }()

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	if c.Bool("print-config") {
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to render config: %w", err)
		}
		fmt.Print(string(out))
		return nil
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rt, err := bootstrap.Build(ctx, cfg, l)
	if err != nil {
		return fmt.Errorf("failed to build publisher runtime: %w", err)
	}
	defer func() { _ = rt.Ledger.Close() }()

	if c.Bool("init") {
		if err := initializeProgram(c, cfg, rt); err != nil {
			return fmt.Errorf("program initialization failed: %w", err)
		}
	}

	l.Sugar().Infow("starting publisher",
		"program_id", rt.Program.ID.String(),
		"publisher", rt.Publisher.String(),
		"persistence", cfg.Persistence.Type,
		"signer", cfg.Signer.Type)

	go rt.Dispatcher.Run(ctx, rt.Queue)

	l.Sugar().Info("publisher running, press Ctrl+C to stop")
	<-ctx.Done()

	l.Sugar().Info("shutting down publisher")
	rt.Queue.Close()
	return nil
}

// initializeProgram creates the program's singleton Config account. It
// is an explicit, operator-gated action rather than something
// bootstrap.Build does automatically, matching the on-chain program's
// own admin-gated init_if_needed instruction.
func initializeProgram(c *cli.Context, cfg *config.PublisherConfig, rt *bootstrap.Runtime) error {
	adminHex := c.String("admin")
	if adminHex == "" {
		return fmt.Errorf("--admin is required with --init")
	}
	admin, err := chain.ParsePubkeyHex(adminHex)
	if err != nil {
		return fmt.Errorf("admin: %w", err)
	}
	endpoint, err := chain.ParsePubkeyHex(cfg.Endpoint)
	if err != nil {
		return fmt.Errorf("endpoint: %w", err)
	}
	protocolID, err := bootstrap.ParseProtocolID(cfg.ProtocolID)
	if err != nil {
		return err
	}
	return rt.Program.Initialize(admin, endpoint, protocolID)
}
