// Command oracle-inspect is a small operator tool that fetches and
// prints the latest accepted price for a data key, without running the
// publisher's dispatch loop.
package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/Entangle-Protocol/udf-oracle-go/pkg/bootstrap"
	"github.com/Entangle-Protocol/udf-oracle-go/pkg/config"
	"github.com/Entangle-Protocol/udf-oracle-go/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:  "oracle-inspect",
		Usage: "Fetch the latest accepted price for a data key",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the publisher's YAML config file",
				Value:   "config.yml",
				EnvVars: []string{"ENTANGLE_CONFIG_PATH"},
			},
			&cli.StringFlag{
				Name:     "data-key",
				Usage:    "Hex-encoded 32-byte data key to look up",
				Required: true,
			},
		},
		Action: runInspect,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("oracle-inspect error: %v", err)
	}
}

func runInspect(c *cli.Context) error {
	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: false})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = l.Sync() }()

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	decoded, err := hex.DecodeString(c.String("data-key"))
	if err != nil || len(decoded) != 32 {
		return fmt.Errorf("--data-key must be a hex-encoded 32-byte value")
	}
	var dataKey [32]byte
	copy(dataKey[:], decoded)

	rt, err := bootstrap.Build(context.Background(), cfg, l)
	if err != nil {
		return fmt.Errorf("failed to build publisher runtime: %w", err)
	}
	defer func() { _ = rt.Ledger.Close() }()

	result := rt.Reader.GetLatestUpdateWithDeadline(context.Background(), dataKey)
	fmt.Printf("price:     0x%s\n", hex.EncodeToString(result.Price[:]))
	fmt.Printf("timestamp: %d\n", result.Timestamp)
	return nil
}
