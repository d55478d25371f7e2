// Copyright (c) 2026 Keymaster Team
// rsacore - textbook RSA key generation and arithmetic
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/toeirei/rsacore/internal/config"
	"github.com/toeirei/rsacore/internal/i18n"
	"github.com/toeirei/rsacore/internal/keystore"
	"github.com/toeirei/rsacore/internal/logging"
	"github.com/toeirei/rsacore/internal/metrics"
	"github.com/toeirei/rsacore/internal/rsa"
)

// app carries state shared by the commands of one root command.
type app struct {
	cfg     config.Config
	cfgFile string
	verbose bool
	store   *keystore.Store
}

// Execute runs the CLI. Interrupts cancel long prime searches.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd builds a fresh command tree, so tests can run commands in
// isolation.
func NewRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:                "rsacore",
		Short:              i18n.T("cli.short"),
		Long:               i18n.T("cli.long"),
		SilenceUsage:       true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
		Version:            compositeVersion(),
	}

	pf := cmd.PersistentFlags()
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	pf.StringVar(&a.cfgFile, "config", "", "config file")
	pf.String("language", "en", `Output language ("en", "de")`)
	pf.String("database.type", "sqlite", "Key store type (sqlite, postgres, mysql)")
	pf.String("database.dsn", "rsacore.db", "Key store connection string (DSN)")
	pf.String("log.level", "info", "Log level")
	pf.String("log.format", "auto", "Log format (auto, text, json, logfmt)")
	pf.Int("keygen.min_bits", rsa.DefaultMinBits, "Smallest modulus keygen accepts")
	pf.Int("keygen.workers", runtime.NumCPU(), "Parallel prime search workers")
	pf.Int("keygen.confidence", rsa.DefaultConfidence, "Miller-Rabin rounds")
	pf.String("metrics.textfile", "", "Write Prometheus metrics to this file on exit")

	cmd.AddCommand(
		newKeygenCmd(a),
		newPrimeCmd(a),
		newEncryptCmd(a),
		newDecryptCmd(a),
		newSignCmd(a),
		newVerifyCmd(a),
		newKeysCmd(a),
		newBackupCmd(a),
		newRestoreCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return cmd
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig[config.Config](cmd, config.Defaults(), a.cfgFile)
	if err != nil {
		return fmt.Errorf("%s: %w", i18n.T("cli.error_config"), err)
	}
	level := cfg.Log.Level
	if a.verbose {
		level = "debug"
	}
	logging.SetOutput(cmd.ErrOrStderr())
	if err := logging.Setup(level, cfg.Log.Format); err != nil {
		return err
	}
	i18n.Init(cfg.Language)
	a.cfg = cfg
	return nil
}

func (a *app) teardown(*cobra.Command, []string) error {
	var errs []error
	if a.store != nil {
		errs = append(errs, a.store.Close())
		a.store = nil
	}
	if path := a.cfg.Metrics.Textfile; path != "" {
		errs = append(errs, metrics.WriteTextfile(path))
	}
	return errors.Join(errs...)
}

// openStore connects to the configured key store on first use.
func (a *app) openStore(ctx context.Context) (*keystore.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	s, err := keystore.Open(ctx, a.cfg.Database.Type, a.cfg.Database.Dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", i18n.T("cli.error_open_store"), err)
	}
	a.store = s
	return s, nil
}

// loadKey fetches a stored key pair by ID or label.
func (a *app) loadKey(ctx context.Context, ref string) (*rsa.KeyPair, error) {
	s, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}
	e, err := s.Get(ctx, ref)
	if err != nil {
		return nil, err
	}
	return e.Pair, nil
}
