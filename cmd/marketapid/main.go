package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gamevault/storefront/internal/marketapi"
)

const (
	flagListenAddr      = "listen-addr"
	flagDatabaseURL     = "database-url"
	flagAllowedOrigins  = "allowed-origins"
	flagTokenSigningKey = "token-signing-key"
	flagTokenIssuer     = "token-issuer"
	flagTokenTTL        = "token-ttl"
	flagSessionTTL      = "session-ttl"
	flagSeedDemoData    = "seed-demo-data"
	envPrefix           = "MARKETAPID"
)

func main() {
	rootCmd := newRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "marketapid: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cfg := marketapi.Config{}
	cmd := &cobra.Command{
		Use:           "marketapid",
		Short:         "Mock game-key marketplace API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(cmd, &cfg)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return marketapi.Run(ctx, cfg)
		},
	}

	cmd.Flags().String(flagListenAddr, "", "HTTP listen address (defaults to :8600)")
	cmd.Flags().String(flagDatabaseURL, "", "database URL, sqlite path or postgres DSN")
	cmd.Flags().String(flagAllowedOrigins, "", "comma-separated list of allowed CORS origins")
	cmd.Flags().String(flagTokenSigningKey, "", "bearer token signing key (required)")
	cmd.Flags().String(flagTokenIssuer, "", "bearer token issuer")
	cmd.Flags().Duration(flagTokenTTL, 0, "bearer token lifetime (e.g. 15m)")
	cmd.Flags().Duration(flagSessionTTL, 0, "session lifetime reported to clients (e.g. 24h)")
	cmd.Flags().Bool(flagSeedDemoData, false, "load demo accounts and catalog on startup")

	return cmd
}

func loadConfig(cmd *cobra.Command, cfg *marketapi.Config) error {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	flagNames := []string{
		flagListenAddr, flagDatabaseURL, flagAllowedOrigins,
		flagTokenSigningKey, flagTokenIssuer, flagTokenTTL,
		flagSessionTTL, flagSeedDemoData,
	}
	for _, flagName := range flagNames {
		if err := v.BindPFlag(flagName, cmd.Flags().Lookup(flagName)); err != nil {
			return err
		}
	}

	if !v.IsSet(flagTokenSigningKey) || strings.TrimSpace(v.GetString(flagTokenSigningKey)) == "" {
		return fmt.Errorf("%s is required", flagTokenSigningKey)
	}

	cfg.ListenAddr = strings.TrimSpace(v.GetString(flagListenAddr))
	cfg.DatabaseURL = strings.TrimSpace(v.GetString(flagDatabaseURL))
	cfg.AllowedOrigins = marketapi.ParseAllowedOrigins(v.GetString(flagAllowedOrigins))
	cfg.TokenSigningKey = v.GetString(flagTokenSigningKey)
	cfg.TokenIssuer = strings.TrimSpace(v.GetString(flagTokenIssuer))
	cfg.TokenTTL = v.GetDuration(flagTokenTTL)
	cfg.SessionTTL = v.GetDuration(flagSessionTTL)
	cfg.SeedDemoData = v.GetBool(flagSeedDemoData)

	return cfg.Validate()
}
