// storefront is the command-line client for the game-key marketplace:
// sign in, browse the catalog, and manage the cart, with staff commands
// for catalog maintenance.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/gamevault/storefront/internal/restclient"
	"github.com/gamevault/storefront/internal/store/credstore"
	"github.com/gamevault/storefront/internal/store/sqldb"
	"github.com/gamevault/storefront/pkg/cart"
	"github.com/gamevault/storefront/pkg/session"
)

const (
	flagAPIURL        = "api-url"
	flagCredentialsDB = "credentials-db"
	flagVerbose       = "verbose"
	envPrefix         = "STOREFRONT"

	defaultAPIURL        = "http://localhost:8600"
	defaultCredentialsDB = "storefront-credentials.db"
)

func main() {
	rootCmd := newRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "storefront: %v\n", err)
		os.Exit(1)
	}
}

// app holds the wired client stack shared by every subcommand.
type app struct {
	apiURL        string
	credentialsDB string
	verbose       bool

	logger     *zap.Logger
	sessions   *session.Manager
	client     *restclient.Client
	carts      *cart.Manager
	catalogAPI *restclient.CatalogAPI
	cleanup    func() error
}

func newRootCommand() *cobra.Command {
	application := &app{}
	cmd := &cobra.Command{
		Use:           "storefront",
		Short:         "Client for the game-key marketplace",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return application.init(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return application.close()
		},
	}

	cmd.PersistentFlags().String(flagAPIURL, defaultAPIURL, "marketplace API base URL")
	cmd.PersistentFlags().String(flagCredentialsDB, defaultCredentialsDB, "path of the local credential database")
	cmd.PersistentFlags().Bool(flagVerbose, false, "log request diagnostics to stderr")

	cmd.AddCommand(
		newLoginCommand(application),
		newLogoutCommand(application),
		newWhoamiCommand(application),
		newCatalogCommand(application),
		newCartCommand(application),
		newAdminCommand(application),
	)
	return cmd
}

func (application *app) init(cmd *cobra.Command) error {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	for _, flagName := range []string{flagAPIURL, flagCredentialsDB, flagVerbose} {
		if err := v.BindPFlag(flagName, cmd.Root().PersistentFlags().Lookup(flagName)); err != nil {
			return err
		}
	}
	application.apiURL = strings.TrimSpace(v.GetString(flagAPIURL))
	application.credentialsDB = strings.TrimSpace(v.GetString(flagCredentialsDB))
	application.verbose = v.GetBool(flagVerbose)

	application.logger = zap.NewNop()
	if application.verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("zap init: %w", err)
		}
		application.logger = logger
	}

	db, cleanup, _, err := sqldb.Open(cmd.Context(), application.credentialsDB)
	if err != nil {
		return fmt.Errorf("credential database open: %w", err)
	}
	application.cleanup = cleanup

	credentials := credstore.New(db)
	if err := credentials.Migrate(); err != nil {
		return fmt.Errorf("credential database migrate: %w", err)
	}
	sessions, err := session.NewManager(credentials,
		func() int64 { return time.Now().UTC().Unix() },
		session.WithLogger(application.logger))
	if err != nil {
		return err
	}
	application.sessions = sessions

	client, err := restclient.New(application.apiURL,
		restclient.WithTokenSource(sessions),
		restclient.WithOnUnauthorized(func(ctx context.Context) { sessions.Clear(ctx) }),
		restclient.WithLogger(application.logger))
	if err != nil {
		return err
	}
	application.client = client
	application.catalogAPI = restclient.NewCatalogAPI(client)

	carts, err := cart.NewManager(restclient.NewCartAPI(client), sessions,
		cart.WithOperationLogger(cart.NewZapOperationLogger(application.logger)))
	if err != nil {
		return err
	}
	application.carts = carts
	return nil
}

func (application *app) close() error {
	_ = application.logger.Sync()
	if application.cleanup != nil {
		return application.cleanup()
	}
	return nil
}
