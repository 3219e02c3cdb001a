package main

import (
	"context"
	"fmt"
	"os"

	"github.com/bwmarrin/snowflake"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/farmstand/internal/clock"
	"github.com/smallbiznis/farmstand/internal/config"
	"github.com/smallbiznis/farmstand/internal/observability"
	"github.com/smallbiznis/farmstand/internal/server"
	"github.com/smallbiznis/farmstand/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "farmstand",
	Short: "Farm stand admin back end",
	Long: `farmstand serves the admin API for a small farm business: products,
farm locations, customer orders, image uploads and dashboard analytics.

Collections live in the configured record store (STORE_DRIVER). The
products subcommands move the catalogue between the store and a
directory of markdown documents.`,
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := fx.New(
			config.Module,
			observability.Module,
			fx.Provide(RegisterSnowflake),
			fx.Provide(RegisterValidator),
			clock.Module,
			server.Module,
		)
		if err := app.Err(); err != nil {
			return err
		}
		app.Run()
		return nil
	},
}

func init() {
	// Amounts go over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}

func RegisterValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

// withStore starts just enough of the application to reach the record
// store, runs fn and shuts the backend down again.
func withStore(ctx context.Context, fn func(ctx context.Context, factory *storage.Factory, log *zap.Logger) error) error {
	var (
		factory *storage.Factory
		log     *zap.Logger
	)
	app := fx.New(
		config.Module,
		observability.Module,
		storage.Module,
		fx.NopLogger,
		fx.Populate(&factory, &log),
	)
	if err := app.Err(); err != nil {
		return err
	}
	if err := app.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := app.Stop(context.Background()); err != nil {
			log.Warn("shutdown failed", zap.Error(err))
		}
	}()

	return fn(ctx, factory, log)
}
