package main

import (
	"context"
	"fmt"

	locationdomain "github.com/smallbiznis/farmstand/internal/location/domain"
	locationrepo "github.com/smallbiznis/farmstand/internal/location/repository"
	orderdomain "github.com/smallbiznis/farmstand/internal/order/domain"
	orderrepo "github.com/smallbiznis/farmstand/internal/order/repository"
	productdomain "github.com/smallbiznis/farmstand/internal/product/domain"
	productrepo "github.com/smallbiznis/farmstand/internal/product/repository"
	"github.com/smallbiznis/farmstand/internal/seed"
	"github.com/smallbiznis/farmstand/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var seedForce bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Persist the sample collections",
	Long: `Write the locations, products and orders collections to the record store.

Collections that already exist are rewritten unchanged unless --force is
given, in which case they are replaced by the built-in sample data.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd.Context(), func(ctx context.Context, factory *storage.Factory, log *zap.Logger) error {
			locations := locationrepo.Provide(locationrepo.Params{Factory: factory})
			if err := locations.Mutate(ctx, func(current []locationdomain.Location) ([]locationdomain.Location, error) {
				return pick(current, seed.Locations), nil
			}); err != nil {
				return fmt.Errorf("seed locations: %w", err)
			}

			products := productrepo.Provide(productrepo.Params{Factory: factory})
			if err := products.Mutate(ctx, func(current []productdomain.Product) ([]productdomain.Product, error) {
				return pick(current, seed.Products), nil
			}); err != nil {
				return fmt.Errorf("seed products: %w", err)
			}

			orders := orderrepo.Provide(orderrepo.Params{Factory: factory})
			if err := orders.Mutate(ctx, func(current []orderdomain.Order) ([]orderdomain.Order, error) {
				return pick(current, seed.Orders), nil
			}); err != nil {
				return fmt.Errorf("seed orders: %w", err)
			}

			log.Info("collections seeded", zap.Bool("force", seedForce), zap.String("backend", factory.Backend().Name()))
			fmt.Fprintln(cmd.OutOrStdout(), "seeded locations, products and orders")
			return nil
		})
	},
}

func init() {
	seedCmd.Flags().BoolVar(&seedForce, "force", false, "Replace existing collections with the sample data")
	rootCmd.AddCommand(seedCmd)
}

func pick[T any](current []T, sample func() []T) []T {
	if seedForce {
		return sample()
	}
	return current
}
