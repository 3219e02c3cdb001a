package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/smallbiznis/farmstand/internal/product/domain"
	"github.com/smallbiznis/farmstand/internal/product/markdown"
	productrepo "github.com/smallbiznis/farmstand/internal/product/repository"
	"github.com/smallbiznis/farmstand/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var productsDir string

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Move the product catalogue between the store and markdown documents",
}

var productsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every product as <slug>.md into --dir",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := requireDir()
		if err != nil {
			return err
		}
		return withStore(cmd.Context(), func(ctx context.Context, factory *storage.Factory, log *zap.Logger) error {
			repo := productrepo.Provide(productrepo.Params{Factory: factory})
			products := repo.FindAll(ctx)
			if err := markdown.WriteDir(ctx, dir, products); err != nil {
				return fmt.Errorf("export products: %w", err)
			}
			log.Info("products exported", zap.Int("count", len(products)), zap.String("dir", dir))
			fmt.Fprintf(cmd.OutOrStdout(), "exported %s to %s\n", plural(len(products)), dir)
			return nil
		})
	},
}

var productsImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Replace the product collection with the documents in --dir",
	Long: `Replace the product collection with the markdown documents in --dir.

Location product counters are not touched; run POST /api/locations/reconcile
afterwards when the imported catalogue references different locations.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := requireDir()
		if err != nil {
			return err
		}
		return withStore(cmd.Context(), func(ctx context.Context, factory *storage.Factory, log *zap.Logger) error {
			imported, err := markdown.ReadDir(ctx, dir)
			if err != nil {
				return fmt.Errorf("import products: %w", err)
			}
			repo := productrepo.Provide(productrepo.Params{Factory: factory})
			if err := repo.Mutate(ctx, func([]domain.Product) ([]domain.Product, error) {
				return imported, nil
			}); err != nil {
				return fmt.Errorf("import products: %w", err)
			}
			log.Info("products imported", zap.Int("count", len(imported)), zap.String("dir", dir))
			fmt.Fprintf(cmd.OutOrStdout(), "imported %s from %s\n", plural(len(imported)), dir)
			return nil
		})
	},
}

func init() {
	productsCmd.PersistentFlags().StringVar(&productsDir, "dir", "./content/products", "Directory of product markdown documents")
	productsCmd.AddCommand(productsExportCmd, productsImportCmd)
	rootCmd.AddCommand(productsCmd)
}

func requireDir() (string, error) {
	dir := strings.TrimSpace(productsDir)
	if dir == "" {
		return "", fmt.Errorf("--dir is required")
	}
	return dir, nil
}

func plural(n int) string {
	return humanize.Comma(int64(n)) + " " + english.PluralWord(n, "product", "")
}
