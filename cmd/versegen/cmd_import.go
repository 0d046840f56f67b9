package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"versegen/internal/bible"
	"versegen/internal/store"
)

// importCmd copies commentary rows from another commentary database.
var importCmd = &cobra.Command{
	Use:   "import <src.db> [refs...]",
	Short: "Copy commentaries from another database",
	Long: `Copies commentaries from another database with the same Commentary
table into the profile's database. Verses that already have a row in the
destination are left alone. Without references every verse in the source
is considered.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if err := cfg.Validate(); err != nil {
		return err
	}
	keys, err := bible.ParseKeys(args[1:])
	if err != nil {
		return err
	}

	src, err := store.OpenReadOnly(ctx, args[0])
	if err != nil {
		return err
	}
	defer src.Close()

	mode, err := store.ParseMode(cfg.AcceptabilityMode())
	if err != nil {
		return err
	}
	dst, err := store.Open(ctx, store.Options{
		Path:      cfg.DatabasePath(),
		Mode:      mode,
		UniqueKey: cfg.Store.UniqueKey,
	})
	if err != nil {
		return err
	}
	defer dst.Close()

	stats, err := dst.Import(ctx, src, keys)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s copied %d, skipped %d, missing %d\n",
		titleStyle.Render("import:"), stats.Copied, stats.Skipped, stats.Missing)
	return nil
}
