package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"versegen/internal/store"
)

const emptyListing = "The Commentary table is currently empty."

// listCmd prints every stored commentary with a short preview.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored commentaries with a content preview",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if _, err := os.Stat(cfg.DatabasePath()); errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(out, emptyListing)
		return nil
	}

	st, err := store.OpenReadOnly(ctx, cfg.DatabasePath())
	if err != nil {
		return err
	}
	defer st.Close()

	ok, err := st.Initialized(ctx)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(out, emptyListing)
		return nil
	}

	rows, err := st.FetchAll(ctx)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintln(out, emptyListing)
		return nil
	}

	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("%d commentaries in %s", len(rows), st.Path())))
	for _, r := range rows {
		fmt.Fprintf(out, "%s %s\n", keyStyle.Render(r.Key.String()), dimStyle.Render(r.Content))
	}
	return nil
}
