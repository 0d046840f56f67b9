package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"versegen/internal/store"
)

var initForce bool

// initCmd writes a default config and creates the commentary store.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config and create the commentary database",
	Long: `Writes the current configuration (defaults plus environment overrides)
to the config file unless it already exists, then creates the Commentary
table in the profile's database.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if err := cfg.Validate(); err != nil {
		return err
	}

	_, statErr := os.Stat(configPath)
	switch {
	case statErr == nil && !initForce:
		fmt.Fprintln(out, dimStyle.Render("config exists: "+configPath))
	case statErr == nil || os.IsNotExist(statErr):
		// Keys from the environment stay out of the file.
		saved := *cfg
		saved.LLM.APIKey = ""
		if err := saved.Save(configPath); err != nil {
			return err
		}
		fmt.Fprintln(out, titleStyle.Render("wrote config: ")+configPath)
	default:
		return fmt.Errorf("failed to check config: %w", statErr)
	}

	mode, err := store.ParseMode(cfg.AcceptabilityMode())
	if err != nil {
		return err
	}
	st, err := store.Open(ctx, store.Options{
		Path:      cfg.DatabasePath(),
		Mode:      mode,
		UniqueKey: cfg.Store.UniqueKey,
	})
	if err != nil {
		return err
	}
	defer st.Close()

	fmt.Fprintln(out, titleStyle.Render("commentary store ready: ")+st.Path())
	return nil
}
