package main

import (
	"fmt"
	"regexp"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"versegen/internal/bible"
	"versegen/internal/store"
)

var showRaw bool

var refTag = regexp.MustCompile(`</?ref[^>]*>`)

// showCmd renders one stored commentary.
var showCmd = &cobra.Command{
	Use:   "show <ref>",
	Short: "Render the stored commentary for a verse",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showRaw, "raw", false, "Print stored content as-is")
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	key, err := bible.ParseKey(args[0])
	if err != nil {
		return err
	}

	st, err := store.OpenReadOnly(ctx, cfg.DatabasePath())
	if err != nil {
		return err
	}
	defer st.Close()

	rec, err := st.Get(ctx, key)
	if err != nil {
		return err
	}
	if showRaw {
		fmt.Fprintln(out, rec.Content)
		return nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	rendered, err := renderer.Render(refTag.ReplaceAllString(rec.Content, ""))
	if err != nil {
		return fmt.Errorf("failed to render commentary: %w", err)
	}
	fmt.Fprint(out, rendered)
	return nil
}
