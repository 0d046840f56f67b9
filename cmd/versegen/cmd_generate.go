package main

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"versegen/internal/bible"
	"versegen/internal/commentary"
	"versegen/internal/llm"
	"versegen/internal/logging"
	"versegen/internal/prompt"
	"versegen/internal/reference"
	"versegen/internal/store"
)

var (
	genAll            bool
	genSkipAcceptable bool
	genProfile        string
	genMode           string
	genDryRun         bool
)

// generateCmd runs a generation pass.
var generateCmd = &cobra.Command{
	Use:   "generate [refs...]",
	Short: "Generate commentary for the given verses or the whole catalog",
	Long: `Generates commentary verse by verse.

References may be written as "Daniel 2:44", "Dan 2:44", "但以理書 2:44" or
numerically as "27:2:44". With --all every verse of the profile's catalog
is processed and verses with an acceptable commentary are skipped.

Failures are appended to the error log and the pass continues.

Examples:
  versegen generate --all
  versegen generate "Mark 9:43" "Mark 9:45" --profile zh
  versegen generate 27:2:44 --dry-run`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().BoolVar(&genAll, "all", false, "Process every verse in the catalog")
	generateCmd.Flags().BoolVar(&genSkipAcceptable, "skip-acceptable", false, "Skip verses with an acceptable commentary (default: on with --all)")
	generateCmd.Flags().StringVar(&genProfile, "profile", "", "Language profile (en, zh)")
	generateCmd.Flags().StringVar(&genMode, "mode", "", "Acceptability mode (strict, lenient)")
	generateCmd.Flags().BoolVar(&genDryRun, "dry-run", false, "Build prompts without calling the model or writing")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := logging.Get(logging.CategoryBoot)

	if genAll == (len(args) > 0) {
		return errors.New("give verse references or --all, not both")
	}
	if genProfile != "" {
		cfg.Profile = genProfile
	}
	if genMode != "" {
		cfg.Store.Acceptability = genMode
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if !genDryRun {
		if err := cfg.ValidateLLM(); err != nil {
			return err
		}
	}

	keys, err := bible.ParseKeys(args)
	if err != nil {
		return err
	}
	profile, err := prompt.Lookup(cfg.Profile)
	if err != nil {
		return err
	}
	system, err := prompt.System(cfg.SystemPrompt)
	if err != nil {
		return err
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

	src, err := reference.Open(ctx, reference.Paths{
		Catalog:     cfg.CatalogPath(),
		Interlinear: cfg.InterlinearPath(),
		Morphology:  cfg.MorphologyPath(),
	})
	if err != nil {
		return err
	}
	defer src.Close()

	errLog, err := logging.OpenErrorLog(cfg.Logging.ErrorLog)
	if err != nil {
		return err
	}
	defer errLog.Close()

	runID := uuid.NewString()
	var audit *logging.AuditLogger
	if cfg.Logging.AuditLog != "" {
		if audit, err = logging.OpenAudit(cfg.Logging.AuditLog, runID); err != nil {
			return err
		}
		defer audit.Close()
	}

	var client llm.Client
	if !genDryRun {
		client, err = llm.NewClient(ctx, llm.Config{
			Provider: llm.Provider(cfg.LLM.Provider),
			APIKey:   cfg.LLM.APIKey,
			Model:    cfg.LLM.Model,
			BaseURL:  cfg.LLM.BaseURL,
			Timeout:  cfg.GetLLMTimeout(),
		})
		if err != nil {
			return err
		}
	}

	skip := genSkipAcceptable
	if !cmd.Flags().Changed("skip-acceptable") {
		skip = genAll
	}

	gen, err := commentary.New(commentary.Deps{
		Store:       st,
		Catalog:     src.Catalog,
		Interlinear: src.Interlinear,
		Morphology:  src.Morphology,
		Client:      client,
		Errors:      errLog,
		Audit:       audit,
	}, commentary.Options{
		Profile:        profile,
		System:         system,
		Timeout:        cfg.GetLLMTimeout(),
		SkipAcceptable: skip,
		DryRun:         genDryRun,
		RunID:          runID,
	})
	if err != nil {
		return err
	}

	var verses []reference.VerseText
	if genAll {
		verses, err = src.Catalog.All(ctx)
	} else {
		verses, err = gen.Resolve(ctx, keys)
	}
	if err != nil {
		return err
	}

	log.Info("starting generation",
		zap.String("run_id", runID),
		zap.String("db", st.Path()),
		zap.String("catalog", cfg.CatalogName()),
		zap.String("mode", string(mode)),
		zap.String("error_log", errLog.Path()))

	stats, runErr := gen.Run(ctx, verses)
	printSummary(cmd.OutOrStdout(), stats)
	if runErr != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), warnStyle.Render("interrupted: "+runErr.Error()))
	}
	return nil
}
