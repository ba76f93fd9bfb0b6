package main

import (
	"encoding/json"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sells-group/companyintel/internal/model"
	"github.com/sells-group/companyintel/internal/orchestrator"
)

var analyzeFast bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze <company name>",
	Short: "Analyze a company and print its profile",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		// SyncSpawner runs the enrichment before RunAnalysis returns, so
		// the printed profile is the enriched one.
		env, err := newEnv(orchestrator.SyncSpawner{})
		if err != nil {
			return err
		}
		defer env.Close(ctx)

		companyName := strings.Join(args, " ")
		opts := model.DefaultAnalyzeOptions()
		if analyzeFast {
			opts.IncludeAPIs = false
			opts.IncludeGraph = false
		}

		profile, err := env.orch.RunAnalysis(ctx, companyName, uuid.NewString(), opts)
		if err != nil {
			return err
		}

		enriched, found, err := env.cache.GetProfile(ctx, profile.ID)
		if err == nil && found {
			profile = enriched
		}

		out, err := json.MarshalIndent(profile, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))

		return nil
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeFast, "fast", false, "skip documentation extraction and graph build")
	rootCmd.AddCommand(analyzeCmd)
}
