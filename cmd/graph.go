package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/companyintel/internal/graph"
)

var graphDepth int

var graphCmd = &cobra.Command{
	Use:   "graph <company-id>",
	Short: "Print the knowledge-graph subgraph for a company",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := graph.New(cfg.Neo4j)
		if err != nil {
			return err
		}
		defer store.Close(cmd.Context())

		data, err := store.GetGraphData(cmd.Context(), args[0], graphDepth)
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))

		return nil
	},
}

func init() {
	graphCmd.Flags().IntVar(&graphDepth, "depth", 2, "relationship depth (1-3)")
	rootCmd.AddCommand(graphCmd)
}
