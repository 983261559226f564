package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KiplangatNgenoChina/movie-stream/internal/models"
)

var (
	flagType    string
	flagSeason  int
	flagEpisode int
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <id>",
	Short: "Run the provider cascade for one title and print the streams as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newApp(cfg)
		defer a.Close()

		req := models.MediaRequest{
			CanonicalID: args[0],
			Kind:        models.ParseMediaKind(flagType),
			Season:      flagSeason,
			Episode:     flagEpisode,
		}
		res, err := a.engine.Resolve(cmd.Context(), req)
		if err != nil {
			return err
		}
		return printJSON(cmd, res)
	},
}

var torrentioCmd = &cobra.Command{
	Use:   "torrentio <id>",
	Short: "Fetch streams for one title from the aggregator and print them as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newApp(cfg)
		defer a.Close()

		streams, err := a.fetcher.FetchDirect(cmd.Context(), args[0], models.ParseMediaKind(flagType), flagSeason, flagEpisode)
		if err != nil {
			return err
		}
		return printJSON(cmd, map[string]any{"streams": streams})
	},
}

func init() {
	for _, c := range []*cobra.Command{resolveCmd, torrentioCmd} {
		c.Flags().StringVarP(&flagType, "type", "t", "movie", "Media kind: movie | series | tv")
		c.Flags().IntVarP(&flagSeason, "season", "s", 1, "Season number (series only)")
		c.Flags().IntVarP(&flagEpisode, "episode", "e", 1, "Episode number (series only)")
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
