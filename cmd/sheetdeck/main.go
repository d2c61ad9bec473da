// Command sheetdeck analyzes spreadsheets and converts them into slide decks
// from the command line.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dgallion1/sheetdeck/internal/config"
	"github.com/dgallion1/sheetdeck/internal/deck"
	"github.com/dgallion1/sheetdeck/internal/llm"
	"github.com/dgallion1/sheetdeck/internal/pipeline"
)

var (
	pretty     bool
	outputPath string
	audience   string
	format     string
	noCharts   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "sheetdeck",
		Short:         "Turn spreadsheets into slide decks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [input.xlsx]",
		Short: "Print the extracted data and chart suggestions as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  runAnalyze,
	}
	analyzeCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")

	convertCmd := &cobra.Command{
		Use:   "convert [input.xlsx]",
		Short: "Generate a deck through the configured LLM",
		Long: `convert loads the spreadsheet, asks the configured LLM for a slide outline
and renders it. LLM settings come from the environment (OPENAI_API_KEY,
OPENAI_MODEL, LLM_BACKEND, ...) or a .env file.`,
		Args: cobra.ExactArgs(1),
		RunE: runConvert,
	}
	convertCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: presentation.<format>)")
	convertCmd.Flags().StringVar(&audience, "audience", "", "Target audience for the slides")
	convertCmd.Flags().StringVar(&format, "format", "", "Deck format: pptx or docx (default: DECK_FORMAT)")
	convertCmd.Flags().BoolVar(&noCharts, "no-charts", false, "Disable chart suggestions and chart slides")

	rootCmd.AddCommand(analyzeCmd, convertCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	level, _ := cfg.SlogLevel()
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func readInput(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file not found: %s", path)
	}
	return data, err
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	data, err := readInput(args[0])
	if err != nil {
		return err
	}

	conv := pipeline.NewConverter(nil, pipeline.OptionsFromConfig(cfg), nil, newLogger(cfg))
	res, err := conv.Analyze(cmd.Context(), data, filepath.Base(args[0]))
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(res)
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if format != "" {
		cfg.DeckFormat = format
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if _, err := deck.ForFormat(cfg.DeckFormat); err != nil {
		return err
	}

	data, err := readInput(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	log := newLogger(cfg)
	completer, err := llm.Open(ctx, cfg)
	if err != nil {
		return err
	}
	conv := pipeline.NewConverter(completer, pipeline.OptionsFromConfig(cfg), llm.NewLLMStats(cfg.StatsWindow), log)

	req := pipeline.Request{
		Data:     data,
		Filename: filepath.Base(args[0]),
		Audience: audience,
	}
	if noCharts {
		off := false
		req.IncludeCharts = &off
	}

	res, err := conv.Convert(ctx, req)
	if err != nil {
		return err
	}

	out := outputPath
	if out == "" {
		out = res.Filename
	}
	if err := os.WriteFile(out, res.Document, 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d slides)\n", out, len(res.Slides))
	return nil
}
