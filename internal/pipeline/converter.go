// Package pipeline runs a spreadsheet through analysis, the LLM and a deck
// renderer in a single synchronous pass.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dgallion1/sheetdeck/internal/analyze"
	"github.com/dgallion1/sheetdeck/internal/config"
	"github.com/dgallion1/sheetdeck/internal/deck"
	"github.com/dgallion1/sheetdeck/internal/llm"
	"github.com/dgallion1/sheetdeck/internal/outline"
	"github.com/dgallion1/sheetdeck/internal/workbook"
)

// Options are the process-wide conversion defaults.
type Options struct {
	IncludeCharts   bool
	Audience        string
	Model           string
	MaxTokens       int
	MaxPromptTokens int
	Format          string
	LLMTimeout      time.Duration
	RetryBase       time.Duration
	RetryMax        time.Duration
}

func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		IncludeCharts:   cfg.IncludeCharts,
		Audience:        cfg.DefaultAudience,
		Model:           cfg.OpenAIModel,
		MaxTokens:       cfg.LLMMaxTokens,
		MaxPromptTokens: cfg.MaxPromptTokens,
		Format:          cfg.DeckFormat,
		LLMTimeout:      cfg.LLMTimeout,
		RetryBase:       cfg.RetryBase,
		RetryMax:        cfg.RetryMax,
	}
}

// Request is one spreadsheet to convert. Empty fields fall back to Options.
type Request struct {
	Data          []byte
	Filename      string
	Audience      string
	Format        string
	IncludeCharts *bool
}

// Result is a rendered deck and the data it was built from.
type Result struct {
	ID              string
	Filename        string
	ContentType     string
	Document        []byte
	Slides          []outline.Slide
	Analysis        *analyze.WorkbookResult
	Recommendations []string
}

// Analysis is the LLM-free part of a conversion.
type Analysis struct {
	Analysis        *analyze.WorkbookResult `json:"analysis"`
	Recommendations []string                `json:"recommendations"`
}

// Converter is safe for concurrent use; conversions share nothing but the
// completer and the latency stats.
type Converter struct {
	llm   llm.Completer
	opts  Options
	stats *llm.LLMStats
	log   *slog.Logger

	backoff func(attempt int) time.Duration
	newID   func() string
}

func NewConverter(c llm.Completer, opts Options, stats *llm.LLMStats, log *slog.Logger) *Converter {
	if stats == nil {
		stats = llm.NewLLMStats(time.Hour)
	}
	return &Converter{
		llm:     c,
		opts:    opts,
		stats:   stats,
		log:     log,
		backoff: func(attempt int) time.Duration {
			return Backoff(attempt, opts.RetryBase, opts.RetryMax)
		},
		newID:   uuid.NewString,
	}
}

func (c *Converter) Options() Options { return c.opts }

// Stats returns the completion latency snapshot.
func (c *Converter) Stats() llm.StatsSnapshot { return c.stats.Snapshot() }

// Analyze loads and analyzes a spreadsheet without calling the LLM.
func (c *Converter) Analyze(ctx context.Context, data []byte, filename string) (*Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res, err := c.analyze(data, filename)
	if err != nil {
		return nil, err
	}
	return &Analysis{
		Analysis:        res,
		Recommendations: analyze.RecommendCharts(res.Categories, res.Values, res.Series),
	}, nil
}

// Convert runs the full pipeline. Errors are *workbook.FormatError,
// *llm.UpstreamError or *deck.RenderError, possibly wrapped.
func (c *Converter) Convert(ctx context.Context, req Request) (*Result, error) {
	id := c.newID()
	log := c.log.With("conversion_id", id, "filename", req.Filename)

	includeCharts := c.opts.IncludeCharts
	if req.IncludeCharts != nil {
		includeCharts = *req.IncludeCharts
	}
	audience := c.opts.Audience
	if strings.TrimSpace(req.Audience) != "" {
		audience = req.Audience
	}
	format := c.opts.Format
	if req.Format != "" {
		format = req.Format
	}

	renderer, err := deck.ForFormat(format)
	if err != nil {
		return nil, err
	}

	analysis, err := c.analyze(req.Data, req.Filename)
	if err != nil {
		log.Warn("load failed", "error", err)
		return nil, err
	}
	log.Info("analyzed workbook",
		"sheets", len(analysis.Sheets),
		"rows", len(analysis.Rows),
		"categories", len(analysis.Categories),
	)

	recs := []string{}
	if includeCharts {
		recs = analyze.RecommendCharts(analysis.Categories, analysis.Values, analysis.Series)
	}

	prompt := llm.BuildPrompt(llm.PromptInput{
		Audience:        audience,
		Analysis:        analysis,
		Recommendations: recs,
		IncludeCharts:   includeCharts,
		MaxTokens:       c.opts.MaxPromptTokens,
	})

	raw, err := c.complete(ctx, log, llm.CompletionRequest{
		Model:     c.opts.Model,
		Prompt:    prompt,
		MaxTokens: c.opts.MaxTokens,
	})
	if err != nil {
		return nil, err
	}

	parser := outline.Parser{}
	if includeCharts {
		parser.FallbackChart = outline.ChartPie
	}
	slides := parser.Parse(raw)
	if !includeCharts {
		for i := range slides {
			slides[i].Chart = outline.ChartNone
		}
	}

	doc, err := renderer.Render(slides, deck.ChartData{
		Categories: analysis.Categories,
		Values:     analysis.Values,
	})
	if err != nil {
		log.Error("render failed", "error", err)
		return nil, err
	}

	log.Info("conversion complete", "slides", len(slides), "format", renderer.Extension(), "bytes", len(doc))
	return &Result{
		ID:              id,
		Filename:        "presentation." + renderer.Extension(),
		ContentType:     renderer.ContentType(),
		Document:        doc,
		Slides:          slides,
		Analysis:        analysis,
		Recommendations: recs,
	}, nil
}

func (c *Converter) analyze(data []byte, filename string) (*analyze.WorkbookResult, error) {
	wb, err := workbook.Load(bytes.NewReader(data), filename)
	if err != nil {
		return nil, err
	}
	return analyze.AnalyzeWorkbook(wb), nil
}

// complete calls the LLM, retrying temporary failures with backoff. Each
// attempt gets its own timeout.
func (c *Converter) complete(ctx context.Context, log *slog.Logger, req llm.CompletionRequest) (string, error) {
	var lastErr error
	for attempt := range MaxRetries {
		attemptCtx, cancel := ctx, context.CancelFunc(func() {})
		if c.opts.LLMTimeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, c.opts.LLMTimeout)
		}
		start := time.Now()
		out, err := c.llm.Complete(attemptCtx, req)
		cancel()
		c.stats.Record(time.Since(start), err)

		if err == nil {
			log.Debug("completion received", "attempt", attempt, "chars", len(out))
			return out, nil
		}
		lastErr = err
		if !IsRetryable(err) || ctx.Err() != nil {
			break
		}
		if attempt == MaxRetries-1 {
			break
		}
		log.Warn("retryable llm error", "attempt", attempt, "error", err)
		select {
		case <-time.After(c.backoff(attempt)):
		case <-ctx.Done():
			return "", fmt.Errorf("llm completion: %w", lastErr)
		}
	}
	log.Error("llm completion failed", "error", lastErr)
	return "", fmt.Errorf("llm completion: %w", lastErr)
}
