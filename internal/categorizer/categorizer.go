// Package categorizer implements the AI categorization collaborator used by
// the import pipeline.
package categorizer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dvloznov/statement-ingest/internal/domain"
	"github.com/dvloznov/statement-ingest/internal/logger"
)

// DefaultModelName is the default Gemini model used for categorization.
const DefaultModelName = "gemini-2.5-flash"

const (
	defaultAttempts    = 3
	defaultCallTimeout = 60 * time.Second
	defaultBackoff     = time.Second
)

// ErrUnavailable is returned by Unavailable for every batch.
var ErrUnavailable = errors.New("categorizer: not configured")

// Generator sends a prompt to a language model and returns its text output.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Categorizer turns batches into model prompts and parses the replies.
type Categorizer struct {
	gen         Generator
	attempts    int
	callTimeout time.Duration
	backoff     time.Duration
}

// New returns a Categorizer backed by gen.
func New(gen Generator) *Categorizer {
	return &Categorizer{
		gen:         gen,
		attempts:    defaultAttempts,
		callTimeout: defaultCallTimeout,
		backoff:     defaultBackoff,
	}
}

// CategorizeBatch categorizes items with up to three attempts. Each attempt
// has its own timeout.
func (c *Categorizer) CategorizeBatch(ctx context.Context, items []domain.BatchItem) ([]domain.CategorizedItem, error) {
	if len(items) == 0 {
		return nil, nil
	}
	prompt, err := buildPrompt(items)
	if err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx)
	var lastErr error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		out, err := c.try(ctx, prompt)
		if err == nil {
			return out, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		log.Debug().Err(err).Int("attempt", attempt).Int("items", len(items)).Msg("Categorization attempt failed")
		if attempt < c.attempts {
			select {
			case <-time.After(c.backoff * time.Duration(attempt)):
			case <-ctx.Done():
				return nil, fmt.Errorf("CategorizeBatch: %w", ctx.Err())
			}
		}
	}
	return nil, fmt.Errorf("CategorizeBatch: %d attempts: %w", c.attempts, lastErr)
}

func (c *Categorizer) try(ctx context.Context, prompt string) ([]domain.CategorizedItem, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	raw, err := c.gen.Generate(callCtx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("empty response from model")
	}
	return parseResponse(raw)
}

type responseItem struct {
	Idx        *int    `json:"idx"`
	Shop       string  `json:"shop"`
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

// parseResponse decodes the model output. Amount is left zero: the model
// never sees amounts and the pipeline keeps the transaction's own.
func parseResponse(raw string) ([]domain.CategorizedItem, error) {
	clean := cleanModelJSON(raw)

	var parsed []responseItem
	if err := json.Unmarshal([]byte(clean), &parsed); err != nil {
		return nil, fmt.Errorf("parseResponse: unmarshal JSON: %w", err)
	}

	out := make([]domain.CategorizedItem, 0, len(parsed))
	for _, p := range parsed {
		if p.Idx == nil {
			continue
		}
		conf := p.Confidence
		if conf < 0 {
			conf = 0
		}
		if conf > 1 {
			conf = 1
		}
		out = append(out, domain.CategorizedItem{
			Idx:        *p.Idx,
			Shop:       strings.TrimSpace(p.Shop),
			Category:   domain.ParseCategory(strings.TrimSpace(p.Category)),
			Confidence: conf,
		})
	}
	return out, nil
}

// cleanModelJSON strips Markdown fences and text around the JSON array.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	// Handle ```json ... ``` or ``` ... ``` wrappers.
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	if start := strings.Index(s, "["); start != -1 {
		if end := strings.LastIndex(s, "]"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}

// Unavailable is used when no model is configured. Every batch fails, so the
// pipeline assigns the fallback category.
type Unavailable struct{}

func (Unavailable) CategorizeBatch(context.Context, []domain.BatchItem) ([]domain.CategorizedItem, error) {
	return nil, ErrUnavailable
}
