// Package ai provides the HTTP client for the external language-model provider.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"insightlens/config"
	deliverycontext "insightlens/internal/delivery/context"
	"insightlens/internal/domain/entity"
	domainerrors "insightlens/internal/domain/errors"
	"insightlens/internal/domain/service"
	"insightlens/internal/errors"
)

const (
	defaultTimeout        = 30 * time.Second
	defaultSummarizeModel = "summarize-xlarge"
	defaultGenerateModel  = "command"

	// previewRunes bounds the stored context preview for question answers.
	previewRunes = 200

	// maxInputRunes bounds how much extracted text is sent per request.
	maxInputRunes = 4000
)

// cohereClient implements service.TextAnalyzer against a Cohere-style REST API:
// POST {endpoint}/v1/summarize for summaries and POST {endpoint}/v1/generate
// for sentiment and question answering prompts.
type cohereClient struct {
	endpoint       string
	apiKey         string
	summarizeModel string
	generateModel  string
	httpClient     *http.Client
	logger         *slog.Logger
}

// NewCohereClient is the constructor for cohereClient.
func NewCohereClient(cfg *config.Config, logger *slog.Logger) (service.TextAnalyzer, error) {
	if cfg.AI == nil || cfg.AI.Endpoint == "" || cfg.AI.APIKey == "" {
		return nil, errors.New("ai endpoint and api key must be provided")
	}

	timeout := defaultTimeout
	if cfg.AI.Timeout > 0 {
		timeout = cfg.AI.Timeout
	}
	summarizeModel := defaultSummarizeModel
	if cfg.AI.SummarizeModel != "" {
		summarizeModel = cfg.AI.SummarizeModel
	}
	generateModel := defaultGenerateModel
	if cfg.AI.GenerateModel != "" {
		generateModel = cfg.AI.GenerateModel
	}

	return &cohereClient{
		endpoint:       strings.TrimRight(cfg.AI.Endpoint, "/"),
		apiKey:         cfg.AI.APIKey,
		summarizeModel: summarizeModel,
		generateModel:  generateModel,
		httpClient:     &http.Client{Timeout: timeout},
		logger:         logger,
	}, nil
}

// log returns a request-scoped logger if available, otherwise falls back to the client's logger.
func (c *cohereClient) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, c.logger)
}

// Summarize condenses the text through the provider's summarize endpoint.
func (c *cohereClient) Summarize(ctx context.Context, text string) (*entity.SummaryPayload, error) {
	input := truncateRunes(text, maxInputRunes)

	payload := map[string]any{
		"text":               input,
		"length":             "medium",
		"format":             "paragraph",
		"model":              c.summarizeModel,
		"additional_command": "Focus on the key points and main ideas",
	}

	var result struct {
		Summary string `json:"summary"`
	}
	if err := c.post(ctx, "/v1/summarize", payload, &result); err != nil {
		return nil, err
	}

	summary := strings.TrimSpace(result.Summary)
	if summary == "" {
		return nil, domainerrors.ErrUpstreamFailure.WrapMessage("provider returned an empty summary")
	}

	ratio := 0.0
	if len(text) > 0 {
		ratio = float64(len(summary)) / float64(len(text))
	}

	return &entity.SummaryPayload{
		Summary:          summary,
		OriginalLength:   len(text),
		SummaryLength:    len(summary),
		CompressionRatio: ratio,
	}, nil
}

// AnalyzeSentiment classifies the text's sentiment via a generation prompt.
func (c *cohereClient) AnalyzeSentiment(ctx context.Context, text string) (*entity.SentimentPayload, error) {
	input := truncateRunes(text, maxInputRunes)
	prompt := "Classify the sentiment of the following text as POSITIVE, NEGATIVE or NEUTRAL, " +
		"then explain your classification in one sentence.\n\nText: " + input + "\n\nSentiment:"

	generated, err := c.generate(ctx, prompt, 120)
	if err != nil {
		return nil, err
	}

	sentiment, analysis := parseSentiment(generated)

	return &entity.SentimentPayload{
		Sentiment:  sentiment,
		Confidence: sentimentConfidence(generated),
		Emoji:      sentimentEmoji(sentiment),
		Analysis:   analysis,
	}, nil
}

// AnswerQuestion answers a free-form question using the text as context.
func (c *cohereClient) AnswerQuestion(ctx context.Context, text, question string) (*entity.QuestionPayload, error) {
	input := truncateRunes(text, maxInputRunes)
	prompt := "Answer the question using only the context below. If the context does not " +
		"contain the answer, say so.\n\nContext: " + input + "\n\nQuestion: " + question + "\n\nAnswer:"

	generated, err := c.generate(ctx, prompt, 200)
	if err != nil {
		return nil, err
	}

	return &entity.QuestionPayload{
		Answer:         strings.TrimSpace(generated),
		Confidence:     0.8,
		ContextPreview: truncateRunes(text, previewRunes),
		Question:       question,
	}, nil
}

// generate runs a prompt through the provider's generate endpoint.
func (c *cohereClient) generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	payload := map[string]any{
		"model":       c.generateModel,
		"prompt":      prompt,
		"max_tokens":  maxTokens,
		"temperature": 0.3,
	}

	var result struct {
		Generations []struct {
			Text string `json:"text"`
		} `json:"generations"`
	}
	if err := c.post(ctx, "/v1/generate", payload, &result); err != nil {
		return "", err
	}

	if len(result.Generations) == 0 || strings.TrimSpace(result.Generations[0].Text) == "" {
		return "", domainerrors.ErrUpstreamFailure.WrapMessage("provider returned no generations")
	}

	return result.Generations[0].Text, nil
}

// post sends a JSON request to the provider and decodes the JSON response.
func (c *cohereClient) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "failed to encode ai request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "failed to build ai request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			c.log(ctx).Warn("AI provider timed out",
				slog.String("path", path),
				slog.Duration("elapsed", time.Since(start)))

			return domainerrors.ErrUpstreamTimeout.WrapMessage("ai request timed out")
		}

		return domainerrors.ErrUpstreamFailure.WrapMessage("ai request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log(ctx).Warn("AI provider returned non-OK status",
			slog.String("path", path),
			slog.Int("status", resp.StatusCode))

		return domainerrors.ErrUpstreamFailure.WrapMessage("ai provider status " + strconv.Itoa(resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return domainerrors.ErrUpstreamFailure.WrapMessage("failed to decode ai response")
	}

	c.log(ctx).Debug("AI request completed",
		slog.String("path", path),
		slog.Duration("elapsed", time.Since(start)))

	return nil
}

// parseSentiment extracts the label and the explanation from generated text.
func parseSentiment(generated string) (string, string) {
	upper := strings.ToUpper(generated)

	sentiment := "neutral"
	switch {
	case strings.Contains(upper, "POSITIVE"):
		sentiment = "positive"
	case strings.Contains(upper, "NEGATIVE"):
		sentiment = "negative"
	}

	return sentiment, strings.TrimSpace(generated)
}

// sentimentConfidence is a coarse confidence heuristic: an explicit label in
// the generation reads as more certain than a fallback neutral.
func sentimentConfidence(generated string) float64 {
	upper := strings.ToUpper(generated)
	if strings.Contains(upper, "POSITIVE") || strings.Contains(upper, "NEGATIVE") || strings.Contains(upper, "NEUTRAL") {
		return 0.85
	}

	return 0.5
}

func sentimentEmoji(sentiment string) string {
	switch sentiment {
	case "positive":
		return "😊"
	case "negative":
		return "😞"
	default:
		return "😐"
	}
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}

	return string(runes[:limit])
}

func isTimeout(err error) bool {
	type timeout interface{ Timeout() bool }

	var te timeout
	if errors.As(err, &te) {
		return te.Timeout()
	}

	return false
}
