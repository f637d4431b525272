package ai

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"insightlens/config"
	domainerrors "insightlens/internal/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *cohereClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewCohereClient(&config.Config{
		AI: &config.AIConfig{
			Endpoint: server.URL,
			APIKey:   "test-key",
			Timeout:  2 * time.Second,
		},
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	return client.(*cohereClient)
}

func TestNewCohereClient(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := NewCohereClient(&config.Config{AI: &config.AIConfig{Endpoint: "http://x"}}, logger)
	assert.Error(t, err)

	client, err := NewCohereClient(&config.Config{
		AI: &config.AIConfig{Endpoint: "http://x/", APIKey: "k"},
	}, logger)
	require.NoError(t, err)

	concrete := client.(*cohereClient)
	assert.Equal(t, "http://x", concrete.endpoint)
	assert.Equal(t, defaultSummarizeModel, concrete.summarizeModel)
	assert.Equal(t, defaultGenerateModel, concrete.generateModel)
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	t.Run("returns the summary with length metadata", func(t *testing.T) {
		t.Parallel()

		text := "The quarterly report shows steady growth across all regions."

		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/summarize", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

			var payload map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, text, payload["text"])
			assert.Equal(t, "medium", payload["length"])
			assert.Equal(t, "paragraph", payload["format"])

			w.Write([]byte(`{"summary":"Steady growth in all regions."}`))
		})

		result, err := client.Summarize(context.Background(), text)

		require.NoError(t, err)
		assert.Equal(t, "Steady growth in all regions.", result.Summary)
		assert.Equal(t, len(text), result.OriginalLength)
		assert.Equal(t, len(result.Summary), result.SummaryLength)
		assert.InDelta(t, float64(len(result.Summary))/float64(len(text)), result.CompressionRatio, 1e-9)
	})

	t.Run("maps an empty summary to upstream failure", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"summary":"  "}`))
		})

		_, err := client.Summarize(context.Background(), "some text")

		assert.ErrorIs(t, err, domainerrors.ErrUpstreamFailure)
	})

	t.Run("truncates oversized input", func(t *testing.T) {
		t.Parallel()

		long := strings.Repeat("a", maxInputRunes+500)

		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			var payload map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Len(t, payload["text"], maxInputRunes)

			w.Write([]byte(`{"summary":"short"}`))
		})

		result, err := client.Summarize(context.Background(), long)

		require.NoError(t, err)
		// Length metadata still reflects the full original text.
		assert.Equal(t, len(long), result.OriginalLength)
	})
}

func TestAnalyzeSentiment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		generated     string
		wantSentiment string
		wantEmoji     string
		wantConf      float64
	}{
		{
			name:          "positive label",
			generated:     "POSITIVE. The reviewer is clearly delighted.",
			wantSentiment: "positive",
			wantEmoji:     "😊",
			wantConf:      0.85,
		},
		{
			name:          "negative label",
			generated:     "NEGATIVE. The text complains about the delay.",
			wantSentiment: "negative",
			wantEmoji:     "😞",
			wantConf:      0.85,
		},
		{
			name:          "neutral label",
			generated:     "NEUTRAL. The text is purely factual.",
			wantSentiment: "neutral",
			wantEmoji:     "😐",
			wantConf:      0.85,
		},
		{
			name:          "no label falls back to neutral at low confidence",
			generated:     "The text describes a receipt.",
			wantSentiment: "neutral",
			wantEmoji:     "😐",
			wantConf:      0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/v1/generate", r.URL.Path)

				resp := map[string]any{
					"generations": []map[string]string{{"text": tt.generated}},
				}
				json.NewEncoder(w).Encode(resp)
			})

			result, err := client.AnalyzeSentiment(context.Background(), "some extracted text")

			require.NoError(t, err)
			assert.Equal(t, tt.wantSentiment, result.Sentiment)
			assert.Equal(t, tt.wantEmoji, result.Emoji)
			assert.InDelta(t, tt.wantConf, result.Confidence, 1e-9)
			assert.NotEmpty(t, result.Analysis)
		})
	}
}

func TestAnswerQuestion(t *testing.T) {
	t.Parallel()

	t.Run("returns the answer with a context preview", func(t *testing.T) {
		t.Parallel()

		text := strings.Repeat("context ", 50)

		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			var payload map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			prompt, _ := payload["prompt"].(string)
			assert.Contains(t, prompt, "What is this about?")

			w.Write([]byte(`{"generations":[{"text":"  It is about context.  "}]}`))
		})

		result, err := client.AnswerQuestion(context.Background(), text, "What is this about?")

		require.NoError(t, err)
		assert.Equal(t, "It is about context.", result.Answer)
		assert.Equal(t, "What is this about?", result.Question)
		assert.LessOrEqual(t, len([]rune(result.ContextPreview)), previewRunes)
	})

	t.Run("maps missing generations to upstream failure", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"generations":[]}`))
		})

		_, err := client.AnswerQuestion(context.Background(), "text", "question?")

		assert.ErrorIs(t, err, domainerrors.ErrUpstreamFailure)
	})
}

func TestPostErrorMapping(t *testing.T) {
	t.Parallel()

	t.Run("non-OK status becomes upstream failure", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})

		_, err := client.Summarize(context.Background(), "text")

		assert.ErrorIs(t, err, domainerrors.ErrUpstreamFailure)
	})

	t.Run("slow provider becomes upstream timeout", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(300 * time.Millisecond)
		}))
		t.Cleanup(server.Close)

		client, err := NewCohereClient(&config.Config{
			AI: &config.AIConfig{
				Endpoint: server.URL,
				APIKey:   "test-key",
				Timeout:  50 * time.Millisecond,
			},
		}, slog.New(slog.NewTextHandler(io.Discard, nil)))
		require.NoError(t, err)

		_, err = client.Summarize(context.Background(), "text")

		assert.ErrorIs(t, err, domainerrors.ErrUpstreamTimeout)
	})
}
