package service

import (
	"context"

	"insightlens/internal/domain/entity"
)

// TextAnalyzer defines the interface for AI analyses over extracted text,
// backed by an external language-model provider.
type TextAnalyzer interface {
	// Summarize condenses the text into a short summary.
	Summarize(ctx context.Context, text string) (*entity.SummaryPayload, error)

	// AnalyzeSentiment classifies the overall sentiment of the text.
	AnalyzeSentiment(ctx context.Context, text string) (*entity.SentimentPayload, error)

	// AnswerQuestion answers a free-form question using the text as context.
	AnswerQuestion(ctx context.Context, text, question string) (*entity.QuestionPayload, error)
}
