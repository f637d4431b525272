// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// AnalysisKind enumerates the supported AI analyses over extracted text.
type AnalysisKind string

const (
	AnalysisKindSummarize AnalysisKind = "summarize"
	AnalysisKindSentiment AnalysisKind = "sentiment"
	AnalysisKindQuestion  AnalysisKind = "question"
)

// AllAnalysisKinds lists every supported analysis kind in a stable order.
func AllAnalysisKinds() []AnalysisKind {
	return []AnalysisKind{AnalysisKindSummarize, AnalysisKindSentiment, AnalysisKindQuestion}
}

// Valid reports whether the kind is one of the supported analyses.
func (k AnalysisKind) Valid() bool {
	switch k {
	case AnalysisKindSummarize, AnalysisKindSentiment, AnalysisKindQuestion:
		return true
	default:
		return false
	}
}

// ExtractionRecord is a piece of text recovered from an uploaded image,
// owned by exactly one user.
type ExtractionRecord struct {
	ID        uuid.UUID         // The unique identifier for this record.
	UserID    uuid.UUID         // The owning account. All reads and deletes are scoped to it.
	Filename  string            // The original upload filename, informational only.
	Text      string            // The cleaned text recovered by the OCR provider.
	Checksum  string            // SHA-256 checksum of the uploaded image bytes.
	Analyses  []*AnalysisResult // Analyses run over this text, newest first.
	CreatedAt time.Time         // Timestamp of when the extraction happened.
}

// SummaryPayload is the result of a summarize analysis.
type SummaryPayload struct {
	Summary          string  `json:"summary"`
	OriginalLength   int     `json:"originalLength"`
	SummaryLength    int     `json:"summaryLength"`
	CompressionRatio float64 `json:"compressionRatio"`
}

// SentimentPayload is the result of a sentiment analysis.
type SentimentPayload struct {
	Sentiment  string  `json:"sentiment"`
	Confidence float64 `json:"confidence"`
	Emoji      string  `json:"emoji"`
	Analysis   string  `json:"analysis"`
}

// QuestionPayload is the result of a question-answer analysis.
type QuestionPayload struct {
	Answer         string  `json:"answer"`
	Confidence     float64 `json:"confidence"`
	ContextPreview string  `json:"contextPreview"`
	Question       string  `json:"question"`
}

// AnalysisResult is one AI analysis run over an extraction record.
// Exactly one of the payload pointers is set, matching Kind.
type AnalysisResult struct {
	ID           uuid.UUID         // The unique identifier for this analysis.
	ExtractionID uuid.UUID         // The extraction this analysis belongs to.
	Kind         AnalysisKind      // Which analysis was run.
	Summary      *SummaryPayload   // Set when Kind is summarize.
	Sentiment    *SentimentPayload // Set when Kind is sentiment.
	Question     *QuestionPayload  // Set when Kind is question.
	CreatedAt    time.Time         // Timestamp of when the analysis was produced.
}

// Payload returns the kind-specific payload as an opaque value for serialization.
func (a *AnalysisResult) Payload() any {
	switch a.Kind {
	case AnalysisKindSummarize:
		return a.Summary
	case AnalysisKindSentiment:
		return a.Sentiment
	case AnalysisKindQuestion:
		return a.Question
	default:
		return nil
	}
}

// UserStats aggregates a user's stored data. It is computed live from the
// record store, never cached.
type UserStats struct {
	TotalExtractions  int // Count of all extraction records owned by the user.
	TotalAnalyses     int // Count of all analyses across those records.
	RecentExtractions int // Count of extractions created within the last seven days.
}
