// Package handler contains the HTTP handlers for the application.
package handler

import (
	"net/http"
	"time"

	"insightlens/internal/delivery/http/middleware"
	"insightlens/internal/delivery/http/response"
	"insightlens/internal/domain/entity"
	domainerrors "insightlens/internal/domain/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// HealthCheck reports basic liveness.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}

// userIDFromContext reads the authenticated user's ID placed on the context
// by the auth middleware.
func userIDFromContext(c echo.Context) (uuid.UUID, error) {
	userID, ok := c.Get(middleware.UserIDContextKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, domainerrors.ErrUnauthorized
	}

	return userID, nil
}

// uuidParam parses a UUID path parameter.
func uuidParam(c echo.Context, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Param(name))
}

// userResponse is the public view of an account. The password hash never
// leaves the server.
type userResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserResponse(user *entity.User) *userResponse {
	return &userResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
	}
}

// analysisResponse is the public view of one analysis run.
type analysisResponse struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	Result    any       `json:"result"`
	CreatedAt time.Time `json:"createdAt"`
}

// extractionResponse is the public view of an extraction record.
type extractionResponse struct {
	ID        uuid.UUID          `json:"id"`
	Filename  string             `json:"filename"`
	Text      string             `json:"text"`
	Checksum  string             `json:"checksum"`
	Analyses  []analysisResponse `json:"analyses"`
	CreatedAt time.Time          `json:"createdAt"`
}

func toAnalysisResponse(analysis *entity.AnalysisResult) analysisResponse {
	return analysisResponse{
		ID:        analysis.ID,
		Type:      string(analysis.Kind),
		Result:    analysis.Payload(),
		CreatedAt: analysis.CreatedAt,
	}
}

func toExtractionResponse(record *entity.ExtractionRecord) *extractionResponse {
	analyses := make([]analysisResponse, 0, len(record.Analyses))
	for _, analysis := range record.Analyses {
		analyses = append(analyses, toAnalysisResponse(analysis))
	}

	return &extractionResponse{
		ID:        record.ID,
		Filename:  record.Filename,
		Text:      record.Text,
		Checksum:  record.Checksum,
		Analyses:  analyses,
		CreatedAt: record.CreatedAt,
	}
}
