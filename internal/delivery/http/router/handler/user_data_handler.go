package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"insightlens/internal/delivery/http/response"
	"insightlens/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// UserDataHandler holds dependencies for extraction history endpoints.
type UserDataHandler struct {
	uc     usecase.UserDataUsecase
	logger *slog.Logger
}

// NewUserDataHandler is the constructor for UserDataHandler, injected by Fx.
func NewUserDataHandler(uc usecase.UserDataUsecase, logger *slog.Logger) *UserDataHandler {
	return &UserDataHandler{
		uc:     uc,
		logger: logger,
	}
}

// ListExtractions returns the authenticated user's extraction history,
// newest first. The optional "limit" query parameter caps the page size.
func (h *UserDataHandler) ListExtractions(c echo.Context) error {
	userID, err := userIDFromContext(c)
	if err != nil {
		return errors.WithStack(err)
	}

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return response.BadRequest(c, "VALIDATION_FAILED", "limit must be a non-negative integer")
		}
	}

	records, err := h.uc.ListExtractions(c.Request().Context(), &usecase.ListExtractionsInput{
		UserID: userID,
		Limit:  limit,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	out := make([]*extractionResponse, 0, len(records))
	for _, record := range records {
		out = append(out, toExtractionResponse(record))
	}

	return response.Success(c, http.StatusOK, out, "")
}

// GetExtraction returns one extraction record with its analyses.
func (h *UserDataHandler) GetExtraction(c echo.Context) error {
	userID, err := userIDFromContext(c)
	if err != nil {
		return errors.WithStack(err)
	}

	id, err := uuidParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "VALIDATION_FAILED", "Invalid extraction ID")
	}

	record, err := h.uc.GetExtraction(c.Request().Context(), userID, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toExtractionResponse(record), "")
}

type statsResponse struct {
	TotalExtractions  int `json:"totalExtractions"`
	TotalAnalyses     int `json:"totalAnalyses"`
	RecentExtractions int `json:"recentExtractions"`
}

// GetStats returns the authenticated user's aggregate usage stats.
func (h *UserDataHandler) GetStats(c echo.Context) error {
	userID, err := userIDFromContext(c)
	if err != nil {
		return errors.WithStack(err)
	}

	stats, err := h.uc.GetStats(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, statsResponse{
		TotalExtractions:  stats.TotalExtractions,
		TotalAnalyses:     stats.TotalAnalyses,
		RecentExtractions: stats.RecentExtractions,
	}, "")
}

// DeleteExtraction removes one extraction record and its analyses.
func (h *UserDataHandler) DeleteExtraction(c echo.Context) error {
	userID, err := userIDFromContext(c)
	if err != nil {
		return errors.WithStack(err)
	}

	id, err := uuidParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "VALIDATION_FAILED", "Invalid extraction ID")
	}

	if err := h.uc.DeleteExtraction(c.Request().Context(), userID, id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Extraction deleted")
}
