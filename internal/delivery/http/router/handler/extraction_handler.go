package handler

import (
	"log/slog"
	"net/http"

	"insightlens/internal/delivery/http/response"
	"insightlens/internal/domain/entity"
	"insightlens/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ExtractionHandler holds dependencies for the OCR and analysis endpoints.
type ExtractionHandler struct {
	uc     usecase.ExtractionUsecase
	logger *slog.Logger
}

// NewExtractionHandler is the constructor for ExtractionHandler, injected by Fx.
func NewExtractionHandler(uc usecase.ExtractionUsecase, logger *slog.Logger) *ExtractionHandler {
	return &ExtractionHandler{
		uc:     uc,
		logger: logger,
	}
}

// ExtractText accepts a multipart image upload, runs OCR over it and stores
// the result under the authenticated user.
func (h *ExtractionHandler) ExtractText(c echo.Context) error {
	userID, err := userIDFromContext(c)
	if err != nil {
		return errors.WithStack(err)
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return response.BadRequest(c, "VALIDATION_FAILED", "An image file is required under the 'image' field")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return errors.Wrap(err, "failed to open upload")
	}
	defer file.Close()

	record, err := h.uc.ExtractText(c.Request().Context(), &usecase.ExtractTextInput{
		UserID:      userID,
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Image:       file,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toExtractionResponse(record), "Text extracted successfully")
}

type analyzeRequest struct {
	Type     string `json:"type" validate:"required"`
	Question string `json:"question"`
}

// Analyze runs one AI analysis over a stored extraction.
func (h *ExtractionHandler) Analyze(c echo.Context) error {
	userID, err := userIDFromContext(c)
	if err != nil {
		return errors.WithStack(err)
	}

	extractionID, err := uuidParam(c, "id")
	if err != nil {
		return response.BadRequest(c, "VALIDATION_FAILED", "Invalid extraction ID")
	}

	var req analyzeRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid analysis input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BindingError(c, "VALIDATION_FAILED", "Analysis type is required")
	}

	analysis, err := h.uc.Analyze(c.Request().Context(), &usecase.AnalyzeInput{
		UserID:       userID,
		ExtractionID: extractionID,
		Kind:         entity.AnalysisKind(req.Type),
		Question:     req.Question,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toAnalysisResponse(analysis), "Analysis completed successfully")
}

type analysisTypeResponse struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ListAnalysisTypes describes the supported analyses.
func (h *ExtractionHandler) ListAnalysisTypes(c echo.Context) error {
	infos := h.uc.ListAnalysisTypes()

	types := make([]analysisTypeResponse, 0, len(infos))
	for _, info := range infos {
		types = append(types, analysisTypeResponse{
			Type:        string(info.Kind),
			Name:        info.Name,
			Description: info.Description,
		})
	}

	return response.Success(c, http.StatusOK, types, "")
}
