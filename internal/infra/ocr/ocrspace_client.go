// Package ocr provides the HTTP client for the external text extraction provider.
package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"insightlens/config"
	deliverycontext "insightlens/internal/delivery/context"
	domainerrors "insightlens/internal/domain/errors"
	"insightlens/internal/domain/service"
	"insightlens/internal/errors"
)

const (
	defaultTimeout  = 30 * time.Second
	defaultEngine   = 2
	defaultLanguage = "eng"
)

// ocrSpaceClient implements service.TextExtractor against an OCR.space-style API.
// The provider takes a multipart POST and answers with parsed results per page.
type ocrSpaceClient struct {
	endpoint   string
	apiKey     string
	engine     int
	language   string
	httpClient *http.Client
	logger     *slog.Logger
}

// ocrSpaceResponse mirrors the provider's response envelope.
type ocrSpaceResponse struct {
	ParsedResults []struct {
		ParsedText string `json:"ParsedText"`
	} `json:"ParsedResults"`
	IsErroredOnProcessing bool `json:"IsErroredOnProcessing"`
	ErrorMessage          any  `json:"ErrorMessage"`
}

// NewOCRSpaceClient is the constructor for ocrSpaceClient.
func NewOCRSpaceClient(cfg *config.Config, logger *slog.Logger) (service.TextExtractor, error) {
	if cfg.OCR == nil || cfg.OCR.Endpoint == "" || cfg.OCR.APIKey == "" {
		return nil, errors.New("ocr endpoint and api key must be provided")
	}

	timeout := defaultTimeout
	if cfg.OCR.Timeout > 0 {
		timeout = cfg.OCR.Timeout
	}
	engine := defaultEngine
	if cfg.OCR.Engine > 0 {
		engine = cfg.OCR.Engine
	}
	language := defaultLanguage
	if cfg.OCR.Language != "" {
		language = cfg.OCR.Language
	}

	return &ocrSpaceClient{
		endpoint:   cfg.OCR.Endpoint,
		apiKey:     cfg.OCR.APIKey,
		engine:     engine,
		language:   language,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

// log returns a request-scoped logger if available, otherwise falls back to the client's logger.
func (c *ocrSpaceClient) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, c.logger)
}

// ExtractText uploads the image to the provider and returns the concatenated parsed text.
func (c *ocrSpaceClient) ExtractText(ctx context.Context, filename string, image io.Reader) (string, error) {
	body, contentType, err := c.buildRequestBody(filename, image)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return "", errors.Wrap(err, "failed to build ocr request")
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("apikey", c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			c.log(ctx).Warn("OCR provider timed out", slog.Duration("elapsed", time.Since(start)))

			return "", domainerrors.ErrUpstreamTimeout.WrapMessage("ocr request timed out")
		}

		return "", domainerrors.ErrUpstreamFailure.WrapMessage("ocr request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log(ctx).Warn("OCR provider returned non-OK status", slog.Int("status", resp.StatusCode))

		return "", domainerrors.ErrUpstreamFailure.WrapMessage("ocr provider status " + strconv.Itoa(resp.StatusCode))
	}

	var parsed ocrSpaceResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", domainerrors.ErrUpstreamFailure.WrapMessage("failed to decode ocr response")
	}

	if parsed.IsErroredOnProcessing {
		c.log(ctx).Warn("OCR provider reported a processing error", slog.Any("providerError", parsed.ErrorMessage))

		return "", domainerrors.ErrUpstreamFailure.WrapMessage("ocr provider reported a processing error")
	}

	var texts []string
	for _, result := range parsed.ParsedResults {
		if result.ParsedText != "" {
			texts = append(texts, result.ParsedText)
		}
	}

	c.log(ctx).Debug("OCR extraction completed",
		slog.Duration("elapsed", time.Since(start)),
		slog.Int("pages", len(parsed.ParsedResults)))

	return strings.Join(texts, "\n"), nil
}

// buildRequestBody assembles the provider's multipart form.
func (c *ocrSpaceClient) buildRequestBody(filename string, image io.Reader) (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fields := map[string]string{
		"language":          c.language,
		"isOverlayRequired": "false",
		"detectOrientation": "true",
		"scale":             "true",
		"OCREngine":         strconv.Itoa(c.engine),
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, "", errors.Wrap(err, "failed to write ocr form field")
		}
	}

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to create ocr form file")
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, "", errors.Wrap(err, "failed to copy image into ocr form")
	}

	if err := writer.Close(); err != nil {
		return nil, "", errors.Wrap(err, "failed to finalize ocr form")
	}

	return &buf, writer.FormDataContentType(), nil
}

func isTimeout(err error) bool {
	type timeout interface{ Timeout() bool }

	var te timeout
	if errors.As(err, &te) {
		return te.Timeout()
	}

	return false
}
