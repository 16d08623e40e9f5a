package geonames

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/geo-lookup-proxy/internal/config"
	"github.com/geo-lookup-proxy/internal/domain"
	"github.com/geo-lookup-proxy/internal/domain/repository"
	"go.uber.org/zap"
)

const (
	countryInfoPath = "/countryInfoJSON"
	childrenPath    = "/childrenJSON"
)

type client struct {
	httpClient   *http.Client
	baseURL      string
	username     string
	maxBodyBytes int64
	logger       *zap.Logger
}

// NewGeoNamesClient создает новый клиент для GeoNames API
func NewGeoNamesClient(cfg *config.GeoNamesConfig, logger *zap.Logger) repository.GeoNamesRepository {
	return &client{
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		baseURL:      cfg.BaseURL,
		username:     cfg.Username,
		maxBodyBytes: cfg.MaxBodyBytes,
		logger:       logger,
	}
}

// CountryInfo возвращает список стран
func (c *client) CountryInfo(ctx context.Context) (*domain.LookupResult, error) {
	return c.get(ctx, countryInfoPath, url.Values{})
}

// Children возвращает дочерние узлы geonameID.
// geonameID передаётся как непрозрачная строка.
func (c *client) Children(ctx context.Context, geonameID string) (*domain.LookupResult, error) {
	params := url.Values{}
	params.Set("geonameId", geonameID)
	return c.get(ctx, childrenPath, params)
}

func (c *client) get(ctx context.Context, path string, params url.Values) (*domain.LookupResult, error) {
	params.Set("username", c.username)
	reqURL := c.baseURL + path + "?" + params.Encode()

	// username не логируем
	c.logger.Debug("Calling GeoNames API",
		zap.String("path", path),
		zap.String("geoname_id", params.Get("geonameId")))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		c.logger.Error("Failed to create request", zap.Error(err))
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Failed to execute request", zap.String("path", path), zap.Error(redact(err, c.username)))
		return nil, fmt.Errorf("failed to execute request: %w", redact(err, c.username))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("GeoNames API returned error",
			zap.String("path", path),
			zap.Int("status_code", resp.StatusCode))
		return nil, fmt.Errorf("geonames API error: status %d", resp.StatusCode)
	}

	// Читаем на байт больше лимита, чтобы отличить "ровно лимит" от превышения
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes+1))
	if err != nil {
		c.logger.Warn("Failed to read response body", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) > c.maxBodyBytes {
		c.logger.Warn("GeoNames response exceeds limit",
			zap.String("path", path),
			zap.Int64("max_body_bytes", c.maxBodyBytes))
		return nil, fmt.Errorf("geonames response exceeds %d bytes", c.maxBodyBytes)
	}

	c.logger.Debug("GeoNames API call successful",
		zap.String("path", path),
		zap.Int("body_bytes", len(body)))

	return &domain.LookupResult{
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

// redact убирает credential из текста ошибки: *url.Error содержит полный URL запроса
func redact(err error, username string) error {
	var urlErr *url.Error
	if username == "" || !errors.As(err, &urlErr) {
		return err
	}
	return &url.Error{
		Op:  urlErr.Op,
		URL: redactURL(urlErr.URL),
		Err: urlErr.Err,
	}
}

func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}
	q := u.Query()
	if q.Has("username") {
		q.Set("username", "xxxxx")
	}
	u.RawQuery = q.Encode()
	return u.String()
}
