package dto

import "github.com/geo-lookup-proxy/internal/domain"

// StatsResponse - ответ со статистикой запросов
type StatsResponse struct {
	Stats  *domain.LookupStats `json:"stats"`
	Source string              `json:"source"`
}

// HealthResponse - ответ health check
type HealthResponse struct {
	Status string `json:"status"`
	Redis  string `json:"redis,omitempty"`
}
