// Package types contains common report types used across the application
package types

// TotalRow is one cell of the sparse totals table: a (player, metric) pair
// with at least one logged event.
type TotalRow struct {
	PlayerID    uint    `json:"player_id"`
	PlayerName  string  `json:"player"`
	MetricID    uint    `json:"metric_id"`
	MetricKey   string  `json:"metric_key"`
	MetricLabel string  `json:"metric"`
	Total       float64 `json:"total"`
}

// RateRow is a per-80-minute normalized rate for one (player, metric) pair.
type RateRow struct {
	PlayerID    uint    `json:"player_id"`
	PlayerName  string  `json:"player"`
	MetricID    uint    `json:"metric_id"`
	MetricKey   string  `json:"metric_key"`
	MetricLabel string  `json:"metric"`
	Total       float64 `json:"total"`
	Minutes     float64 `json:"minutes"`
	Per80       float64 `json:"per80"`
}

// Entry represents a leaderboard entry
type Entry struct {
	Rank       int     `json:"rank"`
	PlayerID   uint    `json:"player_id"`
	PlayerName string  `json:"player"`
	Score      float64 `json:"score"`
}
