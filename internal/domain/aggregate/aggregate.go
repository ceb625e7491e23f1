// Package aggregate computes derived statistics from the event ledger and
// the catalog. All three views are recomputed fresh from a snapshot on every
// call: they are pure functions of ledger + catalog state, so computing them
// twice without intervening writes yields identical results.
package aggregate

import (
	"context"
	"sort"

	"github.com/gainline/gainline/internal/domain/model"
	"github.com/gainline/gainline/internal/domain/types"
)

// Default aggregation configuration constants.
const (
	defaultMinutesMetricKey = "minutes"
	defaultMatchMinutes     = 80
)

// Snapshot is the input to every aggregation: the full event log plus the
// catalog records it joins against. Events whose player or metric no longer
// resolves are skipped, so deleting a catalog row silently excludes its
// history from the views (the ledger rows themselves are untouched).
type Snapshot struct {
	Players []model.Player
	Metrics []model.Metric
	Events  []model.Event
}

// Engine computes totals, per-80 rates and the weighted leaderboard.
type Engine struct {
	minutesKey   string
	matchMinutes float64
}

// New creates an Engine with configuration options.
func New(opts ...Option) *Engine {
	e := &Engine{
		minutesKey:   defaultMinutesMetricKey,
		matchMinutes: defaultMatchMinutes,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type playerMetric struct {
	playerID uint
	metricID uint
}

// totals sums event values grouped by (player, metric), keeping only pairs
// whose player and metric both resolve in the snapshot catalog.
func (e *Engine) totals(snap Snapshot) map[playerMetric]float64 {
	players := indexPlayers(snap.Players)
	metrics := indexMetrics(snap.Metrics)

	out := make(map[playerMetric]float64)
	for _, ev := range snap.Events {
		if _, ok := players[ev.PlayerID]; !ok {
			continue
		}
		if _, ok := metrics[ev.MetricID]; !ok {
			continue
		}
		out[playerMetric{ev.PlayerID, ev.MetricID}] += ev.Value
	}
	return out
}

// Totals returns the sparse totals table: one row per (player, metric) pair
// with at least one event. Pairs with zero events are omitted, not
// zero-filled. Rows are ordered by player name, then metric group and label,
// so report layout is reproducible.
func (e *Engine) Totals(_ context.Context, snap Snapshot) []types.TotalRow {
	players := indexPlayers(snap.Players)
	metrics := indexMetrics(snap.Metrics)

	rows := make([]types.TotalRow, 0)
	for pm, total := range e.totals(snap) {
		p := players[pm.playerID]
		m := metrics[pm.metricID]
		rows = append(rows, types.TotalRow{
			PlayerID:    p.ID,
			PlayerName:  p.Name,
			MetricID:    m.ID,
			MetricKey:   m.Key,
			MetricLabel: m.Label,
			Total:       total,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].PlayerName != rows[j].PlayerName {
			return rows[i].PlayerName < rows[j].PlayerName
		}
		mi, mj := metrics[rows[i].MetricID], metrics[rows[j].MetricID]
		if mi.Group != mj.Group {
			return mi.Group < mj.Group
		}
		if mi.Label != mj.Label {
			return mi.Label < mj.Label
		}
		return rows[i].MetricID < rows[j].MetricID
	})
	return rows
}

// MinutesPlayed derives minutes per player. Players with logged events for
// the dedicated minutes metric use the summed value; everyone else falls
// back to (distinct matches with any event) x matchMinutes. The fallback is
// a documented heuristic, not a guarantee of accuracy.
func (e *Engine) MinutesPlayed(snap Snapshot) map[uint]float64 {
	var minutesMetricID uint
	haveMinutesMetric := false
	for _, m := range snap.Metrics {
		if m.Key == e.minutesKey {
			minutesMetricID = m.ID
			haveMinutesMetric = true
			break
		}
	}

	logged := make(map[uint]float64)           // playerID -> summed minutes
	matches := make(map[uint]map[uint]bool)    // playerID -> set of matchIDs
	for _, ev := range snap.Events {
		if haveMinutesMetric && ev.MetricID == minutesMetricID {
			logged[ev.PlayerID] += ev.Value
		}
		set, ok := matches[ev.PlayerID]
		if !ok {
			set = make(map[uint]bool)
			matches[ev.PlayerID] = set
		}
		set[ev.MatchID] = true
	}

	out := make(map[uint]float64, len(matches))
	for playerID, set := range matches {
		if mins, ok := logged[playerID]; ok {
			out[playerID] = mins
		} else {
			out[playerID] = float64(len(set)) * e.matchMinutes
		}
	}
	return out
}

// Per80 projects totals for per-80-eligible metrics to an 80-minute basis:
// rate = total / minutes * 80. Zero minutes yields a rate of 0 by policy,
// never an error or NaN.
func (e *Engine) Per80(_ context.Context, snap Snapshot) []types.RateRow {
	players := indexPlayers(snap.Players)
	metrics := indexMetrics(snap.Metrics)
	minutes := e.MinutesPlayed(snap)

	rows := make([]types.RateRow, 0)
	for pm, total := range e.totals(snap) {
		m := metrics[pm.metricID]
		if !m.IncludePer80 {
			continue
		}
		p := players[pm.playerID]
		mins := minutes[pm.playerID]
		rate := 0.0
		if mins > 0 {
			rate = total / mins * e.matchMinutes
		}
		rows = append(rows, types.RateRow{
			PlayerID:    p.ID,
			PlayerName:  p.Name,
			MetricID:    m.ID,
			MetricKey:   m.Key,
			MetricLabel: m.Label,
			Total:       total,
			Minutes:     mins,
			Per80:       rate,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].PlayerName != rows[j].PlayerName {
			return rows[i].PlayerName < rows[j].PlayerName
		}
		mi, mj := metrics[rows[i].MetricID], metrics[rows[j].MetricID]
		if mi.Group != mj.Group {
			return mi.Group < mj.Group
		}
		if mi.Label != mj.Label {
			return mi.Label < mj.Label
		}
		return rows[i].MetricID < rows[j].MetricID
	})
	return rows
}

// Leaderboard ranks players by the weighted sum of their totals over active
// metrics: score = sum(total x weight). Metrics with no weight contribute 0.
// Players are ordered by score descending; ties break by player name
// ascending, then id, so the ordering is deterministic. Equal scores share a
// standard competition rank (1, 1, 3). A limit of 0 or less returns the
// full board.
func (e *Engine) Leaderboard(_ context.Context, snap Snapshot, limit int) []types.Entry {
	players := indexPlayers(snap.Players)
	metrics := indexMetrics(snap.Metrics)

	scores := make(map[uint]float64)
	for pm, total := range e.totals(snap) {
		m := metrics[pm.metricID]
		if !m.Active {
			continue
		}
		scores[pm.playerID] += total * m.Weight
	}

	entries := make([]types.Entry, 0, len(scores))
	for playerID, score := range scores {
		p := players[playerID]
		entries = append(entries, types.Entry{
			PlayerID:   p.ID,
			PlayerName: p.Name,
			Score:      score,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		if entries[i].PlayerName != entries[j].PlayerName {
			return entries[i].PlayerName < entries[j].PlayerName
		}
		return entries[i].PlayerID < entries[j].PlayerID
	})
	for i := range entries {
		if i > 0 && entries[i].Score == entries[i-1].Score {
			entries[i].Rank = entries[i-1].Rank
			continue
		}
		entries[i].Rank = i + 1
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

func indexPlayers(players []model.Player) map[uint]model.Player {
	out := make(map[uint]model.Player, len(players))
	for _, p := range players {
		out[p.ID] = p
	}
	return out
}

func indexMetrics(metrics []model.Metric) map[uint]model.Metric {
	out := make(map[uint]model.Metric, len(metrics))
	for _, m := range metrics {
		out[m.ID] = m
	}
	return out
}
