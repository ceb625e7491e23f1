// Package model contains domain models passed between layers.
package model

import "time"

// MetricGroup is the fixed set of catalog groupings used for report layout.
type MetricGroup string

const (
	GroupAttack     MetricGroup = "Attack"
	GroupDefense    MetricGroup = "Defense"
	GroupSetPiece   MetricGroup = "Set Piece/Kicking"
	GroupDiscipline MetricGroup = "Discipline"
	GroupScoring    MetricGroup = "Scoring"
	GroupOther      MetricGroup = "Other"
)

// Valid reports whether g is one of the known groups.
func (g MetricGroup) Valid() bool {
	switch g {
	case GroupAttack, GroupDefense, GroupSetPiece, GroupDiscipline, GroupScoring, GroupOther:
		return true
	}
	return false
}

// MetricKind distinguishes count metrics (one unit per event) from value
// metrics (events carry an explicit numeric value, e.g. metres gained).
type MetricKind string

const (
	KindCount MetricKind = "count"
	KindValue MetricKind = "value"
)

// Player is a squad member events are tagged against.
type Player struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"not null" json:"name"`
	Position string `json:"position"`
	Active   bool   `gorm:"not null;default:true" json:"active"`
}

// Metric is a catalog definition of a taggable action. Key is the stable
// identifier and never changes once the metric exists; Label is free to be
// renamed. Weight feeds the leaderboard only.
type Metric struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	Key           string      `gorm:"uniqueIndex;not null" json:"key"`
	Label         string      `gorm:"not null" json:"label"`
	Group         MetricGroup `gorm:"column:group_name;not null" json:"group"`
	Kind          MetricKind  `gorm:"not null;default:count" json:"kind"`
	IncludePer80  bool        `gorm:"not null;default:true" json:"include_per80"`
	Weight        float64     `json:"weight"`
	Active        bool        `gorm:"not null;default:true" json:"active"`
}

// Match is a single fixture events and videos hang off.
type Match struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Opponent string `gorm:"not null" json:"opponent"`
	Date     string `gorm:"not null" json:"date"` // YYYY-MM-DD
	TeamID   *uint  `json:"team_id,omitempty"`
}

// Team is an optional squad grouping with a roster of players.
type Team struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

// RosterEntry links a player into a team roster.
type RosterEntry struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	TeamID   uint `gorm:"index;not null" json:"team_id"`
	PlayerID uint `gorm:"index;not null" json:"player_id"`
}

// Event is one row of the append-only ledger: a player performing a tagged
// action in a match. Immutable once written; corrections are compensating
// inserts or an explicit admin delete.
type Event struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	MatchID  uint      `gorm:"index;not null" json:"match_id"`
	PlayerID uint      `gorm:"index;not null" json:"player_id"`
	MetricID uint      `gorm:"index;not null" json:"metric_id"`
	Value    float64   `gorm:"not null;default:1" json:"value"`
	TS       time.Time `gorm:"autoCreateTime" json:"ts"`
}

// Video is a reviewable recording attached to a match. Offset aligns the
// real match clock with the player clock.
type Video struct {
	ID      uint    `gorm:"primaryKey" json:"id"`
	MatchID uint    `gorm:"index;not null" json:"match_id"`
	Kind    string  `gorm:"not null;default:youtube" json:"kind"`
	URL     string  `gorm:"not null" json:"url"`
	Label   string  `gorm:"not null" json:"label"`
	Offset  float64 `json:"offset"`
}

// Moment is a timestamped note against a video, used only for review
// navigation. It shares the match key with Event but is otherwise unrelated
// to the statistical model.
type Moment struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	MatchID uint      `gorm:"index;not null" json:"match_id"`
	VideoID uint      `gorm:"index;not null" json:"video_id"`
	VideoTS float64   `gorm:"column:video_ts;not null" json:"video_ts"`
	Note    string    `json:"note"`
	TS      time.Time `gorm:"autoCreateTime" json:"ts"`
}

// RecentEvent is an Event joined with display names for live-tagging views.
type RecentEvent struct {
	ID          uint      `json:"id"`
	PlayerName  string    `json:"player"`
	MetricLabel string    `json:"metric"`
	Value       float64   `json:"value"`
	TS          time.Time `json:"ts"`
}
