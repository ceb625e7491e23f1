// Package seed populates a database with a demonstration squad, metric
// catalog and a randomly tagged match, so reports and the recent feed
// have something to show on a fresh install.
package seed

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/gainline/gainline/internal/adapters/store"
	"github.com/gainline/gainline/internal/domain/model"
	"github.com/gainline/gainline/pkg/logger"
)

const randomDivisor = 1_000_000

// randomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func randomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomDivisor))
	return float64(n.Int64()) / float64(randomDivisor)
}

func randomInt(max int) int {
	return int(randomFloat() * float64(max))
}

// Options configures a seeding run.
type Options struct {
	// Opponent and Date describe the demo match.
	Opponent string
	Date     string
	// EventsPerPlayer bounds how many ledger rows each player receives.
	EventsPerPlayer int
}

// DefaultOptions returns the options a bare `seed` run uses.
func DefaultOptions() Options {
	return Options{
		Opponent:        "Harlequins",
		Date:            "2026-01-17",
		EventsPerPlayer: 12,
	}
}

var players = []model.Player{
	{Name: "Tom Ellison", Position: "Hooker", Active: true},
	{Name: "Joe Warbrick", Position: "Prop", Active: true},
	{Name: "Dave Gallaher", Position: "Flanker", Active: true},
	{Name: "Billy Stead", Position: "Fly-half", Active: true},
	{Name: "Jimmy Hunter", Position: "Centre", Active: true},
	{Name: "George Smith", Position: "Wing", Active: true},
	{Name: "Billy Wallace", Position: "Fullback", Active: true},
}

var metricDefs = []model.Metric{
	{Key: "tackle", Label: "Tackle", Group: model.GroupDefense, Kind: model.KindCount, IncludePer80: true, Weight: 1, Active: true},
	{Key: "missed_tackle", Label: "Missed Tackle", Group: model.GroupDefense, Kind: model.KindCount, IncludePer80: true, Weight: -1, Active: true},
	{Key: "carry", Label: "Carry", Group: model.GroupAttack, Kind: model.KindCount, IncludePer80: true, Weight: 1, Active: true},
	{Key: "metres", Label: "Metres Made", Group: model.GroupAttack, Kind: model.KindValue, IncludePer80: true, Weight: 0.1, Active: true},
	{Key: "try", Label: "Try", Group: model.GroupScoring, Kind: model.KindCount, IncludePer80: true, Weight: 5, Active: true},
	{Key: "lineout_win", Label: "Lineout Win", Group: model.GroupSetPiece, Kind: model.KindCount, IncludePer80: true, Weight: 1, Active: true},
	{Key: "penalty_conceded", Label: "Penalty Conceded", Group: model.GroupDiscipline, Kind: model.KindCount, IncludePer80: true, Weight: -2, Active: true},
	{Key: "minutes", Label: "Minutes Played", Group: model.GroupOther, Kind: model.KindValue, IncludePer80: false, Weight: 0, Active: true},
}

// Run seeds a demo dataset through st. It is idempotent on the metric
// catalog (existing keys are skipped) but always appends a fresh match
// with its ledger rows.
func Run(ctx context.Context, st store.Store, opts Options) error {
	log := logger.Get()

	existing, err := st.ListMetrics(ctx, false)
	if err != nil {
		return fmt.Errorf("listing metrics: %w", err)
	}
	known := make(map[string]uint, len(existing))
	for _, m := range existing {
		known[m.Key] = m.ID
	}

	metricIDs := make(map[string]uint, len(metricDefs))
	for _, def := range metricDefs {
		if id, ok := known[def.Key]; ok {
			metricIDs[def.Key] = id
			continue
		}
		m := def
		if err := st.CreateMetric(ctx, &m); err != nil {
			return fmt.Errorf("creating metric %q: %w", def.Key, err)
		}
		metricIDs[def.Key] = m.ID
	}

	team := model.Team{Name: "First XV"}
	if err := st.CreateTeam(ctx, &team); err != nil {
		// An existing squad is fine; reuse it.
		teams, listErr := st.ListTeams(ctx)
		if listErr != nil || len(teams) == 0 {
			return fmt.Errorf("creating team: %w", err)
		}
		team = teams[0]
	}

	playerIDs := make([]uint, 0, len(players))
	for _, seed := range players {
		p := seed
		if err := st.CreatePlayer(ctx, &p); err != nil {
			return fmt.Errorf("creating player %q: %w", seed.Name, err)
		}
		if err := st.AddToRoster(ctx, team.ID, p.ID); err != nil {
			return fmt.Errorf("rostering player %q: %w", seed.Name, err)
		}
		playerIDs = append(playerIDs, p.ID)
	}

	match, err := st.FindOrCreateMatch(ctx, opts.Opponent, opts.Date)
	if err != nil {
		return fmt.Errorf("creating match: %w", err)
	}

	video := model.Video{MatchID: match.ID, Kind: "url", URL: "https://example.com/footage/main", Label: "Main angle"}
	if err := st.AddVideo(ctx, &video); err != nil {
		return fmt.Errorf("adding video: %w", err)
	}

	countKeys := []string{"tackle", "missed_tackle", "carry", "try", "lineout_win", "penalty_conceded"}
	logged := 0
	for _, playerID := range playerIDs {
		n := 1 + randomInt(opts.EventsPerPlayer)
		for i := 0; i < n; i++ {
			key := countKeys[randomInt(len(countKeys))]
			if _, err := st.LogEvent(ctx, match.ID, playerID, metricIDs[key], 0); err != nil {
				return fmt.Errorf("logging %q: %w", key, err)
			}
			logged++
		}
		// A metres total and a minutes entry per player.
		if _, err := st.LogEvent(ctx, match.ID, playerID, metricIDs["metres"], 10+randomFloat()*90); err != nil {
			return fmt.Errorf("logging metres: %w", err)
		}
		if _, err := st.LogEvent(ctx, match.ID, playerID, metricIDs["minutes"], 40+randomFloat()*40); err != nil {
			return fmt.Errorf("logging minutes: %w", err)
		}
		logged += 2
	}

	for _, ts := range []float64{95, 610, 2400} {
		m := model.Moment{MatchID: match.ID, VideoID: video.ID, VideoTS: ts, Note: "review"}
		if err := st.AddMoment(ctx, &m); err != nil {
			return fmt.Errorf("adding moment: %w", err)
		}
	}

	log.Info(ctx, "seeded demo dataset",
		logger.Int("players", len(playerIDs)),
		logger.Int("metrics", len(metricIDs)),
		logger.Int("events", logged),
		logger.Uint("match_id", match.ID))
	return nil
}
