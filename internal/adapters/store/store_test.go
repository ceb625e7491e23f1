package store_test

import (
	"context"
	"fmt"
	"testing"

	store "github.com/gainline/gainline/internal/adapters/store"
	"github.com/gainline/gainline/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

var memCounter int

// openTestStore opens a fresh in-memory database per test. The shared-cache
// URI keeps every pooled connection on the same database.
func openTestStore(t *testing.T) store.Store {
	t.Helper()
	memCounter++
	dsn := fmt.Sprintf("file:storetest%d?mode=memory&cache=shared", memCounter)
	s, err := store.Open(context.Background(), dsn, store.WithJournalMode("MEMORY"))
	if err != nil {
		t.Fatalf("opening test store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedCatalog(t *testing.T, s store.Store) (model.Player, model.Metric, model.Match) {
	t.Helper()
	ctx := context.Background()
	p := model.Player{Name: "P1", Position: "flanker"}
	if err := s.CreatePlayer(ctx, &p); err != nil {
		t.Fatalf("seeding player: %v", err)
	}
	m := model.Metric{Key: "tackle", Label: "Tackle", Group: model.GroupDefense, Weight: 1.0, IncludePer80: true}
	if err := s.CreateMetric(ctx, &m); err != nil {
		t.Fatalf("seeding metric: %v", err)
	}
	match := model.Match{Opponent: "Harlequins", Date: "2026-03-14"}
	if err := s.CreateMatch(ctx, &match); err != nil {
		t.Fatalf("seeding match: %v", err)
	}
	return p, m, match
}

func TestMetricCatalog(t *testing.T) {
	Convey("Given an open store", t, func() {
		s := openTestStore(t)
		ctx := context.Background()

		Convey("When creating a metric", func() {
			m := model.Metric{Key: "tackle", Label: "Tackle", Group: model.GroupDefense, Weight: 1.0}
			err := s.CreateMetric(ctx, &m)

			Convey("Then it gets an id and defaults", func() {
				So(err, ShouldBeNil)
				So(m.ID, ShouldBeGreaterThan, 0)
				So(m.Kind, ShouldEqual, model.KindCount)
				So(m.Active, ShouldBeTrue)
			})

			Convey("And creating the same key again fails with DuplicateKey leaving the table unchanged", func() {
				before, err := s.ListMetrics(ctx, false)
				So(err, ShouldBeNil)

				dup := model.Metric{Key: "tackle", Label: "Tackle Again", Group: model.GroupDefense}
				err = s.CreateMetric(ctx, &dup)
				So(err, ShouldWrap, store.ErrDuplicateKey)

				after, err := s.ListMetrics(ctx, false)
				So(err, ShouldBeNil)
				So(len(after), ShouldEqual, len(before))
			})

			Convey("And updating it never changes the key", func() {
				updated := m
				updated.Key = "smashed"
				updated.Label = "Dominant Tackle"
				updated.Weight = 2.0
				So(s.UpdateMetric(ctx, &updated), ShouldBeNil)
				So(updated.Key, ShouldEqual, "tackle")
				So(updated.Label, ShouldEqual, "Dominant Tackle")
				So(updated.Weight, ShouldEqual, 2.0)
			})

			Convey("And updating with an empty kind keeps the stored kind", func() {
				v := model.Metric{Key: "metres", Label: "Metres Made", Group: model.GroupAttack, Kind: model.KindValue}
				So(s.CreateMetric(ctx, &v), ShouldBeNil)

				updated := v
				updated.Kind = ""
				updated.Weight = 0.2
				So(s.UpdateMetric(ctx, &updated), ShouldBeNil)

				got, err := s.GetMetric(ctx, v.ID)
				So(err, ShouldBeNil)
				So(got.Kind, ShouldEqual, model.KindValue)
				So(got.Weight, ShouldEqual, 0.2)
			})

			Convey("And updating with an unknown kind is rejected", func() {
				updated := m
				updated.Kind = "ratio"
				So(s.UpdateMetric(ctx, &updated), ShouldWrap, store.ErrValidation)
			})

			Convey("And deactivating hides it from the active listing without deleting", func() {
				So(s.SetMetricActive(ctx, m.ID, false), ShouldBeNil)
				active, err := s.ListMetrics(ctx, true)
				So(err, ShouldBeNil)
				So(active, ShouldBeEmpty)
				all, err := s.ListMetrics(ctx, false)
				So(err, ShouldBeNil)
				So(all, ShouldHaveLength, 1)
			})
		})

		Convey("When creating a metric with no key", func() {
			err := s.CreateMetric(ctx, &model.Metric{Label: "X", Group: model.GroupOther})

			Convey("Then it fails validation before any write", func() {
				So(err, ShouldWrap, store.ErrValidation)
			})
		})

		Convey("When listing metrics", func() {
			for _, m := range []model.Metric{
				{Key: "try", Label: "Try", Group: model.GroupScoring},
				{Key: "tackle", Label: "Tackle", Group: model.GroupDefense},
				{Key: "carry", Label: "Carry", Group: model.GroupAttack},
				{Key: "pass", Label: "Pass", Group: model.GroupAttack},
			} {
				metric := m
				So(s.CreateMetric(ctx, &metric), ShouldBeNil)
			}

			Convey("Then ordering is group then label", func() {
				metrics, err := s.ListMetrics(ctx, false)
				So(err, ShouldBeNil)
				So(metrics, ShouldHaveLength, 4)
				So(metrics[0].Label, ShouldEqual, "Carry")
				So(metrics[1].Label, ShouldEqual, "Pass")
				So(metrics[2].Label, ShouldEqual, "Tackle")
				So(metrics[3].Label, ShouldEqual, "Try")
			})
		})
	})
}

func TestPlayerUpdates(t *testing.T) {
	Convey("Given a deactivated player", t, func() {
		s := openTestStore(t)
		ctx := context.Background()

		p := model.Player{Name: "Joe Warbrick", Position: "Prop"}
		So(s.CreatePlayer(ctx, &p), ShouldBeNil)
		So(s.SetPlayerActive(ctx, p.ID, false), ShouldBeNil)

		Convey("When renaming them", func() {
			updated := model.Player{ID: p.ID, Name: "Joseph Warbrick", Position: "Hooker"}
			So(s.UpdatePlayer(ctx, &updated), ShouldBeNil)

			Convey("Then name and position change but they stay inactive", func() {
				got, err := s.GetPlayer(ctx, p.ID)
				So(err, ShouldBeNil)
				So(got.Name, ShouldEqual, "Joseph Warbrick")
				So(got.Position, ShouldEqual, "Hooker")
				So(got.Active, ShouldBeFalse)
			})
		})
	})
}

func TestEventLedger(t *testing.T) {
	Convey("Given a seeded catalog", t, func() {
		s := openTestStore(t)
		ctx := context.Background()
		p, m, match := seedCatalog(t, s)

		Convey("When logging events", func() {
			before, err := s.CountEvents(ctx)
			So(err, ShouldBeNil)

			ev, err := s.LogEvent(ctx, match.ID, p.ID, m.ID, 0)
			So(err, ShouldBeNil)

			Convey("Then the row count grows by exactly one and value defaults to 1", func() {
				after, err := s.CountEvents(ctx)
				So(err, ShouldBeNil)
				So(after, ShouldEqual, before+1)
				So(ev.ID, ShouldBeGreaterThan, 0)
				So(ev.Value, ShouldEqual, 1)
			})

			Convey("And the same triple may be logged arbitrarily many times", func() {
				_, err := s.LogEvent(ctx, match.ID, p.ID, m.ID, 0)
				So(err, ShouldBeNil)
				_, err = s.LogEvent(ctx, match.ID, p.ID, m.ID, 0)
				So(err, ShouldBeNil)
				count, err := s.CountEvents(ctx)
				So(err, ShouldBeNil)
				So(count, ShouldEqual, before+3)
			})
		})

		Convey("When logging against a missing foreign key", func() {
			_, err := s.LogEvent(ctx, match.ID, p.ID, 9999, 0)

			Convey("Then it fails with a reference error and writes nothing", func() {
				So(err, ShouldWrap, store.ErrReference)
				count, countErr := s.CountEvents(ctx)
				So(countErr, ShouldBeNil)
				So(count, ShouldEqual, 0)
			})
		})

		Convey("When listing recent events", func() {
			for i := 0; i < 3; i++ {
				_, err := s.LogEvent(ctx, match.ID, p.ID, m.ID, 0)
				So(err, ShouldBeNil)
			}

			recent, err := s.ListRecent(ctx, match.ID, 2)

			Convey("Then they come newest first joined with display names", func() {
				So(err, ShouldBeNil)
				So(recent, ShouldHaveLength, 2)
				So(recent[0].ID, ShouldBeGreaterThan, recent[1].ID)
				So(recent[0].PlayerName, ShouldEqual, "P1")
				So(recent[0].MetricLabel, ShouldEqual, "Tackle")
			})
		})

		Convey("When deleting an event", func() {
			ev, err := s.LogEvent(ctx, match.ID, p.ID, m.ID, 0)
			So(err, ShouldBeNil)

			So(s.DeleteEvent(ctx, ev.ID), ShouldBeNil)

			Convey("Then it is gone and deleting again reports not found", func() {
				count, err := s.CountEvents(ctx)
				So(err, ShouldBeNil)
				So(count, ShouldEqual, 0)
				So(s.DeleteEvent(ctx, ev.ID), ShouldWrap, store.ErrNotFound)
			})
		})

		Convey("When taking a snapshot", func() {
			_, err := s.LogEvent(ctx, match.ID, p.ID, m.ID, 0)
			So(err, ShouldBeNil)

			snap, err := s.Snapshot(ctx)

			Convey("Then it carries the catalog and the full ledger", func() {
				So(err, ShouldBeNil)
				So(snap.Players, ShouldHaveLength, 1)
				So(snap.Metrics, ShouldHaveLength, 1)
				So(snap.Events, ShouldHaveLength, 1)
			})
		})
	})
}

func TestCascadingDeletes(t *testing.T) {
	Convey("Given a seeded catalog with events, videos and moments", t, func() {
		s := openTestStore(t)
		ctx := context.Background()
		p, m, match := seedCatalog(t, s)

		_, err := s.LogEvent(ctx, match.ID, p.ID, m.ID, 0)
		So(err, ShouldBeNil)
		video := model.Video{MatchID: match.ID, URL: "https://example.com/v", Label: "first half"}
		So(s.AddVideo(ctx, &video), ShouldBeNil)
		moment := model.Moment{MatchID: match.ID, VideoID: video.ID, VideoTS: 12.5, Note: "big hit"}
		So(s.AddMoment(ctx, &moment), ShouldBeNil)

		Convey("When hard-deleting the player", func() {
			So(s.DeletePlayer(ctx, p.ID), ShouldBeNil)

			Convey("Then their events are gone too", func() {
				count, err := s.CountEvents(ctx)
				So(err, ShouldBeNil)
				So(count, ShouldEqual, 0)
			})
		})

		Convey("When deleting the match", func() {
			So(s.DeleteMatch(ctx, match.ID), ShouldBeNil)

			Convey("Then events, videos and moments all cascade", func() {
				count, err := s.CountEvents(ctx)
				So(err, ShouldBeNil)
				So(count, ShouldEqual, 0)
				videos, err := s.ListVideos(ctx, match.ID)
				So(err, ShouldBeNil)
				So(videos, ShouldBeEmpty)
				moments, err := s.ListMoments(ctx, match.ID, video.ID)
				So(err, ShouldBeNil)
				So(moments, ShouldBeEmpty)
			})
		})

		Convey("When deleting the metric", func() {
			So(s.DeleteMetric(ctx, m.ID), ShouldBeNil)

			Convey("Then historical events survive as orphans", func() {
				count, err := s.CountEvents(ctx)
				So(err, ShouldBeNil)
				So(count, ShouldEqual, 1)
			})
		})
	})
}

func TestMatchesAndTeams(t *testing.T) {
	Convey("Given an open store", t, func() {
		s := openTestStore(t)
		ctx := context.Background()

		Convey("When finding-or-creating the same (opponent, date) twice", func() {
			first, err := s.FindOrCreateMatch(ctx, "Saracens", "2026-04-01")
			So(err, ShouldBeNil)
			second, err := s.FindOrCreateMatch(ctx, "Saracens", "2026-04-01")
			So(err, ShouldBeNil)

			Convey("Then the match is reused", func() {
				So(second.ID, ShouldEqual, first.ID)
			})

			Convey("But plain creation never deduplicates", func() {
				dup := model.Match{Opponent: "Saracens", Date: "2026-04-01"}
				So(s.CreateMatch(ctx, &dup), ShouldBeNil)
				So(dup.ID, ShouldNotEqual, first.ID)
			})
		})

		Convey("When listing matches", func() {
			_, err := s.FindOrCreateMatch(ctx, "Bath", "2026-01-10")
			So(err, ShouldBeNil)
			_, err = s.FindOrCreateMatch(ctx, "Exeter", "2026-02-20")
			So(err, ShouldBeNil)

			matches, err := s.ListMatches(ctx)

			Convey("Then newest dates come first", func() {
				So(err, ShouldBeNil)
				So(matches, ShouldHaveLength, 2)
				So(matches[0].Opponent, ShouldEqual, "Exeter")
			})
		})

		Convey("When managing teams and rosters", func() {
			team := model.Team{Name: "First XV"}
			So(s.CreateTeam(ctx, &team), ShouldBeNil)

			Convey("Then a duplicate team name is rejected", func() {
				So(s.CreateTeam(ctx, &model.Team{Name: "First XV"}), ShouldWrap, store.ErrDuplicateKey)
			})

			Convey("And roster rows follow the player", func() {
				p := model.Player{Name: "P1"}
				So(s.CreatePlayer(ctx, &p), ShouldBeNil)
				So(s.AddToRoster(ctx, team.ID, p.ID), ShouldBeNil)
				So(s.AddToRoster(ctx, team.ID, p.ID), ShouldBeNil) // idempotent

				roster, err := s.ListRoster(ctx, team.ID)
				So(err, ShouldBeNil)
				So(roster, ShouldHaveLength, 1)

				So(s.DeletePlayer(ctx, p.ID), ShouldBeNil)
				roster, err = s.ListRoster(ctx, team.ID)
				So(err, ShouldBeNil)
				So(roster, ShouldBeEmpty)
			})
		})
	})
}

func TestMoments(t *testing.T) {
	Convey("Given a match with a video", t, func() {
		s := openTestStore(t)
		ctx := context.Background()
		_, _, match := seedCatalog(t, s)
		video := model.Video{MatchID: match.ID, URL: "https://example.com/v", Label: "full match"}
		So(s.AddVideo(ctx, &video), ShouldBeNil)

		Convey("When adding moments out of order", func() {
			for _, ts := range []float64{90, 12.5, 45} {
				m := model.Moment{MatchID: match.ID, VideoID: video.ID, VideoTS: ts}
				So(s.AddMoment(ctx, &m), ShouldBeNil)
			}

			Convey("Then listing orders by video timestamp ascending", func() {
				moments, err := s.ListMoments(ctx, match.ID, video.ID)
				So(err, ShouldBeNil)
				So(moments, ShouldHaveLength, 3)
				So(moments[0].VideoTS, ShouldEqual, 12.5)
				So(moments[1].VideoTS, ShouldEqual, 45)
				So(moments[2].VideoTS, ShouldEqual, 90)
			})
		})

		Convey("When adding a moment against a missing video", func() {
			err := s.AddMoment(ctx, &model.Moment{MatchID: match.ID, VideoID: 9999, VideoTS: 1})

			Convey("Then it fails with a reference error", func() {
				So(err, ShouldWrap, store.ErrReference)
			})
		})

		Convey("When updating and deleting a note", func() {
			m := model.Moment{MatchID: match.ID, VideoID: video.ID, VideoTS: 30, Note: "scrum"}
			So(s.AddMoment(ctx, &m), ShouldBeNil)

			So(s.UpdateMomentNote(ctx, m.ID, "scrum penalty"), ShouldBeNil)
			moments, err := s.ListMoments(ctx, match.ID, video.ID)
			So(err, ShouldBeNil)
			So(moments[0].Note, ShouldEqual, "scrum penalty")

			So(s.DeleteMoment(ctx, m.ID), ShouldBeNil)
			So(s.DeleteMoment(ctx, m.ID), ShouldWrap, store.ErrNotFound)
		})
	})
}
