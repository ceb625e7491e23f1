package seed_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/gainline/gainline/internal/adapters/store"
	"github.com/gainline/gainline/internal/seed"
	"github.com/gainline/gainline/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

var memCounter int

func openTestStore(t *testing.T) store.Store {
	t.Helper()
	if err := logger.Init(); err != nil {
		t.Fatalf("initializing logger: %v", err)
	}
	memCounter++
	dsn := fmt.Sprintf("file:seedtest%d?mode=memory&cache=shared", memCounter)
	st, err := store.Open(context.Background(), dsn, store.WithJournalMode("MEMORY"))
	if err != nil {
		t.Fatalf("opening test store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestSeedRun(t *testing.T) {
	Convey("Given an empty database", t, func() {
		st := openTestStore(t)
		ctx := context.Background()

		Convey("When the demo dataset is seeded", func() {
			err := seed.Run(ctx, st, seed.DefaultOptions())
			So(err, ShouldBeNil)

			Convey("Then the catalog is populated", func() {
				defs, err := st.ListMetrics(ctx, false)
				So(err, ShouldBeNil)
				So(len(defs), ShouldEqual, 8)

				players, err := st.ListPlayers(ctx)
				So(err, ShouldBeNil)
				So(len(players), ShouldEqual, 7)

				teams, err := st.ListTeams(ctx)
				So(err, ShouldBeNil)
				So(len(teams), ShouldEqual, 1)

				roster, err := st.ListRoster(ctx, teams[0].ID)
				So(err, ShouldBeNil)
				So(len(roster), ShouldEqual, 7)
			})

			Convey("And every player has ledger rows", func() {
				count, err := st.CountEvents(ctx)
				So(err, ShouldBeNil)
				// At least one random event plus metres and minutes per player.
				So(count, ShouldBeGreaterThanOrEqualTo, 7*3)
			})

			Convey("And the match carries a video with bookmarks", func() {
				matches, err := st.ListMatches(ctx)
				So(err, ShouldBeNil)
				So(len(matches), ShouldEqual, 1)

				videos, err := st.ListVideos(ctx, matches[0].ID)
				So(err, ShouldBeNil)
				So(len(videos), ShouldEqual, 1)

				moments, err := st.ListMoments(ctx, matches[0].ID, videos[0].ID)
				So(err, ShouldBeNil)
				So(len(moments), ShouldEqual, 3)
			})

			Convey("And a second run reuses the metric catalog", func() {
				err := seed.Run(ctx, st, seed.DefaultOptions())
				So(err, ShouldBeNil)

				defs, err := st.ListMetrics(ctx, false)
				So(err, ShouldBeNil)
				So(len(defs), ShouldEqual, 8)
			})
		})
	})
}
