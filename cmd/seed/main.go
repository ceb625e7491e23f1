// Command seed fills a database with a demonstration squad and a tagged
// match. It writes through the store directly, so it needs filesystem
// access to the database rather than a running server.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/gainline/gainline/internal/adapters/store"
	"github.com/gainline/gainline/internal/seed"
	"github.com/gainline/gainline/pkg/logger"
)

const runTimeout = 2 * time.Minute

func main() {
	defaults := seed.DefaultOptions()
	var (
		dbPath   = flag.String("db", "gainline.db", "SQLite database file to seed")
		opponent = flag.String("opponent", defaults.Opponent, "Opponent name for the demo match")
		date     = flag.String("date", defaults.Date, "Match date (YYYY-MM-DD)")
		events   = flag.Int("events", defaults.EventsPerPlayer, "Upper bound of tagged events per player")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	st, err := store.Open(ctx, *dbPath)
	if err != nil {
		logger.Get().Error(ctx, "opening database", logger.String("db", *dbPath), logger.Error(err))
		os.Exit(1)
	}
	defer func() { _ = st.Close() }()

	opts := seed.Options{
		Opponent:        *opponent,
		Date:            *date,
		EventsPerPlayer: *events,
	}
	if err := seed.Run(ctx, st, opts); err != nil {
		logger.Get().Error(ctx, "seeding failed", logger.Error(err))
		os.Exit(1)
	}
}
