package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/Garsondee/Memory-Duel/internal/config"
	"github.com/Garsondee/Memory-Duel/internal/identity"
	"github.com/Garsondee/Memory-Duel/internal/loop"
	"github.com/Garsondee/Memory-Duel/internal/referee"
	"github.com/Garsondee/Memory-Duel/internal/scene"
)

type seatStats struct {
	name      string
	score     int
	verdict   string
	ticks     int
	picks     int
	panics    int
	reveals   int
	ignored   int
	scenes    int
	sceneSeen string
}

type runStats struct {
	runIndex int
	seed     int64
	elapsed  time.Duration
	seats    [2]seatStats
	err      error
}

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var pace time.Duration
	var verbose bool

	flag.IntVar(&runs, "runs", 3, "number of headless matches")
	flag.IntVar(&ticks, "ticks", 20000, "tick budget per client per match")
	flag.Int64Var(&seedBase, "seed", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.DurationVar(&pace, "pace", 500*time.Microsecond, "real time slept between frames")
	flag.BoolVar(&verbose, "v", false, "log client and referee activity")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}

	fmt.Printf("=== Headless Match Report ===\n")
	fmt.Printf("runs=%d ticks=%d seed_base=%d seed_step=%d pace=%s\n\n", runs, ticks, seedBase, seedStep, pace)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		rs := runMatch(i+1, seed, ticks, pace)
		all = append(all, rs)
		printRun(rs)
	}
	printAggregate(all)
}

// runMatch starts a referee on a loopback port and plays two bots against
// it until both reach the end scene.
func runMatch(runIndex int, seed int64, ticks int, pace time.Duration) (rs runStats) {
	rs = runStats{runIndex: runIndex, seed: seed}
	start := time.Now()
	defer func() { rs.elapsed = time.Since(start) }()

	cfg := config.Default()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		rs.err = fmt.Errorf("listen: %w", err)
		return rs
	}
	addr := ln.Addr().String()

	iss, err := identity.NewIssuer("headless-match", cfg.Identity.Issuer, cfg.Identity.TTL, nil)
	if err != nil {
		rs.err = err
		return rs
	}
	srv, err := referee.NewServer(referee.Options{
		PublicURL:      "http://" + addr,
		Back:           cfg.Referee.Back,
		Faces:          cfg.Referee.Faces,
		Cards:          cfg.Board.Count(),
		AllowedOrigins: []string{"*"},
		Connection:     referee.DefaultConnectionConfig(),
		Seed:           seed,
	}, iss)
	if err != nil {
		rs.err = err
		ln.Close()
		return rs
	}
	hs := &http.Server{Handler: srv.Handler()}
	go func() {
		if err := hs.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("referee stopped")
		}
	}()
	defer func() {
		srv.Close()
		hs.Close()
	}()

	bots := [2]*bot{}
	for i, name := range []string{"alpha", "beta"} {
		settings := scene.DefaultSettings()
		settings.Endpoint = fmt.Sprintf("ws://%s/ws?playerSessionId=%s-%d", addr, name, runIndex)
		settings.Layout = cfg.Board
		h := loop.NewHeadless(
			loop.WithSeed(seed+int64(i)),
			loop.WithSettings(settings),
			loop.WithIdentity(identity.NewHTTPProvider("http://"+addr, cfg.Identity.Timeout)),
		)
		defer h.Close()
		bots[i] = newBot(name, h)
	}

	g, ctx := errgroup.WithContext(context.Background())
	for _, b := range bots {
		b := b
		g.Go(func() error { return b.play(ctx, ticks, pace) })
	}
	rs.err = g.Wait()

	for i, b := range bots {
		rs.seats[i] = seatReport(b)
	}
	return rs
}

func seatReport(b *bot) seatStats {
	s := b.h.Session
	j := b.h.Journal
	return seatStats{
		name:      b.name,
		score:     s.MyScore,
		verdict:   scene.Verdict(s),
		ticks:     b.h.CurrentTick(),
		picks:     b.picks,
		panics:    b.panics,
		reveals:   j.CountCategory("inbound", "challenging") + j.CountCategory("inbound", "Success") + j.CountCategory("inbound", "Failed"),
		ignored:   j.CountCategory("inbound", "ignored"),
		scenes:    j.CountCategory("scene", "activate"),
		sceneSeen: s.Scene.String(),
	}
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	for _, st := range rs.seats {
		fmt.Printf("%-6s score=%d verdict=%s scene=%s ticks=%d picks=%d reveals=%d ignored=%d scene_changes=%d panics=%d\n",
			st.name, st.score, st.verdict, st.sceneSeen, st.ticks, st.picks, st.reveals, st.ignored, st.scenes, st.panics)
	}
	if rs.err != nil {
		fmt.Printf("error: %v\n", rs.err)
	}
	fmt.Printf("elapsed=%s\n\n", rs.elapsed.Round(time.Millisecond))
}

func printAggregate(all []runStats) {
	finished := 0
	wins := map[string]int{}
	totalTicks := 0
	totalPicks := 0
	for _, rs := range all {
		if rs.err == nil {
			finished++
		}
		for _, st := range rs.seats {
			totalTicks += st.ticks
			totalPicks += st.picks
		}
		if w := winner(rs); w != "" {
			wins[w]++
		}
	}

	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d finished=%d\n", len(all), finished)
	fmt.Printf("wins: alpha=%d beta=%d draw=%d\n", wins["alpha"], wins["beta"], wins["draw"])
	fmt.Printf("avg_per_client: ticks=%.1f picks=%.1f\n", avg(totalTicks, 2*len(all)), avg(totalPicks, 2*len(all)))
}

// winner names the seat with the higher score, "draw" on a tie, or "" for
// an unfinished run.
func winner(rs runStats) string {
	if rs.err != nil {
		return ""
	}
	a, b := rs.seats[0], rs.seats[1]
	switch {
	case a.score > b.score:
		return a.name
	case b.score > a.score:
		return b.name
	default:
		return "draw"
	}
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}
