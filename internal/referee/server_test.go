package referee

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Garsondee/Memory-Duel/internal/identity"
	"github.com/Garsondee/Memory-Duel/internal/protocol"
)

type player struct {
	client *protocol.Client
	msgs   chan []byte
	errs   chan error
}

func (p *player) HandleMessage(raw []byte) { p.msgs <- raw }
func (p *player) HandleError(err error)    { p.errs <- err }

func newPlayer(url string) *player {
	p := &player{msgs: make(chan []byte, 32), errs: make(chan error, 4)}
	p.client = protocol.NewClient(protocol.DefaultClientConfig(), p)
	p.client.Open(url)
	return p
}

func (p *player) next(t *testing.T, phase protocol.Phase) protocol.Message {
	t.Helper()
	select {
	case raw := <-p.msgs:
		m, err := protocol.Decode(phase, raw)
		if err != nil {
			t.Fatalf("decode %s: %v", raw, err)
		}
		return m
	case err := <-p.errs:
		t.Fatalf("transport error: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for a message")
	}
	return nil
}

func (p *player) reveal(t *testing.T) *protocol.Reveal {
	t.Helper()
	return p.next(t, protocol.PhasePlay).(*protocol.Reveal)
}

func (p *player) pick(t *testing.T, card int) {
	t.Helper()
	raw, _ := protocol.EncodeSelection(card)
	if err := p.client.Send(raw); err != nil {
		t.Fatalf("send: %v", err)
	}
}

func testOptions() Options {
	return Options{
		PublicURL:      "http://referee.test",
		Back:           "card_rear.jpeg",
		Faces:          []string{"a.jpeg", "b.jpeg", "c.jpeg", "d.jpeg", "e.jpeg", "f.jpeg", "g.jpeg", "h.jpeg"},
		Cards:          16,
		AllowedOrigins: []string{"*"},
		Seed:           3,
	}
}

func newTestServer(t *testing.T, opts Options) (*Server, *httptest.Server) {
	t.Helper()
	iss, err := identity.NewIssuer("test-secret", "memory-duel", time.Hour, nil)
	if err != nil {
		t.Fatalf("issuer: %v", err)
	}
	srv, err := NewServer(opts, iss)
	if err != nil {
		t.Fatalf("server: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		srv.Close()
		ts.Close()
	})
	return srv, ts
}

func wsURL(ts *httptest.Server, session string) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?playerSessionId=" + session
}

func waitStats(t *testing.T, srv *Server, cond func(Stats) bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond(srv.Stats()) {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("lobby never reached the expected state: %+v", srv.Stats())
}

// pair connects two players, the first one seated first.
func pair(t *testing.T, srv *Server, ts *httptest.Server) (*player, *player) {
	t.Helper()
	a := newPlayer(wsURL(ts, "a"))
	t.Cleanup(func() { a.client.Close() })
	waitStats(t, srv, func(s Stats) bool { return s.Waiting == 1 })
	b := newPlayer(wsURL(ts, "b"))
	t.Cleanup(func() { b.client.Close() })
	return a, b
}

func TestServer_PairsAndStarts(t *testing.T) {
	srv, ts := newTestServer(t, testOptions())
	a, b := pair(t, srv, ts)

	sa := a.next(t, protocol.PhaseMatching).(*protocol.Start)
	sb := b.next(t, protocol.PhaseMatching).(*protocol.Start)
	if !sa.YourTurn || sb.YourTurn {
		t.Fatalf("first arrival must move first: a=%v b=%v", sa.YourTurn, sb.YourTurn)
	}
	if sa.Picture != "http://referee.test/image/card_rear.jpeg" {
		t.Fatalf("back picture = %q", sa.Picture)
	}
	if st := srv.Stats(); st.Rooms != 1 || st.Waiting != 0 {
		t.Fatalf("stats = %+v", st)
	}
}

func TestServer_RoundReachesBothSeats(t *testing.T) {
	srv, ts := newTestServer(t, testOptions())
	a, b := pair(t, srv, ts)
	a.next(t, protocol.PhaseMatching)
	b.next(t, protocol.PhaseMatching)

	// Out of turn: ignored.
	b.pick(t, 5)

	a.pick(t, 0)
	ra, rb := a.reveal(t), b.reveal(t)
	if ra.Card != 0 || rb.Card != 0 || ra.Status != protocol.StatusChallenging {
		t.Fatalf("challenge: a=%+v b=%+v", ra, rb)
	}
	if !ra.YourTurn || rb.YourTurn {
		t.Fatalf("challenge must keep the turn with a")
	}
	first := ra.Picture

	a.pick(t, 1)
	ra, rb = a.reveal(t), b.reveal(t)
	if ra.Card != 1 || rb.Card != 1 {
		t.Fatalf("second pick cards a=%d b=%d", ra.Card, rb.Card)
	}
	if ra.Picture == first {
		if ra.Status != protocol.StatusSuccess || ra.YourScore != 1 || rb.OpponentScore != 1 || !ra.YourTurn {
			t.Fatalf("pair: a=%+v b=%+v", ra, rb)
		}
	} else {
		if ra.Status != protocol.StatusFailed || ra.YourTurn || !rb.YourTurn {
			t.Fatalf("miss: a=%+v b=%+v", ra, rb)
		}
	}
}

func TestServer_DisconnectDropsOpponent(t *testing.T) {
	srv, ts := newTestServer(t, testOptions())
	a, b := pair(t, srv, ts)
	a.next(t, protocol.PhaseMatching)
	b.next(t, protocol.PhaseMatching)

	a.client.Close()
	select {
	case <-b.errs:
	case <-time.After(2 * time.Second):
		t.Fatalf("opponent was not dropped")
	}
	waitStats(t, srv, func(s Stats) bool { return s.Rooms == 0 })
}

func TestServer_RequiresSession(t *testing.T) {
	_, ts := newTestServer(t, testOptions())
	resp, err := http.Get(ts.URL + "/ws")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestServer_IdentityEndpoints(t *testing.T) {
	_, ts := newTestServer(t, testOptions())
	p := identity.NewHTTPProvider(ts.URL, time.Second)
	ctx := context.Background()

	id, err := p.GetID(ctx)
	if err != nil {
		t.Fatalf("get id: %v", err)
	}
	creds, err := p.GetCredentialsForIdentity(ctx, id)
	if err != nil {
		t.Fatalf("credentials: %v", err)
	}
	if creds.AccessKeyID == "" || creds.SecretKey == "" || creds.SessionToken == "" {
		t.Fatalf("incomplete credentials %+v", creds)
	}
	if _, err := p.GetCredentialsForIdentity(ctx, "nobody"); !errors.Is(err, identity.ErrUnknownIdentity) {
		t.Fatalf("unknown identity: %v", err)
	}
}

func TestServer_HealthAndImages(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "card_rear.jpeg"), []byte("jpeg"), 0o644); err != nil {
		t.Fatalf("write image: %v", err)
	}
	opts := testOptions()
	opts.ImageDir = dir
	_, ts := newTestServer(t, opts)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("healthz: %v", err)
	}
	var health map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&health)
	resp.Body.Close()
	if health["status"] != "ok" {
		t.Fatalf("health = %v", health)
	}

	resp, err = http.Get(ts.URL + "/image/card_rear.jpeg")
	if err != nil {
		t.Fatalf("image: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || string(body) != "jpeg" {
		t.Fatalf("image status %d body %q", resp.StatusCode, body)
	}
}

func TestServer_CORSPreflight(t *testing.T) {
	_, ts := newTestServer(t, testOptions())
	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/identity/id", nil)
	req.Header.Set("Origin", "http://game.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("allow origin = %q", got)
	}
}

func TestNewServer_RejectsShortDeck(t *testing.T) {
	opts := testOptions()
	opts.Faces = opts.Faces[:3]
	if _, err := NewServer(opts, nil); !errors.Is(err, ErrShortDeck) {
		t.Fatalf("got %v, want ErrShortDeck", err)
	}
}
