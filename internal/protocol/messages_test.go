package protocol

import (
	"errors"
	"testing"
)

func TestDecode_Start(t *testing.T) {
	m, err := Decode(PhaseMatching, []byte(`{"status":"start","picture":"http://img/back.png"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	start, ok := m.(*Start)
	if !ok {
		t.Fatalf("got %T, want *Start", m)
	}
	if start.Picture != "http://img/back.png" || start.YourTurn {
		t.Fatalf("unexpected start %+v", start)
	}

	m, err = Decode(PhaseMatching, []byte(`{"status":"start","picture":"b.png","your_turn":true}`))
	if err != nil {
		t.Fatalf("decode with turn: %v", err)
	}
	if !m.(*Start).YourTurn {
		t.Fatalf("your_turn should be carried when present")
	}
}

func TestDecode_Reveal(t *testing.T) {
	raw := []byte(`{"card":3,"picture":"f3.png","status":"Success","your_score":2,"opponent_score":1,"your_turn":true}`)
	m, err := Decode(PhasePlay, raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	r := m.(*Reveal)
	if r.Card != 3 || r.Status != StatusSuccess || r.YourScore != 2 || r.OpponentScore != 1 || !r.YourTurn {
		t.Fatalf("unexpected reveal %+v", r)
	}
	if !r.Status.Terminal() {
		t.Fatalf("Success must be terminal")
	}
	if m.Phase() != PhasePlay {
		t.Fatalf("reveal phase = %s", m.Phase())
	}
}

func TestDecode_Malformed(t *testing.T) {
	cases := []struct {
		name  string
		phase Phase
		raw   string
		want  error
	}{
		{"not json", PhasePlay, `{"card":`, ErrMalformed},
		{"array", PhasePlay, `[1,2]`, ErrMalformed},
		{"missing card", PhasePlay, `{"picture":"a","status":"challenging","your_score":0,"opponent_score":0,"your_turn":false}`, ErrMalformed},
		{"missing turn", PhasePlay, `{"card":1,"picture":"a","status":"challenging","your_score":0,"opponent_score":0}`, ErrMalformed},
		{"negative card", PhasePlay, `{"card":-1,"picture":"a","status":"challenging","your_score":0,"opponent_score":0,"your_turn":false}`, ErrMalformed},
		{"wrong type", PhasePlay, `{"card":"1","picture":"a","status":"challenging","your_score":0,"opponent_score":0,"your_turn":false}`, ErrMalformed},
		{"start while playing", PhasePlay, `{"card":1,"picture":"a","status":"start","your_score":0,"opponent_score":0,"your_turn":false}`, ErrUnknownStatus},
		{"reveal while matching", PhaseMatching, `{"status":"Success","picture":"a"}`, ErrUnknownStatus},
		{"start without picture", PhaseMatching, `{"status":"start"}`, ErrMalformed},
		{"no phase", PhaseNone, `{"status":"start","picture":"a"}`, ErrNoPhase},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.phase, []byte(tc.raw))
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestSelection_Encode(t *testing.T) {
	raw, err := EncodeSelection(7)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(raw) != `{"card":7}` {
		t.Fatalf("encoded %s", raw)
	}
	sel, err := DecodeSelection(raw)
	if err != nil || sel.Card != 7 {
		t.Fatalf("decode selection = %+v, %v", sel, err)
	}
	if _, err := DecodeSelection([]byte(`{}`)); !errors.Is(err, ErrMalformed) {
		t.Fatalf("empty selection err = %v", err)
	}
}
