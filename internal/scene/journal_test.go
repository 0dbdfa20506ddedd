package scene

import (
	"strings"
	"testing"
)

func TestJournal_Queries(t *testing.T) {
	j := NewJournal(0)
	j.Add(1, Choose, "inbound", "challenging", "card=3")
	j.Add(2, Choose, "inbound", "Success", "card=7")
	j.Add(3, Stop, "scene", "activate", "choose -> stop")

	if j.CountCategory("inbound", "") != 2 {
		t.Fatalf("expected two inbound entries")
	}
	last, ok := j.LastOf("inbound", "")
	if !ok || last.Key != "Success" {
		t.Fatalf("LastOf = %+v, %v", last, ok)
	}
	if !j.HasEntry("scene", "activate", "-> stop") {
		t.Fatalf("activation entry not found")
	}
	if j.HasEntry("scene", "activate", "-> end") {
		t.Fatalf("unexpected match")
	}
	if !strings.Contains(j.Format(), "[T=0003] stop") {
		t.Fatalf("format:\n%s", j.Format())
	}
}

func TestJournal_CapacityKeepsNewest(t *testing.T) {
	j := NewJournal(2)
	for i := 0; i < 5; i++ {
		j.Add(i, Intro, "input", "key", "")
	}
	if j.Len() != 2 || j.Entries()[0].Tick != 3 {
		t.Fatalf("ring kept %+v", j.Entries())
	}
	if got := j.Tail(10); len(got) != 2 {
		t.Fatalf("tail = %d entries", len(got))
	}

	var nilJournal *Journal
	nilJournal.Add(1, Intro, "x", "y", "z")
	if nilJournal.Len() != 0 || nilJournal.CountCategory("x", "") != 0 {
		t.Fatalf("nil journal should be inert")
	}
}
