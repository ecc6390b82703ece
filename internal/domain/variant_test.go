package domain

import "testing"

func TestVariant_AddParticipantIsSet(t *testing.T) {
	v := &Variant{ID: "v1"}
	if !v.AddParticipant("p1") {
		t.Error("expected first add to change the set")
	}
	if v.AddParticipant("p1") {
		t.Error("expected duplicate add to be ignored")
	}
	if len(v.Participants) != 1 {
		t.Errorf("expected 1 participant, got %d", len(v.Participants))
	}
}

func TestControlVariant(t *testing.T) {
	first := &Variant{ID: "1", Name: "red"}
	control := &Variant{ID: "2", Name: "control"}

	if got := ControlVariant([]*Variant{first, control}, "control"); got != control {
		t.Errorf("expected named control, got %v", got)
	}
	if got := ControlVariant([]*Variant{first}, "control"); got != first {
		t.Errorf("expected first variant fallback, got %v", got)
	}
	if got := ControlVariant(nil, "control"); got != nil {
		t.Errorf("expected nil for no variants, got %v", got)
	}
}

func TestFindParticipantVariant(t *testing.T) {
	a := &Variant{ID: "a", Participants: []string{"p1"}}
	b := &Variant{ID: "b", Participants: []string{"p2"}}

	if got := FindParticipantVariant([]*Variant{a, b}, "p2"); got != b {
		t.Errorf("expected variant b, got %v", got)
	}
	if got := FindParticipantVariant([]*Variant{a, b}, "p3"); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestValidUsernameAndPassword(t *testing.T) {
	if !ValidUsername("alice_w") {
		t.Error("expected alice_w to be valid")
	}
	for _, bad := range []string{"abc", "al@ce", "{brace}", string(make([]byte, 51))} {
		if ValidUsername(bad) {
			t.Errorf("expected %q to be invalid", bad)
		}
	}
	if ValidPassword("short") || ValidPassword("password") {
		t.Error("expected short and common passwords to be rejected")
	}
	if !ValidPassword("correct horse") {
		t.Error("expected long password to be valid")
	}
}
