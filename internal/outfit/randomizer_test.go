package outfit

import "testing"

func TestChoose_NeverPicksUnowned(t *testing.T) {
	rnd := NewRandomizer(1)
	owned := map[string]bool{"Штани": true, "Кросівки": true}
	cands := SlotCandidates{
		SlotHat:       {"Шапки"},
		SlotOuterwear: {"Куртки", "Пальта"},
		SlotMiddle:    {"Светри"},
		SlotBottom:    {"Штани", "Джинси"},
		SlotShoes:     {"Черевики", "Кросівки"},
	}
	for i := 0; i < 200; i++ {
		choices := rnd.Choose(cands, owned)
		for slot, pick := range choices {
			if pick == NoGarment {
				continue
			}
			if !owned[pick] {
				t.Fatalf("iteration %d: slot %s picked unowned %q", i, slot, pick)
			}
		}
	}
}

func TestChoose_EmptyIntersectionYieldsNoGarment(t *testing.T) {
	rnd := NewRandomizer(1)
	cands := SlotCandidates{
		SlotHat:    {"Шапки"},
		SlotMiddle: {"Светри"},
	}
	choices := rnd.Choose(cands, map[string]bool{})
	for _, slot := range Slots {
		if choices[slot] != NoGarment {
			t.Errorf("slot %s = %q, want NoGarment", slot, choices[slot])
		}
	}
}

func TestChoose_NoGarmentCandidateAlwaysEligible(t *testing.T) {
	rnd := NewRandomizer(7)
	cands := SlotCandidates{
		SlotHat: {NoGarment, "Кепки"},
	}
	sawEmpty := false
	for i := 0; i < 100; i++ {
		choices := rnd.Choose(cands, map[string]bool{})
		// Nothing is owned, so the empty candidate is the only survivor.
		if choices[SlotHat] != NoGarment {
			t.Fatalf("iteration %d: picked %q with nothing owned", i, choices[SlotHat])
		}
		sawEmpty = true
	}
	if !sawEmpty {
		t.Fatal("loop did not run")
	}
}

func TestChoose_DressForcesEmptyBottom(t *testing.T) {
	rnd := NewRandomizer(3)
	owned := map[string]bool{"Плаття": true, "Штани": true}
	cands := SlotCandidates{
		SlotMiddle: {"Плаття"},
		SlotBottom: {"Штани"},
	}
	for i := 0; i < 50; i++ {
		choices := rnd.Choose(cands, owned)
		if choices[SlotMiddle] != "Плаття" {
			t.Fatalf("middle = %q, want dress", choices[SlotMiddle])
		}
		if choices[SlotBottom] != NoGarment {
			t.Fatalf("bottom = %q alongside a dress, want NoGarment", choices[SlotBottom])
		}
	}
}

func TestReseed_Reproducible(t *testing.T) {
	owned := map[string]bool{"Штани": true, "Джинси": true, "Спідниці": true}
	cands := SlotCandidates{SlotBottom: {"Штани", "Джинси", "Спідниці"}}

	rnd := NewRandomizer(42)
	var first []string
	for i := 0; i < 20; i++ {
		first = append(first, rnd.Choose(cands, owned)[SlotBottom])
	}
	rnd.Reseed(42)
	for i := 0; i < 20; i++ {
		if got := rnd.Choose(cands, owned)[SlotBottom]; got != first[i] {
			t.Fatalf("draw %d after reseed = %q, want %q", i, got, first[i])
		}
	}
}
