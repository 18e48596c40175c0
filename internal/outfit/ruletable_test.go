package outfit

import "testing"

func TestRecommend_BucketBoundaries(t *testing.T) {
	// Upper bounds are strict: the boundary temperature lands in the warmer
	// bucket.
	tests := []struct {
		name       string
		tempC      float64
		wantMiddle string
	}{
		{"deep frost", -20, "Светри"},
		{"just below frosty bound", -5.1, "Светри"},
		{"exactly at frosty bound is cold", -5, "Светри"},
		{"cool", 12, "Кофти"},
		{"exactly 15 is mild", 15, "Сорочки"},
		{"exactly 20 is warm", 20, "Футболки"},
		{"exactly 25 is hot", 25, "Майки"},
		{"heatwave", 40, "Майки"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cands, _ := Recommend(tt.tempC, nil)
			if len(cands[SlotMiddle]) == 0 {
				t.Fatalf("no middle candidates for %.1f", tt.tempC)
			}
			if cands[SlotMiddle][0] != tt.wantMiddle {
				t.Errorf("middle[0] = %q, want %q", cands[SlotMiddle][0], tt.wantMiddle)
			}
		})
	}
}

func TestRecommend_AllSlotsPopulated(t *testing.T) {
	for _, tempC := range []float64{-20, -5, 0, 10, 15, 20, 25, 35} {
		cands, _ := Recommend(tempC, nil)
		for _, slot := range Slots {
			if len(cands[slot]) == 0 {
				t.Errorf("temp %.0f: slot %s has no candidates", tempC, slot)
			}
		}
	}
}

func TestRecommend_RainyRemovesOpenShoes(t *testing.T) {
	cands, advice := Recommend(28, NewTagSet(TagRainy))
	if advice != UmbrellaYes {
		t.Fatalf("advice = %q, want %q", advice, UmbrellaYes)
	}
	open := map[string]bool{"Босоніжки": true, "Сандалі": true, "Підбори": true}
	for _, shoe := range cands[SlotShoes] {
		if open[shoe] {
			t.Errorf("open shoe %q survived rainy filter", shoe)
		}
	}
	found := false
	for _, ow := range cands[SlotOuterwear] {
		if ow == "Вітровки" {
			found = true
		}
	}
	if !found {
		t.Error("rainy did not add windbreaker to outerwear candidates")
	}
}

func TestRecommend_WindyAddsWindbreakerOnce(t *testing.T) {
	// The cool bucket already lists windbreakers; windy must not duplicate.
	cands, _ := Recommend(12, NewTagSet(TagWindy))
	count := 0
	for _, ow := range cands[SlotOuterwear] {
		if ow == "Вітровки" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("windbreaker appears %d times, want 1", count)
	}
}

func TestRecommend_UmbrellaAdvice(t *testing.T) {
	tests := []struct {
		name  string
		tempC float64
		tags  TagSet
		want  UmbrellaAdvice
	}{
		{"no tags", 30, nil, UmbrellaNo},
		{"sunny but cool", 12, NewTagSet(TagSunny), UmbrellaNo},
		{"sunny and warm", 22, NewTagSet(TagSunny), UmbrellaMaybe},
		{"sunny at threshold", 20, NewTagSet(TagSunny), UmbrellaMaybe},
		{"rainy", 22, NewTagSet(TagRainy), UmbrellaYes},
		{"rainy beats sunny", 28, NewTagSet(TagRainy, TagSunny), UmbrellaYes},
		{"windy alone", 22, NewTagSet(TagWindy), UmbrellaNo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, advice := Recommend(tt.tempC, tt.tags)
			if advice != tt.want {
				t.Errorf("advice = %q, want %q", advice, tt.want)
			}
		})
	}
}

func TestRecommend_ResultIsACopy(t *testing.T) {
	first, _ := Recommend(22, nil)
	first[SlotMiddle][0] = "mutated"
	second, _ := Recommend(22, nil)
	if second[SlotMiddle][0] == "mutated" {
		t.Error("Recommend leaked its internal candidate slices")
	}
}

func TestIsDress(t *testing.T) {
	if !IsDress("Плаття") || !IsDress("Сарафани") {
		t.Error("dress subcategories not recognized")
	}
	if IsDress("Штани") || IsDress("") {
		t.Error("non-dress subcategory classified as dress")
	}
	if !IsDressSet([]string{"Штани", "Плаття"}) {
		t.Error("mixed set containing a dress should classify as dress set")
	}
	if IsDressSet([]string{"Штани", "Джинси"}) {
		t.Error("plain bottom set classified as dress set")
	}
}
