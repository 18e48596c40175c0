package outfit

import (
	"math/rand"
	"sync"
)

// Randomizer picks one owned subcategory per slot from the rule table's
// candidates. It wraps a single shared random source; Reseed makes draws
// reproducible in tests.
type Randomizer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandomizer(seed int64) *Randomizer {
	return &Randomizer{rng: rand.New(rand.NewSource(seed))}
}

func (r *Randomizer) Reseed(seed int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rng = rand.New(rand.NewSource(seed))
}

// Choose intersects each slot's candidates with the owned subcategories and
// picks uniformly among the survivors. NoGarment candidates are always
// eligible. An empty intersection yields NoGarment, never an error. The
// dress exclusivity rule runs after all slots are chosen: a dress in the
// middle slot forces the bottom slot to NoGarment.
func (r *Randomizer) Choose(cands SlotCandidates, owned map[string]bool) map[Slot]string {
	r.mu.Lock()
	defer r.mu.Unlock()

	choices := make(map[Slot]string, len(Slots))
	for _, slot := range Slots {
		eligible := make([]string, 0, len(cands[slot]))
		for _, c := range cands[slot] {
			if c == NoGarment || owned[c] {
				eligible = append(eligible, c)
			}
		}
		if len(eligible) == 0 {
			choices[slot] = NoGarment
			continue
		}
		choices[slot] = eligible[r.rng.Intn(len(eligible))]
	}

	if IsDress(choices[SlotMiddle]) {
		choices[SlotBottom] = NoGarment
	}
	return choices
}
