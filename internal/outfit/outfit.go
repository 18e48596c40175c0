package outfit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Slot is a functional garment position in the recommendation table, as
// opposed to the coarse wardrobe categories used for manual browsing.
type Slot string

const (
	SlotHat       Slot = "hat"
	SlotOuterwear Slot = "outerwear"
	SlotMiddle    Slot = "middle"
	SlotBottom    Slot = "bottom"
	SlotShoes     Slot = "shoes"
)

// Slots lists every slot in build order: column 1 top to bottom, then
// column 2. Iteration over slot maps must go through this list so that a
// shared random source produces reproducible draws.
var Slots = []Slot{SlotHat, SlotOuterwear, SlotShoes, SlotMiddle, SlotBottom}

// NoGarment marks a candidate or choice meaning "this slot may be empty".
const NoGarment = ""

type Tag string

const (
	TagRainy Tag = "rainy"
	TagWindy Tag = "windy"
	TagSunny Tag = "sunny"
)

type TagSet map[Tag]bool

func NewTagSet(tags ...Tag) TagSet {
	set := make(TagSet, len(tags))
	for _, t := range tags {
		set[t] = true
	}
	return set
}

// SlotCandidates maps each slot to its ordered candidate subcategories.
// A NoGarment entry means the slot may legitimately stay empty.
type SlotCandidates map[Slot][]string

type UmbrellaAdvice string

const (
	UmbrellaNo    UmbrellaAdvice = "No"
	UmbrellaYes   UmbrellaAdvice = "Yes"
	UmbrellaMaybe UmbrellaAdvice = "Maybe"
)

// WeatherContext is the weather input the engine generates against and the
// snapshot frozen into a persisted outfit.
type WeatherContext struct {
	Temperature float64
	TempMin     float64
	TempMax     float64
	Description string
	IconCode    string
	City        string
	Date        time.Time
	Tags        TagSet
}

// CellPair is one (cell metadata, chosen item) element of a save payload.
// ItemID is nil when the cell resolved to no wearable item.
type CellPair struct {
	Cell   Cell
	ItemID *uuid.UUID
}

// PersistenceAdapter is the persistence collaborator boundary the engine
// saves through. A partial write (snapshot landed, outfit rows did not) is
// surfaced as an error from Persist; the engine does not compensate.
type PersistenceAdapter interface {
	PrecheckExists(ctx context.Context, userID uuid.UUID, date time.Time) (bool, error)
	Persist(ctx context.Context, weather WeatherContext, userID uuid.UUID, date time.Time, pairs []CellPair) (uuid.UUID, error)
}

var (
	// ErrInputUnavailable: weather or wardrobe data has not arrived yet, or
	// the session is not in a state that permits the operation.
	ErrInputUnavailable = errors.New("weather or wardrobe input unavailable")
	// ErrOutfitExists: a persisted outfit already exists for this user+date.
	ErrOutfitExists = errors.New("outfit already exists for this date")
	// ErrNoWearableItems: no cell resolves to a concrete item, nothing to save.
	ErrNoWearableItems = errors.New("no cell resolves to a wearable item")
)
