package outfit

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ootdlab/ootd-backend/internal/logger"
)

type State int

const (
	StateUninitialized State = iota
	StateGenerated
	StateEdited
	StateSaved
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateGenerated:
		return "generated"
	case StateEdited:
		return "edited"
	case StateSaved:
		return "saved"
	}
	return "unknown"
}

type Direction int

const (
	DirectionNext Direction = 1
	DirectionPrev Direction = -1
)

// Cell is one resizable slot of the two-column outfit grid.
type Cell struct {
	ID            string
	Column        int
	Flex          float64
	Position      int
	Subcategories []string
	ItemIndex     int
	Recommended   bool
}

const (
	minFlex          = 0.5
	outerwearFloor   = 1.0
	dressFlex        = 4.0
	fallbackCellFlex = 1.0
)

// Engine is the outfit layout state machine for one building session.
// All operations are synchronous; the only suspension point is Save, which
// calls through the persistence adapter. Mutations targeting a stale or
// unknown cell id are silent no-ops.
type Engine struct {
	userID  uuid.UUID
	rnd     *Randomizer
	log     *logger.Logger
	state   State
	weather *WeatherContext
	index   *Index
	cells   []*Cell
	advice  UmbrellaAdvice
	savedID uuid.UUID
}

func NewEngine(userID uuid.UUID, rnd *Randomizer, log *logger.Logger) *Engine {
	if log != nil {
		log = log.With("component", "OutfitEngine", "user_id", userID.String())
	}
	return &Engine{
		userID: userID,
		rnd:    rnd,
		log:    log,
		state:  StateUninitialized,
		advice: UmbrellaNo,
	}
}

func (e *Engine) State() State                  { return e.state }
func (e *Engine) UserID() uuid.UUID             { return e.userID }
func (e *Engine) UmbrellaAdvice() UmbrellaAdvice { return e.advice }
func (e *Engine) SavedOutfitID() uuid.UUID      { return e.savedID }

func (e *Engine) Weather() *WeatherContext {
	if e.weather == nil {
		return nil
	}
	w := *e.weather
	return &w
}

// Cells returns a copy of the layout, column 1 first, ordered by position
// within each column.
func (e *Engine) Cells() []Cell {
	out := make([]Cell, 0, len(e.cells))
	for _, col := range []int{1, 2} {
		for _, c := range e.cellsInColumn(col) {
			out = append(out, *c)
		}
	}
	return out
}

// OnWeatherAvailable feeds the weather input. Regeneration is automatic only
// while the session has no user edits.
func (e *Engine) OnWeatherAvailable(w WeatherContext) {
	if e.state == StateSaved {
		// Late result for a finished session, discard.
		return
	}
	e.weather = &w
	e.maybeGenerate()
}

// OnWardrobeAvailable feeds a fresh wardrobe read. The index is replaced
// wholesale, never patched.
func (e *Engine) OnWardrobeAvailable(items []IndexItem) {
	if e.state == StateSaved {
		return
	}
	e.index = NewIndex(items)
	e.maybeGenerate()
}

func (e *Engine) maybeGenerate() {
	if e.weather == nil || e.index == nil {
		return
	}
	if e.state != StateUninitialized && e.state != StateGenerated {
		// User edits are never silently discarded.
		return
	}
	e.generate()
}

func (e *Engine) generate() {
	cands, advice := Recommend(e.weather.Temperature, e.weather.Tags)
	e.advice = advice
	choices := e.rnd.Choose(cands, e.index.UniqueOwnedSubcategories())

	chosen := 0
	for _, slot := range Slots {
		if choices[slot] != NoGarment {
			chosen++
		}
	}
	if chosen == 0 {
		e.cells = e.fallbackCells()
		e.state = StateGenerated
		if e.log != nil {
			e.log.Debug("Generated fallback layout", "cells", len(e.cells))
		}
		return
	}

	var cells []*Cell
	col1Pos, col2Pos := 0, 0
	hatChosen := choices[SlotHat] != NoGarment
	middleChosen := choices[SlotMiddle] != NoGarment
	middleIsDress := middleChosen && IsDress(choices[SlotMiddle])

	if hatChosen {
		cells = append(cells, &Cell{
			ID:            string(SlotHat),
			Column:        1,
			Flex:          0.8,
			Position:      col1Pos,
			Subcategories: []string{choices[SlotHat]},
			Recommended:   true,
		})
		col1Pos++
	}
	if choices[SlotOuterwear] != NoGarment {
		flex := 2.5
		if hatChosen {
			flex = 1.7
		}
		cells = append(cells, &Cell{
			ID:            string(SlotOuterwear),
			Column:        1,
			Flex:          flex,
			Position:      col1Pos,
			Subcategories: []string{choices[SlotOuterwear]},
			Recommended:   true,
		})
		col1Pos++
	}
	if choices[SlotShoes] != NoGarment {
		cells = append(cells, &Cell{
			ID:            string(SlotShoes),
			Column:        1,
			Flex:          1.5,
			Position:      col1Pos,
			Subcategories: []string{choices[SlotShoes]},
			Recommended:   true,
		})
		col1Pos++
	}
	if middleChosen {
		flex := 2.0
		if middleIsDress {
			flex = dressFlex
		}
		cells = append(cells, &Cell{
			ID:            string(SlotMiddle),
			Column:        2,
			Flex:          flex,
			Position:      col2Pos,
			Subcategories: []string{choices[SlotMiddle]},
			Recommended:   true,
		})
		col2Pos++
	}
	if choices[SlotBottom] != NoGarment && !middleIsDress {
		flex := dressFlex
		if middleChosen {
			flex = 2.0
		}
		cells = append(cells, &Cell{
			ID:            string(SlotBottom),
			Column:        2,
			Flex:          flex,
			Position:      col2Pos,
			Subcategories: []string{choices[SlotBottom]},
			Recommended:   true,
		})
		col2Pos++
	}

	e.cells = cells
	e.state = StateGenerated
	if e.log != nil {
		e.log.Debug("Generated weather layout", "cells", len(e.cells), "advice", string(advice))
	}
}

// fallbackCells builds one cell per owned coarse category, alternating
// columns by discovery order, all sized uniformly.
func (e *Engine) fallbackCells() []*Cell {
	var cells []*Cell
	col1Pos, col2Pos := 0, 0
	for i, category := range e.index.OwnedCategories() {
		column := 1
		pos := col1Pos
		if i%2 == 1 {
			column = 2
			pos = col2Pos
		}
		cells = append(cells, &Cell{
			ID:            uuid.NewString(),
			Column:        column,
			Flex:          fallbackCellFlex,
			Position:      pos,
			Subcategories: []string{category},
			Recommended:   true,
		})
		if column == 1 {
			col1Pos++
		} else {
			col2Pos++
		}
	}
	return cells
}

func (e *Engine) mutable() bool {
	return e.state == StateGenerated || e.state == StateEdited
}

// CycleItem advances or retreats a cell's current item against the live
// filtered item list. The stored index is never trusted: the list length is
// recomputed on every call because items can disappear in between.
func (e *Engine) CycleItem(cellID string, dir Direction) {
	if !e.mutable() || e.index == nil {
		return
	}
	cell := e.findCell(cellID)
	if cell == nil {
		return
	}
	items := e.index.ItemsForSubcategories(cell.Subcategories)
	n := len(items)
	if n == 0 {
		return
	}
	cell.ItemIndex = ((cell.ItemIndex % n) + n + int(dir)) % n
	e.state = StateEdited
}

// Resize grows or shrinks a cell by delta, clamped to the 0.5 floor. No
// maximum is enforced here; the UI caps growth on its side.
func (e *Engine) Resize(cellID string, delta float64) {
	if !e.mutable() {
		return
	}
	cell := e.findCell(cellID)
	if cell == nil {
		return
	}
	cell.Flex = cell.Flex + delta
	if cell.Flex < minFlex {
		cell.Flex = minFlex
	}
	e.state = StateEdited
}

// SwitchColumn flips the cell between columns 1 and 2 without reflowing
// other cells' positions.
func (e *Engine) SwitchColumn(cellID string) {
	if !e.mutable() {
		return
	}
	cell := e.findCell(cellID)
	if cell == nil {
		return
	}
	if cell.Column == 1 {
		cell.Column = 2
	} else {
		cell.Column = 1
	}
	e.state = StateEdited
}

// ReplaceCategory rebinds a cell to a new subcategory set. A dress set
// clears the whole of column 2 and installs a single full-column dress cell,
// reusing the target id when it already belongs to the middle/bottom family.
func (e *Engine) ReplaceCategory(cellID string, subcats []string) {
	if !e.mutable() || len(subcats) == 0 {
		return
	}
	if IsDressSet(subcats) {
		kept := e.cells[:0:0]
		for _, c := range e.cells {
			if c.Column != 2 {
				kept = append(kept, c)
			}
		}
		id := cellID
		if !isMiddleFamilyID(cellID) {
			id = "dress-" + uuid.NewString()
		}
		kept = append(kept, &Cell{
			ID:            id,
			Column:        2,
			Flex:          dressFlex,
			Position:      0,
			Subcategories: append([]string(nil), subcats...),
		})
		e.cells = kept
		e.state = StateEdited
		return
	}
	cell := e.findCell(cellID)
	if cell == nil {
		return
	}
	cell.Subcategories = append([]string(nil), subcats...)
	cell.ItemIndex = 0
	e.state = StateEdited
}

// AddCategory appends a user-added cell at the end of column 1 and shrinks
// the outerwear cell to make visual room.
func (e *Engine) AddCategory(subcats []string) {
	if !e.mutable() || len(subcats) == 0 {
		return
	}
	position := len(e.cellsInColumn(1))
	e.cells = append(e.cells, &Cell{
		ID:            uuid.NewString(),
		Column:        1,
		Flex:          minFlex,
		Position:      position,
		Subcategories: append([]string(nil), subcats...),
	})
	if outerwear := e.findCell(string(SlotOuterwear)); outerwear != nil {
		outerwear.Flex = outerwear.Flex - 0.5
		if outerwear.Flex < outerwearFloor {
			outerwear.Flex = outerwearFloor
		}
	}
	e.state = StateEdited
}

// DeleteCategory removes a cell by id, silently ignoring unknown ids.
// Confirmation is the caller's concern.
func (e *Engine) DeleteCategory(cellID string) {
	if !e.mutable() {
		return
	}
	kept := e.cells[:0:0]
	removed := false
	for _, c := range e.cells {
		if c.ID == cellID {
			removed = true
			continue
		}
		kept = append(kept, c)
	}
	if !removed {
		return
	}
	e.cells = kept
	e.state = StateEdited
}

// CurrentItem resolves a cell's live item, re-validating the stored index
// against the current filtered list. A missing cell or an empty list yields
// (zero, false) — an empty cell, not an error.
func (e *Engine) CurrentItem(cellID string) (IndexItem, bool) {
	cell := e.findCell(cellID)
	if cell == nil || e.index == nil {
		return IndexItem{}, false
	}
	items := e.index.ItemsForSubcategories(cell.Subcategories)
	if len(items) == 0 {
		return IndexItem{}, false
	}
	idx := cell.ItemIndex % len(items)
	if idx < 0 {
		idx += len(items)
	}
	return items[idx], true
}

// Save freezes the layout through the persistence adapter. On success the
// session is terminal: further mutations are no-ops and a second Save
// reports ErrOutfitExists without touching state.
func (e *Engine) Save(ctx context.Context, adapter PersistenceAdapter) (uuid.UUID, error) {
	if e.state == StateSaved {
		return uuid.Nil, ErrOutfitExists
	}
	if !e.mutable() || e.weather == nil || e.index == nil {
		return uuid.Nil, ErrInputUnavailable
	}

	pairs := make([]CellPair, 0, len(e.cells))
	resolved := 0
	for _, c := range e.Cells() {
		pair := CellPair{Cell: c}
		if item, ok := e.CurrentItem(c.ID); ok {
			id := item.ID
			pair.ItemID = &id
			resolved++
		}
		pairs = append(pairs, pair)
	}
	if resolved == 0 {
		return uuid.Nil, ErrNoWearableItems
	}

	exists, err := adapter.PrecheckExists(ctx, e.userID, e.weather.Date)
	if err != nil {
		return uuid.Nil, err
	}
	if exists {
		return uuid.Nil, ErrOutfitExists
	}

	outfitID, err := adapter.Persist(ctx, *e.weather, e.userID, e.weather.Date, pairs)
	if err != nil {
		return uuid.Nil, err
	}
	e.savedID = outfitID
	e.state = StateSaved
	if e.log != nil {
		e.log.Info("Outfit saved", "outfit_id", outfitID.String(), "cells", len(pairs))
	}
	return outfitID, nil
}

func (e *Engine) findCell(cellID string) *Cell {
	for _, c := range e.cells {
		if c.ID == cellID {
			return c
		}
	}
	return nil
}

func (e *Engine) cellsInColumn(col int) []*Cell {
	var out []*Cell
	for _, c := range e.cells {
		if c.Column == col {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

func isMiddleFamilyID(id string) bool {
	return strings.HasPrefix(id, string(SlotMiddle)) ||
		strings.HasPrefix(id, string(SlotBottom)) ||
		strings.HasPrefix(id, "dress")
}

// SessionDeadline is how long an idle building session is kept before the
// host may discard it.
const SessionDeadline = 2 * time.Hour
