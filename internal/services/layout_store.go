package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/ootdlab/ootd-backend/internal/logger"
	"github.com/ootdlab/ootd-backend/internal/outfit"
	"github.com/ootdlab/ootd-backend/internal/repos"
	"github.com/ootdlab/ootd-backend/internal/types"
)

var ErrOutfitNotFound = errors.New("outfit not found")

// PersistedItem is the fixed read-side item shape. Placeholder marks an item
// reference whose wardrobe row no longer exists; the layout still renders,
// the cell just shows empty.
type PersistedItem struct {
	ID          uuid.UUID `json:"id"`
	Category    string    `json:"category"`
	Subcategory string    `json:"subcategory,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	Placeholder bool      `json:"placeholder"`
}

// PersistedCell is the fixed read-side cell shape, normalized from storage
// rows at this boundary before anything else touches them.
type PersistedCell struct {
	CellKey       string         `json:"cell_key"`
	Column        int            `json:"column"`
	Flex          float64        `json:"flex"`
	Position      int            `json:"position"`
	Subcategories []string       `json:"subcategories"`
	ItemIndex     int            `json:"item_index"`
	Recommended   bool           `json:"recommended"`
	Item          *PersistedItem `json:"item,omitempty"`
}

type PersistedWeather struct {
	City        string    `json:"city"`
	Date        time.Time `json:"date"`
	TempMin     float64   `json:"temp_min"`
	TempMax     float64   `json:"temp_max"`
	Description string    `json:"description"`
	IconCode    string    `json:"icon_code"`
}

type PersistedOutfit struct {
	ID      uuid.UUID        `json:"id"`
	UserID  uuid.UUID        `json:"user_id"`
	Date    time.Time        `json:"date"`
	Weather PersistedWeather `json:"weather"`
	Column1 []PersistedCell  `json:"column1"`
	Column2 []PersistedCell  `json:"column2"`
}

// LayoutStore is the persistence adapter between the engine and the
// relational store. It implements outfit.PersistenceAdapter.
type LayoutStore interface {
	PrecheckExists(ctx context.Context, userID uuid.UUID, date time.Time) (bool, error)
	Persist(ctx context.Context, weather outfit.WeatherContext, userID uuid.UUID, date time.Time, pairs []outfit.CellPair) (uuid.UUID, error)
	Load(ctx context.Context, outfitID uuid.UUID) (*PersistedOutfit, error)
}

type layoutStore struct {
	db               *gorm.DB
	log              *logger.Logger
	outfitRepo       repos.OutfitRepo
	snapshotRepo     repos.WeatherSnapshotRepo
	wardrobeItemRepo repos.WardrobeItemRepo
}

func NewLayoutStore(
	db *gorm.DB,
	log *logger.Logger,
	outfitRepo repos.OutfitRepo,
	snapshotRepo repos.WeatherSnapshotRepo,
	wardrobeItemRepo repos.WardrobeItemRepo,
) LayoutStore {
	serviceLog := log.With("service", "LayoutStore")
	return &layoutStore{
		db:               db,
		log:              serviceLog,
		outfitRepo:       outfitRepo,
		snapshotRepo:     snapshotRepo,
		wardrobeItemRepo: wardrobeItemRepo,
	}
}

func (ls *layoutStore) PrecheckExists(ctx context.Context, userID uuid.UUID, date time.Time) (bool, error) {
	return ls.outfitRepo.ExistsForUserAndDate(ctx, nil, userID, dateOnly(date))
}

// Persist writes the weather snapshot first, then the outfit with its cells
// and item links in one transaction. A snapshot that lands without its
// outfit is an accepted inconsistency; the error still reaches the caller as
// a save failure. A duplicate (user, date) insert is reported as
// outfit.ErrOutfitExists so a check-then-insert race degrades to the same
// user-facing condition.
func (ls *layoutStore) Persist(ctx context.Context, weather outfit.WeatherContext, userID uuid.UUID, date time.Time, pairs []outfit.CellPair) (uuid.UUID, error) {
	snapshot := &types.WeatherSnapshot{
		ID:          uuid.New(),
		City:        weather.City,
		Date:        dateOnly(date),
		TempMin:     weather.TempMin,
		TempMax:     weather.TempMax,
		Description: weather.Description,
		IconCode:    weather.IconCode,
	}
	if _, err := ls.snapshotRepo.Create(ctx, nil, []*types.WeatherSnapshot{snapshot}); err != nil {
		return uuid.Nil, fmt.Errorf("Failed to write weather snapshot: %w", err)
	}

	outfitRow := &types.Outfit{
		ID:                uuid.New(),
		UserID:            userID,
		Date:              dateOnly(date),
		WeatherSnapshotID: snapshot.ID,
	}

	err := ls.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ls.outfitRepo.Create(ctx, tx, []*types.Outfit{outfitRow}); err != nil {
			if isUniqueViolation(err) {
				return outfit.ErrOutfitExists
			}
			return fmt.Errorf("Failed to create outfit: %w", err)
		}

		cells := make([]*types.OutfitCell, 0, len(pairs))
		links := make([]*types.OutfitItemLink, 0, len(pairs))
		col1Pos, col2Pos := 0, 0
		for _, pair := range pairs {
			// Positions are renumbered per column here so they are unique at
			// persistence time regardless of in-session column switches.
			position := col1Pos
			if pair.Cell.Column == 2 {
				position = col2Pos
				col2Pos++
			} else {
				col1Pos++
			}
			subcats, err := json.Marshal(pair.Cell.Subcategories)
			if err != nil {
				return fmt.Errorf("Failed to encode subcategories: %w", err)
			}
			cells = append(cells, &types.OutfitCell{
				ID:            uuid.New(),
				OutfitID:      outfitRow.ID,
				CellKey:       pair.Cell.ID,
				Column:        pair.Cell.Column,
				Flex:          pair.Cell.Flex,
				Position:      position,
				Subcategories: datatypes.JSON(subcats),
				ItemIndex:     pair.Cell.ItemIndex,
				Recommended:   pair.Cell.Recommended,
			})
			if pair.ItemID != nil {
				links = append(links, &types.OutfitItemLink{
					ID:       uuid.New(),
					OutfitID: outfitRow.ID,
					ItemID:   *pair.ItemID,
					CellKey:  pair.Cell.ID,
				})
			}
		}
		if _, err := ls.outfitRepo.CreateCells(ctx, tx, cells); err != nil {
			return fmt.Errorf("Failed to create outfit cells: %w", err)
		}
		if _, err := ls.outfitRepo.CreateItemLinks(ctx, tx, links); err != nil {
			return fmt.Errorf("Failed to create outfit item links: %w", err)
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return outfitRow.ID, nil
}

// Load reconstructs a persisted outfit: cells joined to item links by cell
// key, grouped by column, ordered by position. Cells whose item row has been
// deleted get a placeholder entry instead of failing the whole load.
func (ls *layoutStore) Load(ctx context.Context, outfitID uuid.UUID) (*PersistedOutfit, error) {
	outfits, err := ls.outfitRepo.GetByIDs(ctx, nil, []uuid.UUID{outfitID})
	if err != nil {
		return nil, fmt.Errorf("Failed to load outfit: %w", err)
	}
	if len(outfits) == 0 {
		return nil, ErrOutfitNotFound
	}
	outfitRow := outfits[0]

	result := &PersistedOutfit{
		ID:     outfitRow.ID,
		UserID: outfitRow.UserID,
		Date:   outfitRow.Date,
	}

	snapshots, err := ls.snapshotRepo.GetByIDs(ctx, nil, []uuid.UUID{outfitRow.WeatherSnapshotID})
	if err != nil {
		return nil, fmt.Errorf("Failed to load weather snapshot: %w", err)
	}
	if len(snapshots) > 0 {
		snap := snapshots[0]
		result.Weather = PersistedWeather{
			City:        snap.City,
			Date:        snap.Date,
			TempMin:     snap.TempMin,
			TempMax:     snap.TempMax,
			Description: snap.Description,
			IconCode:    snap.IconCode,
		}
	}

	cells, err := ls.outfitRepo.GetCellsByOutfitID(ctx, nil, outfitID)
	if err != nil {
		return nil, fmt.Errorf("Failed to load outfit cells: %w", err)
	}
	links, err := ls.outfitRepo.GetItemLinksByOutfitID(ctx, nil, outfitID)
	if err != nil {
		return nil, fmt.Errorf("Failed to load outfit item links: %w", err)
	}

	itemByCellKey := make(map[string]uuid.UUID, len(links))
	itemIDs := make([]uuid.UUID, 0, len(links))
	for _, link := range links {
		itemByCellKey[link.CellKey] = link.ItemID
		itemIDs = append(itemIDs, link.ItemID)
	}
	itemRows, err := ls.wardrobeItemRepo.GetByIDs(ctx, nil, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("Failed to load linked items: %w", err)
	}
	itemsByID := make(map[uuid.UUID]*types.WardrobeItem, len(itemRows))
	for _, row := range itemRows {
		itemsByID[row.ID] = row
	}

	for _, cell := range cells {
		normalized := PersistedCell{
			CellKey:     cell.CellKey,
			Column:      cell.Column,
			Flex:        cell.Flex,
			Position:    cell.Position,
			ItemIndex:   cell.ItemIndex,
			Recommended: cell.Recommended,
		}
		if len(cell.Subcategories) > 0 {
			if err := json.Unmarshal(cell.Subcategories, &normalized.Subcategories); err != nil {
				ls.log.Warn("Bad subcategories payload on outfit cell", "cell_key", cell.CellKey, "error", err)
			}
		}
		if itemID, ok := itemByCellKey[cell.CellKey]; ok {
			if row, found := itemsByID[itemID]; found {
				item := &PersistedItem{
					ID:       row.ID,
					Category: row.Category,
					ImageURL: row.ImageURL,
				}
				if row.Subcategory != nil {
					item.Subcategory = *row.Subcategory
				}
				normalized.Item = item
			} else {
				normalized.Item = &PersistedItem{ID: itemID, Placeholder: true}
			}
		}
		if normalized.Column == 2 {
			result.Column2 = append(result.Column2, normalized)
		} else {
			result.Column1 = append(result.Column1, normalized)
		}
	}
	return result, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
