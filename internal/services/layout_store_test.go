package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ootdlab/ootd-backend/internal/logger"
	"github.com/ootdlab/ootd-backend/internal/outfit"
	"github.com/ootdlab/ootd-backend/internal/repos"
	"github.com/ootdlab/ootd-backend/internal/types"
)

// The production schema leans on postgres defaults (uuid_generate_v4, now),
// so tests create a minimal sqlite twin of it by hand. All ids are assigned
// in code, which is also what LayoutStore does.
var testSchema = []string{
	`CREATE TABLE weather_snapshot (
		id TEXT PRIMARY KEY,
		city TEXT,
		date DATETIME,
		temp_min REAL,
		temp_max REAL,
		description TEXT,
		icon_code TEXT,
		created_at DATETIME
	)`,
	`CREATE TABLE outfit (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		date DATETIME NOT NULL,
		weather_snapshot_id TEXT NOT NULL,
		created_at DATETIME
	)`,
	`CREATE UNIQUE INDEX idx_outfit_user_date ON outfit(user_id, date)`,
	`CREATE TABLE outfit_cell (
		id TEXT PRIMARY KEY,
		outfit_id TEXT NOT NULL,
		cell_key TEXT NOT NULL,
		grid_column INTEGER NOT NULL,
		flex REAL NOT NULL,
		position INTEGER NOT NULL,
		subcategories TEXT,
		item_index INTEGER NOT NULL DEFAULT 0,
		recommended NUMERIC NOT NULL DEFAULT 0,
		created_at DATETIME
	)`,
	`CREATE TABLE outfit_item_link (
		id TEXT PRIMARY KEY,
		outfit_id TEXT NOT NULL,
		item_id TEXT NOT NULL,
		cell_key TEXT NOT NULL,
		created_at DATETIME
	)`,
	`CREATE TABLE wardrobe_item (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		category TEXT NOT NULL,
		subcategory TEXT,
		image_url TEXT,
		available NUMERIC NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	)`,
}

func newTestStore(t *testing.T) (LayoutStore, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	// One connection, or the in-memory database vanishes between calls.
	sqlDB.SetMaxOpenConns(1)
	for _, stmt := range testSchema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("schema: %v", err)
		}
	}
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	store := NewLayoutStore(
		db,
		log,
		repos.NewOutfitRepo(db, log),
		repos.NewWeatherSnapshotRepo(db, log),
		repos.NewWardrobeItemRepo(db, log),
	)
	return store, db
}

func samplePairs(itemIDs map[string]uuid.UUID) []outfit.CellPair {
	pairs := []outfit.CellPair{
		{Cell: outfit.Cell{ID: "hat", Column: 1, Flex: 0.8, Position: 0, Subcategories: []string{"Шапки"}, Recommended: true}},
		{Cell: outfit.Cell{ID: "outerwear", Column: 1, Flex: 1.7, Position: 1, Subcategories: []string{"Пуховики"}, Recommended: true}},
		{Cell: outfit.Cell{ID: "shoes", Column: 1, Flex: 1.5, Position: 2, Subcategories: []string{"Черевики"}, Recommended: true}},
		{Cell: outfit.Cell{ID: "bottom", Column: 2, Flex: 4.0, Position: 0, Subcategories: []string{"Штани"}, Recommended: true}},
	}
	for i := range pairs {
		if id, ok := itemIDs[pairs[i].Cell.ID]; ok {
			itemID := id
			pairs[i].ItemID = &itemID
		}
	}
	return pairs
}

func sampleWeather() outfit.WeatherContext {
	return outfit.WeatherContext{
		Temperature: -10,
		TempMin:     -14,
		TempMax:     -8,
		Description: "light snow",
		IconCode:    "13d",
		City:        "Київ",
		Date:        time.Date(2026, 1, 15, 7, 30, 0, 0, time.UTC),
	}
}

func TestLayoutStore_PersistAndLoadRoundTrip(t *testing.T) {
	store, db := newTestStore(t)
	ctx := context.Background()
	userID := uuid.New()

	sub := "Черевики"
	item := &types.WardrobeItem{
		ID:          uuid.New(),
		UserID:      userID,
		Category:    "Взуття",
		Subcategory: &sub,
		ImageURL:    "https://img.example/boots.jpg",
		Available:   true,
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("seed item: %v", err)
	}

	weather := sampleWeather()
	pairs := samplePairs(map[string]uuid.UUID{"shoes": item.ID})

	outfitID, err := store.Persist(ctx, weather, userID, weather.Date, pairs)
	if err != nil {
		t.Fatalf("Persist: %v", err)
	}
	if outfitID == uuid.Nil {
		t.Fatal("Persist returned a nil outfit id")
	}

	exists, err := store.PrecheckExists(ctx, userID, weather.Date)
	if err != nil {
		t.Fatalf("PrecheckExists: %v", err)
	}
	if !exists {
		t.Error("PrecheckExists = false after Persist")
	}
	// A different timestamp on the same calendar day is the same date.
	exists, err = store.PrecheckExists(ctx, userID, weather.Date.Add(9*time.Hour))
	if err != nil || !exists {
		t.Errorf("PrecheckExists on same day = %v, %v; want true", exists, err)
	}

	loaded, err := store.Load(ctx, outfitID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.UserID != userID {
		t.Errorf("user id = %s, want %s", loaded.UserID, userID)
	}
	if len(loaded.Column1) != 3 || len(loaded.Column2) != 1 {
		t.Fatalf("column split = %d/%d, want 3/1", len(loaded.Column1), len(loaded.Column2))
	}
	for i, cell := range loaded.Column1 {
		if cell.Position != i {
			t.Errorf("column1[%d].Position = %d, want %d", i, cell.Position, i)
		}
	}
	if loaded.Column1[0].CellKey != "hat" || loaded.Column1[0].Flex != 0.8 {
		t.Errorf("column1[0] = %+v, want hat flex 0.8", loaded.Column1[0])
	}
	if loaded.Column2[0].CellKey != "bottom" || loaded.Column2[0].Flex != 4.0 {
		t.Errorf("column2[0] = %+v, want bottom flex 4", loaded.Column2[0])
	}
	if len(loaded.Column1[0].Subcategories) != 1 || loaded.Column1[0].Subcategories[0] != "Шапки" {
		t.Errorf("subcategories = %v, want [Шапки]", loaded.Column1[0].Subcategories)
	}

	shoes := loaded.Column1[2]
	if shoes.Item == nil {
		t.Fatal("shoes cell lost its item link")
	}
	if shoes.Item.ID != item.ID || shoes.Item.Placeholder {
		t.Errorf("shoes item = %+v, want linked item %s", shoes.Item, item.ID)
	}
	if shoes.Item.Subcategory != "Черевики" {
		t.Errorf("item subcategory = %q", shoes.Item.Subcategory)
	}
	// Cells without a resolved item carry no item at all.
	if loaded.Column1[0].Item != nil {
		t.Error("hat cell has an item without a link")
	}

	if loaded.Weather.City != "Київ" || loaded.Weather.IconCode != "13d" {
		t.Errorf("weather snapshot = %+v", loaded.Weather)
	}
}

func TestLayoutStore_DuplicateDateRejected(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	userID := uuid.New()
	weather := sampleWeather()

	if _, err := store.Persist(ctx, weather, userID, weather.Date, samplePairs(nil)); err != nil {
		t.Fatalf("first Persist: %v", err)
	}
	// Same user, same day, different wall clock: the unique index rejects it.
	if _, err := store.Persist(ctx, weather, userID, weather.Date.Add(3*time.Hour), samplePairs(nil)); err == nil {
		t.Fatal("second Persist for the same day succeeded")
	}
	// Another user saves the same day freely.
	if _, err := store.Persist(ctx, weather, uuid.New(), weather.Date, samplePairs(nil)); err != nil {
		t.Fatalf("other user Persist: %v", err)
	}
}

func TestLayoutStore_PositionsRenumberedPerColumn(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	weather := sampleWeather()

	// In-session column switches leave gaps and duplicates; persistence must
	// renumber so each column is dense from zero.
	pairs := []outfit.CellPair{
		{Cell: outfit.Cell{ID: "a", Column: 1, Flex: 1, Position: 2}},
		{Cell: outfit.Cell{ID: "b", Column: 2, Flex: 1, Position: 2}},
		{Cell: outfit.Cell{ID: "c", Column: 1, Flex: 1, Position: 2}},
		{Cell: outfit.Cell{ID: "d", Column: 2, Flex: 1, Position: 0}},
	}
	outfitID, err := store.Persist(ctx, weather, uuid.New(), weather.Date, pairs)
	if err != nil {
		t.Fatalf("Persist: %v", err)
	}
	loaded, err := store.Load(ctx, outfitID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for _, column := range [][]PersistedCell{loaded.Column1, loaded.Column2} {
		for i, cell := range column {
			if cell.Position != i {
				t.Errorf("cell %s position = %d, want %d", cell.CellKey, cell.Position, i)
			}
		}
	}
	if loaded.Column1[0].CellKey != "a" || loaded.Column1[1].CellKey != "c" {
		t.Errorf("column1 order = %s,%s; want a,c (payload order kept)", loaded.Column1[0].CellKey, loaded.Column1[1].CellKey)
	}
}

func TestLayoutStore_DeletedItemBecomesPlaceholder(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	weather := sampleWeather()

	ghostID := uuid.New()
	pairs := samplePairs(map[string]uuid.UUID{"shoes": ghostID})
	outfitID, err := store.Persist(ctx, weather, uuid.New(), weather.Date, pairs)
	if err != nil {
		t.Fatalf("Persist: %v", err)
	}
	loaded, err := store.Load(ctx, outfitID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	shoes := loaded.Column1[2]
	if shoes.Item == nil {
		t.Fatal("link to a deleted item vanished entirely")
	}
	if !shoes.Item.Placeholder || shoes.Item.ID != ghostID {
		t.Errorf("item = %+v, want placeholder for %s", shoes.Item, ghostID)
	}
}

func TestLayoutStore_LoadUnknownOutfit(t *testing.T) {
	store, _ := newTestStore(t)
	if _, err := store.Load(context.Background(), uuid.New()); !errors.Is(err, ErrOutfitNotFound) {
		t.Fatalf("error = %v, want ErrOutfitNotFound", err)
	}
}
