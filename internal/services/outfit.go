package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/ootdlab/ootd-backend/internal/clients/weather"
	"github.com/ootdlab/ootd-backend/internal/logger"
	"github.com/ootdlab/ootd-backend/internal/outfit"
	"github.com/ootdlab/ootd-backend/internal/requestdata"
)

var ErrSessionNotFound = errors.New("outfit session not found")

// CellView is one cell of a session layout with its resolved current item.
type CellView struct {
	ID            string        `json:"id"`
	Column        int           `json:"column"`
	Flex          float64       `json:"flex"`
	Position      int           `json:"position"`
	Subcategories []string      `json:"subcategories"`
	ItemIndex     int           `json:"item_index"`
	Recommended   bool          `json:"recommended"`
	Item          *CellItemView `json:"item,omitempty"`
}

type CellItemView struct {
	ID          uuid.UUID `json:"id"`
	Category    string    `json:"category"`
	Subcategory string    `json:"subcategory,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
}

type SessionView struct {
	SessionID      uuid.UUID              `json:"session_id"`
	State          string                 `json:"state"`
	UmbrellaAdvice string                 `json:"umbrella_advice"`
	Weather        *outfit.WeatherContext `json:"weather,omitempty"`
	Cells          []CellView             `json:"cells"`
}

type OutfitService interface {
	StartSession(ctx context.Context, lat, lon float64) (*SessionView, error)
	GetSession(ctx context.Context, sessionID uuid.UUID) (*SessionView, error)
	CycleItem(ctx context.Context, sessionID uuid.UUID, cellID string, dir outfit.Direction) (*SessionView, error)
	Resize(ctx context.Context, sessionID uuid.UUID, cellID string, delta float64) (*SessionView, error)
	SwitchColumn(ctx context.Context, sessionID uuid.UUID, cellID string) (*SessionView, error)
	ReplaceCategory(ctx context.Context, sessionID uuid.UUID, cellID string, subcats []string) (*SessionView, error)
	AddCategory(ctx context.Context, sessionID uuid.UUID, subcats []string) (*SessionView, error)
	DeleteCategory(ctx context.Context, sessionID uuid.UUID, cellID string) (*SessionView, error)
	Save(ctx context.Context, sessionID uuid.UUID) (uuid.UUID, error)
	GetOutfit(ctx context.Context, outfitID uuid.UUID) (*PersistedOutfit, error)
}

// sessionEntry guards one engine. The engine itself is single-owner and
// unsynchronized; mu serializes concurrent HTTP requests targeting the same
// session id.
type sessionEntry struct {
	mu       sync.Mutex
	engine   *outfit.Engine
	userID   uuid.UUID
	lastUsed time.Time
}

type outfitService struct {
	log             *logger.Logger
	weatherService  WeatherService
	wardrobeService WardrobeService
	store           LayoutStore
	rnd             *outfit.Randomizer

	mu       sync.Mutex
	sessions map[uuid.UUID]*sessionEntry
}

func NewOutfitService(
	log *logger.Logger,
	weatherService WeatherService,
	wardrobeService WardrobeService,
	store LayoutStore,
	rnd *outfit.Randomizer,
) OutfitService {
	serviceLog := log.With("service", "OutfitService")
	return &outfitService{
		log:             serviceLog,
		weatherService:  weatherService,
		wardrobeService: wardrobeService,
		store:           store,
		rnd:             rnd,
		sessions:        make(map[uuid.UUID]*sessionEntry),
	}
}

// StartSession fetches weather and wardrobe concurrently, feeds both into a
// fresh engine and returns the generated layout. A failure of either fetch
// means the generate precondition is not met and no session is created.
func (s *outfitService) StartSession(ctx context.Context, lat, lon float64) (*SessionView, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("No request data found in context")
	}

	tracer := otel.Tracer("ootd-backend/outfit")
	ctx, span := tracer.Start(ctx, "OutfitService.StartSession",
		trace.WithAttributes(attribute.String("user_id", rd.UserID.String())))
	defer span.End()

	var (
		report *weather.Report
		tags   outfit.TagSet
		items  []outfit.IndexItem
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		report, tags, err = s.weatherService.Current(gctx, lat, lon)
		return err
	})
	g.Go(func() error {
		var err error
		items, err = s.wardrobeService.IndexItems(gctx, rd.UserID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %v", outfit.ErrInputUnavailable, err)
	}

	engine := outfit.NewEngine(rd.UserID, s.rnd, s.log)
	engine.OnWardrobeAvailable(items)
	engine.OnWeatherAvailable(outfit.WeatherContext{
		Temperature: report.Temperature,
		TempMin:     report.TempMin,
		TempMax:     report.TempMax,
		Description: report.Description,
		IconCode:    report.IconCode,
		City:        report.City,
		Date:        time.Now().UTC(),
		Tags:        tags,
	})

	// Build the view before the session is published; once it is in the map
	// other requests may reach the engine.
	sessionID := uuid.New()
	view := s.view(sessionID, engine)

	s.mu.Lock()
	s.pruneLocked()
	s.sessions[sessionID] = &sessionEntry{
		engine:   engine,
		userID:   rd.UserID,
		lastUsed: time.Now(),
	}
	s.mu.Unlock()

	s.log.Info("Outfit session started", "session_id", sessionID.String(), "cells", len(view.Cells))
	return view, nil
}

func (s *outfitService) GetSession(ctx context.Context, sessionID uuid.UUID) (*SessionView, error) {
	entry, err := s.entryFor(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return s.view(sessionID, entry.engine), nil
}

func (s *outfitService) CycleItem(ctx context.Context, sessionID uuid.UUID, cellID string, dir outfit.Direction) (*SessionView, error) {
	entry, err := s.entryFor(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.engine.CycleItem(cellID, dir)
	return s.view(sessionID, entry.engine), nil
}

func (s *outfitService) Resize(ctx context.Context, sessionID uuid.UUID, cellID string, delta float64) (*SessionView, error) {
	entry, err := s.entryFor(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.engine.Resize(cellID, delta)
	return s.view(sessionID, entry.engine), nil
}

func (s *outfitService) SwitchColumn(ctx context.Context, sessionID uuid.UUID, cellID string) (*SessionView, error) {
	entry, err := s.entryFor(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.engine.SwitchColumn(cellID)
	return s.view(sessionID, entry.engine), nil
}

func (s *outfitService) ReplaceCategory(ctx context.Context, sessionID uuid.UUID, cellID string, subcats []string) (*SessionView, error) {
	entry, err := s.entryFor(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.engine.ReplaceCategory(cellID, subcats)
	return s.view(sessionID, entry.engine), nil
}

func (s *outfitService) AddCategory(ctx context.Context, sessionID uuid.UUID, subcats []string) (*SessionView, error) {
	entry, err := s.entryFor(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.engine.AddCategory(subcats)
	return s.view(sessionID, entry.engine), nil
}

func (s *outfitService) DeleteCategory(ctx context.Context, sessionID uuid.UUID, cellID string) (*SessionView, error) {
	entry, err := s.entryFor(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.engine.DeleteCategory(cellID)
	return s.view(sessionID, entry.engine), nil
}

func (s *outfitService) Save(ctx context.Context, sessionID uuid.UUID) (uuid.UUID, error) {
	entry, err := s.entryFor(ctx, sessionID)
	if err != nil {
		return uuid.Nil, err
	}
	tracer := otel.Tracer("ootd-backend/outfit")
	ctx, span := tracer.Start(ctx, "OutfitService.Save",
		trace.WithAttributes(attribute.String("session_id", sessionID.String())))
	defer span.End()

	// The lock is held across the store round-trip: a concurrent mutation
	// against a session mid-save has no defined meaning.
	entry.mu.Lock()
	defer entry.mu.Unlock()
	outfitID, err := entry.engine.Save(ctx, s.store)
	if err != nil {
		span.RecordError(err)
		return uuid.Nil, err
	}
	return outfitID, nil
}

func (s *outfitService) GetOutfit(ctx context.Context, outfitID uuid.UUID) (*PersistedOutfit, error) {
	return s.store.Load(ctx, outfitID)
}

// entryFor resolves a session and enforces that the acting user owns it.
// Foreign or unknown sessions are indistinguishable to the caller.
func (s *outfitService) entryFor(ctx context.Context, sessionID uuid.UUID) (*sessionEntry, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("No request data found in context")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[sessionID]
	if !ok || entry.userID != rd.UserID {
		return nil, ErrSessionNotFound
	}
	entry.lastUsed = time.Now()
	return entry, nil
}

// pruneLocked drops sessions idle past the deadline. Saved sessions are kept
// until they expire too, so a duplicate save still reports ErrOutfitExists.
func (s *outfitService) pruneLocked() {
	cutoff := time.Now().Add(-outfit.SessionDeadline)
	for id, entry := range s.sessions {
		if entry.lastUsed.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}

func (s *outfitService) view(sessionID uuid.UUID, engine *outfit.Engine) *SessionView {
	cells := engine.Cells()
	views := make([]CellView, 0, len(cells))
	for _, c := range cells {
		view := CellView{
			ID:            c.ID,
			Column:        c.Column,
			Flex:          c.Flex,
			Position:      c.Position,
			Subcategories: c.Subcategories,
			ItemIndex:     c.ItemIndex,
			Recommended:   c.Recommended,
		}
		if item, ok := engine.CurrentItem(c.ID); ok {
			view.Item = &CellItemView{
				ID:          item.ID,
				Category:    item.Category,
				Subcategory: item.Subcategory,
				ImageURL:    item.ImageURL,
			}
		}
		views = append(views, view)
	}
	return &SessionView{
		SessionID:      sessionID,
		State:          engine.State().String(),
		UmbrellaAdvice: string(engine.UmbrellaAdvice()),
		Weather:        engine.Weather(),
		Cells:          views,
	}
}
