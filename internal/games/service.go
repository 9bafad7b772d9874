package games

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"gamevault/internal/cache"
	"gamevault/internal/rawg"
	"gamevault/pkg/models"
)

const (
	cacheKeyPrefix = "game:"
	cacheTTL       = 3600 * time.Second
)

// Provider is the external metadata source consulted when a title is
// unknown locally. A single call, no retries; failures surface as
// ErrUpstreamUnavailable.
type Provider interface {
	Search(ctx context.Context, title string) ([]rawg.Candidate, error)
}

// Service resolves titles through the cache -> store -> provider cascade
// and serves filtered, paginated listings.
type Service struct {
	repo     *Repo
	cache    cache.Cache
	provider Provider
	flight   singleflight.Group
}

func NewService(repo *Repo, c cache.Cache, p Provider) *Service {
	return &Service{repo: repo, cache: c, provider: p}
}

// NormalizeTitle produces the canonical matching/cache form of a title.
func NormalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// Resolve returns the catalog record for title, enriching the catalog
// from the external provider on a full miss. The cache is consulted
// first; everything behind it runs single-flight per normalized title,
// so concurrent cold-start lookups share one provider call and insert.
func (s *Service) Resolve(ctx context.Context, title string) (*models.Game, error) {
	normalized := NormalizeTitle(title)
	cacheKey := cacheKeyPrefix + normalized

	if v, ok, err := s.cache.Get(ctx, cacheKey); err != nil {
		// a broken cache only costs the round trip
		log.Printf("games: cache get %q: %v", cacheKey, err)
	} else if ok {
		var g models.Game
		if err := json.Unmarshal([]byte(v), &g); err == nil {
			return &g, nil
		}
		log.Printf("games: stale cache entry %q dropped", cacheKey)
	}

	v, err, _ := s.flight.Do(normalized, func() (any, error) {
		return s.resolveUncached(ctx, title, normalized, cacheKey)
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.Game), nil
}

func (s *Service) resolveUncached(ctx context.Context, rawTitle, normalized, cacheKey string) (*models.Game, error) {
	g, err := s.repo.GetByNormalizedTitle(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if g != nil {
		s.fillCache(ctx, cacheKey, g)
		return g, nil
	}

	// provider gets the raw title; only matching uses the normalized form
	candidates, err := s.provider.Search(ctx, rawTitle)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: no results for title %q", ErrNotFound, rawTitle)
	}

	// provider ranking is trusted: first candidate wins
	cand := candidates[0]
	g = &models.Game{
		Title:       cand.Name,
		Description: cand.Description,
		Platforms:   strings.Join(cand.PlatformNames(), ", "),
		ReleaseDate: cand.Released,
		Rating:      cand.Rating,
		ImageURL:    cand.BackgroundImage,
	}

	if err := s.repo.Insert(ctx, g); err != nil {
		if errors.Is(err, ErrTitleExists) {
			// a concurrent resolver won the insert; return its record
			winner, readErr := s.repo.GetByNormalizedTitle(ctx, normalized)
			if readErr == nil && winner != nil {
				s.fillCache(ctx, cacheKey, winner)
				return winner, nil
			}
		}
		return nil, err
	}

	s.fillCache(ctx, cacheKey, g)
	return g, nil
}

// fillCache is best-effort: the store is the system of record, so a
// failed cache write is logged and swallowed.
func (s *Service) fillCache(ctx context.Context, key string, g *models.Game) {
	b, err := json.Marshal(g)
	if err != nil {
		log.Printf("games: marshal for cache %q: %v", key, err)
		return
	}
	if err := s.cache.Set(ctx, key, string(b), cacheTTL); err != nil {
		log.Printf("games: cache set %q: %v", key, err)
	}
}

// ListParams carries listing filters and pagination exactly as given;
// defaulting and clamping happen at the HTTP boundary.
type ListParams struct {
	Name     string
	Platform string
	Page     int
	Limit    int
}

type ListResult struct {
	Games      []models.Game `json:"games"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	TotalPages int           `json:"totalPages"`
}

// List returns one page of games matching the optional name/platform
// filters. Total is counted before pagination so TotalPages reflects
// the whole filtered set; zero matches mean zero pages.
func (s *Service) List(ctx context.Context, p ListParams) (*ListResult, error) {
	q := ListQuery{
		Name:     p.Name,
		Platform: p.Platform,
		Limit:    p.Limit,
		Offset:   (p.Page - 1) * p.Limit,
	}

	total, err := s.repo.Count(ctx, q)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}

	totalPages := 0
	if p.Limit > 0 {
		totalPages = (total + p.Limit - 1) / p.Limit
	}

	return &ListResult{
		Games:      items,
		Total:      total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: totalPages,
	}, nil
}
