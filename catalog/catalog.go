// Package catalog serves the movie and showtime lists used for browsing,
// reading through the local file cache and the optional shared Redis cache
// before calling the Booking API.
package catalog

import (
	"context"
	"sort"
	"strings"
	"time"

	"cinema-booking-cli/logger"
	"cinema-booking-cli/model"
	"cinema-booking-cli/store"
)

const (
	moviesKey    = "movies"
	showtimesKey = "showtimes"
)

type Source interface {
	ListMovies(ctx context.Context) ([]model.Movie, error)
	ListShowtimes(ctx context.Context) ([]model.Showtime, error)
}

type Catalog struct {
	src    Source
	shared *store.SharedCache
	ttl    time.Duration
	log    *logger.Logger
}

// New builds a catalog. shared may be nil.
func New(src Source, shared *store.SharedCache, ttl time.Duration, log *logger.Logger) *Catalog {
	if log == nil {
		log = logger.Nop()
	}
	return &Catalog{src: src, shared: shared, ttl: ttl, log: log.WithComponent("catalog")}
}

// Movies returns the movie list. With refresh set the caches are skipped.
func (c *Catalog) Movies(ctx context.Context, refresh bool) ([]model.Movie, error) {
	movies, err := readThrough(ctx, c, moviesKey, refresh, store.LoadMovieCache, store.SaveMovieCache, c.src.ListMovies)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(movies, func(i, j int) bool {
		return strings.ToLower(movies[i].Title) < strings.ToLower(movies[j].Title)
	})
	return movies, nil
}

// Showtimes returns every showtime ordered by start time.
func (c *Catalog) Showtimes(ctx context.Context, refresh bool) ([]model.Showtime, error) {
	showtimes, err := readThrough(ctx, c, showtimesKey, refresh, store.LoadShowtimeCache, store.SaveShowtimeCache, c.src.ListShowtimes)
	if err != nil {
		return nil, err
	}
	sortShowtimes(showtimes)
	return showtimes, nil
}

// ShowtimesFor returns the showtimes of movie ordered by start time.
func (c *Catalog) ShowtimesFor(ctx context.Context, movie model.Movie, refresh bool) ([]model.Showtime, error) {
	showtimes, err := c.Showtimes(ctx, refresh)
	if err != nil {
		return nil, err
	}
	return FilterByMovie(showtimes, movie), nil
}

// Invalidate drops every cached list, used after admin changes.
func (c *Catalog) Invalidate(ctx context.Context) error {
	if err := store.ClearCatalogCache(); err != nil {
		return err
	}
	return c.shared.Delete(ctx, moviesKey, showtimesKey)
}

// FilterByMovie keeps the showtimes that belong to movie, matching by id
// when the API sent one and by title otherwise.
func FilterByMovie(showtimes []model.Showtime, movie model.Movie) []model.Showtime {
	var out []model.Showtime
	for _, showtime := range showtimes {
		if showtime.MovieId != 0 && movie.Id != 0 {
			if showtime.MovieId == movie.Id {
				out = append(out, showtime)
			}
			continue
		}
		if strings.EqualFold(strings.TrimSpace(showtime.Movie), strings.TrimSpace(movie.Title)) {
			out = append(out, showtime)
		}
	}
	sortShowtimes(out)
	return out
}

func sortShowtimes(showtimes []model.Showtime) {
	sort.SliceStable(showtimes, func(i, j int) bool {
		if showtimes[i].StartTime.Equal(showtimes[j].StartTime) {
			return showtimes[i].Id < showtimes[j].Id
		}
		return showtimes[i].StartTime.Before(showtimes[j].StartTime)
	})
}

func readThrough[T any](
	ctx context.Context,
	c *Catalog,
	key string,
	refresh bool,
	load func(time.Duration) ([]T, bool, error),
	save func([]T) error,
	fetch func(context.Context) ([]T, error),
) ([]T, error) {
	cached, fresh, cacheErr := load(c.ttl)
	if cacheErr != nil {
		c.log.Warn("read file cache", "key", key, "error", cacheErr)
	}
	if !refresh {
		if fresh && len(cached) > 0 {
			return cached, nil
		}
		var shared []T
		found, err := c.shared.GetJSON(ctx, key, &shared)
		if err != nil {
			c.log.Warn("read shared cache", "key", key, "error", err)
		}
		if found {
			if err := save(shared); err != nil {
				c.log.Warn("write file cache", "key", key, "error", err)
			}
			return shared, nil
		}
	}

	items, err := fetch(ctx)
	if err != nil {
		if !refresh && len(cached) > 0 && ctx.Err() == nil {
			c.log.Warn("api unavailable, serving stale cache", "key", key, "error", err)
			return cached, nil
		}
		return nil, err
	}
	if err := save(items); err != nil {
		c.log.Warn("write file cache", "key", key, "error", err)
	}
	if err := c.shared.SetJSON(ctx, key, items, c.ttl); err != nil {
		c.log.Warn("write shared cache", "key", key, "error", err)
	}
	return items, nil
}
