package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"time"

	"cinema-booking-cli/auth"
	"cinema-booking-cli/config"
	"cinema-booking-cli/model"
)

const (
	maxRecentShowtimes = 8
	sessionFile        = "session.json"
)

type cacheEnvelope[T any] struct {
	UpdatedAt time.Time `json:"updated_at"`
	Data      T         `json:"data"`
}

type RecentShowtime struct {
	ShowtimeID int64     `json:"showtime_id"`
	Movie      string    `json:"movie"`
	Hall       string    `json:"hall"`
	StartTime  time.Time `json:"start_time"`
}

type showtimeHistory struct {
	Showtimes []RecentShowtime `json:"showtimes"`
}

type movieVisibility struct {
	Hidden []int64 `json:"hidden"`
}

// LoadMovieCache returns the cached movie list and whether it is younger
// than maxAge.
func LoadMovieCache(maxAge time.Duration) ([]model.Movie, bool, error) {
	path, err := cachePath("movies.json")
	if err != nil {
		return nil, false, err
	}
	cache, err := loadCache[[]model.Movie](path)
	if err != nil {
		return nil, false, err
	}
	return cache.Data, fresh(cache.UpdatedAt, maxAge), nil
}

func SaveMovieCache(movies []model.Movie) error {
	path, err := cachePath("movies.json")
	if err != nil {
		return err
	}
	return saveCache(path, movies)
}

func LoadShowtimeCache(maxAge time.Duration) ([]model.Showtime, bool, error) {
	path, err := cachePath("showtimes.json")
	if err != nil {
		return nil, false, err
	}
	cache, err := loadCache[[]model.Showtime](path)
	if err != nil {
		return nil, false, err
	}
	return cache.Data, fresh(cache.UpdatedAt, maxAge), nil
}

func SaveShowtimeCache(showtimes []model.Showtime) error {
	path, err := cachePath("showtimes.json")
	if err != nil {
		return err
	}
	return saveCache(path, showtimes)
}

// ClearCatalogCache drops the cached movies and showtimes so the next read
// goes to the API.
func ClearCatalogCache() error {
	for _, name := range []string{"movies.json", "showtimes.json"} {
		path, err := cachePath(name)
		if err != nil {
			return err
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

func LoadRecentShowtimes() ([]RecentShowtime, error) {
	path, err := configPath("history.json")
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var history showtimeHistory
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, errors.New("invalid showtime history format")
	}
	return history.Showtimes, nil
}

// RememberShowtime moves showtime to the front of the history.
func RememberShowtime(showtime model.Showtime) error {
	if showtime.Id <= 0 {
		return errors.New("showtime id is required")
	}
	history, _ := LoadRecentShowtimes()
	next := []RecentShowtime{{
		ShowtimeID: showtime.Id,
		Movie:      showtime.Movie,
		Hall:       showtime.Hall,
		StartTime:  showtime.StartTime,
	}}

	for _, existing := range history {
		if existing.ShowtimeID == showtime.Id {
			continue
		}
		next = append(next, existing)
		if len(next) >= maxRecentShowtimes {
			break
		}
	}

	return writeJSON(configPath, "history.json", showtimeHistory{Showtimes: next})
}

func LoadHiddenMovies() (map[int64]bool, error) {
	visibility, err := loadMovieVisibility()
	if err != nil {
		return nil, err
	}
	result := make(map[int64]bool, len(visibility.Hidden))
	for _, id := range visibility.Hidden {
		if id > 0 {
			result[id] = true
		}
	}
	return result, nil
}

func SetMovieHidden(movieID int64, hidden bool) error {
	if movieID <= 0 {
		return errors.New("movie id is required")
	}

	visibility, err := loadMovieVisibility()
	if err != nil {
		return err
	}

	index := -1
	for i, id := range visibility.Hidden {
		if id == movieID {
			index = i
			break
		}
	}

	if hidden {
		if index < 0 {
			visibility.Hidden = append(visibility.Hidden, movieID)
		}
	} else if index >= 0 {
		visibility.Hidden = append(visibility.Hidden[:index], visibility.Hidden[index+1:]...)
	}

	sort.Slice(visibility.Hidden, func(i, j int) bool { return visibility.Hidden[i] < visibility.Hidden[j] })
	return writeJSON(configPath, "movie_visibility.json", visibility)
}

// LoadSession returns the stored login. ok is false when nobody is logged in.
func LoadSession() (auth.Session, bool, error) {
	path, err := configPath(sessionFile)
	if err != nil {
		return auth.Session{}, false, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return auth.Session{}, false, nil
		}
		return auth.Session{}, false, err
	}
	var session auth.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return auth.Session{}, false, errors.New("invalid session format")
	}
	return session, session.Access != "", nil
}

func SaveSession(session auth.Session) error {
	path, err := configPath(sessionFile)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	payload, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o600)
}

func ClearSession() error {
	path, err := configPath(sessionFile)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func fresh(updatedAt time.Time, maxAge time.Duration) bool {
	if updatedAt.IsZero() {
		return false
	}
	return time.Since(updatedAt) <= maxAge
}

func loadCache[T any](path string) (cacheEnvelope[T], error) {
	var cache cacheEnvelope[T]
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cache, nil
		}
		return cache, err
	}
	if err := json.Unmarshal(data, &cache); err != nil {
		return cache, err
	}
	return cache, nil
}

func saveCache[T any](path string, data T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	cache := cacheEnvelope[T]{
		UpdatedAt: time.Now(),
		Data:      data,
	}
	payload, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o644)
}

func loadMovieVisibility() (movieVisibility, error) {
	path, err := configPath("movie_visibility.json")
	if err != nil {
		return movieVisibility{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return movieVisibility{}, nil
		}
		return movieVisibility{}, err
	}

	var visibility movieVisibility
	if err := json.Unmarshal(data, &visibility); err != nil {
		return movieVisibility{}, errors.New("invalid movie visibility format")
	}
	return visibility, nil
}

func writeJSON(pathFor func(string) (string, error), name string, value any) error {
	path, err := pathFor(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o644)
}

func configPath(name string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, config.AppName, name), nil
}

func cachePath(name string) (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, config.AppName, name), nil
}
