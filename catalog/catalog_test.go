package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"cinema-booking-cli/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	movies     []model.Movie
	showtimes  []model.Showtime
	err        error
	movieCalls int
	showCalls  int
}

func (f *fakeSource) ListMovies(ctx context.Context) ([]model.Movie, error) {
	f.movieCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.movies, nil
}

func (f *fakeSource) ListShowtimes(ctx context.Context) ([]model.Showtime, error) {
	f.showCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.showtimes, nil
}

func setTestCacheDir(t *testing.T) {
	t.Helper()
	root := t.TempDir()
	t.Setenv("HOME", root)
	t.Setenv("XDG_CONFIG_HOME", root)
	t.Setenv("XDG_CACHE_HOME", root)
}

func TestMovies_UsesFreshFileCache(t *testing.T) {
	setTestCacheDir(t)
	src := &fakeSource{movies: []model.Movie{{Id: 2, Title: "Dune"}, {Id: 1, Title: "alien"}}}
	c := New(src, nil, time.Hour, nil)

	movies, err := c.Movies(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, movies, 2)
	assert.Equal(t, "alien", movies[0].Title)

	_, err = c.Movies(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, src.movieCalls)

	_, err = c.Movies(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 2, src.movieCalls)
}

func TestMovies_ServesStaleCacheWhenAPIFails(t *testing.T) {
	setTestCacheDir(t)
	src := &fakeSource{movies: []model.Movie{{Id: 1, Title: "Dune"}}}
	c := New(src, nil, -time.Second, nil)

	_, err := c.Movies(context.Background(), false)
	require.NoError(t, err)

	src.err = errors.New("connection refused")
	movies, err := c.Movies(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, "Dune", movies[0].Title)

	_, err = c.Movies(context.Background(), true)
	assert.Error(t, err)
}

func TestShowtimesFor_FiltersAndSorts(t *testing.T) {
	setTestCacheDir(t)
	base := time.Date(2026, 2, 3, 18, 0, 0, 0, time.UTC)
	src := &fakeSource{showtimes: []model.Showtime{
		{Id: 3, MovieId: 1, Movie: "Dune", StartTime: base.Add(2 * time.Hour)},
		{Id: 4, MovieId: 2, Movie: "Alien", StartTime: base},
		{Id: 5, MovieId: 1, Movie: "Dune", StartTime: base},
	}}
	c := New(src, nil, time.Hour, nil)

	showtimes, err := c.ShowtimesFor(context.Background(), model.Movie{Id: 1, Title: "Dune"}, false)
	require.NoError(t, err)
	require.Len(t, showtimes, 2)
	assert.Equal(t, int64(5), showtimes[0].Id)
	assert.Equal(t, int64(3), showtimes[1].Id)
}

func TestFilterByMovie_FallsBackToTitle(t *testing.T) {
	showtimes := []model.Showtime{
		{Id: 1, Movie: "Dune "},
		{Id: 2, Movie: "Alien"},
	}
	out := FilterByMovie(showtimes, model.Movie{Id: 9, Title: "dune"})
	require.Len(t, out, 1)
	assert.Equal(t, int64(1), out[0].Id)
}

func TestInvalidate_DropsFileCache(t *testing.T) {
	setTestCacheDir(t)
	src := &fakeSource{movies: []model.Movie{{Id: 1, Title: "Dune"}}}
	c := New(src, nil, time.Hour, nil)

	_, err := c.Movies(context.Background(), false)
	require.NoError(t, err)
	require.NoError(t, c.Invalidate(context.Background()))

	_, err = c.Movies(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 2, src.movieCalls)
}
