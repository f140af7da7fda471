package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"cinema-booking-cli/model"
)

// CreateMovie adds a movie to the catalog. Staff only.
func (c *Client) CreateMovie(ctx context.Context, in model.MovieInput) (model.Movie, error) {
	if err := c.validate.Struct(in); err != nil {
		return model.Movie{}, fmt.Errorf("invalid movie: %w", err)
	}
	var movie model.Movie
	if err := c.sendJSON(ctx, http.MethodPost, c.endpoint("/movies/"), in, &movie, nil); err != nil {
		return model.Movie{}, err
	}
	return movie, nil
}

func (c *Client) DeleteMovie(ctx context.Context, movieID int64) error {
	if movieID <= 0 {
		return errors.New("movie id is required")
	}
	return c.sendJSON(ctx, http.MethodDelete, c.endpoint("/movies/%d/", movieID), nil, nil, nil)
}

func (c *Client) ListHalls(ctx context.Context) ([]model.Hall, error) {
	return getList[model.Hall](ctx, c, c.endpoint("/halls/"))
}

func (c *Client) CreateHall(ctx context.Context, in model.HallInput) (model.Hall, error) {
	if err := c.validate.Struct(in); err != nil {
		return model.Hall{}, fmt.Errorf("invalid hall: %w", err)
	}
	var hall model.Hall
	if err := c.sendJSON(ctx, http.MethodPost, c.endpoint("/halls/"), in, &hall, nil); err != nil {
		return model.Hall{}, err
	}
	return hall, nil
}

// CreateShowtime schedules a showtime. The caller computes EndTime from the
// movie duration.
func (c *Client) CreateShowtime(ctx context.Context, in model.ShowtimeInput) (model.Showtime, error) {
	if err := c.validate.Struct(in); err != nil {
		return model.Showtime{}, fmt.Errorf("invalid showtime: %w", err)
	}
	var showtime model.Showtime
	if err := c.sendJSON(ctx, http.MethodPost, c.endpoint("/showtimes/"), in, &showtime, nil); err != nil {
		return model.Showtime{}, err
	}
	return showtime, nil
}

func (c *Client) DeleteShowtime(ctx context.Context, showtimeID int64) error {
	if showtimeID <= 0 {
		return errors.New("showtime id is required")
	}
	return c.sendJSON(ctx, http.MethodDelete, c.endpoint("/showtimes/%d/", showtimeID), nil, nil, nil)
}

// GetStats returns the back-office statistics.
func (c *Client) GetStats(ctx context.Context) (model.Stats, error) {
	var stats model.Stats
	if err := c.getJSON(ctx, c.endpoint("/admin/stats/"), &stats); err != nil {
		return model.Stats{}, err
	}
	return stats, nil
}
