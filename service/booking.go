package service

import (
	"context"
	"errors"
	"net/http"

	"cinema-booking-cli/model"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

func newRequestID() string {
	return uuid.NewString()
}

// ListMovies returns the movie catalog.
func (c *Client) ListMovies(ctx context.Context) ([]model.Movie, error) {
	return getList[model.Movie](ctx, c, c.endpoint("/movies/"))
}

// GetMovie fetches a single movie.
func (c *Client) GetMovie(ctx context.Context, movieID int64) (model.Movie, error) {
	if movieID <= 0 {
		return model.Movie{}, errors.New("movie id is required")
	}
	var movie model.Movie
	if err := c.getJSON(ctx, c.endpoint("/movies/%d/", movieID), &movie); err != nil {
		return model.Movie{}, err
	}
	return movie, nil
}

// ListShowtimes returns every scheduled showtime.
func (c *Client) ListShowtimes(ctx context.Context) ([]model.Showtime, error) {
	return getList[model.Showtime](ctx, c, c.endpoint("/showtimes/"))
}

// GetShowtimeSeats fetches the seat snapshot of a showtime.
func (c *Client) GetShowtimeSeats(ctx context.Context, showtimeID int64) ([]model.Seat, error) {
	if showtimeID <= 0 {
		return nil, errors.New("showtime id is required")
	}
	return getList[model.Seat](ctx, c, c.endpoint("/showtime/%d/seats", showtimeID))
}

// CreateReservation submits a reservation. Each call carries a fresh request
// id; the request is not retried.
func (c *Client) CreateReservation(ctx context.Context, req model.ReservationRequest) (model.Reservation, error) {
	if req.ShowtimeId <= 0 {
		return model.Reservation{}, errors.New("showtime id is required")
	}
	if len(req.SeatIds) == 0 {
		return model.Reservation{}, errors.New("at least one seat is required")
	}
	requestID := c.newID()
	var reservation model.Reservation
	err := c.sendJSON(ctx, http.MethodPost, c.endpoint("/reservations/"), req, &reservation, map[string]string{
		requestIDHeader: requestID,
	})
	if err != nil {
		c.log.Warn("reservation failed", "showtime_id", req.ShowtimeId, "seats", len(req.SeatIds), "request_id", requestID, "error", err)
		return model.Reservation{}, err
	}
	if reservation.Id == 0 {
		return model.Reservation{}, errors.New("reservation response has no id")
	}
	c.log.Info("reservation created", "reservation_id", reservation.Id, "showtime_id", req.ShowtimeId, "request_id", requestID)
	return reservation, nil
}

// GetReservation fetches a reservation, used by the checkout stage.
func (c *Client) GetReservation(ctx context.Context, reservationID int64) (model.Reservation, error) {
	if reservationID <= 0 {
		return model.Reservation{}, errors.New("reservation id is required")
	}
	var reservation model.Reservation
	if err := c.getJSON(ctx, c.endpoint("/reservations/%d/", reservationID), &reservation); err != nil {
		return model.Reservation{}, err
	}
	return reservation, nil
}

// ListReservations returns the reservations of the authenticated user.
func (c *Client) ListReservations(ctx context.Context) ([]model.Reservation, error) {
	return getList[model.Reservation](ctx, c, c.endpoint("/reservations/"))
}
