package model

import (
	"strings"
	"time"
)

type ReservationRequest struct {
	ShowtimeId int64   `json:"showtime_id"`
	SeatIds    []int64 `json:"seat_ids"`
}

type Reservation struct {
	Id         int64     `json:"id"`
	ShowtimeId int64     `json:"showtime_id"`
	SeatIds    []int64   `json:"seat_ids"`
	Status     string    `json:"status"`
	TotalPrice Money     `json:"total_price"`
	CreatedAt  time.Time `json:"created_at"`
}

// StatusLabel is the status shown to the user. Payment is not handled by the
// client, so anything not confirmed or cancelled is pending.
func (r Reservation) StatusLabel() string {
	switch strings.ToLower(strings.TrimSpace(r.Status)) {
	case "confirmed", "paid":
		return "confirmed"
	case "cancelled", "canceled":
		return "cancelled"
	default:
		return "pending payment"
	}
}

type Stats struct {
	TotalReservations int                 `json:"total_reservations"`
	TotalRevenue      Money               `json:"total_revenue"`
	TopMovies         []MovieTickets      `json:"top_movies"`
	Occupancy         []ShowtimeOccupancy `json:"occupancy"`
}

type MovieTickets struct {
	Title   string `json:"title"`
	Tickets int    `json:"tickets"`
}

type ShowtimeOccupancy struct {
	ShowtimeId int64  `json:"showtime_id"`
	Movie      string `json:"movie"`
	Reserved   int    `json:"reserved"`
	Capacity   int    `json:"capacity"`
}
