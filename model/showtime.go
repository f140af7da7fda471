package model

import "time"

type Seat struct {
	Id         int64 `json:"id"`
	Row        int   `json:"row"`
	Number     int   `json:"number"`
	IsReserved bool  `json:"is_reserved"`
}

type Showtime struct {
	Id        int64      `json:"id"`
	Price     Money      `json:"price"`
	Movie     string     `json:"movie"`
	MovieId   int64      `json:"movie_id,omitempty"`
	Hall      string     `json:"hall"`
	HallId    int64      `json:"hall_id,omitempty"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
}

type Movie struct {
	Id          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Genre       string `json:"genre"`
	ReleaseDate string `json:"release_date"`
}

type Hall struct {
	Id          int64  `json:"id"`
	Name        string `json:"name"`
	Rows        int    `json:"rows"`
	SeatsPerRow int    `json:"seats_per_row"`
}

// Capacity is the number of seats in the hall layout.
func (h Hall) Capacity() int {
	return h.Rows * h.SeatsPerRow
}
