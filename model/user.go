package model

import "time"

type User struct {
	Id        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsStaff   bool   `json:"is_staff"`
}

type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type ProfileUpdate struct {
	FirstName string `json:"first_name,omitempty" validate:"omitempty,max=150"`
	LastName  string `json:"last_name,omitempty" validate:"omitempty,max=150"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
}

type MovieInput struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description,omitempty"`
	Duration    int    `json:"duration" validate:"required,min=1,max=600"`
	Genre       string `json:"genre,omitempty" validate:"omitempty,max=100"`
	ReleaseDate string `json:"release_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type HallInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Rows        int    `json:"rows" validate:"required,min=1,max=50"`
	SeatsPerRow int    `json:"seats_per_row" validate:"required,min=1,max=50"`
}

type ShowtimeInput struct {
	MovieId   int64     `json:"movie_id" validate:"required,gt=0"`
	HallId    int64     `json:"hall_id" validate:"required,gt=0"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
	Price     Money     `json:"price" validate:"gt=0"`
}
