package models

import "time"

// Event представляет мероприятие: вебинар, день открытых дверей, очный семинар.
type Event struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartsAt    time.Time `json:"starts_at"`
	Location    string    `json:"location"`
	IsOnline    bool      `json:"is_online"`
	IsActive    bool      `json:"is_active"`
}
