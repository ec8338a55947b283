package models

import "time"

// User is a chat identity that owns habits. ChatID is the external messaging
// identifier; ID is the internal key habits reference.
type User struct {
	ID        string    `json:"id"`
	ChatID    int64     `json:"chat_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// Habit represents a recurring practice to track
type Habit struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Completion records that a habit was done on a given calendar day.
// Day is in YYYY-MM-DD format. At most one completion exists per (habit, day).
type Completion struct {
	HabitID   string    `json:"habit_id"`
	Day       string    `json:"day"`
	CreatedAt time.Time `json:"created_at"`
}
