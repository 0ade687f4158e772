package domain

import "time"

type User struct {
	ID           string
	Name         string
	Email        string // stored lowercased, unique
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
