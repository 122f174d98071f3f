package model

import "time"

type User struct {
	ID           int64
	Username     string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
