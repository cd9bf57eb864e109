package model

import "time"

// Username uniquely identifies an account and is the player's identity in games
type Username string

// ConnID identifies one client connection from accept to disconnect
type ConnID string

// Account is a registered user
// Accounts are created once and never mutated or deleted
type Account struct {
	Username     Username
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
}
