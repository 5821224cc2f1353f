// Package models defines the typed records persisted by the server.
package models

import "time"

// User is a registered account. Username, handle and email are each
// globally unique under case-insensitive comparison (enforced by the
// schema). Optional profile fields default to the empty string, matching
// what the frontend expects for unset values.
type User struct {
	ID                string    `db:"id"`
	Username          string    `db:"username"`
	Handle            string    `db:"handle"`
	Email             string    `db:"email"`
	PasswordHash      string    `db:"password_hash"`
	ProfilePictureURL string    `db:"profile_picture_url"`
	CoverPhotoURL     string    `db:"cover_photo_url"`
	Bio               string    `db:"bio"`
	IsAdmin           bool      `db:"is_admin"`
	CreatedAt         time.Time `db:"created_at"`
}
