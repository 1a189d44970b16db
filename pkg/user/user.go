package user

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrUserDataInvalid = errors.New("invalid user data")
)

type User struct {
	Id          int
	Uid         string
	Username    string
	DisplayName string
	Email       string
	Settings    Settings
}

type Settings struct {
	// Timezone is an IANA name; due dates and "now" are evaluated in it.
	Timezone string
}

// Location resolves the user's timezone, falling back to fallback when the
// setting is empty or unknown.
func (u User) Location(fallback *time.Location) *time.Location {
	if u.Settings.Timezone == "" {
		return fallback
	}
	loc, err := time.LoadLocation(u.Settings.Timezone)
	if err != nil {
		return fallback
	}
	return loc
}
