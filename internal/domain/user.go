// Package domain contains entities without logic, just meta-data.
package domain

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/google/uuid"
)

const MaxNameLen = 100

var (
	ErrEmailEmpty  = errors.New("email empty")
	ErrNameTooLong = errors.New("name too long")
)

type UserID string

type User struct {
	ID          UserID      `json:"id" bson:"_id"`
	Email       string      `json:"email" bson:"email"`
	Name        string      `json:"name" bson:"name"`
	Avatar      string      `json:"avatar" bson:"avatar"`
	Preferences Preferences `json:"preferences" bson:"preferences"`
}

type Preferences struct {
	Theme         string `json:"theme" bson:"theme"`
	Notifications bool   `json:"notifications" bson:"notifications"`
}

// Profile is the projection sent to other collaborators. It never carries
// preferences or anything else the room does not need.
type Profile struct {
	ID     UserID `json:"id" bson:"_id"`
	Name   string `json:"name" bson:"name"`
	Email  string `json:"email" bson:"email"`
	Avatar string `json:"avatar" bson:"avatar"`
}

// NewUser avoids ad-hoc struct literals in adapters and keeps validation in
// one place.
func NewUser(id UserID, email, name string) (*User, error) {
	if email == "" {
		return nil, ErrEmailEmpty
	}
	if len(name) > MaxNameLen {
		return nil, ErrNameTooLong
	}
	if id == "" {
		id = UserID(uuid.NewString())
	}
	return &User{
		ID:     id,
		Email:  email,
		Name:   name,
		Avatar: DefaultAvatar(name),
		Preferences: Preferences{
			Theme:         "light",
			Notifications: true,
		},
	}, nil
}

func (u *User) Profile() Profile {
	return Profile{ID: u.ID, Name: u.Name, Email: u.Email, Avatar: u.Avatar}
}

// DefaultAvatar mirrors the placeholder the web client expects for users who
// never uploaded one.
func DefaultAvatar(name string) string {
	return fmt.Sprintf("https://ui-avatars.com/api/?name=%s&background=6366f1&color=fff", url.QueryEscape(name))
}
