// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package models

import "time"

// Book is a catalog item. ID is the external identifier recommendations
// resolve to.
type Book struct {
	ID          string    `json:"id"`
	Title       string    `json:"title" validate:"required,max=512"`
	Slug        string    `json:"slug,omitempty"`
	Author      []string  `json:"author,omitempty"`
	Genres      []string  `json:"genres,omitempty"`
	Description string    `json:"description,omitempty"`
	Language    string    `json:"language,omitempty"`
	NumPages    int       `json:"num_pages,omitempty" validate:"gte=0"`
	ImageURL    string    `json:"image_url,omitempty"`
	Publisher   string    `json:"publisher,omitempty"`
	PublishDate string    `json:"publish_date,omitempty"`
	Series      []string  `json:"series,omitempty"`
	TotalBorrow int       `json:"total_borrow" validate:"gte=0"`
	TotalNum    int       `json:"total_num" validate:"gte=0"`
	CurrentNum  int       `json:"current_num" validate:"gte=0"`
	NumOfRating int       `json:"num_of_rating" validate:"gte=0"`
	AvgRating   float64   `json:"avg_rating" validate:"gte=0,lte=5"`
	LibraryID   string    `json:"library_id,omitempty"`
	LibraryName string    `json:"library_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`

	// Seq is the insertion sequence assigned by the store.
	Seq uint64 `json:"seq"`
}

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is a library patron. Credentials are not stored here.
type User struct {
	ID          string    `json:"id"`
	Username    string    `json:"username" validate:"required,min=3,max=64"`
	Name        string    `json:"name,omitempty"`
	Email       string    `json:"email,omitempty" validate:"omitempty,email"`
	DateOfBirth string    `json:"date_of_birth,omitempty"`
	Role        string    `json:"role" validate:"omitempty,oneof=user admin"`
	ListOfLib   []string  `json:"list_of_lib,omitempty"`
	Address     string    `json:"address,omitempty"`
	Status      string    `json:"status,omitempty"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	Seq         uint64    `json:"seq"`
}
