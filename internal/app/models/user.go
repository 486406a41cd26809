package models

import (
	"time"
)

// Plan is the subscription tier of a user
type Plan string

const (
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
)

// User defines the user model based on the 'users' table
type User struct {
	ID              int64     `json:"id" db:"id" example:"1"`
	Email           string    `json:"email" db:"email" example:"ada@example.com"`
	Password        string    `json:"-" db:"password"` // bcrypt hash, never serialized
	Username        string    `json:"username" db:"username" example:"ada"`
	Role            string    `json:"role" db:"role" example:"Developer"`
	ShortBio        string    `json:"shortBio" db:"short_bio" example:"Backend engineer"`
	Bio             string    `json:"bio" db:"bio"`
	GithubURL       string    `json:"githubUrl" db:"github_url"`
	LinkedinURL     string    `json:"linkedinUrl" db:"linkedin_url"`
	WebsiteURL      string    `json:"websiteUrl" db:"website_url"`
	TwitterURL      string    `json:"twitterUrl" db:"twitter_url"`
	ProfileImageURL string    `json:"profileImageUrl" db:"profile_image_url"`
	Plan            Plan      `json:"plan" db:"plan" example:"free"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}

// UserSummary is the compact user shape embedded in lists
type UserSummary struct {
	ID              int64  `json:"id"`
	Username        string `json:"username"`
	Role            string `json:"role"`
	ProfileImageURL string `json:"profileImageUrl"`
}

// Summary returns the compact form of the user
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:              u.ID,
		Username:        u.Username,
		Role:            u.Role,
		ProfileImageURL: u.ProfileImageURL,
	}
}

// UserFilter narrows the users-page listing
type UserFilter struct {
	Role       string // matched case-insensitively, exact
	SearchTerm string // substring of username or short bio, case-insensitive
	Offset     uint64
	Limit      int
}
