package dto

import (
	"time"

	"github.com/yigit/collabhub/internal/app/models"
)

// UpdateProfileRequest represents a partial profile update; nil fields are left untouched
type UpdateProfileRequest struct {
	Username    *string `json:"username" binding:"omitempty,username"`
	Role        *string `json:"role" binding:"omitempty,max=50"`
	ShortBio    *string `json:"shortBio" binding:"omitempty,max=160"`
	Bio         *string `json:"bio" binding:"omitempty,max=2000"`
	GithubURL   *string `json:"githubUrl" binding:"omitempty,max=255"`
	LinkedinURL *string `json:"linkedinUrl" binding:"omitempty,max=255"`
	WebsiteURL  *string `json:"websiteUrl" binding:"omitempty,max=255"`
	TwitterURL  *string `json:"twitterUrl" binding:"omitempty,max=255"`
}

// Apply copies the set fields onto user
func (r *UpdateProfileRequest) Apply(user *models.User) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&user.Username, r.Username)
	set(&user.Role, r.Role)
	set(&user.ShortBio, r.ShortBio)
	set(&user.Bio, r.Bio)
	set(&user.GithubURL, r.GithubURL)
	set(&user.LinkedinURL, r.LinkedinURL)
	set(&user.WebsiteURL, r.WebsiteURL)
	set(&user.TwitterURL, r.TwitterURL)
}

// PublicUserResponse is a user profile as other users see it
type PublicUserResponse struct {
	ID              int64     `json:"id"`
	Username        string    `json:"username"`
	Role            string    `json:"role"`
	ShortBio        string    `json:"shortBio"`
	Bio             string    `json:"bio"`
	GithubURL       string    `json:"githubUrl"`
	LinkedinURL     string    `json:"linkedinUrl"`
	WebsiteURL      string    `json:"websiteUrl"`
	TwitterURL      string    `json:"twitterUrl"`
	ProfileImageURL string    `json:"profileImageUrl"`
	CreatedAt       time.Time `json:"createdAt"`
}

// FromUser converts a models.User to its public shape
func FromUser(u *models.User) PublicUserResponse {
	return PublicUserResponse{
		ID:              u.ID,
		Username:        u.Username,
		Role:            u.Role,
		ShortBio:        u.ShortBio,
		Bio:             u.Bio,
		GithubURL:       u.GithubURL,
		LinkedinURL:     u.LinkedinURL,
		WebsiteURL:      u.WebsiteURL,
		TwitterURL:      u.TwitterURL,
		ProfileImageURL: u.ProfileImageURL,
		CreatedAt:       u.CreatedAt,
	}
}

// FromUsers converts a list of users to their public shape
func FromUsers(users []*models.User) []PublicUserResponse {
	out := make([]PublicUserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, FromUser(u))
	}
	return out
}

// ProfileImageResponse is returned after an upload
type ProfileImageResponse struct {
	ProfileImageURL string `json:"profileImageUrl"`
}
