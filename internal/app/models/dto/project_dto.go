package dto

import "github.com/yigit/collabhub/internal/app/models"

// CreateProjectRequest represents a new project
type CreateProjectRequest struct {
	Title       string   `json:"title" binding:"required,min=1,max=120"`
	Description string   `json:"description" binding:"max=5000"`
	Tags        []string `json:"tags" binding:"max=20,dive,max=40"`
	Roles       []string `json:"roles" binding:"max=20,dive,max=40"`
}

// UpdateProjectRequest represents a partial project edit
type UpdateProjectRequest struct {
	Title       *string   `json:"title" binding:"omitempty,min=1,max=120"`
	Description *string   `json:"description" binding:"omitempty,max=5000"`
	Tags        *[]string `json:"tags"`
	Roles       *[]string `json:"roles"`
}

// Apply copies the set fields onto project
func (r *UpdateProjectRequest) Apply(p *models.Project) {
	if r.Title != nil {
		p.Title = *r.Title
	}
	if r.Description != nil {
		p.Description = *r.Description
	}
	if r.Tags != nil {
		p.Tags = *r.Tags
	}
	if r.Roles != nil {
		p.Roles = *r.Roles
	}
}

// PlanCheckResponse answers check-plan-and-projects
type PlanCheckResponse struct {
	Plan         models.Plan `json:"plan" example:"free"`
	ProjectCount int64       `json:"projectCount" example:"2"`
	Limit        int         `json:"limit" example:"3"`
	CanCreate    bool        `json:"canCreate" example:"true"`
}

// BannerResponse is returned after a banner upload
type BannerResponse struct {
	BannerURL string `json:"bannerUrl"`
}

// UpdatePrivilegesRequest changes collaborator flags; omitted flags keep their value
type UpdatePrivilegesRequest struct {
	AdminPrivileges    *bool `json:"adminPrivileges"`
	CanRemoveUser      *bool `json:"canRemoveUser"`
	CanRemoveChannel   *bool `json:"canRemoveChannel"`
	CanEditProject     *bool `json:"canEditProject"`
	CanEditAdminAccess *bool `json:"canEditAdminAccess"`
}

// CreateChannelRequest represents a new channel
type CreateChannelRequest struct {
	Name string `json:"name" binding:"required,min=1,max=80"`
}

// DeleteChannelResponse reports the cascade of a channel deletion
type DeleteChannelResponse struct {
	DeletedMessagesCount int64 `json:"deletedMessagesCount"`
}

// MessageRequest is the body for creating or editing a message
type MessageRequest struct {
	Content string `json:"content" binding:"required,min=1,max=4000"`
}
