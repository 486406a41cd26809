package models

import "time"

// Project defines the project model based on the 'projects' table
type Project struct {
	ID          int64     `json:"id" db:"id" example:"1"`
	Title       string    `json:"title" db:"title" example:"Rocket"`
	Description string    `json:"description" db:"description"`
	BannerURL   string    `json:"bannerUrl" db:"banner_url"`
	Tags        []string  `json:"tags" db:"tags"`
	Roles       []string  `json:"roles" db:"roles"`
	CreatedBy   int64     `json:"createdBy" db:"created_by" example:"1"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// ProjectFilter narrows the public project listing
type ProjectFilter struct {
	SearchTerm string   // matched against title and description
	Tags       []string // any overlap
	Roles      []string // any overlap
	Offset     uint64
	Limit      int
}

// ProjectCollaborator is a non-owner member of a project with explicit privilege flags
type ProjectCollaborator struct {
	ProjectID          int64        `json:"projectId" db:"project_id"`
	UserID             int64        `json:"userId" db:"user_id"`
	AdminPrivileges    bool         `json:"adminPrivileges" db:"admin_privileges"`
	CanRemoveUser      bool         `json:"canRemoveUser" db:"can_remove_user"`
	CanRemoveChannel   bool         `json:"canRemoveChannel" db:"can_remove_channel"`
	CanEditProject     bool         `json:"canEditProject" db:"can_edit_project"`
	CanEditAdminAccess bool         `json:"canEditAdminAccess" db:"can_edit_admin_access"`
	CreatedAt          time.Time    `json:"createdAt" db:"created_at"`
	User               *UserSummary `json:"user,omitempty"`
}

// Privileges is the resolved permission set of a user on a project
type Privileges struct {
	IsOwner            bool `json:"isOwner"`
	IsMember           bool `json:"isMember"`
	AdminPrivileges    bool `json:"adminPrivileges"`
	CanRemoveUser      bool `json:"canRemoveUser"`
	CanRemoveChannel   bool `json:"canRemoveChannel"`
	CanEditProject     bool `json:"canEditProject"`
	CanEditAdminAccess bool `json:"canEditAdminAccess"`
	CanCreateChannel   bool `json:"canCreateChannel"`
}

// OwnerPrivileges returns the implicit full privilege set of a project owner
func OwnerPrivileges() Privileges {
	return Privileges{
		IsOwner:            true,
		IsMember:           true,
		AdminPrivileges:    true,
		CanRemoveUser:      true,
		CanRemoveChannel:   true,
		CanEditProject:     true,
		CanEditAdminAccess: true,
		CanCreateChannel:   true,
	}
}

// CollaboratorPrivileges derives privileges from a collaborator row
func CollaboratorPrivileges(c *ProjectCollaborator) Privileges {
	return Privileges{
		IsMember:           true,
		AdminPrivileges:    c.AdminPrivileges,
		CanRemoveUser:      c.CanRemoveUser,
		CanRemoveChannel:   c.CanRemoveChannel,
		CanEditProject:     c.CanEditProject,
		CanEditAdminAccess: c.CanEditAdminAccess,
		CanCreateChannel:   c.AdminPrivileges || c.CanRemoveChannel || c.CanEditProject,
	}
}

// CanManageMembers reports whether the holder may send invites and answer applications
func (p Privileges) CanManageMembers() bool {
	return p.IsOwner || p.AdminPrivileges
}
