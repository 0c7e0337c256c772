package domain

import "time"

type DesignID string

type Permission string

const (
	PermissionView  Permission = "view"
	PermissionEdit  Permission = "edit"
	PermissionAdmin Permission = "admin"
)

type Collaborator struct {
	User       UserID     `json:"user" bson:"user"`
	Permission Permission `json:"permission" bson:"permission"`
	InvitedAt  time.Time  `json:"invitedAt" bson:"invitedAt"`
}

type Position struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Comment is append-only from the collaboration layer's point of view;
// resolution and editing happen elsewhere.
type Comment struct {
	ID        string    `json:"id" bson:"id"`
	UserID    UserID    `json:"userId" bson:"userId"`
	User      *Profile  `json:"user,omitempty" bson:"user,omitempty"`
	Text      string    `json:"text" bson:"text"`
	Position  *Position `json:"position,omitempty" bson:"position,omitempty"`
	Resolved  bool      `json:"resolved" bson:"resolved"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

type Version struct {
	Version     int       `json:"version" bson:"version"`
	Description string    `json:"description" bson:"description"`
	Thumbnail   string    `json:"thumbnail" bson:"thumbnail"`
	CreatedBy   UserID    `json:"createdBy" bson:"createdBy"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
}

type Design struct {
	ID            DesignID       `json:"id" bson:"_id"`
	Title         string         `json:"title" bson:"title"`
	Owner         UserID         `json:"owner" bson:"owner"`
	Collaborators []Collaborator `json:"collaborators" bson:"collaborators"`
	Comments      []Comment      `json:"comments" bson:"comments"`
	Versions      []Version      `json:"versions" bson:"versions"`
	IsPublic      bool           `json:"isPublic" bson:"isPublic"`
}

// CanView reports whether uid may read the design: owner, any collaborator,
// or anyone when the design is public.
func (d *Design) CanView(uid UserID) bool {
	if d.IsPublic || d.Owner == uid {
		return true
	}
	for _, c := range d.Collaborators {
		if c.User == uid {
			return true
		}
	}
	return false
}

// CanManage reports whether uid may change collaborator lists: owner or a
// collaborator holding admin permission.
func (d *Design) CanManage(uid UserID) bool {
	if d.Owner == uid {
		return true
	}
	for _, c := range d.Collaborators {
		if c.User == uid && c.Permission == PermissionAdmin {
			return true
		}
	}
	return false
}
