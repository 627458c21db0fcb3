package domain

import "time"

type Project struct {
	ID          string
	Name        string
	Description string
	OwnerID     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProjectWithRole is a project as seen by one of its members.
type ProjectWithRole struct {
	Project
	Role Role
}
