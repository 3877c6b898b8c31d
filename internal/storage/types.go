package storage

import (
	"time"

	"github.com/tara-vision/stackhat/internal/project"
)

// Project is the autosave snapshot of the workspace
type Project struct {
	ID        string         `json:"id,omitempty"`
	Name      string         `json:"name"`
	Nodes     project.Forest `json:"nodes"`
	LastSaved time.Time      `json:"lastSaved"`
}

// Profile is the local user profile guarding the workspace
type Profile struct {
	PIN       string    `json:"pin"` // bcrypt hash, see internal/auth
	CreatedAt time.Time `json:"createdAt"`
}
