package domain

import "time"

// ProjectRecord is the unit of storage: one JSON blob per project,
// keyed by the project name. It is storage-agnostic and shared across
// the store, service and HTTP layers.
type ProjectRecord struct {
	ProjectID   string                 `json:"project_id"`
	ProjectName string                 `json:"project_name"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
	Sections    map[string]interface{} `json:"sections"`
}

// Clone returns a copy of the record with its own sections map, so
// cached records are never mutated through a caller's reference.
func (r *ProjectRecord) Clone() *ProjectRecord {
	if r == nil {
		return nil
	}
	out := *r
	out.Sections = make(map[string]interface{}, len(r.Sections))
	for k, v := range r.Sections {
		out.Sections[k] = v
	}
	return &out
}
