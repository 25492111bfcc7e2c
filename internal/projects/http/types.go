package http

import "github.com/windscape-energy/windscape-backend/internal/projects/domain"

type saveReq struct {
	Sections map[string]interface{} `json:"sections"`
}

type projectResp struct {
	OK      bool                  `json:"ok"`
	Project *domain.ProjectRecord `json:"project,omitempty"`
	Error   string                `json:"error,omitempty"`
}

type listResp struct {
	OK       bool                   `json:"ok"`
	Projects []domain.ProjectRecord `json:"projects"`
}
