package service

import (
	"context"

	"github.com/sells-group/companyintel/internal/model"
)

// TeamService provides the team-and-culture section. The current provider
// is local: it returns a default structure synchronously. The interface
// shape leaves room for a LinkedIn or careers-page backed implementation.
type TeamService struct{}

// NewTeamService creates the team provider.
func NewTeamService() *TeamService {
	return &TeamService{}
}

// Fetch returns the team/culture section for the company.
func (s *TeamService) Fetch(_ context.Context, companyName string) (model.TeamCulture, error) {
	_ = companyName
	return model.TeamCulture{
		Leadership: []model.Leader{
			{
				Name:       "CEO Name",
				Title:      "CEO & Founder",
				Background: "Experienced technology leader",
			},
		},
		TechStack:          []string{"Python", "JavaScript", "PostgreSQL", "React"},
		CultureSignals:     []string{"Innovation", "Collaboration", "Growth"},
		WorkModel:          "hybrid",
		OpenPositionsCount: 20,
		HiringFocus:        []string{"Engineering", "Product"},
	}, nil
}
