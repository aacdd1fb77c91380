package memory

import (
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

type Memory struct {
	category         *categoryRepository
	categoryField    *categoryFieldRepository
	opportunity      *opportunityRepository
	application      *applicationRepository
	categoryResponse *categoryResponseRepository
	profile          *profileRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		category:         newCategoryRepository(),
		categoryField:    newCategoryFieldRepository(),
		opportunity:      newOpportunityRepository(),
		application:      newApplicationRepository(),
		categoryResponse: newCategoryResponseRepository(),
		profile:          newProfileRepository(),
	}
}

func (m *Memory) Category() interfaces.CategoryRepository {
	return m.category
}

func (m *Memory) CategoryField() interfaces.CategoryFieldRepository {
	return m.categoryField
}

func (m *Memory) Opportunity() interfaces.OpportunityRepository {
	return m.opportunity
}

func (m *Memory) Application() interfaces.ApplicationRepository {
	return m.application
}

func (m *Memory) CategoryResponse() interfaces.CategoryResponseRepository {
	return m.categoryResponse
}

func (m *Memory) Profile() interfaces.ProfileRepository {
	return m.profile
}

func (m *Memory) Close() error {
	return nil
}
