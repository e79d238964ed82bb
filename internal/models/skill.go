package models

import "time"

// Skill is one entry of the skills matrix, grouped by category.
type Skill struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Proficiency int       `json:"proficiency"`
	Icon        string    `json:"icon,omitempty"`
	Order       int       `json:"order"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SkillPatch is a partial update of a skill.
type SkillPatch struct {
	Name        *string `json:"name"`
	Category    *string `json:"category"`
	Proficiency *int    `json:"proficiency"`
	Icon        *string `json:"icon"`
	Order       *int    `json:"order"`
	IsActive    *bool   `json:"isActive"`
}

// Apply returns a copy of s with the non-nil patch fields merged in.
func (s Skill) Apply(p SkillPatch) Skill {
	out := s
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Category != nil {
		out.Category = *p.Category
	}
	if p.Proficiency != nil {
		out.Proficiency = *p.Proficiency
	}
	if p.Icon != nil {
		out.Icon = *p.Icon
	}
	if p.Order != nil {
		out.Order = *p.Order
	}
	if p.IsActive != nil {
		out.IsActive = *p.IsActive
	}
	return out
}
