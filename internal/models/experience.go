package models

import "time"

// Experience is a position held, shown on the career timeline.
type Experience struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	StartDate   *Date     `json:"startDate,omitempty"`
	EndDate     *Date     `json:"endDate,omitempty"`
	IsCurrent   bool      `json:"isCurrent"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ExperiencePatch is a partial update of an experience entry.
type ExperiencePatch struct {
	Title       *string `json:"title"`
	Company     *string `json:"company"`
	Description *string `json:"description"`
	Location    *string `json:"location"`
	StartDate   *Date   `json:"startDate"`
	EndDate     *Date   `json:"endDate"`
	IsCurrent   *bool   `json:"isCurrent"`
	Order       *int    `json:"order"`
}

// Apply returns a copy of e with the non-nil patch fields merged in.
func (e Experience) Apply(p ExperiencePatch) Experience {
	out := e
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Company != nil {
		out.Company = *p.Company
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Location != nil {
		out.Location = *p.Location
	}
	if p.StartDate != nil {
		d := *p.StartDate
		out.StartDate = &d
	}
	if p.EndDate != nil {
		d := *p.EndDate
		out.EndDate = &d
	}
	if p.IsCurrent != nil {
		out.IsCurrent = *p.IsCurrent
	}
	if p.Order != nil {
		out.Order = *p.Order
	}
	return out
}
