package models

import "time"

// Education is a degree or course of study.
type Education struct {
	ID             string    `json:"id"`
	Degree         string    `json:"degree"`
	Institution    string    `json:"institution"`
	Field          string    `json:"field,omitempty"`
	Description    string    `json:"description,omitempty"`
	StartDate      *Date     `json:"startDate,omitempty"`
	EndDate        *Date     `json:"endDate,omitempty"`
	CertificateURL string    `json:"certificateUrl,omitempty"`
	Order          int       `json:"order"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// EducationPatch is a partial update of an education entry.
type EducationPatch struct {
	Degree         *string `json:"degree"`
	Institution    *string `json:"institution"`
	Field          *string `json:"field"`
	Description    *string `json:"description"`
	StartDate      *Date   `json:"startDate"`
	EndDate        *Date   `json:"endDate"`
	CertificateURL *string `json:"certificateUrl"`
	Order          *int    `json:"order"`
}

// Apply returns a copy of e with the non-nil patch fields merged in.
func (e Education) Apply(p EducationPatch) Education {
	out := e
	if p.Degree != nil {
		out.Degree = *p.Degree
	}
	if p.Institution != nil {
		out.Institution = *p.Institution
	}
	if p.Field != nil {
		out.Field = *p.Field
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.StartDate != nil {
		d := *p.StartDate
		out.StartDate = &d
	}
	if p.EndDate != nil {
		d := *p.EndDate
		out.EndDate = &d
	}
	if p.CertificateURL != nil {
		out.CertificateURL = *p.CertificateURL
	}
	if p.Order != nil {
		out.Order = *p.Order
	}
	return out
}
