package models

import "time"

// Project is a portfolio entry.
type Project struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Content      string    `json:"content,omitempty"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	LiveURL      string    `json:"liveUrl,omitempty"`
	GithubURL    string    `json:"githubUrl,omitempty"`
	Technologies []string  `json:"technologies"`
	Status       string    `json:"status"`
	Order        int       `json:"order"`
	IsPublished  bool      `json:"isPublished"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ProjectPatch is a partial update of a project.
type ProjectPatch struct {
	Title        *string   `json:"title"`
	Description  *string   `json:"description"`
	Content      *string   `json:"content"`
	ImageURL     *string   `json:"imageUrl"`
	LiveURL      *string   `json:"liveUrl"`
	GithubURL    *string   `json:"githubUrl"`
	Technologies *[]string `json:"technologies"`
	Status       *string   `json:"status"`
	Order        *int      `json:"order"`
	IsPublished  *bool     `json:"isPublished"`
}

// Apply returns a copy of p with the non-nil patch fields merged in.
func (p Project) Apply(patch ProjectPatch) Project {
	out := p
	out.Technologies = append([]string(nil), p.Technologies...)
	if patch.Title != nil {
		out.Title = *patch.Title
	}
	if patch.Description != nil {
		out.Description = *patch.Description
	}
	if patch.Content != nil {
		out.Content = *patch.Content
	}
	if patch.ImageURL != nil {
		out.ImageURL = *patch.ImageURL
	}
	if patch.LiveURL != nil {
		out.LiveURL = *patch.LiveURL
	}
	if patch.GithubURL != nil {
		out.GithubURL = *patch.GithubURL
	}
	if patch.Technologies != nil {
		out.Technologies = append([]string(nil), (*patch.Technologies)...)
	}
	if patch.Status != nil {
		out.Status = *patch.Status
	}
	if patch.Order != nil {
		out.Order = *patch.Order
	}
	if patch.IsPublished != nil {
		out.IsPublished = *patch.IsPublished
	}
	return out
}
