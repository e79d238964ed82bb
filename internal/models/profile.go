package models

import "time"

// SocialLinks are the owner's public profiles elsewhere.
type SocialLinks struct {
	Github   string `json:"github,omitempty"`
	Linkedin string `json:"linkedin,omitempty"`
	Twitter  string `json:"twitter,omitempty"`
	Website  string `json:"website,omitempty"`
}

// Resume points at a downloadable CV.
type Resume struct {
	URL      string `json:"url,omitempty"`
	FileName string `json:"fileName,omitempty"`
}

// Profile is the portfolio owner's about page. The most recently created
// profile is the one served.
type Profile struct {
	ID          string       `json:"id"`
	FullName    string       `json:"fullName"`
	Title       string       `json:"title,omitempty"`
	Bio         string       `json:"bio,omitempty"`
	Avatar      string       `json:"avatar,omitempty"`
	Email       string       `json:"email,omitempty"`
	Phone       string       `json:"phone,omitempty"`
	Location    string       `json:"location,omitempty"`
	SocialLinks *SocialLinks `json:"socialLinks,omitempty"`
	Resume      *Resume      `json:"resume,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// ProfilePatch is a partial update of the profile. SocialLinks and Resume
// replace the stored value as a whole.
type ProfilePatch struct {
	FullName    *string      `json:"fullName"`
	Title       *string      `json:"title"`
	Bio         *string      `json:"bio"`
	Avatar      *string      `json:"avatar"`
	Email       *string      `json:"email"`
	Phone       *string      `json:"phone"`
	Location    *string      `json:"location"`
	SocialLinks *SocialLinks `json:"socialLinks"`
	Resume      *Resume      `json:"resume"`
}

// Apply returns a copy of p with the non-nil patch fields merged in.
func (p Profile) Apply(patch ProfilePatch) Profile {
	out := p
	if patch.FullName != nil {
		out.FullName = *patch.FullName
	}
	if patch.Title != nil {
		out.Title = *patch.Title
	}
	if patch.Bio != nil {
		out.Bio = *patch.Bio
	}
	if patch.Avatar != nil {
		out.Avatar = *patch.Avatar
	}
	if patch.Email != nil {
		out.Email = *patch.Email
	}
	if patch.Phone != nil {
		out.Phone = *patch.Phone
	}
	if patch.Location != nil {
		out.Location = *patch.Location
	}
	if patch.SocialLinks != nil {
		links := *patch.SocialLinks
		out.SocialLinks = &links
	}
	if patch.Resume != nil {
		resume := *patch.Resume
		out.Resume = &resume
	}
	return out
}
