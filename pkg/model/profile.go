package model

import (
	"net/mail"
	"strings"
)

// SkillCategory groups skills under a heading such as "Languages".
type SkillCategory struct {
	ID       string   `json:"_id,omitempty" yaml:"-"`
	Category string   `json:"category" yaml:"category"`
	Items    []string `json:"items" yaml:"items"`
}

// EducationEntry is one degree or course of study.
type EducationEntry struct {
	ID           string `json:"_id,omitempty" yaml:"-"`
	Institution  string `json:"institution" yaml:"institution"`
	Degree       string `json:"degree" yaml:"degree"`
	FieldOfStudy string `json:"fieldOfStudy" yaml:"fieldOfStudy"`
	StartDate    string `json:"startDate" yaml:"startDate"`
	EndDate      string `json:"endDate,omitempty" yaml:"endDate"`
	Description  string `json:"description,omitempty" yaml:"description"`
}

// WorkExperienceEntry is one position held.
type WorkExperienceEntry struct {
	ID               string   `json:"_id,omitempty" yaml:"-"`
	Company          string   `json:"company" yaml:"company"`
	Position         string   `json:"position" yaml:"position"`
	StartDate        string   `json:"startDate" yaml:"startDate"`
	EndDate          string   `json:"endDate,omitempty" yaml:"endDate"`
	Responsibilities []string `json:"responsibilities" yaml:"responsibilities"`
}

// SocialLink points at an external profile.
type SocialLink struct {
	ID       string `json:"_id,omitempty" yaml:"-"`
	Platform string `json:"platform" yaml:"platform"`
	URL      string `json:"url" yaml:"url"`
}

// Profile is the singleton owner profile. The public endpoint serves the
// same shape; fields it omits are simply empty.
type Profile struct {
	ID                string                `json:"_id,omitempty" yaml:"-"`
	Name              string                `json:"name" yaml:"name"`
	Title             string                `json:"title" yaml:"title"`
	Biography         string                `json:"biography" yaml:"biography"`
	ProfilePictureURL string                `json:"profilePictureUrl,omitempty" yaml:"profilePictureUrl"`
	ContactEmail      string                `json:"contactEmail" yaml:"contactEmail"`
	Skills            []SkillCategory       `json:"skills" yaml:"skills"`
	Education         []EducationEntry      `json:"education" yaml:"education"`
	WorkExperience    []WorkExperienceEntry `json:"workExperience" yaml:"workExperience"`
	SocialLinks       []SocialLink          `json:"socialLinks" yaml:"socialLinks"`
	ResumeURL         string                `json:"resumeUrl,omitempty" yaml:"-"`
}

// ItemID implements Item.
func (p Profile) ItemID() string { return p.ID }

// Clean drops work experience entries missing a company, position or start
// date, and blank responsibilities, the way the profile form does before
// saving.
func (p *Profile) Clean() {
	exp := p.WorkExperience[:0]
	for _, e := range p.WorkExperience {
		var resp []string
		for _, r := range e.Responsibilities {
			if strings.TrimSpace(r) != "" {
				resp = append(resp, strings.TrimSpace(r))
			}
		}
		e.Responsibilities = resp
		if e.Company == "" || e.Position == "" || e.StartDate == "" || len(e.Responsibilities) == 0 {
			continue
		}
		exp = append(exp, e)
	}
	p.WorkExperience = exp

	skills := p.Skills[:0]
	for _, s := range p.Skills {
		if strings.TrimSpace(s.Category) == "" {
			continue
		}
		skills = append(skills, s)
	}
	p.Skills = skills
}

// Validate checks the profile form rules.
func (p Profile) Validate() error {
	var v validator
	if strings.TrimSpace(p.Name) == "" {
		v.add("name", "Name is required.")
	}
	if strings.TrimSpace(p.Title) == "" {
		v.add("title", "Title is required.")
	}
	if _, err := mail.ParseAddress(p.ContactEmail); err != nil {
		v.add("contactEmail", "Invalid contact email.")
	}
	v.optionalURL("profilePictureUrl", p.ProfilePictureURL, "Invalid URL format for profile picture.")
	for _, e := range p.Education {
		if e.Institution == "" || e.Degree == "" || e.FieldOfStudy == "" || e.StartDate == "" {
			v.add("education", "Education entries need institution, degree, field of study and start date.")
			break
		}
	}
	for _, l := range p.SocialLinks {
		if l.Platform == "" || !IsHTTPURL(l.URL) {
			v.add("socialLinks", "Social links need a platform and a valid URL.")
			break
		}
	}
	return v.err("Invalid profile")
}

// ResumeUpload is returned by the resume upload endpoint.
type ResumeUpload struct {
	ResumeURL string `json:"resumeUrl"`
	Message   string `json:"message,omitempty"`
}

// DashboardStats is the admin dashboard summary.
type DashboardStats struct {
	TotalProjects           int `json:"totalProjects"`
	TotalPublishedPosts     int `json:"totalPublishedPosts"`
	TotalDraftPosts         int `json:"totalDraftPosts"`
	TotalContactSubmissions int `json:"totalContactSubmissions"`
}
