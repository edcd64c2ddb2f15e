package model

import (
	"errors"
	"strings"
)

// ErrNameRequired is returned by Validate when the header carries no name.
var ErrNameRequired = errors.New("header.name is required")

// ResumeDocument is the structured résumé produced by a rewrite and consumed
// by the export renderers.
type ResumeDocument struct {
	Header         ResumeHeader       `json:"header"`
	Summary        string             `json:"summary"`
	Skills         []ResumeSkillGroup `json:"skills"`
	Experience     []ResumeExperience `json:"experience"`
	Projects       []ResumeProject    `json:"projects"`
	Education      []ResumeEducation  `json:"education"`
	Certifications []string           `json:"certifications,omitempty"`
}

// ResumeHeader captures top-of-resume contact and identity details.
type ResumeHeader struct {
	Name      string   `json:"name"`
	Title     string   `json:"title,omitempty"`
	Location  string   `json:"location,omitempty"`
	Phone     string   `json:"phone,omitempty"`
	Email     string   `json:"email,omitempty"`
	LinkedIn  string   `json:"linkedin,omitempty"`
	Portfolio string   `json:"portfolio,omitempty"`
	Links     []string `json:"links,omitempty"`
}

// Contacts returns the non-empty contact fields in display order.
func (h ResumeHeader) Contacts() []string {
	out := make([]string, 0, 4)
	for _, value := range []string{h.Phone, h.Email, h.LinkedIn, h.Portfolio} {
		if strings.TrimSpace(value) != "" {
			out = append(out, value)
		}
	}
	return out
}

// ResumeSkillGroup is a named list of skills.
type ResumeSkillGroup struct {
	Group string   `json:"group"`
	Items []string `json:"items"`
}

// ResumeExperience represents a work history entry.
type ResumeExperience struct {
	Company string   `json:"company"`
	Role    string   `json:"role"`
	Start   string   `json:"start"`
	End     string   `json:"end"`
	Bullets []string `json:"bullets"`
	Tech    []string `json:"tech,omitempty"`
}

// ResumeProject represents a notable project.
type ResumeProject struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Bullets     []string `json:"bullets"`
	Tech        []string `json:"tech,omitempty"`
}

// ResumeEducation represents an education entry.
type ResumeEducation struct {
	School string `json:"school"`
	Degree string `json:"degree"`
	Year   string `json:"year,omitempty"`
	CGPA   string `json:"cgpa,omitempty"`
}

// IsBlank reports whether the group has neither a name nor an item.
func (g ResumeSkillGroup) IsBlank() bool {
	return allBlank(append([]string{g.Group}, g.Items...)...)
}

// IsBlank reports whether the entry has no text to show.
func (e ResumeExperience) IsBlank() bool {
	return allBlank(e.Company, e.Role, e.Start, e.End) && allBlank(e.Bullets...) && allBlank(e.Tech...)
}

// IsBlank reports whether the entry has no text to show.
func (p ResumeProject) IsBlank() bool {
	return allBlank(p.Name, p.Description) && allBlank(p.Bullets...) && allBlank(p.Tech...)
}

// IsBlank reports whether the entry has no text to show.
func (e ResumeEducation) IsBlank() bool {
	return allBlank(e.School, e.Degree, e.Year, e.CGPA)
}

// Filled returns the entries that are not blank, in order. Renderers use it so
// a section made only of placeholder entries gets no heading.
func Filled[T interface{ IsBlank() bool }](entries []T) []T {
	out := make([]T, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsBlank() {
			out = append(out, entry)
		}
	}
	return out
}

func allBlank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Validate enforces the fields the renderers cannot do without.
func (d ResumeDocument) Validate() error {
	if strings.TrimSpace(d.Header.Name) == "" {
		return ErrNameRequired
	}
	return nil
}

// Normalize replaces nil slices with empty ones so encoded documents always
// carry arrays.
func (d *ResumeDocument) Normalize() {
	if d.Skills == nil {
		d.Skills = []ResumeSkillGroup{}
	}
	for i := range d.Skills {
		if d.Skills[i].Items == nil {
			d.Skills[i].Items = []string{}
		}
	}
	if d.Experience == nil {
		d.Experience = []ResumeExperience{}
	}
	for i := range d.Experience {
		if d.Experience[i].Bullets == nil {
			d.Experience[i].Bullets = []string{}
		}
	}
	if d.Projects == nil {
		d.Projects = []ResumeProject{}
	}
	for i := range d.Projects {
		if d.Projects[i].Bullets == nil {
			d.Projects[i].Bullets = []string{}
		}
	}
	if d.Education == nil {
		d.Education = []ResumeEducation{}
	}
}

// Clone returns a deep copy of the document.
func (d ResumeDocument) Clone() ResumeDocument {
	out := d
	out.Header.Links = cloneStrings(d.Header.Links)
	out.Certifications = cloneStrings(d.Certifications)
	if d.Skills != nil {
		out.Skills = make([]ResumeSkillGroup, len(d.Skills))
		for i, group := range d.Skills {
			group.Items = cloneStrings(group.Items)
			out.Skills[i] = group
		}
	}
	if d.Experience != nil {
		out.Experience = make([]ResumeExperience, len(d.Experience))
		for i, exp := range d.Experience {
			exp.Bullets = cloneStrings(exp.Bullets)
			exp.Tech = cloneStrings(exp.Tech)
			out.Experience[i] = exp
		}
	}
	if d.Projects != nil {
		out.Projects = make([]ResumeProject, len(d.Projects))
		for i, project := range d.Projects {
			project.Bullets = cloneStrings(project.Bullets)
			project.Tech = cloneStrings(project.Tech)
			out.Projects[i] = project
		}
	}
	if d.Education != nil {
		out.Education = append([]ResumeEducation(nil), d.Education...)
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}
