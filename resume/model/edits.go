package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEditOutOfRange = errors.New("edit index out of range")
	ErrUnknownField   = errors.New("unknown field")
	ErrUnknownOp      = errors.New("unknown edit op")
)

// Edit is a single typed change to a ResumeDocument.
type Edit interface {
	Op() string
	apply(doc *ResumeDocument) error
}

// ApplyEdits applies edits in order to a copy of doc. The input document is
// never mutated; on error the partially edited copy is discarded.
func ApplyEdits(doc ResumeDocument, edits ...Edit) (ResumeDocument, error) {
	out := doc.Clone()
	for i, edit := range edits {
		if edit == nil {
			return doc, fmt.Errorf("edits[%d]: %w", i, ErrUnknownOp)
		}
		if err := edit.apply(&out); err != nil {
			return doc, fmt.Errorf("edits[%d] %s: %w", i, edit.Op(), err)
		}
	}
	return out, nil
}

type SetHeaderField struct {
	Field string
	Value string
}

func (SetHeaderField) Op() string { return "set_header_field" }

func (e SetHeaderField) apply(doc *ResumeDocument) error {
	switch e.Field {
	case "name":
		doc.Header.Name = e.Value
	case "title":
		doc.Header.Title = e.Value
	case "location":
		doc.Header.Location = e.Value
	case "phone":
		doc.Header.Phone = e.Value
	case "email":
		doc.Header.Email = e.Value
	case "linkedin":
		doc.Header.LinkedIn = e.Value
	case "portfolio":
		doc.Header.Portfolio = e.Value
	default:
		return fmt.Errorf("%w: header.%s", ErrUnknownField, e.Field)
	}
	return nil
}

type SetSummary struct{ Value string }

func (SetSummary) Op() string { return "set_summary" }

func (e SetSummary) apply(doc *ResumeDocument) error {
	doc.Summary = e.Value
	return nil
}

type SetSkillGroup struct {
	Index int
	Group string
}

func (SetSkillGroup) Op() string { return "set_skill_group" }

func (e SetSkillGroup) apply(doc *ResumeDocument) error {
	if err := checkIndex(e.Index, len(doc.Skills)); err != nil {
		return err
	}
	doc.Skills[e.Index].Group = e.Group
	return nil
}

// SetSkillItems replaces the items of a skill group. Blank items are dropped.
type SetSkillItems struct {
	Index int
	Items []string
}

func (SetSkillItems) Op() string { return "set_skill_items" }

func (e SetSkillItems) apply(doc *ResumeDocument) error {
	if err := checkIndex(e.Index, len(doc.Skills)); err != nil {
		return err
	}
	items := make([]string, 0, len(e.Items))
	for _, item := range e.Items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	doc.Skills[e.Index].Items = items
	return nil
}

type AddSkillGroup struct{}

func (AddSkillGroup) Op() string { return "add_skill_group" }

func (AddSkillGroup) apply(doc *ResumeDocument) error {
	doc.Skills = append(doc.Skills, ResumeSkillGroup{Items: []string{}})
	return nil
}

type RemoveSkillGroup struct{ Index int }

func (RemoveSkillGroup) Op() string { return "remove_skill_group" }

func (e RemoveSkillGroup) apply(doc *ResumeDocument) error {
	if err := checkIndex(e.Index, len(doc.Skills)); err != nil {
		return err
	}
	doc.Skills = removeAt(doc.Skills, e.Index)
	return nil
}

type SetExperienceField struct {
	Index int
	Field string
	Value string
}

func (SetExperienceField) Op() string { return "set_experience_field" }

func (e SetExperienceField) apply(doc *ResumeDocument) error {
	if err := checkIndex(e.Index, len(doc.Experience)); err != nil {
		return err
	}
	exp := &doc.Experience[e.Index]
	switch e.Field {
	case "company":
		exp.Company = e.Value
	case "role":
		exp.Role = e.Value
	case "start":
		exp.Start = e.Value
	case "end":
		exp.End = e.Value
	default:
		return fmt.Errorf("%w: experience.%s", ErrUnknownField, e.Field)
	}
	return nil
}

type SetExperienceBullet struct {
	Index  int
	Bullet int
	Value  string
}

func (SetExperienceBullet) Op() string { return "set_experience_bullet" }

func (e SetExperienceBullet) apply(doc *ResumeDocument) error {
	if err := checkIndex(e.Index, len(doc.Experience)); err != nil {
		return err
	}
	bullets := doc.Experience[e.Index].Bullets
	if err := checkIndex(e.Bullet, len(bullets)); err != nil {
		return err
	}
	bullets[e.Bullet] = e.Value
	return nil
}

type AddExperienceBullet struct{ Index int }

func (AddExperienceBullet) Op() string { return "add_experience_bullet" }

func (e AddExperienceBullet) apply(doc *ResumeDocument) error {
	if err := checkIndex(e.Index, len(doc.Experience)); err != nil {
		return err
	}
	doc.Experience[e.Index].Bullets = append(doc.Experience[e.Index].Bullets, "")
	return nil
}

type RemoveExperienceBullet struct {
	Index  int
	Bullet int
}

func (RemoveExperienceBullet) Op() string { return "remove_experience_bullet" }

func (e RemoveExperienceBullet) apply(doc *ResumeDocument) error {
	if err := checkIndex(e.Index, len(doc.Experience)); err != nil {
		return err
	}
	exp := &doc.Experience[e.Index]
	if err := checkIndex(e.Bullet, len(exp.Bullets)); err != nil {
		return err
	}
	exp.Bullets = removeAt(exp.Bullets, e.Bullet)
	return nil
}

type AddExperience struct{}

func (AddExperience) Op() string { return "add_experience" }

func (AddExperience) apply(doc *ResumeDocument) error {
	doc.Experience = append(doc.Experience, ResumeExperience{Bullets: []string{}})
	return nil
}

type RemoveExperience struct{ Index int }

func (RemoveExperience) Op() string { return "remove_experience" }

func (e RemoveExperience) apply(doc *ResumeDocument) error {
	if err := checkIndex(e.Index, len(doc.Experience)); err != nil {
		return err
	}
	doc.Experience = removeAt(doc.Experience, e.Index)
	return nil
}

type SetProjectField struct {
	Index int
	Field string
	Value string
}

func (SetProjectField) Op() string { return "set_project_field" }

func (e SetProjectField) apply(doc *ResumeDocument) error {
	if err := checkIndex(e.Index, len(doc.Projects)); err != nil {
		return err
	}
	project := &doc.Projects[e.Index]
	switch e.Field {
	case "name":
		project.Name = e.Value
	case "description":
		project.Description = e.Value
	default:
		return fmt.Errorf("%w: projects.%s", ErrUnknownField, e.Field)
	}
	return nil
}

type SetProjectBullet struct {
	Index  int
	Bullet int
	Value  string
}

func (SetProjectBullet) Op() string { return "set_project_bullet" }

func (e SetProjectBullet) apply(doc *ResumeDocument) error {
	if err := checkIndex(e.Index, len(doc.Projects)); err != nil {
		return err
	}
	bullets := doc.Projects[e.Index].Bullets
	if err := checkIndex(e.Bullet, len(bullets)); err != nil {
		return err
	}
	bullets[e.Bullet] = e.Value
	return nil
}

type AddProjectBullet struct{ Index int }

func (AddProjectBullet) Op() string { return "add_project_bullet" }

func (e AddProjectBullet) apply(doc *ResumeDocument) error {
	if err := checkIndex(e.Index, len(doc.Projects)); err != nil {
		return err
	}
	doc.Projects[e.Index].Bullets = append(doc.Projects[e.Index].Bullets, "")
	return nil
}

type RemoveProjectBullet struct {
	Index  int
	Bullet int
}

func (RemoveProjectBullet) Op() string { return "remove_project_bullet" }

func (e RemoveProjectBullet) apply(doc *ResumeDocument) error {
	if err := checkIndex(e.Index, len(doc.Projects)); err != nil {
		return err
	}
	project := &doc.Projects[e.Index]
	if err := checkIndex(e.Bullet, len(project.Bullets)); err != nil {
		return err
	}
	project.Bullets = removeAt(project.Bullets, e.Bullet)
	return nil
}

type AddProject struct{}

func (AddProject) Op() string { return "add_project" }

func (AddProject) apply(doc *ResumeDocument) error {
	doc.Projects = append(doc.Projects, ResumeProject{Bullets: []string{}})
	return nil
}

type RemoveProject struct{ Index int }

func (RemoveProject) Op() string { return "remove_project" }

func (e RemoveProject) apply(doc *ResumeDocument) error {
	if err := checkIndex(e.Index, len(doc.Projects)); err != nil {
		return err
	}
	doc.Projects = removeAt(doc.Projects, e.Index)
	return nil
}

type SetEducationField struct {
	Index int
	Field string
	Value string
}

func (SetEducationField) Op() string { return "set_education_field" }

func (e SetEducationField) apply(doc *ResumeDocument) error {
	if err := checkIndex(e.Index, len(doc.Education)); err != nil {
		return err
	}
	edu := &doc.Education[e.Index]
	switch e.Field {
	case "school":
		edu.School = e.Value
	case "degree":
		edu.Degree = e.Value
	case "year":
		edu.Year = e.Value
	case "cgpa":
		edu.CGPA = e.Value
	default:
		return fmt.Errorf("%w: education.%s", ErrUnknownField, e.Field)
	}
	return nil
}

type AddEducation struct{}

func (AddEducation) Op() string { return "add_education" }

func (AddEducation) apply(doc *ResumeDocument) error {
	doc.Education = append(doc.Education, ResumeEducation{})
	return nil
}

type RemoveEducation struct{ Index int }

func (RemoveEducation) Op() string { return "remove_education" }

func (e RemoveEducation) apply(doc *ResumeDocument) error {
	if err := checkIndex(e.Index, len(doc.Education)); err != nil {
		return err
	}
	doc.Education = removeAt(doc.Education, e.Index)
	return nil
}

type SetCertification struct {
	Index int
	Value string
}

func (SetCertification) Op() string { return "set_certification" }

func (e SetCertification) apply(doc *ResumeDocument) error {
	if err := checkIndex(e.Index, len(doc.Certifications)); err != nil {
		return err
	}
	doc.Certifications[e.Index] = e.Value
	return nil
}

type AddCertification struct{}

func (AddCertification) Op() string { return "add_certification" }

func (AddCertification) apply(doc *ResumeDocument) error {
	doc.Certifications = append(doc.Certifications, "")
	return nil
}

type RemoveCertification struct{ Index int }

func (RemoveCertification) Op() string { return "remove_certification" }

func (e RemoveCertification) apply(doc *ResumeDocument) error {
	if err := checkIndex(e.Index, len(doc.Certifications)); err != nil {
		return err
	}
	doc.Certifications = removeAt(doc.Certifications, e.Index)
	return nil
}

// WireEdit is the JSON form of an Edit.
type WireEdit struct {
	Op     string   `json:"op"`
	Field  string   `json:"field,omitempty"`
	Index  int      `json:"index"`
	Bullet int      `json:"bullet"`
	Value  string   `json:"value,omitempty"`
	Items  []string `json:"items,omitempty"`
}

// DecodeEdit decodes a single wire edit into its typed form.
func DecodeEdit(raw json.RawMessage) (Edit, error) {
	var w WireEdit
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("decode edit: %w", err)
	}
	return w.Edit()
}

// DecodeEdits decodes a list of wire edits, reporting the first bad entry.
func DecodeEdits(raws []json.RawMessage) ([]Edit, error) {
	out := make([]Edit, 0, len(raws))
	for i, raw := range raws {
		edit, err := DecodeEdit(raw)
		if err != nil {
			return nil, fmt.Errorf("edits[%d]: %w", i, err)
		}
		out = append(out, edit)
	}
	return out, nil
}

// Edit converts the wire form to a typed edit.
func (w WireEdit) Edit() (Edit, error) {
	switch strings.TrimSpace(w.Op) {
	case "set_header_field":
		return SetHeaderField{Field: w.Field, Value: w.Value}, nil
	case "set_summary":
		return SetSummary{Value: w.Value}, nil
	case "set_skill_group":
		return SetSkillGroup{Index: w.Index, Group: w.Value}, nil
	case "set_skill_items":
		return SetSkillItems{Index: w.Index, Items: w.Items}, nil
	case "add_skill_group":
		return AddSkillGroup{}, nil
	case "remove_skill_group":
		return RemoveSkillGroup{Index: w.Index}, nil
	case "set_experience_field":
		return SetExperienceField{Index: w.Index, Field: w.Field, Value: w.Value}, nil
	case "set_experience_bullet":
		return SetExperienceBullet{Index: w.Index, Bullet: w.Bullet, Value: w.Value}, nil
	case "add_experience_bullet":
		return AddExperienceBullet{Index: w.Index}, nil
	case "remove_experience_bullet":
		return RemoveExperienceBullet{Index: w.Index, Bullet: w.Bullet}, nil
	case "add_experience":
		return AddExperience{}, nil
	case "remove_experience":
		return RemoveExperience{Index: w.Index}, nil
	case "set_project_field":
		return SetProjectField{Index: w.Index, Field: w.Field, Value: w.Value}, nil
	case "set_project_bullet":
		return SetProjectBullet{Index: w.Index, Bullet: w.Bullet, Value: w.Value}, nil
	case "add_project_bullet":
		return AddProjectBullet{Index: w.Index}, nil
	case "remove_project_bullet":
		return RemoveProjectBullet{Index: w.Index, Bullet: w.Bullet}, nil
	case "add_project":
		return AddProject{}, nil
	case "remove_project":
		return RemoveProject{Index: w.Index}, nil
	case "set_education_field":
		return SetEducationField{Index: w.Index, Field: w.Field, Value: w.Value}, nil
	case "add_education":
		return AddEducation{}, nil
	case "remove_education":
		return RemoveEducation{Index: w.Index}, nil
	case "set_certification":
		return SetCertification{Index: w.Index, Value: w.Value}, nil
	case "add_certification":
		return AddCertification{}, nil
	case "remove_certification":
		return RemoveCertification{Index: w.Index}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOp, w.Op)
	}
}

func checkIndex(idx, n int) error {
	if idx < 0 || idx >= n {
		return fmt.Errorf("%w: %d (len %d)", ErrEditOutOfRange, idx, n)
	}
	return nil
}

func removeAt[T any](in []T, idx int) []T {
	out := make([]T, 0, len(in)-1)
	out = append(out, in[:idx]...)
	return append(out, in[idx+1:]...)
}
