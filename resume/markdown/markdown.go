// Package markdown renders a ResumeDocument as Markdown for the preview pane.
package markdown

import (
	"strings"

	"resume-ats/resume/model"
)

// Render returns the Markdown form of doc. Empty sections are omitted.
func Render(doc model.ResumeDocument) string {
	var b strings.Builder

	writeHeader(&b, doc.Header)

	if summary := strings.TrimSpace(doc.Summary); summary != "" {
		section(&b, "Summary")
		b.WriteString(summary)
		b.WriteString("\n")
	}

	if skills := model.Filled(doc.Skills); len(skills) > 0 {
		section(&b, "Skills")
		for _, group := range skills {
			items := strings.Join(nonEmpty(group.Items), ", ")
			switch {
			case strings.TrimSpace(group.Group) == "":
				b.WriteString("- " + items + "\n")
			default:
				b.WriteString("- **" + strings.TrimSpace(group.Group) + ":** " + items + "\n")
			}
		}
	}

	if experience := model.Filled(doc.Experience); len(experience) > 0 {
		section(&b, "Experience")
		for i, exp := range experience {
			if i > 0 {
				b.WriteString("\n")
			}
			if title := roleLine(exp); title != "" {
				b.WriteString("### " + title + "\n")
			}
			if dates := dateRange(exp.Start, exp.End); dates != "" {
				b.WriteString("*" + dates + "*\n")
			}
			writeBullets(&b, exp.Bullets)
			if tech := nonEmpty(exp.Tech); len(tech) > 0 {
				b.WriteString("\n**Tech:** " + strings.Join(tech, ", ") + "\n")
			}
		}
	}

	if projects := model.Filled(doc.Projects); len(projects) > 0 {
		section(&b, "Projects")
		for i, project := range projects {
			if i > 0 {
				b.WriteString("\n")
			}
			if name := strings.TrimSpace(project.Name); name != "" {
				b.WriteString("### " + name + "\n")
			}
			if desc := strings.TrimSpace(project.Description); desc != "" {
				b.WriteString(desc + "\n")
			}
			writeBullets(&b, project.Bullets)
			if tech := nonEmpty(project.Tech); len(tech) > 0 {
				b.WriteString("\n**Tech:** " + strings.Join(tech, ", ") + "\n")
			}
		}
	}

	if education := model.Filled(doc.Education); len(education) > 0 {
		section(&b, "Education")
		for _, edu := range education {
			b.WriteString("- " + educationLine(edu) + "\n")
		}
	}

	if certs := nonEmpty(doc.Certifications); len(certs) > 0 {
		section(&b, "Certifications")
		writeBullets(&b, certs)
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

func writeHeader(b *strings.Builder, h model.ResumeHeader) {
	b.WriteString("# " + strings.TrimSpace(h.Name) + "\n")
	if title := strings.TrimSpace(h.Title); title != "" {
		b.WriteString("**" + title + "**\n")
	}
	var meta []string
	if loc := strings.TrimSpace(h.Location); loc != "" {
		meta = append(meta, loc)
	}
	meta = append(meta, h.Contacts()...)
	if len(meta) > 0 {
		b.WriteString("\n" + strings.Join(meta, " | ") + "\n")
	}
}

func section(b *strings.Builder, title string) {
	b.WriteString("\n## " + title + "\n\n")
}

func writeBullets(b *strings.Builder, bullets []string) {
	for _, bullet := range nonEmpty(bullets) {
		b.WriteString("- " + bullet + "\n")
	}
}

func roleLine(exp model.ResumeExperience) string {
	role := strings.TrimSpace(exp.Role)
	company := strings.TrimSpace(exp.Company)
	switch {
	case role != "" && company != "":
		return role + " at " + company
	case role != "":
		return role
	default:
		return company
	}
}

func dateRange(start, end string) string {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	switch {
	case start != "" && end != "":
		return start + " - " + end
	case start != "":
		return start
	default:
		return end
	}
}

func educationLine(edu model.ResumeEducation) string {
	line := strings.TrimSpace(edu.Degree)
	if school := strings.TrimSpace(edu.School); school != "" {
		if line != "" {
			line = "**" + line + "** - " + school
		} else {
			line = school
		}
	}
	var extra []string
	if year := strings.TrimSpace(edu.Year); year != "" {
		extra = append(extra, year)
	}
	if cgpa := strings.TrimSpace(edu.CGPA); cgpa != "" {
		extra = append(extra, "CGPA: "+cgpa)
	}
	if len(extra) > 0 {
		line += " (" + strings.Join(extra, ", ") + ")"
	}
	return line
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
