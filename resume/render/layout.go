package render

import (
	"strings"

	"resume-ats/resume/model"
)

// BlockKind identifies how a block is styled.
type BlockKind int

const (
	BlockName BlockKind = iota
	BlockTitle
	BlockLocation
	BlockContacts
	BlockHeading
	BlockEntryTitle
	BlockMeta
	BlockBody
	BlockBullet
	// BlockLabeled is "Label: text" with a bold label.
	BlockLabeled
	// BlockEntryGap separates consecutive entries; it carries no text.
	BlockEntryGap
)

const bulletPrefix = "• "

// Block is one line-level unit of the exported document.
type Block struct {
	Kind  BlockKind
	Label string
	Text  string
}

// FullText is the text a reader sees for the block.
func (b Block) FullText() string {
	if b.Label != "" {
		return b.Label + ": " + b.Text
	}
	return b.Text
}

// Layout flattens doc into the ordered blocks both renderers draw. Sections
// with no content produce no blocks, heading included.
func Layout(doc model.ResumeDocument) []Block {
	var blocks []Block
	add := func(kind BlockKind, text string) {
		if text = strings.TrimSpace(text); text != "" {
			blocks = append(blocks, Block{Kind: kind, Text: text})
		}
	}

	h := doc.Header
	add(BlockName, h.Name)
	add(BlockTitle, h.Title)
	add(BlockLocation, h.Location)
	contacts := append(h.Contacts(), nonEmpty(h.Links)...)
	if len(contacts) > 0 {
		add(BlockContacts, strings.Join(contacts, " | "))
	}

	if summary := strings.TrimSpace(doc.Summary); summary != "" {
		add(BlockHeading, "SUMMARY")
		add(BlockBody, summary)
	}

	if skills := model.Filled(doc.Skills); len(skills) > 0 {
		add(BlockHeading, "SKILLS")
		for _, group := range skills {
			items := strings.Join(nonEmpty(group.Items), ", ")
			label := strings.TrimSpace(group.Group)
			if label == "" {
				add(BlockBody, items)
				continue
			}
			blocks = append(blocks, Block{Kind: BlockLabeled, Label: label, Text: items})
		}
	}

	if experience := model.Filled(doc.Experience); len(experience) > 0 {
		add(BlockHeading, "EXPERIENCE")
		for i, exp := range experience {
			if i > 0 {
				blocks = append(blocks, Block{Kind: BlockEntryGap})
			}
			add(BlockEntryTitle, joinNonEmpty(" at ", exp.Role, exp.Company))
			add(BlockMeta, joinNonEmpty(" - ", exp.Start, exp.End))
			for _, bullet := range nonEmpty(exp.Bullets) {
				add(BlockBullet, bulletPrefix+bullet)
			}
			if tech := nonEmpty(exp.Tech); len(tech) > 0 {
				blocks = append(blocks, Block{Kind: BlockLabeled, Label: "Tech", Text: strings.Join(tech, ", ")})
			}
		}
	}

	if projects := model.Filled(doc.Projects); len(projects) > 0 {
		add(BlockHeading, "PROJECTS")
		for i, project := range projects {
			if i > 0 {
				blocks = append(blocks, Block{Kind: BlockEntryGap})
			}
			add(BlockEntryTitle, project.Name)
			add(BlockBody, project.Description)
			for _, bullet := range nonEmpty(project.Bullets) {
				add(BlockBullet, bulletPrefix+bullet)
			}
			if tech := nonEmpty(project.Tech); len(tech) > 0 {
				blocks = append(blocks, Block{Kind: BlockLabeled, Label: "Tech", Text: strings.Join(tech, ", ")})
			}
		}
	}

	if education := model.Filled(doc.Education); len(education) > 0 {
		add(BlockHeading, "EDUCATION")
		for _, edu := range education {
			add(BlockEntryTitle, joinNonEmpty(" - ", edu.Degree, edu.School))
			var meta []string
			if year := strings.TrimSpace(edu.Year); year != "" {
				meta = append(meta, year)
			}
			if cgpa := strings.TrimSpace(edu.CGPA); cgpa != "" {
				meta = append(meta, "CGPA: "+cgpa)
			}
			add(BlockMeta, strings.Join(meta, " | "))
		}
	}

	if certs := nonEmpty(doc.Certifications); len(certs) > 0 {
		add(BlockHeading, "CERTIFICATIONS")
		for _, cert := range certs {
			add(BlockBullet, bulletPrefix+cert)
		}
	}

	return blocks
}

func joinNonEmpty(sep string, values ...string) string {
	return strings.Join(nonEmpty(values), sep)
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
