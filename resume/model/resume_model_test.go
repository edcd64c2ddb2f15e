package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func sampleDocument() ResumeDocument {
	return ResumeDocument{
		Header:  ResumeHeader{Name: "Ada Lovelace", Email: "ada@example.com", Phone: "555-0100"},
		Summary: "Engineer.",
		Skills:  []ResumeSkillGroup{{Group: "Languages", Items: []string{"Go", "SQL"}}},
		Experience: []ResumeExperience{{
			Company: "Analytical Engines",
			Role:    "Engineer",
			Start:   "2019",
			End:     "Present",
			Bullets: []string{"Built the thing.", "Shipped the other thing."},
		}},
		Projects:       []ResumeProject{{Name: "Notes", Description: "Annotated translation.", Bullets: []string{"Wrote G."}}},
		Education:      []ResumeEducation{{School: "Home", Degree: "Mathematics"}},
		Certifications: []string{"CKA"},
	}
}

func TestValidateRequiresName(t *testing.T) {
	doc := ResumeDocument{Header: ResumeHeader{Name: "  "}}
	if err := doc.Validate(); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("expected ErrNameRequired, got %v", err)
	}
	if err := sampleDocument().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNormalizeFillsArrays(t *testing.T) {
	var doc ResumeDocument
	if err := json.Unmarshal([]byte(`{"header":{"name":"A"},"summary":"","experience":[{"company":"X"}]}`), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	doc.Normalize()

	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	out := string(raw)
	for _, want := range []string{`"skills":[]`, `"projects":[]`, `"education":[]`, `"bullets":[]`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in %s", want, out)
		}
	}
}

func TestContactsOrderAndSkipsEmpty(t *testing.T) {
	h := ResumeHeader{Email: "e@x.io", Portfolio: "x.io", Phone: " "}
	got := strings.Join(h.Contacts(), " | ")
	if got != "e@x.io | x.io" {
		t.Fatalf("unexpected contacts: %q", got)
	}
}

func TestCloneIsDeep(t *testing.T) {
	doc := sampleDocument()
	cp := doc.Clone()
	cp.Experience[0].Bullets[0] = "changed"
	cp.Skills[0].Items[0] = "changed"
	cp.Certifications[0] = "changed"
	if doc.Experience[0].Bullets[0] != "Built the thing." || doc.Skills[0].Items[0] != "Go" || doc.Certifications[0] != "CKA" {
		t.Fatalf("clone shares backing arrays with the source")
	}
}

func TestFilledDropsBlankEntries(t *testing.T) {
	doc, err := ApplyEdits(sampleDocument(), AddExperience{}, AddProject{}, AddEducation{}, AddSkillGroup{})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got := len(Filled(doc.Experience)); got != 1 {
		t.Fatalf("expected 1 filled experience, got %d", got)
	}
	if got := len(Filled(doc.Projects)); got != 1 {
		t.Fatalf("expected 1 filled project, got %d", got)
	}
	if got := len(Filled(doc.Education)); got != 1 {
		t.Fatalf("expected 1 filled education, got %d", got)
	}
	if got := len(Filled(doc.Skills)); got != 1 {
		t.Fatalf("expected 1 filled skill group, got %d", got)
	}

	techOnly := ResumeExperience{Bullets: []string{" "}, Tech: []string{"Go"}}
	if techOnly.IsBlank() {
		t.Fatal("an entry with tech is not blank")
	}
	if !(ResumeProject{Bullets: []string{"", "  "}}).IsBlank() {
		t.Fatal("whitespace-only bullets are blank")
	}
}
