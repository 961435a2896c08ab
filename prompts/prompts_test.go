package prompts

import (
	"strings"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		question string
		expected QuestionType
	}{
		{"Quelle est la hauteur maximale au faîtage ?", QuestionTypeHeight},
		{"Combien d'étages puis-je construire ?", QuestionTypeHeight},
		{"Dans quelle zone se trouve ma parcelle ?", QuestionTypeZoning},
		{"Quel est le zonage du secteur nord ?", QuestionTypeZoning},
		{"Quelles sont les règles de stationnement ?", QuestionTypeGeneral},
		{"", QuestionTypeGeneral},
	}
	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			if got := Classify(tt.question); got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestClassifyPrefersHeight(t *testing.T) {
	// Height keywords win over zoning keywords when both appear.
	got := Classify("Quelle est la hauteur maximale en zone UB ?")
	if got != QuestionTypeHeight {
		t.Errorf("expected %s, got %s", QuestionTypeHeight, got)
	}
}

func TestBuild(t *testing.T) {
	prompt := Build(QuestionTypeZoning, "Quelle zone ?", "Article UB 2", "UB")
	if !strings.Contains(prompt, "Article UB 2") {
		t.Errorf("expected prompt to contain the context, got %q", prompt)
	}
	if !strings.Contains(prompt, "Quelle zone ?") {
		t.Errorf("expected prompt to contain the question, got %q", prompt)
	}
	if !strings.Contains(prompt, "Zone concernée: UB") {
		t.Errorf("expected prompt to name the zone, got %q", prompt)
	}
	if strings.Contains(prompt, "{context}") || strings.Contains(prompt, "{question}") || strings.Contains(prompt, "{zone}") {
		t.Errorf("expected placeholders to be replaced, got %q", prompt)
	}
}

func TestBuildZoneDefault(t *testing.T) {
	prompt := Build(QuestionTypeZoning, "Quelle zone ?", "Article UB 2", "")
	if !strings.Contains(prompt, "Zone concernée: non précisée") {
		t.Errorf("expected a placeholder zone, got %q", prompt)
	}
}

func TestBuildUnknownTypeUsesGeneral(t *testing.T) {
	got := Build(QuestionType("autre"), "q", "c", "")
	expected := Build(QuestionTypeGeneral, "q", "c", "")
	if got != expected {
		t.Errorf("expected the general template, got %q", got)
	}
}

func TestFallback(t *testing.T) {
	tests := []struct {
		question string
		contains string
	}{
		{"Quelle hauteur maximale ?", "hauteur maximale autorisée"},
		{"Quelle est ma zone ?", "zonage dépend du PLU"},
		{"Quelle emprise au sol ?", "emprise au sol maximale"},
		{"Bonjour", "Précisez votre question"},
	}
	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			got := Fallback(tt.question)
			if !strings.Contains(got, tt.contains) {
				t.Errorf("expected answer to contain %q, got %q", tt.contains, got)
			}
		})
	}
}
