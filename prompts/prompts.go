// Package prompts routes questions to a prompt template and provides the
// canned answers served when the language model is unavailable.
package prompts

import "strings"

// QuestionType selects the prompt template used for a question.
type QuestionType string

const (
	QuestionTypeGeneral QuestionType = "general"
	QuestionTypeZoning  QuestionType = "zonage"
	QuestionTypeHeight  QuestionType = "hauteur"
)

var heightKeywords = []string{"hauteur", "haut", "étage", "faîtage"}
var zoningKeywords = []string{"zone", "zonage", "secteur"}

// Classify picks a question type by keyword.
func Classify(question string) QuestionType {
	q := strings.ToLower(question)
	for _, w := range heightKeywords {
		if strings.Contains(q, w) {
			return QuestionTypeHeight
		}
	}
	for _, w := range zoningKeywords {
		if strings.Contains(q, w) {
			return QuestionTypeZoning
		}
	}
	return QuestionTypeGeneral
}

const SystemPrompt = `Tu es un assistant expert en urbanisme. Tu réponds uniquement à partir du contexte fourni. Si le contexte ne permet pas de répondre, dis-le clairement au lieu d'inventer une réponse. Tes réponses sont précises et concises.`

var templates = map[QuestionType]string{
	QuestionTypeGeneral: `Tu es un assistant expert en urbanisme.
Contexte:
{context}

Question: {question}

Réponse:`,
	QuestionTypeZoning: `Tu es un expert en zonage urbain (PLU).
Zone concernée: {zone}
Règlement applicable:
{context}

Question: {question}

Réponse:`,
	QuestionTypeHeight: `Tu es un expert en règles d'urbanisme.
Contexte réglementaire:
{context}

Question sur les hauteurs: {question}

Réponse:`,
}

// Build fills the template for the question type with the retrieved context.
// zone is only referenced by the zoning template; it reads "non précisée"
// when no zone could be determined for the question.
func Build(qt QuestionType, question, context, zone string) string {
	template, ok := templates[qt]
	if !ok {
		template = templates[QuestionTypeGeneral]
	}
	if zone == "" {
		zone = "non précisée"
	}
	r := strings.NewReplacer("{context}", context, "{question}", question, "{zone}", zone)
	return r.Replace(template)
}

// Fallback produces a rule-based answer for when the LLM cannot be reached.
func Fallback(question string) string {
	q := strings.ToLower(question)
	switch {
	case strings.Contains(q, "hauteur"):
		return "La hauteur maximale autorisée varie selon le zonage. En général : Zone UA (centre-ville) : 15-18m, Zone UB (urbain mixte) : 12m, Zone UC (pavillonnaire) : 9m. Consultez le PLU de votre commune pour les règles précises."
	case strings.Contains(q, "zone"):
		return "Le zonage dépend du PLU de chaque commune. Les principales zones sont : UA (centre urbain), UB (urbain mixte), UC (pavillonnaire), AU (à urbaniser), A (agricole), N (naturelle)."
	case strings.Contains(q, "emprise"):
		return "L'emprise au sol maximale varie selon les zones : 60-80% en zone urbaine dense, 40-60% en zone mixte, 30-40% en zone pavillonnaire."
	default:
		return "Je peux vous aider avec les questions sur le zonage, les hauteurs maximales, l'emprise au sol, les distances aux limites, et les règles de stationnement. Précisez votre question pour une réponse plus détaillée."
	}
}
