package ai

import (
	"fmt"
	"strings"
)

// The prompts are written in French, matching the audience of the app.
// Each JSON-producing prompt documents its exact output schema; the same
// schema is enforced again in Go after extraction.

func buildLessonPrompt(grade, subject string) string {
	return fmt.Sprintf(`Agis comme un professeur particulier expert, pédagogue et amusant pour un élève en classe de %s.
Ta mission est de créer une mini-leçon et un quiz.

SUJET :
Choisis un sujet FONDAMENTAL et précis de la matière "%s" adapté au niveau "%s".

LEÇON :
Rédige une leçon courte, engageante et facile à comprendre en utilisant des analogies simples.

QUIZ :
Crée un quiz de 10 questions QCM pour évaluer la compréhension de la leçon. Associe chaque question à un "concept" clé.

FORMAT DE SORTIE (JSON valide, sans aucun texte avant ou après) :
{
  "sujet": "Le sujet précis que tu as choisi",
  "lecon_markdown": "Le contenu de la leçon en format Markdown.",
  "quiz_10_questions": [
    {
      "question": "Texte de la question",
      "options": ["Option A", "Option B", "Option C", "Option D"],
      "correct_answer": "La bonne réponse exacte",
      "concept": "Le concept évalué"
    }
  ]
}`, grade, subject, grade)
}

func buildRemediationPrompt(grade string, concepts []string) string {
	return fmt.Sprintf(`Agis comme un coach scolaire patient et encourageant pour un élève en %s.
L'élève vient de rater des questions sur les concepts suivants : %s.

TA MISSION :
1. Rédige une explication TRÈS SIMPLE, claire et concise pour l'aider à comprendre SPÉCIFIQUEMENT ces concepts. Utilise une autre analogie ou un autre exemple que la leçon initiale.
2. Crée un nouveau mini-quiz de 5 questions QCM très ciblées, uniquement sur ces concepts, pour vérifier qu'il a compris.

FORMAT DE SORTIE (JSON valide, sans aucun texte avant ou après) :
{
  "remediation_markdown": "Le contenu de l'explication ciblée en Markdown.",
  "quiz_5_questions": [
    {
      "question": "Texte de la question",
      "options": ["Option A", "Option B", "Option C"],
      "correct_answer": "La bonne réponse exacte"
    }
  ]
}`, grade, strings.Join(concepts, ", "))
}

func buildAppreciationPrompt(score, total int, topic string, remediated bool) string {
	context := fmt.Sprintf("L'élève a eu %d/%d sur le quiz concernant '%s'.", score, total, topic)
	if remediated {
		context += " Ce résultat a été obtenu après une session de remédiation, ce qui montre de la persévérance."
	}

	return fmt.Sprintf(`Agis comme un commentateur bienveillant et motivant.
Rédige une appréciation courte (2-3 phrases) pour un élève en te basant sur le contexte suivant : %s
- Si le score est bon, sois très positif et félicite.
- Si le score est moyen, souligne l'effort et la progression.
- Si le score est faible, mets l'accent sur la persévérance et le fait que l'échec fait partie de l'apprentissage.
Ne retourne que le texte de l'appréciation, rien d'autre.`, context)
}
