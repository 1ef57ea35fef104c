package services

import (
	"fmt"
	"strings"

	"github.com/estoico/stoic-rag-backend/internal/types"
)

// levelGuidance gives the model a distinct pedagogical depth and duration
// expectation per stoic level.
var levelGuidance = map[types.StoicLevel]string{
	types.LevelBeginner: "Usa lenguaje sencillo y explica los conceptos estoicos desde cero. " +
		"El ejercicio debe ser corto y concreto: 5-10 minutos al día, durante 1 a 3 días.",
	types.LevelIntermediate: "Asume familiaridad con la dicotomía del control y las virtudes cardinales. " +
		"Propón una práctica regular de 10-20 minutos al día, durante 3 a 7 días.",
	types.LevelAdvanced: "Exige rigor: conecta el ejercicio con pasajes concretos de los textos y pide registro escrito. " +
		"Práctica sostenida de 1 a 2 semanas.",
	types.LevelMaster: "Plantea una práctica de integración profunda que combine disciplina del deseo, " +
		"de la acción y del asentimiento. Duración de 2 a 4 semanas con autoevaluación periódica.",
}

func guidanceFor(level types.StoicLevel) string {
	if g, ok := levelGuidance[level]; ok {
		return g
	}
	return levelGuidance[types.LevelBeginner]
}

func profileSummaryBlock(profile *types.UserProfile) string {
	paths := make([]string, 0, len(profile.StoicPaths))
	for _, p := range profile.StoicPaths {
		paths = append(paths, string(p))
	}
	challenges := make([]string, 0, len(profile.DailyChallenges))
	for _, c := range profile.DailyChallenges {
		challenges = append(challenges, string(c))
	}

	var b strings.Builder
	b.WriteString("PERFIL DEL USUARIO:\n")
	fmt.Fprintf(&b, "- Rango de edad: %s\n", orUnspecified(profile.AgeRange))
	fmt.Fprintf(&b, "- Nivel estoico: %s\n", profile.StoicLevel)
	fmt.Fprintf(&b, "- Práctica espiritual: %s (%s)\n", orUnspecified(profile.PracticeLevel), orUnspecified(profile.PracticeFrequency))
	fmt.Fprintf(&b, "- Caminos de interés: %s\n", strings.Join(paths, ", "))
	fmt.Fprintf(&b, "- Desafíos diarios: %s\n", strings.Join(challenges, ", "))
	if profile.ReligiousBelief != "" {
		fmt.Fprintf(&b, "- Creencia: %s\n", profile.ReligiousBelief)
	}
	return b.String()
}

func orUnspecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return "no especificado"
	}
	return s
}

// ProfileSummary is the one-line summary emitted on the profile stream event.
func ProfileSummary(profile *types.UserProfile) string {
	paths := make([]string, 0, len(profile.StoicPaths))
	for _, p := range profile.StoicPaths {
		paths = append(paths, string(p))
	}
	return fmt.Sprintf("Usuario %s | %s | Nivel estoico: %s | Caminos: %s",
		profile.AgeRange,
		orUnspecified(profile.PracticeLevel),
		profile.StoicLevel,
		strings.Join(paths, ", "),
	)
}

// BuildExercisePrompt renders the per-item prompt. The same retrieved context
// grounds every item of the batch; the focus area and the uniqueness
// instruction are what vary between items.
func BuildExercisePrompt(profile *types.UserProfile, itemIndex, total int, retCtx *RetrievalContext, focus string) string {
	var b strings.Builder

	b.WriteString("Eres un mentor estoico sabio y empático, formado en Marco Aurelio, Epicteto y Séneca.\n\n")
	b.WriteString(profileSummaryBlock(profile))
	b.WriteString("\n")

	if retCtx.Text != "" {
		fmt.Fprintf(&b, "CONTENIDO DE LOS TEXTOS ESTOICOS (\"%s\"):\n%s\n\n", retCtx.Source, retCtx.Text)
	} else {
		b.WriteString("No hay pasajes disponibles; fundamenta el ejercicio en los principios generales del estoicismo.\n\n")
	}

	fmt.Fprintf(&b, "GUÍA PEDAGÓGICA PARA NIVEL %s:\n%s\n\n", strings.ToUpper(string(profile.StoicLevel)), guidanceFor(profile.StoicLevel))

	fmt.Fprintf(&b, "INSTRUCCIONES:\nGenera EXACTAMENTE UN ejercicio práctico estoico (el %d de %d de esta serie) centrado en: %s.\n\n", itemIndex, total, focus)
	b.WriteString("Requisitos:\n")
	b.WriteString("1. Personalizado a los desafíos y caminos del perfil\n")
	b.WriteString("2. Fundamentado en el contenido de los textos cuando esté disponible\n")
	b.WriteString("3. Práctico y accionable, con pasos concretos\n")
	fmt.Fprintf(&b, "4. DISTINTO en estructura y tema de los otros %d ejercicios de la serie: no repitas enfoques ni nombres\n\n", total-1)

	b.WriteString("FORMATO DE RESPUESTA (JSON):\n")
	b.WriteString(`{
  "name": "Nombre breve del ejercicio",
  "level": "principiante|intermedio|avanzado|maestro",
  "objective": "Qué busca lograr el ejercicio",
  "instructions": "Instrucciones claras paso a paso",
  "duration": "Duración (ej: 1 día, 3 días, 1 semana)",
  "reflection": "Pregunta de reflexión o autoevaluación final",
  "source": "Cita o referencia del texto que respalda el ejercicio"
}`)
	b.WriteString("\n\nIMPORTANTE:\n- Usa un tono cálido y motivador\n- Sé específico, no genérico\n- RESPONDE SOLO CON EL JSON, SIN TEXTO ADICIONAL\n")

	return b.String()
}
