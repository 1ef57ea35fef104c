package services

import (
	"strings"
	"testing"

	"github.com/estoico/stoic-rag-backend/internal/types"
)

func TestBuildExercisePromptWithContext(t *testing.T) {
	profile := testProfile("user-1")
	retCtx := &RetrievalContext{Text: "pasaje sobre la dicotomía del control", Source: "enquiridion.txt"}

	prompt := BuildExercisePrompt(profile, 2, 5, retCtx, "amor fati")

	for _, want := range []string{
		"pasaje sobre la dicotomía del control",
		`"enquiridion.txt"`,
		"GUÍA PEDAGÓGICA PARA NIVEL INTERMEDIO",
		"el 2 de 5 de esta serie",
		"centrado en: amor fati",
		"RESPONDE SOLO CON EL JSON",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if strings.Contains(prompt, "No hay pasajes disponibles") {
		t.Error("fallback note present despite retrieved context")
	}
}

func TestBuildExercisePromptWithoutContext(t *testing.T) {
	profile := testProfile("user-1")
	retCtx := &RetrievalContext{Text: "", Source: FallbackSource}

	prompt := BuildExercisePrompt(profile, 1, 5, retCtx, "la visualización negativa")
	if !strings.Contains(prompt, "No hay pasajes disponibles") {
		t.Error("prompt missing the fallback note")
	}
	if strings.Contains(prompt, "CONTENIDO DE LOS TEXTOS") {
		t.Error("context block present without retrieved passages")
	}
}

func TestLevelGuidanceDiffersByLevel(t *testing.T) {
	levels := []types.StoicLevel{
		types.LevelBeginner,
		types.LevelIntermediate,
		types.LevelAdvanced,
		types.LevelMaster,
	}
	seen := make(map[string]types.StoicLevel, len(levels))
	for _, lvl := range levels {
		g := guidanceFor(lvl)
		if g == "" {
			t.Fatalf("no guidance for level %s", lvl)
		}
		if prev, dup := seen[g]; dup {
			t.Fatalf("levels %s and %s share guidance", prev, lvl)
		}
		seen[g] = lvl
	}

	if guidanceFor(types.StoicLevel("desconocido")) != guidanceFor(types.LevelBeginner) {
		t.Fatal("unknown level should fall back to beginner guidance")
	}
}

func TestProfileSummary(t *testing.T) {
	summary := ProfileSummary(testProfile("user-1"))
	for _, want := range []string{"26-35", "intermedio", "Sabiduría", "Paz Interior"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary %q missing %q", summary, want)
		}
	}
}
