package normalization

import (
	"strings"

	"github.com/estoico/stoic-rag-backend/internal/types"
)

func ParseInputString(s string) string {
	return strings.TrimSpace(s)
}

// Fold lowercases, strips the Spanish accents that differ between the two
// upstream vocabularies, and joins words with underscores, so that
// "Paz Interior", "paz interior" and "paz_interior" share one key.
func Fold(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	replacer := strings.NewReplacer(
		"á", "a",
		"é", "e",
		"í", "i",
		"ó", "o",
		"ú", "u",
		"ü", "u",
		"ñ", "n",
		" ", "_",
	)
	return replacer.Replace(s)
}

var stoicPathByKey = map[string]types.StoicPath{
	"paz_interior": types.PathInnerPeace,
	"autocontrol":  types.PathSelfControl,
	"sabiduria":    types.PathWisdom,
	"resiliencia":  types.PathResilience,
	"gratitud":     types.PathGratitude,
	"justicia":     types.PathJustice,
	"coraje":       types.PathCourage,
	"templanza":    types.PathTemperance,
	"virtud":       types.PathVirtue,
}

var challengeByKey = map[string]types.DailyChallenge{
	"meditacion_matutina":    types.ChallengeMorningMeditation,
	"meditacion":             types.ChallengeMorningMeditation,
	"reflexion_nocturna":     types.ChallengeEveningReflection,
	"reflexion":              types.ChallengeEveningReflection,
	"diario_estoico":         types.ChallengeStoicJournal,
	"diario":                 types.ChallengeStoicJournal,
	"visualizacion_negativa": types.ChallengeNegativeVisualization,
	"estres":                 types.ChallengeStress,
	"ansiedad":               types.ChallengeAnxiety,
	"ira":                    types.ChallengeAnger,
	"frustracion":            types.ChallengeFrustration,
	"tristeza":               types.ChallengeSadness,
	"miedo":                  types.ChallengeFear,
	"procrastinacion":        types.ChallengeProcrastination,
	"falta_de_enfoque":       types.ChallengeLackOfFocus,
	"relaciones":             types.ChallengeRelationships,
	"presion_laboral":        types.ChallengeWorkPressure,
	"ejercicio_fisico":       types.ChallengePhysicalExercise,
	"gratitud":               types.ChallengeGratitudePractice,
}

// ageRangeByKey maps the older upstream brackets onto the current ones.
var ageRangeByKey = map[string]string{
	"13-17": "13-17",
	"18-25": "18-25",
	"18-24": "18-25",
	"26-35": "26-35",
	"25-34": "26-35",
	"36-50": "36-50",
	"35-44": "36-50",
	"51+":   "51+",
	"45+":   "51+",
}

var frequencyByKey = map[string]string{
	"nunca":               "nunca",
	"ocasionalmente":      "ocasionalmente",
	"semanalmente":        "semanalmente",
	"diariamente":         "diariamente",
	"diaria":              "diariamente",
	"varias_veces_al_dia": "varias_veces_al_dia",
}

var stoicLevelByKey = map[string]types.StoicLevel{
	"principiante": types.LevelBeginner,
	"intermedio":   types.LevelIntermediate,
	"avanzado":     types.LevelAdvanced,
	"maestro":      types.LevelMaster,
}

// CanonicalStoicPath resolves a stored variant to its canonical path.
func CanonicalStoicPath(raw string) (types.StoicPath, bool) {
	p, ok := stoicPathByKey[Fold(raw)]
	return p, ok
}

// CanonicalStoicPaths drops unknown variants rather than propagating them.
func CanonicalStoicPaths(raw []string) []types.StoicPath {
	out := make([]types.StoicPath, 0, len(raw))
	seen := make(map[types.StoicPath]bool, len(raw))
	for _, r := range raw {
		p, ok := CanonicalStoicPath(r)
		if !ok || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

func CanonicalChallenge(raw string) (types.DailyChallenge, bool) {
	c, ok := challengeByKey[Fold(raw)]
	return c, ok
}

func CanonicalChallenges(raw []string) []types.DailyChallenge {
	out := make([]types.DailyChallenge, 0, len(raw))
	seen := make(map[types.DailyChallenge]bool, len(raw))
	for _, r := range raw {
		c, ok := CanonicalChallenge(r)
		if !ok || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

func CanonicalAgeRange(raw string) string {
	if v, ok := ageRangeByKey[Fold(raw)]; ok {
		return v
	}
	return ParseInputString(raw)
}

func CanonicalFrequency(raw string) string {
	if v, ok := frequencyByKey[Fold(raw)]; ok {
		return v
	}
	return ParseInputString(raw)
}

// CanonicalStoicLevel defaults unknown or empty levels to beginner, matching
// how the questionnaire treats users that skipped the question.
func CanonicalStoicLevel(raw string) types.StoicLevel {
	if v, ok := stoicLevelByKey[Fold(raw)]; ok {
		return v
	}
	return types.LevelBeginner
}
