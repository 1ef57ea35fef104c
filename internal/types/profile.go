package types

// Canonical vocabulary for the stoic questionnaire. Historical rows carry
// variant spellings from two upstream systems; internal/normalization collapses
// them to these values before anything else sees them.

type StoicPath string

const (
	PathInnerPeace  StoicPath = "Paz Interior"
	PathSelfControl StoicPath = "Autocontrol"
	PathWisdom      StoicPath = "Sabiduría"
	PathResilience  StoicPath = "Resiliencia"
	PathGratitude   StoicPath = "Gratitud"
	PathJustice     StoicPath = "Justicia"
	PathCourage     StoicPath = "Coraje"
	PathTemperance  StoicPath = "Templanza"
	PathVirtue      StoicPath = "Virtud"
)

type DailyChallenge string

const (
	ChallengeMorningMeditation     DailyChallenge = "meditacion_matutina"
	ChallengeEveningReflection     DailyChallenge = "reflexion_nocturna"
	ChallengeStoicJournal          DailyChallenge = "diario_estoico"
	ChallengeNegativeVisualization DailyChallenge = "visualizacion_negativa"
	ChallengeStress                DailyChallenge = "estres"
	ChallengeAnxiety               DailyChallenge = "ansiedad"
	ChallengeAnger                 DailyChallenge = "ira"
	ChallengeFrustration           DailyChallenge = "frustracion"
	ChallengeSadness               DailyChallenge = "tristeza"
	ChallengeFear                  DailyChallenge = "miedo"
	ChallengeProcrastination       DailyChallenge = "procrastinacion"
	ChallengeLackOfFocus           DailyChallenge = "falta_de_enfoque"
	ChallengeRelationships         DailyChallenge = "relaciones"
	ChallengeWorkPressure          DailyChallenge = "presion_laboral"
	ChallengePhysicalExercise      DailyChallenge = "ejercicio_fisico"
	ChallengeGratitudePractice     DailyChallenge = "gratitud"
)

type StoicLevel string

const (
	LevelBeginner     StoicLevel = "principiante"
	LevelIntermediate StoicLevel = "intermedio"
	LevelAdvanced     StoicLevel = "avanzado"
	LevelMaster       StoicLevel = "maestro"
)

// UserProfile is the normalized questionnaire used by the generation workflow.
type UserProfile struct {
	UserID            string
	AgeRange          string
	Gender            string
	Country           string
	ReligiousBelief   string
	PracticeLevel     string
	PracticeFrequency string
	StoicLevel        StoicLevel
	StoicPaths        []StoicPath
	DailyChallenges   []DailyChallenge
	NumExercises      int
}
