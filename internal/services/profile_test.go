package services

import (
	"context"
	"errors"
	"testing"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/estoico/stoic-rag-backend/internal/types"
)

type fakeQuizRepo struct {
	quiz *types.QuizResponse
	err  error
}

func (f *fakeQuizRepo) GetByUserID(context.Context, *gorm.DB, string) (*types.QuizResponse, error) {
	return f.quiz, f.err
}

func TestGetProfileMissingQuiz(t *testing.T) {
	svc := NewProfileService(testLogger(t), &fakeQuizRepo{})

	_, err := svc.GetProfile(context.Background(), "user-1")
	if !errors.Is(err, ErrProfileMissing) {
		t.Fatalf("err=%v, want ErrProfileMissing", err)
	}
}

func TestGetProfileNormalizesVariants(t *testing.T) {
	quiz := &types.QuizResponse{
		UserID:                     "user-1",
		AgeRange:                   "25-34",
		SpiritualPracticeLevel:     "Práctica Media",
		SpiritualPracticeFrequency: "diaria",
		StoicLevel:                 "Intermedio",
		StoicPaths:                 datatypes.JSON(`["sabiduria", "Sabiduría", "Paz Interior", "camino_desconocido"]`),
		DailyChallenges:            datatypes.JSON(`["meditacion", "Estrés"]`),
	}
	svc := NewProfileService(testLogger(t), &fakeQuizRepo{quiz: quiz})

	profile, err := svc.GetProfile(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}

	if profile.AgeRange != "26-35" {
		t.Errorf("age_range=%q, want 26-35", profile.AgeRange)
	}
	if profile.PracticeFrequency != "diariamente" {
		t.Errorf("frequency=%q, want diariamente", profile.PracticeFrequency)
	}
	if profile.StoicLevel != types.LevelIntermediate {
		t.Errorf("level=%q, want intermedio", profile.StoicLevel)
	}
	wantPaths := []types.StoicPath{types.PathWisdom, types.PathInnerPeace}
	if len(profile.StoicPaths) != len(wantPaths) {
		t.Fatalf("paths=%v, want %v", profile.StoicPaths, wantPaths)
	}
	for i := range wantPaths {
		if profile.StoicPaths[i] != wantPaths[i] {
			t.Fatalf("paths=%v, want %v", profile.StoicPaths, wantPaths)
		}
	}
	wantChallenges := []types.DailyChallenge{types.ChallengeMorningMeditation, types.ChallengeStress}
	if len(profile.DailyChallenges) != len(wantChallenges) {
		t.Fatalf("challenges=%v, want %v", profile.DailyChallenges, wantChallenges)
	}
	if profile.NumExercises != 5 {
		t.Errorf("num_exercises=%d, want 5", profile.NumExercises)
	}
}

func TestGetProfileLegacyBareStringColumns(t *testing.T) {
	quiz := &types.QuizResponse{
		UserID:          "user-1",
		StoicLevel:      "principiante",
		StoicPaths:      datatypes.JSON(`"coraje"`),
		DailyChallenges: datatypes.JSON(`""`),
	}
	svc := NewProfileService(testLogger(t), &fakeQuizRepo{quiz: quiz})

	profile, err := svc.GetProfile(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if len(profile.StoicPaths) != 1 || profile.StoicPaths[0] != types.PathCourage {
		t.Fatalf("paths=%v, want [Coraje]", profile.StoicPaths)
	}
	if len(profile.DailyChallenges) != 0 {
		t.Fatalf("challenges=%v, want none", profile.DailyChallenges)
	}
}

func TestGetProfileEmptyColumns(t *testing.T) {
	quiz := &types.QuizResponse{UserID: "user-1"}
	svc := NewProfileService(testLogger(t), &fakeQuizRepo{quiz: quiz})

	profile, err := svc.GetProfile(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if profile.StoicLevel != types.LevelBeginner {
		t.Fatalf("level=%q, want default principiante", profile.StoicLevel)
	}
	if len(profile.StoicPaths) != 0 {
		t.Fatalf("paths=%v, want none", profile.StoicPaths)
	}
}
