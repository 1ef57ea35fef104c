package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/estoico/stoic-rag-backend/internal/logger"
	"github.com/estoico/stoic-rag-backend/internal/normalization"
	"github.com/estoico/stoic-rag-backend/internal/repos"
	"github.com/estoico/stoic-rag-backend/internal/types"
)

type ProfileService interface {
	// GetProfile loads and normalizes the user's questionnaire. Returns
	// ErrProfileMissing when the user never answered the quiz.
	GetProfile(ctx context.Context, userID string) (*types.UserProfile, error)
}

type profileService struct {
	log      *logger.Logger
	quizRepo repos.QuizRepo
}

func NewProfileService(log *logger.Logger, quizRepo repos.QuizRepo) ProfileService {
	return &profileService{
		log:      log.With("service", "ProfileService"),
		quizRepo: quizRepo,
	}
}

func (ps *profileService) GetProfile(ctx context.Context, userID string) (*types.UserProfile, error) {
	quiz, err := ps.quizRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load quiz: %w", err)
	}
	if quiz == nil {
		return nil, ErrProfileMissing
	}

	rawPaths, err := decodeJSONList(quiz.StoicPaths)
	if err != nil {
		return nil, fmt.Errorf("failed to decode stoic_paths: %w", err)
	}
	rawChallenges, err := decodeJSONList(quiz.DailyChallenges)
	if err != nil {
		return nil, fmt.Errorf("failed to decode daily_challenges: %w", err)
	}

	paths := normalization.CanonicalStoicPaths(rawPaths)
	if len(paths) < len(rawPaths) {
		ps.log.Warn("Dropped unrecognized stoic path variants", "user_id", userID, "raw", len(rawPaths), "kept", len(paths))
	}
	challenges := normalization.CanonicalChallenges(rawChallenges)
	if len(challenges) < len(rawChallenges) {
		ps.log.Warn("Dropped unrecognized challenge variants", "user_id", userID, "raw", len(rawChallenges), "kept", len(challenges))
	}

	return &types.UserProfile{
		UserID:            userID,
		AgeRange:          normalization.CanonicalAgeRange(quiz.AgeRange),
		Gender:            normalization.ParseInputString(quiz.Gender),
		Country:           normalization.ParseInputString(quiz.Country),
		ReligiousBelief:   normalization.ParseInputString(quiz.ReligiousBelief),
		PracticeLevel:     normalization.Fold(quiz.SpiritualPracticeLevel),
		PracticeFrequency: normalization.CanonicalFrequency(quiz.SpiritualPracticeFrequency),
		StoicLevel:        normalization.CanonicalStoicLevel(quiz.StoicLevel),
		StoicPaths:        paths,
		DailyChallenges:   challenges,
		NumExercises:      5,
	}, nil
}

func decodeJSONList(raw []byte) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		// Some legacy rows stored a single bare string instead of an array.
		var single string
		if err2 := json.Unmarshal(raw, &single); err2 == nil {
			if strings.TrimSpace(single) == "" {
				return nil, nil
			}
			return []string{single}, nil
		}
		return nil, err
	}
	return out, nil
}
