package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Tomlord1122/planner-backend/internal/domain"
	"github.com/Tomlord1122/planner-backend/internal/repository"
)

const (
	PrefShowMealPlan = "showMealPlan"
	// PrefShowAllPrefix is followed by the list name, e.g. "showAll.todos".
	PrefShowAllPrefix = "showAll"
)

// PreferenceService stores the per-user UI flags.
type PreferenceService interface {
	// Get returns every stored flag plus the known defaults (false).
	Get(ctx context.Context, userID uint) (map[string]bool, error)
	Set(ctx context.Context, userID uint, key string, value bool) error
}

type preferenceService struct {
	repo repository.PreferenceRepository
}

func NewPreferenceService(repo repository.PreferenceRepository) PreferenceService {
	return &preferenceService{repo: repo}
}

func validPreferenceKey(key string) bool {
	if key == PrefShowMealPlan || key == PrefShowAllPrefix {
		return true
	}
	rest, ok := strings.CutPrefix(key, PrefShowAllPrefix+".")
	return ok && rest != "" && len(key) <= 64
}

func (s *preferenceService) Get(ctx context.Context, userID uint) (map[string]bool, error) {
	prefs, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}
	out := map[string]bool{PrefShowMealPlan: false, PrefShowAllPrefix: false}
	for _, p := range prefs {
		out[p.Key] = p.Value
	}
	return out, nil
}

func (s *preferenceService) Set(ctx context.Context, userID uint, key string, value bool) error {
	if !validPreferenceKey(key) {
		return invalid("unknown preference %q", key)
	}
	if err := s.repo.Set(ctx, &domain.Preference{UserID: userID, Key: key, Value: value}); err != nil {
		return fmt.Errorf("failed to save preference %s: %w", key, err)
	}
	return nil
}
