package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/nihongo/internal/entity"
	"github.com/eslsoft/nihongo/internal/repository"
)

// SettingsUpdate carries the profile fields to change; nil fields are left alone.
type SettingsUpdate struct {
	Name            *string
	Theme           *entity.Theme
	DailyGoal       *int
	ShowStrokeOrder *bool
	ShowMnemonics   *bool
	EnableSounds    *bool
	FontSize        *string
	AnimationSpeed  *string
}

// ProfileUsecase manages the learner account and whole-state resets.
type ProfileUsecase interface {
	// Ensure returns the stored profile, creating a default one on first use.
	Ensure(ctx context.Context) (*entity.UserProfile, error)
	CreateUser(ctx context.Context, name string) (*entity.UserProfile, error)
	SaveSettings(ctx context.Context, update SettingsUpdate) (*entity.UserProfile, error)
	ResetAll(ctx context.Context) error
	ResetProgressOnly(ctx context.Context) error
}

// NewProfileUsecase wires the profile usecase around the study state owner.
func NewProfileUsecase(repo repository.StateRepository, study StudyUsecase, log logrus.FieldLogger) ProfileUsecase {
	return &profileUsecase{
		repo:  repo,
		study: study,
		log:   log,
		clock: time.Now,
	}
}

type profileUsecase struct {
	repo  repository.StateRepository
	study StudyUsecase
	log   logrus.FieldLogger
	clock func() time.Time
}

func (u *profileUsecase) Ensure(ctx context.Context) (*entity.UserProfile, error) {
	profile, err := u.repo.GetProfile(ctx)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return u.CreateUser(ctx, entity.DefaultProfileName)
	}
	if err := u.study.Load(ctx); err != nil {
		return nil, err
	}
	return profile, nil
}

func (u *profileUsecase) CreateUser(ctx context.Context, name string) (*entity.UserProfile, error) {
	if len(strings.TrimSpace(name)) > 64 {
		return nil, entity.ErrInvalidProfileName
	}
	profile := entity.NewUserProfile(uuid.NewString(), name, u.clock())
	if err := u.repo.SaveProfile(ctx, &profile); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	u.log.WithFields(logrus.Fields{"profile_id": profile.ID, "name": profile.Name}).Info("profile created")
	if err := u.study.Load(ctx); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (u *profileUsecase) SaveSettings(ctx context.Context, update SettingsUpdate) (*entity.UserProfile, error) {
	if update.Name != nil && len(strings.TrimSpace(*update.Name)) > 64 {
		return nil, entity.ErrInvalidProfileName
	}
	return u.study.UpdateProfile(ctx, func(p *entity.UserProfile) {
		if update.Name != nil {
			if name := strings.TrimSpace(*update.Name); name != "" {
				p.Name = name
			}
		}
		prefs := &p.Preferences
		if update.Theme != nil {
			prefs.Theme = *update.Theme
		}
		if update.DailyGoal != nil {
			prefs.DailyGoal = *update.DailyGoal
		}
		if update.ShowStrokeOrder != nil {
			prefs.ShowStrokeOrder = *update.ShowStrokeOrder
		}
		if update.ShowMnemonics != nil {
			prefs.ShowMnemonics = *update.ShowMnemonics
		}
		if update.EnableSounds != nil {
			prefs.EnableSounds = *update.EnableSounds
		}
		if update.FontSize != nil {
			prefs.FontSize = *update.FontSize
		}
		if update.AnimationSpeed != nil {
			prefs.AnimationSpeed = *update.AnimationSpeed
		}
	})
}

func (u *profileUsecase) ResetAll(ctx context.Context) error {
	if err := u.repo.Reset(ctx, repository.AllKeys...); err != nil {
		return fmt.Errorf("reset all: %w", err)
	}
	u.log.Warn("all study data removed")
	return u.study.Load(ctx)
}

func (u *profileUsecase) ResetProgressOnly(ctx context.Context) error {
	if err := u.repo.Reset(ctx, repository.ProgressKeys...); err != nil {
		return fmt.Errorf("reset progress: %w", err)
	}
	u.log.Warn("progress, sessions and daily stats removed")
	return u.study.Load(ctx)
}
