package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/eslsoft/nihongo/internal/entity"
	"github.com/eslsoft/nihongo/internal/repository"
)

// CharacterLookup resolves character ids against the static dataset.
type CharacterLookup interface {
	Character(id string) (entity.Character, bool)
}

// DeckUsecase manages learner-defined character decks.
type DeckUsecase interface {
	Create(ctx context.Context, deck *entity.CustomDeck) (*entity.CustomDeck, error)
	List(ctx context.Context) ([]entity.CustomDeck, error)
	Get(ctx context.Context, id string) (*entity.CustomDeck, error)
	AddCharacters(ctx context.Context, id string, characterIDs ...string) (*entity.CustomDeck, error)
	RemoveCharacters(ctx context.Context, id string, characterIDs ...string) (*entity.CustomDeck, error)
	MarkStudied(ctx context.Context, id string) (*entity.CustomDeck, error)
	Delete(ctx context.Context, id string) error
}

// NewDeckUsecase wires the repository with default behaviour.
func NewDeckUsecase(repo repository.StateRepository, chars CharacterLookup) DeckUsecase {
	return &deckUsecase{
		repo:  repo,
		chars: chars,
		clock: time.Now,
	}
}

type deckUsecase struct {
	repo  repository.StateRepository
	chars CharacterLookup
	clock func() time.Time
}

func (u *deckUsecase) Create(ctx context.Context, deck *entity.CustomDeck) (*entity.CustomDeck, error) {
	if deck == nil || strings.TrimSpace(deck.Name) == "" {
		return nil, entity.ErrInvalidDeckName
	}
	if err := u.checkCharacters(deck.CharacterIDs); err != nil {
		return nil, err
	}
	decks, err := u.repo.ListDecks(ctx)
	if err != nil {
		return nil, err
	}

	created := *deck
	created.ID = uuid.NewString()
	created.CreatedAt = time.Time{}
	created.LastStudied = nil
	created.CharacterIDs = lo.Uniq(deck.CharacterIDs)
	created.Normalize(u.clock())

	if err := u.repo.SaveDecks(ctx, append(decks, created)); err != nil {
		return nil, fmt.Errorf("save decks: %w", err)
	}
	return &created, nil
}

func (u *deckUsecase) List(ctx context.Context) ([]entity.CustomDeck, error) {
	return u.repo.ListDecks(ctx)
}

func (u *deckUsecase) Get(ctx context.Context, id string) (*entity.CustomDeck, error) {
	decks, err := u.repo.ListDecks(ctx)
	if err != nil {
		return nil, err
	}
	deck, ok := lo.Find(decks, func(d entity.CustomDeck) bool { return d.ID == id })
	if !ok {
		return nil, entity.ErrDeckNotFound
	}
	return &deck, nil
}

func (u *deckUsecase) AddCharacters(ctx context.Context, id string, characterIDs ...string) (*entity.CustomDeck, error) {
	if err := u.checkCharacters(characterIDs); err != nil {
		return nil, err
	}
	return u.update(ctx, id, func(d *entity.CustomDeck) {
		d.CharacterIDs = lo.Uniq(append(d.CharacterIDs, characterIDs...))
	})
}

func (u *deckUsecase) RemoveCharacters(ctx context.Context, id string, characterIDs ...string) (*entity.CustomDeck, error) {
	return u.update(ctx, id, func(d *entity.CustomDeck) {
		d.CharacterIDs = lo.Without(d.CharacterIDs, characterIDs...)
	})
}

func (u *deckUsecase) MarkStudied(ctx context.Context, id string) (*entity.CustomDeck, error) {
	now := u.clock()
	return u.update(ctx, id, func(d *entity.CustomDeck) {
		d.LastStudied = &now
	})
}

func (u *deckUsecase) Delete(ctx context.Context, id string) error {
	decks, err := u.repo.ListDecks(ctx)
	if err != nil {
		return err
	}
	kept := lo.Reject(decks, func(d entity.CustomDeck, _ int) bool { return d.ID == id })
	if len(kept) == len(decks) {
		return entity.ErrDeckNotFound
	}
	return u.repo.SaveDecks(ctx, kept)
}

func (u *deckUsecase) update(ctx context.Context, id string, fn func(*entity.CustomDeck)) (*entity.CustomDeck, error) {
	decks, err := u.repo.ListDecks(ctx)
	if err != nil {
		return nil, err
	}
	_, idx, ok := lo.FindIndexOf(decks, func(d entity.CustomDeck) bool { return d.ID == id })
	if !ok {
		return nil, entity.ErrDeckNotFound
	}
	fn(&decks[idx])
	decks[idx].Normalize(u.clock())
	if err := u.repo.SaveDecks(ctx, decks); err != nil {
		return nil, fmt.Errorf("save decks: %w", err)
	}
	out := decks[idx]
	return &out, nil
}

func (u *deckUsecase) checkCharacters(ids []string) error {
	if u.chars == nil {
		return nil
	}
	for _, id := range ids {
		if _, ok := u.chars.Character(id); !ok {
			return fmt.Errorf("%w: %s", entity.ErrCharacterNotFound, id)
		}
	}
	return nil
}
