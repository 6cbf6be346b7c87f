package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapterrepo "github.com/eslsoft/nihongo/internal/adapter/repository"
	"github.com/eslsoft/nihongo/internal/entity"
	"github.com/eslsoft/nihongo/internal/infrastructure/kvstore"
)

type fakeCharacters map[string]entity.Character

func (f fakeCharacters) Character(id string) (entity.Character, bool) {
	ch, ok := f[id]
	return ch, ok
}

func (f fakeCharacters) Filter(ws entity.WritingSystem, level entity.JLPTLevel) []entity.Character {
	var out []entity.Character
	for _, id := range []string{"hiragana_a", "hiragana_i", "hiragana_u", "katakana_a", "kanji_n5_001"} {
		ch, ok := f[id]
		if !ok {
			continue
		}
		if ch.Type == ws && (level == entity.JLPTUnspecified || ch.JLPTLevel == level) {
			out = append(out, ch)
		}
	}
	return out
}

func testCharacters() fakeCharacters {
	return fakeCharacters{
		"hiragana_a":   {ID: "hiragana_a", Glyph: "あ", Romaji: "a", Type: entity.WritingSystemHiragana},
		"hiragana_i":   {ID: "hiragana_i", Glyph: "い", Romaji: "i", Type: entity.WritingSystemHiragana},
		"hiragana_u":   {ID: "hiragana_u", Glyph: "う", Romaji: "u", Type: entity.WritingSystemHiragana},
		"katakana_a":   {ID: "katakana_a", Glyph: "ア", Romaji: "a", Type: entity.WritingSystemKatakana},
		"kanji_n5_001": {ID: "kanji_n5_001", Glyph: "一", Romaji: "ichi", Type: entity.WritingSystemKanji, JLPTLevel: entity.JLPTN5},
	}
}

func TestDeckLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := adapterrepo.NewStateRepository(kvstore.NewMemoryStore())
	decks := NewDeckUsecase(repo, testCharacters())
	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	decks.(*deckUsecase).clock = func() time.Time { return now }

	_, err := decks.Create(ctx, &entity.CustomDeck{Name: "  "})
	assert.ErrorIs(t, err, entity.ErrInvalidDeckName)
	_, err = decks.Create(ctx, &entity.CustomDeck{Name: "Vowels", CharacterIDs: []string{"nope"}})
	assert.ErrorIs(t, err, entity.ErrCharacterNotFound)

	deck, err := decks.Create(ctx, &entity.CustomDeck{Name: " Vowels ", CharacterIDs: []string{"hiragana_a", "hiragana_a", "hiragana_i"}})
	require.NoError(t, err)
	assert.NotEmpty(t, deck.ID)
	assert.Equal(t, "Vowels", deck.Name)
	assert.Equal(t, "#667eea", deck.Color)
	assert.Equal(t, []string{"hiragana_a", "hiragana_i"}, deck.CharacterIDs)
	assert.True(t, deck.CreatedAt.Equal(now))

	deck, err = decks.AddCharacters(ctx, deck.ID, "hiragana_u", "hiragana_a")
	require.NoError(t, err)
	assert.Equal(t, []string{"hiragana_a", "hiragana_i", "hiragana_u"}, deck.CharacterIDs)

	deck, err = decks.RemoveCharacters(ctx, deck.ID, "hiragana_i")
	require.NoError(t, err)
	assert.Equal(t, []string{"hiragana_a", "hiragana_u"}, deck.CharacterIDs)

	deck, err = decks.MarkStudied(ctx, deck.ID)
	require.NoError(t, err)
	require.NotNil(t, deck.LastStudied)
	assert.True(t, deck.LastStudied.Equal(now))

	got, err := decks.Get(ctx, deck.ID)
	require.NoError(t, err)
	assert.Equal(t, deck.CharacterIDs, got.CharacterIDs)

	require.NoError(t, decks.Delete(ctx, deck.ID))
	assert.ErrorIs(t, decks.Delete(ctx, deck.ID), entity.ErrDeckNotFound)
	_, err = decks.Get(ctx, deck.ID)
	assert.ErrorIs(t, err, entity.ErrDeckNotFound)

	all, err := decks.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
