package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/eslsoft/nihongo/internal/entity"
	"github.com/eslsoft/nihongo/internal/repository"
)

const formatVersion = 1

// Section names of a snapshot document, in export order.
const (
	SectionProfile      = "profile"
	SectionProgress     = "progress"
	SectionSessions     = "sessions"
	SectionDailyStats   = "dailyStats"
	SectionCustomDecks  = "customDecks"
	SectionAchievements = "achievements"
)

type sectionKey struct {
	section string
	key     string
}

var sectionKeys = []sectionKey{
	{SectionProfile, repository.KeyUserProfile},
	{SectionProgress, repository.KeyCharacterProgress},
	{SectionSessions, repository.KeyStudySessions},
	{SectionDailyStats, repository.KeyDailyStats},
	{SectionCustomDecks, repository.KeyCustomDecks},
	{SectionAchievements, repository.KeyAchievements},
}

var errNoSectionsSelected = errors.New("backup: no sections selected")

// ProgressReporter receives callbacks while a snapshot is written or applied.
type ProgressReporter interface {
	StartSection(section string, total int)
	Increment(section string, delta int)
	FinishSection(section string)
}

type noopProgress struct{}

func (noopProgress) StartSection(string, int) {}
func (noopProgress) Increment(string, int)    {}
func (noopProgress) FinishSection(string)     {}

// Snapshot is the full-state export document. Field names match the browser app's export.
type Snapshot struct {
	Version      int                   `json:"version,omitempty"`
	ExportedAt   time.Time             `json:"exportedAt"`
	Profile      *entity.UserProfile   `json:"profile"`
	Progress     entity.ProgressTable  `json:"progress"`
	Sessions     []entity.StudySession `json:"sessions"`
	DailyStats   []entity.DailyStats   `json:"dailyStats"`
	CustomDecks  []entity.CustomDeck   `json:"customDecks"`
	Achievements []string              `json:"achievements"`
}

type rawSnapshot struct {
	Version      int             `json:"version"`
	ExportedAt   json.RawMessage `json:"exportedAt"`
	Profile      json.RawMessage `json:"profile"`
	Progress     json.RawMessage `json:"progress"`
	Sessions     json.RawMessage `json:"sessions"`
	DailyStats   json.RawMessage `json:"dailyStats"`
	CustomDecks  json.RawMessage `json:"customDecks"`
	Achievements json.RawMessage `json:"achievements"`
}

// Service exports and imports the persisted study state as one JSON document.
type Service struct {
	store  repository.KeyValueStore
	clock  func() time.Time
	indent bool
}

type Option func(*Service)

// WithClock overrides the export timestamp source.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithIndent pretty-prints exported documents.
func WithIndent(indent bool) Option {
	return func(s *Service) { s.indent = indent }
}

// NewService constructs a backup service over the key-value store.
func NewService(store repository.KeyValueStore, opts ...Option) *Service {
	svc := &Service{store: store, clock: time.Now}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type ExportOption func(*exportConfig)

type exportConfig struct {
	sections []string
	reporter ProgressReporter
}

// WithSections restricts export to the provided section names.
func WithSections(sections []string) ExportOption {
	return func(cfg *exportConfig) {
		if len(sections) == 0 {
			return
		}
		cfg.sections = append([]string{}, sections...)
	}
}

// WithProgressReporter registers a reporter that receives progress callbacks during export.
func WithProgressReporter(reporter ProgressReporter) ExportOption {
	return func(cfg *exportConfig) {
		cfg.reporter = reporter
	}
}

type ImportOption func(*importConfig)

type importConfig struct {
	sections []string
	reporter ProgressReporter
}

// WithImportSections restricts import to the provided section names.
func WithImportSections(sections []string) ImportOption {
	return func(cfg *importConfig) {
		if len(sections) == 0 {
			return
		}
		cfg.sections = append([]string{}, sections...)
	}
}

// WithImportProgressReporter registers a reporter for import callbacks.
func WithImportProgressReporter(reporter ProgressReporter) ImportOption {
	return func(cfg *importConfig) {
		cfg.reporter = reporter
	}
}

// Export writes the snapshot of the selected sections to w.
func (s *Service) Export(ctx context.Context, w io.Writer, opts ...ExportOption) error {
	cfg := exportConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	selected, err := selectSections(cfg.sections)
	if err != nil {
		return err
	}
	reporter := cfg.reporter
	if reporter == nil {
		reporter = noopProgress{}
	}

	snap := Snapshot{
		Version:      formatVersion,
		ExportedAt:   s.clock().UTC(),
		Progress:     entity.ProgressTable{},
		Sessions:     []entity.StudySession{},
		DailyStats:   []entity.DailyStats{},
		CustomDecks:  []entity.CustomDeck{},
		Achievements: []string{},
	}
	for _, sk := range sectionKeys {
		if !lo.Contains(selected, sk.section) {
			continue
		}
		raw, found, err := s.store.Get(ctx, sk.key)
		if err != nil {
			return fmt.Errorf("read %s: %w", sk.key, err)
		}
		if !found || len(bytes.TrimSpace(raw)) == 0 {
			reporter.StartSection(sk.section, 0)
			reporter.FinishSection(sk.section)
			continue
		}
		n, err := decodeSection(&snap, sk.section, raw)
		if err != nil {
			return fmt.Errorf("stored %s: %w", sk.section, err)
		}
		reporter.StartSection(sk.section, n)
		reporter.Increment(sk.section, n)
		reporter.FinishSection(sk.section)
	}

	enc := json.NewEncoder(w)
	if s.indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// Import applies a snapshot read from r. Every present section replaces its stored record
// and absent or null sections are left untouched. The document is fully decoded and
// validated before anything is written, and all writes go through one atomic SetMany, so a
// malformed document changes nothing.
func (s *Service) Import(ctx context.Context, r io.Reader, opts ...ImportOption) error {
	cfg := importConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	selected, err := selectSections(cfg.sections)
	if err != nil {
		return err
	}
	reporter := cfg.reporter
	if reporter == nil {
		reporter = noopProgress{}
	}

	body, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read backup: %w", err)
	}
	var raw rawSnapshot
	if err := json.Unmarshal(body, &raw); err != nil {
		return fmt.Errorf("%w: %v", entity.ErrInvalidSnapshot, err)
	}
	if raw.Version > formatVersion {
		return fmt.Errorf("%w: unsupported format version %d", entity.ErrInvalidSnapshot, raw.Version)
	}

	present := map[string]json.RawMessage{
		SectionProfile:      raw.Profile,
		SectionProgress:     raw.Progress,
		SectionSessions:     raw.Sessions,
		SectionDailyStats:   raw.DailyStats,
		SectionCustomDecks:  raw.CustomDecks,
		SectionAchievements: raw.Achievements,
	}

	var (
		snap    Snapshot
		entries = make(map[string][]byte)
		counts  = make(map[string]int)
	)
	for _, sk := range sectionKeys {
		data := bytes.TrimSpace(present[sk.section])
		if !lo.Contains(selected, sk.section) || len(data) == 0 || bytes.Equal(data, []byte("null")) {
			continue
		}
		n, err := decodeSection(&snap, sk.section, data)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", entity.ErrInvalidSnapshot, sk.section, err)
		}
		canonical, err := encodeSection(&snap, sk.section)
		if err != nil {
			return fmt.Errorf("encode %s: %w", sk.section, err)
		}
		entries[sk.key] = canonical
		counts[sk.section] = n
	}
	if len(entries) == 0 {
		return nil
	}

	if err := s.store.SetMany(ctx, entries); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}
	for _, sk := range sectionKeys {
		n, ok := counts[sk.section]
		if !ok {
			continue
		}
		reporter.StartSection(sk.section, n)
		reporter.Increment(sk.section, n)
		reporter.FinishSection(sk.section)
	}
	return nil
}

// Sections lists the section names in export order.
func Sections() []string {
	return lo.Map(sectionKeys, func(sk sectionKey, _ int) string { return sk.section })
}

func selectSections(requested []string) ([]string, error) {
	all := Sections()
	if len(requested) == 0 {
		return all, nil
	}
	selected := make([]string, 0, len(requested))
	for _, name := range requested {
		name = strings.TrimSpace(name)
		match, ok := lo.Find(all, func(s string) bool { return strings.EqualFold(s, name) })
		if !ok {
			return nil, fmt.Errorf("backup: unknown section %q", name)
		}
		selected = append(selected, match)
	}
	selected = lo.Uniq(selected)
	if len(selected) == 0 {
		return nil, errNoSectionsSelected
	}
	return selected, nil
}

// decodeSection parses and validates one section into snap, returning its record count.
func decodeSection(snap *Snapshot, section string, data []byte) (int, error) {
	switch section {
	case SectionProfile:
		var p entity.UserProfile
		if err := json.Unmarshal(data, &p); err != nil {
			return 0, err
		}
		if err := validateProfile(&p); err != nil {
			return 0, err
		}
		snap.Profile = &p
		return 1, nil
	case SectionProgress:
		table := entity.ProgressTable{}
		if err := json.Unmarshal(data, &table); err != nil {
			return 0, err
		}
		for id, p := range table {
			if p.CharacterID == "" {
				p.CharacterID = id
			}
			if p.CharacterID != id {
				return 0, fmt.Errorf("record %q is keyed as %q", p.CharacterID, id)
			}
			if err := validateProgress(p); err != nil {
				return 0, fmt.Errorf("record %q: %w", id, err)
			}
			table[id] = p
		}
		snap.Progress = table
		return len(table), nil
	case SectionSessions:
		var sessions []entity.StudySession
		if err := json.Unmarshal(data, &sessions); err != nil {
			return 0, err
		}
		for i, s := range sessions {
			if strings.TrimSpace(s.ID) == "" {
				return 0, fmt.Errorf("session %d has no id", i)
			}
		}
		snap.Sessions = sessions
		return len(sessions), nil
	case SectionDailyStats:
		var stats []entity.DailyStats
		if err := json.Unmarshal(data, &stats); err != nil {
			return 0, err
		}
		for _, d := range stats {
			if _, err := time.Parse(entity.DateLayout, d.Date); err != nil {
				return 0, fmt.Errorf("daily stats date %q: %w", d.Date, err)
			}
		}
		snap.DailyStats = stats
		return len(stats), nil
	case SectionCustomDecks:
		var decks []entity.CustomDeck
		if err := json.Unmarshal(data, &decks); err != nil {
			return 0, err
		}
		snap.CustomDecks = decks
		return len(decks), nil
	case SectionAchievements:
		var ids []string
		if err := json.Unmarshal(data, &ids); err != nil {
			return 0, err
		}
		snap.Achievements = ids
		return len(ids), nil
	default:
		return 0, fmt.Errorf("unknown section %q", section)
	}
}

func encodeSection(snap *Snapshot, section string) ([]byte, error) {
	switch section {
	case SectionProfile:
		return json.Marshal(snap.Profile)
	case SectionProgress:
		return json.Marshal(snap.Progress)
	case SectionSessions:
		return json.Marshal(snap.Sessions)
	case SectionDailyStats:
		return json.Marshal(snap.DailyStats)
	case SectionCustomDecks:
		return json.Marshal(snap.CustomDecks)
	case SectionAchievements:
		return json.Marshal(snap.Achievements)
	default:
		return nil, fmt.Errorf("unknown section %q", section)
	}
}

func validateProfile(p *entity.UserProfile) error {
	if p.TotalXP < 0 || p.TotalStudyTime < 0 || p.Streak < 0 {
		return errors.New("profile counters must not be negative")
	}
	if p.LongestStreak < p.Streak {
		return errors.New("longest streak is below the current streak")
	}
	return nil
}

func validateProgress(p entity.CharacterProgress) error {
	if p.MasteryLevel < entity.MasteryNew || p.MasteryLevel > entity.MasteryBurned {
		return fmt.Errorf("mastery level %d out of range", p.MasteryLevel)
	}
	if p.EaseFactor < entity.MinEaseFactor || p.EaseFactor > entity.MaxEaseFactor {
		return fmt.Errorf("ease factor %v out of range", p.EaseFactor)
	}
	if p.CorrectCount < 0 || p.IncorrectCount < 0 {
		return errors.New("answer counts must not be negative")
	}
	return nil
}
