// Package drill runs one multiple-choice quiz over a random subset of kanji.
package drill

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/lai323/kanjidrill/kanji"
)

const (
	// MinCards is the smallest sample that can fill the answer options.
	MinCards    = 4
	OptionCount = 4
)

var (
	ErrNoCards        = errors.New("no cards available, choose at least one level")
	ErrNotEnoughCards = fmt.Errorf("require at least %d cards to start a drill, pick more cards or levels", MinCards)
	ErrFinished       = errors.New("drill finished")
)

var validate = validator.New()

var now = time.Now

// Settings is the level filter selection for one session.
type Settings struct {
	System kanji.System `validate:"oneof=JLPT WaniKani"`
	Drill  kanji.Drill  `validate:"oneof=Meaning Reading"`
	Levels []int        `validate:"required,min=1,dive,min=1,max=60"`
	Count  int          `validate:"min=1"`
}

func (s Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("drill settings: %w", err)
	}
	if s.System == kanji.JLPT {
		for _, l := range s.Levels {
			if l > 5 {
				return fmt.Errorf("drill settings: JLPT level N%d does not exist", l)
			}
		}
	}
	return nil
}

func (s Settings) Filter() kanji.Filter {
	return kanji.Filter{System: s.System, Drill: s.Drill, Levels: s.Levels}
}

// Result is one answered question.
type Result struct {
	Kanji     string
	Given     string
	Expected  string
	Correct   bool
	Direction Direction
	XP        int
}

type Summary struct {
	ID         uuid.UUID
	System     kanji.System
	Drill      kanji.Drill
	Levels     []int
	Total      int
	Correct    int
	Percent    int
	XP         int
	Wrong      []Result
	StartedAt  time.Time
	FinishedAt time.Time
}

type Session struct {
	ID        uuid.UUID
	Settings  Settings
	StartedAt time.Time

	rnd     *rand.Rand
	cards   []kanji.Kanji
	cursor  int
	current *Question
	results []Result
}

// Start draws the cards for a session from an already filtered pool.
// Count is raised to MinCards and capped at the pool size.
func Start(pool []kanji.Kanji, settings Settings, rnd *rand.Rand) (*Session, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, ErrNoCards
	}
	n := settings.Count
	if n < MinCards {
		n = MinCards
	}
	if n > len(pool) {
		n = len(pool)
	}
	if n < MinCards {
		return nil, ErrNotEnoughCards
	}
	if rnd == nil {
		rnd = rand.New(rand.NewSource(now().UnixNano()))
	}
	settings.Count = n

	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return &Session{
		ID:        id,
		Settings:  settings,
		StartedAt: now(),
		rnd:       rnd,
		cards:     kanji.Sample(rnd, pool, n),
	}, nil
}

func (s *Session) Total() int {
	return len(s.cards)
}

// Position is the 0-based index of the question being asked.
func (s *Session) Position() int {
	return s.cursor
}

func (s *Session) Done() bool {
	return s.cursor >= len(s.cards)
}

func (s *Session) Cards() []kanji.Kanji {
	return s.cards
}

// Current returns the pending question, building it on first access.
func (s *Session) Current() (Question, error) {
	if s.Done() {
		return Question{}, ErrFinished
	}
	if s.current == nil {
		q, err := NewQuestion(s.rnd, s.Settings.System, s.Settings.Drill, s.cards, s.cursor)
		if err != nil {
			return Question{}, err
		}
		s.current = &q
	}
	return *s.current, nil
}

// Answer grades the pending question and moves to the next one.
func (s *Session) Answer(given string) (Result, error) {
	q, err := s.Current()
	if err != nil {
		return Result{}, err
	}
	correct := q.IsCorrect(given)
	r := Result{
		Kanji:     q.Kanji.Character,
		Given:     given,
		Expected:  q.Answer,
		Correct:   correct,
		Direction: q.Direction,
		XP:        XPFor(s.Settings.Drill, correct),
	}
	s.results = append(s.results, r)
	s.current = nil
	s.cursor++
	return r, nil
}

// AnswerOption answers with the i-th option (0-based) of the pending question.
func (s *Session) AnswerOption(i int) (Result, error) {
	q, err := s.Current()
	if err != nil {
		return Result{}, err
	}
	if i < 0 || i >= len(q.Options) {
		return Result{}, fmt.Errorf("option %d: %w", i+1, kanji.ErrOutOfRange)
	}
	return s.Answer(q.Options[i])
}

func (s *Session) Results() []Result {
	return s.results
}

func (s *Session) Summary() Summary {
	sum := Summary{
		ID:         s.ID,
		System:     s.Settings.System,
		Drill:      s.Settings.Drill,
		Levels:     s.Settings.Levels,
		Total:      len(s.results),
		StartedAt:  s.StartedAt,
		FinishedAt: now(),
	}
	for _, r := range s.results {
		sum.XP += r.XP
		if r.Correct {
			sum.Correct++
			continue
		}
		sum.Wrong = append(sum.Wrong, r)
	}
	if sum.Total > 0 {
		sum.Percent = sum.Correct * 100 / sum.Total
	}
	return sum
}
