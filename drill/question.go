package drill

import (
	"fmt"
	"math/rand"

	"github.com/lai323/kanjidrill/kanji"
)

// Direction says what a question shows and what it asks for.
type Direction string

const (
	KanjiToMeaning Direction = "kanji-meaning"
	MeaningToKanji Direction = "meaning-kanji"
	KanjiToOn      Direction = "kanji-on"
	KanjiToKun     Direction = "kanji-kun"
)

type Question struct {
	Index     int
	Kanji     kanji.Kanji
	Direction Direction
	Prompt    string
	Options   []string
	Answer    string
}

func (q Question) PromptIsKanji() bool {
	return q.Direction != MeaningToKanji
}

// IsCorrect compares by text, so a distractor that renders the same as the
// answer is accepted too.
func (q Question) IsCorrect(given string) bool {
	return given == q.Answer
}

// Hint names what is asked for, e.g. "on'yomi".
func (q Question) Hint() string {
	switch q.Direction {
	case KanjiToMeaning:
		return "meaning"
	case MeaningToKanji:
		return "kanji"
	case KanjiToOn:
		return "on'yomi"
	case KanjiToKun:
		return "kun'yomi"
	}
	return ""
}

func character(k kanji.Kanji) string { return k.Character }

// NewQuestion builds the question for sample[index] with OptionCount-1
// distractors taken from the rest of the sample.
func NewQuestion(rnd *rand.Rand, system kanji.System, drill kanji.Drill, sample []kanji.Kanji, index int) (Question, error) {
	row, err := kanji.Row(sample, index)
	if err != nil {
		return Question{}, err
	}
	others, err := kanji.Distractors(rnd, sample, index, OptionCount-1)
	if err != nil {
		return Question{}, err
	}

	meanings := func(k kanji.Kanji) string { return kanji.Join(k.MeaningsFor(system)) }
	q := Question{Index: index, Kanji: row}
	var field func(kanji.Kanji) string

	switch drill {
	case kanji.Meaning:
		if rnd.Intn(2) == 0 {
			q.Direction = KanjiToMeaning
			q.Prompt = row.Character
			field = meanings
		} else {
			q.Direction = MeaningToKanji
			q.Prompt = meanings(row)
			field = character
		}
	case kanji.Reading:
		q.Prompt = row.Character
		if rnd.Intn(2) == 0 {
			q.Direction = KanjiToOn
			field = func(k kanji.Kanji) string { return kanji.Join(k.OnFor(system)) }
		} else {
			q.Direction = KanjiToKun
			field = func(k kanji.Kanji) string { return kanji.Join(k.KunFor(system)) }
		}
	default:
		return Question{}, fmt.Errorf("unknown drill %q", drill)
	}

	q.Answer = field(row)
	q.Options = append(q.Options, q.Answer)
	for _, o := range others {
		q.Options = append(q.Options, field(o))
	}
	rnd.Shuffle(len(q.Options), func(i, j int) {
		q.Options[i], q.Options[j] = q.Options[j], q.Options[i]
	})
	return q, nil
}
