package db

import (
	"errors"
	"time"

	"github.com/lai323/kanjidrill/kanji"
)

var ErrUnknownBucket = errors.New("unknown level system or drill")

// Bucket counts answers for one kanji in one system and drill.
type Bucket struct {
	Right  int `json:"right"`
	Wrong  int `json:"wrong"`
	Streak int `json:"streak"`
}

// Weak is true for kanji missed last time they were asked.
func (b Bucket) Weak() bool {
	return b.Wrong > 0 && b.Streak == 0
}

type DrillBuckets struct {
	Meaning Bucket `json:"Meaning"`
	Reading Bucket `json:"Reading"`
}

func (d *DrillBuckets) For(drill kanji.Drill) *Bucket {
	switch drill {
	case kanji.Meaning:
		return &d.Meaning
	case kanji.Reading:
		return &d.Reading
	}
	return nil
}

// KanjiStats is stored per kanji. The json shape matches kanji_stats.json
// of the desktop app so stats can be moved between the two.
type KanjiStats struct {
	Kanji           string       `json:"-"`
	TotalEncounters int          `json:"total_encounters"`
	JLPT            DrillBuckets `json:"JLPT"`
	WaniKani        DrillBuckets `json:"WaniKani"`
	LastSeen        int64        `json:"last_seen,omitempty"`
}

func (s *KanjiStats) Bucket(system kanji.System, drill kanji.Drill) *Bucket {
	switch system {
	case kanji.JLPT:
		return s.JLPT.For(drill)
	case kanji.WaniKani:
		return s.WaniKani.For(drill)
	}
	return nil
}

func (s *KanjiStats) Apply(system kanji.System, drill kanji.Drill, correct bool, at time.Time) error {
	b := s.Bucket(system, drill)
	if b == nil {
		return ErrUnknownBucket
	}
	s.TotalEncounters++
	s.LastSeen = at.Unix()
	if correct {
		b.Right++
		b.Streak++
		return nil
	}
	b.Wrong++
	b.Streak = 0
	return nil
}

type DrillXP struct {
	Meaning int `json:"Meaning"`
	Reading int `json:"Reading"`
}

type XPTable struct {
	JLPT     DrillXP `json:"JLPT"`
	WaniKani DrillXP `json:"WaniKani"`
}

func (t *XPTable) slot(system kanji.System, drill kanji.Drill) *int {
	var d *DrillXP
	switch system {
	case kanji.JLPT:
		d = &t.JLPT
	case kanji.WaniKani:
		d = &t.WaniKani
	default:
		return nil
	}
	switch drill {
	case kanji.Meaning:
		return &d.Meaning
	case kanji.Reading:
		return &d.Reading
	}
	return nil
}

func (t XPTable) Get(system kanji.System, drill kanji.Drill) int {
	if p := t.slot(system, drill); p != nil {
		return *p
	}
	return 0
}

func (t *XPTable) Add(system kanji.System, drill kanji.Drill, xp int) error {
	p := t.slot(system, drill)
	if p == nil {
		return ErrUnknownBucket
	}
	*p += xp
	return nil
}

const DefaultUsername = "User"

// Profile json keys follow the desktop app's profile.json.
type Profile struct {
	Username   string  `json:"username"`
	AvatarPath string  `json:"pfp_path"`
	XP         XPTable `json:"xp"`
}

func DefaultProfile() Profile {
	return Profile{Username: DefaultUsername}
}
