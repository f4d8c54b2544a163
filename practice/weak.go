package practice

import (
	"github.com/lai323/kanjidrill/db"
	"github.com/lai323/kanjidrill/kanji"
)

// WeakPool keeps the kanji that were answered wrong the last time they were
// asked in the given system and drill.
func WeakPool(pool []kanji.Kanji, stats map[string]db.KanjiStats, system kanji.System, d kanji.Drill) []kanji.Kanji {
	weak := []kanji.Kanji{}
	for _, k := range pool {
		s, exist := stats[k.Character]
		if !exist {
			continue
		}
		b := s.Bucket(system, d)
		if b == nil || !b.Weak() {
			continue
		}
		weak = append(weak, k)
	}
	return weak
}
