package kanji

import (
	"errors"
	"fmt"
	"math/rand"
)

var (
	ErrEmpty      = errors.New("no kanji to choose from")
	ErrOutOfRange = errors.New("index out of range")
	ErrNotEnough  = errors.New("not enough kanji")
)

// Sample draws n distinct entries from pool in random order.
func Sample(rnd *rand.Rand, pool []Kanji, n int) []Kanji {
	if n <= 0 || len(pool) == 0 {
		return []Kanji{}
	}
	if n > len(pool) {
		n = len(pool)
	}
	out := make([]Kanji, 0, n)
	for _, i := range rnd.Perm(len(pool))[:n] {
		out = append(out, pool[i])
	}
	return out
}

func Row(sample []Kanji, i int) (Kanji, error) {
	if len(sample) == 0 {
		return Kanji{}, ErrEmpty
	}
	if i < 0 || i >= len(sample) {
		return Kanji{}, fmt.Errorf("row %d (0..%d): %w", i, len(sample)-1, ErrOutOfRange)
	}
	return sample[i], nil
}

// Distractors picks count random entries of sample other than the one at row.
func Distractors(rnd *rand.Rand, sample []Kanji, row, count int) ([]Kanji, error) {
	if len(sample) == 0 {
		return nil, ErrEmpty
	}
	if row < 0 || row >= len(sample) {
		return nil, fmt.Errorf("row %d (0..%d): %w", row, len(sample)-1, ErrOutOfRange)
	}
	available := make([]int, 0, len(sample)-1)
	for i := range sample {
		if i != row {
			available = append(available, i)
		}
	}
	if count > len(available) {
		return nil, fmt.Errorf("requested %d rows, %d available: %w", count, len(available), ErrNotEnough)
	}
	rnd.Shuffle(len(available), func(i, j int) {
		available[i], available[j] = available[j], available[i]
	})
	out := make([]Kanji, 0, count)
	for _, i := range available[:count] {
		out = append(out, sample[i])
	}
	return out, nil
}
