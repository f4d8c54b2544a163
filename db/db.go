// Package db stores kanji stats, the user profile and past sessions in bolt.
package db

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"time"

	"github.com/boltdb/bolt"
	"github.com/lai323/kanjidrill/drill"
	"github.com/lai323/kanjidrill/kanji"
)

const (
	STATS_BUCKET   = "stats"
	PROFILE_BUCKET = "profile"
	SESSION_BUCKET = "session"
	PROFILE_KEY    = "default"
)

var ErrLocked = errors.New("database is in use by another kanjidrill process")

type DrillDB interface {
	Close() error
	Record(system kanji.System, d kanji.Drill, r drill.Result) (KanjiStats, Profile, error)
	StatsGet(text string) (KanjiStats, error)
	StatsPut(stats KanjiStats) error
	Stats() (map[string]KanjiStats, error)
	StatsClean() error
	TotalAnswered() (int, error)
	ProfileGet() (Profile, error)
	ProfilePut(Profile) error
	SessionPut(drill.Summary) error
	Sessions(limit int) ([]drill.Summary, error)
}

type BoltDrillDB struct {
	*bolt.DB
	now func() time.Time
}

func NewBoltDrillDB(path string) (*BoltDrillDB, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if errors.Is(err, bolt.ErrTimeout) {
		return nil, fmt.Errorf("%s: %w", path, ErrLocked)
	}
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{STATS_BUCKET, PROFILE_BUCKET, SESSION_BUCKET} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltDrillDB{DB: db, now: time.Now}, nil
}

func encode(v interface{}) ([]byte, error) {
	buf := bytes.NewBuffer([]byte{})
	if err := gob.NewEncoder(buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decode(data []byte, v interface{}) error {
	return gob.NewDecoder(bytes.NewBuffer(data)).Decode(v)
}

func getStats(tx *bolt.Tx, text string) (KanjiStats, error) {
	s := KanjiStats{Kanji: text}
	data := tx.Bucket([]byte(STATS_BUCKET)).Get([]byte(text))
	if len(data) == 0 {
		return s, nil
	}
	if err := decode(data, &s); err != nil {
		return s, fmt.Errorf("decode stats %s: %w", text, err)
	}
	s.Kanji = text
	return s, nil
}

func putStats(tx *bolt.Tx, s KanjiStats) error {
	data, err := encode(s)
	if err != nil {
		return err
	}
	return tx.Bucket([]byte(STATS_BUCKET)).Put([]byte(s.Kanji), data)
}

func getProfile(tx *bolt.Tx) (Profile, error) {
	p := DefaultProfile()
	data := tx.Bucket([]byte(PROFILE_BUCKET)).Get([]byte(PROFILE_KEY))
	if len(data) == 0 {
		return p, nil
	}
	if err := decode(data, &p); err != nil {
		return p, fmt.Errorf("decode profile: %w", err)
	}
	if p.Username == "" {
		p.Username = DefaultUsername
	}
	return p, nil
}

func putProfile(tx *bolt.Tx, p Profile) error {
	data, err := encode(p)
	if err != nil {
		return err
	}
	return tx.Bucket([]byte(PROFILE_BUCKET)).Put([]byte(PROFILE_KEY), data)
}

// Record applies one answer to the kanji's stats and the profile xp in a
// single transaction.
func (db *BoltDrillDB) Record(system kanji.System, d kanji.Drill, r drill.Result) (KanjiStats, Profile, error) {
	var (
		stats   KanjiStats
		profile Profile
	)
	if r.Kanji == "" {
		return stats, profile, errors.New("record answer: empty kanji")
	}
	err := db.DB.Update(func(tx *bolt.Tx) error {
		var err error
		stats, err = getStats(tx, r.Kanji)
		if err != nil {
			return err
		}
		if err = stats.Apply(system, d, r.Correct, db.now()); err != nil {
			return err
		}
		if err = putStats(tx, stats); err != nil {
			return err
		}

		profile, err = getProfile(tx)
		if err != nil {
			return err
		}
		if err = profile.XP.Add(system, d, r.XP); err != nil {
			return err
		}
		return putProfile(tx, profile)
	})
	return stats, profile, err
}

func (db *BoltDrillDB) StatsGet(text string) (KanjiStats, error) {
	var s KanjiStats
	err := db.DB.View(func(tx *bolt.Tx) error {
		var err error
		s, err = getStats(tx, text)
		return err
	})
	return s, err
}

func (db *BoltDrillDB) StatsPut(s KanjiStats) error {
	if s.Kanji == "" {
		return errors.New("put stats: empty kanji")
	}
	return db.DB.Update(func(tx *bolt.Tx) error {
		return putStats(tx, s)
	})
}

func (db *BoltDrillDB) Stats() (map[string]KanjiStats, error) {
	stats := map[string]KanjiStats{}
	err := db.DB.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(STATS_BUCKET)).ForEach(func(k, v []byte) error {
			s := KanjiStats{}
			if err := decode(v, &s); err != nil {
				return fmt.Errorf("decode stats %s: %w", k, err)
			}
			s.Kanji = string(k)
			stats[s.Kanji] = s
			return nil
		})
	})
	return stats, err
}

func (db *BoltDrillDB) StatsClean() error {
	return db.DB.Update(func(tx *bolt.Tx) error {
		err := tx.DeleteBucket([]byte(STATS_BUCKET))
		if err != nil {
			return err
		}
		_, err = tx.CreateBucketIfNotExists([]byte(STATS_BUCKET))
		return err
	})
}

// TotalAnswered sums encounters over all kanji.
func (db *BoltDrillDB) TotalAnswered() (int, error) {
	stats, err := db.Stats()
	if err != nil {
		return 0, err
	}
	total := 0
	for _, s := range stats {
		total += s.TotalEncounters
	}
	return total, nil
}

func (db *BoltDrillDB) ProfileGet() (Profile, error) {
	var p Profile
	err := db.DB.View(func(tx *bolt.Tx) error {
		var err error
		p, err = getProfile(tx)
		return err
	})
	return p, err
}

func (db *BoltDrillDB) ProfilePut(p Profile) error {
	return db.DB.Update(func(tx *bolt.Tx) error {
		return putProfile(tx, p)
	})
}

// SessionPut stores a summary under its id. Ids are uuid v7, so keys sort
// by start time.
func (db *BoltDrillDB) SessionPut(s drill.Summary) error {
	data, err := encode(s)
	if err != nil {
		return err
	}
	return db.DB.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(SESSION_BUCKET)).Put(s.ID[:], data)
	})
}

// Sessions returns up to limit summaries, newest first. limit <= 0 means all.
func (db *BoltDrillDB) Sessions(limit int) ([]drill.Summary, error) {
	sessions := []drill.Summary{}
	err := db.DB.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(SESSION_BUCKET)).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(sessions) >= limit {
				break
			}
			s := drill.Summary{}
			if err := decode(v, &s); err != nil {
				return fmt.Errorf("decode session: %w", err)
			}
			sessions = append(sessions, s)
		}
		return nil
	})
	return sessions, err
}
