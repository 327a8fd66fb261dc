package store

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"studyrag/internal/domain"
)

var bucketSessions = []byte("sessions")

// BoltHistory persists question/answer exchanges in a BoltDB file, one
// nested bucket per session. Keys are timestamp-plus-sequence so iteration
// order is chronological even when exchanges land in the same nanosecond.
type BoltHistory struct {
	db *bbolt.DB
}

func NewBoltHistory(path string) (*BoltHistory, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open history db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSessions)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create sessions bucket: %w", err)
	}

	return &BoltHistory{db: db}, nil
}

type exchangeRecord struct {
	Timestamp int64              `json:"ts"`
	Question  string             `json:"q"`
	Answer    string             `json:"a"`
	Sources   []domain.SourceRef `json:"sources,omitempty"`
}

func (s *BoltHistory) Append(ex domain.Exchange) error {
	if ex.SessionID == "" {
		return fmt.Errorf("session id is required")
	}

	ts := ex.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.Bucket(bucketSessions).CreateBucketIfNotExists([]byte(ex.SessionID))
		if err != nil {
			return err
		}

		seq, err := b.NextSequence()
		if err != nil {
			return err
		}

		record := exchangeRecord{
			Timestamp: ts.UnixNano(),
			Question:  ex.Question,
			Answer:    ex.Answer,
			Sources:   ex.Sources,
		}
		data, err := json.Marshal(record)
		if err != nil {
			return err
		}

		key := fmt.Sprintf("%020d-%012d", ts.UnixNano(), seq)
		return b.Put([]byte(key), data)
	})
}

func (s *BoltHistory) ListSession(sessionID string) ([]domain.Exchange, error) {
	var exchanges []domain.Exchange

	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketSessions).Bucket([]byte(sessionID))
		if b == nil {
			return nil
		}

		return b.ForEach(func(k, v []byte) error {
			var record exchangeRecord
			if err := json.Unmarshal(v, &record); err != nil {
				return fmt.Errorf("corrupt exchange record %s: %w", k, err)
			}
			exchanges = append(exchanges, domain.Exchange{
				SessionID: sessionID,
				Timestamp: time.Unix(0, record.Timestamp).UTC(),
				Question:  record.Question,
				Answer:    record.Answer,
				Sources:   record.Sources,
			})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return exchanges, nil
}

// ListSessions returns the IDs of all recorded sessions.
func (s *BoltHistory) ListSessions() ([]string, error) {
	var ids []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSessions).ForEachBucket(func(k []byte) error {
			ids = append(ids, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *BoltHistory) Close() error {
	return s.db.Close()
}
