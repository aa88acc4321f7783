package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/zinct/zinct/internal/ledger"
)

const rowsBucket = "rows"

// Bolt is a local durable sink backed by a bbolt file. Rows are keyed
// by capture ID, so a retried append overwrites its own row instead of
// duplicating it.
type Bolt struct {
	db *bbolt.DB
}

// NewBolt opens (or creates) the sink database at path.
func NewBolt(path string) (*Bolt, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening sink database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(rowsBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating rows bucket: %w", err)
	}

	return &Bolt{db: db}, nil
}

// Append writes one record row keyed by its capture ID.
func (b *Bolt) Append(ctx context.Context, rec ledger.Record) error {
	if rec.CaptureID == "" {
		return &Error{Sink: "bolt", Err: fmt.Errorf("record has no capture id")}
	}

	err := b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(rowsBucket))
		data, err := json.Marshal(ledger.Row(rec))
		if err != nil {
			return fmt.Errorf("marshaling row: %w", err)
		}
		return bucket.Put([]byte(rec.CaptureID), data)
	})
	if err != nil {
		return &Error{Sink: "bolt", Err: err}
	}
	return nil
}

// Rows returns all mirrored rows, for inspection and handoff.
func (b *Bolt) Rows() ([][]string, error) {
	rows := make([][]string, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(rowsBucket))
		return bucket.ForEach(func(k, v []byte) error {
			var row []string
			if err := json.Unmarshal(v, &row); err != nil {
				return fmt.Errorf("unmarshaling row: %w", err)
			}
			rows = append(rows, row)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Close closes the sink database.
func (b *Bolt) Close() error {
	return b.db.Close()
}
