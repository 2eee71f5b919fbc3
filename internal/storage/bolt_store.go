package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/samvad-hq/samvad-rest-client/internal/domain"
	bolt "go.etcd.io/bbolt"
)

const (
	callBucket       = "calls"
	expiryValueBytes = 8
	keyTimeBytes     = 8
)

// boltStore implements a Store backed by BoltDB.
// Keys are the completion time (big-endian nanoseconds) followed by the record ID, so
// cursor order is chronological. Values are an 8-byte expiry followed by the JSON record.
type boltStore struct {
	db              *bolt.DB
	mu              sync.Mutex
	nextCleanup     time.Time
	recordTTL       time.Duration
	cleanupInterval time.Duration
	now             func() time.Time
}

// openBolt initializes a BoltDB-backed Store.
func openBolt(path string, opts Options) (Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(callBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	store := &boltStore{
		db:              db,
		recordTTL:       opts.RecordTTL,
		cleanupInterval: opts.CleanupInterval,
		now:             time.Now,
	}
	store.nextCleanup = store.now().Add(store.cleanupInterval)
	return store, nil
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// Record appends rec to the journal with the configured TTL.
func (b *boltStore) Record(rec domain.CallRecord) error {
	if b == nil || b.db == nil {
		return nil
	}
	if rec.ID == "" {
		return fmt.Errorf("call record id is empty")
	}

	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return err
	}
	if rec.CompletedAt.IsZero() {
		rec.CompletedAt = now
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal call record: %w", err)
	}
	value := make([]byte, expiryValueBytes+len(payload))
	binary.BigEndian.PutUint64(value, uint64(now.Add(b.recordTTL).Unix()))
	copy(value[expiryValueBytes:], payload)

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket, err := calls(tx)
		if err != nil {
			return err
		}
		return bucket.Put(recordKey(rec), value)
	})
}

// Recent returns up to limit unexpired records, newest first. limit <= 0 returns all.
func (b *boltStore) Recent(limit int) ([]domain.CallRecord, error) {
	if b == nil || b.db == nil {
		return nil, nil
	}

	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return nil, err
	}

	var out []domain.CallRecord
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket, err := calls(tx)
		if err != nil {
			return err
		}

		cursor := bucket.Cursor()
		for k, v := cursor.Last(); k != nil; k, v = cursor.Prev() {
			expiry, ok := decodeExpiry(v)
			if !ok || !expiry.After(now) {
				continue
			}
			var rec domain.CallRecord
			if err := json.Unmarshal(v[expiryValueBytes:], &rec); err != nil {
				return fmt.Errorf("decode call record %q: %w", k, err)
			}
			out = append(out, rec)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
		return nil
	})
	return out, err
}

// maybeCleanupExpired deletes expired records at most once per cleanup interval.
func (b *boltStore) maybeCleanupExpired(now time.Time) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if now.Before(b.nextCleanup) {
		return nil
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket, err := calls(tx)
		if err != nil {
			return err
		}
		var expired [][]byte
		if err := bucket.ForEach(func(k, v []byte) error {
			if expiry, ok := decodeExpiry(v); !ok || !expiry.After(now) {
				expired = append(expired, append([]byte(nil), k...))
			}
			return nil
		}); err != nil {
			return err
		}
		for _, k := range expired {
			if err := bucket.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("cleanup expired calls: %w", err)
	}
	b.nextCleanup = now.Add(b.cleanupInterval)
	return nil
}

func calls(tx *bolt.Tx) (*bolt.Bucket, error) {
	bucket := tx.Bucket([]byte(callBucket))
	if bucket == nil {
		return nil, fmt.Errorf("bucket %q missing", callBucket)
	}
	return bucket, nil
}

func recordKey(rec domain.CallRecord) []byte {
	key := make([]byte, keyTimeBytes+len(rec.ID))
	binary.BigEndian.PutUint64(key, uint64(rec.CompletedAt.UnixNano()))
	copy(key[keyTimeBytes:], rec.ID)
	return key
}

// decodeExpiry decodes the expiry time from the head of the stored value.
func decodeExpiry(value []byte) (time.Time, bool) {
	if len(value) < expiryValueBytes {
		return time.Time{}, false
	}
	unix := int64(binary.BigEndian.Uint64(value[:expiryValueBytes]))
	if unix <= 0 {
		return time.Time{}, false
	}
	return time.Unix(unix, 0), true
}
