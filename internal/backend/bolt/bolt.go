package bolt

import (
	"bytes"
	"errors"
	"fmt"

	bolt "go.etcd.io/bbolt"
)

var entriesBucket = []byte("entries")

// Bolt implements backend.Backend on top of a bbolt database.
// All entries live in a single bucket; Wipe drops the bucket.
type Bolt struct {
	db *bolt.DB
}

// Open creates or opens a bbolt database at the given path.
func Open(path string) (*Bolt, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("opening bolt db: %w", err)
	}
	return &Bolt{db: db}, nil
}

func (b *Bolt) Write(key, value string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bkt, err := tx.CreateBucketIfNotExists(entriesBucket)
		if err != nil {
			return fmt.Errorf("creating bucket: %w", err)
		}
		return bkt.Put([]byte(key), []byte(value))
	})
}

func (b *Bolt) Read(key string) (string, bool, error) {
	var val string
	var found bool
	err := b.db.View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(entriesBucket)
		if bkt == nil {
			return nil
		}
		// Get returns nil both for a missing key and for an empty value;
		// a cursor seek distinguishes the two.
		k, v := bkt.Cursor().Seek([]byte(key))
		if k == nil || !bytes.Equal(k, []byte(key)) {
			return nil
		}
		found = true
		val = string(v)
		return nil
	})
	return val, found, err
}

func (b *Bolt) Remove(key string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(entriesBucket)
		if bkt == nil {
			return nil
		}
		return bkt.Delete([]byte(key))
	})
}

func (b *Bolt) Wipe() error {
	return b.db.Update(func(tx *bolt.Tx) error {
		err := tx.DeleteBucket(entriesBucket)
		if errors.Is(err, bolt.ErrBucketNotFound) {
			return nil
		}
		return err
	})
}

func (b *Bolt) Close() error {
	return b.db.Close()
}
