package cache

import (
	"encoding/json"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/klauspost/compress/zstd"
)

// BadgerStore is a persistent Store backed by BadgerDB. Entries survive
// restarts, so a warmed cache stays warm as long as the TTL allows.
// Payloads are zstd-compressed before hitting disk.
type BadgerStore struct {
	db  *badger.DB
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// NewBadgerStore opens (or creates) a Badger database at dir.
func NewBadgerStore(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		db.Close()
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BadgerStore{db: db, enc: enc, dec: dec}, nil
}

// Close releases the underlying database.
func (b *BadgerStore) Close() error {
	return b.db.Close()
}

// Set implements Store. Failures are absorbed.
func (b *BadgerStore) Set(key string, data []byte, ttl time.Duration) {
	entry := Entry{
		StoredAt: time.Now(),
		TTL:      normalizeTTL(ttl),
		Data:     data,
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return
	}
	compressed := b.enc.EncodeAll(raw, nil)

	_ = b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), compressed)
	})
}

// Get implements Store. Expired or undecodable entries are deleted on read
// and reported as a miss.
func (b *BadgerStore) Get(key string) ([]byte, bool) {
	var compressed []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		compressed, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, false
	}

	raw, err := b.dec.DecodeAll(compressed, nil)
	if err != nil {
		b.Remove(key)
		return nil, false
	}
	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		b.Remove(key)
		return nil, false
	}
	if entry.Expired(time.Now()) {
		b.Remove(key)
		return nil, false
	}
	return entry.Data, true
}

// Remove implements Store.
func (b *BadgerStore) Remove(key string) {
	_ = b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// ClearByPrefix implements Store.
func (b *BadgerStore) ClearByPrefix(prefix string) {
	pfx := []byte(prefix)

	var keys [][]byte
	_ = b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(pfx); it.ValidForPrefix(pfx); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})

	_ = b.db.Update(func(txn *badger.Txn) error {
		for _, k := range keys {
			if err := txn.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}
