// Package badger persists trace files in an embedded Badger KV store.
//
// Key layout:
//
//	tracePrefix <id>                              -> raw trace file bytes
//	metaPrefix <id>                               -> json-encoded Meta
//	serviceIndexID <service> 0xff <created-at BE> <id> -> nil
package badger

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"io"
	"io/ioutil"
	"sort"
	"time"

	"github.com/dgraph-io/badger"
	"github.com/flamescale/flamescale/pkg/log"
	"github.com/flamescale/flamescale/pkg/storage"
	"github.com/rs/xid"
	"golang.org/x/xerrors"
)

const (
	metaPrefix  byte = 1 << 6 // 0b01000000
	tracePrefix byte = 1 << 7 // 0b10000000

	serviceIndexID = metaPrefix | 1
)

const (
	// see https://godoc.org/github.com/rs/xid
	sizeOfTraceID = 12

	indexSep byte = '\xff'
)

type Storage struct {
	logger *log.Logger
	db     *badger.DB
	ttl    time.Duration
}

var _ storage.Writer = (*Storage)(nil)
var _ storage.Reader = (*Storage)(nil)

func New(logger *log.Logger, db *badger.DB, ttl time.Duration) *Storage {
	return &Storage{
		logger: logger,
		db:     db,
		ttl:    ttl,
	}
}

func (st *Storage) WriteTrace(ctx context.Context, meta *storage.Meta, r io.Reader) error {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return xerrors.Errorf("could not read trace data: %w", err)
	}

	rawID, err := rawTraceID(meta.TraceID)
	if err != nil {
		return err
	}

	mv, err := json.Marshal(meta)
	if err != nil {
		return xerrors.Errorf("could not encode meta %v: %w", meta, err)
	}

	entries := []*badger.Entry{
		st.newBadgerEntry(createTraceKey(rawID), data),
		st.newBadgerEntry(createMetaKey(rawID), mv),
		st.newBadgerEntry(createServiceIndexKey(meta.Service, meta.CreatedAt.UnixNano(), rawID), nil),
	}

	return st.db.Update(func(txn *badger.Txn) error {
		for i := range entries {
			st.logger.Debugw("writeTrace: set entry", "tid", meta.TraceID, "pk", entries[i].Key)
			if err := txn.SetEntry(entries[i]); err != nil {
				return xerrors.Errorf("could not write entry: %w", err)
			}
		}
		return nil
	})
}

func (st *Storage) GetTrace(ctx context.Context, id storage.TraceID) (io.ReadCloser, error) {
	rawID, err := rawTraceID(id)
	if err != nil {
		return nil, err
	}

	var data []byte
	err = st.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(createTraceKey(rawID))
		if err == badger.ErrKeyNotFound {
			return storage.ErrNotFound
		} else if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ioutil.NopCloser(bytes.NewReader(data)), nil
}

func (st *Storage) FindTraces(ctx context.Context, params *storage.FindTracesParams) ([]*storage.Meta, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	prefix := append([]byte{serviceIndexID}, params.Service...)
	prefix = append(prefix, indexSep)

	var ids [][]byte
	err := st.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().Key()
			rest := key[len(prefix):]
			if len(rest) != 8+sizeOfTraceID {
				continue
			}
			createdAt := time.Unix(0, int64(binary.BigEndian.Uint64(rest[:8])))
			if !params.CreatedAtMin.IsZero() && createdAt.Before(params.CreatedAtMin) {
				continue
			}
			if !params.CreatedAtMax.IsZero() && createdAt.After(params.CreatedAtMax) {
				continue
			}
			ids = append(ids, append([]byte(nil), rest[8:]...))
			if params.Limit > 0 && len(ids) >= params.Limit {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, storage.ErrNotFound
	}

	metas := make([]*storage.Meta, 0, len(ids))
	err = st.db.View(func(txn *badger.Txn) error {
		for _, rawID := range ids {
			item, err := txn.Get(createMetaKey(rawID))
			if err == badger.ErrKeyNotFound {
				// index entry outlived the meta entry (ttl); skip
				continue
			} else if err != nil {
				return err
			}
			var meta storage.Meta
			err = item.Value(func(val []byte) error {
				return json.Unmarshal(val, &meta)
			})
			if err != nil {
				return xerrors.Errorf("could not decode meta: %w", err)
			}
			metas = append(metas, &meta)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(metas) == 0 {
		return nil, storage.ErrNotFound
	}
	return metas, nil
}

func (st *Storage) ListServices(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	err := st.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte{serviceIndexID}
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().Key()
			if sep := bytes.IndexByte(key[1:], indexSep); sep > 0 {
				seen[string(key[1:1+sep])] = struct{}{}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(seen) == 0 {
		return nil, storage.ErrEmpty
	}

	services := make([]string, 0, len(seen))
	for s := range seen {
		services = append(services, s)
	}
	sort.Strings(services)
	return services, nil
}

func (st *Storage) newBadgerEntry(key, val []byte) *badger.Entry {
	entry := badger.NewEntry(key, val)
	if st.ttl > 0 {
		entry = entry.WithTTL(st.ttl)
	}
	return entry
}

func rawTraceID(id storage.TraceID) ([]byte, error) {
	xd, err := xid.FromString(id.String())
	if err != nil {
		return nil, xerrors.Errorf("bad trace id %q: %w", id, err)
	}
	return xd.Bytes(), nil
}

func createTraceKey(rawID []byte) []byte {
	key := make([]byte, 0, 1+len(rawID))
	key = append(key, tracePrefix)
	return append(key, rawID...)
}

func createMetaKey(rawID []byte) []byte {
	key := make([]byte, 0, 1+len(rawID))
	key = append(key, metaPrefix)
	return append(key, rawID...)
}

// index key <index-id><service>0xff<created-at BE><id>
func createServiceIndexKey(service string, createdAt int64, rawID []byte) []byte {
	var buf bytes.Buffer
	buf.WriteByte(serviceIndexID)
	buf.WriteString(service)
	buf.WriteByte(indexSep)
	binary.Write(&buf, binary.BigEndian, createdAt)
	buf.Write(rawID)
	return buf.Bytes()
}
