// Package inmemory keeps stored traces in process memory. Meant for tests
// and single-node development setups.
package inmemory

import (
	"bytes"
	"context"
	"io"
	"io/ioutil"
	"sort"
	"sync"

	"github.com/flamescale/flamescale/pkg/storage"
)

type storageItem struct {
	meta *storage.Meta
	data []byte
}

type Storage struct {
	mu    sync.RWMutex
	items map[storage.TraceID]storageItem
}

var _ storage.Writer = (*Storage)(nil)
var _ storage.Reader = (*Storage)(nil)

func New() *Storage {
	return &Storage{
		items: make(map[storage.TraceID]storageItem),
	}
}

func (s *Storage) WriteTrace(ctx context.Context, meta *storage.Meta, r io.Reader) error {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return err
	}

	metaCopy := *meta

	s.mu.Lock()
	s.items[meta.TraceID] = storageItem{meta: &metaCopy, data: data}
	s.mu.Unlock()

	return nil
}

func (s *Storage) GetTrace(ctx context.Context, id storage.TraceID) (io.ReadCloser, error) {
	s.mu.RLock()
	item, ok := s.items[id]
	s.mu.RUnlock()

	if !ok {
		return nil, storage.ErrNotFound
	}
	return ioutil.NopCloser(bytes.NewReader(item.data)), nil
}

func (s *Storage) FindTraces(ctx context.Context, params *storage.FindTracesParams) ([]*storage.Meta, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var metas []*storage.Meta
	for _, item := range s.items {
		meta := item.meta
		if meta.Service != params.Service {
			continue
		}
		if !params.CreatedAtMin.IsZero() && meta.CreatedAt.Before(params.CreatedAtMin) {
			continue
		}
		if !params.CreatedAtMax.IsZero() && meta.CreatedAt.After(params.CreatedAtMax) {
			continue
		}
		metas = append(metas, meta)
	}

	if len(metas) == 0 {
		return nil, storage.ErrNotFound
	}

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].CreatedAt.Before(metas[j].CreatedAt)
	})
	if params.Limit > 0 && len(metas) > params.Limit {
		metas = metas[:params.Limit]
	}
	return metas, nil
}

func (s *Storage) ListServices(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	var services []string
	for _, item := range s.items {
		if _, ok := seen[item.meta.Service]; ok {
			continue
		}
		seen[item.meta.Service] = struct{}{}
		services = append(services, item.meta.Service)
	}
	if len(services) == 0 {
		return nil, storage.ErrEmpty
	}
	sort.Strings(services)
	return services, nil
}
