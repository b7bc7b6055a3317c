package memory

import (
	"context"
	"sort"
	"sync"

	"movierec/internal/domain/repositories"
)

// KV is an in-process implementation of repositories.KV for development
// and tests. Nothing survives a restart.
type KV struct {
	mu      sync.RWMutex
	values  map[string][]byte
	indexes map[string]map[string]float64
}

// NewKV creates an empty store.
func NewKV() *KV {
	return &KV{
		values:  make(map[string][]byte),
		indexes: make(map[string]map[string]float64),
	}
}

var _ repositories.KV = (*KV)(nil)

func (s *KV) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (s *KV) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = append([]byte(nil), value...)
	return nil
}

func (s *KV) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, k := range keys {
		delete(s.values, k)
		delete(s.indexes, k)
	}
	return nil
}

func (s *KV) IndexAdd(_ context.Context, index string, score float64, member string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.indexes[index]
	if !ok {
		set = make(map[string]float64)
		s.indexes[index] = set
	}
	set[member] = score
	return nil
}

func (s *KV) IndexMembers(_ context.Context, index string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := s.indexes[index]
	members := make([]string, 0, len(set))
	for m := range set {
		members = append(members, m)
	}
	sort.Slice(members, func(i, j int) bool {
		si, sj := set[members[i]], set[members[j]]
		if si != sj {
			return si > sj
		}
		return members[i] < members[j]
	})
	return members, nil
}

func (s *KV) IndexRemove(_ context.Context, index string, member string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if set, ok := s.indexes[index]; ok {
		delete(set, member)
		if len(set) == 0 {
			delete(s.indexes, index)
		}
	}
	return nil
}

// TransactionManager runs fn directly. Each KV call is atomic on its own and
// the in-memory store has no rollback.
type TransactionManager struct{}

// NewTransactionManager returns the no-op manager used with the memory store.
func NewTransactionManager() repositories.TransactionManager {
	return TransactionManager{}
}

func (TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}
