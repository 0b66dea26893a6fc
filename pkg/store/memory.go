package store

import (
	"context"
	"sort"
	"sync"

	"github.com/helmcode/inr-assistant/pkg/model"
)

// MemoryStore keeps everything in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	users   map[string]model.UserRecord
	inrData map[string]model.INRData
}

func NewMemory() *MemoryStore {
	return &MemoryStore{
		users:   map[string]model.UserRecord{},
		inrData: map[string]model.INRData{},
	}
}

func (s *MemoryStore) ListUsers(ctx context.Context) ([]model.UserRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, storageErr(OpList, model.UsersCollection, "", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.UserRecord, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) EnsureUser(ctx context.Context, u model.UserRecord) error {
	if err := ctx.Err(); err != nil {
		return storageErr(OpCreate, model.UsersCollection, u.ID, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		s.users[u.ID] = u
	}
	return nil
}

func (s *MemoryStore) DeleteUser(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return storageErr(OpDelete, model.UsersCollection, id, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
	delete(s.inrData, id)
	return nil
}

func (s *MemoryStore) LoadINRData(ctx context.Context, id string) (*model.INRData, error) {
	if err := ctx.Err(); err != nil {
		return nil, storageErr(OpLoad, model.INRDataCollection, id, err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.inrData[id]
	if !ok {
		return emptyINRData(), nil
	}
	d.Measurements = append([]model.Measurement{}, d.Measurements...)
	return &d, nil
}

func (s *MemoryStore) SaveINRData(ctx context.Context, id string, d *model.INRData) error {
	if err := ctx.Err(); err != nil {
		return storageErr(OpSave, model.INRDataCollection, id, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *d
	cp.Measurements = append([]model.Measurement{}, d.Measurements...)
	s.inrData[id] = cp
	return nil
}

func (s *MemoryStore) Close() error { return nil }
