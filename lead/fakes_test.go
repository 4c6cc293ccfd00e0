package lead

import (
	"context"
	"sync"
)

type recordedUpdate struct {
	entity string
	id     string
	patch  map[string]any
}

// fakeStore records calls and injects failures for the engine tests.
type fakeStore struct {
	mu sync.Mutex

	inserts []map[string]any
	updates []recordedUpdate

	listResult []map[string]any
	listCalls  int

	insertErr error
	updateErr error
	listErr   error
}

func (f *fakeStore) List(ctx context.Context, entity string, fields ...string) ([]map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listResult, nil
}

func (f *fakeStore) Subscribe(ctx context.Context, entity string) (<-chan []map[string]any, error) {
	ch := make(chan []map[string]any)
	close(ch)
	return ch, nil
}

func (f *fakeStore) Insert(ctx context.Context, entity string, record map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserts = append(f.inserts, record)
	return nil
}

func (f *fakeStore) Update(ctx context.Context, entity string, id string, patch map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates = append(f.updates, recordedUpdate{entity: entity, id: id, patch: patch})
	return nil
}

func (f *fakeStore) lastUpdate() recordedUpdate {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.updates[len(f.updates)-1]
}
