package workflow

import (
	"context"
	"sync"

	"github.com/five82/shopkeep/internal/catalog"
)

type call struct {
	Method  string
	ID      catalog.ID
	Payload catalog.Payload
}

// fakeStore answers with canned results and records every call.
type fakeStore struct {
	mu sync.Mutex

	listProducts []catalog.Product
	listFailure  *catalog.Failure
	create       catalog.Result
	update       catalog.Result

	calls []call
}

func (f *fakeStore) List(context.Context) ([]catalog.Product, *catalog.Failure) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{Method: "List"})
	if f.listFailure != nil {
		return []catalog.Product{}, f.listFailure
	}
	return f.listProducts, nil
}

func (f *fakeStore) Create(_ context.Context, payload catalog.Payload) catalog.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{Method: "Create", Payload: payload})
	return f.create
}

func (f *fakeStore) Update(_ context.Context, id catalog.ID, payload catalog.Payload) catalog.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{Method: "Update", ID: id, Payload: payload})
	return f.update
}

func (f *fakeStore) Calls() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.calls...)
}

func offline() *catalog.Failure {
	return &catalog.Failure{Kind: catalog.NetworkUnavailable, Op: "test", Err: context.DeadlineExceeded}
}

func rejected(status int) *catalog.Failure {
	return &catalog.Failure{Kind: catalog.ServerRejected, Op: "test", Status: status}
}
