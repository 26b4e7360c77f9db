package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/pustaka-digital/pustaka/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetMultiFn    func(ctx context.Context, items []db.HashSetItem) error
	hgetAllFn      func(ctx context.Context, key string) (map[string]string, error)
	hgetAllMultiFn func(ctx context.Context, keys []string) ([]map[string]string, error)
	scanFn         func(ctx context.Context, pattern string) ([]string, error)
}

func (m *mockStore) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	if m.hsetMultiFn != nil {
		return m.hsetMultiFn(ctx, items)
	}
	return nil
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetAllFn != nil {
		return m.hgetAllFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockStore) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if m.hgetAllMultiFn != nil {
		return m.hgetAllMultiFn(ctx, keys)
	}
	return nil, nil
}

func (m *mockStore) Scan(ctx context.Context, pattern string) ([]string, error) {
	if m.scanFn != nil {
		return m.scanFn(ctx, pattern)
	}
	return nil, nil
}

// withRows wires Scan and HGetAllMulti to serve the given hashes keyed by id.
// Keys come back lexically sorted like the real store.
func (m *mockStore) withRows(rows ...map[string]string) {
	byKey := make(map[string]map[string]string, len(rows))
	keys := make([]string, 0, len(rows))
	for _, r := range rows {
		k := bookKey(r[fieldID])
		byKey[k] = r
		keys = append(keys, k)
	}
	m.scanFn = func(_ context.Context, pattern string) ([]string, error) {
		if !strings.HasSuffix(pattern, "*") {
			return nil, nil
		}
		return keys, nil
	}
	m.hgetAllMultiFn = func(_ context.Context, ks []string) ([]map[string]string, error) {
		out := make([]map[string]string, len(ks))
		for i, k := range ks {
			out[i] = byKey[k]
		}
		return out, nil
	}
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms), ms
}

func row(id, title, author, publisher string) map[string]string {
	return map[string]string{
		fieldID: id, fieldTitle: title, fieldAuthor: author, fieldPublisher: publisher,
	}
}
