package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	usecase "github.com/murakami-kaito-dev/bouldering-app-sub001/internal/application/usecase"
	tmdom "github.com/murakami-kaito-dev/bouldering-app-sub001/internal/domain/tweetMedia"
)

type stubStore struct {
	mu      sync.Mutex
	objects map[string]struct{}
	listErr error
}

func newStubStore(paths ...string) *stubStore {
	s := &stubStore{objects: make(map[string]struct{})}
	for _, p := range paths {
		s.objects[p] = struct{}{}
	}
	return s
}

func (s *stubStore) ListObjectPaths(ctx context.Context, prefix tmdom.Prefix) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []string
	for p := range s.objects {
		if strings.HasPrefix(p, prefix.String()) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubStore) DeleteObject(ctx context.Context, objectPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[objectPath]; !ok {
		return tmdom.ErrObjectNotFound
	}
	delete(s.objects, objectPath)
	return nil
}

func newWorker(store *stubStore) *TaskHandler {
	return NewTaskHandler(usecase.NewMediaCleanupUsecase(store))
}

func post(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/internal/tasks/delete-media-by-prefix", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestWorkerDeletesAndResponds204(t *testing.T) {
	store := newStubStore(
		"v1/p/u/t/one.jpg",
		"v1/p/u/t/two.jpg",
	)
	rec := post(t, newWorker(store), `{"prefix":"v1/p/u/t"}`)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, store.objects)
}

func TestWorkerIsIdempotent(t *testing.T) {
	store := newStubStore("v1/p/u/t/one.jpg")
	h := newWorker(store)

	rec := post(t, h, `{"prefix":"v1/p/u/t"}`)
	require.Equal(t, http.StatusNoContent, rec.Code)

	// 同じタスクの再配送: もう何も無いが 204
	rec = post(t, h, `{"prefix":"v1/p/u/t"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestWorkerRejectsMissingPrefix(t *testing.T) {
	rec := post(t, newWorker(newStubStore()), `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWorkerRejectsNonStringPrefix(t *testing.T) {
	rec := post(t, newWorker(newStubStore()), `{"prefix": 5}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWorkerRejectsMalformedJSON(t *testing.T) {
	rec := post(t, newWorker(newStubStore()), `{"prefix":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWorkerRespondsServerErrorWhenListingFails(t *testing.T) {
	store := newStubStore()
	store.listErr = errors.New("listing broke")

	rec := post(t, newWorker(store), `{"prefix":"v1/p/u/t"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestWorkerOnlyAcceptsPost(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/internal/tasks/delete-media-by-prefix", nil)
	rec := httptest.NewRecorder()
	newWorker(newStubStore()).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
