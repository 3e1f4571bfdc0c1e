package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mseongj/spaceflight-news/models"
	"github.com/mseongj/spaceflight-news/spaceflight"
	"github.com/mseongj/spaceflight-news/views"
)

type fakeUpstream struct {
	mu       sync.Mutex
	requests map[string]url.Values
	failPath string
}

func (f *fakeUpstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests[r.URL.Path] = r.URL.Query()
	f.mu.Unlock()

	if r.URL.Path == f.failPath {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/articles":
		w.Write([]byte(`[{"id":7,"title":"Mars helicopter flies again","url":"https://example.com/heli","imageUrl":"https://example.com/heli.jpg","newsSite":"NASA","summary":"Flight 50.","publishedAt":"2023-03-05T12:00:00.000Z"}]`))
	case "/articles/count":
		w.Write([]byte(`30`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTestHandler(t *testing.T, failPath string) (http.Handler, *fakeUpstream) {
	t.Helper()
	upstream := &fakeUpstream{requests: map[string]url.Values{}, failPath: failPath}
	server := httptest.NewServer(upstream)
	t.Cleanup(server.Close)

	renderer, err := views.NewRenderer()
	require.NoError(t, err)

	return GetArticles(spaceflight.NewClient(server.URL), renderer), upstream
}

func TestGetArticles(t *testing.T) {
	t.Run("success - forwards query state upstream and marks the current page", func(t *testing.T) {
		handler, upstream := newTestHandler(t, "")

		req := httptest.NewRequest(http.MethodGet, "/?page=2&q=mars&sort=publishedAt&sortOrder=asc", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

		list := upstream.requests["/articles"]
		require.NotNil(t, list)
		assert.Equal(t, "6", list.Get("_start"))
		assert.Equal(t, "6", list.Get("_limit"))
		assert.Equal(t, "mars", list.Get("title_contains"))
		assert.Equal(t, "publishedAt:asc", list.Get("_sort"))

		count := upstream.requests["/articles/count"]
		require.NotNil(t, count)
		assert.Equal(t, url.Values{"title_contains": {"mars"}}, count)

		body := rec.Body.String()
		assert.Contains(t, body, `id="page-2" aria-label="Page 2" aria-current="page"`)
		assert.Equal(t, 1, strings.Count(body, `aria-current="page"`))
		assert.Contains(t, body, `id="page-5"`)
		assert.NotContains(t, body, `id="page-6"`)
		assert.Contains(t, body, "Mars helicopter flies again")
		assert.Contains(t, body, "NASA | 5-3-2023")
	})

	t.Run("default query state", func(t *testing.T) {
		handler, upstream := newTestHandler(t, "")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		list := upstream.requests["/articles"]
		assert.Equal(t, "0", list.Get("_start"))
		assert.False(t, list.Has("_sort"))
		assert.False(t, list.Has("title_contains"))
		assert.Contains(t, rec.Body.String(), `id="page-1" aria-label="Page 1" aria-current="page"`)
	})

	for _, failPath := range []string{"/articles", "/articles/count"} {
		t.Run("failure - "+failPath+" rejects", func(t *testing.T) {
			handler, _ := newTestHandler(t, failPath)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?page=2&q=mars", nil))

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			body := rec.Body.String()
			assert.Contains(t, body, "Something went wrong")
			assert.NotContains(t, body, `class="grid"`)
			assert.NotContains(t, body, `class="pagination"`)
			assert.NotContains(t, body, "Mars helicopter")
			assert.NotContains(t, body, "503")
		})
	}
}

type stubSource struct {
	articles []models.Article
	total    int
	listErr  error
	countErr error

	// 호출 시작 시 실행, nil이 아닌 오류를 돌려주면 그 오류로 실패
	listHook  func(ctx context.Context) error
	countHook func(ctx context.Context) error

	mu        sync.Mutex
	gotParams spaceflight.ListParams
	gotQ      string
}

func (s *stubSource) ListArticles(ctx context.Context, p spaceflight.ListParams) ([]models.Article, error) {
	s.mu.Lock()
	s.gotParams = p
	s.mu.Unlock()
	if s.listHook != nil {
		if err := s.listHook(ctx); err != nil {
			return nil, err
		}
	}
	return s.articles, s.listErr
}

func (s *stubSource) CountArticles(ctx context.Context, q string) (int, error) {
	s.mu.Lock()
	s.gotQ = q
	s.mu.Unlock()
	if s.countHook != nil {
		if err := s.countHook(ctx); err != nil {
			return 0, err
		}
	}
	return s.total, s.countErr
}

func TestResolveArticles(t *testing.T) {
	t.Run("combines list and count and echoes the query state", func(t *testing.T) {
		src := &stubSource{articles: []models.Article{{ID: 1}, {ID: 2}}, total: 14}
		state := models.QueryState{Page: 3, Q: "moon", Sort: "title"}

		payload, err := ResolveArticles(context.Background(), src, state)

		require.NoError(t, err)
		assert.Len(t, payload.Articles, 2)
		assert.Equal(t, 14, payload.Total)
		assert.Equal(t, state, payload.Query)
		assert.Equal(t, spaceflight.ListParams{Start: 12, Limit: 6, TitleContains: "moon", Sort: "title"}, src.gotParams)
		assert.Equal(t, "moon", src.gotQ)
	})

	t.Run("list error fails the whole resolution", func(t *testing.T) {
		boom := errors.New("boom")
		src := &stubSource{listErr: boom, total: 10}

		payload, err := ResolveArticles(context.Background(), src, models.QueryState{Page: 1})

		require.ErrorIs(t, err, boom)
		assert.Zero(t, payload.Total)
		assert.Nil(t, payload.Articles)
	})

	t.Run("count error fails the whole resolution", func(t *testing.T) {
		boom := errors.New("boom")
		src := &stubSource{articles: []models.Article{{ID: 1}}, countErr: boom}

		payload, err := ResolveArticles(context.Background(), src, models.QueryState{Page: 1})

		require.ErrorIs(t, err, boom)
		assert.Nil(t, payload.Articles)
	})
}

func TestResolveArticles_NoCancellation(t *testing.T) {
	t.Run("a failed list call does not cancel the count call", func(t *testing.T) {
		boom := errors.New("boom")
		listFailed := make(chan struct{})
		var countCtxErr error

		src := &stubSource{
			listHook: func(ctx context.Context) error {
				close(listFailed)
				return boom
			},
			countHook: func(ctx context.Context) error {
				<-listFailed
				time.Sleep(50 * time.Millisecond)
				countCtxErr = ctx.Err()
				return nil
			},
		}

		_, err := ResolveArticles(context.Background(), src, models.QueryState{Page: 1})

		require.ErrorIs(t, err, boom)
		assert.NoError(t, countCtxErr)
	})

	t.Run("a cancelled client request still resolves the page", func(t *testing.T) {
		notCancelled := func(ctx context.Context) error { return ctx.Err() }
		src := &stubSource{
			articles:  []models.Article{{ID: 1, Title: "Starliner docks"}},
			total:     1,
			listHook:  notCancelled,
			countHook: notCancelled,
		}
		renderer, err := views.NewRenderer()
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
		rec := httptest.NewRecorder()
		GetArticles(src, renderer).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Starliner docks")
	})
}

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	Healthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
