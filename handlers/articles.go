package handlers

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/mseongj/spaceflight-news/models"
	"github.com/mseongj/spaceflight-news/spaceflight"
	"github.com/mseongj/spaceflight-news/views"
)

// ArticleSource는 기사 목록과 개수를 주는 업스트림입니다. *spaceflight.Client가 구현합니다.
type ArticleSource interface {
	ListArticles(ctx context.Context, p spaceflight.ListParams) ([]models.Article, error)
	CountArticles(ctx context.Context, titleContains string) (int, error)
}

// ResolveArticles는 목록과 개수 요청을 동시에 보내고 둘 다 끝나면 결과를 합칩니다.
// 하나라도 실패하면 부분 결과 없이 오류를 반환합니다. 한쪽이 실패해도 다른 쪽 요청은 취소하지 않습니다.
func ResolveArticles(ctx context.Context, src ArticleSource, state models.QueryState) (models.ResultPayload, error) {
	var (
		articles []models.Article
		total    int
	)

	var g errgroup.Group

	g.Go(func() error {
		list, err := src.ListArticles(ctx, spaceflight.ListParams{
			Start:         state.Offset(),
			Limit:         models.PageSize,
			TitleContains: state.Q,
			Sort:          state.SortExpression(),
		})
		if err != nil {
			return fmt.Errorf("list articles: %w", err)
		}
		articles = list
		return nil
	})

	g.Go(func() error {
		n, err := src.CountArticles(ctx, state.Q)
		if err != nil {
			return fmt.Errorf("count articles: %w", err)
		}
		total = n
		return nil
	})

	if err := g.Wait(); err != nil {
		return models.ResultPayload{}, err
	}

	return models.ResultPayload{
		Articles: articles,
		Total:    total,
		Query:    state,
	}, nil
}

// GetArticles는 기사 페이지 핸들러입니다.
// 업스트림 조회나 렌더링이 실패하면 500과 일반 오류 페이지를 돌려줍니다.
func GetArticles(src ArticleSource, renderer *views.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := ParseQueryState(r.URL.Query())

		// 클라이언트가 떠나도 진행 중인 업스트림 요청은 끝까지 갑니다
		payload, err := ResolveArticles(context.WithoutCancel(r.Context()), src, state)
		if err != nil {
			slog.ErrorContext(r.Context(), "기사 데이터 가져오기 실패",
				slog.Int("page", state.Page),
				slog.String("q", state.Q),
				slog.String("error", err.Error()))
			renderError(w, r, renderer)
			return
		}

		// 반쯤 쓰인 문서를 보내지 않도록 버퍼에 먼저 그립니다
		var buf bytes.Buffer
		if err := renderer.RenderPage(&buf, payload); err != nil {
			slog.ErrorContext(r.Context(), "페이지 렌더링 실패", slog.String("error", err.Error()))
			renderError(w, r, renderer)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = buf.WriteTo(w)
	}
}

func renderError(w http.ResponseWriter, r *http.Request, renderer *views.Renderer) {
	var buf bytes.Buffer
	if err := renderer.RenderError(&buf); err != nil {
		slog.ErrorContext(r.Context(), "오류 페이지 렌더링 실패", slog.String("error", err.Error()))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = buf.WriteTo(w)
}

// Healthz는 프로세스 생존 확인용입니다. 업스트림은 확인하지 않습니다.
func Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, "ok")
}
