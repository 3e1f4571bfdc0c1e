// Package views는 기사 페이지 HTML을 그립니다.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strconv"

	"github.com/mseongj/spaceflight-news/models"
)

//go:embed templates/*.html
var templateFS embed.FS

type card struct {
	Title    string
	URL      string
	ImageURL string
	Summary  string // 업스트림 텍스트 그대로, 이스케이프는 템플릿이 합니다
	Footer   string
}

type pageLink struct {
	Label    string
	Href     string
	Current  bool
	Ellipsis bool
}

type sortToggle struct {
	Label string
	Href  string
	Arrow string
}

type pageData struct {
	Query models.QueryState
	Sorts []sortToggle
	Cards []card
	Pages []pageLink
}

type Renderer struct {
	page    *template.Template
	errPage *template.Template
}

func NewRenderer() (*Renderer, error) {
	page, err := template.ParseFS(templateFS, "templates/layout.html", "templates/page.html")
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}
	errPage, err := template.ParseFS(templateFS, "templates/layout.html", "templates/error.html")
	if err != nil {
		return nil, fmt.Errorf("parse error template: %w", err)
	}
	return &Renderer{
		page:    page,
		errPage: errPage,
	}, nil
}

// RenderPage는 결과 묶음 하나를 완성된 HTML 문서로 씁니다.
func (r *Renderer) RenderPage(w io.Writer, p models.ResultPayload) error {
	return r.page.ExecuteTemplate(w, "layout", r.pageData(p))
}

// RenderError는 상세 정보 없이 일반 오류 페이지를 씁니다.
func (r *Renderer) RenderError(w io.Writer) error {
	return r.errPage.ExecuteTemplate(w, "layout", nil)
}

func (r *Renderer) pageData(p models.ResultPayload) pageData {
	q := p.Query

	// 정렬 방향은 두 버튼이 하나를 공유합니다
	arrow := "↓"
	if q.SortOrder == models.SortAsc {
		arrow = "↑"
	}

	data := pageData{
		Query: q,
		Sorts: []sortToggle{
			{Label: "Sort by title", Href: href(q.ToggleSort(models.SortFieldTitle)), Arrow: arrow},
			{Label: "Sort by date", Href: href(q.ToggleSort(models.SortFieldPublishedAt)), Arrow: arrow},
		},
		Cards: make([]card, 0, len(p.Articles)),
	}

	for _, a := range p.Articles {
		data.Cards = append(data.Cards, card{
			Title:    a.Title,
			URL:      a.URL,
			ImageURL: a.ImageURL,
			Summary:  a.Summary,
			Footer:   a.NewsSite + " | " + FormatDate(a.PublishedAt),
		})
	}

	for _, item := range Window(q.Page, TotalPages(p.Total)) {
		if item.Ellipsis {
			data.Pages = append(data.Pages, pageLink{Label: "...", Ellipsis: true})
			continue
		}
		data.Pages = append(data.Pages, pageLink{
			Label:   strconv.Itoa(item.Number),
			Href:    href(q.WithPage(item.Number)),
			Current: item.Number == q.Page,
		})
	}
	return data
}

func href(q models.QueryState) string {
	return "/?" + q.Encode()
}
