package models

import (
	"math"
	"net/url"
	"strconv"
)

// 한 페이지에 보여줄 기사 수
const PageSize = 6

// Offset이 int 범위 안에 있는 page 범위
const (
	MaxPage = math.MaxInt/PageSize + 1
	MinPage = math.MinInt/PageSize + 1
)

const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// 정렬 가능한 기사 필드
const (
	SortFieldTitle       = "title"
	SortFieldPublishedAt = "publishedAt"
)

// QueryState는 요청 파라미터(page, q, sort, sortOrder)에서 만들어지는 조회 상태입니다.
// 요청마다 새로 만들어지고 어디에도 저장되지 않습니다.
type QueryState struct {
	Page      int
	Q         string
	Sort      string
	SortOrder string
}

// Offset은 업스트림 _start 값입니다. page 하한은 검사하지 않으므로 0 이하의 page는 음수 offset이 됩니다.
func (s QueryState) Offset() int {
	return (s.Page - 1) * PageSize
}

// SortExpression은 업스트림 _sort 값을 만듭니다. 필드가 없으면 빈 문자열입니다.
func (s QueryState) SortExpression() string {
	if s.Sort == "" {
		return ""
	}
	if s.SortOrder == "" {
		return s.Sort
	}
	return s.Sort + ":" + s.SortOrder
}

func (s QueryState) WithPage(page int) QueryState {
	s.Page = page
	return s
}

// ToggleSort는 field 기준 정렬로 바꾸면서 현재 방향을 뒤집습니다.
// 방향은 필드별로 기억하지 않고 하나만 공유합니다: desc이면 asc, 그 외에는 desc.
func (s QueryState) ToggleSort(field string) QueryState {
	order := SortDesc
	if s.SortOrder == SortDesc {
		order = SortAsc
	}
	s.Sort = field
	s.SortOrder = order
	return s
}

// Encode는 페이지 이동 링크에 쓸 쿼리 문자열을 만듭니다. 빈 값은 생략합니다.
func (s QueryState) Encode() string {
	v := url.Values{}
	v.Set("page", strconv.Itoa(s.Page))
	if s.Q != "" {
		v.Set("q", s.Q)
	}
	if s.Sort != "" {
		v.Set("sort", s.Sort)
	}
	if s.SortOrder != "" {
		v.Set("sortOrder", s.SortOrder)
	}
	return v.Encode()
}
