package models

import "time"

// Article은 Spaceflight News API의 개별 기사 항목입니다.
type Article struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`         // 원문 URL
	ImageURL    string    `json:"imageUrl"`    // 대표 이미지
	NewsSite    string    `json:"newsSite"`    // 출처 사이트 이름
	Summary     string    `json:"summary"`     // 요약
	PublishedAt time.Time `json:"publishedAt"` // 발행일
}

// ResultPayload는 한 번의 페이지 요청에 대해 만들어지는 결과 묶음입니다.
// Total은 현재 페이지가 아니라 검색 조건에 맞는 전체 기사 수입니다.
type ResultPayload struct {
	Articles []Article
	Total    int
	Query    QueryState
}
