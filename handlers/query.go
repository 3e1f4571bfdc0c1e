package handlers

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/mseongj/spaceflight-news/models"
)

const defaultPage = 1

// ParseQueryState는 요청 쿼리에서 조회 상태를 만듭니다.
// page가 없거나 숫자가 아니면 1을 씁니다. 0과 음수는 그대로 두고,
// offset이 int 범위를 넘는 값은 숫자가 아닌 것으로 봅니다.
// 나머지 값이 없으면 빈 문자열입니다.
func ParseQueryState(v url.Values) models.QueryState {
	page := defaultPage
	if raw := strings.TrimSpace(v.Get("page")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= models.MinPage && n <= models.MaxPage {
			page = n
		}
	}

	return models.QueryState{
		Page:      page,
		Q:         v.Get("q"),
		Sort:      v.Get("sort"),
		SortOrder: v.Get("sortOrder"),
	}
}
