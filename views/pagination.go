package views

import "github.com/mseongj/spaceflight-news/models"

// 한 번에 보여줄 페이지 번호 수
const pagesToShow = 5

// PageItem은 페이지네이션 줄의 한 칸입니다. Ellipsis이면 Number는 의미가 없습니다.
type PageItem struct {
	Number   int
	Ellipsis bool
}

// TotalPages는 ceil(total / PageSize)입니다.
func TotalPages(total int) int {
	if total <= 0 {
		return 0
	}
	return (total + models.PageSize - 1) / models.PageSize
}

// Window는 current 주변으로 보여줄 페이지 번호 목록을 만듭니다.
//
// 전체가 pagesToShow 이하이면 1..totalPages를 모두 보여주고, 그보다 많으면
// current-2..current+2 를 [1, totalPages]로 자른 창을 보여줍니다.
// 창이 1에서 시작하지 않으면 앞에 1과 "...", totalPages에서 끝나지 않으면 뒤에 "..."과 totalPages를 붙입니다.
func Window(current, totalPages int) []PageItem {
	items := make([]PageItem, 0, pagesToShow+4)

	if totalPages <= pagesToShow {
		for i := 1; i <= totalPages; i++ {
			items = append(items, PageItem{Number: i})
		}
		return items
	}

	// current±2가 넘치지 않도록 비교를 먼저 합니다
	start := 1
	if current > 3 {
		start = current - 2
	}
	end := totalPages
	if current < totalPages-2 {
		end = current + 2
	}

	if start > 1 {
		items = append(items, PageItem{Number: 1}, PageItem{Ellipsis: true})
	}
	for i := start; i <= end; i++ {
		items = append(items, PageItem{Number: i})
	}
	if end < totalPages {
		items = append(items, PageItem{Ellipsis: true}, PageItem{Number: totalPages})
	}
	return items
}
