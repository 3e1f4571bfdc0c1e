package views

import (
	"fmt"
	"time"
)

// FormatDate는 발행 시각을 D-M-YYYY(0 채움 없음, 월은 1부터)로 표시합니다.
// 날짜는 타임스탬프에 들어있는 오프셋 기준입니다.
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%d-%d-%d", t.Day(), int(t.Month()), t.Year())
}
