package og

import (
	"fmt"
	"time"
)

// formatDate renders t the way the ja-JP long date format does: 2026年10月19日.
func formatDate(t time.Time) string {
	y, m, d := t.Date()
	return fmt.Sprintf("%d年%d月%d日", y, int(m), d)
}
