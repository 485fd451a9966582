package history

import (
	"fmt"
	"time"
)

// FormatDate renders t the way the ko-KR locale prints a full date and
// 12-hour time, e.g. "2024. 03. 09. 오후 02:05:07".
func FormatDate(t time.Time) string {
	meridiem := "오전"
	hour := t.Hour()
	if hour >= 12 {
		meridiem = "오후"
	}
	hour %= 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%04d. %02d. %02d. %s %02d:%02d:%02d",
		t.Year(), int(t.Month()), t.Day(), meridiem, hour, t.Minute(), t.Second())
}
