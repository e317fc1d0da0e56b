package service

import (
	"errors"
	"iter"
	"strings"
	"time"

	"github.com/golang-sql/civil"

	apperrors "marcacion/backend/pkg/errors"
)

// ── 日期解析错误 ──

var (
	ErrInvalidDate       = errors.New("日期格式无效，应为 YYYY-MM-DD 或 RFC 3339")
	ErrDateRangeReversed = errors.New("结束日期不能早于开始日期")
	ErrDateRangeTooLong  = errors.New("查询日期范围过长")
)

// ParseISODate 解析 YYYY-MM-DD 或 RFC 3339 时间戳；
// 带时区偏移的时间戳取其自身偏移下的日历日期
func ParseISODate(s string) (civil.Date, error) {
	s = strings.TrimSpace(s)
	if d, err := civil.ParseDate(s); err == nil {
		return d, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return civil.DateOf(t), nil
	}
	return civil.Date{}, apperrors.Validationf(ErrInvalidDate, "日期 %q 格式无效，应为 YYYY-MM-DD 或 RFC 3339", s)
}

// DateRange 闭区间 [Start, End] 的日历日期范围
type DateRange struct {
	Start civil.Date
	End   civil.Date
}

// ParseDateRange 解析并校验查询范围；maxDays <= 0 时不限制长度
func ParseDateRange(startISO, endISO string, maxDays int) (DateRange, error) {
	start, err := ParseISODate(startISO)
	if err != nil {
		return DateRange{}, err
	}
	end, err := ParseISODate(endISO)
	if err != nil {
		return DateRange{}, err
	}

	r := DateRange{Start: start, End: end}
	if end.Before(start) {
		return DateRange{}, apperrors.Validation(ErrDateRangeReversed)
	}
	if maxDays > 0 && r.Len() > maxDays {
		return DateRange{}, apperrors.Validationf(ErrDateRangeTooLong, "查询日期范围不能超过 %d 天", maxDays)
	}
	return r, nil
}

// Len 范围内的天数（含首尾）
func (r DateRange) Len() int {
	return r.End.DaysSince(r.Start) + 1
}

// Days 按日期升序逐日产出
func (r DateRange) Days() iter.Seq[civil.Date] {
	return func(yield func(civil.Date) bool) {
		for d := r.Start; !d.After(r.End); d = d.AddDays(1) {
			if !yield(d) {
				return
			}
		}
	}
}

// Weekdays 范围内出现过的 ISO 星期（去重，升序）
func (r DateRange) Weekdays() []int {
	var seen [8]bool
	n := 0
	for d := range r.Days() {
		wd := isoWeekday(d)
		if !seen[wd] {
			seen[wd] = true
			n++
		}
		if n == 7 {
			break
		}
	}
	out := make([]int, 0, n)
	for wd := 1; wd <= 7; wd++ {
		if seen[wd] {
			out = append(out, wd)
		}
	}
	return out
}

// isoWeekday 周一=1 … 周日=7
func isoWeekday(d civil.Date) int {
	wd := d.In(time.UTC).Weekday()
	if wd == time.Sunday {
		return 7
	}
	return int(wd)
}
