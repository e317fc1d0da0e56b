package service

import (
	"errors"
	"strings"
	"time"

	"gorm.io/datatypes"

	"marcacion/backend/internal/dto"
	"marcacion/backend/internal/model"
	apperrors "marcacion/backend/pkg/errors"
)

// ── 星期规则校验错误 ──

var (
	ErrWeekdayOutOfRange     = errors.New("星期取值必须在 1-7 之间")
	ErrDuplicateWeekday      = errors.New("同一星期不能重复设置规则")
	ErrWorkingDayTimeMissing = errors.New("工作日必须同时设置上班与下班时间")
	ErrEntryNotBeforeExit    = errors.New("上班时间必须早于下班时间")
	ErrInvalidClockTime      = errors.New("时间格式无效，应为 HH:MM 或 HH:MM:SS")
)

var clockLayouts = []string{"15:04:05", "15:04"}

// ParseClockTime 解析 HH:MM 或 HH:MM:SS 形式的时刻
func ParseClockTime(s string) (datatypes.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return datatypes.NewTime(t.Hour(), t.Minute(), t.Second(), 0), nil
		}
	}
	return 0, ErrInvalidClockTime
}

// ValidateDayRules 校验并规范化一组星期规则。
//
// 校验按以下顺序整体进行，遇到第一个违规即返回 ValidationError：
//  1. 每条规则的星期在 [1,7] 内
//  2. 星期不重复
//  3. 工作日的上下班时间齐全且上班早于下班
//
// 未给出 is_working 时视为工作日。容忍/取整/休息分钟数为负时归零而不报错。非工作日若给出了时间也会原样保存。
func ValidateDayRules(inputs []dto.DayRuleInput) ([]model.ScheduleDayRule, error) {
	for _, in := range inputs {
		if in.Weekday < model.WeekdayMonday || in.Weekday > model.WeekdaySunday {
			return nil, apperrors.Validationf(ErrWeekdayOutOfRange, "星期 %d 无效，取值必须在 1-7 之间", in.Weekday)
		}
	}

	seen := make(map[int]bool, len(inputs))
	for _, in := range inputs {
		if seen[in.Weekday] {
			return nil, apperrors.Validationf(ErrDuplicateWeekday, "星期 %d 重复设置", in.Weekday)
		}
		seen[in.Weekday] = true
	}

	rules := make([]model.ScheduleDayRule, 0, len(inputs))
	for _, in := range inputs {
		entry, err := parseOptionalClock(in.Weekday, in.EntryTime)
		if err != nil {
			return nil, err
		}
		exit, err := parseOptionalClock(in.Weekday, in.ExitTime)
		if err != nil {
			return nil, err
		}

		working := in.IsWorking == nil || *in.IsWorking
		if working {
			if entry == nil || exit == nil {
				return nil, apperrors.Validationf(ErrWorkingDayTimeMissing, "星期 %d: 缺少上班或下班时间", in.Weekday)
			}
			if *entry >= *exit {
				return nil, apperrors.Validationf(ErrEntryNotBeforeExit, "星期 %d: 上班时间必须早于下班时间", in.Weekday)
			}
		}

		rules = append(rules, model.ScheduleDayRule{
			Weekday:          in.Weekday,
			IsWorking:        working,
			EntryTime:        entry,
			ExitTime:         exit,
			ToleranceMinutes: max(0, in.ToleranceMinutes),
			RoundingMinutes:  max(0, in.RoundingMinutes),
			BreakMinutes:     max(0, in.BreakMinutes),
		})
	}

	return rules, nil
}

func parseOptionalClock(weekday int, s *string) (*datatypes.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := ParseClockTime(*s)
	if err != nil {
		return nil, apperrors.Validationf(err, "星期 %d: 时间 %q 格式无效，应为 HH:MM 或 HH:MM:SS", weekday, *s)
	}
	return &t, nil
}
