package service

import (
	"errors"
	"testing"

	"marcacion/backend/internal/dto"
	apperrors "marcacion/backend/pkg/errors"
)

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func workingDay(weekday int, entry, exit string) dto.DayRuleInput {
	return dto.DayRuleInput{Weekday: weekday, IsWorking: boolPtr(true), EntryTime: strPtr(entry), ExitTime: strPtr(exit)}
}

func TestValidateDayRules_Success(t *testing.T) {
	rules, err := ValidateDayRules([]dto.DayRuleInput{
		workingDay(1, "08:00", "17:00"),
		{Weekday: 6, IsWorking: boolPtr(false)},
	})
	if err != nil {
		t.Fatalf("ValidateDayRules 应成功: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("期望 2 条规则，实际=%d", len(rules))
	}
	if formatClock(*rules[0].EntryTime) != "08:00:00" || formatClock(*rules[0].ExitTime) != "17:00:00" {
		t.Errorf("时间解析错误: %s - %s", formatClock(*rules[0].EntryTime), formatClock(*rules[0].ExitTime))
	}
	if rules[1].EntryTime != nil || rules[1].IsWorking {
		t.Error("非工作日不应带时间")
	}
}

func TestValidateDayRules_ClampsNegativeMinutes(t *testing.T) {
	in := workingDay(2, "09:00:00", "18:00:00")
	in.ToleranceMinutes = -5
	in.RoundingMinutes = -1
	in.BreakMinutes = 30

	rules, err := ValidateDayRules([]dto.DayRuleInput{in})
	if err != nil {
		t.Fatalf("负分钟数应归零而非报错: %v", err)
	}
	r := rules[0]
	if r.ToleranceMinutes != 0 || r.RoundingMinutes != 0 || r.BreakMinutes != 30 {
		t.Errorf("期望 0/0/30，实际 %d/%d/%d", r.ToleranceMinutes, r.RoundingMinutes, r.BreakMinutes)
	}
}

func TestValidateDayRules_WeekdayOutOfRange(t *testing.T) {
	for _, wd := range []int{0, 8, -1} {
		_, err := ValidateDayRules([]dto.DayRuleInput{{Weekday: wd}})
		if !errors.Is(err, ErrWeekdayOutOfRange) {
			t.Errorf("星期 %d: 期望 ErrWeekdayOutOfRange，实际: %v", wd, err)
		}
		if !apperrors.IsValidation(err) {
			t.Errorf("星期 %d: 期望 ValidationError", wd)
		}
	}
}

func TestValidateDayRules_DuplicateWeekday(t *testing.T) {
	_, err := ValidateDayRules([]dto.DayRuleInput{
		workingDay(3, "08:00", "12:00"),
		{Weekday: 3, IsWorking: boolPtr(false)},
	})
	if !errors.Is(err, ErrDuplicateWeekday) {
		t.Errorf("期望 ErrDuplicateWeekday，实际: %v", err)
	}
}

func TestValidateDayRules_EntryNotBeforeExit(t *testing.T) {
	cases := []dto.DayRuleInput{
		workingDay(1, "17:00", "08:00"),
		workingDay(1, "08:00", "08:00"),
	}
	for _, in := range cases {
		_, err := ValidateDayRules([]dto.DayRuleInput{in})
		if !errors.Is(err, ErrEntryNotBeforeExit) {
			t.Errorf("%s-%s: 期望 ErrEntryNotBeforeExit，实际: %v", *in.EntryTime, *in.ExitTime, err)
		}
	}
}

func TestValidateDayRules_IsWorkingDefaultsTrue(t *testing.T) {
	rules, err := ValidateDayRules([]dto.DayRuleInput{
		{Weekday: 1, EntryTime: strPtr("08:00"), ExitTime: strPtr("17:00")},
	})
	if err != nil {
		t.Fatalf("ValidateDayRules 应成功: %v", err)
	}
	if !rules[0].IsWorking {
		t.Error("未给出 is_working 时应视为工作日")
	}

	// 缺省为工作日，因此缺少时间应报错
	_, err = ValidateDayRules([]dto.DayRuleInput{{Weekday: 2}})
	if !errors.Is(err, ErrWorkingDayTimeMissing) {
		t.Errorf("期望 ErrWorkingDayTimeMissing，实际: %v", err)
	}
}

func TestValidateDayRules_WorkingDayMissingTime(t *testing.T) {
	_, err := ValidateDayRules([]dto.DayRuleInput{{Weekday: 4, IsWorking: boolPtr(true), EntryTime: strPtr("08:00")}})
	if !errors.Is(err, ErrWorkingDayTimeMissing) {
		t.Errorf("期望 ErrWorkingDayTimeMissing，实际: %v", err)
	}
}

func TestValidateDayRules_InvalidClock(t *testing.T) {
	_, err := ValidateDayRules([]dto.DayRuleInput{workingDay(5, "8h", "17:00")})
	if !errors.Is(err, ErrInvalidClockTime) || !apperrors.IsValidation(err) {
		t.Errorf("期望 ErrInvalidClockTime (ValidationError)，实际: %v", err)
	}
}

// 校验顺序：星期越界先于重复，重复先于时间窗
func TestValidateDayRules_Ordering(t *testing.T) {
	_, err := ValidateDayRules([]dto.DayRuleInput{
		workingDay(1, "17:00", "08:00"),
		workingDay(1, "08:00", "17:00"),
		{Weekday: 9},
	})
	if !errors.Is(err, ErrWeekdayOutOfRange) {
		t.Errorf("期望先报告星期越界，实际: %v", err)
	}

	_, err = ValidateDayRules([]dto.DayRuleInput{
		workingDay(2, "17:00", "08:00"),
		workingDay(2, "08:00", "17:00"),
	})
	if !errors.Is(err, ErrDuplicateWeekday) {
		t.Errorf("期望先报告重复星期，实际: %v", err)
	}

	// 时间格式错误排在星期越界之后
	_, err = ValidateDayRules([]dto.DayRuleInput{
		{Weekday: 9},
		{Weekday: 1, EntryTime: strPtr("x"), ExitTime: strPtr("17:00")},
	})
	if !errors.Is(err, ErrWeekdayOutOfRange) {
		t.Errorf("期望先报告星期越界而非时间格式，实际: %v", err)
	}
}

func TestValidateDayRules_Empty(t *testing.T) {
	rules, err := ValidateDayRules(nil)
	if err != nil || len(rules) != 0 {
		t.Errorf("空规则集应合法，实际 rules=%d err=%v", len(rules), err)
	}
}

func TestParseClockTime(t *testing.T) {
	for in, want := range map[string]string{
		"08:00":    "08:00:00",
		"8:05":     "08:05:00",
		"23:59:59": "23:59:59",
		" 07:30 ":  "07:30:00",
	} {
		got, err := ParseClockTime(in)
		if err != nil {
			t.Errorf("%q: 解析失败: %v", in, err)
			continue
		}
		if formatClock(got) != want {
			t.Errorf("%q: 期望 %s，实际 %s", in, want, formatClock(got))
		}
	}
	for _, bad := range []string{"", "24:00", "12:60", "noon", "08:00:00:00"} {
		if _, err := ParseClockTime(bad); err == nil {
			t.Errorf("%q: 期望解析失败", bad)
		}
	}
}
