package service

import (
	"context"
	"iter"

	"github.com/golang-sql/civil"
	"go.uber.org/zap"

	"marcacion/backend/config"
	"marcacion/backend/internal/dto"
	"marcacion/backend/internal/model"
	"marcacion/backend/internal/repository"
)

// ScheduleResolverService 排班解析业务接口
//
// 对员工与日期范围逐日计算生效的星期规则，输出应出勤时间窗。
// 无状态、不缓存，每次调用都从存储重新读取。
type ScheduleResolverService interface {
	// ResolveWeek 日期无法解析或范围非法时返回 ValidationError；无分配时返回空列表
	ResolveWeek(ctx context.Context, employeeID int64, startISO, endISO string) ([]dto.ScheduleDayEntry, error)
}

type scheduleResolverService struct {
	repo         *repository.Repository
	maxRangeDays int
	logger       *zap.Logger
}

// NewScheduleResolverService 创建 ScheduleResolverService 实例
func NewScheduleResolverService(cfg *config.ScheduleConfig, repo *repository.Repository, logger *zap.Logger) ScheduleResolverService {
	return &scheduleResolverService{repo: repo, maxRangeDays: cfg.MaxRangeDays, logger: logger}
}

func (s *scheduleResolverService) ResolveWeek(ctx context.Context, employeeID int64, startISO, endISO string) ([]dto.ScheduleDayEntry, error) {
	rng, err := ParseDateRange(startISO, endISO, s.maxRangeDays)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.ScheduleDayEntry, 0)

	// 1. 与范围相交的分配
	assignments, err := s.repo.Assignment.ListEffective(ctx, employeeID, rng.Start, rng.End)
	if err != nil {
		s.logger.Error("查询排班分配失败", zap.Int64("employee_id", employeeID), zap.Error(err))
		return nil, err
	}
	if len(assignments) == 0 {
		return entries, nil
	}

	// 2. 一次性读取 (模板集合 × 星期集合) 的规则
	templateIDs := make([]int64, 0, len(assignments))
	seen := make(map[int64]bool, len(assignments))
	for _, a := range assignments {
		if !seen[a.TemplateID] {
			seen[a.TemplateID] = true
			templateIDs = append(templateIDs, a.TemplateID)
		}
	}
	rows, err := s.repo.DayRule.ListForResolution(ctx, templateIDs, rng.Weekdays())
	if err != nil {
		s.logger.Error("查询星期规则失败", zap.Int64("employee_id", employeeID), zap.Error(err))
		return nil, err
	}

	// 3. 逐日解析
	for e := range Resolve(rng, assignments, NewRuleIndex(rows)) {
		entries = append(entries, e)
	}
	return entries, nil
}

// ── 解析算法 ──

type ruleKey struct {
	templateID int64
	weekday    int
}

// RuleIndex 按 (模板, 星期) 索引的规则
type RuleIndex map[ruleKey]repository.ResolvableDayRule

// NewRuleIndex 构建索引；同一键出现多次时保留第一条
func NewRuleIndex(rows []repository.ResolvableDayRule) RuleIndex {
	idx := make(RuleIndex, len(rows))
	for _, r := range rows {
		k := ruleKey{templateID: r.TemplateID, weekday: r.Weekday}
		if _, ok := idx[k]; !ok {
			idx[k] = r
		}
	}
	return idx
}

// Resolve 逐日产出生效的时间窗，按日期升序。
//
// 对每个日期 d：在覆盖 d 的分配中取生效起始日最早者（相同则取 ID 较小者），
// 查其模板在 ISO 星期(d) 的规则；无分配、无规则、非工作日或时间不全的日期不产出。
func Resolve(rng DateRange, assignments []model.ScheduleAssignment, rules RuleIndex) iter.Seq[dto.ScheduleDayEntry] {
	return func(yield func(dto.ScheduleDayEntry) bool) {
		for d := range rng.Days() {
			a := effectiveAssignment(assignments, d)
			if a == nil {
				continue
			}
			rule, ok := rules[ruleKey{templateID: a.TemplateID, weekday: isoWeekday(d)}]
			if !ok || !rule.HasWindow() {
				continue
			}
			if !yield(toDayEntry(d, &rule)) {
				return
			}
		}
	}
}

// effectiveAssignment 覆盖 d 的分配中起始日最早者，平局取 ID 较小者
func effectiveAssignment(assignments []model.ScheduleAssignment, d civil.Date) *model.ScheduleAssignment {
	var best *model.ScheduleAssignment
	for i := range assignments {
		a := &assignments[i]
		if !a.Covers(d) {
			continue
		}
		if best == nil {
			best = a
			continue
		}
		from, bestFrom := a.From(), best.From()
		if from.Before(bestFrom) || (from == bestFrom && a.AssignmentID < best.AssignmentID) {
			best = a
		}
	}
	return best
}

func toDayEntry(d civil.Date, rule *repository.ResolvableDayRule) dto.ScheduleDayEntry {
	return dto.ScheduleDayEntry{
		Date:             d.String(),
		EntryTime:        formatClock(*rule.EntryTime),
		ExitTime:         formatClock(*rule.ExitTime),
		SiteName:         rule.SiteName,
		TemplateName:     rule.TemplateName,
		TemplateID:       rule.TemplateID,
		ToleranceMinutes: rule.ToleranceMinutes,
		BreakMinutes:     rule.BreakMinutes,
		RoundingMinutes:  rule.RoundingMinutes,
	}
}
