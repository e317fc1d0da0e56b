package service

import (
	"context"
	"sort"
	"time"

	"github.com/golang-sql/civil"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"marcacion/backend/config"
	"marcacion/backend/internal/model"
	"marcacion/backend/internal/repository"
)

// ── 共享内存存储 ──
// 各 mock 仓储共用一份数据，以便模拟模板 ↔ 站点 ↔ 规则之间的连接查询

type mockStore struct {
	sites       map[int64]*model.Site
	employees   map[int64]*model.Employee
	templates   map[int64]*model.ScheduleTemplate
	rules       map[int64][]model.ScheduleDayRule // template_id → rules
	assignments []model.ScheduleAssignment
	audits      []model.AuditLog
	nextID      int64

	auditErr error // 非 nil 时 AuditLog.Create 返回该错误
}

func newMockStore() *mockStore {
	return &mockStore{
		sites:     make(map[int64]*model.Site),
		employees: make(map[int64]*model.Employee),
		templates: make(map[int64]*model.ScheduleTemplate),
		rules:     make(map[int64][]model.ScheduleDayRule),
		nextID:    1000,
	}
}

func (m *mockStore) id() int64 {
	m.nextID++
	return m.nextID
}

// newTestRepository 构造以 mock 存储为后端的 Repository 聚合（无数据库连接）
func newTestRepository() (*repository.Repository, *mockStore) {
	store := newMockStore()
	tx := &mockTransactor{}
	repo := &repository.Repository{
		Transactor: tx,
		Site:       &mockSiteRepo{store},
		Employee:   &mockEmployeeRepo{store},
		Template:   &mockTemplateRepo{store},
		DayRule:    &mockDayRuleRepo{store},
		Assignment: &mockAssignmentRepo{store},
		AuditLog:   &mockAuditLogRepo{store},
	}
	tx.repo = repo
	return repo, store
}

// mockTransactor 直接在同一聚合上执行回调，并记录调用次数
type mockTransactor struct {
	repo  *repository.Repository
	calls int
}

func (m *mockTransactor) Transaction(_ context.Context, fn func(txRepo *repository.Repository) error) error {
	m.calls++
	return fn(m.repo)
}

func testScheduleConfig() *config.ScheduleConfig {
	return &config.ScheduleConfig{MaxRangeDays: 93, Timezone: "America/Bogota"}
}

var testLogger = zap.NewNop()

// ── 数据构造辅助 ──

func (m *mockStore) addSite(id int64, name string) {
	m.sites[id] = &model.Site{SiteID: id, Name: name, IsActive: true}
}

func (m *mockStore) addEmployee(id int64, siteID *int64) {
	m.employees[id] = &model.Employee{EmployeeID: id, Name: "Empleado", Role: "employee", SiteID: siteID, IsActive: true}
}

func (m *mockStore) addTemplate(id int64, name string, siteID *int64) *model.ScheduleTemplate {
	tpl := &model.ScheduleTemplate{TemplateID: id, Name: name, IsActive: true, SiteID: siteID}
	m.templates[id] = tpl
	return tpl
}

func (m *mockStore) addRule(templateID int64, weekday int, working bool, entry, exit string) {
	rule := model.ScheduleDayRule{DayRuleID: m.id(), TemplateID: templateID, Weekday: weekday, IsWorking: working}
	if entry != "" {
		t, _ := ParseClockTime(entry)
		rule.EntryTime = &t
	}
	if exit != "" {
		t, _ := ParseClockTime(exit)
		rule.ExitTime = &t
	}
	m.rules[templateID] = append(m.rules[templateID], rule)
}

func (m *mockStore) addAssignment(id, employeeID, templateID int64, from string, to string) {
	d, _ := civil.ParseDate(from)
	a := model.ScheduleAssignment{
		AssignmentID:  id,
		EmployeeID:    employeeID,
		TemplateID:    templateID,
		EffectiveFrom: model.DateValue(d),
	}
	if to != "" {
		d, _ := civil.ParseDate(to)
		v := model.DateValue(d)
		a.EffectiveTo = &v
	}
	m.assignments = append(m.assignments, a)
}

func int64Ptr(v int64) *int64 { return &v }

// ── Mock SiteRepository ──

type mockSiteRepo struct{ s *mockStore }

func (r *mockSiteRepo) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := r.s.sites[id]
	return ok, nil
}

// ── Mock EmployeeRepository ──

type mockEmployeeRepo struct{ s *mockStore }

func (r *mockEmployeeRepo) GetByID(_ context.Context, id int64) (*model.Employee, error) {
	if emp, ok := r.s.employees[id]; ok {
		return emp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock ScheduleTemplateRepository ──

type mockTemplateRepo struct{ s *mockStore }

func (r *mockTemplateRepo) Create(_ context.Context, tpl *model.ScheduleTemplate) error {
	tpl.TemplateID = r.s.id()
	tpl.CreatedAt = time.Now()
	tpl.UpdatedAt = tpl.CreatedAt
	stored := *tpl
	stored.Site = nil
	stored.DayRules = nil
	r.s.templates[tpl.TemplateID] = &stored
	return nil
}

func (r *mockTemplateRepo) GetByID(_ context.Context, id int64) (*model.ScheduleTemplate, error) {
	tpl, ok := r.s.templates[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *tpl
	if tpl.SiteID != nil {
		out.Site = r.s.sites[*tpl.SiteID]
	}
	out.DayRules = append([]model.ScheduleDayRule(nil), r.s.rules[id]...)
	sort.Slice(out.DayRules, func(i, j int) bool { return out.DayRules[i].Weekday < out.DayRules[j].Weekday })
	return &out, nil
}

func (r *mockTemplateRepo) List(_ context.Context, siteID *int64) ([]model.ScheduleTemplate, error) {
	var result []model.ScheduleTemplate
	for _, tpl := range r.s.templates {
		if siteID != nil && tpl.SiteID != nil && *tpl.SiteID != *siteID {
			continue
		}
		out := *tpl
		if tpl.SiteID != nil {
			out.Site = r.s.sites[*tpl.SiteID]
		}
		result = append(result, out)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].TemplateID < result[j].TemplateID
	})
	return result, nil
}

func (r *mockTemplateRepo) Update(_ context.Context, tpl *model.ScheduleTemplate) error {
	stored, ok := r.s.templates[tpl.TemplateID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Name = tpl.Name
	stored.IsActive = tpl.IsActive
	stored.SiteID = tpl.SiteID
	stored.UpdatedBy = tpl.UpdatedBy
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *mockTemplateRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.s.templates[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.s.rules, id)
	delete(r.s.templates, id)
	return nil
}

// ── Mock ScheduleDayRuleRepository ──

type mockDayRuleRepo struct{ s *mockStore }

func (r *mockDayRuleRepo) ListByTemplate(_ context.Context, templateID int64) ([]model.ScheduleDayRule, error) {
	rules := append([]model.ScheduleDayRule(nil), r.s.rules[templateID]...)
	sort.Slice(rules, func(i, j int) bool { return rules[i].Weekday < rules[j].Weekday })
	return rules, nil
}

func (r *mockDayRuleRepo) ReplaceForTemplate(_ context.Context, templateID int64, rules []model.ScheduleDayRule) error {
	stored := make([]model.ScheduleDayRule, len(rules))
	for i := range rules {
		stored[i] = rules[i]
		stored[i].DayRuleID = r.s.id()
		stored[i].TemplateID = templateID
	}
	r.s.rules[templateID] = stored
	return nil
}

func (r *mockDayRuleRepo) ListForResolution(_ context.Context, templateIDs []int64, weekdays []int) ([]repository.ResolvableDayRule, error) {
	wanted := make(map[int]bool, len(weekdays))
	for _, wd := range weekdays {
		wanted[wd] = true
	}
	var rows []repository.ResolvableDayRule
	for _, tid := range templateIDs {
		tpl, ok := r.s.templates[tid]
		if !ok {
			continue
		}
		var siteName *string
		if tpl.SiteID != nil {
			if site, ok := r.s.sites[*tpl.SiteID]; ok {
				name := site.Name
				siteName = &name
			}
		}
		for _, rule := range r.s.rules[tid] {
			if !wanted[rule.Weekday] {
				continue
			}
			rows = append(rows, repository.ResolvableDayRule{
				ScheduleDayRule: rule,
				TemplateName:    tpl.Name,
				SiteName:        siteName,
			})
		}
	}
	return rows, nil
}

// ── Mock ScheduleAssignmentRepository ──

type mockAssignmentRepo struct{ s *mockStore }

func (r *mockAssignmentRepo) Create(_ context.Context, a *model.ScheduleAssignment) error {
	a.AssignmentID = r.s.id()
	a.CreatedAt = time.Now()
	stored := *a
	stored.Template = nil
	r.s.assignments = append(r.s.assignments, stored)
	return nil
}

func (r *mockAssignmentRepo) ListEffective(_ context.Context, employeeID int64, start, end civil.Date) ([]model.ScheduleAssignment, error) {
	var result []model.ScheduleAssignment
	for _, a := range r.s.assignments {
		if a.EmployeeID != employeeID || a.From().After(end) {
			continue
		}
		if to, ok := a.To(); ok && to.Before(start) {
			continue
		}
		result = append(result, a)
	}
	sort.Slice(result, func(i, j int) bool {
		fi, fj := result[i].From(), result[j].From()
		if fi != fj {
			return fi.Before(fj)
		}
		return result[i].AssignmentID < result[j].AssignmentID
	})
	return result, nil
}

func (r *mockAssignmentRepo) ListByEmployee(_ context.Context, employeeID int64) ([]model.ScheduleAssignment, error) {
	var result []model.ScheduleAssignment
	for _, a := range r.s.assignments {
		if a.EmployeeID != employeeID {
			continue
		}
		a.Template = r.s.templates[a.TemplateID]
		result = append(result, a)
	}
	sort.Slice(result, func(i, j int) bool {
		fi, fj := result[i].From(), result[j].From()
		if fi != fj {
			return fi.After(fj)
		}
		return result[i].AssignmentID > result[j].AssignmentID
	})
	return result, nil
}

func (r *mockAssignmentRepo) ExistsByTemplate(_ context.Context, templateID int64) (bool, error) {
	for _, a := range r.s.assignments {
		if a.TemplateID == templateID {
			return true, nil
		}
	}
	return false, nil
}

// ── Mock AuditLogRepository ──

type mockAuditLogRepo struct{ s *mockStore }

func (r *mockAuditLogRepo) Create(_ context.Context, log *model.AuditLog) error {
	if r.s.auditErr != nil {
		return r.s.auditErr
	}
	log.AuditLogID = r.s.id()
	log.CreatedAt = time.Now()
	r.s.audits = append(r.s.audits, *log)
	return nil
}

// clock 测试中构造 datatypes.Time
func clock(h, m int) *datatypes.Time {
	t := datatypes.NewTime(h, m, 0, 0)
	return &t
}
