package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"marcacion/backend/internal/dto"
	"marcacion/backend/internal/model"
	apperrors "marcacion/backend/pkg/errors"
)

// ── 测试辅助 ──

func setupTestTemplateService() (ScheduleTemplateService, *mockStore) {
	repo, store := newTestRepository()
	store.addSite(1, "Sede Norte")
	store.addSite(2, "Sede Sur")
	return NewScheduleTemplateService(repo, testLogger), store
}

var (
	superAdmin = Principal{UserID: 1, IsSuperAdmin: true}
	northAdmin = Principal{UserID: 10, SiteID: int64Ptr(1)}
	southAdmin = Principal{UserID: 20, SiteID: int64Ptr(2)}
	siteless   = Principal{UserID: 30}
)

// ── Create 测试 ──

func TestTemplateService_Create_SuperAdminGlobal(t *testing.T) {
	svc, store := setupTestTemplateService()

	result, err := svc.Create(context.Background(), superAdmin, &dto.CreateTemplateRequest{Name: "  Oficina  "})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if result.Name != "Oficina" {
		t.Errorf("期望名称去除首尾空白，实际=%q", result.Name)
	}
	if !result.IsGlobal || result.SiteID != nil {
		t.Error("超级管理员未指定站点应创建全局模板")
	}
	if !result.IsActive {
		t.Error("期望默认启用")
	}

	if len(store.audits) != 1 || store.audits[0].Action != AuditActionTemplateCreate {
		t.Fatalf("期望写入一条创建审计，实际=%+v", store.audits)
	}
	if store.audits[0].EntityID != result.ID || store.audits[0].ActorID != superAdmin.UserID {
		t.Error("审计记录的实体或操作人不正确")
	}
}

func TestTemplateService_Create_SuperAdminZeroSiteIsGlobal(t *testing.T) {
	svc, _ := setupTestTemplateService()

	result, err := svc.Create(context.Background(), superAdmin, &dto.CreateTemplateRequest{Name: "Global", SiteID: int64Ptr(0)})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if !result.IsGlobal {
		t.Error("site_id=0 应视为全局")
	}
}

func TestTemplateService_Create_SuperAdminUnknownSite(t *testing.T) {
	svc, _ := setupTestTemplateService()

	_, err := svc.Create(context.Background(), superAdmin, &dto.CreateTemplateRequest{Name: "X", SiteID: int64Ptr(99)})
	if !errors.Is(err, ErrSiteNotFound) || !apperrors.IsValidation(err) {
		t.Errorf("期望 ErrSiteNotFound (ValidationError)，实际: %v", err)
	}
}

func TestTemplateService_Create_SiteAdminGetsOwnSite(t *testing.T) {
	svc, _ := setupTestTemplateService()

	inactive := false
	result, err := svc.Create(context.Background(), northAdmin, &dto.CreateTemplateRequest{Name: "Turno", IsActive: &inactive})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if result.SiteID == nil || *result.SiteID != 1 {
		t.Errorf("站点管理员应自动归属本站点，实际=%v", result.SiteID)
	}
	if result.SiteName == nil || *result.SiteName != "Sede Norte" {
		t.Errorf("期望站点名 Sede Norte，实际=%v", result.SiteName)
	}
	if result.IsActive {
		t.Error("显式 is_active=false 应保留")
	}
}

func TestTemplateService_Create_SiteAdminForbidden(t *testing.T) {
	svc, store := setupTestTemplateService()
	ctx := context.Background()

	cases := []struct {
		name string
		p    Principal
		site *int64
		want error
	}{
		{"其他站点", northAdmin, int64Ptr(2), ErrTemplateScopeDenied},
		{"全局", northAdmin, int64Ptr(0), ErrTemplateScopeDenied},
		{"未绑定站点", siteless, nil, ErrAdminSiteUnbound},
	}
	for _, tc := range cases {
		_, err := svc.Create(ctx, tc.p, &dto.CreateTemplateRequest{Name: "X", SiteID: tc.site})
		if !errors.Is(err, tc.want) || !apperrors.IsAuthorization(err) {
			t.Errorf("%s: 期望 %v (AuthorizationError)，实际: %v", tc.name, tc.want, err)
		}
	}
	if len(store.templates) != 0 || len(store.audits) != 0 {
		t.Error("授权失败时不应写入任何数据")
	}
}

func TestTemplateService_Create_InvalidName(t *testing.T) {
	svc, _ := setupTestTemplateService()
	ctx := context.Background()

	_, err := svc.Create(ctx, superAdmin, &dto.CreateTemplateRequest{Name: "   "})
	if !errors.Is(err, ErrTemplateNameBlank) || !apperrors.IsValidation(err) {
		t.Errorf("期望 ErrTemplateNameBlank，实际: %v", err)
	}

	_, err = svc.Create(ctx, superAdmin, &dto.CreateTemplateRequest{Name: strings.Repeat("a", 101)})
	if !errors.Is(err, ErrTemplateNameTooLong) {
		t.Errorf("期望 ErrTemplateNameTooLong，实际: %v", err)
	}

	// 100 个多字节字符按字符计数应合法
	if _, err := svc.Create(ctx, superAdmin, &dto.CreateTemplateRequest{Name: strings.Repeat("ñ", 100)}); err != nil {
		t.Errorf("100 个字符应合法: %v", err)
	}
}

func TestTemplateService_Create_TrimsBeforeLengthCheck(t *testing.T) {
	svc, _ := setupTestTemplateService()

	name := strings.Repeat("a", 100)
	result, err := svc.Create(context.Background(), superAdmin, &dto.CreateTemplateRequest{Name: "  " + name + "  "})
	if err != nil {
		t.Fatalf("去除首尾空白后 100 个字符应合法: %v", err)
	}
	if result.Name != name {
		t.Errorf("名称应去除首尾空白，实际 %q", result.Name)
	}
}

// ── List / GetByID 测试 ──

func TestTemplateService_List_Visibility(t *testing.T) {
	svc, store := setupTestTemplateService()
	store.addTemplate(1, "Global", nil)
	store.addTemplate(2, "Norte", int64Ptr(1))
	store.addTemplate(3, "Sur", int64Ptr(2))
	ctx := context.Background()

	all, _ := svc.List(ctx, superAdmin)
	if len(all) != 3 {
		t.Errorf("超级管理员应看到全部模板，实际=%d", len(all))
	}

	north, _ := svc.List(ctx, northAdmin)
	if len(north) != 2 {
		t.Fatalf("站点管理员应看到全局 + 本站点，实际=%d", len(north))
	}
	for _, tpl := range north {
		if tpl.Name == "Sur" {
			t.Error("不应看到其他站点模板")
		}
	}

	none, _ := svc.List(ctx, siteless)
	if len(none) != 1 || none[0].Name != "Global" {
		t.Errorf("未绑定站点的管理员只应看到全局模板，实际=%+v", none)
	}
}

func TestTemplateService_GetByID(t *testing.T) {
	svc, store := setupTestTemplateService()
	store.addTemplate(5, "Norte", int64Ptr(1))
	store.addRule(5, 3, true, "08:00", "17:00")
	store.addRule(5, 1, true, "07:00", "16:00")
	ctx := context.Background()

	result, err := svc.GetByID(ctx, northAdmin, 5)
	if err != nil {
		t.Fatalf("GetByID 应成功: %v", err)
	}
	if len(result.DayRules) != 2 || result.DayRules[0].Weekday != 1 {
		t.Errorf("期望按星期升序返回 2 条规则，实际=%+v", result.DayRules)
	}
	if *result.DayRules[0].EntryTime != "07:00:00" {
		t.Errorf("期望 07:00:00，实际=%s", *result.DayRules[0].EntryTime)
	}

	if _, err := svc.GetByID(ctx, southAdmin, 5); !apperrors.IsAuthorization(err) {
		t.Errorf("其他站点管理员应被拒绝，实际: %v", err)
	}
	if _, err := svc.GetByID(ctx, superAdmin, 404); !errors.Is(err, ErrTemplateNotFound) || !apperrors.IsNotFound(err) {
		t.Errorf("期望 ErrTemplateNotFound，实际: %v", err)
	}
}

// ── Update 测试 ──

func TestTemplateService_Update_SiteAdmin(t *testing.T) {
	svc, store := setupTestTemplateService()
	store.addTemplate(1, "Norte", int64Ptr(1))
	ctx := context.Background()

	off := false
	result, err := svc.Update(ctx, northAdmin, 1, &dto.UpdateTemplateRequest{Name: "Norte 2", IsActive: &off})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if result.Name != "Norte 2" || result.IsActive {
		t.Errorf("更新未生效: %+v", result)
	}
	if result.SiteID == nil || *result.SiteID != 1 {
		t.Error("未指定站点时站点管理员应保持原范围")
	}
	if store.templates[1].UpdatedBy == nil || *store.templates[1].UpdatedBy != northAdmin.UserID {
		t.Error("期望记录修改人")
	}
	if len(store.audits) != 1 || store.audits[0].Action != AuditActionTemplateUpdate {
		t.Errorf("期望写入更新审计，实际=%+v", store.audits)
	}
}

func TestTemplateService_Update_SiteAdminForbidden(t *testing.T) {
	svc, store := setupTestTemplateService()
	store.addTemplate(1, "Global", nil)
	store.addTemplate(2, "Sur", int64Ptr(2))
	store.addTemplate(3, "Norte", int64Ptr(1))
	ctx := context.Background()

	if _, err := svc.Update(ctx, northAdmin, 1, &dto.UpdateTemplateRequest{Name: "X"}); !errors.Is(err, ErrTemplateScopeDenied) {
		t.Errorf("站点管理员不能编辑全局模板，实际: %v", err)
	}
	if _, err := svc.Update(ctx, northAdmin, 2, &dto.UpdateTemplateRequest{Name: "X"}); !errors.Is(err, ErrTemplateScopeDenied) {
		t.Errorf("站点管理员不能编辑其他站点模板，实际: %v", err)
	}
	_, err := svc.Update(ctx, northAdmin, 3, &dto.UpdateTemplateRequest{Name: "X", SiteID: int64Ptr(2)})
	if !errors.Is(err, ErrScopeChangeForbidden) || !apperrors.IsAuthorization(err) {
		t.Errorf("站点管理员不能修改范围，实际: %v", err)
	}
	if store.templates[3].Name != "Norte" {
		t.Error("被拒绝的更新不应修改数据")
	}
}

func TestTemplateService_Update_SuperAdminScope(t *testing.T) {
	svc, store := setupTestTemplateService()
	store.addTemplate(1, "Norte", int64Ptr(1))
	ctx := context.Background()

	result, err := svc.Update(ctx, superAdmin, 1, &dto.UpdateTemplateRequest{Name: "Norte", SiteID: int64Ptr(2)})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if result.SiteName == nil || *result.SiteName != "Sede Sur" {
		t.Errorf("期望移到 Sede Sur，实际=%v", result.SiteName)
	}

	result, err = svc.Update(ctx, superAdmin, 1, &dto.UpdateTemplateRequest{Name: "Norte"})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if !result.IsGlobal {
		t.Error("超级管理员未指定站点时应设为全局")
	}

	if _, err := svc.Update(ctx, superAdmin, 1, &dto.UpdateTemplateRequest{Name: "Norte", SiteID: int64Ptr(77)}); !errors.Is(err, ErrSiteNotFound) {
		t.Errorf("期望 ErrSiteNotFound，实际: %v", err)
	}
}

// ── Delete 测试 ──

func TestTemplateService_Delete_Unreferenced(t *testing.T) {
	svc, store := setupTestTemplateService()
	store.addTemplate(1, "Norte", int64Ptr(1))
	store.addRule(1, 1, true, "08:00", "17:00")

	if err := svc.Delete(context.Background(), northAdmin, 1); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if _, ok := store.templates[1]; ok {
		t.Error("模板应被删除")
	}
	if len(store.rules[1]) != 0 {
		t.Error("规则应随模板删除")
	}
	if len(store.audits) != 1 || store.audits[0].Action != AuditActionTemplateDelete {
		t.Errorf("期望写入删除审计，实际=%+v", store.audits)
	}
}

func TestTemplateService_Delete_InUse(t *testing.T) {
	svc, store := setupTestTemplateService()
	store.addTemplate(1, "Norte", int64Ptr(1))
	store.addAssignment(1, 100, 1, "2024-01-01", "")

	err := svc.Delete(context.Background(), superAdmin, 1)
	if !errors.Is(err, ErrTemplateInUse) || !apperrors.IsConflict(err) {
		t.Errorf("期望 ErrTemplateInUse (ConflictError)，实际: %v", err)
	}
	if _, ok := store.templates[1]; !ok {
		t.Error("被引用的模板不应被删除")
	}
}

func TestTemplateService_Delete_NotFoundAndForbidden(t *testing.T) {
	svc, store := setupTestTemplateService()
	store.addTemplate(1, "Sur", int64Ptr(2))
	ctx := context.Background()

	if err := svc.Delete(ctx, superAdmin, 999); !apperrors.IsNotFound(err) {
		t.Errorf("期望 NotFoundError，实际: %v", err)
	}
	if err := svc.Delete(ctx, northAdmin, 1); !apperrors.IsAuthorization(err) {
		t.Errorf("期望 AuthorizationError，实际: %v", err)
	}
}

// ── ReplaceDayRules 测试 ──

func TestTemplateService_ReplaceDayRules_RoundTrip(t *testing.T) {
	svc, store := setupTestTemplateService()
	store.addTemplate(1, "Norte", int64Ptr(1))
	store.addRule(1, 7, true, "10:00", "14:00")
	ctx := context.Background()

	in := []dto.DayRuleInput{
		{Weekday: 1, IsWorking: boolPtr(true), EntryTime: strPtr("08:00"), ExitTime: strPtr("17:00"), ToleranceMinutes: 10, BreakMinutes: -30},
		{Weekday: 2, IsWorking: boolPtr(false)},
	}
	result, err := svc.ReplaceDayRules(ctx, northAdmin, 1, in)
	if err != nil {
		t.Fatalf("ReplaceDayRules 应成功: %v", err)
	}
	if len(result.DayRules) != 2 {
		t.Fatalf("期望整体替换为 2 条规则，实际=%d", len(result.DayRules))
	}
	mon := result.DayRules[0]
	if mon.Weekday != 1 || *mon.EntryTime != "08:00:00" || *mon.ExitTime != "17:00:00" {
		t.Errorf("周一规则不一致: %+v", mon)
	}
	if mon.ToleranceMinutes != 10 || mon.BreakMinutes != 0 {
		t.Errorf("期望 tolerance=10 break=0，实际 %d/%d", mon.ToleranceMinutes, mon.BreakMinutes)
	}

	// 相同输入再次替换结果一致
	again, err := svc.ReplaceDayRules(ctx, northAdmin, 1, in)
	if err != nil {
		t.Fatalf("再次替换应成功: %v", err)
	}
	if len(again.DayRules) != len(result.DayRules) {
		t.Fatal("重复替换应得到相同规则集")
	}
	a, b := again.DayRules[0], result.DayRules[0]
	if a.Weekday != b.Weekday || *a.EntryTime != *b.EntryTime || *a.ExitTime != *b.ExitTime || a.ToleranceMinutes != b.ToleranceMinutes {
		t.Errorf("重复替换应得到相同规则集: %+v vs %+v", a, b)
	}

	if len(store.audits) != 2 || store.audits[0].Action != AuditActionTemplateUpdateDays {
		t.Errorf("期望每次替换写入一条审计，实际=%d", len(store.audits))
	}
}

func TestTemplateService_ReplaceDayRules_InvalidLeavesRulesUnchanged(t *testing.T) {
	svc, store := setupTestTemplateService()
	store.addTemplate(1, "Norte", int64Ptr(1))
	store.addRule(1, 5, true, "08:00", "12:00")
	ctx := context.Background()

	cases := []struct {
		name string
		in   []dto.DayRuleInput
		want error
	}{
		{"重复星期", []dto.DayRuleInput{{Weekday: 1}, {Weekday: 1}}, ErrDuplicateWeekday},
		{"上班不早于下班", []dto.DayRuleInput{{Weekday: 1, IsWorking: boolPtr(true), EntryTime: strPtr("18:00"), ExitTime: strPtr("09:00")}}, ErrEntryNotBeforeExit},
	}
	for _, tc := range cases {
		_, err := svc.ReplaceDayRules(ctx, northAdmin, 1, tc.in)
		if !errors.Is(err, tc.want) || !apperrors.IsValidation(err) {
			t.Errorf("%s: 期望 %v，实际: %v", tc.name, tc.want, err)
		}
		if rules := store.rules[1]; len(rules) != 1 || rules[0].Weekday != 5 {
			t.Errorf("%s: 校验失败后规则应保持不变，实际=%+v", tc.name, rules)
		}
	}
	if len(store.audits) != 0 {
		t.Error("校验失败不应写入审计")
	}
}

func TestTemplateService_ReplaceDayRules_RunsInTransaction(t *testing.T) {
	repo, store := newTestRepository()
	store.addSite(1, "Sede Norte")
	store.addTemplate(1, "Norte", int64Ptr(1))
	svc := NewScheduleTemplateService(repo, testLogger)
	tx := repo.Transactor.(*mockTransactor)
	ctx := context.Background()

	if _, err := svc.ReplaceDayRules(ctx, northAdmin, 1, []dto.DayRuleInput{{Weekday: 9}}); err == nil {
		t.Fatal("期望校验失败")
	}
	if tx.calls != 0 {
		t.Errorf("校验失败时不应开启事务，实际 %d 次", tx.calls)
	}

	in := []dto.DayRuleInput{{Weekday: 1, EntryTime: strPtr("08:00"), ExitTime: strPtr("17:00")}}
	if _, err := svc.ReplaceDayRules(ctx, northAdmin, 1, in); err != nil {
		t.Fatalf("ReplaceDayRules 应成功: %v", err)
	}
	if tx.calls != 1 {
		t.Errorf("替换规则应在一个事务内完成，实际 %d 次", tx.calls)
	}
	if rules := store.rules[1]; len(rules) != 1 || !rules[0].IsWorking {
		t.Errorf("未给出 is_working 的规则应存为工作日，实际=%+v", rules)
	}
}

func TestTemplateService_ReplaceDayRules_Forbidden(t *testing.T) {
	svc, store := setupTestTemplateService()
	store.addTemplate(1, "Global", nil)

	_, err := svc.ReplaceDayRules(context.Background(), northAdmin, 1, []dto.DayRuleInput{{Weekday: 1}})
	if !apperrors.IsAuthorization(err) {
		t.Errorf("站点管理员不能修改全局模板规则，实际: %v", err)
	}
}

func TestTemplateService_AuditFailurePropagates(t *testing.T) {
	svc, store := setupTestTemplateService()
	store.auditErr = errors.New("audit down")

	_, err := svc.Create(context.Background(), superAdmin, &dto.CreateTemplateRequest{Name: "X"})
	if err == nil || err.Error() != "audit down" {
		t.Errorf("审计失败应返回错误，实际: %v", err)
	}
}

func TestPrincipal_Capabilities(t *testing.T) {
	global := model.GlobalScope()
	north := model.SiteScope(1)
	south := model.SiteScope(2)

	if !superAdmin.CanEdit(global) || !superAdmin.CanEdit(south) {
		t.Error("超级管理员可编辑任意范围")
	}
	if northAdmin.CanEdit(global) || northAdmin.CanEdit(south) || !northAdmin.CanEdit(north) {
		t.Error("站点管理员仅可编辑本站点")
	}
	if !northAdmin.CanRead(global) || northAdmin.CanRead(south) {
		t.Error("站点管理员可读全局与本站点")
	}
	if siteless.CanEdit(global) || !siteless.CanRead(global) {
		t.Error("未绑定站点的管理员只读全局")
	}
}
