package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"marcacion/backend/internal/dto"
	"marcacion/backend/internal/model"
	"marcacion/backend/internal/repository"
	apperrors "marcacion/backend/pkg/errors"
)

// ── 排班模板模块业务错误 ──

var (
	ErrTemplateNotFound     = errors.New("排班模板不存在")
	ErrTemplateNameBlank    = errors.New("模板名称不能为空")
	ErrTemplateNameTooLong  = errors.New("模板名称不能超过 100 个字符")
	ErrSiteNotFound         = errors.New("站点不存在")
	ErrTemplateInUse        = errors.New("模板已被排班分配引用，无法删除")
	ErrTemplateScopeDenied  = errors.New("无权操作该范围的排班模板")
	ErrAdminSiteUnbound     = errors.New("管理员未绑定站点")
	ErrScopeChangeForbidden = errors.New("站点管理员不能修改模板范围")
)

const templateNameMaxLen = 100

// ScheduleTemplateService 排班模板业务接口
type ScheduleTemplateService interface {
	List(ctx context.Context, p Principal) ([]dto.TemplateResponse, error)
	GetByID(ctx context.Context, p Principal, id int64) (*dto.TemplateResponse, error)
	Create(ctx context.Context, p Principal, req *dto.CreateTemplateRequest) (*dto.TemplateResponse, error)
	Update(ctx context.Context, p Principal, id int64, req *dto.UpdateTemplateRequest) (*dto.TemplateResponse, error)
	Delete(ctx context.Context, p Principal, id int64) error
	// ReplaceDayRules 整体替换模板的星期规则；校验失败时原规则不变
	ReplaceDayRules(ctx context.Context, p Principal, id int64, rules []dto.DayRuleInput) (*dto.TemplateResponse, error)
}

type scheduleTemplateService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewScheduleTemplateService 创建 ScheduleTemplateService 实例
func NewScheduleTemplateService(repo *repository.Repository, logger *zap.Logger) ScheduleTemplateService {
	return &scheduleTemplateService{repo: repo, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *scheduleTemplateService) List(ctx context.Context, p Principal) ([]dto.TemplateResponse, error) {
	var filter *int64
	if !p.IsSuperAdmin {
		// 未绑定站点时 id=0，只会匹配到全局模板
		own, _ := p.OwnScope()
		id, _ := own.SiteID()
		filter = &id
	}

	tpls, err := s.repo.Template.List(ctx, filter)
	if err != nil {
		s.logger.Error("列出排班模板失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.TemplateResponse, 0, len(tpls))
	for i := range tpls {
		result = append(result, *toTemplateResponse(&tpls[i]))
	}
	return result, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *scheduleTemplateService) GetByID(ctx context.Context, p Principal, id int64) (*dto.TemplateResponse, error) {
	tpl, err := s.loadTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.CanRead(tpl.Scope()) {
		return nil, apperrors.Unauthorized(ErrTemplateScopeDenied)
	}
	return toTemplateResponse(tpl), nil
}

// ────────────────────── Create ──────────────────────

func (s *scheduleTemplateService) Create(ctx context.Context, p Principal, req *dto.CreateTemplateRequest) (*dto.TemplateResponse, error) {
	name, err := normalizeTemplateName(req.Name)
	if err != nil {
		return nil, err
	}

	scope, err := s.createScope(ctx, p, req.SiteID)
	if err != nil {
		return nil, err
	}

	tpl := &model.ScheduleTemplate{
		Name:     name,
		IsActive: req.IsActive == nil || *req.IsActive,
	}
	tpl.SetScope(scope)
	tpl.Stamp(p.UserID, true)

	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.Template.Create(ctx, tpl); err != nil {
			return err
		}
		return writeAudit(ctx, txRepo, p.UserID, AuditActionTemplateCreate, model.AuditEntityTemplate, tpl.TemplateID, map[string]any{
			"name":      tpl.Name,
			"is_active": tpl.IsActive,
			"site_id":   tpl.SiteID,
		})
	})
	if err != nil {
		s.logger.Error("创建排班模板失败", zap.String("name", name), zap.Error(err))
		return nil, err
	}

	s.logger.Info("排班模板已创建",
		zap.Int64("template_id", tpl.TemplateID),
		zap.String("scope", scope.String()),
		zap.Int64("actor_id", p.UserID),
	)
	return s.reload(ctx, tpl.TemplateID)
}

// ────────────────────── Update ──────────────────────

func (s *scheduleTemplateService) Update(ctx context.Context, p Principal, id int64, req *dto.UpdateTemplateRequest) (*dto.TemplateResponse, error) {
	tpl, err := s.loadTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.CanEdit(tpl.Scope()) {
		return nil, apperrors.Unauthorized(ErrTemplateScopeDenied)
	}

	name, err := normalizeTemplateName(req.Name)
	if err != nil {
		return nil, err
	}

	scope, err := s.updateScope(ctx, p, tpl.Scope(), req.SiteID)
	if err != nil {
		return nil, err
	}

	tpl.Name = name
	if req.IsActive != nil {
		tpl.IsActive = *req.IsActive
	}
	tpl.SetScope(scope)
	tpl.Stamp(p.UserID, false)

	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.Template.Update(ctx, tpl); err != nil {
			return err
		}
		return writeAudit(ctx, txRepo, p.UserID, AuditActionTemplateUpdate, model.AuditEntityTemplate, tpl.TemplateID, map[string]any{
			"name":      tpl.Name,
			"is_active": tpl.IsActive,
			"site_id":   tpl.SiteID,
		})
	})
	if err != nil {
		s.logger.Error("更新排班模板失败", zap.Int64("template_id", id), zap.Error(err))
		return nil, err
	}

	return s.reload(ctx, id)
}

// ────────────────────── Delete ──────────────────────

func (s *scheduleTemplateService) Delete(ctx context.Context, p Principal, id int64) error {
	tpl, err := s.loadTemplate(ctx, id)
	if err != nil {
		return err
	}
	if !p.CanEdit(tpl.Scope()) {
		return apperrors.Unauthorized(ErrTemplateScopeDenied)
	}

	inUse, err := s.repo.Assignment.ExistsByTemplate(ctx, id)
	if err != nil {
		s.logger.Error("检查模板引用失败", zap.Int64("template_id", id), zap.Error(err))
		return err
	}
	if inUse {
		return apperrors.Conflict(ErrTemplateInUse)
	}

	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.Template.Delete(ctx, id); err != nil {
			return err
		}
		return writeAudit(ctx, txRepo, p.UserID, AuditActionTemplateDelete, model.AuditEntityTemplate, id, map[string]any{
			"name":    tpl.Name,
			"site_id": tpl.SiteID,
		})
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		// 检查之后、删除之前有新分配写入
		return apperrors.Conflict(ErrTemplateInUse)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.NotFound(ErrTemplateNotFound)
	default:
		s.logger.Error("删除排班模板失败", zap.Int64("template_id", id), zap.Error(err))
		return err
	}
}

// ────────────────────── ReplaceDayRules ──────────────────────

func (s *scheduleTemplateService) ReplaceDayRules(ctx context.Context, p Principal, id int64, inputs []dto.DayRuleInput) (*dto.TemplateResponse, error) {
	tpl, err := s.loadTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.CanEdit(tpl.Scope()) {
		return nil, apperrors.Unauthorized(ErrTemplateScopeDenied)
	}

	rules, err := ValidateDayRules(inputs)
	if err != nil {
		return nil, err
	}

	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.DayRule.ReplaceForTemplate(ctx, id, rules); err != nil {
			return err
		}
		return writeAudit(ctx, txRepo, p.UserID, AuditActionTemplateUpdateDays, model.AuditEntityTemplate, id, inputs)
	})
	if err != nil {
		s.logger.Error("替换星期规则失败", zap.Int64("template_id", id), zap.Int("rules", len(rules)), zap.Error(err))
		return nil, err
	}

	return s.reload(ctx, id)
}

// ── 内部辅助方法 ──

func (s *scheduleTemplateService) loadTemplate(ctx context.Context, id int64) (*model.ScheduleTemplate, error) {
	tpl, err := s.repo.Template.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound(ErrTemplateNotFound)
		}
		s.logger.Error("查询排班模板失败", zap.Int64("template_id", id), zap.Error(err))
		return nil, err
	}
	return tpl, nil
}

func (s *scheduleTemplateService) reload(ctx context.Context, id int64) (*dto.TemplateResponse, error) {
	tpl, err := s.loadTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	return toTemplateResponse(tpl), nil
}

// createScope 决定新模板的范围：站点管理员固定为本站点，超级管理员按请求（空或 0 为全局）
func (s *scheduleTemplateService) createScope(ctx context.Context, p Principal, siteID *int64) (model.Scope, error) {
	if !p.IsSuperAdmin {
		own, ok := p.OwnScope()
		if !ok {
			return model.Scope{}, apperrors.Unauthorized(ErrAdminSiteUnbound)
		}
		if siteID != nil && !model.SiteScope(*siteID).Equal(own) {
			return model.Scope{}, apperrors.Unauthorized(ErrTemplateScopeDenied)
		}
		return own, nil
	}
	return s.requestedScope(ctx, siteID)
}

// updateScope 站点管理员不能改范围（不传视为保持），超级管理员按请求设置
func (s *scheduleTemplateService) updateScope(ctx context.Context, p Principal, current model.Scope, siteID *int64) (model.Scope, error) {
	if !p.IsSuperAdmin {
		if siteID != nil && !model.SiteScope(*siteID).Equal(current) {
			return model.Scope{}, apperrors.Unauthorized(ErrScopeChangeForbidden)
		}
		return current, nil
	}
	return s.requestedScope(ctx, siteID)
}

func (s *scheduleTemplateService) requestedScope(ctx context.Context, siteID *int64) (model.Scope, error) {
	scope := model.ScopeFromColumn(siteID)
	id, ok := scope.SiteID()
	if !ok {
		return scope, nil
	}
	exists, err := s.repo.Site.Exists(ctx, id)
	if err != nil {
		s.logger.Error("查询站点失败", zap.Int64("site_id", id), zap.Error(err))
		return model.Scope{}, err
	}
	if !exists {
		return model.Scope{}, apperrors.Validation(ErrSiteNotFound)
	}
	return scope, nil
}

func normalizeTemplateName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", apperrors.Validation(ErrTemplateNameBlank)
	}
	if utf8.RuneCountInString(name) > templateNameMaxLen {
		return "", apperrors.Validation(ErrTemplateNameTooLong)
	}
	return name, nil
}

func toTemplateResponse(tpl *model.ScheduleTemplate) *dto.TemplateResponse {
	resp := &dto.TemplateResponse{
		ID:        tpl.TemplateID,
		Name:      tpl.Name,
		IsActive:  tpl.IsActive,
		IsGlobal:  tpl.Scope().IsGlobal(),
		SiteID:    tpl.SiteID,
		SiteName:  tpl.SiteName(),
		CreatedAt: tpl.CreatedAt.Format(time.RFC3339),
		UpdatedAt: tpl.UpdatedAt.Format(time.RFC3339),
	}
	for i := range tpl.DayRules {
		r := &tpl.DayRules[i]
		resp.DayRules = append(resp.DayRules, dto.DayRuleResponse{
			Weekday:          r.Weekday,
			IsWorking:        r.IsWorking,
			EntryTime:        optionalClock(r.EntryTime),
			ExitTime:         optionalClock(r.ExitTime),
			ToleranceMinutes: r.ToleranceMinutes,
			RoundingMinutes:  r.RoundingMinutes,
			BreakMinutes:     r.BreakMinutes,
		})
	}
	return resp
}

// formatClock 以 HH:MM:SS 输出时刻（忽略秒以下部分）
func formatClock(t datatypes.Time) string {
	d := time.Duration(t)
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	sec := int(d % time.Minute / time.Second)
	return time.Date(0, 1, 1, h, m, sec, 0, time.UTC).Format("15:04:05")
}

func optionalClock(t *datatypes.Time) *string {
	if t == nil {
		return nil
	}
	s := formatClock(*t)
	return &s
}
