package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-sql/civil"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"marcacion/backend/config"
	"marcacion/backend/internal/dto"
	"marcacion/backend/internal/model"
	"marcacion/backend/internal/repository"
	apperrors "marcacion/backend/pkg/errors"
)

// ── 排班分配模块业务错误 ──

var (
	ErrEmployeeNotFound        = errors.New("员工不存在")
	ErrEmployeeOutOfScope      = errors.New("无权管理其他站点的员工")
	ErrAssignmentRangeReversed = errors.New("生效截止日不能早于起始日")
)

// ScheduleAssignmentService 排班分配业务接口
//
// 分配只增不改；同一员工的分配区间允许重叠，写入时不做重叠检查。
type ScheduleAssignmentService interface {
	Assign(ctx context.Context, p Principal, req *dto.CreateAssignmentRequest) (*dto.AssignmentResponse, error)
	// ListEffective 与闭区间相交的分配，按起始日升序、ID 升序
	ListEffective(ctx context.Context, p Principal, employeeID int64, startISO, endISO string) ([]dto.AssignmentResponse, error)
	// ListByEmployee 员工全部分配历史，最新在前
	ListByEmployee(ctx context.Context, p Principal, employeeID int64) ([]dto.AssignmentResponse, error)
	// CheckEmployeeAccess 管理员是否可查看该员工的排班
	CheckEmployeeAccess(ctx context.Context, p Principal, employeeID int64) error
}

type scheduleAssignmentService struct {
	repo         *repository.Repository
	maxRangeDays int
	logger       *zap.Logger
}

// NewScheduleAssignmentService 创建 ScheduleAssignmentService 实例
func NewScheduleAssignmentService(cfg *config.ScheduleConfig, repo *repository.Repository, logger *zap.Logger) ScheduleAssignmentService {
	return &scheduleAssignmentService{repo: repo, maxRangeDays: cfg.MaxRangeDays, logger: logger}
}

// ────────────────────── Assign ──────────────────────

func (s *scheduleAssignmentService) Assign(ctx context.Context, p Principal, req *dto.CreateAssignmentRequest) (*dto.AssignmentResponse, error) {
	// 1. 日期校验先于任何查询
	from, err := ParseISODate(req.EffectiveFrom)
	if err != nil {
		return nil, err
	}
	var to *civil.Date
	if req.EffectiveTo != nil && strings.TrimSpace(*req.EffectiveTo) != "" {
		d, err := ParseISODate(*req.EffectiveTo)
		if err != nil {
			return nil, err
		}
		if d.Before(from) {
			return nil, apperrors.Validation(ErrAssignmentRangeReversed)
		}
		to = &d
	}

	// 2. 引用对象存在性与范围
	emp, err := s.loadEmployee(ctx, req.EmployeeID)
	if err != nil {
		return nil, err
	}
	tpl, err := s.repo.Template.GetByID(ctx, req.TemplateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound(ErrTemplateNotFound)
		}
		s.logger.Error("查询排班模板失败", zap.Int64("template_id", req.TemplateID), zap.Error(err))
		return nil, err
	}
	if err := checkEmployeeScope(p, emp); err != nil {
		return nil, err
	}
	if !p.CanRead(tpl.Scope()) {
		return nil, apperrors.Unauthorized(ErrTemplateScopeDenied)
	}

	// 3. 写入分配与审计
	a := &model.ScheduleAssignment{
		EmployeeID:    emp.EmployeeID,
		TemplateID:    tpl.TemplateID,
		EffectiveFrom: model.DateValue(from),
		CreatedBy:     &p.UserID,
	}
	if to != nil {
		v := model.DateValue(*to)
		a.EffectiveTo = &v
	}

	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.Assignment.Create(ctx, a); err != nil {
			return err
		}
		payload := map[string]any{
			"employee_id":    a.EmployeeID,
			"template_id":    a.TemplateID,
			"effective_from": from.String(),
		}
		if to != nil {
			payload["effective_to"] = to.String()
		}
		return writeAudit(ctx, txRepo, p.UserID, AuditActionAssignmentCreate, model.AuditEntityAssignment, a.AssignmentID, payload)
	})
	if err != nil {
		s.logger.Error("创建排班分配失败",
			zap.Int64("employee_id", emp.EmployeeID),
			zap.Int64("template_id", tpl.TemplateID),
			zap.Error(err),
		)
		return nil, err
	}

	a.Template = tpl
	return toAssignmentResponse(a), nil
}

// ────────────────────── ListEffective ──────────────────────

func (s *scheduleAssignmentService) ListEffective(ctx context.Context, p Principal, employeeID int64, startISO, endISO string) ([]dto.AssignmentResponse, error) {
	rng, err := ParseDateRange(startISO, endISO, s.maxRangeDays)
	if err != nil {
		return nil, err
	}
	if err := s.CheckEmployeeAccess(ctx, p, employeeID); err != nil {
		return nil, err
	}

	list, err := s.repo.Assignment.ListEffective(ctx, employeeID, rng.Start, rng.End)
	if err != nil {
		s.logger.Error("查询生效分配失败", zap.Int64("employee_id", employeeID), zap.Error(err))
		return nil, err
	}
	return toAssignmentResponses(list), nil
}

// ────────────────────── ListByEmployee ──────────────────────

func (s *scheduleAssignmentService) ListByEmployee(ctx context.Context, p Principal, employeeID int64) ([]dto.AssignmentResponse, error) {
	if err := s.CheckEmployeeAccess(ctx, p, employeeID); err != nil {
		return nil, err
	}

	list, err := s.repo.Assignment.ListByEmployee(ctx, employeeID)
	if err != nil {
		s.logger.Error("查询分配历史失败", zap.Int64("employee_id", employeeID), zap.Error(err))
		return nil, err
	}
	return toAssignmentResponses(list), nil
}

// ────────────────────── CheckEmployeeAccess ──────────────────────

func (s *scheduleAssignmentService) CheckEmployeeAccess(ctx context.Context, p Principal, employeeID int64) error {
	emp, err := s.loadEmployee(ctx, employeeID)
	if err != nil {
		return err
	}
	return checkEmployeeScope(p, emp)
}

// ── 内部辅助方法 ──

func (s *scheduleAssignmentService) loadEmployee(ctx context.Context, id int64) (*model.Employee, error) {
	emp, err := s.repo.Employee.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound(ErrEmployeeNotFound)
		}
		s.logger.Error("查询员工失败", zap.Int64("employee_id", id), zap.Error(err))
		return nil, err
	}
	return emp, nil
}

// checkEmployeeScope 站点管理员只能管理本站点员工
func checkEmployeeScope(p Principal, emp *model.Employee) error {
	if p.IsSuperAdmin {
		return nil
	}
	own, ok := p.OwnScope()
	if !ok {
		return apperrors.Unauthorized(ErrAdminSiteUnbound)
	}
	if !own.Equal(model.ScopeFromColumn(emp.SiteID)) {
		return apperrors.Unauthorized(ErrEmployeeOutOfScope)
	}
	return nil
}

func toAssignmentResponse(a *model.ScheduleAssignment) *dto.AssignmentResponse {
	resp := &dto.AssignmentResponse{
		ID:            a.AssignmentID,
		EmployeeID:    a.EmployeeID,
		TemplateID:    a.TemplateID,
		EffectiveFrom: a.From().String(),
		CreatedAt:     a.CreatedAt.Format(time.RFC3339),
	}
	if to, ok := a.To(); ok {
		s := to.String()
		resp.EffectiveTo = &s
	}
	if a.Template != nil {
		resp.TemplateName = a.Template.Name
	}
	return resp
}

func toAssignmentResponses(list []model.ScheduleAssignment) []dto.AssignmentResponse {
	result := make([]dto.AssignmentResponse, 0, len(list))
	for i := range list {
		result = append(result, *toAssignmentResponse(&list[i]))
	}
	return result
}
