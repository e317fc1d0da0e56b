package service

import (
	"context"
	"encoding/json"

	"gorm.io/datatypes"

	"marcacion/backend/internal/model"
	"marcacion/backend/internal/repository"
)

// 审计动作
const (
	AuditActionTemplateCreate     = "schedule_template.create"
	AuditActionTemplateUpdate     = "schedule_template.update"
	AuditActionTemplateUpdateDays = "schedule_template.update.days"
	AuditActionTemplateDelete     = "schedule_template.delete"
	AuditActionAssignmentCreate   = "schedule_assignment.create"
)

// writeAudit 追加一条审计记录；应在与业务变更相同的事务仓储上调用，
// 审计写入失败会使整个变更回滚
func writeAudit(ctx context.Context, repo *repository.Repository, actorID int64, action, entityType string, entityID int64, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return repo.AuditLog.Create(ctx, &model.AuditLog{
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Payload:    datatypes.JSON(raw),
	})
}
