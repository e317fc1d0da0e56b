package service

import "marcacion/backend/internal/model"

// Principal 调用方能力描述，由认证层从 Token 中构造后传入每个业务操作。
// 业务层只依赖这两个事实，不关心认证机制本身。
type Principal struct {
	UserID       int64
	IsSuperAdmin bool
	SiteID       *int64 // 管理员所属站点；超级管理员可为空
}

// OwnScope 调用方所属站点范围；未绑定站点时返回 false
func (p Principal) OwnScope() (model.Scope, bool) {
	if p.SiteID == nil || *p.SiteID <= 0 {
		return model.GlobalScope(), false
	}
	return model.SiteScope(*p.SiteID), true
}

// CanEdit 是否可修改指定范围的模板：超级管理员任意范围，站点管理员仅本站点（全局除外）
func (p Principal) CanEdit(s model.Scope) bool {
	if p.IsSuperAdmin {
		return true
	}
	own, ok := p.OwnScope()
	return ok && own.Equal(s)
}

// CanRead 是否可查看指定范围的模板：全局模板对所有管理员可见
func (p Principal) CanRead(s model.Scope) bool {
	return s.IsGlobal() || p.CanEdit(s)
}
