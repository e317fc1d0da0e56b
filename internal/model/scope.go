package model

import "fmt"

// Scope 模板可见范围：全局（Global）或绑定到某个站点（Site）。
//
// 存储层用可空的 site_id 表示，NULL 即全局；业务代码一律通过 Scope 判断，
// 避免在各处散落 "nil 表示全局" 的约定。零值为全局。
type Scope struct {
	siteID int64 // 0 表示全局
}

// GlobalScope 全局范围
func GlobalScope() Scope { return Scope{} }

// SiteScope 站点范围；id <= 0 视为全局
func SiteScope(id int64) Scope {
	if id <= 0 {
		return Scope{}
	}
	return Scope{siteID: id}
}

// ScopeFromColumn 由可空外键构造
func ScopeFromColumn(siteID *int64) Scope {
	if siteID == nil {
		return Scope{}
	}
	return SiteScope(*siteID)
}

// IsGlobal 是否全局
func (s Scope) IsGlobal() bool { return s.siteID == 0 }

// SiteID 返回站点 ID；全局范围返回 false
func (s Scope) SiteID() (int64, bool) {
	return s.siteID, s.siteID != 0
}

// Column 转换为可空外键，用于写入 site_id
func (s Scope) Column() *int64 {
	if s.siteID == 0 {
		return nil
	}
	id := s.siteID
	return &id
}

// Equal 比较两个范围
func (s Scope) Equal(other Scope) bool { return s.siteID == other.siteID }

func (s Scope) String() string {
	if s.IsGlobal() {
		return "global"
	}
	return fmt.Sprintf("site:%d", s.siteID)
}
