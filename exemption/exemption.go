package exemption

import (
	"sync"

	"github.com/CodMac/go-treesitter-rethrow-analyzer/model"
)

// Filter 判定哪些异常类型无需出现在 throws 子句中 (例如 Java 的非受检异常)
type Filter interface {
	IsExempt(h *model.Hierarchy, t *model.ExceptionType) bool
}

var (
	filterMap = make(map[model.Language]Filter)
	filterMu  sync.RWMutex
)

// RegisterFilter 注册一个语言与其对应的 Filter
func RegisterFilter(lang model.Language, filter Filter) {
	filterMu.Lock()
	defer filterMu.Unlock()
	filterMap[lang] = filter
}

// GetFilter 根据语言类型获取对应的 Filter 实例。
func GetFilter(lang model.Language) Filter {
	filterMu.RLock()
	defer filterMu.RUnlock()

	filter, ok := filterMap[lang]
	if !ok {
		// 未注册时不豁免任何类型
		return &DefaultFilter{}
	}

	return filter
}

// DefaultFilter 默认过滤器：所有类型都需要声明
type DefaultFilter struct{}

func (d *DefaultFilter) IsExempt(*model.Hierarchy, *model.ExceptionType) bool { return false }
