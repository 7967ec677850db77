package java

import "github.com/CodMac/go-treesitter-rethrow-analyzer/model"

// UncheckedFilter 豁免 RuntimeException 与 Error 的子类型 (非受检异常)
type UncheckedFilter struct{}

func NewUncheckedFilter() *UncheckedFilter {
	return &UncheckedFilter{}
}

func (f *UncheckedFilter) IsExempt(h *model.Hierarchy, t *model.ExceptionType) bool {
	for _, name := range []string{model.RuntimeExceptionQN, model.ErrorQN} {
		if base, ok := h.Lookup(name); ok && h.IsSubtype(t, base) {
			return true
		}
	}
	return false
}
