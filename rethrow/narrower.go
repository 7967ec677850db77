package rethrow

import (
	"fmt"

	"github.com/CodMac/go-treesitter-rethrow-analyzer/model"
)

// Narrow 计算 clauses[target] 中 "throw <param>;" 实际可能抛出的类型集合。
//
// 结果为 thrown 中满足以下条件的类型 (保持 thrown 的顺序)：
//   - 与 clauses[target] 的某个备选类型互为子类型或父类型；
//   - 不是 clauses[0..target-1] 任一备选类型的子类型 (已被前面的子句处理)。
//
// 参数被重新赋值时不做收窄，结果退化为 {静态类型}。结果为空是合法的。
func Narrow(h *model.Hierarchy, thrown []*model.ExceptionType, clauses []*model.CatchClause, target int, usage model.ParamUsage) ([]*model.ExceptionType, error) {
	if target < 0 || target >= len(clauses) {
		return nil, fmt.Errorf("catch clause index %d out of range [0,%d)", target, len(clauses))
	}
	clause := clauses[target]
	if usage.Reassigned {
		b, err := Resolve(h, clause.Types)
		if err != nil {
			return nil, err
		}
		return []*model.ExceptionType{b.Static}, nil
	}
	if len(clause.Types) == 0 {
		return nil, ErrEmptyCatchSet
	}

	narrowed := make([]*model.ExceptionType, 0, len(thrown))
	seen := make(map[*model.ExceptionType]bool, len(thrown))
	for _, t := range thrown {
		if seen[t] {
			continue
		}
		if !relatedToAny(h, t, clause.Types) || handledBefore(h, t, clauses[:target]) {
			continue
		}
		seen[t] = true
		narrowed = append(narrowed, t)
	}
	return narrowed, nil
}

// Caught 判断 t 是否会被 clauses 中的某个子句捕获
func Caught(h *model.Hierarchy, t *model.ExceptionType, clauses []*model.CatchClause) bool {
	return handledBefore(h, t, clauses)
}

func relatedToAny(h *model.Hierarchy, t *model.ExceptionType, alts []*model.ExceptionType) bool {
	for _, alt := range alts {
		if h.Related(t, alt) {
			return true
		}
	}
	return false
}

func handledBefore(h *model.Hierarchy, t *model.ExceptionType, preceding []*model.CatchClause) bool {
	for _, c := range preceding {
		for _, alt := range c.Types {
			if h.IsSubtype(t, alt) {
				return true
			}
		}
	}
	return false
}
