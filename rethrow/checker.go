package rethrow

import (
	"fmt"

	"github.com/CodMac/go-treesitter-rethrow-analyzer/model"
)

// Options 控制 Check 的行为
type Options struct {
	// Exempt 返回 true 的类型无需在 throws 中声明 (Java 的非受检异常)。
	// 为 nil 时所有类型都需要声明。
	Exempt func(*model.ExceptionType) bool
}

// Check 校验方法的 throws 子句是否覆盖所有重抛路径的收窄类型。
// 只读，不修改 method；对同一输入多次调用得到相同的结果。
func Check(h *model.Hierarchy, method *model.MethodSignature, opts Options) (*model.Verdict, error) {
	v := &model.Verdict{
		Method:      method.QualifiedName,
		Path:        method.Path,
		Location:    method.Location,
		Diagnostics: make([]model.Diagnostic, 0),
	}

	var escaping []*model.ExceptionType
	origin := make(map[*model.ExceptionType]*model.Location)

	for _, ts := range method.Trys {
		for i, clause := range ts.Catches {
			b, err := ResolveClause(h, clause)
			if err != nil {
				return nil, fmt.Errorf("method %s: %w", method.QualifiedName, err)
			}
			if b.Immutable && clause.Reassigned {
				v.Diagnostics = append(v.Diagnostics, model.NewIllegalReassignment(method.QualifiedName, clause.Param, clause.Location))
			}
			if !clause.Rethrows {
				continue
			}

			narrowed, err := Narrow(h, ts.Block.Thrown, ts.Catches, i, clause.Usage())
			if err != nil {
				return nil, fmt.Errorf("method %s: %w", method.QualifiedName, err)
			}
			for _, t := range narrowed {
				if _, ok := origin[t]; ok || !escapes(h, t, ts, clause) {
					continue
				}
				origin[t] = clause.Location
				escaping = append(escaping, t)
			}
		}
	}

	for _, t := range escaping {
		if opts.Exempt != nil && opts.Exempt(t) {
			continue
		}
		if Covered(h, t, method.Declared) {
			continue
		}
		v.Diagnostics = append(v.Diagnostics, model.NewMissingThrows(method.QualifiedName, t, origin[t]))
	}
	return v, nil
}

// escapes 判断重抛的 t 是否会离开方法：任一重抛处的外层 try 都捕获不到即为逃逸
func escapes(h *model.Hierarchy, t *model.ExceptionType, ts *model.TryStatement, clause *model.CatchClause) bool {
	if len(clause.Sites) == 0 {
		return !caughtByAny(h, t, ts.Enclosing)
	}
	for _, site := range clause.Sites {
		if !caughtByAny(h, t, site.Guards) {
			return true
		}
	}
	return false
}

func caughtByAny(h *model.Hierarchy, t *model.ExceptionType, guards []*model.TryStatement) bool {
	for _, g := range guards {
		if Caught(h, t, g.Catches) {
			return true
		}
	}
	return false
}

// Covered 判断 t 是否为 declared 中某个类型的子类型
func Covered(h *model.Hierarchy, t *model.ExceptionType, declared []*model.ExceptionType) bool {
	for _, d := range declared {
		if h.IsSubtype(t, d) {
			return true
		}
	}
	return false
}
