// Package rethrow 实现 Java SE 7 multi-catch 与精确重抛 (precise rethrow) 的判定规则。
//
// 三个组件都是纯函数：Resolve 计算 catch 参数的静态类型，Narrow 计算重抛路径
// 可声明的精确类型集合，Check 校验方法的 throws 子句。
package rethrow

import (
	"errors"

	"github.com/CodMac/go-treesitter-rethrow-analyzer/model"
)

var ErrEmptyCatchSet = errors.New("catch clause lists no exception types")

// Binding 是 catch 参数的绑定结果
type Binding struct {
	Param     string
	Static    *model.ExceptionType // 备选类型的最近公共父类型
	Immutable bool                 // multi-catch 参数隐式 final
}

// Resolve 计算一组 catch 类型的静态类型
func Resolve(h *model.Hierarchy, types []*model.ExceptionType) (Binding, error) {
	if len(types) == 0 {
		return Binding{}, ErrEmptyCatchSet
	}
	return Binding{
		Static:    h.CommonSupertype(types...),
		Immutable: len(types) > 1,
	}, nil
}

// ResolveClause 同 Resolve，并带上参数名
func ResolveClause(h *model.Hierarchy, c *model.CatchClause) (Binding, error) {
	b, err := Resolve(h, c.Types)
	if err != nil {
		return b, err
	}
	b.Param = c.Param
	return b, nil
}
