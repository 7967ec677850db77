package model

// TryBlock 是 try 语句的受保护代码块。
// Thrown 由前端静态推导，按首次出现顺序去重。
type TryBlock struct {
	Thrown   []*ExceptionType
	Location *Location
}

// ParamUsage 记录 catch 参数在块内的使用情况
type ParamUsage struct {
	Reassigned bool // 块内是否出现过对参数的赋值
}

// CatchClause 是一个 catch 子句的事实。
type CatchClause struct {
	Types      []*ExceptionType // 备选类型，至少一个，按书写顺序
	Param      string           // 绑定的参数名
	Rethrows   bool             // 块内存在 "throw <Param>;"
	Reassigned bool             // 块内存在对 Param 的赋值
	Location   *Location

	// Sites 是块内每一处 "throw <Param>;"，为空时只按 TryStatement.Enclosing 判断
	Sites []RethrowSite
}

// RethrowSite 是 catch 块内的一处重抛
type RethrowSite struct {
	Location *Location
	Guards   []*TryStatement // 受保护块包含该语句的 try 语句，由内向外
}

// IsMultiCatch 对应 "catch (A | B e)"，此时参数隐式 final
func (c *CatchClause) IsMultiCatch() bool { return len(c.Types) > 1 }

func (c *CatchClause) Usage() ParamUsage { return ParamUsage{Reassigned: c.Reassigned} }

// TryStatement 由 try 块与其有序的 catch 子句组成
type TryStatement struct {
	Block    TryBlock
	Catches  []*CatchClause
	Location *Location

	// Enclosing 是受保护块包含本语句的外层 try 语句，由内向外。
	// 被外层 catch 捕获的重抛类型不需要在方法上声明。
	Enclosing []*TryStatement
}

// MethodSignature 是一次方法体分析产出的全部事实，构建后不再修改。
type MethodSignature struct {
	Name          string
	QualifiedName string
	Path          string
	Declared      []*ExceptionType // throws 子句
	Trys          []*TryStatement  // 方法体内所有 try 语句，按源码顺序
	Location      *Location
}
