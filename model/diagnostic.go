package model

import "fmt"

// DiagnosticKind 是诊断的类型
type DiagnosticKind string

const (
	// MissingThrowsDeclaration: 重新抛出的类型未被方法的 throws 子句覆盖
	MissingThrowsDeclaration DiagnosticKind = "MISSING_THROWS_DECLARATION"
	// IllegalReassignment: multi-catch 参数被重新赋值
	IllegalReassignment DiagnosticKind = "ILLEGAL_REASSIGNMENT"
)

// Diagnostic 是分析的输出单元，描述方法中的一个问题
type Diagnostic struct {
	Kind     DiagnosticKind `json:"Kind"`
	Method   string         `json:"Method"`          // 所在方法的 QN
	Type     string         `json:"Type,omitempty"`  // 缺失声明的异常类型 QN
	Param    string         `json:"Param,omitempty"` // 被赋值的 catch 参数
	Location *Location      `json:"Location,omitempty"`
	Message  string         `json:"Message"`
}

func NewMissingThrows(method string, t *ExceptionType, loc *Location) Diagnostic {
	return Diagnostic{
		Kind:     MissingThrowsDeclaration,
		Method:   method,
		Type:     t.Name,
		Location: loc,
		Message:  fmt.Sprintf("unreported exception %s; must be caught or declared to be thrown", t.SimpleName),
	}
}

func NewIllegalReassignment(method, param string, loc *Location) Diagnostic {
	return Diagnostic{
		Kind:     IllegalReassignment,
		Method:   method,
		Param:    param,
		Location: loc,
		Message:  fmt.Sprintf("multi-catch parameter %s may not be assigned", param),
	}
}

// Verdict 是单个方法的检查结论
type Verdict struct {
	Method      string       `json:"Method"`
	Path        string       `json:"Path"`
	Location    *Location    `json:"Location,omitempty"`
	Diagnostics []Diagnostic `json:"Diagnostics"`
}

// Passed 没有任何诊断即为通过
func (v *Verdict) Passed() bool { return len(v.Diagnostics) == 0 }
