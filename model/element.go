package model

import "fmt"

// ElementKind 是表示代码实体类型的字符串常量
type ElementKind string

const (
	Class       ElementKind = "CLASS"       // 类/记录/枚举 (可作为异常类型的候选)
	Interface   ElementKind = "INTERFACE"   // 接口
	Method      ElementKind = "METHOD"      // 方法
	Constructor ElementKind = "CONSTRUCTOR" // 构造函数
)

// Location 描述了代码元素或诊断在源码中的位置
type Location struct {
	FilePath    string `json:"FilePath"`
	StartLine   int    `json:"StartLine"`
	EndLine     int    `json:"EndLine"`
	StartColumn int    `json:"StartColumn"`
	EndColumn   int    `json:"EndColumn"`
}

func (l *Location) String() string {
	if l == nil {
		return "-"
	}
	return fmt.Sprintf("%s:%d:%d", l.FilePath, l.StartLine, l.StartColumn+1)
}

// Before 按文件、行、列排序
func (l *Location) Before(o *Location) bool {
	if l == nil || o == nil {
		return l == nil && o != nil
	}
	if l.FilePath != o.FilePath {
		return l.FilePath < o.FilePath
	}
	if l.StartLine != o.StartLine {
		return l.StartLine < o.StartLine
	}
	return l.StartColumn < o.StartColumn
}

// CodeElement 描述了源码中的一个可识别实体（类、方法、构造函数）
type CodeElement struct {
	Kind          ElementKind `json:"Kind"`                    // Kind: 元素的类型
	Name          string      `json:"Name"`                    // Name: 元素的短名称 (e.g., "FirstException")
	QualifiedName string      `json:"QualifiedName"`           // QualifiedName: 完整限定名称 (e.g., "com.example.Outer.FirstException")
	Path          string      `json:"Path"`                    // Path: 元素所在的文件路径
	Location      *Location   `json:"Location,omitempty"`      // Location: 元素的位置
	Signature     string      `json:"Signature,omitempty"`     // Signature: 方法签名
}
