package java

import (
	"strings"

	"github.com/CodMac/go-treesitter-rethrow-analyzer/core"
	"github.com/CodMac/go-treesitter-rethrow-analyzer/model"
)

type SymbolResolver struct{}

func NewJavaSymbolResolver() *SymbolResolver {
	return &SymbolResolver{}
}

func (j *SymbolResolver) BuildQualifiedName(parentQN, name string) string {
	if parentQN == "" || parentQN == "." {
		return name
	}
	return parentQN + "." + name
}

func (j *SymbolResolver) Resolve(gc *core.GlobalContext, fc *core.FileContext, symbol string) string {
	symbol = normalizeTypeName(symbol)
	if symbol == "" {
		return ""
	}

	// 限定名：已知则直接使用，否则解析首段后拼接 (Outer.Inner)
	if i := strings.Index(symbol, "."); i > 0 {
		if gc.HasQN(symbol) || model.IsBuiltin(symbol) {
			return symbol
		}
		head := j.Resolve(gc, fc, symbol[:i])
		if head != symbol[:i] {
			return head + symbol[i:]
		}
		return symbol
	}

	if fc != nil {
		// 1. 局部定义
		for _, def := range fc.DefinitionsBySN[symbol] {
			if def.Element.Kind == model.Class || def.Element.Kind == model.Interface {
				return def.Element.QualifiedName
			}
		}

		// 2. 精确导入
		if imps := fc.Imports[symbol]; len(imps) > 0 {
			return imps[0].RawImportPath
		}

		// 3. 同包前缀
		if fc.PackageName != "" {
			if pkgQN := j.BuildQualifiedName(fc.PackageName, symbol); gc.HasQN(pkgQN) {
				return pkgQN
			}
		}

		// 4. 通配符导入
		for _, imp := range fc.Imports["*"] {
			basePath := strings.TrimSuffix(imp.RawImportPath, "*")
			if candidate := basePath + symbol; gc.HasQN(candidate) || model.IsBuiltin(candidate) {
				return candidate
			}
		}
	}

	// 5. 全局同名定义 (默认包)
	if gc.HasQN(symbol) {
		return symbol
	}

	// 6. java.lang 隐式导入，以及预置的 JDK 类型
	if model.IsBuiltin("java.lang." + symbol) {
		return "java.lang." + symbol
	}
	if qn, ok := model.BuiltinBySimpleName(symbol); ok {
		return qn
	}

	return symbol
}

// normalizeTypeName 去掉泛型参数、注解与空白
func normalizeTypeName(name string) string {
	if i := strings.Index(name, "<"); i >= 0 {
		name = name[:i]
	}
	fields := strings.Fields(name)
	kept := fields[:0]
	for _, f := range fields {
		if !strings.HasPrefix(f, "@") {
			kept = append(kept, f)
		}
	}
	return strings.Join(kept, "")
}
