package java

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"

	"github.com/CodMac/go-treesitter-rethrow-analyzer/collector"
	"github.com/CodMac/go-treesitter-rethrow-analyzer/core"
	"github.com/CodMac/go-treesitter-rethrow-analyzer/exemption"
	"github.com/CodMac/go-treesitter-rethrow-analyzer/extractor"
	"github.com/CodMac/go-treesitter-rethrow-analyzer/model"
)

func init() {
	// 注册 Tree-sitter Java 语言对象
	model.RegisterLanguage(model.LangJava, sitter.NewLanguage(tree_sitter_java.Language()))
	// 注册 Collector
	collector.RegisterCollector(model.LangJava, NewJavaCollector())
	// 注册 Extractor
	extractor.RegisterExtractor(model.LangJava, NewJavaExtractor())
	// 注册非受检异常豁免
	exemption.RegisterFilter(model.LangJava, NewUncheckedFilter())
	// 注册 SymbolResolver(符号解析)
	core.RegisterSymbolResolver(model.LangJava, NewJavaSymbolResolver())
}
