package java

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/CodMac/go-treesitter-rethrow-analyzer/model"
)

func getNodeContent(n *sitter.Node, sourceBytes []byte) string {
	if n == nil {
		return ""
	}
	return n.Utf8Text(sourceBytes)
}

func nodeToLocation(n *sitter.Node, filePath string) *model.Location {
	if n == nil {
		return nil
	}
	return &model.Location{
		FilePath:    filePath,
		StartLine:   int(n.StartPosition().Row) + 1,
		EndLine:     int(n.EndPosition().Row) + 1,
		StartColumn: int(n.StartPosition().Column),
		EndColumn:   int(n.EndPosition().Column),
	}
}

// throwsNames 返回方法/构造函数 throws 子句中的类型名
func throwsNames(node *sitter.Node, sourceBytes []byte) []string {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(uint(i))
		if child.Kind() == kindThrows {
			return typeNames(child, sourceBytes)
		}
	}
	return nil
}

// typeNames 收集节点下所有类型引用的文本，遇到类型节点即停止下探
func typeNames(n *sitter.Node, sourceBytes []byte) []string {
	var results []string
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		switch n.Kind() {
		case kindTypeIdentifier, kindScopedTypeID, kindGenericType:
			results = append(results, getNodeContent(n, sourceBytes))
			return
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(uint(i)))
		}
	}
	walk(n)
	return results
}

// isScopeBoundary 不向 lambda、匿名类与局部类型声明内部传播异常
func isScopeBoundary(n *sitter.Node) bool {
	switch n.Kind() {
	case kindLambda, kindClassBody, kindClassDecl, kindRecordDecl, kindEnumDecl, kindInterfaceDecl:
		return true
	}
	return false
}
