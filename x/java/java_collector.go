package java

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/CodMac/go-treesitter-rethrow-analyzer/core"
	"github.com/CodMac/go-treesitter-rethrow-analyzer/model"
)

type Collector struct{}

var javaResolver = NewJavaSymbolResolver()

func NewJavaCollector() *Collector {
	return &Collector{}
}

func (c *Collector) CollectDefinitions(rootNode *sitter.Node, filePath string, sourceBytes *[]byte) (*core.FileContext, error) {
	fCtx := core.NewFileContext(filePath, rootNode, sourceBytes)

	// 1. 处理顶级声明 (Package & Imports)
	c.processTopLevelDeclarations(fCtx)

	// 2. 递归收集类、方法定义以及异常类型引用
	c.collectDefinitionsRecursive(fCtx.RootNode, fCtx, fCtx.PackageName)

	return fCtx, nil
}

func (c *Collector) processTopLevelDeclarations(fCtx *core.FileContext) {
	for i := 0; i < int(fCtx.RootNode.ChildCount()); i++ {
		child := fCtx.RootNode.Child(uint(i))
		if child == nil {
			continue
		}

		switch child.Kind() {
		case kindPackageDecl:
			for j := 0; j < int(child.ChildCount()); j++ {
				sub := child.Child(uint(j))
				if sub.Kind() == "scoped_identifier" || sub.Kind() == kindIdentifier {
					fCtx.PackageName = getNodeContent(sub, *fCtx.SourceBytes)
					break
				}
			}
		case kindImportDecl:
			c.handleImport(child, fCtx)
		}
	}
}

func (c *Collector) handleImport(node *sitter.Node, fCtx *core.FileContext) {
	isStatic := false
	var pathParts []string

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		kind := child.Kind()

		if kind == "static" {
			isStatic = true
			continue
		}

		if kind == "scoped_identifier" || kind == kindIdentifier || kind == "asterisk" {
			pathParts = append(pathParts, getNodeContent(child, *fCtx.SourceBytes))
		}
	}

	if len(pathParts) == 0 || isStatic {
		return
	}

	fullPath := strings.Join(pathParts, ".")
	isWildcard := pathParts[len(pathParts)-1] == "*"

	entry := &core.ImportEntry{
		RawImportPath: fullPath,
		IsWildcard:    isWildcard,
		Location:      nodeToLocation(node, fCtx.FilePath),
	}

	alias := "*"
	entry.Kind = model.Class
	if !isWildcard {
		parts := strings.Split(fullPath, ".")
		alias = parts[len(parts)-1]
	}
	entry.Alias = alias
	fCtx.AddImport(alias, entry)
}

func (c *Collector) collectDefinitionsRecursive(node *sitter.Node, fCtx *core.FileContext, currentQNPrefix string) {
	if node.IsNamed() {
		if entry := c.getDefinitionEntry(node, fCtx, currentQNPrefix); entry != nil {
			fCtx.AddDefinition(entry)
			// 只有类型声明需要作为后续子节点的 QN 前缀
			if entry.Element.Kind == model.Class || entry.Element.Kind == model.Interface {
				currentQNPrefix = entry.Element.QualifiedName
			}
		}
		c.collectExceptionRefs(node, fCtx)
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		c.collectDefinitionsRecursive(node.NamedChild(uint(i)), fCtx, currentQNPrefix)
	}
}

func (c *Collector) getDefinitionEntry(node *sitter.Node, fCtx *core.FileContext, parentQN string) *core.DefinitionEntry {
	var kind model.ElementKind
	switch node.Kind() {
	case kindClassDecl, kindRecordDecl, kindEnumDecl:
		kind = model.Class
	case kindInterfaceDecl, kindAnnotationTypeDecl:
		kind = model.Interface
	case kindMethodDecl:
		kind = model.Method
	case kindConstructorDecl:
		kind = model.Constructor
	default:
		return nil
	}

	name := getNodeContent(node.ChildByFieldName("name"), *fCtx.SourceBytes)
	if name == "" {
		return nil
	}

	entry := &core.DefinitionEntry{
		Element: &model.CodeElement{
			Kind:          kind,
			Name:          name,
			QualifiedName: javaResolver.BuildQualifiedName(parentQN, name),
			Path:          fCtx.FilePath,
			Location:      nodeToLocation(node, fCtx.FilePath),
		},
		ParentQN: parentQN,
		Node:     node,
	}

	switch kind {
	case model.Class:
		if scNode := node.ChildByFieldName("superclass"); scNode != nil {
			entry.SuperName = getNodeContent(scNode.NamedChild(0), *fCtx.SourceBytes)
		}
	case model.Method, model.Constructor:
		entry.Throws = throwsNames(node, *fCtx.SourceBytes)
		entry.Element.Signature = methodSignature(node, *fCtx.SourceBytes)
	}
	return entry
}

// collectExceptionRefs 记录 catch 类型与 throw new 的类型名，供构建层级时补全外部类型
func (c *Collector) collectExceptionRefs(node *sitter.Node, fCtx *core.FileContext) {
	switch node.Kind() {
	case kindCatchType, kindThrows:
		for _, name := range typeNames(node, *fCtx.SourceBytes) {
			fCtx.AddExceptionRef(name)
		}
	case kindThrowStmt:
		if expr := node.NamedChild(0); expr != nil && expr.Kind() == kindObjectCreation {
			if t := expr.ChildByFieldName("type"); t != nil {
				fCtx.AddExceptionRef(getNodeContent(t, *fCtx.SourceBytes))
			}
		}
	}
}

func methodSignature(node *sitter.Node, sourceBytes []byte) string {
	var sb strings.Builder
	if tNode := node.ChildByFieldName("type"); tNode != nil {
		sb.WriteString(getNodeContent(tNode, sourceBytes) + " ")
	}
	sb.WriteString(getNodeContent(node.ChildByFieldName("name"), sourceBytes))
	if pNode := node.ChildByFieldName("parameters"); pNode != nil {
		sb.WriteString(getNodeContent(pNode, sourceBytes))
	}
	if throws := throwsNames(node, sourceBytes); len(throws) > 0 {
		sb.WriteString(" throws " + strings.Join(throws, ", "))
	}
	return sb.String()
}
