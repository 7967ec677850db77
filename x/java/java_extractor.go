package java

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/CodMac/go-treesitter-rethrow-analyzer/core"
	"github.com/CodMac/go-treesitter-rethrow-analyzer/model"
	"github.com/CodMac/go-treesitter-rethrow-analyzer/rethrow"
)

// Extractor 实现了 extractor.Extractor 接口
type Extractor struct{}

func NewJavaExtractor() *Extractor {
	return &Extractor{}
}

// Extract 遍历类型声明，为每个方法与构造函数生成 MethodSignature
func (e *Extractor) Extract(rootNode *sitter.Node, filePath string, gc *core.GlobalContext, h *model.Hierarchy) ([]*model.MethodSignature, error) {
	fc, ok := gc.FileContext(filePath)
	if !ok {
		return nil, fmt.Errorf("failed to get FileContext: %s", filePath)
	}

	var methods []*model.MethodSignature
	e.walkDeclarations(rootNode, fc, gc, h, fc.PackageName, &methods)
	return methods, nil
}

func (e *Extractor) walkDeclarations(node *sitter.Node, fc *core.FileContext, gc *core.GlobalContext, h *model.Hierarchy, classQN string, methods *[]*model.MethodSignature) {
	src := *fc.SourceBytes

	switch node.Kind() {
	case kindClassDecl, kindRecordDecl, kindEnumDecl, kindInterfaceDecl:
		if name := getNodeContent(node.ChildByFieldName("name"), src); name != "" {
			classQN = javaResolver.BuildQualifiedName(classQN, name)
		}
	case kindMethodDecl, kindConstructorDecl:
		w := newMethodWalker(fc, gc, h, classQN)
		*methods = append(*methods, w.analyze(node))
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		e.walkDeclarations(node.NamedChild(uint(i)), fc, gc, h, classQN, methods)
	}
}

// methodWalker 推导单个方法体内每个 try 块可能抛出的异常类型
type methodWalker struct {
	fc      *core.FileContext
	gc      *core.GlobalContext
	h       *model.Hierarchy
	src     []byte
	classQN string

	// 变量名 -> 该变量作为 throw 操作数时代表的异常类型集合；
	// 非异常类型的变量映射为 nil，用于遮蔽外层同名绑定
	vars map[string][]*model.ExceptionType
	trys []*model.TryStatement

	// guards 是当前所在受保护块对应的 try 语句栈
	guards []*model.TryStatement
	// params 是当前可见的 catch 参数及其所属子句
	params map[string]*model.CatchClause
}

func newMethodWalker(fc *core.FileContext, gc *core.GlobalContext, h *model.Hierarchy, classQN string) *methodWalker {
	return &methodWalker{
		fc:      fc,
		gc:      gc,
		h:       h,
		src:     *fc.SourceBytes,
		classQN: classQN,
		vars:    make(map[string][]*model.ExceptionType),
		params:  make(map[string]*model.CatchClause),
	}
}

func (w *methodWalker) analyze(node *sitter.Node) *model.MethodSignature {
	name := getNodeContent(node.ChildByFieldName("name"), w.src)
	m := &model.MethodSignature{
		Name:          name,
		QualifiedName: javaResolver.BuildQualifiedName(w.classQN, name),
		Path:          w.fc.FilePath,
		Location:      nodeToLocation(node, w.fc.FilePath),
	}
	for _, tn := range throwsNames(node, w.src) {
		if t := w.resolveType(tn); t != nil {
			m.Declared = append(m.Declared, t)
		}
	}

	if params := node.ChildByFieldName("parameters"); params != nil {
		for i := 0; i < int(params.NamedChildCount()); i++ {
			p := params.NamedChild(uint(i))
			if p.Kind() == kindFormalParameter {
				w.declare(getNodeContent(p.ChildByFieldName("name"), w.src), p.ChildByFieldName("type"))
			}
		}
	}

	w.thrown(node.ChildByFieldName("body"))
	m.Trys = w.trys
	return m
}

// thrown 返回节点执行时可能抛出的异常类型 (按首次出现顺序去重)，
// 并顺带记录遇到的 try 语句
func (w *methodWalker) thrown(n *sitter.Node) []*model.ExceptionType {
	if n == nil || isScopeBoundary(n) {
		return nil
	}

	switch n.Kind() {
	case kindTry, kindTryWithResources:
		return w.tryStatement(n)
	case kindThrowStmt:
		expr := n.NamedChild(0)
		w.recordRethrow(n, expr)
		return union(w.thrown(expr), w.throwOperand(expr))
	case kindMethodInvocation:
		return union(w.invocationThrows(n), w.children(n))
	case kindObjectCreation:
		return union(w.constructorThrows(n), w.children(n))
	case kindLocalVarDecl:
		typeNode := n.ChildByFieldName("type")
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if d := n.NamedChild(uint(i)); d.Kind() == kindVariableDeclarator {
				w.declare(getNodeContent(d.ChildByFieldName("name"), w.src), typeNode)
			}
		}
		return w.children(n)
	default:
		return w.children(n)
	}
}

func (w *methodWalker) children(n *sitter.Node) []*model.ExceptionType {
	var out []*model.ExceptionType
	for i := 0; i < int(n.NamedChildCount()); i++ {
		out = union(out, w.thrown(n.NamedChild(uint(i))))
	}
	return out
}

// tryStatement 记录 try 语句的事实，并返回从该语句逃逸的异常类型
func (w *methodWalker) tryStatement(n *sitter.Node) []*model.ExceptionType {
	ts := &model.TryStatement{Location: nodeToLocation(n, w.fc.FilePath)}
	for i := len(w.guards) - 1; i >= 0; i-- {
		ts.Enclosing = append(ts.Enclosing, w.guards[i])
	}
	w.trys = append(w.trys, ts)

	w.guards = append(w.guards, ts)
	var thrown []*model.ExceptionType
	if res := n.ChildByFieldName("resources"); res != nil {
		thrown = union(thrown, w.thrown(res))
	}
	body := n.ChildByFieldName("body")
	thrown = union(thrown, w.thrown(body))
	w.guards = w.guards[:len(w.guards)-1]
	ts.Block = model.TryBlock{Thrown: thrown, Location: nodeToLocation(body, w.fc.FilePath)}

	var catchBodies []*sitter.Node
	var finally *sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(uint(i))
		switch child.Kind() {
		case kindCatchClause:
			if clause := w.catchClause(child); clause != nil {
				ts.Catches = append(ts.Catches, clause)
				catchBodies = append(catchBodies, child.ChildByFieldName("body"))
			}
		case kindFinallyClause:
			finally = child
		}
	}

	var escaping []*model.ExceptionType
	for _, t := range thrown {
		if !rethrow.Caught(w.h, t, ts.Catches) {
			escaping = union(escaping, []*model.ExceptionType{t})
		}
	}

	for i, clause := range ts.Catches {
		narrowed, err := rethrow.Narrow(w.h, thrown, ts.Catches, i, clause.Usage())
		if err != nil {
			narrowed = nil
		}
		prev, hadPrev := w.vars[clause.Param]
		prevClause := w.params[clause.Param]
		w.vars[clause.Param] = narrowed
		w.params[clause.Param] = clause
		escaping = union(escaping, w.thrown(catchBodies[i]))
		if hadPrev {
			w.vars[clause.Param] = prev
		} else {
			delete(w.vars, clause.Param)
		}
		if prevClause != nil {
			w.params[clause.Param] = prevClause
		} else {
			delete(w.params, clause.Param)
		}
	}

	if finally != nil {
		escaping = union(escaping, w.thrown(finally))
	}
	return escaping
}

// catchClause 提取 catch 子句；所有备选类型都无法解析时返回 nil
func (w *methodWalker) catchClause(n *sitter.Node) *model.CatchClause {
	var param *sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if child := n.NamedChild(uint(i)); child.Kind() == kindCatchFormalParam {
			param = child
			break
		}
	}
	if param == nil {
		return nil
	}

	clause := &model.CatchClause{
		Param:    catchParamName(param, w.src),
		Location: nodeToLocation(n, w.fc.FilePath),
	}
	for i := 0; i < int(param.NamedChildCount()); i++ {
		child := param.NamedChild(uint(i))
		if child.Kind() != kindCatchType {
			continue
		}
		for _, tn := range typeNames(child, w.src) {
			if t := w.resolveType(tn); t != nil {
				clause.Types = append(clause.Types, t)
			}
		}
	}
	if len(clause.Types) == 0 {
		return nil
	}

	body := n.ChildByFieldName("body")
	clause.Rethrows = containsRethrow(body, clause.Param, w.src)
	clause.Reassigned = containsAssignment(body, clause.Param, w.src)
	return clause
}

// throwOperand 返回 throw 语句操作数本身代表的异常类型
func (w *methodWalker) throwOperand(expr *sitter.Node) []*model.ExceptionType {
	expr = unparen(expr)
	if expr == nil {
		return nil
	}
	switch expr.Kind() {
	case kindObjectCreation, "cast_expression":
		if t := w.resolveType(getNodeContent(expr.ChildByFieldName("type"), w.src)); t != nil {
			return []*model.ExceptionType{t}
		}
	case kindIdentifier:
		return w.vars[getNodeContent(expr, w.src)]
	}
	return nil
}

// recordRethrow 记录 "throw <catch 参数>;" 及此处的外层 try 语句栈
func (w *methodWalker) recordRethrow(stmt, expr *sitter.Node) {
	expr = unparen(expr)
	if expr == nil || expr.Kind() != kindIdentifier {
		return
	}
	clause := w.params[getNodeContent(expr, w.src)]
	if clause == nil {
		return
	}
	site := model.RethrowSite{Location: nodeToLocation(stmt, w.fc.FilePath)}
	for i := len(w.guards) - 1; i >= 0; i-- {
		site.Guards = append(site.Guards, w.guards[i])
	}
	clause.Sites = append(clause.Sites, site)
}

// invocationThrows 只处理无接收者或 this/super 的调用，接收者类型未知时不做推断
func (w *methodWalker) invocationThrows(n *sitter.Node) []*model.ExceptionType {
	if obj := n.ChildByFieldName("object"); obj != nil && obj.Kind() != "this" && obj.Kind() != "super" {
		return nil
	}
	name := getNodeContent(n.ChildByFieldName("name"), w.src)
	defs := w.gc.Lookup(javaResolver.BuildQualifiedName(w.classQN, name), model.Method)
	if len(defs) == 0 {
		defs = w.fc.LocalDefinitions(name, model.Method)
	}
	return w.declaredThrows(defs)
}

func (w *methodWalker) constructorThrows(n *sitter.Node) []*model.ExceptionType {
	classQN := w.gc.ResolveSymbol(w.fc, getNodeContent(n.ChildByFieldName("type"), w.src))
	if classQN == "" {
		return nil
	}
	ctorQN := javaResolver.BuildQualifiedName(classQN, lastSegment(classQN))
	return w.declaredThrows(w.gc.Lookup(ctorQN, model.Constructor))
}

func (w *methodWalker) declaredThrows(defs []*core.DefinitionEntry) []*model.ExceptionType {
	var out []*model.ExceptionType
	for _, def := range defs {
		for _, qn := range w.gc.DeclaredThrows(def) {
			if t, ok := w.h.Lookup(qn); ok {
				out = union(out, []*model.ExceptionType{t})
			}
		}
	}
	return out
}

func (w *methodWalker) declare(name string, typeNode *sitter.Node) {
	if name == "" {
		return
	}
	delete(w.params, name)
	if t := w.resolveType(getNodeContent(typeNode, w.src)); t != nil {
		w.vars[name] = []*model.ExceptionType{t}
		return
	}
	w.vars[name] = nil
}

func (w *methodWalker) resolveType(name string) *model.ExceptionType {
	if name == "" {
		return nil
	}
	t, ok := w.h.Lookup(w.gc.ResolveSymbol(w.fc, name))
	if !ok {
		return nil
	}
	return t
}

func catchParamName(param *sitter.Node, src []byte) string {
	if name := param.ChildByFieldName("name"); name != nil {
		return getNodeContent(name, src)
	}
	for i := int(param.NamedChildCount()) - 1; i >= 0; i-- {
		if child := param.NamedChild(uint(i)); child.Kind() == kindIdentifier {
			return getNodeContent(child, src)
		}
	}
	return ""
}

// containsRethrow 判断块内是否存在 "throw <name>;"
func containsRethrow(n *sitter.Node, name string, src []byte) bool {
	return anyNode(n, func(c *sitter.Node) bool {
		if c.Kind() != kindThrowStmt {
			return false
		}
		expr := unparen(c.NamedChild(0))
		return expr != nil && expr.Kind() == kindIdentifier && getNodeContent(expr, src) == name
	})
}

// containsAssignment 判断块内是否存在对 name 的赋值
func containsAssignment(n *sitter.Node, name string, src []byte) bool {
	return anyNode(n, func(c *sitter.Node) bool {
		if c.Kind() != kindAssignment {
			return false
		}
		left := unparen(c.ChildByFieldName("left"))
		return left != nil && left.Kind() == kindIdentifier && getNodeContent(left, src) == name
	})
}

func anyNode(n *sitter.Node, pred func(*sitter.Node) bool) bool {
	if n == nil || isScopeBoundary(n) {
		return false
	}
	if pred(n) {
		return true
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if anyNode(n.NamedChild(uint(i)), pred) {
			return true
		}
	}
	return false
}

func unparen(n *sitter.Node) *sitter.Node {
	for n != nil && n.Kind() == kindParenthesized {
		n = n.NamedChild(0)
	}
	return n
}

func lastSegment(qn string) string {
	for i := len(qn) - 1; i >= 0; i-- {
		if qn[i] == '.' {
			return qn[i+1:]
		}
	}
	return qn
}

// union 合并两个有序集合，保持首次出现的顺序
func union(a, b []*model.ExceptionType) []*model.ExceptionType {
	if len(b) == 0 {
		return a
	}
	seen := make(map[*model.ExceptionType]bool, len(a))
	for _, t := range a {
		seen[t] = true
	}
	for _, t := range b {
		if !seen[t] {
			seen[t] = true
			a = append(a, t)
		}
	}
	return a
}
