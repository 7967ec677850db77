package core

import (
	"sort"
	"strings"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/CodMac/go-treesitter-rethrow-analyzer/model"
)

type DefinitionEntry struct {
	Element   *model.CodeElement
	ParentQN  string
	SuperName string       // 类: extends 的原始名称 (未解析)
	Throws    []string     // 方法/构造函数: throws 子句的原始名称 (未解析)
	Node      *sitter.Node // 保留 AST 节点引用
}

type ImportEntry struct {
	RawImportPath string            `json:"RawImportPath"`
	Alias         string            `json:"Alias"`
	Kind          model.ElementKind `json:"Kind"`
	IsWildcard    bool              `json:"IsWildcard"`
	Location      *model.Location   `json:"Location,omitempty"`
}

type FileContext struct {
	FilePath        string
	PackageName     string
	RootNode        *sitter.Node
	SourceBytes     *[]byte
	DefinitionsBySN map[string][]*DefinitionEntry
	Imports         map[string][]*ImportEntry
	ExceptionRefs   []string // catch / throw new / throws 中出现的类型名 (未解析)
	mutex           sync.RWMutex
}

func NewFileContext(filePath string, rootNode *sitter.Node, sourceBytes *[]byte) *FileContext {
	return &FileContext{
		FilePath:        filePath,
		RootNode:        rootNode,
		SourceBytes:     sourceBytes,
		DefinitionsBySN: make(map[string][]*DefinitionEntry),
		Imports:         make(map[string][]*ImportEntry),
	}
}

func (fc *FileContext) AddDefinition(entry *DefinitionEntry) {
	fc.mutex.Lock()
	defer fc.mutex.Unlock()

	fc.DefinitionsBySN[entry.Element.Name] = append(fc.DefinitionsBySN[entry.Element.Name], entry)
}

func (fc *FileContext) AddImport(alias string, imp *ImportEntry) {
	fc.mutex.Lock()
	defer fc.mutex.Unlock()
	fc.Imports[alias] = append(fc.Imports[alias], imp)
}

func (fc *FileContext) AddExceptionRef(name string) {
	fc.mutex.Lock()
	defer fc.mutex.Unlock()
	fc.ExceptionRefs = append(fc.ExceptionRefs, name)
}

// LocalDefinitions 返回文件内指定短名称与类型的定义
func (fc *FileContext) LocalDefinitions(name string, kinds ...model.ElementKind) []*DefinitionEntry {
	fc.mutex.RLock()
	defer fc.mutex.RUnlock()
	return filterKinds(fc.DefinitionsBySN[name], kinds)
}

type GlobalContext struct {
	FileContexts    map[string]*FileContext
	DefinitionsByQN map[string][]*DefinitionEntry
	resolver        SymbolResolver // 持有具体语言的解析器
	mutex           sync.RWMutex
}

func NewGlobalContext(resolver SymbolResolver) *GlobalContext {
	return &GlobalContext{
		FileContexts:    make(map[string]*FileContext),
		DefinitionsByQN: make(map[string][]*DefinitionEntry),
		resolver:        resolver,
	}
}

// RegisterFileContext 将单个文件的上下文合并到全局符号表
func (gc *GlobalContext) RegisterFileContext(fc *FileContext) {
	gc.mutex.Lock()
	defer gc.mutex.Unlock()

	gc.FileContexts[fc.FilePath] = fc
	for _, entries := range fc.DefinitionsBySN {
		for _, entry := range entries {
			gc.DefinitionsByQN[entry.Element.QualifiedName] = append(gc.DefinitionsByQN[entry.Element.QualifiedName], entry)
		}
	}
}

// FileContext 返回已注册的文件上下文
func (gc *GlobalContext) FileContext(filePath string) (*FileContext, bool) {
	gc.mutex.RLock()
	defer gc.mutex.RUnlock()
	fc, ok := gc.FileContexts[filePath]
	return fc, ok
}

// ResolveSymbol 由 Resolver 将短名称解析为 QN
func (gc *GlobalContext) ResolveSymbol(fc *FileContext, symbol string) string {
	gc.mutex.RLock()
	defer gc.mutex.RUnlock()
	return gc.resolver.Resolve(gc, fc, symbol)
}

func (gc *GlobalContext) BuildQualifiedName(parentQN, name string) string {
	return gc.resolver.BuildQualifiedName(parentQN, name)
}

// Lookup 按 QN 查找指定类型的定义；调用方不得持有锁
func (gc *GlobalContext) Lookup(qn string, kinds ...model.ElementKind) []*DefinitionEntry {
	gc.mutex.RLock()
	defer gc.mutex.RUnlock()
	return filterKinds(gc.DefinitionsByQN[qn], kinds)
}

// HasQN 供 SymbolResolver 在已持锁的情况下使用
func (gc *GlobalContext) HasQN(qn string) bool {
	_, ok := gc.DefinitionsByQN[qn]
	return ok
}

// DeclaredThrows 将方法定义的 throws 名称解析为 QN
func (gc *GlobalContext) DeclaredThrows(entry *DefinitionEntry) []string {
	gc.mutex.RLock()
	defer gc.mutex.RUnlock()

	fc := gc.FileContexts[entry.Element.Path]
	out := make([]string, 0, len(entry.Throws))
	for _, name := range entry.Throws {
		out = append(out, gc.resolver.Resolve(gc, fc, name))
	}
	return out
}

// BuildHierarchy 用收集到的类定义构建异常层级。
// 父类链能追溯到已知异常类型 (预置、extra 或名称像异常) 的类会被纳入；
// 其余的类只有被异常位置引用时才纳入，链顶挂到默认父节点。
func (gc *GlobalContext) BuildHierarchy(defaultParent string, extra map[string]string) (*model.Hierarchy, error) {
	gc.mutex.RLock()
	defer gc.mutex.RUnlock()

	b := model.NewHierarchyBuilder()
	b.SetDefaultParent(defaultParent)
	for _, name := range sortedKeys(extra) {
		b.Add(name, extra[name])
	}

	// QN -> 父类 QN
	pending := make(map[string]string)
	for _, qn := range sortedKeys(gc.DefinitionsByQN) {
		for _, entry := range gc.DefinitionsByQN[qn] {
			if entry.Element.Kind != model.Class || entry.SuperName == "" {
				continue
			}
			fc := gc.FileContexts[entry.Element.Path]
			pending[qn] = gc.resolver.Resolve(gc, fc, entry.SuperName)
		}
	}

	attachPending(b, pending)
	// 父类型来自外部库且名称像异常，挂到默认父节点
	for _, qn := range sortedKeys(pending) {
		super := pending[qn]
		if looksThrowable(super) && len(gc.DefinitionsByQN[super]) == 0 {
			b.Add(super, "")
			b.Add(qn, super)
			delete(pending, qn)
		}
	}
	attachPending(b, pending)

	// 被 catch / throws / throw new 引用但父类链断在外部非异常类型的源码类，
	// 从链顶挂到默认父节点
	refs := gc.exceptionRefQNs()
	for _, qn := range sortedKeys(refs) {
		if _, ok := pending[qn]; !ok {
			continue
		}
		top := qn
		seen := map[string]bool{qn: true}
		for {
			super := pending[top]
			if _, ok := pending[super]; !ok || seen[super] {
				break
			}
			seen[super] = true
			top = super
		}
		b.Add(top, "")
		delete(pending, top)
		attachPending(b, pending)
	}

	// catch / throws / throw new 中引用了但未定义的外部类型
	for _, qn := range sortedKeys(refs) {
		if b.Has(qn) || len(gc.DefinitionsByQN[qn]) > 0 {
			continue
		}
		b.Add(qn, "")
	}

	return b.Build()
}

// exceptionRefQNs 解析所有文件中的异常引用；调用方需持有读锁
func (gc *GlobalContext) exceptionRefQNs() map[string]struct{} {
	refs := make(map[string]struct{})
	for _, path := range sortedKeys(gc.FileContexts) {
		fc := gc.FileContexts[path]
		for _, ref := range fc.ExceptionRefs {
			refs[gc.resolver.Resolve(gc, fc, ref)] = struct{}{}
		}
	}
	return refs
}

// attachPending 反复加入父类型已知的待定类，直到不再变化
func attachPending(b *model.HierarchyBuilder, pending map[string]string) {
	for changed := true; changed; {
		changed = false
		for _, qn := range sortedKeys(pending) {
			if b.Has(pending[qn]) {
				b.Add(qn, pending[qn])
				delete(pending, qn)
				changed = true
			}
		}
	}
}

func looksThrowable(qn string) bool {
	return strings.HasSuffix(qn, "Exception") || strings.HasSuffix(qn, "Error") || strings.HasSuffix(qn, "Throwable")
}

func filterKinds(entries []*DefinitionEntry, kinds []model.ElementKind) []*DefinitionEntry {
	if len(kinds) == 0 {
		return entries
	}
	var out []*DefinitionEntry
	for _, e := range entries {
		for _, k := range kinds {
			if e.Element.Kind == k {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
