package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrCycle       = errors.New("cyclic supertype chain")
	ErrUnknownType = errors.New("unknown exception type")
)

// ExceptionType 是异常层级中的一个节点。构建完成后不可变。
type ExceptionType struct {
	Name       string         // 完整限定名
	SimpleName string         // 短名称
	Super      *ExceptionType // 直接父类型，根节点为 nil
	Depth      int            // 根节点深度为 0
}

func (t *ExceptionType) String() string {
	if t == nil {
		return "<nil>"
	}
	return t.Name
}

// Hierarchy 是单根的异常类型树。
// 节点以 arena 形式存放，只通过父指针相连；构建后只读，可并发查询。
type Hierarchy struct {
	root   *ExceptionType
	nodes  []*ExceptionType
	byName map[string]*ExceptionType
}

func (h *Hierarchy) Root() *ExceptionType { return h.root }

// Lookup 按完整限定名查找
func (h *Hierarchy) Lookup(name string) (*ExceptionType, bool) {
	t, ok := h.byName[name]
	return t, ok
}

// Types 返回所有类型，按名称排序
func (h *Hierarchy) Types() []*ExceptionType {
	out := make([]*ExceptionType, len(h.nodes))
	copy(out, h.nodes)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Ancestors 返回 t 到根节点的链 (包含 t 自身)
func (h *Hierarchy) Ancestors(t *ExceptionType) []*ExceptionType {
	chain := make([]*ExceptionType, 0, t.Depth+1)
	for cur := t; cur != nil; cur = cur.Super {
		chain = append(chain, cur)
	}
	return chain
}

// IsSubtype 判断 a 是否等于 b 或是 b 的子类型
func (h *Hierarchy) IsSubtype(a, b *ExceptionType) bool {
	if a == nil || b == nil {
		return false
	}
	cur := a
	for cur != nil && cur.Depth > b.Depth {
		cur = cur.Super
	}
	return cur == b
}

// Related 是对称的祖先关系判定：a 与 b 互为子类型或父类型
func (h *Hierarchy) Related(a, b *ExceptionType) bool {
	return h.IsSubtype(a, b) || h.IsSubtype(b, a)
}

// CommonSupertype 返回所有输入类型最深的公共祖先；输入为空时返回 nil
func (h *Hierarchy) CommonSupertype(types ...*ExceptionType) *ExceptionType {
	if len(types) == 0 {
		return nil
	}
	acc := types[0]
	for _, t := range types[1:] {
		acc = lca(acc, t)
	}
	return acc
}

func lca(a, b *ExceptionType) *ExceptionType {
	for a.Depth > b.Depth {
		a = a.Super
	}
	for b.Depth > a.Depth {
		b = b.Super
	}
	for a != b {
		a, b = a.Super, b.Super
	}
	return a
}

// HierarchyBuilder 收集 "类型 -> 父类型" 边，Build 时一次性校验并生成 Hierarchy。
type HierarchyBuilder struct {
	root          string
	defaultParent string
	edges         map[string]string
}

// NewHierarchyBuilder 创建一个预置了 JDK 常见异常类型的构建器
func NewHierarchyBuilder() *HierarchyBuilder {
	b := &HierarchyBuilder{
		root:          ThrowableQN,
		defaultParent: ExceptionQN,
		edges:         make(map[string]string, len(builtinExceptions)),
	}
	for name, super := range builtinExceptions {
		b.edges[name] = super
	}
	return b
}

// SetDefaultParent 设置未知父类型时挂载的默认父节点
func (b *HierarchyBuilder) SetDefaultParent(name string) {
	if name != "" {
		b.defaultParent = name
	}
}

// Add 记录一条边；super 为空时挂到默认父节点
func (b *HierarchyBuilder) Add(name, super string) {
	if name == "" || name == b.root {
		return
	}
	b.edges[name] = super
}

// Has 判断类型是否已被记录
func (b *HierarchyBuilder) Has(name string) bool {
	if name == b.root {
		return true
	}
	_, ok := b.edges[name]
	return ok
}

// Build 校验所有边并生成只读的 Hierarchy
func (b *HierarchyBuilder) Build() (*Hierarchy, error) {
	if _, ok := b.edges[b.defaultParent]; !ok && b.defaultParent != b.root {
		return nil, fmt.Errorf("default parent %s: %w", b.defaultParent, ErrUnknownType)
	}

	root := &ExceptionType{Name: b.root, SimpleName: simpleName(b.root)}
	h := &Hierarchy{
		root:   root,
		nodes:  []*ExceptionType{root},
		byName: map[string]*ExceptionType{b.root: root},
	}

	// Build 不修改构建器，补出的边只记在副本里
	edges := make(map[string]string, len(b.edges))
	names := make([]string, 0, len(b.edges))
	for name, super := range b.edges {
		edges[name] = super
		names = append(names, name)
	}
	sort.Strings(names)

	// 未登记的父类型挂到默认父节点下
	for _, name := range names {
		super := edges[name]
		if _, ok := edges[super]; super != "" && super != b.root && !ok {
			edges[super] = ""
			names = append(names, super)
		}
	}

	visiting := make(map[string]bool)
	var link func(name string) (*ExceptionType, error)
	link = func(name string) (*ExceptionType, error) {
		if t, ok := h.byName[name]; ok {
			return t, nil
		}
		if visiting[name] {
			return nil, fmt.Errorf("%s: %w", name, ErrCycle)
		}
		visiting[name] = true
		defer delete(visiting, name)

		super := edges[name]
		if super == "" {
			super = b.defaultParent
		}
		if super == name {
			return nil, fmt.Errorf("%s: %w", name, ErrCycle)
		}
		parent, err := link(super)
		if err != nil {
			return nil, err
		}
		t := &ExceptionType{
			Name:       name,
			SimpleName: simpleName(name),
			Super:      parent,
			Depth:      parent.Depth + 1,
		}
		h.byName[name] = t
		h.nodes = append(h.nodes, t)
		return t, nil
	}

	for _, name := range names {
		if _, err := link(name); err != nil {
			return nil, err
		}
	}
	return h, nil
}

func simpleName(qn string) string {
	if i := strings.LastIndex(qn, "."); i >= 0 {
		return qn[i+1:]
	}
	return qn
}
