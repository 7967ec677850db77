package core

import (
	"fmt"
	"sync"

	"github.com/CodMac/go-treesitter-rethrow-analyzer/model"
)

// --- 语言特有的符号解析接口 ---

type SymbolResolver interface {
	// BuildQualifiedName 根据父节点和当前名构建 QN
	BuildQualifiedName(parentQN, name string) string

	// Resolve 将源码中出现的类型名解析为 QN，无法解析时原样返回。
	// 调用方已持有 GlobalContext 的读锁，实现中不得再加锁。
	Resolve(gc *GlobalContext, fc *FileContext, symbol string) string
}

var (
	symbolResolverMap = make(map[model.Language]SymbolResolver)
	resolverMu        sync.RWMutex
)

// RegisterSymbolResolver 注册一个语言与其对应的 SymbolResolver
func RegisterSymbolResolver(lang model.Language, resolver SymbolResolver) {
	resolverMu.Lock()
	defer resolverMu.Unlock()
	symbolResolverMap[lang] = resolver
}

// GetSymbolResolver 根据语言类型获取对应的 SymbolResolver 实例。
func GetSymbolResolver(lang model.Language) (SymbolResolver, error) {
	resolverMu.RLock()
	defer resolverMu.RUnlock()

	resolver, ok := symbolResolverMap[lang]
	if !ok {
		return nil, fmt.Errorf("no SymbolResolver for language: %s", lang)
	}

	return resolver, nil
}
