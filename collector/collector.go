package collector

import (
	"fmt"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/CodMac/go-treesitter-rethrow-analyzer/core"
	"github.com/CodMac/go-treesitter-rethrow-analyzer/model"
)

// Collector 用于收集符号定义 (第一阶段)。
type Collector interface {
	// CollectDefinitions 负责遍历 AST，建立并返回该文件的 FileContext。
	CollectDefinitions(rootNode *sitter.Node, filePath string, sourceBytes *[]byte) (*core.FileContext, error)
}

var (
	collectorMap = make(map[model.Language]Collector)
	collectorMu  sync.RWMutex
)

// RegisterCollector 注册一个语言与其对应的 Collector
func RegisterCollector(lang model.Language, collector Collector) {
	collectorMu.Lock()
	defer collectorMu.Unlock()
	collectorMap[lang] = collector
}

// GetCollector 根据语言类型获取对应的 Collector 实例。
func GetCollector(lang model.Language) (Collector, error) {
	collectorMu.RLock()
	defer collectorMu.RUnlock()

	collector, ok := collectorMap[lang]
	if !ok {
		return nil, fmt.Errorf("no collector registered for language: %s", lang)
	}

	return collector, nil
}
