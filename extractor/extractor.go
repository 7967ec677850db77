package extractor

import (
	"fmt"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/CodMac/go-treesitter-rethrow-analyzer/core"
	"github.com/CodMac/go-treesitter-rethrow-analyzer/model"
)

// Extractor 定义了第二阶段提取方法事实的能力，需要全局上下文与已构建的异常层级。
type Extractor interface {
	// Extract 返回文件中每个方法/构造函数的 MethodSignature，按源码顺序。
	Extract(rootNode *sitter.Node, filePath string, gc *core.GlobalContext, h *model.Hierarchy) ([]*model.MethodSignature, error)
}

var (
	extractorMap = make(map[model.Language]Extractor)
	extractorMu  sync.RWMutex
)

// RegisterExtractor 注册一个语言与其对应的 Extractor
func RegisterExtractor(lang model.Language, extractor Extractor) {
	extractorMu.Lock()
	defer extractorMu.Unlock()
	extractorMap[lang] = extractor
}

// GetExtractor 根据语言类型获取对应的 Extractor 实例。
func GetExtractor(lang model.Language) (Extractor, error) {
	extractorMu.RLock()
	defer extractorMu.RUnlock()

	extractor, ok := extractorMap[lang]
	if !ok {
		return nil, fmt.Errorf("no extractor registered for language: %s", lang)
	}
	return extractor, nil
}
