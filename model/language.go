package model

import (
	"fmt"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Language 标识支持的编程语言
type Language string

const (
	LangJava Language = "java"
)

// FileExtension 返回语言对应的源码文件后缀
func (l Language) FileExtension() string {
	switch l {
	case LangJava:
		return ".java"
	default:
		return ""
	}
}

var (
	langMap = make(map[Language]*sitter.Language)
	langMu  sync.RWMutex
)

// RegisterLanguage 用于注册 Tree-sitter 语言库
func RegisterLanguage(lang Language, tsLang *sitter.Language) {
	langMu.Lock()
	defer langMu.Unlock()
	langMap[lang] = tsLang
}

// GetLanguage 获取已注册的 Tree-sitter 语言对象
func GetLanguage(lang Language) (*sitter.Language, error) {
	langMu.RLock()
	defer langMu.RUnlock()

	tsLang, ok := langMap[lang]
	if !ok {
		return nil, fmt.Errorf("language %s not registered", lang)
	}

	return tsLang, nil
}
