package parser

import (
	"fmt"
	"os"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/CodMac/go-treesitter-rethrow-analyzer/model"
)

// Parser 定义了所有语言解析器的通用能力
type Parser interface {
	// ParseFile 读取文件内容并使用相应的 Tree-sitter 语言库进行解析
	ParseFile(filePath string) (*ParsedFile, error)
	// ParseSource 解析内存中的源码，filePath 仅用于定位
	ParseSource(filePath string, content []byte) (*ParsedFile, error)
	Close()
}

// ParsedFile 持有语法树及其源码。RootNode 仅在 Close 之前有效。
type ParsedFile struct {
	FilePath    string
	Tree        *sitter.Tree
	RootNode    *sitter.Node
	SourceBytes *[]byte
}

// HasError 语法树中是否存在解析错误节点
func (f *ParsedFile) HasError() bool {
	return f.RootNode != nil && f.RootNode.HasError()
}

func (f *ParsedFile) Close() {
	if f.Tree != nil {
		f.Tree.Close()
		f.Tree = nil
	}
}

// TreeSitterParser 是 Parser 的具体实现，非并发安全，每个 worker 需持有自己的实例
type TreeSitterParser struct {
	Language model.Language
	tsParser *sitter.Parser
}

// NewParser 创建一个新的 TreeSitterParser 实例
func NewParser(lang model.Language) (*TreeSitterParser, error) {
	tsLang, err := model.GetLanguage(lang)
	if err != nil {
		return nil, err
	}

	tsParser := sitter.NewParser()
	if err := tsParser.SetLanguage(tsLang); err != nil {
		tsParser.Close()
		return nil, fmt.Errorf("failed to set language %s: %w", lang, err)
	}

	return &TreeSitterParser{
		Language: lang,
		tsParser: tsParser,
	}, nil
}

func (p *TreeSitterParser) ParseFile(filePath string) (*ParsedFile, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}
	return p.ParseSource(filePath, content)
}

func (p *TreeSitterParser) ParseSource(filePath string, content []byte) (*ParsedFile, error) {
	tree := p.tsParser.Parse(content, nil)
	if tree == nil {
		return nil, fmt.Errorf("tree-sitter failed to parse file %s", filePath)
	}

	return &ParsedFile{
		FilePath:    filePath,
		Tree:        tree,
		RootNode:    tree.RootNode(),
		SourceBytes: &content,
	}, nil
}

// Close 释放 Tree-sitter 内部资源
func (p *TreeSitterParser) Close() {
	if p.tsParser != nil {
		p.tsParser.Close()
	}
}
