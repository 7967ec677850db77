package processor

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/txtar"

	"github.com/CodMac/go-treesitter-rethrow-analyzer/collector"
	"github.com/CodMac/go-treesitter-rethrow-analyzer/core"
	"github.com/CodMac/go-treesitter-rethrow-analyzer/exemption"
	"github.com/CodMac/go-treesitter-rethrow-analyzer/extractor"
	"github.com/CodMac/go-treesitter-rethrow-analyzer/model"
	"github.com/CodMac/go-treesitter-rethrow-analyzer/parser"
	"github.com/CodMac/go-treesitter-rethrow-analyzer/rethrow"
)

// FileProcessor 负责并发处理文件列表，汇总每个方法的检查结论。
type FileProcessor struct {
	Language model.Language
	Workers  int // 并发协程数量

	DefaultParent  string            // 未知父类型挂载点，为空时使用 java.lang.Exception
	ExtraTypes     map[string]string // 额外的 "类型 -> 父类型" 边 (外部库异常)
	CheckUnchecked bool              // 为 true 时非受检异常同样需要声明

	logger *zap.Logger
}

// Result 是一次分析的输出
type Result struct {
	Verdicts  []*model.Verdict
	Hierarchy *model.Hierarchy
	Skipped   []string // 解析或收集失败而跳过的文件
}

// Failed 返回未通过的结论
func (r *Result) Failed() []*model.Verdict {
	var out []*model.Verdict
	for _, v := range r.Verdicts {
		if !v.Passed() {
			out = append(out, v)
		}
	}
	return out
}

// NewFileProcessor 创建 FileProcessor 实例
func NewFileProcessor(lang model.Language, workers int, logger *zap.Logger) *FileProcessor {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileProcessor{
		Language:      lang,
		Workers:       workers,
		DefaultParent: model.ExceptionQN,
		logger:        logger,
	}
}

// input 是待分析的单个源文件；content 为 nil 时从磁盘读取
type input struct {
	path    string
	content []byte
}

// ProcessFiles 分析磁盘上的文件
func (fp *FileProcessor) ProcessFiles(ctx context.Context, filePaths []string) (*Result, error) {
	inputs := make([]input, 0, len(filePaths))
	for _, p := range filePaths {
		inputs = append(inputs, input{path: p})
	}
	return fp.process(ctx, inputs)
}

// ProcessSources 分析 txtar 归档中的源文件 (测试夹具与标准输入)
func (fp *FileProcessor) ProcessSources(ctx context.Context, archive *txtar.Archive) (*Result, error) {
	ext := fp.Language.FileExtension()
	inputs := make([]input, 0, len(archive.Files))
	for _, f := range archive.Files {
		if ext != "" && filepath.Ext(f.Name) != ext {
			continue
		}
		inputs = append(inputs, input{path: f.Name, content: f.Data})
	}
	return fp.process(ctx, inputs)
}

// process 实现了两阶段处理逻辑：
// 阶段 1 并发解析并收集定义，随后一次性构建异常层级；
// 阶段 2 并发提取方法事实并执行检查。
func (fp *FileProcessor) process(ctx context.Context, inputs []input) (*Result, error) {
	result := &Result{}
	if len(inputs) == 0 {
		return result, nil
	}

	resolver, err := core.GetSymbolResolver(fp.Language)
	if err != nil {
		return nil, err
	}
	coll, err := collector.GetCollector(fp.Language)
	if err != nil {
		return nil, err
	}
	ext, err := extractor.GetExtractor(fp.Language)
	if err != nil {
		return nil, err
	}

	gc := core.NewGlobalContext(resolver)
	parsed := make([]*parser.ParsedFile, len(inputs))
	defer func() {
		for _, pf := range parsed {
			if pf != nil {
				pf.Close()
			}
		}
	}()

	// --- 阶段 1: 收集定义 ---
	fp.logger.Debug("collecting definitions", zap.Int("files", len(inputs)), zap.Int("workers", fp.Workers))
	var skippedMu sync.Mutex
	skip := func(path string, stage string, err error) {
		fp.logger.Warn("skipping file", zap.String("file", path), zap.String("stage", stage), zap.Error(err))
		skippedMu.Lock()
		result.Skipped = append(result.Skipped, path)
		skippedMu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fp.Workers)
	for i, in := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// 每个任务持有自己的 parser，tree-sitter parser 不是并发安全的
			p, err := parser.NewParser(fp.Language)
			if err != nil {
				return err
			}
			defer p.Close()

			var pf *parser.ParsedFile
			if in.content != nil {
				pf, err = p.ParseSource(in.path, in.content)
			} else {
				pf, err = p.ParseFile(in.path)
			}
			if err != nil {
				skip(in.path, "parse", err)
				return nil
			}
			if pf.HasError() {
				fp.logger.Warn("syntax errors in file", zap.String("file", in.path))
			}

			fc, err := coll.CollectDefinitions(pf.RootNode, pf.FilePath, pf.SourceBytes)
			if err != nil {
				pf.Close()
				skip(in.path, "collect", err)
				return nil
			}
			gc.RegisterFileContext(fc)
			parsed[i] = pf
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("phase 1 (definition collection) failed: %w", err)
	}

	h, err := gc.BuildHierarchy(fp.DefaultParent, fp.ExtraTypes)
	if err != nil {
		return nil, fmt.Errorf("failed to build exception hierarchy: %w", err)
	}
	result.Hierarchy = h

	opts := rethrow.Options{}
	if !fp.CheckUnchecked {
		filter := exemption.GetFilter(fp.Language)
		opts.Exempt = func(t *model.ExceptionType) bool { return filter.IsExempt(h, t) }
	}

	// --- 阶段 2: 提取方法事实并检查 ---
	fp.logger.Debug("checking methods", zap.Int("types", len(h.Types())))
	verdicts := make([][]*model.Verdict, len(parsed))
	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(fp.Workers)
	for i, pf := range parsed {
		if pf == nil {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			methods, err := ext.Extract(pf.RootNode, pf.FilePath, gc, h)
			if err != nil {
				skip(pf.FilePath, "extract", err)
				return nil
			}
			for _, m := range methods {
				v, err := rethrow.Check(h, m, opts)
				if err != nil {
					// 单个方法失败不影响同文件的其他方法
					fp.logger.Error("check failed", zap.String("method", m.QualifiedName), zap.Error(err))
					continue
				}
				verdicts[i] = append(verdicts[i], v)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("phase 2 (method checking) failed: %w", err)
	}

	for _, vs := range verdicts {
		result.Verdicts = append(result.Verdicts, vs...)
	}
	sort.SliceStable(result.Verdicts, func(i, j int) bool {
		a, b := result.Verdicts[i], result.Verdicts[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Location.Before(b.Location) != b.Location.Before(a.Location) {
			return a.Location.Before(b.Location)
		}
		return a.Method < b.Method
	})
	sort.Strings(result.Skipped)

	fp.logger.Info("analysis complete",
		zap.Int("methods", len(result.Verdicts)),
		zap.Int("failed", len(result.Failed())),
		zap.Int("skipped", len(result.Skipped)))
	return result, nil
}
