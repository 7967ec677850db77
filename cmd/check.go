package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/tools/txtar"

	"github.com/CodMac/go-treesitter-rethrow-analyzer/config"
	"github.com/CodMac/go-treesitter-rethrow-analyzer/model"
	"github.com/CodMac/go-treesitter-rethrow-analyzer/output"
	"github.com/CodMac/go-treesitter-rethrow-analyzer/processor"
)

var (
	workers        int
	format         string
	outPath        string
	checkUnchecked bool
)

var checkCmd = &cobra.Command{
	Use:   "check [paths...]",
	Short: "Check rethrow declarations and multi-catch parameters (use - to read a txtar archive from stdin)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(cmd, args)
	},
}

func init() {
	registerCheckFlags(checkCmd)
}

func registerCheckFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Number of concurrent workers (default: number of CPUs)")
	cmd.Flags().StringVarP(&format, "format", "f", config.FormatText, "Output format: text or jsonl")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().BoolVar(&checkUnchecked, "check-unchecked", false, "Require declarations for unchecked exceptions too")
}

// loadConfig 读取配置文件，并以显式传入的命令行参数覆盖
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return cfg, err
	}
	flags := cmd.Flags()
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("format") {
		cfg.Format = format
	}
	if flags.Changed("check-unchecked") {
		cfg.CheckUnchecked = checkUnchecked
	}
	return cfg, cfg.Validate()
}

// analyze 根据配置运行处理器；args 为 "-" 时从标准输入读取 txtar 归档
func analyze(ctx context.Context, cfg config.Config, args []string, stdin io.Reader) (*processor.Result, error) {
	lang := model.Language(cfg.Language)
	proc := processor.NewFileProcessor(lang, cfg.Workers, logger)
	proc.DefaultParent = cfg.DefaultParent
	proc.ExtraTypes = cfg.Types
	proc.CheckUnchecked = cfg.CheckUnchecked

	if len(args) == 1 && args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return proc.ProcessSources(ctx, txtar.Parse(data))
	}

	filePaths, err := discoverFiles(args, lang)
	if err != nil {
		return nil, err
	}
	if len(filePaths) == 0 {
		logger.Warn("no source files found", zap.Strings("paths", args))
	}
	logger.Debug("starting analysis", zap.Int("files", len(filePaths)), zap.String("language", cfg.Language))
	return proc.ProcessFiles(ctx, filePaths)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	result, err := analyze(ctx, cfg, args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	if err := writeReport(cmd, cfg.Format, result.Verdicts); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if len(result.Failed()) > 0 {
		return ErrCheckFailed
	}
	return nil
}

// writeReport 按格式输出结论；设置了 --output 时写入文件
func writeReport(cmd *cobra.Command, format string, verdicts []*model.Verdict) error {
	if format == config.FormatJSONL {
		if outPath != "" {
			_, err := output.ExportVerdicts(outPath, verdicts)
			return err
		}
		_, err := output.NewJSONLWriter(cmd.OutOrStdout()).WriteVerdicts(verdicts)
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	if _, err := output.WriteText(w, verdicts); err != nil {
		return err
	}
	return output.WriteSummary(cmd.ErrOrStderr(), verdicts)
}
