package cmd

import (
	"errors"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/CodMac/go-treesitter-rethrow-analyzer/config"

	// 导入语言实现，触发其 init() 注册 Language、Collector、Extractor
	_ "github.com/CodMac/go-treesitter-rethrow-analyzer/x/java"
)

const defaultTimeout = 5 * time.Minute

// ErrCheckFailed 表示存在未通过检查的方法，进程以退出码 1 结束
var ErrCheckFailed = errors.New("rethrow check failed")

var (
	cfgFile string
	timeout time.Duration
	verbose bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:              "rethrow [paths...]",
	Short:            "rethrow - verifies multi-catch and precise rethrow rules in Java sources",
	Args:             cobra.ArbitraryArgs,
	TraverseChildren: true,
	SilenceUsage:     true,
	SilenceErrors:    true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(verbose)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// 无子命令
		if len(args) == 0 {
			return cmd.Help()
		}
		// rethrow [path1 path2 ...] 等价于 check 子命令
		return runCheck(cmd, args)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", config.DefaultPath, "Path to the configuration file")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", defaultTimeout, "Timeout for the whole analysis")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	registerCheckFlags(rootCmd)

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(hierarchyCmd)
}

// newLogger 普通模式只输出警告以上日志，--verbose 切换到开发配置
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}
