package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/CodMac/go-treesitter-rethrow-analyzer/model"
)

// DefaultPath 默认配置文件名
const DefaultPath = ".rethrow.yaml"

// 输出格式
const (
	FormatText  = "text"
	FormatJSONL = "jsonl"
)

// Config 是 .rethrow.yaml 的内容
type Config struct {
	Name           string            `yaml:"name"`
	Language       string            `yaml:"language"`
	Workers        int               `yaml:"workers"`
	Format         string            `yaml:"format"`
	CheckUnchecked bool              `yaml:"checkUnchecked"`
	DefaultParent  string            `yaml:"defaultParent"`   // 未知父类型的挂载点
	Types          map[string]string `yaml:"types,omitempty"` // 外部异常类型：QN -> 父类型 QN
}

func Default() Config {
	return Config{
		Name:          "rethrow",
		Language:      string(model.LangJava),
		Format:        FormatText,
		DefaultParent: model.ExceptionQN,
		Types:         map[string]string{},
	}
}

// Load 读取配置文件。文件不存在时返回默认配置，缺省字段以默认值补齐。
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if cfg.Format == "" {
		cfg.Format = FormatText
	}
	if cfg.DefaultParent == "" {
		cfg.DefaultParent = model.ExceptionQN
	}
	if cfg.Language == "" {
		cfg.Language = string(model.LangJava)
	}
	return cfg, cfg.Validate()
}

// Validate 检查字段取值
func (c Config) Validate() error {
	switch c.Format {
	case FormatText, FormatJSONL:
	default:
		return fmt.Errorf("unknown output format %q", c.Format)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	return nil
}

// Write 将配置写入文件
func Write(path string, cfg Config) error {
	if path == "" {
		path = DefaultPath
	}

	d, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(d)
	return err
}
