package cmd

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/CodMac/go-treesitter-rethrow-analyzer/model"
)

// discoverFiles 递归查找目录下所有符合语言要求的文件路径，结果去重并排序。
func discoverFiles(roots []string, lang model.Language) ([]string, error) {
	ext := lang.FileExtension()
	if ext == "" {
		return nil, fmt.Errorf("no file extension known for language %s", lang)
	}

	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("error accessing %s: %w", root, err)
		}
		if !info.IsDir() {
			if filepath.Ext(root) == ext {
				add(root)
			}
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			// 忽略隐藏目录
			if d.IsDir() && path != root && len(d.Name()) > 0 && d.Name()[0] == '.' {
				return filepath.SkipDir
			}
			if !d.IsDir() && filepath.Ext(path) == ext {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("error walking directory %s: %w", root, err)
		}
	}

	sort.Strings(files)
	return files, nil
}
