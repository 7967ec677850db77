package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/CodMac/go-treesitter-rethrow-analyzer/model"
)

type JSONLWriter struct {
	encoder *json.Encoder
}

func NewJSONLWriter(w io.Writer) *JSONLWriter {
	return &JSONLWriter{
		encoder: json.NewEncoder(w),
	}
}

func (w *JSONLWriter) Write(v interface{}) error {
	return w.encoder.Encode(v)
}

// WriteVerdicts 每行一个方法结论
func (w *JSONLWriter) WriteVerdicts(verdicts []*model.Verdict) (int, error) {
	count := 0
	for _, v := range verdicts {
		if err := w.Write(v); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// ExportVerdicts 将结论以 JSONL 写入 path
func ExportVerdicts(path string, verdicts []*model.Verdict) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	return NewJSONLWriter(f).WriteVerdicts(verdicts)
}

// ExportHierarchy 导出异常层级，每行一个类型
func ExportHierarchy(w io.Writer, h *model.Hierarchy) (int, error) {
	writer := NewJSONLWriter(w)
	count := 0
	for _, t := range h.Types() {
		row := struct {
			Name  string `json:"Name"`
			Super string `json:"Super,omitempty"`
			Depth int    `json:"Depth"`
		}{Name: t.Name, Depth: t.Depth}
		if t.Super != nil {
			row.Super = t.Super.Name
		}
		if err := writer.Write(row); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}
