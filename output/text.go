package output

import (
	"fmt"
	"io"

	"github.com/CodMac/go-treesitter-rethrow-analyzer/model"
)

// WriteText 以编译器风格逐行输出诊断，返回输出的诊断数
func WriteText(w io.Writer, verdicts []*model.Verdict) (int, error) {
	count := 0
	for _, v := range verdicts {
		for _, d := range v.Diagnostics {
			loc := d.Location
			if loc == nil {
				loc = v.Location
			}
			if _, err := fmt.Fprintf(w, "%s: %s (method %s)\n", loc, d.Message, v.Method); err != nil {
				return count, err
			}
			count++
		}
	}
	return count, nil
}

// WriteSummary 输出一行汇总
func WriteSummary(w io.Writer, verdicts []*model.Verdict) error {
	failed, diags := 0, 0
	for _, v := range verdicts {
		if !v.Passed() {
			failed++
			diags += len(v.Diagnostics)
		}
	}
	_, err := fmt.Fprintf(w, "%d methods checked, %d failed, %d diagnostics\n", len(verdicts), failed, diags)
	return err
}
