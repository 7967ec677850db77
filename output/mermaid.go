package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/CodMac/go-treesitter-rethrow-analyzer/model"
)

// ExportMermaidHTML 生成包含 Mermaid.js 渲染逻辑的静态网页，展示异常层级
func ExportMermaidHTML(outputPath string, h *model.Hierarchy, verdicts []*model.Verdict) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer f.Close()

	return WriteMermaidHTML(f, h, verdicts)
}

// WriteMermaidHTML 输出异常层级图，缺失声明的类型以红色高亮
func WriteMermaidHTML(w io.Writer, h *model.Hierarchy, verdicts []*model.Verdict) error {
	var sb strings.Builder

	// 1. 写入 HTML 模板头部
	sb.WriteString(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Exception Hierarchy</title>
    <script src="https://cdn.jsdelivr.net/npm/mermaid/dist/mermaid.min.js"></script>
    <style>
        body { font-family: -apple-system, sans-serif; background: #f0f2f5; margin: 20px; }
        .mermaid { background: white; padding: 20px; border-radius: 12px; box-shadow: 0 4px 15px rgba(0,0,0,0.1); }
        h1 { color: #1a1a1a; text-align: center; }
    </style>
</head>
<body>
    <h1>Exception Hierarchy</h1>
    <div class="mermaid">
    graph TD
`)

	// 2. 节点与继承边
	types := h.Types()
	for _, t := range types {
		fmt.Fprintf(&sb, "        %s[\"%s\"]\n", safeID(t.Name), t.SimpleName)
	}
	for _, t := range types {
		if t.Super != nil {
			fmt.Fprintf(&sb, "        %s --> %s\n", safeID(t.Super.Name), safeID(t.Name))
		}
	}

	// 3. 高亮缺失声明的类型
	missing := missingTypes(verdicts)
	if len(missing) > 0 {
		sb.WriteString("        classDef missing fill:#ffd6d6,stroke:#c0392b,stroke-width:2px\n")
		for _, name := range missing {
			if _, ok := h.Lookup(name); ok {
				fmt.Fprintf(&sb, "        class %s missing\n", safeID(name))
			}
		}
	}

	// 4. 写入脚本初始化和结尾
	sb.WriteString(`    </div>
    <script>
        mermaid.initialize({
            startOnLoad: true,
            maxTextSize: 100000,
            theme: 'default',
            flowchart: { useMaxWidth: false, htmlLabels: true }
        });
    </script>
</body>
</html>
`)

	_, err := io.WriteString(w, sb.String())
	return err
}

func missingTypes(verdicts []*model.Verdict) []string {
	seen := make(map[string]bool)
	for _, v := range verdicts {
		for _, d := range v.Diagnostics {
			if d.Kind == model.MissingThrowsDeclaration && d.Type != "" {
				seen[d.Type] = true
			}
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// safeID 确保 QualifiedName 符合 Mermaid 的 ID 命名规范
func safeID(id string) string {
	r := strings.NewReplacer(".", "_", "/", "_", "-", "_", "\\", "_", ":", "_", "@", "_", "$", "_")
	return "n_" + r.Replace(id)
}
