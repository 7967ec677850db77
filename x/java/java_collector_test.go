package java_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodMac/go-treesitter-rethrow-analyzer/core"
	"github.com/CodMac/go-treesitter-rethrow-analyzer/model"
	"github.com/CodMac/go-treesitter-rethrow-analyzer/parser"
	"github.com/CodMac/go-treesitter-rethrow-analyzer/x/java"
)

// extract 对单个源文件执行完整的两阶段流程，返回方法事实
func extract(t *testing.T, path, src string) (map[string]*model.MethodSignature, *model.Hierarchy) {
	t.Helper()
	p, err := parser.NewParser(model.LangJava)
	require.NoError(t, err)
	t.Cleanup(p.Close)

	pf, err := p.ParseSource(path, []byte(src))
	require.NoError(t, err)
	t.Cleanup(pf.Close)
	require.False(t, pf.HasError(), "fixture must parse cleanly")

	fc, err := java.NewJavaCollector().CollectDefinitions(pf.RootNode, pf.FilePath, pf.SourceBytes)
	require.NoError(t, err)

	gc := core.NewGlobalContext(java.NewJavaSymbolResolver())
	gc.RegisterFileContext(fc)
	h, err := gc.BuildHierarchy(model.ExceptionQN, nil)
	require.NoError(t, err)

	methods, err := java.NewJavaExtractor().Extract(pf.RootNode, pf.FilePath, gc, h)
	require.NoError(t, err)

	byName := make(map[string]*model.MethodSignature, len(methods))
	for _, m := range methods {
		byName[m.QualifiedName] = m
	}
	return byName, h
}

func typeNames(types []*model.ExceptionType) []string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		out = append(out, t.Name)
	}
	return out
}

const factsSource = `package demo;

import java.io.IOException;
import java.sql.SQLException;

class Facts {
    static class FirstException extends Exception { }

    void multi(int x) throws IOException, SQLException {
        try (java.io.Reader r = open()) {
            if (x > 0) throw new IOException();
            throw new SQLException();
        } catch (IOException | SQLException ex) {
            ex = null;
            throw ex;
        } finally {
            System.out.println("done");
        }
    }

    java.io.Reader open() throws FirstException {
        return null;
    }

    void nested() {
        try {
            try {
                throw new FirstException();
            } catch (FirstException inner) {
                Runnable r = () -> { throw new IllegalStateException(); };
                throw inner;
            }
        } catch (Exception outer) {
        }
    }
}
`

func TestExtractor_MethodFacts(t *testing.T) {
	methods, _ := extract(t, "demo/Facts.java", factsSource)
	require.Len(t, methods, 3)

	multi := methods["demo.Facts.multi"]
	require.NotNil(t, multi)
	assert.Equal(t, []string{"java.io.IOException", "java.sql.SQLException"}, typeNames(multi.Declared))
	require.Len(t, multi.Trys, 1)

	ts := multi.Trys[0]
	// 资源初始化调用 open() 抛出的类型排在块内类型之前
	assert.Equal(t, []string{"demo.Facts.FirstException", "java.io.IOException", "java.sql.SQLException"}, typeNames(ts.Block.Thrown))
	require.Len(t, ts.Catches, 1)
	clause := ts.Catches[0]
	assert.True(t, clause.IsMultiCatch())
	assert.Equal(t, "ex", clause.Param)
	assert.True(t, clause.Rethrows)
	assert.True(t, clause.Reassigned)
	assert.Equal(t, []string{"java.io.IOException", "java.sql.SQLException"}, typeNames(clause.Types))
	assert.Empty(t, ts.Enclosing)
}

func TestExtractor_NestedTryAndLambda(t *testing.T) {
	methods, _ := extract(t, "demo/Facts.java", factsSource)

	nested := methods["demo.Facts.nested"]
	require.NotNil(t, nested)
	require.Len(t, nested.Trys, 2)

	outer, inner := nested.Trys[0], nested.Trys[1]
	assert.Equal(t, []*model.TryStatement{outer}, inner.Enclosing)
	assert.Equal(t, []string{"demo.Facts.FirstException"}, typeNames(inner.Block.Thrown))

	// lambda 体内的 throw 不属于外层方法；内层 catch 重抛收窄后的类型
	assert.Equal(t, []string{"demo.Facts.FirstException"}, typeNames(outer.Block.Thrown))
	assert.True(t, inner.Catches[0].Rethrows)
	assert.False(t, inner.Catches[0].Reassigned)
	assert.False(t, outer.Catches[0].Rethrows)
}

func TestSymbolResolver_Resolve(t *testing.T) {
	p, err := parser.NewParser(model.LangJava)
	require.NoError(t, err)
	defer p.Close()

	src := `package com.acme;
import java.io.*;
import org.vendor.VendorException;
class Local extends Exception { }
`
	pf, err := p.ParseSource("com/acme/Local.java", []byte(src))
	require.NoError(t, err)
	defer pf.Close()

	fc, err := java.NewJavaCollector().CollectDefinitions(pf.RootNode, pf.FilePath, pf.SourceBytes)
	require.NoError(t, err)
	gc := core.NewGlobalContext(java.NewJavaSymbolResolver())
	gc.RegisterFileContext(fc)

	tests := []struct {
		symbol string
		want   string
	}{
		{"Local", "com.acme.Local"},
		{"VendorException", "org.vendor.VendorException"},
		{"EOFException", "java.io.EOFException"},
		{"Exception", "java.lang.Exception"},
		{"SQLException", "java.sql.SQLException"},
		{"java.sql.SQLException", "java.sql.SQLException"},
		{"Local.Inner", "com.acme.Local.Inner"},
		{"List<String>", "List"},
		{"Unknown", "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			assert.Equal(t, tt.want, gc.ResolveSymbol(fc, tt.symbol))
		})
	}
}

func TestUncheckedFilter(t *testing.T) {
	methods, h := extract(t, "demo/Facts.java", factsSource)
	require.NotEmpty(t, methods)

	filter := java.NewUncheckedFilter()
	for name, want := range map[string]bool{
		"java.lang.IllegalStateException": true,
		"java.lang.OutOfMemoryError":      true,
		"java.lang.RuntimeException":      true,
		"java.io.IOException":             false,
		"java.lang.Exception":             false,
		"java.lang.Throwable":             false,
		"demo.Facts.FirstException":       false,
	} {
		ty, ok := h.Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, want, filter.IsExempt(h, ty), name)
	}
}
