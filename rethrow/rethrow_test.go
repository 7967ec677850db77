package rethrow_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodMac/go-treesitter-rethrow-analyzer/model"
	"github.com/CodMac/go-treesitter-rethrow-analyzer/rethrow"
)

const (
	firstQN  = "Test_1_7_Exceptions.FirstException"
	secondQN = "Test_1_7_Exceptions.SecondException"
	ioQN     = "java.io.IOException"
	sqlQN    = "java.sql.SQLException"
	fnfQN    = "java.io.FileNotFoundException"
	npeQN    = "java.lang.NullPointerException"
)

type fixture struct {
	h *model.Hierarchy
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	b := model.NewHierarchyBuilder()
	b.Add(firstQN, model.ExceptionQN)
	b.Add(secondQN, model.ExceptionQN)
	h, err := b.Build()
	require.NoError(t, err)
	return &fixture{h: h}
}

func (f *fixture) types(t *testing.T, names ...string) []*model.ExceptionType {
	t.Helper()
	out := make([]*model.ExceptionType, 0, len(names))
	for _, n := range names {
		et, ok := f.h.Lookup(n)
		require.True(t, ok, "type %s not found", n)
		out = append(out, et)
	}
	return out
}

func names(types []*model.ExceptionType) []string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		out = append(out, t.Name)
	}
	return out
}

// rethrowMethod 构造 "try { ... } catch (<catchTypes> e) { throw e; }" 形式的方法事实
func (f *fixture) rethrowMethod(t *testing.T, thrown, catchTypes, declared []string, reassigned bool) *model.MethodSignature {
	t.Helper()
	return &model.MethodSignature{
		Name:          "rethrowException",
		QualifiedName: "Test_1_7_Exceptions.rethrowException",
		Declared:      f.types(t, declared...),
		Trys: []*model.TryStatement{{
			Block: model.TryBlock{Thrown: f.types(t, thrown...)},
			Catches: []*model.CatchClause{{
				Types:      f.types(t, catchTypes...),
				Param:      "e",
				Rethrows:   true,
				Reassigned: reassigned,
				Location:   &model.Location{FilePath: "Test.java", StartLine: 9},
			}},
		}},
	}
}

func TestResolve(t *testing.T) {
	f := newFixture(t)

	b, err := rethrow.Resolve(f.h, f.types(t, firstQN))
	require.NoError(t, err)
	assert.Equal(t, firstQN, b.Static.Name)
	assert.False(t, b.Immutable, "uni-catch parameter is not implicitly final")

	b, err = rethrow.Resolve(f.h, f.types(t, firstQN, secondQN))
	require.NoError(t, err)
	assert.Equal(t, model.ExceptionQN, b.Static.Name)
	assert.True(t, b.Immutable, "multi-catch parameter is implicitly final")

	b, err = rethrow.Resolve(f.h, f.types(t, ioQN, sqlQN))
	require.NoError(t, err)
	assert.Equal(t, model.ExceptionQN, b.Static.Name)

	_, err = rethrow.Resolve(f.h, nil)
	assert.ErrorIs(t, err, rethrow.ErrEmptyCatchSet)
}

func TestResolveClause(t *testing.T) {
	f := newFixture(t)
	b, err := rethrow.ResolveClause(f.h, &model.CatchClause{Types: f.types(t, fnfQN, ioQN), Param: "ex"})
	require.NoError(t, err)
	assert.Equal(t, "ex", b.Param)
	assert.Equal(t, ioQN, b.Static.Name)
	assert.True(t, b.Immutable)
}

func TestNarrow(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name    string
		thrown  []string
		clauses [][]string
		target  int
		usage   model.ParamUsage
		want    []string
	}{
		{
			name:    "supertype catch narrows to thrown subtypes",
			thrown:  []string{firstQN, secondQN},
			clauses: [][]string{{model.ExceptionQN}},
			want:    []string{firstQN, secondQN},
		},
		{
			name:    "multi-catch keeps both alternatives",
			thrown:  []string{ioQN, sqlQN},
			clauses: [][]string{{ioQN, sqlQN}},
			want:    []string{ioQN, sqlQN},
		},
		{
			name:    "preceding clause handles subtype",
			thrown:  []string{firstQN, secondQN},
			clauses: [][]string{{firstQN}, {model.ExceptionQN}},
			target:  1,
			want:    []string{secondQN},
		},
		{
			name:    "thrown supertype of catch type is related",
			thrown:  []string{ioQN},
			clauses: [][]string{{fnfQN}},
			want:    []string{ioQN},
		},
		{
			name:    "preceding subtype catch does not handle its supertype",
			thrown:  []string{ioQN},
			clauses: [][]string{{fnfQN}, {ioQN}},
			target:  1,
			want:    []string{ioQN},
		},
		{
			name:    "unrelated thrown type is dropped",
			thrown:  []string{sqlQN, ioQN},
			clauses: [][]string{{ioQN}},
			want:    []string{ioQN},
		},
		{
			name:    "empty try block yields empty set",
			clauses: [][]string{{model.ExceptionQN}},
			want:    []string{},
		},
		{
			name:    "reassigned parameter degrades to static type",
			thrown:  []string{firstQN, secondQN},
			clauses: [][]string{{firstQN, secondQN}},
			usage:   model.ParamUsage{Reassigned: true},
			want:    []string{model.ExceptionQN},
		},
		{
			name:    "duplicates collapse",
			thrown:  []string{firstQN, firstQN},
			clauses: [][]string{{model.ExceptionQN}},
			want:    []string{firstQN},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clauses := make([]*model.CatchClause, 0, len(tt.clauses))
			for _, ct := range tt.clauses {
				clauses = append(clauses, &model.CatchClause{Types: f.types(t, ct...), Param: "e", Rethrows: true})
			}
			got, err := rethrow.Narrow(f.h, f.types(t, tt.thrown...), clauses, tt.target, tt.usage)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, names(got)); diff != "" {
				t.Errorf("Narrow() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNarrow_OutOfRange(t *testing.T) {
	f := newFixture(t)
	_, err := rethrow.Narrow(f.h, nil, nil, 0, model.ParamUsage{})
	assert.Error(t, err)
}

func TestCheck_RethrowDeclarations(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name       string
		thrown     []string
		catchTypes []string
		declared   []string
		reassigned bool
		want       []string // 缺失声明的类型
	}{
		{"precise types", []string{firstQN, secondQN}, []string{model.ExceptionQN}, []string{firstQN, secondQN}, false, nil},
		{"supertype declared", []string{firstQN, secondQN}, []string{model.ExceptionQN}, []string{model.ExceptionQN}, false, nil},
		{"one type missing", []string{firstQN, secondQN}, []string{model.ExceptionQN}, []string{firstQN}, false, []string{secondQN}},
		{"nothing declared", []string{firstQN, secondQN}, []string{model.ExceptionQN}, nil, false, []string{firstQN, secondQN}},
		{"multi-catch", []string{ioQN, sqlQN}, []string{ioQN, sqlQN}, []string{ioQN, sqlQN}, false, nil},
		{"reassigned uni-catch falls back to static type", []string{firstQN, secondQN}, []string{model.ExceptionQN}, []string{firstQN, secondQN}, true, []string{model.ExceptionQN}},
		{"reassigned uni-catch with supertype declared", []string{firstQN, secondQN}, []string{model.ExceptionQN}, []string{model.ExceptionQN}, true, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := f.rethrowMethod(t, tt.thrown, tt.catchTypes, tt.declared, tt.reassigned)
			v, err := rethrow.Check(f.h, m, rethrow.Options{})
			require.NoError(t, err)

			var missing []string
			for _, d := range v.Diagnostics {
				require.Equal(t, model.MissingThrowsDeclaration, d.Kind)
				missing = append(missing, d.Type)
			}
			if diff := cmp.Diff(tt.want, missing); diff != "" {
				t.Errorf("missing declarations mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, len(tt.want) == 0, v.Passed())
		})
	}
}

func TestCheck_MultiCatchReassignment(t *testing.T) {
	f := newFixture(t)
	m := f.rethrowMethod(t, []string{ioQN, sqlQN}, []string{ioQN, sqlQN}, []string{ioQN, sqlQN}, true)

	v, err := rethrow.Check(f.h, m, rethrow.Options{})
	require.NoError(t, err)
	require.Len(t, v.Diagnostics, 2)

	assert.Equal(t, model.IllegalReassignment, v.Diagnostics[0].Kind)
	assert.Equal(t, "e", v.Diagnostics[0].Param)
	assert.Equal(t, "multi-catch parameter e may not be assigned", v.Diagnostics[0].Message)

	// 赋值后不再收窄，只能声明静态类型 Exception
	assert.Equal(t, model.MissingThrowsDeclaration, v.Diagnostics[1].Kind)
	assert.Equal(t, model.ExceptionQN, v.Diagnostics[1].Type)
	assert.Equal(t, "unreported exception Exception; must be caught or declared to be thrown", v.Diagnostics[1].Message)
}

func TestCheck_ReassignmentWithoutRethrow(t *testing.T) {
	f := newFixture(t)
	m := f.rethrowMethod(t, []string{ioQN, sqlQN}, []string{ioQN, sqlQN}, nil, true)
	m.Trys[0].Catches[0].Rethrows = false

	v, err := rethrow.Check(f.h, m, rethrow.Options{})
	require.NoError(t, err)
	require.Len(t, v.Diagnostics, 1)
	assert.Equal(t, model.IllegalReassignment, v.Diagnostics[0].Kind)
}

func TestCheck_ExemptTypes(t *testing.T) {
	f := newFixture(t)
	runtime, _ := f.h.Lookup(model.RuntimeExceptionQN)
	m := f.rethrowMethod(t, []string{npeQN, ioQN}, []string{model.ExceptionQN}, nil, false)

	opts := rethrow.Options{Exempt: func(et *model.ExceptionType) bool { return f.h.IsSubtype(et, runtime) }}
	v, err := rethrow.Check(f.h, m, opts)
	require.NoError(t, err)
	require.Len(t, v.Diagnostics, 1)
	assert.Equal(t, ioQN, v.Diagnostics[0].Type)
}

func TestCheck_MultipleTryStatements(t *testing.T) {
	f := newFixture(t)
	m := &model.MethodSignature{
		QualifiedName: "T.m",
		Declared:      f.types(t, ioQN),
		Trys: []*model.TryStatement{
			{
				Block:   model.TryBlock{Thrown: f.types(t, ioQN)},
				Catches: []*model.CatchClause{{Types: f.types(t, model.ExceptionQN), Param: "e", Rethrows: true}},
			},
			{
				Block: model.TryBlock{Thrown: f.types(t, firstQN, sqlQN)},
				Catches: []*model.CatchClause{
					{Types: f.types(t, firstQN), Param: "a"},
					{Types: f.types(t, model.ExceptionQN), Param: "b", Rethrows: true},
				},
			},
		},
	}
	v, err := rethrow.Check(f.h, m, rethrow.Options{})
	require.NoError(t, err)
	require.Len(t, v.Diagnostics, 1)
	assert.Equal(t, sqlQN, v.Diagnostics[0].Type)
}

func TestCheck_RethrowCaughtByEnclosingTry(t *testing.T) {
	f := newFixture(t)
	outer := &model.TryStatement{
		Block:   model.TryBlock{Thrown: f.types(t, firstQN)},
		Catches: []*model.CatchClause{{Types: f.types(t, firstQN), Param: "outer"}},
	}
	inner := &model.TryStatement{
		Block:     model.TryBlock{Thrown: f.types(t, firstQN, sqlQN)},
		Catches:   []*model.CatchClause{{Types: f.types(t, model.ExceptionQN), Param: "e", Rethrows: true}},
		Enclosing: []*model.TryStatement{outer},
	}
	m := &model.MethodSignature{QualifiedName: "T.nested", Trys: []*model.TryStatement{outer, inner}}

	v, err := rethrow.Check(f.h, m, rethrow.Options{})
	require.NoError(t, err)
	require.Len(t, v.Diagnostics, 1, "FirstException is handled by the enclosing catch")
	assert.Equal(t, sqlQN, v.Diagnostics[0].Type)
}

func TestCheck_RethrowSites(t *testing.T) {
	f := newFixture(t)
	// catch 块内的 try 只捕获 FirstException
	guard := &model.TryStatement{
		Catches: []*model.CatchClause{{Types: f.types(t, firstQN), Param: "x"}},
	}
	newMethod := func(sites ...model.RethrowSite) *model.MethodSignature {
		ts := &model.TryStatement{
			Block: model.TryBlock{Thrown: f.types(t, firstQN, sqlQN)},
			Catches: []*model.CatchClause{{
				Types: f.types(t, model.ExceptionQN), Param: "e", Rethrows: true, Sites: sites,
			}},
		}
		return &model.MethodSignature{QualifiedName: "T.sites", Trys: []*model.TryStatement{ts, guard}}
	}

	tests := []struct {
		name  string
		sites []model.RethrowSite
		want  []string
	}{
		{"single guarded site", []model.RethrowSite{{Guards: []*model.TryStatement{guard}}}, []string{sqlQN}},
		{"guarded and unguarded sites", []model.RethrowSite{{Guards: []*model.TryStatement{guard}}, {}}, []string{firstQN, sqlQN}},
		{"no sites falls back to enclosing", nil, []string{firstQN, sqlQN}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := rethrow.Check(f.h, newMethod(tt.sites...), rethrow.Options{})
			require.NoError(t, err)
			var got []string
			for _, d := range v.Diagnostics {
				assert.Equal(t, model.MissingThrowsDeclaration, d.Kind)
				got = append(got, d.Type)
			}
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestCheck_Idempotent(t *testing.T) {
	f := newFixture(t)
	m := f.rethrowMethod(t, []string{firstQN, secondQN}, []string{firstQN, secondQN}, []string{firstQN}, true)

	first, err := rethrow.Check(f.h, m, rethrow.Options{})
	require.NoError(t, err)
	second, err := rethrow.Check(f.h, m, rethrow.Options{})
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Check() is not idempotent (-first +second):\n%s", diff)
	}
}

func TestCheck_EmptyCatchSet(t *testing.T) {
	f := newFixture(t)
	m := &model.MethodSignature{
		QualifiedName: "T.m",
		Trys:          []*model.TryStatement{{Catches: []*model.CatchClause{{Param: "e", Rethrows: true}}}},
	}
	_, err := rethrow.Check(f.h, m, rethrow.Options{})
	assert.ErrorIs(t, err, rethrow.ErrEmptyCatchSet)
}
