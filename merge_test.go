package signia

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/suite"
)

var (
	intT  = reflect.TypeOf(int(0))
	strT  = reflect.TypeOf("")
	f64T  = reflect.TypeOf(float64(0))
	boolT = reflect.TypeOf(false)
)

func mergeLeft() *Callable {
	return MustCallable("left",
		func(a int, b string, args []float64, c int, kwargs KeywordArgs) string {
			return b
		},
		MustSignature(strT,
			PosOnly("a").Typed(intT),
			Pos("b").Typed(strT),
			VarPos("args").Typed(f64T),
			Key("c").Typed(intT).WithDefault(1),
			VarKey("kwargs").Typed(boolT),
		))
}

func mergeRight(cDefault int) *Callable {
	return MustCallable("right",
		func(a, c int, d float64, kwargs KeywordArgs) string {
			return "right"
		},
		MustSignature(strT,
			PosOnly("a").Typed(intT),
			Key("c").Typed(intT).WithDefault(cDefault),
			Key("d").Typed(f64T),
			VarKey("kwargs").Typed(boolT),
		))
}

type MergeTestSuite struct {
	suite.Suite
}

func (suite *MergeTestSuite) TestGroupsByKind() {
	sig, err := MergeSignatures([]Introspectable{mergeLeft(), mergeRight(1)})
	suite.NoError(err)

	expected := []struct {
		name string
		kind ParameterKind
	}{
		{"a", PositionalOnly},
		{"b", PositionalOrKeyword},
		{"args", VariadicPositional},
		{"c", KeywordOnly},
		{"d", KeywordOnly},
		{"kwargs", VariadicKeyword},
	}
	params := sig.Parameters()
	suite.Len(params, len(expected))
	for i, e := range expected {
		suite.Equal(e.name, params[i].Name)
		suite.Equal(e.kind, params[i].Kind)
	}

	c, _ := sig.Parameter("c")
	suite.True(c.HasDefault)
	suite.Equal(1, c.Default)
	suite.Equal(strT, sig.Return())
}

func (suite *MergeTestSuite) TestIdempotent() {
	sources := []Introspectable{mergeLeft(), mergeRight(1)}
	first, err := MergeSignatures(sources)
	suite.NoError(err)
	second, err := MergeSignatures(sources)
	suite.NoError(err)
	suite.True(first.Equal(second))
}

func (suite *MergeTestSuite) TestConflicts() {
	suite.Run("DefaultMismatchRaises", func() {
		_, err := MergeSignatures([]Introspectable{mergeLeft(), mergeRight(2)})
		suite.Error(err)
		var conflict *SignatureConflictError
		suite.ErrorAs(err, &conflict)
		suite.Equal("c", conflict.Name)
		suite.Contains(err.Error(), "default 1 vs 2")
	})

	suite.Run("KindMismatchAlwaysRaises", func() {
		f := MustLift(func(x int) int { return x }, "x")
		g := MustCallable("g",
			func(x int) int { return x },
			MustSignature(intT, Key("x").Typed(intT)))

		_, err := MergeSignatures([]Introspectable{f, g},
			MergeOptions{CompareDefaults: OptionFalse, CompareAnnotations: OptionFalse})
		var conflict *SignatureConflictError
		suite.ErrorAs(err, &conflict)
		suite.Contains(err.Error(), "kind")
	})

	suite.Run("AnnotationSymmetry", func() {
		f := MustLift(func(x int) int { return x }, "x")
		g := MustLift(func(x string) string { return x }, "x")

		_, err := MergeSignatures([]Introspectable{f, g})
		var conflict *SignatureConflictError
		suite.ErrorAs(err, &conflict)
		suite.Equal("x", conflict.Name)

		sig, err := MergeSignatures([]Introspectable{f, g},
			MergeOptions{CompareAnnotations: OptionFalse})
		suite.NoError(err)
		x, _ := sig.Parameter("x")
		suite.Equal(intT, x.Annotation)

		sig, err = MergeSignatures([]Introspectable{f, g},
			MergeOptions{Policy: PreferLast, CompareAnnotations: OptionFalse})
		suite.NoError(err)
		x, _ = sig.Parameter("x")
		suite.Equal(strT, x.Annotation)
	})
}

func (suite *MergeTestSuite) TestBackfillNeverOverwrites() {
	withDefault := MustCallable("withDefault",
		func(x int) int { return x },
		MustSignature(intT, Pos("x").Typed(intT).WithDefault(1)))
	bare := MustCallable("bare",
		func(x any) any { return x },
		MustSignature(nil, Pos("x")))

	for _, sources := range [][]Introspectable{
		{withDefault, bare},
		{bare, withDefault},
	} {
		sig, err := MergeSignatures(sources)
		suite.NoError(err)
		x, _ := sig.Parameter("x")
		suite.True(x.HasDefault)
		suite.Equal(1, x.Default)
		suite.Equal(intT, x.Annotation)
	}
}

func (suite *MergeTestSuite) TestPolicyPreferLast() {
	sig, err := MergeSignatures(
		[]Introspectable{mergeLeft(), mergeRight(2)},
		MergeOptions{Policy: PreferLast, CompareDefaults: OptionFalse})
	suite.NoError(err)
	c, _ := sig.Parameter("c")
	suite.Equal(2, c.Default)
}

func (suite *MergeTestSuite) TestPreferAnnotated() {
	plain := MustCallable("plain",
		func(x any) any { return x },
		MustSignature(nil, Pos("x").WithDefault(1)))
	annotated := MustCallable("annotated",
		func(x int) int { return x },
		MustSignature(intT, Pos("x").Typed(intT).WithDefault(2)))

	sig, err := MergeSignatures([]Introspectable{plain, annotated},
		MergeOptions{OnConflict: PreferAnnotated})
	suite.NoError(err)
	x, _ := sig.Parameter("x")
	suite.Equal(2, x.Default)
	suite.Equal(intT, x.Annotation)
}

func (suite *MergeTestSuite) TestPreferDefaulted() {
	required := MustLift(func(x int) int { return x }, "x")
	defaulted := MustCallable("defaulted",
		func(x string) string { return x },
		MustSignature(strT, Pos("x").Typed(strT).WithDefault("five")))

	sig, err := MergeSignatures([]Introspectable{required, defaulted},
		MergeOptions{OnConflict: PreferDefaulted})
	suite.NoError(err)
	x, _ := sig.Parameter("x")
	suite.Equal("five", x.Default)
	suite.Equal(strT, x.Annotation)
}

func (suite *MergeTestSuite) TestCustomResolver() {
	resolved := false
	resolver := func(name string, existing, incoming Parameter, conflicts []Conflict) (Parameter, error) {
		resolved = true
		suite.Equal("c", name)
		suite.Len(conflicts, 1)
		suite.Equal("default", conflicts[0].Attribute)
		suite.Equal(1, existing.Default)
		suite.Equal(2, incoming.Default)
		return existing.WithDefault(42), nil
	}

	sig, err := MergeSignatures(
		[]Introspectable{mergeLeft(), mergeRight(2)},
		MergeOptions{OnConflict: ResolveWith(resolver)})
	suite.NoError(err)
	suite.True(resolved)
	c, _ := sig.Parameter("c")
	suite.Equal(42, c.Default)
	suite.Equal(KeywordOnly, c.Kind)
}

func (suite *MergeTestSuite) TestOwnershipAndVariadics() {
	suite.Run("Metadata", func() {
		primary := MustCallable("primary",
			func(value int, values []int, options KeywordArgs) int { return value },
			MustSignature(intT,
				PosOnly("value").Typed(intT),
				VarPos("values").Typed(intT),
				VarKey("options").Typed(intT)))
		helper := MustCallable("helper",
			func(toggle bool) {},
			MustSignature(nil, Key("toggle").Typed(boolT).WithDefault(false)))

		merged, err := Merge(asSources([]*Callable{primary, helper}))
		suite.NoError(err)
		suite.Equal(map[string]int{
			"value": 0, "values": 0, "options": 0, "toggle": 1,
		}, merged.Owners())
		suite.True(merged.HasVariadicPositional())
		suite.True(merged.HasVariadicKeyword())
	})

	suite.Run("ResolverMovesOwnership", func() {
		left := MustCallable("left",
			func(a int, flag bool) int { return a },
			MustSignature(intT,
				Pos("a").Typed(intT).WithDefault(1),
				Key("flag").Typed(boolT).WithDefault(false)))
		right := MustCallable("right",
			func(a int, extra string) int { return a },
			MustSignature(intT,
				Pos("a").Typed(intT).WithDefault(2),
				Key("extra").Typed(strT).WithDefault("x")))

		merged, err := Merge(asSources([]*Callable{left, right}),
			MergeOptions{OnConflict: ResolveWith(
				func(name string, existing, incoming Parameter, conflicts []Conflict) (Parameter, error) {
					return incoming, nil
				})})
		suite.NoError(err)
		suite.Equal(map[string]int{"a": 1, "flag": 0, "extra": 1}, merged.Owners())
		suite.False(merged.HasVariadicPositional())
		suite.False(merged.HasVariadicKeyword())
	})
}

func (suite *MergeTestSuite) TestReturnAnnotationLastNonEmptyWins() {
	returnsInt := MustLift(func(x int) int { return x }, "x")
	returnsNothing := MustLift(func(y int) {}, "y")
	returnsString := MustLift(func(z int) string { return "" }, "z")

	sig, err := MergeSignatures([]Introspectable{returnsInt, returnsNothing})
	suite.NoError(err)
	suite.Equal(intT, sig.Return())

	sig, err = MergeSignatures([]Introspectable{returnsInt, returnsString})
	suite.NoError(err)
	suite.Equal(strT, sig.Return())
}

func (suite *MergeTestSuite) TestRequiresInput() {
	_, err := MergeSignatures(nil)
	suite.ErrorIs(err, ErrNoSources)
}

func TestMergeTestSuite(t *testing.T) {
	suite.Run(t, new(MergeTestSuite))
}
