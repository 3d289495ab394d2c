package signia

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type BindTestSuite struct {
	suite.Suite
}

func (suite *BindTestSuite) bindable() Signature {
	return MustSignature(nil,
		PosOnly("a"),
		Pos("b"),
		VarPos("rest"),
		Key("c").WithDefault(3),
		VarKey("extra"),
	)
}

func (suite *BindTestSuite) TestBind() {
	suite.Run("Positional", func() {
		b, err := suite.bindable().Bind([]any{1, 2}, nil)
		suite.NoError(err)
		a, _ := b.Get("a")
		suite.Equal(1, a)
		v, _ := b.Get("b")
		suite.Equal(2, v)
	})

	suite.Run("VariadicRest", func() {
		b, err := suite.bindable().Bind([]any{1, 2, 3, 4}, nil)
		suite.NoError(err)
		rest, _ := b.Get("rest")
		suite.Equal([]any{3, 4}, rest)
	})

	suite.Run("KeywordOverflow", func() {
		b, err := suite.bindable().Bind(
			[]any{1, 2}, map[string]any{"c": 7, "other": true})
		suite.NoError(err)
		c, _ := b.Get("c")
		suite.Equal(7, c)
		extra, _ := b.Get("extra")
		suite.Equal(map[string]any{"other": true}, extra)
	})
}

func (suite *BindTestSuite) TestBindFailures() {
	suite.Run("TooManyArguments", func() {
		sig := MustSignature(nil, PosOnly("a"), Pos("b"))
		_, err := sig.Bind([]any{1, 2, 3}, nil)
		var tooMany *TooManyArgumentsError
		suite.ErrorAs(err, &tooMany)
		suite.Equal(3, tooMany.Given)
		suite.Equal(2, tooMany.Max)
		suite.Contains(err.Error(), "call takes at most 2")
	})

	suite.Run("MissingArgument", func() {
		_, err := suite.bindable().Bind([]any{1}, nil)
		var missing *MissingArgumentError
		suite.ErrorAs(err, &missing)
		suite.Equal("b", missing.Name)
	})

	suite.Run("UnexpectedKeyword", func() {
		sig := MustSignature(nil, Pos("a"))
		_, err := sig.Bind([]any{1}, map[string]any{"bogus": 0})
		var unexpected *UnexpectedKeywordError
		suite.ErrorAs(err, &unexpected)
		suite.Equal("bogus", unexpected.Keyword)
	})

	suite.Run("DuplicateArgument", func() {
		sig := MustSignature(nil, Pos("a"), Pos("b"))
		_, err := sig.Bind([]any{1, 2}, map[string]any{"b": 3})
		var dup *DuplicateArgumentError
		suite.ErrorAs(err, &dup)
		suite.Equal("b", dup.Name)
	})

	suite.Run("PositionalOnlyRejectsKeyword", func() {
		sig := MustSignature(nil, PosOnly("a"))
		_, err := sig.Bind(nil, map[string]any{"a": 1})
		var unexpected *UnexpectedKeywordError
		suite.ErrorAs(err, &unexpected)
		suite.Equal("a", unexpected.Keyword)
	})
}

func (suite *BindTestSuite) TestApplyDefaults() {
	b, err := suite.bindable().Bind([]any{1, 2}, nil)
	suite.NoError(err)
	b.ApplyDefaults()

	c, _ := b.Get("c")
	suite.Equal(3, c)
	rest, _ := b.Get("rest")
	suite.Equal([]any{}, rest)
	extra, _ := b.Get("extra")
	suite.Equal(map[string]any{}, extra)
}

func (suite *BindTestSuite) TestArgumentsInDeclarationOrder() {
	b, err := suite.bindable().Bind(
		[]any{1, 2, 9}, map[string]any{"c": 7, "zed": 0})
	suite.NoError(err)

	suite.Equal([]BoundArgument{
		{Name: "a", Value: 1},
		{Name: "b", Value: 2},
		{Name: "rest", Value: []any{9}},
		{Name: "c", Value: 7},
		{Name: "extra", Value: map[string]any{"zed": 0}},
	}, b.Arguments())
}

func TestBindTestSuite(t *testing.T) {
	suite.Run(t, new(BindTestSuite))
}
