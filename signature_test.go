package signia

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type SignatureTestSuite struct {
	suite.Suite
}

func (suite *SignatureTestSuite) TestNewSignature() {
	suite.Run("CanonicalOrder", func() {
		sig, err := NewSignature(intT,
			PosOnly("a"), Pos("b"), VarPos("rest"), Key("c"), VarKey("extra"))
		suite.NoError(err)
		suite.Len(sig.Parameters(), 5)
	})

	suite.Run("RejectsUnnamed", func() {
		_, err := NewSignature(nil, Pos(""))
		suite.ErrorContains(err, "no name")
	})

	suite.Run("RejectsDuplicates", func() {
		_, err := NewSignature(nil, Pos("a"), Key("a"))
		suite.ErrorContains(err, `duplicate parameter "a"`)
	})

	suite.Run("RejectsOutOfOrderKinds", func() {
		_, err := NewSignature(nil, Key("c"), Pos("b"))
		suite.ErrorContains(err, "appears after")

		_, err = NewSignature(nil, VarKey("extra"), VarPos("rest"))
		suite.ErrorContains(err, "appears after")
	})

	suite.Run("RejectsRepeatedVariadics", func() {
		_, err := NewSignature(nil, VarPos("a"), VarPos("b"))
		suite.ErrorContains(err, "multiple variadic-positional")

		_, err = NewSignature(nil, VarKey("a"), VarKey("b"))
		suite.ErrorContains(err, "multiple variadic-keyword")
	})
}

func (suite *SignatureTestSuite) TestLookup() {
	sig := MustSignature(intT, Pos("a").Typed(intT), Key("b").WithDefault(2))

	a, ok := sig.Parameter("a")
	suite.True(ok)
	suite.Equal(intT, a.Annotation)

	_, ok = sig.Parameter("missing")
	suite.False(ok)

	suite.Equal(intT, sig.Return())
}

func (suite *SignatureTestSuite) TestEqual() {
	a := MustSignature(intT, Pos("x").Typed(intT).WithDefault(1))
	b := MustSignature(intT, Pos("x").Typed(intT).WithDefault(1))
	c := MustSignature(intT, Pos("x").Typed(intT).WithDefault(2))

	suite.True(a.Equal(b))
	suite.False(a.Equal(c))
}

func (suite *SignatureTestSuite) TestString() {
	sig := MustSignature(intT,
		Pos("x").Typed(intT),
		VarPos("rest"),
		Key("flag").Typed(boolT).WithDefault(true),
		VarKey("extra"))
	suite.Equal("(x int, *rest, flag bool = true, **extra) -> int", sig.String())
}

func (suite *SignatureTestSuite) TestParametersAreCopies() {
	sig := MustSignature(nil, Pos("x"))
	params := sig.Parameters()
	params[0].Name = "mutated"

	x, ok := sig.Parameter("x")
	suite.True(ok)
	suite.Equal("x", x.Name)
}

func TestSignatureTestSuite(t *testing.T) {
	suite.Run(t, new(SignatureTestSuite))
}
