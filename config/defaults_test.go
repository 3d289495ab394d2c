package config_test

import (
	"testing"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/stretchr/testify/suite"

	"github.com/signia-go/signia"
	"github.com/signia-go/signia/config"
	koanfp "github.com/signia-go/signia/config/koanf"
)

type DefaultsTestSuite struct {
	suite.Suite
}

func (suite *DefaultsTestSuite) load(values map[string]interface{}) (config.Defaults, error) {
	k := koanf.New(".")
	suite.NoError(k.Load(confmap.Provider(map[string]interface{}{
		"signia": values,
	}, "."), nil))
	return config.Load(koanfp.P(k), "signia")
}

func (suite *DefaultsTestSuite) TestLoad() {
	d, err := suite.load(map[string]interface{}{
		"policy":           "prefer-last",
		"on_conflict":      "prefer-annotated",
		"publish":          "method",
		"compare_defaults": false,
	})
	suite.NoError(err)
	suite.Equal("prefer-last", d.Policy)
	suite.Equal("prefer-annotated", d.OnConflict)
	suite.Equal("method", d.Publish)
	suite.NotNil(d.CompareDefaults)
	suite.False(*d.CompareDefaults)
	suite.Nil(d.CompareAnnotations)
}

func (suite *DefaultsTestSuite) TestLoadEmpty() {
	d, err := suite.load(map[string]interface{}{})
	suite.NoError(err)
	suite.Equal(config.Defaults{}, d)
}

func (suite *DefaultsTestSuite) TestLoadInvalid() {
	_, err := suite.load(map[string]interface{}{
		"policy":  "sometimes",
		"publish": "classmethod",
	})
	suite.ErrorContains(err, `policy: "sometimes" is not one of prefer-first, prefer-last`)
	suite.ErrorContains(err, `publish: "classmethod" is not one of function, method, staticmethod`)
}

func (suite *DefaultsTestSuite) TestMergeOptions() {
	d, err := suite.load(map[string]interface{}{
		"policy":      "prefer-last",
		"on_conflict": "prefer-annotated",
	})
	suite.NoError(err)
	opts, err := d.MergeOptions()
	suite.NoError(err)
	suite.Equal(signia.PreferLast, opts.Policy)

	// Both sides annotate, so prefer-annotated falls back to the
	// configured policy and the later source wins.
	first := signia.MustLift(func(x int) int { return x }, "x")
	second := signia.MustLift(func(x string) string { return x }, "x")
	sig, err := signia.MergeSignatures(
		[]signia.Introspectable{first, second}, opts)
	suite.NoError(err)
	x, _ := sig.Parameter("x")
	suite.Equal("string", x.Annotation.String())
}

func (suite *DefaultsTestSuite) TestMergeOptionsInvalid() {
	_, err := config.Defaults{Policy: "x"}.MergeOptions()
	suite.ErrorContains(err, "prefer-first, prefer-last")

	_, err = config.Defaults{OnConflict: "x"}.MergeOptions()
	suite.ErrorContains(err, "raise, prefer-annotated, prefer-defaulted")
}

func (suite *DefaultsTestSuite) TestFuseOptions() {
	d, err := suite.load(map[string]interface{}{"publish": "method"})
	suite.NoError(err)
	opts, err := d.FuseOptions()
	suite.NoError(err)
	suite.Equal(signia.PublishMethod, opts.Publish)

	_, err = config.Defaults{Publish: "x"}.FuseOptions()
	suite.ErrorContains(err, "function, method, staticmethod")
}

func TestDefaultsTestSuite(t *testing.T) {
	suite.Run(t, new(DefaultsTestSuite))
}
