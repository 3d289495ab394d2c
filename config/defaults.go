package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"

	"github.com/signia-go/signia"
)

// Defaults carries textual composition defaults as they appear in
// configuration files, validated before conversion to the typed
// options.
type Defaults struct {
	Policy             string `path:"policy" validate:"omitempty,oneof=prefer-first prefer-last"`
	OnConflict         string `path:"on_conflict" validate:"omitempty,oneof=raise prefer-annotated prefer-defaulted"`
	Publish            string `path:"publish" validate:"omitempty,oneof=function method staticmethod"`
	CompareDefaults    *bool  `path:"compare_defaults"`
	CompareAnnotations *bool  `path:"compare_annotations"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		if name := field.Tag.Get("path"); name != "" {
			return name
		}
		return field.Name
	})
	return v
}

// Load populates and validates Defaults from a provider at a path.
// Invalid values fail fast with every offence reported alongside the
// accepted values.
func Load(provider Provider, path string) (Defaults, error) {
	var d Defaults
	if err := provider.Unmarshal(path, &d); err != nil {
		return Defaults{}, fmt.Errorf("config: %w", err)
	}
	if err := validate.Struct(d); err != nil {
		var fields validator.ValidationErrors
		if !errors.As(err, &fields) {
			return Defaults{}, fmt.Errorf("config: %w", err)
		}
		var agg error
		for _, fe := range fields {
			agg = multierror.Append(agg, fmt.Errorf(
				"%s: %q is not one of %s", fe.Field(), fe.Value(),
				strings.Join(strings.Fields(fe.Param()), ", ")))
		}
		return Defaults{}, fmt.Errorf("config: %w", agg)
	}
	return d, nil
}

// MergeOptions converts the textual defaults into merge options.
func (d Defaults) MergeOptions() (signia.MergeOptions, error) {
	var opts signia.MergeOptions
	switch d.Policy {
	case "":
	case "prefer-first":
		opts.Policy = signia.PreferFirst
	case "prefer-last":
		opts.Policy = signia.PreferLast
	default:
		return opts, fmt.Errorf(
			"config: policy %q is not one of prefer-first, prefer-last", d.Policy)
	}
	switch d.OnConflict {
	case "":
	case "raise":
		opts.OnConflict = signia.Raise
	case "prefer-annotated":
		opts.OnConflict = signia.PreferAnnotated
	case "prefer-defaulted":
		opts.OnConflict = signia.PreferDefaulted
	default:
		return opts, fmt.Errorf(
			"config: on_conflict %q is not one of raise, prefer-annotated, prefer-defaulted", d.OnConflict)
	}
	if d.CompareDefaults != nil {
		opts.CompareDefaults = signia.OptionOf(*d.CompareDefaults)
	}
	if d.CompareAnnotations != nil {
		opts.CompareAnnotations = signia.OptionOf(*d.CompareAnnotations)
	}
	return opts, nil
}

// FuseOptions converts the textual defaults into fuse options.
func (d Defaults) FuseOptions() (signia.FuseOptions, error) {
	merge, err := d.MergeOptions()
	if err != nil {
		return signia.FuseOptions{}, err
	}
	opts := signia.FuseOptions{MergeOptions: merge}
	switch d.Publish {
	case "":
	case "function":
		opts.Publish = signia.PublishFunction
	case "method":
		opts.Publish = signia.PublishMethod
	case "staticmethod":
		opts.Publish = signia.PublishStatic
	default:
		return opts, fmt.Errorf(
			"config: publish %q is not one of function, method, staticmethod", d.Publish)
	}
	return opts, nil
}
