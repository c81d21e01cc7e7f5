package tools

import (
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

// Decoder turns a raw argument bag into a typed, validated struct.
// Field names in error messages come from the mapstructure tag, so they match
// the argument names clients send.
type Decoder struct {
	validate *validator.Validate
	maxInput int
}

// NewDecoder creates a Decoder whose string arguments are limited to maxInput bytes.
func NewDecoder(maxInput int) *Decoder {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Decoder{validate: v, maxInput: maxInput}
}

// Decode sanitizes args, decodes them into out (a pointer to a struct), then
// validates the result. Types are checked: the only conversion is a whole
// number into a string field. Failures are CodeInvalidParams errors naming
// the first offending argument.
func (d *Decoder) Decode(args map[string]any, out any) error {
	clean, err := sanitizeArgs(args, d.maxInput)
	if err != nil {
		return err
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     out,
		TagName:    "mapstructure",
		DecodeHook: integralToString,
	})
	if err != nil {
		return fmt.Errorf("building decoder: %w", err)
	}
	if err := dec.Decode(clean); err != nil {
		var merr *mapstructure.Error
		if errors.As(err, &merr) && len(merr.Errors) > 0 {
			return Errorf(CodeInvalidParams, "invalid argument %s", merr.Errors[0])
		}
		return Errorf(CodeInvalidParams, "invalid arguments: %v", err)
	}

	if err := d.validate.Struct(out); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return describe(verrs[0])
		}
		return fmt.Errorf("validating arguments: %w", err)
	}
	return nil
}

// integralToString lets numeric identifiers (companyId: 1441) fill string
// fields. Fractions and every other cross-type value are left to fail.
func integralToString(from, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.String {
		return data, nil
	}
	switch v := data.(type) {
	case float64:
		if !math.IsInf(v, 0) && v == math.Trunc(v) {
			return strconv.FormatFloat(v, 'f', -1, 64), nil
		}
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	}
	return data, nil
}

func describe(fe validator.FieldError) *ToolError {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return Errorf(CodeInvalidParams, "missing required argument: %s", field)
	case "oneof":
		return Errorf(CodeInvalidParams, "invalid argument %s: must be one of [%s]", field, fe.Param())
	case "min":
		if fe.Kind() == reflect.Slice {
			return Errorf(CodeInvalidParams, "invalid argument %s: must contain at least %s item(s)", field, fe.Param())
		}
		return Errorf(CodeInvalidParams, "invalid argument %s: must be at least %s", field, fe.Param())
	case "max":
		return Errorf(CodeInvalidParams, "invalid argument %s: must be at most %s", field, fe.Param())
	case "url", "http_url":
		return Errorf(CodeInvalidParams, "invalid argument %s: must be a valid URL", field)
	case "fqdn", "hostname":
		return Errorf(CodeInvalidParams, "invalid argument %s: must be a domain name", field)
	}
	return Errorf(CodeInvalidParams, "invalid argument %s: failed %s validation", field, fe.Tag())
}

// Bind adapts a typed handler into a HandlerFunc. The handler is only invoked
// once its arguments decode and validate.
func Bind[T any](d *Decoder, fn func(ctx context.Context, args T) (any, error)) HandlerFunc {
	return func(ctx context.Context, raw map[string]any) (any, error) {
		var args T
		if err := d.Decode(raw, &args); err != nil {
			return nil, err
		}
		return fn(ctx, args)
	}
}
