package typecache

import (
	"reflect"

	"github.com/viant/tagly/format/text"
	"github.com/viant/typecache/conv"
	"github.com/viant/typecache/converter"
	"go.uber.org/zap"
)

type (
	// ConverterLookup resolves a type converter for a type
	ConverterLookup func(t reflect.Type) converter.Converter

	//Option represents registry option
	Option func(r *Registry)
)

// WithLogger returns option setting registry logger
func WithLogger(logger *zap.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithConverterLookup returns option replacing converter.Lookup as the converter resolution facility
func WithConverterLookup(lookup ConverterLookup) Option {
	return func(r *Registry) {
		if lookup != nil {
			r.lookup = lookup
		}
	}
}

// WithConverters returns option with registry scoped converters, they take precedence over converter lookup
func WithConverters(converters ...converter.Converter) Option {
	return func(r *Registry) {
		for _, candidate := range converters {
			r.converters[candidate.Type()] = candidate
		}
	}
}

// WithCoercer returns option with generic coercion converter
func WithCoercer(coercer *conv.Converter) Option {
	return func(r *Registry) {
		if coercer != nil {
			r.coercer = coercer
		}
	}
}

// WithCaseFormat returns option enabling property lookup by case formatted alias
func WithCaseFormat(caseFormat text.CaseFormat) Option {
	return func(r *Registry) {
		r.caseFormat = caseFormat
	}
}
