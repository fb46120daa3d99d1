package typecache

import (
	"fmt"
	"reflect"

	"github.com/viant/tagly/format/text"
	"github.com/viant/typecache/conv"
	"github.com/viant/typecache/converter"
	"github.com/viant/typecache/internal/syncmap"
	"go.uber.org/zap"
)

// Registry memoizes type metadata and typed descriptors keyed by runtime type
type Registry struct {
	logger      *zap.Logger
	lookup      ConverterLookup
	converters  map[reflect.Type]converter.Converter
	coercer     *conv.Converter
	caseFormat  text.CaseFormat
	types       *syncmap.Map[reflect.Type, *TypeInfo]
	descriptors *syncmap.Map[reflect.Type, interface{}]
}

var shared = New()

// DefaultRegistry returns process wide registry used by package level functions
func DefaultRegistry() *Registry {
	return shared
}

// New creates a registry
func New(opts ...Option) *Registry {
	ret := &Registry{
		logger:      zap.NewNop(),
		lookup:      converter.Lookup,
		converters:  map[reflect.Type]converter.Converter{},
		coercer:     conv.NewConverter(conv.DefaultOptions()),
		types:       syncmap.New[reflect.Type, *TypeInfo](),
		descriptors: syncmap.New[reflect.Type, interface{}](),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Type returns memoized type info, failed specialization is not memoized
func (r *Registry) Type(t reflect.Type) (*TypeInfo, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil type", ErrSpecialization)
	}
	return r.types.GetOrCompute(t, func() (*TypeInfo, error) {
		return r.specialize(t)
	})
}

func (r *Registry) specialize(t reflect.Type) (*TypeInfo, error) {
	typeConverter, ok := r.converters[t]
	if !ok {
		typeConverter = r.lookup(t)
	}
	if typeConverter == nil {
		err := fmt.Errorf("%w: no converter for %v", ErrSpecialization, t)
		r.logger.Debug("type specialization failed", zap.Stringer("type", t), zap.Error(err))
		return nil, err
	}
	r.logger.Debug("type specialized", zap.Stringer("type", t))
	return newTypeInfo(t, typeConverter, r.caseFormat), nil
}

// Preload populates registry with supplied types
func (r *Registry) Preload(types ...reflect.Type) error {
	for _, t := range types {
		if _, err := r.Type(t); err != nil {
			return err
		}
	}
	return nil
}

// Len returns number of memoized types
func (r *Registry) Len() int {
	return r.types.Len()
}

// Converter returns type converter
func (r *Registry) Converter(t reflect.Type) (converter.Converter, error) {
	info, err := r.Type(t)
	if err != nil {
		return nil, err
	}
	return info.Converter(), nil
}

// DefaultValue returns type default value
func (r *Registry) DefaultValue(t reflect.Type) (interface{}, error) {
	info, err := r.Type(t)
	if err != nil {
		return nil, err
	}
	return info.DefaultValue(), nil
}

// Properties returns type properties
func (r *Registry) Properties(t reflect.Type) ([]*Property, error) {
	info, err := r.Type(t)
	if err != nil {
		return nil, err
	}
	return info.Properties(), nil
}

// Fields returns type struct fields
func (r *Registry) Fields(t reflect.Type) ([]reflect.StructField, error) {
	info, err := r.Type(t)
	if err != nil {
		return nil, err
	}
	return info.Fields(), nil
}

// Methods returns type methods
func (r *Registry) Methods(t reflect.Type) ([]reflect.Method, error) {
	info, err := r.Type(t)
	if err != nil {
		return nil, err
	}
	return info.Methods(), nil
}
