package typecache

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"
)

// Null represents database null
type Null struct{}

// String returns null text
func (Null) String() string {
	return "DBNull"
}

// DBNull is a database null sentinel, it converts to a target type default value
var DBNull = Null{}

func isAbsent(value interface{}) bool {
	return value == nil || value == DBNull
}

// Convert converts value to T with the default registry
func Convert[T any](value interface{}) (T, error) {
	return ConvertWith[T](shared, value)
}

// ConvertOrDefault converts value to T with the default registry, it returns T default value if conversion fails
func ConvertOrDefault[T any](value interface{}) T {
	return ConvertOrDefaultWith[T](shared, value)
}

// ConvertTo converts value to t with the default registry
func ConvertTo(value interface{}, t reflect.Type) (interface{}, error) {
	return shared.ConvertValue(value, t)
}

// ConvertWith converts value to T
func ConvertWith[T any](r *Registry, value interface{}) (T, error) {
	d, err := Lookup[T](r)
	if err != nil {
		var zero T
		return zero, err
	}
	if isAbsent(value) {
		return d.defaultValue, nil
	}
	converted, err := r.convert(value, d.info)
	if err != nil || converted == nil {
		return d.defaultValue, err
	}
	ret, ok := converted.(T)
	if !ok {
		return d.defaultValue, fmt.Errorf("%w: expected %v, but converter returned %T", ErrConversion, d.Type(), converted)
	}
	return ret, nil
}

// ConvertOrDefaultWith converts value to T, it returns T default value on any conversion error
func ConvertOrDefaultWith[T any](r *Registry, value interface{}) (ret T) {
	defer func() {
		if recovered := recover(); recovered != nil {
			var zero T
			ret = zero
			r.logger.Debug("conversion panic suppressed", zap.String("type", fmt.Sprintf("%T", value)), zap.Any("panic", recovered))
		}
	}()
	ret, err := ConvertWith[T](r, value)
	if err != nil {
		var zero T
		r.logger.Debug("conversion error suppressed", zap.Error(err))
		return zero
	}
	return ret
}

// ConvertValue converts value to t
func (r *Registry) ConvertValue(value interface{}, t reflect.Type) (interface{}, error) {
	info, err := r.Type(t)
	if err != nil {
		return nil, err
	}
	if isAbsent(value) {
		return info.DefaultValue(), nil
	}
	return r.convert(value, info)
}

func (r *Registry) convert(value interface{}, info *TypeInfo) (interface{}, error) {
	srcType := reflect.TypeOf(value)
	if typeConverter := info.Converter(); typeConverter.CanConvertFrom(srcType) {
		ret, err := typeConverter.ConvertFrom(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %v to %v: %w", ErrConversion, srcType, info.Type(), err)
		}
		return ret, nil
	}
	ret, err := r.coercer.ConvertTo(value, info.Type())
	if err != nil {
		return nil, fmt.Errorf("%w: %v to %v: %w", ErrConversion, srcType, info.Type(), err)
	}
	return ret, nil
}
