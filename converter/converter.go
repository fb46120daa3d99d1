package converter

import (
	"fmt"
	"reflect"
)

// Converter converts values of supported source types into its target type
type Converter interface {
	//Type returns converter target type
	Type() reflect.Type
	//CanConvertFrom returns true if values of src type can be converted
	CanConvertFrom(src reflect.Type) bool
	//ConvertFrom converts value into the target type
	ConvertFrom(value interface{}) (interface{}, error)
}

// Func converts a value into a target type
type Func func(value interface{}) (interface{}, error)

type funcConverter struct {
	target  reflect.Type
	sources []reflect.Type
	fn      Func
}

func (c *funcConverter) Type() reflect.Type {
	return c.target
}

func (c *funcConverter) CanConvertFrom(src reflect.Type) bool {
	for _, candidate := range c.sources {
		if candidate == src {
			return true
		}
	}
	return false
}

func (c *funcConverter) ConvertFrom(value interface{}) (interface{}, error) {
	if value == nil || !c.CanConvertFrom(reflect.TypeOf(value)) {
		return nil, unsupported(value, c.target)
	}
	return c.fn(value)
}

// New creates a converter into target accepting listed source types
func New(target reflect.Type, fn Func, sources ...reflect.Type) Converter {
	return &funcConverter{target: target, fn: fn, sources: sources}
}

type baseConverter struct {
	target reflect.Type
}

func (c *baseConverter) Type() reflect.Type {
	return c.target
}

func (c *baseConverter) CanConvertFrom(src reflect.Type) bool {
	return src != nil && src.AssignableTo(c.target)
}

func (c *baseConverter) ConvertFrom(value interface{}) (interface{}, error) {
	if value == nil || !c.CanConvertFrom(reflect.TypeOf(value)) {
		return nil, unsupported(value, c.target)
	}
	return reflect.ValueOf(value).Convert(c.target).Interface(), nil
}

// Base returns a converter that accepts only values assignable to target
func Base(target reflect.Type) Converter {
	return &baseConverter{target: target}
}

func unsupported(value interface{}, target reflect.Type) error {
	return fmt.Errorf("converter for %v cannot convert from %T", target, value)
}
