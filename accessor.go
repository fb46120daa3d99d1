package typecache

import (
	"fmt"
	"reflect"
	"time"
	"unsafe"

	"github.com/viant/xunsafe"
)

type (
	// Getter returns property value of holder
	Getter[T any] func(holder *T) interface{}
	// Setter converts value to property type and assigns it to holder
	Setter[T any] func(holder *T, value interface{}) error
)

var timeType = reflect.TypeOf(time.Time{})

// Getter returns memoized untyped property getter
func (d *Descriptor[T]) Getter(name string) (Getter[T], error) {
	return d.getters.GetOrCompute(name, func() (Getter[T], error) {
		prop, err := d.readable(name)
		if err != nil {
			return nil, err
		}
		if field := prop.field; field != nil {
			return func(holder *T) interface{} {
				return field.Value(unsafe.Pointer(holder))
			}, nil
		}
		method := prop.getter.Func
		return func(holder *T) interface{} {
			return method.Call([]reflect.Value{reflect.ValueOf(holder)})[0].Interface()
		}, nil
	})
}

// Setter returns memoized untyped property setter
func (d *Descriptor[T]) Setter(name string) (Setter[T], error) {
	return d.setters.GetOrCompute(name, func() (Setter[T], error) {
		prop, err := d.writable(name)
		if err != nil {
			return nil, err
		}
		if field := prop.field; field != nil {
			return func(holder *T, value interface{}) error {
				value, err := d.coerce(prop, value)
				if err != nil {
					return err
				}
				setField(field, prop.Type, unsafe.Pointer(holder), value)
				return nil
			}, nil
		}
		method := prop.setter.Func
		return func(holder *T, value interface{}) error {
			value, err := d.coerce(prop, value)
			if err != nil {
				return err
			}
			method.Call([]reflect.Value{reflect.ValueOf(holder), valueOf(value, prop.Type)})
			return nil
		}, nil
	})
}

// TypedGetter returns memoized property getter returning V
func TypedGetter[V any, T any](d *Descriptor[T], name string) (func(holder *T) V, error) {
	key := accessorKey{name: name, valueType: reflect.TypeOf((*V)(nil)).Elem()}
	ret, err := d.typedGetters.GetOrCompute(key, func() (interface{}, error) {
		getter, err := bindGetter[V](d, name, key.valueType)
		if err != nil {
			return nil, err
		}
		return getter, nil
	})
	if err != nil {
		return nil, err
	}
	return ret.(func(holder *T) V), nil
}

// TypedSetter returns memoized property setter accepting V
func TypedSetter[V any, T any](d *Descriptor[T], name string) (func(holder *T, value V), error) {
	key := accessorKey{name: name, valueType: reflect.TypeOf((*V)(nil)).Elem()}
	ret, err := d.typedSetters.GetOrCompute(key, func() (interface{}, error) {
		setter, err := bindSetter[V](d, name, key.valueType)
		if err != nil {
			return nil, err
		}
		return setter, nil
	})
	if err != nil {
		return nil, err
	}
	return ret.(func(holder *T, value V)), nil
}

func bindGetter[V any, T any](d *Descriptor[T], name string, valueType reflect.Type) (func(holder *T) V, error) {
	prop, err := d.readable(name)
	if err != nil {
		return nil, err
	}
	if field := prop.field; field != nil {
		switch {
		case prop.Type == valueType:
			return func(holder *T) V {
				return *(*V)(field.Pointer(unsafe.Pointer(holder)))
			}, nil
		case prop.Type.AssignableTo(valueType):
			return func(holder *T) V {
				ret, _ := field.Value(unsafe.Pointer(holder)).(V)
				return ret
			}, nil
		}
		return nil, incompatible(d.Type(), prop, valueType)
	}
	if fn, ok := prop.getter.Func.Interface().(func(*T) V); ok {
		return fn, nil
	}
	if !prop.Type.AssignableTo(valueType) {
		return nil, incompatible(d.Type(), prop, valueType)
	}
	method := prop.getter.Func
	return func(holder *T) V {
		ret, _ := method.Call([]reflect.Value{reflect.ValueOf(holder)})[0].Interface().(V)
		return ret
	}, nil
}

func bindSetter[V any, T any](d *Descriptor[T], name string, valueType reflect.Type) (func(holder *T, value V), error) {
	prop, err := d.writable(name)
	if err != nil {
		return nil, err
	}
	if field := prop.field; field != nil {
		switch {
		case prop.Type == valueType:
			return func(holder *T, value V) {
				*(*V)(field.Pointer(unsafe.Pointer(holder))) = value
			}, nil
		case valueType.AssignableTo(prop.Type):
			fieldType := prop.Type
			return func(holder *T, value V) {
				reflect.NewAt(fieldType, field.Pointer(unsafe.Pointer(holder))).Elem().Set(reflect.ValueOf(&value).Elem())
			}, nil
		}
		return nil, incompatible(d.Type(), prop, valueType)
	}
	if fn, ok := prop.setter.Func.Interface().(func(*T, V)); ok {
		return fn, nil
	}
	if !valueType.AssignableTo(prop.Type) {
		return nil, incompatible(d.Type(), prop, valueType)
	}
	method := prop.setter.Func
	return func(holder *T, value V) {
		method.Call([]reflect.Value{reflect.ValueOf(holder), reflect.ValueOf(&value).Elem()})
	}, nil
}

func (d *Descriptor[T]) readable(name string) (*Property, error) {
	prop, err := d.Property(name)
	if err != nil {
		return nil, err
	}
	if !prop.CanRead() {
		return nil, fmt.Errorf("%w: %v.%v is write-only", ErrBinding, d.Type(), name)
	}
	return prop, nil
}

func (d *Descriptor[T]) writable(name string) (*Property, error) {
	prop, err := d.Property(name)
	if err != nil {
		return nil, err
	}
	if !prop.CanWrite() {
		return nil, fmt.Errorf("%w: %v.%v is read-only", ErrBinding, d.Type(), name)
	}
	return prop, nil
}

// coerce converts value to property type
func (d *Descriptor[T]) coerce(prop *Property, value interface{}) (interface{}, error) {
	if value == nil || reflect.TypeOf(value) == prop.Type {
		return value, nil
	}
	if text, ok := value.(string); ok && prop.Type == timeType && prop.Format != nil && prop.Format.TimeLayout != "" {
		ts, err := prop.Format.ParseTime(text)
		if err != nil {
			return nil, fmt.Errorf("%w: %v.%v: %w", ErrConversion, d.Type(), prop.Name, err)
		}
		return ts, nil
	}
	ret, err := d.registry.ConvertValue(value, prop.Type)
	if err != nil {
		return nil, err
	}
	if ret != nil && !reflect.TypeOf(ret).AssignableTo(prop.Type) {
		return nil, fmt.Errorf("%w: %v.%v: expected %v, but had %T", ErrConversion, d.Type(), prop.Name, prop.Type, ret)
	}
	return ret, nil
}

func setField(field *xunsafe.Field, fieldType reflect.Type, holder unsafe.Pointer, value interface{}) {
	if value != nil && reflect.TypeOf(value) == fieldType {
		field.SetValue(holder, value)
		return
	}
	reflect.NewAt(fieldType, field.Pointer(holder)).Elem().Set(valueOf(value, fieldType))
}

func valueOf(value interface{}, t reflect.Type) reflect.Value {
	if value == nil {
		return reflect.Zero(t)
	}
	return reflect.ValueOf(value)
}

func incompatible(owner reflect.Type, prop *Property, valueType reflect.Type) error {
	return fmt.Errorf("%w: %v.%v of type %v is incompatible with %v", ErrBinding, owner, prop.Name, prop.Type, valueType)
}
