package typecache

import (
	"fmt"
	"reflect"

	"github.com/viant/typecache/converter"
	"github.com/viant/typecache/internal/syncmap"
)

type accessorKey struct {
	name      string
	valueType reflect.Type
}

// Descriptor represents memoized metadata and accessors of type T
type Descriptor[T any] struct {
	registry     *Registry
	info         *TypeInfo
	defaultValue T
	getters      *syncmap.Map[string, Getter[T]]
	setters      *syncmap.Map[string, Setter[T]]
	typedGetters *syncmap.Map[accessorKey, interface{}]
	typedSetters *syncmap.Map[accessorKey, interface{}]
}

// Of returns T descriptor from the default registry
func Of[T any]() *Descriptor[T] {
	ret, err := Lookup[T](shared)
	if err != nil { //default registry resolves a converter for every type
		panic(err)
	}
	return ret
}

// Lookup returns T descriptor memoized by registry
func Lookup[T any](r *Registry) (*Descriptor[T], error) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	ret, err := r.descriptors.GetOrCompute(t, func() (interface{}, error) {
		info, err := r.Type(t)
		if err != nil {
			return nil, err
		}
		return newDescriptor[T](r, info), nil
	})
	if err != nil {
		return nil, err
	}
	return ret.(*Descriptor[T]), nil
}

func newDescriptor[T any](r *Registry, info *TypeInfo) *Descriptor[T] {
	return &Descriptor[T]{
		registry:     r,
		info:         info,
		getters:      syncmap.New[string, Getter[T]](),
		setters:      syncmap.New[string, Setter[T]](),
		typedGetters: syncmap.New[accessorKey, interface{}](),
		typedSetters: syncmap.New[accessorKey, interface{}](),
	}
}

// Type returns described type
func (d *Descriptor[T]) Type() reflect.Type {
	return d.info.Type()
}

// Info returns type info shared with registry
func (d *Descriptor[T]) Info() *TypeInfo {
	return d.info
}

// Converter returns T converter
func (d *Descriptor[T]) Converter() converter.Converter {
	return d.info.Converter()
}

// DefaultValue returns T zero value
func (d *Descriptor[T]) DefaultValue() T {
	return d.defaultValue
}

// Properties returns T properties
func (d *Descriptor[T]) Properties() []*Property {
	return d.info.Properties()
}

// Fields returns T struct fields
func (d *Descriptor[T]) Fields() []reflect.StructField {
	return d.info.Fields()
}

// Methods returns *T method set
func (d *Descriptor[T]) Methods() []reflect.Method {
	return d.info.Methods()
}

// Property returns property by name
func (d *Descriptor[T]) Property(name string) (*Property, error) {
	prop, ok := d.info.Property(name)
	if !ok {
		return nil, fmt.Errorf("%w: %v.%v", ErrMissingMember, d.info.Type(), name)
	}
	return prop, nil
}

// Visit calls fn with every field and getter/setter pair property value of holder until fn returns false or an error.
// Read-only method properties are not called.
func (d *Descriptor[T]) Visit(holder *T, fn func(name string, value interface{}) (bool, error)) error {
	for _, prop := range d.Properties() {
		if !prop.isAccessorPair() {
			continue
		}
		getter, err := d.Getter(prop.Name)
		if err != nil {
			return err
		}
		continueVisit, err := fn(prop.Name, getter(holder))
		if err != nil {
			return err
		}
		if !continueVisit {
			break
		}
	}
	return nil
}
