package typecache

import (
	"reflect"
	"sync"

	"github.com/viant/tagly/format/text"
	"github.com/viant/typecache/converter"
)

// TypeInfo represents memoized metadata of a runtime type, it is shared by Descriptor and Registry.
// Returned slices are shared and must not be modified.
type TypeInfo struct {
	rType        reflect.Type
	converter    converter.Converter
	defaultValue interface{}
	properties   func() []*Property
	index        func() map[string]*Property
	fields       func() []reflect.StructField
	methods      func() []reflect.Method
}

// Type returns described type
func (i *TypeInfo) Type() reflect.Type {
	return i.rType
}

// Converter returns type converter
func (i *TypeInfo) Converter() converter.Converter {
	return i.converter
}

// DefaultValue returns type zero value
func (i *TypeInfo) DefaultValue() interface{} {
	return i.defaultValue
}

// Properties returns type properties
func (i *TypeInfo) Properties() []*Property {
	return i.properties()
}

// Fields returns direct struct fields
func (i *TypeInfo) Fields() []reflect.StructField {
	return i.fields()
}

// Methods returns exported method set
func (i *TypeInfo) Methods() []reflect.Method {
	return i.methods()
}

// Property returns property matching name or its alias
func (i *TypeInfo) Property(name string) (*Property, bool) {
	prop, ok := i.index()[name]
	return prop, ok
}

func newTypeInfo(t reflect.Type, typeConverter converter.Converter, caseFormat text.CaseFormat) *TypeInfo {
	ret := &TypeInfo{
		rType:        t,
		converter:    typeConverter,
		defaultValue: reflect.Zero(t).Interface(),
	}
	ret.properties = sync.OnceValue(func() []*Property {
		return newProperties(t)
	})
	ret.index = sync.OnceValue(func() map[string]*Property {
		return indexProperties(ret.properties(), caseFormat)
	})
	ret.fields = sync.OnceValue(func() []reflect.StructField {
		return structFields(t)
	})
	ret.methods = sync.OnceValue(func() []reflect.Method {
		return methodSet(t)
	})
	return ret
}

func indexProperties(properties []*Property, caseFormat text.CaseFormat) map[string]*Property {
	ret := make(map[string]*Property, len(properties))
	for _, prop := range properties {
		if _, ok := ret[prop.Name]; !ok {
			ret[prop.Name] = prop
		}
	}
	for _, prop := range properties {
		for _, alias := range []string{formatName(prop), prop.alias(caseFormat)} {
			if alias == "" {
				continue
			}
			if _, ok := ret[alias]; !ok {
				ret[alias] = prop
			}
		}
	}
	return ret
}

func formatName(prop *Property) string {
	if prop.Format == nil {
		return ""
	}
	return prop.Format.Name
}

func structFields(t reflect.Type) []reflect.StructField {
	if t.Kind() != reflect.Struct {
		return nil
	}
	ret := make([]reflect.StructField, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		ret = append(ret, t.Field(i))
	}
	return ret
}

func methodSet(t reflect.Type) []reflect.Method {
	if t.Kind() != reflect.Interface {
		t = reflect.PointerTo(t)
	}
	ret := make([]reflect.Method, 0, t.NumMethod())
	for i := 0; i < t.NumMethod(); i++ {
		ret = append(ret, t.Method(i))
	}
	return ret
}
