package typecache

import (
	"reflect"
	"strings"

	"github.com/viant/tagly/format"
	"github.com/viant/tagly/format/text"
	"github.com/viant/xunsafe"
)

const setterPrefix = "Set"

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Property represents a named readable and/or writable member of a type
type Property struct {
	Name   string
	Type   reflect.Type
	Tag    reflect.StructTag
	Format *format.Tag //nil for method backed properties
	field  *xunsafe.Field
	getter *reflect.Method
	setter *reflect.Method
}

// isAccessorPair returns true for a field or a method property with both getter and setter
func (p *Property) isAccessorPair() bool {
	return p.field != nil || (p.getter != nil && p.setter != nil)
}

// IsField returns true if property is backed by a struct field
func (p *Property) IsField() bool {
	return p.field != nil
}

// CanRead returns true if property has read accessor
func (p *Property) CanRead() bool {
	return p.field != nil || p.getter != nil
}

// CanWrite returns true if property has write accessor
func (p *Property) CanWrite() bool {
	return p.field != nil || p.setter != nil
}

func (p *Property) alias(caseFormat text.CaseFormat) string {
	if caseFormat == "" {
		return ""
	}
	src := text.DetectCaseFormat(p.Name)
	if !src.IsDefined() {
		src = text.CaseFormatUpperCamel
	}
	return src.Format(p.Name, caseFormat)
}

func newProperties(t reflect.Type) []*Property {
	var result []*Property
	names := map[string]bool{}
	if t.Kind() == reflect.Struct {
		for i := 0; i < t.NumField(); i++ {
			structField := t.Field(i)
			if !structField.IsExported() {
				continue
			}
			prop := &Property{
				Name:  structField.Name,
				Type:  structField.Type,
				Tag:   structField.Tag,
				field: xunsafe.NewField(structField),
			}
			if tag, err := format.Parse(structField.Tag); err == nil {
				prop.Format = tag
			}
			names[prop.Name] = true
			result = append(result, prop)
		}
	}
	if t.Kind() == reflect.Interface {
		return result
	}
	return append(result, methodProperties(reflect.PointerTo(t), names)...)
}

func methodProperties(ptrType reflect.Type, skip map[string]bool) []*Property {
	var order []string
	getters := map[string]reflect.Method{}
	setters := map[string]reflect.Method{}
	for i := 0; i < ptrType.NumMethod(); i++ {
		method := ptrType.Method(i)
		methodType := method.Type
		name := ""
		switch {
		case methodType.NumIn() == 1 && methodType.NumOut() == 1 && methodType.Out(0) != errorType:
			name = method.Name
			getters[name] = method
		case methodType.NumIn() == 2 && methodType.NumOut() == 0 && len(method.Name) > len(setterPrefix) && strings.HasPrefix(method.Name, setterPrefix):
			name = method.Name[len(setterPrefix):]
			setters[name] = method
		default:
			continue
		}
		if skip[name] {
			continue
		}
		skip[name] = true
		order = append(order, name)
	}
	var result []*Property
	for _, name := range order {
		prop := &Property{Name: name}
		getter, hasGetter := getters[name]
		setter, hasSetter := setters[name]
		if hasGetter {
			prop.getter = &getter
			prop.Type = getter.Type.Out(0)
		}
		if hasSetter && (!hasGetter || setter.Type.In(1) == prop.Type) {
			prop.setter = &setter
			prop.Type = setter.Type.In(1)
		}
		result = append(result, prop)
	}
	return result
}
