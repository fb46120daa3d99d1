package converter

import (
	"encoding"
	"fmt"
	"reflect"

	"github.com/francoispqt/gojay"
)

var (
	jsonObjectType      = reflect.TypeOf((*gojay.UnmarshalerJSONObject)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// unmarshalConverter builds target values by decoding textual sources into a freshly allocated holder
type unmarshalConverter struct {
	target    reflect.Type
	isPtr     bool
	unmarshal func(holder interface{}, data []byte) error
}

func (c *unmarshalConverter) Type() reflect.Type {
	return c.target
}

func (c *unmarshalConverter) CanConvertFrom(src reflect.Type) bool {
	return src == stringType || src == bytesType
}

func (c *unmarshalConverter) ConvertFrom(value interface{}) (interface{}, error) {
	data, ok := value.([]byte)
	if !ok {
		literal, isText := value.(string)
		if !isText {
			return nil, unsupported(value, c.target)
		}
		data = []byte(literal)
	}
	elemType := c.target
	if c.isPtr {
		elemType = c.target.Elem()
	}
	holder := reflect.New(elemType)
	if err := c.unmarshal(holder.Interface(), data); err != nil {
		return nil, fmt.Errorf("failed to decode %v: %w", c.target, err)
	}
	if c.isPtr {
		return holder.Interface(), nil
	}
	return holder.Elem().Interface(), nil
}

func newUnmarshalConverter(t reflect.Type, iface reflect.Type, unmarshal func(holder interface{}, data []byte) error) Converter {
	switch {
	case t.Kind() == reflect.Ptr && t.Elem().Kind() != reflect.Ptr && t.Implements(iface):
		return &unmarshalConverter{target: t, isPtr: true, unmarshal: unmarshal}
	case t.Kind() != reflect.Ptr && t.Kind() != reflect.Interface && reflect.PointerTo(t).Implements(iface):
		return &unmarshalConverter{target: t, unmarshal: unmarshal}
	}
	return nil
}

// jsonObjectConverter returns a converter for types decodable with gojay
func jsonObjectConverter(t reflect.Type) Converter {
	return newUnmarshalConverter(t, jsonObjectType, func(holder interface{}, data []byte) error {
		return gojay.UnmarshalJSONObject(data, holder.(gojay.UnmarshalerJSONObject))
	})
}

// textConverter returns a converter for encoding.TextUnmarshaler types
func textConverter(t reflect.Type) Converter {
	return newUnmarshalConverter(t, textUnmarshalerType, func(holder interface{}, data []byte) error {
		return holder.(encoding.TextUnmarshaler).UnmarshalText(data)
	})
}
