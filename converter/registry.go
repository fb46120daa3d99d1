package converter

import (
	"reflect"

	"github.com/viant/typecache/internal/syncmap"
)

var registry = syncmap.New[reflect.Type, Converter]()

// Register registers converter for its target type, the first registration for a type wins.
// It returns the converter retained for the type.
func Register(converter Converter) Converter {
	return registry.PutIfAbsent(converter.Type(), converter)
}

// Lookup returns a converter for supplied type, it never returns nil for non nil type
func Lookup(t reflect.Type) Converter {
	if t == nil {
		return nil
	}
	if ret, ok := registry.Get(t); ok {
		return ret
	}
	if ret, ok := builtins[t]; ok {
		return ret
	}
	if ret := jsonObjectConverter(t); ret != nil {
		return ret
	}
	if ret := textConverter(t); ret != nil {
		return ret
	}
	return Base(t)
}
