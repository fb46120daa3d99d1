// Package typecache memoizes type introspection and value conversion.
//
// A Registry computes, once per runtime type, the type converter, the default value
// and member lists, and shares them with typed Descriptor[T] values that additionally
// memoize bound property accessors. Package level Convert, ConvertOrDefault and ConvertTo
// use the process wide default registry.
package typecache
