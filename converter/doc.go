// Package converter resolves a type converter for a Go type.
//
// A Converter answers whether it can build its target type from a given source type
// and performs that conversion. Lookup consults, in order, converters registered for the
// exact type, the built-in table (time, duration, uuid, date, decimal, period), the gojay
// JSON object converter, the encoding.TextUnmarshaler converter and finally the base
// converter that only accepts sources assignable to the target.
package converter
