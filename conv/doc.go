// Package conv provides a configurable, reflection-based value coercion facility.
// It is the last-resort conversion path: primitives, text, time, slices, maps, structs
// and custom conversion functions registered per source/destination type.
package conv
