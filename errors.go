package typecache

import "errors"

var (
	// ErrMissingMember is returned when a property name is not found on a type
	ErrMissingMember = errors.New("missing member")
	// ErrBinding is returned when a property lacks the requested accessor direction
	// or its shape is incompatible with the requested value type
	ErrBinding = errors.New("accessor binding failed")
	// ErrSpecialization is returned when a runtime type cannot be turned into a type descriptor
	ErrSpecialization = errors.New("type specialization failed")
	// ErrConversion is returned when neither the type converter nor generic coercion can produce the target value
	ErrConversion = errors.New("conversion failed")
)
