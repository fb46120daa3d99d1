package converter

import (
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/govalues/decimal"
	"github.com/rickb777/date/v2"
	"github.com/rickb777/period"
	"github.com/viant/typecache/conv"
)

var (
	stringType   = reflect.TypeOf("")
	bytesType    = reflect.TypeOf([]byte{})
	intType      = reflect.TypeOf(0)
	int64Type    = reflect.TypeOf(int64(0))
	float64Type  = reflect.TypeOf(0.0)
	timeType     = reflect.TypeOf(time.Time{})
	durationType = reflect.TypeOf(time.Duration(0))
	uuidType     = reflect.TypeOf(uuid.UUID{})
	uuidRawType  = reflect.TypeOf([16]byte{})
	dateType     = reflect.TypeOf((*date.Date)(nil)).Elem()
	decimalType  = reflect.TypeOf((*decimal.Decimal)(nil)).Elem()
	periodType   = reflect.TypeOf((*period.Period)(nil)).Elem()
)

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

var builtins = map[reflect.Type]Converter{
	timeType:     New(timeType, toTime, stringType, bytesType, intType, int64Type, float64Type),
	durationType: New(durationType, toDuration, stringType, bytesType, intType, int64Type),
	uuidType:     New(uuidType, toUUID, stringType, bytesType, uuidRawType),
	dateType:     New(dateType, toDate, stringType, bytesType, timeType),
	decimalType:  New(decimalType, toDecimal, stringType, bytesType, intType, int64Type, float64Type),
	periodType:   New(periodType, toPeriod, stringType, bytesType),
}

func text(value interface{}) (string, bool) {
	switch actual := value.(type) {
	case string:
		return actual, true
	case []byte:
		return string(actual), true
	}
	return "", false
}

func toTime(value interface{}) (interface{}, error) {
	switch actual := value.(type) {
	case int:
		return conv.UnixTime(int64(actual)), nil
	case int64:
		return conv.UnixTime(actual), nil
	case float64:
		return conv.UnixFloatTime(actual)
	}
	literal, _ := text(value)
	var err error
	for _, layout := range timeLayouts {
		var ts time.Time
		if ts, err = time.Parse(layout, literal); err == nil {
			return ts, nil
		}
	}
	return nil, fmt.Errorf("invalid time %q: %w", literal, err)
}

func toDuration(value interface{}) (interface{}, error) {
	switch actual := value.(type) {
	case int:
		return time.Duration(actual), nil
	case int64:
		return time.Duration(actual), nil
	}
	literal, _ := text(value)
	return time.ParseDuration(literal)
}

func toUUID(value interface{}) (interface{}, error) {
	switch actual := value.(type) {
	case [16]byte:
		return uuid.UUID(actual), nil
	case []byte:
		if len(actual) == 16 {
			return uuid.FromBytes(actual)
		}
		return uuid.ParseBytes(actual)
	}
	return uuid.Parse(value.(string))
}

func toDate(value interface{}) (interface{}, error) {
	if ts, ok := value.(time.Time); ok {
		return date.NewAt(ts), nil
	}
	literal, _ := text(value)
	return date.ParseISO(literal)
}

func toDecimal(value interface{}) (interface{}, error) {
	switch actual := value.(type) {
	case int:
		return decimal.New(int64(actual), 0)
	case int64:
		return decimal.New(actual, 0)
	case float64:
		return decimal.NewFromFloat64(actual)
	}
	literal, _ := text(value)
	return decimal.Parse(literal)
}

func toPeriod(value interface{}) (interface{}, error) {
	literal, _ := text(value)
	return period.Parse(literal)
}
