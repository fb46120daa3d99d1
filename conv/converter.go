package conv

import (
	"encoding"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	ftime "github.com/viant/tagly/format/time"
	"github.com/viant/typecache/internal/syncmap"
)

// DefaultDateLayout is the default layout used for time parsing when no layout is specified
const DefaultDateLayout = "2006-01-02 15:04:05.000"

// ErrUnsupported is returned when no coercion path exists between source and destination type
var ErrUnsupported = errors.New("unsupported conversion")

var (
	timeType            = reflect.TypeOf(time.Time{})
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
	fallbackLayouts     = []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
)

// Options contains configuration for the converter
type Options struct {
	// DateLayout specifies the Go layout for time parsing
	DateLayout string
	// DateFormat specifies ISO style date format (i.e. YYYY-MM-DD), it takes precedence over DateLayout
	DateFormat string
	// TagName is the struct tag name to look for mapping information
	TagName string
	// CaseSensitive controls whether field/key matching is case sensitive
	CaseSensitive bool
}

// DefaultOptions returns default conversion options
func DefaultOptions() Options {
	return Options{
		DateLayout: DefaultDateLayout,
		TagName:    "json",
	}
}

func (o *Options) layout() string {
	if o.DateFormat != "" {
		return ftime.DateFormatToTimeLayout(o.DateFormat)
	}
	if o.DateLayout != "" {
		return o.DateLayout
	}
	return DefaultDateLayout
}

// ConversionFunc defines a custom conversion function
type ConversionFunc func(src interface{}, dest interface{}, opts Options) error

type typeKey struct {
	srcType  reflect.Type
	destType reflect.Type
}

// Converter coerces values between compatible types
type Converter struct {
	options     Options
	structCache *syncmap.Map[reflect.Type, *structInfo]
	custom      *syncmap.Map[typeKey, ConversionFunc]
}

// NewConverter creates a new type converter with the provided options
func NewConverter(options Options) *Converter {
	return &Converter{
		options:     options,
		structCache: syncmap.New[reflect.Type, *structInfo](),
		custom:      syncmap.New[typeKey, ConversionFunc](),
	}
}

// Options returns converter options
func (c *Converter) Options() Options {
	return c.options
}

// RegisterConversion registers a custom conversion function between source and destination types.
// The first registration for a type pair wins.
func (c *Converter) RegisterConversion(srcType, destType reflect.Type, fn ConversionFunc) {
	c.custom.PutIfAbsent(typeKey{srcType, destType}, fn)
}

// ConvertTo converts src into a new value of destType
func (c *Converter) ConvertTo(src interface{}, destType reflect.Type) (interface{}, error) {
	if destType == nil {
		return nil, errors.New("destination type cannot be nil")
	}
	dest := reflect.New(destType)
	if err := c.Convert(src, dest.Interface()); err != nil {
		return nil, err
	}
	return dest.Elem().Interface(), nil
}

// Convert converts the source value into the value pointed by dest
func (c *Converter) Convert(src interface{}, dest interface{}) error {
	if dest == nil {
		return errors.New("destination cannot be nil")
	}
	destPtr := reflect.ValueOf(dest)
	if destPtr.Kind() != reflect.Ptr || destPtr.IsNil() {
		return errors.New("destination must be a non nil pointer")
	}
	if src == nil {
		return nil
	}
	return c.assign(destPtr.Elem(), reflect.ValueOf(src))
}

func (c *Converter) assign(dest, src reflect.Value) error {
	srcType := src.Type()
	destType := dest.Type()
	if fn, ok := c.custom.Get(typeKey{srcType, destType}); ok {
		return fn(src.Interface(), dest.Addr().Interface(), c.options)
	}
	if srcType.AssignableTo(destType) {
		dest.Set(src)
		return nil
	}
	if destType.Kind() == reflect.Ptr {
		if src.Kind() == reflect.Ptr {
			if src.IsNil() {
				dest.Set(reflect.Zero(destType))
				return nil
			}
			src = src.Elem()
		}
		item := reflect.New(destType.Elem())
		if err := c.assign(item.Elem(), src); err != nil {
			return err
		}
		dest.Set(item)
		return nil
	}
	if src.Kind() == reflect.Ptr || src.Kind() == reflect.Interface {
		if src.IsNil() {
			dest.Set(reflect.Zero(destType))
			return nil
		}
		return c.assign(dest, src.Elem())
	}
	if destType == timeType {
		return c.toTime(dest, src)
	}
	if ok, err := c.unmarshalText(dest, src); ok {
		return err
	}
	switch destType.Kind() {
	case reflect.String:
		return c.toString(dest, src)
	case reflect.Bool:
		return c.toBool(dest, src)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return c.toInt(dest, src)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return c.toUint(dest, src)
	case reflect.Float32, reflect.Float64:
		return c.toFloat(dest, src)
	}
	if srcType.ConvertibleTo(destType) {
		dest.Set(src.Convert(destType))
		return nil
	}
	switch destType.Kind() {
	case reflect.Slice:
		return c.toSlice(dest, src)
	case reflect.Map:
		return c.toMap(dest, src)
	case reflect.Struct:
		return c.toStruct(dest, src)
	}
	return unsupported(srcType, destType)
}

func (c *Converter) unmarshalText(dest, src reflect.Value) (bool, error) {
	if src.Kind() != reflect.String || !reflect.PointerTo(dest.Type()).Implements(textUnmarshalerType) {
		return false, nil
	}
	item := reflect.New(dest.Type())
	if err := item.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(src.String())); err != nil {
		return true, err
	}
	dest.Set(item.Elem())
	return true, nil
}

func (c *Converter) toString(dest, src reflect.Value) error {
	var result string
	switch src.Kind() {
	case reflect.String:
		result = src.String()
	case reflect.Bool:
		result = strconv.FormatBool(src.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		result = strconv.FormatInt(src.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		result = strconv.FormatUint(src.Uint(), 10)
	case reflect.Float32:
		result = strconv.FormatFloat(src.Float(), 'f', -1, 32)
	case reflect.Float64:
		result = strconv.FormatFloat(src.Float(), 'f', -1, 64)
	case reflect.Slice:
		if src.Type().Elem().Kind() != reflect.Uint8 {
			return unsupported(src.Type(), dest.Type())
		}
		result = string(src.Bytes())
	default:
		if stringer, ok := src.Interface().(fmt.Stringer); ok {
			result = stringer.String()
			break
		}
		return unsupported(src.Type(), dest.Type())
	}
	dest.SetString(result)
	return nil
}

func (c *Converter) toBool(dest, src reflect.Value) error {
	var result bool
	switch src.Kind() {
	case reflect.Bool:
		result = src.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		result = src.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		result = src.Uint() != 0
	case reflect.Float32, reflect.Float64:
		result = src.Float() != 0
	case reflect.String:
		text := strings.TrimSpace(src.String())
		var err error
		if result, err = strconv.ParseBool(text); err != nil {
			f, fErr := strconv.ParseFloat(text, 64)
			if fErr != nil {
				return fmt.Errorf("cannot convert %q to %v: %w", text, dest.Type(), err)
			}
			result = f != 0
		}
	default:
		return unsupported(src.Type(), dest.Type())
	}
	dest.SetBool(result)
	return nil
}

func (c *Converter) toInt(dest, src reflect.Value) error {
	var result int64
	switch src.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		result = src.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		v := src.Uint()
		if v > math.MaxInt64 {
			return fmt.Errorf("value %v overflows %v", v, dest.Type())
		}
		result = int64(v)
	case reflect.Float32, reflect.Float64:
		var err error
		if result, err = floatToInt(src.Float(), dest.Type()); err != nil {
			return err
		}
	case reflect.Bool:
		if src.Bool() {
			result = 1
		}
	case reflect.String:
		text := strings.TrimSpace(src.String())
		var err error
		if strings.Contains(text, ".") {
			var f float64
			if f, err = strconv.ParseFloat(text, 64); err == nil {
				if result, err = floatToInt(f, dest.Type()); err != nil {
					return err
				}
			}
		} else {
			result, err = strconv.ParseInt(text, 0, 64)
		}
		if err != nil {
			return fmt.Errorf("cannot convert %q to %v: %w", text, dest.Type(), err)
		}
	default:
		return unsupported(src.Type(), dest.Type())
	}
	if dest.OverflowInt(result) {
		return fmt.Errorf("value %v overflows %v", result, dest.Type())
	}
	dest.SetInt(result)
	return nil
}

func (c *Converter) toUint(dest, src reflect.Value) error {
	var result uint64
	switch src.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v := src.Int()
		if v < 0 {
			return fmt.Errorf("cannot convert negative value %d to %v", v, dest.Type())
		}
		result = uint64(v)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		result = src.Uint()
	case reflect.Float32, reflect.Float64:
		var err error
		if result, err = floatToUint(src.Float(), dest.Type()); err != nil {
			return err
		}
	case reflect.Bool:
		if src.Bool() {
			result = 1
		}
	case reflect.String:
		text := strings.TrimSpace(src.String())
		var err error
		if strings.Contains(text, ".") {
			var f float64
			if f, err = strconv.ParseFloat(text, 64); err == nil {
				if result, err = floatToUint(f, dest.Type()); err != nil {
					return err
				}
			}
		} else {
			result, err = strconv.ParseUint(text, 0, 64)
		}
		if err != nil {
			return fmt.Errorf("cannot convert %q to %v: %w", text, dest.Type(), err)
		}
	default:
		return unsupported(src.Type(), dest.Type())
	}
	if dest.OverflowUint(result) {
		return fmt.Errorf("value %v overflows %v", result, dest.Type())
	}
	dest.SetUint(result)
	return nil
}

// floatToInt truncates f, 2^63 is the first float64 outside int64 range
func floatToInt(f float64, destType reflect.Type) (int64, error) {
	if math.IsNaN(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("value %v overflows %v", f, destType)
	}
	return int64(f), nil
}

func floatToUint(f float64, destType reflect.Type) (uint64, error) {
	if f < 0 {
		return 0, fmt.Errorf("cannot convert negative value %v to %v", f, destType)
	}
	if math.IsNaN(f) || f >= math.MaxUint64 {
		return 0, fmt.Errorf("value %v overflows %v", f, destType)
	}
	return uint64(f), nil
}

func (c *Converter) toFloat(dest, src reflect.Value) error {
	var result float64
	switch src.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		result = float64(src.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		result = float64(src.Uint())
	case reflect.Float32, reflect.Float64:
		result = src.Float()
	case reflect.Bool:
		if src.Bool() {
			result = 1
		}
	case reflect.String:
		text := strings.TrimSpace(src.String())
		var err error
		if result, err = strconv.ParseFloat(text, 64); err != nil {
			return fmt.Errorf("cannot convert %q to %v: %w", text, dest.Type(), err)
		}
	default:
		return unsupported(src.Type(), dest.Type())
	}
	dest.SetFloat(result)
	return nil
}

func (c *Converter) toTime(dest, src reflect.Value) error {
	var ts time.Time
	switch src.Kind() {
	case reflect.String:
		var err error
		if ts, err = c.parseTime(src.String()); err != nil {
			return err
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		ts = UnixTime(src.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v := src.Uint()
		if v > math.MaxInt64 {
			return fmt.Errorf("value %v overflows %v", v, dest.Type())
		}
		ts = UnixTime(int64(v))
	case reflect.Float32, reflect.Float64:
		var err error
		if ts, err = UnixFloatTime(src.Float()); err != nil {
			return err
		}
	default:
		return unsupported(src.Type(), dest.Type())
	}
	dest.Set(reflect.ValueOf(ts))
	return nil
}

func (c *Converter) parseTime(text string) (time.Time, error) {
	ts, err := time.Parse(c.options.layout(), text)
	if err == nil {
		return ts, nil
	}
	for _, layout := range fallbackLayouts {
		if ts, err = time.Parse(layout, text); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse time %q: %w", text, err)
}

// UnixTime converts unix seconds to time, values above 1e10 are treated as unix nanoseconds
func UnixTime(v int64) time.Time {
	if v > 1e10 {
		return time.Unix(0, v)
	}
	return time.Unix(v, 0)
}

// UnixFloatTime converts fractional unix seconds to time
func UnixFloatTime(v float64) (time.Time, error) {
	secs, err := floatToInt(v, timeType)
	if err != nil {
		return time.Time{}, err
	}
	if secs > 1e10 {
		return time.Unix(0, secs), nil
	}
	return time.Unix(secs, int64((v-float64(secs))*1e9)), nil
}

func (c *Converter) toSlice(dest, src reflect.Value) error {
	destType := dest.Type()
	if destType.Elem().Kind() == reflect.Uint8 && src.Kind() == reflect.String {
		dest.SetBytes([]byte(src.String()))
		return nil
	}
	if src.Kind() != reflect.Slice && src.Kind() != reflect.Array {
		result := reflect.MakeSlice(destType, 1, 1)
		if err := c.assign(result.Index(0), src); err != nil {
			return err
		}
		dest.Set(result)
		return nil
	}
	length := src.Len()
	result := reflect.MakeSlice(destType, length, length)
	for i := 0; i < length; i++ {
		if err := c.assign(result.Index(i), src.Index(i)); err != nil {
			return fmt.Errorf("failed to convert slice item %d: %w", i, err)
		}
	}
	dest.Set(result)
	return nil
}

func (c *Converter) toMap(dest, src reflect.Value) error {
	destType := dest.Type()
	result := reflect.MakeMap(destType)
	put := func(key string, keyValue, value reflect.Value) error {
		k := reflect.New(destType.Key()).Elem()
		if err := c.assign(k, keyValue); err != nil {
			return fmt.Errorf("failed to convert map key %v: %w", key, err)
		}
		v := reflect.New(destType.Elem()).Elem()
		if err := c.assign(v, value); err != nil {
			return fmt.Errorf("failed to convert map value %v: %w", key, err)
		}
		result.SetMapIndex(k, v)
		return nil
	}
	switch src.Kind() {
	case reflect.Map:
		iter := src.MapRange()
		for iter.Next() {
			if err := put(fmt.Sprint(iter.Key().Interface()), iter.Key(), iter.Value()); err != nil {
				return err
			}
		}
	case reflect.Struct:
		info := c.structInfo(src.Type())
		for _, field := range info.fields {
			if field.tagName == "-" {
				continue
			}
			if err := put(field.name, reflect.ValueOf(field.name), src.FieldByIndex(field.index)); err != nil {
				return err
			}
		}
	default:
		return unsupported(src.Type(), destType)
	}
	dest.Set(result)
	return nil
}

func (c *Converter) toStruct(dest, src reflect.Value) error {
	values := map[string]reflect.Value{}
	switch src.Kind() {
	case reflect.Map:
		iter := src.MapRange()
		for iter.Next() {
			values[c.matchKey(fmt.Sprint(iter.Key().Interface()))] = iter.Value()
		}
	case reflect.Struct:
		for _, field := range c.structInfo(src.Type()).fields {
			values[c.matchKey(field.name)] = src.FieldByIndex(field.index)
			if field.tagName != "" && field.tagName != "-" {
				values[c.matchKey(field.tagName)] = src.FieldByIndex(field.index)
			}
		}
	default:
		return unsupported(src.Type(), dest.Type())
	}
	for _, field := range c.structInfo(dest.Type()).fields {
		if field.tagName == "-" {
			continue
		}
		var value reflect.Value
		found := false
		if field.tagName != "" {
			value, found = values[c.matchKey(field.tagName)]
		}
		if !found {
			if value, found = values[c.matchKey(field.name)]; !found {
				continue
			}
		}
		if err := c.assign(dest.FieldByIndex(field.index), value); err != nil {
			return fmt.Errorf("failed to convert field %v: %w", field.name, err)
		}
	}
	return nil
}

func (c *Converter) matchKey(key string) string {
	if c.options.CaseSensitive {
		return key
	}
	return strings.ToLower(key)
}

type structField struct {
	name    string
	tagName string
	index   []int
}

type structInfo struct {
	fields []structField
}

func (c *Converter) structInfo(t reflect.Type) *structInfo {
	info, _ := c.structCache.GetOrCompute(t, func() (*structInfo, error) {
		info := &structInfo{}
		c.buildStructInfo(t, info, nil)
		return info, nil
	})
	return info
}

func (c *Converter) buildStructInfo(t reflect.Type, info *structInfo, index []int) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldIndex := append(append(make([]int, 0, len(index)+1), index...), i)
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			c.buildStructInfo(field.Type, info, fieldIndex)
			continue
		}
		if !field.IsExported() {
			continue
		}
		tagName := ""
		if tag := field.Tag.Get(c.options.TagName); tag != "" {
			tagName = strings.Split(tag, ",")[0]
		}
		info.fields = append(info.fields, structField{name: field.Name, tagName: tagName, index: fieldIndex})
	}
}

func unsupported(src, dest reflect.Type) error {
	return fmt.Errorf("%w: %v to %v", ErrUnsupported, src, dest)
}
