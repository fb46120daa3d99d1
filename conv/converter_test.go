package conv

import (
	"errors"
	"math"
	"net"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Basic struct {
	Id int
}

type SimpleStruct struct {
	Name        string
	Age         int
	Active      bool
	Score       float64
	DateJoined  time.Time
	Tags        []string
	Collection  []*Basic
	IgnoreField string `json:"-"`
	Renamed     string `json:"custom_name"`
	unexported  string
}

type Celsius float64

func TestConverter_Primitives(t *testing.T) {
	converter := NewConverter(DefaultOptions())
	var testCases = []struct {
		description string
		src         interface{}
		destType    reflect.Type
		expect      interface{}
	}{
		{description: "string from int", src: 123, destType: reflect.TypeOf(""), expect: "123"},
		{description: "string from float", src: 123.456, destType: reflect.TypeOf(""), expect: "123.456"},
		{description: "string from bytes", src: []byte("hello"), destType: reflect.TypeOf(""), expect: "hello"},
		{description: "string from duration", src: time.Second, destType: reflect.TypeOf(""), expect: "1000000000"},
		{description: "bool from string", src: "true", destType: reflect.TypeOf(true), expect: true},
		{description: "bool from numeric string", src: "0", destType: reflect.TypeOf(true), expect: false},
		{description: "bool from int", src: 1, destType: reflect.TypeOf(true), expect: true},
		{description: "int from string", src: "42", destType: reflect.TypeOf(0), expect: 42},
		{description: "int from hex string", src: "0x10", destType: reflect.TypeOf(0), expect: 16},
		{description: "int from decimal string", src: "123.5", destType: reflect.TypeOf(0), expect: 123},
		{description: "int from float", src: 123.5, destType: reflect.TypeOf(0), expect: 123},
		{description: "int64 from min float", src: float64(math.MinInt64), destType: reflect.TypeOf(int64(0)), expect: int64(math.MinInt64)},
		{description: "uint64 from float", src: 1e19, destType: reflect.TypeOf(uint64(0)), expect: uint64(1e19)},
		{description: "int8 from int64", src: int64(8), destType: reflect.TypeOf(int8(0)), expect: int8(8)},
		{description: "uint from string", src: "7", destType: reflect.TypeOf(uint(0)), expect: uint(7)},
		{description: "float from string", src: "123.5", destType: reflect.TypeOf(0.0), expect: 123.5},
		{description: "float from bool", src: true, destType: reflect.TypeOf(0.0), expect: 1.0},
		{description: "named float from int", src: 21, destType: reflect.TypeOf(Celsius(0)), expect: Celsius(21)},
		{description: "pointer from value", src: "5", destType: reflect.TypeOf((*int)(nil)), expect: intPtr(5)},
		{description: "value from pointer", src: intPtr(6), destType: reflect.TypeOf(""), expect: "6"},
		{description: "interface from value", src: 6, destType: reflect.TypeOf((*interface{})(nil)).Elem(), expect: 6},
	}

	for _, testCase := range testCases {
		actual, err := converter.ConvertTo(testCase.src, testCase.destType)
		if !assert.NoError(t, err, testCase.description) {
			continue
		}
		assert.EqualValues(t, testCase.expect, actual, testCase.description)
	}
}

func TestConverter_Errors(t *testing.T) {
	converter := NewConverter(DefaultOptions())
	var testCases = []struct {
		description string
		src         interface{}
		destType    reflect.Type
	}{
		{description: "int from text", src: "not-a-number", destType: reflect.TypeOf(0)},
		{description: "int8 overflow", src: 300, destType: reflect.TypeOf(int8(0))},
		{description: "negative uint", src: -1, destType: reflect.TypeOf(uint(0))},
		{description: "bool from text", src: "maybe", destType: reflect.TypeOf(true)},
		{description: "float from struct", src: Basic{}, destType: reflect.TypeOf(0.0)},
		{description: "chan from string", src: "x", destType: reflect.TypeOf(make(chan int))},
		{description: "int64 from large float", src: 1e20, destType: reflect.TypeOf(int64(0))},
		{description: "int64 from large decimal string", src: "100000000000000000000.5", destType: reflect.TypeOf(int64(0))},
		{description: "int64 from 2^63 float", src: float64(math.MaxInt64), destType: reflect.TypeOf(int64(0))},
		{description: "int from NaN", src: math.NaN(), destType: reflect.TypeOf(0)},
		{description: "int from +Inf", src: math.Inf(1), destType: reflect.TypeOf(0)},
		{description: "int from -Inf", src: math.Inf(-1), destType: reflect.TypeOf(0)},
		{description: "int64 from large uint64", src: uint64(math.MaxUint64), destType: reflect.TypeOf(int64(0))},
		{description: "uint64 from large float", src: 1e30, destType: reflect.TypeOf(uint64(0))},
		{description: "uint64 from large decimal string", src: "1000000000000000000000000000000.5", destType: reflect.TypeOf(uint64(0))},
		{description: "uint64 from NaN", src: math.NaN(), destType: reflect.TypeOf(uint64(0))},
		{description: "uint from negative decimal string", src: "-1.5", destType: reflect.TypeOf(uint(0))},
		{description: "time from large float", src: 1e30, destType: reflect.TypeOf(time.Time{})},
	}
	for _, testCase := range testCases {
		_, err := converter.ConvertTo(testCase.src, testCase.destType)
		assert.Error(t, err, testCase.description)
	}
	_, err := converter.ConvertTo(Basic{}, reflect.TypeOf(make(chan int)))
	assert.True(t, errors.Is(err, ErrUnsupported))
}

func TestConverter_Convert_Destination(t *testing.T) {
	converter := NewConverter(DefaultOptions())
	var i int
	assert.Error(t, converter.Convert(1, nil))
	assert.Error(t, converter.Convert(1, i))
	assert.Error(t, converter.Convert(1, (*int)(nil)))
	require.NoError(t, converter.Convert(nil, &i))
	assert.Equal(t, 0, i)
}

func TestConverter_Time(t *testing.T) {
	refTime := time.Date(2023, 1, 15, 12, 30, 45, 0, time.UTC)
	var testCases = []struct {
		description string
		options     Options
		src         interface{}
		expect      time.Time
	}{
		{description: "RFC3339", options: DefaultOptions(), src: "2023-01-15T12:30:45Z", expect: refTime},
		{description: "default layout", options: DefaultOptions(), src: "2023-01-15 12:30:45.000", expect: refTime},
		{description: "unix timestamp", options: DefaultOptions(), src: refTime.Unix(), expect: refTime},
		{description: "unix nano timestamp", options: DefaultOptions(), src: refTime.UnixNano(), expect: refTime},
		{description: "unix float timestamp", options: DefaultOptions(), src: float64(refTime.Unix()) + 0.5, expect: refTime.Add(500 * time.Millisecond)},
		{description: "time value", options: DefaultOptions(), src: refTime, expect: refTime},
		{description: "date format", options: Options{DateFormat: "YYYY/MM/DD"}, src: "2023/01/15", expect: time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)},
	}
	for _, testCase := range testCases {
		converter := NewConverter(testCase.options)
		var actual time.Time
		if !assert.NoError(t, converter.Convert(testCase.src, &actual), testCase.description) {
			continue
		}
		assert.True(t, testCase.expect.Equal(actual), testCase.description)
	}
}

func TestConverter_TextUnmarshaler(t *testing.T) {
	converter := NewConverter(DefaultOptions())
	var ip net.IP
	require.NoError(t, converter.Convert("10.0.0.1", &ip))
	assert.Equal(t, "10.0.0.1", ip.String())
}

func TestConverter_Slice(t *testing.T) {
	converter := NewConverter(DefaultOptions())
	var testCases = []struct {
		description string
		src         interface{}
		dest        interface{}
		expect      interface{}
	}{
		{description: "[]int from []float64", src: []float64{1.1, 2.2, 3.3}, dest: &[]int{}, expect: []int{1, 2, 3}},
		{description: "[]string from []int", src: []int{1, 2, 3}, dest: &[]string{}, expect: []string{"1", "2", "3"}},
		{description: "[]string from string", src: "hello", dest: &[]string{}, expect: []string{"hello"}},
		{description: "[]string from []interface{}", src: []interface{}{"hello", 123, true}, dest: &[]string{}, expect: []string{"hello", "123", "true"}},
		{description: "[]byte from string", src: "ab", dest: &[]byte{}, expect: []byte("ab")},
		{description: "[]*Basic from []map", src: []interface{}{map[string]interface{}{"id": 1}}, dest: &[]*Basic{}, expect: []*Basic{{Id: 1}}},
	}
	for _, testCase := range testCases {
		if !assert.NoError(t, converter.Convert(testCase.src, testCase.dest), testCase.description) {
			continue
		}
		assert.EqualValues(t, testCase.expect, reflect.ValueOf(testCase.dest).Elem().Interface(), testCase.description)
	}
}

func TestConverter_Map(t *testing.T) {
	converter := NewConverter(DefaultOptions())
	type Person struct {
		Name  string
		Age   int
		Token string `json:"-"`
	}
	var fromStruct map[string]interface{}
	require.NoError(t, converter.Convert(Person{Name: "John", Age: 30, Token: "x"}, &fromStruct))
	assert.Equal(t, map[string]interface{}{"Name": "John", "Age": 30}, fromStruct)

	var fromMap map[string]string
	require.NoError(t, converter.Convert(map[string]int{"one": 1}, &fromMap))
	assert.Equal(t, map[string]string{"one": "1"}, fromMap)
}

func TestConverter_Struct(t *testing.T) {
	converter := NewConverter(DefaultOptions())
	src := map[string]interface{}{
		"name":        "Jane",
		"AGE":         "42",
		"active":      1,
		"score":       "99.5",
		"dateJoined":  "2023-01-15T12:30:45Z",
		"tags":        []interface{}{"a", "b"},
		"collection":  []interface{}{map[string]interface{}{"id": 3}},
		"IgnoreField": "ignored",
		"custom_name": "renamed",
	}
	var actual SimpleStruct
	require.NoError(t, converter.Convert(src, &actual))
	assert.Equal(t, "Jane", actual.Name)
	assert.Equal(t, 42, actual.Age)
	assert.True(t, actual.Active)
	assert.Equal(t, 99.5, actual.Score)
	assert.Equal(t, 2023, actual.DateJoined.Year())
	assert.Equal(t, []string{"a", "b"}, actual.Tags)
	assert.Equal(t, []*Basic{{Id: 3}}, actual.Collection)
	assert.Equal(t, "", actual.IgnoreField)
	assert.Equal(t, "renamed", actual.Renamed)
	assert.Equal(t, "", actual.unexported)

	type Copy struct {
		Name string
		Age  string
	}
	var copied Copy
	require.NoError(t, converter.Convert(&actual, &copied))
	assert.Equal(t, Copy{Name: "Jane", Age: "42"}, copied)
}

func TestConverter_RegisterConversion(t *testing.T) {
	converter := NewConverter(DefaultOptions())
	converter.RegisterConversion(reflect.TypeOf(""), reflect.TypeOf(Basic{}), func(src interface{}, dest interface{}, opts Options) error {
		dest.(*Basic).Id = len(src.(string))
		return nil
	})
	var actual Basic
	require.NoError(t, converter.Convert("abcd", &actual))
	assert.Equal(t, 4, actual.Id)
}

func intPtr(i int) *int {
	return &i
}
