package conv

import (
	"reflect"
	"testing"
)

func BenchmarkConverter_StringToInt(b *testing.B) {
	c := NewConverter(DefaultOptions())
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		var dst int
		if err := c.Convert("12345", &dst); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkConverter_FloatToInt64(b *testing.B) {
	c := NewConverter(DefaultOptions())
	destType := reflect.TypeOf(int64(0))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := c.ConvertTo(123.5, destType); err != nil {
			b.Fatal(err)
		}
	}
}
