// FILE: lixenwraith/settings/accessor_test.go
package settings

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore() Map {
	return Map{
		"string":   "hello",
		"empty":    "",
		"bool":     "true",
		"boolUp":   " FALSE ",
		"boolBad":  "yes",
		"int":      "200",
		"intNeg":   "-42",
		"intBad":   "12abc",
		"int8Big":  "300",
		"uint":     "7",
		"uintNeg":  "-1",
		"float":    "3.25",
		"floatExp": "1e3",
		"char":     "x",
		"charWide": "é",
		"chars":    "xy",
		"time":     "2024-12-25T10:00:00Z",
		"date":     "2024-12-25",
		"duration": "1m30s",
		"clock":    "01:30:00",
		"days":     "2.06:00:00",
		"uuid":     "6ba7b810-9dad-11d1-80b4-00c04fd430c8",
		"uuidBad":  "6ba7b8109dad11d180b400c04fd430c8",
	}
}

// TestTryGetPrimitives tests well-formed values for each primitive reader
func TestTryGetPrimitives(t *testing.T) {
	s := testStore()

	t.Run("String", func(t *testing.T) {
		v, ok := TryGetString(s, "string")
		assert.True(t, ok)
		assert.Equal(t, "hello", v)
	})

	t.Run("Bool", func(t *testing.T) {
		v, ok := TryGetBool(s, "bool")
		assert.True(t, ok)
		assert.True(t, v)

		v, ok = TryGetBool(s, "boolUp")
		assert.True(t, ok)
		assert.False(t, v)
	})

	t.Run("Integers", func(t *testing.T) {
		i, ok := TryGetInt(s, "int")
		assert.True(t, ok)
		assert.Equal(t, 200, i)

		i32, ok := TryGetInt32(s, "intNeg")
		assert.True(t, ok)
		assert.Equal(t, int32(-42), i32)

		i64, ok := TryGetInt64(s, "int")
		assert.True(t, ok)
		assert.Equal(t, int64(200), i64)

		u8, ok := TryGetUint8(s, "int")
		assert.True(t, ok)
		assert.Equal(t, uint8(200), u8)

		u, ok := TryGetUint(s, "uint")
		assert.True(t, ok)
		assert.Equal(t, uint(7), u)
	})

	t.Run("Floats", func(t *testing.T) {
		f, ok := TryGetFloat64(s, "float")
		assert.True(t, ok)
		assert.Equal(t, 3.25, f)

		f32, ok := TryGetFloat32(s, "floatExp")
		assert.True(t, ok)
		assert.Equal(t, float32(1000), f32)
	})

	t.Run("Rune", func(t *testing.T) {
		r, ok := TryGetRune(s, "char")
		assert.True(t, ok)
		assert.Equal(t, 'x', r)

		r, ok = TryGetRune(s, "charWide")
		assert.True(t, ok)
		assert.Equal(t, 'é', r)
	})

	t.Run("Time", func(t *testing.T) {
		v, ok := TryGetTime(s, "time")
		assert.True(t, ok)
		assert.Equal(t, time.Date(2024, 12, 25, 10, 0, 0, 0, time.UTC), v.UTC())

		v, ok = TryGetTime(s, "date")
		assert.True(t, ok)
		assert.Equal(t, 25, v.Day())
	})

	t.Run("Duration", func(t *testing.T) {
		d, ok := TryGetDuration(s, "duration")
		assert.True(t, ok)
		assert.Equal(t, 90*time.Second, d)

		d, ok = TryGetDuration(s, "clock")
		assert.True(t, ok)
		assert.Equal(t, 90*time.Minute, d)

		d, ok = TryGetDuration(s, "days")
		assert.True(t, ok)
		assert.Equal(t, 54*time.Hour, d)
	})

	t.Run("UUID", func(t *testing.T) {
		v, ok := TryGetUUID(s, "uuid")
		assert.True(t, ok)
		assert.Equal(t, uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"), v)
	})
}

// TestTryGetFailures tests that absent, empty and malformed values fail with the zero value
func TestTryGetFailures(t *testing.T) {
	s := testStore()

	tests := []struct {
		name string
		try  func() (any, bool)
		zero any
	}{
		{"AbsentString", func() (any, bool) { return TryGetString(s, "missing") }, ""},
		{"EmptyString", func() (any, bool) { return TryGetString(s, "empty") }, ""},
		{"AbsentBool", func() (any, bool) { return TryGetBool(s, "missing") }, false},
		{"BadBool", func() (any, bool) { return TryGetBool(s, "boolBad") }, false},
		{"BadInt", func() (any, bool) { return TryGetInt(s, "intBad") }, 0},
		{"EmptyInt", func() (any, bool) { return TryGetInt(s, "empty") }, 0},
		{"Int8Overflow", func() (any, bool) { return TryGetInt8(s, "int8Big") }, int8(0)},
		{"UintNegative", func() (any, bool) { return TryGetUint(s, "uintNeg") }, uint(0)},
		{"BadFloat", func() (any, bool) { return TryGetFloat64(s, "string") }, float64(0)},
		{"MultiCharRune", func() (any, bool) { return TryGetRune(s, "chars") }, rune(0)},
		{"BadTime", func() (any, bool) { return TryGetTime(s, "string") }, time.Time{}},
		{"BadDuration", func() (any, bool) { return TryGetDuration(s, "string") }, time.Duration(0)},
		{"UnhyphenatedUUID", func() (any, bool) { return TryGetUUID(s, "uuidBad") }, uuid.Nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := tt.try()
			assert.False(t, ok)
			assert.Equal(t, tt.zero, v)
		})
	}
}

// TestGetWithDefault tests that defaults apply on failure only
func TestGetWithDefault(t *testing.T) {
	s := testStore()

	assert.Equal(t, 200, GetInt(s, "int", 5))
	assert.Equal(t, 5, GetInt(s, "intBad", 5))
	assert.Equal(t, 5, GetInt(s, "missing", 5))

	assert.True(t, GetBool(s, "bool", false))
	assert.True(t, GetBool(s, "boolBad", true))

	assert.Equal(t, "hello", GetString(s, "string", "fallback"))
	assert.Equal(t, "fallback", GetString(s, "empty", "fallback"))

	assert.Equal(t, 10*time.Second, GetDuration(s, "missing", 10*time.Second))

	def := uuid.New()
	assert.Equal(t, def, GetUUID(s, "uuidBad", def))
}

// TestInvalidArguments tests the precondition panics
func TestInvalidArguments(t *testing.T) {
	t.Run("NilReader", func(t *testing.T) {
		defer func() {
			r := recover()
			require.NotNil(t, r)
			err, ok := r.(error)
			require.True(t, ok)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		}()
		TryGetInt(nil, "key")
	})

	t.Run("EmptyKey", func(t *testing.T) {
		assert.Panics(t, func() { TryGetBool(Map{}, "") })
		assert.Panics(t, func() { GetString(Map{}, "", "x") })
	})
}

// TestClockDurationForms tests the accepted clock formats
func TestClockDurationForms(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
		ok   bool
	}{
		{"00:00:01", time.Second, true},
		{"-00:01:00", -time.Minute, true},
		{"10:15", 10*time.Hour + 15*time.Minute, true},
		{"00:00:01.5", 1500 * time.Millisecond, true},
		{"1.00:00:00", 24 * time.Hour, true},
		{"3", 72 * time.Hour, true},
		{"24:00:00", 0, false},
		{"00:60:00", 0, false},
		{"1:2:3:4", 0, false},
		{"abc", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := parseDuration(tt.in)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d)
		})
	}
}
