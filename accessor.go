// FILE: lixenwraith/settings/accessor.go
package settings

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Every TryGetXxx reads the raw value at key and parses it. An absent key, an
// empty value or a parse failure yields the zero value and false. A nil
// reader or an empty key panics with an error wrapping ErrInvalidArgument.
//
// Every GetXxx returns def wherever the matching TryGetXxx would fail.

func tryParse[T any](r Reader, key string, parse func(string) (T, error)) (T, bool) {
	checkReadArgs(r, key)

	var zero T
	raw, ok := r.Get(key)
	if !ok || raw == "" {
		return zero, false
	}
	v, err := parse(raw)
	if err != nil {
		return zero, false
	}
	return v, true
}

func getOr[T any](v T, ok bool, def T) T {
	if ok {
		return v
	}
	return def
}

// TryGetString returns the raw value; it fails only when the value is absent or empty.
func TryGetString(r Reader, key string) (string, bool) {
	return tryParse(r, key, func(s string) (string, error) { return s, nil })
}

func GetString(r Reader, key string, def string) string {
	v, ok := TryGetString(r, key)
	return getOr(v, ok, def)
}

// TryGetBool accepts "true" and "false" in any case.
func TryGetBool(r Reader, key string) (bool, bool) {
	return tryParse(r, key, parseBool)
}

func GetBool(r Reader, key string, def bool) bool {
	v, ok := TryGetBool(r, key)
	return getOr(v, ok, def)
}

// TryGetRune accepts a value holding exactly one character.
func TryGetRune(r Reader, key string) (rune, bool) {
	return tryParse(r, key, parseRune)
}

func GetRune(r Reader, key string, def rune) rune {
	v, ok := TryGetRune(r, key)
	return getOr(v, ok, def)
}

func TryGetInt(r Reader, key string) (int, bool) {
	return tryParse(r, key, narrowInt[int](strconv.IntSize))
}

func GetInt(r Reader, key string, def int) int {
	v, ok := TryGetInt(r, key)
	return getOr(v, ok, def)
}

func TryGetInt8(r Reader, key string) (int8, bool) {
	return tryParse(r, key, narrowInt[int8](8))
}

func GetInt8(r Reader, key string, def int8) int8 {
	v, ok := TryGetInt8(r, key)
	return getOr(v, ok, def)
}

func TryGetInt16(r Reader, key string) (int16, bool) {
	return tryParse(r, key, narrowInt[int16](16))
}

func GetInt16(r Reader, key string, def int16) int16 {
	v, ok := TryGetInt16(r, key)
	return getOr(v, ok, def)
}

func TryGetInt32(r Reader, key string) (int32, bool) {
	return tryParse(r, key, narrowInt[int32](32))
}

func GetInt32(r Reader, key string, def int32) int32 {
	v, ok := TryGetInt32(r, key)
	return getOr(v, ok, def)
}

func TryGetInt64(r Reader, key string) (int64, bool) {
	return tryParse(r, key, parseInt(64))
}

func GetInt64(r Reader, key string, def int64) int64 {
	v, ok := TryGetInt64(r, key)
	return getOr(v, ok, def)
}

func TryGetUint(r Reader, key string) (uint, bool) {
	return tryParse(r, key, narrowUint[uint](strconv.IntSize))
}

func GetUint(r Reader, key string, def uint) uint {
	v, ok := TryGetUint(r, key)
	return getOr(v, ok, def)
}

func TryGetUint8(r Reader, key string) (uint8, bool) {
	return tryParse(r, key, narrowUint[uint8](8))
}

func GetUint8(r Reader, key string, def uint8) uint8 {
	v, ok := TryGetUint8(r, key)
	return getOr(v, ok, def)
}

func TryGetUint16(r Reader, key string) (uint16, bool) {
	return tryParse(r, key, narrowUint[uint16](16))
}

func GetUint16(r Reader, key string, def uint16) uint16 {
	v, ok := TryGetUint16(r, key)
	return getOr(v, ok, def)
}

func TryGetUint32(r Reader, key string) (uint32, bool) {
	return tryParse(r, key, narrowUint[uint32](32))
}

func GetUint32(r Reader, key string, def uint32) uint32 {
	v, ok := TryGetUint32(r, key)
	return getOr(v, ok, def)
}

func TryGetUint64(r Reader, key string) (uint64, bool) {
	return tryParse(r, key, parseUint(64))
}

func GetUint64(r Reader, key string, def uint64) uint64 {
	v, ok := TryGetUint64(r, key)
	return getOr(v, ok, def)
}

func TryGetFloat32(r Reader, key string) (float32, bool) {
	return tryParse(r, key, narrowFloat[float32](32))
}

func GetFloat32(r Reader, key string, def float32) float32 {
	v, ok := TryGetFloat32(r, key)
	return getOr(v, ok, def)
}

func TryGetFloat64(r Reader, key string) (float64, bool) {
	return tryParse(r, key, parseFloat(64))
}

func GetFloat64(r Reader, key string, def float64) float64 {
	v, ok := TryGetFloat64(r, key)
	return getOr(v, ok, def)
}

// TryGetDuration accepts "1m30s", "01:30:00", "2.06:00:00" or a number of days.
func TryGetDuration(r Reader, key string) (time.Duration, bool) {
	return tryParse(r, key, parseDuration)
}

func GetDuration(r Reader, key string, def time.Duration) time.Duration {
	v, ok := TryGetDuration(r, key)
	return getOr(v, ok, def)
}

// TryGetTime accepts the layouts listed in TimeLayouts.
func TryGetTime(r Reader, key string) (time.Time, bool) {
	return tryParse(r, key, parseTime)
}

func GetTime(r Reader, key string, def time.Time) time.Time {
	v, ok := TryGetTime(r, key)
	return getOr(v, ok, def)
}

// TryGetUUID accepts the hyphenated 8-4-4-4-12 form only.
func TryGetUUID(r Reader, key string) (uuid.UUID, bool) {
	return tryParse(r, key, parseUUID)
}

func GetUUID(r Reader, key string, def uuid.UUID) uuid.UUID {
	v, ok := TryGetUUID(r, key)
	return getOr(v, ok, def)
}
