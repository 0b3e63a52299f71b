// FILE: lixenwraith/settings/parse.go
package settings

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// TimeLayouts are tried in order when parsing time values.
var TimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

func parseBool(s string) (bool, error) {
	switch t := strings.TrimSpace(s); {
	case strings.EqualFold(t, "true"):
		return true, nil
	case strings.EqualFold(t, "false"):
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", s)
}

func parseInt(bits int) func(string) (int64, error) {
	return func(s string) (int64, error) {
		return strconv.ParseInt(strings.TrimSpace(s), 10, bits)
	}
}

func parseUint(bits int) func(string) (uint64, error) {
	return func(s string) (uint64, error) {
		return strconv.ParseUint(strings.TrimPrefix(strings.TrimSpace(s), "+"), 10, bits)
	}
}

func parseFloat(bits int) func(string) (float64, error) {
	return func(s string) (float64, error) {
		return strconv.ParseFloat(strings.TrimSpace(s), bits)
	}
}

// parseRune accepts exactly one code point.
func parseRune(s string) (rune, error) {
	r, size := utf8.DecodeRuneInString(s)
	if (r == utf8.RuneError && size <= 1) || size != len(s) {
		return 0, fmt.Errorf("invalid character %q", s)
	}
	return r, nil
}

func parseTime(s string) (time.Time, error) {
	t := strings.TrimSpace(s)
	for _, layout := range TimeLayouts {
		if v, err := time.Parse(layout, t); err == nil {
			return v, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q", s)
}

// parseDuration accepts Go duration syntax ("1m30s"), the clock form
// "[-][d.]hh:mm[:ss[.fffffff]]" or a bare number of days.
func parseDuration(s string) (time.Duration, error) {
	t := strings.TrimSpace(s)
	if d, err := time.ParseDuration(t); err == nil {
		return d, nil
	}
	if d, err := parseClockDuration(t); err == nil {
		return d, nil
	}
	return 0, fmt.Errorf("invalid duration %q", s)
}

func parseClockDuration(s string) (time.Duration, error) {
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	// A bare integer is a number of days
	if !strings.Contains(s, ":") {
		days, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return 0, err
		}
		d := time.Duration(days) * 24 * time.Hour
		if neg {
			d = -d
		}
		return d, nil
	}

	var days int64
	if dot := strings.Index(s, "."); dot >= 0 && dot < strings.Index(s, ":") {
		d, err := strconv.ParseInt(s[:dot], 10, 32)
		if err != nil {
			return 0, err
		}
		days = d
		s = s[dot+1:]
	}

	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, errors.New("expected hh:mm[:ss]")
	}

	hours, err := strconv.ParseInt(parts[0], 10, 32)
	if err != nil || hours > 23 {
		return 0, errors.New("invalid hours")
	}
	minutes, err := strconv.ParseInt(parts[1], 10, 32)
	if err != nil || minutes > 59 {
		return 0, errors.New("invalid minutes")
	}

	var frac time.Duration
	var seconds int64
	if len(parts) == 3 {
		sec, fraction, hasFrac := strings.Cut(parts[2], ".")
		seconds, err = strconv.ParseInt(sec, 10, 32)
		if err != nil || seconds > 59 {
			return 0, errors.New("invalid seconds")
		}
		if hasFrac {
			if fraction == "" || len(fraction) > 9 {
				return 0, errors.New("invalid fraction")
			}
			n, err := strconv.ParseUint(fraction, 10, 64)
			if err != nil {
				return 0, errors.New("invalid fraction")
			}
			for i := len(fraction); i < 9; i++ {
				n *= 10
			}
			frac = time.Duration(n)
		}
	}

	d := time.Duration(days)*24*time.Hour +
		time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second + frac
	if neg {
		d = -d
	}
	return d, nil
}

// parseUUID accepts only the canonical 8-4-4-4-12 hyphenated form.
func parseUUID(s string) (uuid.UUID, error) {
	if len(s) != 36 {
		return uuid.Nil, fmt.Errorf("invalid UUID %q", s)
	}
	return uuid.Parse(s)
}

// ParserFunc converts raw text to a value of a specific type.
type ParserFunc func(raw string) (any, error)

var (
	parserMu sync.RWMutex
	parsers  = map[reflect.Type]ParserFunc{}
)

func init() {
	registerBuiltin(parseBool)
	registerBuiltin(narrowInt[int](strconv.IntSize))
	registerBuiltin(narrowInt[int8](8))
	registerBuiltin(narrowInt[int16](16))
	registerBuiltin(narrowInt[int32](32))
	registerBuiltin(narrowInt[int64](64))
	registerBuiltin(narrowUint[uint](strconv.IntSize))
	registerBuiltin(narrowUint[uint8](8))
	registerBuiltin(narrowUint[uint16](16))
	registerBuiltin(narrowUint[uint32](32))
	registerBuiltin(narrowUint[uint64](64))
	registerBuiltin(narrowFloat[float32](32))
	registerBuiltin(narrowFloat[float64](64))
	registerBuiltin(parseTime)
	registerBuiltin(parseDuration)
	registerBuiltin(parseUUID)
}

func registerBuiltin[T any](fn func(string) (T, error)) {
	parsers[reflect.TypeOf((*T)(nil)).Elem()] = func(raw string) (any, error) { return fn(raw) }
}

// RegisterParser installs the parser TryGetAs, GetAs, TryGetAsList and
// SafeCopy use for values of type T, replacing any existing one.
func RegisterParser[T any](fn func(raw string) (T, error)) {
	if fn == nil {
		invalidArgument("parser is nil")
	}
	parserMu.Lock()
	defer parserMu.Unlock()
	registerBuiltin(fn)
}

func lookupParser(t reflect.Type) (ParserFunc, bool) {
	parserMu.RLock()
	defer parserMu.RUnlock()
	fn, ok := parsers[t]
	return fn, ok
}

type signedInt interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

type unsignedInt interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

type float interface {
	~float32 | ~float64
}

func narrowInt[T signedInt](bits int) func(string) (T, error) {
	p := parseInt(bits)
	return func(s string) (T, error) {
		v, err := p(s)
		return T(v), err
	}
}

func narrowUint[T unsignedInt](bits int) func(string) (T, error) {
	p := parseUint(bits)
	return func(s string) (T, error) {
		v, err := p(s)
		return T(v), err
	}
}

func narrowFloat[T float](bits int) func(string) (T, error) {
	p := parseFloat(bits)
	return func(s string) (T, error) {
		v, err := p(s)
		return T(v), err
	}
}
