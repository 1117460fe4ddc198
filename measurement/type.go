package measurement

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownType = errors.New("measurement: unknown type")

// Type is the kind of value a reading carries.
type Type int

const (
	Temperature Type = iota
	Humidity
	Dust
)

// typeInfo holds everything that varies by Type. Adding a Type without a row here
// makes it unrecognized: it formats without a unit and has no icon.
type typeInfo struct {
	name string
	unit string
	icon string
}

var types = [...]typeInfo{
	Temperature: {name: "temperature", unit: "°C", icon: "thermostat"},
	Humidity:    {name: "humidity", unit: "%", icon: "humidity"},
	Dust:        {name: "dust", unit: " µg/m³", icon: "dust"},
}

func (t Type) info() (typeInfo, bool) {
	if t < 0 || int(t) >= len(types) {
		return typeInfo{}, false
	}
	return types[t], true
}

func (t Type) String() string {
	if info, ok := t.info(); ok {
		return info.name
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Unit is the suffix appended to a formatted value. It's empty for unrecognized types.
func (t Type) Unit() string {
	info, _ := t.info()
	return info.unit
}

// Icon is the glyph tag shown next to the current value of this type.
func (t Type) Icon() string {
	info, _ := t.info()
	return info.icon
}

// Valid reports whether t is one of the known types.
func (t Type) Valid() bool {
	_, ok := t.info()
	return ok
}

// Types returns every known Type in display order.
func Types() []Type {
	all := make([]Type, len(types))
	for i := range types {
		all[i] = Type(i)
	}
	return all
}

// ParseType parses a type name such as "temperature". Case is ignored.
func ParseType(s string) (Type, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, info := range types {
		if info.name == name {
			return Type(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownType, s)
}

func (t Type) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, int(t))
	}
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(b []byte) error {
	parsed, err := ParseType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
