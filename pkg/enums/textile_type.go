package enums

import (
	"fmt"
	"strings"
)

// TextileType distinguishes light from dark garments for screen printing.
type TextileType string

const (
	TextileTypeLight TextileType = "light"
	TextileTypeDark  TextileType = "dark"
)

var validTextileTypes = []TextileType{
	TextileTypeLight,
	TextileTypeDark,
}

// String implements fmt.Stringer.
func (t TextileType) String() string {
	return string(t)
}

// IsValid reports whether the value is known.
func (t TextileType) IsValid() bool {
	for _, candidate := range validTextileTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTextileType converts raw input into a TextileType.
func ParseTextileType(value string) (TextileType, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validTextileTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid textile type %q", value)
}
