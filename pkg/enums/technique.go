package enums

import (
	"fmt"
	"strings"
)

// Technique identifies the decoration method applied to a product.
type Technique string

const (
	TechniqueScreenPrint  Technique = "screen_print"
	TechniqueEmbroidery   Technique = "embroidery"
	TechniqueDirectToFilm Technique = "direct_to_film"
)

var validTechniques = []Technique{
	TechniqueScreenPrint,
	TechniqueEmbroidery,
	TechniqueDirectToFilm,
}

// Techniques returns every supported technique.
func Techniques() []Technique {
	out := make([]Technique, len(validTechniques))
	copy(out, validTechniques)
	return out
}

// String implements fmt.Stringer.
func (t Technique) String() string {
	return string(t)
}

// IsValid reports whether the value is known.
func (t Technique) IsValid() bool {
	for _, candidate := range validTechniques {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTechnique converts raw input into a Technique.
func ParseTechnique(value string) (Technique, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validTechniques {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid technique %q", value)
}
