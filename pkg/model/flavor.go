package model

import (
	"strings"

	"github.com/glorpus-work/wam/pkg/errors"
)

// Flavor is the game line an addon file targets.
type Flavor string

const (
	FlavorRetail  Flavor = "retail"
	FlavorClassic Flavor = "classic"
)

// Flavors lists every supported flavor.
var Flavors = []Flavor{FlavorRetail, FlavorClassic}

// Tag returns the catalog's gameVersionFlavor value.
func (f Flavor) Tag() string {
	return "wow_" + string(f)
}

func (f Flavor) String() string { return string(f) }

// ParseFlavor accepts either the short name or the catalog tag, case-insensitively.
func ParseFlavor(s string) (Flavor, error) {
	name := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "wow_")
	for _, f := range Flavors {
		if name == string(f) {
			return f, nil
		}
	}
	return "", errors.Wrapf(errors.ErrInvalidFlavor, "%q (want retail or classic)", s)
}
