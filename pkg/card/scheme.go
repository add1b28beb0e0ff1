package card

import "strings"

// Scheme is a color-mapping policy for a table block.
type Scheme string

const (
	SchemeNormal   Scheme = "normal"
	SchemeInverted Scheme = "inverted"
)

// schemeAliases maps wire scheme names onto schemes. "rozmin" is the name
// older callers used for the inverted redistribution report.
var schemeAliases = map[string]Scheme{
	"normal":   SchemeNormal,
	"inverted": SchemeInverted,
	"rozmin":   SchemeInverted,
}

// ParseScheme maps an explicit wire scheme. ok is false when s names no
// known scheme; such a block is drawn with [SchemeNormal]. Only a block
// without a scheme falls back to [InferScheme].
func ParseScheme(s string) (scheme Scheme, ok bool) {
	scheme, ok = schemeAliases[strings.ToLower(strings.TrimSpace(s))]
	return scheme, ok
}

// InferScheme is the legacy title rule: a block titled exactly like the
// redistribution report is inverted, everything else is normal.
func InferScheme(title string) Scheme {
	if title == RedistributionTitle {
		return SchemeInverted
	}
	return SchemeNormal
}

// DisplayClass is the resolved presentation of a value.
type DisplayClass string

const (
	ClassFavorable   DisplayClass = "favorable"
	ClassUnfavorable DisplayClass = "unfavorable"
	ClassNeutral     DisplayClass = "neutral"
)

// Swap exchanges favorable and unfavorable; neutral is fixed.
func (c DisplayClass) Swap() DisplayClass {
	switch c {
	case ClassFavorable:
		return ClassUnfavorable
	case ClassUnfavorable:
		return ClassFavorable
	default:
		return c
	}
}

// Resolve maps a tag to its display class under scheme. Every pair has a
// result: unknown tags read as TagZero, unknown schemes as SchemeNormal.
func Resolve(tag Tag, scheme Scheme) DisplayClass {
	var c DisplayClass
	switch tag {
	case TagPos:
		c = ClassFavorable
	case TagNeg:
		c = ClassUnfavorable
	default:
		c = ClassNeutral
	}
	if scheme == SchemeInverted {
		return c.Swap()
	}
	return c
}
