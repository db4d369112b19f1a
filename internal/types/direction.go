package types

import (
	"golang.org/x/text/unicode/bidi"
)

// Direction is the base text direction of a message.
type Direction int

const (
	// LeftToRight is the default direction.
	LeftToRight Direction = iota
	// RightToLeft is used when the first strong character is Hebrew, Arabic, etc.
	RightToLeft
)

// String implements fmt.Stringer.
func (d Direction) String() string {
	if d == RightToLeft {
		return "rtl"
	}
	return "ltr"
}

// DetectDirection returns the direction of the first strongly typed character in text.
// Text without any strong character is left-to-right.
func DetectDirection(text string) Direction {
	for _, r := range text {
		properties, _ := bidi.LookupRune(r)
		switch properties.Class() {
		case bidi.L:
			return LeftToRight
		case bidi.R, bidi.AL:
			return RightToLeft
		}
	}
	return LeftToRight
}
