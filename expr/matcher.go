// Package expr implements the scalar-function framework kernels plug
// into: argument matchers, the ScalarKernel/ScalarUDF pair, and a
// process-wide name-to-UDF registry with replace-on-register semantics.
//
// Grounded on spec.md §4.3 and on
// original_source/rust/sedona-functions/src/st_start_point.rs /
// original_source/c/sedona-geos/src/st_buffer.rs's ArgMatcher/
// SedonaScalarUDF usage.
package expr

import (
	"github.com/apache/arrow-go/v18/arrow"

	"github.com/martin-augment/sedona-db/geom"
)

// ArgMatcher describes a single positional argument's acceptable types.
// A call site's concrete argument types are matched against a
// ScalarKernel's ArgMatchers in order; the first kernel whose matchers
// all accept is selected.
type ArgMatcher struct {
	// Optional marks a trailing argument that may be omitted entirely.
	// ST_Buffer does not use it: its overloads are separate fixed-arity
	// kernels.
	Optional bool
	accepts  func(geom.SedonaType) bool
	label    string
}

func (m ArgMatcher) String() string { return m.label }

// Accepts reports whether t satisfies this matcher.
func (m ArgMatcher) Accepts(t geom.SedonaType) bool {
	return m.accepts(t)
}

// IsGeometry matches either WKB geometry logical type.
func IsGeometry() ArgMatcher {
	return ArgMatcher{label: "geometry", accepts: func(t geom.SedonaType) bool { return t.IsGeometry() }}
}

// IsNumeric matches any Arrow floating-point or integer physical type.
func IsNumeric() ArgMatcher {
	return ArgMatcher{label: "numeric", accepts: func(t geom.SedonaType) bool {
		switch t.Physical.ID() {
		case arrow.FLOAT32, arrow.FLOAT64, arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
			arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64:
			return true
		default:
			return false
		}
	}}
}

// IsBoolean matches the Arrow Boolean physical type.
func IsBoolean() ArgMatcher {
	return ArgMatcher{label: "boolean", accepts: func(t geom.SedonaType) bool {
		return t.Physical.ID() == arrow.BOOL
	}}
}

// IsString matches Arrow Utf8/LargeUtf8 physical types.
func IsString() ArgMatcher {
	return ArgMatcher{label: "string", accepts: func(t geom.SedonaType) bool {
		switch t.Physical.ID() {
		case arrow.STRING, arrow.LARGE_STRING, arrow.STRING_VIEW:
			return true
		default:
			return false
		}
	}}
}

// Optional marks an otherwise-built matcher as an omittable trailing
// argument.
func Optional(m ArgMatcher) ArgMatcher {
	m.Optional = true
	return m
}

// Matches reports whether argTypes satisfies the ordered list of
// matchers: every required matcher must accept the argument at its
// position, trailing Optional matchers may be left unsupplied (argTypes
// shorter than matchers), but argTypes may never be longer than matchers
// nor skip a required matcher.
func Matches(matchers []ArgMatcher, argTypes []geom.SedonaType) bool {
	if len(argTypes) > len(matchers) {
		return false
	}
	for i, m := range matchers {
		if i >= len(argTypes) {
			if !m.Optional {
				return false
			}
			continue
		}
		if !m.Accepts(argTypes[i]) {
			return false
		}
	}
	return true
}
