// Package functions implements the scalar geometry kernels exercised by
// the columnar substrate: ST_Buffer and ST_StartPoint/ST_EndPoint.
//
// Grounded on original_source/c/sedona-geos/src/st_buffer.rs and
// original_source/rust/sedona-functions/src/st_start_point.rs, registered
// into expr.DefaultRegistry the way the reference implementation
// registers its UDFs at catalog-construction time.
package functions

import (
	"strconv"
	"strings"

	"github.com/martin-augment/sedona-db/geosbuffer"
	"github.com/martin-augment/sedona-db/sedonaerrors"
)

// parseBufferParams parses ST_Buffer's styleParams DSL (the third or
// fourth argument, depending on the overload): a
// whitespace-separated list of key=value pairs (e.g.
// "endcap=square join=mitre mitre_limit=3.0 quad_segs=4 side=left").
//
// Keys are case-insensitive; the last occurrence of a duplicated key
// wins. Unlike the Rust reference (which silently skips bare tokens and
// ignores unknown keys), this parser is strict end to end per spec.md
// §4.4.2: a bare token, an unknown key, an unrecognized enum value, or an
// unparseable number is reported immediately and aborts parsing of the
// whole string — the grounding source supplies the parameter table, the
// BufferParams construction, and the exact error-message text, not the
// lenient-parsing behavior, which spec.md deliberately tightens.
func parseBufferParams(styleParams string) (geosbuffer.BufferParams, error) {
	params := geosbuffer.DefaultBufferParams()
	if strings.TrimSpace(styleParams) == "" {
		return params, nil
	}

	for _, token := range strings.Fields(styleParams) {
		key, value, ok := strings.Cut(token, "=")
		if !ok {
			return params, sedonaerrors.Execf("Missing value for buffer parameter: %s", token)
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		switch key {
		case "endcap":
			style, err := parseCapStyle(value)
			if err != nil {
				return params, err
			}
			params.EndCapStyle = style

		case "join":
			style, err := parseJoinStyle(value)
			if err != nil {
				return params, err
			}
			params.JoinStyle = style

		case "side":
			side, err := parseSide(value)
			if err != nil {
				return params, err
			}
			params.Side = side

		case "mitre_limit", "miter_limit":
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return params, sedonaerrors.Execf("Invalid mitre_limit value: '%s'. Expected a valid number", value)
			}
			params.MitreLimit = v

		case "quad_segs", "quadrant_segments":
			v, err := strconv.Atoi(value)
			if err != nil {
				return params, sedonaerrors.Execf("Invalid quad_segs value: '%s'. Expected a valid number", value)
			}
			params.QuadrantSegments = v

		default:
			return params, sedonaerrors.Execf("Unknown buffer style parameter: '%s'", key)
		}
	}

	return params, nil
}

func parseCapStyle(v string) (geosbuffer.CapStyle, error) {
	switch strings.ToLower(v) {
	case "round":
		return geosbuffer.CapRound, nil
	case "flat", "butt":
		return geosbuffer.CapFlat, nil
	case "square":
		return geosbuffer.CapSquare, nil
	default:
		return 0, sedonaerrors.Execf("Invalid endcap style: '%s'. Valid options: round, flat, butt, square", v)
	}
}

func parseJoinStyle(v string) (geosbuffer.JoinStyle, error) {
	switch strings.ToLower(v) {
	case "round":
		return geosbuffer.JoinRound, nil
	case "mitre", "miter":
		return geosbuffer.JoinMitre, nil
	case "bevel":
		return geosbuffer.JoinBevel, nil
	default:
		return 0, sedonaerrors.Execf("Invalid join style: '%s'. Valid options: round, mitre, miter, bevel", v)
	}
}

func parseSide(v string) (geosbuffer.Side, error) {
	switch strings.ToLower(v) {
	case "both":
		return geosbuffer.SideBoth, nil
	case "left":
		return geosbuffer.SideLeft, nil
	case "right":
		return geosbuffer.SideRight, nil
	default:
		return 0, sedonaerrors.Execf("Invalid side: '%s'. Valid options: both, left, right", v)
	}
}
