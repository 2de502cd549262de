package geom

import (
	"encoding/binary"
	"math"

	"github.com/martin-augment/sedona-db/sedonaerrors"
)

// sridFlagBit is the EWKB extension bit layered on top of the ISO
// WKB type code to signal a trailing 4-byte SRID field.
const sridFlagBit uint32 = 0x20000000

// WkbHeader is a fast-path parse of just enough of a WKB/EWKB buffer's
// header to answer the structural questions the columnar kernels need
// (geometry type, dimensionality, point/ring/sub-geometry count, and the
// offset of the first coordinate) without building a full geometry object.
//
// Grounded on original_source/rust/sedona-geometry/src/wkb_header.rs.
type WkbHeader struct {
	buf []byte

	ByteOrder      binary.ByteOrder
	GeometryType   uint32
	GeometryTypeID GeometryTypeId
	HasSRID        bool
	SRID           uint32

	// Size is the count field immediately following the header: number of
	// points for LineString, number of rings for Polygon, number of
	// elements for Multi*/GeometryCollection. For Point it is a dummy
	// value of 1 (a Point has no count field on the wire).
	Size uint32

	// bodyOffset is the byte offset into buf where the geometry body
	// (coordinates, or the first sub-geometry's header) begins.
	bodyOffset int
}

// TryNewWkbHeader parses the fixed-size header of a WKB/EWKB buffer.
func TryNewWkbHeader(buf []byte) (*WkbHeader, error) {
	if len(buf) < 5 {
		return nil, sedonaerrors.WKBf("buffer too small to contain a WKB header: %d bytes", len(buf))
	}

	order, err := byteOrderFor(buf[0])
	if err != nil {
		return nil, err
	}

	rawType := order.Uint32(buf[1:5])
	typeID, err := GeometryTypeIDFromWKB(rawType & 0x7)
	if err != nil {
		return nil, err
	}

	hasSRID := rawType&sridFlagBit != 0
	cursor := 5
	var srid uint32
	if hasSRID {
		if len(buf) < 9 {
			return nil, sedonaerrors.WKBf("buffer too small to contain an EWKB SRID field: %d bytes", len(buf))
		}
		srid = order.Uint32(buf[5:9])
		cursor = 9
	}

	h := &WkbHeader{
		buf:            buf,
		ByteOrder:      order,
		GeometryType:   rawType,
		GeometryTypeID: typeID,
		HasSRID:        hasSRID,
		SRID:           srid,
	}

	if typeID == Point {
		h.Size = 1
		h.bodyOffset = cursor
		return h, nil
	}

	if len(buf) < cursor+4 {
		return nil, sedonaerrors.WKBf("buffer too small to contain a count field: %d bytes", len(buf))
	}
	h.Size = order.Uint32(buf[cursor : cursor+4])
	h.bodyOffset = cursor + 4
	return h, nil
}

func byteOrderFor(b byte) (binary.ByteOrder, error) {
	switch b {
	case 0:
		return binary.BigEndian, nil
	case 1:
		return binary.LittleEndian, nil
	default:
		return nil, sedonaerrors.WKBf("unexpected byte order marker: %d", b)
	}
}

// IsEmpty reports whether the geometry carries zero points/rings/elements.
// A Point is never considered empty by this header-level check (WKB has no
// dedicated empty-point encoding distinguishable from a NaN-coordinate
// point; first_xy reports NaN,NaN for such cases instead).
func (h *WkbHeader) IsEmpty() bool {
	return h.GeometryTypeID != Point && h.Size == 0
}

// Dimensions returns this geometry's own coordinate dimensionality, read
// directly from its type code (ignoring the EWKB SRID flag bit).
func (h *WkbHeader) Dimensions() (Dimensions, error) {
	return DimensionsFromCode(h.GeometryType &^ sridFlagBit)
}

// FirstXY returns the x,y coordinate of this geometry's first vertex.
// Point, LineString, and Polygon are read directly; Multi*/
// GeometryCollection report the first vertex of their first
// non-collection descendant (located via FirstGeomIdx).
//
// An empty LineString/Polygon (zero points, or zero points in ring 0), or
// a collection with no non-collection descendant, reports (NaN, NaN)
// rather than an error, matching empty-geometry handling in the
// reference implementation.
func (h *WkbHeader) FirstXY() (x, y float64, err error) {
	switch h.GeometryTypeID {
	case Point:
		return h.readXYAt(h.bodyOffset)

	case LineString:
		if h.Size == 0 {
			return math.NaN(), math.NaN(), nil
		}
		return h.readXYAt(h.bodyOffset)

	case Polygon:
		if h.Size == 0 {
			return math.NaN(), math.NaN(), nil
		}
		if len(h.buf) < h.bodyOffset+4 {
			return 0, 0, sedonaerrors.WKBf("buffer too small to contain ring 0's point count")
		}
		ring0Count := h.ByteOrder.Uint32(h.buf[h.bodyOffset : h.bodyOffset+4])
		if ring0Count == 0 {
			return math.NaN(), math.NaN(), nil
		}
		return h.readXYAt(h.bodyOffset + 4)

	default:
		idx, ok, err := h.FirstGeomIdx()
		if err != nil {
			return 0, 0, err
		}
		if !ok {
			return math.NaN(), math.NaN(), nil
		}
		child, err := TryNewWkbHeader(h.buf[idx:])
		if err != nil {
			return 0, 0, err
		}
		return child.FirstXY()
	}
}

func (h *WkbHeader) readXYAt(offset int) (x, y float64, err error) {
	if len(h.buf) < offset+16 {
		return 0, 0, sedonaerrors.WKBf("buffer too small to contain an XY coordinate")
	}
	xBits := h.ByteOrder.Uint64(h.buf[offset : offset+8])
	yBits := h.ByteOrder.Uint64(h.buf[offset+8 : offset+16])
	return math.Float64frombits(xBits), math.Float64frombits(yBits), nil
}

// FirstGeomIdx locates the byte offset, within the original buffer, of the
// first non-collection descendant geometry: for Point/LineString/Polygon
// that is 0 (the geometry itself); for Multi*/GeometryCollection it
// recurses into the first element's header and adds that element's
// offset, returning (0, false) if the collection is empty.
func (h *WkbHeader) FirstGeomIdx() (idx int, ok bool, err error) {
	switch h.GeometryTypeID {
	case Point, LineString, Polygon:
		return 0, true, nil
	default:
		if h.Size == 0 {
			return 0, false, nil
		}
		if len(h.buf) < h.bodyOffset {
			return 0, false, sedonaerrors.WKBf("buffer too small to contain a sub-geometry")
		}
		child, err := TryNewWkbHeader(h.buf[h.bodyOffset:])
		if err != nil {
			return 0, false, err
		}
		childIdx, childOK, err := child.FirstGeomIdx()
		if err != nil {
			return 0, false, err
		}
		if !childOK {
			return 0, false, nil
		}
		return h.bodyOffset + childIdx, true, nil
	}
}

// FirstGeomDimensions returns the coordinate dimensionality of the first
// non-collection descendant geometry (itself, for Point/LineString/
// Polygon), or ok=false if every nested collection along the way is
// empty.
func (h *WkbHeader) FirstGeomDimensions() (dims Dimensions, ok bool, err error) {
	idx, ok, err := h.FirstGeomIdx()
	if err != nil || !ok {
		return 0, false, err
	}
	child, err := TryNewWkbHeader(h.buf[idx:])
	if err != nil {
		return 0, false, err
	}
	dims, err = child.Dimensions()
	if err != nil {
		return 0, false, err
	}
	return dims, true, nil
}
