package convert

import (
	"encoding/binary"
	"fmt"
	"math"
)

// wkbPointType is the well-known-binary geometry type code for a Point.
const wkbPointType = 1

// WKBPoint decodes a well-known-binary encoded Point into a GeoJSON-shaped
// map: {"type": "Point", "coordinates": [x, y]}. This is the supplemented
// GEOMETRY/GEOGRAPHY logical type conversion: the wire format carries a
// byte-order flag, a geometry type code, then two little- or big-endian
// float64 coordinates.
func WKBPoint(b []byte) (any, error) {
	if len(b) < 21 {
		return nil, fmt.Errorf("parquet: WKB point: need 21 bytes, got %d", len(b))
	}

	var order binary.ByteOrder
	switch b[0] {
	case 0:
		order = binary.BigEndian
	case 1:
		order = binary.LittleEndian
	default:
		return nil, fmt.Errorf("parquet: WKB point: bad byte order flag %d", b[0])
	}

	geomType := order.Uint32(b[1:5])
	if geomType != wkbPointType {
		return nil, fmt.Errorf("parquet: WKB: only Point is supported, got type %d", geomType)
	}

	x := math.Float64frombits(order.Uint64(b[5:13]))
	y := math.Float64frombits(order.Uint64(b[13:21]))

	return map[string]any{
		"type":        "Point",
		"coordinates": []float64{x, y},
	}, nil
}
