package geo

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// SRID системы координат WGS 84, в которой хранятся все точки
const SRID = 4326

const (
	wkbBigEndian    byte = 0x00
	wkbLittleEndian byte = 0x01

	wkbPointType uint32 = 1

	ewkbZFlag    uint32 = 0x80000000
	ewkbMFlag    uint32 = 0x40000000
	ewkbSRIDFlag uint32 = 0x20000000

	// длина EWKB-точки с SRID: порядок байт + тип + SRID + две координаты
	ewkbPointLen = 1 + 4 + 4 + 8 + 8
	wkbPointLen  = 1 + 4 + 8 + 8
)

// ErrMalformedPoint оборачивается каждой ошибкой декодирования
var ErrMalformedPoint = errors.New("geo: malformed point payload")

// DecodeError описывает нераспознанный или повреждённый payload точки.
// Вызывающий код отличает его от "локация неизвестна" (nil) и никогда не подставляет нулевые координаты.
type DecodeError struct {
	Format string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("geo: cannot decode %s point: %s", e.Format, e.Reason)
}

func (e *DecodeError) Unwrap() error {
	return ErrMalformedPoint
}

func decodeErr(format, reason string, args ...any) error {
	return &DecodeError{Format: format, Reason: fmt.Sprintf(reason, args...)}
}

// Point - географическая точка в градусах WGS 84
type Point struct {
	Lat float64 `json:"latitude"`
	Lon float64 `json:"longitude"`
}

// Validate проверяет, что координаты конечны и лежат в допустимых диапазонах
func (p Point) Validate() error {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lon, 0) {
		return fmt.Errorf("geo: coordinates must be finite: %w", ErrInvalidCoordinates)
	}
	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("geo: latitude %v out of range: %w", p.Lat, ErrInvalidCoordinates)
	}
	if p.Lon < -180 || p.Lon > 180 {
		return fmt.Errorf("geo: longitude %v out of range: %w", p.Lon, ErrInvalidCoordinates)
	}
	return nil
}

func (p Point) String() string {
	return fmt.Sprintf("(%.6f, %.6f)", p.Lat, p.Lon)
}

// ErrInvalidCoordinates возвращается Validate для координат вне диапазона
var ErrInvalidCoordinates = errors.New("geo: invalid coordinates")

// EncodePoint кодирует точку в EWKB (little-endian, SRID 4326).
// Этот формат принимает ST_GeomFromEWKB и возвращает ST_AsEWKB.
func EncodePoint(p Point) []byte {
	buf := make([]byte, ewkbPointLen)
	buf[0] = wkbLittleEndian
	binary.LittleEndian.PutUint32(buf[1:5], wkbPointType|ewkbSRIDFlag)
	binary.LittleEndian.PutUint32(buf[5:9], SRID)
	binary.LittleEndian.PutUint64(buf[9:17], math.Float64bits(p.Lon))
	binary.LittleEndian.PutUint64(buf[17:25], math.Float64bits(p.Lat))
	return buf
}

// EncodePointHex возвращает EWKB в виде hex-строки, как её печатает PostGIS
func EncodePointHex(p Point) string {
	return fmt.Sprintf("%X", EncodePoint(p))
}

// DecodePoint разбирает точку из любого из поддерживаемых представлений:
// бинарный (E)WKB в обоих порядках байт, его hex-запись и JSON-пара координат.
// Формат определяется по маркерам до разбора.
func DecodePoint(b []byte) (Point, error) {
	if len(b) == 0 {
		return Point{}, decodeErr("unknown", "empty payload")
	}

	if b[0] == wkbBigEndian || b[0] == wkbLittleEndian {
		return decodeWKB(b)
	}

	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 {
		return Point{}, decodeErr("unknown", "blank payload")
	}
	if trimmed[0] == '{' {
		return decodeJSON(trimmed)
	}

	trimmed = bytes.TrimPrefix(trimmed, []byte(`\x`))
	if isHex(trimmed) {
		raw := make([]byte, hex.DecodedLen(len(trimmed)))
		if _, err := hex.Decode(raw, trimmed); err != nil {
			return Point{}, decodeErr("hex-wkb", "%v", err)
		}
		if len(raw) == 0 || (raw[0] != wkbBigEndian && raw[0] != wkbLittleEndian) {
			return Point{}, decodeErr("hex-wkb", "unknown byte order marker")
		}
		return decodeWKB(raw)
	}

	return Point{}, decodeErr("unknown", "unrecognised format marker 0x%02x", b[0])
}

func decodeWKB(b []byte) (Point, error) {
	if len(b) < wkbPointLen {
		return Point{}, decodeErr("wkb", "payload too short: %d bytes", len(b))
	}

	var order binary.ByteOrder = binary.LittleEndian
	if b[0] == wkbBigEndian {
		order = binary.BigEndian
	}

	typ := order.Uint32(b[1:5])
	if typ&(ewkbZFlag|ewkbMFlag) != 0 {
		return Point{}, decodeErr("wkb", "Z/M dimensions are not supported")
	}

	offset := 5
	if typ&ewkbSRIDFlag != 0 {
		if len(b) != ewkbPointLen {
			return Point{}, decodeErr("ewkb", "expected %d bytes, got %d", ewkbPointLen, len(b))
		}
		srid := order.Uint32(b[5:9])
		if srid != SRID {
			return Point{}, decodeErr("ewkb", "unsupported SRID %d", srid)
		}
		offset = 9
	} else if len(b) != wkbPointLen {
		return Point{}, decodeErr("wkb", "expected %d bytes, got %d", wkbPointLen, len(b))
	}

	if base := typ &^ ewkbSRIDFlag; base != wkbPointType {
		return Point{}, decodeErr("wkb", "geometry type %d is not a point", base)
	}

	p := Point{
		Lon: math.Float64frombits(order.Uint64(b[offset : offset+8])),
		Lat: math.Float64frombits(order.Uint64(b[offset+8 : offset+16])),
	}
	if err := p.Validate(); err != nil {
		return Point{}, decodeErr("wkb", "%v", err)
	}
	return p, nil
}

// jsonPoint покрывает встречающиеся формы: {lat,lng}, {latitude,longitude} и GeoJSON Point
type jsonPoint struct {
	Lat         *float64  `json:"lat"`
	Lng         *float64  `json:"lng"`
	Lon         *float64  `json:"lon"`
	Latitude    *float64  `json:"latitude"`
	Longitude   *float64  `json:"longitude"`
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

func decodeJSON(b []byte) (Point, error) {
	var raw jsonPoint
	if err := json.Unmarshal(b, &raw); err != nil {
		return Point{}, decodeErr("json", "%v", err)
	}

	var p Point
	switch {
	case raw.Type != "":
		if raw.Type != "Point" {
			return Point{}, decodeErr("geojson", "geometry type %q is not a point", raw.Type)
		}
		if len(raw.Coordinates) != 2 {
			return Point{}, decodeErr("geojson", "expected 2 coordinates, got %d", len(raw.Coordinates))
		}
		p = Point{Lon: raw.Coordinates[0], Lat: raw.Coordinates[1]}
	default:
		lat := firstNonNil(raw.Lat, raw.Latitude)
		lon := firstNonNil(raw.Lng, raw.Lon, raw.Longitude)
		if lat == nil || lon == nil {
			return Point{}, decodeErr("json", "latitude and longitude are both required")
		}
		p = Point{Lat: *lat, Lon: *lon}
	}

	if err := p.Validate(); err != nil {
		return Point{}, decodeErr("json", "%v", err)
	}
	return p, nil
}

func firstNonNil(values ...*float64) *float64 {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

func isHex(b []byte) bool {
	if len(b) == 0 || len(b)%2 != 0 {
		return false
	}
	for _, c := range b {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
