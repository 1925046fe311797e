package geo

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bigEndianWKB собирает WKB-точку без SRID в порядке big-endian
func bigEndianWKB(lat, lon float64) []byte {
	buf := make([]byte, wkbPointLen)
	buf[0] = wkbBigEndian
	binary.BigEndian.PutUint32(buf[1:5], wkbPointType)
	binary.BigEndian.PutUint64(buf[5:13], math.Float64bits(lon))
	binary.BigEndian.PutUint64(buf[13:21], math.Float64bits(lat))
	return buf
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	points := []Point{
		{Lat: 9.02, Lon: 38.75},
		{Lat: 0, Lon: 0},
		{Lat: -90, Lon: -180},
		{Lat: 90, Lon: 180},
		{Lat: 55.751244, Lon: 37.618423},
		{Lat: -33.8688, Lon: 151.2093},
	}

	for _, p := range points {
		t.Run(p.String(), func(t *testing.T) {
			decoded, err := DecodePoint(EncodePoint(p))
			require.NoError(t, err)
			assert.InDelta(t, p.Lat, decoded.Lat, 1e-12)
			assert.InDelta(t, p.Lon, decoded.Lon, 1e-12)

			fromHex, err := DecodePoint([]byte(EncodePointHex(p)))
			require.NoError(t, err)
			assert.Equal(t, decoded, fromHex)
		})
	}
}

func TestEncodePoint_Layout(t *testing.T) {
	b := EncodePoint(Point{Lat: 1, Lon: 2})

	require.Len(t, b, ewkbPointLen)
	assert.Equal(t, wkbLittleEndian, b[0])
	assert.Equal(t, wkbPointType|ewkbSRIDFlag, binary.LittleEndian.Uint32(b[1:5]))
	assert.Equal(t, uint32(SRID), binary.LittleEndian.Uint32(b[5:9]))
	// X - долгота, Y - широта
	assert.Equal(t, 2.0, math.Float64frombits(binary.LittleEndian.Uint64(b[9:17])))
	assert.Equal(t, 1.0, math.Float64frombits(binary.LittleEndian.Uint64(b[17:25])))
}

func TestDecodePoint_BigEndianWKB(t *testing.T) {
	p, err := DecodePoint(bigEndianWKB(9.02, 38.75))

	require.NoError(t, err)
	assert.Equal(t, Point{Lat: 9.02, Lon: 38.75}, p)
}

func TestDecodePoint_PostgresHexWithPrefix(t *testing.T) {
	payload := `\x` + EncodePointHex(Point{Lat: 9.02, Lon: 38.75})

	p, err := DecodePoint([]byte(payload))

	require.NoError(t, err)
	assert.Equal(t, Point{Lat: 9.02, Lon: 38.75}, p)
}

func TestDecodePoint_StructuredPairs(t *testing.T) {
	cases := map[string]string{
		"lat_lng":            `{"lat": 9.02, "lng": 38.75}`,
		"latitude_longitude": `{"latitude": 9.02, "longitude": 38.75}`,
		"geojson":            `{"type": "Point", "coordinates": [38.75, 9.02]}`,
		"leading_whitespace": "  \n{\"lat\": 9.02, \"lon\": 38.75}",
	}

	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			p, err := DecodePoint([]byte(payload))
			require.NoError(t, err)
			assert.Equal(t, Point{Lat: 9.02, Lon: 38.75}, p)
		})
	}
}

func TestDecodePoint_Malformed(t *testing.T) {
	wrongSRID := EncodePoint(Point{Lat: 1, Lon: 1})
	binary.LittleEndian.PutUint32(wrongSRID[5:9], 3857)

	lineString := EncodePoint(Point{Lat: 1, Lon: 1})
	binary.LittleEndian.PutUint32(lineString[1:5], 2|ewkbSRIDFlag)

	withZ := EncodePoint(Point{Lat: 1, Lon: 1})
	binary.LittleEndian.PutUint32(withZ[1:5], wkbPointType|ewkbSRIDFlag|ewkbZFlag)

	nanPoint := bigEndianWKB(math.NaN(), 10)

	cases := map[string][]byte{
		"empty":             nil,
		"blank":             []byte("   "),
		"truncated_wkb":     EncodePoint(Point{Lat: 1, Lon: 1})[:12],
		"trailing_bytes":    append(EncodePoint(Point{Lat: 1, Lon: 1}), 0xff),
		"wrong_srid":        wrongSRID,
		"not_a_point":       lineString,
		"z_dimension":       withZ,
		"nan_coordinate":    nanPoint,
		"out_of_range_json": []byte(`{"lat": 91, "lng": 10}`),
		"missing_lng":       []byte(`{"lat": 9.02}`),
		"geojson_polygon":   []byte(`{"type": "Polygon", "coordinates": []}`),
		"broken_json":       []byte(`{"lat": `),
		"odd_hex":           []byte("0101000"),
		"hex_bad_marker":    []byte("0701000020E6100000"),
		"garbage":           []byte("POINT(38.75 9.02)"),
	}

	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			p, err := DecodePoint(payload)

			require.Error(t, err)
			assert.Equal(t, Point{}, p)
			assert.True(t, errors.Is(err, ErrMalformedPoint))

			var decodeErr *DecodeError
			assert.True(t, errors.As(err, &decodeErr))
		})
	}
}

func TestPointValidate(t *testing.T) {
	assert.NoError(t, Point{Lat: 9.02, Lon: 38.75}.Validate())
	assert.ErrorIs(t, Point{Lat: -90.1, Lon: 0}.Validate(), ErrInvalidCoordinates)
	assert.ErrorIs(t, Point{Lat: 0, Lon: 180.5}.Validate(), ErrInvalidCoordinates)
	assert.ErrorIs(t, Point{Lat: math.Inf(1), Lon: 0}.Validate(), ErrInvalidCoordinates)
}

func FuzzDecodePoint(f *testing.F) {
	f.Add(EncodePoint(Point{Lat: 9.02, Lon: 38.75}))
	f.Add(bigEndianWKB(-12.5, 44.1))
	f.Add([]byte(EncodePointHex(Point{Lat: 1, Lon: 2})))
	f.Add([]byte(`{"lat": 1, "lng": 2}`))
	f.Add([]byte(`{"type":"Point","coordinates":[2,1]}`))

	f.Fuzz(func(t *testing.T, payload []byte) {
		p, err := DecodePoint(payload)
		if err != nil {
			var decodeErr *DecodeError
			if !errors.As(err, &decodeErr) {
				t.Fatalf("unexpected error type %T: %v", err, err)
			}
			return
		}
		if vErr := p.Validate(); vErr != nil {
			t.Fatalf("decoded invalid point %v: %v", p, vErr)
		}
		again, err := DecodePoint(EncodePoint(p))
		if err != nil || again != p {
			t.Fatalf("re-encode mismatch: %v vs %v (%v)", p, again, err)
		}
	})
}
