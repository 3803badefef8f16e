package libgfan

import (
	"encoding/binary"
	"math/big"
	"sync"

	"github.com/gogo/protobuf/proto"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/pkg/errors"

	"github.com/2x3systems/gfan/gfan"
	"github.com/2x3systems/gfan/libgfan/poly"
)

const coneRecordVersion = 1

const (
	facetFlag_Flippable = 1 << 0
	facetFlag_Incoming  = 1 << 1
)

// record header: [compression u8][uncompressed size u32][compressed size u32]
// A compressed size of 0 means the payload is stored as is.
const recordHeaderSize = 9

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// MarshalOut appends C's checkpoint record to out.
// Cached flip results are not part of the record.
func (C *Cone) MarshalOut(out []byte, comp gfan.Compression) ([]byte, error) {
	buf := proto.NewBuffer(make([]byte, 0, 512))

	buf.EncodeVarint(coneRecordVersion)
	encodeInt(buf, int64(C.id))
	encodeInt(buf, int64(C.predID))
	encodeInt(buf, int64(C.parentFacet))
	buf.EncodeVarint(uint64(C.status))

	ctx := C.basis.Ctx
	buf.EncodeVarint(uint64(len(ctx.Ring.Vars)))
	for _, v := range ctx.Ring.Vars {
		buf.EncodeStringBytes(v)
	}
	if ctx.Order != nil {
		encodeVectors(buf, ctx.Order.Weights)
	} else {
		buf.EncodeVarint(0)
	}

	buf.EncodeVarint(uint64(len(C.basis.Polys)))
	for _, g := range C.basis.Polys {
		terms := g.Terms()
		buf.EncodeVarint(uint64(len(terms)))
		for _, t := range terms {
			encodeRat(buf, t.Coef)
			encodeVector(buf, t.Exp)
		}
	}

	encodeVector(buf, C.interiorPoint)
	encodeVectors(buf, C.rays)

	buf.EncodeVarint(uint64(len(C.facets)))
	for i := range C.facets {
		F := &C.facets[i]
		encodeVector(buf, F.normal)
		encodeVector(buf, F.canonicalNormal)
		encodeVector(buf, F.interiorPoint)
		encodeVectors(buf, F.ridges)
		buf.EncodeVarint(uint64(F.codim))
		buf.EncodeVarint(uint64(F.numRays))
		encodeInt(buf, int64(F.ownerConeID))
		flags := uint64(0)
		if F.flippable {
			flags |= facetFlag_Flippable
		}
		if F.incoming {
			flags |= facetFlag_Incoming
		}
		buf.EncodeVarint(flags)
	}

	return compressRecord(out, buf.Bytes(), comp)
}

// UnmarshalCone reconstructs a cone from a record written by MarshalOut.
func UnmarshalCone(record []byte) (*Cone, error) {
	raw, err := decompressRecord(record)
	if err != nil {
		return nil, err
	}
	d := &coneDecoder{
		buf: proto.NewBuffer(raw),
	}

	if v := d.readUint(); v != coneRecordVersion && d.err == nil {
		return nil, errors.Wrapf(gfan.ErrBadCheckpoint, "unsupported record version %d", v)
	}

	C := &Cone{
		id:          int(d.readInt()),
		predID:      int(d.readInt()),
		parentFacet: int(d.readInt()),
		status:      ConeStatus(d.readUint()),
	}

	vars := make([]string, d.readCount())
	for i := range vars {
		vars[i] = d.readString()
	}
	ctx := poly.Context{
		Ring: poly.NewRing(vars...),
		Order: &poly.Order{
			Weights: d.readVectors(),
		},
	}

	polys := make([]*poly.Poly, d.readCount())
	for i := range polys {
		terms := make([]poly.Term, d.readCount())
		for j := range terms {
			terms[j].Coef = d.readRat()
			terms[j].Exp = d.readVector()
		}
		polys[i] = poly.NewPoly(terms...)
	}
	C.basis = poly.NewBasis(ctx, polys)

	C.interiorPoint = d.readVector()
	C.rays = d.readVectors()

	C.facets = make([]Facet, d.readCount())
	for i := range C.facets {
		F := &C.facets[i]
		F.normal = d.readVector()
		F.canonicalNormal = d.readVector()
		F.interiorPoint = d.readVector()
		F.ridges = d.readVectors()
		F.codim = int(d.readUint())
		F.numRays = int(d.readUint())
		F.ownerConeID = int(d.readInt())
		flags := d.readUint()
		F.flippable = flags&facetFlag_Flippable != 0
		F.incoming = flags&facetFlag_Incoming != 0
	}

	if d.err != nil {
		return nil, errors.Wrap(gfan.ErrBadCheckpoint, d.err.Error())
	}
	if C.parentFacet >= len(C.facets) {
		return nil, errors.Wrapf(gfan.ErrBadCheckpoint, "parent facet %d out of range", C.parentFacet)
	}
	return C, nil
}

func encodeInt(buf *proto.Buffer, x int64) {
	buf.EncodeZigzag64(uint64(x))
}

func encodeVector(buf *proto.Buffer, v gfan.Vector) {
	buf.EncodeVarint(uint64(len(v)))
	for _, vi := range v {
		encodeInt(buf, vi)
	}
}

func encodeVectors(buf *proto.Buffer, vecs []gfan.Vector) {
	buf.EncodeVarint(uint64(len(vecs)))
	for _, v := range vecs {
		encodeVector(buf, v)
	}
}

func encodeRat(buf *proto.Buffer, r *big.Rat) {
	encodeInt(buf, int64(r.Sign()))
	buf.EncodeRawBytes(r.Num().Bytes())
	buf.EncodeRawBytes(r.Denom().Bytes())
}

// coneDecoder reads a record, holding onto the first error so call sites stay linear.
type coneDecoder struct {
	buf *proto.Buffer
	err error
}

// maxCount bounds any length prefix so a corrupt record cannot trigger a huge allocation.
const maxCount = 1 << 20

func (d *coneDecoder) readUint() uint64 {
	if d.err != nil {
		return 0
	}
	x, err := d.buf.DecodeVarint()
	if err != nil {
		d.err = err
	}
	return x
}

func (d *coneDecoder) readInt() int64 {
	if d.err != nil {
		return 0
	}
	x, err := d.buf.DecodeZigzag64()
	if err != nil {
		d.err = err
	}
	return int64(x)
}

func (d *coneDecoder) readCount() int {
	n := d.readUint()
	if n > maxCount {
		if d.err == nil {
			d.err = errors.Errorf("length %d exceeds limit", n)
		}
		return 0
	}
	return int(n)
}

func (d *coneDecoder) readString() string {
	if d.err != nil {
		return ""
	}
	s, err := d.buf.DecodeStringBytes()
	if err != nil {
		d.err = err
	}
	return s
}

func (d *coneDecoder) readBytes() []byte {
	if d.err != nil {
		return nil
	}
	b, err := d.buf.DecodeRawBytes(false)
	if err != nil {
		d.err = err
	}
	return b
}

func (d *coneDecoder) readVector() gfan.Vector {
	v := make(gfan.Vector, d.readCount())
	for i := range v {
		v[i] = d.readInt()
	}
	return v
}

func (d *coneDecoder) readVectors() []gfan.Vector {
	n := d.readCount()
	if n == 0 {
		return nil
	}
	vecs := make([]gfan.Vector, n)
	for i := range vecs {
		vecs[i] = d.readVector()
	}
	return vecs
}

func (d *coneDecoder) readRat() *big.Rat {
	sign := d.readInt()
	num := new(big.Int).SetBytes(d.readBytes())
	den := new(big.Int).SetBytes(d.readBytes())
	if sign < 0 {
		num.Neg(num)
	}
	if den.Sign() == 0 {
		if d.err == nil {
			d.err = errors.New("zero denominator")
		}
		return new(big.Rat)
	}
	return new(big.Rat).SetFrac(num, den)
}

func compressRecord(out, raw []byte, comp gfan.Compression) ([]byte, error) {
	var packed []byte
	switch comp {
	case gfan.Compression_None:
	case gfan.Compression_LZ4:
		dst := make([]byte, lz4.CompressBlockBound(len(raw)))
		n, err := lz4.CompressBlock(raw, dst, nil)
		if err != nil {
			return nil, err
		}
		packed = dst[:n]
	case gfan.Compression_ZSTD:
		enc := getZstdEncoder()
		packed = enc.EncodeAll(raw, nil)
		zstdEncoderPool.Put(enc)
	default:
		return nil, errors.Wrapf(gfan.ErrBadParam, "compression %d", comp)
	}

	// store as is when compression does not help
	if len(packed) == 0 || len(packed) >= len(raw) {
		packed = nil
	}

	var hdr [recordHeaderSize]byte
	hdr[0] = byte(comp)
	binary.LittleEndian.PutUint32(hdr[1:], uint32(len(raw)))
	binary.LittleEndian.PutUint32(hdr[5:], uint32(len(packed)))
	out = append(out, hdr[:]...)
	if packed == nil {
		return append(out, raw...), nil
	}
	return append(out, packed...), nil
}

func decompressRecord(record []byte) ([]byte, error) {
	if len(record) < recordHeaderSize {
		return nil, errors.Wrap(gfan.ErrBadCheckpoint, "record too small for header")
	}
	comp := gfan.Compression(record[0])
	rawSize := binary.LittleEndian.Uint32(record[1:])
	packedSize := binary.LittleEndian.Uint32(record[5:])
	body := record[recordHeaderSize:]

	if packedSize == 0 {
		if uint32(len(body)) != rawSize {
			return nil, errors.Wrap(gfan.ErrBadCheckpoint, "record body size mismatch")
		}
		return body, nil
	}
	if uint32(len(body)) != packedSize {
		return nil, errors.Wrap(gfan.ErrBadCheckpoint, "compressed body size mismatch")
	}

	switch comp {
	case gfan.Compression_LZ4:
		raw := make([]byte, rawSize)
		n, err := lz4.UncompressBlock(body, raw)
		if err != nil {
			return nil, errors.Wrap(gfan.ErrBadCheckpoint, err.Error())
		}
		if uint32(n) != rawSize {
			return nil, errors.Wrap(gfan.ErrBadCheckpoint, "lz4 size mismatch")
		}
		return raw, nil
	case gfan.Compression_ZSTD:
		dec := getZstdDecoder()
		raw, err := dec.DecodeAll(body, make([]byte, 0, rawSize))
		zstdDecoderPool.Put(dec)
		if err != nil {
			return nil, errors.Wrap(gfan.ErrBadCheckpoint, err.Error())
		}
		return raw, nil
	}
	return nil, errors.Wrapf(gfan.ErrBadCheckpoint, "unknown compression %d", comp)
}
