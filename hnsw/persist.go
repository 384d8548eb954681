package hnsw

import (
	"bytes"
	"fmt"
	"io"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/hnswkit/persistence"
	"github.com/hupe1980/hnswkit/space"
)

const (
	magicNumber   uint32 = 0x57534e48 // "HNSW"
	formatVersion uint32 = 1

	// maxLevelLimit bounds levels read from disk. With M >= 2 a level above
	// this is practically unreachable.
	maxLevelLimit = 64
)

// SaveIndex writes the graph to path.
func (h *HNSW) SaveIndex(path string) error {
	if h.closed {
		return ErrClosed
	}

	return persistence.SaveToFile(h.opts.FileSystem, path, h.Save)
}

// LoadIndex replaces the graph with the one stored at path. sp must match
// the kind and dimension recorded in the file. The resulting capacity is
// max(maxElements, stored element count).
func (h *HNSW) LoadIndex(path string, sp space.Space, maxElements int) error {
	if h.closed {
		return ErrClosed
	}

	return persistence.LoadFromFile(h.opts.FileSystem, path, func(r io.Reader, _ int64) error {
		return h.Load(r, sp, maxElements)
	})
}

// Save serializes the graph to w.
//
// Layout: a fixed little-endian header, then the (optionally compressed)
// body holding every node and the deleted bitmap, then a CRC32C of the
// uncompressed body.
func (h *HNSW) Save(w io.Writer) error {
	header := persistence.NewBinaryWriter(w)

	for _, v := range []uint32{magicNumber, formatVersion} {
		if err := header.WriteUint32(v); err != nil {
			return err
		}
	}

	if err := header.WriteUint8(uint8(h.space.Kind())); err != nil {
		return err
	}

	if err := header.WriteUint8(uint8(h.opts.Compression)); err != nil {
		return err
	}

	for _, v := range []uint32{uint32(h.dim), uint32(h.m), uint32(h.efConstruction), uint32(h.ef)} {
		if err := header.WriteUint32(v); err != nil {
			return err
		}
	}

	for _, v := range []uint64{uint64(h.maxElements), uint64(len(h.nodes))} {
		if err := header.WriteUint64(v); err != nil {
			return err
		}
	}

	if err := header.WriteUint32(uint32(h.maxLevel)); err != nil {
		return err
	}

	if err := header.WriteUint32(h.ep); err != nil {
		return err
	}

	cw, err := persistence.NewCompressWriter(w, h.opts.Compression)
	if err != nil {
		return err
	}

	sum := persistence.NewChecksumWriter(cw)
	body := persistence.NewBinaryWriter(sum)

	for _, n := range h.nodes {
		if err := body.WriteUint64(n.label); err != nil {
			return err
		}

		if err := body.WriteUint32(uint32(n.level)); err != nil {
			return err
		}

		if err := body.WriteFloat32Slice(n.vector); err != nil {
			return err
		}

		for _, conns := range n.connections {
			if err := body.WriteUint32(uint32(len(conns))); err != nil {
				return err
			}

			if err := body.WriteUint32Slice(conns); err != nil {
				return err
			}
		}
	}

	var bm bytes.Buffer
	if _, err := h.deleted.WriteTo(&bm); err != nil {
		return err
	}

	if err := body.WriteUint64(uint64(bm.Len())); err != nil {
		return err
	}

	if err := body.WriteBytes(bm.Bytes()); err != nil {
		return err
	}

	// The trailer goes to the compressor directly so it is not part of the sum.
	if err := persistence.NewBinaryWriter(cw).WriteUint32(sum.Sum()); err != nil {
		return err
	}

	return cw.Close()
}

// Load reads a graph written by Save from r. On error the current graph is
// left unchanged.
func (h *HNSW) Load(r io.Reader, sp space.Space, maxElements int) error {
	if h.closed {
		return ErrClosed
	}

	if sp == nil {
		return ErrNilSpace
	}

	header := persistence.NewBinaryReader(r)

	magic, err := header.ReadUint32()
	if err != nil {
		return err
	}

	if magic != magicNumber {
		return fmt.Errorf("%w: bad magic %#x", ErrInvalidFormat, magic)
	}

	version, err := header.ReadUint32()
	if err != nil {
		return err
	}

	if version != formatVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidFormat, version)
	}

	kind, err := header.ReadUint8()
	if err != nil {
		return err
	}

	compression, err := header.ReadUint8()
	if err != nil {
		return err
	}

	var dims [4]uint32 // dim, M, efConstruction, ef
	for i := range dims {
		if dims[i], err = header.ReadUint32(); err != nil {
			return err
		}
	}

	dim := int(dims[0])
	if space.Kind(kind) != sp.Kind() || dim != sp.Dim() {
		return fmt.Errorf("%w: file has %s/%d, space is %s/%d", ErrSpaceMismatch, space.Kind(kind), dim, sp.Kind(), sp.Dim())
	}

	// The stored capacity is informational; the caller decides the new one.
	if _, err = header.ReadUint64(); err != nil {
		return err
	}

	count64, err := header.ReadUint64()
	if err != nil {
		return err
	}

	if count64 > uint64(^uint32(0)) {
		return fmt.Errorf("%w: element count %d", ErrInvalidFormat, count64)
	}

	count := int(count64)

	maxLevel, err := header.ReadUint32()
	if err != nil {
		return err
	}

	ep, err := header.ReadUint32()
	if err != nil {
		return err
	}

	if maxLevel > maxLevelLimit || (count > 0 && int(ep) >= count) {
		return fmt.Errorf("%w: entry point %d at level %d", ErrInvalidFormat, ep, maxLevel)
	}

	dr, err := persistence.NewDecompressReader(r, persistence.Compression(compression))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	defer dr.Close()

	sum := persistence.NewChecksumReader(dr)
	body := persistence.NewBinaryReader(sum)

	nodes := make([]*node, 0, min(count, 1<<20))
	labels := make(map[uint64]uint32, min(count, 1<<20))

	for i := 0; i < count; i++ {
		n, err := readNode(body, dim, count)
		if err != nil {
			return err
		}

		if _, ok := labels[n.label]; ok {
			return fmt.Errorf("%w: duplicate label %d", ErrInvalidFormat, n.label)
		}

		labels[n.label] = uint32(i)
		nodes = append(nodes, n)
	}

	if err := checkLinks(nodes); err != nil {
		return err
	}

	if count > 0 && nodes[ep].level != int(maxLevel) {
		return fmt.Errorf("%w: entry point level %d, expected %d", ErrInvalidFormat, nodes[ep].level, maxLevel)
	}

	bmLen, err := body.ReadUint64()
	if err != nil {
		return err
	}

	// A roaring bitmap over count ids never needs more than a few bytes per id.
	if bmLen > uint64(8*count+1<<16) {
		return fmt.Errorf("%w: deleted set of %d bytes", ErrInvalidFormat, bmLen)
	}

	bmBytes, err := body.ReadBytes(int(bmLen))
	if err != nil {
		return err
	}

	deleted := roaring.New()
	if err := deleted.UnmarshalBinary(bmBytes); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}

	if !deleted.IsEmpty() && int(deleted.Maximum()) >= count {
		return fmt.Errorf("%w: deleted id %d out of range", ErrInvalidFormat, deleted.Maximum())
	}

	expected, err := persistence.NewBinaryReader(dr).ReadUint32()
	if err != nil {
		return err
	}

	if err := sum.Verify(expected); err != nil {
		return err
	}

	h.space = sp
	h.dim = dim
	h.configure(int(dims[1]), int(dims[2]))
	h.ef = max(int(dims[3]), 1)
	h.maxElements = max(maxElements, count)
	h.nodes = nodes
	h.labels = labels
	h.deleted = deleted
	h.ep = ep
	h.maxLevel = int(maxLevel)

	return nil
}

// checkLinks rejects edges on level l that point at nodes living below l.
func checkLinks(nodes []*node) error {
	for i, n := range nodes {
		for l, conns := range n.connections {
			for _, c := range conns {
				if nodes[c].level < l {
					return fmt.Errorf("%w: node %d links to node %d on level %d above its level %d",
						ErrInvalidFormat, i, c, l, nodes[c].level)
				}
			}
		}
	}

	return nil
}

func readNode(br *persistence.BinaryReader, dim, count int) (*node, error) {
	label, err := br.ReadUint64()
	if err != nil {
		return nil, err
	}

	level, err := br.ReadUint32()
	if err != nil {
		return nil, err
	}

	if level > maxLevelLimit {
		return nil, fmt.Errorf("%w: node level %d", ErrInvalidFormat, level)
	}

	n := &node{
		label:       label,
		level:       int(level),
		vector:      make([]float32, dim),
		connections: make([][]uint32, level+1),
	}

	if err := br.ReadFloat32SliceInto(n.vector); err != nil {
		return nil, err
	}

	for l := range n.connections {
		size, err := br.ReadUint32()
		if err != nil {
			return nil, err
		}

		if int(size) > count {
			return nil, fmt.Errorf("%w: %d connections on level %d", ErrInvalidFormat, size, l)
		}

		conns, err := br.ReadUint32Slice(int(size))
		if err != nil {
			return nil, err
		}

		for _, c := range conns {
			if int(c) >= count {
				return nil, fmt.Errorf("%w: connection to %d out of range", ErrInvalidFormat, c)
			}
		}

		n.connections[l] = conns
	}

	return n, nil
}
