package object

import (
	"fmt"

	bin "github.com/zarladar/interactive-hydrograph/internal/binary"
	"github.com/zarladar/interactive-hydrograph/internal/message"
)

// readV1 decodes a version 1 header:
//
//	version (1), reserved (1), message count (2), ref count (4), header size (4),
//	reserved (4), then messages of type (2), size (2), flags (1), reserved (3),
//	body. Message sizes already include padding to a multiple of 8.
func readV1(r *bin.Reader, h *Header) error {
	r.Skip(4)
	r.Skip(4)
	size, err := r.ReadUint32()
	if err != nil {
		return err
	}
	r.Skip(4)

	blocks := []message.Continuation{{Offset: uint64(r.Pos()), Length: uint64(size)}}
	for hops := 0; len(blocks) > 0; hops++ {
		if hops > maxContinuations {
			return fmt.Errorf("%w: too many continuation blocks", ErrInvalidHeader)
		}
		blk := blocks[0]
		blocks = blocks[1:]
		raw, err := v1Messages(r.At(int64(blk.Offset)), blk.Length)
		if err != nil {
			return err
		}
		conts, err := h.decode(raw, r.Config())
		if err != nil {
			return err
		}
		for _, c := range conts {
			blocks = append(blocks, *c)
		}
	}
	return nil
}

func v1Messages(r *bin.Reader, length uint64) ([]rawMessage, error) {
	end := r.Pos() + int64(length)
	var out []rawMessage
	for r.Pos()+8 <= end {
		typ, _ := r.ReadUint16()
		size, _ := r.ReadUint16()
		r.Skip(4)
		data, err := r.ReadBytes(int(size))
		if err != nil {
			return nil, err
		}
		out = append(out, rawMessage{typ: message.Type(typ), data: data})
	}
	return out, nil
}

// readV2 decodes an "OHDR" header:
//
//	"OHDR", version 2, flags, [4 timestamps if flags&0x20],
//	[attribute phase change (4) if flags&0x10], chunk #0 size (1<<(flags&3) bytes),
//	messages, lookup3 checksum.
//
// Each message is type (1), size (2), flags (1), [creation order (2) if
// flags&0x04], body. Continuation blocks are "OCHK", messages, checksum.
func readV2(r *bin.Reader, h *Header) error {
	start := r.Pos()
	r.Skip(4)
	if v, _ := r.ReadUint8(); v != 2 {
		return fmt.Errorf("%w: OHDR version %d", ErrInvalidHeader, v)
	}
	flags, err := r.ReadUint8()
	if err != nil {
		return err
	}
	if flags&0x20 != 0 {
		r.Skip(16)
	}
	if flags&0x10 != 0 {
		r.Skip(4)
	}
	chunk, err := r.ReadUintN(1 << (flags & 0x03))
	if err != nil {
		return err
	}
	order := flags&0x04 != 0

	body := r.Pos()
	if err := verify(r.At(start), int(body-start)+int(chunk)); err != nil {
		return err
	}
	raw, err := v2Messages(r.At(body), chunk, order)
	if err != nil {
		return err
	}
	for hops := 0; len(raw) > 0; hops++ {
		if hops > maxContinuations {
			return fmt.Errorf("%w: too many continuation blocks", ErrInvalidHeader)
		}
		conts, err := h.decode(raw, r.Config())
		if err != nil {
			return err
		}
		raw = nil
		for _, c := range conts {
			more, err := v2Block(r, c, order)
			if err != nil {
				return err
			}
			raw = append(raw, more...)
		}
	}
	return nil
}

// v2Block reads an "OCHK" continuation block. Its length covers the
// signature, the messages and the trailing checksum.
func v2Block(r *bin.Reader, c *message.Continuation, order bool) ([]rawMessage, error) {
	cr := r.At(int64(c.Offset))
	if sig, err := cr.ReadBytes(4); err != nil || string(sig) != "OCHK" {
		return nil, fmt.Errorf("%w: continuation at %d lacks OCHK", ErrInvalidHeader, c.Offset)
	}
	if c.Length < 8 {
		return nil, fmt.Errorf("%w: continuation of %d bytes", ErrInvalidHeader, c.Length)
	}
	if err := verify(r.At(int64(c.Offset)), int(c.Length)-4); err != nil {
		return nil, err
	}
	return v2Messages(cr, c.Length-8, order)
}

func v2Messages(r *bin.Reader, length uint64, order bool) ([]rawMessage, error) {
	end := r.Pos() + int64(length)
	prefix := int64(4)
	if order {
		prefix += 2
	}
	var out []rawMessage
	// Trailing gaps shorter than a message prefix are padding.
	for r.Pos()+prefix <= end {
		typ, _ := r.ReadUint8()
		size, _ := r.ReadUint16()
		r.Skip(prefix - 3)
		data, err := r.ReadBytes(int(size))
		if err != nil {
			return nil, err
		}
		out = append(out, rawMessage{typ: message.Type(typ), data: data})
	}
	return out, nil
}

// verify checks the lookup3 checksum stored after the first n bytes at r.
func verify(r *bin.Reader, n int) error {
	raw, err := r.ReadBytes(n + 4)
	if err != nil {
		return err
	}
	stored := r.ByteOrder().Uint32(raw[n:])
	if stored != bin.Lookup3(raw[:n]) {
		return ErrChecksum
	}
	return nil
}
