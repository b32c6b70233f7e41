package object

import (
	bin "github.com/zarladar/interactive-hydrograph/internal/binary"
	"github.com/zarladar/interactive-hydrograph/internal/message"
)

// EncodedSize reports the bytes Encode will write for msgs.
func EncodedSize(msgs []message.Encoder, cfg bin.Config) int {
	n := 0
	for _, m := range msgs {
		n += 4 + message.EncodedSize(m, cfg)
	}
	return 4 + 1 + 1 + chunkWidth(n) + n + 4
}

func chunkWidth(n int) int {
	switch {
	case n <= 0xff:
		return 1
	case n <= 0xffff:
		return 2
	default:
		return 4
	}
}

// Encode appends a version 2 object header holding msgs, without
// timestamps, attribute phase change or creation order.
func Encode(b *bin.Buffer, msgs []message.Encoder) {
	cfg := b.Config()
	body := bin.NewBuffer(cfg)
	for _, m := range msgs {
		data := bin.NewBuffer(cfg)
		m.Encode(data)
		body.Uint8(uint8(m.Type()))
		body.Uint16(uint16(data.Len()))
		body.Uint8(0)
		body.Write(data.Bytes())
	}

	start := b.Len()
	b.Write([]byte("OHDR"))
	b.Uint8(2)
	width := chunkWidth(body.Len())
	var flags uint8
	switch width {
	case 2:
		flags = 1
	case 4:
		flags = 2
	}
	b.Uint8(flags)
	b.UintN(uint64(body.Len()), width)
	b.Write(body.Bytes())
	b.Uint32(bin.Lookup3(b.Bytes()[start:]))
}
