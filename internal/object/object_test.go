package object

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	bin "github.com/zarladar/interactive-hydrograph/internal/binary"
	"github.com/zarladar/interactive-hydrograph/internal/message"
)

func TestEncodeReadRoundTrip(t *testing.T) {
	cfg := bin.DefaultConfig()
	b := bin.NewBuffer(cfg)
	b.Zero(40)
	msgs := []message.Encoder{
		message.NewSimpleDataspace(12, 4, 3, 5),
		message.NewFloat(8, false),
		&message.DataLayout{Class: message.LayoutContiguous, Address: 4096, Size: 12 * 60 * 8},
	}
	Encode(b, msgs)
	if got, want := b.Len()-40, EncodedSize(msgs, cfg); got != want {
		t.Errorf("EncodedSize = %d, wrote %d", want, got)
	}

	h, err := Read(bin.NewReader(bytes.NewReader(b.Bytes()), cfg), 40)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if h.Version != 2 || !h.IsDataset() || h.IsGroup() {
		t.Fatalf("unexpected header %+v", h)
	}
	if !reflect.DeepEqual(h.Dataspace().Dims, []uint64{12, 4, 3, 5}) {
		t.Errorf("Dims = %v", h.Dataspace().Dims)
	}
	if h.Datatype().Size != 8 || h.Layout().Address != 4096 {
		t.Errorf("datatype %v layout %+v", h.Datatype(), h.Layout())
	}
}

func TestEncodeWideChunk(t *testing.T) {
	cfg := bin.DefaultConfig()
	var msgs []message.Encoder
	for i := 0; i < 40; i++ {
		msgs = append(msgs, &message.Link{Name: "member-with-a-long-name", Address: uint64(1000 + i)})
	}
	b := bin.NewBuffer(cfg)
	Encode(b, msgs)
	if b.Bytes()[5] != 1 {
		t.Errorf("flags = %#x, want two-byte chunk size", b.Bytes()[5])
	}
	h, err := Read(bin.NewReader(bytes.NewReader(b.Bytes()), cfg), 0)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if n := len(h.Links()); n != 40 {
		t.Errorf("got %d links, want 40", n)
	}
	if !h.IsGroup() {
		t.Error("IsGroup = false")
	}
}

func TestChecksumMismatch(t *testing.T) {
	cfg := bin.DefaultConfig()
	b := bin.NewBuffer(cfg)
	Encode(b, []message.Encoder{message.NewSimpleDataspace(3)})
	raw := b.Bytes()
	raw[len(raw)-6] ^= 0xff

	_, err := Read(bin.NewReader(bytes.NewReader(raw), cfg), 0)
	if !errors.Is(err, ErrChecksum) {
		t.Errorf("err = %v, want ErrChecksum", err)
	}
}

// v1Message appends a version 1 message with its body padded to 8.
func v1Message(b *bin.Buffer, typ message.Type, body []byte) {
	padded := (len(body) + 7) &^ 7
	b.Uint16(uint16(typ))
	b.Uint16(uint16(padded))
	b.Zero(4)
	b.Write(body)
	b.Zero(padded - len(body))
}

func encoded(cfg bin.Config, m message.Encoder) []byte {
	b := bin.NewBuffer(cfg)
	m.Encode(b)
	return b.Bytes()
}

func TestReadV1WithContinuation(t *testing.T) {
	cfg := bin.DefaultConfig()
	const blockAt = 256

	block := bin.NewBuffer(cfg)
	v1Message(block, message.TypeDatatype, encoded(cfg, message.NewFloat(4, true)))
	v1Message(block, message.TypeDataLayout, encoded(cfg,
		&message.DataLayout{Class: message.LayoutContiguous, Address: 512, Size: 24}))

	msgs := bin.NewBuffer(cfg)
	v1Message(msgs, message.TypeDataspace, encoded(cfg, message.NewSimpleDataspace(2, 3)))
	cont := bin.NewBuffer(cfg)
	cont.Offset(blockAt)
	cont.Length(uint64(block.Len()))
	v1Message(msgs, message.TypeContinuation, cont.Bytes())
	v1Message(msgs, message.TypeNIL, make([]byte, 8))

	b := bin.NewBuffer(cfg)
	b.Uint8(1)
	b.Uint8(0)
	b.Uint16(5)
	b.Uint32(1)
	b.Uint32(uint32(msgs.Len()))
	b.Zero(4)
	b.Write(msgs.Bytes())
	b.Zero(blockAt - b.Len())
	b.Write(block.Bytes())

	h, err := Read(bin.NewReader(bytes.NewReader(b.Bytes()), cfg), 0)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if h.Version != 1 || len(h.Messages) != 3 {
		t.Fatalf("version %d with %d messages", h.Version, len(h.Messages))
	}
	if dt := h.Datatype(); dt == nil || !dt.BigEndian || dt.Size != 4 {
		t.Errorf("datatype = %v", dt)
	}
	if l := h.Layout(); l == nil || l.Address != 512 {
		t.Errorf("layout = %+v", l)
	}
}

func TestReadGarbage(t *testing.T) {
	cfg := bin.DefaultConfig()
	_, err := Read(bin.NewReader(bytes.NewReader([]byte("XXXXXXXXXXXXXXXX")), cfg), 0)
	if !errors.Is(err, ErrInvalidHeader) {
		t.Errorf("err = %v, want ErrInvalidHeader", err)
	}
}
