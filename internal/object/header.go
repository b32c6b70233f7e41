package object

import (
	"errors"
	"fmt"

	bin "github.com/zarladar/interactive-hydrograph/internal/binary"
	"github.com/zarladar/interactive-hydrograph/internal/message"
)

var (
	ErrInvalidHeader = errors.New("invalid object header")
	ErrChecksum      = errors.New("object header checksum mismatch")
)

// maxContinuations bounds continuation chains in corrupt files.
const maxContinuations = 1024

// Header is a decoded object header.
type Header struct {
	Version  uint8
	Address  uint64
	Messages []message.Message
}

// Read decodes the object header at addr.
func Read(r *bin.Reader, addr uint64) (*Header, error) {
	hr := r.At(int64(addr))
	peek, err := hr.Peek(4)
	if err != nil {
		return nil, fmt.Errorf("object header at %d: %w", addr, err)
	}

	h := &Header{Address: addr}
	switch {
	case string(peek) == "OHDR":
		h.Version = 2
		err = readV2(hr, h)
	case peek[0] == 1:
		h.Version = 1
		err = readV1(hr, h)
	default:
		err = fmt.Errorf("%w: unrecognised prefix % x", ErrInvalidHeader, peek)
	}
	if err != nil {
		return nil, fmt.Errorf("object header at %d: %w", addr, err)
	}
	return h, nil
}

// Find returns the first message of type t, or nil.
func (h *Header) Find(t message.Type) message.Message {
	for _, m := range h.Messages {
		if m.Type() == t {
			return m
		}
	}
	return nil
}

// All returns every message of type t in header order.
func (h *Header) All(t message.Type) []message.Message {
	var out []message.Message
	for _, m := range h.Messages {
		if m.Type() == t {
			out = append(out, m)
		}
	}
	return out
}

func (h *Header) Dataspace() *message.Dataspace {
	m, _ := h.Find(message.TypeDataspace).(*message.Dataspace)
	return m
}

func (h *Header) Datatype() *message.Datatype {
	m, _ := h.Find(message.TypeDatatype).(*message.Datatype)
	return m
}

func (h *Header) Layout() *message.DataLayout {
	m, _ := h.Find(message.TypeDataLayout).(*message.DataLayout)
	return m
}

func (h *Header) Filters() *message.FilterPipeline {
	m, _ := h.Find(message.TypeFilterPipeline).(*message.FilterPipeline)
	return m
}

func (h *Header) SymbolTable() *message.SymbolTable {
	m, _ := h.Find(message.TypeSymbolTable).(*message.SymbolTable)
	return m
}

func (h *Header) LinkInfo() *message.LinkInfo {
	m, _ := h.Find(message.TypeLinkInfo).(*message.LinkInfo)
	return m
}

// Links returns the group's Link messages.
func (h *Header) Links() []*message.Link {
	var out []*message.Link
	for _, m := range h.All(message.TypeLink) {
		out = append(out, m.(*message.Link))
	}
	return out
}

// IsDataset reports whether the header describes a dataset.
func (h *Header) IsDataset() bool {
	return h.Dataspace() != nil && h.Layout() != nil
}

// IsGroup reports whether the header describes a group of either style.
func (h *Header) IsGroup() bool {
	return h.SymbolTable() != nil || h.LinkInfo() != nil || len(h.Links()) > 0
}

// rawMessage is a message body and its type before decoding.
type rawMessage struct {
	typ  message.Type
	data []byte
}

// decode appends the decoded messages to h and returns the continuation
// blocks they reference.
func (h *Header) decode(raw []rawMessage, cfg bin.Config) ([]*message.Continuation, error) {
	var conts []*message.Continuation
	for _, rm := range raw {
		if rm.typ == message.TypeNIL {
			continue
		}
		m, err := message.Parse(rm.typ, rm.data, cfg)
		if err != nil {
			return nil, err
		}
		if c, ok := m.(*message.Continuation); ok {
			conts = append(conts, c)
			continue
		}
		h.Messages = append(h.Messages, m)
	}
	return conts, nil
}
