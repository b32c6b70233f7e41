package hdf5

import (
	"bytes"
	"errors"
	"math"
	"path/filepath"
	"reflect"
	"testing"

	bin "github.com/zarladar/interactive-hydrograph/internal/binary"
	"github.com/zarladar/interactive-hydrograph/internal/message"
	"github.com/zarladar/interactive-hydrograph/internal/superblock"
)

func ramp(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 100 + float64(i)*0.5
	}
	return out
}

func openImage(t *testing.T, img []byte) *File {
	t.Helper()
	f, err := NewFile(bytes.NewReader(img))
	if err != nil {
		t.Fatalf("NewFile failed: %v", err)
	}
	return f
}

func build(t *testing.T, w *Writer) *File {
	t.Helper()
	img, err := w.Bytes()
	if err != nil {
		t.Fatalf("Bytes failed: %v", err)
	}
	return openImage(t, img)
}

func TestCreateAndOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heads.h5")
	w, err := Create(path)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	vals := ramp(2 * 3 * 4)
	if err := w.CreateDataset("/Datasets/Head/Values", []uint64{2, 12}, vals); err != nil {
		t.Fatalf("CreateDataset failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	f, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()

	if f.Superblock().Version != 3 {
		t.Errorf("superblock version %d", f.Superblock().Version)
	}
	ds, err := f.OpenDataset("/Datasets/Head/Values")
	if err != nil {
		t.Fatalf("OpenDataset failed: %v", err)
	}
	if !reflect.DeepEqual(ds.Shape(), []uint64{2, 12}) || ds.Rank() != 2 || ds.Len() != 24 {
		t.Errorf("shape %v rank %d len %d", ds.Shape(), ds.Rank(), ds.Len())
	}
	got, err := ds.ReadFloat64()
	if err != nil {
		t.Fatalf("ReadFloat64 failed: %v", err)
	}
	if !reflect.DeepEqual(got, vals) {
		t.Errorf("ReadFloat64 = %v", got)
	}
	if ds.Name() != "Values" || ds.Path() != "/Datasets/Head/Values" {
		t.Errorf("name %q path %q", ds.Name(), ds.Path())
	}
}

func TestStorageOptions(t *testing.T) {
	vals := ramp(5 * 7 * 3)
	tests := []struct {
		name string
		opts []DatasetOption
	}{
		{"contiguous", nil},
		{"compact", []DatasetOption{WithCompact()}},
		{"chunked", []DatasetOption{WithChunks(2, 3, 3)}},
		{"deflate", []DatasetOption{WithChunks(5, 7, 3), WithShuffle(), WithDeflate(4), WithFletcher32()}},
		{"lz4", []DatasetOption{WithChunks(1, 7, 3), WithLZ4()}},
		{"zstd", []DatasetOption{WithChunks(2, 2, 2), WithShuffle(), WithZstd(3)}},
		{"float32 BE", []DatasetOption{WithDatatype(message.NewFloat(4, true)), WithChunks(4, 4, 1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := Create("")
			if err := w.CreateDataset("values", []uint64{5, 7, 3}, vals, tt.opts...); err != nil {
				t.Fatalf("CreateDataset failed: %v", err)
			}
			f := build(t, w)
			ds, err := f.OpenDataset("/values")
			if err != nil {
				t.Fatalf("OpenDataset failed: %v", err)
			}
			got, err := ds.ReadFloat64()
			if err != nil {
				t.Fatalf("ReadFloat64 failed: %v", err)
			}
			if !reflect.DeepEqual(got, vals) {
				t.Errorf("values differ: got %v", got[:5])
			}
		})
	}
}

func TestIntegerDataset(t *testing.T) {
	w, _ := Create("")
	err := w.CreateDataset("counts", []uint64{4}, []float64{1, -2, 3, 40000},
		WithDatatype(message.NewInteger(4, true, true)))
	if err != nil {
		t.Fatal(err)
	}
	ds, err := build(t, w).OpenDataset("counts")
	if err != nil {
		t.Fatal(err)
	}
	got, _ := ds.ReadFloat64()
	if !reflect.DeepEqual(got, []float64{1, -2, 3, 40000}) {
		t.Errorf("ReadFloat64 = %v", got)
	}
	if ds.Datatype().String() != "int32 BE" {
		t.Errorf("Datatype = %v", ds.Datatype())
	}
}

func TestSmallOffsets(t *testing.T) {
	w, err := Create("", WithOffsetSize(4), WithLengthSize(4))
	if err != nil {
		t.Fatal(err)
	}
	w.CreateDataset("/a/b", []uint64{3, 2}, ramp(6), WithChunks(2, 2))
	f := build(t, w)
	if f.Superblock().OffsetSize != 4 {
		t.Errorf("OffsetSize = %d", f.Superblock().OffsetSize)
	}
	ds, err := f.OpenDataset("/a/b")
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := ds.ReadFloat64(); !reflect.DeepEqual(got, ramp(6)) {
		t.Errorf("ReadFloat64 = %v", got)
	}

	if _, err := Create("", WithOffsetSize(3)); err == nil {
		t.Error("expected an error for a 3-byte offset")
	}
}

func TestMembersAndErrors(t *testing.T) {
	w, _ := Create("")
	w.CreateGroup("/Datasets/Empty")
	w.CreateDataset("/Datasets/Head", []uint64{2}, []float64{1, 2})
	w.CreateSoftLink("/Datasets/alias", "Head")
	w.CreateSoftLink("/loop", "/loop")
	f := build(t, w)

	g, err := f.OpenGroup("/Datasets")
	if err != nil {
		t.Fatalf("OpenGroup failed: %v", err)
	}
	names, err := g.Members()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(names, []string{"Empty", "Head", "alias"}) {
		t.Errorf("Members = %v", names)
	}
	if g.Name() != "Datasets" || f.Root().Name() != "/" {
		t.Errorf("names %q %q", g.Name(), f.Root().Name())
	}

	ds, err := g.OpenDataset("alias")
	if err != nil {
		t.Fatalf("soft link: %v", err)
	}
	if got, _ := ds.ReadFloat64(); !reflect.DeepEqual(got, []float64{1, 2}) {
		t.Errorf("alias = %v", got)
	}

	tests := []struct {
		path string
		want error
	}{
		{"/Datasets/Missing", ErrNotFound},
		{"/Datasets/Empty", ErrNotDataset},
		{"/Datasets/Head/Values", ErrNotGroup},
		{"/loop", ErrLinkDepth},
	}
	for _, tt := range tests {
		if _, err := f.OpenDataset(tt.path); !errors.Is(err, tt.want) {
			t.Errorf("OpenDataset(%s) = %v, want %v", tt.path, err, tt.want)
		}
	}

	if err := w.CreateDataset("/Datasets/Head", []uint64{1}, []float64{0}); !errors.Is(err, ErrExists) {
		t.Errorf("duplicate dataset: %v", err)
	}
	if err := w.CreateDataset("/x", []uint64{3}, []float64{0}); err == nil {
		t.Error("expected a shape error")
	}
	if err := w.CreateDataset("/y", []uint64{1}, []float64{0}, WithDeflate(1)); err == nil {
		t.Error("expected an error for filters without chunks")
	}
}

func TestNotHDF5(t *testing.T) {
	_, err := NewFile(bytes.NewReader([]byte("IWFM head output, not HDF5 at all......")))
	if !errors.Is(err, ErrNotHDF5) {
		t.Errorf("err = %v, want ErrNotHDF5", err)
	}
}

func TestClosed(t *testing.T) {
	w, _ := Create("")
	w.CreateDataset("v", []uint64{1}, []float64{1})
	f := build(t, w)
	ds, _ := f.OpenDataset("v")
	f.Close()
	if _, err := f.OpenDataset("v"); !errors.Is(err, ErrClosed) {
		t.Errorf("OpenDataset after Close = %v", err)
	}
	if _, err := ds.ReadRaw(); !errors.Is(err, ErrClosed) {
		t.Errorf("ReadRaw after Close = %v", err)
	}
	if err := f.Close(); err != nil {
		t.Errorf("second Close = %v", err)
	}
}

func TestUserBlock(t *testing.T) {
	w, _ := Create("")
	w.CreateDataset("/Datasets/Head/Values", []uint64{3}, []float64{7, 8, 9})
	img, err := w.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	shifted := append(make([]byte, 512), img...)
	f := openImage(t, shifted)
	if f.Superblock().Location != 512 {
		t.Errorf("Location = %d", f.Superblock().Location)
	}
	ds, err := f.OpenDataset("/Datasets/Head/Values")
	if err != nil {
		t.Fatalf("OpenDataset failed: %v", err)
	}
	if got, _ := ds.ReadFloat64(); !reflect.DeepEqual(got, []float64{7, 8, 9}) {
		t.Errorf("ReadFloat64 = %v", got)
	}
}

// legacyImage lays out a version 0 file with an old-style root group:
// a symbol table B-tree, one symbol node and a local heap naming a
// dataset "Head" and a soft link "alias" to it.
func legacyImage() []byte {
	const (
		rootAt  = 96
		treeAt  = 200
		snodAt  = 300
		heapAt  = 600
		namesAt = 640
		dsAt    = 800
		dataAt  = 1000
	)
	cfg := bin.DefaultConfig()
	b := bin.NewBuffer(cfg)
	b.Write(superblock.Signature)
	b.Write([]byte{0, 0, 0, 0, 0, 8, 8, 0})
	b.Uint16(4)
	b.Uint16(16)
	b.Uint32(0)
	b.Offset(0)
	b.Undefined()
	b.Offset(dataAt + 24)
	b.Undefined()
	b.Offset(0)
	b.Offset(rootAt)
	b.Uint32(1)
	b.Uint32(0)
	b.Offset(treeAt)
	b.Offset(heapAt)

	v1Header := func(msgs ...message.Encoder) {
		body := bin.NewBuffer(cfg)
		for _, m := range msgs {
			data := bin.NewBuffer(cfg)
			m.Encode(data)
			padded := (data.Len() + 7) &^ 7
			body.Uint16(uint16(m.Type()))
			body.Uint16(uint16(padded))
			body.Zero(4)
			body.Write(data.Bytes())
			body.Zero(padded - data.Len())
		}
		b.Uint8(1)
		b.Uint8(0)
		b.Uint16(uint16(len(msgs)))
		b.Uint32(1)
		b.Uint32(uint32(body.Len()))
		b.Zero(4)
		b.Write(body.Bytes())
	}

	b.Zero(rootAt - b.Len())
	v1Header(symbolTable{btree: treeAt, heap: heapAt})

	b.Zero(treeAt - b.Len())
	b.Write([]byte("TREE"))
	b.Uint8(0)
	b.Uint8(0)
	b.Uint16(1)
	b.Undefined()
	b.Undefined()
	b.Length(0)
	b.Offset(snodAt)
	b.Length(6)

	b.Zero(snodAt - b.Len())
	b.Write([]byte("SNOD"))
	b.Uint8(1)
	b.Uint8(0)
	b.Uint16(2)
	entry := func(name, addr uint64, cache, scratch uint32) {
		b.Offset(name)
		b.Offset(addr)
		b.Uint32(cache)
		b.Uint32(0)
		b.Uint32(scratch)
		b.Zero(12)
	}
	entry(1, dsAt, 0, 0)
	entry(6, 0, 2, 12)

	names := []byte("\x00Head\x00alias\x00/Head\x00")
	b.Zero(heapAt - b.Len())
	b.Write([]byte("HEAP"))
	b.Uint8(0)
	b.Zero(3)
	b.Length(uint64(len(names)))
	b.Length(^uint64(0))
	b.Offset(namesAt)
	b.Zero(namesAt - b.Len())
	b.Write(names)

	b.Zero(dsAt - b.Len())
	v1Header(
		message.NewSimpleDataspace(3),
		message.NewFloat(8, false),
		&message.DataLayout{Class: message.LayoutContiguous, Address: dataAt, Size: 24},
	)
	b.Zero(dataAt - b.Len())
	for _, v := range []float64{1.25, 2.5, 3.75} {
		b.Uint64(math.Float64bits(v))
	}
	return b.Bytes()
}

// symbolTable encodes message 0x11, which the writer never emits.
type symbolTable struct{ btree, heap uint64 }

func (symbolTable) Type() message.Type { return message.TypeSymbolTable }
func (s symbolTable) Encode(b *bin.Buffer) {
	b.Offset(s.btree)
	b.Offset(s.heap)
}

func TestLegacyFile(t *testing.T) {
	f := openImage(t, legacyImage())
	if f.Superblock().Version != 0 {
		t.Errorf("version %d", f.Superblock().Version)
	}
	names, err := f.Root().Members()
	if err != nil {
		t.Fatalf("Members failed: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"Head", "alias"}) {
		t.Errorf("Members = %v", names)
	}
	for _, p := range []string{"/Head", "/alias"} {
		ds, err := f.OpenDataset(p)
		if err != nil {
			t.Fatalf("OpenDataset(%s) failed: %v", p, err)
		}
		got, err := ds.ReadFloat64()
		if err != nil {
			t.Fatalf("ReadFloat64 failed: %v", err)
		}
		if !reflect.DeepEqual(got, []float64{1.25, 2.5, 3.75}) {
			t.Errorf("%s = %v", p, got)
		}
	}
}
