// Diagnostic tool that prints the group tree of an HDF5 file with each
// dataset's shape, datatype, storage layout and filters. Use it to find
// the head dataset of an unfamiliar MODFLOW output file.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/zarladar/interactive-hydrograph/internal/filter"
	"github.com/zarladar/interactive-hydrograph/internal/hdf5"
	"github.com/zarladar/interactive-hydrograph/internal/message"
)

const maxDepth = 20

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: diagnose <file.h5>")
		os.Exit(1)
	}
	if err := diagnose(os.Stdout, os.Args[1]); err != nil {
		fmt.Printf("ERROR: %v\n", err)
		os.Exit(1)
	}
}

func diagnose(w io.Writer, filename string) error {
	fmt.Fprintf(w, "=== Analyzing %s ===\n\n", filename)

	f, err := hdf5.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	sb := f.Superblock()
	fmt.Fprintf(w, "Superblock version: %d (offsets %d bytes, lengths %d bytes)\n",
		sb.Version, sb.OffsetSize, sb.LengthSize)
	if sb.Location != 0 {
		fmt.Fprintf(w, "User block: %d bytes\n", sb.Location)
	}
	fmt.Fprintln(w)

	walkGroup(w, f.Root(), "", 0)
	return nil
}

func walkGroup(w io.Writer, g *hdf5.Group, indent string, depth int) {
	if depth > maxDepth {
		fmt.Fprintf(w, "%s[MAX DEPTH REACHED]\n", indent)
		return
	}

	members, err := g.Members()
	if err != nil {
		fmt.Fprintf(w, "%sGroup %q: ERROR getting members: %v\n", indent, g.Path(), err)
		return
	}
	fmt.Fprintf(w, "%sGroup %q:\n", indent, g.Path())
	fmt.Fprintf(w, "%s  Members: %d\n", indent, len(members))

	for _, name := range members {
		subg, err := g.OpenGroup(name)
		if err == nil {
			walkGroup(w, subg, indent+"  ", depth+1)
			continue
		}

		ds, err := g.OpenDataset(name)
		if err != nil {
			fmt.Fprintf(w, "%s  %q: ERROR opening as group or dataset: %v\n", indent, name, err)
			continue
		}
		describeDataset(w, ds, indent+"  ")
	}
}

func describeDataset(w io.Writer, ds *hdf5.Dataset, indent string) {
	fmt.Fprintf(w, "%sDataset %q:\n", indent, ds.Path())
	fmt.Fprintf(w, "%s  Shape: %v (%d elements)\n", indent, ds.Shape(), ds.Len())
	fmt.Fprintf(w, "%s  Datatype: %s\n", indent, ds.Datatype())

	l := ds.Layout()
	switch l.Class {
	case message.LayoutChunked:
		fmt.Fprintf(w, "%s  Layout: %s, chunks %v, index %s\n", indent, l.Class, l.ChunkDims, l.Index)
	default:
		fmt.Fprintf(w, "%s  Layout: %s\n", indent, l.Class)
	}

	if fp := ds.Filters(); fp != nil && len(fp.Filters) > 0 {
		names := make([]string, len(fp.Filters))
		for i, spec := range fp.Filters {
			names[i] = filter.Name(spec.ID)
			if spec.Optional() {
				names[i] += " (optional)"
			}
		}
		fmt.Fprintf(w, "%s  Filters: %s\n", indent, strings.Join(names, ", "))
	}

	if ds.Rank() >= 2 {
		cells := uint64(1)
		for _, d := range ds.Shape()[1:] {
			cells *= d
		}
		fmt.Fprintf(w, "%s  Periods: %d, values per period: %d\n", indent, ds.Shape()[0], cells)
	}
}
