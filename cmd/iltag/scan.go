package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/zeebo/blake3"

	"github.com/anirudhraja/iltags/catalog"
	"github.com/anirudhraja/iltags/tags"
	"github.com/anirudhraja/iltags/wire"
)

// runScan lists top-level tags without decoding them. Files are read
// through a SeekReader; stdin is streamed.
func runScan(e *env, args []string) error {
	fs := e.flagSet("scan")
	e.addDecodeFlags(fs)
	args, err := e.parse(fs, args)
	if err != nil {
		return err
	}
	name, err := oneInput(args)
	if err != nil {
		return err
	}
	cat := catalog.Standard()
	if e.catalogPath != "" {
		if cat, err = catalog.Load(e.catalogPath); err != nil {
			return errors.Wrapf(err, "load catalog %s", e.catalogPath)
		}
	}

	var r wire.Reader
	if name == "-" {
		r = wire.NewStreamReader(e.stdin)
	} else {
		f, err := os.Open(name)
		if err != nil {
			return errors.Wrap(err, "open input")
		}
		defer f.Close()
		r = wire.NewSeekReader(f)
	}

	tw := tabwriter.NewWriter(e.stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "OFFSET\tID\tNAME\tHEADER\tVALUE\tBLAKE3")
	s := tags.NewScanner(r, e.maxValueSize)
	count := 0
	for {
		entry, value, err := s.NextValue()
		if err == io.EOF {
			break
		}
		if err != nil {
			tw.Flush()
			return errors.Wrapf(err, "%s: tag #%d at offset %d", name, count, s.Offset())
		}
		sum := blake3.Sum256(value)
		fmt.Fprintf(tw, "%d\t%d\t%s\t%d\t%d\t%s\n",
			entry.Offset, entry.ID, cat.Label(entry.ID), entry.HeaderSize, entry.ValueSize,
			hex.EncodeToString(sum[:]))
		count++
	}
	e.logger.Debug("scanned", "input", name, "tags", count, "bytes", s.Offset())
	return errors.Wrap(tw.Flush(), "write")
}
