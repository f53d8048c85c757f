package main

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

func runEncode(e *env, args []string) error {
	fs := e.flagSet("encode")
	asHex := fs.Bool("hex", false, "print the encoding in hex instead of binary")
	args, err := e.parse(fs, args)
	if err != nil {
		return err
	}
	name, err := oneInput(args)
	if err != nil {
		return err
	}
	in, err := e.open(name)
	if err != nil {
		return err
	}
	defer in.Close()
	doc, err := io.ReadAll(in)
	if err != nil {
		return errors.Wrap(err, "read input")
	}

	p, err := e.iltags()
	if err != nil {
		return err
	}
	ts, err := p.BuildYAML(doc)
	if err != nil {
		return errors.Wrap(err, name)
	}
	e.logger.Debug("built", "input", name, "tags", len(ts))
	if !*asHex {
		return p.EncodeTo(e.stdout, ts...)
	}
	data, err := p.EncodeAll(ts...)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(e.stdout, hex.EncodeToString(data))
	return errors.Wrap(err, "write")
}
