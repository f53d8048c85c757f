package main

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/anirudhraja/iltags/ilint"
)

func runILInt(e *env, args []string) error {
	fs := e.flagSet("ilint")
	signed := fs.Bool("signed", false, "treat values as signed (ZigZag) integers")
	decode := fs.Bool("decode", false, "decode hex encodings instead of encoding numbers")
	args, err := e.parse(fs, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return usagef("want at least one value")
	}

	for _, arg := range args {
		var line string
		if *decode {
			line, err = decodeILInt(arg, *signed)
		} else {
			line, err = encodeILInt(arg, *signed)
		}
		if err != nil {
			return errors.Wrap(err, arg)
		}
		if _, err := fmt.Fprintln(e.stdout, line); err != nil {
			return errors.Wrap(err, "write")
		}
	}
	return nil
}

func encodeILInt(arg string, signed bool) (string, error) {
	var enc []byte
	if signed {
		v, err := strconv.ParseInt(arg, 0, 64)
		if err != nil {
			return "", err
		}
		enc = ilint.EncodeSigned(v)
	} else {
		v, err := strconv.ParseUint(arg, 0, 64)
		if err != nil {
			return "", err
		}
		enc = ilint.Encode(v)
	}
	return fmt.Sprintf("%s\t%s", arg, spacedHex(enc)), nil
}

func decodeILInt(arg string, signed bool) (string, error) {
	b, err := hex.DecodeString(strings.ReplaceAll(arg, " ", ""))
	if err != nil {
		return "", err
	}
	var (
		value string
		n     int
	)
	if signed {
		var v int64
		v, n, err = ilint.DecodeSigned(b)
		value = strconv.FormatInt(v, 10)
	} else {
		var v uint64
		v, n, err = ilint.Decode(b)
		value = strconv.FormatUint(v, 10)
	}
	if err != nil {
		return "", err
	}
	if n != len(b) {
		return "", fmt.Errorf("%d trailing bytes", len(b)-n)
	}
	return fmt.Sprintf("%s\t%s", spacedHex(b), value), nil
}

func spacedHex(b []byte) string {
	return fmt.Sprintf("% x", b)
}
