package main

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/anirudhraja/iltags"
)

// cborMode encodes with Core Deterministic Encoding (RFC 8949 §4.2), so a
// dump of the same data is always the same bytes.
var cborMode cbor.EncMode

func init() {
	var err error
	cborMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("iltag: CBOR encoder initialization failed: " + err.Error())
	}
}

func runDump(e *env, args []string) error {
	fs := e.flagSet("dump")
	e.addDecodeFlags(fs)
	format := fs.StringP("format", "f", "text", "output format: text, json, yaml or cbor")
	args, err := e.parse(fs, args)
	if err != nil {
		return err
	}
	name, err := oneInput(args)
	if err != nil {
		return err
	}
	write, ok := dumpFormats[*format]
	if !ok {
		return usagef("unknown format %q", *format)
	}

	p, err := e.iltags()
	if err != nil {
		return err
	}
	in, err := e.open(name)
	if err != nil {
		return err
	}
	defer in.Close()

	ts, err := p.DecodeFrom(in)
	if err != nil {
		return errors.Wrap(err, name)
	}
	e.logger.Debug("decoded", "input", name, "tags", len(ts))
	nodes := make([]*iltags.Node, len(ts))
	for i, t := range ts {
		nodes[i] = p.Tree(t)
	}
	return write(e.stdout, nodes)
}

var dumpFormats = map[string]func(io.Writer, []*iltags.Node) error{
	"text": writeText,
	"json": func(w io.Writer, nodes []*iltags.Node) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(nodes), "write json")
	},
	"yaml": func(w io.Writer, nodes []*iltags.Node) error {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(nodes); err != nil {
			return errors.Wrap(err, "write yaml")
		}
		return errors.Wrap(enc.Close(), "write yaml")
	},
	"cbor": func(w io.Writer, nodes []*iltags.Node) error {
		data, err := cborMode.Marshal(nodes)
		if err != nil {
			return errors.Wrap(err, "encode cbor")
		}
		_, err = w.Write(data)
		return errors.Wrap(err, "write cbor")
	},
}

// writeText prints one line per tag, children indented below their
// container.
func writeText(w io.Writer, nodes []*iltags.Node) error {
	var b strings.Builder
	for _, n := range nodes {
		textNode(&b, n, "", 0)
	}
	_, err := io.WriteString(w, b.String())
	return errors.Wrap(err, "write text")
}

func textNode(b *strings.Builder, n *iltags.Node, key string, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	if key != "" {
		b.WriteString(strconv.Quote(key))
		b.WriteString(" => ")
	}
	if n.Name != "" {
		fmt.Fprintf(b, "%s(%d)", n.Name, n.ID)
	} else {
		fmt.Fprintf(b, "tag%d", n.ID)
	}
	if n.Raw {
		b.WriteString(" raw")
	}

	switch v := n.Value.(type) {
	case []*iltags.Node:
		fmt.Fprintf(b, " [%d]\n", len(v))
		for _, child := range v {
			textNode(b, child, "", depth+1)
		}
		return
	case map[string]*iltags.Node:
		fmt.Fprintf(b, " {%d}\n", len(v))
		for _, k := range slices.Sorted(maps.Keys(v)) {
			textNode(b, v[k], k, depth+1)
		}
		return
	}
	b.WriteString(": ")
	b.WriteString(textValue(n.Value))
	b.WriteByte('\n')
}

func textValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(x)
	case map[string]string:
		parts := make([]string, 0, len(x))
		for _, k := range slices.Sorted(maps.Keys(x)) {
			parts = append(parts, strconv.Quote(k)+": "+strconv.Quote(x[k]))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case map[string]any:
		parts := make([]string, 0, len(x))
		for _, k := range slices.Sorted(maps.Keys(x)) {
			parts = append(parts, k+": "+textValue(x[k]))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case []any:
		parts := make([]string, len(x))
		for i, item := range x {
			parts[i] = textValue(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return fmt.Sprint(v)
}
