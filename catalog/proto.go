package catalog

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	protoparser "github.com/yoheimuta/go-protoparser/v4"
	protoparserparser "github.com/yoheimuta/go-protoparser/v4/parser"
)

// LoadProto names ids after enum values declared in .proto files. Every
// enum value NAME = N, at the top level or nested in messages, names id N.
// path may be a single file or a directory, which is walked recursively.
// Imports are followed, except for google/protobuf ones.
func (c *Catalog) LoadProto(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}

	l := &protoLoader{catalog: c, visited: make(map[string]struct{})}
	if !info.IsDir() {
		if !strings.HasSuffix(path, ".proto") {
			return fmt.Errorf("file %s is not a .proto file", path)
		}
		return l.load(path)
	}
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".proto") {
			return nil
		}
		return l.load(p)
	})
	if err != nil {
		return fmt.Errorf("failed to walk directory: %w", err)
	}
	return nil
}

type protoLoader struct {
	catalog *Catalog
	visited map[string]struct{} // files already loaded, to break import cycles
}

// load parses one file and follows its imports depth first.
func (l *protoLoader) load(file string) error {
	file = filepath.Clean(file)
	if _, ok := l.visited[file]; ok {
		return nil
	}
	l.visited[file] = struct{}{}

	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	proto, err := protoparser.Parse(f, protoparser.WithFilename(filepath.Base(file)))
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", file, err)
	}
	for _, body := range proto.ProtoBody {
		switch b := body.(type) {
		case *protoparserparser.Import:
			importPath := strings.Trim(b.Location, `"`)
			if strings.HasPrefix(importPath, "google/protobuf/") {
				continue
			}
			full, err := l.findImport(filepath.Dir(file), importPath)
			if err != nil {
				return err
			}
			if err := l.load(full); err != nil {
				return err
			}
		case *protoparserparser.Enum:
			if err := l.addEnum(file, b); err != nil {
				return err
			}
		case *protoparserparser.Message:
			if err := l.addMessage(file, b); err != nil {
				return err
			}
		}
	}
	return nil
}

func (l *protoLoader) addMessage(file string, msg *protoparserparser.Message) error {
	for _, body := range msg.MessageBody {
		switch b := body.(type) {
		case *protoparserparser.Enum:
			if err := l.addEnum(file, b); err != nil {
				return err
			}
		case *protoparserparser.Message:
			if err := l.addMessage(file, b); err != nil {
				return err
			}
		}
	}
	return nil
}

func (l *protoLoader) addEnum(file string, enum *protoparserparser.Enum) error {
	for _, body := range enum.EnumBody {
		field, ok := body.(*protoparserparser.EnumField)
		if !ok {
			continue
		}
		// Tag ids are unsigned; negative values cannot name one.
		if strings.HasPrefix(field.Number, "-") {
			continue
		}
		id, err := strconv.ParseUint(field.Number, 0, 64)
		if err != nil {
			return fmt.Errorf("%s: enum %s value %s: bad number %q", file, enum.EnumName, field.Ident, field.Number)
		}
		if err := l.catalog.Add(id, field.Ident); err != nil {
			return fmt.Errorf("%s: enum %s: %w", file, enum.EnumName, err)
		}
	}
	return nil
}

func (l *protoLoader) findImport(dir, importPath string) (string, error) {
	dirs := append([]string{dir}, l.catalog.ImportDirs...)
	for _, d := range dirs {
		full := filepath.Join(d, importPath)
		if _, err := os.Stat(full); err == nil {
			return full, nil
		}
	}
	return "", fmt.Errorf("import %s not found in %v", importPath, dirs)
}
