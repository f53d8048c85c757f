package tags

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/anirudhraja/iltags/ilint"
	"github.com/anirudhraja/iltags/wire"
)

// Creator returns an unpopulated tag for id. The same creator may serve
// several identifiers.
type Creator func(id uint64) Tag

// Option configures a Registry.
type Option func(*Registry)

// WithConfig replaces the whole configuration.
func WithConfig(c Config) Option {
	return func(r *Registry) { r.cfg = c }
}

// WithStrict makes unknown identifiers fail with ErrUnknownTag.
func WithStrict() Option {
	return func(r *Registry) { r.cfg.Strict = true }
}

// WithOverwrite lets Register replace existing creators.
func WithOverwrite() Option {
	return func(r *Registry) { r.cfg.AllowOverwrite = true }
}

// WithMaxValueSize sets Config.MaxValueSize.
func WithMaxValueSize(n uint64) Option {
	return func(r *Registry) { r.cfg.MaxValueSize = n }
}

// WithMaxDepth sets Config.MaxDepth.
func WithMaxDepth(n int) Option {
	return func(r *Registry) { r.cfg.MaxDepth = n }
}

// WithLogger records decoding fallbacks at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// engine is the lookup and decoding core shared by Registry and Factory.
type engine struct {
	creators map[uint64]Creator
	cfg      Config
	logger   *slog.Logger
}

func (e *engine) create(id uint64) (Tag, error) {
	if !IsDefined(id) {
		return nil, fmt.Errorf("%w: identifier %d is undefined", ErrInvalidTag, id)
	}
	if c, ok := e.creators[id]; ok {
		return c(id), nil
	}
	if e.cfg.Strict {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTag, id)
	}
	if e.logger != nil {
		e.logger.Debug("no creator registered, keeping raw payload", "id", id)
	}
	if IsImplicit(id) {
		return NewEmptyRawTag(id), nil
	}
	return NewUnknownTag(id), nil
}

// decode reads one tag. depth counts the tags enclosing this one.
func (e *engine) decode(r wire.Reader, depth int, want uint64, expect bool) (Tag, error) {
	if e.cfg.MaxDepth > 0 && depth > e.cfg.MaxDepth {
		return nil, wire.Corrupted("tags nested deeper than %d", e.cfg.MaxDepth)
	}
	h, err := readID(r)
	if err != nil {
		return nil, err
	}
	if expect && h.id != want {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrUnexpectedTag, h.id, want)
	}
	if err := h.readSize(r, e.cfg.MaxValueSize); err != nil {
		return nil, err
	}
	t, err := e.create(h.id)
	if err != nil {
		return nil, err
	}

	payload := wire.NewLimitedReader(h.payloadReader(r), h.valueSize)
	nested := nestedDecoder{e: e, depth: depth + 1}
	if err := t.DeserializeValue(nested, h.valueSize, payload); err != nil {
		return nil, wrapWithTag(err, h.id)
	}
	if !payload.Empty() {
		return nil, wrapWithTag(wire.Corrupted("payload not fully consumed"), h.id)
	}
	return t, nil
}

// nestedDecoder is handed to tags so that the tags they decode in turn
// count toward the depth limit.
type nestedDecoder struct {
	e     *engine
	depth int
}

func (n nestedDecoder) Create(id uint64) (Tag, error) {
	return n.e.create(id)
}

func (n nestedDecoder) Deserialize(r wire.Reader) (Tag, error) {
	return n.e.decode(r, n.depth, 0, false)
}

func (n nestedDecoder) DeserializeExpected(r wire.Reader, id uint64) (Tag, error) {
	return n.e.decode(r, n.depth, id, true)
}

// header is the framing read before a payload.
type header struct {
	id         uint64
	valueSize  uint64
	headerSize uint64
	// first is the payload byte already consumed to size a self-delimited
	// value.
	first    byte
	hasFirst bool
}

func readID(r wire.Reader) (header, error) {
	id, n, err := wire.ReadILIntN(r)
	if err != nil {
		return header{}, err
	}
	return header{id: id, headerSize: uint64(n)}, nil
}

func (h *header) readSize(r wire.Reader, maxValueSize uint64) error {
	switch {
	case !IsDefined(h.id):
		return wire.Corrupted("undefined implicit tag %d", h.id)
	case IsSelfDelimited(h.id):
		b, err := r.ReadByte()
		if err != nil {
			return err
		}
		h.first, h.hasFirst = b, true
		h.valueSize = uint64(ilint.DecodedSize(b))
	case IsImplicit(h.id):
		h.valueSize, _ = ImplicitValueSize(h.id)
	default:
		size, n, err := wire.ReadILIntN(r)
		if err != nil {
			return err
		}
		if maxValueSize > 0 && size > maxValueSize {
			return fmt.Errorf("%w: tag %d declares %d bytes, limit is %d", wire.ErrValueOverflow, h.id, size, maxValueSize)
		}
		h.valueSize = size
		h.headerSize += uint64(n)
	}
	return nil
}

// payloadReader returns r, preceded by the byte readSize consumed if any.
func (h *header) payloadReader(r wire.Reader) wire.Reader {
	if !h.hasFirst {
		return r
	}
	return &replayReader{first: h.first, pending: true, r: r}
}

// replayReader hands out one already consumed byte before reading on.
type replayReader struct {
	first   byte
	pending bool
	r       wire.Reader
}

func (p *replayReader) ReadByte() (byte, error) {
	if p.pending {
		p.pending = false
		return p.first, nil
	}
	return p.r.ReadByte()
}

func (p *replayReader) ReadFull(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	if p.pending {
		if err := p.r.ReadFull(b[1:]); err != nil {
			return err
		}
		b[0] = p.first
		p.pending = false
		return nil
	}
	return p.r.ReadFull(b)
}

func (p *replayReader) Skip(n uint64) error {
	if n > 0 && p.pending {
		if err := p.r.Skip(n - 1); err != nil {
			return err
		}
		p.pending = false
		return nil
	}
	return p.r.Skip(n)
}

// Registry maps identifiers to creators while it is being built. It is
// not safe for concurrent use. Seal it to get a Factory that can be shared.
type Registry struct {
	engine
	sealed bool
}

// NewRegistry returns an empty open registry using DefaultConfig.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		engine: engine{
			creators: make(map[uint64]Creator),
			cfg:      DefaultConfig(),
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register maps id to c.
func (r *Registry) Register(id uint64, c Creator) error {
	if r.sealed {
		return fmt.Errorf("%w: cannot register %d", ErrSealed, id)
	}
	if c == nil || !IsDefined(id) {
		return fmt.Errorf("%w: cannot register %d", ErrInvalidTag, id)
	}
	if _, ok := r.creators[id]; ok && !r.cfg.AllowOverwrite {
		return fmt.Errorf("%w: %d", ErrAlreadyRegistered, id)
	}
	r.creators[id] = c
	return nil
}

// MustRegister is like Register but panics on error. Use it for static
// catalogs built at init time.
func (r *Registry) MustRegister(id uint64, c Creator) {
	if err := r.Register(id, c); err != nil {
		panic(err)
	}
}

// Seal closes the registry to further registration and returns a Factory
// over its creators. Later calls return equivalent factories.
func (r *Registry) Seal() *Factory {
	r.sealed = true
	return &Factory{engine: r.engine}
}

// Sealed reports whether Seal was called.
func (r *Registry) Sealed() bool {
	return r.sealed
}

// Config returns the configuration the registry decodes with.
func (r *Registry) Config() Config {
	return r.cfg
}

// Registered reports whether id has a creator.
func (r *Registry) Registered(id uint64) bool {
	_, ok := r.creators[id]
	return ok
}

// IDs returns the registered identifiers in increasing order.
func (r *Registry) IDs() []uint64 {
	return slices.Sorted(maps.Keys(r.creators))
}

// Create implements Decoder.
func (r *Registry) Create(id uint64) (Tag, error) {
	return r.create(id)
}

// Deserialize implements Decoder.
func (r *Registry) Deserialize(rd wire.Reader) (Tag, error) {
	return r.decode(rd, 0, 0, false)
}

// DeserializeExpected implements Decoder.
func (r *Registry) DeserializeExpected(rd wire.Reader, id uint64) (Tag, error) {
	return r.decode(rd, 0, id, true)
}

// Factory is a sealed registry. It has no mutation methods and is safe
// for concurrent use.
type Factory struct {
	engine engine
}

// Config returns the configuration the factory decodes with.
func (f *Factory) Config() Config {
	return f.engine.cfg
}

// Registered reports whether id has a creator.
func (f *Factory) Registered(id uint64) bool {
	_, ok := f.engine.creators[id]
	return ok
}

// IDs returns the registered identifiers in increasing order.
func (f *Factory) IDs() []uint64 {
	return slices.Sorted(maps.Keys(f.engine.creators))
}

// Create implements Decoder.
func (f *Factory) Create(id uint64) (Tag, error) {
	return f.engine.create(id)
}

// Deserialize implements Decoder.
func (f *Factory) Deserialize(r wire.Reader) (Tag, error) {
	return f.engine.decode(r, 0, 0, false)
}

// DeserializeExpected implements Decoder.
func (f *Factory) DeserializeExpected(r wire.Reader, id uint64) (Tag, error) {
	return f.engine.decode(r, 0, id, true)
}
