// Package prototag carries protobuf messages as tag payloads. Messages are
// marshalled deterministically so equal messages encode to equal tags.
package prototag

import (
	"fmt"
	"time"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/anirudhraja/iltags/tags"
	"github.com/anirudhraja/iltags/wire"
)

// Identifiers of the well-known message tags.
const (
	TimestampTagID uint64 = 0x100
	DurationTagID  uint64 = 0x101
)

var marshalOptions = proto.MarshalOptions{Deterministic: true}

// MessageTag holds a protobuf message of type M under an explicit
// identifier.
type MessageTag[M proto.Message] struct {
	tags.Base
	msg     M
	encoded []byte
	newMsg  func() M
}

// New returns a populated tag holding msg. newMsg builds empty messages
// for decoding.
func New[M proto.Message](id uint64, msg M, newMsg func() M) (*MessageTag[M], error) {
	if !tags.IsExplicit(id) {
		return nil, fmt.Errorf("%w: protobuf payloads need an explicit identifier, got %d", tags.ErrInvalidTag, id)
	}
	t := &MessageTag[M]{Base: tags.NewBase(id), newMsg: newMsg}
	if err := t.Set(msg); err != nil {
		return nil, err
	}
	return t, nil
}

// Creator returns a tags.Creator for messages built by newMsg.
func Creator[M proto.Message](newMsg func() M) tags.Creator {
	return func(id uint64) tags.Tag {
		return &MessageTag[M]{Base: tags.NewBase(id), newMsg: newMsg}
	}
}

// Message returns the message. It belongs to the tag; call Set after
// changing it.
func (t *MessageTag[M]) Message() M {
	return t.msg
}

// Proto returns the message without its static type.
func (t *MessageTag[M]) Proto() proto.Message {
	return t.msg
}

// Set replaces the message and encodes it.
func (t *MessageTag[M]) Set(msg M) error {
	encoded, err := marshalOptions.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", msg.ProtoReflect().Descriptor().FullName(), err)
	}
	t.msg = msg
	t.encoded = encoded
	t.MarkPopulated()
	return nil
}

// ValueSize implements tags.Tag.
func (t *MessageTag[M]) ValueSize() uint64 {
	return uint64(len(t.encoded))
}

// SerializeValue implements tags.Tag.
func (t *MessageTag[M]) SerializeValue(w wire.Writer) error {
	return wire.WriteBytes(w, t.encoded)
}

// DeserializeValue implements tags.Tag. The payload bytes are kept as read,
// so the tag re-encodes identically even if the sender was not
// deterministic.
func (t *MessageTag[M]) DeserializeValue(_ tags.Decoder, valueSize uint64, r wire.Reader) error {
	b, err := wire.ReadBytes(r, valueSize)
	if err != nil {
		return err
	}
	msg := t.newMsg()
	if err := proto.Unmarshal(b, msg); err != nil {
		return wire.Corrupted("protobuf %s: %v", msg.ProtoReflect().Descriptor().FullName(), err)
	}
	t.msg = msg
	t.encoded = b
	t.MarkPopulated()
	return nil
}

// TimestampTag holds a google.protobuf.Timestamp.
type TimestampTag = MessageTag[*timestamppb.Timestamp]

// DurationTag holds a google.protobuf.Duration.
type DurationTag = MessageTag[*durationpb.Duration]

func newTimestamp() *timestamppb.Timestamp { return &timestamppb.Timestamp{} }

func newDuration() *durationpb.Duration { return &durationpb.Duration{} }

// NewTimestampTag returns a populated timestamp tag.
func NewTimestampTag(ts time.Time) *TimestampTag {
	t, err := New(TimestampTagID, timestamppb.New(ts), newTimestamp)
	if err != nil {
		// Timestamps always marshal.
		panic(err)
	}
	return t
}

// NewDurationTag returns a populated duration tag.
func NewDurationTag(d time.Duration) *DurationTag {
	t, err := New(DurationTagID, durationpb.New(d), newDuration)
	if err != nil {
		panic(err)
	}
	return t
}

// Register adds the well-known message tags to r.
func Register(r *tags.Registry) error {
	if err := r.Register(TimestampTagID, Creator(newTimestamp)); err != nil {
		return err
	}
	return r.Register(DurationTagID, Creator(newDuration))
}
