// Package wire implements the canonical peer message codec: a 1-byte kind
// tag, an LE32 payload length, then the payload in declaration-order field
// layout. The same canonical layout used for hashing blocks and
// transactions is reused verbatim for their wire payloads.
package wire

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/xcqa/chain-core/chainerr"
	"github.com/xcqa/chain-core/chainvalidate"
)

// Message kinds.
const (
	KindHandshake uint8 = 1 + iota
	KindBlock
	KindTransaction
	KindGetBlocks
	KindPing
	KindPong
)

// MaxFrameSize bounds the payload length a decoder will accept before
// allocating any backing buffer. Frames above it are rejected outright.
const MaxFrameSize = 1 << 24

// HeaderSize is the fixed frame prefix: kind byte plus LE32 payload length.
const HeaderSize = 5

// Message is any of the peer message types.
type Message interface {
	wireKind() uint8
}

// Handshake opens a peer connection.
type Handshake struct {
	Version uint32
	PeerID  [32]byte
}

// BlockMsg carries a full block.
type BlockMsg struct {
	Block *chainvalidate.Block
}

// TransactionMsg carries a single transaction.
type TransactionMsg struct {
	Tx *chainvalidate.Transaction
}

// GetBlocks requests count blocks starting at start_height.
type GetBlocks struct {
	StartHeight uint64
	Count       uint32
}

// Ping is a keepalive probe; Pong is its reply. Both have empty payloads.
type Ping struct{}
type Pong struct{}

func (Handshake) wireKind() uint8      { return KindHandshake }
func (BlockMsg) wireKind() uint8       { return KindBlock }
func (TransactionMsg) wireKind() uint8 { return KindTransaction }
func (GetBlocks) wireKind() uint8      { return KindGetBlocks }
func (Ping) wireKind() uint8           { return KindPing }
func (Pong) wireKind() uint8           { return KindPong }

func marshalPayload(m Message) ([]byte, error) {
	switch msg := m.(type) {
	case Handshake:
		buf := make([]byte, 4+32)
		binary.LittleEndian.PutUint32(buf[:4], msg.Version)
		copy(buf[4:], msg.PeerID[:])
		return buf, nil
	case BlockMsg:
		raw, err := chainvalidate.MarshalBlock(msg.Block)
		if err != nil {
			return nil, &chainerr.SerializationError{Reason: err.Error()}
		}
		return raw, nil
	case TransactionMsg:
		raw, err := chainvalidate.MarshalTransaction(msg.Tx)
		if err != nil {
			return nil, &chainerr.SerializationError{Reason: err.Error()}
		}
		return raw, nil
	case GetBlocks:
		buf := make([]byte, 8+4)
		binary.LittleEndian.PutUint64(buf[:8], msg.StartHeight)
		binary.LittleEndian.PutUint32(buf[8:], msg.Count)
		return buf, nil
	case Ping, Pong:
		return nil, nil
	default:
		return nil, &chainerr.SerializationError{Reason: fmt.Sprintf("unknown message type %T", m)}
	}
}

func unmarshalPayload(kind uint8, payload []byte) (Message, error) {
	switch kind {
	case KindHandshake:
		if len(payload) != 4+32 {
			return nil, &chainerr.SerializationError{Reason: "malformed handshake payload"}
		}
		var msg Handshake
		msg.Version = binary.LittleEndian.Uint32(payload[:4])
		copy(msg.PeerID[:], payload[4:])
		return msg, nil
	case KindBlock:
		b, err := chainvalidate.UnmarshalBlock(payload)
		if err != nil {
			return nil, &chainerr.SerializationError{Reason: err.Error()}
		}
		return BlockMsg{Block: b}, nil
	case KindTransaction:
		tx, err := chainvalidate.UnmarshalTransaction(payload)
		if err != nil {
			return nil, &chainerr.SerializationError{Reason: err.Error()}
		}
		return TransactionMsg{Tx: tx}, nil
	case KindGetBlocks:
		if len(payload) != 8+4 {
			return nil, &chainerr.SerializationError{Reason: "malformed get_blocks payload"}
		}
		return GetBlocks{
			StartHeight: binary.LittleEndian.Uint64(payload[:8]),
			Count:       binary.LittleEndian.Uint32(payload[8:]),
		}, nil
	case KindPing:
		if len(payload) != 0 {
			return nil, &chainerr.SerializationError{Reason: "non-empty ping payload"}
		}
		return Ping{}, nil
	case KindPong:
		if len(payload) != 0 {
			return nil, &chainerr.SerializationError{Reason: "non-empty pong payload"}
		}
		return Pong{}, nil
	default:
		return nil, &chainerr.SerializationError{Reason: fmt.Sprintf("unknown message kind %d", kind)}
	}
}

// Encode frames a message: kind byte, LE32 payload length, payload.
func Encode(m Message) ([]byte, error) {
	payload, err := marshalPayload(m)
	if err != nil {
		return nil, err
	}
	if len(payload) > MaxFrameSize {
		return nil, &chainerr.SerializationError{Reason: "payload exceeds max frame size"}
	}
	buf := make([]byte, HeaderSize, HeaderSize+len(payload))
	buf[0] = m.wireKind()
	binary.LittleEndian.PutUint32(buf[1:], uint32(len(payload)))
	return append(buf, payload...), nil
}

// Decode parses a single frame from data and returns the message plus the
// total bytes consumed. The declared payload length is validated against
// both MaxFrameSize and the actual input length before any payload work.
func Decode(data []byte) (Message, int, error) {
	if len(data) < HeaderSize {
		return nil, 0, &chainerr.SerializationError{Reason: "truncated frame header"}
	}
	kind := data[0]
	length := binary.LittleEndian.Uint32(data[1:HeaderSize])
	if length > MaxFrameSize {
		return nil, 0, &chainerr.SerializationError{Reason: "frame exceeds max size"}
	}
	if len(data) < HeaderSize+int(length) {
		return nil, 0, &chainerr.SerializationError{Reason: "truncated frame payload"}
	}
	msg, err := unmarshalPayload(kind, data[HeaderSize:HeaderSize+int(length)])
	if err != nil {
		return nil, 0, err
	}
	return msg, HeaderSize + int(length), nil
}

// WriteMessage encodes m and writes the complete frame to w.
func WriteMessage(w io.Writer, m Message) error {
	frame, err := Encode(m)
	if err != nil {
		return err
	}
	if _, err := w.Write(frame); err != nil {
		return &chainerr.SerializationError{Reason: err.Error()}
	}
	return nil
}

// ReadMessage reads one frame from r. The payload buffer is only allocated
// after the declared length passes the MaxFrameSize check.
func ReadMessage(r io.Reader) (Message, error) {
	var header [HeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, &chainerr.SerializationError{Reason: err.Error()}
	}
	length := binary.LittleEndian.Uint32(header[1:])
	if length > MaxFrameSize {
		return nil, &chainerr.SerializationError{Reason: "frame exceeds max size"}
	}
	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, &chainerr.SerializationError{Reason: err.Error()}
	}
	return unmarshalPayload(header[0], payload)
}
