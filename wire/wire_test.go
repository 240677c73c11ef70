package wire

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/xcqa/chain-core/chainvalidate"
)

func TestHandshakeRoundTrip(t *testing.T) {
	in := Handshake{Version: 7, PeerID: [32]byte{1, 2, 3}}
	frame, err := Encode(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	msg, n, err := Decode(frame)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if n != len(frame) {
		t.Fatalf("consumed %d bytes, want %d", n, len(frame))
	}
	got, ok := msg.(Handshake)
	if !ok {
		t.Fatalf("decoded %T, want Handshake", msg)
	}
	if got != in {
		t.Fatalf("round trip mismatch: %+v != %+v", got, in)
	}
}

func TestGetBlocksRoundTrip(t *testing.T) {
	in := GetBlocks{StartHeight: 1000, Count: 32}
	frame, err := Encode(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	msg, _, err := Decode(frame)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := msg.(GetBlocks); got != in {
		t.Fatalf("round trip mismatch: %+v != %+v", got, in)
	}
}

func TestPingPongRoundTrip(t *testing.T) {
	for _, in := range []Message{Ping{}, Pong{}} {
		frame, err := Encode(in)
		if err != nil {
			t.Fatalf("encode %T: %v", in, err)
		}
		if len(frame) != HeaderSize {
			t.Fatalf("%T frame has %d bytes, want header only", in, len(frame))
		}
		msg, _, err := Decode(frame)
		if err != nil {
			t.Fatalf("decode %T: %v", in, err)
		}
		if msg.wireKind() != in.wireKind() {
			t.Fatalf("decoded kind %d, want %d", msg.wireKind(), in.wireKind())
		}
	}
}

func TestBlockRoundTrip(t *testing.T) {
	b := &chainvalidate.Block{
		Header:    chainvalidate.BlockHeader{Height: 4, Timestamp: 123, FineDifficulty: 2},
		XCQANonce: [32]byte{9},
	}
	b.XCQASig.Commitment = []byte("commitment")
	b.XCQASig.Response = []byte("response")

	frame, err := Encode(BlockMsg{Block: b})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	msg, _, err := Decode(frame)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	got := msg.(BlockMsg).Block
	if got.Header != b.Header || !bytes.Equal(got.XCQASig.Response, b.XCQASig.Response) {
		t.Fatal("round-tripped block does not match")
	}
}

func TestDecodeRejectsTruncatedFrame(t *testing.T) {
	frame, err := Encode(Handshake{Version: 1})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	for cut := 0; cut < len(frame); cut++ {
		if _, _, err := Decode(frame[:cut]); err == nil {
			t.Fatalf("expected truncation at %d bytes to fail", cut)
		}
	}
}

func TestDecodeRejectsOversizeFrame(t *testing.T) {
	var frame [HeaderSize]byte
	frame[0] = KindPing
	binary.LittleEndian.PutUint32(frame[1:], MaxFrameSize+1)
	if _, _, err := Decode(frame[:]); err == nil {
		t.Fatal("expected oversize frame to be rejected")
	}
}

func TestDecodeRejectsUnknownKind(t *testing.T) {
	var frame [HeaderSize]byte
	frame[0] = 0xFF
	if _, _, err := Decode(frame[:]); err == nil {
		t.Fatal("expected unknown kind to be rejected")
	}
}

func TestReadWriteMessage(t *testing.T) {
	var buf bytes.Buffer
	in := GetBlocks{StartHeight: 5, Count: 2}
	if err := WriteMessage(&buf, in); err != nil {
		t.Fatalf("write: %v", err)
	}
	msg, err := ReadMessage(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := msg.(GetBlocks); got != in {
		t.Fatalf("round trip mismatch: %+v != %+v", got, in)
	}
}

func TestReadMessageRejectsOversizeBeforeAllocating(t *testing.T) {
	var header [HeaderSize]byte
	header[0] = KindBlock
	binary.LittleEndian.PutUint32(header[1:], MaxFrameSize+1)
	if _, err := ReadMessage(bytes.NewReader(header[:])); err == nil {
		t.Fatal("expected oversize declared length to be rejected")
	}
}
