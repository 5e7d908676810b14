package ppp

import (
	"bytes"
	"crypto/ed25519"
	"testing"
)

func TestEncodeFrameS4UnknownChannel(t *testing.T) {
	s := testSecretsForChannels(t, 1, 2)
	_, _, err := EncodeFrame(s, 42, []byte("hello"), 0)
	if err == nil {
		t.Fatalf("expected UnknownChannel error for channel 42")
	}
	if err.Kind() != UnknownChannel {
		t.Fatalf("Kind() = %v, want UnknownChannel", err.Kind())
	}
}

// TestEncodeFrameS5 exercises spec scenario S5: a 64-byte frame on channel 1,
// timestamp 0, encoded twice.
func TestEncodeFrameS5(t *testing.T) {
	s := testSecretsForChannels(t, 1)
	frame := bytes.Repeat([]byte{0xAB}, 64)

	fp1, wire1, err := EncodeFrame(s, 1, frame, 0)
	if err != nil {
		t.Fatalf("EncodeFrame: %v", err)
	}
	if len(wire1) != 228 {
		t.Fatalf("frame packet is %d bytes, want 228", len(wire1))
	}

	fp2, wire2, err := EncodeFrame(s, 1, frame, 0)
	if err != nil {
		t.Fatalf("EncodeFrame: %v", err)
	}
	if bytes.Equal(wire1, wire2) {
		t.Fatalf("two encodings of identical inputs produced identical bytes")
	}
	if fp1.ChannelID != fp2.ChannelID {
		t.Fatalf("ChannelID differs between encodings: %d vs %d", fp1.ChannelID, fp2.ChannelID)
	}

	pub := s.EncPublicKey[:ed25519.PublicKeySize]
	for _, wire := range [][]byte{wire1, wire2} {
		payload := wire[:164]
		sig := wire[164:228]
		if !ed25519.Verify(ed25519.PublicKey(pub), payload, sig) {
			t.Fatalf("frame packet signature does not verify")
		}
	}
}

func TestEncodeFrameOversized(t *testing.T) {
	s := testSecretsForChannels(t, 1)
	frame := bytes.Repeat([]byte{1}, MaxFrameSize+1)
	_, _, err := EncodeFrame(s, 1, frame, 0)
	if err == nil {
		t.Fatalf("expected OversizedFrame error")
	}
	if err.Kind() != OversizedFrame {
		t.Fatalf("Kind() = %v, want OversizedFrame", err.Kind())
	}
}

func TestEncodeFrameChannelIDField(t *testing.T) {
	s := testSecretsForChannels(t, 7)
	fp, wire, err := EncodeFrame(s, 7, []byte("x"), 99)
	if err != nil {
		t.Fatalf("EncodeFrame: %v", err)
	}
	view, uerr := framePacketRecord.Unpack(wire)
	if uerr != nil {
		t.Fatalf("Unpack: %v", uerr)
	}
	payloadView, uerr := framePacketPayloadRecord.Unpack(view.Bytes("payload"))
	if uerr != nil {
		t.Fatalf("Unpack payload: %v", uerr)
	}
	if got := payloadView.U32("channel_id"); got != 7 {
		t.Fatalf("packed channel_id = %d, want 7", got)
	}
	if fp.ChannelID != 7 {
		t.Fatalf("FramePacket.ChannelID = %d, want 7", fp.ChannelID)
	}
}
