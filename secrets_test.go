package ppp

import (
	"reflect"
	"testing"
)

func TestGenerateSecretsIncludesBroadcastChannel(t *testing.T) {
	s, err := GenerateSecrets([]uint32{5, 7})
	if err != nil {
		t.Fatalf("GenerateSecrets: %v", err)
	}
	for _, want := range []uint32{BroadcastChannel, 5, 7} {
		if _, ok := s.ChannelKeys[want]; !ok {
			t.Fatalf("channel %d missing from ChannelKeys", want)
		}
		if _, ok := s.TreeRootKeys[want]; !ok {
			t.Fatalf("channel %d missing from TreeRootKeys", want)
		}
	}
	if len(s.ChannelKeys) != 3 {
		t.Fatalf("got %d channels, want 3", len(s.ChannelKeys))
	}
}

func TestGenerateSecretsDedupesChannels(t *testing.T) {
	s, err := GenerateSecrets([]uint32{5, 5, 5, BroadcastChannel})
	if err != nil {
		t.Fatalf("GenerateSecrets: %v", err)
	}
	if len(s.ChannelKeys) != 2 {
		t.Fatalf("got %d channels, want 2 (broadcast + 5)", len(s.ChannelKeys))
	}
}

func TestSecretsSerializeRoundTrip(t *testing.T) {
	s, err := GenerateSecrets([]uint32{1, 2, 3})
	if err != nil {
		t.Fatalf("GenerateSecrets: %v", err)
	}
	buf, serr := s.Serialize()
	if serr != nil {
		t.Fatalf("Serialize: %v", serr)
	}
	got, derr := DeserializeSecrets(buf)
	if derr != nil {
		t.Fatalf("DeserializeSecrets: %v", derr)
	}
	if !reflect.DeepEqual(s, got) {
		t.Fatalf("round-trip changed the secrets bundle")
	}
}

func TestSerializeUsesCanonicalFieldNames(t *testing.T) {
	s, err := GenerateSecrets(nil)
	if err != nil {
		t.Fatalf("GenerateSecrets: %v", err)
	}
	buf, serr := s.Serialize()
	if serr != nil {
		t.Fatalf("Serialize: %v", serr)
	}
	for _, field := range []string{
		`"ENCODER_PRIVATE_KEY"`, `"ENCODER_PUBLIC_KEY"`, `"ID_ROOT_KEY"`,
		`"CHANNEL_KEYS"`, `"LEFT_TREE_KEY"`, `"RIGHT_TREE_KEY"`,
		`"TREE_ROOT_KEYS"`, `"SYMBOL_SHIMMY_ROOT_KEY"`,
	} {
		if !contains(buf, field) {
			t.Fatalf("serialized secrets missing expected field %s", field)
		}
	}
}

func contains(buf []byte, s string) bool {
	return len(s) == 0 || indexOf(buf, s) >= 0
}

func indexOf(buf []byte, s string) int {
	for i := 0; i+len(s) <= len(buf); i++ {
		if string(buf[i:i+len(s)]) == s {
			return i
		}
	}
	return -1
}

func TestDeserializeRejectsMissingField(t *testing.T) {
	if _, err := DeserializeSecrets([]byte(`{}`)); err == nil {
		t.Fatalf("expected InvalidSecretsFormat for an empty object")
	} else if err.Kind() != InvalidSecretsFormat {
		t.Fatalf("Kind() = %v, want InvalidSecretsFormat", err.Kind())
	}
}

func TestDeserializeRejectsGarbage(t *testing.T) {
	if _, err := DeserializeSecrets([]byte(`not json`)); err == nil {
		t.Fatalf("expected InvalidSecretsFormat for malformed JSON")
	} else if err.Kind() != InvalidSecretsFormat {
		t.Fatalf("Kind() = %v, want InvalidSecretsFormat", err.Kind())
	}
}

func TestDeriveIDKeyIsDeterministic(t *testing.T) {
	s, err := GenerateSecrets(nil)
	if err != nil {
		t.Fatalf("GenerateSecrets: %v", err)
	}
	a, derr := s.DeriveIDKey(0xdeadbeef)
	if derr != nil {
		t.Fatalf("DeriveIDKey: %v", derr)
	}
	b, derr := s.DeriveIDKey(0xdeadbeef)
	if derr != nil {
		t.Fatalf("DeriveIDKey: %v", derr)
	}
	if a != b {
		t.Fatalf("DeriveIDKey is not deterministic for the same device id")
	}
	c, derr := s.DeriveIDKey(0xcafebabe)
	if derr != nil {
		t.Fatalf("DeriveIDKey: %v", derr)
	}
	if a == c {
		t.Fatalf("DeriveIDKey produced the same key for two different device ids")
	}
}

func TestSymbolShimmySeedDiffersFromIDKey(t *testing.T) {
	s, err := GenerateSecrets(nil)
	if err != nil {
		t.Fatalf("GenerateSecrets: %v", err)
	}
	idKey, derr := s.DeriveIDKey(1)
	if derr != nil {
		t.Fatalf("DeriveIDKey: %v", derr)
	}
	seed, serr := s.SymbolShimmySeed(1)
	if serr != nil {
		t.Fatalf("SymbolShimmySeed: %v", serr)
	}
	if idKey == seed {
		t.Fatalf("SymbolShimmySeed collided with DeriveIDKey for the same id")
	}
}
