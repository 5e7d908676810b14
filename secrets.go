package ppp

import (
	"encoding/json"
	"sort"
	"strconv"

	"github.com/hashicorp/go-multierror"
)

// BroadcastChannel is the always-present channel every deployment carries
// regardless of the requested channel list.
const BroadcastChannel uint32 = 0

// GlobalSecrets is the deployment root: a long-lived bundle of keys,
// generated once from the CSPRNG and thereafter read-only input to every
// other operation in this package.
type GlobalSecrets struct {
	EncPrivateKey [AsymPrivateSize]byte
	EncPublicKey  [AsymPublicSize]byte

	IDRootKey [DirKeySize]byte

	ChannelKeys map[uint32][DirKeySize]byte

	LeftTreeKey  [DirKeySize]byte
	RightTreeKey [DirKeySize]byte

	TreeRootKeys map[uint32][TreeKeySize]byte

	SymbolShimmyRootKey [DirKeySize]byte
}

// secretsWire is the JSON-with-base64 mirror of GlobalSecrets. encoding/json
// already base64-encodes []byte fields, which is why this struct (rather
// than a hand-rolled base64 helper) is the whole of the serialization
// layer — see DESIGN.md.
type secretsWire struct {
	EncPrivateKey       []byte            `json:"ENCODER_PRIVATE_KEY"`
	EncPublicKey        []byte            `json:"ENCODER_PUBLIC_KEY"`
	IDRootKey           []byte            `json:"ID_ROOT_KEY"`
	ChannelKeys         map[string][]byte `json:"CHANNEL_KEYS"`
	LeftTreeKey         []byte            `json:"LEFT_TREE_KEY"`
	RightTreeKey        []byte            `json:"RIGHT_TREE_KEY"`
	TreeRootKeys        map[string][]byte `json:"TREE_ROOT_KEYS"`
	SymbolShimmyRootKey []byte            `json:"SYMBOL_SHIMMY_ROOT_KEY"`
}

// GenerateSecrets produces a fresh GlobalSecrets for the given channel list,
// deduplicated and with BroadcastChannel implicitly added.
func GenerateSecrets(channels []uint32) (*GlobalSecrets, Error) {
	set := map[uint32]bool{BroadcastChannel: true}
	for _, c := range channels {
		set[c] = true
	}
	ordered := make([]uint32, 0, len(set))
	for c := range set {
		ordered = append(ordered, c)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i] < ordered[j] })

	s := &GlobalSecrets{
		ChannelKeys:  make(map[uint32][DirKeySize]byte, len(ordered)),
		TreeRootKeys: make(map[uint32][TreeKeySize]byte, len(ordered)),
	}

	var merr *multierror.Error

	priv, pub, err := generateSigningKeypair()
	if err != nil {
		merr = multierror.Append(merr, err)
	}
	s.EncPrivateKey = priv
	s.EncPublicKey = pub

	if k, err := generateKey(DirKeySize); err != nil {
		merr = multierror.Append(merr, err)
	} else {
		copy(s.IDRootKey[:], k)
	}
	if k, err := generateKey(DirKeySize); err != nil {
		merr = multierror.Append(merr, err)
	} else {
		copy(s.LeftTreeKey[:], k)
	}
	if k, err := generateKey(DirKeySize); err != nil {
		merr = multierror.Append(merr, err)
	} else {
		copy(s.RightTreeKey[:], k)
	}
	if k, err := generateKey(DirKeySize); err != nil {
		merr = multierror.Append(merr, err)
	} else {
		copy(s.SymbolShimmyRootKey[:], k)
	}

	for _, c := range ordered {
		ck, err := generateKey(DirKeySize)
		if err != nil {
			merr = multierror.Append(merr, err)
			continue
		}
		var chKey [DirKeySize]byte
		copy(chKey[:], ck)
		s.ChannelKeys[c] = chKey

		tk, err := generateKey(TreeKeySize)
		if err != nil {
			merr = multierror.Append(merr, err)
			continue
		}
		var treeKey [TreeKeySize]byte
		copy(treeKey[:], tk)
		s.TreeRootKeys[c] = treeKey
	}

	if merr.ErrorOrNil() != nil {
		return nil, wrapErrorf(CryptoFailure, merr, "generating global secrets")
	}
	return s, nil
}

// Serialize encodes the bundle as the canonical JSON-with-base64 interchange
// format (spec §4.3 / §6).
func (s *GlobalSecrets) Serialize() ([]byte, Error) {
	w := secretsWire{
		EncPrivateKey:       s.EncPrivateKey[:],
		EncPublicKey:        s.EncPublicKey[:],
		IDRootKey:           s.IDRootKey[:],
		ChannelKeys:         make(map[string][]byte, len(s.ChannelKeys)),
		LeftTreeKey:         s.LeftTreeKey[:],
		RightTreeKey:        s.RightTreeKey[:],
		TreeRootKeys:        make(map[string][]byte, len(s.TreeRootKeys)),
		SymbolShimmyRootKey: s.SymbolShimmyRootKey[:],
	}
	for c, k := range s.ChannelKeys {
		w.ChannelKeys[channelIDKey(c)] = append([]byte(nil), k[:]...)
	}
	for c, k := range s.TreeRootKeys {
		w.TreeRootKeys[channelIDKey(c)] = append([]byte(nil), k[:]...)
	}
	buf, err := json.Marshal(&w)
	if err != nil {
		return nil, wrapErrorf(InvalidSecretsFormat, err, "marshaling secrets")
	}
	return buf, nil
}

// DeserializeSecrets parses the canonical JSON-with-base64 interchange
// format back into a GlobalSecrets.
func DeserializeSecrets(buf []byte) (*GlobalSecrets, Error) {
	var w secretsWire
	if err := json.Unmarshal(buf, &w); err != nil {
		return nil, wrapErrorf(InvalidSecretsFormat, err, "unmarshaling secrets")
	}
	if w.EncPrivateKey == nil || w.EncPublicKey == nil || w.IDRootKey == nil ||
		w.LeftTreeKey == nil || w.RightTreeKey == nil || w.SymbolShimmyRootKey == nil ||
		w.ChannelKeys == nil || w.TreeRootKeys == nil {
		return nil, errorf(InvalidSecretsFormat, "missing required field")
	}
	if len(w.EncPrivateKey) != AsymPrivateSize {
		return nil, errorf(InvalidSecretsFormat, "ENCODER_PRIVATE_KEY has wrong length")
	}
	if len(w.EncPublicKey) != AsymPublicSize {
		return nil, errorf(InvalidSecretsFormat, "ENCODER_PUBLIC_KEY has wrong length")
	}
	if len(w.IDRootKey) != DirKeySize || len(w.LeftTreeKey) != DirKeySize ||
		len(w.RightTreeKey) != DirKeySize || len(w.SymbolShimmyRootKey) != DirKeySize {
		return nil, errorf(InvalidSecretsFormat, "a root key has the wrong length")
	}
	if len(w.ChannelKeys) != len(w.TreeRootKeys) {
		return nil, errorf(InvalidSecretsFormat, "CHANNEL_KEYS and TREE_ROOT_KEYS have different key sets")
	}

	s := &GlobalSecrets{
		ChannelKeys:  make(map[uint32][DirKeySize]byte, len(w.ChannelKeys)),
		TreeRootKeys: make(map[uint32][TreeKeySize]byte, len(w.TreeRootKeys)),
	}
	copy(s.EncPrivateKey[:], w.EncPrivateKey)
	copy(s.EncPublicKey[:], w.EncPublicKey)
	copy(s.IDRootKey[:], w.IDRootKey)
	copy(s.LeftTreeKey[:], w.LeftTreeKey)
	copy(s.RightTreeKey[:], w.RightTreeKey)
	copy(s.SymbolShimmyRootKey[:], w.SymbolShimmyRootKey)

	for idStr, k := range w.ChannelKeys {
		id, perr := parseChannelID(idStr)
		if perr != nil {
			return nil, wrapErrorf(InvalidSecretsFormat, perr, "parsing channel id %q", idStr)
		}
		if len(k) != DirKeySize {
			return nil, errorf(InvalidSecretsFormat, "channel %d key has wrong length", id)
		}
		var ck [DirKeySize]byte
		copy(ck[:], k)
		s.ChannelKeys[id] = ck
	}
	for idStr, k := range w.TreeRootKeys {
		id, perr := parseChannelID(idStr)
		if perr != nil {
			return nil, wrapErrorf(InvalidSecretsFormat, perr, "parsing channel id %q", idStr)
		}
		if _, ok := s.ChannelKeys[id]; !ok {
			return nil, errorf(InvalidSecretsFormat, "TREE_ROOT_KEYS has channel %d absent from CHANNEL_KEYS", id)
		}
		if len(k) != TreeKeySize {
			return nil, errorf(InvalidSecretsFormat, "channel %d tree root key has wrong length", id)
		}
		var tk [TreeKeySize]byte
		copy(tk[:], k)
		s.TreeRootKeys[id] = tk
	}
	if _, ok := s.ChannelKeys[BroadcastChannel]; !ok {
		return nil, errorf(InvalidSecretsFormat, "missing broadcast channel 0")
	}
	return s, nil
}

func channelIDKey(c uint32) string {
	return strconv.FormatUint(uint64(c), 10)
}

func parseChannelID(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, errorf(InvalidSecretsFormat, "channel id %q is not a valid uint32", s)
	}
	return uint32(v), nil
}

// DeriveIDKey derives a device's identity key:
// Blake2b-32( pack(u32 device_id little-endian ‖ id_root_key) ).
func (s *GlobalSecrets) DeriveIDKey(deviceID uint32) ([DirKeySize]byte, Error) {
	return derivePrefixedKey(deviceID, s.IDRootKey)
}

// SymbolShimmySeed derives a per-id seed for the external symbol-shuffling
// collaborator, using the same construction as DeriveIDKey but rooted in
// SymbolShimmyRootKey (spec §4.3; original_source/.../symbol_shimmy.py).
func (s *GlobalSecrets) SymbolShimmySeed(id uint32) ([DirKeySize]byte, Error) {
	return derivePrefixedKey(id, s.SymbolShimmyRootKey)
}

func derivePrefixedKey(id uint32, root [DirKeySize]byte) ([DirKeySize]byte, Error) {
	var out [DirKeySize]byte
	buf := make([]byte, 4+DirKeySize)
	buf[0] = byte(id)
	buf[1] = byte(id >> 8)
	buf[2] = byte(id >> 16)
	buf[3] = byte(id >> 24)
	copy(buf[4:], root[:])
	h, err := hashBytes(buf, DirKeySize)
	if err != nil {
		return out, err
	}
	copy(out[:], h)
	return out, nil
}

// channelRoot looks up the KDF tree root for channel, failing with
// UnknownChannel if absent.
func (s *GlobalSecrets) channelRoot(channel uint32) ([TreeKeySize]byte, Error) {
	var zero [TreeKeySize]byte
	k, ok := s.TreeRootKeys[channel]
	if !ok {
		return zero, errorf(UnknownChannel, "channel %d has no tree root key", channel)
	}
	return k, nil
}
