package ppp

// Vertex identifies a node of the 64-bit timestamp tree: Prefix's Bits most
// significant bits select the node, and it covers the half-open range of
// 2^(64-Bits) consecutive timestamps starting at Prefix<<(64-Bits). The
// root is Vertex{0, 0} and covers every timestamp.
type Vertex struct {
	Prefix uint64
	Bits   uint8
}

// leafVertex returns the depth-64 vertex that covers exactly one timestamp.
func leafVertex(timestamp uint64) Vertex {
	return Vertex{Prefix: timestamp, Bits: 64}
}

// DeriveTreeKey descends the KDF tree for channel to vertex v, returning the
// vertex's tree key. The channel root is returned directly for the root
// vertex (Bits == 0); otherwise the Bits most significant bits of Prefix are
// walked MSB to LSB, applying the child step with LeftTreeKey or
// RightTreeKey at each step (spec §4.4). Reversing this order breaks
// decoder compatibility.
func (s *GlobalSecrets) DeriveTreeKey(channel uint32, v Vertex) ([TreeKeySize]byte, Error) {
	k, err := s.channelRoot(channel)
	if err != nil {
		return k, err
	}
	if v.Bits == 0 {
		return k, nil
	}
	for i := uint8(0); i < v.Bits; i++ {
		bit := (v.Prefix >> (v.Bits - 1 - i)) & 1
		dir := s.LeftTreeKey
		if bit == 1 {
			dir = s.RightTreeKey
		}
		next, herr := childKey(k, dir)
		if herr != nil {
			return k, herr
		}
		k = next
	}
	return k, nil
}

// childKey computes Blake2b-16( parent ‖ direction ), the single descent
// step of the KDF tree.
func childKey(parent [TreeKeySize]byte, direction [DirKeySize]byte) ([TreeKeySize]byte, Error) {
	var out [TreeKeySize]byte
	buf := make([]byte, TreeKeySize+DirKeySize)
	copy(buf[:TreeKeySize], parent[:])
	copy(buf[TreeKeySize:], direction[:])
	h, err := hashBytes(buf, TreeKeySize)
	if err != nil {
		return out, err
	}
	copy(out[:], h)
	return out, nil
}

// kdfTreeLeaf promotes a 16-byte leaf tree key to a 32-byte frame key:
// Blake2b-32(leaf). Only leaves (Bits == 64) are promoted this way; interior
// tree keys are only ever distributed inside subscriptions.
func kdfTreeLeaf(leaf [TreeKeySize]byte) ([SymKeySize]byte, Error) {
	var out [SymKeySize]byte
	h, err := hashBytes(leaf[:], SymKeySize)
	if err != nil {
		return out, err
	}
	copy(out[:], h)
	return out, nil
}
