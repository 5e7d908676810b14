package ppp

import "github.com/ectf/ppp-crypto/internal/packed"

// Packed-record layouts (spec §3). Sizes are asserted at init time against
// the constants the wire format fixes.
var (
	validSubscriptionRecord = packed.NewRecord("ValidSubscription", 2080,
		packed.Field{Name: "ktree", Kind: packed.Bytes, Size: MaxCoverVertices * TreeKeySize},
		packed.Field{Name: "kch", Kind: packed.Bytes, Size: DirKeySize},
		packed.Field{Name: "start", Kind: packed.U64, Size: 8},
		packed.Field{Name: "end", Kind: packed.U64, Size: 8},
		packed.Field{Name: "channel", Kind: packed.U32, Size: 4},
		packed.Field{Name: "key_count", Kind: packed.U32, Size: 4},
		packed.Field{Name: "magic", Kind: packed.U32, Size: 4},
		packed.Field{Name: "pad", Kind: packed.Bytes, Size: 4},
	)

	subscriptionUpdatePayloadRecord = packed.NewRecord("SubscriptionUpdatePayload", 2124,
		packed.Field{Name: "id", Kind: packed.U32, Size: 4},
		packed.Field{Name: "ciphertext", Kind: packed.Bytes, Size: SymMetaSize + 2080},
	)

	subscriptionUpdateRecord = packed.NewRecord("SubscriptionUpdate", 2188,
		packed.Field{Name: "payload", Kind: packed.Bytes, Size: 2124},
		packed.Field{Name: "sig", Kind: packed.Bytes, Size: SignatureSize},
	)

	frameDataRecord = packed.NewRecord("FrameData", 68,
		packed.Field{Name: "length", Kind: packed.U32, Size: 4},
		packed.Field{Name: "frame", Kind: packed.Bytes, Size: 64},
	)

	frameChRecord = packed.NewRecord("FrameCh", 120,
		packed.Field{Name: "timestamp", Kind: packed.U64, Size: 8},
		packed.Field{Name: "ciphertext", Kind: packed.Bytes, Size: SymMetaSize + 68},
		packed.Field{Name: "padding", Kind: packed.Bytes, Size: 4},
	)

	framePacketPayloadRecord = packed.NewRecord("FramePacketPayload", 164,
		packed.Field{Name: "channel_id", Kind: packed.U32, Size: 4},
		packed.Field{Name: "enc_frame", Kind: packed.Bytes, Size: SymMetaSize + 120},
	)

	framePacketRecord = packed.NewRecord("FramePacket", 228,
		packed.Field{Name: "payload", Kind: packed.Bytes, Size: 164},
		packed.Field{Name: "signature", Kind: packed.Bytes, Size: SignatureSize},
	)
)

// SubscriptionMagic is the ASCII "BNYA" magic validating an embeddable
// subscription, little-endian.
const SubscriptionMagic uint32 = 0x41594e42
