package ppp

// MaxFrameSize is the largest frame payload the wire format can carry
// (spec §3, FrameData.frame).
const MaxFrameSize = 64

// FramePacket is the 228-byte on-wire, signed, triply-wrapped frame packet
// (spec §3, §4.7): a leaf tree key proves time-and-channel, the channel key
// proves channel membership, and the signature proves deployment origin.
type FramePacket struct {
	ChannelID uint32
	EncFrame  [SymMetaSize + 120]byte
	Signature [SignatureSize]byte
}

// EncodeFrame nests the three cryptographic layers around one broadcast
// frame: the per-timestamp leaf key, the per-channel key, and the
// deployment signature (spec §4.7).
func EncodeFrame(s *GlobalSecrets, channel uint32, frame []byte, timestamp uint64) (*FramePacket, []byte, Error) {
	chKey, ok := s.ChannelKeys[channel]
	if !ok {
		return nil, nil, errorf(UnknownChannel, "channel %d is not in this deployment", channel)
	}
	if len(frame) > MaxFrameSize {
		return nil, nil, errorf(OversizedFrame, "frame is %d bytes, more than %d", len(frame), MaxFrameSize)
	}

	fdBuilder := frameDataRecord.NewBuilder()
	fdBuilder.PutU32("length", uint32(len(frame)))
	fdBuilder.PutBytes("frame", frame)
	frameData := fdBuilder.Bytes()

	leafTreeKey, err := s.DeriveTreeKey(channel, leafVertex(timestamp))
	if err != nil {
		return nil, nil, err
	}
	leafFrameKey, err := kdfTreeLeaf(leafTreeKey)
	if err != nil {
		return nil, nil, err
	}

	encFrame, err := encryptSymmetric(frameData, leafFrameKey)
	if err != nil {
		return nil, nil, err
	}

	fchBuilder := frameChRecord.NewBuilder()
	fchBuilder.PutU64("timestamp", timestamp)
	fchBuilder.PutBytes("ciphertext", encFrame)
	frameCh := fchBuilder.Bytes()

	encTimestamp, err := encryptSymmetric(frameCh, chKey)
	if err != nil {
		return nil, nil, err
	}

	payloadBuilder := framePacketPayloadRecord.NewBuilder()
	payloadBuilder.PutU32("channel_id", channel)
	payloadBuilder.PutBytes("enc_frame", encTimestamp)
	payload := payloadBuilder.Bytes()

	sig, err := sign(payload, s.EncPrivateKey)
	if err != nil {
		return nil, nil, err
	}

	packetBuilder := framePacketRecord.NewBuilder()
	packetBuilder.PutBytes("payload", payload)
	packetBuilder.PutBytes("signature", sig[:])
	wire := packetBuilder.Bytes()

	fp := &FramePacket{ChannelID: channel, Signature: sig}
	copy(fp.EncFrame[:], encTimestamp)
	return fp, wire, nil
}
