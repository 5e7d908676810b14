package ppp

// ValidSubscription is the 2080-byte embeddable plaintext subscription:
// the tree-cover keys, the channel key, the covered range and the key
// count (spec §3, §4.6). The packed record also carries the BNYA magic
// and padding, which this struct does not hold.
type ValidSubscription struct {
	Ktree    [MaxCoverVertices * TreeKeySize]byte
	Kch      [DirKeySize]byte
	Start    uint64
	End      uint64
	Channel  uint32
	KeyCount uint32
}

// SubscriptionUpdate is the 2188-byte on-wire, signed, encrypted
// subscription update (spec §3, §4.6).
type SubscriptionUpdate struct {
	DeviceID   uint32
	Ciphertext [SymMetaSize + 2080]byte
	Sig        [SignatureSize]byte
}

// BuildEmbeddableSubscription packs the plaintext ValidSubscription record
// for device-independent embedding into a decoder's flash (spec §4.6,
// steps 1-4).
func BuildEmbeddableSubscription(s *GlobalSecrets, start, end uint64, channel uint32) (*ValidSubscription, []byte, Error) {
	if start > end {
		return nil, nil, errorf(InvalidRange, "start %d > end %d", start, end)
	}
	if _, ok := s.ChannelKeys[channel]; !ok {
		return nil, nil, errorf(UnknownChannel, "channel %d is not in this deployment", channel)
	}
	kch := s.ChannelKeys[channel]

	vertices, err := Cover(start, end)
	if err != nil {
		return nil, nil, err
	}
	n := len(vertices)

	b := validSubscriptionRecord.NewBuilder()
	ktree := make([]byte, 0, MaxCoverVertices*TreeKeySize)
	for _, v := range vertices {
		k, derr := s.DeriveTreeKey(channel, v)
		if derr != nil {
			return nil, nil, derr
		}
		ktree = append(ktree, k[:]...)
	}
	b.PutBytes("ktree", ktree)
	b.PutBytes("kch", kch[:])
	b.PutU64("start", start)
	b.PutU64("end", end)
	b.PutU32("channel", channel)
	b.PutU32("key_count", uint32(n))
	b.PutU32("magic", SubscriptionMagic)
	buf := b.Bytes()

	vs := &ValidSubscription{
		Start:    start,
		End:      end,
		Channel:  channel,
		KeyCount: uint32(n),
	}
	copy(vs.Ktree[:], ktree)
	vs.Kch = kch
	return vs, buf, nil
}

// BuildSubscriptionUpdate produces the full on-wire subscription update for
// a device: the embeddable subscription encrypted under the device's
// identity key, wrapped in a payload carrying the device id, and signed
// (spec §4.6, steps 5-8).
func BuildSubscriptionUpdate(s *GlobalSecrets, deviceID uint32, start, end uint64, channel uint32) (*SubscriptionUpdate, []byte, Error) {
	_, embeddable, err := BuildEmbeddableSubscription(s, start, end, channel)
	if err != nil {
		return nil, nil, err
	}

	kid, err := s.DeriveIDKey(deviceID)
	if err != nil {
		return nil, nil, err
	}
	ciphertext, err := encryptSymmetric(embeddable, kid)
	if err != nil {
		return nil, nil, err
	}

	payloadBuilder := subscriptionUpdatePayloadRecord.NewBuilder()
	payloadBuilder.PutU32("id", deviceID)
	payloadBuilder.PutBytes("ciphertext", ciphertext)
	payload := payloadBuilder.Bytes()

	sig, err := sign(payload, s.EncPrivateKey)
	if err != nil {
		return nil, nil, err
	}

	updateBuilder := subscriptionUpdateRecord.NewBuilder()
	updateBuilder.PutBytes("payload", payload)
	updateBuilder.PutBytes("sig", sig[:])
	wire := updateBuilder.Bytes()

	su := &SubscriptionUpdate{DeviceID: deviceID, Sig: sig}
	copy(su.Ciphertext[:], ciphertext)
	return su, wire, nil
}
