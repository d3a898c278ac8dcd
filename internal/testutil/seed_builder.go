package testutil

// SeedBuilder encodes operations into the byte format read by
// [OpGenerator], so tests can write readable fuzz seeds.
//
// The builder must be created with the same config the generator uses.
type SeedBuilder struct {
	config OpGenConfig
	bytes  []byte
}

// NewSeedBuilder creates a builder for cfg.
func NewSeedBuilder(cfg *OpGenConfig) *SeedBuilder {
	return &SeedBuilder{config: *cfg}
}

// Bytes returns the encoded seed.
func (b *SeedBuilder) Bytes() []byte {
	return append([]byte(nil), b.bytes...)
}

// At encodes OpAt{Pos: pos}.
func (b *SeedBuilder) At(pos int) *SeedBuilder { return b.op(0).pos(pos) }

// Get encodes OpGet.
func (b *SeedBuilder) Get() *SeedBuilder { return b.op(1) }

// Next encodes OpNext.
func (b *SeedBuilder) Next() *SeedBuilder { return b.op(2) }

// Seek encodes OpSeek{Pos: pos}.
func (b *SeedBuilder) Seek(pos int) *SeedBuilder { return b.op(3).pos(pos) }

// Peek encodes OpPeek{Pos: pos}.
func (b *SeedBuilder) Peek(pos int) *SeedBuilder { return b.op(4).pos(pos) }

// SetIndex encodes OpSetIndex{Pos: pos}.
func (b *SeedBuilder) SetIndex(pos int) *SeedBuilder { return b.op(5).pos(pos) }

// Restart encodes OpRestart.
func (b *SeedBuilder) Restart() *SeedBuilder { return b.op(6) }

// Advance encodes OpAdvance.
func (b *SeedBuilder) Advance() *SeedBuilder { return b.op(7) }

// Populate encodes OpPopulate.
func (b *SeedBuilder) Populate() *SeedBuilder { return b.op(8) }

// op appends the smallest choice byte that selects the bucket at index.
func (b *SeedBuilder) op(index int) *SeedBuilder {
	rates := []int{
		b.config.AtRate,
		b.config.GetRate,
		b.config.NextRate,
		b.config.SeekRate,
		b.config.PeekRate,
		b.config.SetIndexRate,
		b.config.RestartRate,
		b.config.AdvanceRate,
	}

	start := 0
	for i := range index {
		start += rates[i]
	}

	b.bytes = append(b.bytes, byte(start))

	return b
}

func (b *SeedBuilder) pos(pos int) *SeedBuilder {
	b.bytes = append(b.bytes, byte(pos+2))

	return b
}
