package testutil

// OpGenConfig configures the operation generator.
//
// Rates are percentages (0-100) and are consumed in field order; whatever
// is left over goes to Populate.
type OpGenConfig struct {
	AtRate       int
	GetRate      int
	NextRate     int
	SeekRate     int
	PeekRate     int
	SetIndexRate int
	RestartRate  int
	AdvanceRate  int

	// MaxPos bounds generated positions to [-2, MaxPos].
	MaxPos int
}

// DefaultOpGenConfig returns a balanced configuration.
func DefaultOpGenConfig() OpGenConfig {
	return OpGenConfig{
		AtRate:       25,
		GetRate:      10,
		NextRate:     25,
		SeekRate:     8,
		PeekRate:     8,
		SetIndexRate: 6,
		RestartRate:  6,
		AdvanceRate:  6,
		MaxPos:       40,
	}
}

// OpGenerator generates deterministic operations from a byte stream.
type OpGenerator struct {
	stream *ByteStream
	config OpGenConfig
}

// NewOpGenerator creates a new operation generator.
func NewOpGenerator(fuzzBytes []byte, cfg *OpGenConfig) *OpGenerator {
	return &OpGenerator{
		stream: NewByteStream(fuzzBytes),
		config: *cfg,
	}
}

// HasMore reports whether more operations can be generated.
func (g *OpGenerator) HasMore() bool {
	return g.stream.HasMore()
}

// NextOp generates the next operation.
func (g *OpGenerator) NextOp() Op {
	choice := int(g.stream.NextByte()) % 100

	cumulative := 0

	cumulative += g.config.AtRate
	if choice < cumulative {
		return OpAt{Pos: g.genPos()}
	}

	cumulative += g.config.GetRate
	if choice < cumulative {
		return OpGet{}
	}

	cumulative += g.config.NextRate
	if choice < cumulative {
		return OpNext{}
	}

	cumulative += g.config.SeekRate
	if choice < cumulative {
		return OpSeek{Pos: g.genPos()}
	}

	cumulative += g.config.PeekRate
	if choice < cumulative {
		return OpPeek{Pos: g.genPos()}
	}

	cumulative += g.config.SetIndexRate
	if choice < cumulative {
		return OpSetIndex{Pos: g.genPos()}
	}

	cumulative += g.config.RestartRate
	if choice < cumulative {
		return OpRestart{}
	}

	cumulative += g.config.AdvanceRate
	if choice < cumulative {
		return OpAdvance{}
	}

	return OpPopulate{}
}

// genPos returns a position in [-2, MaxPos].
func (g *OpGenerator) genPos() int {
	return g.stream.NextInt(g.config.MaxPos+3) - 2
}
