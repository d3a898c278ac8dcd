package testutil

// Seed bundles a human-readable name with seed bytes.
//
// Curated seeds are hand-written op sequences that reach scenarios random
// fuzzing may take a while to find. Each one decodes deterministically via
// [OpGenerator] under [DefaultOpGenConfig].
type Seed struct {
	Name string
	Data []byte
}

// CuratedSeeds returns all curated seeds.
func CuratedSeeds() []Seed {
	return []Seed{
		{Name: "lazy_prefix", Data: SeedLazyPrefix()},
		{Name: "traverse_twice", Data: SeedTraverseTwice()},
		{Name: "cursor_walk", Data: SeedCursorWalk()},
		{Name: "negative_and_far", Data: SeedNegativeAndFar()},
		{Name: "budget_edge", Data: SeedBudgetEdge()},
	}
}

func defaultSeedConfig() *OpGenConfig {
	cfg := DefaultOpGenConfig()

	return &cfg
}

// SeedLazyPrefix reads position 1, then 0, then 5: only the needed prefix
// is pulled and the earlier handle is reused.
func SeedLazyPrefix() []byte {
	return NewSeedBuilder(defaultSeedConfig()).
		At(1).At(0).Peek(2).At(5).At(1).
		Bytes()
}

// SeedTraverseTwice drains the source with Next, restarts, and drains it
// again from the cache.
func SeedTraverseTwice() []byte {
	b := NewSeedBuilder(defaultSeedConfig())

	for range 30 {
		b.Next()
	}

	b.Restart()

	for range 30 {
		b.Next()
	}

	return b.Bytes()
}

// SeedCursorWalk interleaves Get, Next, Advance and Populate.
func SeedCursorWalk() []byte {
	return NewSeedBuilder(defaultSeedConfig()).
		Get().Next().Get().Get().Next().
		Advance().Advance().Peek(4).Populate().Peek(4).
		Seek(3).Peek(4).Peek(2).Get().
		Bytes()
}

// SeedNegativeAndFar moves the cursor below zero and past any source end.
func SeedNegativeAndFar() []byte {
	cfg := defaultSeedConfig()

	return NewSeedBuilder(cfg).
		SetIndex(-1).Next().Get().Advance().Get().
		SetIndex(cfg.MaxPos).Get().Next().Populate().
		At(-2).Peek(-1).Seek(-2).
		Bytes()
}

// SeedBudgetEdge asks for positions around a small cache budget and then
// reads back what was cached.
func SeedBudgetEdge() []byte {
	return NewSeedBuilder(defaultSeedConfig()).
		At(9).At(10).At(11).Peek(9).Peek(10).
		Seek(12).Restart().Populate().Next().At(10).
		Bytes()
}
