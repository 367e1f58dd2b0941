package region

// DefaultLimit is the default provider limit (1GB) when none is configured.
const DefaultLimit = 1 << 30

// SliceProvider backs a Region with an ordinary growable byte slice. Growth
// beyond the configured limit fails with ErrExhausted.
type SliceProvider struct {
	data  []byte
	limit int
}

// NewSliceProvider creates a provider that refuses to grow past limit bytes.
// A non-positive limit selects DefaultLimit.
func NewSliceProvider(limit int) *SliceProvider {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxRegionSize {
		limit = MaxRegionSize
	}
	return &SliceProvider{limit: limit}
}

// Grow extends the backing slice by n bytes. The grown bytes are zeroed.
func (p *SliceProvider) Grow(n int) ([]byte, error) {
	if n <= 0 {
		return nil, ErrBadSize
	}
	if len(p.data)+n > p.limit {
		return nil, ErrExhausted
	}
	p.data = append(p.data, make([]byte, n)...)
	return p.data, nil
}
