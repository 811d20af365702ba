package domains

// Anything is the single element of the Universe lattice.
type Anything struct{}

// Universe is the one-point top lattice used for types the analyzer cannot
// track precisely. Any operation on it returns Top.
type Universe struct{}

func (Universe) Name() string          { return "universe" }
func (Universe) Bottom() Value         { return Anything{} }
func (Universe) Top() Value            { return Anything{} }
func (Universe) IsEmpty(x Value) bool  { return false }
func (Universe) Le(x, y Value) bool    { return true }
func (Universe) Join(x, y Value) Value { return Anything{} }
func (Universe) Meet(x, y Value) Value { return Anything{} }
func (Universe) Size(x Value) Cardinal { return Infinite }

func (Universe) Lit(lit any) (Value, bool) { return Anything{}, true }

func (Universe) Str(x Value) string { return "<anything>" }
