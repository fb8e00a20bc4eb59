// Package query implements the keyed read cache and mutation dispatcher
// that every screen reads through.
package query

// Operation names for the reads this client performs. Invalidation is
// declared in terms of these.
const (
	OpCategories = "categories"
	OpExpenses   = "expenses"
	OpSummary    = "summary"
	OpProfile    = "profile"
)

// Key identifies one cached read: an operation name plus the canonical
// serialization of its parameters. Keys are compared structurally, so two
// reads collide only when both parts are equal, never through ad hoc
// string concatenation.
type Key struct {
	Op   string
	Args string
}

// NewKey builds a key. Args must already be canonical (see
// model.FilterOptions.CacheArgs); an empty Args is valid for parameterless
// reads like the category list.
func NewKey(op, args string) Key {
	return Key{Op: op, Args: args}
}

// flightID is the singleflight string form. The separator cannot appear in
// operation names.
func (k Key) flightID() string {
	return k.Op + "\x1f" + k.Args
}
