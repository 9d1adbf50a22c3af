package pgfrag

// Fragment is a self-contained piece of SQL text plus the arguments its $N
// placeholders refer to ($1 binds Args[0] and so on). A fragment's numbering
// is internally consistent but not globally unique; use Renumbered or the
// CTE and set-operation builders to splice fragments into a larger
// statement without placeholder collisions.
//
// Fragments are immutable values: composing fragments produces new ones and
// never mutates the inputs.
type Fragment struct {
	Text string
	Args []interface{}
}

// NewFragment builds a fragment from SQL text and its arguments.
func NewFragment(text string, args ...interface{}) Fragment {
	return Fragment{Text: text, Args: args}
}

// Renumbered returns a copy of the fragment with its placeholders shifted to
// continue a statement whose highest placeholder number is baseOffset.
func (f Fragment) Renumbered(baseOffset int) Fragment {
	text, args := Renumber(f.Text, f.Args, baseOffset)
	return Fragment{Text: text, Args: args}
}
