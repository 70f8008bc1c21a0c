package device

// Seq is an ordered sequence of tensors treated as one logical kernel
// input or output. Elements share a role (one optimizer output, one
// gradient set) but may differ in shape and element type.
//
// A Seq never owns element storage; it borrows tensors owned by the
// invoking kernel context or by an allocator.
type Seq struct {
	elems []Tensor
}

// NewSeq creates a sequence holding the given elements.
func NewSeq(elems ...Tensor) *Seq {
	return &Seq{elems: elems}
}

// Len returns the current element count.
func (s *Seq) Len() int {
	return len(s.elems)
}

// Get returns the element at index i.
func (s *Seq) Get(i int) Tensor {
	return s.elems[i]
}

// Add appends an element to the sequence.
func (s *Seq) Add(t Tensor) {
	s.elems = append(s.elems, t)
}

// Reserve grows the sequence's capacity to hold at least n elements
// without changing its length.
func (s *Seq) Reserve(n int) {
	if cap(s.elems) < n {
		elems := make([]Tensor, len(s.elems), n)
		copy(elems, s.elems)
		s.elems = elems
	}
}

// Clear removes all elements, keeping capacity.
func (s *Seq) Clear() {
	s.elems = s.elems[:0]
}
