package plaintext

// Equal returns whether both plaintexts are structurally identical. Inputs of
// futures that are not plaintexts are compared by their encoding.
func Equal(a, b Plaintext) bool {
	switch a := a.(type) {
	case nil:
		return b == nil
	case *Literal:
		o, ok := b.(*Literal)
		return ok && a.Kind() == o.Kind() && a.scalar.BitsLE().Equal(o.scalar.BitsLE())
	case *Struct:
		o, ok := b.(*Struct)
		if !ok || len(a.members) != len(o.members) {
			return false
		}
		for i := range a.members {
			if a.members[i].Name != o.members[i].Name || !Equal(a.members[i].Value, o.members[i].Value) {
				return false
			}
		}
		return true
	case *Array:
		o, ok := b.(*Array)
		if !ok || len(a.elements) != len(o.elements) {
			return false
		}
		for i := range a.elements {
			if !Equal(a.elements[i], o.elements[i]) {
				return false
			}
		}
		return true
	case *Future:
		o, ok := b.(*Future)
		if !ok || a.program != o.program || a.function != o.function || len(a.inputs) != len(o.inputs) {
			return false
		}
		for i := range a.inputs {
			if !equalValues(a.inputs[i], o.inputs[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func equalValues(a, b Value) bool {
	// compare plaintexts
	pa, ok1 := a.(Plaintext)
	pb, ok2 := b.(Plaintext)
	if ok1 && ok2 {
		return Equal(pa, pb)
	} else if ok1 != ok2 {
		return false
	}

	// compare encodings
	ba, err := ToBitsLE(a)
	if err != nil {
		return false
	}
	bb, err := ToBitsLE(b)
	if err != nil {
		return false
	}

	return ba.Equal(bb)
}
