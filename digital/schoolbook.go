package digital

import (
	"github.com/quantverify/modsquare/circuit"
)

// schoolbookMult accumulates the product of registers A and B into C:
//
//	inputs:   A  B  C
//	outputs:  A  B  C+A*B mod 2^len(C)
//
// One Toffoli per bit pair forms the partial products, accumulated by ripple
// carry chains. cZero asserts that C starts at zero, which shortens the final
// carry propagation of every row.
func (b *builder) schoolbookMult(A, B, C []circuit.Qubit, cZero bool) {
	checkMultSizes(len(A), len(B), len(C))

	for i, a := range A {
		cin := b.alloc.Ancilla()
		for j, bq := range B {
			d := b.alloc.Ancilla()
			b.emit(circuit.CCX(a, bq, d))

			cout := b.alloc.Ancilla()
			b.fullAdder(d, C[i+j], cin, cout)
			b.alloc.Discard(cin)
			cin = cout

			b.alloc.Discard(d)
		}

		// finish performing the carries
		if !cZero {
			for _, c := range C[i+len(B):] {
				cout := b.alloc.Ancilla()
				b.halfAdder(cin, c, cout)
				b.alloc.Discard(cin)
				cin = cout
			}
		} else if i+len(B) < len(C) {
			b.emit(circuit.CX(cin, C[i+len(B)]))
		}

		b.alloc.Discard(cin)
	}
}

// schoolbookSquare accumulates the square of register A into C:
//
//	inputs:   A  C
//	outputs:  A  C+A² mod 2^len(C)
//
// The symmetric partial products a_i*a_j (i != j) count twice, which the row
// layout realizes by shifting them up one position instead of computing them
// twice.
func (b *builder) schoolbookSquare(A, C []circuit.Qubit, cZero bool) {
	checkMultSizes(len(A), len(A), len(C))

	for i := range A {
		cin := b.alloc.Ancilla()
		var cIdx int
		for j := i; j < len(A); j++ {
			var a circuit.Qubit
			if i == j {
				a = A[i]
			} else {
				a = b.alloc.Ancilla()
				b.emit(circuit.CCX(A[i], A[j], a))
			}

			cIdx = i + j
			if i != j {
				cIdx++
			}

			cout := b.alloc.Ancilla()
			b.fullAdder(a, C[cIdx], cin, cout)
			b.alloc.Discard(cin)
			cin = cout

			if i == j {
				// the doubled cross terms skip one position, so the
				// diagonal row carries an extra bit to stay aligned
				cIdx++
				cout = b.alloc.Ancilla()
				b.halfAdder(cin, C[cIdx], cout)
				b.alloc.Discard(cin)
				cin = cout
			} else {
				b.alloc.Discard(a)
			}
		}

		// finish performing the carries
		cIdx++
		if !cZero {
			for _, c := range C[cIdx:] {
				cout := b.alloc.Ancilla()
				b.halfAdder(cin, c, cout)
				b.alloc.Discard(cin)
				cin = cout
			}
		} else if cIdx < len(C) {
			b.emit(circuit.CX(cin, C[cIdx]))
		}

		b.alloc.Discard(cin)
	}
}
