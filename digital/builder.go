package digital

import (
	"fmt"
	"math/big"

	"github.com/quantverify/modsquare/circuit"
)

// noQubit marks an absent optional control.
const noQubit = circuit.Qubit(-1)

// builder owns the workspace of one circuit-construction call: the gate
// sequence under construction and the allocator issuing fresh qubits. Two
// builds with identical inputs yield structurally identical circuits.
type builder struct {
	alloc  *circuit.Allocator
	gates  []circuit.Gate
	cutoff int
}

func newBuilder(alloc *circuit.Allocator, cutoff int) *builder {
	if cutoff < minRecursionWidth-1 {
		cutoff = minRecursionWidth - 1
	}
	return &builder{alloc: alloc, cutoff: cutoff}
}

func (b *builder) emit(gs ...circuit.Gate) {
	b.gates = append(b.gates, gs...)
}

// halfAdder adds qubit a into s, carrying into cout:
//
//	inputs:   a  s      cout
//	outputs:  a  s+a%2  cout+(s+a)/2
func (b *builder) halfAdder(a, s, cout circuit.Qubit) {
	b.emit(
		circuit.CCX(a, s, cout),
		circuit.CX(a, s),
	)
}

// fullAdder adds a and cin into s, carrying into cout:
//
//	inputs:   a  s          cin  cout
//	outputs:  a  s+a+cin%2  cin  cout+(s+a+cin)/2
//
// a and cin are left entangled with the sum; they become garbage.
func (b *builder) fullAdder(a, s, cin, cout circuit.Qubit) {
	b.emit(
		circuit.CCX(a, s, cout),
		circuit.CX(a, s),
		circuit.CCX(s, cin, cout),
		circuit.CX(cin, s),
	)
}

// add adds register A into register B modulo 2^len(B):
//
//	inputs:   A  B
//	outputs:  A  B+A mod 2^len(B)
//
// Requires len(A) <= len(B); the carry chain ancillas are discarded as
// garbage.
func (b *builder) add(A, B []circuit.Qubit) {
	if len(A) > len(B) {
		panic("digital: register A too long to add to register B")
	}

	cin := noQubit
	for i, a := range A {
		cout := b.alloc.Ancilla()
		if cin == noQubit {
			b.halfAdder(a, B[i], cout)
		} else {
			b.fullAdder(a, B[i], cin, cout)
			b.alloc.Discard(cin)
		}
		cin = cout
	}

	// carry through the rest of B
	for _, s := range B[len(A):] {
		cout := b.alloc.Ancilla()
		b.halfAdder(cin, s, cout)
		b.alloc.Discard(cin)
		cin = cout
	}

	b.alloc.Discard(cin)
}

// addConst adds the classical constant x into register A modulo 2^len(A),
// optionally controlled on ctrl:
//
//	inputs:   A
//	outputs:  A+x mod 2^len(A)
//
// x must be non-negative with bit length <= len(A); subtraction is expressed
// by passing the two's complement of the subtrahend.
func (b *builder) addConst(x *big.Int, A []circuit.Qubit, ctrl circuit.Qubit) {
	if x.Sign() < 0 {
		panic("digital: addConst requires a non-negative constant")
	}
	if x.BitLen() > len(A) {
		panic("digital: constant too large to add to register")
	}

	// with a control, the constant's bits are injected by CX instead of X;
	// the uncontrolled carry chain then propagates zeros when ctrl is unset
	inject := func(q circuit.Qubit) circuit.Gate {
		if ctrl == noQubit {
			return circuit.X(q)
		}
		return circuit.CX(ctrl, q)
	}

	cin := b.alloc.Ancilla()
	for i, a := range A {
		cout := b.alloc.Ancilla()
		if x.Bit(i) == 0 {
			b.halfAdder(cin, a, cout)
		} else {
			// a half adder computing a+cin+1
			b.emit(inject(cin), inject(a))
			b.halfAdder(cin, a, cout)
			b.emit(inject(a), inject(cout))
		}
		b.alloc.Discard(cin)
		cin = cout
	}
	b.alloc.Discard(cin)
}

// lessThanConst compares register A against the classical constant x:
//
//	inputs:   A  out
//	outputs:  A  out+(A<x)
//
// The equality-tracking ancillas are discarded as garbage.
func (b *builder) lessThanConst(A []circuit.Qubit, x *big.Int, out circuit.Qubit) {
	if x.BitLen() > len(A) {
		// x is certainly larger than A
		b.emit(circuit.X(out))
		return
	}

	// whether the prefixes are equal so far, starts as 1
	eq := b.alloc.Ancilla()
	b.emit(circuit.X(eq))

	for i := len(A) - 1; i >= 0; i-- {
		a := A[i]
		eqOut := b.alloc.Ancilla()
		b.emit(circuit.CX(eq, eqOut))
		if x.Bit(i) == 0 {
			// if a is 1, the prefixes differ (and A is larger so far)
			b.emit(circuit.CCX(eq, a, eqOut))
		} else {
			// if a is 0 while the prefixes were equal, A is less
			b.emit(
				circuit.X(a),
				circuit.CCX(eq, a, out),
				circuit.CCX(eq, a, eqOut),
				circuit.X(a),
			)
		}
		b.alloc.Discard(eq)
		eq = eqOut
	}

	b.alloc.Discard(eq)
}

// copyReg XORs register A into register B (copying it if B is zero).
func (b *builder) copyReg(A, B []circuit.Qubit) {
	if len(A) > len(B) {
		panic("digital: register B must be at least as long as A")
	}
	for i, a := range A {
		b.emit(circuit.CX(a, B[i]))
	}
}

// mult dispatches on the multiplication strategy. The strategies form a
// closed set; an unknown mode is a programming error caught by newConfig.
func (b *builder) mult(A, B, C []circuit.Qubit, mode Mode, cZero bool) {
	switch mode {
	case Schoolbook:
		b.schoolbookMult(A, B, C, cZero)
	case Karatsuba:
		b.karatsubaMult(A, B, C, cZero)
	default:
		panic(fmt.Sprintf("digital: unknown mode %d", mode))
	}
}

func (b *builder) square(A, C []circuit.Qubit, mode Mode, cZero bool) {
	switch mode {
	case Schoolbook:
		b.schoolbookSquare(A, C, cZero)
	case Karatsuba:
		b.karatsubaSquare(A, C, cZero)
	default:
		panic(fmt.Sprintf("digital: unknown mode %d", mode))
	}
}

// checkMultSizes panics unless C can hold the full product A*B.
func checkMultSizes(lenA, lenB, lenC int) {
	if lenC < lenA+lenB {
		panic("digital: product register not large enough to store result")
	}
}
