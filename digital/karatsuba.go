package digital

import (
	"math/big"

	"github.com/quantverify/modsquare/circuit"
)

// karatsubaMult accumulates the product of registers A and B into C using
// Karatsuba's three-products recursion:
//
//	inputs:   A  B  C
//	outputs:  A  B  C+A*B mod 2^len(C)
//
// Operands are split at floor(min(w_A, w_B)/2), so uneven widths produce a
// short low half and a long high half consistently at every level. Operand
// widths at or below the cutoff take the schoolbook base case.
func (b *builder) karatsubaMult(A, B, C []circuit.Qubit, cZero bool) {
	checkMultSizes(len(A), len(B), len(C))

	// base case
	if min(len(A), len(B)) <= b.cutoff {
		b.schoolbookMult(A, B, C, cZero)
		return
	}

	br := min(len(A), len(B)) / 2

	aLow, bLow := A[:br], B[:br]
	aHigh, bHigh := A[br:], B[br:]

	cMid := b.alloc.AncillaRegister(len(aHigh) + len(bHigh) + 2)

	// low*low lands in cMid first, to spare a dedicated cLow allocation
	b.karatsubaMult(aLow, bLow, cMid, true)
	if cZero {
		b.copyReg(cMid[:2*br], C[:2*br])
	} else {
		b.add(cMid, C) // C += cLow
	}

	cHighSize := len(aHigh) + len(bHigh)
	var cHigh []circuit.Qubit
	if cZero {
		cHigh = C[2*br : 2*br+cHighSize]
	} else {
		cHigh = b.alloc.AncillaRegister(cHighSize)
	}

	b.karatsubaMult(aHigh, bHigh, cHigh, true)
	b.add(cHigh, cMid)

	if !cZero {
		b.add(cHigh, C[2*br:]) // C += cHigh
		b.alloc.Discard(cHigh...)
	}

	aSum := b.alloc.AncillaRegister(len(aHigh) + 1)
	bSum := b.alloc.AncillaRegister(len(bHigh) + 1)

	b.copyReg(aLow, aSum)
	b.add(aHigh, aSum)

	b.copyReg(bLow, bSum)
	b.add(bHigh, bSum)

	// negate the sum of cLow and cHigh held in cMid; in two's complement
	// that is a bit flip plus one
	for _, c := range cMid {
		b.emit(circuit.X(c))
	}
	b.addConst(big.NewInt(1), cMid, noQubit)

	// cMid now receives the cross term (aLow+aHigh)*(bLow+bHigh)-cLow-cHigh
	b.karatsubaMult(aSum, bSum, cMid, false)
	b.add(cMid, C[br:])

	b.alloc.Discard(aSum...)
	b.alloc.Discard(bSum...)
	b.alloc.Discard(cMid...)
}

// karatsubaSquare accumulates the square of register A into C:
//
//	inputs:   A  C
//	outputs:  A  C+A² mod 2^len(C)
//
// Squaring needs only two recursive squares plus one general product for the
// cross term, which enters shifted up one extra position to account for its
// factor of two.
func (b *builder) karatsubaSquare(A, C []circuit.Qubit, cZero bool) {
	checkMultSizes(len(A), len(A), len(C))

	// base case
	if len(A) <= b.cutoff {
		b.schoolbookSquare(A, C, cZero)
		return
	}

	br := len(A) / 2
	aLow, aHigh := A[:br], A[br:]

	var cLow []circuit.Qubit
	if cZero {
		cLow = C[:2*br]
	} else {
		cLow = b.alloc.AncillaRegister(2 * br)
	}

	b.karatsubaSquare(aLow, cLow, true)

	var cHigh []circuit.Qubit
	if !cZero {
		b.add(cLow, C)
		b.alloc.Discard(cLow...)
		cHigh = b.alloc.AncillaRegister(2 * (len(A) - br))
	} else {
		cHigh = C[2*br:]
	}

	b.karatsubaSquare(aHigh, cHigh, true)

	if !cZero {
		b.add(cHigh, C[2*br:])
		b.alloc.Discard(cHigh...)
	}

	cMid := b.alloc.AncillaRegister(len(A))
	b.karatsubaMult(aLow, aHigh, cMid, true)
	b.add(cMid, C[br+1:])
	b.alloc.Discard(cMid...)
}
