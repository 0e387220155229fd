package digital

import (
	"math/big"

	"github.com/quantverify/modsquare/circuit"
)

// reduce replaces the value of register T with T mod N by long division:
// for each shift k from len(T)-bitlen(N) down to zero, a reversible
// comparator decides whether T >= N·2^k and, if so, a comparator-controlled
// constant addition subtracts N·2^k in two's complement. The comparison bits
// and carry ancillas are left as garbage.
//
// Invariant between rounds: before the round for shift k, T < N·2^(k+1), so
// after the final round (k = 0) the register holds T mod N and its high bits
// are zero.
func (b *builder) reduce(T []circuit.Qubit, N *big.Int) {
	L := len(T)
	n := N.BitLen()
	modulus := new(big.Int).Lsh(big.NewInt(1), uint(L)) // 2^L

	for k := L - n; k >= 0; k-- {
		shifted := new(big.Int).Lsh(N, uint(k))

		ge := b.alloc.Ancilla()
		b.lessThanConst(T, shifted, ge)
		b.emit(circuit.X(ge)) // ge = (T >= N·2^k)

		// T -= N·2^k when ge, via the two's complement of the subtrahend
		neg := new(big.Int).Sub(modulus, shifted)
		b.addConst(neg, T, ge)

		b.alloc.Discard(ge)
	}
}
