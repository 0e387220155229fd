package circuit

import (
	"bytes"
	"fmt"
	"io"
	"math/big"

	"github.com/bits-and-blooms/bitset"
	"github.com/fxamacker/cbor/v2"
)

// wire-format mirrors of the circuit types; big.Rat exponents travel as
// big-endian num/den bytes.
type circuitWire struct {
	Registers   []registerWire `cbor:"1,keyasint"`
	Gates       []gateWire     `cbor:"2,keyasint"`
	NbQubits    int            `cbor:"3,keyasint"`
	Garbage     []byte         `cbor:"4,keyasint"`
	MaxAncillas int            `cbor:"5,keyasint"`
}

type registerWire struct {
	Name   string  `cbor:"1,keyasint"`
	Qubits []int64 `cbor:"2,keyasint"`
}

type gateWire struct {
	Kind     uint8   `cbor:"1,keyasint"`
	Controls []int64 `cbor:"2,keyasint,omitempty"`
	Target   int64   `cbor:"3,keyasint"`
	Num      []byte  `cbor:"4,keyasint,omitempty"`
	Den      []byte  `cbor:"5,keyasint,omitempty"`
}

// WriteTo serializes the circuit in a deterministic CBOR encoding.
func (c *Circuit) WriteTo(w io.Writer) (int64, error) {
	enc, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return 0, err
	}

	cw := circuitWire{
		Registers:   make([]registerWire, len(c.Registers)),
		Gates:       make([]gateWire, len(c.Gates)),
		NbQubits:    c.NbQubits,
		MaxAncillas: c.MaxAncillas,
	}
	for i, r := range c.Registers {
		cw.Registers[i] = registerWire{Name: r.Name, Qubits: qubitsToWire(r.Qubits)}
	}
	for i := range c.Gates {
		g := &c.Gates[i]
		gw := gateWire{
			Kind:     uint8(g.Kind),
			Controls: qubitsToWire(g.Controls),
			Target:   int64(g.Target),
		}
		if g.Exponent != nil {
			gw.Num = g.Exponent.Num().Bytes()
			gw.Den = g.Exponent.Denom().Bytes()
		}
		cw.Gates[i] = gw
	}
	if c.Garbage != nil {
		if cw.Garbage, err = c.Garbage.MarshalBinary(); err != nil {
			return 0, err
		}
	}

	data, err := enc.Marshal(&cw)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

// ReadFrom deserializes a circuit previously written with WriteTo.
func (c *Circuit) ReadFrom(r io.Reader) (int64, error) {
	var buf bytes.Buffer
	n, err := buf.ReadFrom(r)
	if err != nil {
		return n, err
	}

	dm, err := cbor.DecOptions{MaxArrayElements: 1 << 28}.DecMode()
	if err != nil {
		return n, err
	}
	var cw circuitWire
	if err := dm.Unmarshal(buf.Bytes(), &cw); err != nil {
		return n, fmt.Errorf("decode circuit: %w", err)
	}

	c.NbQubits = cw.NbQubits
	c.MaxAncillas = cw.MaxAncillas
	c.Registers = make([]Register, len(cw.Registers))
	for i, rw := range cw.Registers {
		c.Registers[i] = Register{Name: rw.Name, Qubits: qubitsFromWire(rw.Qubits)}
	}
	c.Gates = make([]Gate, len(cw.Gates))
	for i, gw := range cw.Gates {
		g := Gate{
			Kind:     Kind(gw.Kind),
			Controls: qubitsFromWire(gw.Controls),
			Target:   Qubit(gw.Target),
		}
		if gw.Den != nil {
			g.Exponent = new(big.Rat).SetFrac(
				new(big.Int).SetBytes(gw.Num),
				new(big.Int).SetBytes(gw.Den),
			)
		}
		c.Gates[i] = g
	}
	c.Garbage = bitset.New(uint(cw.NbQubits))
	if cw.Garbage != nil {
		if err := c.Garbage.UnmarshalBinary(cw.Garbage); err != nil {
			return n, fmt.Errorf("decode garbage set: %w", err)
		}
	}
	return n, nil
}

func qubitsToWire(qs []Qubit) []int64 {
	if len(qs) == 0 {
		return nil
	}
	out := make([]int64, len(qs))
	for i, q := range qs {
		out[i] = int64(q)
	}
	return out
}

func qubitsFromWire(ws []int64) []Qubit {
	if len(ws) == 0 {
		return nil
	}
	out := make([]Qubit, len(ws))
	for i, w := range ws {
		out[i] = Qubit(w)
	}
	return out
}
