package eclp

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math/big"

	bin "github.com/gagliardetto/binary"

	"github.com/krazyTry/gyro-go/shared"
	"github.com/krazyTry/gyro-go/u128"
)

const derivedParamsVersion uint8 = 1

func (d DerivedParams) fields() []*big.Int {
	return []*big.Int{d.TauAlpha.X, d.TauAlpha.Y, d.TauBeta.X, d.TauBeta.Y, d.U, d.V, d.W, d.Z, d.DSq}
}

// MarshalBinary encodes a version byte followed by the nine derived values
// as little endian signed 128-bit words.
func (d DerivedParams) MarshalBinary() ([]byte, error) {
	buf := new(bytes.Buffer)
	enc := bin.NewBorshEncoder(buf)
	if err := enc.WriteUint8(derivedParamsVersion); err != nil {
		return nil, err
	}
	for i, v := range d.fields() {
		if v == nil {
			return nil, fmt.Errorf("eclp: derived value %d missing", i)
		}
		w, err := u128.Int128FromBig(v)
		if err != nil {
			return nil, fmt.Errorf("eclp: derived value %d: %w", i, err)
		}
		if err := enc.WriteInt128(w, binary.LittleEndian); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func (d *DerivedParams) UnmarshalBinary(data []byte) error {
	dec := bin.NewBorshDecoder(data)
	version, err := dec.ReadUint8()
	if err != nil {
		return err
	}
	if version != derivedParamsVersion {
		return fmt.Errorf("eclp: derived params version %d: %w", version, shared.ErrDerivedParams)
	}

	values := make([]*big.Int, 9)
	for i := range values {
		w, err := dec.ReadInt128(binary.LittleEndian)
		if err != nil {
			return fmt.Errorf("eclp: derived value %d: %w", i, err)
		}
		values[i] = w.BigInt()
	}
	if dec.HasRemaining() {
		return fmt.Errorf("eclp: %d trailing bytes", dec.Remaining())
	}

	*d = DerivedParams{
		TauAlpha: shared.Vector2{X: values[0], Y: values[1]},
		TauBeta:  shared.Vector2{X: values[2], Y: values[3]},
		U:        values[4],
		V:        values[5],
		W:        values[6],
		Z:        values[7],
		DSq:      values[8],
	}
	return nil
}
