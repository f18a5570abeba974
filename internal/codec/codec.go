package codec

import (
	"errors"
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
	"logicalclocks/internal/hybrid"
	"logicalclocks/internal/vector"
)

// ErrMalformed is returned when input is not a valid encoded timestamp.
var ErrMalformed = errors.New("malformed timestamp")

const (
	lamportTime protowire.Number = 1

	hybridPhysical protowire.Number = 1
	hybridLogical  protowire.Number = 2

	vectorComponent protowire.Number = 1
	componentNode   protowire.Number = 1
	componentTime   protowire.Number = 2
)

// MarshalLamport encodes a Lamport timestamp.
func MarshalLamport(t int64) []byte {
	return appendSint64(nil, lamportTime, t)
}

// UnmarshalLamport decodes a Lamport timestamp.
func UnmarshalLamport(b []byte) (int64, error) {
	var t int64
	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == lamportTime && typ == protowire.VarintType {
			v, n := protowire.ConsumeVarint(b)
			t = protowire.DecodeZigZag(v)
			return n, nil
		}
		return protowire.ConsumeFieldValue(num, typ, b), nil
	})
	return t, err
}

// MarshalHybrid encodes a hybrid timestamp.
func MarshalHybrid(ts hybrid.Timestamp[int64, uint32]) []byte {
	b := appendSint64(nil, hybridPhysical, ts.Physical)
	if ts.Logical != 0 {
		b = protowire.AppendTag(b, hybridLogical, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(ts.Logical))
	}
	return b
}

// UnmarshalHybrid decodes a hybrid timestamp.
func UnmarshalHybrid(b []byte) (hybrid.Timestamp[int64, uint32], error) {
	var ts hybrid.Timestamp[int64, uint32]
	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == hybridPhysical && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			ts.Physical = protowire.DecodeZigZag(v)
			return n, nil
		case num == hybridLogical && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n >= 0 && v > math.MaxUint32 {
				return 0, fmt.Errorf("%w: logical component %d overflows uint32", ErrMalformed, v)
			}
			ts.Logical = uint32(v)
			return n, nil
		}
		return protowire.ConsumeFieldValue(num, typ, b), nil
	})
	return ts, err
}

// MarshalVector encodes a vector timestamp. Components are written in node
// order, so equal timestamps encode to equal bytes.
func MarshalVector(ts vector.Timestamp[string, int64]) []byte {
	var b, c []byte
	for _, node := range ts.NodeIDs() {
		t, _ := ts.Get(node)

		c = c[:0]
		c = protowire.AppendTag(c, componentNode, protowire.BytesType)
		c = protowire.AppendString(c, node)
		c = appendSint64(c, componentTime, t)

		b = protowire.AppendTag(b, vectorComponent, protowire.BytesType)
		b = protowire.AppendBytes(b, c)
	}
	return b
}

// UnmarshalVector decodes a vector timestamp. Input without components
// fails with vector.ErrEmptyTimestamp.
func UnmarshalVector(b []byte) (vector.Timestamp[string, int64], error) {
	components := make(map[string]int64)
	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num != vectorComponent || typ != protowire.BytesType {
			return protowire.ConsumeFieldValue(num, typ, b), nil
		}
		c, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return n, nil
		}
		node, t, err := unmarshalComponent(c)
		if err != nil {
			return 0, err
		}
		if _, dup := components[node]; dup {
			return 0, fmt.Errorf("%w: duplicate node %q", ErrMalformed, node)
		}
		components[node] = t
		return n, nil
	})
	if err != nil {
		return vector.Timestamp[string, int64]{}, err
	}
	return vector.NewTimestamp(components)
}

func unmarshalComponent(b []byte) (string, int64, error) {
	var (
		node string
		t    int64
	)
	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == componentNode && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			node = v
			return n, nil
		case num == componentTime && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			t = protowire.DecodeZigZag(v)
			return n, nil
		}
		return protowire.ConsumeFieldValue(num, typ, b), nil
	})
	return node, t, err
}

func appendSint64(b []byte, num protowire.Number, v int64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, protowire.EncodeZigZag(v))
}

// walk calls field for every field in b. field consumes the field's value
// and returns the number of bytes used, or a negative protowire error code.
func walk(b []byte, field func(num protowire.Number, typ protowire.Type, b []byte) (int, error)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("%w: %v", ErrMalformed, protowire.ParseError(n))
		}
		b = b[n:]

		n, err := field(num, typ, b)
		if err != nil {
			return err
		}
		if n < 0 {
			return fmt.Errorf("%w: field %d: %v", ErrMalformed, num, protowire.ParseError(n))
		}
		b = b[n:]
	}
	return nil
}
