package tracker

import (
	"bytes"
	"encoding/json"
	"math"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"

	"github.com/ceyewan/trialkit/xerrors"
)

// Observation 一次观测：值与时间索引
//
// T 由调用方给出，不要求单调或唯一。序列化为两元素数组 [value, t]。
type Observation struct {
	Value float64
	T     int64
}

// JSON 无法表示非有限浮点数，用字符串代替
const (
	jsonNaN    = "NaN"
	jsonPosInf = "Infinity"
	jsonNegInf = "-Infinity"
)

// MarshalJSON 编码为 [value, t]
func (o Observation) MarshalJSON() ([]byte, error) {
	var value any = o.Value
	switch {
	case math.IsNaN(o.Value):
		value = jsonNaN
	case math.IsInf(o.Value, 1):
		value = jsonPosInf
	case math.IsInf(o.Value, -1):
		value = jsonNegInf
	}
	return json.Marshal([2]any{value, o.T})
}

// UnmarshalJSON 解码 [value, t]
func (o *Observation) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return xerrors.Wrap(err, "observation")
	}
	if len(pair) != 2 {
		return xerrors.Wrapf(xerrors.ErrInvalidInput, "observation: want 2 elements, got %d", len(pair))
	}

	value, err := decodeJSONValue(pair[0])
	if err != nil {
		return err
	}

	dec := json.NewDecoder(bytes.NewReader(pair[1]))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return xerrors.Wrap(err, "observation: t")
	}
	// t 必须是整数，小数不做截断
	num, ok := raw.(json.Number)
	if !ok {
		return xerrors.Wrapf(xerrors.ErrInvalidInput, "observation: t %s", pair[1])
	}
	t, err := num.Int64()
	if err != nil {
		return xerrors.Wrapf(xerrors.ErrInvalidInput, "observation: t %s", pair[1])
	}

	o.Value, o.T = value, t
	return nil
}

func decodeJSONValue(raw json.RawMessage) (float64, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		switch s {
		case jsonNaN:
			return math.NaN(), nil
		case jsonPosInf:
			return math.Inf(1), nil
		case jsonNegInf:
			return math.Inf(-1), nil
		}
		return 0, xerrors.Wrapf(xerrors.ErrInvalidInput, "observation: value %q", s)
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, xerrors.Wrap(err, "observation: value")
	}
	return f, nil
}

var (
	_ msgpack.CustomEncoder = Observation{}
	_ msgpack.CustomDecoder = (*Observation)(nil)
)

// EncodeMsgpack 编码为 [value, t]，MessagePack 原生支持 NaN 和 Inf
func (o Observation) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeArrayLen(2); err != nil {
		return err
	}
	if err := enc.EncodeFloat64(o.Value); err != nil {
		return err
	}
	return enc.EncodeInt(o.T)
}

// DecodeMsgpack 解码 [value, t]
func (o *Observation) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return err
	}
	if n != 2 {
		return xerrors.Wrapf(xerrors.ErrInvalidInput, "observation: want 2 elements, got %d", n)
	}

	value, err := dec.DecodeFloat64()
	if err != nil {
		return xerrors.Wrap(err, "observation: value")
	}
	code, err := dec.PeekCode()
	if err != nil {
		return xerrors.Wrap(err, "observation: t")
	}
	if code == msgpcode.Float || code == msgpcode.Double {
		return xerrors.Wrap(xerrors.ErrInvalidInput, "observation: t must be an integer")
	}
	t, err := dec.DecodeInt64()
	if err != nil {
		return xerrors.Wrap(err, "observation: t")
	}

	o.Value, o.T = value, t
	return nil
}
