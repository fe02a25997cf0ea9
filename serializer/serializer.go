// Package serializer 提供快照使用的序列化器。
//
// 支持的序列化器类型:
//   - "json": 标准库 JSON 序列化，可读性最好，便于排查
//   - "msgpack": MessagePack 二进制序列化，体积更小
package serializer

import (
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/ceyewan/trialkit/xerrors"
)

// ErrUnsupportedSerializer 不支持的序列化器类型
var ErrUnsupportedSerializer = xerrors.WithCode(xerrors.New("serializer: unsupported type"), "UNSUPPORTED_SERIALIZER")

const (
	JSON    = "json"
	MsgPack = "msgpack"
)

// Serializer 定义序列化接口
type Serializer interface {
	Marshal(value any) ([]byte, error)
	Unmarshal(data []byte, dest any) error
	// Name 返回序列化器类型，与 New 接受的名称一致
	Name() string
}

// JSONSerializer JSON 序列化器
type JSONSerializer struct{}

func (j *JSONSerializer) Marshal(value any) ([]byte, error) {
	return json.Marshal(value)
}

func (j *JSONSerializer) Unmarshal(data []byte, dest any) error {
	return json.Unmarshal(data, dest)
}

func (j *JSONSerializer) Name() string { return JSON }

// MessagePackSerializer MessagePack 序列化器
type MessagePackSerializer struct{}

func (m *MessagePackSerializer) Marshal(value any) ([]byte, error) {
	return msgpack.Marshal(value)
}

func (m *MessagePackSerializer) Unmarshal(data []byte, dest any) error {
	return msgpack.Unmarshal(data, dest)
}

func (m *MessagePackSerializer) Name() string { return MsgPack }

// New 创建序列化器，空字符串等价于 "json"
func New(serializerType string) (Serializer, error) {
	switch serializerType {
	case JSON, "":
		return &JSONSerializer{}, nil
	case MsgPack:
		return &MessagePackSerializer{}, nil
	default:
		return nil, xerrors.Wrapf(ErrUnsupportedSerializer, "type %q", serializerType)
	}
}
