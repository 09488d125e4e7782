package walog

import (
	"encoding/binary"
	"fmt"
	"time"
)

// Encode serializes item into a self-delimiting record: decoding the
// bytes Encode produces, then re-encoding the result, always yields the
// exact same byte length as was consumed — the contract the append file
// format needs so ReadAppendFile can walk record-by-record without a
// separate index. The original datastore got this property from
// bincode's fixed-width-plus-length-prefixed encoding of structs; here
// it's done directly with a kind byte and two explicit length-prefixed
// strings.
func Encode(item Item) []byte {
	buf := make([]byte, 0, 1+binary.MaxVarintLen64+len(item.Key)+len(item.Value)+8)
	buf = append(buf, byte(item.Kind))
	buf = binary.AppendUvarint(buf, uint64(item.At.UnixNano()))
	buf = appendString(buf, item.Key)
	buf = appendString(buf, item.Value)
	return buf
}

func appendString(buf []byte, s string) []byte {
	buf = binary.AppendUvarint(buf, uint64(len(s)))
	return append(buf, s...)
}

// Decode reads one item from the front of data and reports how many
// bytes it consumed.
func Decode(data []byte) (Item, int, error) {
	if len(data) < 1 {
		return Item{}, 0, fmt.Errorf("walog: truncated record: missing kind byte")
	}
	kind := Kind(data[0])
	pos := 1

	nanos, n := binary.Uvarint(data[pos:])
	if n <= 0 {
		return Item{}, 0, fmt.Errorf("walog: truncated record: bad timestamp varint")
	}
	pos += n

	key, n, err := readString(data[pos:])
	if err != nil {
		return Item{}, 0, err
	}
	pos += n

	value, n, err := readString(data[pos:])
	if err != nil {
		return Item{}, 0, err
	}
	pos += n

	return Item{
		Kind:  kind,
		At:    time.Unix(0, int64(nanos)),
		Key:   key,
		Value: value,
	}, pos, nil
}

func readString(data []byte) (string, int, error) {
	length, n := binary.Uvarint(data)
	if n <= 0 {
		return "", 0, fmt.Errorf("walog: truncated record: bad length varint")
	}
	end := n + int(length)
	if end > len(data) {
		return "", 0, fmt.Errorf("walog: truncated record: string exceeds buffer")
	}
	return string(data[n:end]), end, nil
}
