package contracts

import "encoding/binary"

// NamespacedKey builds the storage key for an entry of a keyed map: the
// namespace length as a 2-byte big-endian prefix, the namespace, then the key.
// Prefixing the length keeps distinct namespaces from colliding.
func NamespacedKey(namespace string, key []byte) []byte {
	out := make([]byte, 2, 2+len(namespace)+len(key))
	binary.BigEndian.PutUint16(out, uint16(len(namespace)))
	out = append(out, namespace...)
	return append(out, key...)
}
