package utils

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
)

// DecodeU64LE decodes uint64 from little-endian bytes
func DecodeU64LE(data []byte) (uint64, error) {
	if len(data) < 8 {
		return 0, fmt.Errorf("insufficient data to decode u64")
	}
	return binary.LittleEndian.Uint64(data), nil
}

// DecodeDataString decodes account data that may be base64 or hex encoded
func DecodeDataString(dataStr string) ([]byte, error) {
	dataStr = strings.TrimSpace(dataStr)

	data, err := base64.StdEncoding.DecodeString(dataStr)
	if err == nil {
		return data, nil
	}

	data, err = hex.DecodeString(dataStr)
	if err == nil {
		return data, nil
	}
	return nil, fmt.Errorf("unknown encoding (not base64 or hex)")
}
