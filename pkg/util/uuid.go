package util

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"

	"github.com/google/uuid"
)

// Md5ThenHex hex encodes the md5 of value; info reports it over raw RGB samples
func Md5ThenHex(value []byte) string {
	sum := md5.Sum(value)
	return hex.EncodeToString(sum[:])
}

// BytesUUID derives a stable UUID from raw content
func BytesUUID(value []byte) string {
	hash := md5.Sum(value)
	id, err := uuid.FromBytes(hash[:])
	if err != nil {
		return ""
	}
	return id.String()
}

// HashUUID derives a stable UUID from the JSON form of value; verify uses it
// to give identical runs the same report id
func HashUUID(value any) string {
	raw, err := json.Marshal(value)
	if err != nil {
		return ""
	}
	return BytesUUID(raw)
}

// NewID returns a random UUID
func NewID() string {
	return uuid.NewString()
}
