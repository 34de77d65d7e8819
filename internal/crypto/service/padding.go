package service

import (
	"bytes"

	cryptoDomain "github.com/allisson/mediavault/internal/crypto/domain"
)

// pkcs7Pad appends PKCS#7 padding. A full block of padding is added when
// the input is already aligned.
func pkcs7Pad(data []byte) []byte {
	padLen := cryptoDomain.BlockSize - len(data)%cryptoDomain.BlockSize
	return append(data, bytes.Repeat([]byte{byte(padLen)}, padLen)...)
}

// pkcs7PadLength validates the padding of an aligned plaintext and returns its length.
func pkcs7PadLength(data []byte) (int, error) {
	if len(data) == 0 || len(data)%cryptoDomain.BlockSize != 0 {
		return 0, cryptoDomain.ErrInvalidPadding
	}

	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > cryptoDomain.BlockSize {
		return 0, cryptoDomain.ErrInvalidPadding
	}

	for _, b := range data[len(data)-padLen:] {
		if int(b) != padLen {
			return 0, cryptoDomain.ErrInvalidPadding
		}
	}

	return padLen, nil
}

// pkcs7Unpad strips validated PKCS#7 padding.
func pkcs7Unpad(data []byte) ([]byte, error) {
	padLen, err := pkcs7PadLength(data)
	if err != nil {
		return nil, err
	}
	return data[:len(data)-padLen], nil
}
