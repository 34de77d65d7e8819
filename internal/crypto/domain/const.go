package domain

// Algorithm identifies the content-at-rest cipher.
type Algorithm string

// AES256CBC is AES with a 256-bit key in CBC mode with PKCS#7 padding.
//
// Each ciphertext block decrypts with only the preceding ciphertext block (or the
// IV for the first block) as input, so any byte range of a stored resource can
// be recovered from one extra block of ciphertext.
const AES256CBC Algorithm = "aes-256-cbc"

const (
	// BlockSize is the cipher block size in bytes.
	BlockSize = 16

	// IVSize is the length of the initialization vector stored at the head of each resource.
	IVSize = BlockSize

	// KeySize is the content key length in bytes.
	KeySize = 32
)
