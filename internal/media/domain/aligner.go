package domain

// AlignedWindow is the block-aligned ciphertext window covering a plaintext range.
//
// Offsets CipherStart and CipherEnd are relative to the ciphertext body, which
// begins after the IV in the stored file. Because the IV sits immediately before
// the body, the chain seed for any window always starts at file offset CipherStart:
// it is the IV when CipherStart is 0 and the preceding body block otherwise.
type AlignedWindow struct {
	BlockSize    int64
	CipherStart  int64
	CipherEnd    int64
	LeadingTrim  int64
	OutputLength int64
	SeedIsIV     bool
}

// AlignRange expands a plaintext range to whole cipher blocks.
func AlignRange(r ByteRange, blockSize int64) AlignedWindow {
	cipherStart := (r.Start / blockSize) * blockSize
	cipherEnd := ((r.End+1+blockSize-1)/blockSize)*blockSize - 1

	return AlignedWindow{
		BlockSize:    blockSize,
		CipherStart:  cipherStart,
		CipherEnd:    cipherEnd,
		LeadingTrim:  r.Start - cipherStart,
		OutputLength: r.Length(),
		SeedIsIV:     cipherStart == 0,
	}
}

// WindowLength is the number of ciphertext bytes in the window.
func (w AlignedWindow) WindowLength() int64 {
	return w.CipherEnd - w.CipherStart + 1
}

// FetchOffset is the file offset of the chain seed.
func (w AlignedWindow) FetchOffset() int64 {
	return w.CipherStart
}

// FetchLength is the number of file bytes to read: the seed block plus the window.
func (w AlignedWindow) FetchLength() int64 {
	return w.BlockSize + w.WindowLength()
}

// IsFinal reports whether the window reaches the last block of a body of bodyLength bytes.
func (w AlignedWindow) IsFinal(bodyLength int64) bool {
	return w.CipherEnd+1 >= bodyLength
}
