package domain

import (
	"fmt"
	"strconv"
	"strings"
)

const rangeUnitPrefix = "bytes="

// ByteRange is an inclusive plaintext byte range.
//
// For a resource of plaintext length L, a resolved range satisfies
// 0 <= Start <= End < L. The full range of an empty resource is {0, -1}.
type ByteRange struct {
	Start int64
	End   int64
}

// FullRange returns the range covering all length bytes.
func FullRange(length int64) ByteRange {
	return ByteRange{Start: 0, End: length - 1}
}

// Length returns the number of bytes in the range.
func (r ByteRange) Length() int64 {
	return r.End - r.Start + 1
}

// ContentRange formats the Content-Range header value for a partial response.
func (r ByteRange) ContentRange(length int64) string {
	return fmt.Sprintf("bytes %d-%d/%d", r.Start, r.End, length)
}

// UnsatisfiedContentRange formats the Content-Range header value for a 416 response.
func UnsatisfiedContentRange(length int64) string {
	return fmt.Sprintf("bytes */%d", length)
}

// ResolveRange turns an HTTP Range header into a concrete byte range.
//
// An empty header resolves to the full range with partial=false. Otherwise the
// header must match bytes=<start>-<end?> with decimal digits only. An omitted end
// means the last byte; an end past the last byte is clamped to it. Every failure
// wraps errors.ErrRangeNotSatisfiable.
func ResolveRange(header string, length int64) (r ByteRange, partial bool, err error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return FullRange(length), false, nil
	}

	rangeSet, ok := strings.CutPrefix(header, rangeUnitPrefix)
	if !ok {
		return ByteRange{}, false, ErrMalformedRange
	}
	if strings.Contains(rangeSet, ",") {
		return ByteRange{}, false, ErrMultipleRanges
	}

	startStr, endStr, ok := strings.Cut(rangeSet, "-")
	if !ok || !isDigits(startStr) {
		return ByteRange{}, false, ErrMalformedRange
	}

	start, err := strconv.ParseInt(startStr, 10, 64)
	if err != nil {
		return ByteRange{}, false, ErrMalformedRange
	}
	if start >= length {
		return ByteRange{}, false, ErrRangeStartBeyondLength
	}

	end := length - 1
	if endStr != "" {
		if !isDigits(endStr) {
			return ByteRange{}, false, ErrMalformedRange
		}
		requested, err := strconv.ParseInt(endStr, 10, 64)
		if err != nil {
			// Only overflow gets here; anything that large is past the end.
			requested = end
		}
		if requested < start {
			return ByteRange{}, false, ErrRangeInverted
		}
		if requested < end {
			end = requested
		}
	}

	return ByteRange{Start: start, End: end}, true, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
