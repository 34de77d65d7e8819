package service

import (
	"bytes"
	"context"
	"crypto/rand"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"

	cryptoDomain "github.com/allisson/mediavault/internal/crypto/domain"
	cryptoService "github.com/allisson/mediavault/internal/crypto/service"
	apperrors "github.com/allisson/mediavault/internal/errors"
	mediaDomain "github.com/allisson/mediavault/internal/media/domain"
	"github.com/allisson/mediavault/internal/media/repository"
)

type rangeCall struct {
	offset int64
	length int64
}

// recordingOpener counts ranged reads so tests can assert one read per stream.
type recordingOpener struct {
	next  RangeReaderOpener
	calls []rangeCall
}

func (o *recordingOpener) NewRangeReader(
	ctx context.Context,
	name string,
	offset, length int64,
) (io.ReadCloser, error) {
	o.calls = append(o.calls, rangeCall{offset: offset, length: length})
	return o.next.NewRangeReader(ctx, name, offset, length)
}

type fixture struct {
	plaintext []byte
	resource  *mediaDomain.Resource
	opener    *recordingOpener
	codec     *cryptoService.CBCCodec
}

func newFixture(t *testing.T, size int) *fixture {
	t.Helper()
	ctx := context.Background()

	key := make([]byte, cryptoDomain.KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	codec, err := cryptoService.NewCBCCodec(key)
	require.NoError(t, err)

	plaintext := make([]byte, size)
	_, err = rand.Read(plaintext)
	require.NoError(t, err)

	iv, ciphertext, err := codec.Encrypt(plaintext)
	require.NoError(t, err)

	bucket := memblob.OpenBucket(nil)
	t.Cleanup(func() { _ = bucket.Close() })
	stored := append(append([]byte(nil), iv...), ciphertext...)
	require.NoError(t, bucket.WriteAll(ctx, "clip.mp4", stored, nil))

	repo := repository.NewBlobResourceRepository(bucket)
	res, err := repo.Stat(ctx, "clip.mp4")
	require.NoError(t, err)

	return &fixture{
		plaintext: plaintext,
		resource:  res,
		opener:    &recordingOpener{next: repo},
		codec:     codec,
	}
}

func readRange(t *testing.T, d *RangeDecryptor, res *mediaDomain.Resource, r mediaDomain.ByteRange) []byte {
	t.Helper()
	reader, err := d.Open(context.Background(), res, r)
	require.NoError(t, err)
	defer func() { _ = reader.Close() }()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	return data
}

func TestRangeDecryptor_PlaintextLength(t *testing.T) {
	for _, size := range []int{0, 1, 15, 16, 17, 100000} {
		f := newFixture(t, size)
		d := NewRangeDecryptor(f.opener, f.codec, 0)

		length, err := d.PlaintextLength(context.Background(), f.resource)

		require.NoError(t, err)
		assert.Equal(t, int64(size), length)
	}

	t.Run("Error_WrongKey", func(t *testing.T) {
		f := newFixture(t, 1000)
		failures := 0
		for i := 0; i < 10; i++ {
			key := make([]byte, cryptoDomain.KeySize)
			_, _ = rand.Read(key)
			other, err := cryptoService.NewCBCCodec(key)
			require.NoError(t, err)

			d := NewRangeDecryptor(f.opener, other, 0)
			if _, err := d.PlaintextLength(context.Background(), f.resource); err != nil {
				assert.True(t, apperrors.Is(err, apperrors.ErrDecryption))
				failures++
			}
		}
		assert.Greater(t, failures, 0)
	})

	t.Run("Error_Truncated", func(t *testing.T) {
		f := newFixture(t, 100)
		d := NewRangeDecryptor(f.opener, f.codec, 0)
		short := &mediaDomain.Resource{Name: f.resource.Name, Size: 20}

		_, err := d.PlaintextLength(context.Background(), short)

		assert.ErrorIs(t, err, cryptoDomain.ErrTruncatedCiphertext)
		assert.True(t, apperrors.Is(err, apperrors.ErrDecryption))
	})
}

func TestRangeDecryptor_Open(t *testing.T) {
	t.Run("Success_MiddleRangeSingleRead", func(t *testing.T) {
		f := newFixture(t, 100000)
		d := NewRangeDecryptor(f.opener, f.codec, 0)

		data := readRange(t, d, f.resource, mediaDomain.ByteRange{Start: 50000, End: 50099})

		assert.Equal(t, f.plaintext[50000:50100], data)
		require.Len(t, f.opener.calls, 1)
		// Seed block plus the aligned window 50000..50111.
		assert.Equal(t, rangeCall{offset: 50000, length: 16 + 112}, f.opener.calls[0])
	})

	t.Run("Success_FirstByteUsesIV", func(t *testing.T) {
		f := newFixture(t, 100)
		d := NewRangeDecryptor(f.opener, f.codec, 0)

		data := readRange(t, d, f.resource, mediaDomain.ByteRange{Start: 0, End: 0})

		assert.Equal(t, f.plaintext[:1], data)
		assert.Equal(t, int64(0), f.opener.calls[0].offset)
	})

	t.Run("Success_FullStream", func(t *testing.T) {
		f := newFixture(t, 100000)
		d := NewRangeDecryptor(f.opener, f.codec, 4096)

		data := readRange(t, d, f.resource, mediaDomain.FullRange(100000))

		assert.Equal(t, f.plaintext, data)
	})

	t.Run("Success_UnalignedTailIsUnpadded", func(t *testing.T) {
		f := newFixture(t, 1005)
		d := NewRangeDecryptor(f.opener, f.codec, 0)

		data := readRange(t, d, f.resource, mediaDomain.ByteRange{Start: 990, End: 1004})

		assert.Equal(t, f.plaintext[990:], data)
	})

	t.Run("Success_EveryRangeAcrossSmallChunks", func(t *testing.T) {
		f := newFixture(t, 300)
		// Two-block chunks force several chained refills per range.
		d := NewRangeDecryptor(f.opener, f.codec, 32)

		for start := int64(0); start < 300; start += 7 {
			for end := start; end < 300; end += 11 {
				data := readRange(t, d, f.resource, mediaDomain.ByteRange{Start: start, End: end})
				require.Equal(t, f.plaintext[start:end+1], data, "range %d-%d", start, end)
			}
		}
	})

	t.Run("Success_SmallReadBuffer", func(t *testing.T) {
		f := newFixture(t, 5000)
		d := NewRangeDecryptor(f.opener, f.codec, 64)

		reader, err := d.Open(context.Background(), f.resource, mediaDomain.ByteRange{Start: 3, End: 4000})
		require.NoError(t, err)
		defer func() { _ = reader.Close() }()

		var out bytes.Buffer
		buf := make([]byte, 5)
		for {
			n, err := reader.Read(buf)
			out.Write(buf[:n])
			if err == io.EOF {
				break
			}
			require.NoError(t, err)
		}
		assert.Equal(t, f.plaintext[3:4001], out.Bytes())
	})

	t.Run("Success_EmptyRange", func(t *testing.T) {
		f := newFixture(t, 0)
		d := NewRangeDecryptor(f.opener, f.codec, 0)

		data := readRange(t, d, f.resource, mediaDomain.FullRange(0))

		assert.Empty(t, data)
		assert.Empty(t, f.opener.calls)
	})

	t.Run("Error_CanceledContext", func(t *testing.T) {
		f := newFixture(t, 10000)
		d := NewRangeDecryptor(f.opener, f.codec, 1024)
		ctx, cancel := context.WithCancel(context.Background())

		reader, err := d.Open(ctx, f.resource, mediaDomain.FullRange(10000))
		require.NoError(t, err)
		defer func() { _ = reader.Close() }()

		buf := make([]byte, 100)
		_, err = reader.Read(buf)
		require.NoError(t, err)

		cancel()
		_, err = io.ReadAll(reader)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestNewRangeDecryptor_ChunkSize(t *testing.T) {
	assert.Equal(t, DefaultChunkSize, NewRangeDecryptor(nil, nil, 0).chunkSize)
	assert.Equal(t, DefaultChunkSize, NewRangeDecryptor(nil, nil, 10).chunkSize)
	assert.Equal(t, 48, NewRangeDecryptor(nil, nil, 50).chunkSize)
}
