package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZero(t *testing.T) {
	t.Run("content key", func(t *testing.T) {
		key := make([]byte, KeySize)
		for i := range key {
			key[i] = byte(i + 1)
		}
		Zero(key)
		assert.Equal(t, make([]byte, KeySize), key)
	})

	t.Run("several buffers", func(t *testing.T) {
		iv := []byte{9, 9, 9}
		block := []byte{7, 7}
		Zero(iv, block)
		assert.Equal(t, []byte{0, 0, 0}, iv)
		assert.Equal(t, []byte{0, 0}, block)
	})

	t.Run("nil and empty", func(t *testing.T) {
		assert.NotPanics(t, func() {
			Zero(nil, []byte{})
			Zero()
		})
	})
}
