package domain

// Zero overwrites each buffer with zeros. Nil buffers are ignored.
func Zero(bufs ...[]byte) {
	for _, b := range bufs {
		clear(b)
	}
}
