//go:build !libvgm

package player

// DefaultDecoder reports ErrNoDecoder; build with -tags libvgm to link the
// libvgm renderer.
func DefaultDecoder(string) (Decoder, error) {
	return nil, ErrNoDecoder
}

// NewDecoderFactory returns DefaultDecoder whatever the sample rate.
func NewDecoderFactory(int) DecoderFactory {
	return DefaultDecoder
}
