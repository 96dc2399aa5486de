package payload

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"io"

	"github.com/klauspost/compress/zlib"
	"github.com/zeebo/blake3"

	"github.com/wippyai/wasm-bundler/errors"
)

// Compression selects the transform applied before base64 encoding.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionZlib Compression = "zlib"
)

// ParseCompression maps a user-supplied name to a Compression.
// The empty string selects CompressionNone.
func ParseCompression(s string) (Compression, error) {
	switch Compression(s) {
	case "", CompressionNone:
		return CompressionNone, nil
	case CompressionZlib:
		return CompressionZlib, nil
	}
	return "", errors.New(errors.PhaseConfig, errors.KindInvalidInput).
		Value(s).
		Detail("unknown compression %q (want %q or %q)", s, CompressionNone, CompressionZlib).
		Build()
}

func (c Compression) String() string {
	if c == "" {
		return string(CompressionNone)
	}
	return string(c)
}

// Encode returns the base64 text for data.
func Encode(data []byte, c Compression) (string, error) {
	switch c {
	case "", CompressionNone:
		return base64.StdEncoding.EncodeToString(data), nil
	case CompressionZlib:
		compressed, err := deflate(data)
		if err != nil {
			return "", errors.Wrap(errors.PhaseEncode, errors.KindInvalidData, err, "zlib compression")
		}
		return base64.StdEncoding.EncodeToString(compressed), nil
	}
	return "", errors.Unsupported(errors.PhaseEncode, "compression "+string(c))
}

// Decode reverses Encode.
func Decode(text string, c Compression) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return nil, errors.InvalidData(errors.PhaseDecode, "invalid base64", err)
	}

	switch c {
	case "", CompressionNone:
		return raw, nil
	case CompressionZlib:
		r, err := zlib.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, errors.InvalidData(errors.PhaseDecode, "invalid zlib header", err)
		}
		defer r.Close()
		out, err := io.ReadAll(r)
		if err != nil {
			return nil, errors.InvalidData(errors.PhaseDecode, "invalid zlib stream", err)
		}
		return out, nil
	}
	return nil, errors.Unsupported(errors.PhaseDecode, "compression "+string(c))
}

// Digest returns the hex BLAKE3-256 of data.
func Digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func deflate(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
