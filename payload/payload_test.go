package payload

import (
	"bytes"
	"encoding/base64"
	stderrors "errors"
	"math/rand"
	"testing"

	"github.com/wippyai/wasm-bundler/errors"
)

func randomBytes(n int, seed int64) []byte {
	b := make([]byte, n)
	rand.New(rand.NewSource(seed)).Read(b)
	return b
}

func TestEncode_RoundTrip(t *testing.T) {
	inputs := map[string][]byte{
		"empty":      {},
		"one byte":   {0x00},
		"two bytes":  {0xff, 0xfe},
		"wasm magic": {0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00},
		"random 4k":  randomBytes(4096, 1),
		"random odd": randomBytes(4099, 2),
	}

	for name, data := range inputs {
		for _, c := range []Compression{CompressionNone, CompressionZlib} {
			t.Run(name+"/"+c.String(), func(t *testing.T) {
				text, err := Encode(data, c)
				if err != nil {
					t.Fatalf("Encode: %v", err)
				}
				got, err := Decode(text, c)
				if err != nil {
					t.Fatalf("Decode: %v", err)
				}
				if !bytes.Equal(got, data) {
					t.Errorf("round trip mismatch: got %d bytes, want %d", len(got), len(data))
				}
			})
		}
	}
}

func TestEncode_StandardBase64(t *testing.T) {
	data := randomBytes(1000, 3)
	text, err := Encode(data, CompressionNone)
	if err != nil {
		t.Fatal(err)
	}
	if want := base64.StdEncoding.EncodeToString(data); text != want {
		t.Error("uncompressed encoding should be plain padded base64")
	}
	if bytes.ContainsAny([]byte(text), "\r\n") {
		t.Error("encoding must not wrap lines")
	}
}

func TestEncode_Empty(t *testing.T) {
	text, err := Encode(nil, CompressionNone)
	if err != nil {
		t.Fatal(err)
	}
	if text != "" {
		t.Errorf("Encode(nil) = %q, want empty", text)
	}
}

func TestEncode_Deterministic(t *testing.T) {
	data := randomBytes(10000, 4)
	for _, c := range []Compression{CompressionNone, CompressionZlib} {
		a, _ := Encode(data, c)
		b, _ := Encode(data, c)
		if a != b {
			t.Errorf("%s: two encodings of the same input differ", c)
		}
	}
}

func TestEncode_ZlibShrinksRedundantInput(t *testing.T) {
	data := bytes.Repeat([]byte("wasm"), 4096)
	plain, _ := Encode(data, CompressionNone)
	packed, err := Encode(data, CompressionZlib)
	if err != nil {
		t.Fatal(err)
	}
	if len(packed) >= len(plain) {
		t.Errorf("zlib encoding %d chars, plain %d chars", len(packed), len(plain))
	}
}

func TestEncode_LengthScenario(t *testing.T) {
	data := randomBytes(2_500_000, 5)
	text, err := Encode(data, CompressionNone)
	if err != nil {
		t.Fatal(err)
	}
	if len(text) != 3_333_336 {
		t.Errorf("len = %d, want 3333336", len(text))
	}
}

func TestDecode_Invalid(t *testing.T) {
	_, err := Decode("not base64!", CompressionNone)
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindInvalidData}) {
		t.Errorf("err = %v, want decode invalid_data", err)
	}

	_, err = Decode(base64.StdEncoding.EncodeToString([]byte("plain")), CompressionZlib)
	if err == nil {
		t.Error("expected error decoding non-zlib data")
	}
}

func TestParseCompression(t *testing.T) {
	tests := []struct {
		in      string
		want    Compression
		wantErr bool
	}{
		{"", CompressionNone, false},
		{"none", CompressionNone, false},
		{"zlib", CompressionZlib, false},
		{"gzip", "", true},
	}
	for _, tt := range tests {
		got, err := ParseCompression(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseCompression(%q) err = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCompression(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUnsupportedCompression(t *testing.T) {
	if _, err := Encode([]byte{1}, Compression("brotli")); err == nil {
		t.Error("expected error for unknown compression")
	}
	if _, err := Decode("AQ==", Compression("brotli")); err == nil {
		t.Error("expected error for unknown compression")
	}
}

func TestDigest(t *testing.T) {
	a := Digest([]byte("payload"))
	if len(a) != 64 {
		t.Errorf("digest length = %d, want 64 hex chars", len(a))
	}
	if a != Digest([]byte("payload")) {
		t.Error("digest not stable")
	}
	if a == Digest([]byte("payload2")) {
		t.Error("digest should differ for different input")
	}
}
