// Package serialization provides the byte pipeline used by checkpoint
// stores: codec encoding, optional compression, optional AES-GCM
// encryption.
// PRINCIPLES:
// - KISS: one Serializer hiding the three stages
// - DRY: reusable across every store implementation
package serialization

import (
	"bytes"
	"compress/gzip"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// Compression selects the compression stage.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionGzip Compression = "gzip"
	CompressionZstd Compression = "zstd"
)

// Config holds serializer settings. Zero values mean msgpack, no
// compression, no encryption.
type Config struct {
	Codec       Codec
	Compression Compression
	// EncryptKey enables AES-GCM when set; must be 16, 24, or 32 bytes.
	EncryptKey []byte
}

// Serializer runs the encode -> compress -> encrypt pipeline and its
// inverse.
type Serializer struct {
	cfg Config
}

// New creates a serializer, applying defaults for unset fields.
func New(cfg Config) *Serializer {
	if cfg.Codec == nil {
		cfg.Codec = NewMsgPackCodec()
	}
	if cfg.Compression == "" {
		cfg.Compression = CompressionNone
	}
	return &Serializer{cfg: cfg}
}

// Default returns the serializer used by the bundled stores:
// msgpack + zstd, no encryption.
func Default() *Serializer {
	return New(Config{Codec: NewMsgPackCodec(), Compression: CompressionZstd})
}

// Marshal encodes, compresses, and encrypts v.
func (s *Serializer) Marshal(v any) ([]byte, error) {
	data, err := s.cfg.Codec.Encode(v)
	if err != nil {
		return nil, fmt.Errorf("%s encode: %w", s.cfg.Codec.Name(), err)
	}
	if data, err = s.compress(data); err != nil {
		return nil, fmt.Errorf("compress: %w", err)
	}
	if len(s.cfg.EncryptKey) > 0 {
		if data, err = s.encrypt(data); err != nil {
			return nil, fmt.Errorf("encrypt: %w", err)
		}
	}
	return data, nil
}

// Unmarshal reverses Marshal into v.
func (s *Serializer) Unmarshal(data []byte, v any) error {
	var err error
	if len(s.cfg.EncryptKey) > 0 {
		if data, err = s.decrypt(data); err != nil {
			return fmt.Errorf("decrypt: %w", err)
		}
	}
	if data, err = s.decompress(data); err != nil {
		return fmt.Errorf("decompress: %w", err)
	}
	if err = s.cfg.Codec.Decode(data, v); err != nil {
		return fmt.Errorf("%s decode: %w", s.cfg.Codec.Name(), err)
	}
	return nil
}

func (s *Serializer) compress(data []byte) ([]byte, error) {
	switch s.cfg.Compression {
	case CompressionGzip:
		var buf bytes.Buffer
		w := gzip.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case CompressionZstd:
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, err
		}
		defer enc.Close()
		return enc.EncodeAll(data, nil), nil
	default:
		return data, nil
	}
}

func (s *Serializer) decompress(data []byte) ([]byte, error) {
	switch s.cfg.Compression {
	case CompressionGzip:
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return io.ReadAll(r)
	case CompressionZstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		return dec.DecodeAll(data, nil)
	default:
		return data, nil
	}
}

func (s *Serializer) encrypt(data []byte) ([]byte, error) {
	gcm, err := s.gcm()
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, data, nil), nil
}

func (s *Serializer) decrypt(data []byte) ([]byte, error) {
	gcm, err := s.gcm()
	if err != nil {
		return nil, err
	}
	if len(data) < gcm.NonceSize() {
		return nil, fmt.Errorf("ciphertext shorter than nonce")
	}
	nonce, ciphertext := data[:gcm.NonceSize()], data[gcm.NonceSize():]
	return gcm.Open(nil, nonce, ciphertext, nil)
}

func (s *Serializer) gcm() (cipher.AEAD, error) {
	block, err := aes.NewCipher(s.cfg.EncryptKey)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
