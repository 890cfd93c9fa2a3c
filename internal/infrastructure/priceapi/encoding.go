package priceapi

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Sent explicitly, which disables the transport's transparent gzip,
// so both encodings are decoded here.
const acceptEncoding = "zstd, gzip"

// maxBodyBytes caps a single response, compressed or not.
const maxBodyBytes = 8 << 20

func (c *Client) readBody(resp *http.Response) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(raw) > maxBodyBytes {
		return nil, fmt.Errorf("response body exceeds %d bytes", maxBodyBytes)
	}
	if len(raw) == 0 {
		return raw, nil
	}

	switch enc := strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))); enc {
	case "", "identity":
		return raw, nil
	case "zstd":
		// The decoder refuses output past maxBodyBytes.
		out, err := c.zstd.DecodeAll(raw, nil)
		if err != nil {
			return nil, fmt.Errorf("decode zstd body: %w", err)
		}
		if len(out) > maxBodyBytes {
			return nil, fmt.Errorf("decoded zstd body exceeds %d bytes", maxBodyBytes)
		}
		return out, nil
	case "gzip":
		zr, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("open gzip body: %w", err)
		}
		defer zr.Close()
		out, err := io.ReadAll(io.LimitReader(zr, maxBodyBytes+1))
		if err != nil {
			return nil, fmt.Errorf("decode gzip body: %w", err)
		}
		if len(out) > maxBodyBytes {
			return nil, fmt.Errorf("decoded gzip body exceeds %d bytes", maxBodyBytes)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", enc)
	}
}
