package telemetry

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"fmt"
	"io"
)

// DecodePayload returns the raw account JSON from a fleet data payload,
// decompressing when the producer flagged it. maxBytes bounds the inflated
// size so a hostile producer cannot balloon memory.
func DecodePayload(payload *FleetDataPayload, maxBytes int64) ([]byte, error) {
	if !payload.Compressed {
		return payload.Accounts, nil
	}

	compressed, err := base64.StdEncoding.DecodeString(payload.Data)
	if err != nil {
		return nil, fmt.Errorf("decoding base64 payload: %w", err)
	}

	reader, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("opening gzip payload: %w", err)
	}
	defer reader.Close()

	raw, err := io.ReadAll(io.LimitReader(reader, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("inflating payload: %w", err)
	}
	if int64(len(raw)) > maxBytes {
		return nil, fmt.Errorf("payload exceeds %d bytes after decompression", maxBytes)
	}

	return raw, nil
}

// EncodePayload gzips and base64-encodes raw account JSON. Used by tests and
// tooling that simulate a producer.
func EncodePayload(raw []byte) (string, error) {
	var buf bytes.Buffer

	writer := gzip.NewWriter(&buf)
	if _, err := writer.Write(raw); err != nil {
		return "", fmt.Errorf("compressing payload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("finishing compression: %w", err)
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
