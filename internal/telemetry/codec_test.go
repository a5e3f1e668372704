package telemetry

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AsunaPahlo/armada-web/internal/gamedata"
)

func TestDecodePayloadRoundtrip(t *testing.T) {
	raw := []byte(`[{"nickname":"main","characters":[]}]`)

	encoded, err := EncodePayload(raw)
	require.NoError(t, err)
	assert.NotContains(t, encoded, "nickname")

	decoded, err := DecodePayload(&FleetDataPayload{Compressed: true, Data: encoded}, 1<<20)
	require.NoError(t, err)
	assert.Equal(t, raw, decoded)
}

func TestDecodePayloadUncompressedPassthrough(t *testing.T) {
	raw := []byte(`[{"nickname":"main"}]`)

	decoded, err := DecodePayload(&FleetDataPayload{Compressed: false, Accounts: raw}, 1<<20)
	require.NoError(t, err)
	assert.Equal(t, raw, decoded)
}

func TestDecodePayloadRejectsBadBase64(t *testing.T) {
	_, err := DecodePayload(&FleetDataPayload{Compressed: true, Data: "not-base64!!!"}, 1<<20)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base64")
}

func TestDecodePayloadRejectsBadGzip(t *testing.T) {
	_, err := DecodePayload(&FleetDataPayload{Compressed: true, Data: "aGVsbG8gd29ybGQ="}, 1<<20)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gzip")
}

func TestDecodePayloadRejectsOversizedInflation(t *testing.T) {
	// Highly compressible payload that inflates far past the limit.
	raw := []byte(strings.Repeat("a", 4096))
	encoded, err := EncodePayload(raw)
	require.NoError(t, err)

	_, err = DecodePayload(&FleetDataPayload{Compressed: true, Data: encoded}, 1024)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds")

	// The same payload is fine when the limit allows it.
	decoded, err := DecodePayload(&FleetDataPayload{Compressed: true, Data: encoded}, 4096)
	require.NoError(t, err)
	assert.Len(t, decoded, 4096)
}

func TestParseAccounts(t *testing.T) {
	valid := fmt.Sprintf(`[{
		"nickname": "main",
		"characters": [{
			"cid": 1001,
			"name": "Asuna Pahlo",
			"submarines": [
				{"name": "Alpha", "level": 1},
				{"name": "Beta", "level": %d}
			]
		}]
	}]`, gamedata.MaxLevel)

	accounts, err := ParseAccounts([]byte(valid))
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	require.Len(t, accounts[0].Characters, 1)
	assert.Len(t, accounts[0].Characters[0].Submarines, 2)
}

func TestParseAccountsRejections(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr string
	}{
		{
			name:    "empty payload",
			raw:     "",
			wantErr: "empty",
		},
		{
			name:    "malformed json",
			raw:     `[{"nickname": "main"`,
			wantErr: "decoding",
		},
		{
			name:    "missing nickname",
			raw:     `[{"characters": []}]`,
			wantErr: "missing nickname",
		},
		{
			name:    "missing cid",
			raw:     `[{"nickname": "main", "characters": [{"name": "Asuna Pahlo"}]}]`,
			wantErr: "missing cid",
		},
		{
			name:    "missing character name",
			raw:     `[{"nickname": "main", "characters": [{"cid": 1001}]}]`,
			wantErr: "missing name",
		},
		{
			name: "too many submarines",
			raw: `[{"nickname": "main", "characters": [{"cid": 1001, "name": "Asuna Pahlo", "submarines": [
				{"name": "S1", "level": 1}, {"name": "S2", "level": 1}, {"name": "S3", "level": 1},
				{"name": "S4", "level": 1}, {"name": "S5", "level": 1}
			]}]}]`,
			wantErr: "5 submarines",
		},
		{
			name:    "unnamed submarine",
			raw:     `[{"nickname": "main", "characters": [{"cid": 1001, "name": "Asuna Pahlo", "submarines": [{"level": 1}]}]}]`,
			wantErr: "no name",
		},
		{
			name:    "level zero",
			raw:     `[{"nickname": "main", "characters": [{"cid": 1001, "name": "Asuna Pahlo", "submarines": [{"name": "Alpha", "level": 0}]}]}]`,
			wantErr: "out of range",
		},
		{
			name:    "level above cap",
			raw:     `[{"nickname": "main", "characters": [{"cid": 1001, "name": "Asuna Pahlo", "submarines": [{"name": "Alpha", "level": 999}]}]}]`,
			wantErr: "out of range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAccounts([]byte(tt.raw))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
