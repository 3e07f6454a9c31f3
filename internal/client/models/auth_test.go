package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeLoginResponse(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr error
	}{
		{name: "key variant", body: `{"key": "abc123"}`, want: "abc123"},
		{name: "token variant", body: `{"token": "legacy"}`, want: "legacy"},
		{name: "key takes precedence", body: `{"key": "k", "token": "t"}`, want: "k"},
		{name: "empty key falls back", body: `{"key": "", "token": "t"}`, want: "t"},
		{name: "neither", body: `{"detail": "ok"}`, wantErr: ErrNoToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeLoginResponse([]byte(tt.body))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeLoginResponse_BadJSON(t *testing.T) {
	_, err := DecodeLoginResponse([]byte(`not json`))
	require.Error(t, err)
}

func TestID_Unmarshal(t *testing.T) {
	var v struct {
		A ID `json:"a"`
		B ID `json:"b"`
		C ID `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 42, "b": "x-1", "c": null}`), &v))
	assert.Equal(t, ID("42"), v.A)
	assert.Equal(t, ID("x-1"), v.B)
	assert.Equal(t, ID(""), v.C)

	require.Error(t, json.Unmarshal([]byte(`{"a": true}`), &v))
}
