package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSemVer(t *testing.T) {
	sv, err := ParseSemVer("v1.12.3")
	require.NoError(t, err)
	assert.Equal(t, "v1.12.3", sv.String())

	for _, bad := range []string{"", "1.2.3", "v1.2", "v1.2.3-rc1", "vx.y.z"} {
		_, err := ParseSemVer(bad)
		assert.Error(t, err, bad)
	}
}

func TestBump(t *testing.T) {
	current := SemanticVersion{major: 1, minor: 4, patch: 2}

	tests := []struct {
		how     string
		want    string
		wantErr bool
	}{
		{how: "major", want: "v2.0.0"},
		{how: "minor", want: "v1.5.0"},
		{how: "patch", want: "v1.4.3"},
		{how: "v3.0.1", want: "v3.0.1"},
		{how: "", wantErr: true},
		{how: "huge", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.how, func(t *testing.T) {
			got, err := Bump(current, tt.how)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestLDFlags(t *testing.T) {
	flags := LDFlags(SemanticVersion{major: 0, minor: 2, patch: 0}, time.Unix(1700000000, 0), "abc1234")
	assert.Equal(t, "-s -w -X main.version=v0.2.0 -X main.buildUnixTimestamp=1700000000 -X main.commitHash=abc1234", flags)
}

func TestTarget(t *testing.T) {
	v := SemanticVersion{major: 1}
	armv6 := Target{Name: "armv6", GOARCH: "arm", GOARM: "6"}
	assert.Equal(t, []string{"GOOS=linux", "GOARCH=arm", "CGO_ENABLED=0", "GOARM=6"}, armv6.Env())
	assert.Equal(t, "dist/valve_v1.0.0_armv6", armv6.Output(v))

	arm64 := Target{Name: "arm64", GOARCH: "arm64"}
	assert.Equal(t, []string{"GOOS=linux", "GOARCH=arm64", "CGO_ENABLED=0"}, arm64.Env())
}
