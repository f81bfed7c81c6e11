package radio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"default", DefaultConfig(), false},
		{"three byte address", Config{AddressWidth: 3}, false},
		{"address too short", Config{AddressWidth: 2}, true},
		{"address too long", Config{AddressWidth: 6}, true},
		{"bad crc length", Config{AddressWidth: 5, CRC: true, CRCBytes: 3}, true},
		{"crc off ignores length", Config{AddressWidth: 5, CRCBytes: 9}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigString(t *testing.T) {
	assert.Equal(t, "1Mbps crc=16 aw=5 power=80mW", DefaultConfig().String())
	assert.Equal(t, "250kbps crc=off aw=4 power=5mW", Config{DataRate: Rate250Kbps, AddressWidth: 4}.String())
}
