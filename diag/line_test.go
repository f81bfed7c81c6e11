package diag

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ystepanoff/nrfmulti/protocol"
	"github.com/ystepanoff/nrfmulti/scheduler"
	"github.com/ystepanoff/nrfmulti/txid"
)

var _ scheduler.Observer = (*Line)(nil)

func TestLineRebindSequence(t *testing.T) {
	var buf bytes.Buffer
	l := NewLine(&buf)

	l.Stage(scheduler.StageSelecting)
	l.Selected(protocol.CX10Blue, txid.ID{0xDE, 0xAD, 0xBE, 0xEF}, false)
	l.Stage(scheduler.StageSelected)
	l.Stage(scheduler.StageRadioReset)
	l.Stage(scheduler.StageRadioInit)
	l.Stage(scheduler.StageProtocolInit)

	assert.Equal(t, "selecting protocol\n"+
		"protocol cx10-blue txid deadbeef\n"+
		"selected protocol.\n"+
		"nrf24l01 reset.\n"+
		"nrf24l01 init.\n"+
		"init protocol.\n", buf.String())
}

func TestLineRenewedIdentity(t *testing.T) {
	var buf bytes.Buffer
	NewLine(&buf).Selected(protocol.H7, txid.ID{1, 2, 3, 4}, true)
	assert.Equal(t, "protocol h7 txid 01020304 (new)\n", buf.String())
}

func TestLineTick(t *testing.T) {
	tests := []struct {
		name string
		r    scheduler.Report
		want string
	}{
		{"plenty of slack", scheduler.Report{Spins: 5000}, ""},
		{"tight", scheduler.Report{Spins: 12}, "12\n"},
		{"overrun", scheduler.Report{Overrun: 340}, "overrun 340us\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewLine(&buf).Tick(tt.r)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}
