//go:build !tinygo && !baremetal

package stub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ystepanoff/nrfmulti/radio"
)

var _ radio.Radio = (*Driver)(nil)

func TestDriverRecordsChannelAndAddress(t *testing.T) {
	d := New()
	require.NoError(t, d.Initialize(radio.DefaultConfig()))
	require.NoError(t, d.SetAddress([]byte{1, 2, 3, 4, 5}))
	require.NoError(t, d.SetChannel(40))
	require.NoError(t, d.WritePacket([]byte{0xAA, 0x55}))

	log := d.GetTxLog()
	require.Len(t, log, 1)
	assert.Equal(t, uint8(40), log[0].Channel)
	assert.Equal(t, []byte{1, 2, 3, 4, 5}, log[0].Address)
	assert.Equal(t, []byte{0xAA, 0x55}, log[0].Data)
}

func TestDriverCopiesPacketData(t *testing.T) {
	d := New()
	buf := []byte{1, 2, 3}
	require.NoError(t, d.WritePacket(buf))
	buf[0] = 9

	assert.Equal(t, byte(1), d.GetTxLog()[0].Data[0])
}

func TestDriverRejectsInvalidArguments(t *testing.T) {
	d := New()
	assert.ErrorIs(t, d.SetChannel(radio.MaxChannel+1), radio.ErrInvalidChannel)
	assert.ErrorIs(t, d.SetAddress([]byte{1, 2}), radio.ErrInvalidAddress)
	assert.ErrorIs(t, d.WritePacket(make([]byte, radio.MaxPayload+1)), radio.ErrInvalidPayload)
	assert.ErrorIs(t, d.WritePacket(nil), radio.ErrInvalidPayload)
	assert.Error(t, d.Initialize(radio.Config{AddressWidth: 7}))
	assert.Zero(t, d.Sent())
}

func TestDriverResetClearsLinkState(t *testing.T) {
	d := New()
	require.NoError(t, d.Initialize(radio.DefaultConfig()))
	require.NoError(t, d.SetChannel(7))
	require.NoError(t, d.SetAddress([]byte{1, 2, 3}))
	require.NoError(t, d.Reset())

	assert.Equal(t, 1, d.Resets())
	assert.Equal(t, 1, d.Inits())
	assert.Zero(t, d.Channel())
	assert.Empty(t, d.Address())
	assert.Equal(t, radio.Config{}, d.Config())
}

func TestDriverRingKeepsNewest(t *testing.T) {
	d := New()
	for i := 0; i < ringCapacity+10; i++ {
		require.NoError(t, d.WritePacket([]byte{byte(i)}))
	}

	log := d.GetTxLog()
	require.Len(t, log, ringCapacity)
	assert.Equal(t, byte(10), log[0].Data[0])
	assert.Equal(t, byte(ringCapacity+9), log[len(log)-1].Data[0])
	assert.Equal(t, ringCapacity+10, d.Sent())

	d.ClearTxLog()
	assert.Empty(t, d.GetTxLog())
	assert.Equal(t, ringCapacity+10, d.Sent())
}
