//go:build !tinygo && !baremetal

package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ystepanoff/nrfmulti/driver/stub"
	"github.com/ystepanoff/nrfmulti/ppm"
	"github.com/ystepanoff/nrfmulti/radio"
	"github.com/ystepanoff/nrfmulti/timing"
	"github.com/ystepanoff/nrfmulti/txid"
)

// checkedRadio counts driver errors the modules would otherwise drop.
type checkedRadio struct {
	*stub.Driver
	errs int
}

func (r *checkedRadio) check(err error) error {
	if err != nil {
		r.errs++
	}
	return err
}

func (r *checkedRadio) Initialize(cfg radio.Config) error { return r.check(r.Driver.Initialize(cfg)) }
func (r *checkedRadio) SetChannel(ch uint8) error         { return r.check(r.Driver.SetChannel(ch)) }
func (r *checkedRadio) SetAddress(a []byte) error         { return r.check(r.Driver.SetAddress(a)) }
func (r *checkedRadio) WritePacket(b []byte) error        { return r.check(r.Driver.WritePacket(b)) }

var testID = txid.ID{0x12, 0x34, 0x56, 0x78}

func wireSize(info Info) int {
	if info.XN297 {
		return 5 + info.PacketSize + 2
	}
	return info.PacketSize
}

// bound returns an initialised, bound module whose clock is frozen.
func bound(t *testing.T, sel Selector) (Module, *checkedRadio, *timing.FakeClock) {
	t.Helper()
	r := &checkedRadio{Driver: stub.New()}
	clk := timing.NewFakeClock(0, 100)
	m := New(sel, r, clk)
	require.NotNil(t, m)
	m.Init()
	m.Bind(testID)
	clk.SetStep(0)
	return m, r, clk
}

func TestSelectorOrder(t *testing.T) {
	want := []Selector{V2x2, CG023, CX10Blue, CX10Green, H7, Bayang, SymaX5C1, YD829, H83D}
	assert.Equal(t, want, Selectors())
	for i, s := range want {
		assert.Equal(t, Selector(i), s)
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, CX10Blue, Clamp(2))
	assert.Equal(t, H83D, Clamp(8))
	assert.Equal(t, H83D, Clamp(9))
	assert.Equal(t, H83D, Clamp(0xFF))
}

func TestParseSelector(t *testing.T) {
	tests := []struct {
		in      string
		want    Selector
		wantErr bool
	}{
		{"cx10-blue", CX10Blue, false},
		{"CX10-Green", CX10Green, false},
		{" h8-3d ", H83D, false},
		{"bayang", Bayang, false},
		{"7", YD829, false},
		{"9", 0, true},
		{"hubsan", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSelector(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownProtocol)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelectorString(t *testing.T) {
	assert.Equal(t, "cx10-blue", CX10Blue.String())
	assert.Equal(t, "Selector(42)", Selector(42).String())
	assert.False(t, Selector(42).Valid())
	assert.Equal(t, "Selector(42)", Lookup(42).Name)
}

func TestLookupPeriods(t *testing.T) {
	periods := map[Selector]uint32{
		V2x2:      4000,
		CG023:     8200,
		YD829:     4100,
		CX10Blue:  6000,
		CX10Green: 1316,
		H7:        2625,
		Bayang:    1000,
		SymaX5C1:  4000,
		H83D:      1800,
	}
	for sel, period := range periods {
		info := Lookup(sel)
		assert.Equal(t, period, info.Period, sel.String())
		assert.Equal(t, sel, info.Selector)
		assert.NoError(t, info.Config.Validate(), sel.String())
		assert.LessOrEqual(t, wireSize(info), radio.MaxPayload, sel.String())
		if info.XN297 {
			assert.LessOrEqual(t, info.PacketSize, maxXN297Payload, sel.String())
		} else {
			assert.Equal(t, radio.DefaultConfig(), info.Config, sel.String())
		}
	}
}

func TestNewUnknownSelector(t *testing.T) {
	assert.Nil(t, New(Selector(99), stub.New(), timing.NewFakeClock(0, 1)))
}

func TestCX10BlueDeadlineDelta(t *testing.T) {
	m, _, clk := bound(t, CX10Blue)

	clk.Set(50000)
	d1 := m.Process(ppm.DefaultFrame)
	clk.Set(d1)
	d2 := m.Process(ppm.DefaultFrame)

	assert.Equal(t, timing.Micros(56000), d1)
	assert.Equal(t, int32(6000), d2.Sub(d1))
}

func TestProcessDeadlineIsOnePeriod(t *testing.T) {
	for _, sel := range Selectors() {
		t.Run(sel.String(), func(t *testing.T) {
			m, _, clk := bound(t, sel)
			period := Lookup(sel).Period

			clk.Set(0xFFFFFF00) // across the wrap
			d1 := m.Process(ppm.DefaultFrame)
			clk.Set(d1)
			d2 := m.Process(ppm.DefaultFrame)

			assert.Equal(t, int32(period), d1.Sub(0xFFFFFF00))
			assert.Equal(t, int32(period), d2.Sub(d1))
		})
	}
}

func TestBindSendsBindPackets(t *testing.T) {
	for _, sel := range Selectors() {
		t.Run(sel.String(), func(t *testing.T) {
			info := Lookup(sel)
			_, r, _ := bound(t, sel)

			assert.Equal(t, info.BindPackets, r.Sent())
			assert.Zero(t, r.errs)
			for _, p := range r.GetTxLog() {
				require.Len(t, p.Data, wireSize(info))
			}
		})
	}
}

func TestBindIsPacedByPeriod(t *testing.T) {
	r := stub.New()
	clk := timing.NewFakeClock(0, 10)
	m := New(Bayang, r, clk)
	m.Init()
	m.Bind(testID)

	info := Lookup(Bayang)
	elapsed := clk.Now().Sub(0)
	assert.GreaterOrEqual(t, elapsed, int32(uint32(info.BindPackets)*info.Period))
}

func TestProcessSendsOnePacket(t *testing.T) {
	for _, sel := range Selectors() {
		t.Run(sel.String(), func(t *testing.T) {
			m, r, _ := bound(t, sel)
			before := r.Sent()

			m.Process(ppm.DefaultFrame)

			assert.Equal(t, before+1, r.Sent())
			log := r.GetTxLog()
			assert.Len(t, log[len(log)-1].Data, wireSize(Lookup(sel)))
		})
	}
}

func TestInitIsIdempotent(t *testing.T) {
	for _, sel := range Selectors() {
		t.Run(sel.String(), func(t *testing.T) {
			once, twice := stub.New(), stub.New()
			clk := timing.NewFakeClock(0, 1)

			New(sel, once, clk).Init()
			m := New(sel, twice, clk)
			m.Init()
			m.Init()

			assert.Equal(t, Lookup(sel).Config, twice.Config())
			assert.Equal(t, once.Config(), twice.Config())
			assert.Equal(t, once.Address(), twice.Address())
			assert.Zero(t, twice.Sent())
		})
	}
}

func TestReinitRestartsHopSequence(t *testing.T) {
	m, r, _ := bound(t, CX10Green)
	r.ClearTxLog()
	for i := 0; i < 3; i++ {
		m.Process(ppm.DefaultFrame)
	}
	m.Init()
	m.Process(ppm.DefaultFrame)

	log := r.GetTxLog()
	require.Len(t, log, 4)
	assert.Equal(t, log[0].Channel, log[3].Channel)
}

func TestCX10VariantsHopDifferently(t *testing.T) {
	ids := []txid.ID{testID, {0, 0, 0, 0}, {0xFF, 0xFF, 0xFF, 0xFF}}
	for _, id := range ids {
		assert.NotEqual(t, cx10Hops(id, false), cx10Hops(id, true), "id=%s", id)
	}
	assert.Equal(t, [4]uint8{0x0B, 0x20, 0x35, 0x4A}, cx10Hops(testID, true))
	assert.Equal(t, [4]uint8{0x05, 0x17, 0x31, 0x43}, cx10Hops(testID, false))

	channels := func(sel Selector) []uint8 {
		m, r, _ := bound(t, sel)
		r.ClearTxLog()
		for i := 0; i < 4; i++ {
			m.Process(ppm.DefaultFrame)
		}
		var chs []uint8
		for _, p := range r.GetTxLog() {
			chs = append(chs, p.Channel)
		}
		return chs
	}
	assert.NotEqual(t, channels(CX10Green), channels(CX10Blue))
}

func TestChannelsStayInRange(t *testing.T) {
	ids := []txid.ID{{0, 0, 0, 0}, {0xFF, 0xFF, 0xFF, 0xFF}, {0xF0, 0x0F, 0xAA, 0x55}}
	f := ppm.DefaultFrame
	f[ppm.Throttle] = ppm.Max
	f[ppm.Aux2] = ppm.Max

	for _, sel := range Selectors() {
		for _, id := range ids {
			r := &checkedRadio{Driver: stub.New()}
			clk := timing.NewFakeClock(0, 500)
			m := New(sel, r, clk)
			m.Init()
			m.Bind(id)
			for i := 0; i < 64; i++ {
				m.Process(f)
			}
			assert.Zero(t, r.errs, "%s id=%s", sel, id)
			for _, p := range r.GetTxLog() {
				assert.LessOrEqual(t, p.Channel, uint8(radio.MaxChannel))
			}
		}
	}
}

func TestCX10GreenPacketLayout(t *testing.T) {
	m := New(CX10Green, stub.New(), timing.NewFakeClock(0, 1)).(*cx10)
	m.id = testID
	f := ppm.DefaultFrame
	f[ppm.Throttle] = 1800
	f[ppm.Aileron] = 2000
	f[ppm.Aux2] = 2000 // flip
	f[ppm.Aux1] = 2000 // high rate
	m.build(f, false)

	p := m.packet
	assert.Equal(t, byte(0x55), p[0])
	assert.Equal(t, testID[:], p[1:5])
	assert.Equal(t, []byte{0xE8, 0x03}, p[5:7])  // aileron reversed: 1000
	assert.Equal(t, []byte{0x08, 0x07}, p[9:11]) // throttle 1800
	assert.Equal(t, byte(0x10|0x05), p[12])      // flip on rudder high byte
	assert.Equal(t, byte(2), p[13])
}

func TestV2x2BindPacket(t *testing.T) {
	m := New(V2x2, stub.New(), timing.NewFakeClock(0, 1)).(*v2x2)
	m.id = testID
	m.build(ppm.DefaultFrame, true)

	p := m.packet
	assert.Equal(t, byte(v2x2FlagBind), p[14])
	assert.Equal(t, testID[:3], p[7:10])
	assert.Equal(t, sum(p[:15]), p[15])
	assert.Zero(t, p[0])
}

func TestScaleAndSignMagnitude(t *testing.T) {
	assert.Equal(t, 0, scale(ppm.Min, 0, 0xFF))
	assert.Equal(t, 0xFF, scale(ppm.Max, 0, 0xFF))
	assert.Equal(t, 127, scale(ppm.Mid, 0, 0xFF))
	assert.Equal(t, 0xFF, scale(500, 0xFF, 0)) // clamped then inverted
	assert.Equal(t, byte(0), signMagnitude(ppm.Mid, 0x7F))
	assert.Equal(t, byte(0x7F), signMagnitude(ppm.Max, 0x7F))
	assert.Equal(t, byte(0xFF), signMagnitude(ppm.Min, 0x7F))
	assert.Equal(t, byte(0xBF), signMagnitude(1250, 0x7F))
}

func TestPosition3(t *testing.T) {
	f := ppm.DefaultFrame
	assert.Equal(t, byte(1), position3(f, ppm.Aux1))
	f[ppm.Aux1] = ppm.Min
	assert.Equal(t, byte(0), position3(f, ppm.Aux1))
	f[ppm.Aux1] = ppm.Max
	assert.Equal(t, byte(2), position3(f, ppm.Aux1))
}

func TestCRC16(t *testing.T) {
	crc := uint16(0xFFFF)
	for _, b := range []byte("123456789") {
		crc = crc16(crc, b)
	}
	assert.Equal(t, uint16(0x29B1), crc)
}

func TestXN297Encode(t *testing.T) {
	var x xn297
	x.setAddress([]byte{0x01, 0x02, 0x03, 0x04, 0x05})
	out := x.encode(nil, []byte{0x80, 0x01})

	require.Len(t, out, 5+2+2)
	assert.Equal(t, byte(0x05^0xE3), out[0])
	assert.Equal(t, byte(0x01^0x85), out[4])
	assert.Equal(t, byte(0x01^0xBC), out[5]) // 0x80 bit reversed
	assert.Equal(t, byte(0x80^0xE5), out[6])

	again := x.encode(make([]byte, 0, 32), []byte{0x80, 0x01})
	assert.Equal(t, out, again)
}
