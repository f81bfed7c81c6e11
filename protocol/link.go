package protocol

import (
	"github.com/ystepanoff/nrfmulti/radio"
	"github.com/ystepanoff/nrfmulti/timing"
)

// link carries what every module shares: the radio, the clock, the packet
// buffer and the optional XN297 framing. Driver errors are dropped; a lost
// packet is indistinguishable from interference.
type link struct {
	radio  radio.Radio
	clock  timing.Clock
	info   Info
	packet Packet
	xn     *xn297
	wire   [radio.MaxPayload]byte
}

func newLink(info Info, r radio.Radio, c timing.Clock) link {
	l := link{radio: r, clock: c, info: info}
	if info.XN297 {
		l.xn = &xn297{}
	}
	return l
}

// reset applies the protocol's radio configuration and clears the buffer.
func (l *link) reset() {
	_ = l.radio.Initialize(l.info.Config)
	l.packet.clear()
}

func (l *link) setAddress(addr []byte) {
	if l.xn != nil {
		l.xn.setAddress(addr)
		_ = l.radio.SetAddress(xn297Preamble)
		return
	}
	_ = l.radio.SetAddress(addr)
}

// send writes the first PacketSize bytes of the buffer on channel ch.
func (l *link) send(ch uint8) {
	data := l.packet[:l.info.PacketSize]
	if l.xn != nil {
		data = l.xn.encode(l.wire[:0], data)
	}
	_ = l.radio.SetChannel(ch)
	_ = l.radio.WritePacket(data)
}

// start reads the clock once and returns when the next packet is due.
func (l *link) start() timing.Micros {
	return l.clock.Micros().Add(l.info.Period)
}

// bind calls each for every bind packet, one per period.
func (l *link) bind(each func(i int)) {
	next := l.clock.Micros()
	for i := 0; i < l.info.BindPackets; i++ {
		next = next.Add(l.info.Period)
		each(i)
		timing.SpinUntil(l.clock, next)
	}
}
