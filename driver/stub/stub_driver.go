//go:build !tinygo && !baremetal

package stub

import (
	"sync"

	"github.com/ystepanoff/nrfmulti/radio"
)

// Packet is one transmission as the stub saw it.
type Packet struct {
	Channel uint8
	Address []byte
	Data    []byte
}

// Driver implements a recording radio for host-side testing and dry runs.
// It validates arguments like the hardware driver would and keeps the most
// recent transmissions in a bounded ring.
type Driver struct {
	mu      sync.Mutex
	cfg     radio.Config
	channel uint8
	address []byte
	resets  int
	inits   int
	sent    int
	txBuf   ringBuffer
}

func New() *Driver { return &Driver{} }

func (d *Driver) Reset() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.resets++
	d.cfg = radio.Config{}
	d.channel = 0
	d.address = nil
	return nil
}

func (d *Driver) Initialize(cfg radio.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.inits++
	d.cfg = cfg
	return nil
}

func (d *Driver) SetChannel(channel uint8) error {
	if channel > radio.MaxChannel {
		return radio.ErrInvalidChannel
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.channel = channel
	return nil
}

func (d *Driver) SetAddress(addr []byte) error {
	if len(addr) < 3 || len(addr) > 5 {
		return radio.ErrInvalidAddress
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.address = append(d.address[:0:0], addr...)
	return nil
}

func (d *Driver) WritePacket(data []byte) error {
	if len(data) == 0 || len(data) > radio.MaxPayload {
		return radio.ErrInvalidPayload
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.txBuf.push(Packet{
		Channel: d.channel,
		Address: append([]byte(nil), d.address...),
		Data:    append([]byte(nil), data...),
	})
	d.sent++
	return nil
}

// Config returns the configuration applied by the last Initialize.
func (d *Driver) Config() radio.Config {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg
}

func (d *Driver) Channel() uint8 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.channel
}

func (d *Driver) Address() []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]byte(nil), d.address...)
}

func (d *Driver) Resets() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.resets
}

func (d *Driver) Inits() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.inits
}

// Sent returns the total number of packets written, including those that
// fell out of the ring.
func (d *Driver) Sent() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sent
}

func (d *Driver) GetTxLog() []Packet {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.txBuf.snapshot()
}

func (d *Driver) ClearTxLog() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.txBuf = ringBuffer{}
}

const ringCapacity = 64

type ringBuffer struct {
	data       [ringCapacity]Packet
	head, tail int // head = oldest, tail = next push
	count      int
}

func (rb *ringBuffer) push(p Packet) {
	if rb.count == ringCapacity {
		// Overwrite the oldest when buffer is full to keep memory bounded
		rb.head = (rb.head + 1) % ringCapacity
		rb.count--
	}
	rb.data[rb.tail] = p
	rb.tail = (rb.tail + 1) % ringCapacity
	rb.count++
}

func (rb *ringBuffer) snapshot() []Packet {
	out := make([]Packet, rb.count)
	i := rb.head
	for c := 0; c < rb.count; c++ {
		p := rb.data[i]
		out[c] = Packet{
			Channel: p.Channel,
			Address: append([]byte(nil), p.Address...),
			Data:    append([]byte(nil), p.Data...),
		}
		i = (i + 1) % ringCapacity
	}
	return out
}
