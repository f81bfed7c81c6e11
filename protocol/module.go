package protocol

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ystepanoff/nrfmulti/ppm"
	"github.com/ystepanoff/nrfmulti/radio"
	"github.com/ystepanoff/nrfmulti/timing"
	"github.com/ystepanoff/nrfmulti/txid"
)

// Module is one vendor's air protocol. A module owns its packet buffer and
// hop state; the scheduler owns its lifetime.
type Module interface {
	// Init configures the radio for the protocol and resets hop and
	// sequence state. Calling it twice is the same as calling it once.
	Init()
	// Bind announces the transmitter to the model. It blocks until the
	// protocol's bind packet count has been sent.
	Bind(id txid.ID)
	// Process sends one data packet built from f and returns the time the
	// next packet is due.
	Process(f ppm.Frame) timing.Micros
}

// Selector identifies a protocol. Values are persisted, so the order is
// fixed.
type Selector uint8

const (
	V2x2      Selector = iota // WLToys V2x2, JXD JD38x/JD39x, JJRC H6C
	CG023                     // EAchine CG023/CG032, 3D X4
	CX10Blue                  // Cheerson CX-10 blue board, CX-10A/C
	CX10Green                 // Cheerson CX-10 green board
	H7                        // EAchine H7, MoonTop M99xx
	Bayang                    // EAchine H8 mini, H10, BayangToys X6/X7/X9
	SymaX5C1                  // Syma X5C-1, X11, X12
	YD829                     // YD-829, YD-822
	H83D                      // EAchine H8 mini 3D, JJRC H20/H22

	numSelectors
)

var ErrUnknownProtocol = errors.New("unknown protocol")

// Info describes a protocol's fixed link parameters.
type Info struct {
	Selector    Selector
	Name        string
	Period      uint32 // µs between data packets
	PacketSize  int    // payload bytes before any framing
	BindPackets int
	XN297       bool // payload carries XN297 framing
	Config      radio.Config
}

var (
	nativeConfig = radio.DefaultConfig()
	// XN297 emulation uses a three byte nRF address (the XN297 preamble)
	// and computes its own CRC.
	xn297Config = radio.Config{
		DataRate:     radio.Rate1Mbps,
		AddressWidth: 3,
		Power:        radio.Power80mW,
	}
)

var infos = [numSelectors]Info{
	V2x2:      {V2x2, "v2x2", 4000, 16, 1000, false, nativeConfig},
	CG023:     {CG023, "cg023", 8200, 15, 500, true, xn297Config},
	CX10Blue:  {CX10Blue, "cx10-blue", 6000, 19, 1000, true, xn297Config},
	CX10Green: {CX10Green, "cx10-green", 1316, 15, 1000, true, xn297Config},
	H7:        {H7, "h7", 2625, 9, 1000, true, xn297Config},
	Bayang:    {Bayang, "bayang", 1000, 15, 1000, true, xn297Config},
	SymaX5C1:  {SymaX5C1, "symax5c1", 4000, 10, 345, false, nativeConfig},
	YD829:     {YD829, "yd829", 4100, 15, 500, true, xn297Config},
	H83D:      {H83D, "h8-3d", 1800, 20, 1000, true, xn297Config},
}

func (s Selector) Valid() bool { return s < numSelectors }

func (s Selector) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Selector(%d)", uint8(s))
	}
	return infos[s].Name
}

// Clamp maps a stored byte onto a valid selector; anything past the end
// becomes the last protocol.
func Clamp(v uint8) Selector {
	if Selector(v) >= numSelectors {
		return numSelectors - 1
	}
	return Selector(v)
}

// Selectors lists every protocol in persisted order.
func Selectors() []Selector {
	out := make([]Selector, numSelectors)
	for i := range out {
		out[i] = Selector(i)
	}
	return out
}

// Lookup returns the link parameters of s. An invalid selector yields an
// Info carrying only the selector.
func Lookup(s Selector) Info {
	if !s.Valid() {
		return Info{Selector: s, Name: s.String()}
	}
	return infos[s]
}

// ParseSelector accepts a protocol name, case-insensitively, or its
// numeric value.
func ParseSelector(name string) (Selector, error) {
	name = strings.TrimSpace(name)
	for _, info := range infos {
		if strings.EqualFold(name, info.Name) {
			return info.Selector, nil
		}
	}
	if n, err := strconv.ParseUint(name, 10, 8); err == nil && Selector(n).Valid() {
		return Selector(n), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownProtocol, name)
}

// New builds the module for sel. It returns nil for an invalid selector.
func New(sel Selector, r radio.Radio, c timing.Clock) Module {
	l := newLink(Lookup(sel), r, c)
	switch sel {
	case V2x2:
		return &v2x2{link: l}
	case CG023:
		return &cg023{link: l, flags: cg023Flags}
	case YD829:
		return &cg023{link: l, flags: yd829Flags}
	case CX10Blue:
		return &cx10{link: l, blue: true}
	case CX10Green:
		return &cx10{link: l}
	case H7:
		return &h7{link: l}
	case Bayang:
		return &bayang{link: l}
	case SymaX5C1:
		return &symax{link: l}
	case H83D:
		return &h83d{link: l}
	}
	return nil
}
