// Package ppm holds the channel model shared by the capture side and the
// scheduler: the 12-channel Frame, its pulse-width domain, the lock-free
// Sampler snapshot store and the decoders that feed it.
package ppm

// Pulse-width domain in microseconds.
const (
	Min          = 1000
	SafeThrottle = 1050
	MinCommand   = 1300
	Mid          = 1500
	MaxCommand   = 1700
	Max          = 2000
)

// NumChannels is the number of channels in the PPM stream.
const NumChannels = 12

// Channel order of the stream.
const (
	Throttle = iota
	Aileron
	Elevator
	Rudder
	Aux1 // lights, or 3-position rate on CX-10, H7; inverted flight on H101
	Aux2 // flip
	Aux3 // still camera
	Aux4 // video camera
	Aux5 // headless
	Aux6 // calibrate Y (V2x2), pitch trim (H7), RTH (Bayang), 360 flip (H8-3D)
	Aux7 // calibrate X (V2x2), roll trim (H7)
	Aux8 // reset / rebind
)

// Frame is one snapshot of all channel values.
type Frame [NumChannels]uint16

// DefaultFrame is what the sampler reports before any input arrives:
// throttle down, everything else centred.
var DefaultFrame = Frame{Min, Mid, Mid, Mid, Mid, Mid, Mid, Mid, Mid, Mid, Mid, Mid}

// Clamp limits v to [Min, Max].
func Clamp(v uint16) uint16 {
	switch {
	case v < Min:
		return Min
	case v > Max:
		return Max
	}
	return v
}

// Clamped returns f with every channel clamped.
func (f Frame) Clamped() Frame {
	for i, v := range f {
		f[i] = Clamp(v)
	}
	return f
}

// Flag reports whether a switch channel is set.
func (f Frame) Flag(ch int) bool { return f[ch] > MaxCommand }

// Low reports whether a stick channel is pushed to its low end.
func (f Frame) Low(ch int) bool { return f[ch] < MinCommand }

// High is the stick-gesture spelling of Flag.
func (f Frame) High(ch int) bool { return f[ch] > MaxCommand }

// ChannelName returns the lowercase name used in config files and logs.
func ChannelName(ch int) string {
	if ch < 0 || ch >= NumChannels {
		return "unknown"
	}
	return channelNames[ch]
}

// ChannelByName is the inverse of ChannelName.
func ChannelByName(name string) (int, bool) {
	for i, n := range channelNames {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

var channelNames = [NumChannels]string{
	"throttle", "aileron", "elevator", "rudder",
	"aux1", "aux2", "aux3", "aux4", "aux5", "aux6", "aux7", "aux8",
}
