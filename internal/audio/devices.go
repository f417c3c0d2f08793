package audio

import (
	"fmt"
	"strings"

	"github.com/gordonklaus/portaudio"
)

// Device describes one enumerated audio device.
type Device struct {
	Index            int
	Name             string
	MaxInputChannels int
}

// DeviceNotFoundError is returned when no usable input device could be
// resolved. It carries the input devices that were available at the time
// of the lookup so the user can pick one.
type DeviceNotFoundError struct {
	Preferred string
	Available []Device
}

func (e *DeviceNotFoundError) Error() string {
	var b strings.Builder
	if e.Preferred != "" {
		fmt.Fprintf(&b, "microphone %q not found", e.Preferred)
	} else {
		b.WriteString("no usable input device")
	}
	b.WriteString(". Available inputs: ")
	if len(e.Available) == 0 {
		b.WriteString("(none)")
		return b.String()
	}
	for i, d := range e.Available {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%d: %s", d.Index, d.Name)
	}
	return b.String()
}

// SelectInputDevice resolves which device index to record from.
//
// If preferred is non-empty, the first device whose name contains it as a
// substring and that has input channels wins. Otherwise the reported
// default input index is used when valid (non-negative). Failing both, a
// DeviceNotFoundError listing every available input is returned.
func SelectInputDevice(devices []Device, defaultIndex int, preferred string) (int, error) {
	if preferred != "" {
		for _, d := range devices {
			if strings.Contains(d.Name, preferred) && d.MaxInputChannels > 0 {
				return d.Index, nil
			}
		}
	}
	if defaultIndex >= 0 {
		return defaultIndex, nil
	}
	var inputs []Device
	for _, d := range devices {
		if d.MaxInputChannels > 0 {
			inputs = append(inputs, d)
		}
	}
	return 0, &DeviceNotFoundError{Preferred: preferred, Available: inputs}
}

// InputDevices enumerates the input-capable devices (indices are
// positions in the full device table) and the default input index (-1
// when the host reports none). PortAudio must be initialized.
func InputDevices() ([]Device, int, error) {
	infos, err := portaudio.Devices()
	if err != nil {
		return nil, -1, fmt.Errorf("list devices: %w", err)
	}
	devices := make([]Device, 0, len(infos))
	for i, info := range infos {
		if info.MaxInputChannels > 0 {
			devices = append(devices, Device{Index: i, Name: info.Name, MaxInputChannels: info.MaxInputChannels})
		}
	}

	defaultIndex := -1
	if def, err := portaudio.DefaultInputDevice(); err == nil && def != nil {
		for i, info := range infos {
			if info == def {
				defaultIndex = i
				break
			}
		}
	}
	return devices, defaultIndex, nil
}

// findInputDevice resolves the PortAudio device to open, by name hint or
// system default.
func findInputDevice(preferred string) (*portaudio.DeviceInfo, error) {
	infos, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	devices := make([]Device, len(infos))
	for i, info := range infos {
		devices[i] = Device{Index: i, Name: info.Name, MaxInputChannels: info.MaxInputChannels}
	}

	defaultIndex := -1
	if def, err := portaudio.DefaultInputDevice(); err == nil && def != nil {
		for i, info := range infos {
			if info == def {
				defaultIndex = i
				break
			}
		}
	}

	idx, err := SelectInputDevice(devices, defaultIndex, preferred)
	if err != nil {
		return nil, err
	}
	return infos[idx], nil
}
