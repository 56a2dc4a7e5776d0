package chrome

import (
	"sort"

	"github.com/chromedp/chromedp/device"
)

const DefaultDevice = "Desktop 1920x1080"

// Devices are the viewport presets a recording session can emulate.
var Devices = map[string]device.Info{
	"Desktop 1920x1080": {
		Name:      "Desktop 1920x1080",
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
		Width:     1920,
		Height:    1080,
		Scale:     1.0,
	},
	"Desktop 1280x800": {
		Name:      "Desktop 1280x800",
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
		Width:     1280,
		Height:    800,
		Scale:     1.0,
	},
	"iPhone 12 Pro": {
		Name:      "iPhone 12 Pro",
		UserAgent: "Mozilla/5.0 (iPhone; CPU iPhone OS 14_7_1 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.1.2 Mobile/15E148 Safari/604.1",
		Width:     390,
		Height:    844,
		Scale:     1.0, // 1.0 keeps text readable in the headed window
		Mobile:    true,
		Touch:     true,
	},
	"iPad Pro": {
		Name:      "iPad Pro",
		UserAgent: "Mozilla/5.0 (iPad; CPU OS 13_3 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) CriOS/87.0.4280.77 Mobile/15E148 Safari/604.1",
		Width:     1024,
		Height:    1366,
		Scale:     1.0,
		Mobile:    true,
		Touch:     true,
	},
	"Galaxy S20": {
		Name:      "Galaxy S20",
		UserAgent: "Mozilla/5.0 (Linux; Android 10; SM-G981B) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/80.0.3987.162 Mobile Safari/537.36",
		Width:     360,
		Height:    800,
		Scale:     1.0,
		Mobile:    true,
		Touch:     true,
	},
}

// LookupDevice returns the named preset. Empty names resolve to DefaultDevice.
func LookupDevice(name string) (device.Info, bool) {
	if name == "" {
		name = DefaultDevice
	}
	info, ok := Devices[name]
	return info, ok
}

func DeviceNames() []string {
	names := make([]string, 0, len(Devices))
	for name := range Devices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
