// Package hidreport translates Synergy/Barrier logical key and mouse
// events into USB HID report bytes: a boot keyboard report, an absolute-
// positioning wheel mouse report, and a consumer-control report.
package hidreport

// KeyClass identifies what a Synergy key id maps to.
type KeyClass int

const (
	// KeyNone means the Synergy key id has no HID equivalent.
	KeyNone KeyClass = iota
	// KeyKeyboard means Usage is a boot-keyboard usage code (including
	// the 0xE0..0xE7 modifier usage range).
	KeyKeyboard
	// KeyConsumer means Usage is a 16-bit consumer-control usage code.
	KeyConsumer
)

// HIDKey is the result of looking up a Synergy key id.
type HIDKey struct {
	Class KeyClass
	Usage uint16
}

// Boot keyboard usage codes for printable ASCII, the USB HID Usage Tables
// 1.12, §10 Keyboard/Keypad Page (0x07) layout.
const (
	HIDKeyA = 0x04
	HIDKey0 = 0x27
	HIDKey1 = 0x1E
)

// Modifier usage codes (also the values returned for Synergy's own
// modifier key ids, so the keyboard report press/release algorithm can
// recognize them by usage range alone, per §4.6).
const (
	HIDModLeftCtrl   = 0xE0
	HIDModLeftShift  = 0xE1
	HIDModLeftAlt    = 0xE2
	HIDModLeftGUI    = 0xE3
	HIDModRightCtrl  = 0xE4
	HIDModRightShift = 0xE5
	HIDModRightAlt   = 0xE6
	HIDModRightGUI   = 0xE7
)

var letterUsage = [26]uint8{
	HIDKeyA, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E, 0x0F,
	0x10, 0x11, 0x12, 0x13, 0x14, 0x15, 0x16, 0x17, 0x18, 0x19, 0x1A, 0x1B, 0x1C, 0x1D,
}

// digitUsage maps '1'..'9','0' (in that wrapped order, matching the
// physical top-row layout) to their boot-keyboard usage codes.
var digitUsage = [10]uint8{
	0x1E, 0x1F, 0x20, 0x21, 0x22, 0x23, 0x24, 0x25, 0x26, 0x27,
}

// punctUsage maps a handful of common ASCII punctuation characters to
// their US-layout boot-keyboard usage codes.
var punctUsage = map[rune]uint8{
	' ':  0x2C,
	'-':  0x2D,
	'=':  0x2E,
	'[':  0x2F,
	']':  0x30,
	'\\': 0x31,
	';':  0x33,
	'\'': 0x34,
	'`':  0x35,
	',':  0x36,
	'.':  0x37,
	'/':  0x38,
}

// Synergy (X11-keysym-derived) ids for non-printable keys the client
// recognizes. Values follow the same scheme pico-barrier's reference
// server population uses.
const (
	synergyBackSpace = 0xFF08
	synergyTab       = 0xFF09
	synergyReturn    = 0xFF0D
	synergyEscape    = 0xFF1B
	synergyDelete    = 0xFFFF
	synergyInsert    = 0xFF63
	synergyHome      = 0xFF50
	synergyLeft      = 0xFF51
	synergyUp        = 0xFF52
	synergyRight     = 0xFF53
	synergyDown      = 0xFF54
	synergyPageUp    = 0xFF55
	synergyPageDown  = 0xFF56
	synergyEnd       = 0xFF57
	synergyCapsLock  = 0xFFE5

	synergyShiftL = 0xFFE1
	synergyShiftR = 0xFFE2
	synergyCtrlL  = 0xFFE3
	synergyCtrlR  = 0xFFE4
	synergyAltL   = 0xFFE9
	synergyAltR   = 0xFFEA
	synergySuperL = 0xFFEB
	synergySuperR = 0xFFEC

	synergyF1  = 0xFFBE
	synergyF12 = 0xFFC9
)

// Consumer-control key ids, in the 0xE0xx private-use range Synergy
// reserves for multimedia keys (distinct from the X11-keysym-derived ids
// above). kKeyAudioMute = 0xE0AD, per the reference implementation.
const (
	synergyAudioMute     = 0xE0AD
	synergyAudioDown     = 0xE0AE
	synergyAudioUp       = 0xE0AF
	synergyAudioPrev     = 0xE0B0
	synergyAudioPlay     = 0xE0B3
	synergyAudioNext     = 0xE0B5
	synergyAudioStop     = 0xE0B6
	synergyWWWHome       = 0xE0AC
	synergyEject         = 0xE0A4
)

// HID consumer-control usage codes (USB HID Usage Tables 1.12, §15
// Consumer Page 0x0C).
const (
	hidConsumerMute       = 0x00E2
	hidConsumerVolumeDown = 0x00EA
	hidConsumerVolumeUp   = 0x00E9
	hidConsumerPlayPause  = 0x00CD
	hidConsumerScanNext   = 0x00B5
	hidConsumerScanPrev   = 0x00B6
	hidConsumerStop       = 0x00B7
	hidConsumerWWWHome    = 0x0223
	hidConsumerEject      = 0x00B8
)

// SynergyToHID translates a Synergy/Barrier virtual key id to its boot
// keyboard usage code, consumer-control usage code, or KeyNone if
// unmapped (§4.7).
func SynergyToHID(key uint16) HIDKey {
	switch {
	case key >= 'a' && key <= 'z':
		return HIDKey{KeyKeyboard, uint16(letterUsage[key-'a'])}
	case key >= 'A' && key <= 'Z':
		return HIDKey{KeyKeyboard, uint16(letterUsage[key-'A'])}
	case key == '0':
		return HIDKey{KeyKeyboard, uint16(digitUsage[9])}
	case key >= '1' && key <= '9':
		return HIDKey{KeyKeyboard, uint16(digitUsage[key-'1'])}
	}

	if u, ok := punctUsage[rune(key)]; ok {
		return HIDKey{KeyKeyboard, uint16(u)}
	}

	switch key {
	case synergyBackSpace:
		return HIDKey{KeyKeyboard, 0x2A}
	case synergyTab:
		return HIDKey{KeyKeyboard, 0x2B}
	case synergyReturn:
		return HIDKey{KeyKeyboard, 0x28}
	case synergyEscape:
		return HIDKey{KeyKeyboard, 0x29}
	case synergyDelete:
		return HIDKey{KeyKeyboard, 0x4C}
	case synergyInsert:
		return HIDKey{KeyKeyboard, 0x49}
	case synergyHome:
		return HIDKey{KeyKeyboard, 0x4A}
	case synergyLeft:
		return HIDKey{KeyKeyboard, 0x50}
	case synergyUp:
		return HIDKey{KeyKeyboard, 0x52}
	case synergyRight:
		return HIDKey{KeyKeyboard, 0x4F}
	case synergyDown:
		return HIDKey{KeyKeyboard, 0x51}
	case synergyPageUp:
		return HIDKey{KeyKeyboard, 0x4B}
	case synergyPageDown:
		return HIDKey{KeyKeyboard, 0x4E}
	case synergyEnd:
		return HIDKey{KeyKeyboard, 0x4D}
	case synergyCapsLock:
		return HIDKey{KeyKeyboard, 0x39}

	case synergyShiftL:
		return HIDKey{KeyKeyboard, HIDModLeftShift}
	case synergyShiftR:
		return HIDKey{KeyKeyboard, HIDModRightShift}
	case synergyCtrlL:
		return HIDKey{KeyKeyboard, HIDModLeftCtrl}
	case synergyCtrlR:
		return HIDKey{KeyKeyboard, HIDModRightCtrl}
	case synergyAltL:
		return HIDKey{KeyKeyboard, HIDModLeftAlt}
	case synergyAltR:
		return HIDKey{KeyKeyboard, HIDModRightAlt}
	case synergySuperL:
		return HIDKey{KeyKeyboard, HIDModLeftGUI}
	case synergySuperR:
		return HIDKey{KeyKeyboard, HIDModRightGUI}

	case synergyAudioMute:
		return HIDKey{KeyConsumer, hidConsumerMute}
	case synergyAudioDown:
		return HIDKey{KeyConsumer, hidConsumerVolumeDown}
	case synergyAudioUp:
		return HIDKey{KeyConsumer, hidConsumerVolumeUp}
	case synergyAudioPlay:
		return HIDKey{KeyConsumer, hidConsumerPlayPause}
	case synergyAudioNext:
		return HIDKey{KeyConsumer, hidConsumerScanNext}
	case synergyAudioPrev:
		return HIDKey{KeyConsumer, hidConsumerScanPrev}
	case synergyAudioStop:
		return HIDKey{KeyConsumer, hidConsumerStop}
	case synergyWWWHome:
		return HIDKey{KeyConsumer, hidConsumerWWWHome}
	case synergyEject:
		return HIDKey{KeyConsumer, hidConsumerEject}
	}

	if key >= synergyF1 && key <= synergyF12 {
		return HIDKey{KeyKeyboard, uint16(0x3A + (key - synergyF1))}
	}

	return HIDKey{KeyNone, 0}
}

// SynergyMouseButton maps a Synergy mouse button id (1=left, 2=middle,
// 3=right) to its boot mouse button bitmask; any other id carries no bit.
func SynergyMouseButton(id int8) uint8 {
	switch id {
	case 1:
		return 0x01
	case 2:
		return 0x04
	case 3:
		return 0x02
	default:
		return 0
	}
}
