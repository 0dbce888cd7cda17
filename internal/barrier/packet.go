package barrier

// Tag identifies a Barrier wire packet variant by its 4-byte ASCII code.
type Tag = string

// Recognized packet tags (§3).
const (
	TagQueryInfo           Tag = "QINF"
	TagDeviceInfo          Tag = "DINF"
	TagInfoAck             Tag = "CIAK"
	TagKeepAlive           Tag = "CALV"
	TagResetOptions        Tag = "CROP"
	TagClientNoOp          Tag = "CNOP"
	TagErrorUnknownDevice  Tag = "EUNK"
	TagCursorEnter         Tag = "CINN"
	TagCursorLeave         Tag = "COUT"
	TagMouseUp             Tag = "DMUP"
	TagMouseDown           Tag = "DMDN"
	TagKeyUp               Tag = "DKUP"
	TagKeyDown             Tag = "DKDN"
	TagKeyRepeat           Tag = "DKRP"
	TagMouseWheel          Tag = "DMWM"
	TagMouseMoveAbs        Tag = "DMMV"
	TagMouseMove           Tag = "DMRM"
)

// MaxPacketLength is the declared-length ceiling beyond which a packet is
// drained and reported as Unknown rather than parsed (§3, §7).
const MaxPacketLength = 2048

// Packet is the decoded form of one Barrier wire message. Exactly one of
// the typed fields is meaningful, selected by Kind.
type Packet struct {
	Kind Tag

	// DeviceInfo
	X, Y, W, H, Dummy, MX, MY uint16

	// CursorEnter
	Seq  uint32
	Mask uint16

	// MouseUp / MouseDown
	ButtonID int8

	// KeyUp / KeyDown / KeyRepeat
	KeyID    uint16
	KeyMask  uint16
	Button   uint16
	Count    uint16

	// MouseWheel
	WheelX, WheelY int16

	// MouseMoveAbs / MouseMove
	MoveX, MoveY int32
}
