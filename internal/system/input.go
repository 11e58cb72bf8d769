package system

import "encoding/binary"

// Event types and codes from linux/input-event-codes.h.
const (
	evKey = 0x01
	evRel = 0x02

	relX = 0x00
	relY = 0x01

	keyF4 = 62
)

type inputEvent struct {
	Type  uint16
	Code  uint16
	Value int32
}

// InputHandlers receives decoded evdev input. Nil handlers are skipped.
type InputHandlers struct {
	// Move is called with relative pointer motion.
	Move func(dx, dy float64)
	// Exit is called once when F4 is pressed.
	Exit func()
}

// decodeEvents walks buf as a sequence of input_event records, each a
// timeval of tvSize bytes followed by u16 type, u16 code, s32 value.
// Trailing bytes that do not form a whole record are ignored.
func decodeEvents(buf []byte, tvSize int, fn func(inputEvent)) {
	size := tvSize + 8
	for off := 0; off+size <= len(buf); off += size {
		rec := buf[off+tvSize : off+size]
		fn(inputEvent{
			Type:  binary.LittleEndian.Uint16(rec[0:2]),
			Code:  binary.LittleEndian.Uint16(rec[2:4]),
			Value: int32(binary.LittleEndian.Uint32(rec[4:8])),
		})
	}
}

// dispatch routes one event; it reports whether the exit key was pressed.
func (h InputHandlers) dispatch(ev inputEvent) (exit bool) {
	switch ev.Type {
	case evRel:
		if h.Move == nil {
			return false
		}
		switch ev.Code {
		case relX:
			h.Move(float64(ev.Value), 0)
		case relY:
			h.Move(0, float64(ev.Value))
		}
	case evKey:
		return ev.Code == keyF4 && ev.Value == 1
	}
	return false
}
