package protocol

import (
	"fmt"
	"io"
)

// Marshal encodes one message into a fresh buffer in wire order. Length
// fields are computed from the payload; name fields are NUL-padded to 32
// bytes.
func Marshal(m Message) []byte {
	switch v := m.(type) {
	case *TextMessage:
		return marshalTextMessage(v)
	case *ChangeRoom:
		return appendShort([]byte{byte(TypeChangeRoom)}, v.RoomNumber)
	case *Fight:
		return []byte{byte(TypeFight)}
	case *PVPFight:
		return appendName([]byte{byte(TypePVPFight)}, v.Target)
	case *Loot:
		return appendName([]byte{byte(TypeLoot)}, v.Target)
	case *Start:
		return []byte{byte(TypeStart)}
	case *Error:
		return marshalError(v)
	case *Accept:
		return []byte{byte(TypeAccept), byte(v.Action)}
	case *Room:
		return marshalLocation(TypeRoom, v.Number, v.Name, v.Description)
	case *Character:
		return marshalCharacter(v)
	case *Game:
		return marshalGame(v)
	case *Leave:
		return []byte{byte(TypeLeave)}
	case *Connection:
		return marshalLocation(TypeConnection, v.Number, v.Name, v.Description)
	case *Version:
		return marshalVersion(v)
	default:
		panic(fmt.Sprintf("protocol: cannot marshal %T", m))
	}
}

// Encode marshals m and writes the frame to w.
func Encode(w io.Writer, m Message) error {
	if _, err := w.Write(Marshal(m)); err != nil {
		return fmt.Errorf("writing %s: %w", m.Type(), err)
	}
	return nil
}

func marshalTextMessage(m *TextMessage) []byte {
	dst := make([]byte, 0, 1+2+NameLen+NameLen+len(m.Text))
	dst = append(dst, byte(TypeMessage))
	dst = appendShort(dst, uint16(len(m.Text)))
	dst = appendName(dst, m.Recipient)
	dst = appendName(dst, m.Sender)
	if m.Narration {
		dst[len(dst)-2] = 0x00
		dst[len(dst)-1] = 0x01
	}
	return append(dst, m.Text...)
}

func marshalError(m *Error) []byte {
	dst := make([]byte, 0, 1+1+2+len(m.Text))
	dst = append(dst, byte(TypeError), byte(m.Code))
	dst = appendShort(dst, uint16(len(m.Text)))
	return append(dst, m.Text...)
}

func marshalLocation(t Type, number uint16, name, desc string) []byte {
	dst := make([]byte, 0, 1+2+NameLen+2+len(desc))
	dst = append(dst, byte(t))
	dst = appendShort(dst, number)
	dst = appendName(dst, name)
	dst = appendShort(dst, uint16(len(desc)))
	return append(dst, desc...)
}

func marshalCharacter(m *Character) []byte {
	dst := make([]byte, 0, 1+NameLen+1+2*7+len(m.Description))
	dst = append(dst, byte(TypeCharacter))
	dst = appendName(dst, m.Name)
	dst = append(dst, byte(m.Flags))
	dst = appendShort(dst, m.Attack)
	dst = appendShort(dst, m.Defense)
	dst = appendShort(dst, m.Regen)
	dst = appendSignedShort(dst, m.Health)
	dst = appendShort(dst, m.Gold)
	dst = appendShort(dst, m.RoomNumber)
	dst = appendShort(dst, uint16(len(m.Description)))
	return append(dst, m.Description...)
}

func marshalGame(m *Game) []byte {
	dst := make([]byte, 0, 1+2+2+2+len(m.Description))
	dst = append(dst, byte(TypeGame))
	dst = appendShort(dst, m.InitialPoints)
	dst = appendShort(dst, m.StatLimit)
	dst = appendShort(dst, uint16(len(m.Description)))
	return append(dst, m.Description...)
}

func marshalVersion(m *Version) []byte {
	dst := make([]byte, 0, 1+1+1+2+len(m.Extensions))
	dst = append(dst, byte(TypeVersion), m.Major, m.Minor)
	dst = appendShort(dst, uint16(len(m.Extensions)))
	return append(dst, m.Extensions...)
}
