package protocol

import (
	"errors"
	"fmt"
	"io"
)

// ErrBadText reports a string field that failed UTF-8 validation.
var ErrBadText = errors.New("text is not valid UTF-8")

// UnknownTypeError reports a type byte with no assigned message layout.
type UnknownTypeError struct {
	Byte byte
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown message type %d", e.Byte)
}

// Decode reads exactly one message from r and never consumes bytes past
// it. A stream that ends mid-message surfaces a wrapped io error
// (io.ErrUnexpectedEOF for a truncated body); an unassigned type byte
// surfaces as *UnknownTypeError, malformed text as ErrBadText. In the error
// cases the stream position is undefined.
func Decode(r io.Reader) (Message, error) {
	var tb [1]byte
	if _, err := io.ReadFull(r, tb[:]); err != nil {
		return nil, fmt.Errorf("reading message type: %w", err)
	}

	switch t := Type(tb[0]); t {
	case TypeMessage:
		return decodeTextMessage(r)
	case TypeChangeRoom:
		return decodeChangeRoom(r)
	case TypeFight:
		return &Fight{}, nil
	case TypePVPFight:
		target, err := decodeTarget(r)
		if err != nil {
			return nil, fmt.Errorf("decoding PVPFIGHT: %w", err)
		}
		return &PVPFight{Target: target}, nil
	case TypeLoot:
		target, err := decodeTarget(r)
		if err != nil {
			return nil, fmt.Errorf("decoding LOOT: %w", err)
		}
		return &Loot{Target: target}, nil
	case TypeStart:
		return &Start{}, nil
	case TypeError:
		return decodeError(r)
	case TypeAccept:
		return decodeAccept(r)
	case TypeRoom:
		n, name, desc, err := decodeLocation(r)
		if err != nil {
			return nil, fmt.Errorf("decoding ROOM: %w", err)
		}
		return &Room{Number: n, Name: name, Description: desc}, nil
	case TypeCharacter:
		return decodeCharacter(r)
	case TypeGame:
		return decodeGame(r)
	case TypeLeave:
		return &Leave{}, nil
	case TypeConnection:
		n, name, desc, err := decodeLocation(r)
		if err != nil {
			return nil, fmt.Errorf("decoding CONNECTION: %w", err)
		}
		return &Connection{Number: n, Name: name, Description: desc}, nil
	case TypeVersion:
		return decodeVersion(r)
	default:
		return nil, &UnknownTypeError{Byte: tb[0]}
	}
}

func readFull(r io.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func decodeTextMessage(r io.Reader) (*TextMessage, error) {
	fixed, err := readFull(r, 2+NameLen+NameLen)
	if err != nil {
		return nil, fmt.Errorf("reading MESSAGE header: %w", err)
	}
	rd := NewReader(fixed)
	msgLen, err := rd.ReadShort()
	if err != nil {
		return nil, err
	}
	recipient, err := rd.ReadName()
	if err != nil {
		return nil, err
	}
	senderRaw, err := rd.ReadBytes(NameLen)
	if err != nil {
		return nil, err
	}
	sender, err := nameFromBytes(senderRaw)
	if err != nil {
		return nil, err
	}
	body, err := readFull(r, int(msgLen))
	if err != nil {
		return nil, fmt.Errorf("reading MESSAGE text: %w", err)
	}
	text, err := textFromBytes(body)
	if err != nil {
		return nil, err
	}
	return &TextMessage{
		Recipient: recipient,
		Sender:    sender,
		Narration: senderRaw[NameLen-2] == 0x00 && senderRaw[NameLen-1] == 0x01,
		Text:      text,
	}, nil
}

func decodeChangeRoom(r io.Reader) (*ChangeRoom, error) {
	fixed, err := readFull(r, 2)
	if err != nil {
		return nil, fmt.Errorf("reading CHANGEROOM: %w", err)
	}
	num, err := NewReader(fixed).ReadShort()
	if err != nil {
		return nil, err
	}
	return &ChangeRoom{RoomNumber: num}, nil
}

// decodeTarget reads the single name field shared by PVPFIGHT and LOOT.
func decodeTarget(r io.Reader) (string, error) {
	fixed, err := readFull(r, NameLen)
	if err != nil {
		return "", err
	}
	return nameFromBytes(fixed)
}

func decodeError(r io.Reader) (*Error, error) {
	fixed, err := readFull(r, 3)
	if err != nil {
		return nil, fmt.Errorf("reading ERROR header: %w", err)
	}
	rd := NewReader(fixed)
	code, err := rd.ReadByte()
	if err != nil {
		return nil, err
	}
	msgLen, err := rd.ReadShort()
	if err != nil {
		return nil, err
	}
	body, err := readFull(r, int(msgLen))
	if err != nil {
		return nil, fmt.Errorf("reading ERROR text: %w", err)
	}
	text, err := textFromBytes(body)
	if err != nil {
		return nil, err
	}
	return &Error{Code: ErrorCode(code), Text: text}, nil
}

func decodeAccept(r io.Reader) (*Accept, error) {
	fixed, err := readFull(r, 1)
	if err != nil {
		return nil, fmt.Errorf("reading ACCEPT: %w", err)
	}
	return &Accept{Action: Type(fixed[0])}, nil
}

// decodeLocation reads the layout shared by ROOM and CONNECTION.
func decodeLocation(r io.Reader) (uint16, string, string, error) {
	fixed, err := readFull(r, 2+NameLen+2)
	if err != nil {
		return 0, "", "", err
	}
	rd := NewReader(fixed)
	num, err := rd.ReadShort()
	if err != nil {
		return 0, "", "", err
	}
	name, err := rd.ReadName()
	if err != nil {
		return 0, "", "", err
	}
	descLen, err := rd.ReadShort()
	if err != nil {
		return 0, "", "", err
	}
	body, err := readFull(r, int(descLen))
	if err != nil {
		return 0, "", "", err
	}
	desc, err := textFromBytes(body)
	if err != nil {
		return 0, "", "", err
	}
	return num, name, desc, nil
}

func decodeCharacter(r io.Reader) (*Character, error) {
	fixed, err := readFull(r, NameLen+1+2+2+2+2+2+2+2)
	if err != nil {
		return nil, fmt.Errorf("reading CHARACTER header: %w", err)
	}
	rd := NewReader(fixed)
	name, err := rd.ReadName()
	if err != nil {
		return nil, err
	}
	flags, err := rd.ReadByte()
	if err != nil {
		return nil, err
	}
	attack, err := rd.ReadShort()
	if err != nil {
		return nil, err
	}
	defense, err := rd.ReadShort()
	if err != nil {
		return nil, err
	}
	regen, err := rd.ReadShort()
	if err != nil {
		return nil, err
	}
	health, err := rd.ReadSignedShort()
	if err != nil {
		return nil, err
	}
	gold, err := rd.ReadShort()
	if err != nil {
		return nil, err
	}
	room, err := rd.ReadShort()
	if err != nil {
		return nil, err
	}
	descLen, err := rd.ReadShort()
	if err != nil {
		return nil, err
	}
	body, err := readFull(r, int(descLen))
	if err != nil {
		return nil, fmt.Errorf("reading CHARACTER description: %w", err)
	}
	desc, err := textFromBytes(body)
	if err != nil {
		return nil, err
	}
	return &Character{
		Name:        name,
		Flags:       Flags(flags),
		Attack:      attack,
		Defense:     defense,
		Regen:       regen,
		Health:      health,
		Gold:        gold,
		RoomNumber:  room,
		Description: desc,
	}, nil
}

func decodeGame(r io.Reader) (*Game, error) {
	fixed, err := readFull(r, 2+2+2)
	if err != nil {
		return nil, fmt.Errorf("reading GAME header: %w", err)
	}
	rd := NewReader(fixed)
	initial, err := rd.ReadShort()
	if err != nil {
		return nil, err
	}
	limit, err := rd.ReadShort()
	if err != nil {
		return nil, err
	}
	descLen, err := rd.ReadShort()
	if err != nil {
		return nil, err
	}
	body, err := readFull(r, int(descLen))
	if err != nil {
		return nil, fmt.Errorf("reading GAME description: %w", err)
	}
	desc, err := textFromBytes(body)
	if err != nil {
		return nil, err
	}
	return &Game{InitialPoints: initial, StatLimit: limit, Description: desc}, nil
}

func decodeVersion(r io.Reader) (*Version, error) {
	fixed, err := readFull(r, 1+1+2)
	if err != nil {
		return nil, fmt.Errorf("reading VERSION header: %w", err)
	}
	rd := NewReader(fixed)
	major, err := rd.ReadByte()
	if err != nil {
		return nil, err
	}
	minor, err := rd.ReadByte()
	if err != nil {
		return nil, err
	}
	extLen, err := rd.ReadShort()
	if err != nil {
		return nil, err
	}
	ext, err := readFull(r, int(extLen))
	if err != nil {
		return nil, fmt.Errorf("reading VERSION extensions: %w", err)
	}
	if extLen == 0 {
		ext = nil
	}
	return &Version{Major: major, Minor: minor, Extensions: ext}, nil
}
