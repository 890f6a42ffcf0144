package vm

type MessageType int

const (
	_ MessageType = iota
	MsgStep
	MsgLog
	MsgError
)

func (mt MessageType) String() string {
	switch mt {
	case MsgStep:
		return "Step"
	case MsgLog:
		return "Log"
	case MsgError:
		return "Error"
	default:
		return "Unknown"
	}
}

type Message struct {
	Type    MessageType
	PC      uint32
	Message string
}

func NewMessage(mt MessageType, pc uint32, msg string) Message {
	return Message{
		Type:    mt,
		PC:      pc,
		Message: msg,
	}
}
