package page

// MessageKind mirrors the status message types of the hosting CMS.
type MessageKind string

const (
	MessageStatus  MessageKind = "status"
	MessageWarning MessageKind = "warning"
	MessageError   MessageKind = "error"
)

// Message is a status line shown above the form. Text may carry inline links;
// it is sanitized before rendering.
type Message struct {
	Kind MessageKind
	Text string
}

// Status returns a status message.
func Status(text string) Message { return Message{Kind: MessageStatus, Text: text} }

// Warning returns a warning message.
func Warning(text string) Message { return Message{Kind: MessageWarning, Text: text} }

// Error returns an error message.
func Error(text string) Message { return Message{Kind: MessageError, Text: text} }

func (m Message) role() string {
	if m.Kind == MessageError {
		return "alert"
	}
	return "status"
}

func (m Message) kind() string {
	if m.Kind == "" {
		return string(MessageStatus)
	}
	return string(m.Kind)
}
