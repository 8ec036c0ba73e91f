package gateway

// Inbound event payloads. Validation tags drive the structured rejection
// sent back on malformed payloads.

type friendRequestPayload struct {
	From string `json:"from" validate:"required"`
	To   string `json:"to" validate:"required"`
}

type acceptRequestPayload struct {
	RequestID string `json:"request_id" validate:"required"`
}

type userIDPayload struct {
	UserID string `json:"user_id" validate:"required"`
}

type startConversationPayload struct {
	From string `json:"from" validate:"required"`
	To   string `json:"to" validate:"required"`
}

type startGroupPayload struct {
	Participants []string `json:"participants" validate:"required,min=2,dive,required"`
}

type conversationIDPayload struct {
	ConversationID string `json:"conversation_id" validate:"required"`
}

type textMessagePayload struct {
	Message        string `json:"message" validate:"required"`
	ConversationID string `json:"conversation_id"`
	From           string `json:"from" validate:"required"`
	To             string `json:"to"`
	Type           string `json:"type"`
}

type groupTextMessagePayload struct {
	Message        string   `json:"message" validate:"required"`
	ConversationID string   `json:"conversation_id"`
	From           string   `json:"from" validate:"required"`
	Participants   []string `json:"participants"`
}

type fileMessagePayload struct {
	From           string `json:"from" validate:"required"`
	To             string `json:"to" validate:"required"`
	ConversationID string `json:"conversation_id"`
	NameFile       string `json:"name_file" validate:"required"`
	File           []byte `json:"file" validate:"required"` // base64 on the wire
}

type groupFileMessagePayload struct {
	From           string   `json:"from" validate:"required"`
	ConversationID string   `json:"conversation_id"`
	Participants   []string `json:"participants"`
	NameFile       string   `json:"name_file" validate:"required"`
	File           []byte   `json:"file" validate:"required"`
}

type startCallPayload struct {
	From   string `json:"from" validate:"required"`
	To     string `json:"to" validate:"required"`
	RoomID string `json:"roomID" validate:"required"`
}

type callPayload struct {
	From string `json:"from" validate:"required"`
	To   string `json:"to" validate:"required"`
}

type endPayload struct {
	UserID string `json:"user_id"`
}

// messageNotification is the payload of new_message, new_message_group and
// new_file_message_group
type messageNotification struct {
	ConversationID string      `json:"conversation_id"`
	Message        interface{} `json:"message"`
}

// callNotification is the payload of audio_call_notification and
// video_call_notification; it carries what the receiver needs to join the
// call room
type callNotification struct {
	From     interface{} `json:"from"`
	RoomID   string      `json:"roomID"`
	StreamID string      `json:"streamID"`
	UserID   string      `json:"userID"`
	UserName string      `json:"userName"`
}

// callUpdate is the payload of the call disposition events
type callUpdate struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type errorPayload struct {
	Event   string `json:"event"`
	Message string `json:"message"`
}

type infoPayload struct {
	Message string `json:"message"`
}
