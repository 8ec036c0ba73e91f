package common

// Client → server events
const (
	EventFriendRequest = "friend_request"
	EventAcceptRequest = "accept_request"
	EventGetFriends    = "get_friends"

	EventGetDirectConversations = "get_direct_conversations"
	EventStartConversation      = "start_conversation"
	EventGetMessages            = "get_messages"
	EventTextMessage            = "text_message"
	EventFileMessage            = "file_message"

	EventGetGroupConversations  = "get_direct_conversations_group"
	EventStartConversationGroup = "start_conversation_group"
	EventGetMessagesGroup       = "get_messages_group"
	EventTextMessageGroup       = "text_message_group"
	EventFileMessageGroup       = "file_message_group"

	EventStartAudioCall     = "start_audio_call"
	EventAudioCallNotPicked = "audio_call_not_picked"
	EventAudioCallAccepted  = "audio_call_accepted"
	EventAudioCallDenied    = "audio_call_denied"
	EventUserBusyAudioCall  = "user_is_busy_audio_call"

	EventStartVideoCall     = "start_video_call"
	EventVideoCallNotPicked = "video_call_not_picked"
	EventVideoCallAccepted  = "video_call_accepted"
	EventVideoCallDenied    = "video_call_denied"
	EventUserBusyVideoCall  = "user_is_busy_video_call"

	EventEnd = "end"
)

// Server → client events
const (
	EventNewFriendRequest = "new_friend_request"
	EventRequestSent      = "request_sent"
	EventRequestAccepted  = "request_accepted"
	EventFriends          = "friends"

	EventStartChat      = "start_chat"
	EventStartChatGroup = "start_chat_group"

	EventNewMessage          = "new_message"
	EventNewMessageGroup     = "new_message_group"
	EventNewFileMessageGroup = "new_file_message_group"

	EventDirectConversations = "direct_conversations"
	EventGroupConversations  = "group_conversations"
	EventMessages            = "messages"
	EventMessagesGroup       = "messages_group"

	EventAudioCallNotification = "audio_call_notification"
	EventVideoCallNotification = "video_call_notification"
	EventAudioCallMissed       = "audio_call_missed"
	EventVideoCallMissed       = "video_call_missed"
	EventOnAnotherAudioCall    = "on_another_audio_call"
	EventOnAnotherVideoCall    = "on_another_video_call"

	EventError = "error"
)
