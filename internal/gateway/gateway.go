// Package gateway terminates live websocket connections and routes the
// event surface onto the chat, call, friend and upload services.
package gateway

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"

	"gorelay/internal/call"
	chatservice "gorelay/internal/chat/service"
	"gorelay/internal/common"
	"gorelay/internal/dbmysql"
	"gorelay/internal/media"
	"gorelay/internal/presence"
	"gorelay/internal/user"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Uploader hands file payloads to the asynchronous upload pipeline
type Uploader interface {
	Enqueue(u media.Upload)
}

// session is the connection surface the dispatcher writes back to
type session interface {
	presence.Conn
	UserID() string
}

type Gateway struct {
	registry *presence.Registry
	chat     chatservice.ChatService
	calls    call.CallService
	friends  user.FriendService
	users    user.UserRepository
	uploads  Uploader
	verifier *common.TokenVerifier
	validate *validator.Validate
}

func NewGateway(
	registry *presence.Registry,
	chat chatservice.ChatService,
	calls call.CallService,
	friends user.FriendService,
	users user.UserRepository,
	uploads Uploader,
	verifier *common.TokenVerifier,
) *Gateway {
	return &Gateway{
		registry: registry,
		chat:     chat,
		calls:    calls,
		friends:  friends,
		users:    users,
		uploads:  uploads,
		verifier: verifier,
		validate: validator.New(),
	}
}

// ServeWS upgrades the connection and registers the user's presence. A
// missing identity is tolerated: the connection stays anonymous and is
// never registered, so nothing can be routed to it.
func (g *Gateway) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID := g.identify(r)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("gateway: upgrade failed: %v", err)
		return
	}

	client := newClient(g, conn, userID)
	if userID != "" {
		g.registry.Register(r.Context(), userID, client)
	}
	log.Printf("gateway: connection %s established (user %q)", client.id, userID)

	go client.writePump()
	go client.readPump()
}

// identify resolves the connecting user. A signed token wins over the
// plain user_id query parameter when both are present.
func (g *Gateway) identify(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		userID, err := g.verifier.VerifyToken(token)
		if err != nil {
			log.Printf("gateway: rejected token: %v", err)
			return ""
		}
		return userID
	}
	return r.URL.Query().Get("user_id")
}

func (g *Gateway) disconnect(c *Client) {
	if c.userID != "" {
		g.registry.Release(context.Background(), c.userID, c)
	}
	c.Close()
	log.Printf("gateway: connection %s closed", c.id)
}

func (g *Gateway) dispatch(c session, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.Send(common.EventError, errorPayload{Message: "malformed event frame"})
		return
	}
	g.handleEvent(context.Background(), c, env.Event, env.Data)
}

// handleEvent routes one inbound event. Malformed payloads are rejected
// with an error event; service failures are logged and the operation
// no-ops, matching the best-effort contract of the socket surface.
func (g *Gateway) handleEvent(ctx context.Context, c session, event string, data json.RawMessage) {
	switch event {
	case common.EventFriendRequest:
		g.handleFriendRequest(ctx, c, data)
	case common.EventAcceptRequest:
		g.handleAcceptRequest(ctx, c, data)
	case common.EventGetFriends:
		g.handleGetFriends(ctx, c, data)

	case common.EventGetDirectConversations:
		g.handleListConversations(ctx, c, data, true)
	case common.EventGetGroupConversations:
		g.handleListConversations(ctx, c, data, false)
	case common.EventStartConversation:
		g.handleStartConversation(ctx, c, data)
	case common.EventStartConversationGroup:
		g.handleStartGroup(ctx, c, data)
	case common.EventGetMessages:
		g.handleGetMessages(ctx, c, data, common.EventMessages)
	case common.EventGetMessagesGroup:
		g.handleGetMessages(ctx, c, data, common.EventMessagesGroup)
	case common.EventTextMessage:
		g.handleTextMessage(ctx, c, data)
	case common.EventTextMessageGroup:
		g.handleGroupTextMessage(ctx, c, data)
	case common.EventFileMessage:
		g.handleFileMessage(c, data)
	case common.EventFileMessageGroup:
		g.handleGroupFileMessage(c, data)

	case common.EventStartAudioCall:
		g.handleStartCall(ctx, c, data, dbmysql.CallKindAudio)
	case common.EventStartVideoCall:
		g.handleStartCall(ctx, c, data, dbmysql.CallKindVideo)
	case common.EventAudioCallNotPicked:
		g.handleCallUpdate(ctx, c, data, dbmysql.CallKindAudio, event)
	case common.EventVideoCallNotPicked:
		g.handleCallUpdate(ctx, c, data, dbmysql.CallKindVideo, event)
	case common.EventAudioCallAccepted:
		g.handleCallUpdate(ctx, c, data, dbmysql.CallKindAudio, event)
	case common.EventVideoCallAccepted:
		g.handleCallUpdate(ctx, c, data, dbmysql.CallKindVideo, event)
	case common.EventAudioCallDenied:
		g.handleCallUpdate(ctx, c, data, dbmysql.CallKindAudio, event)
	case common.EventVideoCallDenied:
		g.handleCallUpdate(ctx, c, data, dbmysql.CallKindVideo, event)
	case common.EventUserBusyAudioCall:
		g.handleCallUpdate(ctx, c, data, dbmysql.CallKindAudio, event)
	case common.EventUserBusyVideoCall:
		g.handleCallUpdate(ctx, c, data, dbmysql.CallKindVideo, event)

	case common.EventEnd:
		g.handleEnd(ctx, c, data)

	default:
		c.Send(common.EventError, errorPayload{Event: event, Message: "unknown event"})
	}
}

// decode unmarshals and validates an event payload, answering the sender
// with a structured rejection when it is malformed
func (g *Gateway) decode(c session, event string, data json.RawMessage, out interface{}) bool {
	if err := json.Unmarshal(data, out); err != nil {
		c.Send(common.EventError, errorPayload{Event: event, Message: "malformed payload"})
		return false
	}
	if err := g.validate.Struct(out); err != nil {
		c.Send(common.EventError, errorPayload{Event: event, Message: err.Error()})
		return false
	}
	return true
}

func (g *Gateway) handleFriendRequest(ctx context.Context, c session, data json.RawMessage) {
	var p friendRequestPayload
	if !g.decode(c, common.EventFriendRequest, data, &p) {
		return
	}

	if _, err := g.friends.SendRequest(ctx, p.From, p.To); err != nil {
		log.Printf("gateway: friend request %s -> %s failed: %v", p.From, p.To, err)
		return
	}

	g.registry.Deliver(p.To, common.EventNewFriendRequest, infoPayload{Message: "New friend request received"})
	g.registry.Deliver(p.From, common.EventRequestSent, infoPayload{Message: "Request sent successfully"})
}

func (g *Gateway) handleAcceptRequest(ctx context.Context, c session, data json.RawMessage) {
	var p acceptRequestPayload
	if !g.decode(c, common.EventAcceptRequest, data, &p) {
		return
	}

	req, err := g.friends.AcceptRequest(ctx, p.RequestID)
	if err != nil {
		log.Printf("gateway: accepting request %s failed: %v", p.RequestID, err)
		return
	}

	accepted := infoPayload{Message: "Friend request accepted"}
	g.registry.Deliver(req.SenderID, common.EventRequestAccepted, accepted)
	g.registry.Deliver(req.RecipientID, common.EventRequestAccepted, accepted)
}

func (g *Gateway) handleGetFriends(ctx context.Context, c session, data json.RawMessage) {
	var p userIDPayload
	if !g.decode(c, common.EventGetFriends, data, &p) {
		return
	}

	friends, err := g.friends.ListFriends(ctx, p.UserID)
	if err != nil {
		log.Printf("gateway: listing friends for %s failed: %v", p.UserID, err)
		return
	}
	c.Send(common.EventFriends, friends)
}

func (g *Gateway) handleListConversations(ctx context.Context, c session, data json.RawMessage, direct bool) {
	event := common.EventGetDirectConversations
	reply := common.EventDirectConversations
	if !direct {
		event = common.EventGetGroupConversations
		reply = common.EventGroupConversations
	}

	var p userIDPayload
	if !g.decode(c, event, data, &p) {
		return
	}

	var views []*chatservice.ConversationView
	var err error
	if direct {
		views, err = g.chat.ListDirect(ctx, p.UserID)
	} else {
		views, err = g.chat.ListGroup(ctx, p.UserID)
	}
	if err != nil {
		log.Printf("gateway: listing conversations for %s failed: %v", p.UserID, err)
		return
	}
	c.Send(reply, views)
}

func (g *Gateway) handleStartConversation(ctx context.Context, c session, data json.RawMessage) {
	var p startConversationPayload
	if !g.decode(c, common.EventStartConversation, data, &p) {
		return
	}

	view, err := g.chat.StartDirect(ctx, p.From, p.To)
	if err != nil {
		log.Printf("gateway: start conversation %s -> %s failed: %v", p.From, p.To, err)
		return
	}
	c.Send(common.EventStartChat, view)
}

func (g *Gateway) handleStartGroup(ctx context.Context, c session, data json.RawMessage) {
	var p startGroupPayload
	if !g.decode(c, common.EventStartConversationGroup, data, &p) {
		return
	}

	view, err := g.chat.StartGroup(ctx, p.Participants)
	if err != nil {
		log.Printf("gateway: start group conversation failed: %v", err)
		return
	}
	c.Send(common.EventStartChatGroup, view)
}

func (g *Gateway) handleGetMessages(ctx context.Context, c session, data json.RawMessage, reply string) {
	event := common.EventGetMessages
	if reply == common.EventMessagesGroup {
		event = common.EventGetMessagesGroup
	}

	var p conversationIDPayload
	if !g.decode(c, event, data, &p) {
		return
	}

	messages, err := g.chat.History(ctx, p.ConversationID)
	if err != nil {
		log.Printf("gateway: fetching messages for %s failed: %v", p.ConversationID, err)
		return
	}
	c.Send(reply, messages)
}

func (g *Gateway) handleTextMessage(ctx context.Context, c session, data json.RawMessage) {
	var p textMessagePayload
	if !g.decode(c, common.EventTextMessage, data, &p) {
		return
	}

	conv, msg, err := g.chat.SendDirectText(ctx, chatservice.DirectText{
		ConversationID: p.ConversationID,
		From:           p.From,
		To:             p.To,
		Kind:           p.Type,
		Text:           p.Message,
	})
	if err != nil {
		log.Printf("gateway: text message from %s failed: %v", p.From, err)
		return
	}

	// both sides of the stored pair, not the caller's `to`
	payload := messageNotification{ConversationID: conv.ID, Message: msg}
	g.registry.DeliverAll(conv.Participants(), common.EventNewMessage, payload)
}

func (g *Gateway) handleGroupTextMessage(ctx context.Context, c session, data json.RawMessage) {
	var p groupTextMessagePayload
	if !g.decode(c, common.EventTextMessageGroup, data, &p) {
		return
	}

	conv, msg, err := g.chat.SendGroupText(ctx, chatservice.GroupText{
		ConversationID: p.ConversationID,
		From:           p.From,
		Participants:   p.Participants,
		Text:           p.Message,
	})
	if err != nil {
		log.Printf("gateway: group text message from %s failed: %v", p.From, err)
		return
	}

	payload := messageNotification{ConversationID: conv.ID, Message: msg}
	g.registry.DeliverAll(conv.Participants(), common.EventNewMessageGroup, payload)
}

func (g *Gateway) handleFileMessage(c session, data json.RawMessage) {
	var p fileMessagePayload
	if !g.decode(c, common.EventFileMessage, data, &p) {
		return
	}

	g.uploads.Enqueue(media.Upload{
		Direct:         true,
		ConversationID: p.ConversationID,
		From:           p.From,
		To:             p.To,
		FileName:       p.NameFile,
		Data:           p.File,
	})
}

func (g *Gateway) handleGroupFileMessage(c session, data json.RawMessage) {
	var p groupFileMessagePayload
	if !g.decode(c, common.EventFileMessageGroup, data, &p) {
		return
	}

	g.uploads.Enqueue(media.Upload{
		ConversationID: p.ConversationID,
		From:           p.From,
		Participants:   p.Participants,
		FileName:       p.NameFile,
		Data:           p.File,
	})
}

func (g *Gateway) handleStartCall(ctx context.Context, c session, data json.RawMessage, kind string) {
	event := common.EventStartAudioCall
	notification := common.EventAudioCallNotification
	if kind == dbmysql.CallKindVideo {
		event = common.EventStartVideoCall
		notification = common.EventVideoCallNotification
	}

	var p startCallPayload
	if !g.decode(c, event, data, &p) {
		return
	}

	if _, err := g.calls.Start(ctx, kind, p.From, p.To, p.RoomID); err != nil {
		log.Printf("gateway: starting %s call %s -> %s failed: %v", kind, p.From, p.To, err)
		return
	}

	fromUser, err := g.users.GetUser(ctx, p.From)
	if err != nil {
		log.Printf("gateway: caller %s not loadable: %v", p.From, err)
	}

	g.registry.Deliver(p.To, notification, callNotification{
		From:     fromUser,
		RoomID:   p.RoomID,
		StreamID: p.From,
		UserID:   p.To,
		UserName: p.To,
	})
}

// handleCallUpdate drives one disposition event through the call state
// machine and notifies the other side
func (g *Gateway) handleCallUpdate(ctx context.Context, c session, data json.RawMessage, kind, event string) {
	var p callPayload
	if !g.decode(c, event, data, &p) {
		return
	}

	var err error
	var notifyTarget, notifyEvent string

	switch event {
	case common.EventAudioCallNotPicked, common.EventVideoCallNotPicked:
		_, err = g.calls.NotPicked(ctx, kind, p.From, p.To)
		notifyTarget = p.To
		notifyEvent = common.EventAudioCallMissed
		if kind == dbmysql.CallKindVideo {
			notifyEvent = common.EventVideoCallMissed
		}
	case common.EventAudioCallAccepted, common.EventVideoCallAccepted:
		_, err = g.calls.Accept(ctx, kind, p.From, p.To)
		notifyTarget = p.From
		notifyEvent = event
	case common.EventAudioCallDenied, common.EventVideoCallDenied:
		_, err = g.calls.Deny(ctx, kind, p.From, p.To)
		notifyTarget = p.From
		notifyEvent = event
	case common.EventUserBusyAudioCall, common.EventUserBusyVideoCall:
		_, err = g.calls.Busy(ctx, kind, p.From, p.To)
		notifyTarget = p.From
		notifyEvent = common.EventOnAnotherAudioCall
		if kind == dbmysql.CallKindVideo {
			notifyEvent = common.EventOnAnotherVideoCall
		}
	}
	if err != nil {
		log.Printf("gateway: %s for pair (%s, %s) failed: %v", event, p.From, p.To, err)
		return
	}

	g.registry.Deliver(notifyTarget, notifyEvent, callUpdate{From: p.From, To: p.To})
}

// handleEnd marks the user offline and closes the connection
func (g *Gateway) handleEnd(ctx context.Context, c session, data json.RawMessage) {
	var p endPayload
	if len(data) > 0 {
		_ = json.Unmarshal(data, &p)
	}

	userID := p.UserID
	if userID == "" {
		userID = c.UserID()
	}
	if userID != "" {
		g.registry.Release(ctx, userID, nil)
	}
	c.Close()
}
