// Package media receives file payloads from live connections, persists
// them to durable storage and fans out the resulting messages.
package media

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gorelay/internal/common"
	"gorelay/internal/config"
	"gorelay/internal/dbmongo"
	"gorelay/internal/dbmysql"
)

// ObjectStorage is the durable store uploads land in
type ObjectStorage interface {
	UploadFile(ctx context.Context, filename, uploaderID string, kind common.MessageKind, content io.Reader) (*dbmongo.MediaFile, error)
}

// ConversationStore resolves conversations and appends the finished file
// message
type ConversationStore interface {
	ResolveDirect(ctx context.Context, conversationID, from, to string) (*dbmysql.Conversation, error)
	ResolveGroup(ctx context.Context, conversationID string, participants []string) (*dbmysql.Conversation, error)
	AppendFileMessage(ctx context.Context, msg *dbmysql.Message) (*dbmysql.Message, error)
}

// Notifier delivers an event to a user's live connection, best effort
type Notifier interface {
	Deliver(userID, event string, payload interface{}) bool
}

// Upload is one file payload received over a live connection
type Upload struct {
	Direct         bool // direct chat when true, group chat when false
	ConversationID string
	From           string
	To             string
	Participants   []string
	FileName       string
	Data           []byte
}

// Pipeline runs uploads on a worker pool so the slow remote-storage call
// never blocks event handling on the connection that sent the file.
type Pipeline struct {
	storage  ObjectStorage
	chat     ConversationStore
	notifier Notifier
	dir      string

	uploads chan Upload
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewPipeline(storage ObjectStorage, chat ConversationStore, notifier Notifier, cnf *config.Config) *Pipeline {
	ctx, cancel := context.WithCancel(context.Background())

	p := &Pipeline{
		storage:  storage,
		chat:     chat,
		notifier: notifier,
		dir:      cnf.Upload.Dir,
		uploads:  make(chan Upload, 256),
		ctx:      ctx,
		cancel:   cancel,
	}

	workers := cnf.Upload.Workers
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.processUploads()
	}

	return p
}

// Enqueue hands an upload to the worker pool. A full queue drops the upload
// and logs it; there is no delivery guarantee to honor.
func (p *Pipeline) Enqueue(u Upload) {
	select {
	case p.uploads <- u:

	case <-p.ctx.Done():
		return
	default:
		log.Printf("upload queue full, dropping file %s from %s", u.FileName, u.From)
	}
}

func (p *Pipeline) processUploads() {
	defer p.wg.Done()

	for {
		select {
		case u := <-p.uploads:
			p.process(u)
		case <-p.ctx.Done():
			return
		}
	}
}

// process runs the five pipeline steps: classify, stage to transient
// storage, stream to durable storage, append the message, notify. The
// transient copy is removed on every exit path.
func (p *Pipeline) process(u Upload) {
	kind := common.ClassifyFileName(u.FileName)

	// collision-resistant storage key
	name := fmt.Sprintf("%d_%s", time.Now().UnixMilli(), filepath.Base(u.FileName))

	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		log.Printf("upload: cannot create transient dir: %v", err)
		return
	}
	path := filepath.Join(p.dir, name)
	if err := os.WriteFile(path, u.Data, 0o644); err != nil {
		log.Printf("upload: error saving transient file: %v", err)
		return
	}
	defer func() {
		if err := os.Remove(path); err != nil {
			log.Printf("upload: error deleting transient file %s: %v", path, err)
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		log.Printf("upload: error reading transient file %s: %v", path, err)
		return
	}
	stored, err := p.storage.UploadFile(p.ctx, name, u.From, kind, f)
	f.Close()
	if err != nil {
		log.Printf("upload: remote storage failed for %s: %v", name, err)
		return
	}

	var conv *dbmysql.Conversation
	if u.Direct {
		conv, err = p.chat.ResolveDirect(p.ctx, u.ConversationID, u.From, u.To)
	} else {
		conv, err = p.chat.ResolveGroup(p.ctx, u.ConversationID, u.Participants)
	}
	if err != nil {
		log.Printf("upload: cannot resolve conversation for file %s: %v", name, err)
		return
	}

	msg := &dbmysql.Message{
		ConversationID: conv.ID,
		SenderID:       u.From,
		Kind:           kind.String(),
		Text:           u.FileName,
		FileURL:        "/media/" + stored.ID,
		CreatedAt:      time.Now().UTC(),
	}
	if u.Direct {
		msg.RecipientID = otherParticipant(conv, u.From)
	}

	saved, err := p.chat.AppendFileMessage(p.ctx, msg)
	if err != nil {
		log.Printf("upload: error appending file message: %v", err)
		return
	}

	event := common.EventNewMessage
	if !u.Direct {
		event = common.EventNewFileMessageGroup
	}
	payload := map[string]interface{}{
		"conversation_id": conv.ID,
		"message":         saved,
	}
	for _, id := range conv.Participants() {
		p.notifier.Deliver(id, event, payload)
	}
}

// Shutdown stops the workers. Queued uploads that have not started are
// dropped.
func (p *Pipeline) Shutdown() {
	p.cancel()
	p.wg.Wait()
}

func otherParticipant(conv *dbmysql.Conversation, from string) string {
	participants := conv.Participants()
	if len(participants) == 0 {
		return ""
	}
	to := participants[0]
	if to == from && len(participants) > 1 {
		to = participants[1]
	}
	return to
}
