package common

import (
	"path/filepath"
	"strings"
)

// MessageKind represents the semantic kind of a conversation message
type MessageKind string

const (
	MessageKindText  MessageKind = "Text"
	MessageKindImage MessageKind = "Image"
	MessageKindVideo MessageKind = "Video"
	MessageKindFile  MessageKind = "File"
	MessageKindLink  MessageKind = "Link"
)

// String returns the string representation
func (mk MessageKind) String() string {
	return string(mk)
}

// IsValid checks if the message kind is valid
func (mk MessageKind) IsValid() bool {
	switch mk {
	case MessageKindText, MessageKindImage, MessageKindVideo, MessageKindFile, MessageKindLink:
		return true
	}
	return false
}

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
}

var videoExtensions = map[string]bool{
	".mp4": true, ".avi": true, ".mov": true, ".flv": true,
}

// ClassifyFileName maps a file name to a message kind by its extension.
// Extensions outside the image/video allow-lists classify as generic File.
func ClassifyFileName(name string) MessageKind {
	ext := strings.ToLower(filepath.Ext(name))
	if imageExtensions[ext] {
		return MessageKindImage
	}
	if videoExtensions[ext] {
		return MessageKindVideo
	}
	return MessageKindFile
}
