// Package di assembles the application graph with wire.
package di

import (
	"gorm.io/gorm"

	chatservice "gorelay/internal/chat/service"
	"gorelay/internal/common"
	"gorelay/internal/config"
	"gorelay/internal/dbmongo"
	"gorelay/internal/gateway"
	"gorelay/internal/media"
	"gorelay/internal/presence"
	"gorelay/internal/user"
)

// Application holds everything the server binary runs and tears down.
type Application struct {
	Config   *config.Config
	DB       *gorm.DB
	Mongo    *dbmongo.MongoClient
	Registry *presence.Registry
	Pipeline *media.Pipeline
	Gateway  *gateway.Gateway
	Media    *media.HTTPServer
}

// Interface adapters. The concrete types already satisfy the consumer-side
// interfaces; these providers just name the bindings for wire.

func provideUserLoader(repo user.UserRepository) chatservice.UserLoader {
	return repo
}

func provideStatusStore(repo user.UserRepository) presence.StatusStore {
	return repo
}

func provideObjectStorage(storage *dbmongo.MediaStorage) media.ObjectStorage {
	return storage
}

func provideConversationStore(svc chatservice.ChatService) media.ConversationStore {
	return svc
}

func provideNotifier(registry *presence.Registry) media.Notifier {
	return registry
}

func provideUploader(pipeline *media.Pipeline) gateway.Uploader {
	return pipeline
}

func provideTokenVerifier(cnf *config.Config) *common.TokenVerifier {
	return common.NewTokenVerifier(cnf.Auth.JWTSecret)
}
