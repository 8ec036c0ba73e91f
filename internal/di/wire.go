//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"gorelay/internal/call"
	"gorelay/internal/chat/repository"
	"gorelay/internal/chat/service"
	"gorelay/internal/config"
	"gorelay/internal/dbmongo"
	"gorelay/internal/dbmysql"
	"gorelay/internal/gateway"
	"gorelay/internal/media"
	"gorelay/internal/presence"
	"gorelay/internal/user"
)

// This is just a declaration — wire will generate the real body
func InitApplication(cnf *config.Config) (*Application, error) {
	wire.Build(
		dbmysql.NewMySQL,
		dbmongo.NewMongoConnection,
		dbmongo.NewMediaStorage,

		user.NewUserRepository,
		user.NewFriendRepository,
		user.NewFriendService,

		repository.NewChatRepository,
		service.NewChatService,

		call.NewCallRepository,
		call.NewCallService,

		presence.NewRegistry,
		media.NewPipeline,
		media.NewHTTPServer,
		gateway.NewGateway,

		provideUserLoader,
		provideStatusStore,
		provideObjectStorage,
		provideConversationStore,
		provideNotifier,
		provideUploader,
		provideTokenVerifier,

		wire.Struct(new(Application), "*"),
	)
	return &Application{}, nil // dummy for compilation
}
