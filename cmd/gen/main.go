package main

import (
	"orienteer/internal/infra/persistence/model"

	"gorm.io/gen"
)

func main() {
	models := []any{
		model.UserModel{},
		model.EventModel{},
		model.EventPasswordModel{},
		model.OAuthClientModel{},
		model.OAuthClientGrantModel{},
		model.OAuthClientRedirectURIModel{},
		model.OAuthClientScopeModel{},
		model.OAuthAccessTokenModel{},
		model.OAuthRefreshTokenModel{},
	}

	gen := gen.NewGenerator(gen.Config{
		OutPath: "./internal/infra/persistence/postgres/query",
	})

	gen.ApplyBasic(models...)

	gen.Execute()
}
