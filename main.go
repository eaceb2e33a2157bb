package main

import (
	"os"

	"github.com/adelelawady/stacktogether/config"
	"github.com/adelelawady/stacktogether/models"
	"github.com/adelelawady/stacktogether/routes"
	"github.com/adelelawady/stacktogether/utils"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log.Logger = zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	utils.SetJWTSecret(cfg.JWTSecret)

	db, err := config.ConnectDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}

	if err := db.AutoMigrate(
		&models.Profile{},
		&models.Skill{},
		&models.UserSkill{},
		&models.Category{},
		&models.Bookmark{},
		&models.Endorsement{},
		&models.Project{},
		&models.ProjectSkill{},
		&models.ProjectMember{},
		&models.ProjectJoinRequest{},
		&models.TaskList{},
		&models.Task{},
		&models.Comment{},
		&models.CommentReaction{},
	); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	r := routes.SetupRouter(db)

	log.Info().Str("addr", cfg.ListenAddr).Msg("starting server")
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
