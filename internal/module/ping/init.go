package ping

import (
	"log/slog"

	"team-recruit/internal/global/logger"

	"gorm.io/gorm"
)

var log *slog.Logger

type ModulePing struct {
	DB *gorm.DB
}

func (p *ModulePing) GetName() string {
	return "Ping"
}

func (p *ModulePing) Init() {
	log = logger.New("Ping")
}
