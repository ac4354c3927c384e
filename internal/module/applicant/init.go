package applicant

import (
	"log/slog"

	"team-recruit/internal/admission"
	"team-recruit/internal/auth"
	"team-recruit/internal/global/logger"
)

var log *slog.Logger

type ModuleApplicant struct {
	Admission  *admission.Controller
	Authorizer *auth.Authorizer
}

func (m *ModuleApplicant) GetName() string {
	return "Applicant"
}

func (m *ModuleApplicant) Init() {
	log = logger.New("Applicant")
}
