package handler

import (
	"net/http"

	"github.com/classroom-accounts/internal/domain"
)

func ListRoles(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, RolesEnvelope{Roles: domain.Roles()})
}
