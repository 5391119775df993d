package httpapi

import (
	"net/http"
	"sync/atomic"

	"jobmatch-engine/internal/config"
	"jobmatch-engine/internal/secrets"
)

type SecretsHandler struct {
	CfgVal *atomic.Value // stores config.Config
}

type setPasswordReq struct {
	Password string `json:"password"`
}

func (h SecretsHandler) account() string {
	cfg := h.CfgVal.Load().(config.Config)
	return secrets.PostgresAccount(cfg.Postgres.KeyringAccount)
}

func (h SecretsHandler) SetPostgresPassword(w http.ResponseWriter, r *http.Request) {
	var req setPasswordReq
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	if err := secrets.SetPostgresPassword(h.account(), req.Password); err != nil {
		WriteError(w, r, http.StatusBadRequest, "store_failed", "failed to store password: "+err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h SecretsHandler) DeletePostgresPassword(w http.ResponseWriter, r *http.Request) {
	if err := secrets.DeletePostgresPassword(h.account()); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "delete_failed", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
