package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"zonetrack/internal/models"
	"zonetrack/internal/services/workspace"
)

// The record handlers serve both depths; zoneId is empty on the location
// level routes.
func recordPath(r *http.Request) models.RecordPath {
	return models.RecordPath{LocationID: param(r, "locationId"), ZoneID: param(r, "zoneId")}
}

func CreateRecord(svc *workspace.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req workspace.RecordInput
		if err := decode(r, &req); err != nil {
			respondError(w, lg, r, err)
			return
		}
		rec, err := svc.AddRecord(r.Context(), param(r, "clientId"), recordPath(r), req)
		if err != nil {
			respondError(w, lg, r, err)
			return
		}
		respondJSON(w, http.StatusCreated, rec)
	}
}

func UpdateRecord(svc *workspace.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req workspace.RecordInput
		if err := decode(r, &req); err != nil {
			respondError(w, lg, r, err)
			return
		}
		rec, err := svc.UpdateRecord(r.Context(), param(r, "clientId"), recordPath(r), param(r, "recordId"), req)
		if err != nil {
			respondError(w, lg, r, err)
			return
		}
		respondJSON(w, http.StatusOK, rec)
	}
}

func DeleteRecord(svc *workspace.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteRecord(r.Context(), param(r, "clientId"), recordPath(r), param(r, "recordId")); err != nil {
			respondError(w, lg, r, err)
			return
		}
		respondMessage(w, http.StatusOK, "Record deleted successfully")
	}
}
