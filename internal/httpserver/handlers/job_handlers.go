package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"zonetrack/internal/services/workspace"
)

func CreateJob(svc *workspace.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req workspace.JobInput
		if err := decode(r, &req); err != nil {
			respondError(w, lg, r, err)
			return
		}
		job, err := svc.AddJob(r.Context(), param(r, "clientId"), req)
		if job == nil {
			respondError(w, lg, r, err)
			return
		}
		respondResult(w, lg, r, http.StatusCreated, map[string]any{"message": "Job created successfully", "jobId": job.ID}, err)
	}
}

func UpdateJob(svc *workspace.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req workspace.JobInput
		if err := decode(r, &req); err != nil {
			respondError(w, lg, r, err)
			return
		}
		job, err := svc.UpdateJob(r.Context(), param(r, "clientId"), param(r, "jobId"), req)
		if err != nil {
			respondError(w, lg, r, err)
			return
		}
		respondJSON(w, http.StatusOK, job)
	}
}

func DeleteJob(svc *workspace.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteJob(r.Context(), param(r, "clientId"), param(r, "jobId")); err != nil {
			respondError(w, lg, r, err)
			return
		}
		respondMessage(w, http.StatusOK, "Job deleted successfully")
	}
}
