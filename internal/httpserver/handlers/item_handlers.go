package handlers

import (
	"bytes"
	"net/http"

	"go.uber.org/zap"

	"zonetrack/internal/services/workspace"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func ListItems(svc *workspace.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Items(r.Context(), param(r, "clientId"))
		if err != nil {
			respondError(w, lg, r, err)
			return
		}
		respondJSON(w, http.StatusOK, items)
	}
}

func CreateItem(svc *workspace.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req workspace.ItemInput
		if err := decode(r, &req); err != nil {
			respondError(w, lg, r, err)
			return
		}
		it, err := svc.AddItem(r.Context(), param(r, "clientId"), req)
		if err != nil {
			respondError(w, lg, r, err)
			return
		}
		respondJSON(w, http.StatusCreated, it)
	}
}

func UpdateItem(svc *workspace.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req workspace.ItemInput
		if err := decode(r, &req); err != nil {
			respondError(w, lg, r, err)
			return
		}
		it, err := svc.UpdateItem(r.Context(), param(r, "clientId"), param(r, "itemId"), req)
		if err != nil {
			respondError(w, lg, r, err)
			return
		}
		respondJSON(w, http.StatusOK, it)
	}
}

func DeleteItem(svc *workspace.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteItem(r.Context(), param(r, "clientId"), param(r, "itemId")); err != nil {
			respondError(w, lg, r, err)
			return
		}
		respondMessage(w, http.StatusOK, "Item deleted successfully")
	}
}

// ExportItems buffers the workbook so a failure can still be reported as JSON.
func ExportItems(svc *workspace.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := svc.ExportItems(r.Context(), param(r, "clientId"), &buf); err != nil {
			respondError(w, lg, r, err)
			return
		}
		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", `attachment; filename="items.xlsx"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
	}
}
