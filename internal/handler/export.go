package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/shiftboard/shift-scheduler/backend/internal/access"
	"github.com/shiftboard/shift-scheduler/backend/internal/export"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (h *Handler) ExportSchedule(w http.ResponseWriter, r *http.Request) {
	ds, err := export.Load(h.repository, access.AccessibleEmployeeIDs(claimsFrom(r)))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// render fully before writing headers so a failure can still become a JSON error
	var buf bytes.Buffer
	if err := export.WriteWorkbook(&buf, ds); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	filename := fmt.Sprintf("schedule-%s.xlsx", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
