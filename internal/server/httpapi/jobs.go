package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/jobboard/internal/common"
	"github.com/dmitrijs2005/jobboard/internal/server/auth"
	"github.com/dmitrijs2005/jobboard/internal/server/models"
)

func caller(r *http.Request) models.Identity {
	id, _ := auth.IdentityFrom(r.Context())
	return id
}

func (h *Handler) createJob(w http.ResponseWriter, r *http.Request) {
	var in models.JobInput
	if err := readJSON(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}

	job, err := h.jobs.Create(r.Context(), caller(r), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{"message": "Job posted successfully", "job": job})
}

func (h *Handler) listJobs(w http.ResponseWriter, r *http.Request) {
	filter, err := parseJobFilter(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	jobs, err := h.jobs.List(r.Context(), filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"jobs": jobs})
}

func parseJobFilter(r *http.Request) (models.JobFilter, error) {
	q := r.URL.Query()
	f := models.JobFilter{
		Category: strings.TrimSpace(q.Get("category")),
		City:     strings.TrimSpace(q.Get("city")),
		Country:  strings.TrimSpace(q.Get("country")),
		Search:   strings.TrimSpace(q.Get("search")),
	}

	if v := q.Get("includeExpired"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, common.Validationf("includeExpired must be true or false")
		}
		f.IncludeExpired = b
	}

	var err error
	if f.Limit, err = queryInt(q.Get("limit"), "limit"); err != nil {
		return f, err
	}
	if f.Offset, err = queryInt(q.Get("offset"), "offset"); err != nil {
		return f, err
	}
	return f, nil
}

func queryInt(v, name string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, common.Validationf("%s must be a non-negative number", name)
	}
	return n, nil
}

func (h *Handler) listMyJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.jobs.ListMine(r.Context(), caller(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"myJobs": jobs})
}

func (h *Handler) getJob(w http.ResponseWriter, r *http.Request) {
	job, err := h.jobs.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"job": job})
}

func (h *Handler) updateJob(w http.ResponseWriter, r *http.Request) {
	var patch models.JobPatch
	if err := readJSON(w, r, &patch); err != nil {
		h.writeError(w, r, err)
		return
	}

	job, err := h.jobs.Update(r.Context(), caller(r), chi.URLParam(r, "id"), patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"message": "Job updated", "job": job})
}

func (h *Handler) deleteJob(w http.ResponseWriter, r *http.Request) {
	if err := h.jobs.Delete(r.Context(), caller(r), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"message": "Job deleted"})
}
