package httpapi

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/jobboard/internal/common"
	"github.com/dmitrijs2005/jobboard/internal/server/models"
	"github.com/dmitrijs2005/jobboard/internal/server/services"
)

const (
	// maxFormFields bounds the non-file part of a submission.
	maxFormFields = 1 << 20
	// formMemory is how much of a multipart body is held in memory before
	// the rest spills to disk.
	formMemory  = 32 << 10
	resumeField = "resume"
)

func (h *Handler) submitApplication(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(formMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.writeError(w, r, common.Hintf(common.ErrResumeRejected, "Request is too large"))
			return
		}
		h.writeError(w, r, common.Validationf("Please submit the application as a multipart form"))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	sub := models.Submission{
		Name:        r.FormValue("name"),
		Email:       r.FormValue("email"),
		Phone:       r.FormValue("phone"),
		Address:     r.FormValue("address"),
		CoverLetter: r.FormValue("coverLetter"),
	}

	var upload *services.Upload
	file, header, err := r.FormFile(resumeField)
	switch {
	case err == nil:
		defer file.Close()
		upload = &services.Upload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Body:        file,
		}
	case !errors.Is(err, http.ErrMissingFile):
		h.writeError(w, r, common.Validationf("Resume file could not be read"))
		return
	}

	app, err := h.apps.Submit(r.Context(), caller(r), r.FormValue("jobId"), sub, upload)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{"message": "Application submitted", "application": app})
}

func (h *Handler) listEmployerApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := h.apps.ListForEmployer(r.Context(), caller(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"applications": apps})
}

func (h *Handler) listApplicantApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := h.apps.ListForApplicant(r.Context(), caller(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"applications": apps})
}

type transitionRequest struct {
	Action models.Action `json:"action"`
}

func (h *Handler) transitionApplication(w http.ResponseWriter, r *http.Request) {
	var req transitionRequest
	if err := readJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	app, err := h.apps.Transition(r.Context(), caller(r), chi.URLParam(r, "id"), req.Action)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"message": "Application status is " + string(app.Status), "application": app})
}

func (h *Handler) withdrawApplication(w http.ResponseWriter, r *http.Request) {
	if err := h.apps.Withdraw(r.Context(), caller(r), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"message": "Application deleted"})
}

func (h *Handler) resumeLink(w http.ResponseWriter, r *http.Request) {
	url, err := h.apps.ResumeLink(r.Context(), caller(r), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"url": url})
}
