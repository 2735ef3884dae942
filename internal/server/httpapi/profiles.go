package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/jobboard/internal/common"
	"github.com/dmitrijs2005/jobboard/internal/server/models"
)

// profileRequest accepts skills as a comma-separated string or a list, and
// experienceYears as a number or a string.
type profileRequest struct {
	Address            *string         `json:"address"`
	Bio                *string         `json:"bio"`
	Education          *string         `json:"education"`
	Skills             json.RawMessage `json:"skills"`
	ExperienceYears    json.RawMessage `json:"experienceYears"`
	DefaultCoverLetter *string         `json:"defaultCoverLetter"`
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.profiles.Get(r.Context(), caller(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"profile": p})
}

func (h *Handler) upsertProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := readJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	fields, err := req.fields()
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	p, err := h.profiles.Upsert(r.Context(), caller(r), fields)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"message": "Profile saved", "profile": p})
}

func (req profileRequest) fields() (models.ProfileFields, error) {
	f := models.ProfileFields{
		Address:            req.Address,
		Bio:                req.Bio,
		Education:          req.Education,
		DefaultCoverLetter: req.DefaultCoverLetter,
	}

	skills, err := rawText(req.Skills, true)
	if err != nil {
		return f, common.Validationf("Skills must be text or a list of text")
	}
	f.Skills = skills

	years, err := rawText(req.ExperienceYears, false)
	if err != nil {
		return f, common.Validationf("Experience years must be a non-negative whole number")
	}
	f.ExperienceYears = years
	return f, nil
}

// rawText turns a JSON string, number or null into text. A list of strings
// is joined with commas when allowList is set. An absent value yields nil.
func rawText(raw json.RawMessage, allowList bool) (*string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}

	var s string
	switch raw[0] {
	case 'n':
		if string(raw) != "null" {
			return nil, common.ErrValidation
		}
	case '"':
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
	case '[':
		if !allowList {
			return nil, common.ErrValidation
		}
		var list []string
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, err
		}
		s = strings.Join(list, ",")
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		s = n.String()
	}
	return &s, nil
}
