package schema

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/garnizeh/reelwork/internal/apperr"
	"github.com/garnizeh/reelwork/pkg/models"
)

// Numeric fields accepted as numeric strings, the way HTML forms submit them.
var numericFields = map[string][]string{
	JobInsert:           {"minPrice", "maxPrice", "creatorId"},
	JobPatch:            {"minPrice", "maxPrice"},
	EditorProfileInsert: {"userId", "hourlyRate", "experience"},
	EditorProfilePatch:  {"hourlyRate", "experience"},
	ReviewInsert:        {"editorId", "creatorId", "rating"},
	ApplicationInsert:   {"jobId", "editorId", "price"},
}

// Optional URL fields where an empty string means "not provided".
var blankAsAbsent = map[string][]string{
	UserInsert:          {"avatarUrl"},
	UserPatch:           {"avatarUrl"},
	EditorProfileInsert: {"portfolioUrl"},
	EditorProfilePatch:  {"portfolioUrl"},
}

var labels = map[string]string{
	UserInsert:          "user",
	UserPatch:           "user",
	JobInsert:           "job",
	JobPatch:            "job",
	EditorProfileInsert: "editor profile",
	EditorProfilePatch:  "editor profile",
	ReviewInsert:        "review",
	ApplicationInsert:   "application",
	ApplicationPatch:    "application",
}

// Validate checks raw against the named schema and returns the normalised document.
// Failures are *apperr.Error values of kind validation.
func (l *Loader) Validate(ctx context.Context, name string, raw []byte) ([]byte, error) {
	rs, ok := l.GetSchema(name)
	if !ok {
		return nil, fmt.Errorf("unknown schema %q", name)
	}
	label := labels[name]

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil || doc == nil {
		return nil, apperr.Validation(fmt.Sprintf("Invalid %s data: body must be a JSON object", label))
	}

	for _, k := range numericFields[name] {
		if s, ok := doc[k].(string); ok {
			if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
				doc[k] = f
			}
		}
	}
	for _, k := range blankAsAbsent[name] {
		if s, ok := doc[k].(string); ok && s == "" {
			delete(doc, k)
		}
	}

	normalised, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", label, err)
	}

	verrs, err := rs.ValidateBytes(ctx, normalised)
	if err != nil {
		return nil, fmt.Errorf("validate %s: %w", label, err)
	}
	if len(verrs) > 0 {
		details := make([]string, 0, len(verrs))
		for _, v := range verrs {
			p := v.PropertyPath
			if p == "" {
				p = "/"
			}
			details = append(details, p+": "+v.Message)
		}
		sort.Strings(details)
		return nil, apperr.Validation(fmt.Sprintf("Invalid %s data: %s", label, details[0]), details...)
	}

	return normalised, nil
}

func decode[T any](ctx context.Context, name string, raw []byte) (T, error) {
	var out T
	l, err := Default()
	if err != nil {
		return out, err
	}
	doc, err := l.Validate(ctx, name, raw)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(doc, &out); err != nil {
		return out, apperr.Validation(fmt.Sprintf("Invalid %s data: %v", labels[name], err))
	}
	return out, nil
}

func ParseUser(ctx context.Context, raw []byte) (models.InsertUser, error) {
	return decode[models.InsertUser](ctx, UserInsert, raw)
}

func ParseUserPatch(ctx context.Context, raw []byte) (models.UserPatch, error) {
	return decode[models.UserPatch](ctx, UserPatch, raw)
}

// ParseJob also rejects a price range whose minimum exceeds its maximum.
func ParseJob(ctx context.Context, raw []byte) (models.InsertJob, error) {
	j, err := decode[models.InsertJob](ctx, JobInsert, raw)
	if err != nil {
		return j, err
	}
	if err := CheckPriceRange(j.MinPrice, j.MaxPrice); err != nil {
		return j, err
	}
	return j, nil
}

func ParseJobPatch(ctx context.Context, raw []byte) (models.JobPatch, error) {
	return decode[models.JobPatch](ctx, JobPatch, raw)
}

func ParseEditorProfile(ctx context.Context, raw []byte) (models.InsertEditorProfile, error) {
	return decode[models.InsertEditorProfile](ctx, EditorProfileInsert, raw)
}

func ParseEditorProfilePatch(ctx context.Context, raw []byte) (models.EditorProfilePatch, error) {
	return decode[models.EditorProfilePatch](ctx, EditorProfilePatch, raw)
}

func ParseReview(ctx context.Context, raw []byte) (models.InsertReview, error) {
	return decode[models.InsertReview](ctx, ReviewInsert, raw)
}

func ParseApplication(ctx context.Context, raw []byte) (models.InsertApplication, error) {
	return decode[models.InsertApplication](ctx, ApplicationInsert, raw)
}

func ParseApplicationPatch(ctx context.Context, raw []byte) (models.ApplicationPatch, error) {
	return decode[models.ApplicationPatch](ctx, ApplicationPatch, raw)
}

// CheckPriceRange is shared by job creation and by job patches once merged.
func CheckPriceRange(minPrice, maxPrice int64) error {
	if minPrice > maxPrice {
		msg := fmt.Sprintf("Invalid job data: minPrice (%d) must not exceed maxPrice (%d)", minPrice, maxPrice)
		return apperr.Validation(msg, msg)
	}
	return nil
}
