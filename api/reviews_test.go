package api_test

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/garnizeh/reelwork/internal/config"
	"github.com/garnizeh/reelwork/pkg/models"
)

func TestReviews(t *testing.T) {
	f := newFixture(t, config.EnvDevelopment)
	c := f.browser()
	creator := f.register(c, "studio", models.RoleCreator)
	editor := f.register(c, "cutter", models.RoleEditor)

	tests := []struct {
		name        string
		body        map[string]any
		wantStatus  int
		wantMessage string
	}{
		{name: "valid", body: map[string]any{"editorId": editor.ID, "creatorId": creator.ID, "rating": 5, "comment": "Fast turnaround"}, wantStatus: http.StatusCreated},
		{name: "no comment", body: map[string]any{"editorId": editor.ID, "creatorId": creator.ID, "rating": "4"}, wantStatus: http.StatusCreated},
		{name: "rating too high", body: map[string]any{"editorId": editor.ID, "creatorId": creator.ID, "rating": 6}, wantStatus: http.StatusBadRequest},
		{name: "unknown editor", body: map[string]any{"editorId": 999, "creatorId": creator.ID, "rating": 3}, wantStatus: http.StatusNotFound, wantMessage: "Editor not found"},
		{name: "unknown creator", body: map[string]any{"editorId": editor.ID, "creatorId": 999, "rating": 3}, wantStatus: http.StatusNotFound, wantMessage: "Creator not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := f.do(c, http.MethodPost, "/api/reviews", tt.body)
			expectStatus(t, r, tt.wantStatus)
			if tt.wantMessage != "" && r.message() != tt.wantMessage {
				t.Fatalf("expected message %q, got %q", tt.wantMessage, r.message())
			}
		})
	}

	byEditor := f.do(c, http.MethodGet, "/api/reviews/editor/"+strconv.FormatInt(editor.ID, 10), nil)
	expectStatus(t, byEditor, http.StatusOK)
	reviews := decodeAs[[]models.Review](t, byEditor)
	if len(reviews) != 2 || reviews[0].Rating != 5 || reviews[1].Comment != nil {
		t.Fatalf("unexpected reviews: %+v", reviews)
	}

	byCreator := f.do(c, http.MethodGet, "/api/reviews/creator/"+strconv.FormatInt(creator.ID, 10), nil)
	if got := decodeAs[[]models.Review](t, byCreator); len(got) != 2 {
		t.Fatalf("expected 2 reviews by creator, got %d", len(got))
	}

	none := f.do(c, http.MethodGet, "/api/reviews/editor/999", nil)
	expectStatus(t, none, http.StatusOK)
	if string(none.body) != "[]\n" {
		t.Fatalf("expected empty list, got %s", none.body)
	}

	expectStatus(t, f.do(c, http.MethodGet, "/api/reviews/"+strconv.FormatInt(reviews[0].ID, 10), nil), http.StatusOK)
	expectStatus(t, f.do(c, http.MethodGet, "/api/reviews/999", nil), http.StatusNotFound)
}
