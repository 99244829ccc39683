package schema_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garnizeh/reelwork/internal/apperr"
	"github.com/garnizeh/reelwork/internal/schema"
	"github.com/garnizeh/reelwork/pkg/models"
)

func requireValidation(t *testing.T, err error) *apperr.Error {
	t.Helper()
	require.Error(t, err)
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	require.Equal(t, apperr.KindValidation, ae.Kind)
	return ae
}

func TestDefaultLoaderCompilesAll(t *testing.T) {
	l, err := schema.Default()
	require.NoError(t, err)
	for _, name := range []string{
		schema.UserInsert, schema.UserPatch, schema.JobInsert, schema.JobPatch,
		schema.EditorProfileInsert, schema.EditorProfilePatch, schema.ReviewInsert,
		schema.ApplicationInsert, schema.ApplicationPatch,
	} {
		_, ok := l.GetSchema(name)
		assert.True(t, ok, name)
	}
}

func TestParseUser(t *testing.T) {
	ctx := context.Background()

	u, err := schema.ParseUser(ctx, []byte(`{"username":"bob","email":"b@x.com","password":"secret1","fullName":"Bob B","role":"editor","extra":"ignored"}`))
	require.NoError(t, err)
	assert.Equal(t, "bob", u.Username)
	assert.Equal(t, models.RoleEditor, u.Role)
	assert.Nil(t, u.AvatarURL)

	blank, err := schema.ParseUser(ctx, []byte(`{"username":"bob","email":"b@x.com","password":"secret1","fullName":"Bob B","role":"editor","avatarUrl":""}`))
	require.NoError(t, err)
	assert.Nil(t, blank.AvatarURL)

	tests := []struct {
		name string
		body string
		path string
	}{
		{"short username", `{"username":"bo","email":"b@x.com","password":"secret1","fullName":"Bob B","role":"editor"}`, "/username"},
		{"bad email", `{"username":"bob","email":"not-an-email","password":"secret1","fullName":"Bob B","role":"editor"}`, "/email"},
		{"short password", `{"username":"bob","email":"b@x.com","password":"123","fullName":"Bob B","role":"editor"}`, "/password"},
		{"unknown role", `{"username":"bob","email":"b@x.com","password":"secret1","fullName":"Bob B","role":"viewer"}`, "/role"},
		{"not an object", `[1,2,3]`, ""},
		{"malformed", `{"username":`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := schema.ParseUser(ctx, []byte(tt.body))
			ae := requireValidation(t, err)
			assert.Contains(t, ae.Message, "Invalid user data")
			if tt.path != "" {
				assert.Contains(t, ae.Message, tt.path)
			}
		})
	}
}

func TestParseUserMissingFields(t *testing.T) {
	_, err := schema.ParseUser(context.Background(), []byte(`{}`))
	ae := requireValidation(t, err)
	assert.NotEmpty(t, ae.Details)
}

const validJob = `{
	"title": "Gaming Video Editor Needed",
	"description": "Looking for a skilled editor for my channel.",
	"jobType": "Remote",
	"employmentType": "Per Project",
	"minPrice": "50",
	"maxPrice": 200,
	"priceType": "per video",
	"skills": ["Premiere Pro"],
	"creatorId": "1"
}`

func TestParseJobCoercesNumericStrings(t *testing.T) {
	j, err := schema.ParseJob(context.Background(), []byte(validJob))
	require.NoError(t, err)
	assert.Equal(t, int64(50), j.MinPrice)
	assert.Equal(t, int64(200), j.MaxPrice)
	assert.Equal(t, int64(1), j.CreatorID)
	assert.Nil(t, j.IsActive)
}

func TestParseJobRejections(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		body string
	}{
		{"short title", `{"title":"Edit","description":"Looking for a skilled editor for my channel.","jobType":"Remote","employmentType":"Ongoing","minPrice":1,"maxPrice":2,"priceType":"per video","skills":["x"],"creatorId":1}`},
		{"short description", `{"title":"Gaming editor","description":"too short","jobType":"Remote","employmentType":"Ongoing","minPrice":1,"maxPrice":2,"priceType":"per video","skills":["x"],"creatorId":1}`},
		{"no skills", `{"title":"Gaming editor","description":"Looking for a skilled editor for my channel.","jobType":"Remote","employmentType":"Ongoing","minPrice":1,"maxPrice":2,"priceType":"per video","skills":[],"creatorId":1}`},
		{"negative price", `{"title":"Gaming editor","description":"Looking for a skilled editor for my channel.","jobType":"Remote","employmentType":"Ongoing","minPrice":-1,"maxPrice":2,"priceType":"per video","skills":["x"],"creatorId":1}`},
		{"non numeric price", `{"title":"Gaming editor","description":"Looking for a skilled editor for my channel.","jobType":"Remote","employmentType":"Ongoing","minPrice":"cheap","maxPrice":2,"priceType":"per video","skills":["x"],"creatorId":1}`},
		{"fractional price", `{"title":"Gaming editor","description":"Looking for a skilled editor for my channel.","jobType":"Remote","employmentType":"Ongoing","minPrice":1.5,"maxPrice":2,"priceType":"per video","skills":["x"],"creatorId":1}`},
		{"inverted range", `{"title":"Gaming editor","description":"Looking for a skilled editor for my channel.","jobType":"Remote","employmentType":"Ongoing","minPrice":200,"maxPrice":50,"priceType":"per video","skills":["x"],"creatorId":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := schema.ParseJob(ctx, []byte(tt.body))
			requireValidation(t, err)
		})
	}
}

func TestParseJobPatch(t *testing.T) {
	ctx := context.Background()

	p, err := schema.ParseJobPatch(ctx, []byte(`{"isActive":false}`))
	require.NoError(t, err)
	require.NotNil(t, p.IsActive)
	assert.False(t, *p.IsActive)
	assert.Nil(t, p.Title)

	_, err = schema.ParseJobPatch(ctx, []byte(`{"creatorId":2}`))
	requireValidation(t, err)

	_, err = schema.ParseJobPatch(ctx, []byte(`{"id":9}`))
	requireValidation(t, err)
}

func TestParseEditorProfile(t *testing.T) {
	ctx := context.Background()
	body := `{"userId":"2","title":"Professional Video Editor","description":"Experienced editor specializing in gaming.","skills":["Premiere Pro"],"hourlyRate":"25","experience":5,"portfolioUrl":""}`

	p, err := schema.ParseEditorProfile(ctx, []byte(body))
	require.NoError(t, err)
	assert.Equal(t, int64(2), p.UserID)
	assert.Equal(t, int64(25), p.HourlyRate)
	assert.Nil(t, p.PortfolioURL)

	_, err = schema.ParseEditorProfile(ctx, []byte(`{"userId":2,"title":"Professional Video Editor","description":"Experienced editor specializing in gaming.","skills":["Premiere Pro"],"hourlyRate":25,"experience":5,"portfolioUrl":"not a url"}`))
	requireValidation(t, err)
}

func TestPatchRejectsNullURLs(t *testing.T) {
	ctx := context.Background()

	_, err := schema.ParseUserPatch(ctx, []byte(`{"avatarUrl":null}`))
	requireValidation(t, err)

	_, err = schema.ParseEditorProfilePatch(ctx, []byte(`{"portfolioUrl":null}`))
	requireValidation(t, err)

	p, err := schema.ParseUserPatch(ctx, []byte(`{"avatarUrl":"https://example.com/a.png"}`))
	require.NoError(t, err)
	require.NotNil(t, p.AvatarURL)
	assert.Equal(t, "https://example.com/a.png", *p.AvatarURL)
}

func TestParseReviewRatingBounds(t *testing.T) {
	ctx := context.Background()
	for _, rating := range []string{"0", "6", `"abc"`} {
		_, err := schema.ParseReview(ctx, []byte(`{"editorId":2,"creatorId":1,"rating":`+rating+`}`))
		requireValidation(t, err)
	}

	r, err := schema.ParseReview(ctx, []byte(`{"editorId":2,"creatorId":1,"rating":"5","comment":"Great"}`))
	require.NoError(t, err)
	assert.Equal(t, 5, r.Rating)
	require.NotNil(t, r.Comment)
}

func TestParseApplication(t *testing.T) {
	ctx := context.Background()
	letter := `"I have edited gaming videos for five years."`

	a, err := schema.ParseApplication(ctx, []byte(`{"jobId":1,"editorId":2,"coverLetter":`+letter+`,"price":"120"}`))
	require.NoError(t, err)
	assert.Equal(t, int64(120), a.Price)
	assert.Empty(t, a.Status)

	_, err = schema.ParseApplication(ctx, []byte(`{"jobId":1,"editorId":2,"coverLetter":`+letter+`,"price":120,"status":"accepted"}`))
	requireValidation(t, err)

	_, err = schema.ParseApplication(ctx, []byte(`{"jobId":1,"editorId":2,"coverLetter":"short","price":120}`))
	requireValidation(t, err)
}

func TestParseApplicationPatch(t *testing.T) {
	ctx := context.Background()

	p, err := schema.ParseApplicationPatch(ctx, []byte(`{"status":"accepted"}`))
	require.NoError(t, err)
	require.NotNil(t, p.Status)
	assert.Equal(t, models.StatusAccepted, *p.Status)

	for _, body := range []string{`{"status":"pending"}`, `{"status":"maybe"}`, `{}`, `{"status":"accepted","price":1}`} {
		_, err := schema.ParseApplicationPatch(ctx, []byte(body))
		requireValidation(t, err)
	}
}

func TestCheckPriceRange(t *testing.T) {
	assert.NoError(t, schema.CheckPriceRange(50, 50))
	requireValidation(t, schema.CheckPriceRange(200, 50))
}
