package classroom

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/semillerodigital/classroom-progress/pkg/progress"
	"github.com/semillerodigital/classroom-progress/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	classroomapi "google.golang.org/api/classroom/v1"
	"google.golang.org/api/option"
)

type staticClients struct {
	client *http.Client
	err    error
}

func (s staticClients) HTTPClient(ctx context.Context, userId int) (*http.Client, error) {
	return s.client, s.err
}

func setupClient(t *testing.T, handler http.Handler) (*ClientImpl, context.Context) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(staticClients{client: srv.Client()}, option.WithEndpoint(srv.URL+"/"))
	ctx := user.WithUser(context.Background(), user.User{Id: 7})
	return client, ctx
}

func writeJSON(t *testing.T, w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func TestClient_ListCourses(t *testing.T) {
	// given
	var pageTokens []string
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/courses", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ACTIVE", r.URL.Query().Get("courseStates"))
		assert.Equal(t, "20", r.URL.Query().Get("pageSize"))
		token := r.URL.Query().Get("pageToken")
		pageTokens = append(pageTokens, token)
		if token == "" {
			writeJSON(t, w, map[string]any{
				"courses":       []map[string]any{{"id": "c1", "name": "Math", "section": "A"}},
				"nextPageToken": "p2",
			})
			return
		}
		writeJSON(t, w, map[string]any{
			"courses": []map[string]any{{"id": "c2", "name": "History", "alternateLink": "https://classroom/c2"}},
		})
	})
	client, ctx := setupClient(t, mux)

	// when
	courses, err := client.ListCourses(ctx)

	// then
	require.NoError(t, err)
	assert.Equal(t, []string{"", "p2"}, pageTokens)
	assert.Equal(t, []Course{
		{Id: "c1", Name: "Math", Section: "A"},
		{Id: "c2", Name: "History", AlternateLink: "https://classroom/c2"},
	}, courses)
}

func TestClient_ListCourseWork(t *testing.T) {
	// given
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/courses/c1/courseWork", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{
			"courseWork": []map[string]any{
				{
					"id":      "w1",
					"title":   "Essay",
					"dueDate": map[string]any{"year": 2024, "month": 3, "day": 10},
					"dueTime": map[string]any{"hours": 14},
				},
				{"id": "w2", "title": "Reading"},
			},
		})
	})
	client, ctx := setupClient(t, mux)

	// when
	items, err := client.ListCourseWork(ctx, "c1")

	// then
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "w1", items[0].Id)
	require.NotNil(t, items[0].DueDate)
	assert.Equal(t, 2024, items[0].DueDate.Year)
	assert.Equal(t, 3, *items[0].DueDate.Month)
	assert.Equal(t, 10, *items[0].DueDate.Day)
	require.NotNil(t, items[0].DueTime)
	assert.Equal(t, 14, *items[0].DueTime.Hours)
	assert.Nil(t, items[0].DueTime.Minutes)
	assert.Nil(t, items[1].DueDate)
	assert.Nil(t, items[1].DueTime)
}

func TestClient_GetOwnSubmission(t *testing.T) {
	t.Run("should return first submission", func(t *testing.T) {
		// given
		mux := http.NewServeMux()
		mux.HandleFunc("/v1/courses/c1/courseWork/w1/studentSubmissions", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "me", r.URL.Query().Get("userId"))
			writeJSON(t, w, map[string]any{
				"studentSubmissions": []map[string]any{
					{"id": "s1", "state": "TURNED_IN", "updateTime": "2024-03-09T13:00:00.123Z"},
					{"id": "s2", "state": "CREATED"},
				},
			})
		})
		client, ctx := setupClient(t, mux)

		// when
		sub, err := client.GetOwnSubmission(ctx, "c1", "w1")

		// then
		require.NoError(t, err)
		require.NotNil(t, sub)
		assert.Equal(t, "s1", sub.Id)
		assert.Equal(t, progress.StateTurnedIn, sub.State)
		require.NotNil(t, sub.UpdateTime)
		assert.True(t, time.Date(2024, 3, 9, 13, 0, 0, 123_000_000, time.UTC).Equal(*sub.UpdateTime))
	})

	t.Run("should return nil without submissions", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/v1/courses/c1/courseWork/w1/studentSubmissions", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, map[string]any{})
		})
		client, ctx := setupClient(t, mux)

		sub, err := client.GetOwnSubmission(ctx, "c1", "w1")

		require.NoError(t, err)
		assert.Nil(t, sub)
	})

	t.Run("should translate Google API errors", func(t *testing.T) {
		// given
		mux := http.NewServeMux()
		mux.HandleFunc("/v1/courses/c1/courseWork/w1/studentSubmissions", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":{"code":403,"message":"The caller does not have permission"}}`))
		})
		client, ctx := setupClient(t, mux)

		// when
		_, err := client.GetOwnSubmission(ctx, "c1", "w1")

		// then
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
		assert.Equal(t, "The caller does not have permission", apiErr.Message)
	})
}

func TestClient_ListAnnouncements(t *testing.T) {
	// given
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/courses/c1/announcements", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "updateTime desc", r.URL.Query().Get("orderBy"))
		assert.Equal(t, "10", r.URL.Query().Get("pageSize"))
		writeJSON(t, w, map[string]any{
			"announcements": []map[string]any{
				{"id": "a1", "text": "Exam on Friday", "updateTime": "2024-03-14T10:00:00Z"},
			},
		})
	})
	client, ctx := setupClient(t, mux)

	// when
	announcements, err := client.ListAnnouncements(ctx, "c1")

	// then
	require.NoError(t, err)
	require.Len(t, announcements, 1)
	assert.Equal(t, "Exam on Friday", announcements[0].Text)
	assert.True(t, time.Date(2024, 3, 14, 10, 0, 0, 0, time.UTC).Equal(*announcements[0].UpdateTime))
}

func TestClient_Unauthenticated(t *testing.T) {
	client := NewClient(staticClients{err: ErrUnauthenticated})
	ctx := user.WithUser(context.Background(), user.User{Id: 7})

	_, err := client.ListCourses(ctx)

	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestClient_NoUserInContext(t *testing.T) {
	client := NewClient(staticClients{})

	_, err := client.ListCourses(context.Background())

	assert.ErrorIs(t, err, user.ErrNoUser)
}

func TestToDate(t *testing.T) {
	tests := []struct {
		name string
		in   *classroomapi.Date
		want *progress.Date
	}{
		{"absent", nil, nil},
		{"zero year is absent", &classroomapi.Date{Month: 3, Day: 1}, nil},
		{"year only", &classroomapi.Date{Year: 2024}, &progress.Date{Year: 2024}},
		{"full date", &classroomapi.Date{Year: 2024, Month: 3, Day: 10}, &progress.Date{Year: 2024, Month: intPtr(3), Day: intPtr(10)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, toDate(tt.in))
		})
	}
}

func intPtr(v int) *int {
	return &v
}
