package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/justsurfingit/careers-portal/internal/models"
)

func TestBuildRecruiterMessage(t *testing.T) {
	raw := string(BuildRecruiterMessage("hiring@example.com", completeForm(), models.SeniorBackendEngineer))

	require.True(t, strings.HasPrefix(raw, "To: hiring@example.com\r\n"))
	require.Contains(t, raw, "Subject: New application: Senior Backend Engineer - Ada Lovelace\r\n")
	require.Contains(t, raw, "Email: ada@example.com\r\n")
	require.Contains(t, raw, "Previous Role: Analyst at Babbage & Co\r\n")
	require.Contains(t, raw, "Resume: ada.pdf (application/pdf, not attached)\r\n")
}

func TestRecruiterMailer_SendsThroughGmail(t *testing.T) {
	var got gmail.Message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"msg-1"}`)
	}))
	t.Cleanup(srv.Close)

	svc, err := gmail.NewService(context.Background(),
		option.WithHTTPClient(srv.Client()),
		option.WithEndpoint(srv.URL+"/"),
	)
	require.NoError(t, err)

	m := NewRecruiterMailer(svc, "hiring@example.com", newTestLogger())
	require.NoError(t, m.NotifyRecruiter(context.Background(), completeForm(), models.JuniorBackendEngineer))

	decoded, err := base64.URLEncoding.DecodeString(got.Raw)
	require.NoError(t, err)
	require.Contains(t, string(decoded), "Position: Junior Backend Engineer")
}
