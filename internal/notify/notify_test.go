package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmuraoka/seatwatch/pkg/logger"
	domain "github.com/hmuraoka/seatwatch/pkg/types"
)

func testPayload() *Payload {
	return &Payload{
		Rooms: []domain.AvailableRoom{
			{Room: "シングル", Trains: []string{"サンライズ瀬戸"}, Indicator: "空席あり"},
			{Room: "ソロ", Trains: []string{"サンライズ瀬戸", "サンライズ出雲"}, Indicator: "○"},
		},
		CheckID:   "check-123",
		CheckedAt: time.Date(2026, 8, 29, 6, 0, 0, 0, time.UTC),
		PageURL:   "https://example.invalid/availability",
	}
}

func TestDiscordNotifier_SendAvailability(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		statusCode int
		wantErr    string
	}{
		{name: "success", statusCode: http.StatusNoContent},
		{name: "rate limited", statusCode: http.StatusTooManyRequests, wantErr: "rate limited"},
		{name: "bad request", statusCode: http.StatusBadRequest, wantErr: "discord returned 400"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var received discordWebhookPayload

			srv := httptest.NewServer(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					assert.Equal(t, http.MethodPost, r.Method)
					assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
					assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
					w.WriteHeader(tt.statusCode)
				}),
			)
			defer srv.Close()

			d := NewDiscordNotifier(srv.URL, WithHTTPClient(srv.Client()))
			err := d.SendAvailability(context.Background(), testPayload())

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.Len(t, received.Embeds, 1)
			embed := received.Embeds[0]
			assert.Equal(t, colorGreen, embed.Color)
			assert.Equal(t, "https://example.invalid/availability", embed.URL)
			require.Len(t, embed.Fields, 2)
			assert.Equal(t, "シングル", embed.Fields[0].Name)
			assert.Contains(t, embed.Fields[0].Value, "サンライズ瀬戸")
			assert.Contains(t, embed.Fields[0].Value, "空席あり")
			assert.Contains(t, embed.Fields[1].Value, "サンライズ出雲")
		})
	}
}

func TestWebhookNotifier_SendAvailability(t *testing.T) {
	t.Parallel()

	var received webhookBody
	var gotAuth string

	srv := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
			w.WriteHeader(http.StatusOK)
		}),
	)
	defer srv.Close()

	n := NewWebhookNotifier(
		srv.URL,
		map[string]string{"Authorization": "Bearer token"},
		WithWebhookHTTPClient(srv.Client()),
	)
	require.NoError(t, n.SendAvailability(context.Background(), testPayload()))

	assert.Equal(t, "Bearer token", gotAuth)
	assert.Equal(t, "check-123", received.CheckID)
	require.Len(t, received.Rooms, 2)
	assert.Equal(t, "シングル", received.Rooms[0].Room)
}

func TestWebhookNotifier_ServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}),
	)
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL, nil, WithWebhookHTTPClient(srv.Client()))
	err := n.SendAvailability(context.Background(), testPayload())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "webhook returned 500")
}

func TestNoOpNotifier_SendAvailability(t *testing.T) {
	t.Parallel()

	n := NewNoOpNotifier(logger.Discard())
	assert.NoError(t, n.SendAvailability(context.Background(), testPayload()))
}

type stubNotifier struct {
	calls int
	err   error
}

func (s *stubNotifier) SendAvailability(_ context.Context, _ *Payload) error {
	s.calls++
	return s.err
}

func TestMulti_SendAvailability(t *testing.T) {
	t.Parallel()

	ok := &stubNotifier{}
	bad := &stubNotifier{err: errors.New("boom")}

	err := Multi{ok, bad}.SendAvailability(context.Background(), testPayload())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	// Every backend is attempted even when one fails.
	assert.Equal(t, 1, ok.calls)
	assert.Equal(t, 1, bad.calls)
}
