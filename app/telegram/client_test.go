package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := NewClient("test-token", "@testchannel", server.Client())
	c.baseURL = server.URL
	return c
}

func TestSendMessage(t *testing.T) {
	var gotPath string
	var gotPayload messagePayload

	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Errorf("Failed to decode payload: %v", err)
		}
		json.NewEncoder(w).Encode(apiResponse{OK: true, Result: Message{MessageID: 42}})
	})

	msg, err := c.SendMessage(context.Background(), "<b>hello</b>", [][]Button{{{Text: "Open", URL: "https://example.com"}}})
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}

	if msg.MessageID != 42 {
		t.Errorf("Expected message id 42, got %d", msg.MessageID)
	}
	if !strings.HasSuffix(gotPath, "/bottest-token/sendMessage") {
		t.Errorf("Unexpected request path %q", gotPath)
	}
	if gotPayload.ChatID != "@testchannel" || gotPayload.ParseMode != "HTML" {
		t.Errorf("Unexpected payload %+v", gotPayload)
	}
	if gotPayload.ReplyMarkup == nil || len(gotPayload.ReplyMarkup.InlineKeyboard) != 1 {
		t.Errorf("Expected one button row, got %+v", gotPayload.ReplyMarkup)
	}
}

func TestSendPhotoRejectsInvalidImage(t *testing.T) {
	called := false
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	if _, err := c.SendPhoto(context.Background(), "", "caption", nil); err == nil {
		t.Error("Expected error for empty image URL")
	}
	if called {
		t.Error("Expected no API call for invalid image URL")
	}
}

func TestAPIErrorSurfaced(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(apiResponse{OK: false, Description: "chat not found"})
	})

	_, err := c.SendMessage(context.Background(), "hello", nil)
	if err == nil || !strings.Contains(err.Error(), "chat not found") {
		t.Errorf("Expected API error description, got %v", err)
	}
}
