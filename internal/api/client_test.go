// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/get_chat/42", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"chat": map[string]interface{}{
				"id":    42,
				"title": "Travel plans",
				"messages": []map[string]interface{}{
					{"content": "Where should I go?", "is_user": true},
					{"content": "Somewhere warm.", "is_user": false},
				},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	chat, err := client.GetChat(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), chat.ID)
	assert.Equal(t, "Travel plans", chat.Title)
	require.Len(t, chat.Messages, 2)
	assert.True(t, chat.Messages[0].IsUser)
	assert.False(t, chat.Messages[1].IsUser)
}

func TestRetitleChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/retitle_chat", r.URL.Path)
		var req struct {
			ChatID       int64  `json:"chat_id"`
			FirstMessage string `json:"first_message"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(9), req.ChatID)
		assert.Equal(t, "hello there", req.FirstMessage)
		json.NewEncoder(w).Encode(map[string]string{"title": "Greeting"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	title, err := client.RetitleChat(context.Background(), 9, "hello there")
	require.NoError(t, err)
	assert.Equal(t, "Greeting", title)
}

func TestDeleteChat(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	require.NoError(t, client.DeleteChat(context.Background(), 3))
	assert.Equal(t, "DELETE /api/delete_chat/3", gotPath)

	require.NoError(t, client.DeleteAllChats(context.Background()))
	assert.Equal(t, "DELETE /api/delete_all_chats", gotPath)
}

func TestRetry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req RetryRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "A", req.AnchorUserText)
		assert.Equal(t, int64(5), req.ChatID)
		assert.Equal(t, 2, req.Truncate)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"ai_message": map[string]string{"content": "fresh answer"},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	content, err := client.Retry(context.Background(), RetryRequest{
		AnchorUserText: "A",
		ChatID:         5,
		Truncate:       2,
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh answer", content)
}

func TestUpdateProfileOmitsUnsetFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]interface{}{"display_name": "Sam"}, body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	name := "Sam"
	require.NoError(t, client.UpdateProfile(context.Background(), ProfileUpdate{DisplayName: &name}))
}

func TestServerErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"current password is incorrect"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	err := client.UpdateProfile(context.Background(), ProfileUpdate{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "current password is incorrect")
}

func TestSendFeedback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "up", body["feedback"])
		assert.Equal(t, float64(4), body["chat_id"])
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	require.NoError(t, client.SendFeedback(context.Background(), 4, FeedbackUp, "nice answer"))
}
