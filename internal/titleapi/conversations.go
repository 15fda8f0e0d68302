package titleapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// SessionClient is a Client bound to a bootstrapped Session. All
// conversation operations are scoped to the session's organization.
type SessionClient struct {
	c    *Client
	sess *Session
}

// WithSession binds the client to a bootstrapped session.
func (c *Client) WithSession(sess *Session) *SessionClient {
	return &SessionClient{c: c, sess: sess}
}

// OrgUUID returns the organization this client operates in.
func (s *SessionClient) OrgUUID() string { return s.sess.OrgUUID }

func (s *SessionClient) conversationsPath() string {
	return fmt.Sprintf("/api/organizations/%s/chat_conversations", url.PathEscape(s.sess.OrgUUID))
}

// createConversationRequest is the JSON body for conversation creation.
type createConversationRequest struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
}

// CreateConversation creates an unnamed conversation with the given
// client-generated UUID.
func (s *SessionClient) CreateConversation(ctx context.Context, convID string) error {
	body, err := json.Marshal(createConversationRequest{UUID: convID, Name: ""})
	if err != nil {
		return fmt.Errorf("marshaling conversation request: %w", err)
	}
	if _, err := s.c.do(ctx, http.MethodPost, s.conversationsPath(), bytes.NewReader(body)); err != nil {
		return fmt.Errorf("creating conversation %s: %w", convID, err)
	}
	return nil
}

// DeleteConversation deletes the conversation with the given UUID.
func (s *SessionClient) DeleteConversation(ctx context.Context, convID string) error {
	path := s.conversationsPath() + "/" + url.PathEscape(convID)
	if _, err := s.c.do(ctx, http.MethodDelete, path, nil); err != nil {
		return fmt.Errorf("deleting conversation %s: %w", convID, err)
	}
	return nil
}

// titleRequest is the JSON body for the title endpoint.
type titleRequest struct {
	MessageContent string   `json:"message_content"`
	RecentTitles   []string `json:"recent_titles"`
}

// titleResponse is the JSON shape returned by the title endpoint.
type titleResponse struct {
	Title string `json:"title"`
}

// GenerateTitle asks the remote to summarize content into a short title for
// the given conversation. recentTitles may be nil; it is sent as an empty
// list so the remote never steers away from previous answers.
func (s *SessionClient) GenerateTitle(ctx context.Context, convID, content string, recentTitles []string) (string, error) {
	if recentTitles == nil {
		recentTitles = []string{}
	}
	body, err := json.Marshal(titleRequest{MessageContent: content, RecentTitles: recentTitles})
	if err != nil {
		return "", fmt.Errorf("marshaling title request: %w", err)
	}

	path := s.conversationsPath() + "/" + url.PathEscape(convID) + "/title"
	respBody, err := s.c.do(ctx, http.MethodPost, path, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("requesting title for %s: %w", convID, err)
	}

	var resp titleResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("parsing title response: %w", err)
	}
	return resp.Title, nil
}
