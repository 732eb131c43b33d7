package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"reportdesk/internal/domain"
)

// AdminClient talks to the identity provider's admin API. It provisions
// seed and reviewer accounts and removes accounts when an admin deletes a
// student. It is never used on the request authentication path.
type AdminClient struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

// NewAdminClient requires the service role key (SUPABASE_KEY).
func NewAdminClient(baseURL, serviceKey string) *AdminClient {
	return &AdminClient{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// CreateUserRequest is the payload for creating an account.
type CreateUserRequest struct {
	Email        string                 `json:"email"`
	Password     string                 `json:"password"`
	EmailConfirm bool                   `json:"email_confirm"`
	UserMetadata map[string]interface{} `json:"user_metadata,omitempty"`
}

// AccountResponse is one account as returned by the admin API.
type AccountResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type listUsersResponse struct {
	Users []AccountResponse `json:"users"`
}

// CreateUser creates a confirmed account and returns its id.
func (c *AdminClient) CreateUser(ctx context.Context, email, password string, metadata map[string]interface{}) (string, error) {
	payload, err := json.Marshal(CreateUserRequest{
		Email:        email,
		Password:     password,
		EmailConfirm: true,
		UserMetadata: metadata,
	})
	if err != nil {
		return "", fmt.Errorf("marshal create request: %w", err)
	}

	body, status, err := c.do(ctx, http.MethodPost, "/auth/v1/admin/users", payload)
	if err != nil {
		return "", fmt.Errorf("create user: %w", err)
	}
	switch status {
	case http.StatusOK, http.StatusCreated:
	case http.StatusUnprocessableEntity:
		// the admin API answers 422 email_exists for a taken address
		return "", &domain.ConflictError{
			Message:      fmt.Sprintf("account '%s' already exists", email),
			ResourceType: "account",
		}
	default:
		return "", fmt.Errorf("create user failed with status %d: %s", status, string(body))
	}

	var created AccountResponse
	if err := json.Unmarshal(body, &created); err != nil {
		return "", fmt.Errorf("decode create response: %w", err)
	}
	return created.ID, nil
}

// DeleteUser removes an account by id. A missing account is not an error.
func (c *AdminClient) DeleteUser(ctx context.Context, userID string) error {
	body, status, err := c.do(ctx, http.MethodDelete, "/auth/v1/admin/users/"+userID, nil)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	switch status {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound:
		return nil
	default:
		return fmt.Errorf("delete user failed with status %d: %s", status, string(body))
	}
}

// DeleteUserByEmail finds an account by email and deletes it. Idempotent.
func (c *AdminClient) DeleteUserByEmail(ctx context.Context, email string) error {
	userID, err := c.findUserIDByEmail(ctx, email)
	if err != nil {
		return err
	}
	if userID == "" {
		return nil
	}
	return c.DeleteUser(ctx, userID)
}

func (c *AdminClient) findUserIDByEmail(ctx context.Context, email string) (string, error) {
	body, status, err := c.do(ctx, http.MethodGet, "/auth/v1/admin/users", nil)
	if err != nil {
		return "", fmt.Errorf("list users: %w", err)
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("list users failed with status %d: %s", status, string(body))
	}

	var list listUsersResponse
	if err := json.Unmarshal(body, &list); err != nil {
		return "", fmt.Errorf("decode list response: %w", err)
	}
	for _, u := range list.Users {
		if u.Email == email {
			return u.ID, nil
		}
	}
	return "", nil
}

func (c *AdminClient) do(ctx context.Context, method, path string, payload []byte) ([]byte, int, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("apikey", c.serviceKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	return data, resp.StatusCode, nil
}
