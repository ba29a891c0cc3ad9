package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Client calls the blog backend over HTTP. It is a thin wire adapter: the
// backend is a black box and the client only knows the request/response
// contract, never the server's storage or auth internals.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a backend client. A request that hangs past the
// client timeout surfaces as a transport error rather than leaving the
// caller loading forever.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// ListPosts fetches one page of the public post list.
func (c *Client) ListPosts(ctx context.Context, q ListQuery) (ListResult, error) {
	return c.listPosts(ctx, "/post", "", q)
}

// ListMyPosts fetches one page of the caller's own posts (bearer token required).
func (c *Client) ListMyPosts(ctx context.Context, token string, q ListQuery) (ListResult, error) {
	return c.listPosts(ctx, "/user/posts", token, q)
}

func (c *Client) listPosts(ctx context.Context, path, token string, q ListQuery) (ListResult, error) {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("per_page", strconv.Itoa(q.PerPage))
	// An empty search is omitted rather than sent as an empty-string filter.
	if s := strings.TrimSpace(q.Search); s != "" {
		v.Set("search", s)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+v.Encode(), nil)
	if err != nil {
		return ListResult{}, err
	}
	addAuthHeader(req, token)

	var resp listResponse
	if err := c.do(req, &resp); err != nil {
		return ListResult{}, err
	}
	if !resp.Status {
		return ListResult{}, &APIError{Status: http.StatusOK, Message: orDefault(resp.Error, "failed to fetch posts")}
	}
	return ListResult{
		Posts:       resp.Posts,
		CurrentPage: resp.CurrentPage,
		TotalPages:  resp.TotalPages,
		TotalPosts:  resp.TotalPosts,
	}, nil
}

// GetPost fetches a single published post by slug.
func (c *Client) GetPost(ctx context.Context, slug string) (Post, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/post/"+url.PathEscape(slug), nil)
	if err != nil {
		return Post{}, err
	}

	var resp singlePostResponse
	if err := c.do(req, &resp); err != nil {
		return Post{}, err
	}
	// The envelope wraps the post in a single-element array.
	if len(resp.Post) == 0 {
		return Post{}, &APIError{Status: http.StatusNotFound, Message: orDefault(resp.Error, "post not found")}
	}
	return resp.Post[0], nil
}

// Profile fetches the authenticated author's profile.
func (c *Client) Profile(ctx context.Context, token string) (User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/profile", nil)
	if err != nil {
		return User{}, err
	}
	addAuthHeader(req, token)

	var resp profileResponse
	if err := c.do(req, &resp); err != nil {
		return User{}, err
	}
	if !resp.Status {
		return User{}, &APIError{Status: http.StatusOK, Message: orDefault(resp.Error, "failed to fetch profile")}
	}
	return resp.User, nil
}

// CreatePost creates a new post (multipart: title, content, img_file).
func (c *Client) CreatePost(ctx context.Context, token string, draft PostDraft) error {
	body, contentType, err := postDraftBody(draft, true)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/add", body)
	if err != nil {
		return err
	}
	addAuthHeader(req, token)
	req.Header.Set("Content-Type", contentType)

	var resp statusResponse
	if err := c.do(req, &resp); err != nil {
		return err
	}
	if !resp.Status && resp.Error != "" {
		return &APIError{Status: http.StatusOK, Message: resp.Error}
	}
	return nil
}

// PostForEdit fetches a post by id for pre-filling the edit form.
func (c *Client) PostForEdit(ctx context.Context, token string, id int) (Post, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/edit/%d", c.baseURL, id), nil)
	if err != nil {
		return Post{}, err
	}
	addAuthHeader(req, token)

	var resp editPostResponse
	if err := c.do(req, &resp); err != nil {
		return Post{}, err
	}
	if resp.Post == nil {
		return Post{}, &APIError{Status: http.StatusNotFound, Message: orDefault(resp.Error, "post not found")}
	}
	return *resp.Post, nil
}

// UpdatePost updates an existing post. When draft.ImagePath is empty the
// img_file part is omitted, which the server reads as "keep existing image".
// Returns the server's confirmation message.
func (c *Client) UpdatePost(ctx context.Context, token string, id int, draft PostDraft) (string, error) {
	body, contentType, err := postDraftBody(draft, false)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, fmt.Sprintf("%s/edit/%d", c.baseURL, id), body)
	if err != nil {
		return "", err
	}
	addAuthHeader(req, token)
	req.Header.Set("Content-Type", contentType)

	var resp statusResponse
	if err := c.do(req, &resp); err != nil {
		return "", err
	}
	if resp.Error != "" {
		return "", &APIError{Status: http.StatusOK, Message: resp.Error}
	}
	return resp.Message, nil
}

// DeletePost deletes a post by id.
func (c *Client) DeletePost(ctx context.Context, token string, id int) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, fmt.Sprintf("%s/delete/%d", c.baseURL, id), nil)
	if err != nil {
		return err
	}
	addAuthHeader(req, token)

	var resp statusResponse
	if err := c.do(req, &resp); err != nil {
		return err
	}
	// An application-level rejection (status:false) leaves the session intact;
	// it is not an auth failure.
	if !resp.Status && resp.Error != "" {
		return &APIError{Status: http.StatusOK, Message: resp.Error}
	}
	return nil
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	payload := map[string]string{"email": email, "password": password}
	req, err := c.jsonRequest(ctx, http.MethodPost, "/login", payload)
	if err != nil {
		return "", err
	}

	var resp loginResponse
	if err := c.do(req, &resp); err != nil {
		return "", err
	}
	if resp.AccessToken == "" {
		return "", &APIError{Status: http.StatusOK, Message: orDefault(resp.Error, "login failed")}
	}
	return resp.AccessToken, nil
}

// Register creates a new author account (multipart: profile fields + image).
// Field-level rejections come back as FieldErrors.
func (c *Client) Register(ctx context.Context, reg Registration) error {
	fields := map[string]string{
		"name":     reg.Name,
		"dob":      reg.DOB,
		"place":    reg.Place,
		"address":  reg.Address,
		"email":    reg.Email,
		"password": reg.Password,
	}
	body, contentType, err := multipartBody(fields, "image", reg.ImagePath)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/register", body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)

	var resp registerResponse
	if err := c.do(req, &resp); err != nil {
		return err
	}
	if len(resp.Errors) > 0 {
		return FieldErrors(resp.Errors)
	}
	if !resp.Status {
		return &APIError{Status: http.StatusOK, Message: orDefault(resp.Error, "registration failed")}
	}
	return nil
}

// Contact submits the contact form. Returns the server's confirmation message.
func (c *Client) Contact(ctx context.Context, msg ContactMessage) (string, error) {
	req, err := c.jsonRequest(ctx, http.MethodPost, "/contact", msg)
	if err != nil {
		return "", err
	}

	var resp contactResponse
	if err := c.do(req, &resp); err != nil {
		return "", err
	}
	if len(resp.Errors) > 0 {
		return "", FieldErrors(resp.Errors)
	}
	if resp.Error != "" {
		return "", &APIError{Status: http.StatusOK, Message: resp.Error}
	}
	return resp.Message, nil
}

// ForgotPassword requests a password-reset email.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	payload := map[string]string{"email": email}
	req, err := c.jsonRequest(ctx, http.MethodPost, "/forgot-password", payload)
	if err != nil {
		return err
	}

	var resp errorResponse
	if err := c.do(req, &resp); err != nil {
		return err
	}
	if resp.Error != "" {
		return &APIError{Status: http.StatusOK, Message: resp.Error}
	}
	return nil
}

// ResetPassword sets a new password using an emailed reset token.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword, confirmPassword string) error {
	payload := map[string]string{
		"new_password":     newPassword,
		"confirm_password": confirmPassword,
	}
	req, err := c.jsonRequest(ctx, http.MethodPost, "/reset-password/"+url.PathEscape(token), payload)
	if err != nil {
		return err
	}

	var resp errorResponse
	if err := c.do(req, &resp); err != nil {
		return err
	}
	if resp.Error != "" {
		return &APIError{Status: http.StatusOK, Message: resp.Error}
	}
	return nil
}

func (c *Client) jsonRequest(ctx context.Context, method, path string, payload any) (*http.Request, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// do executes the request and decodes the JSON envelope into out.
//
// Error mapping:
//   - HTTP 401 => *APIError wrapping ErrUnauthorized (global session-clear signal)
//   - other non-2xx => the envelope is still decoded into out when possible so
//     callers can surface field-scoped errors; otherwise *APIError with the
//     server's error text (or the HTTP status as a fallback)
//   - network failure / malformed body => transport error, returned as-is
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		var errResp errorResponse
		_ = json.Unmarshal(body, &errResp)
		return &APIError{Status: resp.StatusCode, Message: orDefault(errResp.Error, "session expired")}
	}

	if out != nil && len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			if resp.StatusCode >= 400 {
				return &APIError{Status: resp.StatusCode, Message: resp.Status}
			}
			return err
		}
		return nil
	}

	if resp.StatusCode >= 400 {
		return &APIError{Status: resp.StatusCode, Message: resp.Status}
	}
	return nil
}

func postDraftBody(draft PostDraft, imageRequired bool) (io.Reader, string, error) {
	fields := map[string]string{
		"title":   strings.TrimSpace(draft.Title),
		"content": strings.TrimSpace(draft.Content),
	}
	if !imageRequired && strings.TrimSpace(draft.ImagePath) == "" {
		return multipartBody(fields, "", "")
	}
	return multipartBody(fields, "img_file", draft.ImagePath)
}

// multipartBody builds a multipart payload from string fields plus an optional
// file part. An empty fileField skips the attachment entirely.
func multipartBody(fields map[string]string, fileField, filePath string) (io.Reader, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}
	if fileField != "" {
		f, err := os.Open(filePath)
		if err != nil {
			return nil, "", err
		}
		defer f.Close()
		part, err := writer.CreateFormFile(fileField, filepath.Base(filePath))
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, f); err != nil {
			return nil, "", err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body, writer.FormDataContentType(), nil
}

func addAuthHeader(req *http.Request, token string) {
	if strings.TrimSpace(token) == "" {
		return
	}
	req.Header.Set("Authorization", "Bearer "+token)
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
