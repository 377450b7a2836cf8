package publish

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/chanscout/chanscout/network"
	"github.com/chanscout/chanscout/util"
)

// GitHub publishes through the repository contents API.
type GitHub struct {
	Client  *http.Client
	API     string
	Repo    string
	Branch  string
	Token   string
	Message string
}

// NewGitHub validates opts and creates the sink.
func NewGitHub(opts Options) (*GitHub, error) {
	if owner, name, ok := strings.Cut(opts.Repo, "/"); !ok || owner == "" || name == "" {
		return nil, fmt.Errorf("github sink: repository must be owner/name, got %q", opts.Repo)
	}
	if opts.Token == "" {
		return nil, errors.New("github sink: token is not set")
	}

	g := &GitHub{
		Client:  network.Client,
		API:     opts.API,
		Repo:    opts.Repo,
		Branch:  opts.Branch,
		Token:   opts.Token,
		Message: opts.Message,
	}
	if g.API == "" {
		g.API = "https://api.github.com"
	}
	if g.Message == "" {
		g.Message = "Update playlist"
	}

	return g, nil
}

func (g *GitHub) String() string {
	if g.Branch == "" {
		return "github:" + g.Repo
	}
	return "github:" + g.Repo + "@" + g.Branch
}

func (g *GitHub) endpoint(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return fmt.Sprintf("%s/repos/%s/contents/%s", strings.TrimRight(g.API, "/"), g.Repo, strings.Join(segments, "/"))
}

// Publish creates or updates path with content. The current blob sha is looked up first
// so the update replaces it.
func (g *GitHub) Publish(ctx context.Context, path string, content []byte) error {
	sha, err := g.sha(ctx, path)
	if err != nil {
		return err
	}

	payload := struct {
		Message string `json:"message"`
		Content string `json:"content"`
		Branch  string `json:"branch,omitempty"`
		SHA     string `json:"sha,omitempty"`
	}{
		Message: g.Message,
		Content: base64.StdEncoding.EncodeToString(content),
		Branch:  g.Branch,
		SHA:     sha,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return rejected(err, "encode payload")
	}

	req, err := g.request(ctx, http.MethodPut, g.endpoint(path), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.Client.Do(req)
	if err != nil {
		return rejected(err, "put %s", path)
	}
	defer util.Ignore(resp.Body.Close)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return rejected(errors.New(describe(resp)), "put %s", path)
	}

	return nil
}

// sha returns the blob sha of path, or "" when the file does not exist yet.
func (g *GitHub) sha(ctx context.Context, path string) (string, error) {
	endpoint := g.endpoint(path)
	if g.Branch != "" {
		endpoint += "?ref=" + url.QueryEscape(g.Branch)
	}

	req, err := g.request(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}

	resp, err := g.Client.Do(req)
	if err != nil {
		return "", rejected(err, "get %s", path)
	}
	defer util.Ignore(resp.Body.Close)

	switch resp.StatusCode {
	case http.StatusNotFound:
		return "", nil
	case http.StatusOK:
	default:
		return "", rejected(errors.New(describe(resp)), "get %s", path)
	}

	var file struct {
		SHA string `json:"sha"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&file); err != nil {
		return "", rejected(err, "decode %s", path)
	}

	return file.SHA, nil
}

func (g *GitHub) request(ctx context.Context, method, endpoint string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, rejected(err, "create request")
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+g.Token)
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	return req, nil
}

// describe renders the status and the API message of a failed response.
func describe(resp *http.Response) string {
	var apiErr struct {
		Message string `json:"message"`
	}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if json.Unmarshal(data, &apiErr) == nil && apiErr.Message != "" {
		return fmt.Sprintf("status %d: %s", resp.StatusCode, apiErr.Message)
	}

	return fmt.Sprintf("status %d", resp.StatusCode)
}
