package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"

	"github.com/qs3c/sports_content_server/config"
)

const defaultGithubAPI = "https://api.github.com"

// GithubProfile GitHub 用户资料
type GithubProfile struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
	Name      string `json:"name"`
}

// GithubProvider 通过 GitHub OAuth 登录
type GithubProvider struct {
	config  *oauth2.Config
	apiBase string
}

func NewGithubProvider(cfg config.GithubOAuthConfig) *GithubProvider {
	return &GithubProvider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		},
		apiBase: defaultGithubAPI,
	}
}

// WithEndpoints 替换 OAuth 与 API 地址（GitHub Enterprise 或测试桩）
func (g *GithubProvider) WithEndpoints(endpoint oauth2.Endpoint, apiBase string) *GithubProvider {
	cfg := *g.config
	cfg.Endpoint = endpoint
	return &GithubProvider{config: &cfg, apiBase: strings.TrimRight(apiBase, "/")}
}

// AuthURL 获取 GitHub 授权地址
func (g *GithubProvider) AuthURL(state string) string {
	return g.config.AuthCodeURL(state)
}

// FetchProfile 用授权码换取 token 并读取用户资料
func (g *GithubProvider) FetchProfile(ctx context.Context, code string) (*GithubProfile, error) {
	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	client := g.config.Client(ctx, token)

	var profile GithubProfile
	if err := g.getJSON(ctx, client, "/user", &profile); err != nil {
		return nil, fmt.Errorf("failed to get github user: %w", err)
	}
	if profile.ID == 0 {
		return nil, fmt.Errorf("github user has no id")
	}

	// 公开资料中没有邮箱时读取主邮箱
	if profile.Email == "" {
		if email, err := g.primaryEmail(ctx, client); err == nil {
			profile.Email = email
		}
	}

	return &profile, nil
}

func (g *GithubProvider) primaryEmail(ctx context.Context, client *http.Client) (string, error) {
	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := g.getJSON(ctx, client, "/user/emails", &emails); err != nil {
		return "", err
	}

	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email, nil
		}
	}
	return "", nil
}

func (g *GithubProvider) getJSON(ctx context.Context, client *http.Client, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.apiBase+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("github api error (%d): %s", resp.StatusCode, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
