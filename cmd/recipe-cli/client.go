package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type named struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type recipeSummary struct {
	ID          uint    `json:"id"`
	Title       string  `json:"title"`
	TimeMinutes int     `json:"time_minutes"`
	Price       string  `json:"price"`
	Link        string  `json:"link"`
	Tags        []named `json:"tags"`
	Ingredients []named `json:"ingredients"`
}

type recipeDetail struct {
	recipeSummary
	Description string  `json:"description"`
	Image       *string `json:"image"`
}

// apiClient talks to the recipe server with a user token.
type apiClient struct {
	baseURL string
	http    *http.Client
	token   string
}

func newAPIClient(baseURL string) *apiClient {
	return &apiClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *apiClient) login(email, password string) error {
	payload := map[string]string{
		"email":    email,
		"password": password,
	}
	var result struct {
		Token string `json:"token"`
	}
	if err := c.do(http.MethodPost, "/user/token/", payload, &result); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if result.Token == "" {
		return fmt.Errorf("login failed: no token in response")
	}
	c.token = result.Token
	return nil
}

func (c *apiClient) listRecipes() ([]recipeSummary, error) {
	var recipes []recipeSummary
	if err := c.do(http.MethodGet, "/recipe/recipes/", nil, &recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

func (c *apiClient) getRecipe(id uint) (*recipeDetail, error) {
	var recipe recipeDetail
	if err := c.do(http.MethodGet, fmt.Sprintf("/recipe/recipes/%d/", id), nil, &recipe); err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (c *apiClient) do(method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Token "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("server not reachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error  string              `json:"error"`
			Fields map[string][]string `json:"fields"`
		}
		raw, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			for _, msgs := range apiErr.Fields {
				return fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.Join(msgs, " "))
			}
			return fmt.Errorf("server returned %d: %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
