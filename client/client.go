package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/a-h/jsonapi"
	"github.com/plurag/plurag/models"
	"github.com/plurag/plurag/planning"
)

func New(baseURL, apiKey string) Client {
	return Client{
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

type Client struct {
	baseURL string
	apiKey  string
}

func (c Client) DocumentsPut(ctx context.Context, req models.DocumentsPostRequest) (resp models.DocumentsPostResponse, err error) {
	url, err := jsonapi.URL(c.baseURL).Path("documents").String()
	if err != nil {
		return resp, err
	}
	return jsonapi.Post[models.DocumentsPostRequest, models.DocumentsPostResponse](ctx, url, req, jsonapi.WithRequestHeader("Authorization", c.apiKey))
}

func (c Client) ContextPost(ctx context.Context, req models.ContextPostRequest) (resp models.ContextPostResponse, err error) {
	url, err := jsonapi.URL(c.baseURL).Path("context").String()
	if err != nil {
		return resp, err
	}
	return jsonapi.Post[models.ContextPostRequest, models.ContextPostResponse](ctx, url, req, jsonapi.WithRequestHeader("Authorization", c.apiKey))
}

func (c Client) QueryPost(ctx context.Context, req models.QueryPostRequest) (resp models.QueryPostResponse, err error) {
	url, err := jsonapi.URL(c.baseURL).Path("query").String()
	if err != nil {
		return resp, err
	}
	return jsonapi.Post[models.QueryPostRequest, models.QueryPostResponse](ctx, url, req, jsonapi.WithRequestHeader("Authorization", c.apiKey))
}

func (c Client) ChatPost(ctx context.Context, request models.ChatPostRequest, f func(ctx context.Context, chunk []byte) error) (err error) {
	url, err := jsonapi.URL(c.baseURL).Path("chat").String()
	if err != nil {
		return err
	}
	return c.postStream(ctx, url, request, f)
}

func (c Client) ZonageGet(ctx context.Context, commune, parcelle string) (resp planning.ParcelZoning, err error) {
	url, err := jsonapi.URL(c.baseURL).Path("zonage", commune, parcelle).String()
	if err != nil {
		return resp, err
	}
	resp, _, err = jsonapi.Get[planning.ParcelZoning](ctx, url, jsonapi.WithRequestHeader("Authorization", c.apiKey))
	return resp, err
}

func (c Client) PLUGet(ctx context.Context, commune string) (resp planning.Metadata, err error) {
	url, err := jsonapi.URL(c.baseURL).Path("plu", commune).String()
	if err != nil {
		return resp, err
	}
	resp, _, err = jsonapi.Get[planning.Metadata](ctx, url, jsonapi.WithRequestHeader("Authorization", c.apiKey))
	return resp, err
}

func (c Client) SearchGet(ctx context.Context, q string) (resp models.SearchGetResponse, err error) {
	url, err := jsonapi.URL(c.baseURL).Path("documents", "search").Query(map[string]string{"q": q}).String()
	if err != nil {
		return resp, err
	}
	resp, _, err = jsonapi.Get[models.SearchGetResponse](ctx, url, jsonapi.WithRequestHeader("Authorization", c.apiKey))
	return resp, err
}

func (c Client) StatsGet(ctx context.Context) (resp models.StatsGetResponse, err error) {
	url, err := jsonapi.URL(c.baseURL).Path("stats").String()
	if err != nil {
		return resp, err
	}
	resp, _, err = jsonapi.Get[models.StatsGetResponse](ctx, url, jsonapi.WithRequestHeader("Authorization", c.apiKey))
	return resp, err
}

func (c Client) HealthGet(ctx context.Context) (resp models.HealthGetResponse, err error) {
	url, err := jsonapi.URL(c.baseURL).Path("health").String()
	if err != nil {
		return resp, err
	}
	resp, _, err = jsonapi.Get[models.HealthGetResponse](ctx, url)
	return resp, err
}

func (c Client) CacheClear(ctx context.Context) (resp models.CacheDeleteResponse, err error) {
	url, err := jsonapi.URL(c.baseURL).Path("cache").String()
	if err != nil {
		return resp, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return resp, err
	}
	return do[models.CacheDeleteResponse](c, httpReq)
}

func (c Client) IndexRefresh(ctx context.Context) (resp models.IndexRefreshPostResponse, err error) {
	url, err := jsonapi.URL(c.baseURL).Path("index/refresh").String()
	if err != nil {
		return resp, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return resp, err
	}
	return do[models.IndexRefreshPostResponse](c, httpReq)
}

func do[T any](c Client, httpReq *http.Request) (resp T, err error) {
	res, err := jsonapi.Raw(httpReq, jsonapi.WithRequestHeader("Authorization", c.apiKey))
	if err != nil {
		return resp, fmt.Errorf("failed to perform HTTP request: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		body, _ := io.ReadAll(res.Body)
		return resp, jsonapi.InvalidStatusError{
			Status: res.StatusCode,
			Body:   string(body),
		}
	}
	err = json.NewDecoder(res.Body).Decode(&resp)
	return resp, err
}

func (c Client) postStream(ctx context.Context, url string, req any, f func(ctx context.Context, chunk []byte) error) (err error) {
	buf, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(buf))
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	res, err := jsonapi.Raw(httpReq, jsonapi.WithRequestHeader("Authorization", c.apiKey))
	if err != nil {
		return fmt.Errorf("failed to perform HTTP request: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		body, _ := io.ReadAll(res.Body)
		return jsonapi.InvalidStatusError{
			Status: res.StatusCode,
			Body:   string(body),
		}
	}
	for {
		chunk := make([]byte, 1024)
		n, err := res.Body.Read(chunk)
		if err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("failed to read response body: %w", err)
		}
		if err := f(ctx, chunk[:n]); err != nil {
			return fmt.Errorf("failed to process chunk: %w", err)
		}
	}
	return nil
}
