// Command pcs-mcp exposes the pcs-server API as MCP tools over stdio.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/use-agent/pcstats/config"
)

// parseRequest mirrors the pcs API request model.
type parseRequest struct {
	URL    string   `json:"url"`
	Fields []string `json:"fields,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// parseResponse mirrors the pcs API response model.
type parseResponse struct {
	Success    bool            `json:"success"`
	Identifier string          `json:"identifier"`
	Kind       string          `json:"kind"`
	Data       json.RawMessage `json:"data"`
	Error      *apiError       `json:"error"`
}

// fieldsResponse mirrors the pcs fields API response.
type fieldsResponse struct {
	Success    bool      `json:"success"`
	Identifier string    `json:"identifier"`
	Kind       string    `json:"kind"`
	Fields     []string  `json:"fields"`
	Error      *apiError `json:"error"`
}

func main() {
	cfg := config.Load().MCP
	if cfg.APIKey == "" {
		fmt.Fprintln(os.Stderr, "PCS_API_KEY is required")
		os.Exit(1)
	}

	s := server.NewMCPServer(
		"pcstats",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	parsePageTool := mcp.NewTool("parse_page",
		mcp.WithDescription("Parse a procyclingstats.com page (rider, team, ranking, stage or combative riders) and return its fields as JSON. Tables come back as arrays of objects."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("Page URL, absolute or relative to the site root, e.g. 'rider/tadej-pogacar' or 'race/tour-de-france/2024/stage-4'"),
		),
		mcp.WithArray("fields",
			mcp.Description("Fields to return (default: all). Use list_fields to see what a page offers."),
		),
	)
	s.AddTool(parsePageTool, handleParsePage(cfg.APIURL, cfg.APIKey))

	listFieldsTool := mcp.NewTool("list_fields",
		mcp.WithDescription("List the fields parse_page can return for a page, without fetching it."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("Page URL, absolute or relative to the site root"),
		),
	)
	s.AddTool(listFieldsTool, handleListFields(cfg.APIURL, cfg.APIKey))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

// apiDo sends req with the API key and returns the response body.
func apiDo(client *http.Client, req *http.Request, apiKey string) ([]byte, error) {
	req.Header.Set("X-API-Key", apiKey)
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

func errorText(e *apiError, fallback string) string {
	if e == nil {
		return fallback
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func handleParsePage(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 120 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		pageURL, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}
		fields := request.GetStringSlice("fields", nil)

		body, err := json.Marshal(parseRequest{URL: pageURL, Fields: fields})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal request: %v", err)), nil
		}
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL+"/api/v1/parse", bytes.NewReader(body))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to create request: %v", err)), nil
		}
		httpReq.Header.Set("Content-Type", "application/json")

		respBody, err := apiDo(client, httpReq, apiKey)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var parseResp parseResponse
		if err := json.Unmarshal(respBody, &parseResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}
		if !parseResp.Success {
			return mcp.NewToolResultError(errorText(parseResp.Error, "parse failed")), nil
		}

		var prettyData bytes.Buffer
		if err := json.Indent(&prettyData, parseResp.Data, "", "  "); err != nil {
			prettyData.Write(parseResp.Data)
		}
		result := fmt.Sprintf("Page: %s (%s)\n\n%s", parseResp.Identifier, parseResp.Kind, prettyData.String())
		return mcp.NewToolResultText(result), nil
	}
}

func handleListFields(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 30 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		pageURL, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}

		endpoint := apiURL + "/api/v1/fields?url=" + url.QueryEscape(pageURL)
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to create request: %v", err)), nil
		}

		respBody, err := apiDo(client, httpReq, apiKey)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var fieldsResp fieldsResponse
		if err := json.Unmarshal(respBody, &fieldsResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}
		if !fieldsResp.Success {
			return mcp.NewToolResultError(errorText(fieldsResp.Error, "listing fields failed")), nil
		}

		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("%s (%s) has %d fields:\n\n", fieldsResp.Identifier, fieldsResp.Kind, len(fieldsResp.Fields)))
		for _, f := range fieldsResp.Fields {
			sb.WriteString(f + "\n")
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}
